package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/gamedepot/internal/models"

	"gorm.io/gorm"
)

// OfferRepository 优惠活动数据访问接口
type OfferRepository interface {
	List(filter OfferListFilter) ([]models.Offer, int64, error)
	GetByID(id uint) (*models.Offer, error)
	Create(offer *models.Offer) error
	Update(offer *models.Offer) error
	Delete(id uint) error
	AttachProduct(productID, offerID uint) error
	DetachProduct(productID, offerID uint) error
	DetachAll(offerID uint) error
	ListForProduct(productID uint) ([]models.Offer, error)
	ListProductIDs(offerID uint) ([]uint, error)
	ListExpired(now time.Time) ([]models.Offer, error)
	ListProductIDsWithBestOffer(offerIDs []uint) ([]uint, error)
	WithTx(tx *gorm.DB) OfferRepository
}

// GormOfferRepository GORM 实现
type GormOfferRepository struct {
	db *gorm.DB
}

// NewOfferRepository 创建优惠活动仓库
func NewOfferRepository(db *gorm.DB) *GormOfferRepository {
	return &GormOfferRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOfferRepository) WithTx(tx *gorm.DB) OfferRepository {
	if tx == nil {
		return r
	}
	return &GormOfferRepository{db: tx}
}

// List 优惠活动列表
func (r *GormOfferRepository) List(filter OfferListFilter) ([]models.Offer, int64, error) {
	var offers []models.Offer
	query := r.db.Model(&models.Offer{})

	if filter.TargetKind != "" {
		query = query.Where("target_kind = ?", filter.TargetKind)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("id desc").Find(&offers).Error; err != nil {
		return nil, 0, err
	}
	return offers, total, nil
}

// GetByID 根据 ID 获取优惠活动
func (r *GormOfferRepository) GetByID(id uint) (*models.Offer, error) {
	var offer models.Offer
	if err := r.db.First(&offer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &offer, nil
}

// Create 创建优惠活动
func (r *GormOfferRepository) Create(offer *models.Offer) error {
	return r.db.Create(offer).Error
}

// Update 更新优惠活动
func (r *GormOfferRepository) Update(offer *models.Offer) error {
	return r.db.Save(offer).Error
}

// Delete 删除优惠活动
func (r *GormOfferRepository) Delete(id uint) error {
	return r.db.Delete(&models.Offer{}, id).Error
}

// AttachProduct 建立商品与优惠活动的关联，position 按商品维度递增，
// 保留插入顺序供同折扣平手时裁决。
func (r *GormOfferRepository) AttachProduct(productID, offerID uint) error {
	if productID == 0 || offerID == 0 {
		return errors.New("invalid offer attach params")
	}
	var maxPos int
	if err := r.db.Model(&models.ProductOffer{}).
		Where("product_id = ?", productID).
		Select("COALESCE(MAX(position), 0)").
		Scan(&maxPos).Error; err != nil {
		return err
	}
	link := models.ProductOffer{
		ProductID: productID,
		OfferID:   offerID,
		Position:  maxPos + 1,
	}
	return r.db.Create(&link).Error
}

// DetachProduct 解除商品与优惠活动的关联
func (r *GormOfferRepository) DetachProduct(productID, offerID uint) error {
	return r.db.Where("product_id = ? AND offer_id = ?", productID, offerID).
		Delete(&models.ProductOffer{}).Error
}

// DetachAll 解除优惠活动的全部商品关联
func (r *GormOfferRepository) DetachAll(offerID uint) error {
	return r.db.Where("offer_id = ?", offerID).
		Delete(&models.ProductOffer{}).Error
}

// ListForProduct 获取商品关联的优惠活动，按关联插入顺序返回
func (r *GormOfferRepository) ListForProduct(productID uint) ([]models.Offer, error) {
	var offers []models.Offer
	if err := r.db.Model(&models.Offer{}).
		Joins("JOIN product_offers po ON po.offer_id = offers.id").
		Where("po.product_id = ?", productID).
		Order("po.position ASC").
		Find(&offers).Error; err != nil {
		return nil, err
	}
	return offers, nil
}

// ListProductIDs 获取优惠活动关联的全部商品 ID
func (r *GormOfferRepository) ListProductIDs(offerID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.Model(&models.ProductOffer{}).
		Where("offer_id = ?", offerID).
		Pluck("product_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// ListExpired 获取已到期的优惠活动
func (r *GormOfferRepository) ListExpired(now time.Time) ([]models.Offer, error) {
	var offers []models.Offer
	if err := r.db.Where("ends_at IS NOT NULL AND ends_at <= ?", now).
		Find(&offers).Error; err != nil {
		return nil, err
	}
	return offers, nil
}

// ListProductIDsWithBestOffer 获取最优优惠命中指定活动的商品 ID
func (r *GormOfferRepository) ListProductIDsWithBestOffer(offerIDs []uint) ([]uint, error) {
	if len(offerIDs) == 0 {
		return []uint{}, nil
	}
	var ids []uint
	if err := r.db.Model(&models.Product{}).
		Where("best_offer_id IN ?", offerIDs).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

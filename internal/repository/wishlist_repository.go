package repository

import (
	"errors"

	"github.com/gamedepot/internal/models"

	"gorm.io/gorm"
)

// WishlistRepository 收藏夹数据访问接口
type WishlistRepository interface {
	ListByUser(userID uint) ([]models.WishlistItem, error)
	GetByUserAndProduct(userID, productID uint) (*models.WishlistItem, error)
	Create(item *models.WishlistItem) error
	Delete(userID, productID uint) error
	WithTx(tx *gorm.DB) WishlistRepository
}

// GormWishlistRepository GORM 实现
type GormWishlistRepository struct {
	db *gorm.DB
}

// NewWishlistRepository 创建收藏夹仓库
func NewWishlistRepository(db *gorm.DB) *GormWishlistRepository {
	return &GormWishlistRepository{db: db}
}

// WithTx 绑定事务
func (r *GormWishlistRepository) WithTx(tx *gorm.DB) WishlistRepository {
	if tx == nil {
		return r
	}
	return &GormWishlistRepository{db: tx}
}

// ListByUser 用户收藏列表
func (r *GormWishlistRepository) ListByUser(userID uint) ([]models.WishlistItem, error) {
	var items []models.WishlistItem
	if err := r.db.Preload("Product").
		Where("user_id = ?", userID).
		Order("id desc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetByUserAndProduct 获取用户对指定商品的收藏
func (r *GormWishlistRepository) GetByUserAndProduct(userID, productID uint) (*models.WishlistItem, error) {
	var item models.WishlistItem
	if err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// Create 创建收藏
func (r *GormWishlistRepository) Create(item *models.WishlistItem) error {
	return r.db.Create(item).Error
}

// Delete 取消收藏
func (r *GormWishlistRepository) Delete(userID, productID uint) error {
	return r.db.Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.WishlistItem{}).Error
}

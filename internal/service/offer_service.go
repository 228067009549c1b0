package service

import (
	"strings"
	"time"

	"github.com/gamedepot/internal/constants"
	"github.com/gamedepot/internal/logger"
	"github.com/gamedepot/internal/models"
	"github.com/gamedepot/internal/queue"
	"github.com/gamedepot/internal/repository"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
)

// OfferService 优惠活动解析服务：在活动/商品变更后重算商品的最优活动
// 与折后价缓存，并负责到期活动的周期性清扫。
type OfferService struct {
	offerRepo   repository.OfferRepository
	productRepo repository.ProductRepository
	queueClient *queue.Client
}

// NewOfferService 创建优惠活动服务
func NewOfferService(offerRepo repository.OfferRepository, productRepo repository.ProductRepository, queueClient *queue.Client) *OfferService {
	return &OfferService{
		offerRepo:   offerRepo,
		productRepo: productRepo,
		queueClient: queueClient,
	}
}

// ResolveBestOffer 重算并回写单个商品的最优活动与折后价。
// 商品已不存在时静默返回：活动编辑与商品删除可能并发发生。
// 同额折扣按关联挂载顺序先挂先胜。
func (s *OfferService) ResolveBestOffer(productID uint) error {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil {
		return nil
	}

	offers, err := s.offerRepo.ListForProduct(productID)
	if err != nil {
		return err
	}

	now := time.Now()
	var best *models.Offer
	var bestDiscount models.Money
	for i := range offers {
		offer := &offers[i]
		if !offer.ActiveAt(now) {
			continue
		}
		discount := OfferDiscountAmount(product.Price, offer.DiscountType, offer.DiscountValue)
		// 严格大于才替换，保持先挂先胜
		if best == nil || discount.Decimal.GreaterThan(bestDiscount.Decimal) {
			best = offer
			bestDiscount = discount
		}
	}

	if best == nil {
		return s.productRepo.UpdateBestOffer(productID, nil, nil)
	}

	discounted := product.Price.Decimal.Sub(bestDiscount.Decimal)
	if discounted.LessThan(decimal.Zero) {
		discounted = decimal.Zero
	}
	price := models.NewMoneyFromDecimal(discounted)
	offerID := best.ID
	return s.productRepo.UpdateBestOffer(productID, &offerID, &price)
}

// CreateOffer 创建优惠活动并挂载到目标商品（品牌活动扇出到品牌下全部商品），
// 随后重算受影响商品。
func (s *OfferService) CreateOffer(offer *models.Offer) error {
	if err := s.validateOffer(offer); err != nil {
		return err
	}
	if err := s.offerRepo.Create(offer); err != nil {
		return err
	}

	productIDs, err := s.targetProductIDs(offer.Target)
	if err != nil {
		return err
	}
	for _, pid := range productIDs {
		if err := s.offerRepo.AttachProduct(pid, offer.ID); err != nil {
			return err
		}
	}
	s.resolveAll(productIDs)
	s.scheduleExpirySweep(offer)
	return nil
}

// UpdateOffer 更新优惠活动并重算全部受影响商品。
// 目标不允许变更，仅折扣、时间窗口与开关可编辑。
func (s *OfferService) UpdateOffer(offer *models.Offer) error {
	if err := s.validateOffer(offer); err != nil {
		return err
	}
	if err := s.offerRepo.Update(offer); err != nil {
		return err
	}
	if err := s.resolveAttached(offer.ID); err != nil {
		return err
	}
	s.scheduleExpirySweep(offer)
	return nil
}

// DeleteOffer 删除优惠活动：解除全部商品关联后重算
func (s *OfferService) DeleteOffer(offerID uint) error {
	offer, err := s.offerRepo.GetByID(offerID)
	if err != nil {
		return err
	}
	if offer == nil {
		return ErrOfferNotFound
	}

	productIDs, err := s.offerRepo.ListProductIDs(offerID)
	if err != nil {
		return err
	}
	if err := s.offerRepo.DetachAll(offerID); err != nil {
		return err
	}
	if err := s.offerRepo.Delete(offerID); err != nil {
		return err
	}
	s.resolveAll(productIDs)
	return nil
}

// GetOffer 获取优惠活动
func (s *OfferService) GetOffer(offerID uint) (*models.Offer, error) {
	offer, err := s.offerRepo.GetByID(offerID)
	if err != nil {
		return nil, err
	}
	if offer == nil {
		return nil, ErrOfferNotFound
	}
	return offer, nil
}

// ListOffers 优惠活动列表
func (s *OfferService) ListOffers(filter repository.OfferListFilter) ([]models.Offer, int64, error) {
	return s.offerRepo.List(filter)
}

// OnProductCreated 商品创建后挂载已有的品牌级活动并重算
func (s *OfferService) OnProductCreated(product *models.Product) error {
	if product == nil || product.BrandID == 0 {
		return nil
	}
	active := true
	offers, _, err := s.offerRepo.List(repository.OfferListFilter{
		TargetKind: constants.OfferTargetBrand,
		IsActive:   &active,
	})
	if err != nil {
		return err
	}
	attached := false
	for _, offer := range offers {
		if offer.Target.RefID != product.BrandID {
			continue
		}
		if err := s.offerRepo.AttachProduct(product.ID, offer.ID); err != nil {
			return err
		}
		attached = true
	}
	if !attached {
		return nil
	}
	return s.ResolveBestOffer(product.ID)
}

// SweepExpiredOffers 周期清扫：停用已到期的活动并重算引用过它们的商品。
// 与请求内的重算并发时按后写覆盖处理，双方收敛到同一重算结果。
func (s *OfferService) SweepExpiredOffers(now time.Time) (int, error) {
	expired, err := s.offerRepo.ListExpired(now)
	if err != nil {
		return 0, err
	}

	affected := make(map[uint]struct{})
	var expiredIDs []uint
	for i := range expired {
		offer := &expired[i]
		expiredIDs = append(expiredIDs, offer.ID)
		if offer.IsActive {
			offer.IsActive = false
			if err := s.offerRepo.Update(offer); err != nil {
				return 0, err
			}
		}
		ids, err := s.offerRepo.ListProductIDs(offer.ID)
		if err != nil {
			return 0, err
		}
		for _, pid := range ids {
			affected[pid] = struct{}{}
		}
	}

	// 兜底：best_offer_id 仍指向到期活动但关联已被解除的商品
	stale, err := s.offerRepo.ListProductIDsWithBestOffer(expiredIDs)
	if err != nil {
		return 0, err
	}
	for _, pid := range stale {
		affected[pid] = struct{}{}
	}

	for pid := range affected {
		if err := s.ResolveBestOffer(pid); err != nil {
			logger.Errorw("offer_sweep_resolve_failed",
				"product_id", pid,
				"error", err.Error(),
			)
		}
	}
	return len(affected), nil
}

// validateOffer 校验折扣数值与时间窗口
func (s *OfferService) validateOffer(offer *models.Offer) error {
	if offer == nil || strings.TrimSpace(offer.Name) == "" {
		return ErrInvalidParams
	}
	switch offer.DiscountType {
	case constants.DiscountTypePercent:
		if offer.DiscountValue.Decimal.LessThanOrEqual(decimal.Zero) ||
			offer.DiscountValue.Decimal.GreaterThan(decimal.NewFromInt(100)) {
			return ErrOfferInvalidValue
		}
	case constants.DiscountTypeFixed:
		if offer.DiscountValue.Decimal.LessThanOrEqual(decimal.Zero) {
			return ErrOfferInvalidValue
		}
		// 商品级固定额折扣不得超过目标商品原价
		if offer.Target.IsProduct() {
			product, err := s.productRepo.GetByID(offer.Target.RefID)
			if err != nil {
				return err
			}
			if product != nil && offer.DiscountValue.Decimal.GreaterThan(product.Price.Decimal) {
				return ErrOfferInvalidValue
			}
		}
	default:
		return ErrOfferInvalidValue
	}
	if offer.StartsAt != nil && offer.EndsAt != nil && offer.EndsAt.Before(*offer.StartsAt) {
		return ErrOfferInvalidWindow
	}
	if !offer.Target.IsProduct() && !offer.Target.IsBrand() {
		return ErrOfferTargetInvalid
	}
	if offer.Target.RefID == 0 {
		return ErrOfferTargetInvalid
	}
	return nil
}

// targetProductIDs 解析活动目标覆盖的商品集合
func (s *OfferService) targetProductIDs(target models.OfferTarget) ([]uint, error) {
	if target.IsProduct() {
		product, err := s.productRepo.GetByID(target.RefID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, ErrProductNotFound
		}
		return []uint{product.ID}, nil
	}
	return s.productRepo.ListIDsByBrand(target.RefID)
}

// scheduleExpirySweep 为有结束时间的活动预约一次到期清扫，
// 让折后价在窗口结束后立即回收而不等待周期清扫。入队失败仅告警，
// 周期清扫仍会兜底。
func (s *OfferService) scheduleExpirySweep(offer *models.Offer) {
	if !s.queueClient.Enabled() || offer == nil || offer.EndsAt == nil || !offer.IsActive {
		return
	}
	if !offer.EndsAt.After(time.Now()) {
		return
	}
	err := s.queueClient.EnqueueOfferResweep(queue.OfferResweepPayload{},
		asynq.ProcessAt(offer.EndsAt.Add(time.Minute)))
	if err != nil {
		logger.Warnw("offer_expiry_sweep_enqueue_failed",
			"offer_id", offer.ID,
			"error", err.Error(),
		)
	}
}

// resolveAttached 重算活动当前关联的全部商品
func (s *OfferService) resolveAttached(offerID uint) error {
	productIDs, err := s.offerRepo.ListProductIDs(offerID)
	if err != nil {
		return err
	}
	s.resolveAll(productIDs)
	return nil
}

func (s *OfferService) resolveAll(productIDs []uint) {
	for _, pid := range productIDs {
		if err := s.ResolveBestOffer(pid); err != nil {
			logger.Errorw("offer_resolve_failed",
				"product_id", pid,
				"error", err.Error(),
			)
		}
	}
}

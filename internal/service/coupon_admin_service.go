package service

import (
	"strings"

	"github.com/gamedepot/internal/constants"
	"github.com/gamedepot/internal/models"
	"github.com/gamedepot/internal/repository"

	"github.com/shopspring/decimal"
)

// CouponAdminService 优惠券管理服务
type CouponAdminService struct {
	couponRepo repository.CouponRepository
}

// NewCouponAdminService 创建优惠券管理服务
func NewCouponAdminService(couponRepo repository.CouponRepository) *CouponAdminService {
	return &CouponAdminService{couponRepo: couponRepo}
}

// List 优惠券列表
func (s *CouponAdminService) List(filter repository.CouponListFilter) ([]models.Coupon, int64, error) {
	return s.couponRepo.List(filter)
}

// Get 获取优惠券
func (s *CouponAdminService) Get(id uint) (*models.Coupon, error) {
	coupon, err := s.couponRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	return coupon, nil
}

// Create 创建优惠券，优惠码统一大写存储
func (s *CouponAdminService) Create(coupon *models.Coupon) error {
	if err := validateCoupon(coupon); err != nil {
		return err
	}
	coupon.Code = strings.ToUpper(strings.TrimSpace(coupon.Code))
	existing, err := s.couponRepo.GetByCode(coupon.Code)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrCouponCodeExists
	}
	return s.couponRepo.Create(coupon)
}

// Update 更新优惠券
func (s *CouponAdminService) Update(coupon *models.Coupon) error {
	if coupon == nil || coupon.ID == 0 {
		return ErrInvalidParams
	}
	if err := validateCoupon(coupon); err != nil {
		return err
	}
	existing, err := s.couponRepo.GetByID(coupon.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrCouponNotFound
	}
	coupon.Code = strings.ToUpper(strings.TrimSpace(coupon.Code))
	if coupon.Code != existing.Code {
		byCode, err := s.couponRepo.GetByCode(coupon.Code)
		if err != nil {
			return err
		}
		if byCode != nil && byCode.ID != coupon.ID {
			return ErrCouponCodeExists
		}
	}
	coupon.UsedCount = existing.UsedCount
	return s.couponRepo.Update(coupon)
}

// Delete 删除优惠券
func (s *CouponAdminService) Delete(id uint) error {
	coupon, err := s.couponRepo.GetByID(id)
	if err != nil {
		return err
	}
	if coupon == nil {
		return ErrCouponNotFound
	}
	return s.couponRepo.Delete(id)
}

// validateCoupon 按字段返回对应的校验错误，便于管理端区分失败原因
func validateCoupon(coupon *models.Coupon) error {
	if coupon == nil {
		return ErrCouponInvalid
	}
	if strings.TrimSpace(coupon.Code) == "" {
		return ErrCouponCodeRequired
	}
	switch coupon.DiscountType {
	case constants.DiscountTypePercent:
		if coupon.DiscountValue.Decimal.LessThanOrEqual(decimal.Zero) ||
			coupon.DiscountValue.Decimal.GreaterThan(decimal.NewFromInt(100)) {
			return ErrCouponInvalidValue
		}
	case constants.DiscountTypeFixed:
		if coupon.DiscountValue.Decimal.LessThanOrEqual(decimal.Zero) {
			return ErrCouponInvalidValue
		}
	default:
		return ErrCouponInvalidValue
	}
	if coupon.MinOrderAmount.Decimal.LessThan(decimal.Zero) ||
		coupon.MaxDiscount.Decimal.LessThan(decimal.Zero) {
		return ErrCouponInvalidAmount
	}
	if coupon.UsageLimit < 0 || coupon.PerUserLimit < 0 {
		return ErrCouponInvalidLimit
	}
	if coupon.StartsAt != nil && coupon.EndsAt != nil && coupon.EndsAt.Before(*coupon.StartsAt) {
		return ErrCouponInvalidWindow
	}
	return nil
}

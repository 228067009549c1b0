package service

import (
	"strings"
	"time"

	"github.com/gamedepot/internal/constants"
	"github.com/gamedepot/internal/models"
	"github.com/gamedepot/internal/repository"

	"github.com/shopspring/decimal"
)

// CouponService 优惠券服务
type CouponService struct {
	couponRepo repository.CouponRepository
	usageRepo  repository.CouponUsageRepository
}

// NewCouponService 创建优惠券服务
func NewCouponService(couponRepo repository.CouponRepository, usageRepo repository.CouponUsageRepository) *CouponService {
	return &CouponService{
		couponRepo: couponRepo,
		usageRepo:  usageRepo,
	}
}

// ApplyCoupon 校验优惠码并计算折扣金额。
// 折扣按折前行合计计算，百分比受最大优惠额封顶，
// 任何情况下不超过小计本身。
func (s *CouponService) ApplyCoupon(subtotal models.Money, code string, userID uint) (models.Money, *models.Coupon, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return models.Money{}, nil, ErrCouponInvalid
	}

	coupon, err := s.couponRepo.GetByCode(trimmed)
	if err != nil {
		return models.Money{}, nil, err
	}
	if coupon == nil {
		return models.Money{}, nil, ErrCouponNotFound
	}
	if !coupon.IsActive {
		return models.Money{}, coupon, ErrCouponInactive
	}

	now := time.Now()
	if coupon.StartsAt != nil && now.Before(*coupon.StartsAt) {
		return models.Money{}, coupon, ErrCouponNotStarted
	}
	if coupon.EndsAt != nil && now.After(*coupon.EndsAt) {
		return models.Money{}, coupon, ErrCouponExpired
	}

	if coupon.UsageLimit > 0 && coupon.UsedCount >= coupon.UsageLimit {
		return models.Money{}, coupon, ErrCouponUsageLimit
	}

	if coupon.PerUserLimit > 0 && userID != 0 {
		count, err := s.usageRepo.CountByUser(coupon.ID, userID)
		if err != nil {
			return models.Money{}, coupon, err
		}
		if int(count) >= coupon.PerUserLimit {
			return models.Money{}, coupon, ErrCouponPerUserLimit
		}
	}

	if subtotal.Decimal.LessThan(coupon.MinOrderAmount.Decimal) {
		return models.Money{}, coupon, ErrCouponMinAmount
	}

	var discount decimal.Decimal
	switch coupon.DiscountType {
	case constants.DiscountTypePercent:
		discount = subtotal.Decimal.Mul(coupon.DiscountValue.Decimal).Div(decimal.NewFromInt(100))
		if coupon.MaxDiscount.Decimal.GreaterThan(decimal.Zero) && discount.GreaterThan(coupon.MaxDiscount.Decimal) {
			discount = coupon.MaxDiscount.Decimal
		}
	case constants.DiscountTypeFixed:
		discount = coupon.DiscountValue.Decimal
	default:
		return models.Money{}, coupon, ErrCouponInvalid
	}

	if discount.GreaterThan(subtotal.Decimal) {
		discount = subtotal.Decimal
	}
	if discount.LessThan(decimal.Zero) {
		discount = decimal.Zero
	}

	return models.NewMoneyFromDecimal(discount), coupon, nil
}

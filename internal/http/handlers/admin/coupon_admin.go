package admin

import (
	"errors"
	"strings"
	"time"

	"github.com/gamedepot/internal/http/response"
	"github.com/gamedepot/internal/models"
	"github.com/gamedepot/internal/repository"
	"github.com/gamedepot/internal/service"

	"github.com/gin-gonic/gin"
)

// CouponRequest 优惠券创建/更新请求
type CouponRequest struct {
	Code           string       `json:"code" binding:"required"`
	DiscountType   string       `json:"discount_type" binding:"required"`
	DiscountValue  models.Money `json:"discount_value" binding:"required"`
	MinOrderAmount models.Money `json:"min_order_amount"`
	MaxDiscount    models.Money `json:"max_discount"`
	UsageLimit     int          `json:"usage_limit"`
	PerUserLimit   int          `json:"per_user_limit"`
	StartsAt       *time.Time   `json:"starts_at"`
	EndsAt         *time.Time   `json:"ends_at"`
	IsActive       bool         `json:"is_active"`
}

func (r *CouponRequest) toModel() *models.Coupon {
	return &models.Coupon{
		Code:           r.Code,
		DiscountType:   strings.ToLower(strings.TrimSpace(r.DiscountType)),
		DiscountValue:  r.DiscountValue,
		MinOrderAmount: r.MinOrderAmount,
		MaxDiscount:    r.MaxDiscount,
		UsageLimit:     r.UsageLimit,
		PerUserLimit:   r.PerUserLimit,
		StartsAt:       r.StartsAt,
		EndsAt:         r.EndsAt,
		IsActive:       r.IsActive,
	}
}

func respondCouponSaveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCouponCodeExists):
		respondError(c, response.CodeBadRequest, "coupon code already exists", nil)
	case errors.Is(err, service.ErrCouponCodeRequired):
		respondError(c, response.CodeBadRequest, "coupon code is required", nil)
	case errors.Is(err, service.ErrCouponInvalidValue):
		respondError(c, response.CodeBadRequest, "coupon discount value is invalid", nil)
	case errors.Is(err, service.ErrCouponInvalidAmount):
		respondError(c, response.CodeBadRequest, "coupon amount limits must not be negative", nil)
	case errors.Is(err, service.ErrCouponInvalidLimit):
		respondError(c, response.CodeBadRequest, "coupon usage limits must not be negative", nil)
	case errors.Is(err, service.ErrCouponInvalidWindow):
		respondError(c, response.CodeBadRequest, "coupon end time must not precede start time", nil)
	case errors.Is(err, service.ErrCouponInvalid):
		respondError(c, response.CodeBadRequest, "invalid coupon", nil)
	case errors.Is(err, service.ErrInvalidParams):
		respondError(c, response.CodeBadRequest, "invalid coupon", nil)
	default:
		respondError(c, response.CodeInternal, "failed to save coupon", err)
	}
}

// GetAdminCoupons 优惠券列表
func (h *Handler) GetAdminCoupons(c *gin.Context) {
	page, pageSize := parsePagination(c)

	filter := repository.CouponListFilter{
		Page:     page,
		PageSize: pageSize,
		Code:     strings.TrimSpace(c.Query("code")),
		IsActive: parseBoolQuery(c, "is_active"),
	}
	coupons, total, err := h.CouponAdminService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load coupons", err)
		return
	}

	response.SuccessWithPage(c, coupons, response.NewPagination(page, pageSize, total))
}

// GetAdminCoupon 优惠券详情
func (h *Handler) GetAdminCoupon(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	coupon, err := h.CouponAdminService.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			respondError(c, response.CodeNotFound, "coupon not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to load coupon", err)
		return
	}

	response.Success(c, coupon)
}

// CreateCoupon 创建优惠券
func (h *Handler) CreateCoupon(c *gin.Context) {
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	coupon := req.toModel()
	if err := h.CouponAdminService.Create(coupon); err != nil {
		respondCouponSaveError(c, err)
		return
	}

	response.Success(c, coupon)
}

// UpdateCoupon 更新优惠券
func (h *Handler) UpdateCoupon(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	coupon := req.toModel()
	coupon.ID = id
	if err := h.CouponAdminService.Update(coupon); err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			respondError(c, response.CodeNotFound, "coupon not found", nil)
			return
		}
		respondCouponSaveError(c, err)
		return
	}

	response.Success(c, coupon)
}

// DeleteCoupon 删除优惠券
func (h *Handler) DeleteCoupon(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.CouponAdminService.Delete(id); err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			respondError(c, response.CodeNotFound, "coupon not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to delete coupon", err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}

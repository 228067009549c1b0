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

// OfferRequest 优惠活动创建/更新请求
type OfferRequest struct {
	Name          string       `json:"name" binding:"required"`
	TargetKind    string       `json:"target_kind" binding:"required"`
	TargetRefID   uint         `json:"target_ref_id" binding:"required"`
	DiscountType  string       `json:"discount_type" binding:"required"`
	DiscountValue models.Money `json:"discount_value" binding:"required"`
	StartsAt      *time.Time   `json:"starts_at"`
	EndsAt        *time.Time   `json:"ends_at"`
	IsActive      bool         `json:"is_active"`
}

func (r *OfferRequest) toModel() *models.Offer {
	return &models.Offer{
		Name: r.Name,
		Target: models.OfferTarget{
			Kind:  strings.ToLower(strings.TrimSpace(r.TargetKind)),
			RefID: r.TargetRefID,
		},
		DiscountType:  strings.ToLower(strings.TrimSpace(r.DiscountType)),
		DiscountValue: r.DiscountValue,
		StartsAt:      r.StartsAt,
		EndsAt:        r.EndsAt,
		IsActive:      r.IsActive,
	}
}

func respondOfferSaveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOfferInvalidValue):
		respondError(c, response.CodeBadRequest, "discount value invalid", nil)
	case errors.Is(err, service.ErrOfferInvalidWindow):
		respondError(c, response.CodeBadRequest, "offer time window invalid", nil)
	case errors.Is(err, service.ErrOfferTargetInvalid):
		respondError(c, response.CodeBadRequest, "offer target invalid", nil)
	case errors.Is(err, service.ErrProductNotFound):
		respondError(c, response.CodeBadRequest, "target product not found", nil)
	case errors.Is(err, service.ErrBrandNotFound):
		respondError(c, response.CodeBadRequest, "target brand not found", nil)
	case errors.Is(err, service.ErrInvalidParams):
		respondError(c, response.CodeBadRequest, "invalid offer", nil)
	default:
		respondError(c, response.CodeInternal, "failed to save offer", err)
	}
}

// GetAdminOffers 活动列表
func (h *Handler) GetAdminOffers(c *gin.Context) {
	page, pageSize := parsePagination(c)

	filter := repository.OfferListFilter{
		Page:       page,
		PageSize:   pageSize,
		TargetKind: c.Query("target_kind"),
		IsActive:   parseBoolQuery(c, "is_active"),
		Search:     strings.TrimSpace(c.Query("search")),
	}
	offers, total, err := h.OfferService.ListOffers(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load offers", err)
		return
	}

	response.SuccessWithPage(c, offers, response.NewPagination(page, pageSize, total))
}

// GetAdminOffer 活动详情
func (h *Handler) GetAdminOffer(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	offer, err := h.OfferService.GetOffer(id)
	if err != nil {
		if errors.Is(err, service.ErrOfferNotFound) {
			respondError(c, response.CodeNotFound, "offer not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to load offer", err)
		return
	}

	response.Success(c, offer)
}

// CreateOffer 创建活动并重算覆盖商品的折后价
func (h *Handler) CreateOffer(c *gin.Context) {
	var req OfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	offer := req.toModel()
	if err := h.OfferService.CreateOffer(offer); err != nil {
		respondOfferSaveError(c, err)
		return
	}

	response.Success(c, offer)
}

// UpdateOffer 更新活动并重算关联商品
func (h *Handler) UpdateOffer(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req OfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	offer := req.toModel()
	offer.ID = id
	if err := h.OfferService.UpdateOffer(offer); err != nil {
		if errors.Is(err, service.ErrOfferNotFound) {
			respondError(c, response.CodeNotFound, "offer not found", nil)
			return
		}
		respondOfferSaveError(c, err)
		return
	}

	response.Success(c, offer)
}

// DeleteOffer 删除活动并清理商品上的派生折扣
func (h *Handler) DeleteOffer(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.OfferService.DeleteOffer(id); err != nil {
		if errors.Is(err, service.ErrOfferNotFound) {
			respondError(c, response.CodeNotFound, "offer not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to delete offer", err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}

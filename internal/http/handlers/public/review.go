package public

import (
	"errors"

	"github.com/gamedepot/internal/http/response"
	"github.com/gamedepot/internal/repository"
	"github.com/gamedepot/internal/service"

	"github.com/gin-gonic/gin"
)

// ReviewRequest 评价请求
type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Content string `json:"content"`
}

// resolveProductBySlug 评价路由以商品 slug 定位商品
func (h *Handler) resolveProductBySlug(c *gin.Context) (uint, bool) {
	product, err := h.ProductService.GetBySlug(c.Param("slug"), true)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "product not found", nil)
			return 0, false
		}
		respondError(c, response.CodeInternal, "failed to load product", err)
		return 0, false
	}
	return product.ID, true
}

// GetProductReviews 获取商品评价列表
func (h *Handler) GetProductReviews(c *gin.Context) {
	productID, ok := h.resolveProductBySlug(c)
	if !ok {
		return
	}
	page, pageSize := parsePagination(c)

	filter := repository.ReviewListFilter{
		Page:      page,
		PageSize:  pageSize,
		ProductID: productID,
	}
	reviews, total, err := h.ReviewService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load reviews", err)
		return
	}

	response.SuccessWithPage(c, reviews, response.NewPagination(page, pageSize, total))
}

// CreateReview 创建商品评价（需订单项已送达）
func (h *Handler) CreateReview(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	productID, ok := h.resolveProductBySlug(c)
	if !ok {
		return
	}
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	review, err := h.ReviewService.Create(uid, productID, req.Rating, req.Content)
	if err != nil {
		respondReviewError(c, err)
		return
	}

	response.Success(c, review)
}

// UpdateReview 更新商品评价
func (h *Handler) UpdateReview(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	productID, ok := h.resolveProductBySlug(c)
	if !ok {
		return
	}
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	review, err := h.ReviewService.Update(uid, productID, req.Rating, req.Content)
	if err != nil {
		respondReviewError(c, err)
		return
	}

	response.Success(c, review)
}

// DeleteReview 删除自己的评价
func (h *Handler) DeleteReview(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	reviewID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.ReviewService.Delete(reviewID, uid); err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			respondError(c, response.CodeNotFound, "review not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to delete review", err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}

func respondReviewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		respondError(c, response.CodeBadRequest, "product not found", nil)
	case errors.Is(err, service.ErrReviewNotAllowed):
		respondError(c, response.CodeBadRequest, "only delivered purchases can be reviewed", nil)
	case errors.Is(err, service.ErrReviewExists):
		respondError(c, response.CodeBadRequest, "product already reviewed", nil)
	case errors.Is(err, service.ErrReviewNotFound):
		respondError(c, response.CodeNotFound, "review not found", nil)
	case errors.Is(err, service.ErrInvalidParams):
		respondError(c, response.CodeBadRequest, "rating must be between 1 and 5", nil)
	default:
		respondError(c, response.CodeInternal, "failed to save review", err)
	}
}

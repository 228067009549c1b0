package public

import (
	"errors"

	"github.com/gamedepot/internal/http/response"
	"github.com/gamedepot/internal/service"

	"github.com/gin-gonic/gin"
)

// WishlistAddRequest 加入收藏请求
type WishlistAddRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

// GetWishlist 获取收藏夹
func (h *Handler) GetWishlist(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	items, err := h.WishlistService.List(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load wishlist", err)
		return
	}

	response.Success(c, gin.H{"items": items})
}

// AddWishlistItem 加入收藏
func (h *Handler) AddWishlistItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req WishlistAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	item, err := h.WishlistService.Add(uid, req.ProductID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			respondError(c, response.CodeBadRequest, "product not found", nil)
		case errors.Is(err, service.ErrWishlistDuplicate):
			respondError(c, response.CodeBadRequest, "product already in wishlist", nil)
		default:
			respondError(c, response.CodeInternal, "failed to update wishlist", err)
		}
		return
	}

	response.Success(c, item)
}

// RemoveWishlistItem 移除收藏
func (h *Handler) RemoveWishlistItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	productID, ok := parseUintParam(c, "product_id")
	if !ok {
		return
	}

	if err := h.WishlistService.Remove(uid, productID); err != nil {
		respondError(c, response.CodeInternal, "failed to update wishlist", err)
		return
	}

	response.Success(c, gin.H{"removed": true})
}

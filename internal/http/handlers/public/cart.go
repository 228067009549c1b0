package public

import (
	"errors"

	"github.com/gamedepot/internal/http/response"
	"github.com/gamedepot/internal/service"

	"github.com/gin-gonic/gin"
)

// CartAddRequest 加入购物车请求
type CartAddRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// CartUpdateRequest 修改购物车数量请求
type CartUpdateRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	items, err := h.CartService.List(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load cart", err)
		return
	}

	response.Success(c, gin.H{"items": items})
}

// AddCartItem 加入购物车（已存在则累加数量）
func (h *Handler) AddCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CartAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	item, err := h.CartService.Add(uid, req.ProductID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			respondError(c, response.CodeBadRequest, "product not found", nil)
		case errors.Is(err, service.ErrInsufficientStock):
			respondError(c, response.CodeBadRequest, "insufficient stock", nil)
		case errors.Is(err, service.ErrInvalidParams):
			respondError(c, response.CodeBadRequest, "invalid quantity", nil)
		default:
			respondError(c, response.CodeInternal, "failed to update cart", err)
		}
		return
	}

	response.Success(c, item)
}

// UpdateCartItem 修改购物车项数量
func (h *Handler) UpdateCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	itemID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req CartUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	item, err := h.CartService.UpdateQuantity(uid, itemID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCartItemNotFound):
			respondError(c, response.CodeNotFound, "cart item not found", nil)
		case errors.Is(err, service.ErrInsufficientStock):
			respondError(c, response.CodeBadRequest, "insufficient stock", nil)
		case errors.Is(err, service.ErrInvalidParams):
			respondError(c, response.CodeBadRequest, "invalid quantity", nil)
		default:
			respondError(c, response.CodeInternal, "failed to update cart", err)
		}
		return
	}

	response.Success(c, item)
}

// RemoveCartItem 移除购物车项
func (h *Handler) RemoveCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	itemID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.CartService.Remove(uid, itemID); err != nil {
		if errors.Is(err, service.ErrCartItemNotFound) {
			respondError(c, response.CodeNotFound, "cart item not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to update cart", err)
		return
	}

	response.Success(c, gin.H{"removed": true})
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	if err := h.CartService.Clear(uid); err != nil {
		respondError(c, response.CodeInternal, "failed to update cart", err)
		return
	}

	response.Success(c, gin.H{"cleared": true})
}

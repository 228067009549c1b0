package admin

import (
	"errors"
	"strings"

	"github.com/gamedepot/internal/http/response"
	"github.com/gamedepot/internal/repository"
	"github.com/gamedepot/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderStatusRequest 管理端订单状态变更请求
type OrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func respondAdminOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		respondError(c, response.CodeNotFound, "order not found", nil)
	case errors.Is(err, service.ErrOrderItemNotFound):
		respondError(c, response.CodeNotFound, "order item not found", nil)
	case errors.Is(err, service.ErrInvalidTransition):
		respondError(c, response.CodeBadRequest, "invalid status transition", nil)
	case errors.Is(err, service.ErrReturnNotRequested):
		respondError(c, response.CodeBadRequest, "no pending return request", nil)
	case errors.Is(err, service.ErrReturnAlreadyHandled):
		respondError(c, response.CodeBadRequest, "return already processed", nil)
	case errors.Is(err, service.ErrInvalidParams):
		respondError(c, response.CodeBadRequest, "invalid request", nil)
	default:
		respondError(c, response.CodeInternal, "failed to update order", err)
	}
}

// GetAdminOrders 订单列表（全量）
func (h *Handler) GetAdminOrders(c *gin.Context) {
	page, pageSize := parsePagination(c)

	filter := repository.OrderListFilter{
		Page:          page,
		PageSize:      pageSize,
		Status:        c.Query("status"),
		OrderNo:       strings.TrimSpace(c.Query("order_no")),
		PaymentStatus: c.Query("payment_status"),
	}
	orders, total, err := h.OrderService.ListOrdersAdmin(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load orders", err)
		return
	}

	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetAdminOrder 订单详情
func (h *Handler) GetAdminOrder(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	order, err := h.OrderService.GetOrderAdmin(id)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "order not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to load order", err)
		return
	}

	response.Success(c, order)
}

// UpdateOrderStatus 推进订单状态（发货/送达）
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req OrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	order, err := h.OrderService.UpdateOrderStatusAdmin(id, req.Status)
	if err != nil {
		respondAdminOrderError(c, err)
		return
	}

	response.Success(c, order)
}

// ApproveReturn 同意退货：退款入钱包并回补库存
func (h *Handler) ApproveReturn(c *gin.Context) {
	orderID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseUintParam(c, "item_id")
	if !ok {
		return
	}

	order, err := h.OrderService.ApproveReturn(orderID, itemID)
	if err != nil {
		respondAdminOrderError(c, err)
		return
	}

	response.Success(c, order)
}

// RejectReturn 拒绝退货
func (h *Handler) RejectReturn(c *gin.Context) {
	orderID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseUintParam(c, "item_id")
	if !ok {
		return
	}

	order, err := h.OrderService.RejectReturn(orderID, itemID)
	if err != nil {
		respondAdminOrderError(c, err)
		return
	}

	response.Success(c, order)
}

package public

import (
	"errors"

	"github.com/gamedepot/internal/http/response"
	"github.com/gamedepot/internal/repository"
	"github.com/gamedepot/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderItemRequest 下单商品项请求
type OrderItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// CreateOrderRequest 下单请求。items 与 from_cart 二选一，
// from_cart 为真时以购物车内容下单并在成功后清空购物车。
type CreateOrderRequest struct {
	Items         []OrderItemRequest `json:"items"`
	FromCart      bool               `json:"from_cart"`
	AddressID     uint               `json:"address_id" binding:"required"`
	PaymentMethod string             `json:"payment_method" binding:"required"`
	CouponCode    string             `json:"coupon_code"`
}

// CreateOrder 创建订单
func (h *Handler) CreateOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	input := service.PlaceOrderInput{
		UserID:        uid,
		AddressID:     req.AddressID,
		PaymentMethod: req.PaymentMethod,
		CouponCode:    req.CouponCode,
	}
	if req.FromCart {
		items, err := h.CartService.CheckoutItems(uid)
		if err != nil {
			if errors.Is(err, service.ErrCartEmpty) {
				respondError(c, response.CodeBadRequest, "cart is empty", nil)
				return
			}
			respondError(c, response.CodeInternal, "failed to create order", err)
			return
		}
		input.Items = items
		input.ClearCart = true
	} else {
		input.Items = make([]service.PlaceOrderItem, 0, len(req.Items))
		for _, item := range req.Items {
			input.Items = append(input.Items, service.PlaceOrderItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			})
		}
	}

	order, err := h.OrderService.PlaceOrder(input)
	if err != nil {
		respondPlaceOrderError(c, err)
		return
	}

	response.Success(c, order)
}

// ListOrders 获取订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := parsePagination(c)

	filter := repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uid,
		Status:   c.Query("status"),
	}
	orders, total, err := h.OrderService.ListOrders(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load orders", err)
		return
	}

	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetOrder 获取订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	order, err := h.OrderService.GetOrder(orderID, uid)
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

// CancelOrder 取消整单
func (h *Handler) CancelOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	order, err := h.OrderService.CancelOrder(orderID, uid)
	if err != nil {
		respondOrderLifecycleError(c, err)
		return
	}

	response.Success(c, order)
}

// CancelOrderItem 取消单个订单项
func (h *Handler) CancelOrderItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseUintParam(c, "item_id")
	if !ok {
		return
	}

	order, err := h.OrderService.CancelOrderItem(orderID, itemID, uid)
	if err != nil {
		respondOrderLifecycleError(c, err)
		return
	}

	response.Success(c, order)
}

// ReturnRequest 退货申请请求
type ReturnRequest struct {
	Reason string `json:"reason"`
}

// RequestReturn 对已送达订单项申请退货
func (h *Handler) RequestReturn(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseUintParam(c, "item_id")
	if !ok {
		return
	}
	// reason 可选，请求体允许为空
	var req ReturnRequest
	_ = c.ShouldBindJSON(&req)

	order, err := h.OrderService.RequestReturn(orderID, itemID, uid, req.Reason)
	if err != nil {
		respondOrderLifecycleError(c, err)
		return
	}

	response.Success(c, order)
}

package public

import (
	"github.com/gamedepot/internal/http/response"
	"github.com/gamedepot/internal/service"

	"github.com/gin-gonic/gin"
)

// CreatePaymentRequest 创建网关支付请求
type CreatePaymentRequest struct {
	OrderID uint `json:"order_id" binding:"required"`
}

// ConfirmPaymentRequest 网关支付确认回调请求
type ConfirmPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
}

// GetPaymentConfig 获取前端发起支付所需的网关公开配置
func (h *Handler) GetPaymentConfig(c *gin.Context) {
	response.Success(c, gin.H{
		"gateway": "razorpay",
		"key_id":  h.PaymentService.GatewayKeyID(),
	})
}

// CreatePayment 为待支付订单创建网关订单
func (h *Handler) CreatePayment(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	gatewayOrder, err := h.PaymentService.CreateGatewayOrder(c.Request.Context(), req.OrderID, uid)
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	response.Success(c, gin.H{
		"gateway_order": gatewayOrder,
		"key_id":        h.PaymentService.GatewayKeyID(),
	})
}

// ConfirmPayment 验签并确认网关支付结果
func (h *Handler) ConfirmPayment(c *gin.Context) {
	var req ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	order, err := h.PaymentService.ConfirmPayment(c.Request.Context(), service.ConfirmPaymentInput{
		GatewayOrderID:   req.RazorpayOrderID,
		GatewayPaymentID: req.RazorpayPaymentID,
		Signature:        req.RazorpaySignature,
	})
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	response.Success(c, order)
}

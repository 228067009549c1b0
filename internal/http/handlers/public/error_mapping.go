package public

import (
	"errors"

	"github.com/gamedepot/internal/http/response"
	"github.com/gamedepot/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var couponErrorRules = []mappedHandlerError{
	{target: service.ErrCouponNotFound, code: response.CodeBadRequest, msg: "coupon not found"},
	{target: service.ErrCouponInactive, code: response.CodeBadRequest, msg: "coupon is not active"},
	{target: service.ErrCouponNotStarted, code: response.CodeBadRequest, msg: "coupon is not yet valid"},
	{target: service.ErrCouponExpired, code: response.CodeBadRequest, msg: "coupon has expired"},
	{target: service.ErrCouponMinAmount, code: response.CodeBadRequest, msg: "order amount below coupon minimum"},
	{target: service.ErrCouponUsageLimit, code: response.CodeBadRequest, msg: "coupon usage limit reached"},
	{target: service.ErrCouponPerUserLimit, code: response.CodeBadRequest, msg: "coupon already used the maximum number of times"},
	{target: service.ErrCouponInvalid, code: response.CodeBadRequest, msg: "coupon invalid"},
}

var placeOrderErrorRules = []mappedHandlerError{
	{target: service.ErrOrderEmpty, code: response.CodeBadRequest, msg: "order has no items"},
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, msg: "cart is empty"},
	{target: service.ErrProductNotFound, code: response.CodeBadRequest, msg: "product not found"},
	{target: service.ErrProductInactive, code: response.CodeBadRequest, msg: "product is not available"},
	{target: service.ErrInsufficientStock, code: response.CodeBadRequest, msg: "insufficient stock"},
	{target: service.ErrAddressNotFound, code: response.CodeBadRequest, msg: "address not found"},
	{target: service.ErrPaymentMethodInvalid, code: response.CodeBadRequest, msg: "payment method invalid"},
	{target: service.ErrWalletInsufficient, code: response.CodeBadRequest, msg: "wallet balance insufficient"},
	{target: service.ErrInvalidParams, code: response.CodeBadRequest, msg: "invalid order input"},
}

var orderLifecycleErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "order not found"},
	{target: service.ErrOrderItemNotFound, code: response.CodeNotFound, msg: "order item not found"},
	{target: service.ErrOrderNotCancellable, code: response.CodeBadRequest, msg: "order can no longer be cancelled"},
	{target: service.ErrItemNotCancellable, code: response.CodeBadRequest, msg: "item can no longer be cancelled"},
	{target: service.ErrItemNotReturnable, code: response.CodeBadRequest, msg: "item is not eligible for return"},
	{target: service.ErrReturnAlreadyHandled, code: response.CodeBadRequest, msg: "return already processed"},
}

var paymentErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "order not found"},
	{target: service.ErrPaymentMethodInvalid, code: response.CodeBadRequest, msg: "payment method invalid"},
	{target: service.ErrPaymentNotPending, code: response.CodeBadRequest, msg: "order is not awaiting payment"},
	{target: service.ErrPaymentAlreadyPaid, code: response.CodeBadRequest, msg: "order already paid"},
	{target: service.ErrPaymentSignature, code: response.CodeBadRequest, msg: "payment signature invalid"},
	{target: service.ErrPaymentOrderMismatch, code: response.CodeBadRequest, msg: "payment does not match order"},
}

func respondPlaceOrderError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(placeOrderErrorRules, couponErrorRules), response.CodeInternal, "failed to create order")
}

func respondOrderLifecycleError(c *gin.Context, err error) {
	respondWithMappedError(c, err, orderLifecycleErrorRules, response.CodeInternal, "failed to update order")
}

func respondPaymentError(c *gin.Context, err error) {
	respondWithMappedError(c, err, paymentErrorRules, response.CodeInternal, "payment processing failed")
}

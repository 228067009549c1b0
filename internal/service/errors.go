package service

import "errors"

// 通用错误
var (
	ErrInvalidParams = errors.New("invalid params")
	ErrForbidden     = errors.New("forbidden")
)

// 用户相关错误
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserExists        = errors.New("user already exists")
	ErrUserBlocked       = errors.New("user blocked")
	ErrInvalidCredential = errors.New("invalid credential")
)

// 商品与库存相关错误
var (
	ErrProductNotFound   = errors.New("product not found")
	ErrProductInactive   = errors.New("product inactive")
	ErrSlugExists        = errors.New("slug already exists")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrCategoryNotEmpty  = errors.New("category has products")
	ErrBrandNotFound     = errors.New("brand not found")
)

// 优惠活动相关错误
var (
	ErrOfferNotFound      = errors.New("offer not found")
	ErrOfferInvalidValue  = errors.New("offer discount value invalid")
	ErrOfferInvalidWindow = errors.New("offer time window invalid")
	ErrOfferTargetInvalid = errors.New("offer target invalid")
)

// 优惠券相关错误
var (
	ErrCouponNotFound     = errors.New("coupon not found")
	ErrCouponInvalid      = errors.New("coupon invalid")
	ErrCouponInactive     = errors.New("coupon inactive")
	ErrCouponNotStarted   = errors.New("coupon not started")
	ErrCouponExpired      = errors.New("coupon expired")
	ErrCouponMinAmount    = errors.New("order amount below coupon minimum")
	ErrCouponUsageLimit   = errors.New("coupon usage limit reached")
	ErrCouponPerUserLimit = errors.New("coupon per-user limit reached")
	ErrCouponCodeExists   = errors.New("coupon code already exists")

	// 管理端保存校验，按字段区分
	ErrCouponCodeRequired  = errors.New("coupon code required")
	ErrCouponInvalidValue  = errors.New("coupon discount value invalid")
	ErrCouponInvalidAmount = errors.New("coupon amount constraint invalid")
	ErrCouponInvalidLimit  = errors.New("coupon usage limit invalid")
	ErrCouponInvalidWindow = errors.New("coupon time window invalid")
)

// 订单相关错误
var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderItemNotFound    = errors.New("order item not found")
	ErrOrderEmpty           = errors.New("order has no items")
	ErrOrderNotCancellable  = errors.New("order not cancellable")
	ErrItemNotCancellable   = errors.New("order item not cancellable")
	ErrItemNotReturnable    = errors.New("order item not returnable")
	ErrReturnNotRequested   = errors.New("return not requested")
	ErrReturnAlreadyHandled = errors.New("return already handled")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrAddressNotFound      = errors.New("address not found")
	ErrCartEmpty            = errors.New("cart is empty")
	ErrCartItemNotFound     = errors.New("cart item not found")
)

// 钱包相关错误
var (
	ErrWalletNotFound      = errors.New("wallet account not found")
	ErrWalletInsufficient  = errors.New("wallet balance insufficient")
	ErrWalletAmountInvalid = errors.New("wallet amount invalid")
	ErrWalletTxnDuplicate  = errors.New("wallet transaction duplicated")
)

// 支付相关错误
var (
	ErrPaymentNotPending    = errors.New("payment not pending")
	ErrPaymentAlreadyPaid   = errors.New("payment already paid")
	ErrPaymentSignature     = errors.New("payment signature invalid")
	ErrPaymentMethodInvalid = errors.New("payment method invalid")
	ErrPaymentOrderMismatch = errors.New("payment order mismatch")
)

// 评价与收藏相关错误
var (
	ErrReviewExists      = errors.New("review already exists")
	ErrReviewNotFound    = errors.New("review not found")
	ErrReviewNotAllowed  = errors.New("review requires delivered order")
	ErrWishlistDuplicate = errors.New("product already in wishlist")
)

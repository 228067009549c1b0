package constants

// 订单状态常量（由订单项状态推导，不独立存储业务含义）
const (
	OrderStatusProcessing         = "processing"
	OrderStatusShipped            = "shipped"
	OrderStatusDelivered          = "delivered"
	OrderStatusCancelled          = "cancelled"
	OrderStatusReturned           = "returned"
	OrderStatusReturnRequested    = "return_requested"
	OrderStatusReturnRejected     = "return_rejected"
	OrderStatusPartiallyShipped   = "partially_shipped"
	OrderStatusPartiallyDelivered = "partially_delivered"
	OrderStatusPartiallyCancelled = "partially_cancelled"
	OrderStatusPartiallyReturned  = "partially_returned"
)

// 订单项状态常量
const (
	ItemStatusProcessing      = "processing"
	ItemStatusShipped         = "shipped"
	ItemStatusDelivered       = "delivered"
	ItemStatusCancelled       = "cancelled"
	ItemStatusReturnRequested = "return_requested"
	ItemStatusReturned        = "returned"
	ItemStatusReturnRejected  = "return_rejected"
)

// 支付方式常量
const (
	PaymentMethodWallet   = "wallet"
	PaymentMethodCOD      = "cod"
	PaymentMethodRazorpay = "razorpay"
)

// 支付状态常量
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// 优惠活动目标类型常量
const (
	OfferTargetProduct = "product"
	OfferTargetBrand   = "brand"
)

// 折扣类型常量（优惠活动与优惠券共用）
const (
	DiscountTypePercent = "percent"
	DiscountTypeFixed   = "fixed"
)

// 钱包交易类型常量
const (
	WalletTxnTypeOrderPay    = "order_pay"
	WalletTxnTypeOrderRefund = "order_refund"
	WalletTxnTypeRecharge    = "recharge"
	WalletTxnTypeAdminAdjust = "admin_adjust"
)

// 钱包交易方向常量
const (
	WalletTxnDirectionIn  = "in"
	WalletTxnDirectionOut = "out"
)

// 钱包交易状态常量
const (
	WalletTxnStatusPending   = "pending"
	WalletTxnStatusCompleted = "completed"
	WalletTxnStatusFailed    = "failed"
)

// 队列名称常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 异步任务类型常量
const (
	TaskPaymentTimeoutRelease = "payment:timeout_release"
	TaskOfferResweep          = "offer:resweep"
)

// 站点默认币种
const SiteCurrencyDefault = "INR"

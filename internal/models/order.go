package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                           // 主键
	OrderNo         string         `gorm:"uniqueIndex;not null" json:"order_no"`                           // 订单编号
	UserID          uint           `gorm:"index;not null" json:"user_id"`                                  // 用户ID
	Status          string         `gorm:"index;not null" json:"status"`                                   // 订单状态（由订单项状态推导后回写）
	Currency        string         `gorm:"not null" json:"currency"`                                       // 币种
	TotalAmount     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`      // 折前行合计
	TotalDiscount   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_discount"`    // 活动折扣合计（不含优惠券）
	CouponID        *uint          `gorm:"index" json:"coupon_id,omitempty"`                               // 优惠券ID
	CouponCode      string         `json:"coupon_code,omitempty"`                                          // 优惠码快照
	CouponDiscount  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"coupon_discount"`   // 优惠券折扣
	FinalPrice      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"final_price"`       // 应付金额
	RefundedAmount  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"refunded_amount"`   // 累计退款金额
	PaymentMethod   string         `gorm:"not null" json:"payment_method"`                                 // 支付方式（wallet/cod/razorpay）
	PaymentStatus   string         `gorm:"index;not null" json:"payment_status"`                           // 支付状态
	GatewayOrderID  string         `gorm:"index" json:"gateway_order_id,omitempty"`                        // 网关订单ID
	AddressSnapshot JSON           `gorm:"type:json;not null" json:"address_snapshot"`                     // 收货地址快照
	PlacedAt        time.Time      `gorm:"index" json:"placed_at"`                                         // 下单时间
	DeliveryBy      *time.Time     `json:"delivery_by,omitempty"`                                          // 预计送达时间（发货时写入）
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                                        // 创建时间
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`                                        // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                                 // 软删除时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

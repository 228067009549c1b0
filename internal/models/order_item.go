package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderItem 订单项表，价格与折扣均为下单时快照，后续商品/活动变更不回溯
type OrderItem struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                        // 主键
	OrderID         uint           `gorm:"index;not null" json:"order_id"`                              // 订单ID
	ProductID       uint           `gorm:"index;not null" json:"product_id"`                            // 商品ID
	Title           string         `gorm:"not null" json:"title"`                                       // 商品标题快照
	UnitPrice       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`     // 单价快照
	UnitDiscount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"unit_discount"`  // 单件活动折扣快照
	Quantity        int            `gorm:"not null" json:"quantity"`                                    // 数量
	TotalPrice      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"`    // 小计 (单价-折扣)*数量
	Status          string         `gorm:"index;not null" json:"status"`                                // 订单项状态
	ReturnRequested bool           `gorm:"not null;default:false" json:"return_requested"`              // 是否已申请退货
	ReturnReason    string         `gorm:"type:text" json:"return_reason,omitempty"`                    // 退货原因
	ReturnApproved  bool           `gorm:"not null;default:false" json:"return_approved"`               // 退货是否通过
	ResponseSent    bool           `gorm:"not null;default:false" json:"response_sent"`                 // 退货申请是否已处理
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                                     // 创建时间
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`                                     // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                              // 软删除时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}

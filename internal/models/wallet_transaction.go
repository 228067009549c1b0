package models

import (
	"time"

	"gorm.io/gorm"
)

// WalletTransaction 钱包流水表（追加写，Reference 唯一用于幂等）
type WalletTransaction struct {
	ID               uint           `gorm:"primarykey" json:"id"`                                          // 主键
	UserID           uint           `gorm:"index;not null" json:"user_id"`                                 // 用户ID
	OrderID          *uint          `gorm:"index" json:"order_id,omitempty"`                               // 关联订单ID
	Type             string         `gorm:"index;not null" json:"type"`                                    // 交易类型
	Direction        string         `gorm:"not null" json:"direction"`                                     // 方向（in/out）
	Amount           Money          `gorm:"type:decimal(20,2);not null" json:"amount"`                     // 交易金额
	BalanceBefore    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"balance_before"`   // 交易前余额
	BalanceAfter     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"balance_after"`    // 交易后余额
	Status           string         `gorm:"index;not null;default:'completed'" json:"status"`              // 交易状态
	Currency         string         `gorm:"not null" json:"currency"`                                      // 币种
	Reference        string         `gorm:"uniqueIndex;not null" json:"reference"`                         // 幂等参考号
	GatewayOrderID   string         `gorm:"index" json:"gateway_order_id,omitempty"`                       // 网关订单ID（充值）
	GatewayPaymentID string         `gorm:"index" json:"gateway_payment_id,omitempty"`                     // 网关支付ID（充值）
	Remark           string         `json:"remark,omitempty"`                                              // 备注
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt        time.Time      `json:"updated_at"`                                                    // 更新时间
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`                                                // 软删除时间
}

// TableName 指定表名
func (WalletTransaction) TableName() string {
	return "wallet_transactions"
}

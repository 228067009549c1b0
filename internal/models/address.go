package models

import (
	"time"

	"gorm.io/gorm"
)

// Address 收货地址表
type Address struct {
	ID        uint           `gorm:"primarykey" json:"id"`                    // 主键
	UserID    uint           `gorm:"index;not null" json:"user_id"`           // 用户ID
	Name      string         `gorm:"not null" json:"name"`                    // 收货人
	Phone     string         `gorm:"not null" json:"phone"`                   // 联系电话
	Line1     string         `gorm:"not null" json:"line1"`                   // 地址行1
	Line2     string         `json:"line2,omitempty"`                         // 地址行2
	City      string         `gorm:"not null" json:"city"`                    // 城市
	State     string         `json:"state,omitempty"`                         // 省/邦
	Pincode   string         `gorm:"not null" json:"pincode"`                 // 邮编
	IsDefault bool           `gorm:"not null;default:false" json:"is_default"` // 默认地址
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                 // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                              // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                          // 软删除时间
}

// TableName 指定表名
func (Address) TableName() string {
	return "addresses"
}

// Snapshot 生成嵌入订单的地址快照
func (a *Address) Snapshot() JSON {
	if a == nil {
		return JSON{}
	}
	return JSON{
		"name":    a.Name,
		"phone":   a.Phone,
		"line1":   a.Line1,
		"line2":   a.Line2,
		"city":    a.City,
		"state":   a.State,
		"pincode": a.Pincode,
	}
}

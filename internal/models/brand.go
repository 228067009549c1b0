package models

import (
	"time"

	"gorm.io/gorm"
)

// Brand 游戏厂商/品牌表
type Brand struct {
	ID        uint           `gorm:"primarykey" json:"id"`             // 主键
	Slug      string         `gorm:"uniqueIndex;not null" json:"slug"` // 唯一标识
	Name      string         `gorm:"not null" json:"name"`             // 品牌名称
	IsActive  bool           `gorm:"default:true" json:"is_active"`    // 是否启用
	CreatedAt time.Time      `gorm:"index" json:"created_at"`          // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                       // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                   // 软删除时间
}

// TableName 指定表名
func (Brand) TableName() string {
	return "brands"
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// 用户状态常量
const (
	UserStatusActive  = "active"
	UserStatusBlocked = "blocked"
)

// User 用户表
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`                              // 主键
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`                 // 邮箱
	Name         string         `json:"name"`                                              // 昵称
	PasswordHash string         `gorm:"type:varchar(200);not null" json:"-"`               // 密码哈希
	Status       string         `gorm:"not null;default:'active'" json:"status"`           // 状态（active/blocked）
	IsAdmin      bool           `gorm:"not null;default:false" json:"is_admin"`            // 是否管理员
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                           // 创建时间
	UpdatedAt    time.Time      `json:"updated_at"`                                        // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                    // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

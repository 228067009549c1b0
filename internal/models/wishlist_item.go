package models

import (
	"time"
)

// WishlistItem 收藏夹条目表
type WishlistItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                              // 主键
	UserID    uint      `gorm:"index:idx_wishlist_user_product,unique;not null" json:"user_id"`    // 用户ID
	ProductID uint      `gorm:"index:idx_wishlist_user_product,unique;not null" json:"product_id"` // 商品ID
	CreatedAt time.Time `gorm:"index" json:"created_at"`                                           // 创建时间

	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 商品信息
}

// TableName 指定表名
func (WishlistItem) TableName() string {
	return "wishlist_items"
}

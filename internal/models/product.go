package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表（游戏）
type Product struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                      // 主键
	CategoryID      uint           `gorm:"not null;index" json:"category_id"`                         // 分类ID
	BrandID         uint           `gorm:"not null;index" json:"brand_id"`                            // 品牌ID
	Slug            string         `gorm:"uniqueIndex;not null" json:"slug"`                          // 唯一标识
	Title           string         `gorm:"not null" json:"title"`                                     // 商品标题
	Description     string         `gorm:"type:text" json:"description"`                              // 商品描述
	Images          StringArray    `gorm:"type:json" json:"images"`                                   // 图片数组
	Price           Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`       // 原价
	Stock           int            `gorm:"not null;default:0" json:"stock"`                           // 可售库存
	ReservedStock   int            `gorm:"not null;default:0" json:"reserved_stock"`                  // 网关待支付占用库存
	BestOfferID     *uint          `gorm:"index" json:"best_offer_id,omitempty"`                      // 当前最优活动ID（派生）
	DiscountedPrice *Money         `gorm:"type:decimal(20,2)" json:"discounted_price,omitempty"`     // 活动后价格（派生，与 BestOfferID 同生同灭）
	IsActive        bool           `gorm:"default:true;index" json:"is_active"`                       // 是否上架
	SortOrder       int            `gorm:"default:0;index" json:"sort_order"`                         // 排序权重
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt       time.Time      `json:"updated_at"`                                                // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间

	// 关联
	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 分类信息
	Brand    Brand    `gorm:"foreignKey:BrandID" json:"brand,omitempty"`       // 品牌信息
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// ProductOffer 商品与优惠活动的关联表，position 记录挂载顺序（同额折扣先挂先胜）
type ProductOffer struct {
	ID        uint      `gorm:"primarykey" json:"id"`                              // 主键
	ProductID uint      `gorm:"index:idx_product_offer,unique;not null" json:"product_id"` // 商品ID
	OfferID   uint      `gorm:"index:idx_product_offer,unique;not null" json:"offer_id"`   // 活动ID
	Position  int       `gorm:"not null;default:0" json:"position"`                // 挂载顺序
	CreatedAt time.Time `json:"created_at"`                                        // 创建时间
}

// TableName 指定表名
func (ProductOffer) TableName() string {
	return "product_offers"
}

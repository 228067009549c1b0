package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/gamedepot/internal/constants"
)

// OfferTarget 活动目标（商品或品牌），以带标签的值类型代替裸 ID + 类型字符串
type OfferTarget struct {
	Kind  string `gorm:"column:target_kind;not null;index:idx_offer_target" json:"kind"`    // product / brand
	RefID uint   `gorm:"column:target_ref_id;not null;index:idx_offer_target" json:"ref_id"` // 目标ID
}

// ProductTarget 构造商品级活动目标
func ProductTarget(productID uint) OfferTarget {
	return OfferTarget{Kind: constants.OfferTargetProduct, RefID: productID}
}

// BrandTarget 构造品牌级活动目标
func BrandTarget(brandID uint) OfferTarget {
	return OfferTarget{Kind: constants.OfferTargetBrand, RefID: brandID}
}

// IsProduct 是否商品级目标
func (t OfferTarget) IsProduct() bool {
	return t.Kind == constants.OfferTargetProduct
}

// IsBrand 是否品牌级目标
func (t OfferTarget) IsBrand() bool {
	return t.Kind == constants.OfferTargetBrand
}

// Offer 优惠活动表
type Offer struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                  // 主键
	Name          string         `gorm:"not null" json:"name"`                                  // 活动名称
	Target        OfferTarget    `gorm:"embedded" json:"target"`                                // 活动目标
	DiscountType  string         `gorm:"not null" json:"discount_type"`                         // 折扣类型（percent/fixed）
	DiscountValue Money          `gorm:"type:decimal(20,2);not null" json:"discount_value"`     // 折扣数值（百分比或固定金额）
	StartsAt      *time.Time     `gorm:"index" json:"starts_at"`                                // 生效时间
	EndsAt        *time.Time     `gorm:"index" json:"ends_at"`                                  // 失效时间
	IsActive      bool           `gorm:"not null;default:true" json:"is_active"`                // 手动开关
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                               // 创建时间
	UpdatedAt     time.Time      `json:"updated_at"`                                            // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                        // 软删除时间
}

// TableName 指定表名
func (Offer) TableName() string {
	return "offers"
}

// ActiveAt 判断活动在给定时刻是否生效（手动开关 + 时间窗口）
func (o *Offer) ActiveAt(now time.Time) bool {
	if o == nil || !o.IsActive {
		return false
	}
	if o.StartsAt != nil && now.Before(*o.StartsAt) {
		return false
	}
	if o.EndsAt != nil && now.After(*o.EndsAt) {
		return false
	}
	return true
}

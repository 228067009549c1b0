package repository

import "time"

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page         int
	PageSize     int
	CategoryID   uint
	BrandID      uint
	Search       string
	OnlyActive   bool
	WithCategory bool
	WithBrand    bool
}

// OfferListFilter 查询优惠活动列表的过滤条件
type OfferListFilter struct {
	Page       int
	PageSize   int
	TargetKind string
	IsActive   *bool
	Search     string
}

// CouponListFilter 查询优惠券列表的过滤条件
type CouponListFilter struct {
	Page     int
	PageSize int
	Code     string
	IsActive *bool
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page          int
	PageSize      int
	UserID        uint
	Status        string
	OrderNo       string
	PaymentStatus string
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
}

// ReviewListFilter 查询评价列表的过滤条件
type ReviewListFilter struct {
	Page      int
	PageSize  int
	ProductID uint
	UserID    uint
}

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page     int
	PageSize int
	Keyword  string
	Status   string
}

// WalletTransactionListFilter 查询钱包流水列表的过滤条件
type WalletTransactionListFilter struct {
	Page      int
	PageSize  int
	UserID    uint
	OrderID   uint
	Type      string
	Direction string
}

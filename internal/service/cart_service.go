package service

import (
	"github.com/gamedepot/internal/models"
	"github.com/gamedepot/internal/repository"
)

// CartService 购物车服务
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// List 用户购物车列表
func (s *CartService) List(userID uint) ([]models.CartItem, error) {
	return s.cartRepo.ListByUser(userID)
}

// Add 加入购物车，已存在时累加数量
func (s *CartService) Add(userID, productID uint, quantity int) (*models.CartItem, error) {
	if userID == 0 || productID == 0 || quantity <= 0 {
		return nil, ErrInvalidParams
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotFound
	}

	existing, err := s.cartRepo.GetByUserAndProduct(userID, productID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		existing.Quantity += quantity
		if existing.Quantity > product.Stock {
			return nil, ErrInsufficientStock
		}
		if err := s.cartRepo.Update(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	if quantity > product.Stock {
		return nil, ErrInsufficientStock
	}
	item := &models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}
	if err := s.cartRepo.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateQuantity 修改购物车条目数量
func (s *CartService) UpdateQuantity(userID, itemID uint, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidParams
	}
	items, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID != itemID {
			continue
		}
		if quantity > items[i].Product.Stock {
			return nil, ErrInsufficientStock
		}
		items[i].Quantity = quantity
		if err := s.cartRepo.Update(&items[i]); err != nil {
			return nil, err
		}
		return &items[i], nil
	}
	return nil, ErrCartItemNotFound
}

// Remove 移除购物车条目
func (s *CartService) Remove(userID, itemID uint) error {
	return s.cartRepo.Delete(itemID, userID)
}

// Clear 清空购物车
func (s *CartService) Clear(userID uint) error {
	return s.cartRepo.ClearByUser(userID)
}

// CheckoutItems 将购物车条目转换为下单输入
func (s *CartService) CheckoutItems(userID uint) ([]PlaceOrderItem, error) {
	items, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrCartEmpty
	}
	result := make([]PlaceOrderItem, 0, len(items))
	for _, item := range items {
		result = append(result, PlaceOrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return result, nil
}

package service

import (
	"github.com/gamedepot/internal/models"
	"github.com/gamedepot/internal/repository"
)

// WishlistService 收藏夹服务
type WishlistService struct {
	wishlistRepo repository.WishlistRepository
	productRepo  repository.ProductRepository
}

// NewWishlistService 创建收藏夹服务
func NewWishlistService(wishlistRepo repository.WishlistRepository, productRepo repository.ProductRepository) *WishlistService {
	return &WishlistService{
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
	}
}

// List 用户收藏列表
func (s *WishlistService) List(userID uint) ([]models.WishlistItem, error) {
	return s.wishlistRepo.ListByUser(userID)
}

// Add 加入收藏
func (s *WishlistService) Add(userID, productID uint) (*models.WishlistItem, error) {
	if userID == 0 || productID == 0 {
		return nil, ErrInvalidParams
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	existing, err := s.wishlistRepo.GetByUserAndProduct(userID, productID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrWishlistDuplicate
	}
	item := &models.WishlistItem{
		UserID:    userID,
		ProductID: productID,
	}
	if err := s.wishlistRepo.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}

// Remove 取消收藏
func (s *WishlistService) Remove(userID, productID uint) error {
	return s.wishlistRepo.Delete(userID, productID)
}

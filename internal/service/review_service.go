package service

import (
	"strings"

	"github.com/gamedepot/internal/constants"
	"github.com/gamedepot/internal/models"
	"github.com/gamedepot/internal/repository"
)

// ReviewService 商品评价服务
type ReviewService struct {
	reviewRepo  repository.ReviewRepository
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
}

// NewReviewService 创建评价服务
func NewReviewService(reviewRepo repository.ReviewRepository, orderRepo repository.OrderRepository, productRepo repository.ProductRepository) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
}

// List 评价列表
func (s *ReviewService) List(filter repository.ReviewListFilter) ([]models.Review, int64, error) {
	return s.reviewRepo.List(filter)
}

// Summary 商品评分汇总
func (s *ReviewService) Summary(productID uint) (float64, int64, error) {
	return s.reviewRepo.AverageRating(productID)
}

// Create 发表评价，要求用户有该商品的已送达订单项，且每人每商品一条
func (s *ReviewService) Create(userID, productID uint, rating int, content string) (*models.Review, error) {
	if userID == 0 || productID == 0 || rating < 1 || rating > 5 {
		return nil, ErrInvalidParams
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	existing, err := s.reviewRepo.GetByUserAndProduct(userID, productID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrReviewExists
	}

	delivered, err := s.hasDeliveredItem(userID, productID)
	if err != nil {
		return nil, err
	}
	if !delivered {
		return nil, ErrReviewNotAllowed
	}

	review := &models.Review{
		UserID:    userID,
		ProductID: productID,
		Rating:    rating,
		Content:   strings.TrimSpace(content),
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}
	return review, nil
}

// Update 修改自己的评价
func (s *ReviewService) Update(userID, productID uint, rating int, content string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidParams
	}
	review, err := s.reviewRepo.GetByUserAndProduct(userID, productID)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}
	review.Rating = rating
	review.Content = strings.TrimSpace(content)
	if err := s.reviewRepo.Update(review); err != nil {
		return nil, err
	}
	return review, nil
}

// Delete 删除自己的评价
func (s *ReviewService) Delete(id, userID uint) error {
	return s.reviewRepo.Delete(id, userID)
}

func (s *ReviewService) hasDeliveredItem(userID, productID uint) (bool, error) {
	orders, _, err := s.orderRepo.ListByUser(repository.OrderListFilter{UserID: userID})
	if err != nil {
		return false, err
	}
	for _, order := range orders {
		for _, item := range order.Items {
			if item.ProductID == productID && item.Status == constants.ItemStatusDelivered {
				return true, nil
			}
		}
	}
	return false, nil
}

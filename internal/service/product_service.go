package service

import (
	"strings"

	"github.com/gamedepot/internal/models"
	"github.com/gamedepot/internal/repository"

	"github.com/shopspring/decimal"
)

// ProductService 商品服务
type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	brandRepo    repository.BrandRepository
	offerService *OfferService
}

// NewProductService 创建商品服务
func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository, brandRepo repository.BrandRepository, offerService *OfferService) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		brandRepo:    brandRepo,
		offerService: offerService,
	}
}

// List 商品列表
func (s *ProductService) List(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}

// GetBySlug 根据 slug 获取商品
func (s *ProductService) GetBySlug(slug string, onlyActive bool) (*models.Product, error) {
	product, err := s.productRepo.GetBySlug(strings.TrimSpace(slug), onlyActive)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// GetByID 根据 ID 获取商品
func (s *ProductService) GetByID(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// Create 创建商品。创建后挂载已有品牌级活动并重算折后价。
func (s *ProductService) Create(product *models.Product) error {
	if err := s.validate(product, nil); err != nil {
		return err
	}
	if err := s.productRepo.Create(product); err != nil {
		return err
	}
	if s.offerService != nil {
		return s.offerService.OnProductCreated(product)
	}
	return nil
}

// Update 更新商品。价格变动后重算最优活动折后价。
func (s *ProductService) Update(product *models.Product) error {
	if product == nil || product.ID == 0 {
		return ErrInvalidParams
	}
	if err := s.validate(product, &product.ID); err != nil {
		return err
	}
	if err := s.productRepo.Update(product); err != nil {
		return err
	}
	if s.offerService != nil {
		return s.offerService.ResolveBestOffer(product.ID)
	}
	return nil
}

// Delete 删除商品
func (s *ProductService) Delete(id uint) error {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	return s.productRepo.Delete(id)
}

func (s *ProductService) validate(product *models.Product, excludeID *uint) error {
	if product == nil {
		return ErrInvalidParams
	}
	product.Slug = strings.TrimSpace(product.Slug)
	product.Title = strings.TrimSpace(product.Title)
	if product.Slug == "" || product.Title == "" {
		return ErrInvalidParams
	}
	if product.Price.Decimal.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidParams
	}
	if product.Stock < 0 {
		return ErrInvalidParams
	}

	count, err := s.productRepo.CountBySlug(product.Slug, excludeID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrSlugExists
	}

	category, err := s.categoryRepo.GetByID(product.CategoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}
	brand, err := s.brandRepo.GetByID(product.BrandID)
	if err != nil {
		return err
	}
	if brand == nil {
		return ErrBrandNotFound
	}
	return nil
}

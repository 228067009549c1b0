package service

import (
	"strings"

	"github.com/gamedepot/internal/models"
	"github.com/gamedepot/internal/repository"
)

// CatalogService 分类与品牌管理服务
type CatalogService struct {
	categoryRepo repository.CategoryRepository
	brandRepo    repository.BrandRepository
}

// NewCatalogService 创建分类品牌服务
func NewCatalogService(categoryRepo repository.CategoryRepository, brandRepo repository.BrandRepository) *CatalogService {
	return &CatalogService{
		categoryRepo: categoryRepo,
		brandRepo:    brandRepo,
	}
}

// ListCategories 分类列表
func (s *CatalogService) ListCategories(onlyActive bool) ([]models.Category, error) {
	return s.categoryRepo.List(onlyActive)
}

// CreateCategory 创建分类
func (s *CatalogService) CreateCategory(category *models.Category) error {
	if category == nil || strings.TrimSpace(category.Slug) == "" || strings.TrimSpace(category.Name) == "" {
		return ErrInvalidParams
	}
	category.Slug = strings.TrimSpace(category.Slug)
	count, err := s.categoryRepo.CountBySlug(category.Slug, nil)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrSlugExists
	}
	return s.categoryRepo.Create(category)
}

// UpdateCategory 更新分类
func (s *CatalogService) UpdateCategory(category *models.Category) error {
	if category == nil || category.ID == 0 {
		return ErrInvalidParams
	}
	existing, err := s.categoryRepo.GetByID(category.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrCategoryNotFound
	}
	category.Slug = strings.TrimSpace(category.Slug)
	count, err := s.categoryRepo.CountBySlug(category.Slug, &category.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrSlugExists
	}
	return s.categoryRepo.Update(category)
}

// DeleteCategory 删除分类，仍有商品引用时拒绝
func (s *CatalogService) DeleteCategory(id uint) error {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}
	count, err := s.categoryRepo.CountProducts(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryNotEmpty
	}
	return s.categoryRepo.Delete(id)
}

// ListBrands 品牌列表
func (s *CatalogService) ListBrands(onlyActive bool) ([]models.Brand, error) {
	return s.brandRepo.List(onlyActive)
}

// GetBrand 获取品牌
func (s *CatalogService) GetBrand(id uint) (*models.Brand, error) {
	brand, err := s.brandRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if brand == nil {
		return nil, ErrBrandNotFound
	}
	return brand, nil
}

// CreateBrand 创建品牌
func (s *CatalogService) CreateBrand(brand *models.Brand) error {
	if brand == nil || strings.TrimSpace(brand.Slug) == "" || strings.TrimSpace(brand.Name) == "" {
		return ErrInvalidParams
	}
	brand.Slug = strings.TrimSpace(brand.Slug)
	count, err := s.brandRepo.CountBySlug(brand.Slug, nil)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrSlugExists
	}
	return s.brandRepo.Create(brand)
}

// UpdateBrand 更新品牌
func (s *CatalogService) UpdateBrand(brand *models.Brand) error {
	if brand == nil || brand.ID == 0 {
		return ErrInvalidParams
	}
	existing, err := s.brandRepo.GetByID(brand.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrBrandNotFound
	}
	brand.Slug = strings.TrimSpace(brand.Slug)
	count, err := s.brandRepo.CountBySlug(brand.Slug, &brand.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrSlugExists
	}
	return s.brandRepo.Update(brand)
}

// DeleteBrand 删除品牌
func (s *CatalogService) DeleteBrand(id uint) error {
	brand, err := s.brandRepo.GetByID(id)
	if err != nil {
		return err
	}
	if brand == nil {
		return ErrBrandNotFound
	}
	return s.brandRepo.Delete(id)
}

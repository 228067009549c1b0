package admin

import (
	"errors"

	"github.com/gamedepot/internal/http/response"
	"github.com/gamedepot/internal/models"
	"github.com/gamedepot/internal/service"

	"github.com/gin-gonic/gin"
)

// CategoryRequest 分类创建/更新请求
type CategoryRequest struct {
	Slug      string `json:"slug" binding:"required"`
	Name      string `json:"name" binding:"required"`
	SortOrder int    `json:"sort_order"`
}

// BrandRequest 品牌创建/更新请求
type BrandRequest struct {
	Slug     string `json:"slug" binding:"required"`
	Name     string `json:"name" binding:"required"`
	IsActive bool   `json:"is_active"`
}

// GetAdminCategories 分类列表
func (h *Handler) GetAdminCategories(c *gin.Context) {
	categories, err := h.CatalogService.ListCategories(false)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load categories", err)
		return
	}
	response.Success(c, gin.H{"categories": categories})
}

// CreateCategory 创建分类
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	category := &models.Category{
		Slug:      req.Slug,
		Name:      req.Name,
		SortOrder: req.SortOrder,
	}
	if err := h.CatalogService.CreateCategory(category); err != nil {
		respondCatalogSaveError(c, err, "category")
		return
	}

	response.Success(c, category)
}

// UpdateCategory 更新分类
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	category := &models.Category{
		ID:        id,
		Slug:      req.Slug,
		Name:      req.Name,
		SortOrder: req.SortOrder,
	}
	if err := h.CatalogService.UpdateCategory(category); err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			respondError(c, response.CodeNotFound, "category not found", nil)
			return
		}
		respondCatalogSaveError(c, err, "category")
		return
	}

	response.Success(c, category)
}

// DeleteCategory 删除分类（仍有商品时拒绝）
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.CatalogService.DeleteCategory(id); err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNotFound):
			respondError(c, response.CodeNotFound, "category not found", nil)
		case errors.Is(err, service.ErrCategoryNotEmpty):
			respondError(c, response.CodeBadRequest, "category still has products", nil)
		default:
			respondError(c, response.CodeInternal, "failed to delete category", err)
		}
		return
	}

	response.Success(c, gin.H{"deleted": true})
}

// GetAdminBrands 品牌列表
func (h *Handler) GetAdminBrands(c *gin.Context) {
	brands, err := h.CatalogService.ListBrands(false)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load brands", err)
		return
	}
	response.Success(c, gin.H{"brands": brands})
}

// CreateBrand 创建品牌
func (h *Handler) CreateBrand(c *gin.Context) {
	var req BrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	brand := &models.Brand{
		Slug:     req.Slug,
		Name:     req.Name,
		IsActive: req.IsActive,
	}
	if err := h.CatalogService.CreateBrand(brand); err != nil {
		respondCatalogSaveError(c, err, "brand")
		return
	}

	response.Success(c, brand)
}

// UpdateBrand 更新品牌
func (h *Handler) UpdateBrand(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req BrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	brand := &models.Brand{
		ID:       id,
		Slug:     req.Slug,
		Name:     req.Name,
		IsActive: req.IsActive,
	}
	if err := h.CatalogService.UpdateBrand(brand); err != nil {
		if errors.Is(err, service.ErrBrandNotFound) {
			respondError(c, response.CodeNotFound, "brand not found", nil)
			return
		}
		respondCatalogSaveError(c, err, "brand")
		return
	}

	response.Success(c, brand)
}

// DeleteBrand 删除品牌
func (h *Handler) DeleteBrand(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.CatalogService.DeleteBrand(id); err != nil {
		if errors.Is(err, service.ErrBrandNotFound) {
			respondError(c, response.CodeNotFound, "brand not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to delete brand", err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}

func respondCatalogSaveError(c *gin.Context, err error, kind string) {
	switch {
	case errors.Is(err, service.ErrSlugExists):
		respondError(c, response.CodeBadRequest, "slug already exists", nil)
	case errors.Is(err, service.ErrInvalidParams):
		respondError(c, response.CodeBadRequest, "invalid "+kind, nil)
	default:
		respondError(c, response.CodeInternal, "failed to save "+kind, err)
	}
}

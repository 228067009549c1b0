package admin

import (
	"errors"
	"strings"

	"github.com/gamedepot/internal/http/response"
	"github.com/gamedepot/internal/models"
	"github.com/gamedepot/internal/repository"
	"github.com/gamedepot/internal/service"

	"github.com/gin-gonic/gin"
)

// ProductRequest 商品创建/更新请求
type ProductRequest struct {
	CategoryID  uint               `json:"category_id" binding:"required"`
	BrandID     uint               `json:"brand_id" binding:"required"`
	Slug        string             `json:"slug" binding:"required"`
	Title       string             `json:"title" binding:"required"`
	Description string             `json:"description"`
	Images      models.StringArray `json:"images"`
	Price       models.Money       `json:"price" binding:"required"`
	Stock       int                `json:"stock"`
	IsActive    bool               `json:"is_active"`
	SortOrder   int                `json:"sort_order"`
}

func (r *ProductRequest) toModel() *models.Product {
	return &models.Product{
		CategoryID:  r.CategoryID,
		BrandID:     r.BrandID,
		Slug:        r.Slug,
		Title:       r.Title,
		Description: r.Description,
		Images:      r.Images,
		Price:       r.Price,
		Stock:       r.Stock,
		IsActive:    r.IsActive,
		SortOrder:   r.SortOrder,
	}
}

func respondProductSaveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSlugExists):
		respondError(c, response.CodeBadRequest, "slug already exists", nil)
	case errors.Is(err, service.ErrCategoryNotFound):
		respondError(c, response.CodeBadRequest, "category not found", nil)
	case errors.Is(err, service.ErrBrandNotFound):
		respondError(c, response.CodeBadRequest, "brand not found", nil)
	case errors.Is(err, service.ErrInvalidParams):
		respondError(c, response.CodeBadRequest, "invalid product", nil)
	default:
		respondError(c, response.CodeInternal, "failed to save product", err)
	}
}

// GetAdminProducts 商品列表（含下架商品）
func (h *Handler) GetAdminProducts(c *gin.Context) {
	page, pageSize := parsePagination(c)

	filter := repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		Search:       strings.TrimSpace(c.Query("search")),
		WithCategory: true,
		WithBrand:    true,
	}
	products, total, err := h.ProductService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load products", err)
		return
	}

	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// GetAdminProduct 商品详情
func (h *Handler) GetAdminProduct(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	product, err := h.ProductService.GetByID(id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "product not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to load product", err)
		return
	}

	response.Success(c, product)
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	product := req.toModel()
	if err := h.ProductService.Create(product); err != nil {
		respondProductSaveError(c, err)
		return
	}

	response.Success(c, product)
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	product := req.toModel()
	product.ID = id
	if err := h.ProductService.Update(product); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "product not found", nil)
			return
		}
		respondProductSaveError(c, err)
		return
	}

	response.Success(c, product)
}

// DeleteProduct 删除商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.ProductService.Delete(id); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "product not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to delete product", err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}

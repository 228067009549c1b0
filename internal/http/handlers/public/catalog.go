package public

import (
	"errors"
	"strconv"
	"strings"

	handlershared "github.com/gamedepot/internal/http/handlers/shared"
	"github.com/gamedepot/internal/http/response"
	"github.com/gamedepot/internal/repository"
	"github.com/gamedepot/internal/service"

	"github.com/gin-gonic/gin"
)

func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return handlershared.NormalizePagination(page, pageSize)
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || value == 0 {
		respondError(c, response.CodeBadRequest, "invalid "+name, nil)
		return 0, false
	}
	return uint(value), true
}

func parseUintQuery(c *gin.Context, name string) uint {
	value, err := strconv.ParseUint(c.Query(name), 10, 64)
	if err != nil {
		return 0
	}
	return uint(value)
}

// GetCategories 获取分类列表
func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.CatalogService.ListCategories(true)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load categories", err)
		return
	}
	response.Success(c, gin.H{"categories": categories})
}

// GetBrands 获取品牌列表
func (h *Handler) GetBrands(c *gin.Context) {
	brands, err := h.CatalogService.ListBrands(true)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load brands", err)
		return
	}
	response.Success(c, gin.H{"brands": brands})
}

// GetProducts 获取商品列表（仅上架商品）
func (h *Handler) GetProducts(c *gin.Context) {
	page, pageSize := parsePagination(c)

	filter := repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		CategoryID:   parseUintQuery(c, "category_id"),
		BrandID:      parseUintQuery(c, "brand_id"),
		Search:       strings.TrimSpace(c.Query("search")),
		OnlyActive:   true,
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

// GetProductBySlug 根据 slug 获取商品详情（附评价摘要）
func (h *Handler) GetProductBySlug(c *gin.Context) {
	slug := c.Param("slug")

	product, err := h.ProductService.GetBySlug(slug, true)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "product not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to load product", err)
		return
	}

	avgRating, reviewCount, err := h.ReviewService.Summary(product.ID)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load product", err)
		return
	}

	response.Success(c, gin.H{
		"product":      product,
		"avg_rating":   avgRating,
		"review_count": reviewCount,
	})
}

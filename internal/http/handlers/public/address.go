package public

import (
	"errors"

	"github.com/gamedepot/internal/http/response"
	"github.com/gamedepot/internal/models"
	"github.com/gamedepot/internal/service"

	"github.com/gin-gonic/gin"
)

// AddressRequest 地址请求
type AddressRequest struct {
	Name      string `json:"name" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	Line1     string `json:"line1" binding:"required"`
	Line2     string `json:"line2"`
	City      string `json:"city" binding:"required"`
	State     string `json:"state"`
	Pincode   string `json:"pincode" binding:"required"`
	IsDefault bool   `json:"is_default"`
}

func (r *AddressRequest) toModel(userID uint) *models.Address {
	return &models.Address{
		UserID:    userID,
		Name:      r.Name,
		Phone:     r.Phone,
		Line1:     r.Line1,
		Line2:     r.Line2,
		City:      r.City,
		State:     r.State,
		Pincode:   r.Pincode,
		IsDefault: r.IsDefault,
	}
}

// GetAddresses 获取地址列表
func (h *Handler) GetAddresses(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	addresses, err := h.AddressService.List(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load addresses", err)
		return
	}

	response.Success(c, gin.H{"addresses": addresses})
}

// CreateAddress 创建地址
func (h *Handler) CreateAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	address := req.toModel(uid)
	if err := h.AddressService.Create(address); err != nil {
		if errors.Is(err, service.ErrInvalidParams) {
			respondError(c, response.CodeBadRequest, "invalid address", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to save address", err)
		return
	}

	response.Success(c, address)
}

// UpdateAddress 更新地址
func (h *Handler) UpdateAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	address := req.toModel(uid)
	address.ID = id
	if err := h.AddressService.Update(address); err != nil {
		switch {
		case errors.Is(err, service.ErrAddressNotFound):
			respondError(c, response.CodeNotFound, "address not found", nil)
		case errors.Is(err, service.ErrInvalidParams):
			respondError(c, response.CodeBadRequest, "invalid address", nil)
		default:
			respondError(c, response.CodeInternal, "failed to save address", err)
		}
		return
	}

	response.Success(c, address)
}

// DeleteAddress 删除地址
func (h *Handler) DeleteAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.AddressService.Delete(id, uid); err != nil {
		if errors.Is(err, service.ErrAddressNotFound) {
			respondError(c, response.CodeNotFound, "address not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to delete address", err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}

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

// UserStatusRequest 用户启用/封禁请求
type UserStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// WalletAdjustRequest 钱包余额调整请求，负数表示扣减
type WalletAdjustRequest struct {
	Delta  models.Money `json:"delta" binding:"required"`
	Remark string       `json:"remark"`
}

// GetAdminUsers 用户列表
func (h *Handler) GetAdminUsers(c *gin.Context) {
	page, pageSize := parsePagination(c)

	filter := repository.UserListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  strings.TrimSpace(c.Query("keyword")),
		Status:   c.Query("status"),
	}
	users, total, err := h.UserAuthService.ListUsers(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load users", err)
		return
	}

	response.SuccessWithPage(c, users, response.NewPagination(page, pageSize, total))
}

// SetUserStatus 启用/封禁用户
func (h *Handler) SetUserStatus(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req UserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	if err := h.UserAuthService.SetUserStatus(id, req.Status); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, response.CodeNotFound, "user not found", nil)
		case errors.Is(err, service.ErrInvalidParams):
			respondError(c, response.CodeBadRequest, "invalid status", nil)
		default:
			respondError(c, response.CodeInternal, "failed to update user", err)
		}
		return
	}

	response.Success(c, gin.H{"updated": true})
}

// AdjustUserWallet 调整用户钱包余额
func (h *Handler) AdjustUserWallet(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req WalletAdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	account, txn, err := h.WalletService.AdminAdjustBalance(id, req.Delta, req.Remark)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWalletAmountInvalid):
			respondError(c, response.CodeBadRequest, "adjustment amount must be non-zero", nil)
		case errors.Is(err, service.ErrWalletInsufficient):
			respondError(c, response.CodeBadRequest, "wallet balance insufficient", nil)
		case errors.Is(err, service.ErrWalletNotFound):
			respondError(c, response.CodeNotFound, "wallet account not found", nil)
		default:
			respondError(c, response.CodeInternal, "failed to adjust wallet", err)
		}
		return
	}

	response.Success(c, gin.H{
		"account":     account,
		"transaction": txn,
	})
}

// GetUserWalletTransactions 查看用户钱包流水
func (h *Handler) GetUserWalletTransactions(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	page, pageSize := parsePagination(c)

	filter := repository.WalletTransactionListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   id,
		Type:     c.Query("type"),
	}
	transactions, total, err := h.WalletService.ListTransactions(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load transactions", err)
		return
	}

	response.SuccessWithPage(c, transactions, response.NewPagination(page, pageSize, total))
}

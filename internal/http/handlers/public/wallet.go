package public

import (
	"errors"

	"github.com/gamedepot/internal/http/response"
	"github.com/gamedepot/internal/models"
	"github.com/gamedepot/internal/repository"
	"github.com/gamedepot/internal/service"

	"github.com/gin-gonic/gin"
)

// WalletRechargeRequest 钱包充值请求
type WalletRechargeRequest struct {
	Amount models.Money `json:"amount" binding:"required"`
	Remark string       `json:"remark"`
}

// GetWallet 获取钱包账户
func (h *Handler) GetWallet(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	account, err := h.WalletService.GetAccount(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load wallet", err)
		return
	}

	response.Success(c, account)
}

// GetWalletTransactions 获取钱包流水
func (h *Handler) GetWalletTransactions(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := parsePagination(c)

	filter := repository.WalletTransactionListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uid,
		Type:     c.Query("type"),
	}
	transactions, total, err := h.WalletService.ListTransactions(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load transactions", err)
		return
	}

	response.SuccessWithPage(c, transactions, response.NewPagination(page, pageSize, total))
}

// RechargeWallet 钱包充值
func (h *Handler) RechargeWallet(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req WalletRechargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	account, txn, err := h.WalletService.Recharge(uid, req.Amount, req.Remark)
	if err != nil {
		if errors.Is(err, service.ErrWalletAmountInvalid) {
			respondError(c, response.CodeBadRequest, "recharge amount must be positive", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to recharge wallet", err)
		return
	}

	response.Success(c, gin.H{
		"account":     account,
		"transaction": txn,
	})
}

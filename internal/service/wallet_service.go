package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/gamedepot/internal/constants"
	"github.com/gamedepot/internal/models"
	"github.com/gamedepot/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WalletService 钱包服务。所有余额变动串行在账户行锁内完成，
// 流水参考号唯一，重复入账以参考号判重实现幂等。
type WalletService struct {
	walletRepo repository.WalletRepository
}

// NewWalletService 创建钱包服务
func NewWalletService(walletRepo repository.WalletRepository) *WalletService {
	return &WalletService{walletRepo: walletRepo}
}

// GetAccount 获取钱包账户（不存在时自动创建）
func (s *WalletService) GetAccount(userID uint) (*models.WalletAccount, error) {
	if userID == 0 {
		return nil, ErrWalletNotFound
	}
	var result *models.WalletAccount
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		account, err := s.ensureAccountForUpdate(s.walletRepo.WithTx(tx), userID, time.Now())
		if err != nil {
			return err
		}
		result = account
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListTransactions 查询钱包流水
func (s *WalletService) ListTransactions(filter repository.WalletTransactionListFilter) ([]models.WalletTransaction, int64, error) {
	return s.walletRepo.ListTransactions(filter)
}

// DebitForOrderTx 在事务内为订单扣减余额并记录流水。
// 余额不足时返回 ErrWalletInsufficient，由调用方回滚整个下单事务。
func (s *WalletService) DebitForOrderTx(tx *gorm.DB, order *models.Order) (*models.WalletTransaction, error) {
	if tx == nil || order == nil {
		return nil, ErrInvalidParams
	}
	amount := order.FinalPrice.Decimal.Round(2)
	if amount.LessThan(decimal.Zero) {
		return nil, ErrWalletAmountInvalid
	}

	repo := s.walletRepo.WithTx(tx)
	reference := buildOrderWalletReference(order.ID, constants.WalletTxnTypeOrderPay)
	exists, err := repo.GetTransactionByReference(reference)
	if err != nil {
		return nil, err
	}
	if exists != nil {
		return exists, nil
	}

	now := time.Now()
	account, err := s.ensureAccountForUpdate(repo, order.UserID, now)
	if err != nil {
		return nil, err
	}

	before := account.Balance.Decimal.Round(2)
	after := before.Sub(amount).Round(2)
	if after.LessThan(decimal.Zero) {
		return nil, ErrWalletInsufficient
	}
	account.Balance = models.NewMoneyFromDecimal(after)
	account.UpdatedAt = now
	if err := repo.UpdateAccount(account); err != nil {
		return nil, err
	}

	txn := &models.WalletTransaction{
		UserID:        order.UserID,
		OrderID:       &order.ID,
		Type:          constants.WalletTxnTypeOrderPay,
		Direction:     constants.WalletTxnDirectionOut,
		Amount:        models.NewMoneyFromDecimal(amount),
		BalanceBefore: models.NewMoneyFromDecimal(before),
		BalanceAfter:  models.NewMoneyFromDecimal(after),
		Status:        constants.WalletTxnStatusCompleted,
		Currency:      normalizeWalletCurrency(order.Currency),
		Reference:     reference,
		Remark:        "订单余额支付",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := repo.CreateTransaction(txn); err != nil {
		return nil, err
	}
	return txn, nil
}

// CreditRefundTx 在事务内向钱包退款并记录流水。
// action 区分退款来源（整单取消、单项取消、退货），与订单ID一起
// 构成唯一参考号，重复调用只入账一次。
func (s *WalletService) CreditRefundTx(tx *gorm.DB, order *models.Order, amount models.Money, action, remark string) (*models.WalletTransaction, error) {
	if tx == nil || order == nil {
		return nil, ErrInvalidParams
	}
	value := amount.Decimal.Round(2)
	if value.LessThanOrEqual(decimal.Zero) {
		return nil, ErrWalletAmountInvalid
	}

	repo := s.walletRepo.WithTx(tx)
	reference := buildOrderWalletReference(order.ID, action)
	exists, err := repo.GetTransactionByReference(reference)
	if err != nil {
		return nil, err
	}
	if exists != nil {
		return nil, ErrWalletTxnDuplicate
	}

	now := time.Now()
	account, err := s.ensureAccountForUpdate(repo, order.UserID, now)
	if err != nil {
		return nil, err
	}

	before := account.Balance.Decimal.Round(2)
	after := before.Add(value).Round(2)
	account.Balance = models.NewMoneyFromDecimal(after)
	account.UpdatedAt = now
	if err := repo.UpdateAccount(account); err != nil {
		return nil, err
	}

	txn := &models.WalletTransaction{
		UserID:        order.UserID,
		OrderID:       &order.ID,
		Type:          constants.WalletTxnTypeOrderRefund,
		Direction:     constants.WalletTxnDirectionIn,
		Amount:        models.NewMoneyFromDecimal(value),
		BalanceBefore: models.NewMoneyFromDecimal(before),
		BalanceAfter:  models.NewMoneyFromDecimal(after),
		Status:        constants.WalletTxnStatusCompleted,
		Currency:      normalizeWalletCurrency(order.Currency),
		Reference:     reference,
		Remark:        cleanWalletRemark(remark, "订单退款"),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := repo.CreateTransaction(txn); err != nil {
		return nil, err
	}
	return txn, nil
}

// Recharge 用户充值余额
func (s *WalletService) Recharge(userID uint, amount models.Money, remark string) (*models.WalletAccount, *models.WalletTransaction, error) {
	if userID == 0 {
		return nil, nil, ErrWalletNotFound
	}
	value := amount.Decimal.Round(2)
	if value.LessThanOrEqual(decimal.Zero) {
		return nil, nil, ErrWalletAmountInvalid
	}
	reference := buildWalletReference("recharge", userID)
	return s.changeBalance(userID, value, constants.WalletTxnTypeRecharge, reference, cleanWalletRemark(remark, "用户充值"))
}

// AdminAdjustBalance 管理员增减用户余额
func (s *WalletService) AdminAdjustBalance(userID uint, delta models.Money, remark string) (*models.WalletAccount, *models.WalletTransaction, error) {
	if userID == 0 {
		return nil, nil, ErrWalletNotFound
	}
	value := delta.Decimal.Round(2)
	if value.IsZero() {
		return nil, nil, ErrWalletAmountInvalid
	}
	reference := buildWalletReference("admin_adjust", userID)
	return s.changeBalance(userID, value, constants.WalletTxnTypeAdminAdjust, reference, cleanWalletRemark(remark, "管理员调整余额"))
}

func (s *WalletService) changeBalance(userID uint, delta decimal.Decimal, txnType, reference, remark string) (*models.WalletAccount, *models.WalletTransaction, error) {
	var accountResult *models.WalletAccount
	var txnResult *models.WalletTransaction
	if err := models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.walletRepo.WithTx(tx)
		now := time.Now()
		account, err := s.ensureAccountForUpdate(repo, userID, now)
		if err != nil {
			return err
		}

		before := account.Balance.Decimal.Round(2)
		after := before.Add(delta).Round(2)
		if after.LessThan(decimal.Zero) {
			return ErrWalletInsufficient
		}
		direction := constants.WalletTxnDirectionIn
		amount := delta.Round(2)
		if delta.LessThan(decimal.Zero) {
			direction = constants.WalletTxnDirectionOut
			amount = delta.Abs().Round(2)
		}

		account.Balance = models.NewMoneyFromDecimal(after)
		account.UpdatedAt = now
		if err := repo.UpdateAccount(account); err != nil {
			return err
		}

		txn := &models.WalletTransaction{
			UserID:        userID,
			Type:          txnType,
			Direction:     direction,
			Amount:        models.NewMoneyFromDecimal(amount),
			BalanceBefore: models.NewMoneyFromDecimal(before),
			BalanceAfter:  models.NewMoneyFromDecimal(after),
			Status:        constants.WalletTxnStatusCompleted,
			Currency:      constants.SiteCurrencyDefault,
			Reference:     reference,
			Remark:        remark,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := repo.CreateTransaction(txn); err != nil {
			return err
		}
		accountResult = account
		txnResult = txn
		return nil
	}); err != nil {
		return nil, nil, err
	}
	return accountResult, txnResult, nil
}

func (s *WalletService) ensureAccountForUpdate(repo repository.WalletRepository, userID uint, now time.Time) (*models.WalletAccount, error) {
	account, err := repo.GetAccountByUserIDForUpdate(userID)
	if err != nil {
		return nil, err
	}
	if account != nil {
		return account, nil
	}
	account = &models.WalletAccount{
		UserID:    userID,
		Balance:   models.NewMoneyFromDecimal(decimal.Zero),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.CreateAccount(account); err != nil {
		created, queryErr := repo.GetAccountByUserIDForUpdate(userID)
		if queryErr == nil && created != nil {
			return created, nil
		}
		return nil, err
	}
	return account, nil
}

func normalizeWalletCurrency(currency string) string {
	normalized := strings.ToUpper(strings.TrimSpace(currency))
	if normalized == "" {
		return constants.SiteCurrencyDefault
	}
	return normalized
}

func cleanWalletRemark(raw string, fallback string) string {
	remark := strings.TrimSpace(raw)
	if remark == "" {
		return fallback
	}
	return remark
}

func buildOrderWalletReference(orderID uint, action string) string {
	action = strings.TrimSpace(action)
	if action == "" {
		action = "wallet"
	}
	return fmt.Sprintf("order:%d:%s", orderID, action)
}

func buildWalletReference(prefix string, id uint) string {
	normalized := strings.TrimSpace(prefix)
	if normalized == "" {
		normalized = "wallet"
	}
	return fmt.Sprintf("%s:%d:%d", normalized, id, time.Now().UnixNano())
}

package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/gamedepot/internal/constants"
	"github.com/gamedepot/internal/models"
	"github.com/gamedepot/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupWalletServiceTest(t *testing.T) (*WalletService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:wallet_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Order{},
		&models.OrderItem{},
		&models.WalletAccount{},
		&models.WalletTransaction{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return NewWalletService(repository.NewWalletRepository(db)), db
}

func walletTestOrder(t *testing.T, db *gorm.DB, userID uint, finalPrice int64) *models.Order {
	t.Helper()
	now := time.Now()
	order := &models.Order{
		OrderNo:         fmt.Sprintf("GD%d", now.UnixNano()),
		UserID:          userID,
		Status:          constants.OrderStatusProcessing,
		Currency:        constants.SiteCurrencyDefault,
		TotalAmount:     models.NewMoneyFromDecimal(decimal.NewFromInt(finalPrice)),
		FinalPrice:      models.NewMoneyFromDecimal(decimal.NewFromInt(finalPrice)),
		PaymentMethod:   constants.PaymentMethodWallet,
		PaymentStatus:   constants.PaymentStatusPending,
		AddressSnapshot: models.JSON{},
		PlacedAt:        now,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func TestWalletRechargeAndGetAccount(t *testing.T) {
	svc, _ := setupWalletServiceTest(t)

	account, txn, err := svc.Recharge(11, models.NewMoneyFromDecimal(decimal.NewFromInt(500)), "")
	if err != nil {
		t.Fatalf("recharge failed: %v", err)
	}
	if account.Balance.String() != "500.00" {
		t.Fatalf("balance = %s, want 500.00", account.Balance.String())
	}
	if txn.Direction != constants.WalletTxnDirectionIn || txn.Type != constants.WalletTxnTypeRecharge {
		t.Fatalf("unexpected txn %s/%s", txn.Type, txn.Direction)
	}
	if txn.BalanceBefore.String() != "0.00" || txn.BalanceAfter.String() != "500.00" {
		t.Fatalf("balance trail %s -> %s", txn.BalanceBefore.String(), txn.BalanceAfter.String())
	}

	got, err := svc.GetAccount(11)
	if err != nil {
		t.Fatalf("get account failed: %v", err)
	}
	if got.Balance.String() != "500.00" {
		t.Fatalf("reloaded balance = %s, want 500.00", got.Balance.String())
	}
}

func TestWalletRechargeRejectsNonPositive(t *testing.T) {
	svc, _ := setupWalletServiceTest(t)
	if _, _, err := svc.Recharge(11, models.Money{}, ""); !errors.Is(err, ErrWalletAmountInvalid) {
		t.Fatalf("zero recharge error = %v, want %v", err, ErrWalletAmountInvalid)
	}
	if _, _, err := svc.Recharge(11, models.NewMoneyFromDecimal(decimal.NewFromInt(-10)), ""); !errors.Is(err, ErrWalletAmountInvalid) {
		t.Fatalf("negative recharge error = %v, want %v", err, ErrWalletAmountInvalid)
	}
}

func TestDebitForOrderInsufficientBalance(t *testing.T) {
	svc, db := setupWalletServiceTest(t)
	order := walletTestOrder(t, db, 21, 300)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := svc.DebitForOrderTx(tx, order)
		return err
	})
	if !errors.Is(err, ErrWalletInsufficient) {
		t.Fatalf("debit error = %v, want %v", err, ErrWalletInsufficient)
	}

	// 回滚后不留账户余额变更
	account, err := svc.GetAccount(21)
	if err != nil {
		t.Fatalf("get account failed: %v", err)
	}
	if account.Balance.String() != "0.00" {
		t.Fatalf("balance = %s, want 0.00", account.Balance.String())
	}
}

func TestDebitForOrderIsIdempotent(t *testing.T) {
	svc, db := setupWalletServiceTest(t)
	if _, _, err := svc.Recharge(22, models.NewMoneyFromDecimal(decimal.NewFromInt(1000)), ""); err != nil {
		t.Fatalf("recharge failed: %v", err)
	}
	order := walletTestOrder(t, db, 22, 400)

	for i := 0; i < 2; i++ {
		if err := db.Transaction(func(tx *gorm.DB) error {
			_, err := svc.DebitForOrderTx(tx, order)
			return err
		}); err != nil {
			t.Fatalf("debit round %d failed: %v", i+1, err)
		}
	}

	account, err := svc.GetAccount(22)
	if err != nil {
		t.Fatalf("get account failed: %v", err)
	}
	if account.Balance.String() != "600.00" {
		t.Fatalf("balance = %s, want 600.00 after single debit", account.Balance.String())
	}

	var count int64
	if err := db.Model(&models.WalletTransaction{}).
		Where("reference = ?", fmt.Sprintf("order:%d:%s", order.ID, constants.WalletTxnTypeOrderPay)).
		Count(&count).Error; err != nil {
		t.Fatalf("count txn failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("txn count = %d, want 1", count)
	}
}

func TestCreditRefundDuplicateRejected(t *testing.T) {
	svc, db := setupWalletServiceTest(t)
	order := walletTestOrder(t, db, 23, 400)
	amount := models.NewMoneyFromDecimal(decimal.NewFromInt(400))

	if err := db.Transaction(func(tx *gorm.DB) error {
		_, err := svc.CreditRefundTx(tx, order, amount, "cancel", "整单取消退款")
		return err
	}); err != nil {
		t.Fatalf("refund failed: %v", err)
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := svc.CreditRefundTx(tx, order, amount, "cancel", "整单取消退款")
		return err
	})
	if !errors.Is(err, ErrWalletTxnDuplicate) {
		t.Fatalf("duplicate refund error = %v, want %v", err, ErrWalletTxnDuplicate)
	}

	// 不同 action 构成不同参考号，允许各自入账一次
	if err := db.Transaction(func(tx *gorm.DB) error {
		_, err := svc.CreditRefundTx(tx, order, amount, "return:1", "退货退款")
		return err
	}); err != nil {
		t.Fatalf("refund with new action failed: %v", err)
	}

	account, err := svc.GetAccount(23)
	if err != nil {
		t.Fatalf("get account failed: %v", err)
	}
	if account.Balance.String() != "800.00" {
		t.Fatalf("balance = %s, want 800.00", account.Balance.String())
	}
}

func TestAdminAdjustBalance(t *testing.T) {
	svc, _ := setupWalletServiceTest(t)
	if _, _, err := svc.Recharge(24, models.NewMoneyFromDecimal(decimal.NewFromInt(100)), ""); err != nil {
		t.Fatalf("recharge failed: %v", err)
	}

	account, txn, err := svc.AdminAdjustBalance(24, models.NewMoneyFromDecimal(decimal.NewFromInt(-40)), "差错调整")
	if err != nil {
		t.Fatalf("adjust failed: %v", err)
	}
	if account.Balance.String() != "60.00" {
		t.Fatalf("balance = %s, want 60.00", account.Balance.String())
	}
	if txn.Direction != constants.WalletTxnDirectionOut || txn.Amount.String() != "40.00" {
		t.Fatalf("unexpected txn %s %s", txn.Direction, txn.Amount.String())
	}

	if _, _, err := svc.AdminAdjustBalance(24, models.NewMoneyFromDecimal(decimal.NewFromInt(-100)), ""); !errors.Is(err, ErrWalletInsufficient) {
		t.Fatalf("over-deduct error = %v, want %v", err, ErrWalletInsufficient)
	}
}

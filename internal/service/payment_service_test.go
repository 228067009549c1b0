package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/gamedepot/internal/constants"
	"github.com/gamedepot/internal/models"
	"github.com/gamedepot/internal/payment/razorpay"
	"github.com/gamedepot/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const paymentTestSecret = "payment_test_secret"

func setupPaymentServiceTest(t *testing.T) (*PaymentService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:payment_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	models.DB = db
	if err := models.AutoMigrate(); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	gateway, err := razorpay.NewClient(razorpay.Config{KeyID: "rzp_test", KeySecret: paymentTestSecret})
	if err != nil {
		t.Fatalf("new gateway failed: %v", err)
	}
	svc := NewPaymentService(
		repository.NewOrderRepository(db),
		repository.NewProductRepository(db),
		gateway,
		time.Hour,
	)
	return svc, db
}

func paymentTestOrder(t *testing.T, db *gorm.DB, gatewayOrderID string, productID uint, qty int) *models.Order {
	t.Helper()
	now := time.Now()
	order := &models.Order{
		OrderNo:         fmt.Sprintf("GD%d", now.UnixNano()),
		UserID:          31,
		Status:          constants.OrderStatusProcessing,
		Currency:        constants.SiteCurrencyDefault,
		TotalAmount:     models.NewMoneyFromDecimal(decimal.NewFromInt(500)),
		FinalPrice:      models.NewMoneyFromDecimal(decimal.NewFromInt(500)),
		PaymentMethod:   constants.PaymentMethodRazorpay,
		PaymentStatus:   constants.PaymentStatusPending,
		GatewayOrderID:  gatewayOrderID,
		AddressSnapshot: models.JSON{},
		PlacedAt:        now,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	item := &models.OrderItem{
		OrderID:    order.ID,
		ProductID:  productID,
		Title:      "测试商品",
		UnitPrice:  models.NewMoneyFromDecimal(decimal.NewFromInt(250)),
		Quantity:   qty,
		TotalPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(500)),
		Status:     constants.ItemStatusProcessing,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("create order item failed: %v", err)
	}
	return order
}

func signConfirm(gatewayOrderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(paymentTestSecret))
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestConfirmPaymentConsumesReservedStock(t *testing.T) {
	svc, db := setupPaymentServiceTest(t)
	product := createTestProduct(t, db, 1, "paid-game", 250, 3)
	if err := db.Model(&models.Product{}).Where("id = ?", product.ID).
		Updates(map[string]interface{}{"stock": 1, "reserved_stock": 2}).Error; err != nil {
		t.Fatalf("seed reserved stock failed: %v", err)
	}
	order := paymentTestOrder(t, db, "order_rzp_1", product.ID, 2)

	confirmed, err := svc.ConfirmPayment(context.Background(), ConfirmPaymentInput{
		GatewayOrderID:   "order_rzp_1",
		GatewayPaymentID: "pay_1",
		Signature:        signConfirm("order_rzp_1", "pay_1"),
	})
	if err != nil {
		t.Fatalf("confirm payment failed: %v", err)
	}
	if confirmed.ID != order.ID || confirmed.PaymentStatus != constants.PaymentStatusPaid {
		t.Fatalf("unexpected confirm result %+v", confirmed)
	}

	got := reloadProduct(t, db, product.ID)
	if got.Stock != 1 || got.ReservedStock != 0 {
		t.Fatalf("stock/reserved = %d/%d, want 1/0", got.Stock, got.ReservedStock)
	}

	// 重复回调以支付状态判重兜底
	_, err = svc.ConfirmPayment(context.Background(), ConfirmPaymentInput{
		GatewayOrderID:   "order_rzp_1",
		GatewayPaymentID: "pay_1",
		Signature:        signConfirm("order_rzp_1", "pay_1"),
	})
	if !errors.Is(err, ErrPaymentAlreadyPaid) {
		t.Fatalf("replay error = %v, want %v", err, ErrPaymentAlreadyPaid)
	}
	got = reloadProduct(t, db, product.ID)
	if got.Stock != 1 || got.ReservedStock != 0 {
		t.Fatalf("stock mutated on replay: %d/%d", got.Stock, got.ReservedStock)
	}
}

func TestConfirmPaymentRejectsBadSignature(t *testing.T) {
	svc, db := setupPaymentServiceTest(t)
	product := createTestProduct(t, db, 1, "signed-game", 250, 3)
	paymentTestOrder(t, db, "order_rzp_2", product.ID, 1)

	_, err := svc.ConfirmPayment(context.Background(), ConfirmPaymentInput{
		GatewayOrderID:   "order_rzp_2",
		GatewayPaymentID: "pay_2",
		Signature:        signConfirm("order_rzp_2", "pay_other"),
	})
	if !errors.Is(err, ErrPaymentSignature) {
		t.Fatalf("bad signature error = %v, want %v", err, ErrPaymentSignature)
	}

	var reloaded models.Order
	if err := db.Where("gateway_order_id = ?", "order_rzp_2").First(&reloaded).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloaded.PaymentStatus != constants.PaymentStatusPending {
		t.Fatalf("payment status = %s, want pending", reloaded.PaymentStatus)
	}
}

func TestConfirmPaymentUnknownGatewayOrder(t *testing.T) {
	svc, _ := setupPaymentServiceTest(t)
	_, err := svc.ConfirmPayment(context.Background(), ConfirmPaymentInput{
		GatewayOrderID:   "order_missing",
		GatewayPaymentID: "pay_3",
		Signature:        signConfirm("order_missing", "pay_3"),
	})
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("unknown order error = %v, want %v", err, ErrOrderNotFound)
	}
}

func TestConfirmPaymentFailedOrderRejected(t *testing.T) {
	svc, db := setupPaymentServiceTest(t)
	product := createTestProduct(t, db, 1, "late-game", 250, 3)
	order := paymentTestOrder(t, db, "order_rzp_4", product.ID, 1)
	if err := db.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("payment_status", constants.PaymentStatusFailed).Error; err != nil {
		t.Fatalf("seed failed status failed: %v", err)
	}

	_, err := svc.ConfirmPayment(context.Background(), ConfirmPaymentInput{
		GatewayOrderID:   "order_rzp_4",
		GatewayPaymentID: "pay_4",
		Signature:        signConfirm("order_rzp_4", "pay_4"),
	})
	if !errors.Is(err, ErrPaymentNotPending) {
		t.Fatalf("failed order error = %v, want %v", err, ErrPaymentNotPending)
	}
}

func TestConfirmPaymentRetryAfterTransientFailure(t *testing.T) {
	svc, db := setupPaymentServiceTest(t)
	product := createTestProduct(t, db, 1, "retry-game", 250, 3)
	order := paymentTestOrder(t, db, "order_rzp_retry", product.ID, 2)

	// 预占库存缺失导致确认事务失败
	input := ConfirmPaymentInput{
		GatewayOrderID:   "order_rzp_retry",
		GatewayPaymentID: "pay_retry",
		Signature:        signConfirm("order_rzp_retry", "pay_retry"),
	}
	if _, err := svc.ConfirmPayment(context.Background(), input); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("confirm error = %v, want %v without reserved stock", err, ErrInsufficientStock)
	}
	reloaded := &models.Order{}
	if err := db.First(reloaded, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloaded.PaymentStatus != constants.PaymentStatusPending {
		t.Fatalf("payment status = %s, want pending after failed confirm", reloaded.PaymentStatus)
	}

	// 网关重试同一回调必须可以成功
	if err := db.Model(&models.Product{}).Where("id = ?", product.ID).
		Updates(map[string]interface{}{"stock": 1, "reserved_stock": 2}).Error; err != nil {
		t.Fatalf("seed reserved stock failed: %v", err)
	}
	confirmed, err := svc.ConfirmPayment(context.Background(), input)
	if err != nil {
		t.Fatalf("retry confirm failed: %v", err)
	}
	if confirmed.PaymentStatus != constants.PaymentStatusPaid {
		t.Fatalf("payment status = %s, want paid after retry", confirmed.PaymentStatus)
	}
}

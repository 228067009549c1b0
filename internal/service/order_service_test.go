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

type orderServiceFixture struct {
	orders  *OrderService
	wallets *WalletService
	db      *gorm.DB
}

func setupOrderServiceTest(t *testing.T) *orderServiceFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:order_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	models.DB = db
	if err := models.AutoMigrate(); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewProductRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	couponUsageRepo := repository.NewCouponUsageRepository(db)
	addressRepo := repository.NewAddressRepository(db)
	cartRepo := repository.NewCartRepository(db)
	walletService := NewWalletService(repository.NewWalletRepository(db))
	couponService := NewCouponService(couponRepo, couponUsageRepo)
	orderService := NewOrderService(
		orderRepo, productRepo, couponRepo, couponUsageRepo,
		addressRepo, cartRepo, couponService, walletService,
		nil, 30, 5,
	)
	return &orderServiceFixture{orders: orderService, wallets: walletService, db: db}
}

func createTestAddress(t *testing.T, db *gorm.DB, userID uint) *models.Address {
	t.Helper()
	address := &models.Address{
		UserID:  userID,
		Name:    "收货人",
		Phone:   "9990001111",
		Line1:   "1 MG Road",
		City:    "Bengaluru",
		Pincode: "560001",
	}
	if err := db.Create(address).Error; err != nil {
		t.Fatalf("create address failed: %v", err)
	}
	return address
}

func setDerivedDiscount(t *testing.T, db *gorm.DB, productID, offerID uint, discounted int64) {
	t.Helper()
	price := models.NewMoneyFromDecimal(decimal.NewFromInt(discounted))
	if err := db.Model(&models.Product{}).Where("id = ?", productID).
		Updates(map[string]interface{}{"best_offer_id": offerID, "discounted_price": price}).Error; err != nil {
		t.Fatalf("seed derived discount failed: %v", err)
	}
}

func TestPlaceOrderComputesAmounts(t *testing.T) {
	f := setupOrderServiceTest(t)
	address := createTestAddress(t, f.db, 1)
	product := createTestProduct(t, f.db, 1, "totk", 1000, 10)
	setDerivedDiscount(t, f.db, product.ID, 42, 900)
	createTestCoupon(t, f.db, &models.Coupon{
		Code:          "FLAT100",
		DiscountType:  constants.DiscountTypeFixed,
		DiscountValue: models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
		UsageLimit:    5,
		IsActive:      true,
	})

	order, err := f.orders.PlaceOrder(PlaceOrderInput{
		UserID:        1,
		Items:         []PlaceOrderItem{{ProductID: product.ID, Quantity: 2}},
		AddressID:     address.ID,
		PaymentMethod: constants.PaymentMethodCOD,
		CouponCode:    "flat100",
	})
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}

	if order.TotalAmount.String() != "2000.00" {
		t.Fatalf("total amount = %s, want 2000.00", order.TotalAmount.String())
	}
	if order.TotalDiscount.String() != "200.00" {
		t.Fatalf("total discount = %s, want 200.00", order.TotalDiscount.String())
	}
	if order.CouponDiscount.String() != "100.00" {
		t.Fatalf("coupon discount = %s, want 100.00", order.CouponDiscount.String())
	}
	if order.FinalPrice.String() != "1700.00" {
		t.Fatalf("final price = %s, want 1700.00", order.FinalPrice.String())
	}
	if order.Status != constants.OrderStatusProcessing || order.PaymentStatus != constants.PaymentStatusPending {
		t.Fatalf("unexpected status %s/%s", order.Status, order.PaymentStatus)
	}
	if len(order.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(order.Items))
	}
	item := order.Items[0]
	if item.UnitPrice.String() != "1000.00" || item.UnitDiscount.String() != "100.00" || item.TotalPrice.String() != "1800.00" {
		t.Fatalf("item snapshot %s/%s/%s", item.UnitPrice.String(), item.UnitDiscount.String(), item.TotalPrice.String())
	}

	if got := reloadProduct(t, f.db, product.ID); got.Stock != 8 {
		t.Fatalf("stock = %d, want 8", got.Stock)
	}
	var coupon models.Coupon
	if err := f.db.Where("code = ?", "FLAT100").First(&coupon).Error; err != nil {
		t.Fatalf("reload coupon failed: %v", err)
	}
	if coupon.UsedCount != 1 {
		t.Fatalf("used count = %d, want 1", coupon.UsedCount)
	}
	var usages int64
	if err := f.db.Model(&models.CouponUsage{}).Where("order_id = ?", order.ID).Count(&usages).Error; err != nil {
		t.Fatalf("count usages failed: %v", err)
	}
	if usages != 1 {
		t.Fatalf("usage records = %d, want 1", usages)
	}
}

func TestPlaceOrderMergesDuplicateItems(t *testing.T) {
	f := setupOrderServiceTest(t)
	address := createTestAddress(t, f.db, 1)
	product := createTestProduct(t, f.db, 1, "splatoon", 500, 10)

	order, err := f.orders.PlaceOrder(PlaceOrderInput{
		UserID: 1,
		Items: []PlaceOrderItem{
			{ProductID: product.ID, Quantity: 1},
			{ProductID: product.ID, Quantity: 2},
		},
		AddressID:     address.ID,
		PaymentMethod: constants.PaymentMethodCOD,
	})
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	if len(order.Items) != 1 || order.Items[0].Quantity != 3 {
		t.Fatalf("duplicate items should merge, got %d items", len(order.Items))
	}
}

func TestPlaceOrderValidatesAllBeforeAnyMutation(t *testing.T) {
	f := setupOrderServiceTest(t)
	address := createTestAddress(t, f.db, 1)
	ok := createTestProduct(t, f.db, 1, "in-stock", 100, 10)
	low := createTestProduct(t, f.db, 1, "low-stock", 100, 1)

	_, err := f.orders.PlaceOrder(PlaceOrderInput{
		UserID: 1,
		Items: []PlaceOrderItem{
			{ProductID: ok.ID, Quantity: 2},
			{ProductID: low.ID, Quantity: 5},
		},
		AddressID:     address.ID,
		PaymentMethod: constants.PaymentMethodCOD,
	})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("place order error = %v, want %v", err, ErrInsufficientStock)
	}

	if got := reloadProduct(t, f.db, ok.ID); got.Stock != 10 {
		t.Fatalf("stock of first item mutated to %d", got.Stock)
	}
	var count int64
	if err := f.db.Model(&models.Order{}).Count(&count).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("orders = %d, want 0", count)
	}
}

func TestPlaceOrderWalletDebitsBalance(t *testing.T) {
	f := setupOrderServiceTest(t)
	address := createTestAddress(t, f.db, 2)
	product := createTestProduct(t, f.db, 1, "odyssey", 300, 5)
	if _, _, err := f.wallets.Recharge(2, models.NewMoneyFromDecimal(decimal.NewFromInt(1000)), ""); err != nil {
		t.Fatalf("recharge failed: %v", err)
	}

	order, err := f.orders.PlaceOrder(PlaceOrderInput{
		UserID:        2,
		Items:         []PlaceOrderItem{{ProductID: product.ID, Quantity: 2}},
		AddressID:     address.ID,
		PaymentMethod: constants.PaymentMethodWallet,
	})
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	if order.PaymentStatus != constants.PaymentStatusPaid {
		t.Fatalf("payment status = %s, want paid", order.PaymentStatus)
	}
	account, err := f.wallets.GetAccount(2)
	if err != nil {
		t.Fatalf("get account failed: %v", err)
	}
	if account.Balance.String() != "400.00" {
		t.Fatalf("balance = %s, want 400.00", account.Balance.String())
	}
}

func TestPlaceOrderWalletInsufficientRollsBackEverything(t *testing.T) {
	f := setupOrderServiceTest(t)
	address := createTestAddress(t, f.db, 3)
	product := createTestProduct(t, f.db, 1, "pricey", 900, 5)
	createTestCoupon(t, f.db, &models.Coupon{
		Code:          "TINY",
		DiscountType:  constants.DiscountTypeFixed,
		DiscountValue: models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		IsActive:      true,
	})

	_, err := f.orders.PlaceOrder(PlaceOrderInput{
		UserID:        3,
		Items:         []PlaceOrderItem{{ProductID: product.ID, Quantity: 1}},
		AddressID:     address.ID,
		PaymentMethod: constants.PaymentMethodWallet,
		CouponCode:    "TINY",
	})
	if !errors.Is(err, ErrWalletInsufficient) {
		t.Fatalf("place order error = %v, want %v", err, ErrWalletInsufficient)
	}

	if got := reloadProduct(t, f.db, product.ID); got.Stock != 5 {
		t.Fatalf("stock = %d, want 5 after rollback", got.Stock)
	}
	var orders int64
	if err := f.db.Model(&models.Order{}).Count(&orders).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if orders != 0 {
		t.Fatalf("orders = %d, want 0 after rollback", orders)
	}
	var coupon models.Coupon
	if err := f.db.Where("code = ?", "TINY").First(&coupon).Error; err != nil {
		t.Fatalf("reload coupon failed: %v", err)
	}
	if coupon.UsedCount != 0 {
		t.Fatalf("used count = %d, want 0 after rollback", coupon.UsedCount)
	}
}

func TestPlaceOrderRazorpayReservesStock(t *testing.T) {
	f := setupOrderServiceTest(t)
	address := createTestAddress(t, f.db, 4)
	product := createTestProduct(t, f.db, 1, "gateway-game", 200, 5)

	order, err := f.orders.PlaceOrder(PlaceOrderInput{
		UserID:        4,
		Items:         []PlaceOrderItem{{ProductID: product.ID, Quantity: 2}},
		AddressID:     address.ID,
		PaymentMethod: constants.PaymentMethodRazorpay,
	})
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	if order.PaymentStatus != constants.PaymentStatusPending {
		t.Fatalf("payment status = %s, want pending", order.PaymentStatus)
	}
	got := reloadProduct(t, f.db, product.ID)
	if got.Stock != 3 || got.ReservedStock != 2 {
		t.Fatalf("stock/reserved = %d/%d, want 3/2", got.Stock, got.ReservedStock)
	}
}

func TestPlaceOrderClearsCart(t *testing.T) {
	f := setupOrderServiceTest(t)
	address := createTestAddress(t, f.db, 5)
	product := createTestProduct(t, f.db, 1, "cart-game", 100, 5)
	if err := f.db.Create(&models.CartItem{UserID: 5, ProductID: product.ID, Quantity: 1}).Error; err != nil {
		t.Fatalf("create cart item failed: %v", err)
	}

	if _, err := f.orders.PlaceOrder(PlaceOrderInput{
		UserID:        5,
		Items:         []PlaceOrderItem{{ProductID: product.ID, Quantity: 1}},
		AddressID:     address.ID,
		PaymentMethod: constants.PaymentMethodCOD,
		ClearCart:     true,
	}); err != nil {
		t.Fatalf("place order failed: %v", err)
	}

	var count int64
	if err := f.db.Model(&models.CartItem{}).Where("user_id = ?", 5).Count(&count).Error; err != nil {
		t.Fatalf("count cart failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("cart items = %d, want 0", count)
	}
}

func TestCancelOrderRestocksAndRefunds(t *testing.T) {
	f := setupOrderServiceTest(t)
	address := createTestAddress(t, f.db, 6)
	product := createTestProduct(t, f.db, 1, "refundable", 250, 4)
	if _, _, err := f.wallets.Recharge(6, models.NewMoneyFromDecimal(decimal.NewFromInt(500)), ""); err != nil {
		t.Fatalf("recharge failed: %v", err)
	}
	order, err := f.orders.PlaceOrder(PlaceOrderInput{
		UserID:        6,
		Items:         []PlaceOrderItem{{ProductID: product.ID, Quantity: 2}},
		AddressID:     address.ID,
		PaymentMethod: constants.PaymentMethodWallet,
	})
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}

	cancelled, err := f.orders.CancelOrder(order.ID, 6)
	if err != nil {
		t.Fatalf("cancel order failed: %v", err)
	}
	if cancelled.Status != constants.OrderStatusCancelled {
		t.Fatalf("status = %s, want cancelled", cancelled.Status)
	}
	if got := reloadProduct(t, f.db, product.ID); got.Stock != 4 {
		t.Fatalf("stock = %d, want 4 after restock", got.Stock)
	}
	account, err := f.wallets.GetAccount(6)
	if err != nil {
		t.Fatalf("get account failed: %v", err)
	}
	if account.Balance.String() != "500.00" {
		t.Fatalf("balance = %s, want 500.00 after full refund", account.Balance.String())
	}

	// 重复取消被拒绝，余额不再变化
	if _, err := f.orders.CancelOrder(order.ID, 6); !errors.Is(err, ErrOrderNotCancellable) {
		t.Fatalf("second cancel error = %v, want %v", err, ErrOrderNotCancellable)
	}
}

func TestCancelOrderItemRefundsProportionalShare(t *testing.T) {
	f := setupOrderServiceTest(t)
	address := createTestAddress(t, f.db, 7)
	big := createTestProduct(t, f.db, 1, "big-item", 600, 4)
	small := createTestProduct(t, f.db, 1, "small-item", 400, 4)
	createTestCoupon(t, f.db, &models.Coupon{
		Code:          "SHARE100",
		DiscountType:  constants.DiscountTypeFixed,
		DiscountValue: models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
		IsActive:      true,
	})
	if _, _, err := f.wallets.Recharge(7, models.NewMoneyFromDecimal(decimal.NewFromInt(1000)), ""); err != nil {
		t.Fatalf("recharge failed: %v", err)
	}

	order, err := f.orders.PlaceOrder(PlaceOrderInput{
		UserID: 7,
		Items: []PlaceOrderItem{
			{ProductID: big.ID, Quantity: 1},
			{ProductID: small.ID, Quantity: 1},
		},
		AddressID:     address.ID,
		PaymentMethod: constants.PaymentMethodWallet,
		CouponCode:    "SHARE100",
	})
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	if order.FinalPrice.String() != "900.00" {
		t.Fatalf("final price = %s, want 900.00", order.FinalPrice.String())
	}
	var bigItem *models.OrderItem
	for i := range order.Items {
		if order.Items[i].ProductID == big.ID {
			bigItem = &order.Items[i]
		}
	}
	if bigItem == nil {
		t.Fatalf("big item missing from order")
	}

	// 600 行分摊 60 优惠券折扣，应退 540
	updated, err := f.orders.CancelOrderItem(order.ID, bigItem.ID, 7)
	if err != nil {
		t.Fatalf("cancel item failed: %v", err)
	}
	if updated.RefundedAmount.String() != "540.00" {
		t.Fatalf("refunded = %s, want 540.00", updated.RefundedAmount.String())
	}
	if updated.Status != constants.OrderStatusProcessing {
		t.Fatalf("status = %s, want processing with remaining item", updated.Status)
	}
	account, err := f.wallets.GetAccount(7)
	if err != nil {
		t.Fatalf("get account failed: %v", err)
	}
	if account.Balance.String() != "640.00" {
		t.Fatalf("balance = %s, want 640.00", account.Balance.String())
	}
	if got := reloadProduct(t, f.db, big.ID); got.Stock != 4 {
		t.Fatalf("stock = %d, want 4 after restock", got.Stock)
	}
	if got := reloadProduct(t, f.db, small.ID); got.Stock != 3 {
		t.Fatalf("other item stock = %d, want 3", got.Stock)
	}
}

func TestAdminShipAndDeliverFlow(t *testing.T) {
	f := setupOrderServiceTest(t)
	address := createTestAddress(t, f.db, 8)
	product := createTestProduct(t, f.db, 1, "cod-game", 150, 5)
	order, err := f.orders.PlaceOrder(PlaceOrderInput{
		UserID:        8,
		Items:         []PlaceOrderItem{{ProductID: product.ID, Quantity: 1}},
		AddressID:     address.ID,
		PaymentMethod: constants.PaymentMethodCOD,
	})
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}

	shipped, err := f.orders.UpdateOrderStatusAdmin(order.ID, constants.OrderStatusShipped)
	if err != nil {
		t.Fatalf("ship failed: %v", err)
	}
	if shipped.Status != constants.OrderStatusShipped {
		t.Fatalf("status = %s, want shipped", shipped.Status)
	}
	if shipped.DeliveryBy == nil {
		t.Fatalf("delivery_by should be set when shipping")
	}

	// 送达前不允许再次发货
	if _, err := f.orders.UpdateOrderStatusAdmin(order.ID, constants.OrderStatusShipped); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("re-ship error = %v, want %v", err, ErrInvalidTransition)
	}

	delivered, err := f.orders.UpdateOrderStatusAdmin(order.ID, constants.OrderStatusDelivered)
	if err != nil {
		t.Fatalf("deliver failed: %v", err)
	}
	if delivered.Status != constants.OrderStatusDelivered {
		t.Fatalf("status = %s, want delivered", delivered.Status)
	}
	// 货到付款在送达时收款
	if delivered.PaymentStatus != constants.PaymentStatusPaid {
		t.Fatalf("payment status = %s, want paid on delivery", delivered.PaymentStatus)
	}

	// 已发货订单不可由用户取消
	if _, err := f.orders.CancelOrder(order.ID, 8); !errors.Is(err, ErrOrderNotCancellable) {
		t.Fatalf("cancel delivered error = %v, want %v", err, ErrOrderNotCancellable)
	}
}

func TestReturnFlowApproveAndReject(t *testing.T) {
	f := setupOrderServiceTest(t)
	address := createTestAddress(t, f.db, 9)
	keep := createTestProduct(t, f.db, 1, "keep-game", 300, 5)
	back := createTestProduct(t, f.db, 1, "back-game", 200, 5)
	order, err := f.orders.PlaceOrder(PlaceOrderInput{
		UserID: 9,
		Items: []PlaceOrderItem{
			{ProductID: keep.ID, Quantity: 1},
			{ProductID: back.ID, Quantity: 1},
		},
		AddressID:     address.ID,
		PaymentMethod: constants.PaymentMethodCOD,
	})
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	if _, err := f.orders.UpdateOrderStatusAdmin(order.ID, constants.OrderStatusShipped); err != nil {
		t.Fatalf("ship failed: %v", err)
	}
	if _, err := f.orders.UpdateOrderStatusAdmin(order.ID, constants.OrderStatusDelivered); err != nil {
		t.Fatalf("deliver failed: %v", err)
	}
	order, err = f.orders.GetOrder(order.ID, 9)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	var backItem, keepItem *models.OrderItem
	for i := range order.Items {
		switch order.Items[i].ProductID {
		case back.ID:
			backItem = &order.Items[i]
		case keep.ID:
			keepItem = &order.Items[i]
		}
	}
	if backItem == nil || keepItem == nil {
		t.Fatalf("order items missing")
	}

	requested, err := f.orders.RequestReturn(order.ID, backItem.ID, 9, "不喜欢")
	if err != nil {
		t.Fatalf("request return failed: %v", err)
	}
	if requested.Status != constants.OrderStatusReturnRequested {
		t.Fatalf("status = %s, want return_requested", requested.Status)
	}

	approved, err := f.orders.ApproveReturn(order.ID, backItem.ID)
	if err != nil {
		t.Fatalf("approve return failed: %v", err)
	}
	if approved.Status != constants.OrderStatusPartiallyReturned {
		t.Fatalf("status = %s, want partially_returned", approved.Status)
	}
	if approved.RefundedAmount.String() != "200.00" {
		t.Fatalf("refunded = %s, want 200.00", approved.RefundedAmount.String())
	}
	if got := reloadProduct(t, f.db, back.ID); got.Stock != 5 {
		t.Fatalf("stock = %d, want 5 after return restock", got.Stock)
	}
	// 退款入账钱包
	account, err := f.wallets.GetAccount(9)
	if err != nil {
		t.Fatalf("get account failed: %v", err)
	}
	if account.Balance.String() != "200.00" {
		t.Fatalf("balance = %s, want 200.00", account.Balance.String())
	}

	// 同一申请不可重复处理
	if _, err := f.orders.ApproveReturn(order.ID, backItem.ID); !errors.Is(err, ErrReturnNotRequested) {
		t.Fatalf("re-approve error = %v, want %v", err, ErrReturnNotRequested)
	}

	// 另一项走拒绝路径：无退款、无库存回补，订单视同全部送达
	if _, err := f.orders.RequestReturn(order.ID, keepItem.ID, 9, "多买了"); err != nil {
		t.Fatalf("request return failed: %v", err)
	}
	rejected, err := f.orders.RejectReturn(order.ID, keepItem.ID)
	if err != nil {
		t.Fatalf("reject return failed: %v", err)
	}
	if rejected.RefundedAmount.String() != "200.00" {
		t.Fatalf("refunded = %s, want unchanged 200.00", rejected.RefundedAmount.String())
	}
	if rejected.Status != constants.OrderStatusPartiallyReturned {
		t.Fatalf("status = %s, want partially_returned", rejected.Status)
	}
	if got := reloadProduct(t, f.db, keep.ID); got.Stock != 4 {
		t.Fatalf("stock = %d, want 4 without restock", got.Stock)
	}
}

func TestReleasePaymentTimeout(t *testing.T) {
	f := setupOrderServiceTest(t)
	address := createTestAddress(t, f.db, 10)
	product := createTestProduct(t, f.db, 1, "timeout-game", 100, 5)
	order, err := f.orders.PlaceOrder(PlaceOrderInput{
		UserID:        10,
		Items:         []PlaceOrderItem{{ProductID: product.ID, Quantity: 2}},
		AddressID:     address.ID,
		PaymentMethod: constants.PaymentMethodRazorpay,
	})
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}

	if err := f.orders.ReleasePaymentTimeout(order.ID); err != nil {
		t.Fatalf("release timeout failed: %v", err)
	}
	got := reloadProduct(t, f.db, product.ID)
	if got.Stock != 5 || got.ReservedStock != 0 {
		t.Fatalf("stock/reserved = %d/%d, want 5/0", got.Stock, got.ReservedStock)
	}
	reloaded, err := f.orders.GetOrderAdmin(order.ID)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusCancelled {
		t.Fatalf("status = %s, want cancelled", reloaded.Status)
	}
	if reloaded.PaymentStatus != constants.PaymentStatusFailed {
		t.Fatalf("payment status = %s, want failed", reloaded.PaymentStatus)
	}

	// 再次触发为空操作
	if err := f.orders.ReleasePaymentTimeout(order.ID); err != nil {
		t.Fatalf("second release should be a no-op, got %v", err)
	}
}

func TestPlaceOrderRejectsUnknownPaymentMethod(t *testing.T) {
	f := setupOrderServiceTest(t)
	address := createTestAddress(t, f.db, 11)
	product := createTestProduct(t, f.db, 1, "any-game", 100, 5)

	_, err := f.orders.PlaceOrder(PlaceOrderInput{
		UserID:        11,
		Items:         []PlaceOrderItem{{ProductID: product.ID, Quantity: 1}},
		AddressID:     address.ID,
		PaymentMethod: "upi",
	})
	if !errors.Is(err, ErrPaymentMethodInvalid) {
		t.Fatalf("place order error = %v, want %v", err, ErrPaymentMethodInvalid)
	}
}

func TestAdminCancelShippedOrderRestocksAndRefunds(t *testing.T) {
	f := setupOrderServiceTest(t)
	address := createTestAddress(t, f.db, 11)
	product := createTestProduct(t, f.db, 1, "ship-cancel", 200, 3)
	if _, _, err := f.wallets.Recharge(11, models.NewMoneyFromDecimal(decimal.NewFromInt(500)), ""); err != nil {
		t.Fatalf("recharge failed: %v", err)
	}
	order, err := f.orders.PlaceOrder(PlaceOrderInput{
		UserID:        11,
		Items:         []PlaceOrderItem{{ProductID: product.ID, Quantity: 2}},
		AddressID:     address.ID,
		PaymentMethod: constants.PaymentMethodWallet,
	})
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	if _, err := f.orders.UpdateOrderStatusAdmin(order.ID, constants.OrderStatusShipped); err != nil {
		t.Fatalf("ship failed: %v", err)
	}

	// 已发货订单用户不可取消，管理端可以
	if _, err := f.orders.CancelOrder(order.ID, 11); !errors.Is(err, ErrOrderNotCancellable) {
		t.Fatalf("user cancel error = %v, want %v", err, ErrOrderNotCancellable)
	}
	cancelled, err := f.orders.UpdateOrderStatusAdmin(order.ID, constants.OrderStatusCancelled)
	if err != nil {
		t.Fatalf("admin cancel of shipped order failed: %v", err)
	}
	if cancelled.Status != constants.OrderStatusCancelled {
		t.Fatalf("status = %s, want cancelled", cancelled.Status)
	}
	if got := reloadProduct(t, f.db, product.ID); got.Stock != 3 {
		t.Fatalf("stock = %d, want 3 after restock", got.Stock)
	}
	account, err := f.wallets.GetAccount(11)
	if err != nil {
		t.Fatalf("get account failed: %v", err)
	}
	if account.Balance.String() != "500.00" {
		t.Fatalf("balance = %s, want 500.00 after full refund", account.Balance.String())
	}

	// 已取消为终态
	if _, err := f.orders.UpdateOrderStatusAdmin(order.ID, constants.OrderStatusCancelled); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("re-cancel error = %v, want %v", err, ErrInvalidTransition)
	}
}

func TestAdminCancelShippedCODOrder(t *testing.T) {
	f := setupOrderServiceTest(t)
	address := createTestAddress(t, f.db, 12)
	product := createTestProduct(t, f.db, 1, "cod-ship-cancel", 120, 5)
	order, err := f.orders.PlaceOrder(PlaceOrderInput{
		UserID:        12,
		Items:         []PlaceOrderItem{{ProductID: product.ID, Quantity: 1}},
		AddressID:     address.ID,
		PaymentMethod: constants.PaymentMethodCOD,
	})
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	if _, err := f.orders.UpdateOrderStatusAdmin(order.ID, constants.OrderStatusShipped); err != nil {
		t.Fatalf("ship failed: %v", err)
	}

	cancelled, err := f.orders.UpdateOrderStatusAdmin(order.ID, constants.OrderStatusCancelled)
	if err != nil {
		t.Fatalf("admin cancel of shipped order failed: %v", err)
	}
	if cancelled.Status != constants.OrderStatusCancelled {
		t.Fatalf("status = %s, want cancelled", cancelled.Status)
	}
	// 未收款，无退款产生
	if cancelled.RefundedAmount.String() != "0.00" {
		t.Fatalf("refunded = %s, want 0.00", cancelled.RefundedAmount.String())
	}
	if got := reloadProduct(t, f.db, product.ID); got.Stock != 5 {
		t.Fatalf("stock = %d, want 5 after restock", got.Stock)
	}
}

func TestCancelOrderReleasesCouponUsage(t *testing.T) {
	f := setupOrderServiceTest(t)
	address := createTestAddress(t, f.db, 13)
	product := createTestProduct(t, f.db, 1, "coupon-cancel", 300, 5)
	coupon := createTestCoupon(t, f.db, &models.Coupon{
		Code:          "ONCEONLY",
		DiscountType:  constants.DiscountTypeFixed,
		DiscountValue: models.NewMoneyFromDecimal(decimal.NewFromInt(50)),
		UsageLimit:    1,
		PerUserLimit:  1,
		IsActive:      true,
	})

	order, err := f.orders.PlaceOrder(PlaceOrderInput{
		UserID:        13,
		Items:         []PlaceOrderItem{{ProductID: product.ID, Quantity: 1}},
		AddressID:     address.ID,
		PaymentMethod: constants.PaymentMethodCOD,
		CouponCode:    "ONCEONLY",
	})
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	if _, err := f.orders.CancelOrder(order.ID, 13); err != nil {
		t.Fatalf("cancel order failed: %v", err)
	}

	var reloaded models.Coupon
	if err := f.db.First(&reloaded, coupon.ID).Error; err != nil {
		t.Fatalf("reload coupon failed: %v", err)
	}
	if reloaded.UsedCount != 0 {
		t.Fatalf("used count = %d, want 0 after cancellation", reloaded.UsedCount)
	}
	var usages int64
	if err := f.db.Model(&models.CouponUsage{}).Where("order_id = ?", order.ID).Count(&usages).Error; err != nil {
		t.Fatalf("count usages failed: %v", err)
	}
	if usages != 0 {
		t.Fatalf("usage rows = %d, want 0 after cancellation", usages)
	}

	// 资格返还后同一用户可再次使用
	if _, err := f.orders.PlaceOrder(PlaceOrderInput{
		UserID:        13,
		Items:         []PlaceOrderItem{{ProductID: product.ID, Quantity: 1}},
		AddressID:     address.ID,
		PaymentMethod: constants.PaymentMethodCOD,
		CouponCode:    "ONCEONLY",
	}); err != nil {
		t.Fatalf("re-use of released coupon failed: %v", err)
	}
}

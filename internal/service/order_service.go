package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/gamedepot/internal/constants"
	"github.com/gamedepot/internal/logger"
	"github.com/gamedepot/internal/models"
	"github.com/gamedepot/internal/queue"
	"github.com/gamedepot/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderService 订单服务：下单计价、状态机流转、取消与退货退款
type OrderService struct {
	orderRepo       repository.OrderRepository
	productRepo     repository.ProductRepository
	couponRepo      repository.CouponRepository
	couponUsageRepo repository.CouponUsageRepository
	addressRepo     repository.AddressRepository
	cartRepo        repository.CartRepository
	couponService   *CouponService
	walletService   *WalletService
	queueClient     *queue.Client
	expireMinutes   int
	deliveryDays    int
}

// NewOrderService 创建订单服务
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	couponRepo repository.CouponRepository,
	couponUsageRepo repository.CouponUsageRepository,
	addressRepo repository.AddressRepository,
	cartRepo repository.CartRepository,
	couponService *CouponService,
	walletService *WalletService,
	queueClient *queue.Client,
	expireMinutes int,
	deliveryDays int,
) *OrderService {
	if expireMinutes <= 0 {
		expireMinutes = 30
	}
	if deliveryDays <= 0 {
		deliveryDays = 5
	}
	return &OrderService{
		orderRepo:       orderRepo,
		productRepo:     productRepo,
		couponRepo:      couponRepo,
		couponUsageRepo: couponUsageRepo,
		addressRepo:     addressRepo,
		cartRepo:        cartRepo,
		couponService:   couponService,
		walletService:   walletService,
		queueClient:     queueClient,
		expireMinutes:   expireMinutes,
		deliveryDays:    deliveryDays,
	}
}

// PlaceOrderItem 下单商品项
type PlaceOrderItem struct {
	ProductID uint
	Quantity  int
}

// PlaceOrderInput 下单输入
type PlaceOrderInput struct {
	UserID        uint
	Items         []PlaceOrderItem
	AddressID     uint
	PaymentMethod string
	CouponCode    string
	ClearCart     bool
}

// PlaceOrder 创建订单。全部校验先于任何库存或余额变更，
// 订单、订单项、库存扣减、钱包扣款与优惠券占用在同一事务内提交，
// 任一环节失败则整体回滚，不产生半成品订单。
func (s *OrderService) PlaceOrder(input PlaceOrderInput) (*models.Order, error) {
	if input.UserID == 0 || len(input.Items) == 0 {
		return nil, ErrInvalidParams
	}
	switch input.PaymentMethod {
	case constants.PaymentMethodWallet, constants.PaymentMethodCOD, constants.PaymentMethodRazorpay:
	default:
		return nil, ErrPaymentMethodInvalid
	}

	items, err := mergePlaceOrderItems(input.Items)
	if err != nil {
		return nil, err
	}

	address, err := s.addressRepo.GetByIDAndUser(input.AddressID, input.UserID)
	if err != nil {
		return nil, err
	}
	if address == nil {
		return nil, ErrAddressNotFound
	}

	var created *models.Order
	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)

		ids := make([]uint, 0, len(items))
		for _, item := range items {
			ids = append(ids, item.ProductID)
		}
		products, err := productRepo.ListByIDs(ids)
		if err != nil {
			return err
		}
		productByID := make(map[uint]*models.Product, len(products))
		for i := range products {
			productByID[products[i].ID] = &products[i]
		}

		// 先整体校验再落库，避免部分扣减
		for _, item := range items {
			product, ok := productByID[item.ProductID]
			if !ok {
				return ErrProductNotFound
			}
			if !product.IsActive {
				return ErrProductInactive
			}
			if product.Stock < item.Quantity {
				return ErrInsufficientStock
			}
		}

		now := time.Now()
		subtotal := decimal.Zero
		totalDiscount := decimal.Zero
		orderItems := make([]models.OrderItem, 0, len(items))
		for _, item := range items {
			product := productByID[item.ProductID]
			unitDiscount := decimal.Zero
			// 下单信任缓存的最优活动折后价，不在结账路径重算
			if product.BestOfferID != nil && product.DiscountedPrice != nil {
				unitDiscount = product.Price.Decimal.Sub(product.DiscountedPrice.Decimal)
				if unitDiscount.LessThan(decimal.Zero) {
					unitDiscount = decimal.Zero
				}
			}
			qty := decimal.NewFromInt(int64(item.Quantity))
			lineTotal := product.Price.Decimal.Sub(unitDiscount).Mul(qty)
			subtotal = subtotal.Add(product.Price.Decimal.Mul(qty))
			totalDiscount = totalDiscount.Add(unitDiscount.Mul(qty))

			orderItems = append(orderItems, models.OrderItem{
				ProductID:    product.ID,
				Title:        product.Title,
				UnitPrice:    product.Price,
				UnitDiscount: models.NewMoneyFromDecimal(unitDiscount),
				Quantity:     item.Quantity,
				TotalPrice:   models.NewMoneyFromDecimal(lineTotal),
				Status:       constants.ItemStatusProcessing,
				CreatedAt:    now,
				UpdatedAt:    now,
			})
		}

		couponDiscount := models.Money{}
		var coupon *models.Coupon
		if strings.TrimSpace(input.CouponCode) != "" {
			couponDiscount, coupon, err = s.couponService.ApplyCoupon(
				models.NewMoneyFromDecimal(subtotal), input.CouponCode, input.UserID)
			if err != nil {
				return err
			}
		}

		finalPrice := subtotal.Sub(totalDiscount).Sub(couponDiscount.Decimal)
		if finalPrice.LessThan(decimal.Zero) {
			finalPrice = decimal.Zero
		}

		// 库存落库：网关支付转入预占，其余直接扣减
		for _, item := range items {
			var affected int64
			var err error
			if input.PaymentMethod == constants.PaymentMethodRazorpay {
				affected, err = productRepo.ReserveStock(item.ProductID, item.Quantity)
			} else {
				affected, err = productRepo.DecrementStock(item.ProductID, item.Quantity)
			}
			if err != nil {
				return err
			}
			if affected == 0 {
				return ErrInsufficientStock
			}
		}

		paymentStatus := constants.PaymentStatusPending
		order := &models.Order{
			OrderNo:         generateOrderNo(),
			UserID:          input.UserID,
			Status:          constants.OrderStatusProcessing,
			Currency:        constants.SiteCurrencyDefault,
			TotalAmount:     models.NewMoneyFromDecimal(subtotal),
			TotalDiscount:   models.NewMoneyFromDecimal(totalDiscount),
			CouponDiscount:  couponDiscount,
			FinalPrice:      models.NewMoneyFromDecimal(finalPrice),
			PaymentMethod:   input.PaymentMethod,
			PaymentStatus:   paymentStatus,
			AddressSnapshot: address.Snapshot(),
			PlacedAt:        now,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if coupon != nil {
			order.CouponID = &coupon.ID
			order.CouponCode = coupon.Code
		}
		if err := orderRepo.Create(order, orderItems); err != nil {
			return err
		}

		if coupon != nil {
			couponRepo := s.couponRepo.WithTx(tx)
			affected, err := couponRepo.IncrementUsedCount(coupon.ID, 1)
			if err != nil {
				return err
			}
			if affected == 0 {
				return ErrCouponUsageLimit
			}
			usage := &models.CouponUsage{
				CouponID:       coupon.ID,
				UserID:         input.UserID,
				OrderID:        order.ID,
				DiscountAmount: couponDiscount,
				CreatedAt:      now,
			}
			if err := s.couponUsageRepo.WithTx(tx).Create(usage); err != nil {
				return err
			}
		}

		if input.PaymentMethod == constants.PaymentMethodWallet {
			if _, err := s.walletService.DebitForOrderTx(tx, order); err != nil {
				return err
			}
			order.PaymentStatus = constants.PaymentStatusPaid
			if err := orderRepo.UpdateFields(order.ID, map[string]interface{}{
				"payment_status": constants.PaymentStatusPaid,
				"updated_at":     now,
			}); err != nil {
				return err
			}
		}

		if input.ClearCart {
			if err := s.cartRepo.WithTx(tx).ClearByUser(input.UserID); err != nil {
				return err
			}
		}

		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	if created.PaymentMethod == constants.PaymentMethodRazorpay && s.queueClient != nil {
		delay := time.Duration(s.expireMinutes) * time.Minute
		if err := s.queueClient.EnqueuePaymentTimeoutRelease(queue.PaymentTimeoutReleasePayload{OrderID: created.ID}, delay); err != nil {
			logger.Errorw("order_enqueue_timeout_release_failed",
				"order_id", created.ID,
				"error", err.Error(),
			)
		}
	}
	return created, nil
}

// GetOrder 获取用户订单详情
func (s *OrderService) GetOrder(orderID, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrders 用户订单列表
func (s *OrderService) ListOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListByUser(filter)
}

// ListOrdersAdmin 管理端订单列表
func (s *OrderService) ListOrdersAdmin(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListAdmin(filter)
}

// GetOrderAdmin 管理端订单详情
func (s *OrderService) GetOrderAdmin(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// CancelOrder 整单取消。仅允许未发货订单；未发货订单项全部回补库存并
// 标记取消，已支付订单全额退款（减去已退部分）到钱包。
func (s *OrderService) CancelOrder(orderID, userID uint) (*models.Order, error) {
	var result *models.Order
	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		order, err := s.lockOrder(tx, orderID)
		if err != nil {
			return err
		}
		if userID != 0 && order.UserID != userID {
			return ErrOrderNotFound
		}
		if !CanCancelOrder(order.Status) {
			return ErrOrderNotCancellable
		}

		now := time.Now()
		productRepo := s.productRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)
		reserved := order.PaymentMethod == constants.PaymentMethodRazorpay &&
			order.PaymentStatus == constants.PaymentStatusPending
		for i := range order.Items {
			item := &order.Items[i]
			if item.Status != constants.ItemStatusProcessing {
				continue
			}
			if err := s.restockItem(productRepo, item, reserved); err != nil {
				return err
			}
			item.Status = constants.ItemStatusCancelled
			if err := orderRepo.UpdateItemFields(item.ID, map[string]interface{}{
				"status":     constants.ItemStatusCancelled,
				"updated_at": now,
			}); err != nil {
				return err
			}
		}

		if err := s.releaseCouponUsage(tx, order); err != nil {
			return err
		}

		updates := map[string]interface{}{
			"status":     DeriveOrderStatus(order.Items),
			"updated_at": now,
		}
		if order.PaymentStatus == constants.PaymentStatusPaid {
			refund := order.FinalPrice.Decimal.Sub(order.RefundedAmount.Decimal)
			if refund.GreaterThan(decimal.Zero) {
				if _, err := s.walletService.CreditRefundTx(tx, order,
					models.NewMoneyFromDecimal(refund), "cancel", "整单取消退款"); err != nil {
					return err
				}
				updates["refunded_amount"] = order.FinalPrice
			}
		}
		if err := orderRepo.UpdateFields(order.ID, updates); err != nil {
			return err
		}
		order.Status = updates["status"].(string)
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// releaseCouponUsage 整单取消时返还优惠券使用资格：
// 全局已用次数回退，删除用户的使用记录
func (s *OrderService) releaseCouponUsage(tx *gorm.DB, order *models.Order) error {
	if order.CouponID == nil || *order.CouponID == 0 {
		return nil
	}
	if err := s.couponRepo.WithTx(tx).DecrementUsedCount(*order.CouponID, 1); err != nil {
		return err
	}
	return s.couponUsageRepo.WithTx(tx).DeleteByOrder(order.ID)
}

// CancelOrderItem 单项取消。只回补该项库存，退款按比例分摊整单
// 优惠券折扣后计算。
func (s *OrderService) CancelOrderItem(orderID, itemID, userID uint) (*models.Order, error) {
	var result *models.Order
	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		order, err := s.lockOrder(tx, orderID)
		if err != nil {
			return err
		}
		if userID != 0 && order.UserID != userID {
			return ErrOrderNotFound
		}
		item := findItem(order, itemID)
		if item == nil {
			return ErrOrderItemNotFound
		}
		if !CanCancelItem(item.Status) {
			return ErrItemNotCancellable
		}

		now := time.Now()
		productRepo := s.productRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)
		reserved := order.PaymentMethod == constants.PaymentMethodRazorpay &&
			order.PaymentStatus == constants.PaymentStatusPending
		if err := s.restockItem(productRepo, item, reserved); err != nil {
			return err
		}
		item.Status = constants.ItemStatusCancelled
		if err := orderRepo.UpdateItemFields(item.ID, map[string]interface{}{
			"status":     constants.ItemStatusCancelled,
			"updated_at": now,
		}); err != nil {
			return err
		}

		updates := map[string]interface{}{
			"status":     DeriveOrderStatus(order.Items),
			"updated_at": now,
		}
		if order.PaymentStatus == constants.PaymentStatusPaid {
			refund := ItemRefundAmount(item, order)
			if refund.Decimal.GreaterThan(decimal.Zero) {
				action := fmt.Sprintf("item_cancel:%d", item.ID)
				if _, err := s.walletService.CreditRefundTx(tx, order, refund, action, "订单项取消退款"); err != nil {
					return err
				}
				newRefunded := order.RefundedAmount.Decimal.Add(refund.Decimal)
				updates["refunded_amount"] = models.NewMoneyFromDecimal(newRefunded)
				order.RefundedAmount = models.NewMoneyFromDecimal(newRefunded)
			}
		}
		if err := orderRepo.UpdateFields(order.ID, updates); err != nil {
			return err
		}
		order.Status = updates["status"].(string)
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RequestReturn 发起退货申请，仅限已送达订单项
func (s *OrderService) RequestReturn(orderID, itemID, userID uint, reason string) (*models.Order, error) {
	var result *models.Order
	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		order, err := s.lockOrder(tx, orderID)
		if err != nil {
			return err
		}
		if userID != 0 && order.UserID != userID {
			return ErrOrderNotFound
		}
		item := findItem(order, itemID)
		if item == nil {
			return ErrOrderItemNotFound
		}
		if !CanRequestReturn(item.Status) {
			return ErrItemNotReturnable
		}
		if item.ReturnRequested && !item.ResponseSent {
			return ErrReturnAlreadyHandled
		}

		now := time.Now()
		item.Status = constants.ItemStatusReturnRequested
		item.ReturnRequested = true
		item.ReturnReason = strings.TrimSpace(reason)
		item.ReturnApproved = false
		item.ResponseSent = false
		orderRepo := s.orderRepo.WithTx(tx)
		if err := orderRepo.UpdateItemFields(item.ID, map[string]interface{}{
			"status":           constants.ItemStatusReturnRequested,
			"return_requested": true,
			"return_reason":    item.ReturnReason,
			"return_approved":  false,
			"response_sent":    false,
			"updated_at":       now,
		}); err != nil {
			return err
		}
		newStatus := DeriveOrderStatus(order.Items)
		if err := orderRepo.UpdateFields(order.ID, map[string]interface{}{
			"status":     newStatus,
			"updated_at": now,
		}); err != nil {
			return err
		}
		order.Status = newStatus
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ApproveReturn 管理端通过退货：回补库存、按比例退款、标记已处理。
// 已处理过的申请直接拒绝，防止重复退款。
func (s *OrderService) ApproveReturn(orderID, itemID uint) (*models.Order, error) {
	return s.handleReturn(orderID, itemID, true)
}

// RejectReturn 管理端拒绝退货：仅标记状态，无库存与金额变动
func (s *OrderService) RejectReturn(orderID, itemID uint) (*models.Order, error) {
	return s.handleReturn(orderID, itemID, false)
}

func (s *OrderService) handleReturn(orderID, itemID uint, approve bool) (*models.Order, error) {
	var result *models.Order
	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		order, err := s.lockOrder(tx, orderID)
		if err != nil {
			return err
		}
		item := findItem(order, itemID)
		if item == nil {
			return ErrOrderItemNotFound
		}
		if !item.ReturnRequested || item.Status != constants.ItemStatusReturnRequested {
			return ErrReturnNotRequested
		}
		if item.ResponseSent || item.ReturnApproved {
			return ErrReturnAlreadyHandled
		}

		now := time.Now()
		productRepo := s.productRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)
		updates := map[string]interface{}{
			"updated_at": now,
		}
		itemUpdates := map[string]interface{}{
			"response_sent": true,
			"updated_at":    now,
		}
		if approve {
			if err := s.restockItem(productRepo, item, false); err != nil {
				return err
			}
			item.Status = constants.ItemStatusReturned
			item.ReturnApproved = true
			itemUpdates["status"] = constants.ItemStatusReturned
			itemUpdates["return_approved"] = true

			if order.PaymentStatus == constants.PaymentStatusPaid {
				refund := ItemRefundAmount(item, order)
				if refund.Decimal.GreaterThan(decimal.Zero) {
					action := fmt.Sprintf("return:%d", item.ID)
					if _, err := s.walletService.CreditRefundTx(tx, order, refund, action, "退货退款"); err != nil {
						return err
					}
					newRefunded := order.RefundedAmount.Decimal.Add(refund.Decimal)
					updates["refunded_amount"] = models.NewMoneyFromDecimal(newRefunded)
					order.RefundedAmount = models.NewMoneyFromDecimal(newRefunded)
				}
			}
		} else {
			item.Status = constants.ItemStatusReturnRejected
			itemUpdates["status"] = constants.ItemStatusReturnRejected
		}
		item.ResponseSent = true
		if err := orderRepo.UpdateItemFields(item.ID, itemUpdates); err != nil {
			return err
		}

		updates["status"] = DeriveOrderStatus(order.Items)
		if err := orderRepo.UpdateFields(order.ID, updates); err != nil {
			return err
		}
		order.Status = updates["status"].(string)
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateOrderStatusAdmin 管理端整单状态迁移：
// processing -> shipped/cancelled，shipped -> delivered/cancelled。
// 发货同时写入预计送达时间；取消（含已发货订单）回补库存、
// 返还优惠券资格，已付款订单全额退回钱包。
func (s *OrderService) UpdateOrderStatusAdmin(orderID uint, toStatus string) (*models.Order, error) {
	var result *models.Order
	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		order, err := s.lockOrder(tx, orderID)
		if err != nil {
			return err
		}
		if !ValidAdminTransition(order.Status, toStatus) {
			return ErrInvalidTransition
		}

		now := time.Now()
		orderRepo := s.orderRepo.WithTx(tx)
		updates := map[string]interface{}{
			"updated_at": now,
		}
		switch toStatus {
		case constants.OrderStatusShipped:
			if _, err := orderRepo.UpdateItemsStatus(order.ID,
				[]string{constants.ItemStatusProcessing}, constants.ItemStatusShipped); err != nil {
				return err
			}
			deliveryBy := now.AddDate(0, 0, s.deliveryDays)
			updates["delivery_by"] = deliveryBy
			order.DeliveryBy = &deliveryBy
			applyItemsStatus(order.Items, constants.ItemStatusProcessing, constants.ItemStatusShipped)
		case constants.OrderStatusDelivered:
			if _, err := orderRepo.UpdateItemsStatus(order.ID,
				[]string{constants.ItemStatusShipped}, constants.ItemStatusDelivered); err != nil {
				return err
			}
			applyItemsStatus(order.Items, constants.ItemStatusShipped, constants.ItemStatusDelivered)
			// 货到付款在送达时视为收款完成
			if order.PaymentMethod == constants.PaymentMethodCOD &&
				order.PaymentStatus == constants.PaymentStatusPending {
				updates["payment_status"] = constants.PaymentStatusPaid
				order.PaymentStatus = constants.PaymentStatusPaid
			}
		case constants.OrderStatusCancelled:
			productRepo := s.productRepo.WithTx(tx)
			reserved := order.PaymentMethod == constants.PaymentMethodRazorpay &&
				order.PaymentStatus == constants.PaymentStatusPending
			for i := range order.Items {
				item := &order.Items[i]
				if item.Status != constants.ItemStatusProcessing &&
					item.Status != constants.ItemStatusShipped {
					continue
				}
				if err := s.restockItem(productRepo, item,
					reserved && item.Status == constants.ItemStatusProcessing); err != nil {
					return err
				}
				item.Status = constants.ItemStatusCancelled
				if err := orderRepo.UpdateItemFields(item.ID, map[string]interface{}{
					"status":     constants.ItemStatusCancelled,
					"updated_at": now,
				}); err != nil {
					return err
				}
			}
			if err := s.releaseCouponUsage(tx, order); err != nil {
				return err
			}
			if order.PaymentStatus == constants.PaymentStatusPaid {
				refund := order.FinalPrice.Decimal.Sub(order.RefundedAmount.Decimal)
				if refund.GreaterThan(decimal.Zero) {
					if _, err := s.walletService.CreditRefundTx(tx, order,
						models.NewMoneyFromDecimal(refund), "cancel", "整单取消退款"); err != nil {
						return err
					}
					updates["refunded_amount"] = order.FinalPrice
				}
			}
		default:
			return ErrInvalidTransition
		}

		updates["status"] = DeriveOrderStatus(order.Items)
		if err := orderRepo.UpdateFields(order.ID, updates); err != nil {
			return err
		}
		order.Status = updates["status"].(string)
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ReleasePaymentTimeout 网关支付超时释放：订单仍未支付时释放预占库存、
// 取消订单并标记支付失败。已支付或已取消的订单为空操作。
func (s *OrderService) ReleasePaymentTimeout(orderID uint) error {
	return s.orderRepo.Transaction(func(tx *gorm.DB) error {
		order, err := s.lockOrder(tx, orderID)
		if err != nil {
			return err
		}
		if order.PaymentMethod != constants.PaymentMethodRazorpay {
			return nil
		}
		if order.PaymentStatus != constants.PaymentStatusPending {
			return nil
		}

		now := time.Now()
		productRepo := s.productRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)
		for i := range order.Items {
			item := &order.Items[i]
			if item.Status != constants.ItemStatusProcessing {
				continue
			}
			if err := s.restockItem(productRepo, item, true); err != nil {
				return err
			}
			item.Status = constants.ItemStatusCancelled
			if err := orderRepo.UpdateItemFields(item.ID, map[string]interface{}{
				"status":     constants.ItemStatusCancelled,
				"updated_at": now,
			}); err != nil {
				return err
			}
		}
		return orderRepo.UpdateFields(order.ID, map[string]interface{}{
			"status":         DeriveOrderStatus(order.Items),
			"payment_status": constants.PaymentStatusFailed,
			"updated_at":     now,
		})
	})
}

// lockOrder 在事务内加行锁读取订单与订单项
func (s *OrderService) lockOrder(tx *gorm.DB, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, orderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if err := tx.Where("order_id = ?", order.ID).
		Order("id ASC").
		Find(&order.Items).Error; err != nil {
		return nil, err
	}
	if len(order.Items) == 0 {
		return nil, ErrOrderEmpty
	}
	return &order, nil
}

// restockItem 回补订单项库存；reserved 表示库存当前处于网关预占态
func (s *OrderService) restockItem(productRepo repository.ProductRepository, item *models.OrderItem, reserved bool) error {
	var err error
	if reserved {
		_, err = productRepo.ReleaseReservedStock(item.ProductID, item.Quantity)
	} else {
		_, err = productRepo.Restock(item.ProductID, item.Quantity)
	}
	return err
}

func findItem(order *models.Order, itemID uint) *models.OrderItem {
	for i := range order.Items {
		if order.Items[i].ID == itemID {
			return &order.Items[i]
		}
	}
	return nil
}

func applyItemsStatus(items []models.OrderItem, from, to string) {
	for i := range items {
		if items[i].Status == from {
			items[i].Status = to
		}
	}
}

// mergePlaceOrderItems 合并重复商品的下单项并校验数量
func mergePlaceOrderItems(items []PlaceOrderItem) ([]PlaceOrderItem, error) {
	merged := make([]PlaceOrderItem, 0, len(items))
	index := make(map[uint]int, len(items))
	for _, item := range items {
		if item.ProductID == 0 || item.Quantity <= 0 {
			return nil, ErrInvalidParams
		}
		if pos, ok := index[item.ProductID]; ok {
			merged[pos].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(merged)
		merged = append(merged, item)
	}
	return merged, nil
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("GD%s%s", now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}

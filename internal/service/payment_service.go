package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gamedepot/internal/cache"
	"github.com/gamedepot/internal/constants"
	"github.com/gamedepot/internal/logger"
	"github.com/gamedepot/internal/models"
	"github.com/gamedepot/internal/payment/razorpay"
	"github.com/gamedepot/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PaymentService 网关支付服务：创建网关订单、验签确认回调
type PaymentService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	gateway     *razorpay.Client
	dedupeTTL   time.Duration
}

// NewPaymentService 创建支付服务
func NewPaymentService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, gateway *razorpay.Client, dedupeTTL time.Duration) *PaymentService {
	if dedupeTTL <= 0 {
		dedupeTTL = 24 * time.Hour
	}
	return &PaymentService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		gateway:     gateway,
		dedupeTTL:   dedupeTTL,
	}
}

// GatewayKeyID 返回网关 Key ID
func (s *PaymentService) GatewayKeyID() string {
	if s.gateway == nil {
		return ""
	}
	return s.gateway.KeyID()
}

// CreateGatewayOrder 为待支付订单创建网关订单并持久化网关单号。
// 已有网关单号时直接复用，不重复创建。
func (s *PaymentService) CreateGatewayOrder(ctx context.Context, orderID, userID uint) (*razorpay.GatewayOrder, error) {
	if s.gateway == nil {
		return nil, ErrPaymentMethodInvalid
	}
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.PaymentMethod != constants.PaymentMethodRazorpay {
		return nil, ErrPaymentMethodInvalid
	}
	if order.PaymentStatus != constants.PaymentStatusPending {
		return nil, ErrPaymentNotPending
	}
	if order.GatewayOrderID != "" {
		return &razorpay.GatewayOrder{
			ID:       order.GatewayOrderID,
			Currency: order.Currency,
			Receipt:  order.OrderNo,
		}, nil
	}

	gatewayOrder, err := s.gateway.CreateOrder(ctx, razorpay.CreateOrderInput{
		Receipt: order.OrderNo,
		Amount:  order.FinalPrice.Decimal,
		Notes:   map[string]string{"order_no": order.OrderNo},
	})
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.UpdateFields(order.ID, map[string]interface{}{
		"gateway_order_id": gatewayOrder.ID,
		"updated_at":       time.Now(),
	}); err != nil {
		return nil, err
	}
	return gatewayOrder, nil
}

// ConfirmPaymentInput 支付确认输入
type ConfirmPaymentInput struct {
	GatewayOrderID   string
	GatewayPaymentID string
	Signature        string
}

// ConfirmPayment 验签并确认网关支付。网关回调可能重复投递：
// 先经 Redis 占位去重，再以订单行锁下的支付状态判重兜底，
// 已支付订单直接拒绝，预占库存只消耗一次。
func (s *PaymentService) ConfirmPayment(ctx context.Context, input ConfirmPaymentInput) (*models.Order, error) {
	if s.gateway == nil {
		return nil, ErrPaymentMethodInvalid
	}
	if err := s.gateway.VerifySignature(input.GatewayOrderID, input.GatewayPaymentID, input.Signature); err != nil {
		if errors.Is(err, razorpay.ErrSignatureInvalid) {
			return nil, ErrPaymentSignature
		}
		return nil, err
	}

	dedupeKey := fmt.Sprintf("payment:callback:%s:%s", input.GatewayOrderID, input.GatewayPaymentID)
	dedupeHeld := false
	acquired, err := cache.AcquireOnce(ctx, dedupeKey, s.dedupeTTL)
	if err != nil {
		// 缓存故障不阻断回调，幂等由支付状态判重保证
		logger.Warnw("payment_callback_dedupe_failed",
			"gateway_order_id", input.GatewayOrderID,
			"error", err.Error(),
		)
	} else if !acquired {
		return nil, ErrPaymentAlreadyPaid
	} else {
		dedupeHeld = true
	}

	var result *models.Order
	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("gateway_order_id = ?", input.GatewayOrderID).
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if err := tx.Where("order_id = ?", order.ID).Order("id ASC").Find(&order.Items).Error; err != nil {
			return err
		}
		if order.PaymentStatus == constants.PaymentStatusPaid {
			return ErrPaymentAlreadyPaid
		}
		if order.PaymentStatus != constants.PaymentStatusPending {
			return ErrPaymentNotPending
		}

		now := time.Now()
		productRepo := s.productRepo.WithTx(tx)
		for i := range order.Items {
			item := &order.Items[i]
			if item.Status != constants.ItemStatusProcessing {
				continue
			}
			affected, err := productRepo.ConsumeReservedStock(item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			// 预占量与订单项不符说明预占已被释放或从未建立
			if affected == 0 {
				return ErrInsufficientStock
			}
		}
		if err := s.orderRepo.WithTx(tx).UpdateFields(order.ID, map[string]interface{}{
			"payment_status": constants.PaymentStatusPaid,
			"updated_at":     now,
		}); err != nil {
			return err
		}
		order.PaymentStatus = constants.PaymentStatusPaid
		result = &order
		return nil
	})
	if err != nil {
		// 事务未成功则释放占位，放行网关的下一次重试
		if dedupeHeld {
			if delErr := cache.Del(ctx, dedupeKey); delErr != nil {
				logger.Warnw("payment_callback_dedupe_release_failed",
					"gateway_order_id", input.GatewayOrderID,
					"error", delErr.Error(),
				)
			}
		}
		return nil, err
	}

	logger.Infow("payment_confirmed",
		"order_id", result.ID,
		"gateway_order_id", input.GatewayOrderID,
		"gateway_payment_id", input.GatewayPaymentID,
	)
	return result, nil
}

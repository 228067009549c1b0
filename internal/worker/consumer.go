package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gamedepot/internal/logger"
	"github.com/gamedepot/internal/provider"
	"github.com/gamedepot/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskPaymentTimeoutRelease, c.handlePaymentTimeoutRelease)
	mux.HandleFunc(queue.TaskOfferResweep, c.handleOfferResweep)
}

func (c *Consumer) handlePaymentTimeoutRelease(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_payment_timeout_release_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.PaymentTimeoutReleasePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_payment_timeout_release_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_payment_timeout_release_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if c.OrderService == nil {
		logger.Warnw("worker_payment_timeout_release_skip_service_nil", "order_id", payload.OrderID)
		return nil
	}
	if err := c.OrderService.ReleasePaymentTimeout(payload.OrderID); err != nil {
		logger.Warnw("worker_payment_timeout_release_failed",
			"order_id", payload.OrderID,
			"error", err,
		)
		return err
	}
	logger.Infow("worker_payment_timeout_released", "order_id", payload.OrderID)
	return nil
}

func (c *Consumer) handleOfferResweep(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_offer_resweep_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OfferResweepPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_offer_resweep_unmarshal_failed", "error", err)
		return err
	}
	if c.OfferService == nil {
		logger.Warnw("worker_offer_resweep_skip_service_nil", "product_id", payload.ProductID)
		return nil
	}
	// ProductID 为 0 时执行全量清扫
	if payload.ProductID == 0 {
		affected, err := c.OfferService.SweepExpiredOffers(time.Now())
		if err != nil {
			logger.Warnw("worker_offer_sweep_failed", "error", err)
			return err
		}
		logger.Infow("worker_offer_sweep_done", "affected_products", affected)
		return nil
	}
	if err := c.OfferService.ResolveBestOffer(payload.ProductID); err != nil {
		logger.Warnw("worker_offer_resweep_failed",
			"product_id", payload.ProductID,
			"error", err,
		)
		return err
	}
	return nil
}

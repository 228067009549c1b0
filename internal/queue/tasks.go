package queue

import (
	"encoding/json"

	"github.com/gamedepot/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskPaymentTimeoutRelease 网关支付超时释放任务
	TaskPaymentTimeoutRelease = constants.TaskPaymentTimeoutRelease
	// TaskOfferResweep 活动重算任务
	TaskOfferResweep = constants.TaskOfferResweep
)

// PaymentTimeoutReleasePayload 网关支付超时释放任务载荷
type PaymentTimeoutReleasePayload struct {
	OrderID uint `json:"order_id"`
}

// OfferResweepPayload 活动重算任务载荷，ProductID 为 0 时执行全量清扫
type OfferResweepPayload struct {
	ProductID uint `json:"product_id"`
}

// NewPaymentTimeoutReleaseTask 创建网关支付超时释放任务
func NewPaymentTimeoutReleaseTask(payload PaymentTimeoutReleasePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPaymentTimeoutRelease, body), nil
}

// NewOfferResweepTask 创建活动重算任务
func NewOfferResweepTask(payload OfferResweepPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOfferResweep, body), nil
}

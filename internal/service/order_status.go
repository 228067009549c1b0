package service

import (
	"strings"

	"github.com/gamedepot/internal/constants"
	"github.com/gamedepot/internal/models"
)

// DeriveOrderStatus 由订单项状态推导订单状态。
// 订单状态不独立维护业务含义，任何订单项变更后重新推导并回写。
// 判定优先级：全量终态（全取消/全退货/全拒退）先于"存在退货申请"，
// 再先于各类混合态；退货被拒的订单项按已送达参与聚合。
func DeriveOrderStatus(items []models.OrderItem) string {
	if len(items) == 0 {
		return constants.OrderStatusProcessing
	}

	var (
		total           = len(items)
		processingCount int
		shippedCount    int
		deliveredCount  int
		cancelledCount  int
		returnedCount   int
		returnReqCount  int
		returnRejCount  int
	)
	for _, item := range items {
		switch strings.ToLower(strings.TrimSpace(item.Status)) {
		case constants.ItemStatusProcessing:
			processingCount++
		case constants.ItemStatusShipped:
			shippedCount++
		case constants.ItemStatusDelivered:
			deliveredCount++
		case constants.ItemStatusCancelled:
			cancelledCount++
		case constants.ItemStatusReturned:
			returnedCount++
		case constants.ItemStatusReturnRequested:
			returnReqCount++
		case constants.ItemStatusReturnRejected:
			returnRejCount++
		default:
			processingCount++
		}
	}

	switch {
	case cancelledCount == total:
		return constants.OrderStatusCancelled
	case returnedCount == total:
		return constants.OrderStatusReturned
	case returnRejCount == total:
		return constants.OrderStatusReturnRejected
	case returnReqCount > 0:
		return constants.OrderStatusReturnRequested
	}

	// 退货被拒视同已送达参与后续聚合
	effectiveDelivered := deliveredCount + returnRejCount

	switch {
	case returnedCount > 0 && returnedCount+effectiveDelivered+shippedCount+cancelledCount == total:
		return constants.OrderStatusPartiallyReturned
	case cancelledCount > 0 && effectiveDelivered+cancelledCount == total:
		return constants.OrderStatusPartiallyCancelled
	case effectiveDelivered == total:
		return constants.OrderStatusDelivered
	case shippedCount+cancelledCount == total && shippedCount > 0:
		return constants.OrderStatusShipped
	case processingCount+cancelledCount == total:
		return constants.OrderStatusProcessing
	case effectiveDelivered > 0 && shippedCount > 0 && effectiveDelivered+shippedCount+cancelledCount == total:
		return constants.OrderStatusPartiallyDelivered
	case effectiveDelivered > 0:
		return constants.OrderStatusPartiallyDelivered
	case shippedCount > 0:
		return constants.OrderStatusPartiallyShipped
	default:
		return constants.OrderStatusProcessing
	}
}

// CanCancelOrder 整单取消仅允许在未发货前
func CanCancelOrder(status string) bool {
	switch status {
	case constants.OrderStatusProcessing:
		return true
	default:
		return false
	}
}

// CanCancelItem 订单项取消仅允许在发货前
func CanCancelItem(status string) bool {
	return status == constants.ItemStatusProcessing
}

// CanRequestReturn 退货申请仅允许从已送达发起
func CanRequestReturn(status string) bool {
	return status == constants.ItemStatusDelivered
}

// ValidAdminTransition 管理端整单状态迁移约束：
// processing -> shipped/cancelled，shipped -> delivered/cancelled，
// delivered 与 cancelled 为终态。
func ValidAdminTransition(from, to string) bool {
	switch from {
	case constants.OrderStatusProcessing:
		return to == constants.OrderStatusShipped || to == constants.OrderStatusCancelled
	case constants.OrderStatusShipped, constants.OrderStatusPartiallyShipped:
		return to == constants.OrderStatusDelivered || to == constants.OrderStatusCancelled
	default:
		return false
	}
}

package service

import (
	"github.com/gamedepot/internal/constants"
	"github.com/gamedepot/internal/models"

	"github.com/shopspring/decimal"
)

// ProportionalShare 计算整单优惠在单个订单项上的分摊额：
// share = round2(itemTotal / orderTotal * orderDiscount)。
// 比例与乘法在 decimal 上全程精确，仅在返回前做一次舍入，
// 避免链式比例计算叠加舍入误差。
func ProportionalShare(itemTotal, orderTotal, orderDiscount models.Money) models.Money {
	if orderTotal.Decimal.LessThanOrEqual(decimal.Zero) || orderDiscount.Decimal.LessThanOrEqual(decimal.Zero) {
		return models.Money{}
	}
	share := itemTotal.Decimal.Mul(orderDiscount.Decimal).Div(orderTotal.Decimal)
	if share.GreaterThan(orderDiscount.Decimal) {
		share = orderDiscount.Decimal
	}
	return models.NewMoneyFromDecimal(share)
}

// OfferDiscountAmount 根据折扣类型计算单件折扣额，固定额折扣封顶到原价
func OfferDiscountAmount(price models.Money, discountType string, discountValue models.Money) models.Money {
	var amount decimal.Decimal
	switch discountType {
	case constants.DiscountTypePercent:
		amount = price.Decimal.Mul(discountValue.Decimal).Div(decimal.NewFromInt(100))
	case constants.DiscountTypeFixed:
		amount = discountValue.Decimal
	default:
		return models.Money{}
	}
	if amount.GreaterThan(price.Decimal) {
		amount = price.Decimal
	}
	if amount.LessThan(decimal.Zero) {
		amount = decimal.Zero
	}
	return models.NewMoneyFromDecimal(amount)
}

// ItemRefundAmount 计算订单项取消/退货的应退金额：
// 行小计扣除该行按比例应分摊的优惠券折扣。
func ItemRefundAmount(item *models.OrderItem, order *models.Order) models.Money {
	if item == nil || order == nil {
		return models.Money{}
	}
	share := ProportionalShare(item.TotalPrice, order.TotalAmount, order.CouponDiscount)
	refund := item.TotalPrice.Decimal.Sub(share.Decimal)
	if refund.LessThan(decimal.Zero) {
		refund = decimal.Zero
	}
	return models.NewMoneyFromDecimal(refund)
}

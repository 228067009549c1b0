package service

import (
	"testing"

	"github.com/gamedepot/internal/constants"
	"github.com/gamedepot/internal/models"
)

func money(t *testing.T, s string) models.Money {
	t.Helper()
	var m models.Money
	if err := m.UnmarshalJSON([]byte(`"` + s + `"`)); err != nil {
		t.Fatalf("parse money %q failed: %v", s, err)
	}
	return m
}

func TestProportionalShare(t *testing.T) {
	cases := []struct {
		name          string
		itemTotal     string
		orderTotal    string
		orderDiscount string
		want          string
	}{
		{"six_of_ten", "600.00", "1000.00", "100.00", "60.00"},
		{"full_order", "1000.00", "1000.00", "100.00", "100.00"},
		{"rounds_once", "333.33", "1000.00", "100.00", "33.33"},
		{"zero_discount", "600.00", "1000.00", "0.00", "0.00"},
		{"zero_total", "600.00", "0.00", "100.00", "0.00"},
		{"tiny_item", "0.01", "1000.00", "100.00", "0.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ProportionalShare(money(t, tc.itemTotal), money(t, tc.orderTotal), money(t, tc.orderDiscount))
			if got.String() != tc.want {
				t.Fatalf("share = %s, want %s", got.String(), tc.want)
			}
		})
	}
}

func TestOfferDiscountAmount(t *testing.T) {
	cases := []struct {
		name         string
		price        string
		discountType string
		value        string
		want         string
	}{
		{"percent_ten", "1000.00", constants.DiscountTypePercent, "10.00", "100.00"},
		{"percent_fraction", "999.00", constants.DiscountTypePercent, "12.50", "124.88"},
		{"fixed", "1000.00", constants.DiscountTypeFixed, "150.00", "150.00"},
		{"fixed_capped", "100.00", constants.DiscountTypeFixed, "150.00", "100.00"},
		{"unknown_type", "1000.00", "bogus", "10.00", "0.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := OfferDiscountAmount(money(t, tc.price), tc.discountType, money(t, tc.value))
			if got.String() != tc.want {
				t.Fatalf("discount = %s, want %s", got.String(), tc.want)
			}
		})
	}
}

func TestItemRefundAmount(t *testing.T) {
	order := &models.Order{
		TotalAmount:    money(t, "1000.00"),
		CouponDiscount: money(t, "100.00"),
	}
	item := &models.OrderItem{TotalPrice: money(t, "600.00")}

	got := ItemRefundAmount(item, order)
	if got.String() != "540.00" {
		t.Fatalf("refund = %s, want 540.00", got.String())
	}
}

func TestItemRefundAmountNoCoupon(t *testing.T) {
	order := &models.Order{
		TotalAmount:    money(t, "800.00"),
		CouponDiscount: money(t, "0.00"),
	}
	item := &models.OrderItem{TotalPrice: money(t, "300.00")}

	got := ItemRefundAmount(item, order)
	if got.String() != "300.00" {
		t.Fatalf("refund = %s, want 300.00", got.String())
	}
}

func TestItemRefundAmountNeverNegative(t *testing.T) {
	order := &models.Order{
		TotalAmount:    money(t, "10.00"),
		CouponDiscount: money(t, "10.00"),
	}
	item := &models.OrderItem{TotalPrice: money(t, "10.00")}

	got := ItemRefundAmount(item, order)
	if got.String() != "0.00" {
		t.Fatalf("refund = %s, want 0.00", got.String())
	}
}

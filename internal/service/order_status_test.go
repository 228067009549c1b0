package service

import (
	"testing"

	"github.com/gamedepot/internal/constants"
	"github.com/gamedepot/internal/models"
)

func itemsWithStatuses(statuses ...string) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(statuses))
	for _, s := range statuses {
		items = append(items, models.OrderItem{Status: s})
	}
	return items
}

func TestDeriveOrderStatus(t *testing.T) {
	cases := []struct {
		name     string
		statuses []string
		want     string
	}{
		{"empty", nil, constants.OrderStatusProcessing},
		{"all_processing", []string{"processing", "processing"}, constants.OrderStatusProcessing},
		{"all_shipped", []string{"shipped", "shipped"}, constants.OrderStatusShipped},
		{"all_delivered", []string{"delivered", "delivered"}, constants.OrderStatusDelivered},
		{"all_cancelled", []string{"cancelled", "cancelled"}, constants.OrderStatusCancelled},
		{"all_returned", []string{"returned", "returned"}, constants.OrderStatusReturned},
		{"all_return_rejected", []string{"return_rejected", "return_rejected"}, constants.OrderStatusReturnRejected},
		{"any_return_requested", []string{"delivered", "return_requested"}, constants.OrderStatusReturnRequested},
		{"return_requested_beats_mixed", []string{"shipped", "cancelled", "return_requested"}, constants.OrderStatusReturnRequested},
		{"partially_shipped", []string{"processing", "shipped"}, constants.OrderStatusPartiallyShipped},
		{"partially_delivered", []string{"shipped", "delivered"}, constants.OrderStatusPartiallyDelivered},
		{"delivered_with_processing", []string{"processing", "delivered"}, constants.OrderStatusPartiallyDelivered},
		{"partially_cancelled", []string{"delivered", "cancelled"}, constants.OrderStatusPartiallyCancelled},
		{"cancelled_with_processing", []string{"processing", "cancelled"}, constants.OrderStatusProcessing},
		{"cancelled_with_shipped", []string{"shipped", "cancelled"}, constants.OrderStatusShipped},
		{"partially_returned", []string{"returned", "delivered"}, constants.OrderStatusPartiallyReturned},
		{"returned_with_shipped", []string{"returned", "shipped"}, constants.OrderStatusPartiallyReturned},
		{"rejected_counts_delivered", []string{"return_rejected", "delivered"}, constants.OrderStatusDelivered},
		{"rejected_with_cancelled", []string{"return_rejected", "cancelled"}, constants.OrderStatusPartiallyCancelled},
		{"rejected_with_shipped", []string{"return_rejected", "shipped"}, constants.OrderStatusPartiallyDelivered},
		{"case_insensitive", []string{"Delivered", " SHIPPED "}, constants.OrderStatusPartiallyDelivered},
		{"unknown_counts_processing", []string{"bogus", "shipped"}, constants.OrderStatusPartiallyShipped},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DeriveOrderStatus(itemsWithStatuses(tc.statuses...))
			if got != tc.want {
				t.Fatalf("derive(%v) = %s, want %s", tc.statuses, got, tc.want)
			}
		})
	}
}

func TestCanCancelOrder(t *testing.T) {
	if !CanCancelOrder(constants.OrderStatusProcessing) {
		t.Fatalf("processing order should be cancellable")
	}
	for _, status := range []string{
		constants.OrderStatusShipped,
		constants.OrderStatusPartiallyShipped,
		constants.OrderStatusDelivered,
		constants.OrderStatusCancelled,
		constants.OrderStatusReturned,
	} {
		if CanCancelOrder(status) {
			t.Fatalf("%s order should not be cancellable", status)
		}
	}
}

func TestValidAdminTransition(t *testing.T) {
	cases := []struct {
		from string
		to   string
		want bool
	}{
		{constants.OrderStatusProcessing, constants.OrderStatusShipped, true},
		{constants.OrderStatusProcessing, constants.OrderStatusCancelled, true},
		{constants.OrderStatusProcessing, constants.OrderStatusDelivered, false},
		{constants.OrderStatusShipped, constants.OrderStatusDelivered, true},
		{constants.OrderStatusShipped, constants.OrderStatusCancelled, true},
		{constants.OrderStatusPartiallyShipped, constants.OrderStatusDelivered, true},
		{constants.OrderStatusDelivered, constants.OrderStatusShipped, false},
		{constants.OrderStatusCancelled, constants.OrderStatusProcessing, false},
	}
	for _, tc := range cases {
		if got := ValidAdminTransition(tc.from, tc.to); got != tc.want {
			t.Fatalf("transition %s -> %s = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

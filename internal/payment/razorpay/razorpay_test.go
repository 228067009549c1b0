package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func signPayload(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	secret := "test_secret"
	orderID := "order_ABC123"
	paymentID := "pay_XYZ789"
	valid := signPayload(secret, orderID, paymentID)

	if err := VerifySignature(orderID, paymentID, valid, secret); err != nil {
		t.Fatalf("valid signature rejected: %v", err)
	}
	// 大小写与首尾空白归一后比较
	if err := VerifySignature(orderID, paymentID, "  "+strings.ToUpper(valid)+"  ", secret); err != nil {
		t.Fatalf("normalized signature rejected: %v", err)
	}

	cases := []struct {
		name      string
		orderID   string
		paymentID string
		signature string
		secret    string
	}{
		{"tampered_signature", orderID, paymentID, signPayload(secret, orderID, "pay_other"), secret},
		{"wrong_secret", orderID, paymentID, valid, "other_secret"},
		{"swapped_ids", paymentID, orderID, valid, secret},
		{"empty_signature", orderID, paymentID, "", secret},
		{"empty_order_id", "", paymentID, valid, secret},
		{"empty_payment_id", orderID, "", valid, secret},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := VerifySignature(tc.orderID, tc.paymentID, tc.signature, tc.secret); !errors.Is(err, ErrSignatureInvalid) {
				t.Fatalf("error = %v, want %v", err, ErrSignatureInvalid)
			}
		})
	}
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(Config{KeySecret: "s"}); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("missing key_id error = %v, want %v", err, ErrConfigInvalid)
	}
	if _, err := NewClient(Config{KeyID: "k"}); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("missing key_secret error = %v, want %v", err, ErrConfigInvalid)
	}

	client, err := NewClient(Config{KeyID: "k", KeySecret: "s"})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.cfg.BaseURL != "https://api.razorpay.com/v1" {
		t.Fatalf("base url default = %s", client.cfg.BaseURL)
	}
	if client.cfg.Currency != "INR" {
		t.Fatalf("currency default = %s", client.cfg.Currency)
	}
	if client.KeyID() != "k" {
		t.Fatalf("key id = %s", client.KeyID())
	}
}

func TestCreateOrder(t *testing.T) {
	var gotPath, gotAuthUser, gotAuthPass string
	var gotPayload map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuthUser, gotAuthPass, _ = r.BasicAuth()
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("decode payload failed: %v", err)
		}
		json.NewEncoder(w).Encode(GatewayOrder{
			ID:       "order_test_1",
			Amount:   123450,
			Currency: "INR",
			Receipt:  "GD20260101000000123456",
			Status:   "created",
		})
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseURL: server.URL, KeyID: "rzp_test_key", KeySecret: "secret"})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}

	order, err := client.CreateOrder(context.Background(), CreateOrderInput{
		Receipt: "GD20260101000000123456",
		Amount:  decimal.RequireFromString("1234.50"),
		Notes:   map[string]string{"order_id": "77"},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if order.ID != "order_test_1" || order.Status != "created" {
		t.Fatalf("unexpected order %+v", order)
	}
	if gotPath != "/orders" {
		t.Fatalf("path = %s, want /orders", gotPath)
	}
	if gotAuthUser != "rzp_test_key" || gotAuthPass != "secret" {
		t.Fatalf("basic auth = %s/%s", gotAuthUser, gotAuthPass)
	}
	// 金额以最小货币单位提交
	if amount, ok := gotPayload["amount"].(float64); !ok || int64(amount) != 123450 {
		t.Fatalf("amount payload = %v, want 123450", gotPayload["amount"])
	}
	if gotPayload["currency"] != "INR" {
		t.Fatalf("currency payload = %v", gotPayload["currency"])
	}
}

func TestCreateOrderErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR"}}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseURL: server.URL, KeyID: "k", KeySecret: "s"})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}

	if _, err := client.CreateOrder(context.Background(), CreateOrderInput{Receipt: "", Amount: decimal.NewFromInt(10)}); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("empty receipt error = %v, want %v", err, ErrConfigInvalid)
	}
	if _, err := client.CreateOrder(context.Background(), CreateOrderInput{Receipt: "r", Amount: decimal.Zero}); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("zero amount error = %v, want %v", err, ErrConfigInvalid)
	}
	if _, err := client.CreateOrder(context.Background(), CreateOrderInput{Receipt: "r", Amount: decimal.NewFromInt(10)}); !errors.Is(err, ErrResponseInvalid) {
		t.Fatalf("http error = %v, want %v", err, ErrResponseInvalid)
	}
}

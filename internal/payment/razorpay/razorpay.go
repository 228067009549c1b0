package razorpay

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrConfigInvalid    = errors.New("razorpay config invalid")
	ErrRequestFailed    = errors.New("razorpay request failed")
	ErrResponseInvalid  = errors.New("razorpay response invalid")
	ErrSignatureInvalid = errors.New("razorpay signature invalid")
)

const defaultTimeout = 10 * time.Second

// Config Razorpay 网关配置
type Config struct {
	BaseURL   string // 网关地址，如 https://api.razorpay.com/v1
	KeyID     string // API Key ID
	KeySecret string // API Key Secret
	Currency  string // 币种，默认 INR
	TimeoutMS int    // 请求超时毫秒数
}

func (c *Config) normalize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	c.KeyID = strings.TrimSpace(c.KeyID)
	c.KeySecret = strings.TrimSpace(c.KeySecret)
	c.Currency = strings.ToUpper(strings.TrimSpace(c.Currency))
	if c.BaseURL == "" {
		c.BaseURL = "https://api.razorpay.com/v1"
	}
	if c.Currency == "" {
		c.Currency = "INR"
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: config is nil", ErrConfigInvalid)
	}
	if strings.TrimSpace(c.KeyID) == "" {
		return fmt.Errorf("%w: key_id is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(c.KeySecret) == "" {
		return fmt.Errorf("%w: key_secret is required", ErrConfigInvalid)
	}
	return nil
}

// Client Razorpay API 客户端
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient 创建客户端
func NewClient(cfg Config) (*Client, error) {
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	timeout := defaultTimeout
	if cfg.TimeoutMS > 0 {
		timeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
	}, nil
}

// KeyID 返回客户端 Key ID（前端拉起收银台需要）
func (c *Client) KeyID() string {
	return c.cfg.KeyID
}

// CreateOrderInput 创建网关订单输入
type CreateOrderInput struct {
	Receipt string          // 商户订单号
	Amount  decimal.Decimal // 金额（主币单位，2 位小数）
	Notes   map[string]string
}

// GatewayOrder 网关订单
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // 最小货币单位
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// CreateOrder 创建网关订单，金额换算为最小货币单位提交
func (c *Client) CreateOrder(ctx context.Context, input CreateOrderInput) (*GatewayOrder, error) {
	if strings.TrimSpace(input.Receipt) == "" || input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: invalid order input", ErrConfigInvalid)
	}

	payload := map[string]interface{}{
		"amount":   input.Amount.Mul(decimal.NewFromInt(100)).IntPart(),
		"currency": c.cfg.Currency,
		"receipt":  input.Receipt,
	}
	if len(input.Notes) > 0 {
		payload["notes"] = input.Notes
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.cfg.KeyID, c.cfg.KeySecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrResponseInvalid, resp.StatusCode, string(respBody))
	}

	var order GatewayOrder
	if err := json.Unmarshal(respBody, &order); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}
	if order.ID == "" {
		return nil, fmt.Errorf("%w: empty order id", ErrResponseInvalid)
	}
	return &order, nil
}

// VerifySignature 校验支付回执签名：
// HMAC-SHA256(gatewayOrderID + "|" + paymentID, keySecret) 的十六进制串。
// 比较使用常数时间算法。
func (c *Client) VerifySignature(gatewayOrderID, paymentID, signature string) error {
	return VerifySignature(gatewayOrderID, paymentID, signature, c.cfg.KeySecret)
}

// VerifySignature 独立的签名校验入口，便于测试与离线验签
func VerifySignature(gatewayOrderID, paymentID, signature, secret string) error {
	if gatewayOrderID == "" || paymentID == "" || signature == "" {
		return ErrSignatureInvalid
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(strings.TrimSpace(signature)))) {
		return ErrSignatureInvalid
	}
	return nil
}

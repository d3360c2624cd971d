package utils

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

const razorpayBaseURL = "https://api.razorpay.com/v1"

var ErrPaymentsDisabled = errors.New("online payments are not configured")

type RazorpayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// RazorpayClient creates payment orders and verifies checkout signatures.
type RazorpayClient struct {
	keyID     string
	keySecret string
	client    *resty.Client
}

// NewRazorpayClient returns a client for the Razorpay orders API. baseURL may be empty.
func NewRazorpayClient(keyID, keySecret, baseURL string) *RazorpayClient {
	if baseURL == "" {
		baseURL = razorpayBaseURL
	}
	return &RazorpayClient{
		keyID:     keyID,
		keySecret: keySecret,
		client: resty.New().
			SetBaseURL(baseURL).
			SetBasicAuth(keyID, keySecret).
			SetTimeout(30 * time.Second).
			SetHeader("Accept", "application/json"),
	}
}

func (c *RazorpayClient) KeyID() string { return c.keyID }

func (c *RazorpayClient) Enabled() bool { return c.keyID != "" && c.keySecret != "" }

// CreateOrder registers amount (in paise) with Razorpay and returns its order id.
func (c *RazorpayClient) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*RazorpayOrder, error) {
	if !c.Enabled() {
		return nil, ErrPaymentsDisabled
	}
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{
			"amount":   amount,
			"currency": currency,
			"receipt":  receipt,
		}).
		Post("/orders")
	if err != nil {
		return nil, fmt.Errorf("razorpay create order: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("razorpay create order failed with status %d: %s",
			resp.StatusCode(), gjson.GetBytes(resp.Body(), "error.description").String())
	}

	body := resp.Body()
	id := gjson.GetBytes(body, "id").String()
	if id == "" {
		return nil, fmt.Errorf("razorpay create order: order id missing in response")
	}
	return &RazorpayOrder{
		ID:       id,
		Amount:   gjson.GetBytes(body, "amount").Int(),
		Currency: gjson.GetBytes(body, "currency").String(),
		Receipt:  gjson.GetBytes(body, "receipt").String(),
	}, nil
}

func (c *RazorpayClient) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifyRazorpaySignature(c.keySecret, orderID, paymentID, signature)
}

// VerifyRazorpaySignature checks the checkout signature: hex HMAC-SHA256 of
// "order_id|payment_id" keyed with the API secret.
func VerifyRazorpaySignature(secret, orderID, paymentID, signature string) bool {
	if secret == "" || orderID == "" || paymentID == "" || signature == "" {
		return false
	}
	expected := RazorpaySignature(secret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}

func RazorpaySignature(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

type CreatePaymentRequest struct {
	OrderID          string  `json:"orderId"`
	Amount           float64 `json:"amount"`
	Currency         string  `json:"currency"`
	Provider         string  `json:"provider"`
	Status           string  `json:"status"`
	CardNumber       string  `json:"cardNumber,omitempty"`
	CardHolder       string  `json:"cardHolder,omitempty"`
	CardExpiry       string  `json:"cardExpiry,omitempty"`
	CardCVC          string  `json:"cardCvc,omitempty"`
	VerificationCode string  `json:"verificationCode,omitempty"`
}

type StripeSessionRequest struct {
	PaymentID  string `json:"paymentId"`
	OrderID    string `json:"orderId"`
	SuccessURL string `json:"successUrl"`
	CancelURL  string `json:"cancelUrl"`
}

type StripeSessionResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

type VerifyCodeRequest struct {
	OrderID string `json:"orderId"`
	Code    string `json:"code"`
}

type ListPaymentsParams struct {
	PageIndex int
	PageSize  int
	Status    string
}

type PaymentStats struct {
	TotalCount     int64   `json:"totalCount"`
	TotalAmount    float64 `json:"totalAmount"`
	CompletedCount int64   `json:"completedCount"`
	PendingCount   int64   `json:"pendingCount"`
	FailedCount    int64   `json:"failedCount"`
}

func (c *Client) ListPayments(ctx context.Context, p ListPaymentsParams) (*Page[Payment], error) {
	q := url.Values{}
	if p.PageIndex > 0 {
		q.Set("pageIndex", strconv.Itoa(p.PageIndex))
	}
	if p.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(p.PageSize))
	}
	if p.Status != "" {
		q.Set("status", p.Status)
	}

	var page Page[Payment]
	if err := c.do(ctx, http.MethodGet, "/Payments", q, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetPayment(ctx context.Context, id string) (*Payment, error) {
	var payment Payment
	if err := c.do(ctx, http.MethodGet, "/Payments/"+id, nil, nil, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (c *Client) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*Payment, error) {
	var payment Payment
	if err := c.do(ctx, http.MethodPost, "/Payments", nil, req, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (c *Client) CreateStripeSession(ctx context.Context, req StripeSessionRequest) (*StripeSessionResponse, error) {
	var session StripeSessionResponse
	if err := c.do(ctx, http.MethodPost, "/Payments/create-stripe-session", nil, req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) VerifyCode(ctx context.Context, req VerifyCodeRequest) error {
	return c.do(ctx, http.MethodPost, "/Payments/verify-code", nil, req, nil)
}

func (c *Client) PaymentStats(ctx context.Context) (*PaymentStats, error) {
	var stats PaymentStats
	if err := c.do(ctx, http.MethodGet, "/Payments/stats", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

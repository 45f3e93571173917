package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

type CreateOrderItem struct {
	ProductVariantID string  `json:"productVariantId"`
	Quantity         int     `json:"quantity"`
	UnitPrice        float64 `json:"unitPrice"`
	Currency         string  `json:"currency"`
}

type CreateOrderRequest struct {
	UserID          string            `json:"userId"`
	Status          string            `json:"status"`
	ShippingAddress string            `json:"shippingAddress"`
	PhoneNumber     string            `json:"phoneNumber"`
	Items           []CreateOrderItem `json:"items"`
	TotalAmount     float64           `json:"totalAmount"`
	Currency        string            `json:"currency"`
}

type ListOrdersParams struct {
	PageIndex int
	PageSize  int
	Status    string
	Search    string
}

func (c *Client) ListOrders(ctx context.Context, p ListOrdersParams) (*Page[Order], error) {
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
	if p.Search != "" {
		q.Set("search", p.Search)
	}

	var page Page[Order]
	if err := c.do(ctx, http.MethodGet, "/Orders", q, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) MyOrders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.do(ctx, http.MethodGet, "/Orders/my-orders", nil, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) GetOrder(ctx context.Context, id string) (*Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodGet, "/Orders/"+id, nil, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodPost, "/Orders", nil, req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// DeleteOrder is the only client-side mutation of an existing order, the
// status lifecycle is owned by the backend.
func (c *Client) DeleteOrder(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/Orders/"+id, nil, nil, nil)
}

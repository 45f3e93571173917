package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

type ListProductsParams struct {
	PageIndex  int
	PageSize   int
	Search     string
	CategoryID string
	Published  *bool
}

type SaveVariant struct {
	ID            string  `json:"id,omitempty"`
	SKU           string  `json:"sku"`
	PriceAmount   float64 `json:"priceAmount"`
	PriceCurrency string  `json:"priceCurrency"`
	Stock         int     `json:"stock"`
	IsActive      bool    `json:"isActive"`
}

type SaveProductRequest struct {
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Description string         `json:"description"`
	CategoryID  string         `json:"categoryId"`
	IsPublished bool           `json:"isPublished"`
	Variants    []SaveVariant  `json:"variants"`
	Media       []ProductMedia `json:"media"`
}

func (c *Client) ListProducts(ctx context.Context, p ListProductsParams) (*Page[Product], error) {
	q := url.Values{}
	if p.PageIndex > 0 {
		q.Set("pageIndex", strconv.Itoa(p.PageIndex))
	}
	if p.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(p.PageSize))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.CategoryID != "" {
		q.Set("categoryId", p.CategoryID)
	}
	if p.Published != nil {
		q.Set("isPublished", strconv.FormatBool(*p.Published))
	}

	var page Page[Product]
	if err := c.do(ctx, http.MethodGet, "/Products", q, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	var product Product
	if err := c.do(ctx, http.MethodGet, "/Products/"+id, nil, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) CreateProduct(ctx context.Context, req SaveProductRequest) (*Product, error) {
	var product Product
	if err := c.do(ctx, http.MethodPost, "/Products", nil, req, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, req SaveProductRequest) (*Product, error) {
	var product Product
	if err := c.do(ctx, http.MethodPut, "/Products/"+id, nil, req, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/Products/"+id, nil, nil, nil)
}

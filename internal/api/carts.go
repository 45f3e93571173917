package api

import (
	"context"
	"net/http"
)

type AddCartItemRequest struct {
	UserID           string `json:"userId"`
	ProductVariantID string `json:"productVariantId"`
	Quantity         int    `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

func (c *Client) GetCartByUser(ctx context.Context, userID string) (*Cart, error) {
	var cart Cart
	if err := c.do(ctx, http.MethodGet, "/Carts/user/"+userID, nil, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) AddCartItem(ctx context.Context, req AddCartItemRequest) (*Cart, error) {
	var cart Cart
	if err := c.do(ctx, http.MethodPost, "/Carts/add", nil, req, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) UpdateCartItem(ctx context.Context, cartID, itemID string, quantity int) error {
	req := UpdateCartItemRequest{Quantity: quantity}
	return c.do(ctx, http.MethodPut, "/Carts/"+cartID+"/items/"+itemID, nil, req, nil)
}

func (c *Client) RemoveCartItem(ctx context.Context, cartID, itemID string) error {
	return c.do(ctx, http.MethodDelete, "/Carts/"+cartID+"/items/"+itemID, nil, nil, nil)
}

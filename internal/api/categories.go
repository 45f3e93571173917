package api

import (
	"context"
	"net/http"
)

type SaveCategoryRequest struct {
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	ParentCategoryID *string `json:"parentCategoryId"`
	IsActive         bool    `json:"isActive"`
}

// Categories come back as a flat list, there is no paginated envelope for
// this resource.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.do(ctx, http.MethodGet, "/Categories", nil, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) GetCategory(ctx context.Context, id string) (*Category, error) {
	var category Category
	if err := c.do(ctx, http.MethodGet, "/Categories/"+id, nil, nil, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *Client) CreateCategory(ctx context.Context, req SaveCategoryRequest) (*Category, error) {
	var category Category
	if err := c.do(ctx, http.MethodPost, "/Categories", nil, req, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id string, req SaveCategoryRequest) (*Category, error) {
	var category Category
	if err := c.do(ctx, http.MethodPut, "/Categories/"+id, nil, req, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/Categories/"+id, nil, nil, nil)
}

package api

import (
	"context"
	"net/http"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type SaveUserRequest struct {
	Email       string   `json:"email"`
	FullName    string   `json:"fullName"`
	PhoneNumber string   `json:"phoneNumber"`
	Roles       []string `json:"roles"`
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	var auth AuthResponse
	if err := c.do(ctx, http.MethodPost, "/Users/login", nil, req, &auth); err != nil {
		return nil, err
	}
	return &auth, nil
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var auth AuthResponse
	if err := c.do(ctx, http.MethodPost, "/Users/register", nil, req, &auth); err != nil {
		return nil, err
	}
	return &auth, nil
}

func (c *Client) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error {
	return c.do(ctx, http.MethodPost, "/Users/forgot-password", nil, req, nil)
}

func (c *Client) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	return c.do(ctx, http.MethodPost, "/Users/reset-password", nil, req, nil)
}

func (c *Client) ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error {
	return c.do(ctx, http.MethodPost, "/Users/"+userID+"/change-password", nil, req, nil)
}

// Users come back as a flat list, same as categories.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.do(ctx, http.MethodGet, "/Users", nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) GetUser(ctx context.Context, id string) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/Users/"+id, nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateUser(ctx context.Context, id string, req SaveUserRequest) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPut, "/Users/"+id, nil, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/Users/"+id, nil, nil, nil)
}

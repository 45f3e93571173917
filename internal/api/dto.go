package api

import "time"

type Product struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Slug        string           `json:"slug"`
	Description string           `json:"description"`
	CategoryID  string           `json:"categoryId"`
	IsPublished bool             `json:"isPublished"`
	Variants    []ProductVariant `json:"variants"`
	Media       []ProductMedia   `json:"media"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

type ProductVariant struct {
	ID            string  `json:"id"`
	SKU           string  `json:"sku"`
	PriceAmount   float64 `json:"priceAmount"`
	PriceCurrency string  `json:"priceCurrency"`
	Stock         int     `json:"stock"`
	IsActive      bool    `json:"isActive"`
}

type ProductMedia struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	SizeInBytes int64  `json:"sizeInBytes"`
	IsPrimary   bool   `json:"isPrimary"`
}

type Category struct {
	CategoryID       string  `json:"categoryId"`
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	ParentCategoryID *string `json:"parentCategoryId"`
	IsActive         bool    `json:"isActive"`
}

type CartItem struct {
	ItemID           string  `json:"itemId"`
	ProductVariantID string  `json:"productVariantId"`
	Title            string  `json:"title"`
	UnitPriceAmount  float64 `json:"unitPriceAmount"`
	Quantity         int     `json:"quantity"`
}

type Cart struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	Items       []CartItem `json:"items"`
	TotalAmount float64    `json:"totalAmount"`
	Currency    string     `json:"currency"`
}

type OrderItem struct {
	ProductVariantID string  `json:"productVariantId"`
	Quantity         int     `json:"quantity"`
	UnitPrice        float64 `json:"unitPrice"`
	Currency         string  `json:"currency"`
}

type Order struct {
	OrderID         string      `json:"orderId"`
	UserID          string      `json:"userId"`
	Status          string      `json:"status"`
	ShippingAddress string      `json:"shippingAddress"`
	PhoneNumber     string      `json:"phoneNumber"`
	Items           []OrderItem `json:"items"`
	TotalAmount     float64     `json:"totalAmount"`
	Currency        string      `json:"currency"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

type Payment struct {
	PaymentID     string    `json:"paymentId"`
	OrderID       string    `json:"orderId"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Provider      string    `json:"provider"`
	TransactionID string    `json:"transactionId"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type User struct {
	UserID      string   `json:"userId"`
	Email       string   `json:"email"`
	FullName    string   `json:"fullName"`
	PhoneNumber string   `json:"phoneNumber"`
	Roles       []string `json:"roles"`
}

type AuthResponse struct {
	User
	Token string `json:"token"`
}

// Page is the paginated envelope the backend wraps list responses in.
type Page[T any] struct {
	Items      []T   `json:"items"`
	PageIndex  int   `json:"pageIndex"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
	TotalCount int64 `json:"totalCount"`
}

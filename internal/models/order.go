package models

import (
	"time"

	"github.com/gocql/gocql"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

type OrderItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type Order struct {
	ID         gocql.UUID  `json:"id"`
	UserID     string      `json:"user_id"`
	Items      []OrderItem `json:"items"`
	Subtotal   float64     `json:"subtotal"`
	Tax        float64     `json:"tax"`
	Shipping   float64     `json:"shipping"`
	TotalPrice float64     `json:"total_price"`
	Status     string      `json:"status"`
	AddressID  string      `json:"address_id,omitempty"`
	Notes      string      `json:"notes,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// Pagination reprend la forme attendue par le front :
// { items, pagination: { page, total, totalPages } }
type Pagination struct {
	Page       int `json:"page"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

package models

import "time"

const (
	OrderStatusPending  = "pending"
	OrderStatusVerified = "verified"
	OrderStatusSent     = "sent"
)

// OrderLine is a denormalized copy of an item taken when the order was placed.
type OrderLine struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type Order struct {
	ID         int         `json:"id"`
	Email      string      `json:"email"`
	Message    string      `json:"message,omitempty"`
	Items      []OrderLine `json:"items"`
	Status     string      `json:"status"`
	VerifiedBy string      `json:"verifiedBy,omitempty"`
	SentAt     *time.Time  `json:"sentAt,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

type PlaceOrderRequest struct {
	Email   string      `json:"email"`
	Message string      `json:"message"`
	Items   []OrderLine `json:"items,omitempty"`
}

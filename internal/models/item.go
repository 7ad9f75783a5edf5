package models

import "time"

// Item is a stocked product. Quantity doubles as the pending order
// quantity staff adjust before placing an order.
type Item struct {
	ID                int        `json:"id"`
	CategoryID        int        `json:"categoryId"`
	CategoryName      string     `json:"categoryName,omitempty"`
	Name              string     `json:"name"`
	Quantity          int        `json:"quantity"`
	QuantityUpdatedAt *time.Time `json:"quantityUpdatedAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

type CreateItemRequest struct {
	CategoryID int    `json:"categoryId"`
	Name       string `json:"name"`
	Quantity   *int   `json:"quantity,omitempty"`
}

type RenameItemRequest struct {
	Name string `json:"name"`
}

type SetQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

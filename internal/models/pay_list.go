package models

import "time"

// PayListEntry records a cheque already paid out.
type PayListEntry struct {
	ID        int       `json:"id"`
	Date      time.Time `json:"date"`
	CheckNo   string    `json:"checkNo"`
	PaidTo    string    `json:"paidTo"`
	Amount    float64   `json:"amount"`
	IsDeleted bool      `json:"isDeleted"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CreatePayListRequest struct {
	Date    string   `json:"date"`
	CheckNo string   `json:"checkNo"`
	PaidTo  string   `json:"paidTo"`
	Amount  *float64 `json:"amount"`
}

type PayListTotal struct {
	Total float64 `json:"total"`
}

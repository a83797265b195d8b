package payment

import (
	"context"
	"time"
)

// DefaultCurrency is the ISO code orders are created in
const DefaultCurrency = "INR"

// Order is a created payment order awaiting capture by the client
type Order struct {
	ID          string    `json:"id"`
	AmountPaise int64     `json:"amount_paise"`
	Currency    string    `json:"currency"`
	Receipt     string    `json:"receipt"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// OrderRequest describes the order to create. AmountPaise is the amount in
// the currency's smallest unit.
type OrderRequest struct {
	AmountPaise int64
	Currency    string
	Receipt     string
	Notes       map[string]string
}

// Gateway creates payment orders with an external provider
type Gateway interface {
	CreateOrder(ctx context.Context, req *OrderRequest) (*Order, error)
}

// ToPaise converts a rupee amount to paise
func ToPaise(amountRupees int64) int64 {
	return amountRupees * 100
}

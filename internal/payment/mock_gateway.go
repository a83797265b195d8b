package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MockGateway implements Gateway without an external provider. Used in
// development and tests.
type MockGateway struct{}

// NewMockGateway creates a new MockGateway
func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

// CreateOrder returns a synthetic created order
func (g *MockGateway) CreateOrder(ctx context.Context, req *OrderRequest) (*Order, error) {
	currency := req.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Order{
		ID:          fmt.Sprintf("order_mock_%s", uuid.New().String()[:8]),
		AmountPaise: req.AmountPaise,
		Currency:    currency,
		Receipt:     req.Receipt,
		Status:      "created",
		CreatedAt:   time.Now(),
	}, nil
}

package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/imcoolthanyou/Event-Hive/internal/domain"
	"github.com/imcoolthanyou/Event-Hive/pkg/config"
)

// HTTPGateway implements Gateway against a Razorpay-compatible orders API
type HTTPGateway struct {
	baseURL   string
	keyID     string
	keySecret string
	http      *http.Client
}

// NewHTTPGateway creates a new HTTPGateway
func NewHTTPGateway(cfg *config.PaymentConfig) *HTTPGateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPGateway{
		baseURL:   cfg.BaseURL,
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		http:      &http.Client{Timeout: timeout},
	}
}

type createOrderRequest struct {
	Amount   int64             `json:"amount"` // smallest currency unit
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type createOrderResponse struct {
	ID        string `json:"id"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Receipt   string `json:"receipt"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"created_at"`
}

// CreateOrder creates a payment order
func (g *HTTPGateway) CreateOrder(ctx context.Context, req *OrderRequest) (*Order, error) {
	currency := req.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	payload, err := json.Marshal(&createOrderRequest{
		Amount:   req.AmountPaise,
		Currency: currency,
		Receipt:  req.Receipt,
		Notes:    req.Notes,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(g.keyID, g.keySecret)

	resp, err := g.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrOrderCreationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: provider returned %d: %s",
			domain.ErrOrderCreationFailed, resp.StatusCode, string(body))
	}

	var out createOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: undecodable response: %v", domain.ErrOrderCreationFailed, err)
	}

	return &Order{
		ID:          out.ID,
		AmountPaise: out.Amount,
		Currency:    out.Currency,
		Receipt:     out.Receipt,
		Status:      out.Status,
		CreatedAt:   time.Unix(out.CreatedAt, 0),
	}, nil
}

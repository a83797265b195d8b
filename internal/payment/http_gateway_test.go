package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/imcoolthanyou/Event-Hive/internal/domain"
	"github.com/imcoolthanyou/Event-Hive/pkg/config"
)

func TestToPaise(t *testing.T) {
	tests := []struct {
		rupees int64
		want   int64
	}{
		{0, 0},
		{1, 100},
		{250, 25000},
	}
	for _, tt := range tests {
		if got := ToPaise(tt.rupees); got != tt.want {
			t.Errorf("ToPaise(%d) = %d, want %d", tt.rupees, got, tt.want)
		}
	}
}

func TestHTTPGatewayCreateOrder(t *testing.T) {
	var gotReq createOrderRequest
	var gotUser, gotPass string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/orders" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotUser, gotPass, _ = r.BasicAuth()
		json.NewDecoder(r.Body).Decode(&gotReq)

		json.NewEncoder(w).Encode(&createOrderResponse{
			ID:        "order_123",
			Amount:    gotReq.Amount,
			Currency:  gotReq.Currency,
			Receipt:   gotReq.Receipt,
			Status:    "created",
			CreatedAt: time.Now().Unix(),
		})
	}))
	defer srv.Close()

	g := NewHTTPGateway(&config.PaymentConfig{
		BaseURL:   srv.URL,
		KeyID:     "key",
		KeySecret: "secret",
		Timeout:   2 * time.Second,
	})

	order, err := g.CreateOrder(context.Background(), &OrderRequest{
		AmountPaise: ToPaise(250),
		Receipt:     "booking-e1-u1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if order.ID != "order_123" {
		t.Errorf("expected order_123, got %s", order.ID)
	}
	if gotReq.Amount != 25000 {
		t.Errorf("expected amount 25000 paise, got %d", gotReq.Amount)
	}
	if gotReq.Currency != "INR" {
		t.Errorf("expected INR default currency, got %s", gotReq.Currency)
	}
	if gotUser != "key" || gotPass != "secret" {
		t.Error("expected basic auth credentials to be sent")
	}
}

func TestHTTPGatewayCreateOrderProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bad request"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	g := NewHTTPGateway(&config.PaymentConfig{BaseURL: srv.URL, Timeout: 2 * time.Second})

	_, err := g.CreateOrder(context.Background(), &OrderRequest{AmountPaise: 100})
	if !errors.Is(err, domain.ErrOrderCreationFailed) {
		t.Fatalf("expected ErrOrderCreationFailed, got %v", err)
	}
}

func TestMockGatewayCreateOrder(t *testing.T) {
	g := NewMockGateway()

	order, err := g.CreateOrder(context.Background(), &OrderRequest{
		AmountPaise: 5000,
		Receipt:     "r1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.AmountPaise != 5000 || order.Currency != "INR" || order.Status != "created" {
		t.Errorf("unexpected order: %+v", order)
	}
}

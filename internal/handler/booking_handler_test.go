package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/imcoolthanyou/Event-Hive/internal/domain"
	"github.com/imcoolthanyou/Event-Hive/internal/dto"
	"github.com/imcoolthanyou/Event-Hive/internal/payment"
)

// MockBookingService is a mock implementation of service.BookingService
type MockBookingService struct {
	available map[string]int
}

func NewMockBookingService() *MockBookingService {
	return &MockBookingService{available: map[string]int{}}
}

func (m *MockBookingService) BookTicket(ctx context.Context, userID, eventID string) (*dto.BookTicketResponse, error) {
	remaining, ok := m.available[eventID]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	if remaining <= 0 {
		return nil, domain.ErrInsufficientTickets
	}
	m.available[eventID] = remaining - 1
	return &dto.BookTicketResponse{EventID: eventID, TicketsRemaining: remaining - 1}, nil
}

func (m *MockBookingService) CreateOrder(ctx context.Context, userID string, req *dto.CreateOrderRequest) (*payment.Order, error) {
	if _, ok := m.available[req.EventID]; !ok {
		return nil, domain.ErrEventNotFound
	}
	return &payment.Order{
		ID:          "order_1",
		AmountPaise: payment.ToPaise(req.AmountRupees),
		Currency:    payment.DefaultCurrency,
		Receipt:     "booking-" + req.EventID + "-" + userID,
		Status:      "created",
	}, nil
}

func setupBookingRouter(h *BookingHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(asUser("user-1"))
	router.POST("/events/:id/book", h.Book)
	router.POST("/orders", h.CreateOrder)
	return router
}

func TestBookingHandler_Book(t *testing.T) {
	tests := []struct {
		name       string
		eventID    string
		available  int
		wantStatus int
	}{
		{
			name:       "tickets available",
			eventID:    "event-1",
			available:  3,
			wantStatus: http.StatusOK,
		},
		{
			name:       "sold out",
			eventID:    "event-1",
			available:  0,
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockBookingService()
			mockSvc.available[tt.eventID] = tt.available
			router := setupBookingRouter(NewBookingHandler(mockSvc))

			req, _ := http.NewRequest(http.MethodPost, "/events/"+tt.eventID+"/book", nil)
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d: %s", tt.wantStatus, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestBookingHandler_Book_EventNotFound(t *testing.T) {
	router := setupBookingRouter(NewBookingHandler(NewMockBookingService()))

	req, _ := http.NewRequest(http.MethodPost, "/events/missing/book", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, resp.Code)
	}
}

func TestBookingHandler_Book_ReturnsRemaining(t *testing.T) {
	mockSvc := NewMockBookingService()
	mockSvc.available["event-1"] = 5
	router := setupBookingRouter(NewBookingHandler(mockSvc))

	req, _ := http.NewRequest(http.MethodPost, "/events/event-1/book", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	var envelope struct {
		Success bool                   `json:"success"`
		Data    dto.BookTicketResponse `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if envelope.Data.TicketsRemaining != 4 {
		t.Errorf("expected 4 tickets remaining, got %d", envelope.Data.TicketsRemaining)
	}
}

func TestBookingHandler_CreateOrder(t *testing.T) {
	mockSvc := NewMockBookingService()
	mockSvc.available["event-1"] = 5
	router := setupBookingRouter(NewBookingHandler(mockSvc))

	tests := []struct {
		name       string
		body       dto.CreateOrderRequest
		wantStatus int
	}{
		{
			name:       "valid order",
			body:       dto.CreateOrderRequest{EventID: "event-1", AmountRupees: 250},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "zero amount",
			body:       dto.CreateOrderRequest{EventID: "event-1"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown event",
			body:       dto.CreateOrderRequest{EventID: "missing", AmountRupees: 100},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.body)
			req, _ := http.NewRequest(http.MethodPost, "/orders", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d: %s", tt.wantStatus, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestBookingHandler_CreateOrder_AmountInPaise(t *testing.T) {
	mockSvc := NewMockBookingService()
	mockSvc.available["event-1"] = 5
	router := setupBookingRouter(NewBookingHandler(mockSvc))

	body, _ := json.Marshal(dto.CreateOrderRequest{EventID: "event-1", AmountRupees: 250})
	req, _ := http.NewRequest(http.MethodPost, "/orders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	var envelope struct {
		Success bool              `json:"success"`
		Data    dto.OrderResponse `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if envelope.Data.AmountPaise != 25000 {
		t.Errorf("expected 25000 paise, got %d", envelope.Data.AmountPaise)
	}
	if envelope.Data.Currency != payment.DefaultCurrency {
		t.Errorf("expected currency %s, got %s", payment.DefaultCurrency, envelope.Data.Currency)
	}
}

package dto

// BookTicketResponse is the result of a successful booking
type BookTicketResponse struct {
	EventID          string `json:"event_id"`
	TicketsRemaining int    `json:"tickets_remaining"`
}

// CreateOrderRequest creates a payment order for an event ticket
type CreateOrderRequest struct {
	EventID      string `json:"event_id" binding:"required"`
	AmountRupees int64  `json:"amount_rupees" binding:"required"`
}

// Validate validates the CreateOrderRequest
func (r *CreateOrderRequest) Validate() (bool, string) {
	if r.EventID == "" {
		return false, "Event ID is required"
	}
	if r.AmountRupees <= 0 {
		return false, "Amount must be greater than zero"
	}
	return true, ""
}

// OrderResponse is a created payment order
type OrderResponse struct {
	OrderID     string `json:"order_id"`
	AmountPaise int64  `json:"amount_paise"`
	Currency    string `json:"currency"`
	Receipt     string `json:"receipt"`
	Status      string `json:"status"`
}

package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imcoolthanyou/Event-Hive/internal/domain"
	"github.com/imcoolthanyou/Event-Hive/internal/dto"
	"github.com/imcoolthanyou/Event-Hive/internal/service"
	"github.com/imcoolthanyou/Event-Hive/pkg/middleware"
	"github.com/imcoolthanyou/Event-Hive/pkg/response"
)

// BookingHandler handles ticket booking and payment order requests
type BookingHandler struct {
	bookingService service.BookingService
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(bookingService service.BookingService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
	}
}

// Book handles POST /events/:id/book - claims one ticket for the caller
func (h *BookingHandler) Book(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "User not found in token")
		return
	}

	eventID := c.Param("id")
	if eventID == "" {
		response.BadRequest(c, "Event ID is required")
		return
	}

	resp, err := h.bookingService.BookTicket(c.Request.Context(), userID, eventID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEventNotFound):
			response.NotFound(c, "Event not found")
		case errors.Is(err, domain.ErrInsufficientTickets):
			response.Conflict(c, "SOLD_OUT", "No tickets available")
		case errors.Is(err, domain.ErrTransactionConflict):
			response.Conflict(c, "BOOKING_CONFLICT", "Booking conflict, please retry")
		case errors.Is(err, service.ErrInvalidInput):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}

	response.Success(c, resp)
}

// CreateOrder handles POST /orders - creates a payment order for a ticket
func (h *BookingHandler) CreateOrder(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "User not found in token")
		return
	}

	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if valid, msg := req.Validate(); !valid {
		response.BadRequest(c, msg)
		return
	}

	order, err := h.bookingService.CreateOrder(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEventNotFound):
			response.NotFound(c, "Event not found")
		case errors.Is(err, domain.ErrInsufficientTickets):
			response.Conflict(c, "SOLD_OUT", "No tickets available")
		case errors.Is(err, domain.ErrOrderCreationFailed):
			response.Error(c, http.StatusBadGateway, "ORDER_CREATION_FAILED", "Payment order could not be created", "")
		case errors.Is(err, service.ErrInvalidInput):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}

	response.Created(c, &dto.OrderResponse{
		OrderID:     order.ID,
		AmountPaise: order.AmountPaise,
		Currency:    order.Currency,
		Receipt:     order.Receipt,
		Status:      order.Status,
	})
}

package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/imcoolthanyou/Event-Hive/internal/domain"
	"github.com/imcoolthanyou/Event-Hive/internal/dto"
	"github.com/imcoolthanyou/Event-Hive/internal/service"
	"github.com/imcoolthanyou/Event-Hive/pkg/middleware"
	"github.com/imcoolthanyou/Event-Hive/pkg/response"
)

// EventHandler handles event-related HTTP requests
type EventHandler struct {
	eventService service.EventService
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{
		eventService: eventService,
	}
}

// List handles GET /events - lists upcoming events
func (h *EventHandler) List(c *gin.Context) {
	events, err := h.eventService.ListUpcoming(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}

	response.Success(c, &dto.EventListResponse{Events: events, Total: len(events)})
}

// Nearby handles GET /events/nearby?lat=&lng=&radius_km= - stateless
// point-in-radius query
func (h *EventHandler) Nearby(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		response.BadRequest(c, "lat is required and must be a number")
		return
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		response.BadRequest(c, "lng is required and must be a number")
		return
	}
	var radius float64
	if raw := c.Query("radius_km"); raw != "" {
		radius, err = strconv.ParseFloat(raw, 64)
		if err != nil || radius < 0 {
			response.BadRequest(c, "radius_km must be a non-negative number")
			return
		}
	}

	events, err := h.eventService.ListNearby(c.Request.Context(), domain.GeoQuery{
		Latitude:  lat,
		Longitude: lng,
		RadiusKm:  radius,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCoordinate) {
			response.BadRequest(c, "Invalid coordinates")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.Success(c, &dto.EventListResponse{Events: events, Total: len(events)})
}

// Search handles GET /events/search?q= - searches events by keyword
func (h *EventHandler) Search(c *gin.Context) {
	query := c.Query("q")

	events, err := h.eventService.SearchEvents(c.Request.Context(), query)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	response.Success(c, &dto.EventListResponse{Events: events, Total: len(events)})
}

// GetByID handles GET /events/:id - retrieves an event by ID
func (h *EventHandler) GetByID(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, "Event ID is required")
		return
	}

	event, err := h.eventService.GetEvent(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			response.NotFound(c, "Event not found")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.Success(c, event)
}

// Create handles POST /events - creates a new event
func (h *EventHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "User not found in token")
		return
	}

	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	req.CreatedBy = userID

	if valid, msg := req.Validate(); !valid {
		response.BadRequest(c, msg)
		return
	}

	event, err := h.eventService.CreateEvent(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrAddressNotFound) {
			response.BadRequest(c, "Location address could not be resolved")
			return
		}
		if errors.Is(err, domain.ErrInvalidCoordinate) {
			response.BadRequest(c, "Invalid coordinates")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.Created(c, event)
}

// Update handles PUT /events/:id - updates an event owned by the caller
func (h *EventHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "User not found in token")
		return
	}

	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, "Event ID is required")
		return
	}

	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if valid, msg := req.Validate(); !valid {
		response.BadRequest(c, msg)
		return
	}

	event, err := h.eventService.UpdateEvent(c.Request.Context(), userID, id, &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEventNotFound):
			response.NotFound(c, "Event not found")
		case errors.Is(err, service.ErrUnauthorized):
			response.Forbidden(c, "Only the event creator can update it")
		case errors.Is(err, domain.ErrInvalidCoordinate):
			response.BadRequest(c, "Invalid coordinates")
		default:
			response.InternalError(c, err)
		}
		return
	}

	response.Success(c, event)
}

// Delete handles DELETE /events/:id - deletes an event owned by the caller
func (h *EventHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "User not found in token")
		return
	}

	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, "Event ID is required")
		return
	}

	if err := h.eventService.DeleteEvent(c.Request.Context(), userID, id); err != nil {
		switch {
		case errors.Is(err, domain.ErrEventNotFound):
			response.NotFound(c, "Event not found")
		case errors.Is(err, service.ErrUnauthorized):
			response.Forbidden(c, "Only the event creator can delete it")
		default:
			response.InternalError(c, err)
		}
		return
	}

	response.Success(c, map[string]string{"message": "Event deleted successfully"})
}

// ListMine handles GET /events/mine - lists events created by the caller
func (h *EventHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "User not found in token")
		return
	}

	events, err := h.eventService.ListMyEvents(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	response.Success(c, &dto.EventListResponse{Events: events, Total: len(events)})
}

// Save handles POST /events/:id/save - saves an event for the caller
func (h *EventHandler) Save(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "User not found in token")
		return
	}

	id := c.Param("id")
	if err := h.eventService.SaveEvent(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			response.NotFound(c, "Event not found")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.Success(c, map[string]string{"message": "Event saved"})
}

// Unsave handles DELETE /events/:id/save - removes a saved mark
func (h *EventHandler) Unsave(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "User not found in token")
		return
	}

	id := c.Param("id")
	if err := h.eventService.UnsaveEvent(c.Request.Context(), userID, id); err != nil {
		response.InternalError(c, err)
		return
	}

	response.Success(c, map[string]string{"message": "Event unsaved"})
}

// ListSaved handles GET /events/saved - lists the caller's saved events
func (h *EventHandler) ListSaved(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "User not found in token")
		return
	}

	events, err := h.eventService.ListSavedEvents(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	response.Success(c, &dto.EventListResponse{Events: events, Total: len(events)})
}

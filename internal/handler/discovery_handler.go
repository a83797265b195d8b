package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/imcoolthanyou/Event-Hive/internal/domain"
	"github.com/imcoolthanyou/Event-Hive/internal/dto"
	"github.com/imcoolthanyou/Event-Hive/internal/service"
	"github.com/imcoolthanyou/Event-Hive/internal/session"
	"github.com/imcoolthanyou/Event-Hive/pkg/middleware"
	"github.com/imcoolthanyou/Event-Hive/pkg/response"
)

// DiscoveryHandler handles location updates and nearby-event reads
type DiscoveryHandler struct {
	sessions *session.Manager
	profiles service.ProfileService
}

// NewDiscoveryHandler creates a new DiscoveryHandler
func NewDiscoveryHandler(sessions *session.Manager, profiles service.ProfileService) *DiscoveryHandler {
	return &DiscoveryHandler{
		sessions: sessions,
		profiles: profiles,
	}
}

// SetLocation handles PUT /discovery/location - starts or moves the
// caller's discovery session
func (h *DiscoveryHandler) SetLocation(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "User not found in token")
		return
	}

	var req dto.SetLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if valid, msg := req.Validate(); !valid {
		response.BadRequest(c, msg)
		return
	}

	radius := req.RadiusKm
	if radius <= 0 {
		radius = h.storedRadius(c.Request.Context(), userID)
	}

	if err := h.sessions.SetLocation(userID, req.Latitude, req.Longitude, radius); err != nil {
		if errors.Is(err, domain.ErrInvalidCoordinate) {
			response.BadRequest(c, "Invalid coordinates")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.Success(c, map[string]string{"message": "Location updated"})
}

// storedRadius resolves an omitted radius from the user's profile. Zero
// means no stored preference; the session manager then applies the
// configured default.
func (h *DiscoveryHandler) storedRadius(ctx context.Context, userID string) float64 {
	if h.profiles == nil {
		return 0
	}
	profile, err := h.profiles.GetProfile(ctx, userID)
	if err != nil || profile == nil {
		return 0
	}
	return profile.DiscoveryRadius
}

// ClearLocation handles DELETE /discovery/location - pauses matching while
// keeping the session's notification history
func (h *DiscoveryHandler) ClearLocation(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "User not found in token")
		return
	}

	h.sessions.ClearLocation(userID)
	response.Success(c, map[string]string{"message": "Location cleared"})
}

// Nearby handles GET /discovery/nearby - returns the caller's current
// nearby-event set
func (h *DiscoveryHandler) Nearby(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "User not found in token")
		return
	}

	events := h.sessions.Nearby(userID)
	if events == nil {
		events = []*domain.Event{}
	}

	response.Success(c, &dto.EventListResponse{Events: events, Total: len(events)})
}

// EndSession handles DELETE /discovery/session - ends the caller's session
// and resets its notification history
func (h *DiscoveryHandler) EndSession(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "User not found in token")
		return
	}

	h.sessions.EndSession(userID)
	response.Success(c, map[string]string{"message": "Session ended"})
}

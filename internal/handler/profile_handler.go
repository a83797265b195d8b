package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/imcoolthanyou/Event-Hive/internal/dto"
	"github.com/imcoolthanyou/Event-Hive/internal/service"
	"github.com/imcoolthanyou/Event-Hive/pkg/middleware"
	"github.com/imcoolthanyou/Event-Hive/pkg/response"
)

// ProfileHandler handles user preference and device token requests
type ProfileHandler struct {
	profileService service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

// Get handles GET /profile - retrieves the caller's profile
func (h *ProfileHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "User not found in token")
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	response.Success(c, profile)
}

// Update handles PUT /profile - updates the caller's preferences
func (h *ProfileHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "User not found in token")
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if valid, msg := req.Validate(); !valid {
		response.BadRequest(c, msg)
		return
	}

	profile, err := h.profileService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}

	response.Success(c, profile)
}

// RegisterToken handles POST /profile/device-tokens - registers a push token
func (h *ProfileHandler) RegisterToken(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "User not found in token")
		return
	}

	var req dto.RegisterTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if valid, msg := req.Validate(); !valid {
		response.BadRequest(c, msg)
		return
	}

	if err := h.profileService.RegisterToken(c.Request.Context(), userID, req.Token); err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}

	response.Created(c, map[string]string{"message": "Device token registered"})
}

// RemoveToken handles DELETE /profile/device-tokens/:token - removes a token
func (h *ProfileHandler) RemoveToken(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "User not found in token")
		return
	}

	token := c.Param("token")
	if err := h.profileService.RemoveToken(c.Request.Context(), userID, token); err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}

	response.Success(c, map[string]string{"message": "Device token removed"})
}

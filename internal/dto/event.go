package dto

import (
	"time"

	"github.com/imcoolthanyou/Event-Hive/internal/domain"
)

// CreateEventRequest represents the request to create a new event
type CreateEventRequest struct {
	Title           string   `json:"title" binding:"required,min=1,max=255"`
	Description     string   `json:"description"`
	Date            string   `json:"date" binding:"required"` // dd-MM-yyyy
	Time            string   `json:"time"`
	LocationAddress string   `json:"location_address"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
	ImageURLs       []string `json:"image_urls"`
	TotalTickets    int      `json:"total_tickets"`
	CreatedBy       string   `json:"-"` // Set from context
}

// Validate validates the CreateEventRequest
func (r *CreateEventRequest) Validate() (bool, string) {
	if r.Title == "" {
		return false, "Event title is required"
	}
	if _, err := time.Parse(domain.EventDateFormat, r.Date); err != nil {
		return false, "Event date must be in dd-MM-yyyy format"
	}
	if r.TotalTickets <= 0 {
		return false, "Total tickets must be greater than zero"
	}
	if (r.Latitude == nil) != (r.Longitude == nil) {
		return false, "Latitude and longitude must be provided together"
	}
	if r.Latitude == nil && r.LocationAddress == "" {
		return false, "Either coordinates or a location address is required"
	}
	return true, ""
}

// UpdateEventRequest represents the request to update an event
type UpdateEventRequest struct {
	Title           string   `json:"title" binding:"omitempty,min=1,max=255"`
	Description     *string  `json:"description"`
	Date            string   `json:"date"`
	Time            *string  `json:"time"`
	LocationAddress string   `json:"location_address"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
	ImageURLs       []string `json:"image_urls"`
}

// Validate validates the UpdateEventRequest
func (r *UpdateEventRequest) Validate() (bool, string) {
	if r.Date != "" {
		if _, err := time.Parse(domain.EventDateFormat, r.Date); err != nil {
			return false, "Event date must be in dd-MM-yyyy format"
		}
	}
	if (r.Latitude == nil) != (r.Longitude == nil) {
		return false, "Latitude and longitude must be provided together"
	}
	return true, ""
}

// EventListResponse represents a list of events
type EventListResponse struct {
	Events []*domain.Event `json:"events"`
	Total  int             `json:"total"`
}

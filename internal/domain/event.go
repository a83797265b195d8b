package domain

import "time"

// EventDateFormat is the wire format for event dates (day-month-year).
const EventDateFormat = "02-01-2006"

// Event is a user-created local event. The identifier is assigned by the
// store on creation. TicketsAvailable is mutated only through the booking
// coordinator's atomic decrement.
type Event struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Date             string    `json:"date"` // EventDateFormat
	Time             string    `json:"time"`
	LocationAddress  string    `json:"location_address"`
	Latitude         float64   `json:"latitude"`
	Longitude        float64   `json:"longitude"`
	ImageURLs        []string  `json:"image_urls"`
	TotalTickets     int       `json:"total_tickets"`
	TicketsAvailable int       `json:"tickets_available"`
	CreatedBy        string    `json:"created_by"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ParseDate parses the event's date string. Returns the zero time and false
// when the date is missing or malformed.
func (e *Event) ParseDate() (time.Time, bool) {
	t, err := time.Parse(EventDateFormat, e.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// IsFutureOrToday reports whether the event is dated today or later,
// relative to the given reference time.
func (e *Event) IsFutureOrToday(now time.Time) bool {
	d, ok := e.ParseDate()
	if !ok {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return !d.Before(today)
}

// GeoQuery is the center/radius pair driving nearby-event matching. The
// radius is a per-user discovery preference in kilometers.
type GeoQuery struct {
	Latitude  float64
	Longitude float64
	RadiusKm  float64
}

// UserProfile carries the per-user preferences the discovery pipeline needs.
type UserProfile struct {
	UserID          string  `json:"user_id"`
	DisplayName     string  `json:"display_name"`
	DiscoveryRadius float64 `json:"discovery_radius"` // kilometers
}

// DeviceToken is a registered push-delivery address for a user.
type DeviceToken struct {
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	UpdatedAt time.Time `json:"updated_at"`
}

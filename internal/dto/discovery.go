package dto

// SetLocationRequest updates the caller's discovery location
type SetLocationRequest struct {
	Latitude  float64 `json:"latitude" binding:"required"`
	Longitude float64 `json:"longitude" binding:"required"`
	RadiusKm  float64 `json:"radius_km"` // 0 uses the stored or default radius
}

// Validate validates the SetLocationRequest
func (r *SetLocationRequest) Validate() (bool, string) {
	if r.Latitude < -90 || r.Latitude > 90 {
		return false, "Latitude must be between -90 and 90"
	}
	if r.Longitude < -180 || r.Longitude > 180 {
		return false, "Longitude must be between -180 and 180"
	}
	if r.RadiusKm < 0 {
		return false, "Radius cannot be negative"
	}
	return true, ""
}

// RegisterTokenRequest registers a device push token
type RegisterTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// Validate validates the RegisterTokenRequest
func (r *RegisterTokenRequest) Validate() (bool, string) {
	if r.Token == "" {
		return false, "Device token is required"
	}
	return true, ""
}

// UpdateProfileRequest updates the caller's discovery preferences
type UpdateProfileRequest struct {
	DisplayName     string  `json:"display_name"`
	DiscoveryRadius float64 `json:"discovery_radius_km"`
}

// Validate validates the UpdateProfileRequest
func (r *UpdateProfileRequest) Validate() (bool, string) {
	if r.DiscoveryRadius < 0 {
		return false, "Discovery radius cannot be negative"
	}
	return true, ""
}

package geo

import (
	"fmt"
	"math"

	"github.com/imcoolthanyou/Event-Hive/internal/domain"
)

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// ValidateCoordinate rejects NaN, infinite and out-of-range latitude or
// longitude values. Malformed coordinates must be caught at the input
// boundary so distance math never silently produces NaN.
func ValidateCoordinate(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || lat < -90 || lat > 90 {
		return fmt.Errorf("%w: latitude %v", domain.ErrInvalidCoordinate, lat)
	}
	if math.IsNaN(lng) || math.IsInf(lng, 0) || lng < -180 || lng > 180 {
		return fmt.Errorf("%w: longitude %v", domain.ErrInvalidCoordinate, lng)
	}
	return nil
}

// DistanceKm returns the great-circle distance between two points in
// kilometers using the haversine formula.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// WithinRadius reports whether the point lies within radiusKm of the query
// center. The boundary is inclusive: a point exactly radiusKm away counts.
func WithinRadius(q domain.GeoQuery, lat, lng float64) bool {
	return DistanceKm(q.Latitude, q.Longitude, lat, lng) <= q.RadiusKm
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

package geo

import (
	"errors"
	"math"
	"testing"

	"github.com/imcoolthanyou/Event-Hive/internal/domain"
)

func TestDistanceKm(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		wantKm                 float64
		tolerance              float64
	}{
		{
			name: "same point is zero",
			lat1: 28.6139, lon1: 77.2090,
			lat2: 28.6139, lon2: 77.2090,
			wantKm:    0,
			tolerance: 0.0001,
		},
		{
			name: "delhi to gurgaon",
			lat1: 28.6139, lon1: 77.2090,
			lat2: 28.4595, lon2: 77.0266,
			wantKm:    24.8,
			tolerance: 1.0,
		},
		{
			name: "one degree of latitude",
			lat1: 0, lon1: 0,
			lat2: 1, lon2: 0,
			wantKm:    111.19,
			tolerance: 0.5,
		},
		{
			name: "antipodal points",
			lat1: 0, lon1: 0,
			lat2: 0, lon2: 180,
			wantKm:    math.Pi * 6371.0,
			tolerance: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceKm(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.wantKm) > tt.tolerance {
				t.Errorf("DistanceKm() = %v, want %v ±%v", got, tt.wantKm, tt.tolerance)
			}
		})
	}
}

func TestDistanceKmSymmetry(t *testing.T) {
	ab := DistanceKm(28.6139, 77.2090, 19.0760, 72.8777)
	ba := DistanceKm(19.0760, 72.8777, 28.6139, 77.2090)
	if math.Abs(ab-ba) > 1e-9 {
		t.Errorf("distance not symmetric: %v vs %v", ab, ba)
	}
}

func TestWithinRadius(t *testing.T) {
	center := domain.GeoQuery{Latitude: 28.6139, Longitude: 77.2090, RadiusKm: 5}

	tests := []struct {
		name     string
		q        domain.GeoQuery
		lat, lng float64
		want     bool
	}{
		{
			name: "same point within any radius",
			q:    center,
			lat:  28.6139, lng: 77.2090,
			want: true,
		},
		{
			name: "seven km away excluded at radius five",
			q:    center,
			lat:  28.6139 + 7.0/111.19, lng: 77.2090,
			want: false,
		},
		{
			name: "seven km away included at radius ten",
			q:    domain.GeoQuery{Latitude: 28.6139, Longitude: 77.2090, RadiusKm: 10},
			lat:  28.6139 + 7.0/111.19, lng: 77.2090,
			want: true,
		},
		{
			name: "zero radius includes only the center",
			q:    domain.GeoQuery{Latitude: 10, Longitude: 10, RadiusKm: 0},
			lat:  10, lng: 10,
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WithinRadius(tt.q, tt.lat, tt.lng); got != tt.want {
				t.Errorf("WithinRadius() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWithinRadiusInclusiveBoundary(t *testing.T) {
	// A point exactly on the radius boundary qualifies.
	q := domain.GeoQuery{Latitude: 0, Longitude: 0}
	lat, lng := 0.5, 0.0
	q.RadiusKm = DistanceKm(q.Latitude, q.Longitude, lat, lng)
	if !WithinRadius(q, lat, lng) {
		t.Error("point at exactly radius distance should be included")
	}
}

func TestValidateCoordinate(t *testing.T) {
	tests := []struct {
		name     string
		lat, lng float64
		wantErr  bool
	}{
		{"valid", 28.6139, 77.2090, false},
		{"north pole", 90, 0, false},
		{"date line", 0, -180, false},
		{"latitude too large", 90.01, 0, true},
		{"latitude too small", -91, 0, true},
		{"longitude too large", 0, 180.5, true},
		{"nan latitude", math.NaN(), 0, true},
		{"nan longitude", 0, math.NaN(), true},
		{"infinite latitude", math.Inf(1), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCoordinate(tt.lat, tt.lng)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error but got nil")
				}
				if !errors.Is(err, domain.ErrInvalidCoordinate) {
					t.Errorf("expected ErrInvalidCoordinate, got %v", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

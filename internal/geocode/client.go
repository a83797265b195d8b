package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/imcoolthanyou/Event-Hive/internal/domain"
	"github.com/imcoolthanyou/Event-Hive/pkg/config"
)

// Coordinate is a resolved latitude/longitude pair
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// Geocoder resolves free-form addresses to coordinates
type Geocoder interface {
	Forward(ctx context.Context, address string) (*Coordinate, error)
}

// Client implements Geocoder against a Nominatim-compatible search API
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

// NewClient creates a new geocoding Client
func NewClient(cfg *config.GeocoderConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		http:      &http.Client{Timeout: timeout},
	}
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Forward resolves an address to coordinates. Returns
// domain.ErrAddressNotFound when the provider has no match.
func (c *Client) Forward(ctx context.Context, address string) (*Coordinate, error) {
	if address == "" {
		return nil, domain.ErrAddressNotFound
	}

	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("geocoder returned %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, domain.ErrAddressNotFound
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("geocoder returned malformed latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("geocoder returned malformed longitude: %w", err)
	}

	return &Coordinate{Latitude: lat, Longitude: lng}, nil
}

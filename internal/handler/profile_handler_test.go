package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/imcoolthanyou/Event-Hive/internal/domain"
	"github.com/imcoolthanyou/Event-Hive/internal/dto"
)

// MockProfileService is a mock implementation of service.ProfileService
type MockProfileService struct {
	profiles map[string]*domain.UserProfile
	tokens   map[string][]string
}

func NewMockProfileService() *MockProfileService {
	return &MockProfileService{
		profiles: map[string]*domain.UserProfile{},
		tokens:   map[string][]string{},
	}
}

func (m *MockProfileService) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	if p, ok := m.profiles[userID]; ok {
		return p, nil
	}
	return &domain.UserProfile{UserID: userID, DiscoveryRadius: 5.0}, nil
}

func (m *MockProfileService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*domain.UserProfile, error) {
	p, _ := m.GetProfile(ctx, userID)
	if req.DisplayName != "" {
		p.DisplayName = req.DisplayName
	}
	if req.DiscoveryRadius > 0 {
		p.DiscoveryRadius = req.DiscoveryRadius
	}
	m.profiles[userID] = p
	return p, nil
}

func (m *MockProfileService) RegisterToken(ctx context.Context, userID, token string) error {
	m.tokens[userID] = append(m.tokens[userID], token)
	return nil
}

func (m *MockProfileService) RemoveToken(ctx context.Context, userID, token string) error {
	kept := m.tokens[userID][:0]
	for _, t := range m.tokens[userID] {
		if t != token {
			kept = append(kept, t)
		}
	}
	m.tokens[userID] = kept
	return nil
}

func setupProfileRouter(h *ProfileHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(asUser("user-1"))
	router.GET("/profile", h.Get)
	router.PUT("/profile", h.Update)
	router.POST("/profile/device-tokens", h.RegisterToken)
	router.DELETE("/profile/device-tokens/:token", h.RemoveToken)
	return router
}

func TestProfileHandler_GetDefaults(t *testing.T) {
	router := setupProfileRouter(NewProfileHandler(NewMockProfileService()))

	req, _ := http.NewRequest(http.MethodGet, "/profile", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.Code)
	}

	var envelope struct {
		Data domain.UserProfile `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if envelope.Data.DiscoveryRadius != 5.0 {
		t.Errorf("expected default radius 5.0, got %f", envelope.Data.DiscoveryRadius)
	}
}

func TestProfileHandler_Update(t *testing.T) {
	tests := []struct {
		name       string
		body       dto.UpdateProfileRequest
		wantStatus int
	}{
		{
			name:       "valid update",
			body:       dto.UpdateProfileRequest{DisplayName: "Asha", DiscoveryRadius: 12},
			wantStatus: http.StatusOK,
		},
		{
			name:       "negative radius",
			body:       dto.UpdateProfileRequest{DiscoveryRadius: -1},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupProfileRouter(NewProfileHandler(NewMockProfileService()))

			body, _ := json.Marshal(tt.body)
			req, _ := http.NewRequest(http.MethodPut, "/profile", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d: %s", tt.wantStatus, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestProfileHandler_RegisterToken(t *testing.T) {
	mockSvc := NewMockProfileService()
	router := setupProfileRouter(NewProfileHandler(mockSvc))

	body, _ := json.Marshal(dto.RegisterTokenRequest{Token: "tok-a"})
	req, _ := http.NewRequest(http.MethodPost, "/profile/device-tokens", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, resp.Code)
	}
	if len(mockSvc.tokens["user-1"]) != 1 {
		t.Errorf("expected 1 registered token, got %d", len(mockSvc.tokens["user-1"]))
	}

	// Empty token rejected
	body, _ = json.Marshal(dto.RegisterTokenRequest{})
	req, _ = http.NewRequest(http.MethodPost, "/profile/device-tokens", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, resp.Code)
	}
}

func TestProfileHandler_RemoveToken(t *testing.T) {
	mockSvc := NewMockProfileService()
	mockSvc.tokens["user-1"] = []string{"tok-a"}
	router := setupProfileRouter(NewProfileHandler(mockSvc))

	req, _ := http.NewRequest(http.MethodDelete, "/profile/device-tokens/tok-a", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.Code)
	}
	if len(mockSvc.tokens["user-1"]) != 0 {
		t.Errorf("expected token removed, got %v", mockSvc.tokens["user-1"])
	}
}

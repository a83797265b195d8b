package service

import (
	"context"
	"fmt"
	"time"

	"github.com/imcoolthanyou/Event-Hive/internal/domain"
	"github.com/imcoolthanyou/Event-Hive/internal/dto"
	"github.com/imcoolthanyou/Event-Hive/internal/repository"
)

// profileService implements ProfileService
type profileService struct {
	profileRepo   repository.UserProfileRepository
	tokenRepo     repository.DeviceTokenRepository
	defaultRadius float64
}

// NewProfileService creates a new ProfileService
func NewProfileService(
	profileRepo repository.UserProfileRepository,
	tokenRepo repository.DeviceTokenRepository,
	defaultRadiusKm float64,
) ProfileService {
	return &profileService{
		profileRepo:   profileRepo,
		tokenRepo:     tokenRepo,
		defaultRadius: defaultRadiusKm,
	}
}

// GetProfile retrieves the user's profile. Users who never stored
// preferences get a profile with the default discovery radius.
func (s *profileService) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return &domain.UserProfile{
			UserID:          userID,
			DiscoveryRadius: s.defaultRadius,
		}, nil
	}
	if profile.DiscoveryRadius <= 0 {
		profile.DiscoveryRadius = s.defaultRadius
	}
	return profile, nil
}

// UpdateProfile stores the user's profile preferences
func (s *profileService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*domain.UserProfile, error) {
	if valid, msg := req.Validate(); !valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, msg)
	}

	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != "" {
		profile.DisplayName = req.DisplayName
	}
	if req.DiscoveryRadius > 0 {
		profile.DiscoveryRadius = req.DiscoveryRadius
	}

	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// RegisterToken registers a device push token
func (s *profileService) RegisterToken(ctx context.Context, userID, token string) error {
	if token == "" {
		return fmt.Errorf("%w: device token is required", ErrInvalidInput)
	}
	return s.tokenRepo.Upsert(ctx, &domain.DeviceToken{
		UserID:    userID,
		Token:     token,
		UpdatedAt: time.Now(),
	})
}

// RemoveToken removes a device push token
func (s *profileService) RemoveToken(ctx context.Context, userID, token string) error {
	if token == "" {
		return fmt.Errorf("%w: device token is required", ErrInvalidInput)
	}
	return s.tokenRepo.Delete(ctx, userID, token)
}

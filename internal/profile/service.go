// internal/profile/service.go

package profile

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

var ErrInvalidLocation = errors.New("location out of range")

// Service defines the profile service interface
type Service interface {
	GetProfile(ctx context.Context, userID string) (*UserProfile, error)
	SaveProfile(ctx context.Context, userID string, req *UpsertProfileRequest) (*UserProfile, error)

	// Blocking
	BlockUser(ctx context.Context, userID, blockedID string) error
	UnblockUser(ctx context.Context, userID, blockedID string) error
	GetBlockedUsers(ctx context.Context, userID string) ([]string, error)
}

// profileService implements Service
type profileService struct {
	repo Repository
	log  *zap.Logger
}

// NewService creates a new profile service
func NewService(repo Repository, log *zap.Logger) Service {
	return &profileService{repo: repo, log: log.Named("profile")}
}

func (s *profileService) GetProfile(ctx context.Context, userID string) (*UserProfile, error) {
	return s.repo.GetProfile(ctx, userID)
}

// SaveProfile creates or replaces the caller's profile
func (s *profileService) SaveProfile(ctx context.Context, userID string, req *UpsertProfileRequest) (*UserProfile, error) {
	if loc := req.Location; loc != nil {
		if loc.Latitude < -90 || loc.Latitude > 90 || loc.Longitude < -180 || loc.Longitude > 180 {
			return nil, ErrInvalidLocation
		}
	}

	p := req.ToProfile(userID)
	if err := s.repo.UpsertProfile(ctx, p); err != nil {
		return nil, err
	}

	// Reload so the response carries the stored block list
	saved, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload profile: %w", err)
	}
	return saved, nil
}

// BlockUser hides blockedID from the user's feed
func (s *profileService) BlockUser(ctx context.Context, userID, blockedID string) error {
	if userID == blockedID {
		return ErrCannotBlockSelf
	}
	if _, err := s.repo.GetProfile(ctx, blockedID); err != nil {
		return err
	}
	if err := s.repo.BlockUser(ctx, userID, blockedID); err != nil {
		return err
	}

	s.log.Info("user blocked", zap.String("user_id", userID), zap.String("blocked_id", blockedID))
	return nil
}

func (s *profileService) UnblockUser(ctx context.Context, userID, blockedID string) error {
	return s.repo.UnblockUser(ctx, userID, blockedID)
}

func (s *profileService) GetBlockedUsers(ctx context.Context, userID string) ([]string, error) {
	p, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p.BlockedUserIDs == nil {
		return []string{}, nil
	}
	return p.BlockedUserIDs, nil
}

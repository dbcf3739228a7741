// internal/matching/store.go

package matching

import (
	"context"
	"errors"

	"github.com/imadgeboyega/roommate-backend/internal/messaging"
	"github.com/imadgeboyega/roommate-backend/internal/profile"
)

// Store is everything the engine reads from and writes to
type Store interface {
	GetProfile(ctx context.Context, id string) (*profile.UserProfile, error)
	ListProfiles(ctx context.Context) ([]*profile.UserProfile, error)

	SwipesFrom(ctx context.Context, from string) ([]SwipeRecord, error)
	// LikesBetween returns the liked swipes from -> to
	LikesBetween(ctx context.Context, from, to string) ([]SwipeRecord, error)
	PutSwipe(ctx context.Context, rec *SwipeRecord) error

	FindConversation(ctx context.Context, userID, otherID string) (id string, found bool, err error)
	// CreateConversation returns the existing id with created=false if the pair already has one
	CreateConversation(ctx context.Context, participants []string) (id string, created bool, err error)

	GetFilterSettings(ctx context.Context, userID string) (*profile.FilterSettings, error)
	SaveFilterSettings(ctx context.Context, f *profile.FilterSettings) error
}

// repositoryStore composes the per-aggregate repositories into a Store
type repositoryStore struct {
	profile.Repository
	swipes        SwipeRepository
	conversations messaging.Repository
}

// NewStore builds a Store on top of the profile, swipe and conversation repositories
func NewStore(profiles profile.Repository, swipes SwipeRepository, conversations messaging.Repository) Store {
	return &repositoryStore{
		Repository:    profiles,
		swipes:        swipes,
		conversations: conversations,
	}
}

func (s *repositoryStore) SwipesFrom(ctx context.Context, from string) ([]SwipeRecord, error) {
	return s.swipes.SwipesFrom(ctx, from)
}

func (s *repositoryStore) LikesBetween(ctx context.Context, from, to string) ([]SwipeRecord, error) {
	return s.swipes.LikesBetween(ctx, from, to)
}

func (s *repositoryStore) PutSwipe(ctx context.Context, rec *SwipeRecord) error {
	return s.swipes.PutSwipe(ctx, rec)
}

func (s *repositoryStore) FindConversation(ctx context.Context, userID, otherID string) (string, bool, error) {
	conv, err := s.conversations.FindDirectConversation(ctx, userID, otherID)
	if err != nil {
		if errors.Is(err, messaging.ErrConversationNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return conv.ID, true, nil
}

func (s *repositoryStore) CreateConversation(ctx context.Context, participants []string) (string, bool, error) {
	if len(participants) != 2 {
		return "", false, messaging.ErrInvalidParticipants
	}
	conv, created, err := s.conversations.CreateDirectConversation(ctx, participants[0], participants[1])
	if err != nil {
		return "", false, err
	}
	return conv.ID, created, nil
}

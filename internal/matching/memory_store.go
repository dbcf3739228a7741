// internal/matching/memory_store.go
// In-process Store used by the CLI and by tests

package matching

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/imadgeboyega/roommate-backend/internal/messaging"
	"github.com/imadgeboyega/roommate-backend/internal/profile"
)

// Fixtures is the JSON document a MemoryStore can be seeded from
type Fixtures struct {
	Profiles      []*profile.UserProfile    `json:"profiles"`
	Filters       []*profile.FilterSettings `json:"filters"`
	Swipes        []SwipeRecord             `json:"swipes"`
	Conversations []*messaging.Conversation `json:"conversations,omitempty"`
}

// MemoryStore keeps everything in maps guarded by a single mutex
type MemoryStore struct {
	mu            sync.RWMutex
	order         []string
	profiles      map[string]*profile.UserProfile
	filters       map[string]*profile.FilterSettings
	swipes        []SwipeRecord
	conversations map[string]*messaging.Conversation
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles:      make(map[string]*profile.UserProfile),
		filters:       make(map[string]*profile.FilterSettings),
		conversations: make(map[string]*messaging.Conversation),
	}
}

// LoadFixtures decodes a Fixtures document into a new store
func LoadFixtures(r io.Reader) (*MemoryStore, error) {
	var fx Fixtures
	if err := json.NewDecoder(r).Decode(&fx); err != nil {
		return nil, fmt.Errorf("failed to decode fixtures: %w", err)
	}

	s := NewMemoryStore()
	for _, p := range fx.Profiles {
		if p == nil || p.ID == "" {
			return nil, fmt.Errorf("fixture profile without id")
		}
		s.AddProfile(p)
	}
	for _, f := range fx.Filters {
		if f == nil || f.UserID == "" {
			return nil, fmt.Errorf("fixture filter without user_id")
		}
		s.filters[f.UserID] = f
	}
	for i := range fx.Swipes {
		rec := fx.Swipes[i]
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		if rec.SuperLiked {
			rec.Liked = true
		}
		s.swipes = append(s.swipes, rec)
	}
	for _, c := range fx.Conversations {
		if c == nil || c.ID == "" || c.UserLow == "" || c.UserHigh == "" || c.UserLow == c.UserHigh {
			return nil, fmt.Errorf("fixture conversation: %w", messaging.ErrInvalidParticipants)
		}
		key := messaging.PairKey(c.UserLow, c.UserHigh)
		if _, dup := s.conversations[key]; dup {
			return nil, fmt.Errorf("duplicate fixture conversation for pair %s", key)
		}
		low, high := messaging.CanonicalPair(c.UserLow, c.UserHigh)
		conv := *c
		conv.UserLow, conv.UserHigh = low, high
		if conv.Type == "" {
			conv.Type = messaging.ConversationTypeDirect
		}
		s.conversations[key] = &conv
	}
	return s, nil
}

// AddProfile inserts or replaces a profile, keeping first-insertion order
func (s *MemoryStore) AddProfile(p *profile.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[p.ID]; !ok {
		s.order = append(s.order, p.ID)
	}
	s.profiles[p.ID] = p
}

func (s *MemoryStore) GetProfile(_ context.Context, id string) (*profile.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[id]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	return p, nil
}

func (s *MemoryStore) ListProfiles(_ context.Context) ([]*profile.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*profile.UserProfile, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.profiles[id])
	}
	return out, nil
}

func (s *MemoryStore) SwipesFrom(_ context.Context, from string) ([]SwipeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []SwipeRecord
	for _, rec := range s.swipes {
		if rec.From == from {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *MemoryStore) LikesBetween(_ context.Context, from, to string) ([]SwipeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []SwipeRecord
	for i := len(s.swipes) - 1; i >= 0; i-- {
		rec := s.swipes[i]
		if rec.From == from && rec.To == to && rec.Liked {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *MemoryStore) PutSwipe(_ context.Context, rec *SwipeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.swipes = append(s.swipes, *rec)
	return nil
}

func (s *MemoryStore) FindConversation(_ context.Context, userID, otherID string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[messaging.PairKey(userID, otherID)]
	if !ok {
		return "", false, nil
	}
	return conv.ID, true, nil
}

func (s *MemoryStore) CreateConversation(_ context.Context, participants []string) (string, bool, error) {
	if len(participants) != 2 || participants[0] == "" || participants[0] == participants[1] {
		return "", false, messaging.ErrInvalidParticipants
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := messaging.PairKey(participants[0], participants[1])
	if conv, ok := s.conversations[key]; ok {
		return conv.ID, false, nil
	}

	low, high := messaging.CanonicalPair(participants[0], participants[1])
	conv := &messaging.Conversation{
		ID:        uuid.NewString(),
		Type:      messaging.ConversationTypeDirect,
		UserLow:   low,
		UserHigh:  high,
		CreatedAt: time.Now().UTC(),
	}
	s.conversations[key] = conv
	return conv.ID, true, nil
}

func (s *MemoryStore) GetFilterSettings(_ context.Context, userID string) (*profile.FilterSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.filters[userID]
	if !ok {
		return nil, profile.ErrFiltersNotFound
	}
	copied := *f
	return &copied, nil
}

func (s *MemoryStore) SaveFilterSettings(_ context.Context, f *profile.FilterSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *f
	s.filters[f.UserID] = &copied
	return nil
}

// Conversations returns every conversation, for inspection
func (s *MemoryStore) Conversations() []*messaging.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*messaging.Conversation, 0, len(s.conversations))
	for _, c := range s.conversations {
		out = append(out, c)
	}
	return out
}

// Snapshot exports the store as a Fixtures document
func (s *MemoryStore) Snapshot() Fixtures {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fx := Fixtures{Swipes: append([]SwipeRecord(nil), s.swipes...)}
	for _, id := range s.order {
		fx.Profiles = append(fx.Profiles, s.profiles[id])
	}
	for _, id := range s.order {
		if f, ok := s.filters[id]; ok {
			fx.Filters = append(fx.Filters, f)
		}
	}
	for _, c := range s.conversations {
		conv := *c
		fx.Conversations = append(fx.Conversations, &conv)
	}
	sort.Slice(fx.Conversations, func(i, j int) bool {
		return messaging.PairKey(fx.Conversations[i].UserLow, fx.Conversations[i].UserHigh) <
			messaging.PairKey(fx.Conversations[j].UserLow, fx.Conversations[j].UserHigh)
	})
	return fx
}

// Swipes returns a copy of the swipe log
func (s *MemoryStore) Swipes() []SwipeRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]SwipeRecord(nil), s.swipes...)
}

package matching

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/imadgeboyega/roommate-backend/internal/profile"
)

type failingSource struct {
	profilesErr error
	swipesErr   error
}

func (s failingSource) ListProfiles(context.Context) ([]*profile.UserProfile, error) {
	if s.profilesErr != nil {
		return nil, s.profilesErr
	}
	return []*profile.UserProfile{{ID: "a"}}, nil
}

func (s failingSource) SwipesFrom(context.Context, string) ([]SwipeRecord, error) {
	if s.swipesErr != nil {
		return nil, s.swipesErr
	}
	return nil, nil
}

func poolFixture(t *testing.T) (*MemoryStore, *profile.UserProfile) {
	t.Helper()

	me := &profile.UserProfile{ID: "me", BlockedUserIDs: []string{"blocked"}}
	store := NewMemoryStore()
	for _, p := range []*profile.UserProfile{
		{ID: "a"},
		me,
		{ID: "passed"},
		{ID: "liked"},
		{ID: "blocked"},
		{ID: "blocker", BlockedUserIDs: []string{"me"}},
		{ID: "admirer"},
	} {
		store.AddProfile(p)
	}

	ctx := context.Background()
	require.NoError(t, store.PutSwipe(ctx, &SwipeRecord{ID: "1", From: "me", To: "passed", Liked: false}))
	require.NoError(t, store.PutSwipe(ctx, &SwipeRecord{ID: "2", From: "me", To: "liked", Liked: true}))
	// Swipes by others never hide them
	require.NoError(t, store.PutSwipe(ctx, &SwipeRecord{ID: "3", From: "admirer", To: "me", Liked: true}))
	return store, me
}

func poolIDs(pool []*profile.UserProfile) []string {
	ids := make([]string, len(pool))
	for i, p := range pool {
		ids[i] = p.ID
	}
	return ids
}

func TestAssembleExcludesSelfSwipedAndBlocked(t *testing.T) {
	store, me := poolFixture(t)
	assembler := NewPoolAssembler(store, PoolOptions{}, zaptest.NewLogger(t))

	pool := assembler.Assemble(context.Background(), me)

	assert.Equal(t, []string{"a", "blocker", "admirer"}, poolIDs(pool))
}

func TestAssembleCanHideUsersWhoBlockedMe(t *testing.T) {
	store, me := poolFixture(t)
	assembler := NewPoolAssembler(store, PoolOptions{HideBlockedBy: true}, zaptest.NewLogger(t))

	pool := assembler.Assemble(context.Background(), me)

	assert.Equal(t, []string{"a", "admirer"}, poolIDs(pool))
}

func TestAssembleFailsOpen(t *testing.T) {
	boom := errors.New("connection refused")
	me := &profile.UserProfile{ID: "me"}

	tests := []struct {
		name   string
		source failingSource
	}{
		{name: "profiles unavailable", source: failingSource{profilesErr: boom}},
		{name: "swipes unavailable", source: failingSource{swipesErr: boom}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assembler := NewPoolAssembler(tt.source, PoolOptions{}, zaptest.NewLogger(t))

			pool := assembler.Assemble(context.Background(), me)

			assert.NotNil(t, pool)
			assert.Empty(t, pool)
		})
	}
}

func TestAssembleCollapsesDuplicateProfiles(t *testing.T) {
	source := &listSource{profiles: []*profile.UserProfile{{ID: "a"}, nil, {ID: "b"}, {ID: "a"}}}
	assembler := NewPoolAssembler(source, PoolOptions{}, zaptest.NewLogger(t))

	pool := assembler.Assemble(context.Background(), &profile.UserProfile{ID: "me"})

	assert.Equal(t, []string{"a", "b"}, poolIDs(pool))
}

type listSource struct {
	profiles []*profile.UserProfile
}

func (s *listSource) ListProfiles(context.Context) ([]*profile.UserProfile, error) {
	return s.profiles, nil
}

func (s *listSource) SwipesFrom(context.Context, string) ([]SwipeRecord, error) {
	return nil, nil
}

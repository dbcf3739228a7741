package matching

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imadgeboyega/roommate-backend/internal/messaging"
	"github.com/imadgeboyega/roommate-backend/internal/profile"
)

const fixtureJSON = `{
	"profiles": [
		{"id": "alice", "housing_status": "looking_for_roommate", "college_name": "MIT", "interests": ["coding"]},
		{"id": "bob", "housing_status": "looking_for_lease", "location": {"latitude": 42.36, "longitude": -71.09}}
	],
	"filters": [
		{"user_id": "alice", "mode": "by_distance", "max_distance_km": 10}
	],
	"swipes": [
		{"from": "bob", "to": "alice", "super_liked": true}
	]
}`

func TestLoadFixtures(t *testing.T) {
	store, err := LoadFixtures(strings.NewReader(fixtureJSON))
	require.NoError(t, err)
	ctx := context.Background()

	profiles, err := store.ListProfiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, poolIDs(profiles))

	bob, err := store.GetProfile(ctx, "bob")
	require.NoError(t, err)
	require.NotNil(t, bob.Location)
	assert.Equal(t, 42.36, bob.Location.Latitude)

	filters, err := store.GetFilterSettings(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, profile.ByDistance, filters.Mode)

	likes, err := store.LikesBetween(ctx, "bob", "alice")
	require.NoError(t, err)
	require.Len(t, likes, 1)
	assert.True(t, likes[0].Liked)
	assert.NotEmpty(t, likes[0].ID)
}

func TestLoadFixturesRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "not json", input: "profiles:"},
		{name: "profile without id", input: `{"profiles": [{"first_name": "x"}]}`},
		{name: "filter without user", input: `{"filters": [{"mode": "by_college"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFixtures(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestMemoryStoreConversations(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, found, err := store.FindConversation(ctx, "a", "b")
	require.NoError(t, err)
	assert.False(t, found)

	id, created, err := store.CreateConversation(ctx, []string{"b", "a"})
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := store.CreateConversation(ctx, []string{"a", "b"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, id, again)

	found1, ok, err := store.FindConversation(ctx, "a", "b")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, id, found1)

	_, _, err = store.CreateConversation(ctx, []string{"a", "a"})
	assert.ErrorIs(t, err, messaging.ErrInvalidParticipants)
	_, _, err = store.CreateConversation(ctx, []string{"a"})
	assert.ErrorIs(t, err, messaging.ErrInvalidParticipants)
}

func TestMemoryStoreFiltersAreCopied(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	f := &profile.FilterSettings{UserID: "a", CollegeName: "MIT"}
	require.NoError(t, store.SaveFilterSettings(ctx, f))
	f.CollegeName = "changed"

	got, err := store.GetFilterSettings(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "MIT", got.CollegeName)

	got.CollegeName = "changed again"
	got, err = store.GetFilterSettings(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "MIT", got.CollegeName)

	_, err = store.GetFilterSettings(ctx, "b")
	assert.ErrorIs(t, err, profile.ErrFiltersNotFound)
}

func TestMemoryStoreSwipes(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.PutSwipe(ctx, &SwipeRecord{ID: "1", From: "a", To: "b", Liked: false}))
	require.NoError(t, store.PutSwipe(ctx, &SwipeRecord{ID: "2", From: "a", To: "b", Liked: true}))
	require.NoError(t, store.PutSwipe(ctx, &SwipeRecord{ID: "3", From: "a", To: "c", Liked: true}))
	require.NoError(t, store.PutSwipe(ctx, &SwipeRecord{ID: "4", From: "b", To: "a", Liked: true}))

	from, err := store.SwipesFrom(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, from, 3)

	likes, err := store.LikesBetween(ctx, "a", "b")
	require.NoError(t, err)
	require.Len(t, likes, 1)
	assert.Equal(t, "2", likes[0].ID)

	_, err = store.GetProfile(ctx, "a")
	assert.ErrorIs(t, err, profile.ErrProfileNotFound)
}

func TestMemoryStoreSnapshotReloads(t *testing.T) {
	store, err := LoadFixtures(strings.NewReader(fixtureJSON))
	require.NoError(t, err)
	require.NoError(t, store.PutSwipe(context.Background(), &SwipeRecord{ID: "x", From: "alice", To: "bob", Liked: true}))

	data, err := json.Marshal(store.Snapshot())
	require.NoError(t, err)

	reloaded, err := LoadFixtures(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, store.Swipes(), reloaded.Swipes())

	filters, err := reloaded.GetFilterSettings(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, profile.ByDistance, filters.Mode)
}

func TestMemoryStoreSnapshotKeepsConversations(t *testing.T) {
	ctx := context.Background()
	store, err := LoadFixtures(strings.NewReader(fixtureJSON))
	require.NoError(t, err)

	id, created, err := store.CreateConversation(ctx, []string{"bob", "alice"})
	require.NoError(t, err)
	require.True(t, created)

	data, err := json.Marshal(store.Snapshot())
	require.NoError(t, err)

	reloaded, err := LoadFixtures(bytes.NewReader(data))
	require.NoError(t, err)

	found, ok, err := reloaded.FindConversation(ctx, "alice", "bob")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, id, found)

	again, created, err := reloaded.CreateConversation(ctx, []string{"alice", "bob"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, id, again)
	assert.Len(t, reloaded.Conversations(), 1)
}

func TestLoadFixturesRejectsBadConversations(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "self pair", doc: `{"conversations":[{"id":"c1","user_low":"a","user_high":"a"}]}`},
		{name: "missing id", doc: `{"conversations":[{"user_low":"a","user_high":"b"}]}`},
		{name: "same pair twice", doc: `{"conversations":[{"id":"c1","user_low":"a","user_high":"b"},{"id":"c2","user_low":"b","user_high":"a"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFixtures(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

package profile

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/imadgeboyega/roommate-backend/internal/auth"
)

type fakeRepository struct {
	mu       sync.Mutex
	profiles map[string]*UserProfile
	filters  map[string]*FilterSettings
}

func newFakeRepository(ids ...string) *fakeRepository {
	r := &fakeRepository{profiles: make(map[string]*UserProfile), filters: make(map[string]*FilterSettings)}
	for _, id := range ids {
		r.profiles[id] = &UserProfile{ID: id, FirstName: id}
	}
	return r
}

func (r *fakeRepository) GetProfile(_ context.Context, id string) (*UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, ErrProfileNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakeRepository) ListProfiles(context.Context) ([]*UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*UserProfile
	for _, p := range r.profiles {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeRepository) UpsertProfile(_ context.Context, p *UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.profiles[p.ID]; ok {
		p.BlockedUserIDs = existing.BlockedUserIDs
	}
	r.profiles[p.ID] = p
	return nil
}

func (r *fakeRepository) BlockUser(_ context.Context, userID, blockedID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok || p.HasBlocked(blockedID) {
		return nil
	}
	p.BlockedUserIDs = append(p.BlockedUserIDs, blockedID)
	return nil
}

func (r *fakeRepository) UnblockUser(_ context.Context, userID, blockedID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil
	}
	kept := p.BlockedUserIDs[:0]
	for _, id := range p.BlockedUserIDs {
		if id != blockedID {
			kept = append(kept, id)
		}
	}
	p.BlockedUserIDs = kept
	return nil
}

func (r *fakeRepository) GetFilterSettings(_ context.Context, userID string) (*FilterSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.filters[userID]
	if !ok {
		return nil, ErrFiltersNotFound
	}
	return f, nil
}

func (r *fakeRepository) SaveFilterSettings(_ context.Context, f *FilterSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filters[f.UserID] = f
	return nil
}

func TestServiceBlocking(t *testing.T) {
	repo := newFakeRepository("alice", "bob")
	svc := NewService(repo, zaptest.NewLogger(t))
	ctx := context.Background()

	assert.ErrorIs(t, svc.BlockUser(ctx, "alice", "alice"), ErrCannotBlockSelf)
	assert.ErrorIs(t, svc.BlockUser(ctx, "alice", "ghost"), ErrProfileNotFound)

	require.NoError(t, svc.BlockUser(ctx, "alice", "bob"))
	require.NoError(t, svc.BlockUser(ctx, "alice", "bob"))
	blocked, err := svc.GetBlockedUsers(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, blocked)

	require.NoError(t, svc.UnblockUser(ctx, "alice", "bob"))
	blocked, err = svc.GetBlockedUsers(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, blocked)
}

func TestServiceSaveProfileKeepsBlockList(t *testing.T) {
	repo := newFakeRepository("alice", "bob")
	svc := NewService(repo, zaptest.NewLogger(t))
	ctx := context.Background()
	require.NoError(t, svc.BlockUser(ctx, "alice", "bob"))

	saved, err := svc.SaveProfile(ctx, "alice", &UpsertProfileRequest{
		FirstName:     " Alice ",
		HousingStatus: string(LookingForLease),
		Interests:     []string{"chess"},
	})

	require.NoError(t, err)
	assert.Equal(t, "Alice", saved.FirstName)
	assert.Equal(t, LookingForLease, saved.HousingStatus)
	assert.Equal(t, []string{"bob"}, saved.BlockedUserIDs)
}

func TestServiceSaveProfileRejectsBadLocation(t *testing.T) {
	svc := NewService(newFakeRepository(), zaptest.NewLogger(t))

	_, err := svc.SaveProfile(context.Background(), "alice", &UpsertProfileRequest{
		FirstName: "Alice",
		Location:  &Location{Latitude: 91, Longitude: 0},
	})

	assert.ErrorIs(t, err, ErrInvalidLocation)
}

func withUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get("X-Test-User"); id != "" {
			r = r.WithContext(auth.WithIdentity(r.Context(), id, id))
		}
		next.ServeHTTP(w, r)
	})
}

func TestProfileHandlers(t *testing.T) {
	repo := newFakeRepository("alice", "bob")
	router := mux.NewRouter()
	RegisterRoutes(router, NewHandler(NewService(repo, zaptest.NewLogger(t)), zaptest.NewLogger(t)), withUser)

	do := func(method, path, user, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		if user != "" {
			req.Header.Set("X-Test-User", user)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusUnauthorized, do(http.MethodGet, "/api/v1/profile", "", "").Code)
	assert.Equal(t, http.StatusOK, do(http.MethodGet, "/api/v1/profile", "alice", "").Code)
	assert.Equal(t, http.StatusNotFound, do(http.MethodGet, "/api/v1/users/ghost/profile", "alice", "").Code)

	rec := do(http.MethodPut, "/api/v1/profile", "alice", `{"first_name": "Alice", "cleanliness": 4, "housing_status": "looking_for_lease"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, http.StatusBadRequest, do(http.MethodPut, "/api/v1/profile", "alice", `{"first_name": "Alice", "cleanliness": 7}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(http.MethodPut, "/api/v1/profile", "alice", `{"cleanliness": 3}`).Code)

	assert.Equal(t, http.StatusOK, do(http.MethodPost, "/api/v1/users/bob/block", "alice", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(http.MethodPost, "/api/v1/users/alice/block", "alice", "").Code)

	rec = do(http.MethodGet, "/api/v1/profile/blocked", "alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var env struct {
		Data struct {
			BlockedUserIDs []string `json:"blocked_user_ids"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, []string{"bob"}, env.Data.BlockedUserIDs)

	// Other users never see a block list
	rec = do(http.MethodGet, "/api/v1/users/alice/profile", "bob", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "blocked_user_ids")

	assert.Equal(t, http.StatusOK, do(http.MethodDelete, "/api/v1/users/bob/block", "alice", "").Code)
}

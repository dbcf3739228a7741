// internal/matching/session.go

package matching

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// SeenMatchCache remembers, for one session, which pairs already have a conversation
type SeenMatchCache interface {
	Lookup(ctx context.Context, pairKey string) (conversationID string, ok bool)
	Remember(ctx context.Context, pairKey, conversationID string)
}

type memorySeenCache struct {
	mu   sync.Mutex
	seen map[string]string
}

// NewMemorySeenCache creates a process-local SeenMatchCache
func NewMemorySeenCache() SeenMatchCache {
	return &memorySeenCache{seen: make(map[string]string)}
}

func (c *memorySeenCache) Lookup(_ context.Context, pairKey string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id, ok := c.seen[pairKey]
	return id, ok
}

func (c *memorySeenCache) Remember(_ context.Context, pairKey, conversationID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seen[pairKey] = conversationID
}

// redisSeenCache stores the session's seen pairs in one hash that expires with the session
type redisSeenCache struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisSeenCache creates a SeenMatchCache shared by every API instance serving the session
func NewRedisSeenCache(client redis.UniversalClient, prefix, sessionID string, ttl time.Duration, log *zap.Logger) SeenMatchCache {
	return &redisSeenCache{
		client: client,
		key:    prefix + ":session:" + sessionID + ":matches",
		ttl:    ttl,
		log:    log,
	}
}

func (c *redisSeenCache) Lookup(ctx context.Context, pairKey string) (string, bool) {
	id, err := c.client.HGet(ctx, c.key, pairKey).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("seen-match cache lookup failed", zap.String("key", c.key), zap.Error(err))
		}
		return "", false
	}
	return id, true
}

func (c *redisSeenCache) Remember(ctx context.Context, pairKey, conversationID string) {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, c.key, pairKey, conversationID)
		pipe.Expire(ctx, c.key, c.ttl)
		return nil
	})
	if err != nil {
		c.log.Warn("seen-match cache update failed", zap.String("key", c.key), zap.Error(err))
	}
}

// Session is the acting user's context for one login session. It owns the
// seen-match cache and tracks the latest feed request.
type Session struct {
	UserID string
	ID     string

	seen SeenMatchCache

	mu         sync.Mutex
	feedGen    uint64
	cancelFeed context.CancelFunc
}

// NewSession creates a Session; a nil cache gets an in-memory one
func NewSession(userID, sessionID string, seen SeenMatchCache) *Session {
	if seen == nil {
		seen = NewMemorySeenCache()
	}
	return &Session{UserID: userID, ID: sessionID, seen: seen}
}

// beginFeed cancels any in-flight feed and returns a context and generation for a new one
func (s *Session) beginFeed(ctx context.Context) (context.Context, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelFeed != nil {
		s.cancelFeed()
	}
	feedCtx, cancel := context.WithCancel(ctx)
	s.feedGen++
	s.cancelFeed = cancel
	return feedCtx, s.feedGen
}

// endFeed releases the context of feed gen
func (s *Session) endFeed(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.feedGen == gen && s.cancelFeed != nil {
		s.cancelFeed()
		s.cancelFeed = nil
	}
}

// isCurrentFeed reports whether gen is still the newest feed request
func (s *Session) isCurrentFeed(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.feedGen == gen
}

type sessionEntry struct {
	session   *Session
	expiresAt time.Time
}

// SessionRegistry keeps Sessions alive across requests until they expire
type SessionRegistry struct {
	mu        sync.Mutex
	sessions  map[string]*sessionEntry
	newCache  func(sessionID string) SeenMatchCache
	ttl       time.Duration
	now       func() time.Time
	lastPrune time.Time
}

// NewSessionRegistry creates a registry. newCache builds the seen-match cache
// for a new session; nil means in-memory.
func NewSessionRegistry(ttl time.Duration, newCache func(sessionID string) SeenMatchCache) *SessionRegistry {
	if newCache == nil {
		newCache = func(string) SeenMatchCache { return NewMemorySeenCache() }
	}
	return &SessionRegistry{
		sessions: make(map[string]*sessionEntry),
		newCache: newCache,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the live session for sessionID, creating it if needed. A
// non-zero expiresAt overrides the registry TTL.
func (r *SessionRegistry) Get(userID, sessionID string, expiresAt time.Time) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if now.Sub(r.lastPrune) > time.Minute {
		r.pruneLocked(now)
	}

	if expiresAt.IsZero() {
		expiresAt = now.Add(r.ttl)
	}

	if entry, ok := r.sessions[sessionID]; ok && entry.session.UserID == userID && now.Before(entry.expiresAt) {
		if expiresAt.After(entry.expiresAt) {
			entry.expiresAt = expiresAt
		}
		return entry.session
	}

	s := NewSession(userID, sessionID, r.newCache(sessionID))
	r.sessions[sessionID] = &sessionEntry{session: s, expiresAt: expiresAt}
	return s
}

// Len returns the number of tracked sessions
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *SessionRegistry) pruneLocked(now time.Time) {
	for id, entry := range r.sessions {
		if !now.Before(entry.expiresAt) {
			delete(r.sessions, id)
		}
	}
	r.lastPrune = now
}

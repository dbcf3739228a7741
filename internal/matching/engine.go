// internal/matching/engine.go

package matching

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/imadgeboyega/roommate-backend/internal/profile"
)

// Options wires the engine's collaborators
type Options struct {
	Locker PairLocker
	Pool   PoolOptions
	Logger *zap.Logger
}

// Engine serves ranked feeds, compatibility breakdowns and swipes for one session
type Engine struct {
	store    Store
	session  *Session
	pool     *PoolAssembler
	recorder *SwipeRecorder
	log      *zap.Logger
}

// NewEngine creates an Engine acting as session.UserID
func NewEngine(store Store, session *Session, opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("matching")

	return &Engine{
		store:    store,
		session:  session,
		pool:     NewPoolAssembler(store, opts.Pool, log),
		recorder: NewSwipeRecorder(store, opts.Locker, log),
		log:      log,
	}
}

// Session returns the session the engine acts for
func (e *Engine) Session() *Session {
	return e.session
}

// GetRankedFeed returns candidate profiles, best first
func (e *Engine) GetRankedFeed(ctx context.Context, filter *profile.FilterSettings) ([]*profile.UserProfile, error) {
	ranked, err := e.GetRankedFeedDetailed(ctx, filter)
	if err != nil {
		return nil, err
	}
	return Profiles(ranked), nil
}

// GetRankedFeedDetailed ranks the session user's candidate pool. A newer
// call on the same session cancels this one, which then returns
// ErrFeedSuperseded instead of a stale result. Store failures degrade to an
// empty feed.
func (e *Engine) GetRankedFeedDetailed(ctx context.Context, filter *profile.FilterSettings) ([]RankedCandidate, error) {
	start := time.Now()
	feedCtx, gen := e.session.beginFeed(ctx)
	defer e.session.endFeed(gen)

	me, err := e.store.GetProfile(feedCtx, e.session.UserID)
	if err != nil {
		if !e.session.isCurrentFeed(gen) {
			feedSuperseded.Inc()
			return nil, ErrFeedSuperseded
		}
		if !errors.Is(err, profile.ErrProfileNotFound) {
			storeFailures.WithLabelValues("get_profile").Inc()
		}
		e.log.Warn("viewer profile unavailable, serving empty feed",
			zap.String("user_id", e.session.UserID),
			zap.Error(err),
		)
		return []RankedCandidate{}, nil
	}

	pool := e.pool.Assemble(feedCtx, me)
	ranked := Rank(pool, me, filter)

	if !e.session.isCurrentFeed(gen) {
		feedSuperseded.Inc()
		e.log.Debug("discarding superseded feed", zap.String("session_id", e.session.ID), zap.Uint64("generation", gen))
		return nil, ErrFeedSuperseded
	}

	RecordFeed(ranked, time.Since(start).Seconds())
	return ranked, nil
}

// GetCompatibilityBreakdown scores candidateID against the session user.
// A missing profile is reported as profile.ErrProfileNotFound; other store
// failures yield an empty breakdown.
func (e *Engine) GetCompatibilityBreakdown(ctx context.Context, candidateID string) (CompatibilityBreakdown, error) {
	var me, candidate *profile.UserProfile

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := e.store.GetProfile(gctx, e.session.UserID)
		me = p
		return err
	})
	g.Go(func() error {
		p, err := e.store.GetProfile(gctx, candidateID)
		candidate = p
		return err
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return CompatibilityBreakdown{}, fmt.Errorf("compatibility with %s: %w", candidateID, err)
		}
		storeFailures.WithLabelValues("get_profile").Inc()
		e.log.Warn("compatibility breakdown unavailable",
			zap.String("candidate_id", candidateID),
			zap.Error(err),
		)
		return CompatibilityBreakdown{Categories: map[string]float64{}}, nil
	}

	return Compatibility(me, candidate), nil
}

// RecordSwipe records the session user's decision and reports whether it completed a mutual match
func (e *Engine) RecordSwipe(ctx context.Context, candidateID string, liked, superLiked bool) (bool, error) {
	out, err := e.RecordSwipeDetailed(ctx, candidateID, liked, superLiked)
	if err != nil {
		return false, err
	}
	return out.Matched, nil
}

// RecordSwipeDetailed is RecordSwipe with the conversation details
func (e *Engine) RecordSwipeDetailed(ctx context.Context, candidateID string, liked, superLiked bool) (*SwipeOutcome, error) {
	return e.recorder.Record(ctx, e.session, candidateID, liked, superLiked)
}

// SavedFilters returns the session user's saved filters, or an empty set of
// filters when none are saved or the store is unavailable
func (e *Engine) SavedFilters(ctx context.Context) *profile.FilterSettings {
	f, err := e.store.GetFilterSettings(ctx, e.session.UserID)
	if err != nil {
		if !errors.Is(err, profile.ErrFiltersNotFound) {
			storeFailures.WithLabelValues("get_filters").Inc()
			e.log.Warn("saved filters unavailable, using defaults", zap.Error(err))
		}
		return &profile.FilterSettings{UserID: e.session.UserID, Mode: profile.ByCollege}
	}
	return f
}

// internal/matching/pool.go

package matching

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/imadgeboyega/roommate-backend/internal/profile"
)

// PoolSource is the slice of the Store the pool assembler reads
type PoolSource interface {
	ListProfiles(ctx context.Context) ([]*profile.UserProfile, error)
	SwipesFrom(ctx context.Context, from string) ([]SwipeRecord, error)
}

// PoolOptions tune candidate exclusion
type PoolOptions struct {
	// HideBlockedBy also removes candidates who have blocked the viewer.
	// Off by default: block lists are owned by the blocker and only filter the blocker's own feed.
	HideBlockedBy bool
}

// PoolAssembler builds the set of candidates a user has not yet decided on
type PoolAssembler struct {
	source PoolSource
	opts   PoolOptions
	log    *zap.Logger
}

// NewPoolAssembler creates a PoolAssembler
func NewPoolAssembler(source PoolSource, opts PoolOptions, log *zap.Logger) *PoolAssembler {
	return &PoolAssembler{source: source, opts: opts, log: log.Named("pool")}
}

// Assemble returns the candidates for me in store order. Fetch failures yield
// an empty pool rather than an error.
func (a *PoolAssembler) Assemble(ctx context.Context, me *profile.UserProfile) []*profile.UserProfile {
	var (
		profiles []*profile.UserProfile
		swipes   []SwipeRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := a.source.ListProfiles(gctx)
		if err != nil {
			storeFailures.WithLabelValues("list_profiles").Inc()
			return fmt.Errorf("list profiles: %w", err)
		}
		profiles = p
		return nil
	})
	g.Go(func() error {
		s, err := a.source.SwipesFrom(gctx, me.ID)
		if err != nil {
			storeFailures.WithLabelValues("swipes_from").Inc()
			return fmt.Errorf("swipes from %s: %w", me.ID, err)
		}
		swipes = s
		return nil
	})
	if err := g.Wait(); err != nil {
		a.log.Warn("candidate pool unavailable, serving empty pool",
			zap.String("user_id", me.ID),
			zap.Error(err),
		)
		return []*profile.UserProfile{}
	}

	excluded := make(map[string]struct{}, len(swipes)+len(me.BlockedUserIDs)+1)
	excluded[me.ID] = struct{}{}
	for _, rec := range swipes {
		excluded[rec.To] = struct{}{}
	}
	for _, id := range me.BlockedUserIDs {
		excluded[id] = struct{}{}
	}

	pool := make([]*profile.UserProfile, 0, len(profiles))
	blockedBy := 0
	for _, p := range profiles {
		if p == nil {
			continue
		}
		if _, skip := excluded[p.ID]; skip {
			continue
		}
		if p.HasBlocked(me.ID) {
			blockedBy++
			if a.opts.HideBlockedBy {
				continue
			}
		}
		// Duplicate rows collapse to the first occurrence
		excluded[p.ID] = struct{}{}
		pool = append(pool, p)
	}

	a.log.Debug("candidate pool assembled",
		zap.String("user_id", me.ID),
		zap.Int("profiles", len(profiles)),
		zap.Int("swiped", len(swipes)),
		zap.Int("blocked_by", blockedBy),
		zap.Bool("hide_blocked_by", a.opts.HideBlockedBy),
		zap.Int("pool", len(pool)),
	)
	return pool
}

// internal/matching/swipe.go
// Swipe recording and mutual-match detection

package matching

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/imadgeboyega/roommate-backend/internal/common/logger"
	"github.com/imadgeboyega/roommate-backend/internal/messaging"
)

// SwipeRecorder persists swipes and opens a conversation when a like is reciprocated
type SwipeRecorder struct {
	store  Store
	locker PairLocker
	log    *zap.Logger
	now    func() time.Time
}

// NewSwipeRecorder creates a SwipeRecorder; a nil locker gets a process-local one
func NewSwipeRecorder(store Store, locker PairLocker, log *zap.Logger) *SwipeRecorder {
	if locker == nil {
		locker = NewLocalPairLocker()
	}
	return &SwipeRecorder{
		store:  store,
		locker: locker,
		log:    log.Named("swipes"),
		now:    time.Now,
	}
}

// Record appends the session user's decision about to. The match check only
// runs once the write has succeeded; a failed write is returned as
// ErrSwipeWriteFailed and nothing else happens.
func (r *SwipeRecorder) Record(ctx context.Context, session *Session, to string, liked, superLiked bool) (*SwipeOutcome, error) {
	from := session.UserID
	if from == "" || to == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidSwipe)
	}
	if from == to {
		return nil, fmt.Errorf("%w: cannot swipe on yourself", ErrInvalidSwipe)
	}

	// A super like is a like with a flag
	if superLiked {
		liked = true
	}

	rec := SwipeRecord{
		ID:         uuid.NewString(),
		From:       from,
		To:         to,
		Liked:      liked,
		SuperLiked: superLiked,
		CreatedAt:  r.now().UTC(),
	}
	if err := r.store.PutSwipe(ctx, &rec); err != nil {
		storeFailures.WithLabelValues("put_swipe").Inc()
		return nil, fmt.Errorf("%w: %w", ErrSwipeWriteFailed, err)
	}
	swipesTotal.WithLabelValues(swipeDecision(rec)).Inc()

	out := &SwipeOutcome{Swipe: rec}
	if !liked {
		return out, nil
	}

	reverse, err := r.store.LikesBetween(ctx, to, from)
	if err != nil {
		// The other side's next like re-runs the check
		storeFailures.WithLabelValues("likes_between").Inc()
		r.log.Warn("match check failed, treating as no match",
			zap.String("from", logger.MaskID(from)),
			zap.String("to", logger.MaskID(to)),
			zap.Error(err),
		)
		return out, nil
	}
	if len(reverse) == 0 {
		return out, nil
	}

	out.Matched = true
	matchesTotal.Inc()

	pair := messaging.PairKey(from, to)
	if convID, ok := session.seen.Lookup(ctx, pair); ok {
		duplicateConversationsAvoided.WithLabelValues("session_cache").Inc()
		out.ConversationID = convID
		return out, nil
	}

	convID, created, err := r.openConversation(ctx, pair, from, to)
	if err != nil {
		storeFailures.WithLabelValues("open_conversation").Inc()
		r.log.Error("mutual match without conversation",
			zap.String("pair", pair),
			zap.Error(err),
		)
		return out, nil
	}

	out.ConversationID = convID
	out.Created = created
	session.seen.Remember(ctx, pair, convID)

	r.log.Info("mutual match",
		zap.String("from", logger.MaskID(from)),
		zap.String("to", logger.MaskID(to)),
		zap.Bool("conversation_created", created),
		zap.Bool("super_like", superLiked),
	)
	return out, nil
}

// openConversation finds or creates the pair's conversation under the pair lock
func (r *SwipeRecorder) openConversation(ctx context.Context, pair, a, b string) (string, bool, error) {
	unlock, err := r.locker.Lock(ctx, pair)
	if err != nil {
		// The store's per-pair uniqueness still holds without the lock
		r.log.Warn("pair lock unavailable", zap.String("pair", pair), zap.Error(err))
	} else {
		defer unlock()
	}

	id, found, err := r.store.FindConversation(ctx, a, b)
	if err != nil {
		return "", false, fmt.Errorf("find conversation: %w", err)
	}
	if found {
		duplicateConversationsAvoided.WithLabelValues("existing").Inc()
		return id, false, nil
	}

	low, high := messaging.CanonicalPair(a, b)
	id, created, err := r.store.CreateConversation(ctx, []string{low, high})
	if err != nil {
		return "", false, fmt.Errorf("create conversation: %w", err)
	}
	if created {
		conversationsCreated.Inc()
	} else {
		duplicateConversationsAvoided.WithLabelValues("store_conflict").Inc()
	}
	return id, created, nil
}

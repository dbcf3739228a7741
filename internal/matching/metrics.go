package matching

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	swipesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roommate_swipes_total",
			Help: "Total number of recorded swipes",
		},
		[]string{"decision"},
	)

	matchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "roommate_matches_total",
			Help: "Total number of likes that found a reciprocal like",
		},
	)

	conversationsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "roommate_conversations_created_total",
			Help: "Total number of conversations opened by mutual matches",
		},
	)

	duplicateConversationsAvoided = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roommate_duplicate_conversations_avoided_total",
			Help: "Mutual matches that did not create a conversation because one already existed",
		},
		[]string{"reason"},
	)

	filterScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "roommate_filter_scores",
			Help:    "Distribution of filter scores in served feeds",
			Buckets: prometheus.LinearBuckets(0, 2, NumCriteria/2+1),
		},
	)

	compatibilityScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "roommate_compatibility_scores",
			Help:    "Distribution of smart-match scores in served feeds",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	feedDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "roommate_feed_duration_seconds",
			Help:    "Time taken to assemble and rank a feed",
			Buckets: prometheus.DefBuckets,
		},
	)

	feedSuperseded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "roommate_feed_superseded_total",
			Help: "Feed computations discarded because a newer request arrived",
		},
	)

	storeFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roommate_store_failures_total",
			Help: "Profile store operations that failed and were recovered",
		},
		[]string{"op"},
	)
)

// RecordFeed observes the scores of a served feed
func RecordFeed(ranked []RankedCandidate, seconds float64) {
	feedDuration.Observe(seconds)
	for _, rc := range ranked {
		filterScores.Observe(float64(rc.FilterScore))
		compatibilityScores.Observe(rc.SmartScore)
	}
}

func swipeDecision(rec SwipeRecord) string {
	switch {
	case rec.SuperLiked:
		return "super_like"
	case rec.Liked:
		return "like"
	default:
		return "pass"
	}
}

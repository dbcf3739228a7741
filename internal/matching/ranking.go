// internal/matching/ranking.go

package matching

import (
	"sort"

	"github.com/imadgeboyega/roommate-backend/internal/profile"
)

// Rank scores every candidate and orders them by filter score, then smart
// score, keeping pool order for ties. Candidates passing no criteria are
// appended unranked in pool order. Rank has no side effects.
func Rank(pool []*profile.UserProfile, me *profile.UserProfile, filter *profile.FilterSettings) []RankedCandidate {
	ranked := make([]RankedCandidate, 0, len(pool))
	var unranked []RankedCandidate

	for _, cand := range pool {
		score, breakdown := ScoreFilter(filter, me, cand)
		rc := RankedCandidate{
			Profile:     cand,
			FilterScore: score,
			SmartScore:  SmartScore(me, cand),
			Breakdown:   breakdown,
		}
		if score == 0 {
			unranked = append(unranked, rc)
			continue
		}
		ranked = append(ranked, rc)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].FilterScore != ranked[j].FilterScore {
			return ranked[i].FilterScore > ranked[j].FilterScore
		}
		return ranked[i].SmartScore > ranked[j].SmartScore
	})

	for i := range ranked {
		ranked[i].Position = i + 1
	}
	return append(ranked, unranked...)
}

// Profiles strips the scores off a ranked feed
func Profiles(ranked []RankedCandidate) []*profile.UserProfile {
	out := make([]*profile.UserProfile, len(ranked))
	for i, rc := range ranked {
		out[i] = rc.Profile
	}
	return out
}

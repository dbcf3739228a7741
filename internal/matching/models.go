// internal/matching/models.go

package matching

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/imadgeboyega/roommate-backend/internal/profile"
)

var (
	ErrInvalidSwipe     = errors.New("invalid swipe")
	ErrSwipeWriteFailed = errors.New("failed to record swipe")
	ErrFeedSuperseded   = errors.New("feed request superseded by a newer one")
	ErrLockTimeout      = errors.New("timed out waiting for pair lock")
)

// SwipeRecord is an append-only, one-directional decision
type SwipeRecord struct {
	ID         string    `json:"id" db:"id"`
	From       string    `json:"from" db:"from_user_id"`
	To         string    `json:"to" db:"to_user_id"`
	Liked      bool      `json:"liked" db:"liked"`
	SuperLiked bool      `json:"super_liked" db:"super_liked"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Criterion identifies one filter check
type Criterion int

const (
	CriterionHousingPairing Criterion = iota
	CriterionCollege
	CriterionDistance
	CriterionGrade
	CriterionRoomType
	CriterionAmenities
	CriterionCleanliness
	CriterionSleep
	CriterionGender
	CriterionAgeDiff
	CriterionPetFriendly
	CriterionSmoker
	CriterionDrinker
	CriterionMarijuana
	CriterionWorkout
	CriterionInterests

	// NumCriteria is the number of defined criteria and the maximum filter score
	NumCriteria = int(iota)
)

var criterionNames = [NumCriteria]string{
	CriterionHousingPairing: "housing_pairing",
	CriterionCollege:        "college",
	CriterionDistance:       "distance",
	CriterionGrade:          "grade",
	CriterionRoomType:       "room_type",
	CriterionAmenities:      "amenities",
	CriterionCleanliness:    "cleanliness",
	CriterionSleep:          "sleep",
	CriterionGender:         "gender",
	CriterionAgeDiff:        "age_difference",
	CriterionPetFriendly:    "pet_friendly",
	CriterionSmoker:         "smoker",
	CriterionDrinker:        "drinker",
	CriterionMarijuana:      "marijuana",
	CriterionWorkout:        "workout",
	CriterionInterests:      "interests",
}

func (c Criterion) String() string {
	if c < 0 || int(c) >= NumCriteria {
		return "unknown"
	}
	return criterionNames[c]
}

// AllCriteria lists every criterion in evaluation order
func AllCriteria() []Criterion {
	out := make([]Criterion, NumCriteria)
	for i := range out {
		out[i] = Criterion(i)
	}
	return out
}

// Breakdown holds the pass/fail result of each criterion
type Breakdown [NumCriteria]bool

// Passed reports the result for c
func (b Breakdown) Passed(c Criterion) bool {
	return b[c]
}

// Score counts the passing criteria
func (b Breakdown) Score() int {
	n := 0
	for _, ok := range b {
		if ok {
			n++
		}
	}
	return n
}

// MarshalJSON renders the breakdown as {"criterion": bool}
func (b Breakdown) MarshalJSON() ([]byte, error) {
	m := make(map[string]bool, NumCriteria)
	for i, ok := range b {
		m[Criterion(i).String()] = ok
	}
	return json.Marshal(m)
}

// UnmarshalJSON reads the {"criterion": bool} form; unknown names are ignored
func (b *Breakdown) UnmarshalJSON(data []byte) error {
	var m map[string]bool
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*b = Breakdown{}
	for i := range b {
		b[i] = m[Criterion(i).String()]
	}
	return nil
}

// CompatibilityBreakdown is the smart-match result for one pair
type CompatibilityBreakdown struct {
	Overall    float64            `json:"overall"`
	Categories map[string]float64 `json:"categories"`
}

// RankedCandidate is one entry of a ranked feed
type RankedCandidate struct {
	Profile     *profile.UserProfile `json:"profile"`
	FilterScore int                  `json:"filter_score"`
	SmartScore  float64              `json:"smart_score"`
	Breakdown   Breakdown            `json:"breakdown"`
	// Position is 1-based; zero means the candidate matched no criteria and is unranked
	Position int `json:"position"`
}

// SwipeOutcome describes what a swipe led to
type SwipeOutcome struct {
	Swipe          SwipeRecord `json:"swipe"`
	Matched        bool        `json:"matched"`
	ConversationID string      `json:"conversation_id,omitempty"`
	// Created is true only for the call that materialised the conversation
	Created bool `json:"created"`
}

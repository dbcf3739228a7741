// internal/matching/compatibility.go
// Smart-match compatibility: weighted lifestyle categories, each scored 0-10.
// A category with missing data on either side scores neutralScore.

package matching

import (
	"math"

	"github.com/imadgeboyega/roommate-backend/internal/profile"
)

const (
	CategoryHousing     = "housing"
	CategoryBudget      = "budget"
	CategoryCleanliness = "cleanliness"
	CategorySleep       = "sleep"
	CategoryInterests   = "interests"
	CategoryLifestyle   = "lifestyle"
	CategoryAge         = "age"

	// TotalWeight is the sum of all category weights; Overall is out of this
	TotalWeight = 100.0

	maxCategoryScore = 10.0
	neutralScore     = 5.0
)

type category struct {
	name   string
	weight float64
	score  func(a, b *profile.UserProfile) float64
}

var categories = []category{
	{name: CategoryHousing, weight: 20, score: housingScore},
	{name: CategoryBudget, weight: 10, score: budgetScore},
	{name: CategoryCleanliness, weight: 15, score: cleanlinessScore},
	{name: CategorySleep, weight: 10, score: sleepScore},
	{name: CategoryInterests, weight: 15, score: interestsScore},
	{name: CategoryLifestyle, weight: 20, score: lifestyleScore},
	{name: CategoryAge, weight: 10, score: ageScore},
}

// CategoryWeights returns the weight of each category
func CategoryWeights() map[string]float64 {
	out := make(map[string]float64, len(categories))
	for _, c := range categories {
		out[c.name] = c.weight
	}
	return out
}

// Compatibility scores b from a's point of view
func Compatibility(a, b *profile.UserProfile) CompatibilityBreakdown {
	result := CompatibilityBreakdown{Categories: make(map[string]float64, len(categories))}
	for _, c := range categories {
		s := clamp(c.score(a, b), 0, maxCategoryScore)
		result.Categories[c.name] = s
		result.Overall += c.weight * s / maxCategoryScore
	}
	result.Overall = clamp(result.Overall, 0, TotalWeight)
	return result
}

// SmartScore is the overall compatibility on a 0-100 scale
func SmartScore(a, b *profile.UserProfile) float64 {
	return Compatibility(a, b).Overall
}

func housingScore(a, b *profile.UserProfile) float64 {
	x, y := a.HousingStatus, b.HousingStatus
	if !x.Valid() || !y.Valid() {
		return neutralScore
	}
	if x == y {
		if x == profile.LookingToFindTogether {
			return 10
		}
		// Two people with a spare room, or two people without one
		return 2
	}
	switch {
	case pairIs(x, y, profile.LookingForRoommate, profile.LookingForLease):
		return 10
	case pairIs(x, y, profile.LookingToFindTogether, profile.LookingForLease):
		return 7
	default:
		return 4
	}
}

func pairIs(x, y, p, q profile.HousingStatus) bool {
	return (x == p && y == q) || (x == q && y == p)
}

type priceRange struct {
	lo, hi float64
}

// housingRange picks the range a party brings to the table: a roommate
// seeker offers a rent range, everyone else is working from a budget.
func housingRange(p *profile.UserProfile) (priceRange, bool) {
	if p.HousingStatus == profile.LookingForRoommate {
		return makeRange(p.RentMin, p.RentMax)
	}
	return makeRange(p.BudgetMin, p.BudgetMax)
}

func makeRange(lo, hi *float64) (priceRange, bool) {
	switch {
	case lo == nil && hi == nil:
		return priceRange{}, false
	case lo == nil:
		return priceRange{lo: *hi, hi: *hi}, true
	case hi == nil:
		return priceRange{lo: *lo, hi: *lo}, true
	}
	if *lo > *hi {
		return priceRange{lo: *hi, hi: *lo}, true
	}
	return priceRange{lo: *lo, hi: *hi}, true
}

func budgetScore(a, b *profile.UserProfile) float64 {
	ra, okA := housingRange(a)
	rb, okB := housingRange(b)
	if !okA || !okB {
		return neutralScore
	}

	lo := math.Max(ra.lo, rb.lo)
	hi := math.Min(ra.hi, rb.hi)
	if hi < lo {
		return 0
	}
	narrow := math.Min(ra.hi-ra.lo, rb.hi-rb.lo)
	if narrow == 0 {
		return maxCategoryScore
	}
	return maxCategoryScore * (hi - lo) / narrow
}

func cleanlinessScore(a, b *profile.UserProfile) float64 {
	if a.Cleanliness == nil || b.Cleanliness == nil {
		return neutralScore
	}
	diff := math.Abs(float64(*a.Cleanliness - *b.Cleanliness))
	// Linear decay across the 1-5 scale: a gap of 4 scores 0
	return maxCategoryScore - 2.5*diff
}

func sleepScore(a, b *profile.UserProfile) float64 {
	x, y := normalize(a.SleepSchedule), normalize(b.SleepSchedule)
	switch {
	case x == "" || y == "":
		return neutralScore
	case x == y:
		return maxCategoryScore
	case x == "flexible" || y == "flexible":
		return 6
	default:
		return 0
	}
}

func interestsScore(a, b *profile.UserProfile) float64 {
	x, y := interestSet(a.Interests), interestSet(b.Interests)
	if len(x) == 0 || len(y) == 0 {
		return neutralScore
	}
	shared := 0
	for v := range x {
		if _, ok := y[v]; ok {
			shared++
		}
	}
	smaller := len(x)
	if len(y) < smaller {
		smaller = len(y)
	}
	return maxCategoryScore * float64(shared) / float64(smaller)
}

func interestSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if n := normalize(v); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

func lifestyleScore(a, b *profile.UserProfile) float64 {
	traits := []float64{
		boolAgreement(a.Smoker, b.Smoker),
		boolAgreement(a.PetFriendly, b.PetFriendly),
		habitAgreement(a.Drinking, b.Drinking),
		habitAgreement(a.Cannabis, b.Cannabis),
		habitAgreement(a.Workout, b.Workout),
	}
	sum := 0.0
	for _, t := range traits {
		sum += t
	}
	return sum / float64(len(traits))
}

func boolAgreement(x, y *bool) float64 {
	if x == nil || y == nil {
		return neutralScore
	}
	if *x == *y {
		return maxCategoryScore
	}
	return 0
}

// habitAgreement gives partial credit when both sides at least agree on whether they do it
func habitAgreement(x, y string) float64 {
	x, y = normalize(x), normalize(y)
	if x == "" || y == "" {
		return neutralScore
	}
	if x == y {
		return maxCategoryScore
	}
	_, noneX := noneSentinels[x]
	_, noneY := noneSentinels[y]
	if noneX == noneY {
		return 6
	}
	return 0
}

func ageScore(a, b *profile.UserProfile) float64 {
	da, okA := parseBirthDate(a.DateOfBirth)
	db, okB := parseBirthDate(b.DateOfBirth)
	if !okA || !okB {
		return neutralScore
	}
	return maxCategoryScore - 2*float64(wholeYearsBetween(da, db))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// internal/matching/filter.go
// Filter scoring: one point per saved preference the candidate satisfies.
// Missing data on either side passes, except for housing pairing and college.

package matching

import (
	"strings"
	"time"

	"github.com/imadgeboyega/roommate-backend/internal/common/geo"
	"github.com/imadgeboyega/roommate-backend/internal/profile"
)

// noneSentinels are the category values meaning "does not do this at all"
var noneSentinels = map[string]struct{}{
	"not for me": {},
	"never":      {},
}

var birthDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// ScoreFilter evaluates candidate against filter on behalf of me
func ScoreFilter(filter *profile.FilterSettings, me, candidate *profile.UserProfile) (int, Breakdown) {
	if filter == nil {
		filter = &profile.FilterSettings{}
	}

	var b Breakdown
	for _, c := range AllCriteria() {
		b[c] = evaluate(c, filter, me, candidate)
	}
	return b.Score(), b
}

func evaluate(c Criterion, f *profile.FilterSettings, me, cand *profile.UserProfile) bool {
	switch c {
	case CriterionHousingPairing:
		status := f.HousingStatus
		// An unset filter status pairs against the viewer's own profile status
		if status == "" {
			status = me.HousingStatus
		}
		return housingPairs(status, cand.HousingStatus)
	case CriterionCollege:
		return strings.ToLower(f.CollegeName) == strings.ToLower(cand.CollegeName)
	case CriterionDistance:
		return withinDistance(f, me, cand)
	case CriterionGrade:
		return equalFoldOrMissing(f.GradeGroup, cand.GradeLevel)
	case CriterionRoomType:
		return equalOrMissing(f.RoomType, cand.RoomType)
	case CriterionAmenities:
		return isSubset(f.Amenities, cand.Amenities)
	case CriterionCleanliness:
		if f.Cleanliness == nil || cand.Cleanliness == nil {
			return true
		}
		return *f.Cleanliness == *cand.Cleanliness
	case CriterionSleep:
		return equalFoldOrMissing(f.SleepSchedule, cand.SleepSchedule)
	case CriterionGender:
		return equalOrMissing(f.PreferredGender, cand.Gender)
	case CriterionAgeDiff:
		return withinAgeDifference(f.MaxAgeDifference, me.DateOfBirth, cand.DateOfBirth)
	case CriterionPetFriendly:
		return boolPreference(f.PetFriendly, cand.PetFriendly)
	case CriterionSmoker:
		return boolPreference(f.Smoker, cand.Smoker)
	case CriterionDrinker:
		return categoryPreference(f.Drinker, cand.Drinking)
	case CriterionMarijuana:
		return categoryPreference(f.Marijuana, cand.Cannabis)
	case CriterionWorkout:
		return categoryPreference(f.Workout, cand.Workout)
	case CriterionInterests:
		return sharesInterest(f.DesiredInterests(), cand.Interests)
	}
	return false
}

// housingPairs is keyed by the searcher's status and is not symmetric
func housingPairs(mine, theirs profile.HousingStatus) bool {
	switch mine {
	case profile.LookingForRoommate:
		return theirs == profile.LookingForLease
	case profile.LookingForLease:
		return theirs == profile.LookingForRoommate
	case profile.LookingToFindTogether:
		return theirs == profile.LookingToFindTogether || theirs == profile.LookingForLease
	}
	return false
}

func withinDistance(f *profile.FilterSettings, me, cand *profile.UserProfile) bool {
	if f.Mode != profile.ByDistance || f.MaxDistanceKm == nil || me.Location == nil || cand.Location == nil {
		return true
	}
	d := geo.Haversine(
		geo.Point{Lat: me.Location.Latitude, Lon: me.Location.Longitude},
		geo.Point{Lat: cand.Location.Latitude, Lon: cand.Location.Longitude},
	)
	return d <= *f.MaxDistanceKm
}

func withinAgeDifference(maxDiff *int, a, b string) bool {
	if maxDiff == nil {
		return true
	}
	da, okA := parseBirthDate(a)
	db, okB := parseBirthDate(b)
	if !okA || !okB {
		return true
	}
	return wholeYearsBetween(da, db) <= *maxDiff
}

func parseBirthDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range birthDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			// Keep the calendar day as written, whatever the offset
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// wholeYearsBetween counts completed anniversaries between two dates, in either order
func wholeYearsBetween(a, b time.Time) int {
	if a.After(b) {
		a, b = b, a
	}
	years := b.Year() - a.Year()
	if b.Month() < a.Month() || (b.Month() == a.Month() && b.Day() < a.Day()) {
		years--
	}
	return years
}

func boolPreference(want, have *bool) bool {
	if want == nil || have == nil {
		return true
	}
	return *want == *have
}

// categoryPreference applies want=true to "any value but none" and want=false to "none only"
func categoryPreference(want *bool, value string) bool {
	v := normalize(value)
	if want == nil || v == "" {
		return true
	}
	_, none := noneSentinels[v]
	if *want {
		return !none
	}
	return none
}

func sharesInterest(desired, have []string) bool {
	if len(desired) == 0 || len(have) == 0 {
		return true
	}
	set := make(map[string]struct{}, len(have))
	for _, h := range have {
		if v := normalize(h); v != "" {
			set[v] = struct{}{}
		}
	}
	if len(set) == 0 {
		return true
	}
	for _, d := range desired {
		if _, ok := set[d]; ok {
			return true
		}
	}
	return false
}

func isSubset(want, have []string) bool {
	if len(want) == 0 || len(have) == 0 {
		return true
	}
	set := make(map[string]struct{}, len(have))
	for _, h := range have {
		set[h] = struct{}{}
	}
	for _, w := range want {
		if _, ok := set[w]; !ok {
			return false
		}
	}
	return true
}

func equalOrMissing(want, have string) bool {
	if want == "" || have == "" {
		return true
	}
	return want == have
}

func equalFoldOrMissing(want, have string) bool {
	if want == "" || have == "" {
		return true
	}
	return strings.ToLower(want) == strings.ToLower(have)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

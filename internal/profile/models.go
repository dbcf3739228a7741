// internal/profile/models.go

package profile

import (
	"errors"
	"strings"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrFiltersNotFound = errors.New("filter settings not found")
	ErrCannotBlockSelf = errors.New("cannot block yourself")
)

// HousingStatus is what a user is looking for on the housing side
type HousingStatus string

const (
	LookingForRoommate    HousingStatus = "looking_for_roommate"
	LookingForLease       HousingStatus = "looking_for_lease"
	LookingToFindTogether HousingStatus = "looking_to_find_together"
)

// Valid reports whether s is one of the known statuses
func (s HousingStatus) Valid() bool {
	switch s {
	case LookingForRoommate, LookingForLease, LookingToFindTogether:
		return true
	}
	return false
}

// FilterMode selects between college-based and distance-based discovery
type FilterMode string

const (
	ByCollege  FilterMode = "by_college"
	ByDistance FilterMode = "by_distance"
)

// Location is an approximate (fuzzed) position in degrees
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// UserProfile is everything the matching engine knows about a user.
// Optional values are nil or empty when the user skipped them.
type UserProfile struct {
	ID string `json:"id"`

	// Demographics
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Gender      string `json:"gender,omitempty"`
	GradeLevel  string `json:"grade_level,omitempty"`
	CollegeName string `json:"college_name,omitempty"`
	Major       string `json:"major,omitempty"`

	// Housing
	HousingStatus          HousingStatus `json:"housing_status,omitempty"`
	DormType               string        `json:"dorm_type,omitempty"`
	RoomType               string        `json:"room_type,omitempty"`
	BudgetMin              *float64      `json:"budget_min,omitempty"`
	BudgetMax              *float64      `json:"budget_max,omitempty"`
	RentMin                *float64      `json:"rent_min,omitempty"`
	RentMax                *float64      `json:"rent_max,omitempty"`
	Amenities              []string      `json:"amenities,omitempty"`
	SpecialLeaseConditions []string      `json:"special_lease_conditions,omitempty"`
	LeaseStartDate         string        `json:"lease_start_date,omitempty"`
	LeaseDuration          string        `json:"lease_duration,omitempty"`

	// Lifestyle
	Cleanliness        *int     `json:"cleanliness,omitempty"` // 1-5
	SleepSchedule      string   `json:"sleep_schedule,omitempty"`
	Smoker             *bool    `json:"smoker,omitempty"`
	PetFriendly        *bool    `json:"pet_friendly,omitempty"`
	Drinking           string   `json:"drinking,omitempty"`
	Cannabis           string   `json:"cannabis,omitempty"`
	Workout            string   `json:"workout,omitempty"`
	DietaryPreferences []string `json:"dietary_preferences,omitempty"`

	Interests []string  `json:"interests,omitempty"`
	Location  *Location `json:"location,omitempty"`

	BlockedUserIDs []string `json:"blocked_user_ids,omitempty"`
}

// HasBlocked reports whether p has blocked userID
func (p *UserProfile) HasBlocked(userID string) bool {
	for _, id := range p.BlockedUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// FilterSettings are a user's saved discovery preferences.
// Nil pointers and empty strings mean "no preference".
type FilterSettings struct {
	UserID           string        `json:"user_id"`
	Mode             FilterMode    `json:"mode"`
	HousingStatus    HousingStatus `json:"housing_status,omitempty"`
	CollegeName      string        `json:"college_name,omitempty"`
	GradeGroup       string        `json:"grade_group,omitempty"`
	MaxDistanceKm    *float64      `json:"max_distance_km,omitempty"`
	RoomType         string        `json:"room_type,omitempty"`
	Amenities        []string      `json:"amenities,omitempty"`
	Cleanliness      *int          `json:"cleanliness,omitempty"`
	SleepSchedule    string        `json:"sleep_schedule,omitempty"`
	PreferredGender  string        `json:"preferred_gender,omitempty"`
	MaxAgeDifference *int          `json:"max_age_difference,omitempty"`
	PetFriendly      *bool         `json:"pet_friendly,omitempty"`
	Smoker           *bool         `json:"smoker,omitempty"`
	Drinker          *bool         `json:"drinker,omitempty"`
	Marijuana        *bool         `json:"marijuana,omitempty"`
	Workout          *bool         `json:"workout,omitempty"`
	Interests        string        `json:"interests,omitempty"` // comma separated
}

// DesiredInterests splits the comma separated interests into trimmed, lower-cased values
func (f *FilterSettings) DesiredInterests() []string {
	if f == nil || f.Interests == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(f.Interests, ",") {
		if v := strings.ToLower(strings.TrimSpace(part)); v != "" {
			out = append(out, v)
		}
	}
	return out
}

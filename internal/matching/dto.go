// internal/matching/dto.go

package matching

import (
	"strings"

	"github.com/imadgeboyega/roommate-backend/internal/profile"
)

// FilterRequest is the body of PUT /filters and POST /feed
type FilterRequest struct {
	Mode             string   `json:"mode" validate:"omitempty,oneof=by_college by_distance"`
	HousingStatus    string   `json:"housing_status" validate:"omitempty,oneof=looking_for_roommate looking_for_lease looking_to_find_together"`
	CollegeName      string   `json:"college_name" validate:"max=200"`
	GradeGroup       string   `json:"grade_group" validate:"max=64"`
	MaxDistanceKm    *float64 `json:"max_distance_km" validate:"omitempty,gt=0,lte=20000"`
	RoomType         string   `json:"room_type" validate:"max=100"`
	Amenities        []string `json:"amenities" validate:"max=50,dive,max=100"`
	Cleanliness      *int     `json:"cleanliness" validate:"omitempty,gte=1,lte=5"`
	SleepSchedule    string   `json:"sleep_schedule" validate:"max=64"`
	PreferredGender  string   `json:"preferred_gender" validate:"max=32"`
	MaxAgeDifference *int     `json:"max_age_difference" validate:"omitempty,gte=0,lte=100"`
	PetFriendly      *bool    `json:"pet_friendly"`
	Smoker           *bool    `json:"smoker"`
	Drinker          *bool    `json:"drinker"`
	Marijuana        *bool    `json:"marijuana"`
	Workout          *bool    `json:"workout"`
	Interests        string   `json:"interests" validate:"max=1000"`
}

// ToSettings converts the request into the user's FilterSettings
func (req *FilterRequest) ToSettings(userID string) *profile.FilterSettings {
	mode := profile.FilterMode(req.Mode)
	if mode == "" {
		mode = profile.ByCollege
	}

	var amenities []string
	for _, a := range req.Amenities {
		if a = strings.TrimSpace(a); a != "" {
			amenities = append(amenities, a)
		}
	}

	return &profile.FilterSettings{
		UserID:           userID,
		Mode:             mode,
		HousingStatus:    profile.HousingStatus(req.HousingStatus),
		CollegeName:      strings.TrimSpace(req.CollegeName),
		GradeGroup:       strings.TrimSpace(req.GradeGroup),
		MaxDistanceKm:    req.MaxDistanceKm,
		RoomType:         strings.TrimSpace(req.RoomType),
		Amenities:        amenities,
		Cleanliness:      req.Cleanliness,
		SleepSchedule:    strings.TrimSpace(req.SleepSchedule),
		PreferredGender:  strings.TrimSpace(req.PreferredGender),
		MaxAgeDifference: req.MaxAgeDifference,
		PetFriendly:      req.PetFriendly,
		Smoker:           req.Smoker,
		Drinker:          req.Drinker,
		Marijuana:        req.Marijuana,
		Workout:          req.Workout,
		Interests:        req.Interests,
	}
}

// SwipeRequest is the body of POST /swipes
type SwipeRequest struct {
	CandidateID string `json:"candidate_id" validate:"required,max=128"`
	Liked       bool   `json:"liked"`
	SuperLiked  bool   `json:"super_liked"`
}

// SwipeResponse reports the result of a swipe
type SwipeResponse struct {
	DidMatch            bool   `json:"did_match"`
	ConversationID      string `json:"conversation_id,omitempty"`
	ConversationCreated bool   `json:"conversation_created"`
}

// FeedResponse is a page of the ranked feed
type FeedResponse struct {
	Candidates []RankedCandidate `json:"candidates"`
	Total      int               `json:"total"`
}

// internal/profile/dto.go

package profile

import "strings"

// UpsertProfileRequest is the body of PUT /api/v1/profile
type UpsertProfileRequest struct {
	FirstName   string `json:"first_name" validate:"required,max=100"`
	LastName    string `json:"last_name" validate:"max=100"`
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,max=40"`
	Gender      string `json:"gender" validate:"max=32"`
	GradeLevel  string `json:"grade_level" validate:"max=64"`
	CollegeName string `json:"college_name" validate:"max=200"`
	Major       string `json:"major" validate:"max=200"`

	HousingStatus          string   `json:"housing_status" validate:"omitempty,oneof=looking_for_roommate looking_for_lease looking_to_find_together"`
	DormType               string   `json:"dorm_type" validate:"max=100"`
	RoomType               string   `json:"room_type" validate:"max=100"`
	BudgetMin              *float64 `json:"budget_min" validate:"omitempty,gte=0"`
	BudgetMax              *float64 `json:"budget_max" validate:"omitempty,gte=0"`
	RentMin                *float64 `json:"rent_min" validate:"omitempty,gte=0"`
	RentMax                *float64 `json:"rent_max" validate:"omitempty,gte=0"`
	Amenities              []string `json:"amenities" validate:"max=50,dive,max=100"`
	SpecialLeaseConditions []string `json:"special_lease_conditions" validate:"max=20,dive,max=200"`
	LeaseStartDate         string   `json:"lease_start_date" validate:"max=40"`
	LeaseDuration          string   `json:"lease_duration" validate:"max=64"`

	Cleanliness        *int      `json:"cleanliness" validate:"omitempty,gte=1,lte=5"`
	SleepSchedule      string    `json:"sleep_schedule" validate:"max=64"`
	Smoker             *bool     `json:"smoker"`
	PetFriendly        *bool     `json:"pet_friendly"`
	Drinking           string    `json:"drinking" validate:"max=64"`
	Cannabis           string    `json:"cannabis" validate:"max=64"`
	Workout            string    `json:"workout" validate:"max=64"`
	DietaryPreferences []string  `json:"dietary_preferences" validate:"max=20,dive,max=100"`
	Interests          []string  `json:"interests" validate:"max=50,dive,max=100"`
	Location           *Location `json:"location"`
}

// ToProfile builds the profile for userID; the block list is owned by the store
func (req *UpsertProfileRequest) ToProfile(userID string) *UserProfile {
	return &UserProfile{
		ID:                     userID,
		FirstName:              strings.TrimSpace(req.FirstName),
		LastName:               strings.TrimSpace(req.LastName),
		DateOfBirth:            strings.TrimSpace(req.DateOfBirth),
		Gender:                 strings.TrimSpace(req.Gender),
		GradeLevel:             strings.TrimSpace(req.GradeLevel),
		CollegeName:            strings.TrimSpace(req.CollegeName),
		Major:                  strings.TrimSpace(req.Major),
		HousingStatus:          HousingStatus(req.HousingStatus),
		DormType:               req.DormType,
		RoomType:               req.RoomType,
		BudgetMin:              req.BudgetMin,
		BudgetMax:              req.BudgetMax,
		RentMin:                req.RentMin,
		RentMax:                req.RentMax,
		Amenities:              req.Amenities,
		SpecialLeaseConditions: req.SpecialLeaseConditions,
		LeaseStartDate:         req.LeaseStartDate,
		LeaseDuration:          req.LeaseDuration,
		Cleanliness:            req.Cleanliness,
		SleepSchedule:          req.SleepSchedule,
		Smoker:                 req.Smoker,
		PetFriendly:            req.PetFriendly,
		Drinking:               req.Drinking,
		Cannabis:               req.Cannabis,
		Workout:                req.Workout,
		DietaryPreferences:     req.DietaryPreferences,
		Interests:              req.Interests,
		Location:               req.Location,
	}
}

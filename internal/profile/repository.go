// internal/profile/repository.go

package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines the profile repository interface
type Repository interface {
	GetProfile(ctx context.Context, id string) (*UserProfile, error)
	ListProfiles(ctx context.Context) ([]*UserProfile, error)
	UpsertProfile(ctx context.Context, p *UserProfile) error

	// Blocking
	BlockUser(ctx context.Context, userID, blockedID string) error
	UnblockUser(ctx context.Context, userID, blockedID string) error

	// Filter settings
	GetFilterSettings(ctx context.Context, userID string) (*FilterSettings, error)
	SaveFilterSettings(ctx context.Context, f *FilterSettings) error
}

// postgresRepository implements Repository using PostgreSQL
type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

const profileColumns = `
	id, first_name, last_name, date_of_birth, gender, grade_level, college_name, major,
	housing_status, dorm_type, room_type, budget_min, budget_max, rent_min, rent_max,
	amenities, special_lease_conditions, lease_start_date, lease_duration,
	cleanliness, sleep_schedule, smoker, pet_friendly, drinking, cannabis, workout,
	dietary_preferences, interests, latitude, longitude, blocked_user_ids`

// profileRow mirrors the profiles table; nullable columns scan into sql.Null types
type profileRow struct {
	ID                     string          `db:"id"`
	FirstName              string          `db:"first_name"`
	LastName               string          `db:"last_name"`
	DateOfBirth            string          `db:"date_of_birth"`
	Gender                 string          `db:"gender"`
	GradeLevel             string          `db:"grade_level"`
	CollegeName            string          `db:"college_name"`
	Major                  string          `db:"major"`
	HousingStatus          string          `db:"housing_status"`
	DormType               string          `db:"dorm_type"`
	RoomType               string          `db:"room_type"`
	BudgetMin              sql.NullFloat64 `db:"budget_min"`
	BudgetMax              sql.NullFloat64 `db:"budget_max"`
	RentMin                sql.NullFloat64 `db:"rent_min"`
	RentMax                sql.NullFloat64 `db:"rent_max"`
	Amenities              pq.StringArray  `db:"amenities"`
	SpecialLeaseConditions pq.StringArray  `db:"special_lease_conditions"`
	LeaseStartDate         string          `db:"lease_start_date"`
	LeaseDuration          string          `db:"lease_duration"`
	Cleanliness            sql.NullInt32   `db:"cleanliness"`
	SleepSchedule          string          `db:"sleep_schedule"`
	Smoker                 sql.NullBool    `db:"smoker"`
	PetFriendly            sql.NullBool    `db:"pet_friendly"`
	Drinking               string          `db:"drinking"`
	Cannabis               string          `db:"cannabis"`
	Workout                string          `db:"workout"`
	DietaryPreferences     pq.StringArray  `db:"dietary_preferences"`
	Interests              pq.StringArray  `db:"interests"`
	Latitude               sql.NullFloat64 `db:"latitude"`
	Longitude              sql.NullFloat64 `db:"longitude"`
	BlockedUserIDs         pq.StringArray  `db:"blocked_user_ids"`
}

func (row *profileRow) toProfile() *UserProfile {
	p := &UserProfile{
		ID:                     row.ID,
		FirstName:              row.FirstName,
		LastName:               row.LastName,
		DateOfBirth:            row.DateOfBirth,
		Gender:                 row.Gender,
		GradeLevel:             row.GradeLevel,
		CollegeName:            row.CollegeName,
		Major:                  row.Major,
		HousingStatus:          HousingStatus(row.HousingStatus),
		DormType:               row.DormType,
		RoomType:               row.RoomType,
		BudgetMin:              nullFloat(row.BudgetMin),
		BudgetMax:              nullFloat(row.BudgetMax),
		RentMin:                nullFloat(row.RentMin),
		RentMax:                nullFloat(row.RentMax),
		Amenities:              []string(row.Amenities),
		SpecialLeaseConditions: []string(row.SpecialLeaseConditions),
		LeaseStartDate:         row.LeaseStartDate,
		LeaseDuration:          row.LeaseDuration,
		SleepSchedule:          row.SleepSchedule,
		Smoker:                 nullBool(row.Smoker),
		PetFriendly:            nullBool(row.PetFriendly),
		Drinking:               row.Drinking,
		Cannabis:               row.Cannabis,
		Workout:                row.Workout,
		DietaryPreferences:     []string(row.DietaryPreferences),
		Interests:              []string(row.Interests),
		BlockedUserIDs:         []string(row.BlockedUserIDs),
	}
	if row.Cleanliness.Valid {
		v := int(row.Cleanliness.Int32)
		p.Cleanliness = &v
	}
	if row.Latitude.Valid && row.Longitude.Valid {
		p.Location = &Location{Latitude: row.Latitude.Float64, Longitude: row.Longitude.Float64}
	}
	return p
}

// GetProfile retrieves a single profile
func (r *postgresRepository) GetProfile(ctx context.Context, id string) (*UserProfile, error) {
	var row profileRow
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return row.toProfile(), nil
}

// ListProfiles returns every profile in a stable order
func (r *postgresRepository) ListProfiles(ctx context.Context) ([]*UserProfile, error) {
	var rows []profileRow
	query := `SELECT ` + profileColumns + ` FROM profiles ORDER BY created_at, id`

	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	profiles := make([]*UserProfile, 0, len(rows))
	for i := range rows {
		profiles = append(profiles, rows[i].toProfile())
	}
	return profiles, nil
}

// UpsertProfile inserts or replaces a profile; blocked ids are preserved on update
func (r *postgresRepository) UpsertProfile(ctx context.Context, p *UserProfile) error {
	var lat, lon sql.NullFloat64
	if p.Location != nil {
		lat = sql.NullFloat64{Float64: p.Location.Latitude, Valid: true}
		lon = sql.NullFloat64{Float64: p.Location.Longitude, Valid: true}
	}

	query := `
		INSERT INTO profiles (` + profileColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31)
		ON CONFLICT (id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			date_of_birth = EXCLUDED.date_of_birth,
			gender = EXCLUDED.gender,
			grade_level = EXCLUDED.grade_level,
			college_name = EXCLUDED.college_name,
			major = EXCLUDED.major,
			housing_status = EXCLUDED.housing_status,
			dorm_type = EXCLUDED.dorm_type,
			room_type = EXCLUDED.room_type,
			budget_min = EXCLUDED.budget_min,
			budget_max = EXCLUDED.budget_max,
			rent_min = EXCLUDED.rent_min,
			rent_max = EXCLUDED.rent_max,
			amenities = EXCLUDED.amenities,
			special_lease_conditions = EXCLUDED.special_lease_conditions,
			lease_start_date = EXCLUDED.lease_start_date,
			lease_duration = EXCLUDED.lease_duration,
			cleanliness = EXCLUDED.cleanliness,
			sleep_schedule = EXCLUDED.sleep_schedule,
			smoker = EXCLUDED.smoker,
			pet_friendly = EXCLUDED.pet_friendly,
			drinking = EXCLUDED.drinking,
			cannabis = EXCLUDED.cannabis,
			workout = EXCLUDED.workout,
			dietary_preferences = EXCLUDED.dietary_preferences,
			interests = EXCLUDED.interests,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			updated_at = CURRENT_TIMESTAMP`

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.FirstName, p.LastName, p.DateOfBirth, p.Gender, p.GradeLevel, p.CollegeName, p.Major,
		string(p.HousingStatus), p.DormType, p.RoomType, p.BudgetMin, p.BudgetMax, p.RentMin, p.RentMax,
		pq.Array(nonNil(p.Amenities)), pq.Array(nonNil(p.SpecialLeaseConditions)), p.LeaseStartDate, p.LeaseDuration,
		p.Cleanliness, p.SleepSchedule, p.Smoker, p.PetFriendly, p.Drinking, p.Cannabis, p.Workout,
		pq.Array(nonNil(p.DietaryPreferences)), pq.Array(nonNil(p.Interests)), lat, lon, pq.Array(nonNil(p.BlockedUserIDs)),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

// BlockUser adds blockedID to the user's block list
func (r *postgresRepository) BlockUser(ctx context.Context, userID, blockedID string) error {
	if userID == blockedID {
		return ErrCannotBlockSelf
	}

	query := `
		UPDATE profiles
		SET blocked_user_ids = array_append(blocked_user_ids, $2), updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND NOT ($2 = ANY(blocked_user_ids))`

	if _, err := r.db.ExecContext(ctx, query, userID, blockedID); err != nil {
		return fmt.Errorf("failed to block user: %w", err)
	}
	return nil
}

// UnblockUser removes blockedID from the user's block list
func (r *postgresRepository) UnblockUser(ctx context.Context, userID, blockedID string) error {
	query := `
		UPDATE profiles
		SET blocked_user_ids = array_remove(blocked_user_ids, $2), updated_at = CURRENT_TIMESTAMP
		WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, userID, blockedID); err != nil {
		return fmt.Errorf("failed to unblock user: %w", err)
	}
	return nil
}

type filterRow struct {
	UserID           string          `db:"user_id"`
	Mode             string          `db:"mode"`
	HousingStatus    string          `db:"housing_status"`
	CollegeName      string          `db:"college_name"`
	GradeGroup       string          `db:"grade_group"`
	MaxDistanceKm    sql.NullFloat64 `db:"max_distance_km"`
	RoomType         string          `db:"room_type"`
	Amenities        pq.StringArray  `db:"amenities"`
	Cleanliness      sql.NullInt32   `db:"cleanliness"`
	SleepSchedule    string          `db:"sleep_schedule"`
	PreferredGender  string          `db:"preferred_gender"`
	MaxAgeDifference sql.NullInt32   `db:"max_age_difference"`
	PetFriendly      sql.NullBool    `db:"pet_friendly"`
	Smoker           sql.NullBool    `db:"smoker"`
	Drinker          sql.NullBool    `db:"drinker"`
	Marijuana        sql.NullBool    `db:"marijuana"`
	Workout          sql.NullBool    `db:"workout"`
	Interests        string          `db:"interests"`
}

// GetFilterSettings loads the user's saved filters
func (r *postgresRepository) GetFilterSettings(ctx context.Context, userID string) (*FilterSettings, error) {
	var row filterRow
	query := `
		SELECT user_id, mode, housing_status, college_name, grade_group, max_distance_km,
			room_type, amenities, cleanliness, sleep_schedule, preferred_gender, max_age_difference,
			pet_friendly, smoker, drinker, marijuana, workout, interests
		FROM filter_settings
		WHERE user_id = $1`

	if err := r.db.GetContext(ctx, &row, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFiltersNotFound
		}
		return nil, fmt.Errorf("failed to get filter settings: %w", err)
	}

	f := &FilterSettings{
		UserID:          row.UserID,
		Mode:            FilterMode(row.Mode),
		HousingStatus:   HousingStatus(row.HousingStatus),
		CollegeName:     row.CollegeName,
		GradeGroup:      row.GradeGroup,
		MaxDistanceKm:   nullFloat(row.MaxDistanceKm),
		RoomType:        row.RoomType,
		Amenities:       []string(row.Amenities),
		SleepSchedule:   row.SleepSchedule,
		PreferredGender: row.PreferredGender,
		PetFriendly:     nullBool(row.PetFriendly),
		Smoker:          nullBool(row.Smoker),
		Drinker:         nullBool(row.Drinker),
		Marijuana:       nullBool(row.Marijuana),
		Workout:         nullBool(row.Workout),
		Interests:       row.Interests,
	}
	if row.Cleanliness.Valid {
		v := int(row.Cleanliness.Int32)
		f.Cleanliness = &v
	}
	if row.MaxAgeDifference.Valid {
		v := int(row.MaxAgeDifference.Int32)
		f.MaxAgeDifference = &v
	}
	return f, nil
}

// SaveFilterSettings creates or replaces the user's saved filters
func (r *postgresRepository) SaveFilterSettings(ctx context.Context, f *FilterSettings) error {
	query := `
		INSERT INTO filter_settings (
			user_id, mode, housing_status, college_name, grade_group, max_distance_km,
			room_type, amenities, cleanliness, sleep_schedule, preferred_gender, max_age_difference,
			pet_friendly, smoker, drinker, marijuana, workout, interests
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (user_id) DO UPDATE SET
			mode = EXCLUDED.mode,
			housing_status = EXCLUDED.housing_status,
			college_name = EXCLUDED.college_name,
			grade_group = EXCLUDED.grade_group,
			max_distance_km = EXCLUDED.max_distance_km,
			room_type = EXCLUDED.room_type,
			amenities = EXCLUDED.amenities,
			cleanliness = EXCLUDED.cleanliness,
			sleep_schedule = EXCLUDED.sleep_schedule,
			preferred_gender = EXCLUDED.preferred_gender,
			max_age_difference = EXCLUDED.max_age_difference,
			pet_friendly = EXCLUDED.pet_friendly,
			smoker = EXCLUDED.smoker,
			drinker = EXCLUDED.drinker,
			marijuana = EXCLUDED.marijuana,
			workout = EXCLUDED.workout,
			interests = EXCLUDED.interests,
			updated_at = CURRENT_TIMESTAMP`

	mode := f.Mode
	if mode == "" {
		mode = ByCollege
	}

	_, err := r.db.ExecContext(ctx, query,
		f.UserID, string(mode), string(f.HousingStatus), f.CollegeName, f.GradeGroup, f.MaxDistanceKm,
		f.RoomType, pq.Array(nonNil(f.Amenities)), f.Cleanliness, f.SleepSchedule, f.PreferredGender, f.MaxAgeDifference,
		f.PetFriendly, f.Smoker, f.Drinker, f.Marijuana, f.Workout, f.Interests,
	)
	if err != nil {
		return fmt.Errorf("failed to save filter settings: %w", err)
	}
	return nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullBool(v sql.NullBool) *bool {
	if !v.Valid {
		return nil
	}
	b := v.Bool
	return &b
}

// nonNil keeps NOT NULL array columns from receiving SQL NULL
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

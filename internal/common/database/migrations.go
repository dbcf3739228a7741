// internal/common/database/migrations.go
// Schema for profiles, filter settings, swipes and conversations

package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// migrations are applied in order; every statement is idempotent
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
		id TEXT PRIMARY KEY,
		first_name VARCHAR(100) NOT NULL DEFAULT '',
		last_name VARCHAR(100) NOT NULL DEFAULT '',
		date_of_birth VARCHAR(32) NOT NULL DEFAULT '',
		gender VARCHAR(32) NOT NULL DEFAULT '',
		grade_level VARCHAR(64) NOT NULL DEFAULT '',
		college_name VARCHAR(200) NOT NULL DEFAULT '',
		major VARCHAR(200) NOT NULL DEFAULT '',
		housing_status VARCHAR(40) NOT NULL DEFAULT '',
		dorm_type VARCHAR(100) NOT NULL DEFAULT '',
		room_type VARCHAR(100) NOT NULL DEFAULT '',
		budget_min NUMERIC(10,2),
		budget_max NUMERIC(10,2),
		rent_min NUMERIC(10,2),
		rent_max NUMERIC(10,2),
		amenities TEXT[] NOT NULL DEFAULT '{}',
		special_lease_conditions TEXT[] NOT NULL DEFAULT '{}',
		lease_start_date VARCHAR(32) NOT NULL DEFAULT '',
		lease_duration VARCHAR(64) NOT NULL DEFAULT '',
		cleanliness SMALLINT CHECK (cleanliness BETWEEN 1 AND 5),
		sleep_schedule VARCHAR(64) NOT NULL DEFAULT '',
		smoker BOOLEAN,
		pet_friendly BOOLEAN,
		drinking VARCHAR(64) NOT NULL DEFAULT '',
		cannabis VARCHAR(64) NOT NULL DEFAULT '',
		workout VARCHAR(64) NOT NULL DEFAULT '',
		dietary_preferences TEXT[] NOT NULL DEFAULT '{}',
		interests TEXT[] NOT NULL DEFAULT '{}',
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION,
		blocked_user_ids TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS filter_settings (
		user_id TEXT PRIMARY KEY REFERENCES profiles(id) ON DELETE CASCADE,
		mode VARCHAR(20) NOT NULL DEFAULT 'by_college',
		housing_status VARCHAR(40) NOT NULL DEFAULT '',
		college_name VARCHAR(200) NOT NULL DEFAULT '',
		grade_group VARCHAR(64) NOT NULL DEFAULT '',
		max_distance_km DOUBLE PRECISION,
		room_type VARCHAR(100) NOT NULL DEFAULT '',
		amenities TEXT[] NOT NULL DEFAULT '{}',
		cleanliness SMALLINT,
		sleep_schedule VARCHAR(64) NOT NULL DEFAULT '',
		preferred_gender VARCHAR(32) NOT NULL DEFAULT '',
		max_age_difference INTEGER,
		pet_friendly BOOLEAN,
		smoker BOOLEAN,
		drinker BOOLEAN,
		marijuana BOOLEAN,
		workout BOOLEAN,
		interests TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	)`,

	// Append-only: no UPDATE or DELETE is ever issued against swipes
	`CREATE TABLE IF NOT EXISTS swipes (
		id UUID PRIMARY KEY,
		from_user_id TEXT NOT NULL,
		to_user_id TEXT NOT NULL,
		liked BOOLEAN NOT NULL,
		super_liked BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS conversations (
		id UUID PRIMARY KEY,
		type VARCHAR(20) NOT NULL DEFAULT 'direct',
		user_low TEXT NOT NULL,
		user_high TEXT NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT conversations_pair_order CHECK (user_low < user_high),
		CONSTRAINT conversations_unique_pair UNIQUE (user_low, user_high)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_swipes_from ON swipes(from_user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_swipes_pair_liked ON swipes(from_user_id, to_user_id) WHERE liked`,
	`CREATE INDEX IF NOT EXISTS idx_conversations_high ON conversations(user_high)`,
}

// Migrate runs the schema migrations
func Migrate(ctx context.Context, db *sqlx.DB, log *zap.Logger) error {
	for i, migration := range migrations {
		log.Debug("running migration", zap.Int("step", i+1), zap.Int("total", len(migrations)))
		if _, err := db.ExecContext(ctx, migration); err != nil {
			// Concurrent starts may race on CREATE INDEX
			if strings.Contains(err.Error(), "already exists") {
				log.Info("migration skipped", zap.Int("step", i+1), zap.String("reason", "already exists"))
				continue
			}
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}

// internal/matching/repository.go

package matching

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SwipeRepository persists the append-only swipe log
type SwipeRepository interface {
	PutSwipe(ctx context.Context, rec *SwipeRecord) error
	SwipesFrom(ctx context.Context, from string) ([]SwipeRecord, error)
	LikesBetween(ctx context.Context, from, to string) ([]SwipeRecord, error)
}

// postgresSwipeRepository implements SwipeRepository using PostgreSQL
type postgresSwipeRepository struct {
	db *sqlx.DB
}

// NewPostgresSwipeRepository creates a new PostgreSQL swipe repository
func NewPostgresSwipeRepository(db *sqlx.DB) SwipeRepository {
	return &postgresSwipeRepository{db: db}
}

// PutSwipe appends one decision; swipes are never updated
func (r *postgresSwipeRepository) PutSwipe(ctx context.Context, rec *SwipeRecord) error {
	query := `
		INSERT INTO swipes (id, from_user_id, to_user_id, liked, super_liked, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query, rec.ID, rec.From, rec.To, rec.Liked, rec.SuperLiked, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert swipe: %w", err)
	}
	return nil
}

// SwipesFrom returns every decision made by from, oldest first
func (r *postgresSwipeRepository) SwipesFrom(ctx context.Context, from string) ([]SwipeRecord, error) {
	var swipes []SwipeRecord
	query := `
		SELECT id, from_user_id, to_user_id, liked, super_liked, created_at
		FROM swipes
		WHERE from_user_id = $1
		ORDER BY created_at, id`

	if err := r.db.SelectContext(ctx, &swipes, query, from); err != nil {
		return nil, fmt.Errorf("failed to get swipes: %w", err)
	}
	return swipes, nil
}

// LikesBetween returns the liked decisions from -> to, newest first
func (r *postgresSwipeRepository) LikesBetween(ctx context.Context, from, to string) ([]SwipeRecord, error) {
	var swipes []SwipeRecord
	query := `
		SELECT id, from_user_id, to_user_id, liked, super_liked, created_at
		FROM swipes
		WHERE from_user_id = $1 AND to_user_id = $2 AND liked = TRUE
		ORDER BY created_at DESC`

	if err := r.db.SelectContext(ctx, &swipes, query, from, to); err != nil {
		return nil, fmt.Errorf("failed to get likes: %w", err)
	}
	return swipes, nil
}

// internal/messaging/repository.go

package messaging

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines conversation persistence
type Repository interface {
	FindDirectConversation(ctx context.Context, user1ID, user2ID string) (*Conversation, error)
	CreateDirectConversation(ctx context.Context, user1ID, user2ID string) (conv *Conversation, created bool, err error)
	GetUserConversations(ctx context.Context, userID string) ([]*Conversation, error)
}

// postgresRepository implements Repository using PostgreSQL
type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// FindDirectConversation returns the conversation for the unordered pair
func (r *postgresRepository) FindDirectConversation(ctx context.Context, user1ID, user2ID string) (*Conversation, error) {
	low, high := CanonicalPair(user1ID, user2ID)

	var conv Conversation
	query := `
		SELECT id, type, user_low, user_high, created_at
		FROM conversations
		WHERE user_low = $1 AND user_high = $2`

	if err := r.db.GetContext(ctx, &conv, query, low, high); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("failed to find conversation: %w", err)
	}
	return &conv, nil
}

// CreateDirectConversation inserts the conversation for the pair unless one exists.
// The unique (user_low, user_high) constraint makes concurrent creators converge on one row.
func (r *postgresRepository) CreateDirectConversation(ctx context.Context, user1ID, user2ID string) (*Conversation, bool, error) {
	if user1ID == "" || user2ID == "" || user1ID == user2ID {
		return nil, false, ErrInvalidParticipants
	}
	low, high := CanonicalPair(user1ID, user2ID)

	conv := Conversation{
		ID:       uuid.NewString(),
		Type:     ConversationTypeDirect,
		UserLow:  low,
		UserHigh: high,
	}

	query := `
		INSERT INTO conversations (id, type, user_low, user_high)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_low, user_high) DO NOTHING
		RETURNING created_at`

	err := r.db.QueryRowxContext(ctx, query, conv.ID, conv.Type, conv.UserLow, conv.UserHigh).Scan(&conv.CreatedAt)
	switch {
	case err == nil:
		return &conv, true, nil
	case errors.Is(err, sql.ErrNoRows):
		// Lost the race: another writer created it first
		existing, findErr := r.FindDirectConversation(ctx, low, high)
		if findErr != nil {
			return nil, false, findErr
		}
		return existing, false, nil
	default:
		return nil, false, fmt.Errorf("failed to create conversation: %w", err)
	}
}

// GetUserConversations lists the conversations userID takes part in, newest first
func (r *postgresRepository) GetUserConversations(ctx context.Context, userID string) ([]*Conversation, error) {
	var convs []*Conversation
	query := `
		SELECT id, type, user_low, user_high, created_at
		FROM conversations
		WHERE user_low = $1 OR user_high = $1
		ORDER BY created_at DESC`

	if err := r.db.SelectContext(ctx, &convs, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return convs, nil
}

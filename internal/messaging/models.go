// internal/messaging/models.go

package messaging

import (
	"errors"
	"time"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrInvalidParticipants  = errors.New("a direct conversation needs two distinct participants")
)

// ConversationTypeDirect is a one-to-one conversation opened by a mutual match
const ConversationTypeDirect = "direct"

// Conversation is a direct chat between two users. The participant pair is
// stored in canonical order so each unordered pair maps to one row.
type Conversation struct {
	ID        string    `json:"id" db:"id"`
	Type      string    `json:"type" db:"type"`
	UserLow   string    `json:"user_low" db:"user_low"`
	UserHigh  string    `json:"user_high" db:"user_high"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Participants returns both members of the conversation
func (c *Conversation) Participants() []string {
	return []string{c.UserLow, c.UserHigh}
}

// HasUser reports whether userID takes part in the conversation
func (c *Conversation) HasUser(userID string) bool {
	return c.UserLow == userID || c.UserHigh == userID
}

// OtherUser returns the participant that is not userID
func (c *Conversation) OtherUser(userID string) string {
	if c.UserLow == userID {
		return c.UserHigh
	}
	return c.UserLow
}

// CanonicalPair orders two user ids lexicographically
func CanonicalPair(a, b string) (low, high string) {
	if a > b {
		return b, a
	}
	return a, b
}

// PairKey is a stable key for the unordered pair {a, b}
func PairKey(a, b string) string {
	low, high := CanonicalPair(a, b)
	return low + "|" + high
}

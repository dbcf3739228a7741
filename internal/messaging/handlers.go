// internal/messaging/handlers.go

package messaging

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/imadgeboyega/roommate-backend/internal/auth"
	"github.com/imadgeboyega/roommate-backend/internal/common/utils"
)

// ConversationView is a conversation as seen by one of its participants
type ConversationView struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	OtherUserID string    `json:"other_user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func viewFor(conv *Conversation, userID string) ConversationView {
	return ConversationView{
		ID:          conv.ID,
		Type:        conv.Type,
		OtherUserID: conv.OtherUser(userID),
		CreatedAt:   conv.CreatedAt,
	}
}

// Handler serves the conversations opened by mutual matches
type Handler struct {
	repo Repository
	log  *zap.Logger
}

func NewHandler(repo Repository, log *zap.Logger) *Handler {
	return &Handler{repo: repo, log: log.Named("messaging_http")}
}

// GetConversations lists the caller's conversations, newest first
func (h *Handler) GetConversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	convs, err := h.repo.GetUserConversations(r.Context(), userID)
	if err != nil {
		h.log.Error("list conversations failed", zap.String("user_id", userID), zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get conversations")
		return
	}

	views := make([]ConversationView, 0, len(convs))
	for _, conv := range convs {
		views = append(views, viewFor(conv, userID))
	}
	utils.RespondWithData(w, http.StatusOK, views)
}

// GetConversationWith returns the direct conversation between the caller and userId
func (h *Handler) GetConversationWith(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	otherID := mux.Vars(r)["userId"]
	if otherID == userID {
		utils.RespondWithError(w, http.StatusBadRequest, ErrInvalidParticipants.Error())
		return
	}

	conv, err := h.repo.FindDirectConversation(r.Context(), userID, otherID)
	if errors.Is(err, ErrConversationNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.log.Error("find conversation failed",
			zap.String("user_id", userID),
			zap.String("other_user_id", otherID),
			zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get conversation")
		return
	}

	utils.RespondWithData(w, http.StatusOK, viewFor(conv, userID))
}

// internal/profile/handlers.go

package profile

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/imadgeboyega/roommate-backend/internal/auth"
	"github.com/imadgeboyega/roommate-backend/internal/common/utils"
)

// Handler handles profile-related HTTP requests
type Handler struct {
	service Service
	log     *zap.Logger
}

// NewHandler creates a new profile handler
func NewHandler(service Service, log *zap.Logger) *Handler {
	return &Handler{service: service, log: log.Named("profile_http")}
}

// GetMyProfile handles getting current user's profile
func (h *Handler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	p, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, err, "Failed to get profile")
		return
	}

	utils.RespondWithData(w, http.StatusOK, p)
}

// GetUserProfile handles getting another user's profile
func (h *Handler) GetUserProfile(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.GetUserIDFromContext(r.Context()); !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	p, err := h.service.GetProfile(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondServiceError(w, err, "Failed to get profile")
		return
	}

	// Block lists are private to their owner
	public := *p
	public.BlockedUserIDs = nil
	utils.RespondWithData(w, http.StatusOK, &public)
}

// SaveProfile handles profile setup and updates
func (h *Handler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req UpsertProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.service.SaveProfile(r.Context(), userID, &req)
	if err != nil {
		h.respondServiceError(w, err, "Failed to save profile")
		return
	}

	utils.RespondWithData(w, http.StatusOK, p)
}

// GetBlockedUsers lists the caller's block list
func (h *Handler) GetBlockedUsers(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	blocked, err := h.service.GetBlockedUsers(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, err, "Failed to get blocked users")
		return
	}

	utils.RespondWithData(w, http.StatusOK, map[string]interface{}{"blocked_user_ids": blocked})
}

// BlockUser handles blocking a user
func (h *Handler) BlockUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.service.BlockUser(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		h.respondServiceError(w, err, "Failed to block user")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Success: true, Message: "User blocked"})
}

// UnblockUser handles unblocking a user
func (h *Handler) UnblockUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.service.UnblockUser(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		h.respondServiceError(w, err, "Failed to unblock user")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Success: true, Message: "User unblocked"})
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrProfileNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Profile not found")
	case errors.Is(err, ErrCannotBlockSelf), errors.Is(err, ErrInvalidLocation):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error(fallback, zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}

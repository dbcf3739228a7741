// internal/matching/handlers.go

package matching

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/imadgeboyega/roommate-backend/internal/auth"
	"github.com/imadgeboyega/roommate-backend/internal/common/utils"
	"github.com/imadgeboyega/roommate-backend/internal/profile"
)

// HandlerConfig bounds feed requests
type HandlerConfig struct {
	FeedLimit   int
	FeedTimeout time.Duration
}

type Handler struct {
	store    Store
	sessions *SessionRegistry
	opts     Options
	cfg      HandlerConfig
	log      *zap.Logger
}

func NewHandler(store Store, sessions *SessionRegistry, opts Options, cfg HandlerConfig) *Handler {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if cfg.FeedLimit <= 0 {
		cfg.FeedLimit = 50
	}
	if cfg.FeedTimeout <= 0 {
		cfg.FeedTimeout = 5 * time.Second
	}
	return &Handler{
		store:    store,
		sessions: sessions,
		opts:     opts,
		cfg:      cfg,
		log:      opts.Logger.Named("http"),
	}
}

// engineFor builds an engine for the authenticated session of r
func (h *Handler) engineFor(r *http.Request) (*Engine, bool) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		return nil, false
	}
	sessionID, ok := auth.GetSessionIDFromContext(r.Context())
	if !ok {
		sessionID = userID
	}

	var expiresAt time.Time
	if exp, ok := auth.GetExpiresAtFromContext(r.Context()); ok && exp > 0 {
		expiresAt = time.Unix(exp, 0)
	}

	return NewEngine(h.store, h.sessions.Get(userID, sessionID, expiresAt), h.opts), true
}

func (h *Handler) GetFeed(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.engineFor(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit, err := h.parseLimit(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.FeedTimeout)
	defer cancel()

	h.serveFeed(ctx, w, engine, engine.SavedFilters(ctx), limit)
}

func (h *Handler) PostFeed(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.engineFor(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit, err := h.parseLimit(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req FilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.FeedTimeout)
	defer cancel()

	h.serveFeed(ctx, w, engine, req.ToSettings(engine.Session().UserID), limit)
}

func (h *Handler) serveFeed(ctx context.Context, w http.ResponseWriter, engine *Engine, filter *profile.FilterSettings, limit int) {
	ranked, err := engine.GetRankedFeedDetailed(ctx, filter)
	if err != nil {
		if errors.Is(err, ErrFeedSuperseded) {
			utils.RespondWithError(w, http.StatusConflict, "Superseded by a newer feed request")
			return
		}
		h.log.Error("feed failed", zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to build feed")
		return
	}

	total := len(ranked)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	utils.RespondWithData(w, http.StatusOK, FeedResponse{Candidates: ranked, Total: total})
}

func (h *Handler) parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return h.cfg.FeedLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > h.cfg.FeedLimit {
		return 0, errors.New("limit must be between 1 and " + strconv.Itoa(h.cfg.FeedLimit))
	}
	return limit, nil
}

func (h *Handler) GetCompatibility(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.engineFor(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	candidateID := mux.Vars(r)["userId"]
	breakdown, err := engine.GetCompatibilityBreakdown(r.Context(), candidateID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Profile not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to compute compatibility")
		return
	}

	utils.RespondWithData(w, http.StatusOK, breakdown)
}

func (h *Handler) RecordSwipe(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.engineFor(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req SwipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	out, err := engine.RecordSwipeDetailed(r.Context(), req.CandidateID, req.Liked, req.SuperLiked)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidSwipe):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrSwipeWriteFailed):
			h.log.Error("swipe not recorded", zap.Error(err))
			utils.RespondWithError(w, http.StatusServiceUnavailable, "Swipe could not be saved, please retry")
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to record swipe")
		}
		return
	}

	utils.RespondWithData(w, http.StatusCreated, SwipeResponse{
		DidMatch:            out.Matched,
		ConversationID:      out.ConversationID,
		ConversationCreated: out.Created,
	})
}

func (h *Handler) GetFilters(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	filters, err := h.store.GetFilterSettings(r.Context(), userID)
	if err != nil {
		if errors.Is(err, profile.ErrFiltersNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "No saved filters")
			return
		}
		h.log.Error("get filters failed", zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get filters")
		return
	}

	utils.RespondWithData(w, http.StatusOK, filters)
}

func (h *Handler) SaveFilters(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req FilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	filters := req.ToSettings(userID)
	if err := h.store.SaveFilterSettings(r.Context(), filters); err != nil {
		h.log.Error("save filters failed", zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save filters")
		return
	}

	utils.RespondWithData(w, http.StatusOK, filters)
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	authsvc "github.com/NhutViet/tinder-backend/internal/services/auth"
	swipesvc "github.com/NhutViet/tinder-backend/internal/services/swipes"
	"github.com/NhutViet/tinder-backend/internal/transport/http/dto"
	httperrors "github.com/NhutViet/tinder-backend/internal/transport/http/errors"
)

type SwipeHandler struct {
	service *swipesvc.Service
}

func NewSwipeHandler(service *swipesvc.Service) *SwipeHandler {
	return &SwipeHandler{service: service}
}

func (h *SwipeHandler) Swipe(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "SWIPE_SERVICE_UNAVAILABLE", "swipe service is unavailable")
		return
	}

	var req dto.SwipeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if req.TargetID <= 0 || strings.TrimSpace(req.Decision) == "" {
		writeBadRequest(w, "VALIDATION_ERROR", "target_id and decision are required")
		return
	}

	result, err := h.service.Swipe(r.Context(), identity.UserID, req.TargetID, req.Decision)
	if err != nil {
		switch {
		case errors.Is(err, swipesvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid swipe request")
		case errors.Is(err, swipesvc.ErrDuplicateSwipe):
			httperrors.Write(w, http.StatusConflict, httperrors.APIError{
				Code:    "ALREADY_SWIPED",
				Message: "a decision for this target already exists",
			})
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to process swipe")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.SwipeResponse{
		OK:           true,
		Decision:     result.Swipe.Decision,
		MatchCreated: result.MatchCreated,
	})
}

func (h *SwipeHandler) Check(w http.ResponseWriter, r *http.Request) {
	identity, targetID, ok := h.withTarget(w, r)
	if !ok {
		return
	}

	decided, err := h.service.HasDecided(r.Context(), identity.UserID, targetID)
	if err != nil {
		handleSwipeError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.SwipeCheckResponse{Decided: decided})
}

func (h *SwipeHandler) LikedMe(w http.ResponseWriter, r *http.Request) {
	identity, targetID, ok := h.withTarget(w, r)
	if !ok {
		return
	}

	liked, err := h.service.HasLikedMe(r.Context(), identity.UserID, targetID)
	if err != nil {
		handleSwipeError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.LikedMeResponse{Liked: liked})
}

func (h *SwipeHandler) Decided(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "SWIPE_SERVICE_UNAVAILABLE", "swipe service is unavailable")
		return
	}

	ids, err := h.service.ListDecidedTargets(r.Context(), identity.UserID)
	if err != nil {
		handleSwipeError(w, err)
		return
	}
	if ids == nil {
		ids = []int64{}
	}

	httperrors.Write(w, http.StatusOK, dto.DecidedTargetsResponse{TargetIDs: ids})
}

func (h *SwipeHandler) Stats(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "SWIPE_SERVICE_UNAVAILABLE", "swipe service is unavailable")
		return
	}

	var day time.Time
	if raw := strings.TrimSpace(r.URL.Query().Get("date")); raw != "" {
		parsed, err := time.Parse(birthdateLayout, raw)
		if err != nil {
			writeBadRequest(w, "VALIDATION_ERROR", "date must be YYYY-MM-DD")
			return
		}
		day = parsed
	}

	stats, err := h.service.DailyStats(r.Context(), identity.UserID, day)
	if err != nil {
		handleSwipeError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.SwipeStatsResponse{
		Likes:    stats.Likes,
		Dislikes: stats.Dislikes,
		Total:    stats.Total,
	})
}

func (h *SwipeHandler) withTarget(w http.ResponseWriter, r *http.Request) (authsvc.Identity, int64, bool) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return authsvc.Identity{}, 0, false
	}
	if h.service == nil {
		writeInternal(w, "SWIPE_SERVICE_UNAVAILABLE", "swipe service is unavailable")
		return authsvc.Identity{}, 0, false
	}

	raw := chi.URLParam(r, "targetID")
	targetID, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || targetID <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid target id")
		return authsvc.Identity{}, 0, false
	}

	return identity, targetID, true
}

func handleSwipeError(w http.ResponseWriter, err error) {
	if errors.Is(err, swipesvc.ErrValidation) {
		writeBadRequest(w, "VALIDATION_ERROR", "request validation failed")
		return
	}
	writeInternal(w, "INTERNAL_ERROR", "internal server error")
}

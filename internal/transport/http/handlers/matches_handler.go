package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	authsvc "github.com/NhutViet/tinder-backend/internal/services/auth"
	matchsvc "github.com/NhutViet/tinder-backend/internal/services/matches"
	"github.com/NhutViet/tinder-backend/internal/transport/http/dto"
	httperrors "github.com/NhutViet/tinder-backend/internal/transport/http/errors"
)

type MatchesHandler struct {
	service *matchsvc.Service
}

func NewMatchesHandler(service *matchsvc.Service) *MatchesHandler {
	return &MatchesHandler{service: service}
}

func (h *MatchesHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCH_SERVICE_UNAVAILABLE", "match service is unavailable")
		return
	}

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid limit")
			return
		}
		limit = parsed
	}

	items, err := h.service.List(r.Context(), identity.UserID, limit)
	if err != nil {
		handleMatchError(w, err)
		return
	}

	resp := dto.MatchListResponse{Matches: make([]dto.MatchItemResponse, 0, len(items))}
	for _, item := range items {
		resp.Matches = append(resp.Matches, dto.MatchItemResponse{
			ID:           item.ID,
			TargetUserID: item.TargetUserID,
			DisplayName:  item.DisplayName,
			Age:          item.Age,
			CreatedAt:    item.CreatedAt,
		})
	}

	httperrors.Write(w, http.StatusOK, resp)
}

func (h *MatchesHandler) GetWith(w http.ResponseWriter, r *http.Request) {
	identity, otherID, ok := h.withOther(w, r)
	if !ok {
		return
	}

	match, err := h.service.GetBetween(r.Context(), identity.UserID, otherID)
	if err != nil {
		handleMatchError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.MatchResponse{
		ID:        match.ID,
		UserAID:   match.UserAID,
		UserBID:   match.UserBID,
		CreatedAt: match.CreatedAt,
	})
}

func (h *MatchesHandler) CanChat(w http.ResponseWriter, r *http.Request) {
	identity, otherID, ok := h.withOther(w, r)
	if !ok {
		return
	}

	canChat, err := h.service.CanChat(r.Context(), identity.UserID, otherID)
	if err != nil {
		handleMatchError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.CanChatResponse{CanChat: canChat})
}

func (h *MatchesHandler) Unmatch(w http.ResponseWriter, r *http.Request) {
	identity, otherID, ok := h.withOther(w, r)
	if !ok {
		return
	}

	deleted, err := h.service.Unmatch(r.Context(), identity.UserID, otherID)
	if err != nil {
		handleMatchError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.UnmatchResponse{Deleted: deleted})
}

func (h *MatchesHandler) withOther(w http.ResponseWriter, r *http.Request) (authsvc.Identity, int64, bool) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return authsvc.Identity{}, 0, false
	}
	if h.service == nil {
		writeInternal(w, "MATCH_SERVICE_UNAVAILABLE", "match service is unavailable")
		return authsvc.Identity{}, 0, false
	}

	raw := chi.URLParam(r, "otherID")
	otherID, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || otherID <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid user id")
		return authsvc.Identity{}, 0, false
	}

	return identity, otherID, true
}

func handleMatchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, matchsvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "request validation failed")
	case errors.Is(err, matchsvc.ErrNotFound):
		writeNotFound(w, "MATCH_NOT_FOUND", "match not found")
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	authsvc "github.com/NhutViet/tinder-backend/internal/services/auth"
	feedsvc "github.com/NhutViet/tinder-backend/internal/services/feed"
	"github.com/NhutViet/tinder-backend/internal/transport/http/dto"
	httperrors "github.com/NhutViet/tinder-backend/internal/transport/http/errors"
)

type CandidateHandler struct {
	service *feedsvc.Service
}

func NewCandidateHandler(service *feedsvc.Service) *CandidateHandler {
	return &CandidateHandler{service: service}
}

func (h *CandidateHandler) Swipe(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "FEED_SERVICE_UNAVAILABLE", "feed service is unavailable")
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

	candidates, err := h.service.SwipeCandidates(r.Context(), identity.UserID, limit)
	if err != nil {
		handleFeedError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, toCandidateListResponse(candidates))
}

func (h *CandidateHandler) Home(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "FEED_SERVICE_UNAVAILABLE", "feed service is unavailable")
		return
	}

	page := 1
	if raw := strings.TrimSpace(r.URL.Query().Get("page")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid page")
			return
		}
		page = parsed
	}

	candidates, err := h.service.HomeCandidates(r.Context(), identity.UserID, page)
	if err != nil {
		handleFeedError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, toCandidateListResponse(candidates))
}

func handleFeedError(w http.ResponseWriter, err error) {
	if errors.Is(err, feedsvc.ErrValidation) {
		writeBadRequest(w, "VALIDATION_ERROR", "request validation failed")
		return
	}
	writeInternal(w, "INTERNAL_ERROR", "internal server error")
}

func toCandidateListResponse(candidates []feedsvc.Candidate) dto.CandidateListResponse {
	resp := dto.CandidateListResponse{Candidates: make([]dto.CandidateResponse, 0, len(candidates))}
	for _, c := range candidates {
		resp.Candidates = append(resp.Candidates, dto.CandidateResponse{
			ID:          c.ID,
			DisplayName: c.DisplayName,
			Age:         c.Age,
			Gender:      c.Gender,
			Bio:         c.Bio,
			Photos:      c.Photos,
			Interests:   c.Interests,
		})
	}
	return resp
}

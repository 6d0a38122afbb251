package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	authsvc "github.com/NhutViet/tinder-backend/internal/services/auth"
	userssvc "github.com/NhutViet/tinder-backend/internal/services/users"
	"github.com/NhutViet/tinder-backend/internal/transport/http/dto"
	httperrors "github.com/NhutViet/tinder-backend/internal/transport/http/errors"
)

type UserHandler struct {
	service *userssvc.Service
}

func NewUserHandler(service *userssvc.Service) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "USER_SERVICE_UNAVAILABLE", "user service is unavailable")
		return
	}

	userID, ok := userIDParam(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid user id")
		return
	}

	profile, err := h.service.GetByID(r.Context(), userID)
	if err != nil {
		handleUserError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, toUserResponse(profile, profile.ID == identity.UserID))
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := h.selfOnly(w, r)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	var birthdate *time.Time
	if req.Birthdate != nil {
		parsed, err := time.Parse(birthdateLayout, strings.TrimSpace(*req.Birthdate))
		if err != nil {
			writeBadRequest(w, "VALIDATION_ERROR", "birthdate must be YYYY-MM-DD")
			return
		}
		birthdate = &parsed
	}

	profile, err := h.service.Update(r.Context(), userID, userssvc.UpdateInput{
		DisplayName:  req.DisplayName,
		Gender:       req.Gender,
		InterestedIn: req.InterestedIn,
		Birthdate:    birthdate,
		Bio:          req.Bio,
		Photos:       req.Photos,
		Lat:          req.Lat,
		Lng:          req.Lng,
	})
	if err != nil {
		handleUserError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, toUserResponse(profile, true))
}

func (h *UserHandler) UpdateInterests(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := h.selfOnly(w, r)
	if !ok {
		return
	}

	var req dto.UpdateInterestsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	profile, err := h.service.UpdateInterests(r.Context(), userID, req.Interests)
	if err != nil {
		handleUserError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, toUserResponse(profile, true))
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := h.selfOnly(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID); err != nil {
		handleUserError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.DeleteUserResponse{OK: true})
}

func (h *UserHandler) selfOnly(w http.ResponseWriter, r *http.Request) (authsvc.Identity, int64, bool) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return authsvc.Identity{}, 0, false
	}
	if h.service == nil {
		writeInternal(w, "USER_SERVICE_UNAVAILABLE", "user service is unavailable")
		return authsvc.Identity{}, 0, false
	}

	userID, ok := userIDParam(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid user id")
		return authsvc.Identity{}, 0, false
	}
	if userID != identity.UserID {
		writeForbidden(w, "FORBIDDEN", "can only modify your own profile")
		return authsvc.Identity{}, 0, false
	}

	return identity, userID, true
}

func handleUserError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, userssvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "request validation failed")
	case errors.Is(err, userssvc.ErrNotFound):
		writeNotFound(w, "USER_NOT_FOUND", "user not found")
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}

func userIDParam(r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	userID, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || userID <= 0 {
		return 0, false
	}
	return userID, true
}

func toUserResponse(profile userssvc.Profile, includePrivate bool) dto.UserResponse {
	resp := dto.UserResponse{
		ID:          profile.ID,
		DisplayName: profile.DisplayName,
		Gender:      profile.Gender,
		Age:         profile.Age,
		Bio:         profile.Bio,
		Photos:      profile.Photos,
		Interests:   profile.Interests,
	}
	if includePrivate {
		resp.Email = profile.Email
		resp.InterestedIn = profile.InterestedIn
	}
	return resp
}

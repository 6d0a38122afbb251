package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	authsvc "github.com/NhutViet/tinder-backend/internal/services/auth"
	messagesvc "github.com/NhutViet/tinder-backend/internal/services/messages"
	"github.com/NhutViet/tinder-backend/internal/transport/http/dto"
	httperrors "github.com/NhutViet/tinder-backend/internal/transport/http/errors"
)

type MessagesHandler struct {
	service *messagesvc.Service
}

func NewMessagesHandler(service *messagesvc.Service) *MessagesHandler {
	return &MessagesHandler{service: service}
}

func (h *MessagesHandler) Send(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MESSAGE_SERVICE_UNAVAILABLE", "message service is unavailable")
		return
	}

	var req dto.SendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if req.ReceiverID <= 0 || strings.TrimSpace(req.Text) == "" {
		writeBadRequest(w, "VALIDATION_ERROR", "receiver_id and text are required")
		return
	}

	msg, err := h.service.Send(r.Context(), identity.UserID, req.ReceiverID, req.Text)
	if err != nil {
		handleMessageError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, toMessageResponse(msg))
}

func (h *MessagesHandler) ListWith(w http.ResponseWriter, r *http.Request) {
	identity, otherID, ok := h.otherParam(w, r)
	if !ok {
		return
	}

	limit, before, ok := listQuery(w, r)
	if !ok {
		return
	}

	msgs, err := h.service.ListBetween(r.Context(), identity.UserID, otherID, limit, before)
	if err != nil {
		handleMessageError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, toMessageListResponse(msgs))
}

func (h *MessagesHandler) ListByMatch(w http.ResponseWriter, r *http.Request) {
	_, matchID, ok := h.matchParam(w, r)
	if !ok {
		return
	}

	limit, before, ok := listQuery(w, r)
	if !ok {
		return
	}

	msgs, err := h.service.ListByMatch(r.Context(), matchID, limit, before)
	if err != nil {
		handleMessageError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, toMessageListResponse(msgs))
}

func (h *MessagesHandler) MarkSeenByMatch(w http.ResponseWriter, r *http.Request) {
	identity, matchID, ok := h.matchParam(w, r)
	if !ok {
		return
	}

	updated, err := h.service.MarkSeen(r.Context(), matchID, identity.UserID)
	if err != nil {
		handleMessageError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.MarkSeenResponse{Updated: updated})
}

func (h *MessagesHandler) MarkSeenFrom(w http.ResponseWriter, r *http.Request) {
	identity, otherID, ok := h.otherParam(w, r)
	if !ok {
		return
	}

	updated, err := h.service.MarkSeenFrom(r.Context(), identity.UserID, otherID)
	if err != nil {
		handleMessageError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.MarkSeenResponse{Updated: updated})
}

func (h *MessagesHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MESSAGE_SERVICE_UNAVAILABLE", "message service is unavailable")
		return
	}

	count, err := h.service.UnreadCount(r.Context(), identity.UserID)
	if err != nil {
		handleMessageError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.UnreadCountResponse{Count: count})
}

func (h *MessagesHandler) UnreadCountWith(w http.ResponseWriter, r *http.Request) {
	identity, otherID, ok := h.otherParam(w, r)
	if !ok {
		return
	}

	count, err := h.service.UnreadCountWith(r.Context(), identity.UserID, otherID)
	if err != nil {
		handleMessageError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.UnreadCountResponse{Count: count})
}

func (h *MessagesHandler) otherParam(w http.ResponseWriter, r *http.Request) (authsvc.Identity, int64, bool) {
	return h.int64Param(w, r, "otherID")
}

func (h *MessagesHandler) matchParam(w http.ResponseWriter, r *http.Request) (authsvc.Identity, int64, bool) {
	return h.int64Param(w, r, "matchID")
}

func (h *MessagesHandler) int64Param(w http.ResponseWriter, r *http.Request, name string) (authsvc.Identity, int64, bool) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return authsvc.Identity{}, 0, false
	}
	if h.service == nil {
		writeInternal(w, "MESSAGE_SERVICE_UNAVAILABLE", "message service is unavailable")
		return authsvc.Identity{}, 0, false
	}

	raw := chi.URLParam(r, name)
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || value <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid id")
		return authsvc.Identity{}, 0, false
	}

	return identity, value, true
}

func listQuery(w http.ResponseWriter, r *http.Request) (int, *time.Time, bool) {
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid limit")
			return 0, nil, false
		}
		limit = parsed
	}

	var before *time.Time
	if raw := strings.TrimSpace(r.URL.Query().Get("before")); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeBadRequest(w, "VALIDATION_ERROR", "before must be RFC3339")
			return 0, nil, false
		}
		before = &parsed
	}

	return limit, before, true
}

func handleMessageError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, messagesvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "request validation failed")
	case errors.Is(err, messagesvc.ErrNotMatched):
		writeForbidden(w, "NOT_MATCHED", "users are not matched")
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}

func toMessageResponse(msg messagesvc.Message) dto.MessageResponse {
	return dto.MessageResponse{
		ID:           msg.ID,
		MatchID:      msg.MatchID,
		SenderUserID: msg.SenderUserID,
		Text:         msg.Text,
		Seen:         msg.Seen,
		CreatedAt:    msg.CreatedAt,
	}
}

func toMessageListResponse(msgs []messagesvc.Message) dto.MessageListResponse {
	resp := dto.MessageListResponse{Messages: make([]dto.MessageResponse, 0, len(msgs))}
	for _, msg := range msgs {
		resp.Messages = append(resp.Messages, toMessageResponse(msg))
	}
	return resp
}

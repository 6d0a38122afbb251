package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pgrepo "github.com/NhutViet/tinder-backend/internal/repo/postgres"
	authsvc "github.com/NhutViet/tinder-backend/internal/services/auth"
	messagesvc "github.com/NhutViet/tinder-backend/internal/services/messages"
)

type handlerMatchStoreStub struct {
	matches map[[2]int64]pgrepo.MatchRecord
}

func newHandlerMatchStoreStub() *handlerMatchStoreStub {
	return &handlerMatchStoreStub{matches: map[[2]int64]pgrepo.MatchRecord{}}
}

func (s *handlerMatchStoreStub) add(id, a, b int64) {
	if a > b {
		a, b = b, a
	}
	s.matches[[2]int64{a, b}] = pgrepo.MatchRecord{ID: id, UserAID: a, UserBID: b, CreatedAt: time.Now()}
}

func (s *handlerMatchStoreStub) GetBetween(_ context.Context, userID, targetID int64) (pgrepo.MatchRecord, error) {
	a, b := userID, targetID
	if a > b {
		a, b = b, a
	}
	rec, ok := s.matches[[2]int64{a, b}]
	if !ok {
		return pgrepo.MatchRecord{}, pgrepo.ErrMatchNotFound
	}
	return rec, nil
}

type handlerMessageStoreStub struct {
	nextID   int64
	messages []pgrepo.MessageRecord
}

func (s *handlerMessageStoreStub) Insert(_ context.Context, matchID, senderUserID int64, text string) (pgrepo.MessageRecord, error) {
	s.nextID++
	rec := pgrepo.MessageRecord{
		ID:           s.nextID,
		MatchID:      matchID,
		SenderUserID: senderUserID,
		Text:         text,
		CreatedAt:    time.Now(),
	}
	s.messages = append(s.messages, rec)
	return rec, nil
}

func (s *handlerMessageStoreStub) ListByMatch(_ context.Context, matchID int64, limit int, _ *time.Time) ([]pgrepo.MessageRecord, error) {
	out := []pgrepo.MessageRecord{}
	for i := len(s.messages) - 1; i >= 0 && len(out) < limit; i-- {
		if s.messages[i].MatchID == matchID {
			out = append(out, s.messages[i])
		}
	}
	return out, nil
}

func (s *handlerMessageStoreStub) MarkSeen(_ context.Context, matchID, viewerUserID int64) (int, error) {
	updated := 0
	for i := range s.messages {
		m := &s.messages[i]
		if m.MatchID == matchID && m.SenderUserID != viewerUserID && !m.Seen {
			m.Seen = true
			updated++
		}
	}
	return updated, nil
}

func (s *handlerMessageStoreStub) MarkSeenFromSender(_ context.Context, matchID, senderUserID int64) (int, error) {
	updated := 0
	for i := range s.messages {
		m := &s.messages[i]
		if m.MatchID == matchID && m.SenderUserID == senderUserID && !m.Seen {
			m.Seen = true
			updated++
		}
	}
	return updated, nil
}

func (s *handlerMessageStoreStub) CountUnreadForUser(_ context.Context, userID int64) (int, error) {
	count := 0
	for _, m := range s.messages {
		if m.SenderUserID != userID && !m.Seen {
			count++
		}
	}
	return count, nil
}

func (s *handlerMessageStoreStub) CountUnreadInMatch(_ context.Context, matchID, viewerUserID int64) (int, error) {
	count := 0
	for _, m := range s.messages {
		if m.MatchID == matchID && m.SenderUserID != viewerUserID && !m.Seen {
			count++
		}
	}
	return count, nil
}

func performSendRequest(t *testing.T, h *MessagesHandler, senderID, receiverID int64, text string) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(map[string]any{
		"receiver_id": receiverID,
		"text":        text,
	})
	if err != nil {
		t.Fatalf("marshal request body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/messages", bytes.NewReader(body))
	req = req.WithContext(authsvc.WithIdentity(context.Background(), authsvc.Identity{
		UserID: senderID,
		SID:    "sid-tests",
	}))
	rec := httptest.NewRecorder()
	h.Send(rec, req)
	return rec
}

func TestMessagesHandlerSendRequiresMatch(t *testing.T) {
	matches := newHandlerMatchStoreStub()
	svc := messagesvc.NewService(&handlerMessageStoreStub{}, matches)
	h := NewMessagesHandler(svc)

	resp := performSendRequest(t, h, 1, 2, "hi there")
	if resp.Code != http.StatusForbidden {
		t.Fatalf("unexpected status: got %d want %d", resp.Code, http.StatusForbidden)
	}

	var payload struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Code != "NOT_MATCHED" {
		t.Fatalf("unexpected error code: got %q want %q", payload.Code, "NOT_MATCHED")
	}
}

func TestMessagesHandlerSendCreatesMessage(t *testing.T) {
	matches := newHandlerMatchStoreStub()
	matches.add(77, 1, 2)
	svc := messagesvc.NewService(&handlerMessageStoreStub{}, matches)
	h := NewMessagesHandler(svc)

	resp := performSendRequest(t, h, 1, 2, "  hi there  ")
	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status: got %d want %d", resp.Code, http.StatusCreated)
	}

	var payload struct {
		ID           int64  `json:"id"`
		MatchID      int64  `json:"match_id"`
		SenderUserID int64  `json:"sender_user_id"`
		Text         string `json:"text"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.MatchID != 77 || payload.SenderUserID != 1 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if payload.Text != "hi there" {
		t.Fatalf("text not trimmed: %q", payload.Text)
	}
}

func TestMessagesHandlerSendRejectsEmptyBody(t *testing.T) {
	matches := newHandlerMatchStoreStub()
	matches.add(77, 1, 2)
	svc := messagesvc.NewService(&handlerMessageStoreStub{}, matches)
	h := NewMessagesHandler(svc)

	resp := performSendRequest(t, h, 1, 2, "   ")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", resp.Code, http.StatusBadRequest)
	}
}

func TestMessagesHandlerSendRequiresIdentity(t *testing.T) {
	matches := newHandlerMatchStoreStub()
	svc := messagesvc.NewService(&handlerMessageStoreStub{}, matches)
	h := NewMessagesHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/messages", bytes.NewReader([]byte(`{"receiver_id":2,"text":"hi"}`)))
	rec := httptest.NewRecorder()
	h.Send(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestMessagesHandlerUnreadCount(t *testing.T) {
	matches := newHandlerMatchStoreStub()
	matches.add(77, 1, 2)
	store := &handlerMessageStoreStub{}
	svc := messagesvc.NewService(store, matches)
	h := NewMessagesHandler(svc)

	if resp := performSendRequest(t, h, 2, 1, "one"); resp.Code != http.StatusCreated {
		t.Fatalf("send one: status %d", resp.Code)
	}
	if resp := performSendRequest(t, h, 2, 1, "two"); resp.Code != http.StatusCreated {
		t.Fatalf("send two: status %d", resp.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/messages/unread/count", nil)
	req = req.WithContext(authsvc.WithIdentity(context.Background(), authsvc.Identity{
		UserID: 1,
		SID:    "sid-tests",
	}))
	rec := httptest.NewRecorder()
	h.UnreadCount(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusOK)
	}

	var payload struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Count != 2 {
		t.Fatalf("unexpected unread count: got %d want 2", payload.Count)
	}
}

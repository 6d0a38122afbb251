package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pgrepo "github.com/NhutViet/tinder-backend/internal/repo/postgres"
	authsvc "github.com/NhutViet/tinder-backend/internal/services/auth"
	feedsvc "github.com/NhutViet/tinder-backend/internal/services/feed"
)

type feedUserStoreStub struct {
	users map[int64]pgrepo.UserRecord
}

func (s *feedUserStoreStub) GetByID(_ context.Context, userID int64) (pgrepo.UserRecord, error) {
	rec, ok := s.users[userID]
	if !ok {
		return pgrepo.UserRecord{}, pgrepo.ErrUserNotFound
	}
	return rec, nil
}

func (s *feedUserStoreStub) ListCandidates(_ context.Context, q pgrepo.CandidateQuery) ([]pgrepo.UserRecord, error) {
	allowed := map[string]bool{}
	for _, g := range q.Genders {
		allowed[g] = true
	}

	out := []pgrepo.UserRecord{}
	for id := int64(1); id <= 100; id++ {
		rec, ok := s.users[id]
		if !ok || rec.ID == q.ViewerUserID {
			continue
		}
		if !allowed[rec.Gender] {
			continue
		}
		if q.RequireInterests && len(rec.Interests) == 0 {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func feedUser(id int64, gender, interestedIn string) pgrepo.UserRecord {
	return pgrepo.UserRecord{
		ID:           id,
		DisplayName:  "user",
		Gender:       gender,
		InterestedIn: interestedIn,
		Birthdate:    time.Date(1995, time.March, 10, 0, 0, 0, 0, time.UTC),
	}
}

func performCandidatesRequest(t *testing.T, h *CandidateHandler, viewerID int64, target string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	req = req.WithContext(authsvc.WithIdentity(context.Background(), authsvc.Identity{
		UserID: viewerID,
		SID:    "sid-tests",
	}))
	rec := httptest.NewRecorder()
	h.Swipe(rec, req)
	return rec
}

func TestCandidateHandlerSwipeFiltersByCompatibility(t *testing.T) {
	store := &feedUserStoreStub{users: map[int64]pgrepo.UserRecord{
		1: feedUser(1, "female", "male"),
		2: feedUser(2, "male", "female"),
		3: feedUser(3, "male", "male"),
		4: feedUser(4, "female", "male"),
	}}
	h := NewCandidateHandler(feedsvc.NewService(store))

	resp := performCandidatesRequest(t, h, 1, "/candidates/swipe")
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", resp.Code, http.StatusOK)
	}

	var payload struct {
		Candidates []struct {
			ID     int64  `json:"id"`
			Gender string `json:"gender"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(payload.Candidates) != 1 {
		t.Fatalf("unexpected candidate count: got %d want 1 (%+v)", len(payload.Candidates), payload.Candidates)
	}
	if payload.Candidates[0].ID != 2 {
		t.Fatalf("unexpected candidate: got id %d want 2", payload.Candidates[0].ID)
	}
}

func TestCandidateHandlerSwipeRejectsBadLimit(t *testing.T) {
	store := &feedUserStoreStub{users: map[int64]pgrepo.UserRecord{}}
	h := NewCandidateHandler(feedsvc.NewService(store))

	resp := performCandidatesRequest(t, h, 1, "/candidates/swipe?limit=abc")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", resp.Code, http.StatusBadRequest)
	}
}

func TestCandidateHandlerSwipeUnknownViewerIsEmpty(t *testing.T) {
	store := &feedUserStoreStub{users: map[int64]pgrepo.UserRecord{}}
	h := NewCandidateHandler(feedsvc.NewService(store))

	resp := performCandidatesRequest(t, h, 9, "/candidates/swipe")
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", resp.Code, http.StatusOK)
	}

	var payload struct {
		Candidates []json.RawMessage `json:"candidates"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Candidates) != 0 {
		t.Fatalf("expected empty feed, got %d candidates", len(payload.Candidates))
	}
}

func TestCandidateHandlerSwipeRequiresIdentity(t *testing.T) {
	store := &feedUserStoreStub{users: map[int64]pgrepo.UserRecord{}}
	h := NewCandidateHandler(feedsvc.NewService(store))

	req := httptest.NewRequest(http.MethodGet, "/candidates/swipe", nil)
	rec := httptest.NewRecorder()
	h.Swipe(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusUnauthorized)
	}
}

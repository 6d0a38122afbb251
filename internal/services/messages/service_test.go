package messages

import (
	"context"
	"errors"
	"testing"
	"time"

	pgrepo "github.com/NhutViet/tinder-backend/internal/repo/postgres"
)

type matchStoreStub struct {
	byPair map[[2]int64]pgrepo.MatchRecord
}

func newMatchStoreStub() *matchStoreStub {
	return &matchStoreStub{byPair: map[[2]int64]pgrepo.MatchRecord{}}
}

func (s *matchStoreStub) add(id, a, b int64) {
	if a > b {
		a, b = b, a
	}
	s.byPair[[2]int64{a, b}] = pgrepo.MatchRecord{ID: id, UserAID: a, UserBID: b}
}

func (s *matchStoreStub) GetBetween(_ context.Context, userID, targetID int64) (pgrepo.MatchRecord, error) {
	a, b := userID, targetID
	if a > b {
		a, b = b, a
	}
	rec, ok := s.byPair[[2]int64{a, b}]
	if !ok {
		return pgrepo.MatchRecord{}, pgrepo.ErrMatchNotFound
	}
	return rec, nil
}

type messageStoreStub struct {
	nextID   int64
	messages []pgrepo.MessageRecord
	clock    time.Time
}

func newMessageStoreStub() *messageStoreStub {
	return &messageStoreStub{clock: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func (s *messageStoreStub) Insert(_ context.Context, matchID, senderUserID int64, text string) (pgrepo.MessageRecord, error) {
	s.nextID++
	s.clock = s.clock.Add(time.Second)
	rec := pgrepo.MessageRecord{
		ID:           s.nextID,
		MatchID:      matchID,
		SenderUserID: senderUserID,
		Text:         text,
		CreatedAt:    s.clock,
	}
	s.messages = append(s.messages, rec)
	return rec, nil
}

func (s *messageStoreStub) ListByMatch(_ context.Context, matchID int64, limit int, before *time.Time) ([]pgrepo.MessageRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	var out []pgrepo.MessageRecord
	for i := len(s.messages) - 1; i >= 0 && len(out) < limit; i-- {
		rec := s.messages[i]
		if rec.MatchID != matchID {
			continue
		}
		if before != nil && !rec.CreatedAt.Before(*before) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *messageStoreStub) MarkSeen(_ context.Context, matchID, viewerUserID int64) (int, error) {
	n := 0
	for i, rec := range s.messages {
		if rec.MatchID == matchID && rec.SenderUserID != viewerUserID && !rec.Seen {
			s.messages[i].Seen = true
			n++
		}
	}
	return n, nil
}

func (s *messageStoreStub) MarkSeenFromSender(_ context.Context, matchID, senderUserID int64) (int, error) {
	n := 0
	for i, rec := range s.messages {
		if rec.MatchID == matchID && rec.SenderUserID == senderUserID && !rec.Seen {
			s.messages[i].Seen = true
			n++
		}
	}
	return n, nil
}

func (s *messageStoreStub) CountUnreadForUser(_ context.Context, userID int64) (int, error) {
	n := 0
	for _, rec := range s.messages {
		if rec.SenderUserID != userID && !rec.Seen {
			n++
		}
	}
	return n, nil
}

func (s *messageStoreStub) CountUnreadInMatch(_ context.Context, matchID, viewerUserID int64) (int, error) {
	n := 0
	for _, rec := range s.messages {
		if rec.MatchID == matchID && rec.SenderUserID != viewerUserID && !rec.Seen {
			n++
		}
	}
	return n, nil
}

func newServiceForTest() (*Service, *matchStoreStub, *messageStoreStub) {
	matches := newMatchStoreStub()
	store := newMessageStoreStub()
	return NewService(store, matches), matches, store
}

func TestSendRequiresMatch(t *testing.T) {
	svc, _, store := newServiceForTest()

	if _, err := svc.Send(context.Background(), 1, 2, "hey"); !errors.Is(err, ErrNotMatched) {
		t.Fatalf("expected not matched, got %v", err)
	}
	if len(store.messages) != 0 {
		t.Fatalf("no message should be stored without a match")
	}
}

func TestSendTrimsAndStores(t *testing.T) {
	svc, matches, _ := newServiceForTest()
	matches.add(10, 1, 2)
	ctx := context.Background()

	msg, err := svc.Send(ctx, 1, 2, "  hello there  ")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if msg.Text != "hello there" {
		t.Fatalf("unexpected text: got %q", msg.Text)
	}
	if msg.MatchID != 10 {
		t.Fatalf("unexpected match id: got %d want 10", msg.MatchID)
	}
	if msg.Seen {
		t.Fatalf("new message must start unseen")
	}

	if _, err := svc.Send(ctx, 1, 2, "   "); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank text should be rejected, got %v", err)
	}
}

func TestListBetweenUnmatchedPairIsEmpty(t *testing.T) {
	svc, _, _ := newServiceForTest()

	msgs, err := svc.ListBetween(context.Background(), 1, 2, 0, nil)
	if err != nil {
		t.Fatalf("list between: %v", err)
	}
	if len(msgs) != 0 {
		t.Fatalf("unmatched pair should yield no messages, got %d", len(msgs))
	}
}

func TestListBetweenNewestFirst(t *testing.T) {
	svc, matches, _ := newServiceForTest()
	matches.add(10, 1, 2)
	ctx := context.Background()

	for _, text := range []string{"first", "second", "third"} {
		if _, err := svc.Send(ctx, 1, 2, text); err != nil {
			t.Fatalf("send %q: %v", text, err)
		}
	}

	msgs, err := svc.ListBetween(ctx, 2, 1, 0, nil)
	if err != nil {
		t.Fatalf("list between: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("unexpected message count: got %d want 3", len(msgs))
	}
	if msgs[0].Text != "third" || msgs[2].Text != "first" {
		t.Fatalf("messages should be newest first: %q, %q, %q", msgs[0].Text, msgs[1].Text, msgs[2].Text)
	}
}

func TestMarkSeenSkipsOwnMessages(t *testing.T) {
	svc, matches, _ := newServiceForTest()
	matches.add(10, 1, 2)
	ctx := context.Background()

	if _, err := svc.Send(ctx, 1, 2, "from one"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := svc.Send(ctx, 2, 1, "from two"); err != nil {
		t.Fatalf("send: %v", err)
	}

	n, err := svc.MarkSeen(ctx, 10, 2)
	if err != nil {
		t.Fatalf("mark seen: %v", err)
	}
	if n != 1 {
		t.Fatalf("viewer 2 should mark exactly the incoming message, got %d", n)
	}

	n, err = svc.MarkSeen(ctx, 10, 2)
	if err != nil {
		t.Fatalf("repeat mark seen: %v", err)
	}
	if n != 0 {
		t.Fatalf("repeat mark seen should change nothing, got %d", n)
	}
}

func TestUnreadCounts(t *testing.T) {
	svc, matches, _ := newServiceForTest()
	matches.add(10, 1, 2)
	matches.add(11, 1, 3)
	ctx := context.Background()

	if _, err := svc.Send(ctx, 2, 1, "hi"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := svc.Send(ctx, 3, 1, "hello"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := svc.Send(ctx, 3, 1, "you there?"); err != nil {
		t.Fatalf("send: %v", err)
	}

	total, err := svc.UnreadCount(ctx, 1)
	if err != nil {
		t.Fatalf("unread count: %v", err)
	}
	if total != 3 {
		t.Fatalf("unexpected total unread: got %d want 3", total)
	}

	with3, err := svc.UnreadCountWith(ctx, 1, 3)
	if err != nil {
		t.Fatalf("unread count with: %v", err)
	}
	if with3 != 2 {
		t.Fatalf("unexpected unread with 3: got %d want 2", with3)
	}

	with9, err := svc.UnreadCountWith(ctx, 1, 9)
	if err != nil {
		t.Fatalf("unread count with unmatched: %v", err)
	}
	if with9 != 0 {
		t.Fatalf("unmatched pair unread should be 0, got %d", with9)
	}
}

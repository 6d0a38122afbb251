package messages

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	pgrepo "github.com/NhutViet/tinder-backend/internal/repo/postgres"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotMatched = errors.New("users are not matched")
)

type MessageStore interface {
	Insert(ctx context.Context, matchID, senderUserID int64, text string) (pgrepo.MessageRecord, error)
	ListByMatch(ctx context.Context, matchID int64, limit int, before *time.Time) ([]pgrepo.MessageRecord, error)
	MarkSeen(ctx context.Context, matchID, viewerUserID int64) (int, error)
	MarkSeenFromSender(ctx context.Context, matchID, senderUserID int64) (int, error)
	CountUnreadForUser(ctx context.Context, userID int64) (int, error)
	CountUnreadInMatch(ctx context.Context, matchID, viewerUserID int64) (int, error)
}

type MatchStore interface {
	GetBetween(ctx context.Context, userID, targetID int64) (pgrepo.MatchRecord, error)
}

type Message struct {
	ID           int64
	MatchID      int64
	SenderUserID int64
	Text         string
	Seen         bool
	CreatedAt    time.Time
}

type Service struct {
	messageStore MessageStore
	matchStore   MatchStore
}

func NewService(messageStore MessageStore, matchStore MatchStore) *Service {
	return &Service{
		messageStore: messageStore,
		matchStore:   matchStore,
	}
}

// Send resolves the match between the pair once and appends the message
// under that match id.
func (s *Service) Send(ctx context.Context, senderUserID, receiverUserID int64, text string) (Message, error) {
	if senderUserID <= 0 || receiverUserID <= 0 || senderUserID == receiverUserID {
		return Message{}, ErrValidation
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, ErrValidation
	}

	match, err := s.matchStore.GetBetween(ctx, senderUserID, receiverUserID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrMatchNotFound) {
			return Message{}, ErrNotMatched
		}
		return Message{}, fmt.Errorf("resolve match: %w", err)
	}

	rec, err := s.messageStore.Insert(ctx, match.ID, senderUserID, text)
	if err != nil {
		if errors.Is(err, pgrepo.ErrMatchNotFound) {
			return Message{}, ErrNotMatched
		}
		return Message{}, fmt.Errorf("insert message: %w", err)
	}

	return toMessage(rec), nil
}

func (s *Service) ListByMatch(ctx context.Context, matchID int64, limit int, before *time.Time) ([]Message, error) {
	if matchID <= 0 {
		return nil, ErrValidation
	}

	recs, err := s.messageStore.ListByMatch(ctx, matchID, limit, before)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	return toMessages(recs), nil
}

// ListBetween resolves the pair's match and lists its messages. An
// unmatched pair yields an empty slice, not an error.
func (s *Service) ListBetween(ctx context.Context, userID, otherUserID int64, limit int, before *time.Time) ([]Message, error) {
	if userID <= 0 || otherUserID <= 0 || userID == otherUserID {
		return nil, ErrValidation
	}

	match, err := s.matchStore.GetBetween(ctx, userID, otherUserID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrMatchNotFound) {
			return []Message{}, nil
		}
		return nil, fmt.Errorf("resolve match: %w", err)
	}

	return s.ListByMatch(ctx, match.ID, limit, before)
}

// MarkSeen flips the unseen messages the viewer did not send. Returns
// how many rows changed.
func (s *Service) MarkSeen(ctx context.Context, matchID, viewerUserID int64) (int, error) {
	if matchID <= 0 || viewerUserID <= 0 {
		return 0, ErrValidation
	}

	n, err := s.messageStore.MarkSeen(ctx, matchID, viewerUserID)
	if err != nil {
		return 0, fmt.Errorf("mark seen: %w", err)
	}
	return n, nil
}

func (s *Service) MarkSeenFrom(ctx context.Context, viewerUserID, senderUserID int64) (int, error) {
	if viewerUserID <= 0 || senderUserID <= 0 || viewerUserID == senderUserID {
		return 0, ErrValidation
	}

	match, err := s.matchStore.GetBetween(ctx, viewerUserID, senderUserID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrMatchNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("resolve match: %w", err)
	}

	n, err := s.messageStore.MarkSeenFromSender(ctx, match.ID, senderUserID)
	if err != nil {
		return 0, fmt.Errorf("mark seen from sender: %w", err)
	}
	return n, nil
}

func (s *Service) UnreadCount(ctx context.Context, viewerUserID int64) (int, error) {
	if viewerUserID <= 0 {
		return 0, ErrValidation
	}

	n, err := s.messageStore.CountUnreadForUser(ctx, viewerUserID)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return n, nil
}

func (s *Service) UnreadCountWith(ctx context.Context, viewerUserID, otherUserID int64) (int, error) {
	if viewerUserID <= 0 || otherUserID <= 0 || viewerUserID == otherUserID {
		return 0, ErrValidation
	}

	match, err := s.matchStore.GetBetween(ctx, viewerUserID, otherUserID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrMatchNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("resolve match: %w", err)
	}

	n, err := s.messageStore.CountUnreadInMatch(ctx, match.ID, viewerUserID)
	if err != nil {
		return 0, fmt.Errorf("count unread in match: %w", err)
	}
	return n, nil
}

func toMessage(rec pgrepo.MessageRecord) Message {
	return Message{
		ID:           rec.ID,
		MatchID:      rec.MatchID,
		SenderUserID: rec.SenderUserID,
		Text:         rec.Text,
		Seen:         rec.Seen,
		CreatedAt:    rec.CreatedAt,
	}
}

func toMessages(recs []pgrepo.MessageRecord) []Message {
	out := make([]Message, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toMessage(rec))
	}
	return out
}

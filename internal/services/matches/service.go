package matches

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	pgrepo "github.com/NhutViet/tinder-backend/internal/repo/postgres"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("match not found")
)

type MatchStore interface {
	GetBetween(ctx context.Context, userID, targetID int64) (pgrepo.MatchRecord, error)
	ListForUser(ctx context.Context, userID int64, limit int) ([]pgrepo.MatchListRecord, error)
	DeleteByUsers(ctx context.Context, tx pgx.Tx, userID, targetID int64) (bool, error)
}

type Match struct {
	ID        int64
	UserAID   int64
	UserBID   int64
	CreatedAt time.Time
}

type MatchItem struct {
	ID           int64
	TargetUserID int64
	DisplayName  string
	Age          int
	CreatedAt    time.Time
}

type Service struct {
	store MatchStore
	runTx func(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
}

func NewService(pool *pgxpool.Pool, store MatchStore) *Service {
	return &Service{
		store: store,
		runTx: func(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
			return pgrepo.WithTx(ctx, pool, fn)
		},
	}
}

func (s *Service) List(ctx context.Context, userID int64, limit int) ([]MatchItem, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if s.store == nil {
		return nil, fmt.Errorf("match store is nil")
	}

	rows, err := s.store.ListForUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	items := make([]MatchItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, MatchItem{
			ID:           row.ID,
			TargetUserID: row.TargetUserID,
			DisplayName:  row.DisplayName,
			Age:          row.Age,
			CreatedAt:    row.CreatedAt,
		})
	}
	return items, nil
}

func (s *Service) GetBetween(ctx context.Context, userID, targetID int64) (Match, error) {
	if userID <= 0 || targetID <= 0 || userID == targetID {
		return Match{}, ErrValidation
	}

	rec, err := s.store.GetBetween(ctx, userID, targetID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrMatchNotFound) {
			return Match{}, ErrNotFound
		}
		return Match{}, fmt.Errorf("get match: %w", err)
	}

	return Match{
		ID:        rec.ID,
		UserAID:   rec.UserAID,
		UserBID:   rec.UserBID,
		CreatedAt: rec.CreatedAt,
	}, nil
}

func (s *Service) CanChat(ctx context.Context, userID, targetID int64) (bool, error) {
	_, err := s.GetBetween(ctx, userID, targetID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *Service) Unmatch(ctx context.Context, userID, targetID int64) (bool, error) {
	if userID <= 0 || targetID <= 0 || userID == targetID {
		return false, ErrValidation
	}
	if s.store == nil {
		return false, fmt.Errorf("match store is nil")
	}

	var deleted bool
	if err := s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		ok, err := s.store.DeleteByUsers(txCtx, tx, userID, targetID)
		if err != nil {
			return err
		}
		deleted = ok
		return nil
	}); err != nil {
		return false, err
	}

	return deleted, nil
}

package swipes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/NhutViet/tinder-backend/internal/domain/enums"
	"github.com/NhutViet/tinder-backend/internal/domain/rules"
	pgrepo "github.com/NhutViet/tinder-backend/internal/repo/postgres"
)

var (
	ErrValidation     = errors.New("validation error")
	ErrDuplicateSwipe = pgrepo.ErrDuplicateSwipe
)

type SwipeStore interface {
	Create(ctx context.Context, tx pgx.Tx, actorUserID, targetUserID int64, decision string, now time.Time) (pgrepo.SwipeRecord, error)
	Exists(ctx context.Context, actorUserID, targetUserID int64) (bool, error)
	LikeExists(ctx context.Context, actorUserID, targetUserID int64) (bool, error)
	ListTargetIDs(ctx context.Context, actorUserID int64) ([]int64, error)
	DailyStats(ctx context.Context, actorUserID int64, from, to time.Time) (pgrepo.SwipeStatsRecord, error)
}

type MatchStore interface {
	CreateIfMutualLike(ctx context.Context, tx pgx.Tx, userID, targetID int64) (bool, error)
}

type SwipeResult struct {
	Swipe        pgrepo.SwipeRecord
	MatchCreated bool
}

type DailyStats struct {
	Likes    int
	Dislikes int
	Total    int
}

type Service struct {
	swipeStore SwipeStore
	matchStore MatchStore
	runTx      func(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
	now        func() time.Time
}

type Dependencies struct {
	Pool       *pgxpool.Pool
	SwipeStore SwipeStore
	MatchStore MatchStore
}

func NewService(deps Dependencies) *Service {
	return &Service{
		swipeStore: deps.SwipeStore,
		matchStore: deps.MatchStore,
		runTx: func(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
			return pgrepo.WithTx(ctx, deps.Pool, fn)
		},
		now: time.Now,
	}
}

// Swipe appends the actor's decision and, on a reciprocal like, forms the
// match in the same transaction.
func (s *Service) Swipe(ctx context.Context, actorUserID, targetUserID int64, decision string) (SwipeResult, error) {
	if actorUserID <= 0 || targetUserID <= 0 || actorUserID == targetUserID {
		return SwipeResult{}, ErrValidation
	}
	parsed, err := enums.ParseSwipeDecision(decision)
	if err != nil {
		return SwipeResult{}, ErrValidation
	}
	if s.swipeStore == nil || s.matchStore == nil {
		return SwipeResult{}, fmt.Errorf("swipe dependencies are not configured")
	}

	now := s.now().UTC()
	var result SwipeResult
	if err := s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		swipe, err := s.swipeStore.Create(txCtx, tx, actorUserID, targetUserID, string(parsed), now)
		if err != nil {
			return err
		}
		result.Swipe = swipe

		if parsed == enums.SwipeDecisionLike {
			created, err := s.matchStore.CreateIfMutualLike(txCtx, tx, actorUserID, targetUserID)
			if err != nil {
				return err
			}
			result.MatchCreated = created
		}
		return nil
	}); err != nil {
		if errors.Is(err, pgrepo.ErrDuplicateSwipe) {
			return SwipeResult{}, ErrDuplicateSwipe
		}
		return SwipeResult{}, fmt.Errorf("record swipe: %w", err)
	}

	return result, nil
}

func (s *Service) HasDecided(ctx context.Context, actorUserID, targetUserID int64) (bool, error) {
	if actorUserID <= 0 || targetUserID <= 0 {
		return false, ErrValidation
	}

	exists, err := s.swipeStore.Exists(ctx, actorUserID, targetUserID)
	if err != nil {
		return false, fmt.Errorf("check swipe: %w", err)
	}
	return exists, nil
}

// HasLikedMe reports whether target already liked the actor.
func (s *Service) HasLikedMe(ctx context.Context, actorUserID, targetUserID int64) (bool, error) {
	if actorUserID <= 0 || targetUserID <= 0 {
		return false, ErrValidation
	}

	liked, err := s.swipeStore.LikeExists(ctx, targetUserID, actorUserID)
	if err != nil {
		return false, fmt.Errorf("check incoming like: %w", err)
	}
	return liked, nil
}

func (s *Service) ListDecidedTargets(ctx context.Context, actorUserID int64) ([]int64, error) {
	if actorUserID <= 0 {
		return nil, ErrValidation
	}

	ids, err := s.swipeStore.ListTargetIDs(ctx, actorUserID)
	if err != nil {
		return nil, fmt.Errorf("list decided targets: %w", err)
	}
	return ids, nil
}

func (s *Service) DailyStats(ctx context.Context, actorUserID int64, day time.Time) (DailyStats, error) {
	if actorUserID <= 0 {
		return DailyStats{}, ErrValidation
	}
	if day.IsZero() {
		day = s.now()
	}

	from, to := rules.DayRange(day)
	rec, err := s.swipeStore.DailyStats(ctx, actorUserID, from, to)
	if err != nil {
		return DailyStats{}, fmt.Errorf("load swipe stats: %w", err)
	}

	return DailyStats{
		Likes:    rec.Likes,
		Dislikes: rec.Dislikes,
		Total:    rec.Total,
	}, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDuplicateSwipe covers both the pre-check and the UNIQUE
// (actor_user_id, target_user_id) constraint firing under a race, so
// callers see the same failure either way.
var ErrDuplicateSwipe = errors.New("swipe already recorded for this target")

type SwipeRepo struct {
	pool *pgxpool.Pool
}

func NewSwipeRepo(pool *pgxpool.Pool) *SwipeRepo {
	return &SwipeRepo{pool: pool}
}

type SwipeRecord struct {
	ID           int64
	ActorUserID  int64
	TargetUserID int64
	Decision     string
	CreatedAt    time.Time
}

type SwipeStatsRecord struct {
	Likes    int
	Dislikes int
	Total    int
}

func (r *SwipeRepo) Create(ctx context.Context, tx pgx.Tx, actorUserID, targetUserID int64, decision string, now time.Time) (SwipeRecord, error) {
	if actorUserID <= 0 || targetUserID <= 0 || strings.TrimSpace(decision) == "" {
		return SwipeRecord{}, fmt.Errorf("invalid swipe payload")
	}
	if tx == nil {
		return SwipeRecord{}, fmt.Errorf("transaction is required")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	var rec SwipeRecord
	err := tx.QueryRow(ctx, `
INSERT INTO swipes (
	actor_user_id,
	target_user_id,
	decision,
	created_at
) VALUES ($1, $2, $3, $4)
RETURNING id, actor_user_id, target_user_id, decision, created_at
`, actorUserID, targetUserID, strings.ToLower(strings.TrimSpace(decision)), now.UTC()).Scan(
		&rec.ID,
		&rec.ActorUserID,
		&rec.TargetUserID,
		&rec.Decision,
		&rec.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return SwipeRecord{}, ErrDuplicateSwipe
		}
		return SwipeRecord{}, fmt.Errorf("create swipe: %w", err)
	}

	return rec, nil
}

func (r *SwipeRepo) Exists(ctx context.Context, actorUserID, targetUserID int64) (bool, error) {
	if actorUserID <= 0 || targetUserID <= 0 {
		return false, fmt.Errorf("invalid swipe lookup payload")
	}
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}

	var one int
	err := r.pool.QueryRow(ctx, `
SELECT 1
FROM swipes
WHERE actor_user_id = $1 AND target_user_id = $2
LIMIT 1
`, actorUserID, targetUserID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("lookup swipe: %w", err)
	}

	return true, nil
}

func (r *SwipeRepo) LikeExists(ctx context.Context, actorUserID, targetUserID int64) (bool, error) {
	if actorUserID <= 0 || targetUserID <= 0 {
		return false, fmt.Errorf("invalid like lookup payload")
	}
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}

	var one int
	err := r.pool.QueryRow(ctx, `
SELECT 1
FROM swipes
WHERE actor_user_id = $1 AND target_user_id = $2 AND decision = 'like'
LIMIT 1
`, actorUserID, targetUserID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("lookup like: %w", err)
	}

	return true, nil
}

func (r *SwipeRepo) ListTargetIDs(ctx context.Context, actorUserID int64) ([]int64, error) {
	if actorUserID <= 0 {
		return nil, fmt.Errorf("invalid actor user id")
	}
	if r.pool == nil {
		return []int64{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT target_user_id
FROM swipes
WHERE actor_user_id = $1
ORDER BY created_at DESC, id DESC
`, actorUserID)
	if err != nil {
		return nil, fmt.Errorf("list decided targets: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan decided target: %w", err)
		}
		ids = append(ids, id)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate decided targets: %w", rows.Err())
	}

	return ids, nil
}

func (r *SwipeRepo) DailyStats(ctx context.Context, actorUserID int64, from, to time.Time) (SwipeStatsRecord, error) {
	if actorUserID <= 0 {
		return SwipeStatsRecord{}, fmt.Errorf("invalid actor user id")
	}
	if r.pool == nil {
		return SwipeStatsRecord{}, nil
	}

	var stats SwipeStatsRecord
	err := r.pool.QueryRow(ctx, `
SELECT
	COUNT(*) FILTER (WHERE decision = 'like'),
	COUNT(*) FILTER (WHERE decision = 'dislike'),
	COUNT(*)
FROM swipes
WHERE actor_user_id = $1 AND created_at >= $2 AND created_at < $3
`, actorUserID, from.UTC(), to.UTC()).Scan(&stats.Likes, &stats.Dislikes, &stats.Total)
	if err != nil {
		return SwipeStatsRecord{}, fmt.Errorf("count swipe stats: %w", err)
	}

	return stats, nil
}

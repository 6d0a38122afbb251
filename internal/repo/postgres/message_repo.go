package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

type MessageRecord struct {
	ID           int64
	MatchID      int64
	SenderUserID int64
	Text         string
	Seen         bool
	CreatedAt    time.Time
}

func (r *MessageRepo) Insert(ctx context.Context, matchID, senderUserID int64, text string) (MessageRecord, error) {
	if matchID <= 0 || senderUserID <= 0 || strings.TrimSpace(text) == "" {
		return MessageRecord{}, fmt.Errorf("invalid message payload")
	}
	if r.pool == nil {
		return MessageRecord{}, fmt.Errorf("postgres pool is nil")
	}

	var rec MessageRecord
	err := r.pool.QueryRow(ctx, `
INSERT INTO messages (
	match_id,
	sender_user_id,
	text,
	seen,
	created_at
) VALUES ($1, $2, $3, FALSE, NOW())
RETURNING id, match_id, sender_user_id, text, seen, created_at
`, matchID, senderUserID, strings.TrimSpace(text)).Scan(
		&rec.ID,
		&rec.MatchID,
		&rec.SenderUserID,
		&rec.Text,
		&rec.Seen,
		&rec.CreatedAt,
	)
	if err != nil {
		// The match row vanished between resolution and the write.
		if isForeignKeyViolation(err) {
			return MessageRecord{}, ErrMatchNotFound
		}
		return MessageRecord{}, fmt.Errorf("insert message: %w", err)
	}

	return rec, nil
}

func (r *MessageRepo) ListByMatch(ctx context.Context, matchID int64, limit int, before *time.Time) ([]MessageRecord, error) {
	if matchID <= 0 {
		return nil, fmt.Errorf("invalid match id")
	}
	if limit <= 0 {
		limit = 50
	}
	if r.pool == nil {
		return []MessageRecord{}, nil
	}

	query := `
SELECT id, match_id, sender_user_id, text, seen, created_at
FROM messages
WHERE match_id = $1
`
	args := []any{matchID}
	if before != nil {
		query += `	AND created_at < $2
`
		args = append(args, before.UTC())
	}
	query += fmt.Sprintf(`ORDER BY created_at DESC, id DESC
LIMIT %d`, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	items := make([]MessageRecord, 0, limit)
	for rows.Next() {
		var rec MessageRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.MatchID,
			&rec.SenderUserID,
			&rec.Text,
			&rec.Seen,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		items = append(items, rec)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate messages: %w", rows.Err())
	}

	return items, nil
}

// MarkSeen flips seen on every unseen message in the match that the
// viewer did not send. Messages authored by the viewer are never touched.
func (r *MessageRepo) MarkSeen(ctx context.Context, matchID, viewerUserID int64) (int, error) {
	if matchID <= 0 || viewerUserID <= 0 {
		return 0, fmt.Errorf("invalid mark seen payload")
	}
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	result, err := r.pool.Exec(ctx, `
UPDATE messages
SET seen = TRUE
WHERE match_id = $1 AND sender_user_id <> $2 AND seen = FALSE
`, matchID, viewerUserID)
	if err != nil {
		return 0, fmt.Errorf("mark messages seen: %w", err)
	}

	return int(result.RowsAffected()), nil
}

func (r *MessageRepo) MarkSeenFromSender(ctx context.Context, matchID, senderUserID int64) (int, error) {
	if matchID <= 0 || senderUserID <= 0 {
		return 0, fmt.Errorf("invalid mark seen payload")
	}
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	result, err := r.pool.Exec(ctx, `
UPDATE messages
SET seen = TRUE
WHERE match_id = $1 AND sender_user_id = $2 AND seen = FALSE
`, matchID, senderUserID)
	if err != nil {
		return 0, fmt.Errorf("mark messages seen from sender: %w", err)
	}

	return int(result.RowsAffected()), nil
}

func (r *MessageRepo) CountUnreadForUser(ctx context.Context, userID int64) (int, error) {
	if userID <= 0 {
		return 0, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return 0, nil
	}

	var count int
	err := r.pool.QueryRow(ctx, `
SELECT COUNT(*)
FROM messages msg
JOIN matches m ON m.id = msg.match_id
WHERE
	(m.user_a_id = $1 OR m.user_b_id = $1)
	AND msg.sender_user_id <> $1
	AND msg.seen = FALSE
`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread messages: %w", err)
	}

	return count, nil
}

func (r *MessageRepo) CountUnreadInMatch(ctx context.Context, matchID, viewerUserID int64) (int, error) {
	if matchID <= 0 || viewerUserID <= 0 {
		return 0, fmt.Errorf("invalid unread lookup payload")
	}
	if r.pool == nil {
		return 0, nil
	}

	var count int
	err := r.pool.QueryRow(ctx, `
SELECT COUNT(*)
FROM messages
WHERE match_id = $1 AND sender_user_id <> $2 AND seen = FALSE
`, matchID, viewerUserID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread messages in match: %w", err)
	}

	return count, nil
}

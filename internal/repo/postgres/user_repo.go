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

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailConflict = errors.New("email already registered")
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

type UserRecord struct {
	ID           int64
	Email        string
	PasswordHash string
	DisplayName  string
	Gender       string
	InterestedIn string
	Birthdate    time.Time
	Bio          string
	Photos       []string
	Interests    []string
	Lat          float64
	Lng          float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type CreateUserParams struct {
	Email        string
	PasswordHash string
	DisplayName  string
	Gender       string
	InterestedIn string
	Birthdate    time.Time
	Bio          string
	Photos       []string
	Interests    []string
	Lat          float64
	Lng          float64
}

type UpdateUserParams struct {
	DisplayName  *string
	Gender       *string
	InterestedIn *string
	Birthdate    *time.Time
	Bio          *string
	Photos       []string
	Lat          *float64
	Lng          *float64
}

type CandidateQuery struct {
	ViewerUserID     int64
	Genders          []string
	RequireInterests bool
}

const userColumns = `
id, email, password_hash, display_name, gender, interested_in, birthdate,
COALESCE(bio, ''), COALESCE(photos, '{}'), COALESCE(interests, '{}'),
COALESCE(lat, 0), COALESCE(lng, 0), created_at, updated_at
`

func (r *UserRepo) Create(ctx context.Context, p CreateUserParams) (UserRecord, error) {
	if strings.TrimSpace(p.Email) == "" || strings.TrimSpace(p.PasswordHash) == "" {
		return UserRecord{}, fmt.Errorf("invalid user payload")
	}
	if r.pool == nil {
		return UserRecord{}, fmt.Errorf("postgres pool is nil")
	}

	row := r.pool.QueryRow(ctx, `
INSERT INTO users (
	email,
	password_hash,
	display_name,
	gender,
	interested_in,
	birthdate,
	bio,
	photos,
	interests,
	lat,
	lng,
	created_at,
	updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
RETURNING `+userColumns,
		strings.ToLower(strings.TrimSpace(p.Email)),
		p.PasswordHash,
		strings.TrimSpace(p.DisplayName),
		p.Gender,
		p.InterestedIn,
		p.Birthdate.UTC(),
		strings.TrimSpace(p.Bio),
		p.Photos,
		p.Interests,
		p.Lat,
		p.Lng,
	)

	rec, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return UserRecord{}, ErrEmailConflict
		}
		return UserRecord{}, fmt.Errorf("create user: %w", err)
	}

	return rec, nil
}

func (r *UserRepo) GetByID(ctx context.Context, userID int64) (UserRecord, error) {
	if userID <= 0 {
		return UserRecord{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return UserRecord{}, fmt.Errorf("postgres pool is nil")
	}

	row := r.pool.QueryRow(ctx, `
SELECT `+userColumns+`
FROM users
WHERE id = $1
`, userID)

	rec, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserRecord{}, ErrUserNotFound
		}
		return UserRecord{}, fmt.Errorf("get user by id: %w", err)
	}

	return rec, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (UserRecord, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return UserRecord{}, fmt.Errorf("email is required")
	}
	if r.pool == nil {
		return UserRecord{}, fmt.Errorf("postgres pool is nil")
	}

	row := r.pool.QueryRow(ctx, `
SELECT `+userColumns+`
FROM users
WHERE email = $1
`, normalized)

	rec, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserRecord{}, ErrUserNotFound
		}
		return UserRecord{}, fmt.Errorf("get user by email: %w", err)
	}

	return rec, nil
}

func (r *UserRepo) Update(ctx context.Context, userID int64, p UpdateUserParams) (UserRecord, error) {
	if userID <= 0 {
		return UserRecord{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return UserRecord{}, fmt.Errorf("postgres pool is nil")
	}

	row := r.pool.QueryRow(ctx, `
UPDATE users SET
	display_name = COALESCE($2, display_name),
	gender = COALESCE($3, gender),
	interested_in = COALESCE($4, interested_in),
	birthdate = COALESCE($5, birthdate),
	bio = COALESCE($6, bio),
	photos = COALESCE($7, photos),
	lat = COALESCE($8, lat),
	lng = COALESCE($9, lng),
	updated_at = NOW()
WHERE id = $1
RETURNING `+userColumns,
		userID,
		p.DisplayName,
		p.Gender,
		p.InterestedIn,
		p.Birthdate,
		p.Bio,
		p.Photos,
		p.Lat,
		p.Lng,
	)

	rec, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserRecord{}, ErrUserNotFound
		}
		return UserRecord{}, fmt.Errorf("update user: %w", err)
	}

	return rec, nil
}

func (r *UserRepo) UpdateInterests(ctx context.Context, userID int64, interests []string) (UserRecord, error) {
	if userID <= 0 {
		return UserRecord{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return UserRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if interests == nil {
		interests = []string{}
	}

	row := r.pool.QueryRow(ctx, `
UPDATE users SET
	interests = $2,
	updated_at = NOW()
WHERE id = $1
RETURNING `+userColumns, userID, interests)

	rec, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserRecord{}, ErrUserNotFound
		}
		return UserRecord{}, fmt.Errorf("update user interests: %w", err)
	}

	return rec, nil
}

func (r *UserRepo) Delete(ctx context.Context, userID int64) (bool, error) {
	if userID <= 0 {
		return false, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}

	result, err := r.pool.Exec(ctx, `
DELETE FROM users
WHERE id = $1
`, userID)
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// ListCandidates applies the viewer-side half of the eligibility filter in
// SQL: not the viewer, not already decided on, gender admitted by the
// viewer's preference. The candidate-side preference check and interest
// intersection stay in the feed service.
func (r *UserRepo) ListCandidates(ctx context.Context, q CandidateQuery) ([]UserRecord, error) {
	if q.ViewerUserID <= 0 {
		return nil, fmt.Errorf("invalid viewer user id")
	}
	if len(q.Genders) == 0 {
		return []UserRecord{}, nil
	}
	if r.pool == nil {
		return []UserRecord{}, nil
	}

	query := `
SELECT ` + userColumns + `
FROM users u
WHERE
	u.id <> $1
	AND u.gender = ANY($2)
	AND NOT EXISTS (
		SELECT 1
		FROM swipes s
		WHERE s.actor_user_id = $1 AND s.target_user_id = u.id
	)
`
	if q.RequireInterests {
		query += `	AND COALESCE(cardinality(u.interests), 0) > 0
`
	}
	query += `ORDER BY u.created_at DESC, u.id DESC`

	rows, err := r.pool.Query(ctx, query, q.ViewerUserID, q.Genders)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	items := make([]UserRecord, 0)
	for rows.Next() {
		rec, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		items = append(items, rec)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate candidates: %w", rows.Err())
	}

	return items, nil
}

func scanUser(row pgx.Row) (UserRecord, error) {
	var rec UserRecord
	err := row.Scan(
		&rec.ID,
		&rec.Email,
		&rec.PasswordHash,
		&rec.DisplayName,
		&rec.Gender,
		&rec.InterestedIn,
		&rec.Birthdate,
		&rec.Bio,
		&rec.Photos,
		&rec.Interests,
		&rec.Lat,
		&rec.Lng,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return UserRecord{}, err
	}
	return rec, nil
}

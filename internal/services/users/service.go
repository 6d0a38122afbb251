package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/NhutViet/tinder-backend/internal/domain/enums"
	pgrepo "github.com/NhutViet/tinder-backend/internal/repo/postgres"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
)

type Store interface {
	Create(ctx context.Context, p pgrepo.CreateUserParams) (pgrepo.UserRecord, error)
	GetByID(ctx context.Context, userID int64) (pgrepo.UserRecord, error)
	GetByEmail(ctx context.Context, email string) (pgrepo.UserRecord, error)
	Update(ctx context.Context, userID int64, p pgrepo.UpdateUserParams) (pgrepo.UserRecord, error)
	UpdateInterests(ctx context.Context, userID int64, interests []string) (pgrepo.UserRecord, error)
	Delete(ctx context.Context, userID int64) (bool, error)
}

type Profile struct {
	ID           int64
	Email        string
	DisplayName  string
	Gender       string
	InterestedIn string
	Birthdate    time.Time
	Age          int
	Bio          string
	Photos       []string
	Interests    []string
	Lat          float64
	Lng          float64
	CreatedAt    time.Time
}

type CreateInput struct {
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

type UpdateInput struct {
	DisplayName  *string
	Gender       *string
	InterestedIn *string
	Birthdate    *time.Time
	Bio          *string
	Photos       []string
	Lat          *float64
	Lng          *float64
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
	}
}

func (s *Service) Create(ctx context.Context, input CreateInput) (Profile, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return Profile{}, ErrValidation
	}
	if strings.TrimSpace(input.PasswordHash) == "" || strings.TrimSpace(input.DisplayName) == "" {
		return Profile{}, ErrValidation
	}
	gender, err := enums.ParseGender(input.Gender)
	if err != nil {
		return Profile{}, ErrValidation
	}
	interestedIn, err := enums.ParseInterestedIn(input.InterestedIn)
	if err != nil {
		return Profile{}, ErrValidation
	}
	if input.Birthdate.IsZero() {
		return Profile{}, ErrValidation
	}

	rec, err := s.store.Create(ctx, pgrepo.CreateUserParams{
		Email:        email,
		PasswordHash: input.PasswordHash,
		DisplayName:  strings.TrimSpace(input.DisplayName),
		Gender:       string(gender),
		InterestedIn: string(interestedIn),
		Birthdate:    input.Birthdate,
		Bio:          input.Bio,
		Photos:       input.Photos,
		Interests:    input.Interests,
		Lat:          input.Lat,
		Lng:          input.Lng,
	})
	if err != nil {
		if errors.Is(err, pgrepo.ErrEmailConflict) {
			return Profile{}, ErrEmailTaken
		}
		return Profile{}, fmt.Errorf("create user: %w", err)
	}

	return s.toProfile(rec), nil
}

func (s *Service) GetByID(ctx context.Context, userID int64) (Profile, error) {
	if userID <= 0 {
		return Profile{}, ErrValidation
	}

	rec, err := s.store.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, fmt.Errorf("get user: %w", err)
	}

	return s.toProfile(rec), nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return Profile{}, ErrValidation
	}

	rec, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, fmt.Errorf("get user by email: %w", err)
	}

	return s.toProfile(rec), nil
}

func (s *Service) Update(ctx context.Context, userID int64, input UpdateInput) (Profile, error) {
	if userID <= 0 {
		return Profile{}, ErrValidation
	}
	if input.DisplayName != nil && strings.TrimSpace(*input.DisplayName) == "" {
		return Profile{}, ErrValidation
	}
	if input.Gender != nil {
		if _, err := enums.ParseGender(*input.Gender); err != nil {
			return Profile{}, ErrValidation
		}
	}
	if input.InterestedIn != nil {
		if _, err := enums.ParseInterestedIn(*input.InterestedIn); err != nil {
			return Profile{}, ErrValidation
		}
	}
	if input.Birthdate != nil && input.Birthdate.IsZero() {
		return Profile{}, ErrValidation
	}

	rec, err := s.store.Update(ctx, userID, pgrepo.UpdateUserParams{
		DisplayName:  input.DisplayName,
		Gender:       input.Gender,
		InterestedIn: input.InterestedIn,
		Birthdate:    input.Birthdate,
		Bio:          input.Bio,
		Photos:       input.Photos,
		Lat:          input.Lat,
		Lng:          input.Lng,
	})
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, fmt.Errorf("update user: %w", err)
	}

	return s.toProfile(rec), nil
}

func (s *Service) UpdateInterests(ctx context.Context, userID int64, interests []string) (Profile, error) {
	if userID <= 0 {
		return Profile{}, ErrValidation
	}

	rec, err := s.store.UpdateInterests(ctx, userID, interests)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, fmt.Errorf("update interests: %w", err)
	}

	return s.toProfile(rec), nil
}

func (s *Service) Delete(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return ErrValidation
	}

	deleted, err := s.store.Delete(ctx, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (s *Service) toProfile(rec pgrepo.UserRecord) Profile {
	return Profile{
		ID:           rec.ID,
		Email:        rec.Email,
		DisplayName:  rec.DisplayName,
		Gender:       rec.Gender,
		InterestedIn: rec.InterestedIn,
		Birthdate:    rec.Birthdate,
		Age:          ageAt(rec.Birthdate, s.now().UTC()),
		Bio:          rec.Bio,
		Photos:       rec.Photos,
		Interests:    rec.Interests,
		Lat:          rec.Lat,
		Lng:          rec.Lng,
		CreatedAt:    rec.CreatedAt,
	}
}

func ageAt(birthdate, at time.Time) int {
	if birthdate.IsZero() {
		return 0
	}

	years := at.Year() - birthdate.Year()
	anniversary := birthdate.AddDate(years, 0, 0)
	if anniversary.After(at) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

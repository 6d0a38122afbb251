package users

import (
	"context"
	"errors"
	"testing"
	"time"

	pgrepo "github.com/NhutViet/tinder-backend/internal/repo/postgres"
)

type storeStub struct {
	nextID  int64
	byID    map[int64]pgrepo.UserRecord
	byEmail map[string]int64
}

func newStoreStub() *storeStub {
	return &storeStub{
		byID:    map[int64]pgrepo.UserRecord{},
		byEmail: map[string]int64{},
	}
}

func (s *storeStub) Create(_ context.Context, p pgrepo.CreateUserParams) (pgrepo.UserRecord, error) {
	if _, ok := s.byEmail[p.Email]; ok {
		return pgrepo.UserRecord{}, pgrepo.ErrEmailConflict
	}

	s.nextID++
	rec := pgrepo.UserRecord{
		ID:           s.nextID,
		Email:        p.Email,
		PasswordHash: p.PasswordHash,
		DisplayName:  p.DisplayName,
		Gender:       p.Gender,
		InterestedIn: p.InterestedIn,
		Birthdate:    p.Birthdate,
		Bio:          p.Bio,
		Photos:       p.Photos,
		Interests:    p.Interests,
		Lat:          p.Lat,
		Lng:          p.Lng,
	}
	s.byID[rec.ID] = rec
	s.byEmail[rec.Email] = rec.ID
	return rec, nil
}

func (s *storeStub) GetByID(_ context.Context, userID int64) (pgrepo.UserRecord, error) {
	rec, ok := s.byID[userID]
	if !ok {
		return pgrepo.UserRecord{}, pgrepo.ErrUserNotFound
	}
	return rec, nil
}

func (s *storeStub) GetByEmail(_ context.Context, email string) (pgrepo.UserRecord, error) {
	id, ok := s.byEmail[email]
	if !ok {
		return pgrepo.UserRecord{}, pgrepo.ErrUserNotFound
	}
	return s.byID[id], nil
}

func (s *storeStub) Update(_ context.Context, userID int64, p pgrepo.UpdateUserParams) (pgrepo.UserRecord, error) {
	rec, ok := s.byID[userID]
	if !ok {
		return pgrepo.UserRecord{}, pgrepo.ErrUserNotFound
	}

	if p.DisplayName != nil {
		rec.DisplayName = *p.DisplayName
	}
	if p.Gender != nil {
		rec.Gender = *p.Gender
	}
	if p.InterestedIn != nil {
		rec.InterestedIn = *p.InterestedIn
	}
	if p.Birthdate != nil {
		rec.Birthdate = *p.Birthdate
	}
	if p.Bio != nil {
		rec.Bio = *p.Bio
	}
	if p.Photos != nil {
		rec.Photos = p.Photos
	}
	if p.Lat != nil {
		rec.Lat = *p.Lat
	}
	if p.Lng != nil {
		rec.Lng = *p.Lng
	}

	s.byID[userID] = rec
	return rec, nil
}

func (s *storeStub) UpdateInterests(_ context.Context, userID int64, interests []string) (pgrepo.UserRecord, error) {
	rec, ok := s.byID[userID]
	if !ok {
		return pgrepo.UserRecord{}, pgrepo.ErrUserNotFound
	}
	rec.Interests = interests
	s.byID[userID] = rec
	return rec, nil
}

func (s *storeStub) Delete(_ context.Context, userID int64) (bool, error) {
	if _, ok := s.byID[userID]; !ok {
		return false, nil
	}
	rec := s.byID[userID]
	delete(s.byID, userID)
	delete(s.byEmail, rec.Email)
	return true, nil
}

func newServiceForTest(store Store) *Service {
	return &Service{
		store: store,
		now:   func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func validCreateInput(email string) CreateInput {
	return CreateInput{
		Email:        email,
		PasswordHash: "$2a$10$hash",
		DisplayName:  "Mark",
		Gender:       "male",
		InterestedIn: "female",
		Birthdate:    time.Date(1994, time.July, 20, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateValidatesEnumsBeforeStore(t *testing.T) {
	store := newStoreStub()
	svc := newServiceForTest(store)
	ctx := context.Background()

	input := validCreateInput("mark@example.com")
	input.Gender = "robot"
	if _, err := svc.Create(ctx, input); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(store.byID) != 0 {
		t.Fatalf("store should not be touched on invalid input")
	}
}

func TestCreateComputesAge(t *testing.T) {
	svc := newServiceForTest(newStoreStub())
	ctx := context.Background()

	profile, err := svc.Create(ctx, validCreateInput("mark@example.com"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if profile.Age != 31 {
		t.Fatalf("unexpected age: got %d want %d", profile.Age, 31)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	svc := newServiceForTest(newStoreStub())

	if _, err := svc.GetByID(context.Background(), 404); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdatePartial(t *testing.T) {
	store := newStoreStub()
	svc := newServiceForTest(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreateInput("mark@example.com"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	bio := "coffee and climbing"
	updated, err := svc.Update(ctx, created.ID, UpdateInput{Bio: &bio})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Bio != bio {
		t.Fatalf("unexpected bio: got %q want %q", updated.Bio, bio)
	}
	if updated.DisplayName != created.DisplayName {
		t.Fatalf("display name should be unchanged, got %q", updated.DisplayName)
	}

	badGender := "unknown"
	if _, err := svc.Update(ctx, created.ID, UpdateInput{Gender: &badGender}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeleteMissingUser(t *testing.T) {
	svc := newServiceForTest(newStoreStub())

	if err := svc.Delete(context.Background(), 77); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

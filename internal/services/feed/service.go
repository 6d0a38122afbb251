package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NhutViet/tinder-backend/internal/domain/enums"
	"github.com/NhutViet/tinder-backend/internal/domain/rules"
	pgrepo "github.com/NhutViet/tinder-backend/internal/repo/postgres"
)

const (
	DefaultSwipeLimit = 10
	MaxSwipeLimit     = 50
	HomePageSize      = 20
)

var ErrValidation = errors.New("validation error")

type UserStore interface {
	GetByID(ctx context.Context, userID int64) (pgrepo.UserRecord, error)
	ListCandidates(ctx context.Context, q pgrepo.CandidateQuery) ([]pgrepo.UserRecord, error)
}

type Candidate struct {
	ID          int64
	DisplayName string
	Age         int
	Gender      string
	Bio         string
	Photos      []string
	Interests   []string
}

type Service struct {
	users UserStore
	now   func() time.Time
}

func NewService(users UserStore) *Service {
	return &Service{
		users: users,
		now:   time.Now,
	}
}

// SwipeCandidates returns up to limit users the viewer may swipe on.
// An unknown viewer gets an empty feed rather than an error.
func (s *Service) SwipeCandidates(ctx context.Context, viewerUserID int64, limit int) ([]Candidate, error) {
	if viewerUserID <= 0 {
		return nil, ErrValidation
	}
	if limit <= 0 {
		limit = DefaultSwipeLimit
	}
	if limit > MaxSwipeLimit {
		limit = MaxSwipeLimit
	}

	viewer, candidates, err := s.loadEligible(ctx, viewerUserID, false)
	if err != nil {
		return nil, err
	}
	if viewer == nil {
		return []Candidate{}, nil
	}

	out := make([]Candidate, 0, limit)
	for _, rec := range candidates {
		out = append(out, s.toCandidate(rec))
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// HomeCandidates pages through eligible users sharing at least one
// interest tag with the viewer. Pages are fixed at HomePageSize.
func (s *Service) HomeCandidates(ctx context.Context, viewerUserID int64, page int) ([]Candidate, error) {
	if viewerUserID <= 0 {
		return nil, ErrValidation
	}
	if page < 1 {
		page = 1
	}

	viewer, candidates, err := s.loadEligible(ctx, viewerUserID, true)
	if err != nil {
		return nil, err
	}
	if viewer == nil {
		return []Candidate{}, nil
	}

	viewerTags := rules.NormalizeInterests(viewer.Interests)
	if len(viewerTags) == 0 {
		return []Candidate{}, nil
	}

	matching := make([]Candidate, 0, HomePageSize)
	for _, rec := range candidates {
		if !rules.HasCommonInterest(viewerTags, rules.NormalizeInterests(rec.Interests)) {
			continue
		}
		matching = append(matching, s.toCandidate(rec))
	}

	skip := (page - 1) * HomePageSize
	if skip >= len(matching) {
		return []Candidate{}, nil
	}
	end := skip + HomePageSize
	if end > len(matching) {
		end = len(matching)
	}
	return matching[skip:end], nil
}

// loadEligible fetches the viewer and the undecided, mutually compatible
// candidates. A nil viewer means the viewer row does not exist.
func (s *Service) loadEligible(ctx context.Context, viewerUserID int64, requireInterests bool) (*pgrepo.UserRecord, []pgrepo.UserRecord, error) {
	viewer, err := s.users.GetByID(ctx, viewerUserID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("load viewer: %w", err)
	}

	viewerGender, err := enums.ParseGender(viewer.Gender)
	if err != nil {
		return nil, nil, fmt.Errorf("viewer %d has invalid gender %q", viewer.ID, viewer.Gender)
	}
	viewerPref, err := enums.ParseInterestedIn(viewer.InterestedIn)
	if err != nil {
		return nil, nil, fmt.Errorf("viewer %d has invalid preference %q", viewer.ID, viewer.InterestedIn)
	}

	genders := make([]string, 0, 3)
	for _, g := range rules.GendersFor(viewerPref) {
		genders = append(genders, string(g))
	}

	recs, err := s.users.ListCandidates(ctx, pgrepo.CandidateQuery{
		ViewerUserID:     viewerUserID,
		Genders:          genders,
		RequireInterests: requireInterests,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("list candidates: %w", err)
	}

	eligible := make([]pgrepo.UserRecord, 0, len(recs))
	for _, rec := range recs {
		candGender, err := enums.ParseGender(rec.Gender)
		if err != nil {
			continue
		}
		candPref, err := enums.ParseInterestedIn(rec.InterestedIn)
		if err != nil {
			continue
		}
		if !rules.Compatible(viewerPref, viewerGender, candPref, candGender) {
			continue
		}
		eligible = append(eligible, rec)
	}

	return &viewer, eligible, nil
}

func (s *Service) toCandidate(rec pgrepo.UserRecord) Candidate {
	return Candidate{
		ID:          rec.ID,
		DisplayName: rec.DisplayName,
		Age:         ageAt(rec.Birthdate, s.now().UTC()),
		Gender:      rec.Gender,
		Bio:         rec.Bio,
		Photos:      rec.Photos,
		Interests:   rec.Interests,
	}
}

func ageAt(birthdate, at time.Time) int {
	if birthdate.IsZero() {
		return 0
	}

	years := at.Year() - birthdate.Year()
	if birthdate.AddDate(years, 0, 0).After(at) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

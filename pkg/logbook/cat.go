package logbook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/catfeed/pkg/auth"
	"github.com/tendant/catfeed/pkg/domain"
	"github.com/tendant/catfeed/pkg/format"
)

// CatStore is the persistence the cat service needs.
type CatStore interface {
	Latest(ctx context.Context) (*domain.CatProfile, error)
	Upsert(ctx context.Context, cat *domain.CatProfile) error
}

// CatInput is what an admin submits for the profile.
type CatInput struct {
	Name          string
	Birthday      *time.Time
	WeightKg      float64
	TargetWeight  float64
	DailyCalories int
	MealsPerDay   int
}

// CatService keeps the single cat profile.
type CatService struct {
	store  CatStore
	now    func() time.Time
	logger *slog.Logger
}

// NewCatService creates a new cat service.
func NewCatService(store CatStore, logger *slog.Logger) *CatService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatService{store: store, now: time.Now, logger: logger}
}

// Profile returns the current profile.
func (s *CatService) Profile(ctx context.Context) (*domain.CatProfile, error) {
	return s.store.Latest(ctx)
}

// Save overwrites the current profile, creating it on first use.
func (s *CatService) Save(ctx context.Context, in CatInput) (*domain.CatProfile, error) {
	name := auth.CleanText(in.Name)
	switch {
	case name == "":
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidProfile)
	case len([]rune(name)) > 80:
		return nil, fmt.Errorf("%w: name must be at most 80 characters", domain.ErrInvalidProfile)
	case in.WeightKg < 0 || in.TargetWeight < 0:
		return nil, fmt.Errorf("%w: weight must not be negative", domain.ErrInvalidProfile)
	case in.DailyCalories < 0 || in.MealsPerDay < 0:
		return nil, fmt.Errorf("%w: calories and meals must not be negative", domain.ErrInvalidProfile)
	}

	cat := &domain.CatProfile{ID: uuid.New()}
	current, err := s.store.Latest(ctx)
	switch {
	case err == nil:
		cat.ID = current.ID
	case !errors.Is(err, domain.ErrProfileNotFound):
		return nil, err
	}

	cat.Name = name
	cat.Birthday = in.Birthday
	cat.WeightKg = in.WeightKg
	cat.TargetWeight = in.TargetWeight
	cat.DailyCalories = in.DailyCalories
	cat.MealsPerDay = in.MealsPerDay
	cat.LastUpdated = s.now()

	if err := s.store.Upsert(ctx, cat); err != nil {
		return nil, fmt.Errorf("save cat profile: %w", err)
	}

	s.logger.InfoContext(ctx, "cat profile saved", "cat_id", cat.ID, "name", cat.Name)
	return cat, nil
}

// SuggestedCalories estimates the daily need from the profile weight.
func (s *CatService) SuggestedCalories(ctx context.Context, level format.ActivityLevel) (int, error) {
	cat, err := s.store.Latest(ctx)
	if err != nil {
		return 0, err
	}
	return format.Calories(cat.WeightKg, level), nil
}

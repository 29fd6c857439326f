package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tendant/catfeed/pkg/domain"
)

// CatsRepository handles cat profile persistence.
type CatsRepository struct {
	db *sql.DB
}

// NewCatsRepository creates a new cats repository.
func NewCatsRepository(db *sql.DB) *CatsRepository {
	return &CatsRepository{db: db}
}

// Latest returns the most recently updated profile.
func (r *CatsRepository) Latest(ctx context.Context) (*domain.CatProfile, error) {
	query := `
		SELECT id, name, birthday, weight_kg, target_weight, daily_calories, meals_per_day, last_updated
		FROM cat_profiles
		ORDER BY last_updated DESC
		LIMIT 1
	`
	cat := &domain.CatProfile{}
	err := r.db.QueryRowContext(ctx, query).Scan(
		&cat.ID, &cat.Name, &cat.Birthday, &cat.WeightKg, &cat.TargetWeight,
		&cat.DailyCalories, &cat.MealsPerDay, &cat.LastUpdated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return cat, nil
}

// Upsert inserts the profile or overwrites the row with the same ID.
func (r *CatsRepository) Upsert(ctx context.Context, cat *domain.CatProfile) error {
	query := `
		INSERT INTO cat_profiles (id, name, birthday, weight_kg, target_weight, daily_calories, meals_per_day, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    birthday = EXCLUDED.birthday,
		    weight_kg = EXCLUDED.weight_kg,
		    target_weight = EXCLUDED.target_weight,
		    daily_calories = EXCLUDED.daily_calories,
		    meals_per_day = EXCLUDED.meals_per_day,
		    last_updated = EXCLUDED.last_updated
	`
	_, err := r.db.ExecContext(ctx, query,
		cat.ID, cat.Name, cat.Birthday, cat.WeightKg, cat.TargetWeight,
		cat.DailyCalories, cat.MealsPerDay, cat.LastUpdated,
	)
	return err
}

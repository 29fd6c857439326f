package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EditWindow is how long after creation a guest-entered record stays editable.
const EditWindow = 15 * time.Minute

// FeedingRecord is a single logged meal.
type FeedingRecord struct {
	ID             uuid.UUID
	Timestamp      time.Time
	AmountGrams    float64
	FoodType       string
	Calories       int
	Notes          string
	FeederNickname string
}

// Validate checks the fields an admin can submit.
func (r *FeedingRecord) Validate() error {
	if r.AmountGrams <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidRecord)
	}
	if r.Calories < 0 {
		return fmt.Errorf("%w: calories must not be negative", ErrInvalidRecord)
	}
	if strings.TrimSpace(r.FoodType) == "" {
		return fmt.Errorf("%w: food type is required", ErrInvalidRecord)
	}
	if strings.TrimSpace(r.FeederNickname) == "" {
		return fmt.Errorf("%w: feeder nickname is required", ErrInvalidRecord)
	}
	return nil
}

// CanEditAt reports whether the record is still inside the edit window.
func (r *FeedingRecord) CanEditAt(now time.Time) bool {
	if r.Timestamp.IsZero() {
		return false
	}
	return now.Sub(r.Timestamp) < EditWindow
}

// DailyStats aggregates feeding records per calendar day, oldest day first.
// Days without records are present with zero totals.
type DailyStats struct {
	Dates    []string     `json:"dates"`
	Amounts  []float64    `json:"amounts"`
	Calories []int        `json:"calories"`
	Summary  StatsSummary `json:"statistics"`
}

// StatsSummary is computed over the per-day totals.
type StatsSummary struct {
	AvgDailyAmount   float64 `json:"avg_daily_amount"`
	AvgDailyCalories int     `json:"avg_daily_calories"`
	MaxDailyAmount   float64 `json:"max_daily_amount"`
	MinDailyAmount   float64 `json:"min_daily_amount"`
}

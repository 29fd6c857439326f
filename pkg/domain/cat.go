package domain

import (
	"time"

	"github.com/google/uuid"
)

// CatProfile describes the cat being fed.
type CatProfile struct {
	ID            uuid.UUID
	Name          string
	Birthday      *time.Time
	WeightKg      float64
	TargetWeight  float64
	DailyCalories int
	MealsPerDay   int
	LastUpdated   time.Time
}

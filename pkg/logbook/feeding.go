// Package logbook implements the feeding log, the cat profile and the photo gallery.
package logbook

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/catfeed/pkg/auth"
	"github.com/tendant/catfeed/pkg/domain"
	"github.com/tendant/catfeed/pkg/format"
)

// DefaultHistoryDays is the window used when a caller does not ask for one.
const DefaultHistoryDays = 7

// CSVHeader is the first row of an exported feeding log.
var CSVHeader = []string{"時間", "餵食量(g)", "熱量(kcal)", "備註"}

// FeedingStore is the persistence the feeding service needs.
type FeedingStore interface {
	Create(ctx context.Context, rec *domain.FeedingRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.FeedingRecord, error)
	Update(ctx context.Context, rec *domain.FeedingRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListSince(ctx context.Context, since time.Time) ([]*domain.FeedingRecord, error)
	ListAll(ctx context.Context) ([]*domain.FeedingRecord, error)
}

// FeedingInput is what a client submits for a meal.
type FeedingInput struct {
	Timestamp      *time.Time
	AmountGrams    float64
	FoodType       string
	Calories       int
	Notes          string
	FeederNickname string
}

// FeedingService records meals and summarises them.
type FeedingService struct {
	store          FeedingStore
	location       *time.Location
	maxNotesLength int
	now            func() time.Time
	logger         *slog.Logger
}

// FeedingOption customises a FeedingService.
type FeedingOption func(*FeedingService)

// WithLocation sets the time zone used to split records into days.
func WithLocation(loc *time.Location) FeedingOption {
	return func(s *FeedingService) { s.location = loc }
}

// WithMaxNotesLength limits the notes field, counted in characters.
func WithMaxNotesLength(n int) FeedingOption {
	return func(s *FeedingService) { s.maxNotesLength = n }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) FeedingOption {
	return func(s *FeedingService) { s.now = now }
}

// NewFeedingService creates a new feeding service.
func NewFeedingService(store FeedingStore, logger *slog.Logger, opts ...FeedingOption) *FeedingService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &FeedingService{
		store:          store,
		location:       time.Local,
		maxNotesLength: 500,
		now:            time.Now,
		logger:         logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FeedingService) apply(rec *domain.FeedingRecord, in FeedingInput) error {
	rec.AmountGrams = in.AmountGrams
	rec.FoodType = auth.CleanText(in.FoodType)
	rec.Calories = in.Calories
	rec.Notes = auth.CleanText(in.Notes)
	rec.FeederNickname = auth.CleanText(in.FeederNickname)

	if err := auth.ValidateStringLength("notes", rec.Notes, 0, s.maxNotesLength); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidRecord, err)
	}
	if err := auth.ValidateStringLength("food type", rec.FoodType, 0, 50); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidRecord, err)
	}
	if err := auth.ValidateStringLength("feeder nickname", rec.FeederNickname, 0, 50); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidRecord, err)
	}
	return rec.Validate()
}

// Record logs a meal. The timestamp defaults to now.
func (s *FeedingService) Record(ctx context.Context, in FeedingInput) (*domain.FeedingRecord, error) {
	rec := &domain.FeedingRecord{ID: uuid.New(), Timestamp: s.now()}
	if in.Timestamp != nil {
		rec.Timestamp = *in.Timestamp
	}
	if err := s.apply(rec, in); err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("create feeding record: %w", err)
	}

	s.logger.InfoContext(ctx, "feeding recorded",
		"record_id", rec.ID,
		"amount_grams", rec.AmountGrams,
		"feeder", rec.FeederNickname,
	)
	return rec, nil
}

// Update replaces the editable fields of a record. The timestamp is kept.
func (s *FeedingService) Update(ctx context.Context, id uuid.UUID, in FeedingInput) (*domain.FeedingRecord, error) {
	rec, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(rec, in); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, rec); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "feeding updated", "record_id", rec.ID)
	return rec, nil
}

// Delete removes a record.
func (s *FeedingService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "feeding deleted", "record_id", id)
	return nil
}

// Get returns a single record.
func (s *FeedingService) Get(ctx context.Context, id uuid.UUID) (*domain.FeedingRecord, error) {
	return s.store.GetByID(ctx, id)
}

// History returns records from the last days days, newest first.
func (s *FeedingService) History(ctx context.Context, days int) ([]*domain.FeedingRecord, error) {
	if days <= 0 {
		days = DefaultHistoryDays
	}
	return s.store.ListSince(ctx, s.now().AddDate(0, 0, -days))
}

// Today returns records since local midnight, newest first.
func (s *FeedingService) Today(ctx context.Context) ([]*domain.FeedingRecord, error) {
	return s.store.ListSince(ctx, startOfDay(s.now().In(s.location)))
}

// ExportCSV writes every record, newest first, as CSV.
func (s *FeedingService) ExportCSV(ctx context.Context, w io.Writer) error {
	records, err := s.store.ListAll(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, rec := range records {
		calories := ""
		if rec.Calories != 0 {
			calories = strconv.Itoa(rec.Calories)
		}
		row := []string{
			rec.Timestamp.In(s.location).Format(format.CSVTimestamp),
			format.Amount(rec.AmountGrams),
			calories,
			rec.Notes,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Stats sums records per calendar day from days days ago through today.
// Amount figures are rounded to 0.1 g and average calories to whole kcal.
func (s *FeedingService) Stats(ctx context.Context, days int) (*domain.DailyStats, error) {
	if days <= 0 {
		days = DefaultHistoryDays
	}
	now := s.now().In(s.location)
	start := now.AddDate(0, 0, -days)

	records, err := s.store.ListSince(ctx, start)
	if err != nil {
		return nil, err
	}

	amountByDay := make(map[string]float64)
	caloriesByDay := make(map[string]int)
	for _, rec := range records {
		day := rec.Timestamp.In(s.location).Format(time.DateOnly)
		amountByDay[day] += rec.AmountGrams
		caloriesByDay[day] += rec.Calories
	}

	stats := &domain.DailyStats{}
	last := startOfDay(now)
	for d := startOfDay(start); !d.After(last); d = d.AddDate(0, 0, 1) {
		day := d.Format(time.DateOnly)
		stats.Dates = append(stats.Dates, day)
		stats.Amounts = append(stats.Amounts, format.Round1(amountByDay[day]))
		stats.Calories = append(stats.Calories, caloriesByDay[day])
	}

	stats.Summary = summarise(stats)
	return stats, nil
}

func summarise(stats *domain.DailyStats) domain.StatsSummary {
	if len(stats.Amounts) == 0 {
		return domain.StatsSummary{}
	}
	var totalAmount float64
	var totalCalories int
	maxAmount, minAmount := stats.Amounts[0], stats.Amounts[0]
	for i, a := range stats.Amounts {
		totalAmount += a
		totalCalories += stats.Calories[i]
		if a > maxAmount {
			maxAmount = a
		}
		if a < minAmount {
			minAmount = a
		}
	}
	n := float64(len(stats.Amounts))
	return domain.StatsSummary{
		AvgDailyAmount:   format.Round1(totalAmount / n),
		AvgDailyCalories: int(float64(totalCalories)/n + 0.5),
		MaxDailyAmount:   format.Round1(maxAmount),
		MinDailyAmount:   format.Round1(minAmount),
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

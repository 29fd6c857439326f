package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/catfeed/pkg/domain"
)

// FeedingRepository handles feeding record persistence.
type FeedingRepository struct {
	db *sql.DB
}

// NewFeedingRepository creates a new feeding repository.
func NewFeedingRepository(db *sql.DB) *FeedingRepository {
	return &FeedingRepository{db: db}
}

// Create inserts a feeding record.
func (r *FeedingRepository) Create(ctx context.Context, rec *domain.FeedingRecord) error {
	query := `
		INSERT INTO feeding_records (id, fed_at, amount_grams, food_type, calories, notes, feeder_nickname)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.Timestamp, rec.AmountGrams, rec.FoodType, rec.Calories, rec.Notes, rec.FeederNickname,
	)
	return err
}

// GetByID retrieves a feeding record.
func (r *FeedingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.FeedingRecord, error) {
	query := `
		SELECT id, fed_at, amount_grams, food_type, calories, notes, feeder_nickname
		FROM feeding_records
		WHERE id = $1
	`
	rec := &domain.FeedingRecord{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&rec.ID, &rec.Timestamp, &rec.AmountGrams, &rec.FoodType, &rec.Calories, &rec.Notes, &rec.FeederNickname,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Update replaces the editable fields of a record.
func (r *FeedingRepository) Update(ctx context.Context, rec *domain.FeedingRecord) error {
	query := `
		UPDATE feeding_records
		SET amount_grams = $2, food_type = $3, calories = $4, notes = $5, feeder_nickname = $6
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.AmountGrams, rec.FoodType, rec.Calories, rec.Notes, rec.FeederNickname,
	)
	if err != nil {
		return err
	}
	return expectRow(result, domain.ErrRecordNotFound)
}

// Delete removes a record.
func (r *FeedingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM feeding_records WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectRow(result, domain.ErrRecordNotFound)
}

// ListSince returns records at or after since, newest first.
func (r *FeedingRepository) ListSince(ctx context.Context, since time.Time) ([]*domain.FeedingRecord, error) {
	query := `
		SELECT id, fed_at, amount_grams, food_type, calories, notes, feeder_nickname
		FROM feeding_records
		WHERE fed_at >= $1
		ORDER BY fed_at DESC
	`
	return r.list(ctx, query, since)
}

// ListAll returns every record, newest first.
func (r *FeedingRepository) ListAll(ctx context.Context) ([]*domain.FeedingRecord, error) {
	query := `
		SELECT id, fed_at, amount_grams, food_type, calories, notes, feeder_nickname
		FROM feeding_records
		ORDER BY fed_at DESC
	`
	return r.list(ctx, query)
}

func (r *FeedingRepository) list(ctx context.Context, query string, args ...any) ([]*domain.FeedingRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.FeedingRecord
	for rows.Next() {
		rec := &domain.FeedingRecord{}
		if err := rows.Scan(
			&rec.ID, &rec.Timestamp, &rec.AmountGrams, &rec.FoodType, &rec.Calories, &rec.Notes, &rec.FeederNickname,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// expectRow maps a zero-row result to notFound.
func expectRow(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

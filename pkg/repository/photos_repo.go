package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/tendant/catfeed/pkg/domain"
)

const photoColumns = `
	id, storage_key, original_filename, upload_date, is_approved,
	file_size, mime_type, description, photographer,
	date_taken, camera_make, camera_model, exposure_time,
	f_number, iso_speed, focal_length`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPhoto(row rowScanner) (*domain.Photo, error) {
	p := &domain.Photo{}
	err := row.Scan(
		&p.ID, &p.StorageKey, &p.OriginalFilename, &p.UploadDate, &p.IsApproved,
		&p.FileSize, &p.MimeType, &p.Description, &p.Photographer,
		&p.DateTaken, &p.CameraMake, &p.CameraModel, &p.ExposureTime,
		&p.FNumber, &p.ISOSpeed, &p.FocalLength,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// PhotosRepository handles photo metadata persistence.
type PhotosRepository struct {
	db *sql.DB
}

// NewPhotosRepository creates a new photos repository.
func NewPhotosRepository(db *sql.DB) *PhotosRepository {
	return &PhotosRepository{db: db}
}

// Create inserts photo metadata.
func (r *PhotosRepository) Create(ctx context.Context, p *domain.Photo) error {
	query := `
		INSERT INTO photos (id, storage_key, original_filename, upload_date, is_approved,
		                    file_size, mime_type, description, photographer,
		                    date_taken, camera_make, camera_model, exposure_time,
		                    f_number, iso_speed, focal_length)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.StorageKey, p.OriginalFilename, p.UploadDate, p.IsApproved,
		p.FileSize, p.MimeType, p.Description, p.Photographer,
		p.DateTaken, p.CameraMake, p.CameraModel, p.ExposureTime,
		p.FNumber, p.ISOSpeed, p.FocalLength,
	)
	return err
}

// GetByID retrieves photo metadata.
func (r *PhotosRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Photo, error) {
	query := `SELECT` + photoColumns + `
		FROM photos
		WHERE id = $1
	`
	p, err := scanPhoto(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPhotoNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List returns photos newest first. approvedOnly hides unapproved uploads;
// limit <= 0 means no limit.
func (r *PhotosRepository) List(ctx context.Context, approvedOnly bool, limit int) ([]*domain.Photo, error) {
	query := `SELECT` + photoColumns + `
		FROM photos
		WHERE ($1 = FALSE OR is_approved = TRUE)
		ORDER BY upload_date DESC
		LIMIT NULLIF($2, 0)
	`
	if limit < 0 {
		limit = 0
	}
	rows, err := r.db.QueryContext(ctx, query, approvedOnly, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var photos []*domain.Photo
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, err
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}

// Approve marks a photo as publicly visible.
func (r *PhotosRepository) Approve(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `UPDATE photos SET is_approved = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectRow(result, domain.ErrPhotoNotFound)
}

// Delete removes photo metadata.
func (r *PhotosRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM photos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectRow(result, domain.ErrPhotoNotFound)
}

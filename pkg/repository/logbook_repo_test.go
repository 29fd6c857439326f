package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/tendant/catfeed/pkg/domain"
)

var feedingColumns = []string{"id", "fed_at", "amount_grams", "food_type", "calories", "notes", "feeder_nickname"}

func TestFeedingRepository_ListSince(t *testing.T) {
	db, mock := newMock(t)
	repo := NewFeedingRepository(db)
	since := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	first, second := uuid.New(), uuid.New()

	rows := sqlmock.NewRows(feedingColumns).
		AddRow(first.String(), since.Add(2*time.Hour), 40.5, "乾糧", 150, "", "媽媽").
		AddRow(second.String(), since.Add(time.Hour), 30.0, "罐頭", 90, "吃很快", "爸爸")
	mock.ExpectQuery(`WHERE fed_at >= \$1\s+ORDER BY fed_at DESC`).WithArgs(since).WillReturnRows(rows)

	records, err := repo.ListSince(context.Background(), since)
	if err != nil {
		t.Fatalf("ListSince error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].ID != first || records[0].AmountGrams != 40.5 || records[1].Notes != "吃很快" {
		t.Errorf("unexpected records: %+v %+v", records[0], records[1])
	}
}

func TestFeedingRepository_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewFeedingRepository(db)
	id := uuid.New()

	mock.ExpectQuery(`FROM feeding_records\s+WHERE id = \$1`).WithArgs(id).WillReturnError(sql.ErrNoRows)
	if _, err := repo.GetByID(context.Background(), id); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Errorf("GetByID error = %v, want %v", err, domain.ErrRecordNotFound)
	}

	mock.ExpectExec(`UPDATE feeding_records`).WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.Update(context.Background(), &domain.FeedingRecord{ID: id}); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Errorf("Update error = %v, want %v", err, domain.ErrRecordNotFound)
	}

	mock.ExpectExec(`DELETE FROM feeding_records`).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.Delete(context.Background(), id); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Errorf("Delete error = %v, want %v", err, domain.ErrRecordNotFound)
	}
}

func TestFeedingRepository_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewFeedingRepository(db)
	rec := &domain.FeedingRecord{
		ID: uuid.New(), Timestamp: time.Now(), AmountGrams: 40, FoodType: "乾糧", Calories: 150, FeederNickname: "媽媽",
	}

	mock.ExpectExec(`INSERT INTO feeding_records`).
		WithArgs(rec.ID, rec.Timestamp, 40.0, "乾糧", 150, "", "媽媽").
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.Create(context.Background(), rec); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCatsRepository(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCatsRepository(db)

	mock.ExpectQuery(`FROM cat_profiles\s+ORDER BY last_updated DESC\s+LIMIT 1`).WillReturnError(sql.ErrNoRows)
	if _, err := repo.Latest(context.Background()); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("Latest error = %v, want %v", err, domain.ErrProfileNotFound)
	}

	id := uuid.New()
	now := time.Now()
	mock.ExpectQuery(`FROM cat_profiles`).WillReturnRows(
		sqlmock.NewRows([]string{"id", "name", "birthday", "weight_kg", "target_weight", "daily_calories", "meals_per_day", "last_updated"}).
			AddRow(id.String(), "咪咪", nil, 4.2, 4.0, 200, 3, now))
	cat, err := repo.Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest error: %v", err)
	}
	if cat.Name != "咪咪" || cat.Birthday != nil || cat.MealsPerDay != 3 {
		t.Errorf("unexpected profile: %+v", cat)
	}

	mock.ExpectExec(`ON CONFLICT \(id\) DO UPDATE`).WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.Upsert(context.Background(), cat); err != nil {
		t.Fatalf("Upsert error: %v", err)
	}
}

var photoColumnNames = []string{
	"id", "storage_key", "original_filename", "upload_date", "is_approved",
	"file_size", "mime_type", "description", "photographer",
	"date_taken", "camera_make", "camera_model", "exposure_time",
	"f_number", "iso_speed", "focal_length",
}

func TestPhotosRepository_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPhotosRepository(db)
	taken := time.Date(2025, 12, 24, 18, 30, 0, 0, time.UTC)
	fNumber, iso := 2.8, 400
	p := &domain.Photo{
		ID:               uuid.New(),
		StorageKey:       "photos/2026/03/01/x_cat.jpg",
		OriginalFilename: "cat.jpg",
		UploadDate:       time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		FileSize:         2048,
		MimeType:         "image/jpeg",
		PhotoExif: domain.PhotoExif{
			DateTaken:   &taken,
			CameraMake:  "Canon",
			CameraModel: "EOS R6",
			FNumber:     &fNumber,
			ISOSpeed:    &iso,
		},
	}

	mock.ExpectExec(`INSERT INTO photos`).
		WithArgs(p.ID, p.StorageKey, p.OriginalFilename, p.UploadDate, false,
			p.FileSize, p.MimeType, "", "",
			p.DateTaken, "Canon", "EOS R6", "", p.FNumber, p.ISOSpeed, p.FocalLength).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPhotosRepository(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPhotosRepository(db)
	id := uuid.New()
	now := time.Now()

	taken := time.Date(2025, 12, 24, 18, 30, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM photos\s+WHERE \(\$1 = FALSE OR is_approved = TRUE\)`).
		WithArgs(true, 6).
		WillReturnRows(sqlmock.NewRows(photoColumnNames).
			AddRow(id.String(), "photos/2026/03/01/x_cat.jpg", "cat.jpg", now, true, 1024, "image/jpeg", "", "",
				taken, "Canon", "EOS R6", "1/125", 2.8, 400, 50.0).
			AddRow(uuid.New().String(), "photos/2026/03/01/y_cat.png", "cat.png", now, true, 512, "image/png", "", "",
				nil, "", "", "", nil, nil, nil))

	photos, err := repo.List(context.Background(), true, 6)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(photos) != 2 || photos[0].ID != id || !photos[0].IsApproved {
		t.Fatalf("unexpected photos: %+v", photos)
	}
	withExif, without := photos[0], photos[1]
	if withExif.DateTaken == nil || !withExif.DateTaken.Equal(taken) || withExif.CameraModel != "EOS R6" {
		t.Errorf("exif not scanned: %+v", withExif.PhotoExif)
	}
	if withExif.ISOSpeed == nil || *withExif.ISOSpeed != 400 || withExif.FNumber == nil || *withExif.FNumber != 2.8 {
		t.Errorf("exif numbers not scanned: %+v", withExif.PhotoExif)
	}
	if without.DateTaken != nil || without.FNumber != nil || without.ISOSpeed != nil || without.FocalLength != nil {
		t.Errorf("NULL exif columns should scan as nil: %+v", without.PhotoExif)
	}

	mock.ExpectExec(`UPDATE photos SET is_approved = TRUE`).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.Approve(context.Background(), id); !errors.Is(err, domain.ErrPhotoNotFound) {
		t.Errorf("Approve error = %v, want %v", err, domain.ErrPhotoNotFound)
	}

	mock.ExpectQuery(`FROM photos\s+WHERE id = \$1`).WithArgs(id).WillReturnError(sql.ErrNoRows)
	if _, err := repo.GetByID(context.Background(), id); !errors.Is(err, domain.ErrPhotoNotFound) {
		t.Errorf("GetByID error = %v, want %v", err, domain.ErrPhotoNotFound)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

package logbook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/catfeed/pkg/auth"
	"github.com/tendant/catfeed/pkg/domain"
	"github.com/tendant/catfeed/pkg/format"
)

// DefaultMaxUploadSize caps a single photo when nothing is configured.
const DefaultMaxUploadSize = 10 << 20

var allowedExtensions = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
}

// BlobStore keeps photo bytes.
type BlobStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string) (string, error)
}

// PhotoStore is the metadata persistence the photo service needs.
type PhotoStore interface {
	Create(ctx context.Context, p *domain.Photo) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Photo, error)
	List(ctx context.Context, approvedOnly bool, limit int) ([]*domain.Photo, error)
	Approve(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Upload describes an incoming photo. ContentType is what the client
// declared and is only logged.
type Upload struct {
	Filename     string
	ContentType  string
	Size         int64
	Body         io.Reader
	Description  string
	Photographer string
}

// PhotoService manages the gallery.
type PhotoService struct {
	photos  PhotoStore
	blobs   BlobStore
	maxSize int64
	now     func() time.Time
	logger  *slog.Logger
}

// NewPhotoService creates a new photo service.
func NewPhotoService(photos PhotoStore, blobs BlobStore, maxSize int64, logger *slog.Logger) *PhotoService {
	if maxSize <= 0 {
		maxSize = DefaultMaxUploadSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PhotoService{photos: photos, blobs: blobs, maxSize: maxSize, now: time.Now, logger: logger}
}

// AllowedFile reports whether filename has a supported image extension.
func AllowedFile(filename string) bool {
	_, ok := allowedExtensions[strings.ToLower(path.Ext(filename))]
	return ok
}

// StorageKey places an object under photos/YYYY/MM/DD/<uuid>_<name>.
func StorageKey(at time.Time, id uuid.UUID, filename string) string {
	return fmt.Sprintf("photos/%s/%s_%s", at.Format("2006/01/02"), id, format.SanitizeFilename(filename))
}

// Upload checks the bytes against the file extension, normalizes the
// picture, then stores the bytes and the metadata. Unapproved photos stay
// hidden from the public gallery.
func (s *PhotoService) Upload(ctx context.Context, up Upload) (*domain.Photo, error) {
	if up.Filename == "" || !AllowedFile(up.Filename) {
		return nil, domain.ErrUnsupportedFileType
	}
	if up.Size > s.maxSize {
		return nil, s.tooLarge(up.Size)
	}

	data, err := io.ReadAll(io.LimitReader(up.Body, s.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxSize {
		return nil, s.tooLarge(int64(len(data)))
	}

	// The declared part header is ignored; only the leading bytes count.
	contentType := http.DetectContentType(data)
	if contentType != allowedExtensions[strings.ToLower(path.Ext(up.Filename))] {
		s.logger.WarnContext(ctx, "photo content does not match extension",
			"filename", up.Filename, "declared", up.ContentType, "detected", contentType)
		return nil, domain.ErrUnsupportedFileType
	}

	processed, meta, err := processImage(data, contentType)
	if err != nil {
		s.logger.WarnContext(ctx, "photo could not be processed", "filename", up.Filename, "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrUnsupportedFileType, err)
	}

	now := s.now()
	photo := &domain.Photo{
		ID:               uuid.New(),
		OriginalFilename: path.Base(up.Filename),
		UploadDate:       now,
		FileSize:         int64(len(processed)),
		MimeType:         contentType,
		Description:      auth.CleanText(up.Description),
		Photographer:     auth.CleanText(up.Photographer),
		PhotoExif:        meta,
	}
	photo.StorageKey = StorageKey(now, photo.ID, photo.OriginalFilename)

	if err := s.blobs.Put(ctx, photo.StorageKey, bytes.NewReader(processed), photo.FileSize, contentType); err != nil {
		return nil, err
	}
	if err := s.photos.Create(ctx, photo); err != nil {
		if delErr := s.blobs.Delete(ctx, photo.StorageKey); delErr != nil {
			s.logger.ErrorContext(ctx, "failed to remove orphaned photo object", "key", photo.StorageKey, "error", delErr)
		}
		return nil, fmt.Errorf("create photo: %w", err)
	}

	s.logger.InfoContext(ctx, "photo uploaded", "photo_id", photo.ID,
		"size", format.FileSize(photo.FileSize), "original_size", format.FileSize(int64(len(data))))
	return photo, nil
}

func (s *PhotoService) tooLarge(size int64) error {
	return fmt.Errorf("%w: %s exceeds %s", domain.ErrFileTooLarge, format.FileSize(size), format.FileSize(s.maxSize))
}

// List returns photos newest first. Public callers only see approved ones.
func (s *PhotoService) List(ctx context.Context, includeUnapproved bool, limit int) ([]*domain.Photo, error) {
	return s.photos.List(ctx, !includeUnapproved, limit)
}

// Approve publishes a photo.
func (s *PhotoService) Approve(ctx context.Context, id uuid.UUID) error {
	if err := s.photos.Approve(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "photo approved", "photo_id", id)
	return nil
}

// Delete removes the object first, then the metadata.
func (s *PhotoService) Delete(ctx context.Context, id uuid.UUID) error {
	photo, err := s.photos.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.blobs.Delete(ctx, photo.StorageKey); err != nil {
		return err
	}
	if err := s.photos.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "photo deleted", "photo_id", id)
	return nil
}

// ViewURL returns a short-lived download link. Unapproved photos are only
// visible to signed-in admins.
func (s *PhotoService) ViewURL(ctx context.Context, id uuid.UUID, allowUnapproved bool) (string, error) {
	photo, err := s.photos.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if !photo.IsApproved && !allowUnapproved {
		return "", domain.ErrPhotoNotFound
	}
	return s.blobs.PresignGet(ctx, photo.StorageKey)
}

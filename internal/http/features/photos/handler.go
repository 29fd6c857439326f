// Package photos serves the photo gallery.
package photos

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tendant/catfeed/internal/http/middleware"
	"github.com/tendant/catfeed/internal/httputil"
	"github.com/tendant/catfeed/internal/i18n"
	"github.com/tendant/catfeed/pkg/domain"
	"github.com/tendant/catfeed/pkg/format"
	"github.com/tendant/catfeed/pkg/logbook"
)

const (
	formField        = "photo"
	multipartMemory  = 8 << 20
	defaultListLimit = 50
)

// Service manages the gallery.
type Service interface {
	Upload(ctx context.Context, up logbook.Upload) (*domain.Photo, error)
	List(ctx context.Context, includeUnapproved bool, limit int) ([]*domain.Photo, error)
	Approve(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	ViewURL(ctx context.Context, id uuid.UUID, allowUnapproved bool) (string, error)
}

// Handler handles photo endpoints. A nil service means object storage is
// not configured and every endpoint answers 503.
type Handler struct {
	logger     *slog.Logger
	photos     Service
	translator *i18n.Translator
}

// NewHandler creates a new photos handler.
func NewHandler(logger *slog.Logger, photos Service, translator *i18n.Translator) *Handler {
	return &Handler{logger: logger, photos: photos, translator: translator}
}

// PhotoResponse is a photo as clients see it.
type PhotoResponse struct {
	ID               uuid.UUID `json:"id"`
	OriginalFilename string    `json:"original_filename"`
	UploadDate       time.Time `json:"upload_date"`
	IsApproved       bool      `json:"is_approved"`
	FileSize         int64     `json:"file_size"`
	FileSizeText     string    `json:"file_size_text"`
	MimeType         string    `json:"mime_type"`
	Description      string    `json:"description"`
	Photographer     string    `json:"photographer"`
	URL              string    `json:"url"`

	DateTaken    *time.Time `json:"date_taken,omitempty"`
	CameraMake   string     `json:"camera_make,omitempty"`
	CameraModel  string     `json:"camera_model,omitempty"`
	ExposureTime string     `json:"exposure_time,omitempty"`
	FNumber      *float64   `json:"f_number,omitempty"`
	ISOSpeed     *int       `json:"iso_speed,omitempty"`
	FocalLength  *float64   `json:"focal_length,omitempty"`
}

func toResponse(p *domain.Photo) PhotoResponse {
	return PhotoResponse{
		ID:               p.ID,
		OriginalFilename: p.OriginalFilename,
		UploadDate:       p.UploadDate,
		IsApproved:       p.IsApproved,
		FileSize:         p.FileSize,
		FileSizeText:     format.FileSize(p.FileSize),
		MimeType:         p.MimeType,
		Description:      p.Description,
		Photographer:     p.Photographer,
		URL:              "/v1/photos/" + p.ID.String() + "/view",
		DateTaken:        p.DateTaken,
		CameraMake:       p.CameraMake,
		CameraModel:      p.CameraModel,
		ExposureTime:     p.ExposureTime,
		FNumber:          p.FNumber,
		ISOSpeed:         p.ISOSpeed,
		FocalLength:      p.FocalLength,
	}
}

// List returns approved photos, or all photos for admins asking with all=1.
// GET /v1/photos?all=1&limit=N
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}
	lang := r.Header.Get("Accept-Language")

	includeUnapproved := false
	if all, _ := strconv.ParseBool(r.URL.Query().Get("all")); all {
		if _, ok := middleware.GetAdminID(r.Context()); !ok {
			httputil.Error(w, http.StatusUnauthorized, h.translator.Message(lang, i18n.AuthRequired))
			return
		}
		includeUnapproved = true
	}

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			httputil.Error(w, http.StatusBadRequest, h.translator.Message(lang, i18n.InvalidRequest))
			return
		}
		limit = n
	}

	list, err := h.photos.List(r.Context(), includeUnapproved, limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out := make([]PhotoResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toResponse(p))
	}
	httputil.JSON(w, http.StatusOK, out)
}

// Upload stores a photo from the multipart field "photo".
// POST /v1/photos
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}
	lang := r.Header.Get("Accept-Language")

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if middleware.IsBodyTooLarge(err) {
			httputil.Error(w, http.StatusRequestEntityTooLarge, h.translator.Message(lang, i18n.FileTooLarge))
			return
		}
		httputil.Error(w, http.StatusBadRequest, h.translator.Message(lang, i18n.MissingPhoto))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(formField)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, h.translator.Message(lang, i18n.MissingPhoto))
		return
	}
	defer file.Close()

	photo, err := h.photos.Upload(r.Context(), logbook.Upload{
		Filename:     header.Filename,
		ContentType:  header.Header.Get("Content-Type"),
		Size:         header.Size,
		Body:         file,
		Description:  r.FormValue("description"),
		Photographer: r.FormValue("photographer"),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusCreated, toResponse(photo))
}

// Approve publishes a photo.
// POST /v1/photos/{id}/approve
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := h.photoID(w, r)
	if !ok {
		return
	}
	if err := h.photos.Approve(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete removes a photo and its object.
// DELETE /v1/photos/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.photoID(w, r)
	if !ok {
		return
	}
	if err := h.photos.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// View redirects to a short-lived download URL.
// GET /v1/photos/{id}/view
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := h.photoID(w, r)
	if !ok {
		return
	}
	_, isAdmin := middleware.GetAdminID(r.Context())
	url, err := h.photos.ViewURL(r.Context(), id, isAdmin)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "private, no-store")
	http.Redirect(w, r, url, http.StatusFound)
}

func (h *Handler) available(w http.ResponseWriter, r *http.Request) bool {
	if h.photos == nil {
		httputil.Error(w, http.StatusServiceUnavailable, h.translator.Message(r.Header.Get("Accept-Language"), i18n.StorageUnavailable))
		return false
	}
	return true
}

func (h *Handler) photoID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	if !h.available(w, r) {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusNotFound, h.translator.Message(r.Header.Get("Accept-Language"), i18n.PhotoNotFound))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	lang := r.Header.Get("Accept-Language")
	switch {
	case errors.Is(err, domain.ErrPhotoNotFound):
		httputil.Error(w, http.StatusNotFound, h.translator.Message(lang, i18n.PhotoNotFound))
	case errors.Is(err, domain.ErrUnsupportedFileType):
		httputil.Error(w, http.StatusBadRequest, h.translator.Message(lang, i18n.UnsupportedFileType))
	case errors.Is(err, domain.ErrFileTooLarge):
		httputil.Error(w, http.StatusRequestEntityTooLarge, h.translator.Message(lang, i18n.FileTooLarge))
	default:
		h.logger.ErrorContext(r.Context(), "photo request failed", "error", err, "path", r.URL.Path)
		httputil.Error(w, http.StatusInternalServerError, h.translator.Message(lang, i18n.InternalError))
	}
}

// Package feeding serves the feeding log.
package feeding

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tendant/catfeed/internal/httputil"
	"github.com/tendant/catfeed/internal/i18n"
	"github.com/tendant/catfeed/pkg/domain"
	"github.com/tendant/catfeed/pkg/logbook"
)

// Service is the feeding log the handler serves.
type Service interface {
	Record(ctx context.Context, in logbook.FeedingInput) (*domain.FeedingRecord, error)
	Update(ctx context.Context, id uuid.UUID, in logbook.FeedingInput) (*domain.FeedingRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
	History(ctx context.Context, days int) ([]*domain.FeedingRecord, error)
	Today(ctx context.Context) ([]*domain.FeedingRecord, error)
	ExportCSV(ctx context.Context, w io.Writer) error
	Stats(ctx context.Context, days int) (*domain.DailyStats, error)
}

// Handler handles feeding endpoints.
type Handler struct {
	logger     *slog.Logger
	feedings   Service
	translator *i18n.Translator
	now        func() time.Time
}

// NewHandler creates a new feeding handler.
func NewHandler(logger *slog.Logger, feedings Service, translator *i18n.Translator) *Handler {
	return &Handler{logger: logger, feedings: feedings, translator: translator, now: time.Now}
}

// RecordRequest is the body of create and update calls.
type RecordRequest struct {
	Timestamp      *time.Time `json:"timestamp,omitempty"`
	Amount         float64    `json:"amount"`
	FoodType       string     `json:"food_type"`
	Calories       int        `json:"calories"`
	Notes          string     `json:"notes"`
	FeederNickname string     `json:"feeder_nickname"`
}

func (req RecordRequest) input() logbook.FeedingInput {
	return logbook.FeedingInput{
		Timestamp:      req.Timestamp,
		AmountGrams:    req.Amount,
		FoodType:       req.FoodType,
		Calories:       req.Calories,
		Notes:          req.Notes,
		FeederNickname: req.FeederNickname,
	}
}

// RecordResponse is a feeding record as clients see it.
type RecordResponse struct {
	ID             uuid.UUID `json:"id"`
	Timestamp      time.Time `json:"timestamp"`
	Amount         float64   `json:"amount"`
	FoodType       string    `json:"food_type"`
	Calories       int       `json:"calories"`
	Notes          string    `json:"notes"`
	FeederNickname string    `json:"feeder_nickname"`
	CanEdit        bool      `json:"can_edit"`
}

func (h *Handler) toResponse(rec *domain.FeedingRecord) RecordResponse {
	return RecordResponse{
		ID:             rec.ID,
		Timestamp:      rec.Timestamp,
		Amount:         rec.AmountGrams,
		FoodType:       rec.FoodType,
		Calories:       rec.Calories,
		Notes:          rec.Notes,
		FeederNickname: rec.FeederNickname,
		CanEdit:        rec.CanEditAt(h.now()),
	}
}

func (h *Handler) toResponses(records []*domain.FeedingRecord) []RecordResponse {
	out := make([]RecordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, h.toResponse(rec))
	}
	return out
}

// List returns records from the last N days.
// GET /v1/feedings?days=N
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	days, ok := h.days(w, r)
	if !ok {
		return
	}
	records, err := h.feedings.History(r.Context(), days)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, h.toResponses(records))
}

// Today returns today's records.
// GET /v1/feedings/today
func (h *Handler) Today(w http.ResponseWriter, r *http.Request) {
	records, err := h.feedings.Today(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, h.toResponses(records))
}

// Create logs a meal.
// POST /v1/feedings
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req RecordRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.badRequest(w, r)
		return
	}
	rec, err := h.feedings.Record(r.Context(), req.input())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusCreated, h.toResponse(rec))
}

// Update edits a record.
// PUT /v1/feedings/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.recordID(w, r)
	if !ok {
		return
	}
	var req RecordRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.badRequest(w, r)
		return
	}
	rec, err := h.feedings.Update(r.Context(), id, req.input())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, h.toResponse(rec))
}

// Delete removes a record.
// DELETE /v1/feedings/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.recordID(w, r)
	if !ok {
		return
	}
	if err := h.feedings.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Export streams every record as a CSV attachment.
// GET /v1/feedings/export
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="feeding_records.csv"`)
	// A failure after the first byte can only be logged.
	if err := h.feedings.ExportCSV(r.Context(), w); err != nil {
		h.logger.ErrorContext(r.Context(), "csv export failed", "error", err)
	}
}

// Stats returns per-day totals.
// GET /v1/feedings/stats?days=N
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	days, ok := h.days(w, r)
	if !ok {
		return
	}
	stats, err := h.feedings.Stats(r.Context(), days)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, stats)
}

func (h *Handler) days(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("days")
	if raw == "" {
		return logbook.DefaultHistoryDays, true
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 1 || days > 366 {
		h.badRequest(w, r)
		return 0, false
	}
	return days, true
}

func (h *Handler) recordID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusNotFound, h.translator.Message(r.Header.Get("Accept-Language"), i18n.RecordNotFound))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request) {
	httputil.Error(w, http.StatusBadRequest, h.translator.Message(r.Header.Get("Accept-Language"), i18n.InvalidRequest))
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	lang := r.Header.Get("Accept-Language")
	switch {
	case errors.Is(err, domain.ErrRecordNotFound):
		httputil.Error(w, http.StatusNotFound, h.translator.Message(lang, i18n.RecordNotFound))
	case errors.Is(err, domain.ErrInvalidRecord):
		httputil.Error(w, http.StatusBadRequest, h.translator.Message(lang, i18n.InvalidRecord))
	default:
		h.logger.ErrorContext(r.Context(), "feeding request failed", "error", err, "path", r.URL.Path)
		httputil.Error(w, http.StatusInternalServerError, h.translator.Message(lang, i18n.InternalError))
	}
}

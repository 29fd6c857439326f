// Package cat serves the cat profile.
package cat

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/catfeed/internal/httputil"
	"github.com/tendant/catfeed/internal/i18n"
	"github.com/tendant/catfeed/pkg/domain"
	"github.com/tendant/catfeed/pkg/format"
	"github.com/tendant/catfeed/pkg/logbook"
)

// Service keeps the cat profile.
type Service interface {
	Profile(ctx context.Context) (*domain.CatProfile, error)
	Save(ctx context.Context, in logbook.CatInput) (*domain.CatProfile, error)
	SuggestedCalories(ctx context.Context, level format.ActivityLevel) (int, error)
}

// Handler handles cat profile endpoints.
type Handler struct {
	logger     *slog.Logger
	cats       Service
	translator *i18n.Translator
}

// NewHandler creates a new cat handler.
func NewHandler(logger *slog.Logger, cats Service, translator *i18n.Translator) *Handler {
	return &Handler{logger: logger, cats: cats, translator: translator}
}

// ProfileRequest is the body of a profile update. Birthday is YYYY-MM-DD.
type ProfileRequest struct {
	Name          string  `json:"name"`
	Birthday      string  `json:"birthday,omitempty"`
	Weight        float64 `json:"weight"`
	TargetWeight  float64 `json:"target_weight"`
	DailyCalories int     `json:"daily_calories"`
	MealsPerDay   int     `json:"meals_per_day"`
}

// ProfileResponse is the profile as clients see it.
type ProfileResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Birthday      *string   `json:"birthday"`
	BirthdayText  string    `json:"birthday_text,omitempty"`
	Weight        float64   `json:"weight"`
	TargetWeight  float64   `json:"target_weight"`
	DailyCalories int       `json:"daily_calories"`
	MealsPerDay   int       `json:"meals_per_day"`
	LastUpdated   time.Time `json:"last_updated"`
}

func toResponse(cat *domain.CatProfile) ProfileResponse {
	resp := ProfileResponse{
		ID:            cat.ID,
		Name:          cat.Name,
		Weight:        cat.WeightKg,
		TargetWeight:  cat.TargetWeight,
		DailyCalories: cat.DailyCalories,
		MealsPerDay:   cat.MealsPerDay,
		LastUpdated:   cat.LastUpdated,
	}
	if cat.Birthday != nil {
		day := cat.Birthday.Format(time.DateOnly)
		resp.Birthday = &day
		resp.BirthdayText = format.Date(*cat.Birthday)
	}
	return resp
}

// Get returns the profile.
// GET /v1/cat
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	cat, err := h.cats.Profile(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, toResponse(cat))
}

// Put replaces the profile.
// PUT /v1/cat
func (h *Handler) Put(w http.ResponseWriter, r *http.Request) {
	lang := r.Header.Get("Accept-Language")

	var req ProfileRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, http.StatusBadRequest, h.translator.Message(lang, i18n.InvalidRequest))
		return
	}

	in := logbook.CatInput{
		Name:          req.Name,
		WeightKg:      req.Weight,
		TargetWeight:  req.TargetWeight,
		DailyCalories: req.DailyCalories,
		MealsPerDay:   req.MealsPerDay,
	}
	if req.Birthday != "" {
		birthday, err := time.Parse(time.DateOnly, req.Birthday)
		if err != nil {
			httputil.Error(w, http.StatusBadRequest, h.translator.Message(lang, i18n.InvalidProfile))
			return
		}
		in.Birthday = &birthday
	}

	cat, err := h.cats.Save(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, toResponse(cat))
}

// Calories suggests a daily target from the profile weight.
// GET /v1/cat/calories?activity=low|moderate|high
func (h *Handler) Calories(w http.ResponseWriter, r *http.Request) {
	level := format.ActivityLow
	if raw := r.URL.Query().Get("activity"); raw != "" {
		parsed, err := format.ParseActivityLevel(raw)
		if err != nil {
			httputil.Error(w, http.StatusBadRequest, h.translator.Message(r.Header.Get("Accept-Language"), i18n.InvalidRequest))
			return
		}
		level = parsed
	}

	kcal, err := h.cats.SuggestedCalories(r.Context(), level)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]any{
		"activity":       level,
		"daily_calories": kcal,
	})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	lang := r.Header.Get("Accept-Language")
	switch {
	case errors.Is(err, domain.ErrProfileNotFound):
		httputil.Error(w, http.StatusNotFound, h.translator.Message(lang, i18n.ProfileNotFound))
	case errors.Is(err, domain.ErrInvalidProfile):
		httputil.Error(w, http.StatusBadRequest, h.translator.Message(lang, i18n.InvalidProfile))
	default:
		h.logger.ErrorContext(r.Context(), "cat profile request failed", "error", err)
		httputil.Error(w, http.StatusInternalServerError, h.translator.Message(lang, i18n.InternalError))
	}
}

package cat

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/catfeed/internal/i18n"
	"github.com/tendant/catfeed/pkg/domain"
	"github.com/tendant/catfeed/pkg/format"
	"github.com/tendant/catfeed/pkg/logbook"
)

type stubCats struct {
	profile  *domain.CatProfile
	saveErr  error
	gotInput logbook.CatInput
	gotLevel format.ActivityLevel
}

func (s *stubCats) Profile(ctx context.Context) (*domain.CatProfile, error) {
	if s.profile == nil {
		return nil, domain.ErrProfileNotFound
	}
	return s.profile, nil
}

func (s *stubCats) Save(ctx context.Context, in logbook.CatInput) (*domain.CatProfile, error) {
	s.gotInput = in
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	return &domain.CatProfile{ID: uuid.New(), Name: in.Name, Birthday: in.Birthday, WeightKg: in.WeightKg}, nil
}

func (s *stubCats) SuggestedCalories(ctx context.Context, level format.ActivityLevel) (int, error) {
	s.gotLevel = level
	if s.profile == nil {
		return 0, domain.ErrProfileNotFound
	}
	return format.Calories(s.profile.WeightKg, level), nil
}

func newHandler(svc Service) *Handler {
	return NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), svc, i18n.Default())
}

func TestGet(t *testing.T) {
	birthday := time.Date(2022, 5, 1, 0, 0, 0, 0, time.UTC)
	h := newHandler(&stubCats{profile: &domain.CatProfile{Name: "小花", Birthday: &birthday, WeightKg: 4.2}})

	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/v1/cat", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ProfileResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "小花", resp.Name)
	require.NotNil(t, resp.Birthday)
	assert.Equal(t, "2022-05-01", *resp.Birthday)
	assert.Equal(t, "2022年5月1日", resp.BirthdayText)

	rec = httptest.NewRecorder()
	newHandler(&stubCats{}).Get(rec, httptest.NewRequest(http.MethodGet, "/v1/cat", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPut(t *testing.T) {
	svc := &stubCats{}
	h := newHandler(svc)

	put := func(body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.Put(rec, httptest.NewRequest(http.MethodPut, "/v1/cat", bytes.NewBufferString(body)))
		return rec
	}

	rec := put(`{"name":"小花","birthday":"2022-05-01","weight":4.5,"meals_per_day":3}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.gotInput.Birthday)
	assert.Equal(t, 4.5, svc.gotInput.WeightKg)

	rec = put(`{"name":"小花","birthday":"05/01/2022"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.saveErr = domain.ErrInvalidProfile
	rec = put(`{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "貓咪資料不正確")
}

func TestCalories(t *testing.T) {
	svc := &stubCats{profile: &domain.CatProfile{WeightKg: 5}}
	h := newHandler(svc)

	rec := httptest.NewRecorder()
	h.Calories(rec, httptest.NewRequest(http.MethodGet, "/v1/cat/calories?activity=high", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"activity":"high","daily_calories":210}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.Calories(rec, httptest.NewRequest(http.MethodGet, "/v1/cat/calories", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, format.ActivityLow, svc.gotLevel)

	rec = httptest.NewRecorder()
	h.Calories(rec, httptest.NewRequest(http.MethodGet, "/v1/cat/calories?activity=zoomies", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

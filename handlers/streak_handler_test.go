package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DharuvSharma/fitness-minder/internal/streak"
	"github.com/DharuvSharma/fitness-minder/middleware"
	"github.com/DharuvSharma/fitness-minder/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStreakUnauthenticated(t *testing.T) {
	h := NewStreakHandler(services.NewStreakService(services.NewMemoryStreakStore()))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/streaks", nil)
	rec := httptest.NewRecorder()

	h.GetStreak(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetStreakZeroState(t *testing.T) {
	h := NewStreakHandler(services.NewStreakService(services.NewMemoryStreakStore()))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/streaks", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), "user_1"))
	rec := httptest.NewRecorder()

	h.GetStreak(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp streak.StreakResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.CurrentStreak)
	assert.Equal(t, 0, resp.LongestStreak)
	assert.Nil(t, resp.LastWorkoutDate)
}

func TestGetStreakReturnsEngineState(t *testing.T) {
	svc := services.NewStreakService(services.NewMemoryStreakStore())
	h := NewStreakHandler(svc)

	today := time.Now()
	require.NoError(t, svc.ApplyCompletion(context.Background(), "user_1", today.AddDate(0, 0, -1), today))
	require.NoError(t, svc.ApplyCompletion(context.Background(), "user_1", today, today))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/streaks", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), "user_1"))
	rec := httptest.NewRecorder()

	h.GetStreak(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp streak.StreakResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.CurrentStreak)
	assert.Equal(t, 2, resp.LongestStreak)
	require.NotNil(t, resp.LastWorkoutDate)
}

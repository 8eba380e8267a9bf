package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/DharuvSharma/fitness-minder/internal/stats"
	"github.com/DharuvSharma/fitness-minder/internal/workout"
	"github.com/DharuvSharma/fitness-minder/middleware"
	"github.com/DharuvSharma/fitness-minder/services"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type WorkoutHandler struct {
	workoutService *services.WorkoutService
}

func NewWorkoutHandler(workoutService *services.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{
		workoutService: workoutService,
	}
}

func (h *WorkoutHandler) GetWorkouts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	if daysParam := r.URL.Query().Get("days"); daysParam != "" {
		days, err := strconv.Atoi(daysParam)
		if err != nil || days <= 0 {
			respondWithError(w, http.StatusBadRequest, "Query parameter 'days' must be a positive integer")
			return
		}

		workouts, err := h.workoutService.GetWorkoutsByRange(ctx, userID, days)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Error fetching workouts")
			return
		}
		respondWithJSON(w, http.StatusOK, workouts)
		return
	}

	workouts, err := h.workoutService.GetWorkouts(ctx, userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error fetching workouts")
		return
	}

	respondWithJSON(w, http.StatusOK, workouts)
}

func (h *WorkoutHandler) GetWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid workout id")
		return
	}

	wo, err := h.workoutService.GetWorkoutByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, services.ErrWorkoutNotFound) {
			respondWithError(w, http.StatusNotFound, "Workout not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Error fetching workout")
		return
	}

	respondWithJSON(w, http.StatusOK, wo)
}

func (h *WorkoutHandler) CreateWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req workout.CreateWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title == "" || req.Date == "" {
		respondWithError(w, http.StatusBadRequest, "Fields 'title' and 'date' are required")
		return
	}

	wo, err := h.workoutService.CreateWorkout(ctx, userID, &req)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, wo)
}

func (h *WorkoutHandler) UpdateWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid workout id")
		return
	}

	var req workout.UpdateWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	wo, err := h.workoutService.UpdateWorkout(ctx, userID, id, &req)
	if err != nil {
		if errors.Is(err, services.ErrWorkoutNotFound) {
			respondWithError(w, http.StatusNotFound, "Workout not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, wo)
}

func (h *WorkoutHandler) ToggleCompletion(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid workout id")
		return
	}

	wo, err := h.workoutService.ToggleCompletion(ctx, userID, id)
	if err != nil {
		if errors.Is(err, services.ErrWorkoutNotFound) {
			respondWithError(w, http.StatusNotFound, "Workout not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, wo)
}

func (h *WorkoutHandler) DeleteWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid workout id")
		return
	}

	if err := h.workoutService.DeleteWorkout(ctx, userID, id); err != nil {
		if errors.Is(err, services.ErrWorkoutNotFound) {
			respondWithError(w, http.StatusNotFound, "Workout not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Workout deleted successfully"})
}

func (h *WorkoutHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	now := time.Now()
	year, month := now.Year(), int(now.Month())

	if y := r.URL.Query().Get("year"); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Query parameter 'year' must be an integer")
			return
		}
		year = parsed
	}
	if m := r.URL.Query().Get("month"); m != "" {
		parsed, err := strconv.Atoi(m)
		if err != nil || parsed < 1 || parsed > 12 {
			respondWithError(w, http.StatusBadRequest, "Query parameter 'month' must be 1-12")
			return
		}
		month = parsed
	}

	cal, err := h.workoutService.GetCalendar(ctx, userID, year, month)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error fetching calendar")
		return
	}

	respondWithJSON(w, http.StatusOK, cal)
}

func (h *WorkoutHandler) GetWeeklyStats(w http.ResponseWriter, r *http.Request) {
	h.serveStats(w, r, h.workoutService.GetWeeklyStats)
}

func (h *WorkoutHandler) GetMonthlyStats(w http.ResponseWriter, r *http.Request) {
	h.serveStats(w, r, h.workoutService.GetMonthlyStats)
}

func (h *WorkoutHandler) GetYearlyStats(w http.ResponseWriter, r *http.Request) {
	h.serveStats(w, r, h.workoutService.GetYearlyStats)
}

func (h *WorkoutHandler) GetAllTimeStats(w http.ResponseWriter, r *http.Request) {
	h.serveStats(w, r, h.workoutService.GetAllTimeStats)
}

func (h *WorkoutHandler) serveStats(w http.ResponseWriter, r *http.Request, fetch func(context.Context, string) (*stats.DaysStat, error)) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	stat, err := fetch(ctx, userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error fetching stats")
		return
	}

	respondWithJSON(w, http.StatusOK, stat)
}

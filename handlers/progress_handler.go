package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/DharuvSharma/fitness-minder/internal/progress"
	"github.com/DharuvSharma/fitness-minder/middleware"
	"github.com/DharuvSharma/fitness-minder/services"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type ProgressHandler struct {
	progressService *services.ProgressService
}

func NewProgressHandler(progressService *services.ProgressService) *ProgressHandler {
	return &ProgressHandler{
		progressService: progressService,
	}
}

func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	category := r.URL.Query().Get("category")
	if category == "" {
		respondWithError(w, http.StatusBadRequest, "Query parameter 'category' is required")
		return
	}

	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	if start != "" && end != "" {
		startDate, err := time.Parse("2006-01-02", start)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Query parameter 'start' must be YYYY-MM-DD")
			return
		}
		endDate, err := time.Parse("2006-01-02", end)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Query parameter 'end' must be YYYY-MM-DD")
			return
		}

		entries, err := h.progressService.GetProgressByDateRange(ctx, userID, category, startDate, endDate)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Error fetching progress")
			return
		}
		respondWithJSON(w, http.StatusOK, entries)
		return
	}

	entries, err := h.progressService.GetProgress(ctx, userID, category)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error fetching progress")
		return
	}

	respondWithJSON(w, http.StatusOK, entries)
}

func (h *ProgressHandler) AddProgress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req progress.ProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Category == "" || req.Date == "" {
		respondWithError(w, http.StatusBadRequest, "Fields 'category' and 'date' are required")
		return
	}

	entry, err := h.progressService.AddProgress(ctx, userID, &req)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, entry)
}

func (h *ProgressHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid progress id")
		return
	}

	var req progress.ProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.progressService.UpdateProgress(ctx, userID, id, &req)
	if err != nil {
		if errors.Is(err, services.ErrProgressNotFound) {
			respondWithError(w, http.StatusNotFound, "Progress entry not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, entry)
}

func (h *ProgressHandler) DeleteProgress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid progress id")
		return
	}

	if err := h.progressService.DeleteProgress(ctx, userID, id); err != nil {
		if errors.Is(err, services.ErrProgressNotFound) {
			respondWithError(w, http.StatusNotFound, "Progress entry not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Progress entry deleted successfully"})
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

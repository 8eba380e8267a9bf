package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/DharuvSharma/fitness-minder/middleware"
	"github.com/DharuvSharma/fitness-minder/services"
)

type StreakHandler struct {
	streakService *services.StreakService
}

func NewStreakHandler(streakService *services.StreakService) *StreakHandler {
	return &StreakHandler{
		streakService: streakService,
	}
}

// GetStreak returns the user's current and longest streak. Decay is
// applied inside the service, so a streak that lapsed overnight is
// already zeroed in the response.
func (h *StreakHandler) GetStreak(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	streak, err := h.streakService.GetStreak(ctx, userID, time.Now())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error fetching streak")
		return
	}

	respondWithJSON(w, http.StatusOK, streak)
}

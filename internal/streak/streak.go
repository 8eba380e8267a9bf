package streak

import (
	"time"

	"github.com/google/uuid"
)

// Streak is the per-user streak state. At most one row per user;
// created lazily with zero values the first time a user is seen.
type Streak struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	UserID          string     `json:"user_id" db:"user_id"`
	CurrentStreak   int        `json:"current_streak" db:"current_streak"`
	LongestStreak   int        `json:"longest_streak" db:"longest_streak"`
	LastWorkoutDate *time.Time `json:"last_workout_date" db:"last_workout_date"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

type StreakResponse struct {
	CurrentStreak   int        `json:"current_streak"`
	LongestStreak   int        `json:"longest_streak"`
	LastWorkoutDate *time.Time `json:"last_workout_date"`
}

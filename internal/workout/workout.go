package workout

import (
	"time"

	"github.com/google/uuid"
)

type Workout struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	Type      string    `json:"type" db:"type"` // strength, cardio, hiit, flexibility
	Duration  int       `json:"duration" db:"duration"` // minutes
	Calories  int       `json:"calories" db:"calories"`
	Exercises int       `json:"exercises" db:"exercises"`
	Date      time.Time `json:"date" db:"date"`
	Completed bool      `json:"completed" db:"completed"`
	Notes     *string   `json:"notes" db:"notes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type CreateWorkoutRequest struct {
	Title     string  `json:"title"`
	Type      string  `json:"type"`
	Duration  int     `json:"duration"`
	Calories  int     `json:"calories"`
	Exercises int     `json:"exercises"`
	Date      string  `json:"date"` // YYYY-MM-DD
	Completed bool    `json:"completed"`
	Notes     *string `json:"notes"`
}

type UpdateWorkoutRequest struct {
	Title     string  `json:"title"`
	Type      string  `json:"type"`
	Duration  int     `json:"duration"`
	Calories  int     `json:"calories"`
	Exercises int     `json:"exercises"`
	Date      string  `json:"date"`
	Completed bool    `json:"completed"`
	Notes     *string `json:"notes"`
}

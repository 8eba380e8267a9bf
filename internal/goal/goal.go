package goal

import (
	"time"

	"github.com/google/uuid"
)

type Goal struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	UserID      string     `json:"user_id" db:"user_id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description" db:"description"`
	Target      float64    `json:"target" db:"target"`
	Current     float64    `json:"current" db:"current"`
	Type        string     `json:"type" db:"type"`     // weight, strength, endurance, habit, custom
	Status      string     `json:"status" db:"status"` // not-started, in-progress, completed
	Deadline    *time.Time `json:"deadline" db:"deadline"`
	Progress    int        `json:"progress" db:"progress"` // 0-100
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

type GoalRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Target      float64 `json:"target"`
	Current     float64 `json:"current"`
	Type        string  `json:"type"`
	Deadline    *string `json:"deadline"` // YYYY-MM-DD
}

package progress

import (
	"time"

	"github.com/google/uuid"
)

type Progress struct {
	ID             uuid.UUID      `json:"id" db:"id"`
	UserID         string         `json:"user_id" db:"user_id"`
	Category       string         `json:"category" db:"category"` // weight, strength
	Date           time.Time      `json:"date" db:"date"`
	Value          float64        `json:"value" db:"value"`
	AdditionalData map[string]any `json:"additional_data" db:"additional_data"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
}

type ProgressRequest struct {
	Category       string         `json:"category"`
	Date           string         `json:"date"` // YYYY-MM-DD
	Value          float64        `json:"value"`
	AdditionalData map[string]any `json:"additional_data"`
}

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/DharuvSharma/fitness-minder/internal/streak"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StreakStore is the persistence contract the streak engine runs on.
// Get returns nil (not an error) when no state exists for the user;
// the engine lazily creates a zero state in that case. Both calls are
// atomic on their own but not transactional across calls - per-user
// serialization is the engine's job, not the store's.
type StreakStore interface {
	Get(ctx context.Context, userID string) (*streak.Streak, error)
	Put(ctx context.Context, st *streak.Streak) error
}

type PostgresStreakStore struct {
	db *pgxpool.Pool
}

func NewPostgresStreakStore(db *pgxpool.Pool) *PostgresStreakStore {
	return &PostgresStreakStore{db: db}
}

func (s *PostgresStreakStore) Get(ctx context.Context, userID string) (*streak.Streak, error) {
	query := `
	SELECT id, user_id, current_streak, longest_streak, last_workout_date, created_at, updated_at
	FROM streaks
	WHERE user_id = $1
	`

	st := &streak.Streak{}
	err := s.db.QueryRow(ctx, query, userID).Scan(
		&st.ID,
		&st.UserID,
		&st.CurrentStreak,
		&st.LongestStreak,
		&st.LastWorkoutDate,
		&st.CreatedAt,
		&st.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get streak: %w", err)
	}

	return st, nil
}

func (s *PostgresStreakStore) Put(ctx context.Context, st *streak.Streak) error {
	query := `
	INSERT INTO streaks (id, user_id, current_streak, longest_streak, last_workout_date, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	ON CONFLICT (user_id)
	DO UPDATE SET
		current_streak = $3,
		longest_streak = $4,
		last_workout_date = $5,
		updated_at = NOW()
	`

	_, err := s.db.Exec(ctx, query, st.ID, st.UserID, st.CurrentStreak, st.LongestStreak, st.LastWorkoutDate)
	if err != nil {
		return fmt.Errorf("failed to save streak: %w", err)
	}

	return nil
}

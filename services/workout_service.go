package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DharuvSharma/fitness-minder/internal/calendar"
	"github.com/DharuvSharma/fitness-minder/internal/stats"
	"github.com/DharuvSharma/fitness-minder/internal/workout"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrWorkoutNotFound = errors.New("workout not found")

// WorkoutService owns workout records and is the event source for
// the streak engine: every mutation that can change the set of
// completed dates tells the engine about it, either through the
// incremental fast path or through a full recompute.
type WorkoutService struct {
	db      *pgxpool.Pool
	streaks *StreakService
}

func NewWorkoutService(db *pgxpool.Pool, streaks *StreakService) *WorkoutService {
	return &WorkoutService{db: db, streaks: streaks}
}

const workoutColumns = `id, user_id, title, type, duration, calories, exercises, date, completed, notes, created_at, updated_at`

func (s *WorkoutService) GetWorkouts(ctx context.Context, userID string) ([]*workout.Workout, error) {
	query := `
	SELECT ` + workoutColumns + `
	FROM workouts
	WHERE user_id = $1
	ORDER BY date DESC
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workouts: %w", err)
	}
	defer rows.Close()

	return scanWorkouts(rows)
}

func (s *WorkoutService) GetWorkoutsByRange(ctx context.Context, userID string, days int) ([]*workout.Workout, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -days)

	query := `
	SELECT ` + workoutColumns + `
	FROM workouts
	WHERE user_id = $1 AND date >= $2 AND date <= $3
	ORDER BY date DESC
	`

	rows, err := s.db.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get workouts by range: %w", err)
	}
	defer rows.Close()

	return scanWorkouts(rows)
}

func (s *WorkoutService) GetWorkoutByID(ctx context.Context, userID string, id uuid.UUID) (*workout.Workout, error) {
	query := `
	SELECT ` + workoutColumns + `
	FROM workouts
	WHERE id = $1 AND user_id = $2
	`

	w := &workout.Workout{}
	err := s.db.QueryRow(ctx, query, id, userID).Scan(
		&w.ID, &w.UserID, &w.Title, &w.Type, &w.Duration, &w.Calories,
		&w.Exercises, &w.Date, &w.Completed, &w.Notes, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWorkoutNotFound
		}
		return nil, fmt.Errorf("failed to get workout: %w", err)
	}

	return w, nil
}

func (s *WorkoutService) CreateWorkout(ctx context.Context, userID string, req *workout.CreateWorkoutRequest) (*workout.Workout, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", req.Date, err)
	}

	w := &workout.Workout{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     req.Title,
		Type:      req.Type,
		Duration:  req.Duration,
		Calories:  req.Calories,
		Exercises: req.Exercises,
		Date:      date,
		Completed: req.Completed,
		Notes:     req.Notes,
	}

	query := `
	INSERT INTO workouts (id, user_id, title, type, duration, calories, exercises, date, completed, notes, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	RETURNING created_at, updated_at
	`

	err = s.db.QueryRow(ctx, query,
		w.ID, w.UserID, w.Title, w.Type, w.Duration, w.Calories,
		w.Exercises, w.Date, w.Completed, w.Notes,
	).Scan(&w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create workout: %w", err)
	}

	today := time.Now()
	if w.Completed && !dateAfter(w.Date, today) {
		if err := s.streaks.ApplyCompletion(ctx, userID, w.Date, today); err != nil {
			return nil, fmt.Errorf("failed to update streak: %w", err)
		}
	}

	return w, nil
}

func (s *WorkoutService) UpdateWorkout(ctx context.Context, userID string, id uuid.UUID, req *workout.UpdateWorkoutRequest) (*workout.Workout, error) {
	existing, err := s.GetWorkoutByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", req.Date, err)
	}

	wasCompleted := existing.Completed
	oldDate := existing.Date

	query := `
	UPDATE workouts
	SET title = $1, type = $2, duration = $3, calories = $4, exercises = $5, date = $6, completed = $7, notes = $8, updated_at = NOW()
	WHERE id = $9 AND user_id = $10
	RETURNING ` + workoutColumns + `
	`

	w := &workout.Workout{}
	err = s.db.QueryRow(ctx, query,
		req.Title, req.Type, req.Duration, req.Calories, req.Exercises,
		date, req.Completed, req.Notes, id, userID,
	).Scan(
		&w.ID, &w.UserID, &w.Title, &w.Type, &w.Duration, &w.Calories,
		&w.Exercises, &w.Date, &w.Completed, &w.Notes, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update workout: %w", err)
	}

	today := time.Now()
	sameDay := sameDate(oldDate, w.Date)
	if !wasCompleted && w.Completed {
		err = s.streaks.ApplyCompletion(ctx, userID, w.Date, today)
	} else if wasCompleted && !w.Completed {
		err = s.recomputeStreak(ctx, userID, today)
	} else if wasCompleted && w.Completed && !sameDay {
		// A completed workout moved to another date: the incremental
		// assumption no longer holds.
		err = s.recomputeStreak(ctx, userID, today)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update streak: %w", err)
	}

	return w, nil
}

func (s *WorkoutService) ToggleCompletion(ctx context.Context, userID string, id uuid.UUID) (*workout.Workout, error) {
	query := `
	UPDATE workouts
	SET completed = NOT completed, updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING ` + workoutColumns + `
	`

	w := &workout.Workout{}
	err := s.db.QueryRow(ctx, query, id, userID).Scan(
		&w.ID, &w.UserID, &w.Title, &w.Type, &w.Duration, &w.Calories,
		&w.Exercises, &w.Date, &w.Completed, &w.Notes, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWorkoutNotFound
		}
		return nil, fmt.Errorf("failed to toggle workout: %w", err)
	}

	today := time.Now()
	if w.Completed {
		err = s.streaks.ApplyCompletion(ctx, userID, w.Date, today)
	} else {
		err = s.recomputeStreak(ctx, userID, today)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update streak: %w", err)
	}

	return w, nil
}

func (s *WorkoutService) DeleteWorkout(ctx context.Context, userID string, id uuid.UUID) error {
	var wasCompleted bool
	err := s.db.QueryRow(ctx, `
	DELETE FROM workouts
	WHERE id = $1 AND user_id = $2
	RETURNING completed
	`, id, userID).Scan(&wasCompleted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrWorkoutNotFound
		}
		return fmt.Errorf("failed to delete workout: %w", err)
	}

	if wasCompleted {
		if err := s.recomputeStreak(ctx, userID, time.Now()); err != nil {
			return fmt.Errorf("failed to update streak: %w", err)
		}
	}

	return nil
}

// recomputeStreak hands the engine the authoritative set of distinct
// completed dates for the user.
func (s *WorkoutService) recomputeStreak(ctx context.Context, userID string, today time.Time) error {
	query := `
	SELECT DISTINCT date
	FROM workouts
	WHERE user_id = $1 AND completed = true
	ORDER BY date
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to get completed dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return fmt.Errorf("failed to scan date: %w", err)
		}
		dates = append(dates, d)
	}
	if err = rows.Err(); err != nil {
		return fmt.Errorf("error iterating rows: %w", err)
	}

	return s.streaks.Recompute(ctx, userID, dates, today)
}

func (s *WorkoutService) GetWeeklyStats(ctx context.Context, userID string) (*stats.DaysStat, error) {
	query := `
	SELECT COALESCE(COUNT(DISTINCT date), 0) as days_worked_out
	FROM workouts
	WHERE user_id = $1
		AND completed = true
		AND date >= DATE_TRUNC('week', CURRENT_DATE)
		AND date <= CURRENT_DATE
	`

	stat := &stats.DaysStat{Period: "week", TotalDays: 7}
	if err := s.db.QueryRow(ctx, query, userID).Scan(&stat.DaysWorkedOut); err != nil {
		return nil, fmt.Errorf("failed to get weekly stats: %w", err)
	}

	return stat, nil
}

func (s *WorkoutService) GetMonthlyStats(ctx context.Context, userID string) (*stats.DaysStat, error) {
	query := `
	SELECT COALESCE(COUNT(DISTINCT date), 0) as days_worked_out
	FROM workouts
	WHERE user_id = $1
		AND completed = true
		AND date >= DATE_TRUNC('month', CURRENT_DATE)
		AND date <= CURRENT_DATE
	`

	daysInMonth := time.Now().AddDate(0, 1, -time.Now().Day()).Day()
	stat := &stats.DaysStat{Period: "month", TotalDays: daysInMonth}
	if err := s.db.QueryRow(ctx, query, userID).Scan(&stat.DaysWorkedOut); err != nil {
		return nil, fmt.Errorf("failed to get monthly stats: %w", err)
	}

	return stat, nil
}

func (s *WorkoutService) GetYearlyStats(ctx context.Context, userID string) (*stats.DaysStat, error) {
	query := `
	SELECT COALESCE(COUNT(DISTINCT date), 0) as days_worked_out
	FROM workouts
	WHERE user_id = $1
		AND completed = true
		AND date >= DATE_TRUNC('year', CURRENT_DATE)
		AND date <= CURRENT_DATE
	`

	now := time.Now()
	daysInYear := 365
	if now.Year()%4 == 0 && (now.Year()%100 != 0 || now.Year()%400 == 0) {
		daysInYear = 366
	}

	stat := &stats.DaysStat{Period: "year", TotalDays: daysInYear}
	if err := s.db.QueryRow(ctx, query, userID).Scan(&stat.DaysWorkedOut); err != nil {
		return nil, fmt.Errorf("failed to get yearly stats: %w", err)
	}

	return stat, nil
}

func (s *WorkoutService) GetAllTimeStats(ctx context.Context, userID string) (*stats.DaysStat, error) {
	query := `
	SELECT
		COALESCE(COUNT(DISTINCT date), 0) as days_worked_out,
		COALESCE(CURRENT_DATE - MIN(date) + 1, 0) as total_days
	FROM workouts
	WHERE user_id = $1 AND completed = true
	`

	stat := &stats.DaysStat{Period: "all_time"}
	if err := s.db.QueryRow(ctx, query, userID).Scan(&stat.DaysWorkedOut, &stat.TotalDays); err != nil {
		return nil, fmt.Errorf("failed to get all-time stats: %w", err)
	}

	return stat, nil
}

func (s *WorkoutService) GetCalendar(ctx context.Context, userID string, year, month int) (*calendar.CalendarResponse, error) {
	startDate := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	endDate := startDate.AddDate(0, 1, -1)

	query := `
	SELECT date
	FROM workouts
	WHERE user_id = $1
		AND completed = true
		AND date >= $2
		AND date <= $3
	`

	rows, err := s.db.Query(ctx, query, userID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calendar: %w", err)
	}
	defer rows.Close()

	dayMap := make(map[string]bool)
	for rows.Next() {
		var date time.Time
		if err := rows.Scan(&date); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		dayMap[date.Format("2006-01-02")] = true
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	var days []*calendar.CalendarDay
	today := time.Now().Format("2006-01-02")

	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		dateStr := d.Format("2006-01-02")
		days = append(days, &calendar.CalendarDay{
			Date:      d,
			WorkedOut: dayMap[dateStr],
			IsToday:   dateStr == today,
		})
	}

	return &calendar.CalendarResponse{
		Year:  year,
		Month: month,
		Days:  days,
	}, nil
}

func scanWorkouts(rows pgx.Rows) ([]*workout.Workout, error) {
	var workouts []*workout.Workout
	for rows.Next() {
		w := &workout.Workout{}
		err := rows.Scan(
			&w.ID, &w.UserID, &w.Title, &w.Type, &w.Duration, &w.Calories,
			&w.Exercises, &w.Date, &w.Completed, &w.Notes, &w.CreatedAt, &w.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workout: %w", err)
		}
		workouts = append(workouts, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	if workouts == nil {
		workouts = []*workout.Workout{}
	}

	return workouts, nil
}

func sameDate(a, b time.Time) bool {
	return dateOnly(a).Equal(dateOnly(b))
}

func dateAfter(a, b time.Time) bool {
	return dateOnly(a).After(dateOnly(b))
}

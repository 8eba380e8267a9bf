package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/DharuvSharma/fitness-minder/internal/goal"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrGoalNotFound = errors.New("goal not found")

type GoalService struct {
	db *pgxpool.Pool
}

func NewGoalService(db *pgxpool.Pool) *GoalService {
	return &GoalService{db: db}
}

const goalColumns = `id, user_id, title, description, target, current, type, status, deadline, progress, created_at, updated_at`

func (s *GoalService) GetGoals(ctx context.Context, userID string) ([]*goal.Goal, error) {
	query := `
	SELECT ` + goalColumns + `
	FROM goals
	WHERE user_id = $1
	ORDER BY created_at DESC
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get goals: %w", err)
	}
	defer rows.Close()

	var goals []*goal.Goal
	for rows.Next() {
		g := &goal.Goal{}
		err := rows.Scan(
			&g.ID, &g.UserID, &g.Title, &g.Description, &g.Target, &g.Current,
			&g.Type, &g.Status, &g.Deadline, &g.Progress, &g.CreatedAt, &g.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, g)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	if goals == nil {
		goals = []*goal.Goal{}
	}

	return goals, nil
}

func (s *GoalService) GetGoalByID(ctx context.Context, userID string, id uuid.UUID) (*goal.Goal, error) {
	query := `
	SELECT ` + goalColumns + `
	FROM goals
	WHERE id = $1 AND user_id = $2
	`

	g := &goal.Goal{}
	err := s.db.QueryRow(ctx, query, id, userID).Scan(
		&g.ID, &g.UserID, &g.Title, &g.Description, &g.Target, &g.Current,
		&g.Type, &g.Status, &g.Deadline, &g.Progress, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGoalNotFound
		}
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}

	return g, nil
}

func (s *GoalService) CreateGoal(ctx context.Context, userID string, req *goal.GoalRequest) (*goal.Goal, error) {
	deadline, err := parseOptionalDate(req.Deadline)
	if err != nil {
		return nil, err
	}

	g := &goal.Goal{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Target:      req.Target,
		Current:     req.Current,
		Type:        req.Type,
		Deadline:    deadline,
	}
	g.Progress = calculateProgress(g.Current, g.Target)
	g.Status = deriveStatus(g.Progress)

	query := `
	INSERT INTO goals (id, user_id, title, description, target, current, type, status, deadline, progress, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	RETURNING created_at, updated_at
	`

	err = s.db.QueryRow(ctx, query,
		g.ID, g.UserID, g.Title, g.Description, g.Target, g.Current,
		g.Type, g.Status, g.Deadline, g.Progress,
	).Scan(&g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	return g, nil
}

func (s *GoalService) UpdateGoal(ctx context.Context, userID string, id uuid.UUID, req *goal.GoalRequest) (*goal.Goal, error) {
	deadline, err := parseOptionalDate(req.Deadline)
	if err != nil {
		return nil, err
	}

	progress := calculateProgress(req.Current, req.Target)
	status := deriveStatus(progress)

	query := `
	UPDATE goals
	SET title = $1, description = $2, target = $3, current = $4, type = $5, status = $6, deadline = $7, progress = $8, updated_at = NOW()
	WHERE id = $9 AND user_id = $10
	RETURNING ` + goalColumns + `
	`

	g := &goal.Goal{}
	err = s.db.QueryRow(ctx, query,
		req.Title, req.Description, req.Target, req.Current, req.Type,
		status, deadline, progress, id, userID,
	).Scan(
		&g.ID, &g.UserID, &g.Title, &g.Description, &g.Target, &g.Current,
		&g.Type, &g.Status, &g.Deadline, &g.Progress, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGoalNotFound
		}
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}

	return g, nil
}

func (s *GoalService) DeleteGoal(ctx context.Context, userID string, id uuid.UUID) error {
	result, err := s.db.Exec(ctx, `DELETE FROM goals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrGoalNotFound
	}

	return nil
}

// calculateProgress maps current/target to a 0-100 percentage,
// clamped at both ends. A non-positive target always reads as 0.
func calculateProgress(current, target float64) int {
	if target <= 0 {
		return 0
	}

	pct := math.Round(current / target * 100)
	return int(math.Min(100, math.Max(0, pct)))
}

func deriveStatus(progress int) string {
	switch {
	case progress >= 100:
		return "completed"
	case progress > 0:
		return "in-progress"
	default:
		return "not-started"
	}
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", *s, err)
	}
	return &t, nil
}

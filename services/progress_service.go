package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DharuvSharma/fitness-minder/internal/progress"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrProgressNotFound = errors.New("progress entry not found")

type ProgressService struct {
	db *pgxpool.Pool
}

func NewProgressService(db *pgxpool.Pool) *ProgressService {
	return &ProgressService{db: db}
}

func (s *ProgressService) GetProgress(ctx context.Context, userID, category string) ([]*progress.Progress, error) {
	query := `
	SELECT id, user_id, category, date, value, additional_data, created_at
	FROM progress
	WHERE user_id = $1 AND category = $2
	ORDER BY date DESC
	`

	rows, err := s.db.Query(ctx, query, userID, category)
	if err != nil {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}
	defer rows.Close()

	return scanProgress(rows)
}

func (s *ProgressService) GetProgressByDateRange(ctx context.Context, userID, category string, start, end time.Time) ([]*progress.Progress, error) {
	query := `
	SELECT id, user_id, category, date, value, additional_data, created_at
	FROM progress
	WHERE user_id = $1 AND category = $2 AND date >= $3 AND date <= $4
	ORDER BY date DESC
	`

	rows, err := s.db.Query(ctx, query, userID, category, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get progress by range: %w", err)
	}
	defer rows.Close()

	return scanProgress(rows)
}

func (s *ProgressService) AddProgress(ctx context.Context, userID string, req *progress.ProgressRequest) (*progress.Progress, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", req.Date, err)
	}

	p := &progress.Progress{
		ID:             uuid.New(),
		UserID:         userID,
		Category:       req.Category,
		Date:           date,
		Value:          req.Value,
		AdditionalData: req.AdditionalData,
	}

	query := `
	INSERT INTO progress (id, user_id, category, date, value, additional_data, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, NOW())
	RETURNING created_at
	`

	err = s.db.QueryRow(ctx, query, p.ID, p.UserID, p.Category, p.Date, p.Value, p.AdditionalData).Scan(&p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to add progress: %w", err)
	}

	return p, nil
}

func (s *ProgressService) UpdateProgress(ctx context.Context, userID string, id uuid.UUID, req *progress.ProgressRequest) (*progress.Progress, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", req.Date, err)
	}

	query := `
	UPDATE progress
	SET category = $1, date = $2, value = $3, additional_data = $4
	WHERE id = $5 AND user_id = $6
	RETURNING id, user_id, category, date, value, additional_data, created_at
	`

	p := &progress.Progress{}
	err = s.db.QueryRow(ctx, query, req.Category, date, req.Value, req.AdditionalData, id, userID).Scan(
		&p.ID, &p.UserID, &p.Category, &p.Date, &p.Value, &p.AdditionalData, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProgressNotFound
		}
		return nil, fmt.Errorf("failed to update progress: %w", err)
	}

	return p, nil
}

func (s *ProgressService) DeleteProgress(ctx context.Context, userID string, id uuid.UUID) error {
	result, err := s.db.Exec(ctx, `DELETE FROM progress WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete progress: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrProgressNotFound
	}

	return nil
}

func scanProgress(rows pgx.Rows) ([]*progress.Progress, error) {
	var entries []*progress.Progress
	for rows.Next() {
		p := &progress.Progress{}
		err := rows.Scan(&p.ID, &p.UserID, &p.Category, &p.Date, &p.Value, &p.AdditionalData, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan progress: %w", err)
		}
		entries = append(entries, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	if entries == nil {
		entries = []*progress.Progress{}
	}

	return entries, nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ds124wfegd/tennis-courts/internal/entity"
)

type scheduleRepository struct {
	db *sql.DB
}

func NewScheduleRepository(db *sql.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) GetByID(ctx context.Context, id int64) (*entity.Schedule, error) {
	query := `
		SELECT id, court_id, starts_at, ends_at, created_at
		FROM schedules
		WHERE id = $1
	`

	var schedule entity.Schedule
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&schedule.ID,
		&schedule.CourtID,
		&schedule.StartsAt,
		&schedule.EndsAt,
		&schedule.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, entity.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}

	return &schedule, nil
}

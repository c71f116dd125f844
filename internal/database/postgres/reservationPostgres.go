package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ds124wfegd/tennis-courts/internal/entity"
)

const reservationColumns = `
	r.id, r.guest_id, r.schedule_id, r.value, r.refund_value,
	r.status, r.created_at, r.updated_at`

type reservationRepository struct {
	db *sql.DB
}

func NewReservationRepository(db *sql.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(row rowScanner) (*entity.Reservation, error) {
	var reservation entity.Reservation
	err := row.Scan(
		&reservation.ID,
		&reservation.GuestID,
		&reservation.ScheduleID,
		&reservation.Value,
		&reservation.RefundValue,
		&reservation.Status,
		&reservation.CreatedAt,
		&reservation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// Create inserts a new reservation and fills in its id and timestamps
func (r *reservationRepository) Create(ctx context.Context, reservation *entity.Reservation) error {
	return insertReservation(ctx, r.db, reservation)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insertReservation(ctx context.Context, q queryRower, reservation *entity.Reservation) error {
	query := `
		INSERT INTO reservations (
			guest_id, schedule_id, value, refund_value, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	now := time.Now()
	err := q.QueryRowContext(ctx, query,
		reservation.GuestID,
		reservation.ScheduleID,
		reservation.Value,
		reservation.RefundValue,
		reservation.Status,
		now,
		now,
	).Scan(&reservation.ID)
	if err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	reservation.CreatedAt = now
	reservation.UpdatedAt = now
	return nil
}

// GetByID retrieves a reservation by its ID
func (r *reservationRepository) GetByID(ctx context.Context, id int64) (*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations r WHERE r.id = $1`

	reservation, err := scanReservation(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, entity.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	return reservation, nil
}

// GetByIDAndScheduleID retrieves a reservation only if it is linked to scheduleID
func (r *reservationRepository) GetByIDAndScheduleID(ctx context.Context, id, scheduleID int64) (*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations r WHERE r.id = $1 AND r.schedule_id = $2`

	reservation, err := scanReservation(r.db.QueryRowContext(ctx, query, id, scheduleID))
	if err == sql.ErrNoRows {
		return nil, entity.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation by schedule: %w", err)
	}
	return reservation, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func updateReservation(ctx context.Context, e execer, reservation *entity.Reservation, from entity.ReservationStatus) error {
	query := `
		UPDATE reservations
		SET value = $1, refund_value = $2, status = $3, updated_at = $4
		WHERE id = $5 AND status = $6
	`

	now := time.Now()
	result, err := e.ExecContext(ctx, query,
		reservation.Value,
		reservation.RefundValue,
		reservation.Status,
		now,
		reservation.ID,
		from,
	)
	if err != nil {
		return fmt.Errorf("failed to update reservation: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrConcurrentUpdate
	}

	reservation.UpdatedAt = now
	return nil
}

func (r *reservationRepository) Update(ctx context.Context, reservation *entity.Reservation, from entity.ReservationStatus) error {
	return updateReservation(ctx, r.db, reservation, from)
}

// GetByScheduleEndAtOrBefore lists reservations whose slot ended at or before at
func (r *reservationRepository) GetByScheduleEndAtOrBefore(ctx context.Context, at time.Time) ([]*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations r
		JOIN schedules s ON s.id = r.schedule_id
		WHERE s.ends_at <= $1
		ORDER BY s.ends_at ASC, r.id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, at)
	if err != nil {
		return nil, fmt.Errorf("failed to query past reservations: %w", err)
	}
	return collectReservations(rows)
}

// GetByStatusAndScheduleEndAtOrBefore is GetByScheduleEndAtOrBefore narrowed to one status
func (r *reservationRepository) GetByStatusAndScheduleEndAtOrBefore(ctx context.Context, status entity.ReservationStatus, at time.Time) ([]*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations r
		JOIN schedules s ON s.id = r.schedule_id
		WHERE r.status = $1 AND s.ends_at <= $2
		ORDER BY s.ends_at ASC, r.id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, status, at)
	if err != nil {
		return nil, fmt.Errorf("failed to query reservations by status: %w", err)
	}
	return collectReservations(rows)
}

func collectReservations(rows *sql.Rows) ([]*entity.Reservation, error) {
	defer rows.Close()

	reservations := make([]*entity.Reservation, 0)
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		reservations = append(reservations, reservation)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reservations: %w", err)
	}
	return reservations, nil
}

// Reschedule closes previous and opens next atomically
func (r *reservationRepository) Reschedule(ctx context.Context, previous, next *entity.Reservation) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelReadCommitted,
	})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := updateReservation(ctx, tx, previous, entity.ReservationStatusReadyToPlay); err != nil {
		return err
	}

	if err := insertReservation(ctx, tx, next); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"time"

	"github.com/ds124wfegd/tennis-courts/internal/entity"
)

// Lookups return entity.ErrRecordNotFound when nothing matches.
type ReservationRepository interface {
	Create(ctx context.Context, reservation *entity.Reservation) error
	GetByID(ctx context.Context, id int64) (*entity.Reservation, error)
	GetByIDAndScheduleID(ctx context.Context, id, scheduleID int64) (*entity.Reservation, error)

	// Update stores reservation only while the stored status is still from,
	// otherwise it returns entity.ErrConcurrentUpdate.
	Update(ctx context.Context, reservation *entity.Reservation, from entity.ReservationStatus) error

	// Query operations
	GetByScheduleEndAtOrBefore(ctx context.Context, at time.Time) ([]*entity.Reservation, error)
	GetByStatusAndScheduleEndAtOrBefore(ctx context.Context, status entity.ReservationStatus, at time.Time) ([]*entity.Reservation, error)

	// Reschedule updates previous (guarded like Update) and inserts next
	// in a single transaction.
	Reschedule(ctx context.Context, previous, next *entity.Reservation) error
}

type ScheduleRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Schedule, error)
}

type GuestRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Guest, error)
}

package entity

import (
	"errors"
	"fmt"
	"time"
)

var (
	// Lookup errors
	ErrRecordNotFound = errors.New("record not found")
	ErrNotFound       = errors.New("entity not found")

	// Reservation errors
	ErrInactiveReservation = errors.New("reservation is not active")
	ErrPastReservation     = errors.New("reservation start is in the past")
	ErrInvalidTransition   = errors.New("invalid reservation transition")
	ErrInvalidRefund       = errors.New("invalid refund value")

	// General errors
	ErrInvalidInput     = errors.New("invalid input")
	ErrConcurrentUpdate = errors.New("concurrent update detected")
)

type EntityKind string

const (
	KindGuest       EntityKind = "Guest"
	KindSchedule    EntityKind = "Schedule"
	KindReservation EntityKind = "Reservation"
)

const messageTimeLayout = "2006-01-02T15:04"

type NotFoundError struct {
	Entity EntityKind
	ID     int64
}

func NewNotFoundError(kind EntityKind, id int64) *NotFoundError {
	return &NotFoundError{Entity: kind, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found. id: %d", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// InactiveReservationError carries the status that blocked the change.
type InactiveReservationError struct {
	Status ReservationStatus
}

func (e *InactiveReservationError) Error() string {
	return fmt.Sprintf("Reservation should be in ready to play status. Actual status: %s", e.Status)
}

func (e *InactiveReservationError) Is(target error) bool {
	return target == ErrInactiveReservation
}

// PastReservationError carries the start of the schedule that already began.
type PastReservationError struct {
	StartsAt time.Time
}

func (e *PastReservationError) Error() string {
	return fmt.Sprintf("Can cancel/reschedule only future dates. Reservation start date: %s",
		e.StartsAt.Format(messageTimeLayout))
}

func (e *PastReservationError) Is(target error) bool {
	return target == ErrPastReservation
}

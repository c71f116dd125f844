package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReservationStatus string

const (
	ReservationStatusReadyToPlay ReservationStatus = "READY_TO_PLAY"
	ReservationStatusCancelled   ReservationStatus = "CANCELLED"
	ReservationStatusRescheduled ReservationStatus = "RESCHEDULED"
	ReservationStatusNotShowUp   ReservationStatus = "NOT_SHOW_UP"
)

// IsTerminal reports whether no further transition is possible from s.
func (s ReservationStatus) IsTerminal() bool {
	return s != ReservationStatusReadyToPlay
}

func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationStatusReadyToPlay, ReservationStatusCancelled,
		ReservationStatusRescheduled, ReservationStatusNotShowUp:
		return true
	}
	return false
}

type Reservation struct {
	ID          int64             `json:"id" db:"id"`
	GuestID     int64             `json:"guest_id" db:"guest_id"`
	ScheduleID  int64             `json:"schedule_id" db:"schedule_id"`
	Value       decimal.Decimal   `json:"value" db:"value"`
	RefundValue decimal.Decimal   `json:"refund_value" db:"refund_value"`
	Status      ReservationStatus `json:"status" db:"status"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at" db:"updated_at"`

	// Set only on the result of a reschedule; not stored.
	PreviousReservation *Reservation `json:"previous_reservation,omitempty" db:"-"`
}

// NewReservation returns an unsaved READY_TO_PLAY reservation charged fee.
func NewReservation(guestID, scheduleID int64, fee decimal.Decimal) *Reservation {
	return &Reservation{
		GuestID:     guestID,
		ScheduleID:  scheduleID,
		Value:       fee,
		RefundValue: decimal.Zero,
		Status:      ReservationStatusReadyToPlay,
	}
}

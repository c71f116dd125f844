package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ds124wfegd/tennis-courts/internal/entity"
)

// ReservationService drives the reservation lifecycle
type ReservationService interface {
	BookReservation(ctx context.Context, req *BookReservationRequest) (*entity.Reservation, error)
	GetReservation(ctx context.Context, id int64) (*entity.Reservation, error)
	CancelReservation(ctx context.Context, id int64) (*entity.Reservation, error)
	RescheduleReservation(ctx context.Context, id, scheduleID int64) (*entity.Reservation, error)

	// Sweeps and reports over finished slots
	SweepNoShows(ctx context.Context) ([]*entity.Reservation, error)
	GetPastReservations(ctx context.Context) ([]*entity.Reservation, error)
}

// BookReservationRequest is the input of a booking
type BookReservationRequest struct {
	GuestID    int64 `json:"guest_id" binding:"required,min=1"`
	ScheduleID int64 `json:"schedule_id" binding:"required,min=1"`
}

// BookingSettings holds the fee charged per reservation and the refund rules
type BookingSettings struct {
	Fee     decimal.Decimal
	Refunds RefundPolicy
}

// MaxCurrencyScale is the number of decimal places the reservations table keeps.
const MaxCurrencyScale = 2

// NewBookingSettings parses the configured fee, rounded to the currency scale.
func NewBookingSettings(fee string, scale int32) (BookingSettings, error) {
	value, err := decimal.NewFromString(fee)
	if err != nil {
		return BookingSettings{}, fmt.Errorf("invalid booking fee %q: %w", fee, err)
	}
	if value.IsNegative() {
		return BookingSettings{}, fmt.Errorf("%w: booking fee %s is negative", entity.ErrInvalidInput, fee)
	}
	if scale < 0 || scale > MaxCurrencyScale {
		return BookingSettings{}, fmt.Errorf("%w: currency scale %d outside 0..%d", entity.ErrInvalidInput, scale, MaxCurrencyScale)
	}

	return BookingSettings{
		Fee:     value.Round(scale),
		Refunds: NewRefundPolicy(scale),
	}, nil
}

package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Transition is one of the moves a READY_TO_PLAY reservation can make.
type Transition int

const (
	TransitionCancel Transition = iota + 1
	TransitionReschedule
	TransitionNoShow
)

var transitionTargets = map[Transition]ReservationStatus{
	TransitionCancel:     ReservationStatusCancelled,
	TransitionReschedule: ReservationStatusRescheduled,
	TransitionNoShow:     ReservationStatusNotShowUp,
}

func (t Transition) Target() ReservationStatus {
	return transitionTargets[t]
}

func (t Transition) String() string {
	switch t {
	case TransitionCancel:
		return "cancel"
	case TransitionReschedule:
		return "reschedule"
	case TransitionNoShow:
		return "no_show"
	}
	return fmt.Sprintf("transition(%d)", int(t))
}

// Apply moves r out of READY_TO_PLAY and returns the resulting record;
// r itself is left untouched. The refund is subtracted from the value once.
// A no-show always forfeits the whole fee, whatever refund is passed.
func Apply(t Transition, r Reservation, refund decimal.Decimal) (Reservation, error) {
	target, ok := transitionTargets[t]
	if !ok {
		return r, fmt.Errorf("%w: %s", ErrInvalidTransition, t)
	}
	if r.Status != ReservationStatusReadyToPlay {
		return r, &InactiveReservationError{Status: r.Status}
	}

	if t == TransitionNoShow {
		refund = decimal.Zero
	}
	if refund.IsNegative() || refund.GreaterThan(r.Value) {
		return r, fmt.Errorf("%w: %s of %s", ErrInvalidRefund, refund, r.Value)
	}

	next := r
	next.Status = target
	next.Value = r.Value.Sub(refund)
	next.RefundValue = refund
	next.PreviousReservation = nil
	return next, nil
}

// CheckModifiable validates that r may still be cancelled or rescheduled
// at now, given the start of its schedule.
func CheckModifiable(r *Reservation, startsAt, now time.Time) error {
	if r.Status != ReservationStatusReadyToPlay {
		return &InactiveReservationError{Status: r.Status}
	}
	if startsAt.Before(now) {
		return &PastReservationError{StartsAt: startsAt}
	}
	return nil
}

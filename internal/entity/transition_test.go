package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readyReservation() Reservation {
	return Reservation{
		ID:          1,
		GuestID:     2,
		ScheduleID:  3,
		Value:       decimal.RequireFromString("10.00"),
		RefundValue: decimal.Zero,
		Status:      ReservationStatusReadyToPlay,
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name       string
		transition Transition
		refund     string
		wantStatus ReservationStatus
		wantValue  string
		wantRefund string
	}{
		{
			name:       "cancel with full refund",
			transition: TransitionCancel,
			refund:     "10.00",
			wantStatus: ReservationStatusCancelled,
			wantValue:  "0",
			wantRefund: "10.00",
		},
		{
			name:       "cancel with partial refund",
			transition: TransitionCancel,
			refund:     "7.50",
			wantStatus: ReservationStatusCancelled,
			wantValue:  "2.50",
			wantRefund: "7.50",
		},
		{
			name:       "reschedule keeps cancel arithmetic",
			transition: TransitionReschedule,
			refund:     "5.00",
			wantStatus: ReservationStatusRescheduled,
			wantValue:  "5.00",
			wantRefund: "5.00",
		},
		{
			name:       "no show ignores refund",
			transition: TransitionNoShow,
			refund:     "10.00",
			wantStatus: ReservationStatusNotShowUp,
			wantValue:  "10.00",
			wantRefund: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := readyReservation()

			after, err := Apply(tt.transition, before, decimal.RequireFromString(tt.refund))
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, after.Status)
			assert.True(t, decimal.RequireFromString(tt.wantValue).Equal(after.Value), "value %s", after.Value)
			assert.True(t, decimal.RequireFromString(tt.wantRefund).Equal(after.RefundValue), "refund %s", after.RefundValue)
			assert.True(t, before.Value.Sub(after.RefundValue).Equal(after.Value))

			assert.Equal(t, ReservationStatusReadyToPlay, before.Status)
			assert.True(t, before.RefundValue.IsZero())
		})
	}
}

func TestApply_RejectsTerminalStatuses(t *testing.T) {
	statuses := []ReservationStatus{
		ReservationStatusCancelled,
		ReservationStatusRescheduled,
		ReservationStatusNotShowUp,
	}
	transitions := []Transition{TransitionCancel, TransitionReschedule, TransitionNoShow}

	for _, status := range statuses {
		for _, tr := range transitions {
			t.Run(string(status)+"/"+tr.String(), func(t *testing.T) {
				r := readyReservation()
				r.Status = status

				_, err := Apply(tr, r, decimal.Zero)
				require.Error(t, err)

				var inactive *InactiveReservationError
				require.True(t, errors.As(err, &inactive))
				assert.Equal(t, status, inactive.Status)
				assert.ErrorIs(t, err, ErrInactiveReservation)
			})
		}
	}
}

func TestApply_InvalidInput(t *testing.T) {
	r := readyReservation()

	_, err := Apply(Transition(42), r, decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = Apply(TransitionCancel, r, decimal.RequireFromString("10.01"))
	assert.ErrorIs(t, err, ErrInvalidRefund)

	_, err = Apply(TransitionCancel, r, decimal.RequireFromString("-1"))
	assert.ErrorIs(t, err, ErrInvalidRefund)
}

func TestCheckModifiable(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	t.Run("future ready reservation", func(t *testing.T) {
		r := readyReservation()
		assert.NoError(t, CheckModifiable(&r, now.Add(time.Hour), now))
	})

	t.Run("starting right now is still allowed", func(t *testing.T) {
		r := readyReservation()
		assert.NoError(t, CheckModifiable(&r, now, now))
	})

	t.Run("past start", func(t *testing.T) {
		r := readyReservation()
		start := now.Add(-time.Minute)

		err := CheckModifiable(&r, start, now)

		var past *PastReservationError
		require.True(t, errors.As(err, &past))
		assert.Equal(t, start, past.StartsAt)
		assert.ErrorIs(t, err, ErrPastReservation)
		assert.Equal(t, "Can cancel/reschedule only future dates. Reservation start date: 2026-05-01T09:59", err.Error())
	})

	t.Run("inactive wins over past", func(t *testing.T) {
		r := readyReservation()
		r.Status = ReservationStatusCancelled

		err := CheckModifiable(&r, now.Add(-time.Hour), now)
		assert.ErrorIs(t, err, ErrInactiveReservation)
		assert.Equal(t, "Reservation should be in ready to play status. Actual status: CANCELLED", err.Error())
	})
}

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError(KindGuest, 7)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrRecordNotFound)
	assert.Equal(t, "Guest not found. id: 7", err.Error())
}

func TestReservationStatus(t *testing.T) {
	assert.False(t, ReservationStatusReadyToPlay.IsTerminal())
	assert.True(t, ReservationStatusCancelled.IsTerminal())
	assert.True(t, ReservationStatusNotShowUp.Valid())
	assert.False(t, ReservationStatus("PENDING").Valid())
}

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	repository "github.com/ds124wfegd/tennis-courts/internal/database/postgres"
	"github.com/ds124wfegd/tennis-courts/internal/entity"
)

type reservationService struct {
	reservationRepo repository.ReservationRepository
	scheduleRepo    repository.ScheduleRepository
	guestRepo       repository.GuestRepository
	publisher       EventPublisher
	clock           Clock
	settings        BookingSettings
}

// NewReservationService creates the reservation lifecycle engine.
// publisher may be nil; clock defaults to the system clock.
func NewReservationService(
	reservationRepo repository.ReservationRepository,
	scheduleRepo repository.ScheduleRepository,
	guestRepo repository.GuestRepository,
	publisher EventPublisher,
	clock Clock,
	settings BookingSettings,
) ReservationService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &reservationService{
		reservationRepo: reservationRepo,
		scheduleRepo:    scheduleRepo,
		guestRepo:       guestRepo,
		publisher:       publisher,
		clock:           clock,
		settings:        settings,
	}
}

// BookReservation charges the booking fee for a guest on a schedule
func (s *reservationService) BookReservation(ctx context.Context, req *BookReservationRequest) (*entity.Reservation, error) {
	guest, err := s.getGuest(ctx, req.GuestID)
	if err != nil {
		return nil, err
	}

	schedule, err := s.getSchedule(ctx, req.ScheduleID)
	if err != nil {
		return nil, err
	}

	reservation := entity.NewReservation(guest.ID, schedule.ID, s.settings.Fee)
	if err := s.reservationRepo.Create(ctx, reservation); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"reservation_id": reservation.ID,
		"guest_id":       guest.ID,
		"schedule_id":    schedule.ID,
		"value":          reservation.Value.String(),
	}).Info("Reservation booked")

	s.notify(ctx, EventTypeBooked, reservation)
	return reservation, nil
}

func (s *reservationService) GetReservation(ctx context.Context, id int64) (*entity.Reservation, error) {
	return s.getReservation(ctx, id)
}

// CancelReservation cancels a future reservation and refunds part of its value
func (s *reservationService) CancelReservation(ctx context.Context, id int64) (*entity.Reservation, error) {
	reservation, err := s.getReservation(ctx, id)
	if err != nil {
		return nil, err
	}

	cancelled, err := s.withdraw(ctx, entity.TransitionCancel, reservation)
	if err != nil {
		return nil, err
	}

	if err := s.reservationRepo.Update(ctx, cancelled, entity.ReservationStatusReadyToPlay); err != nil {
		return nil, s.resolveConflict(ctx, id, err)
	}

	logrus.WithFields(logrus.Fields{
		"reservation_id": cancelled.ID,
		"refund":         cancelled.RefundValue.String(),
		"value":          cancelled.Value.String(),
	}).Info("Reservation cancelled")

	s.notify(ctx, EventTypeCancelled, cancelled)
	return cancelled, nil
}

// RescheduleReservation replaces a reservation with a new one on scheduleID.
// The returned reservation carries the replaced one in PreviousReservation.
func (s *reservationService) RescheduleReservation(ctx context.Context, id, scheduleID int64) (*entity.Reservation, error) {
	existing, err := s.reservationRepo.GetByIDAndScheduleID(ctx, id, scheduleID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, entity.ErrRecordNotFound) {
		return nil, err
	}

	reservation, err := s.getReservation(ctx, id)
	if err != nil {
		return nil, err
	}

	previous, err := s.withdraw(ctx, entity.TransitionReschedule, reservation)
	if err != nil {
		return nil, err
	}

	guest, err := s.getGuest(ctx, reservation.GuestID)
	if err != nil {
		return nil, err
	}

	target, err := s.getSchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	next := entity.NewReservation(guest.ID, target.ID, s.settings.Fee)
	if err := s.reservationRepo.Reschedule(ctx, previous, next); err != nil {
		return nil, s.resolveConflict(ctx, id, err)
	}
	next.PreviousReservation = previous

	logrus.WithFields(logrus.Fields{
		"reservation_id":          next.ID,
		"previous_reservation_id": previous.ID,
		"schedule_id":             target.ID,
		"refund":                  previous.RefundValue.String(),
	}).Info("Reservation rescheduled")

	s.notify(ctx, EventTypeRescheduled, next)
	return next, nil
}

// SweepNoShows marks every READY_TO_PLAY reservation whose slot has ended
// as NOT_SHOW_UP, without refund. Records updated before a store failure
// are returned together with the error.
func (s *reservationService) SweepNoShows(ctx context.Context) ([]*entity.Reservation, error) {
	now := s.clock.Now()

	candidates, err := s.reservationRepo.GetByStatusAndScheduleEndAtOrBefore(ctx, entity.ReservationStatusReadyToPlay, now)
	if err != nil {
		return nil, err
	}

	updated := make([]*entity.Reservation, 0, len(candidates))
	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return updated, err
		}

		noShow, err := entity.Apply(entity.TransitionNoShow, *candidate, decimal.Zero)
		if err != nil {
			logrus.Warnf("Skipping reservation %d in no-show sweep: %v", candidate.ID, err)
			continue
		}

		err = s.reservationRepo.Update(ctx, &noShow, entity.ReservationStatusReadyToPlay)
		if errors.Is(err, entity.ErrConcurrentUpdate) {
			logrus.Debugf("Reservation %d changed during no-show sweep, skipped", candidate.ID)
			continue
		}
		if err != nil {
			return updated, fmt.Errorf("failed to mark reservation %d as not shown: %w", candidate.ID, err)
		}

		updated = append(updated, &noShow)
		s.notify(ctx, EventTypeNoShow, &noShow)
	}

	logrus.Infof("No-show sweep completed: %d of %d reservations updated", len(updated), len(candidates))
	return updated, nil
}

// GetPastReservations lists reservations whose slot has already ended
func (s *reservationService) GetPastReservations(ctx context.Context) ([]*entity.Reservation, error) {
	return s.reservationRepo.GetByScheduleEndAtOrBefore(ctx, s.clock.Now())
}

// withdraw validates that reservation can still leave READY_TO_PLAY and
// returns it moved by t with the refund due now.
func (s *reservationService) withdraw(ctx context.Context, t entity.Transition, reservation *entity.Reservation) (*entity.Reservation, error) {
	if reservation.Status != entity.ReservationStatusReadyToPlay {
		return nil, &entity.InactiveReservationError{Status: reservation.Status}
	}

	schedule, err := s.getSchedule(ctx, reservation.ScheduleID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if err := entity.CheckModifiable(reservation, schedule.StartsAt, now); err != nil {
		return nil, err
	}

	refund := s.settings.Refunds.Compute(now, schedule.StartsAt, reservation.Value)
	next, err := entity.Apply(t, *reservation, refund)
	if err != nil {
		return nil, err
	}
	return &next, nil
}

// resolveConflict turns a lost compare-and-swap into the error the caller
// would have seen had it read the record a moment later.
func (s *reservationService) resolveConflict(ctx context.Context, id int64, err error) error {
	if !errors.Is(err, entity.ErrConcurrentUpdate) {
		return err
	}

	current, getErr := s.reservationRepo.GetByID(ctx, id)
	if getErr != nil || current.Status == entity.ReservationStatusReadyToPlay {
		return err
	}
	return &entity.InactiveReservationError{Status: current.Status}
}

func (s *reservationService) getReservation(ctx context.Context, id int64) (*entity.Reservation, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if errors.Is(err, entity.ErrRecordNotFound) {
		return nil, entity.NewNotFoundError(entity.KindReservation, id)
	}
	return reservation, err
}

func (s *reservationService) getSchedule(ctx context.Context, id int64) (*entity.Schedule, error) {
	schedule, err := s.scheduleRepo.GetByID(ctx, id)
	if errors.Is(err, entity.ErrRecordNotFound) {
		return nil, entity.NewNotFoundError(entity.KindSchedule, id)
	}
	return schedule, err
}

func (s *reservationService) getGuest(ctx context.Context, id int64) (*entity.Guest, error) {
	guest, err := s.guestRepo.GetByID(ctx, id)
	if errors.Is(err, entity.ErrRecordNotFound) {
		return nil, entity.NewNotFoundError(entity.KindGuest, id)
	}
	return guest, err
}

// notify publishes after the write has committed, so a failure is only logged.
func (s *reservationService) notify(ctx context.Context, eventType string, r *entity.Reservation) {
	if s.publisher == nil {
		return
	}

	event := NewReservationEvent(eventType, r, s.clock.Now())
	if err := s.publisher.Publish(ctx, event); err != nil {
		logrus.WithFields(logrus.Fields{
			"event_id":       event.ID,
			"event_type":     eventType,
			"reservation_id": r.ID,
		}).Warnf("Failed to publish reservation event: %v", err)
	}
}

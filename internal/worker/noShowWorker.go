package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ds124wfegd/tennis-courts/internal/service"
)

// Locker hands out a lease shared by all replicas of the service.
type Locker interface {
	Acquire(ctx context.Context) (release func(context.Context) error, ok bool, err error)
}

type NoShowWorker struct {
	reservationService service.ReservationService
	locker             Locker
	interval           time.Duration
}

// NewNoShowWorker creates the sweep worker; locker may be nil for a single replica.
func NewNoShowWorker(reservationService service.ReservationService, locker Locker, interval time.Duration) *NoShowWorker {
	return &NoShowWorker{
		reservationService: reservationService,
		locker:             locker,
		interval:           interval,
	}
}

func (w *NoShowWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logrus.WithField("interval", w.interval.String()).Info("No-show worker started")

	for {
		select {
		case <-ctx.Done():
			logrus.Info("No-show worker stopped")
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

// ErrSweepLocked is returned by RunOnce when another replica holds the lease.
var ErrSweepLocked = errors.New("no-show sweep is running elsewhere")

// RunOnce performs one sweep if this replica gets the lease and reports how
// many reservations were marked as not shown. On a failed sweep the count
// covers the records updated before the failure.
func (w *NoShowWorker) RunOnce(ctx context.Context) (int, error) {
	if w.locker != nil {
		release, ok, err := w.locker.Acquire(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to acquire no-show sweep lock: %w", err)
		}
		if !ok {
			return 0, ErrSweepLocked
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				logrus.Warnf("Failed to release no-show sweep lock: %v", err)
			}
		}()
	}

	started := time.Now()
	updated, err := w.reservationService.SweepNoShows(ctx)
	if err != nil {
		return len(updated), err
	}

	if len(updated) > 0 {
		ids := make([]int64, 0, len(updated))
		for _, r := range updated {
			ids = append(ids, r.ID)
		}
		logrus.WithFields(logrus.Fields{
			"count":    len(updated),
			"ids":      ids,
			"duration": time.Since(started),
		}).Info("Reservations marked as not shown")
	}
	return len(updated), nil
}

func (w *NoShowWorker) tick(ctx context.Context) {
	updated, err := w.RunOnce(ctx)
	switch {
	case errors.Is(err, ErrSweepLocked):
		logrus.Debug("No-show sweep is running elsewhere, skipping")
	case err != nil:
		logrus.Errorf("No-show sweep failed after %d updates: %v", updated, err)
	}
}

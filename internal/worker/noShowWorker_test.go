package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ds124wfegd/tennis-courts/internal/entity"
	"github.com/ds124wfegd/tennis-courts/internal/service"
)

type stubService struct {
	service.ReservationService
	sweeps  atomic.Int32
	updated []*entity.Reservation
	err     error
}

func (s *stubService) SweepNoShows(context.Context) ([]*entity.Reservation, error) {
	s.sweeps.Add(1)
	return s.updated, s.err
}

type stubLocker struct {
	ok       bool
	err      error
	released int
}

func (l *stubLocker) Acquire(context.Context) (func(context.Context) error, bool, error) {
	if l.err != nil || !l.ok {
		return nil, false, l.err
	}
	return func(context.Context) error {
		l.released++
		return nil
	}, true, nil
}

var (
	errLockDown  = errors.New("redis down")
	errSweepDown = errors.New("db down")
)

func TestNoShowWorker_RunOnce(t *testing.T) {
	swept := []*entity.Reservation{{ID: 1}, {ID: 2}}

	tests := []struct {
		name        string
		locker      *stubLocker
		sweepErr    error
		wantCount   int
		wantErr     error
		wantSweeps  int32
		wantRelease int
	}{
		{name: "no locker", wantCount: 2, wantSweeps: 1},
		{name: "lease taken", locker: &stubLocker{ok: true}, wantCount: 2, wantSweeps: 1, wantRelease: 1},
		{name: "lease held elsewhere", locker: &stubLocker{ok: false}, wantErr: ErrSweepLocked},
		{name: "lock backend down", locker: &stubLocker{err: errLockDown}, wantErr: errLockDown},
		{name: "sweep fails", locker: &stubLocker{ok: true}, sweepErr: errSweepDown, wantErr: errSweepDown, wantCount: 2, wantSweeps: 1, wantRelease: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{updated: swept, err: tt.sweepErr}

			var locker Locker
			if tt.locker != nil {
				locker = tt.locker
			}
			w := NewNoShowWorker(svc, locker, time.Minute)

			count, err := w.RunOnce(context.Background())

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantCount, count)
			assert.Equal(t, tt.wantSweeps, svc.sweeps.Load())
			if tt.locker != nil {
				assert.Equal(t, tt.wantRelease, tt.locker.released)
			}
		})
	}
}

func TestNoShowWorker_Start(t *testing.T) {
	svc := &stubService{}
	w := NewNoShowWorker(svc, nil, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return svc.sweeps.Load() >= 2 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after context cancellation")
	}
}

package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/ds124wfegd/tennis-courts/internal/entity"
)

type mockReservationRepository struct {
	mock.Mock
}

func (m *mockReservationRepository) Create(ctx context.Context, reservation *entity.Reservation) error {
	return m.Called(ctx, reservation).Error(0)
}

func (m *mockReservationRepository) GetByID(ctx context.Context, id int64) (*entity.Reservation, error) {
	args := m.Called(ctx, id)
	if r, ok := args.Get(0).(*entity.Reservation); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReservationRepository) GetByIDAndScheduleID(ctx context.Context, id, scheduleID int64) (*entity.Reservation, error) {
	args := m.Called(ctx, id, scheduleID)
	if r, ok := args.Get(0).(*entity.Reservation); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReservationRepository) Update(ctx context.Context, reservation *entity.Reservation, from entity.ReservationStatus) error {
	return m.Called(ctx, reservation, from).Error(0)
}

func (m *mockReservationRepository) GetByScheduleEndAtOrBefore(ctx context.Context, at time.Time) ([]*entity.Reservation, error) {
	args := m.Called(ctx, at)
	if r, ok := args.Get(0).([]*entity.Reservation); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReservationRepository) GetByStatusAndScheduleEndAtOrBefore(ctx context.Context, status entity.ReservationStatus, at time.Time) ([]*entity.Reservation, error) {
	args := m.Called(ctx, status, at)
	if r, ok := args.Get(0).([]*entity.Reservation); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReservationRepository) Reschedule(ctx context.Context, previous, next *entity.Reservation) error {
	return m.Called(ctx, previous, next).Error(0)
}

type mockScheduleRepository struct {
	mock.Mock
}

func (m *mockScheduleRepository) GetByID(ctx context.Context, id int64) (*entity.Schedule, error) {
	args := m.Called(ctx, id)
	if s, ok := args.Get(0).(*entity.Schedule); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockGuestRepository struct {
	mock.Mock
}

func (m *mockGuestRepository) GetByID(ctx context.Context, id int64) (*entity.Guest, error) {
	args := m.Called(ctx, id)
	if g, ok := args.Get(0).(*entity.Guest); ok {
		return g, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, event *ReservationEvent) error {
	return m.Called(ctx, event).Error(0)
}

// memoryStore is an in-process reservation store with the same
// compare-and-swap and transactional behaviour as the postgres one.
type memoryStore struct {
	mu           sync.Mutex
	nextID       int64
	reservations map[int64]entity.Reservation
	schedules    scheduleTable
	writes       int
}

func newMemoryStore(schedules scheduleTable) *memoryStore {
	return &memoryStore{
		reservations: make(map[int64]entity.Reservation),
		schedules:    schedules,
	}
}

func (s *memoryStore) insert(r *entity.Reservation) {
	s.nextID++
	r.ID = s.nextID
	stored := *r
	stored.PreviousReservation = nil
	s.reservations[r.ID] = stored
	s.writes++
}

func (s *memoryStore) Create(_ context.Context, r *entity.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insert(r)
	return nil
}

func (s *memoryStore) GetByID(_ context.Context, id int64) (*entity.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reservations[id]
	if !ok {
		return nil, entity.ErrRecordNotFound
	}
	return &r, nil
}

func (s *memoryStore) GetByIDAndScheduleID(_ context.Context, id, scheduleID int64) (*entity.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reservations[id]
	if !ok || r.ScheduleID != scheduleID {
		return nil, entity.ErrRecordNotFound
	}
	return &r, nil
}

func (s *memoryStore) update(r *entity.Reservation, from entity.ReservationStatus) error {
	current, ok := s.reservations[r.ID]
	if !ok || current.Status != from {
		return entity.ErrConcurrentUpdate
	}
	stored := *r
	stored.PreviousReservation = nil
	s.reservations[r.ID] = stored
	s.writes++
	return nil
}

func (s *memoryStore) Update(_ context.Context, r *entity.Reservation, from entity.ReservationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(r, from)
}

func (s *memoryStore) GetByScheduleEndAtOrBefore(_ context.Context, at time.Time) ([]*entity.Reservation, error) {
	return s.find(func(r entity.Reservation) bool {
		return !s.schedules[r.ScheduleID].EndsAt.After(at)
	}), nil
}

func (s *memoryStore) GetByStatusAndScheduleEndAtOrBefore(_ context.Context, status entity.ReservationStatus, at time.Time) ([]*entity.Reservation, error) {
	return s.find(func(r entity.Reservation) bool {
		return r.Status == status && !s.schedules[r.ScheduleID].EndsAt.After(at)
	}), nil
}

func (s *memoryStore) find(match func(entity.Reservation) bool) []*entity.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*entity.Reservation, 0)
	for _, r := range s.reservations {
		if match(r) {
			r := r
			result = append(result, &r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (s *memoryStore) Reschedule(_ context.Context, previous, next *entity.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.update(previous, entity.ReservationStatusReadyToPlay); err != nil {
		return err
	}
	s.insert(next)
	return nil
}

func (s *memoryStore) seed(r entity.Reservation) *entity.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insert(&r)
	s.writes = 0
	return &r
}

type scheduleTable map[int64]*entity.Schedule

func (t scheduleTable) GetByID(_ context.Context, id int64) (*entity.Schedule, error) {
	s, ok := t[id]
	if !ok {
		return nil, entity.ErrRecordNotFound
	}
	return s, nil
}

type guestTable map[int64]*entity.Guest

func (t guestTable) GetByID(_ context.Context, id int64) (*entity.Guest, error) {
	g, ok := t[id]
	if !ok {
		return nil, entity.ErrRecordNotFound
	}
	return g, nil
}

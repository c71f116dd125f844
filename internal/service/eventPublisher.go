package service

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ds124wfegd/tennis-courts/internal/entity"
	"github.com/ds124wfegd/tennis-courts/pkg/kafka"
	"github.com/ds124wfegd/tennis-courts/pkg/rabbitMQ"
)

// Event types
const (
	EventTypeBooked      = "reservation.booked"
	EventTypeCancelled   = "reservation.cancelled"
	EventTypeRescheduled = "reservation.rescheduled"
	EventTypeNoShow      = "reservation.no_show"
)

// EventPublisher delivers lifecycle events to downstream consumers
type EventPublisher interface {
	Publish(ctx context.Context, event *ReservationEvent) error
}

// ReservationEvent describes one committed lifecycle change
type ReservationEvent struct {
	ID                    string                   `json:"id"`
	Type                  string                   `json:"type"`
	ReservationID         int64                    `json:"reservation_id"`
	PreviousReservationID int64                    `json:"previous_reservation_id,omitempty"`
	GuestID               int64                    `json:"guest_id"`
	ScheduleID            int64                    `json:"schedule_id"`
	Status                entity.ReservationStatus `json:"status"`
	Value                 decimal.Decimal          `json:"value"`
	RefundValue           decimal.Decimal          `json:"refund_value"`
	OccurredAt            time.Time                `json:"occurred_at"`
}

func NewReservationEvent(eventType string, r *entity.Reservation, at time.Time) *ReservationEvent {
	event := &ReservationEvent{
		ID:            uuid.NewString(),
		Type:          eventType,
		ReservationID: r.ID,
		GuestID:       r.GuestID,
		ScheduleID:    r.ScheduleID,
		Status:        r.Status,
		Value:         r.Value,
		RefundValue:   r.RefundValue,
		OccurredAt:    at,
	}
	if r.PreviousReservation != nil {
		event.PreviousReservationID = r.PreviousReservation.ID
	}
	return event
}

// QueueAdapter publishes events to a RabbitMQ queue
type QueueAdapter struct {
	queue rabbitMQ.Queue
}

func NewQueueAdapter(q rabbitMQ.Queue) *QueueAdapter {
	return &QueueAdapter{queue: q}
}

func (a *QueueAdapter) Publish(ctx context.Context, event *ReservationEvent) error {
	if a.queue == nil {
		return nil
	}
	return a.queue.Publish(ctx, event)
}

// StreamAdapter publishes events to a Kafka topic keyed by reservation id
type StreamAdapter struct {
	producer kafka.Producer
}

func NewStreamAdapter(p kafka.Producer) *StreamAdapter {
	return &StreamAdapter{producer: p}
}

func (a *StreamAdapter) Publish(ctx context.Context, event *ReservationEvent) error {
	if a.producer == nil {
		return nil
	}
	return a.producer.SendMessage(ctx, strconv.FormatInt(event.ReservationID, 10), event)
}

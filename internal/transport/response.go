package transport

import (
	"time"

	"github.com/ds124wfegd/tennis-courts/internal/entity"
)

// ReservationResponse renders amounts with a fixed number of decimals.
type ReservationResponse struct {
	ID                  int64                    `json:"id"`
	GuestID             int64                    `json:"guest_id"`
	ScheduleID          int64                    `json:"schedule_id"`
	Value               string                   `json:"value"`
	RefundValue         string                   `json:"refund_value"`
	Status              entity.ReservationStatus `json:"status"`
	CreatedAt           time.Time                `json:"created_at"`
	UpdatedAt           time.Time                `json:"updated_at"`
	PreviousReservation *ReservationResponse     `json:"previous_reservation,omitempty"`
}

func newReservationResponse(r *entity.Reservation, scale int32) *ReservationResponse {
	resp := &ReservationResponse{
		ID:          r.ID,
		GuestID:     r.GuestID,
		ScheduleID:  r.ScheduleID,
		Value:       r.Value.StringFixed(scale),
		RefundValue: r.RefundValue.StringFixed(scale),
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.PreviousReservation != nil {
		resp.PreviousReservation = newReservationResponse(r.PreviousReservation, scale)
	}
	return resp
}

func newReservationResponses(reservations []*entity.Reservation, scale int32) []*ReservationResponse {
	resp := make([]*ReservationResponse, 0, len(reservations))
	for _, r := range reservations {
		resp = append(resp, newReservationResponse(r, scale))
	}
	return resp
}

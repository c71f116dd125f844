package entity

import "time"

type Schedule struct {
	ID        int64     `json:"id" db:"id"`
	CourtID   int64     `json:"court_id" db:"court_id"`
	StartsAt  time.Time `json:"starts_at" db:"starts_at"`
	EndsAt    time.Time `json:"ends_at" db:"ends_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// HasStarted reports whether the slot start is strictly before now.
func (s *Schedule) HasStarted(now time.Time) bool {
	return s.StartsAt.Before(now)
}

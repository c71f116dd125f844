package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ds124wfegd/tennis-courts/internal/entity"
)

type guestRepository struct {
	db *sql.DB
}

func NewGuestRepository(db *sql.DB) GuestRepository {
	return &guestRepository{db: db}
}

func (r *guestRepository) GetByID(ctx context.Context, id int64) (*entity.Guest, error) {
	query := `SELECT id, name, created_at FROM guests WHERE id = $1`

	var guest entity.Guest
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&guest.ID,
		&guest.Name,
		&guest.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, entity.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get guest: %w", err)
	}

	return &guest, nil
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/samirrijal/yatra/internal/core/domain"
)

// BookingRepo implements ports.BookingRepository.
type BookingRepo struct {
	db *DB
}

func NewBookingRepo(db *DB) *BookingRepo {
	return &BookingRepo{db: db}
}

func (r *BookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	seats := make([]int32, len(b.Seats))
	for i, s := range b.Seats {
		seats[i] = int32(s)
	}
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO bookings (id, bus_id, search_id, seats, status, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7)
	`, b.ID, b.BusID, b.SearchID, seats, string(b.Status), b.CreatedAt, b.UpdatedAt)
	return err
}

func (r *BookingRepo) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	b := &domain.Booking{}
	var seats []int32
	var status string
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, bus_id, COALESCE(search_id, ''), seats, status, created_at, updated_at
		FROM bookings WHERE id = $1
	`, id).Scan(&b.ID, &b.BusID, &b.SearchID, &seats, &status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "booking", id)
	}
	b.Status = domain.BookingStatus(status)
	b.Seats = make([]int, len(seats))
	for i, s := range seats {
		b.Seats[i] = int(s)
	}
	return b, nil
}

func (r *BookingRepo) UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus, at time.Time) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE bookings SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2
	`, id, string(from), string(to), at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := r.db.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("booking %s: %w", id, domain.ErrNotFound)
	}
	return fmt.Errorf("booking %s is not %s: %w", id, from, domain.ErrConflict)
}

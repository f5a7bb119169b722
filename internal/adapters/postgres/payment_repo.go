package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/samirrijal/yatra/internal/core/domain"
)

// PaymentRepo implements ports.PaymentRepository.
type PaymentRepo struct {
	db *DB
}

func NewPaymentRepo(db *DB) *PaymentRepo {
	return &PaymentRepo{db: db}
}

func (r *PaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO payments (id, booking_id, client_id, method, option, card_last4, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, p.ID, p.BookingID, p.ClientID, p.Method, p.Option, p.CardLast4, string(p.Status), p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *PaymentRepo) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	p := &domain.Payment{}
	var status string
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, booking_id, client_id, method, option, card_last4, status, created_at, updated_at
		FROM payments WHERE id = $1
	`, id).Scan(&p.ID, &p.BookingID, &p.ClientID, &p.Method, &p.Option, &p.CardLast4, &status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "payment", id)
	}
	p.Status = domain.PaymentStatus(status)
	return p, nil
}

func (r *PaymentRepo) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus, at time.Time) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE payments SET status = $2, updated_at = $3 WHERE id = $1
	`, id, string(status), at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("payment %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

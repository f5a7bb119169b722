package postgres

import (
	"context"

	"github.com/samirrijal/yatra/internal/core/domain"
)

// CityRepo implements ports.CityRepository.
type CityRepo struct {
	db *DB
}

func NewCityRepo(db *DB) *CityRepo {
	return &CityRepo{db: db}
}

func (r *CityRepo) List(ctx context.Context) ([]domain.City, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT name, position FROM cities ORDER BY position, name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cities []domain.City
	for rows.Next() {
		var c domain.City
		if err := rows.Scan(&c.Name, &c.Position); err != nil {
			return nil, err
		}
		cities = append(cities, c)
	}
	return cities, rows.Err()
}

// OfferRepo implements ports.OfferRepository.
type OfferRepo struct {
	db *DB
}

func NewOfferRepo(db *DB) *OfferRepo {
	return &OfferRepo{db: db}
}

const offerColumns = `code, title, description, categories, discount, valid_until`

func (r *OfferRepo) List(ctx context.Context) ([]domain.Offer, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+offerColumns+` FROM offers ORDER BY position, code
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offers []domain.Offer
	for rows.Next() {
		var o domain.Offer
		if err := rows.Scan(&o.Code, &o.Title, &o.Description, &o.Categories, &o.Discount, &o.ValidUntil); err != nil {
			return nil, err
		}
		offers = append(offers, o)
	}
	return offers, rows.Err()
}

func (r *OfferRepo) GetByCode(ctx context.Context, code string) (*domain.Offer, error) {
	o := &domain.Offer{}
	err := r.db.Pool.QueryRow(ctx, `
		SELECT `+offerColumns+` FROM offers WHERE code = $1
	`, code).Scan(&o.Code, &o.Title, &o.Description, &o.Categories, &o.Discount, &o.ValidUntil)
	if err != nil {
		return nil, notFound(err, "offer", code)
	}
	return o, nil
}

// FAQRepo implements ports.FAQRepository.
type FAQRepo struct {
	db *DB
}

func NewFAQRepo(db *DB) *FAQRepo {
	return &FAQRepo{db: db}
}

func (r *FAQRepo) List(ctx context.Context) ([]domain.FAQ, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, topic, question, answer, position FROM faqs ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var faqs []domain.FAQ
	for rows.Next() {
		var f domain.FAQ
		if err := rows.Scan(&f.ID, &f.Topic, &f.Question, &f.Answer, &f.Position); err != nil {
			return nil, err
		}
		faqs = append(faqs, f)
	}
	return faqs, rows.Err()
}

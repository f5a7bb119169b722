package usecases

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/samirrijal/yatra/internal/core/domain"
	"github.com/samirrijal/yatra/internal/core/ports"
)

const minSuggestQuery = 2

// CityService serves the bookable city list and its suggestions.
type CityService struct {
	cities ports.CityRepository
	cache  ports.CacheService
}

// NewCityService creates a new CityService.
func NewCityService(cities ports.CityRepository, cache ports.CacheService) *CityService {
	return &CityService{cities: cities, cache: cache}
}

// List returns every city in display order.
func (s *CityService) List(ctx context.Context) ([]domain.City, error) {
	const key = "cities:all"
	var cities []domain.City
	if cacheGet(ctx, s.cache, "cities", key, &cities) {
		return cities, nil
	}

	cities, err := s.cities.List(ctx)
	if err != nil {
		return nil, err
	}
	_ = cacheSet(ctx, s.cache, key, cities, catalogTTL)
	return cities, nil
}

// Suggest returns the city names containing q, ignoring case, in list order.
// Queries shorter than two characters return nothing.
func (s *CityService) Suggest(ctx context.Context, q string) ([]string, error) {
	q = strings.ToLower(strings.TrimSpace(q))
	if utf8.RuneCountInString(q) < minSuggestQuery {
		return []string{}, nil
	}

	cities, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := []string{}
	for _, c := range cities {
		if strings.Contains(strings.ToLower(c.Name), q) {
			out = append(out, c.Name)
		}
	}
	return out, nil
}

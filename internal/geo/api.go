// Package geo defines the collaborator contract the picker consumes: region
// lists, city lists, code resolution, free-text search and the authoritative
// basket merge.
package geo

import (
	"context"
	"errors"
	"fmt"

	"citypick/internal/domain"
)

// ErrNotFound is returned when a code does not resolve to a known node.
var ErrNotFound = errors.New("geo: code not found")

// API is the capability bundle injected into the picker. Implementations
// must be safe to call from concurrent goroutines; each call runs inside its
// own tea.Cmd.
type API interface {
	ChinaCities(ctx context.Context) ([]domain.GeoNode, error)
	Countries(ctx context.Context) ([]domain.GeoNode, error)
	List(ctx context.Context, region domain.Code) ([]domain.City, error)
	City(ctx context.Context, code domain.Code) (domain.CityDetail, error)
	Search(ctx context.Context, text string) ([]domain.SearchResult, error)
	Combine(ctx context.Context, code domain.Code, basket []domain.Code) ([]domain.Code, error)
}

// RegionLoader returns the region-list lookup for a tab source along with a
// stable key identifying it.
func RegionLoader(api API, source string) (string, func(ctx context.Context) ([]domain.GeoNode, error), error) {
	switch source {
	case domain.SourceChina:
		return "regions:" + source, api.ChinaCities, nil
	case domain.SourceForeign:
		return "regions:" + source, api.Countries, nil
	default:
		return "", nil, fmt.Errorf("geo: unknown region source %q", source)
	}
}

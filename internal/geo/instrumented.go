package geo

import (
	"context"
	"log/slog"
	"time"

	"citypick/internal/domain"
	"citypick/internal/metrics"
)

// Instrumented wraps an API with lookup metrics and failure logging.
type Instrumented struct {
	next    API
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewInstrumented decorates next. A nil metrics value disables metrics.
func NewInstrumented(next API, m *metrics.Metrics, logger *slog.Logger) *Instrumented {
	if logger == nil {
		logger = slog.Default()
	}
	return &Instrumented{next: next, metrics: m, logger: logger}
}

func (a *Instrumented) observe(op string, started time.Time, err error) {
	if a.metrics != nil {
		a.metrics.ObserveLookup(op, started, err)
	}
	if err != nil {
		a.logger.Error("geo lookup failed", "op", op, "error", err, "elapsed", time.Since(started))
	}
}

func (a *Instrumented) ChinaCities(ctx context.Context) ([]domain.GeoNode, error) {
	started := time.Now()
	nodes, err := a.next.ChinaCities(ctx)
	a.observe("china_cities", started, err)
	return nodes, err
}

func (a *Instrumented) Countries(ctx context.Context) ([]domain.GeoNode, error) {
	started := time.Now()
	nodes, err := a.next.Countries(ctx)
	a.observe("countries", started, err)
	return nodes, err
}

func (a *Instrumented) List(ctx context.Context, region domain.Code) ([]domain.City, error) {
	started := time.Now()
	cities, err := a.next.List(ctx, region)
	a.observe("list", started, err)
	return cities, err
}

func (a *Instrumented) City(ctx context.Context, code domain.Code) (domain.CityDetail, error) {
	started := time.Now()
	detail, err := a.next.City(ctx, code)
	a.observe("city", started, err)
	return detail, err
}

func (a *Instrumented) Search(ctx context.Context, text string) ([]domain.SearchResult, error) {
	started := time.Now()
	results, err := a.next.Search(ctx, text)
	a.observe("search", started, err)
	return results, err
}

func (a *Instrumented) Combine(ctx context.Context, code domain.Code, basket []domain.Code) ([]domain.Code, error) {
	started := time.Now()
	out, err := a.next.Combine(ctx, code, basket)
	a.observe("combine", started, err)
	return out, err
}

// Package geotest provides an in-memory geo.API for tests.
package geotest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"citypick/internal/domain"
	"citypick/internal/geo"
)

// Fake is a programmable geo.API. Zero value is usable; fields may be set
// before the fake is handed to the code under test.
type Fake struct {
	China     []domain.GeoNode
	Foreign   []domain.GeoNode
	Cities    map[domain.Code][]domain.City
	Details   map[domain.Code]domain.CityDetail
	Results   map[string][]domain.SearchResult
	CombineFn func(code domain.Code, basket []domain.Code) ([]domain.Code, error)

	mu    sync.Mutex
	errs  map[string]error
	calls map[string][]string
}

var _ geo.API = (*Fake)(nil)

// New returns a fake seeded with a small two-tab dataset.
func New() *Fake {
	return &Fake{
		China: []domain.GeoNode{
			{ID: "310000", Name: "Shanghai"},
			{ID: "440000", Name: "Guangdong"},
		},
		Foreign: []domain.GeoNode{
			{ID: "JP", Name: "Japan"},
			{ID: "FR", Name: "France"},
		},
		Cities: map[domain.Code][]domain.City{
			"310000": {{Code: "310100", Name: "Shanghai City"}},
			"440000": {{Code: "440100", Name: "Guangzhou"}, {Code: "440300", Name: "Shenzhen"}},
			"JP":     {{Code: "JP-13", Name: "Tokyo"}, {Code: "JP-27", Name: "Osaka"}},
			"FR":     {{Code: "FR-75", Name: "Paris"}},
		},
		Details: map[domain.Code]domain.CityDetail{
			"310000": {City: domain.GeoNode{ID: "310000", Name: "Shanghai"}},
			"440000": {City: domain.GeoNode{ID: "440000", Name: "Guangdong"}},
			"440300": {
				City:   domain.GeoNode{ID: "440300", Name: "Shenzhen", ParentID: "440000"},
				Parent: &domain.GeoNode{ID: "440000", Name: "Guangdong"},
			},
			"JP": {City: domain.GeoNode{ID: "JP", Name: "Japan"}},
		},
		Results: map[string][]domain.SearchResult{
			"shen": {{Label: "Guangdong·Shenzhen", Value: "440300"}},
		},
	}
}

// Fail makes every later call to op return err. A nil err clears it.
func (f *Fake) Fail(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errs == nil {
		f.errs = make(map[string]error)
	}
	if err == nil {
		delete(f.errs, op)
		return
	}
	f.errs[op] = err
}

// Calls returns the arguments of every call to op, in call order.
func (f *Fake) Calls(op string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls[op]...)
}

func (f *Fake) record(op, arg string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string][]string)
	}
	f.calls[op] = append(f.calls[op], arg)
	return f.errs[op]
}

func (f *Fake) ChinaCities(ctx context.Context) ([]domain.GeoNode, error) {
	if err := f.record("china", ""); err != nil {
		return nil, err
	}
	return f.China, nil
}

func (f *Fake) Countries(ctx context.Context) ([]domain.GeoNode, error) {
	if err := f.record("foreign", ""); err != nil {
		return nil, err
	}
	return f.Foreign, nil
}

func (f *Fake) List(ctx context.Context, region domain.Code) ([]domain.City, error) {
	if err := f.record("list", string(region)); err != nil {
		return nil, err
	}
	return f.Cities[region], nil
}

func (f *Fake) City(ctx context.Context, code domain.Code) (domain.CityDetail, error) {
	if err := f.record("city", string(code)); err != nil {
		return domain.CityDetail{}, err
	}
	d, ok := f.Details[code]
	if !ok {
		return domain.CityDetail{}, fmt.Errorf("%w: %s", geo.ErrNotFound, code)
	}
	return d, nil
}

func (f *Fake) Search(ctx context.Context, text string) ([]domain.SearchResult, error) {
	if err := f.record("search", text); err != nil {
		return nil, err
	}
	return f.Results[strings.ToLower(text)], nil
}

// Combine defaults to a passthrough append.
func (f *Fake) Combine(ctx context.Context, code domain.Code, basket []domain.Code) ([]domain.Code, error) {
	if err := f.record("combine", string(code)); err != nil {
		return nil, err
	}
	if f.CombineFn != nil {
		return f.CombineFn(code, basket)
	}
	out := make([]domain.Code, 0, len(basket)+1)
	out = append(out, basket...)
	return append(out, code), nil
}

// Package search coordinates the free-text search surface: a debounced
// query, its result list, and the direct path from a chosen result into
// the basket.
package search

import (
	"context"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"

	"citypick/internal/debounce"
	"citypick/internal/domain"
	"citypick/internal/eventbus"
	"citypick/internal/geo"
	"citypick/internal/ui/services/basket"
	"citypick/internal/ui/services/binding"
)

const searchKey = "search"

// Appender receives chosen results
type Appender interface {
	Append(code domain.Code) (basket.Outcome, tea.Cmd)
}

// Config configures a Service
type Config struct {
	Context  context.Context
	API      geo.API
	Basket   Appender
	Clock    clockwork.Clock
	Window   time.Duration
	Bus      eventbus.EventBus
	Logger   *slog.Logger
	Observer binding.Observer
}

// Service is the SearchCoordinator
type Service struct {
	api       geo.API
	basket    Appender
	bus       eventbus.EventBus
	logger    *slog.Logger
	debouncer *debounce.Debouncer
	results   *binding.Binding[string, []domain.SearchResult]

	open   bool
	query  string
	cursor int
}

// NewService creates a closed search surface
func NewService(cfg Config) *Service {
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	if cfg.Bus == nil {
		cfg.Bus = eventbus.NullBus{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	opts := []binding.Option{binding.WithContext(cfg.Context), binding.WithLogger(cfg.Logger)}
	if cfg.Observer != nil {
		opts = append(opts, binding.WithObserver(cfg.Observer))
	}

	s := &Service{
		api:       cfg.API,
		basket:    cfg.Basket,
		bus:       cfg.Bus,
		logger:    cfg.Logger,
		debouncer: debounce.New(cfg.Clock, cfg.Window),
		results:   binding.New[string, []domain.SearchResult]("search", opts...),
	}
	s.results.SetOnLoad(func([]domain.SearchResult) { s.cursor = 0 })
	return s
}

// Open shows the search surface with an empty query
func (s *Service) Open() {
	s.reset()
	s.open = true
}

// Type records the query text and re-arms the debounce timer
func (s *Service) Type(text string) tea.Cmd {
	if text == s.query {
		return nil
	}
	s.query = text
	if strings.TrimSpace(text) == "" {
		s.debouncer.Cancel()
		s.results.Reset()
		return nil
	}
	return s.debouncer.Trigger()
}

// Submit searches for the current text immediately
func (s *Service) Submit() tea.Cmd {
	s.debouncer.Cancel()
	return s.issue(true)
}

func (s *Service) issue(immediate bool) tea.Cmd {
	q := strings.TrimSpace(s.query)
	if q == "" {
		s.results.Reset()
		return nil
	}
	s.bus.Publish(eventbus.SearchIssuedEvent{Query: q, Immediate: immediate})
	load := func(ctx context.Context, text string) ([]domain.SearchResult, error) {
		return s.api.Search(ctx, text)
	}
	if immediate {
		return s.results.Refresh(searchKey, load, q)
	}
	return s.results.Bind(searchKey, load, q)
}

// Update handles debounce expiry and search results
func (s *Service) Update(msg tea.Msg) (bool, tea.Cmd) {
	if fired, ok := msg.(debounce.FiredMsg); ok {
		if !s.debouncer.Owns(fired) {
			return false, nil
		}
		if s.debouncer.Fire(fired) && s.open {
			return true, s.issue(false)
		}
		return true, nil
	}
	return s.results.Update(msg), nil
}

// Move moves the result cursor
func (s *Service) Move(delta int) {
	results, ok := s.results.Data()
	if !ok || len(results) == 0 {
		return
	}
	s.cursor += delta
	if s.cursor < 0 {
		s.cursor = 0
	}
	if s.cursor >= len(results) {
		s.cursor = len(results) - 1
	}
}

// Choose appends the highlighted result to the basket and closes the
// surface. It reports false when there is nothing to choose.
func (s *Service) Choose() (tea.Cmd, bool) {
	r, ok := s.Current()
	if !ok {
		return nil, false
	}
	_, cmd := s.basket.Append(r.Value)
	s.Close()
	return cmd, true
}

// Close clears the query and hides the surface
func (s *Service) Close() {
	s.reset()
	s.open = false
}

// Cancel discards the query, pending timer and in-flight search
func (s *Service) Cancel() {
	s.Close()
}

func (s *Service) reset() {
	s.debouncer.Cancel()
	s.results.Reset()
	s.query = ""
	s.cursor = 0
}

// State returns a snapshot of the search surface
func (s *Service) State() State {
	return State{Open: s.open, Query: s.query, Cursor: s.cursor, Deadline: s.debouncer.Deadline()}
}

// Current returns the highlighted result
func (s *Service) Current() (domain.SearchResult, bool) {
	results, ok := s.results.Data()
	if !ok || len(results) == 0 {
		return domain.SearchResult{}, false
	}
	return results[s.cursor], true
}

func (s *Service) IsOpen() bool  { return s.open }
func (s *Service) Query() string { return s.query }
func (s *Service) Cursor() int   { return s.cursor }
func (s *Service) Pending() bool { return s.debouncer.Pending() }
func (s *Service) Deadline() time.Time {
	return s.debouncer.Deadline()
}
func (s *Service) Results() *binding.Binding[string, []domain.SearchResult] {
	return s.results
}

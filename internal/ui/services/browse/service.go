// Package browse drives the tab -> region -> city hierarchy and decides
// which remote lookups are current.
package browse

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"citypick/internal/domain"
	"citypick/internal/eventbus"
	"citypick/internal/geo"
	"citypick/internal/ui/services/binding"
)

const (
	citiesKey = "list"
	detailKey = "city"
)

// Service is the BrowseNavigator. Call it from the update loop only.
type Service struct {
	api    geo.API
	tabs   []domain.Tab
	bus    eventbus.EventBus
	logger *slog.Logger

	tab          int
	activeRegion domain.Code
	regionCursor int
	cityCursor   int

	regions *binding.Binding[string, []domain.GeoNode]
	cities  *binding.Binding[CityKey, []domain.City]
	detail  *binding.Binding[domain.Code, domain.CityDetail]
}

// NewService creates a navigator positioned on the first tab. An empty tab
// list falls back to domain.DefaultTabs.
func NewService(ctx context.Context, api geo.API, tabs []domain.Tab, bus eventbus.EventBus, logger *slog.Logger, obs binding.Observer) *Service {
	if len(tabs) == 0 {
		tabs = domain.DefaultTabs()
	}
	if bus == nil {
		bus = eventbus.NullBus{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	opts := []binding.Option{binding.WithContext(ctx), binding.WithLogger(logger)}
	if obs != nil {
		opts = append(opts, binding.WithObserver(obs))
	}

	s := &Service{
		api:     api,
		tabs:    tabs,
		bus:     bus,
		logger:  logger,
		regions: binding.New[string, []domain.GeoNode]("regions", opts...),
		cities:  binding.New[CityKey, []domain.City]("cities", opts...),
		detail:  binding.New[domain.Code, domain.CityDetail]("detail", opts...),
	}
	s.regions.SetOnLoad(s.autoSelectFirst)
	return s
}

// Init issues the region lookup for the first tab
func (s *Service) Init() tea.Cmd {
	return s.bindRegions()
}

// autoSelectFirst keeps the active region when the new list contains it,
// otherwise falls back to the list's first entry.
func (s *Service) autoSelectFirst(nodes []domain.GeoNode) {
	for i, n := range nodes {
		if n.ID == s.activeRegion {
			s.regionCursor = i
			return
		}
	}
	s.regionCursor = 0
	s.cityCursor = 0
	if len(nodes) == 0 {
		s.activeRegion = ""
		return
	}
	s.activeRegion = nodes[0].ID
}

func (s *Service) bindRegions() tea.Cmd {
	t := s.tabs[s.tab]
	key, load, err := geo.RegionLoader(s.api, t.Source)
	if err != nil {
		s.logger.Error("browse: tab has no region source", "tab", t.Key, "error", err)
		key = "regions:invalid"
		load = func(context.Context) ([]domain.GeoNode, error) { return nil, err }
	}
	return s.regions.Bind(key, func(ctx context.Context, _ string) ([]domain.GeoNode, error) {
		return load(ctx)
	}, t.Key)
}

// bindRegion makes (activeTab, activeRegion) the current city and detail lookup
func (s *Service) bindRegion() tea.Cmd {
	if s.activeRegion.IsZero() {
		s.cities.Reset()
		s.detail.Reset()
		return nil
	}
	key := CityKey{Tab: s.ActiveTab().Key, Region: s.activeRegion}
	return tea.Batch(
		s.cities.Bind(citiesKey, func(ctx context.Context, k CityKey) ([]domain.City, error) {
			return s.api.List(ctx, k.Region)
		}, key),
		s.detail.Bind(detailKey, s.api.City, s.activeRegion),
	)
}

// SwitchTab activates the tab with the given key. The active region is kept
// until the new region list resolves.
func (s *Service) SwitchTab(key string) tea.Cmd {
	for i, t := range s.tabs {
		if t.Key == key {
			return s.switchTo(i)
		}
	}
	s.logger.Warn("browse: unknown tab", "tab", key)
	return nil
}

// NextTab cycles through tabs by delta
func (s *Service) NextTab(delta int) tea.Cmd {
	n := len(s.tabs)
	return s.switchTo(((s.tab+delta)%n + n) % n)
}

func (s *Service) switchTo(i int) tea.Cmd {
	if i == s.tab {
		return nil
	}
	from := s.tabs[s.tab].Key
	s.tab = i
	s.cities.Reset()
	s.detail.Reset()
	s.cityCursor = 0
	s.bus.Publish(eventbus.TabSwitchedEvent{From: from, To: s.tabs[i].Key})
	return s.bindRegions()
}

// SelectRegion makes code the active region and issues its city lookup
func (s *Service) SelectRegion(code domain.Code) tea.Cmd {
	if code != s.activeRegion {
		s.cityCursor = 0
	}
	s.activeRegion = code
	if nodes, ok := s.regions.Data(); ok {
		for i, n := range nodes {
			if n.ID == code {
				s.regionCursor = i
				break
			}
		}
	}
	return s.bindRegion()
}

// MoveRegion moves the sidebar cursor and selects the region under it
func (s *Service) MoveRegion(delta int) tea.Cmd {
	nodes, ok := s.regions.Data()
	if !ok || len(nodes) == 0 {
		return nil
	}
	i := clamp(s.regionCursor+delta, len(nodes))
	if i == s.regionCursor && nodes[i].ID == s.activeRegion {
		return nil
	}
	return s.SelectRegion(nodes[i].ID)
}

// MoveCity moves the city cursor
func (s *Service) MoveCity(delta int) {
	cities, ok := s.cities.Data()
	if !ok || len(cities) == 0 {
		return
	}
	s.cityCursor = clamp(s.cityCursor+delta, len(cities))
}

// Update routes lookup results to the navigator's bindings
func (s *Service) Update(msg tea.Msg) (bool, tea.Cmd) {
	if s.regions.Update(msg) {
		if s.regions.Ready() {
			return true, s.bindRegion()
		}
		return true, nil
	}
	if s.cities.Update(msg) {
		if cities, ok := s.cities.Data(); ok {
			s.cityCursor = clamp(s.cityCursor, len(cities))
		}
		return true, nil
	}
	return s.detail.Update(msg), nil
}

// Retry re-issues every failed lookup
func (s *Service) Retry() tea.Cmd {
	var cmds []tea.Cmd
	if s.regions.Status() == binding.StatusFailed {
		cmds = append(cmds, s.regions.Retry())
	}
	if s.cities.Status() == binding.StatusFailed {
		cmds = append(cmds, s.cities.Retry())
	}
	if s.detail.Status() == binding.StatusFailed {
		cmds = append(cmds, s.detail.Retry())
	}
	return tea.Batch(cmds...)
}

// SelectedCount is the number of basket codes in the current city list
func (s *Service) SelectedCount(basket []domain.Code) int {
	cities, ok := s.cities.Data()
	if !ok {
		return 0
	}
	in := make(map[domain.Code]bool, len(cities))
	for _, c := range cities {
		in[c.Code] = true
	}
	n := 0
	for _, code := range basket {
		if in[code] {
			n++
		}
	}
	return n
}

// State returns the tab/region pair
func (s *Service) State() State {
	return State{ActiveTab: s.ActiveTab().Key, ActiveRegion: s.activeRegion}
}

func (s *Service) Tabs() []domain.Tab                                  { return s.tabs }
func (s *Service) ActiveTab() domain.Tab                               { return s.tabs[s.tab] }
func (s *Service) ActiveTabIndex() int                                 { return s.tab }
func (s *Service) ActiveRegion() domain.Code                           { return s.activeRegion }
func (s *Service) RegionCursor() int                                   { return s.regionCursor }
func (s *Service) CityCursor() int                                     { return s.cityCursor }
func (s *Service) Regions() *binding.Binding[string, []domain.GeoNode] { return s.regions }
func (s *Service) Cities() *binding.Binding[CityKey, []domain.City]    { return s.cities }
func (s *Service) Detail() *binding.Binding[domain.Code, domain.CityDetail] {
	return s.detail
}

// CurrentCity returns the city under the cursor
func (s *Service) CurrentCity() (domain.City, bool) {
	cities, ok := s.cities.Data()
	if !ok || len(cities) == 0 {
		return domain.City{}, false
	}
	return cities[clamp(s.cityCursor, len(cities))], true
}

func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

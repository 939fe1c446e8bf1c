package browse

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"citypick/internal/domain"
	"citypick/internal/geo/geotest"
	"citypick/internal/ui/services/binding"
)

// collect runs cmd, flattening batches, and returns the produced messages
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// settle delivers every message and follow-up until the navigator is idle
func settle(t *testing.T, s *Service, cmd tea.Cmd) {
	t.Helper()
	queue := collect(cmd)
	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]
		handled, next := s.Update(msg)
		require.True(t, handled, "unexpected message %T", msg)
		queue = append(queue, collect(next)...)
	}
}

func newNavigator(t *testing.T) (*Service, *geotest.Fake) {
	t.Helper()
	api := geotest.New()
	s := NewService(context.Background(), api, nil, nil, nil, nil)
	settle(t, s, s.Init())
	return s, api
}

func TestInitSelectsFirstRegion(t *testing.T) {
	s, api := newNavigator(t)

	assert.Equal(t, State{ActiveTab: "china", ActiveRegion: "310000"}, s.State())
	cities, ok := s.Cities().Data()
	require.True(t, ok)
	assert.Equal(t, []domain.City{{Code: "310100", Name: "Shanghai City"}}, cities)

	detail, ok := s.Detail().Data()
	require.True(t, ok)
	assert.Equal(t, "Shanghai", detail.DisplayName())
	assert.Equal(t, []string{""}, api.Calls("china"))
}

func TestSelectRegionDoesNotRefetchRegions(t *testing.T) {
	s, api := newNavigator(t)

	settle(t, s, s.SelectRegion("440000"))
	assert.Equal(t, domain.Code("440000"), s.ActiveRegion())
	assert.Equal(t, 1, s.RegionCursor())
	assert.Len(t, api.Calls("china"), 1)
	assert.Equal(t, []string{"310000", "440000"}, api.Calls("list"))

	city, ok := s.CurrentCity()
	require.True(t, ok)
	assert.Equal(t, "Guangzhou", city.Name)
}

func TestSwitchTabIsolatesCityList(t *testing.T) {
	s, _ := newNavigator(t)
	settle(t, s, s.SelectRegion("440000"))

	cmd := s.SwitchTab("foreign")
	require.NotNil(t, cmd)

	// The previous tab's city list must not be shown while the new tab loads
	assert.Equal(t, binding.StatusPending, s.Cities().Status())
	_, ok := s.Cities().Data()
	assert.False(t, ok)
	assert.Equal(t, domain.Code("440000"), s.ActiveRegion(), "region kept until the new list resolves")

	settle(t, s, cmd)
	assert.Equal(t, State{ActiveTab: "foreign", ActiveRegion: "JP"}, s.State())
	cities, ok := s.Cities().Data()
	require.True(t, ok)
	assert.Equal(t, "Tokyo", cities[0].Name)
}

func TestSwitchTabKeepsRegionPresentInNewList(t *testing.T) {
	s, api := newNavigator(t)
	api.Foreign = append(api.Foreign, domain.GeoNode{ID: "310000", Name: "Shanghai (intl)"})

	settle(t, s, s.SwitchTab("foreign"))
	assert.Equal(t, domain.Code("310000"), s.ActiveRegion())
	assert.Equal(t, 2, s.RegionCursor())
	// Same region, different tab: the list is fetched again
	assert.Equal(t, []string{"310000", "310000"}, api.Calls("list"))
}

func TestRapidTabSwitchDiscardsStaleRegions(t *testing.T) {
	s, _ := newNavigator(t)

	toForeign := s.SwitchTab("foreign")
	toChina := s.SwitchTab("china")

	// The domestic list resolves first; the foreign one arrives late
	settle(t, s, toChina)
	settle(t, s, toForeign)

	assert.Equal(t, State{ActiveTab: "china", ActiveRegion: "310000"}, s.State())
	regions, ok := s.Regions().Data()
	require.True(t, ok)
	assert.Equal(t, "Shanghai", regions[0].Name)
}

func TestNextTabWraps(t *testing.T) {
	s, _ := newNavigator(t)

	settle(t, s, s.NextTab(1))
	assert.Equal(t, "foreign", s.ActiveTab().Key)
	settle(t, s, s.NextTab(1))
	assert.Equal(t, "china", s.ActiveTab().Key)
	settle(t, s, s.NextTab(-1))
	assert.Equal(t, "foreign", s.ActiveTab().Key)

	assert.Nil(t, s.SwitchTab("foreign"), "switching to the active tab is a no-op")
	assert.Nil(t, s.SwitchTab("moon"))
}

func TestMoveRegionSelectsUnderCursor(t *testing.T) {
	s, _ := newNavigator(t)

	settle(t, s, s.MoveRegion(1))
	assert.Equal(t, domain.Code("440000"), s.ActiveRegion())
	assert.Nil(t, s.MoveRegion(1), "cursor already at the last region")

	s.MoveCity(5)
	assert.Equal(t, 1, s.CityCursor())
	s.MoveCity(-5)
	assert.Equal(t, 0, s.CityCursor())
}

func TestEmptyRegionListLeavesNoActiveRegion(t *testing.T) {
	api := geotest.New()
	api.China = nil
	s := NewService(context.Background(), api, nil, nil, nil, nil)
	settle(t, s, s.Init())

	assert.True(t, s.ActiveRegion().IsZero())
	assert.True(t, s.Regions().Ready())
	assert.False(t, s.Cities().Bound())
	assert.Empty(t, api.Calls("list"))
}

func TestFailedCityListCanBeRetried(t *testing.T) {
	api := geotest.New()
	boom := errors.New("timeout")
	api.Fail("list", boom)
	s := NewService(context.Background(), api, nil, nil, nil, nil)
	settle(t, s, s.Init())

	assert.Equal(t, binding.StatusFailed, s.Cities().Status())
	assert.Equal(t, "Failed to load data: timeout", s.Cities().Message())
	assert.True(t, s.Regions().Ready())

	api.Fail("list", nil)
	settle(t, s, s.Retry())
	assert.True(t, s.Cities().Ready())
	assert.Len(t, api.Calls("china"), 1, "only failed panes are retried")
}

func TestSelectedCountProjection(t *testing.T) {
	s, _ := newNavigator(t)
	settle(t, s, s.SelectRegion("440000"))

	basket := []domain.Code{"310100", "440300", "440100"}
	assert.Equal(t, 2, s.SelectedCount(basket))
	assert.Equal(t, 0, s.SelectedCount(nil))
}

func TestCustomTabsUseConfiguredSources(t *testing.T) {
	api := geotest.New()
	tabs := []domain.Tab{{Key: "abroad", Title: "Abroad", Source: domain.SourceForeign}}
	s := NewService(context.Background(), api, tabs, nil, nil, nil)
	settle(t, s, s.Init())

	assert.Equal(t, State{ActiveTab: "abroad", ActiveRegion: "JP"}, s.State())
	assert.Empty(t, api.Calls("china"))
}

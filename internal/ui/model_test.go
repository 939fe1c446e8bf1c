package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"citypick/internal/domain"
	"citypick/internal/geo/geotest"
	inputtypes "citypick/internal/ui/input/types"
)

// driver feeds a model its own commands the way a tea.Program would.
// Commands that block (timers, blinks) are dropped after a short wait.
type driver struct {
	t    *testing.T
	m    *Model
	quit bool
}

func (d *driver) exec(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-ch:
	case <-time.After(100 * time.Millisecond):
		return nil
	}

	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, d.exec(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func (d *driver) run(cmd tea.Cmd) {
	d.t.Helper()
	queue := d.exec(cmd)
	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]
		switch msg.(type) {
		case tea.QuitMsg:
			d.quit = true
			continue
		case spinner.TickMsg:
			continue
		}
		_, next := d.m.Update(msg)
		queue = append(queue, d.exec(next)...)
	}
}

func (d *driver) send(msg tea.Msg) {
	d.t.Helper()
	_, cmd := d.m.Update(msg)
	d.run(cmd)
}

func (d *driver) press(keys ...string) {
	d.t.Helper()
	for _, k := range keys {
		d.send(keyMsg(k))
	}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

type hooks struct {
	changes [][]domain.Code
	closes  int
}

func newDriver(t *testing.T, api *geotest.Fake, opts Options) (*driver, *hooks) {
	t.Helper()
	h := &hooks{}
	opts.OnChange = func(codes []domain.Code) { h.changes = append(h.changes, codes) }
	opts.OnClose = func() { h.closes++ }
	if opts.Clock == nil {
		opts.Clock = clockwork.NewFakeClock()
	}

	d := &driver{t: t, m: NewModel(api, nil, opts)}
	d.send(tea.WindowSizeMsg{Width: 100, Height: 30})
	d.run(d.m.Init())
	return d, h
}

func TestMultiSelectCommitsOnceOnConfirm(t *testing.T) {
	d, h := newDriver(t, geotest.New(), Options{Size: 3, ShowSelected: true})

	// Shanghai City from the first region
	d.press("right", "enter")
	// Shenzhen from Guangdong
	d.press("left", "down", "right", "down", "enter")

	assert.Equal(t, []domain.Code{"310100", "440300"}, d.m.Selection())
	assert.Empty(t, h.changes, "appending must not commit")
	assert.False(t, d.m.Done())

	d.press("c")

	require.Len(t, h.changes, 1)
	assert.Equal(t, []domain.Code{"310100", "440300"}, h.changes[0])
	assert.True(t, d.m.Done())
	assert.True(t, d.m.Committed())
	assert.Equal(t, []domain.Code{"310100", "440300"}, d.m.Result())
	assert.Zero(t, h.closes)
}

func TestSingleSelectCommitsOnActivate(t *testing.T) {
	d, h := newDriver(t, geotest.New(), Options{Size: 1, QuitOnDone: true})

	d.press("down", "enter", "down", "enter")

	require.Len(t, h.changes, 1)
	assert.Equal(t, []domain.Code{"440300"}, h.changes[0])
	assert.True(t, d.quit)
	assert.Empty(t, d.m.View())
}

func TestSingleSelectIgnoresConfirmKey(t *testing.T) {
	d, h := newDriver(t, geotest.New(), Options{Size: 1})

	assert.False(t, d.m.Confirm())
	d.press("c")
	assert.Empty(t, h.changes)
	assert.False(t, d.m.Done())
}

func TestCapacityWarningShownInStatusLine(t *testing.T) {
	d, h := newDriver(t, geotest.New(), Options{Size: 2})

	d.press("down", "right", "enter", "down", "enter")
	require.Len(t, d.m.Selection(), 2)

	d.press("left", "up", "right", "enter")

	assert.Equal(t, []domain.Code{"440100", "440300"}, d.m.Selection())
	assert.Equal(t, "max 2 reachable", d.m.state.StatusMessage)
	assert.Contains(t, d.m.View(), "max 2 reachable")
	assert.Empty(t, h.changes)
}

func TestActivatingSelectedCityRemovesIt(t *testing.T) {
	d, _ := newDriver(t, geotest.New(), Options{Size: 3})

	d.press("right", "enter")
	require.Equal(t, []domain.Code{"310100"}, d.m.Selection())

	d.press("enter")
	assert.Empty(t, d.m.Selection())
}

func TestRemoveFromBasketPane(t *testing.T) {
	d, _ := newDriver(t, geotest.New(), Options{Size: 3, ShowSelected: true})

	d.press("down", "right", "enter", "down", "enter")
	d.press("right")
	require.Equal(t, inputtypes.PaneBasket, d.m.state.Focus)

	d.press("x")
	assert.Equal(t, []domain.Code{"440300"}, d.m.Selection())

	d.press("x")
	assert.Empty(t, d.m.Selection())
	assert.Equal(t, inputtypes.PaneCities, d.m.state.Focus, "focus leaves an empty basket")
}

func TestTabSwitchLoadsForeignCities(t *testing.T) {
	api := geotest.New()
	d, _ := newDriver(t, api, Options{Size: 3})

	d.press("tab")

	assert.Equal(t, "foreign", d.m.coord.Browse.ActiveTab().Key)
	assert.Equal(t, domain.Code("JP"), d.m.coord.Browse.ActiveRegion())
	assert.Contains(t, d.m.View(), "Tokyo")
	assert.Equal(t, []string{"310000", "JP"}, api.Calls("list"))
}

func TestSearchChooseAppendsAndCloses(t *testing.T) {
	d, _ := newDriver(t, geotest.New(), Options{Size: 3, Layout: LayoutFullscreen})

	d.press("/", "s", "h", "e", "n")
	assert.Equal(t, inputtypes.ModeSearch, d.m.inputHandler.CurrentMode())
	assert.Equal(t, "shen", d.m.coord.Search.Query())

	// First enter searches immediately, second picks the highlighted result
	d.press("enter")
	assert.Contains(t, d.m.View(), "Guangdong·Shenzhen")
	d.press("enter")

	assert.Equal(t, []domain.Code{"440300"}, d.m.Selection())
	assert.False(t, d.m.coord.Search.IsOpen())
	assert.Equal(t, inputtypes.ModeBrowse, d.m.inputHandler.CurrentMode())
}

func TestSearchUnavailableInPopup(t *testing.T) {
	d, _ := newDriver(t, geotest.New(), Options{Size: 3})

	d.press("/")
	assert.Equal(t, inputtypes.ModeBrowse, d.m.inputHandler.CurrentMode())
	assert.False(t, d.m.coord.Search.IsOpen())
}

func TestCancelWithoutChangesCloses(t *testing.T) {
	d, h := newDriver(t, geotest.New(), Options{Size: 3})

	d.press("esc")

	assert.Equal(t, 1, h.closes)
	assert.Empty(t, h.changes)
	assert.True(t, d.m.Done())
	assert.False(t, d.m.Committed())
}

func TestCancelAfterChangesAsksFirst(t *testing.T) {
	d, h := newDriver(t, geotest.New(), Options{Size: 3})

	d.press("right", "enter", "esc")
	assert.Equal(t, inputtypes.ModeDiscardConfirm, d.m.inputHandler.CurrentMode())
	assert.Contains(t, d.m.View(), "Discard")

	d.press("n")
	assert.False(t, d.m.Done())
	assert.Equal(t, []domain.Code{"310100"}, d.m.Selection())

	d.press("esc", "y")
	assert.Equal(t, 1, h.closes)
	assert.Empty(t, h.changes)
	assert.True(t, d.m.Done())
}

func TestCombineFailureKeepsBasket(t *testing.T) {
	api := geotest.New()
	d, _ := newDriver(t, api, Options{Size: 3})

	d.press("right", "enter")
	api.Fail("combine", errors.New("boom"))
	d.press("left", "down", "right", "enter")

	assert.Equal(t, []domain.Code{"310100"}, d.m.Selection())
	assert.True(t, strings.HasPrefix(d.m.state.StatusMessage, "Could not add 440100"))
}

func TestFailedCityListRetries(t *testing.T) {
	api := geotest.New()
	api.Fail("list", errors.New("offline"))
	d, _ := newDriver(t, api, Options{Size: 3})

	assert.Contains(t, d.m.View(), "Press r to retry")

	api.Fail("list", nil)
	d.press("r")
	assert.Contains(t, d.m.View(), "Shanghai City")
}

func TestOpenResetsSelection(t *testing.T) {
	d, h := newDriver(t, geotest.New(), Options{Size: 3})

	d.press("esc")
	require.True(t, d.m.Done())

	d.run(d.m.Open([]domain.Code{"440300", "440300", "JP-13"}, 2))
	assert.False(t, d.m.Done())
	assert.Equal(t, []domain.Code{"440300", "JP-13"}, d.m.Selection())

	assert.True(t, d.m.Confirm())
	require.Len(t, h.changes, 1)
	assert.Equal(t, []domain.Code{"440300", "JP-13"}, h.changes[0])
}

func TestChipLabelsUseParentName(t *testing.T) {
	d, _ := newDriver(t, geotest.New(), Options{Size: 3, ShowSelected: true, DefaultValue: []domain.Code{"440300"}})

	assert.Contains(t, d.m.View(), "Guangdong·Shenzhen")
}

func TestHelpOverlayToggles(t *testing.T) {
	d, _ := newDriver(t, geotest.New(), Options{Size: 3})

	d.press("?")
	require.True(t, d.m.state.ShowHelp)
	assert.Contains(t, d.m.View(), "confirm")

	d.press("?")
	assert.False(t, d.m.state.ShowHelp)
}

func TestCtrlCQuits(t *testing.T) {
	d, h := newDriver(t, geotest.New(), Options{Size: 3})

	d.press("ctrl+c")
	assert.True(t, d.quit)
	assert.Equal(t, 1, h.closes)
}

func TestOpenAppendConfirm(t *testing.T) {
	d, h := newDriver(t, geotest.New(), Options{})

	d.run(d.m.Open(nil, 3))
	d.run(d.m.Append("310000"))
	d.run(d.m.Append("440300"))

	assert.Equal(t, []domain.Code{"310000", "440300"}, d.m.Selection())
	assert.Empty(t, h.changes)

	require.True(t, d.m.Confirm())
	require.Len(t, h.changes, 1)
	assert.Equal(t, []domain.Code{"310000", "440300"}, h.changes[0])
	assert.Nil(t, d.m.Append("110000"), "a closed picker ignores appends")
}

func TestConfirmDropsLateCombine(t *testing.T) {
	d, h := newDriver(t, geotest.New(), Options{})

	d.run(d.m.Open(nil, 3))
	d.run(d.m.Append("310000"))
	late := d.m.Append("440300")
	require.NotNil(t, late)

	require.True(t, d.m.Confirm())
	d.run(late)

	require.Len(t, h.changes, 1)
	assert.Equal(t, []domain.Code{"310000"}, h.changes[0])
	assert.Equal(t, d.m.Result(), d.m.Selection())
}

package views

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderPaneStates(t *testing.T) {
	lr := NewListRenderer(NewStyles())

	loading := StripANSI(lr.RenderPane(PaneView{Status: PaneLoading}, "*", 30, 5))
	assert.Contains(t, loading, "Loading...")

	failed := StripANSI(lr.RenderPane(PaneView{Status: PaneFailed, Error: "offline"}, "", 30, 5))
	assert.Contains(t, failed, "offline")
	assert.Contains(t, failed, "Press r to retry")

	empty := StripANSI(lr.RenderPane(PaneView{Status: PaneReady, Empty: "No cities"}, "", 30, 5))
	assert.Equal(t, "No cities", strings.TrimSpace(empty))
}

func TestRenderPaneWindowsAroundCursor(t *testing.T) {
	lr := NewListRenderer(NewStyles())

	p := PaneView{Status: PaneReady, Cursor: 9}
	for _, name := range []string{"a0", "a1", "a2", "a3", "a4", "a5", "a6", "a7", "a8", "a9"} {
		p.Items = append(p.Items, ItemView{Label: name})
	}
	out := StripANSI(lr.RenderPane(p, "", 20, 3))

	assert.Contains(t, out, "a9")
	assert.NotContains(t, out, "a0")
	assert.LessOrEqual(t, len(strings.Split(out, "\n")), 3)
}

func TestRenderBasket(t *testing.T) {
	br := NewBasketRenderer(NewStyles())

	out := StripANSI(br.RenderBasket([]ChipView{
		{Label: "Guangdong·Shenzhen", Removable: true},
		{Label: "Shanghai", Removable: true},
	}, 3, true, 80))
	assert.Contains(t, out, "Selected (2/3):")
	assert.Contains(t, out, "Guangdong·Shenzhen ×")

	single := StripANSI(br.RenderBasket(nil, 1, false, 80))
	assert.Contains(t, single, "Selected:")
	assert.Contains(t, single, "nothing yet")
}

func TestRenderShowsDiscardPromptOverStatus(t *testing.T) {
	r := NewRenderer()
	out := StripANSI(r.Render(ViewState{
		Width:          100,
		Height:         30,
		Title:          "Select a city",
		Tabs:           []string{"Domestic", "Overseas"},
		Regions:        PaneView{Status: PaneReady},
		Cities:         PaneView{Status: PaneReady},
		ConfirmDiscard: true,
		StatusMessage:  "max 2 reachable",
	}))

	assert.Contains(t, out, "Select a city")
	assert.Contains(t, out, "Overseas")
	assert.Contains(t, out, "Discard selection?")
	assert.NotContains(t, out, "max 2 reachable")
}

package modes

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"citypick/internal/ui/input/types"
)

type BrowseMode struct {
	keys types.KeyMap
}

func NewBrowseMode(keys types.KeyMap) *BrowseMode {
	return &BrowseMode{keys: keys}
}

func (m *BrowseMode) Name() string {
	return "browse"
}

func (m *BrowseMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *BrowseMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *BrowseMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return []types.Action{types.QuitAction{Force: true}}, true

	case key.Matches(msg, k.Up):
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case key.Matches(msg, k.Down):
		return []types.Action{types.NavigateAction{Direction: "down"}}, true

	case key.Matches(msg, k.Left):
		return []types.Action{types.NavigateAction{Direction: "left"}}, true

	case key.Matches(msg, k.Right):
		return []types.Action{types.NavigateAction{Direction: "right"}}, true

	case key.Matches(msg, k.NextTab):
		return []types.Action{types.SwitchTabAction{Delta: 1}}, true

	case key.Matches(msg, k.PrevTab):
		return []types.Action{types.SwitchTabAction{Delta: -1}}, true

	case key.Matches(msg, k.Activate):
		return []types.Action{types.ActivateAction{}}, true

	case key.Matches(msg, k.Remove):
		// Removal only exists in multi-select
		if ctx.MultiSelect() && ctx.BasketLen() > 0 {
			return []types.Action{types.RemoveAction{}}, true
		}
		return nil, false

	case key.Matches(msg, k.Search):
		if ctx.SearchEnabled() {
			return []types.Action{types.ChangeModeAction{Mode: types.ModeSearch}}, true
		}
		return nil, false

	case key.Matches(msg, k.Confirm):
		if ctx.MultiSelect() {
			return []types.Action{types.ConfirmAction{}}, true
		}
		return nil, false

	case key.Matches(msg, k.Retry):
		return []types.Action{types.RetryAction{}}, true

	case key.Matches(msg, k.Help):
		return []types.Action{types.ToggleHelpAction{}}, true

	case key.Matches(msg, k.Cancel):
		if ctx.HasUncommittedChanges() {
			return []types.Action{types.ChangeModeAction{Mode: types.ModeDiscardConfirm}}, true
		}
		return []types.Action{types.CancelAction{}}, true
	}

	return nil, false
}

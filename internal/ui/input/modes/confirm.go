package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"citypick/internal/ui/input/types"
)

// DiscardConfirmMode asks before throwing away an uncommitted multi-select
type DiscardConfirmMode struct{}

func NewDiscardConfirmMode() *DiscardConfirmMode {
	return &DiscardConfirmMode{}
}

func (m *DiscardConfirmMode) Name() string {
	return "discard-confirm"
}

func (m *DiscardConfirmMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *DiscardConfirmMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *DiscardConfirmMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true
	case "y", "Y":
		return []types.Action{
			types.ChangeModeAction{Mode: types.ModeBrowse},
			types.CancelAction{},
		}, true
	case "n", "N", "esc":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeBrowse}}, true
	}
	// Swallow everything else while the prompt is up
	return nil, true
}

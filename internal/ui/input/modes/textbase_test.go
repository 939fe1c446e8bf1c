package modes

import (
	"testing"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"citypick/internal/ui/input/types"
)

func TestTextInputModeLeavesEnterToEmbedder(t *testing.T) {
	ti := textinput.New()
	ti.SetValue("sha")
	m := NewTextInputMode(types.ModeSearch, "search", "Search: ", &ti)

	actions, handled := m.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}, nil)
	assert.False(t, handled)
	assert.Empty(t, actions)
}

func TestSearchModeEnterSubmitsWithoutLeaving(t *testing.T) {
	ti := textinput.New()
	ti.SetValue("sha")
	m := NewSearchMode(&ti)

	actions, handled := m.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}, nil)
	assert.True(t, handled)
	assert.Equal(t, []types.Action{types.SubmitTextAction{Text: "sha", Mode: types.ModeSearch}}, actions)
}

func TestTextInputModeEscCancels(t *testing.T) {
	ti := textinput.New()
	m := NewSearchMode(&ti)

	actions, handled := m.HandleKey(tea.KeyMsg{Type: tea.KeyEsc}, nil)
	assert.True(t, handled)
	assert.Equal(t, []types.Action{
		types.CancelTextAction{},
		types.ChangeModeAction{Mode: types.ModeBrowse},
	}, actions)
}

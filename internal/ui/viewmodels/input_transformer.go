package viewmodels

import (
	"github.com/charmbracelet/bubbles/textinput"

	"citypick/internal/ui/input/types"
)

// InputTransformer turns the input handler's state into view strings
type InputTransformer struct {
	mode      types.Mode
	prompt    string
	textInput textinput.Model
}

// NewInputTransformer creates a new input transformer
func NewInputTransformer(textInput textinput.Model) *InputTransformer {
	return &InputTransformer{
		mode:      types.ModeBrowse,
		textInput: textInput,
	}
}

// SetMode sets the current input mode and its prompt
func (it *InputTransformer) SetMode(mode types.Mode, prompt string) {
	it.mode = mode
	it.prompt = prompt
}

// GetInputText returns the rendered text input, empty outside text modes
func (it *InputTransformer) GetInputText() string {
	if it.mode != types.ModeSearch {
		return ""
	}
	return it.textInput.View()
}

// GetPrompt returns the prompt shown before the input
func (it *InputTransformer) GetPrompt() string {
	if it.prompt == "" && it.mode == types.ModeSearch {
		return "Search: "
	}
	return it.prompt
}

// ConfirmingDiscard reports whether the discard prompt is up
func (it *InputTransformer) ConfirmingDiscard() bool {
	return it.mode == types.ModeDiscardConfirm
}

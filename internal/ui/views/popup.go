package views

import (
	"regexp"

	"github.com/charmbracelet/lipgloss"
)

// PopupRenderer handles popup/modal rendering
type PopupRenderer struct {
	styles *Styles
}

// NewPopupRenderer creates a new popup renderer
func NewPopupRenderer(styles *Styles) *PopupRenderer {
	return &PopupRenderer{
		styles: styles,
	}
}

// RenderPopup frames content with popupStyle and centers it in the terminal
func (pr *PopupRenderer) RenderPopup(content string, height, width int, popupStyle lipgloss.Style) string {
	// Keep a small margin around the frame
	maxW := width - 6
	if maxW > 0 && lipgloss.Width(content) > maxW {
		popupStyle = popupStyle.MaxWidth(maxW + popupStyle.GetHorizontalFrameSize())
	}
	styled := popupStyle.Render(content)
	if width <= 0 || height <= 0 {
		return styled
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, styled)
}

// ANSI escape sequence regex to strip styles/colors
var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripANSI removes color/style codes
func StripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}

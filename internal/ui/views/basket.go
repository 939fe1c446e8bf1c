package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ChipView is one selected code in the basket bar
type ChipView struct {
	Label     string
	Removable bool
	Cursor    bool
}

// BasketRenderer renders the selected-items bar
type BasketRenderer struct {
	styles *Styles
}

// NewBasketRenderer creates a new basket renderer
func NewBasketRenderer(styles *Styles) *BasketRenderer {
	return &BasketRenderer{styles: styles}
}

// RenderBasket renders "Selected (n/size):" followed by wrapped chips
func (br *BasketRenderer) RenderBasket(chips []ChipView, size int, multi bool, width int) string {
	heading := "Selected:"
	if multi {
		heading = fmt.Sprintf("Selected (%d/%d):", len(chips), size)
	}
	heading = br.styles.Title.Render(heading)

	if len(chips) == 0 {
		return heading + " " + br.styles.Dim.Render("nothing yet")
	}

	var (
		lines   []string
		current = heading
	)
	for _, c := range chips {
		label := c.Label
		if c.Removable {
			label += " ×"
		}
		style := br.styles.Chip
		if c.Cursor {
			style = br.styles.ChipCursor
		}
		chip := style.Render(label)

		if width > 0 && lipgloss.Width(current)+1+lipgloss.Width(chip) > width {
			lines = append(lines, current)
			current = chip
			continue
		}
		current += " " + chip
	}
	lines = append(lines, current)
	return strings.Join(lines, "\n")
}

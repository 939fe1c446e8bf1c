package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PaneStatus mirrors a lookup's load state for rendering
type PaneStatus int

const (
	PaneLoading PaneStatus = iota
	PaneReady
	PaneFailed
)

// ItemView is one row of a list pane
type ItemView struct {
	Label   string
	Active  bool // the region currently driving the city list
	Checked bool // in the basket
	Badge   string
}

// PaneView is a list backed by one lookup
type PaneView struct {
	Status    PaneStatus
	Error     string
	Items     []ItemView
	Cursor    int
	Focused   bool
	Checkable bool
	Empty     string
	Highlight string // query to emphasize in labels
}

// ListRenderer renders list panes
type ListRenderer struct {
	styles *Styles
}

// NewListRenderer creates a new list renderer
func NewListRenderer(styles *Styles) *ListRenderer {
	return &ListRenderer{styles: styles}
}

// RenderPane renders a pane into at most height lines of the given width
func (lr *ListRenderer) RenderPane(p PaneView, spinner string, width, height int) string {
	switch p.Status {
	case PaneLoading:
		return lr.styles.StatusLoading.Render(fmt.Sprintf("%s Loading...", spinner))
	case PaneFailed:
		return lipgloss.JoinVertical(lipgloss.Left,
			lr.styles.StatusError.Width(width).Render(p.Error),
			lr.styles.Dim.Render("Press r to retry"),
		)
	}
	if len(p.Items) == 0 {
		empty := p.Empty
		if empty == "" {
			empty = "Nothing here"
		}
		return lr.styles.Dim.Render(empty)
	}

	lines := make([]string, 0, len(p.Items))
	for i, item := range p.Items {
		lines = append(lines, lr.renderItem(item, i == p.Cursor, p, width))
	}
	return lr.window(lines, p.Cursor, height)
}

func (lr *ListRenderer) renderItem(item ItemView, isCursor bool, p PaneView, width int) string {
	label := item.Label
	if p.Highlight != "" {
		label = lr.highlightMatch(label, p.Highlight, lr.styles.Highlight)
	}

	var line string
	if p.Checkable {
		box := "[ ]"
		if item.Checked {
			box = lr.styles.Checked.Render("[x]")
		}
		line = fmt.Sprintf("%s %s", box, label)
	} else {
		line = label
	}
	if item.Badge != "" {
		line = fmt.Sprintf("%s %s", line, lr.styles.Dim.Render(item.Badge))
	}
	if item.Active {
		line = lr.styles.Active.Render("▌") + line
	} else {
		line = " " + line
	}

	if !isCursor {
		return line
	}
	// Pad the line to full width so the cursor background spans the pane
	if width > 0 {
		if w := lipgloss.Width(line); w < width {
			line += strings.Repeat(" ", width-w)
		}
	}
	if p.Focused {
		return lr.styles.Cursor.Render(line)
	}
	return lr.styles.CursorBlurred.Render(line)
}

// window keeps the cursor visible within height lines, adding scroll indicators
func (lr *ListRenderer) window(lines []string, cursor, height int) string {
	if height <= 0 || len(lines) <= height {
		return strings.Join(lines, "\n")
	}

	effective := height - 2 // room for both indicators
	if effective < 1 {
		effective = 1
	}
	offset := cursor - effective/2
	if offset < 0 {
		offset = 0
	}
	if offset > len(lines)-effective {
		offset = len(lines) - effective
	}
	end := offset + effective

	out := make([]string, 0, height)
	if offset > 0 {
		out = append(out, lr.styles.Scroll.Render(fmt.Sprintf("↑ %d more", offset)))
	}
	out = append(out, lines[offset:end]...)
	if below := len(lines) - end; below > 0 {
		out = append(out, lr.styles.Scroll.Render(fmt.Sprintf("↓ %d more", below)))
	}
	return strings.Join(out, "\n")
}

// highlightMatch highlights the first case-insensitive occurrence of query
func (lr *ListRenderer) highlightMatch(text, query string, highlightStyle lipgloss.Style) string {
	lowerText := strings.ToLower(text)
	lowerQuery := strings.ToLower(query)

	index := strings.Index(lowerText, lowerQuery)
	if index == -1 || len(lowerText) != len(text) {
		return text
	}

	before := text[:index]
	match := text[index : index+len(query)]
	after := text[index+len(query):]
	return before + highlightStyle.Render(match) + after
}

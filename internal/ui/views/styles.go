package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Confirm       lipgloss.Style
	Dim           lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
	Popup         lipgloss.Style
	InfoBox       lipgloss.Style
	Scroll        lipgloss.Style
	Highlight     lipgloss.Style
	Cursor        lipgloss.Style
	CursorBlurred lipgloss.Style
	Active        lipgloss.Style
	Checked       lipgloss.Style
	Tab           lipgloss.Style
	TabActive     lipgloss.Style
	Pane          lipgloss.Style
	PaneFocused   lipgloss.Style
	Divider       lipgloss.Style
	Chip          lipgloss.Style
	ChipCursor    lipgloss.Style
	Prompt        lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusLoading lipgloss.Style
	StatusSuccess lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Confirm: lipgloss.NewStyle().Bold(true),
		Dim:     lipgloss.NewStyle().Faint(true),
		Help:    lipgloss.NewStyle().Faint(true),
		Main: lipgloss.NewStyle().
			Padding(1, 2),
		Popup: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("99")).
			Padding(0, 1),
		InfoBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(1).
			BorderForeground(lipgloss.Color("241")),
		Scroll:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Highlight:     lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		Cursor:        lipgloss.NewStyle().Background(lipgloss.Color("238")),
		CursorBlurred: lipgloss.NewStyle().Background(lipgloss.Color("236")),
		Active:        lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		Checked:       lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
		Tab:           lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("245")),
		TabActive: lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true).
			Underline(true).
			Foreground(lipgloss.Color("39")),
		Pane: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(lipgloss.Color("238")).
			PaddingRight(1),
		PaneFocused: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(lipgloss.Color("39")).
			PaddingRight(1),
		Divider:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Chip:          lipgloss.NewStyle().Padding(0, 1).Background(lipgloss.Color("24")).Foreground(lipgloss.Color("255")),
		ChipCursor:    lipgloss.NewStyle().Padding(0, 1).Background(lipgloss.Color("33")).Foreground(lipgloss.Color("255")).Bold(true),
		Prompt:        lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		StatusLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("241")), // gray
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
	}
}

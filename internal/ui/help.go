package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"

	"citypick/internal/ui/input/types"
)

// HelpRenderer handles help content rendering
type HelpRenderer struct{}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer() *HelpRenderer {
	return &HelpRenderer{}
}

var helpSections = []string{"Navigation", "Tabs", "Selection", "Other"}

// RenderHelpContent renders the enabled bindings grouped by section
func (r *HelpRenderer) RenderHelpContent(keys types.KeyMap, multi bool) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39"))

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220")).
		Width(14)

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	var help strings.Builder

	help.WriteString(titleStyle.Render("citypick Help"))
	help.WriteString("\n")

	for i, group := range keys.FullHelp() {
		var rows []string
		for _, b := range group {
			if !b.Enabled() {
				continue
			}
			rows = append(rows, fmt.Sprintf("  %s%s", keyStyle.Render(b.Help().Key), descStyle.Render(b.Help().Desc)))
		}
		if len(rows) == 0 {
			continue
		}
		help.WriteString("\n")
		help.WriteString(sectionStyle.Render(helpSections[i]))
		help.WriteString("\n")
		help.WriteString(strings.Join(rows, "\n"))
		help.WriteString("\n")
	}

	help.WriteString("\n")
	note := "Single-select: choosing a city closes the picker."
	if multi {
		note = "Multi-select: pick cities, then press c to confirm."
	}
	help.WriteString(lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241")).Render(note))
	help.WriteString("\n")
	help.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(searchHint(keys.Search)))

	return help.String()
}

func searchHint(b key.Binding) string {
	if !b.Enabled() {
		return "Search is available in the fullscreen layout."
	}
	return "In search: type to filter, ↑/↓ to move, enter to pick, esc to go back."
}

// HelpOps handles help operations
type HelpOps struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewHelpOps creates a new help operations instance
func NewHelpOps(program *tea.Program) *HelpOps {
	return &HelpOps{
		program: program,
	}
}

// ShowHelpInPager shows help content using ov pager
func (h *HelpOps) ShowHelpInPager(helpContent string) error {
	if h.program == nil {
		return fmt.Errorf("program not set")
	}

	// Release terminal control to run ov
	if err := h.program.ReleaseTerminal(); err != nil {
		return err
	}

	// Ensure terminal is restored even if ov fails
	defer func() {
		// Small delay to ensure ov has fully exited before restoring terminal
		time.Sleep(100 * time.Millisecond)
		_ = h.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(helpContent))
	if err != nil {
		return err
	}

	// Configure ov to not write on exit (to avoid messing with our screen)
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}

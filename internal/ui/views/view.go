package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// StatusKind selects the status line style
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusWarning
	StatusError
	StatusSuccess
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width      int
	Height     int
	Title      string
	Fullscreen bool

	Tabs      []string
	ActiveTab int

	Regions     PaneView
	Header      string // display name of the active region
	HeaderBadge string // "n selected"
	Cities      PaneView

	ShowBasket bool
	Basket     []ChipView
	Size       int
	Multi      bool
	Busy       bool

	SearchOpen   bool
	SearchPrompt string
	SearchInput  string
	Search       PaneView
	SearchIdle   bool // no query yet

	ConfirmDiscard bool
	StatusMessage  string
	StatusKind     StatusKind
	Spinner        string
	HelpLine       string
	ShowHelp       bool
	HelpContent    string
}

// Renderer handles all view rendering
type Renderer struct {
	styles       *Styles
	listRender   *ListRenderer
	basketRender *BasketRenderer
	popupRender  *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:       styles,
		listRender:   NewListRenderer(styles),
		basketRender: NewBasketRenderer(styles),
		popupRender:  NewPopupRenderer(styles),
	}
}

// Styles exposes the renderer's styles
func (r *Renderer) Styles() *Styles { return r.styles }

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	width := state.Width
	if width <= 0 {
		width = 80 // Default terminal width
	}
	height := state.Height
	if height <= 0 {
		height = 24
	}

	// Inner width: popup frame or main padding
	inner := width - 4
	if !state.Fullscreen {
		inner = width*4/5 - 4
	}
	if inner < 30 {
		inner = 30
	}

	content := &strings.Builder{}
	content.WriteString(r.renderTitleLine(state, inner))
	content.WriteString("\n")
	content.WriteString(r.renderTabs(state))
	content.WriteString("\n")

	if state.SearchOpen {
		prompt := r.styles.Prompt.Render(state.SearchPrompt)
		content.WriteString(prompt + state.SearchInput)
		content.WriteString("\n\n")
	}

	// Lines used by everything but the body
	chrome := 6
	if state.ShowBasket {
		chrome += 2
	}
	if state.SearchOpen {
		chrome += 2
	}
	if !state.Fullscreen {
		chrome += 4
	}
	bodyHeight := height - chrome
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	if state.SearchOpen {
		content.WriteString(r.renderSearch(state, inner, bodyHeight))
	} else {
		content.WriteString(r.renderBrowse(state, inner, bodyHeight))
	}
	content.WriteString("\n")

	if state.ShowBasket {
		content.WriteString("\n")
		content.WriteString(r.basketRender.RenderBasket(state.Basket, state.Size, state.Multi, inner))
		content.WriteString("\n")
	}

	// Status line: prompt beats transient messages
	content.WriteString("\n")
	switch {
	case state.ConfirmDiscard:
		content.WriteString(r.styles.Confirm.Render("Discard selection? (y/n): "))
	case state.StatusMessage != "":
		content.WriteString(r.statusStyle(state.StatusKind).Render(state.StatusMessage))
	case state.HelpLine != "":
		content.WriteString(r.styles.Help.Render(state.HelpLine))
	}

	var out string
	if state.Fullscreen {
		out = r.styles.Main.MaxHeight(height).Render(content.String())
	} else {
		out = r.popupRender.RenderPopup(content.String(), height, width, r.styles.Popup)
	}

	if state.ShowHelp && state.HelpContent != "" {
		return r.popupRender.RenderPopup(state.HelpContent, height, width, r.styles.InfoBox)
	}
	return out
}

func (r *Renderer) renderTitleLine(state ViewState, width int) string {
	title := r.styles.Title.Render(state.Title)

	var indicators []string
	if state.Busy {
		indicators = append(indicators, fmt.Sprintf("%s Updating", state.Spinner))
	}
	if state.Multi {
		indicators = append(indicators, fmt.Sprintf("%d/%d", len(state.Basket), state.Size))
	}
	if len(indicators) == 0 {
		return title
	}

	right := r.styles.Dim.Render(strings.Join(indicators, " | "))
	padding := width - lipgloss.Width(title) - lipgloss.Width(right)
	if padding < 2 {
		padding = 2
	}
	return title + strings.Repeat(" ", padding) + right
}

func (r *Renderer) renderTabs(state ViewState) string {
	tabs := make([]string, 0, len(state.Tabs))
	for i, t := range state.Tabs {
		if i == state.ActiveTab {
			tabs = append(tabs, r.styles.TabActive.Render(t))
		} else {
			tabs = append(tabs, r.styles.Tab.Render(t))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (r *Renderer) renderBrowse(state ViewState, width, height int) string {
	leftW := width / 3
	rightW := width - leftW - 2

	paneStyle := r.styles.Pane
	if state.Regions.Focused {
		paneStyle = r.styles.PaneFocused
	}
	left := paneStyle.Width(leftW).Height(height).Render(
		r.listRender.RenderPane(state.Regions, state.Spinner, leftW-1, height))

	var right strings.Builder
	listHeight := height
	if state.Header != "" {
		header := state.Header
		if state.HeaderBadge != "" {
			header = fmt.Sprintf("%s %s", header, r.styles.Dim.Render(state.HeaderBadge))
		}
		right.WriteString(r.renderDivider(header, rightW))
		right.WriteString("\n")
		listHeight--
	}
	right.WriteString(r.listRender.RenderPane(state.Cities, state.Spinner, rightW, listHeight))

	rightPane := lipgloss.NewStyle().PaddingLeft(1).Width(rightW).Render(right.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, left, rightPane)
}

// renderDivider renders "── label ──────" across width
func (r *Renderer) renderDivider(label string, width int) string {
	lead := r.styles.Divider.Render("── ")
	line := lead + label + " "
	if rest := width - lipgloss.Width(line); rest > 0 {
		line += r.styles.Divider.Render(strings.Repeat("─", rest))
	}
	return line
}

func (r *Renderer) renderSearch(state ViewState, width, height int) string {
	if state.SearchIdle {
		return r.styles.Dim.Render("Type to search, enter to pick, esc to go back")
	}
	p := state.Search
	if p.Empty == "" {
		p.Empty = "No matches"
	}
	return r.listRender.RenderPane(p, state.Spinner, width, height)
}

func (r *Renderer) statusStyle(kind StatusKind) lipgloss.Style {
	switch kind {
	case StatusWarning:
		return r.styles.StatusWarning
	case StatusError:
		return r.styles.StatusError
	case StatusSuccess:
		return r.styles.StatusSuccess
	default:
		return r.styles.StatusLoading
	}
}

package viewmodels

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"

	"citypick/internal/domain"
	"citypick/internal/ui/input/types"
	"citypick/internal/ui/services/basket"
	"citypick/internal/ui/services/binding"
	"citypick/internal/ui/services/browse"
	"citypick/internal/ui/services/search"
	"citypick/internal/ui/views"
)

// ChipLabeler resolves a basket code to its display label
type ChipLabeler func(code domain.Code) string

// Settings are the fixed presentation options
type Settings struct {
	Title      string
	Fullscreen bool
	ShowBasket bool
}

// ViewModel transforms picker state into view-ready data
type ViewModel struct {
	settings Settings
	browse   *browse.Service
	search   *search.Service
	basket   *basket.Service
	label    ChipLabeler

	width            int
	height           int
	help             help.Model
	keys             types.KeyMap
	focus            types.Pane
	basketCursor     int
	statusMessage    string
	statusKind       views.StatusKind
	spinner          string
	showHelp         bool
	helpContent      string
	inputTransformer *InputTransformer
}

// NewViewModel creates a new view model
func NewViewModel(settings Settings, br *browse.Service, s *search.Service, b *basket.Service, label ChipLabeler) *ViewModel {
	return &ViewModel{
		settings:         settings,
		browse:           br,
		search:           s,
		basket:           b,
		label:            label,
		help:             help.New(),
		keys:             types.DefaultKeyMap(),
		inputTransformer: NewInputTransformer(textinput.New()),
	}
}

// SetBasket swaps the basket after the picker is reopened
func (vm *ViewModel) SetBasket(b *basket.Service) {
	vm.basket = b
}

// SetDimensions sets the current terminal dimensions
func (vm *ViewModel) SetDimensions(width, height int) {
	vm.width = width
	vm.height = height
	vm.help.Width = width
}

// SetKeys sets the bindings advertised in the footer
func (vm *ViewModel) SetKeys(keys types.KeyMap) {
	vm.keys = keys
}

// SetFocus sets the focused pane and basket cursor
func (vm *ViewModel) SetFocus(focus types.Pane, basketCursor int) {
	vm.focus = focus
	vm.basketCursor = basketCursor
}

// SetStatus sets the transient status line
func (vm *ViewModel) SetStatus(message string, kind views.StatusKind) {
	vm.statusMessage = message
	vm.statusKind = kind
}

// SetSpinner sets the current spinner frame
func (vm *ViewModel) SetSpinner(frame string) {
	vm.spinner = frame
}

// SetHelp toggles the in-place help overlay
func (vm *ViewModel) SetHelp(show bool, content string) {
	vm.showHelp = show
	vm.helpContent = content
}

// SetInputMode sets the current input mode
func (vm *ViewModel) SetInputMode(mode types.Mode, prompt string) {
	vm.inputTransformer.SetMode(mode, prompt)
}

// UpdateTextInput updates the text input model
func (vm *ViewModel) UpdateTextInput(textInput textinput.Model) {
	vm.inputTransformer.textInput = textInput
}

// BuildViewState creates a ViewState for rendering
func (vm *ViewModel) BuildViewState() views.ViewState {
	codes := vm.basket.Codes()
	selected := make(map[domain.Code]bool, len(codes))
	for _, c := range codes {
		selected[c] = true
	}
	multi := vm.basket.Mode() == basket.ModeMultiple

	state := views.ViewState{
		Width:          vm.width,
		Height:         vm.height,
		Title:          vm.settings.Title,
		Fullscreen:     vm.settings.Fullscreen,
		ActiveTab:      vm.browse.ActiveTabIndex(),
		Regions:        vm.regionsPane(),
		Cities:         vm.citiesPane(selected),
		ShowBasket:     vm.settings.ShowBasket,
		Size:           vm.basket.Size(),
		Multi:          multi,
		Busy:           vm.basket.Busy(),
		SearchOpen:     vm.search.IsOpen(),
		SearchPrompt:   vm.inputTransformer.GetPrompt(),
		SearchInput:    vm.inputTransformer.GetInputText(),
		Search:         vm.searchPane(),
		SearchIdle:     vm.search.Query() == "",
		ConfirmDiscard: vm.inputTransformer.ConfirmingDiscard(),
		StatusMessage:  vm.statusMessage,
		StatusKind:     vm.statusKind,
		Spinner:        vm.spinner,
		HelpLine:       vm.help.ShortHelpView(vm.keys.ShortHelp()),
		ShowHelp:       vm.showHelp,
		HelpContent:    vm.helpContent,
	}
	for _, t := range vm.browse.Tabs() {
		state.Tabs = append(state.Tabs, t.Title)
	}

	if detail, ok := vm.browse.Detail().Data(); ok {
		state.Header = detail.DisplayName()
		if n := vm.browse.SelectedCount(codes); n > 0 {
			state.HeaderBadge = fmt.Sprintf("(%d selected)", n)
		}
	}

	for i, c := range codes {
		state.Basket = append(state.Basket, views.ChipView{
			Label:     vm.label(c),
			Removable: multi,
			Cursor:    vm.focus == types.PaneBasket && i == vm.basketCursor,
		})
	}
	return state
}

func (vm *ViewModel) regionsPane() views.PaneView {
	b := vm.browse.Regions()
	p := paneFrom(b.Status(), b.Message())
	p.Focused = vm.focus == types.PaneRegions
	p.Cursor = vm.browse.RegionCursor()
	p.Empty = "No regions"
	if nodes, ok := b.Data(); ok {
		for _, n := range nodes {
			p.Items = append(p.Items, views.ItemView{Label: n.Name, Active: n.ID == vm.browse.ActiveRegion()})
		}
	}
	return p
}

func (vm *ViewModel) citiesPane(selected map[domain.Code]bool) views.PaneView {
	if vm.browse.ActiveRegion().IsZero() && vm.browse.Regions().Ready() {
		return views.PaneView{Status: views.PaneReady, Empty: "Pick a region"}
	}
	b := vm.browse.Cities()
	p := paneFrom(b.Status(), b.Message())
	p.Focused = vm.focus == types.PaneCities
	p.Cursor = vm.browse.CityCursor()
	p.Checkable = true
	p.Empty = "No cities"
	if cities, ok := b.Data(); ok {
		for _, c := range cities {
			p.Items = append(p.Items, views.ItemView{Label: c.Name, Checked: selected[c.Code]})
		}
	}
	return p
}

func (vm *ViewModel) searchPane() views.PaneView {
	b := vm.search.Results()
	p := paneFrom(b.Status(), b.Message())
	p.Focused = true
	p.Cursor = vm.search.Cursor()
	p.Highlight = vm.search.Query()
	if results, ok := b.Data(); ok {
		for _, r := range results {
			p.Items = append(p.Items, views.ItemView{Label: r.Label, Checked: vm.basket.Contains(r.Value)})
		}
	}
	return p
}

func paneFrom(status binding.Status, message string) views.PaneView {
	switch status {
	case binding.StatusReady:
		return views.PaneView{Status: views.PaneReady}
	case binding.StatusFailed:
		return views.PaneView{Status: views.PaneFailed, Error: message}
	default:
		return views.PaneView{Status: views.PaneLoading}
	}
}

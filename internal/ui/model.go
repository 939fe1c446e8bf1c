// Package ui is the picker controller: a Bubble Tea model composing the
// basket, browse and search services behind open, confirm and cancel.
package ui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"citypick/internal/domain"
	"citypick/internal/eventbus"
	"citypick/internal/geo"
	"citypick/internal/ui/coordinator"
	"citypick/internal/ui/input"
	inputtypes "citypick/internal/ui/input/types"
	"citypick/internal/ui/services/basket"
	"citypick/internal/ui/state"
	"citypick/internal/ui/viewmodels"
	"citypick/internal/ui/views"
)

const statusTTL = 3 * time.Second

// Model represents the UI state
type Model struct {
	opts   Options
	bus    eventbus.EventBus
	logger *slog.Logger
	state  *state.PickerState

	width   int
	height  int
	spinner spinner.Model
	keys    inputtypes.KeyMap

	coord        *coordinator.Coordinator
	renderer     *views.Renderer
	viewModel    *viewmodels.ViewModel
	inputHandler *input.Handler
	helpRenderer *HelpRenderer
	helpOps      *HelpOps

	// Commands produced by callbacks, flushed at the end of Update
	pending []tea.Cmd

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates a picker over api. The api is the only way the picker
// reaches geographic data.
func NewModel(api geo.API, bus eventbus.EventBus, opts Options) *Model {
	opts = opts.withDefaults()
	if bus == nil {
		bus = eventbus.NullBus{}
	}

	m := &Model{
		opts:         opts,
		bus:          bus,
		logger:       opts.Logger,
		state:        state.NewPickerState(),
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot)),
		renderer:     views.NewRenderer(),
		helpRenderer: NewHelpRenderer(),
	}

	m.coord = coordinator.NewCoordinator(coordinator.Config{
		Context:        opts.Context,
		API:            api,
		Bus:            bus,
		Logger:         opts.Logger,
		Tabs:           opts.Tabs,
		Size:           opts.Size,
		Initial:        opts.DefaultValue,
		Callbacks:      m.callbacks(),
		Clock:          opts.Clock,
		DebounceWindow: opts.DebounceWindow,
	})

	m.keys = inputtypes.DefaultKeyMap().ForMode(opts.Size > 1, m.searchable())
	m.inputHandler = input.New(m.keys)
	m.viewModel = viewmodels.NewViewModel(viewmodels.Settings{
		Title:      opts.Title,
		Fullscreen: opts.Layout == LayoutFullscreen,
		ShowBasket: opts.ShowSelected,
	}, m.coord.Browse, m.coord.Search, m.coord.Basket, m.coord.ChipLabel)
	m.viewModel.SetKeys(m.keys)

	return m
}

// callbacks wraps the host's hooks so the controller learns about commits
// and closes before the host does.
func (m *Model) callbacks() basket.Callbacks {
	return basket.Callbacks{
		OnChange: func(codes []domain.Code) {
			m.logger.Info("picker: committed", "codes", codes)
			m.state.Commit(codes)
			if m.opts.OnChange != nil {
				m.opts.OnChange(codes)
			}
		},
		OnClose: func() {
			m.logger.Info("picker: cancelled")
			m.state.Close()
			if m.opts.OnClose != nil {
				m.opts.OnClose()
			}
		},
		OnWarning: func(text string) {
			m.setStatus(text, views.StatusWarning)
		},
	}
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.helpOps = NewHelpOps(p)
}

// Init starts the region lookup and the spinner
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.coord.Init(), m.spinner.Tick)
}

// Open resets the picker with a new initial selection and capacity
func (m *Model) Open(initial []domain.Code, size int) tea.Cmd {
	if size < 1 {
		size = 1
	}
	m.opts.Size = size
	m.opts.DefaultValue = initial
	m.state.Reset()
	m.inputHandler.Reset()

	cmd := m.coord.Reopen(size, initial)
	m.viewModel.SetBasket(m.coord.Basket)
	m.keys = inputtypes.DefaultKeyMap().ForMode(size > 1, m.searchable())
	m.inputHandler = input.New(m.keys)
	m.viewModel.SetKeys(m.keys)
	return cmd
}

// Confirm commits the basket. Single-select has no confirm step and
// reports false.
func (m *Model) Confirm() bool {
	if m.state.Done {
		return false
	}
	if m.coord.Basket.Busy() {
		m.logger.Debug("picker: confirming while a combine is pending", "codes", m.coord.Basket.Codes())
	}
	return m.coord.Basket.Commit()
}

// Cancel closes the picker without committing
func (m *Model) Cancel() {
	if m.state.Done {
		return
	}
	m.coord.Search.Cancel()
	m.coord.Basket.Cancel()
}

// Done reports whether the picker was committed or cancelled
func (m *Model) Done() bool { return m.state.Done }

// Committed reports whether the picker ended with a commit
func (m *Model) Committed() bool { return m.state.Committed }

// Result returns the committed selection
func (m *Model) Result() []domain.Code {
	return append([]domain.Code(nil), m.state.Result...)
}

// Selection returns the current basket
func (m *Model) Selection() []domain.Code { return m.coord.Basket.Codes() }

// Append adds code the way picking it in the list would. Feed the returned
// command to the program.
func (m *Model) Append(code domain.Code) tea.Cmd {
	if m.state.Done {
		return nil
	}
	_, cmd := m.coord.Append(code)
	return m.finish(cmd)
}

func (m *Model) searchable() bool { return m.opts.Layout == LayoutFullscreen }

func (m *Model) multi() bool { return m.coord.Basket.Mode() == basket.ModeMultiple }

func (m *Model) setStatus(text string, kind views.StatusKind) {
	seq := m.state.SetStatus(text, kind)
	m.pending = append(m.pending, tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	}))
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewModel.SetDimensions(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if m.state.Done {
			return m, nil
		}
		if m.state.ShowHelp {
			switch msg.String() {
			case "?", "esc", "q":
				m.state.ShowHelp = false
			case "ctrl+c":
				return m, m.finish(m.processAction(inputtypes.QuitAction{Force: true}))
			}
			return m, nil
		}

		actions, cmd := m.inputHandler.HandleKey(msg, m.inputContext())
		cmds := []tea.Cmd{cmd}
		for _, action := range actions {
			cmds = append(cmds, m.processAction(action))
		}
		return m, m.finish(cmds...)

	case spinner.TickMsg:
		// Don't keep ticking while an external pager owns the terminal
		if m.state.InPagerMode {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case clearStatusMsg:
		m.state.ClearStatus(msg.seq)
		return m, nil

	case helpPagerMsg:
		if msg.err != nil {
			// Pager failed: fall back to the in-place overlay
			m.logger.Warn("help pager failed", "error", msg.err)
			m.state.ShowHelp = true
		}
		return m, nil

	case pauseRenderingMsg:
		m.state.InPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.state.InPagerMode = false
		return m, m.spinner.Tick
	}

	cmds := []tea.Cmd{m.inputHandler.Update(msg)}
	if handled, cmd := m.coord.Update(msg); handled {
		cmds = append(cmds, cmd)
	}
	return m, m.finish(cmds...)
}

// finish appends follow-up work every update shares: chip lookups for new
// basket codes, status timers and quitting once done.
func (m *Model) finish(cmds ...tea.Cmd) tea.Cmd {
	cmds = append(cmds, m.coord.SyncChips())
	cmds = append(cmds, m.pending...)
	m.pending = nil

	m.state.ClampBasketCursor(m.coord.Basket.Len())
	if m.state.Focus == inputtypes.PaneBasket && m.coord.Basket.Len() == 0 {
		m.state.Focus = inputtypes.PaneCities
	}

	if m.state.Done && m.opts.QuitOnDone && !m.state.Quitting {
		m.state.Quitting = true
		cmds = append(cmds, tea.Quit)
	}
	return tea.Batch(cmds...)
}

func (m *Model) inputContext() *input.ModelContext {
	return &input.ModelContext{
		Pane:        m.state.Focus,
		Multi:       m.multi(),
		Selected:    m.coord.Basket.Len(),
		Uncommitted: m.multi() && m.coord.Basket.Revision() > 0,
		Searchable:  m.searchable(),
		Results:     m.coord.Search.Results().Ready(),
	}
}

// processAction processes an action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	switch a := action.(type) {
	case inputtypes.NavigateAction:
		return m.navigate(a.Direction)

	case inputtypes.SwitchTabAction:
		m.state.Focus = inputtypes.PaneRegions
		return m.coord.Browse.NextTab(a.Delta)

	case inputtypes.ActivateAction:
		return m.activate()

	case inputtypes.RemoveAction:
		m.removeFocused()
		return nil

	case inputtypes.ConfirmAction:
		if !m.Confirm() {
			m.setStatus("Nothing to confirm", views.StatusInfo)
		}
		return nil

	case inputtypes.CancelAction:
		m.Cancel()
		return nil

	case inputtypes.QuitAction:
		m.Cancel()
		m.state.Quitting = true
		return tea.Quit

	case inputtypes.ChangeModeAction:
		if a.Mode == inputtypes.ModeSearch {
			m.coord.Search.Open()
		}
		return nil

	case inputtypes.UpdateTextAction:
		return m.coord.Search.Type(a.Text)

	case inputtypes.SubmitTextAction:
		return m.submitSearch(a.Text)

	case inputtypes.SearchNavigateAction:
		if a.Direction == "prev" {
			m.coord.Search.Move(-1)
		} else {
			m.coord.Search.Move(1)
		}
		return nil

	case inputtypes.CancelTextAction:
		m.coord.Search.Cancel()
		return nil

	case inputtypes.RetryAction:
		return m.coord.RetryFailed()

	case inputtypes.ToggleHelpAction:
		if m.program != nil {
			return m.fetchHelpPager(m.helpRenderer.RenderHelpContent(m.keys, m.multi()))
		}
		m.state.ShowHelp = !m.state.ShowHelp
		return nil
	}

	m.logger.Debug("unhandled action", "action", action.Type())
	return nil
}

// panes lists the focusable panes left to right
func (m *Model) panes() []inputtypes.Pane {
	p := []inputtypes.Pane{inputtypes.PaneRegions, inputtypes.PaneCities}
	if m.opts.ShowSelected && m.multi() && m.coord.Basket.Len() > 0 {
		p = append(p, inputtypes.PaneBasket)
	}
	return p
}

func (m *Model) navigate(direction string) tea.Cmd {
	switch direction {
	case "left", "right":
		panes := m.panes()
		i := 0
		for j, p := range panes {
			if p == m.state.Focus {
				i = j
			}
		}
		if direction == "left" && i > 0 {
			i--
		} else if direction == "right" && i < len(panes)-1 {
			i++
		}
		m.state.Focus = panes[i]
		return nil
	}

	delta := 1
	if direction == "up" {
		delta = -1
	}
	switch m.state.Focus {
	case inputtypes.PaneRegions:
		return m.coord.Browse.MoveRegion(delta)
	case inputtypes.PaneCities:
		m.coord.Browse.MoveCity(delta)
	case inputtypes.PaneBasket:
		m.state.BasketCursor += delta
		m.state.ClampBasketCursor(m.coord.Basket.Len())
	}
	return nil
}

func (m *Model) activate() tea.Cmd {
	switch m.state.Focus {
	case inputtypes.PaneRegions:
		m.state.Focus = inputtypes.PaneCities
		return nil

	case inputtypes.PaneBasket:
		m.removeFocused()
		return nil
	}

	city, ok := m.coord.Browse.CurrentCity()
	if !ok {
		return nil
	}
	// Activating a selected city unticks it, as the checkbox would
	if m.multi() && m.coord.Basket.Contains(city.Code) {
		m.coord.Basket.Remove(city.Code)
		return nil
	}
	_, cmd := m.coord.Basket.Append(city.Code)
	return cmd
}

func (m *Model) removeFocused() {
	switch m.state.Focus {
	case inputtypes.PaneBasket:
		codes := m.coord.Basket.Codes()
		if m.state.BasketCursor < len(codes) {
			m.coord.Basket.Remove(codes[m.state.BasketCursor])
		}
	case inputtypes.PaneCities:
		if city, ok := m.coord.Browse.CurrentCity(); ok {
			m.coord.Basket.Remove(city.Code)
		}
	}
}

// submitSearch picks the highlighted result when the results on screen
// belong to the typed text, otherwise searches immediately.
func (m *Model) submitSearch(text string) tea.Cmd {
	s := m.coord.Search
	if !s.Pending() && s.Results().Ready() && s.Results().Options() == trimmed(text) {
		if cmd, ok := s.Choose(); ok {
			m.inputHandler.ChangeMode(inputtypes.ModeBrowse, "")
			return cmd
		}
	}
	return s.Submit()
}

// fetchHelpPager returns a command that shows help using ov pager
func (m *Model) fetchHelpPager(helpContent string) tea.Cmd {
	return func() tea.Msg {
		// Send pause message to stop rendering
		m.program.Send(pauseRenderingMsg{})

		err := m.helpOps.ShowHelpInPager(helpContent)

		// Send resume message to restart rendering
		m.program.Send(resumeRenderingMsg{})

		return helpPagerMsg{err: err}
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.state.Done || m.state.InPagerMode {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	m.viewModel.SetFocus(m.state.Focus, m.state.BasketCursor)
	m.viewModel.SetStatus(m.state.StatusMessage, m.state.StatusKind)
	m.viewModel.SetSpinner(m.spinner.View())
	m.viewModel.SetInputMode(m.inputHandler.CurrentMode(), m.inputHandler.Prompt())
	if ti := m.inputHandler.TextInput(); ti != nil {
		m.viewModel.UpdateTextInput(*ti)
	}
	if m.state.ShowHelp {
		m.viewModel.SetHelp(true, m.helpRenderer.RenderHelpContent(m.keys, m.multi()))
	} else {
		m.viewModel.SetHelp(false, "")
	}

	return m.renderer.Render(m.viewModel.BuildViewState())
}

package types

import "github.com/charmbracelet/bubbles/key"

// KeyMap is the set of browse-mode bindings. Modes match against it and the
// footer renders it through bubbles/help.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	Activate key.Binding
	Remove   key.Binding
	Search   key.Binding
	Confirm  key.Binding
	Retry    key.Binding
	Help     key.Binding
	Cancel   key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the default bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev pane")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next pane")),
		NextTab:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		Activate: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter/space", "select")),
		Remove:   key.NewBinding(key.WithKeys("x", "delete", "backspace"), key.WithHelp("x", "remove")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Confirm:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "confirm")),
		Retry:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Cancel:   key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc/q", "cancel")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.Activate, k.Search, k.Confirm, k.Help, k.Cancel}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.NextTab, k.PrevTab},
		{k.Activate, k.Remove, k.Confirm},
		{k.Search, k.Retry, k.Help, k.Cancel, k.Quit},
	}
}

// ForMode adjusts enabled bindings to the picker's configuration so the
// footer only advertises keys that do something.
func (k KeyMap) ForMode(multi, searchable bool) KeyMap {
	k.Confirm.SetEnabled(multi)
	k.Remove.SetEnabled(multi)
	k.Search.SetEnabled(searchable)
	return k
}

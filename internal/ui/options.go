package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"citypick/internal/debounce"
	"citypick/internal/domain"
)

// Layout selects the picker's chrome
type Layout string

const (
	// LayoutPopup is the tabbed popup without a search bar
	LayoutPopup Layout = "popup"
	// LayoutFullscreen fills the terminal and adds the search surface
	LayoutFullscreen Layout = "fullscreen"
)

// ParseLayout parses a layout name
func ParseLayout(s string) (Layout, error) {
	switch Layout(strings.ToLower(strings.TrimSpace(s))) {
	case LayoutPopup, "":
		return LayoutPopup, nil
	case LayoutFullscreen:
		return LayoutFullscreen, nil
	default:
		return "", fmt.Errorf("unknown layout %q (want popup or fullscreen)", s)
	}
}

// DefaultTitle is the heading used when none is configured
const DefaultTitle = "Select a city"

// Options configure the picker
type Options struct {
	Title        string
	Size         int           // maximum selectable count; 1 is single-select
	DefaultValue []domain.Code // initial basket
	OnChange     func([]domain.Code)
	OnClose      func()

	Layout       Layout
	ShowSelected bool // render the basket bar
	QuitOnDone   bool // end the program on commit or cancel

	Tabs           []domain.Tab
	DebounceWindow time.Duration
	Clock          clockwork.Clock
	Logger         *slog.Logger
	Context        context.Context
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.Size < 1 {
		o.Size = 1
	}
	if o.Layout == "" {
		o.Layout = LayoutPopup
	}
	if len(o.Tabs) == 0 {
		o.Tabs = domain.DefaultTabs()
	}
	if o.DebounceWindow <= 0 {
		o.DebounceWindow = debounce.DefaultWindow
	}
	if o.Clock == nil {
		o.Clock = clockwork.NewRealClock()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Context == nil {
		o.Context = context.Background()
	}
	return o
}

func trimmed(s string) string { return strings.TrimSpace(s) }

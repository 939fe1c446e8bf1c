package coordinator

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"

	"citypick/internal/domain"
	"citypick/internal/eventbus"
	"citypick/internal/geo"
	"citypick/internal/ui/services/basket"
	"citypick/internal/ui/services/binding"
	"citypick/internal/ui/services/browse"
	"citypick/internal/ui/services/search"
)

// Config carries everything the picker services need
type Config struct {
	Context        context.Context
	API            geo.API
	Bus            eventbus.EventBus
	Logger         *slog.Logger
	Tabs           []domain.Tab
	Size           int
	Initial        []domain.Code
	Callbacks      basket.Callbacks
	Clock          clockwork.Clock
	DebounceWindow time.Duration
}

// Coordinator manages the picker services and routes their messages
type Coordinator struct {
	// Services
	Basket *basket.Service
	Browse *browse.Service
	Search *search.Service

	// Display-name lookups for basket chips, one per selected code
	chips map[domain.Code]*binding.Binding[domain.Code, domain.CityDetail]

	cfg      Config
	observer binding.Observer
}

// NewCoordinator creates a new coordinator with all services
func NewCoordinator(cfg Config) *Coordinator {
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	if cfg.Bus == nil {
		cfg.Bus = eventbus.NullBus{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	c := &Coordinator{
		chips:    make(map[domain.Code]*binding.Binding[domain.Code, domain.CityDetail]),
		cfg:      cfg,
		observer: busObserver{bus: cfg.Bus},
	}
	c.Basket = c.newBasket(cfg.Size, cfg.Initial)
	c.Browse = browse.NewService(cfg.Context, cfg.API, cfg.Tabs, cfg.Bus, cfg.Logger, c.observer)
	c.Search = search.NewService(search.Config{
		Context:  cfg.Context,
		API:      cfg.API,
		Basket:   c,
		Clock:    cfg.Clock,
		Window:   cfg.DebounceWindow,
		Bus:      cfg.Bus,
		Logger:   cfg.Logger,
		Observer: c.observer,
	})
	return c
}

func (c *Coordinator) newBasket(size int, initial []domain.Code) *basket.Service {
	return basket.NewService(basket.Config{
		Size:    size,
		Initial: initial,
		Combine: func(ctx context.Context, code domain.Code, codes []domain.Code) ([]domain.Code, error) {
			return c.cfg.API.Combine(ctx, code, codes)
		},
		Callbacks: c.cfg.Callbacks,
		Context:   c.cfg.Context,
		Logger:    c.cfg.Logger,
	}, c.cfg.Bus)
}

// Reopen replaces the basket with a fresh one and closes the search surface.
// Browse position is kept.
func (c *Coordinator) Reopen(size int, initial []domain.Code) tea.Cmd {
	c.Basket = c.newBasket(size, initial)
	c.Search.Cancel()
	return c.SyncChips()
}

// Append feeds the current basket; search results are chosen through it
func (c *Coordinator) Append(code domain.Code) (basket.Outcome, tea.Cmd) {
	return c.Basket.Append(code)
}

// Init starts the first lookups
func (c *Coordinator) Init() tea.Cmd {
	return tea.Batch(c.Browse.Init(), c.SyncChips())
}

// Update routes msg to whichever service issued it
func (c *Coordinator) Update(msg tea.Msg) (bool, tea.Cmd) {
	if handled, cmd := c.Basket.Update(msg); handled {
		return true, cmd
	}
	if handled, cmd := c.Browse.Update(msg); handled {
		return true, cmd
	}
	if handled, cmd := c.Search.Update(msg); handled {
		return true, cmd
	}
	for _, chip := range c.chips {
		if chip.Update(msg) {
			return true, nil
		}
	}
	return false, nil
}

// SyncChips creates lookups for newly selected codes and drops lookups for
// codes that left the basket.
func (c *Coordinator) SyncChips() tea.Cmd {
	current := make(map[domain.Code]bool, c.Basket.Len())
	var cmds []tea.Cmd
	for _, code := range c.Basket.Codes() {
		current[code] = true
		if _, ok := c.chips[code]; ok {
			continue
		}
		chip := binding.New[domain.Code, domain.CityDetail]("chip",
			binding.WithContext(c.cfg.Context),
			binding.WithLogger(c.cfg.Logger),
			binding.WithObserver(c.observer))
		c.chips[code] = chip
		cmds = append(cmds, chip.Bind("city", c.cfg.API.City, code))
	}
	for code := range c.chips {
		if !current[code] {
			delete(c.chips, code)
		}
	}
	return tea.Batch(cmds...)
}

// ChipLabel is the display name of a selected code: "Parent·City" once
// resolved, the bare code until then.
func (c *Coordinator) ChipLabel(code domain.Code) string {
	chip, ok := c.chips[code]
	if !ok {
		return code.String()
	}
	detail, ok := chip.Data()
	if !ok {
		if chip.Status() == binding.StatusFailed {
			return code.String() + " (?)"
		}
		return code.String()
	}
	return detail.DisplayName()
}

// RetryFailed re-issues every failed lookup
func (c *Coordinator) RetryFailed() tea.Cmd {
	cmds := []tea.Cmd{c.Browse.Retry()}
	if c.Search.Results().Status() == binding.StatusFailed {
		cmds = append(cmds, c.Search.Results().Retry())
	}
	for _, chip := range c.chips {
		if chip.Status() == binding.StatusFailed {
			cmds = append(cmds, chip.Retry())
		}
	}
	return tea.Batch(cmds...)
}

// busObserver publishes binding outcomes on the event bus
type busObserver struct {
	bus eventbus.EventBus
}

func (o busObserver) Discarded(name string, generation uint64) {
	o.bus.Publish(eventbus.ResultDiscardedEvent{Binding: name, Generation: generation})
}

func (o busObserver) Failed(name string, err error) {
	o.bus.Publish(eventbus.LookupFailedEvent{Binding: name, Err: err})
}

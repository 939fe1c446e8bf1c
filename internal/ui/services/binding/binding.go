// Package binding turns an arbitrary remote lookup into a pending / ready /
// failed view state. Each Binding tracks a monotonically increasing
// generation; only the result of the latest generation is ever applied.
package binding

import (
	"context"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// Binding is owned by a single call site. It is not safe for concurrent
// use: call it from the Bubble Tea update loop only.
type Binding[O comparable, T any] struct {
	id     string
	name   string
	ctx    context.Context
	logger *slog.Logger
	obs    Observer

	bound      bool
	key        string
	opts       O
	loader     Loader[O, T]
	generation uint64
	state      State[T]
	onLoad     func(T)
}

// Option configures a Binding
type Option func(*options)

type options struct {
	ctx    context.Context
	logger *slog.Logger
	obs    Observer
}

// WithContext sets the context handed to loaders
func WithContext(ctx context.Context) Option {
	return func(o *options) { o.ctx = ctx }
}

// WithLogger sets the logger used for failures and discards
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithObserver registers an observer for discards and failures
func WithObserver(obs Observer) Option {
	return func(o *options) { o.obs = obs }
}

// New creates an unbound binding in the pending state
func New[O comparable, T any](name string, opts ...Option) *Binding[O, T] {
	o := options{ctx: context.Background(), logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Binding[O, T]{
		id:     uuid.NewString(),
		name:   name,
		ctx:    o.ctx,
		logger: o.logger,
		obs:    o.obs,
	}
}

// ID returns the routing id carried by this binding's messages
func (b *Binding[O, T]) ID() string { return b.id }

// Name returns the diagnostic name
func (b *Binding[O, T]) Name() string { return b.name }

// Bind makes (key, opts) the current lookup. It is a no-op returning nil
// when that pair is already current.
func (b *Binding[O, T]) Bind(key string, loader Loader[O, T], opts O) tea.Cmd {
	if b.bound && b.key == key && b.opts == opts {
		return nil
	}
	return b.Refresh(key, loader, opts)
}

// Refresh supersedes whatever is in flight with a new lookup, even when the
// key and options are unchanged.
func (b *Binding[O, T]) Refresh(key string, loader Loader[O, T], opts O) tea.Cmd {
	b.bound = true
	b.key = key
	b.opts = opts
	b.loader = loader
	return b.issue()
}

// Retry re-issues the current lookup under a new generation
func (b *Binding[O, T]) Retry() tea.Cmd {
	if !b.bound || b.loader == nil {
		return nil
	}
	return b.issue()
}

// Reset abandons the current lookup: the binding returns to pending and
// unbound, and any in-flight result becomes stale.
func (b *Binding[O, T]) Reset() {
	b.generation++
	b.bound = false
	b.key = ""
	var zero O
	b.opts = zero
	b.loader = nil
	b.state = State[T]{Status: StatusPending}
}

func (b *Binding[O, T]) issue() tea.Cmd {
	b.generation++
	b.state = State[T]{Status: StatusPending}

	var (
		id     = b.id
		gen    = b.generation
		ctx    = b.ctx
		loader = b.loader
		opts   = b.opts
	)
	return func() tea.Msg {
		data, err := loader(ctx, opts)
		return ResultMsg[T]{BindingID: id, Generation: gen, Data: data, Err: err}
	}
}

// SetOnLoad replaces the success callback. The callback in place when a
// lookup completes is the one invoked, regardless of when it was issued.
func (b *Binding[O, T]) SetOnLoad(fn func(T)) {
	b.onLoad = fn
}

// Update applies msg when it is this binding's result. It reports whether
// the message belonged to this binding, stale or not.
func (b *Binding[O, T]) Update(msg tea.Msg) bool {
	res, ok := msg.(ResultMsg[T])
	if !ok || res.BindingID != b.id {
		return false
	}

	if res.Generation != b.generation {
		b.logger.Debug("binding: discarding stale result",
			"binding", b.name, "generation", res.Generation, "current", b.generation)
		if b.obs != nil {
			b.obs.Discarded(b.name, res.Generation)
		}
		return true
	}

	if res.Err != nil {
		b.logger.Error("binding: lookup failed", "binding", b.name, "key", b.key, "error", res.Err)
		b.state = State[T]{Status: StatusFailed, Err: res.Err}
		if b.obs != nil {
			b.obs.Failed(b.name, res.Err)
		}
		return true
	}

	b.state = State[T]{Status: StatusReady, Data: res.Data}
	if b.onLoad != nil {
		b.onLoad(res.Data)
	}
	return true
}

// State returns the current view state
func (b *Binding[O, T]) State() State[T] { return b.state }

// Status returns the current status
func (b *Binding[O, T]) Status() Status { return b.state.Status }

// Ready reports whether data is available
func (b *Binding[O, T]) Ready() bool { return b.state.Status == StatusReady }

// Data returns the loaded data and whether it is ready
func (b *Binding[O, T]) Data() (T, bool) {
	return b.state.Data, b.state.Status == StatusReady
}

// Err returns the failure, if any
func (b *Binding[O, T]) Err() error { return b.state.Err }

// Message is the displayable failure text; empty unless failed
func (b *Binding[O, T]) Message() string {
	if b.state.Status != StatusFailed || b.state.Err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to load data: %v", b.state.Err)
}

// Generation returns the current generation counter
func (b *Binding[O, T]) Generation() uint64 { return b.generation }

// Bound reports whether a lookup has been bound since the last Reset
func (b *Binding[O, T]) Bound() bool { return b.bound }

// Key returns the current loader key
func (b *Binding[O, T]) Key() string { return b.key }

// Options returns the current options value
func (b *Binding[O, T]) Options() O { return b.opts }

// Package basket owns the ordered, duplicate-free, capacity-bounded list of
// selected codes. Every input path (browse, search, removal) mutates it
// through this service.
package basket

import (
	"context"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"citypick/internal/domain"
	"citypick/internal/eventbus"
)

type request struct {
	seq      uint64
	code     domain.Code
	revision uint64
}

// Config configures a Service
type Config struct {
	Size      int
	Initial   []domain.Code
	Combine   Combiner
	Callbacks Callbacks
	Context   context.Context
	Logger    *slog.Logger
}

// Service handles basket mutations. Not safe for concurrent use.
type Service struct {
	id        string
	state     *State
	combine   Combiner
	callbacks Callbacks
	ctx       context.Context
	bus       eventbus.EventBus
	logger    *slog.Logger

	seq      uint64
	inFlight *request
	queue    []domain.Code
}

// NewService creates a basket. Sizes below 1 are treated as 1. The initial
// selection is deduplicated and truncated to the capacity.
func NewService(cfg Config, bus eventbus.EventBus) *Service {
	if cfg.Size < 1 {
		cfg.Size = 1
	}
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if bus == nil {
		bus = eventbus.NullBus{}
	}

	initial := dedupe(cfg.Initial)
	if len(initial) > cfg.Size {
		cfg.Logger.Warn("basket: initial selection exceeds capacity, truncating",
			"size", cfg.Size, "initial", len(initial))
		initial = initial[:cfg.Size]
	}

	return &Service{
		id:        uuid.NewString(),
		state:     &State{Codes: initial, Size: cfg.Size},
		combine:   cfg.Combine,
		callbacks: cfg.Callbacks,
		ctx:       cfg.Context,
		bus:       bus,
		logger:    cfg.Logger,
	}
}

// Append adds code following the mode's commit semantics
func (s *Service) Append(code domain.Code) (Outcome, tea.Cmd) {
	if s.Mode() == ModeSingle {
		s.apply([]domain.Code{code}, "replace")
		s.commit()
		return OutcomeReplaced, nil
	}

	if s.inFlight != nil {
		s.queue = append(s.queue, code)
		return OutcomePending, nil
	}
	return s.process(code)
}

// process checks capacity and issues the combine for code
func (s *Service) process(code domain.Code) (Outcome, tea.Cmd) {
	if len(s.state.Codes) >= s.state.Size {
		s.rejectCapacity(code)
		return OutcomeRejected, nil
	}
	if s.combine == nil {
		merged := dedupe(append(s.Codes(), code))
		if len(merged) == len(s.state.Codes) {
			return OutcomeUnchanged, nil
		}
		s.apply(merged, "append")
		return OutcomeAdded, nil
	}

	s.seq++
	req := &request{seq: s.seq, code: code, revision: s.state.Revision}
	s.inFlight = req

	var (
		id      = s.id
		ctx     = s.ctx
		combine = s.combine
		current = s.Codes()
	)
	return OutcomePending, func() tea.Msg {
		codes, err := combine(ctx, req.code, current)
		return CombinedMsg{
			BasketID: id,
			Seq:      req.seq,
			Revision: req.revision,
			Code:     req.code,
			Codes:    codes,
			Err:      err,
		}
	}
}

// Update applies a combine result. It reports whether msg belonged to this basket.
func (s *Service) Update(msg tea.Msg) (bool, tea.Cmd) {
	res, ok := msg.(CombinedMsg)
	if !ok || res.BasketID != s.id {
		return false, nil
	}
	if s.inFlight == nil || res.Seq != s.inFlight.seq {
		s.logger.Debug("basket: dropping combine result for abandoned request", "code", res.Code)
		return true, nil
	}
	s.inFlight = nil

	switch {
	case res.Err != nil:
		s.logger.Error("basket: combine failed", "code", res.Code, "error", res.Err)
		s.bus.Publish(eventbus.LookupFailedEvent{Binding: "combine", Err: res.Err})
		s.warn(fmt.Sprintf("Could not add %s: %v", res.Code, res.Err))

	case res.Revision != s.state.Revision:
		// The basket changed underneath the collaborator; ask again
		s.logger.Debug("basket: combine computed against stale basket, reissuing", "code", res.Code)
		if _, cmd := s.process(res.Code); cmd != nil {
			return true, cmd
		}

	default:
		codes := dedupe(res.Codes)
		if len(codes) != len(res.Codes) {
			s.logger.Warn("basket: combine returned duplicates", "code", res.Code, "codes", res.Codes)
		}
		if len(codes) > s.state.Size {
			s.rejectCapacity(res.Code)
		} else {
			s.apply(codes, "combine")
		}
	}

	return true, s.drain()
}

// drain processes queued appends until one issues a combine
func (s *Service) drain() tea.Cmd {
	for s.inFlight == nil && len(s.queue) > 0 {
		code := s.queue[0]
		s.queue = s.queue[1:]
		if _, cmd := s.process(code); cmd != nil {
			return cmd
		}
	}
	return nil
}

// Remove deletes code if present. It never commits.
func (s *Service) Remove(code domain.Code) bool {
	idx := s.indexOf(code)
	if idx < 0 {
		return false
	}
	codes := s.Codes()
	codes = append(codes[:idx], codes[idx+1:]...)
	s.apply(codes, "remove")
	return true
}

// Replace sets the whole basket, enforcing the invariants
func (s *Service) Replace(codes []domain.Code) error {
	codes = dedupe(codes)
	if len(codes) > s.state.Size {
		return fmt.Errorf("%w: %d > %d", ErrCapacityExceeded, len(codes), s.state.Size)
	}
	s.apply(codes, "replace")
	return nil
}

// Commit hands the current basket to the host and abandons pending
// combines. Only meaningful in multi-select mode; single-select commits on
// every append.
func (s *Service) Commit() bool {
	if s.Mode() == ModeSingle {
		return false
	}
	s.inFlight = nil
	s.queue = nil
	s.commit()
	return true
}

// Cancel closes without committing and abandons pending combines
func (s *Service) Cancel() {
	s.inFlight = nil
	s.queue = nil
	s.bus.Publish(eventbus.CancelledEvent{})
	if s.callbacks.OnClose != nil {
		s.callbacks.OnClose()
	}
}

func (s *Service) commit() {
	codes := s.Codes()
	s.bus.Publish(eventbus.CommittedEvent{Codes: codes})
	if s.callbacks.OnChange != nil {
		s.callbacks.OnChange(codes)
	}
}

func (s *Service) apply(codes []domain.Code, cause string) {
	if err := validate(codes, s.state.Size); err != nil {
		// Callers normalize first; reaching this is a programming error
		s.logger.Error("basket: invariant violated, mutation dropped", "cause", cause, "error", err)
		return
	}
	s.state.Codes = codes
	s.state.Revision++
	s.bus.Publish(eventbus.BasketChangedEvent{Codes: s.Codes(), Cause: cause})
}

func (s *Service) rejectCapacity(code domain.Code) {
	s.bus.Publish(eventbus.CapacityExceededEvent{Code: code, Size: s.state.Size})
	s.warn(fmt.Sprintf("max %d reachable", s.state.Size))
}

func (s *Service) warn(text string) {
	if s.callbacks.OnWarning != nil {
		s.callbacks.OnWarning(text)
	}
}

func (s *Service) indexOf(code domain.Code) int {
	for i, c := range s.state.Codes {
		if c == code {
			return i
		}
	}
	return -1
}

// Codes returns a copy of the basket in order
func (s *Service) Codes() []domain.Code {
	return append([]domain.Code(nil), s.state.Codes...)
}

// Contains reports whether code is selected
func (s *Service) Contains(code domain.Code) bool { return s.indexOf(code) >= 0 }

// Len returns the number of selected codes
func (s *Service) Len() int { return len(s.state.Codes) }

// Size returns the capacity
func (s *Service) Size() int { return s.state.Size }

// Mode returns single or multiple
func (s *Service) Mode() Mode { return ModeFor(s.state.Size) }

// Full reports whether another append would be rejected
func (s *Service) Full() bool { return len(s.state.Codes) >= s.state.Size }

// Busy reports whether a combine is in flight or queued
func (s *Service) Busy() bool { return s.inFlight != nil || len(s.queue) > 0 }

// Revision returns the mutation counter
func (s *Service) Revision() uint64 { return s.state.Revision }

func dedupe(codes []domain.Code) []domain.Code {
	seen := make(map[domain.Code]bool, len(codes))
	out := make([]domain.Code, 0, len(codes))
	for _, c := range codes {
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

func validate(codes []domain.Code, size int) error {
	if len(codes) > size {
		return fmt.Errorf("%w: %d > %d", ErrCapacityExceeded, len(codes), size)
	}
	seen := make(map[domain.Code]bool, len(codes))
	for _, c := range codes {
		if seen[c] {
			return fmt.Errorf("basket: duplicate code %s", c)
		}
		seen[c] = true
	}
	return nil
}

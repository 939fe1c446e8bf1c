package basket

import (
	"context"
	"errors"

	"citypick/internal/domain"
)

// ErrCapacityExceeded is returned when a mutation would exceed the basket size
var ErrCapacityExceeded = errors.New("basket: capacity exceeded")

// Mode is derived from capacity: size 1 is single-select
type Mode int

const (
	ModeSingle Mode = iota
	ModeMultiple
)

func (m Mode) String() string {
	if m == ModeSingle {
		return "single"
	}
	return "multiple"
}

// ModeFor returns the mode implied by a capacity
func ModeFor(size int) Mode {
	if size <= 1 {
		return ModeSingle
	}
	return ModeMultiple
}

// Outcome describes what an Append did
type Outcome int

const (
	// OutcomeUnchanged: no combiner configured and the code was already selected
	OutcomeUnchanged Outcome = iota
	// OutcomeReplaced: single-select replaced the basket and committed it
	OutcomeReplaced
	// OutcomeRejected: the basket was full
	OutcomeRejected
	// OutcomePending: a combine was issued or queued behind one
	OutcomePending
	// OutcomeAdded: appended directly, no combiner configured
	OutcomeAdded
)

// Combiner is the authoritative merge collaborator
type Combiner func(ctx context.Context, code domain.Code, basket []domain.Code) ([]domain.Code, error)

// Callbacks are the host-facing hooks
type Callbacks struct {
	OnChange  func([]domain.Code) // commit
	OnClose   func()              // cancel
	OnWarning func(string)        // user-visible, non-fatal
}

// State holds basket state
type State struct {
	Codes    []domain.Code
	Size     int
	Revision uint64 // bumped on every applied mutation
}

// CombinedMsg carries a combine result back to the basket
type CombinedMsg struct {
	BasketID string
	Seq      uint64
	Revision uint64
	Code     domain.Code
	Codes    []domain.Code
	Err      error
}

package binding

import "context"

// Status is the tri-state of a binding
type Status int

const (
	StatusPending Status = iota
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Loader performs one remote lookup
type Loader[O comparable, T any] func(ctx context.Context, opts O) (T, error)

// State is the view model a binding exposes. Data is meaningful only when
// Status is StatusReady, Err only when it is StatusFailed.
type State[T any] struct {
	Status Status
	Data   T
	Err    error
}

// ResultMsg carries a completed lookup back to the binding that issued it
type ResultMsg[T any] struct {
	BindingID  string
	Generation uint64
	Data       T
	Err        error
}

// Observer is notified of outcomes the binding otherwise swallows
type Observer interface {
	Discarded(name string, generation uint64)
	Failed(name string, err error)
}

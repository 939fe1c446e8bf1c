package state

import (
	"citypick/internal/domain"
	"citypick/internal/ui/input/types"
	"citypick/internal/ui/views"
)

// PickerState contains the controller's own UI state. Basket, browse and
// search state live in their services.
type PickerState struct {
	// Focus
	Focus        types.Pane
	BasketCursor int

	// Status line
	StatusMessage string
	StatusKind    views.StatusKind
	StatusSeq     int // bumped per message so stale clears are ignored

	// Overlays
	ShowHelp    bool
	InPagerMode bool

	// Terminal outcome
	Done      bool
	Committed bool
	Result    []domain.Code
	Quitting  bool
}

// NewPickerState creates a new picker state focused on the region list
func NewPickerState() *PickerState {
	return &PickerState{Focus: types.PaneRegions}
}

// Reset returns to the state of a freshly opened picker
func (s *PickerState) Reset() {
	*s = PickerState{Focus: types.PaneRegions}
}

// SetStatus replaces the status line and returns its sequence number
func (s *PickerState) SetStatus(message string, kind views.StatusKind) int {
	s.StatusSeq++
	s.StatusMessage = message
	s.StatusKind = kind
	return s.StatusSeq
}

// ClearStatus clears the status line if seq is still the latest message
func (s *PickerState) ClearStatus(seq int) bool {
	if seq != s.StatusSeq {
		return false
	}
	s.StatusMessage = ""
	return true
}

// Commit records a committed selection and closes the picker
func (s *PickerState) Commit(codes []domain.Code) {
	s.Done = true
	s.Committed = true
	s.Result = append([]domain.Code(nil), codes...)
}

// Close records a cancellation
func (s *PickerState) Close() {
	s.Done = true
	s.Committed = false
	s.Result = nil
}

// ClampBasketCursor keeps the basket cursor within n chips
func (s *PickerState) ClampBasketCursor(n int) {
	if s.BasketCursor >= n {
		s.BasketCursor = n - 1
	}
	if s.BasketCursor < 0 {
		s.BasketCursor = 0
	}
}

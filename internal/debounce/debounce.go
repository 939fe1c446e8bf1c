// Package debounce implements a trailing-edge debounce for Bubble Tea
// programs. A Debouncer owns a single pending timer slot; arming it again
// stops the previous timer, so only the last trigger inside a quiet window
// produces a FiredMsg that Fire accepts.
package debounce

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// DefaultWindow is the quiet interval used when none is configured
const DefaultWindow = 500 * time.Millisecond

// FiredMsg is delivered when a pending timer expires
type FiredMsg struct {
	ID  string
	Seq uint64
}

type slot struct {
	timer clockwork.Timer
	done  chan struct{}
	seq   uint64
}

// Debouncer is not safe for concurrent use; call it from Update only.
type Debouncer struct {
	id       string
	clock    clockwork.Clock
	window   time.Duration
	seq      uint64
	pending  *slot
	deadline time.Time
}

// New creates a debouncer. A nil clock means the real clock; a non-positive
// window means DefaultWindow.
func New(clock clockwork.Clock, window time.Duration) *Debouncer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Debouncer{
		id:     uuid.NewString(),
		clock:  clock,
		window: window,
	}
}

// Window returns the quiet interval
func (d *Debouncer) Window() time.Duration { return d.window }

// Trigger re-arms the timer to now+window and returns the command waiting on it
func (d *Debouncer) Trigger() tea.Cmd {
	d.stop()
	d.seq++
	s := &slot{
		timer: d.clock.NewTimer(d.window),
		done:  make(chan struct{}),
		seq:   d.seq,
	}
	d.pending = s
	d.deadline = d.clock.Now().Add(d.window)

	id := d.id
	return func() tea.Msg {
		select {
		case <-s.timer.Chan():
			return FiredMsg{ID: id, Seq: s.seq}
		case <-s.done:
			return nil
		}
	}
}

// Fire reports whether msg belongs to this debouncer's current slot, and
// clears the slot when it does.
func (d *Debouncer) Fire(msg FiredMsg) bool {
	if msg.ID != d.id || d.pending == nil || msg.Seq != d.pending.seq {
		return false
	}
	d.pending = nil
	d.deadline = time.Time{}
	return true
}

// Owns reports whether msg was produced by this debouncer, current or not
func (d *Debouncer) Owns(msg FiredMsg) bool { return msg.ID == d.id }

// Cancel drops the pending timer without firing
func (d *Debouncer) Cancel() {
	d.stop()
	d.deadline = time.Time{}
}

// Pending reports whether a timer is armed
func (d *Debouncer) Pending() bool { return d.pending != nil }

// Deadline is when the armed timer fires; zero when nothing is pending
func (d *Debouncer) Deadline() time.Time { return d.deadline }

func (d *Debouncer) stop() {
	if d.pending == nil {
		return
	}
	d.pending.timer.Stop()
	close(d.pending.done)
	d.pending = nil
}

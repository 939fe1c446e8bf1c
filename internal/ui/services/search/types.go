package search

import "time"

// State holds search state
type State struct {
	Open     bool
	Query    string
	Cursor   int       // Index of highlighted result
	Deadline time.Time // When the debounced search fires; zero if none pending
}

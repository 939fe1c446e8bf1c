package browse

import (
	"citypick/internal/domain"
)

// Pane identifies which browse column has focus
type Pane int

const (
	PaneRegions Pane = iota
	PaneCities
)

// CityKey identifies a city-list lookup. The tab is part of the key so a
// region code shared by two tabs never reuses the other tab's list.
type CityKey struct {
	Tab    string
	Region domain.Code
}

// State is the browse state machine's observable state
type State struct {
	ActiveTab    string
	ActiveRegion domain.Code // zero until the tab's region list resolves
}

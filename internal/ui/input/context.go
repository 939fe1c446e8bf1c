package input

import "citypick/internal/ui/input/types"

// ModelContext implements the Context interface for the input handler. The
// model fills it in before each key press.
type ModelContext struct {
	Pane        types.Pane
	Multi       bool
	Selected    int
	Uncommitted bool
	Searchable  bool
	Results     bool
}

// Focus returns the focused pane
func (c *ModelContext) Focus() types.Pane {
	return c.Pane
}

// MultiSelect reports whether the basket holds more than one code
func (c *ModelContext) MultiSelect() bool {
	return c.Multi
}

// BasketLen returns the number of selected codes
func (c *ModelContext) BasketLen() int {
	return c.Selected
}

// HasUncommittedChanges reports whether cancelling would discard edits
func (c *ModelContext) HasUncommittedChanges() bool {
	return c.Uncommitted
}

// SearchEnabled reports whether the layout has a search surface
func (c *ModelContext) SearchEnabled() bool {
	return c.Searchable
}

// HasSearchResults reports whether there is a result to choose
func (c *ModelContext) HasSearchResults() bool {
	return c.Results
}

package domain

import "strings"

// Code is an opaque identifier for a region or a city. Codes compare by value.
type Code string

// String returns the code as text
func (c Code) String() string { return string(c) }

// IsZero reports whether the code is empty
func (c Code) IsZero() bool { return c == "" }

// ParseCodes splits a comma separated list into codes, skipping blanks
func ParseCodes(s string) []Code {
	var out []Code
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, Code(part))
	}
	return out
}

// GeoNode is the minimal shape returned by region lookups
type GeoNode struct {
	ID       Code   `json:"id" toml:"id"`
	Name     string `json:"name" toml:"name"`
	ParentID Code   `json:"parent_id,omitempty" toml:"parent_id"`
}

// City is one entry of a region's city list
type City struct {
	Code Code   `json:"code"`
	Name string `json:"name"`
}

// CityDetail resolves a code to its display name and, when it has one, its parent
type CityDetail struct {
	City   GeoNode  `json:"city"`
	Parent *GeoNode `json:"parent,omitempty"`
}

// DisplayName renders "Parent·City" when a parent is known
func (d CityDetail) DisplayName() string {
	if d.Parent != nil && d.Parent.Name != "" {
		return d.Parent.Name + "·" + d.City.Name
	}
	return d.City.Name
}

// SearchResult is one free-text search hit
type SearchResult struct {
	Label string `json:"label"`
	Value Code   `json:"value"`
}

// Tab describes one top-level browse tab. Source names the region lookup
// backing it.
type Tab struct {
	Key    string `mapstructure:"key" toml:"key"`
	Title  string `mapstructure:"title" toml:"title"`
	Source string `mapstructure:"source" toml:"source"`
}

// Region list sources understood by the collaborator layer
const (
	SourceChina   = "china"
	SourceForeign = "foreign"
)

// DefaultTabs is the domestic/foreign pair
func DefaultTabs() []Tab {
	return []Tab{
		{Key: "china", Title: "Domestic", Source: SourceChina},
		{Key: "foreign", Title: "Overseas", Source: SourceForeign},
	}
}

package sqlite

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

//go:embed dataset.toml
var defaultDataset []byte

// Dataset is the seed format: two region lists, each region carrying its cities.
type Dataset struct {
	China   []RegionRecord `toml:"china"`
	Foreign []RegionRecord `toml:"foreign"`
}

// RegionRecord is one region with its cities
type RegionRecord struct {
	ID     string       `toml:"id"`
	Name   string       `toml:"name"`
	Cities []CityRecord `toml:"cities"`
}

// CityRecord is one city inside a region
type CityRecord struct {
	Code string `toml:"code"`
	Name string `toml:"name"`
}

// DefaultDataset returns the embedded dataset
func DefaultDataset() (*Dataset, error) {
	return ParseDataset(defaultDataset)
}

// LoadDataset reads a dataset from a TOML file
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	return ParseDataset(data)
}

// ParseDataset decodes and validates a TOML dataset
func ParseDataset(data []byte) (*Dataset, error) {
	var ds Dataset
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ds); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}
	if err := ds.validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

func (ds *Dataset) validate() error {
	seen := make(map[string]bool)
	check := func(code, name string) error {
		if code == "" || name == "" {
			return fmt.Errorf("dataset: entry with empty code or name (%q, %q)", code, name)
		}
		if seen[code] {
			return fmt.Errorf("dataset: duplicate code %q", code)
		}
		seen[code] = true
		return nil
	}
	for _, list := range [][]RegionRecord{ds.China, ds.Foreign} {
		for _, r := range list {
			if err := check(r.ID, r.Name); err != nil {
				return err
			}
			for _, c := range r.Cities {
				if err := check(c.Code, c.Name); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Package profile holds the country → cultural style table used to bias
// scoring and synthesis. Tables are immutable once built.
package profile

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hyperengineering/attire/internal/types"
)

// ErrInvalidCountryCode is returned for keys that are not 2-letter codes.
var ErrInvalidCountryCode = errors.New("invalid country code")

// Table maps upper-case ISO 3166-1 alpha-2 codes to style profiles.
type Table struct {
	profiles map[string]types.StyleProfile
}

// NewTable builds a table from a code → profile map. Codes are upper-cased.
func NewTable(profiles map[string]types.StyleProfile) (*Table, error) {
	t := &Table{profiles: make(map[string]types.StyleProfile, len(profiles))}
	for code, p := range profiles {
		norm := strings.ToUpper(strings.TrimSpace(code))
		if len(norm) != 2 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCountryCode, code)
		}
		if p.Adjective == "" || p.Style == "" {
			return nil, fmt.Errorf("profile %s: style and adjective are required", norm)
		}
		t.profiles[norm] = p
	}
	return t, nil
}

// Lookup returns the profile for a country code, ignoring case.
func (t *Table) Lookup(country string) (types.StyleProfile, bool) {
	p, ok := t.profiles[strings.ToUpper(country)]
	return p, ok
}

// Len returns the number of profiles.
func (t *Table) Len() int {
	return len(t.profiles)
}

// Codes returns the country codes in sorted order.
func (t *Table) Codes() []string {
	codes := make([]string, 0, len(t.profiles))
	for code := range t.profiles {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// file is the on-disk YAML layout.
type file struct {
	Profiles map[string]types.StyleProfile `yaml:"profiles"`
}

// LoadFile reads a YAML profile table. An empty path yields the built-in table.
func LoadFile(path string) (*Table, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile file: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing profile file: %w", err)
	}
	if len(f.Profiles) == 0 {
		return nil, fmt.Errorf("profile file %s defines no profiles", path)
	}

	return NewTable(f.Profiles)
}

// Default returns the built-in table.
func Default() *Table {
	t, err := NewTable(defaultProfiles())
	if err != nil {
		panic("profile: invalid built-in table: " + err.Error())
	}
	return t
}

func defaultProfiles() map[string]types.StyleProfile {
	const embroidery = "intricate embroidery, vibrant patterns"
	fusion := types.GarmentSet{
		NamePrefix: "Fusion",
		Options: []types.Garment{
			{Type: "saree-gown", Label: "Saree"},
			{Type: "lehenga-skirt", Label: "Lehenga"},
		},
		Embellishment: embroidery,
	}
	return map[string]types.StyleProfile{
		"IN": {
			Style:     "ethnic",
			Adjective: "Indian",
			Keywords:  []string{"kurta", "saree", "sherwani", "lehenga", "traditional", "indian"},
			Garments: map[string]types.GarmentSet{
				types.GenderMale: {
					NamePrefix: "Modern",
					Options: []types.Garment{
						{Type: "kurta", Label: "Kurta"},
						{Type: "sherwani-fusion", Label: "Sherwani"},
					},
					Embellishment: embroidery,
				},
				types.GenderFemale:    fusion,
				types.DefaultGarments: fusion,
			},
		},
		"JP": {
			Style:     "minimalist",
			Adjective: "Japanese",
			Keywords:  []string{"kimono", "minimal", "oversized", "layered"},
		},
		"FR": {
			Style:     "chic",
			Adjective: "French",
			Keywords:  []string{"chic", "tailored", "elegant", "classic"},
		},
		"US": {
			Style:     "casual",
			Adjective: "American",
			Keywords:  []string{"denim", "casual", "streetwear", "sporty"},
		},
		"IT": {
			Style:     "fashion",
			Adjective: "Italian",
			Keywords:  []string{"leather", "designer", "fitted", "bold"},
		},
	}
}

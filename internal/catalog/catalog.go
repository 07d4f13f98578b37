// Package catalog holds the in-memory clothing catalog snapshot served to the engine.
//
// A Catalog is swapped atomically: readers always see one complete snapshot
// and a reload never mutates items a request is already scoring.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/hyperengineering/attire/internal/types"
	"github.com/hyperengineering/attire/internal/validation"
)

// ErrInvalidItems is returned when a dataset contains entries that fail validation.
var ErrInvalidItems = errors.New("invalid catalog items")

// ValidationFailure wraps the per-field errors of a rejected dataset.
type ValidationFailure struct {
	Errors []validation.ValidationError
}

func (e *ValidationFailure) Error() string {
	if len(e.Errors) == 0 {
		return ErrInvalidItems.Error()
	}
	return fmt.Sprintf("%s: %s", ErrInvalidItems, e.Errors[0].Error())
}

// Is allows errors.Is(err, ErrInvalidItems).
func (e *ValidationFailure) Is(target error) bool {
	return target == ErrInvalidItems
}

// Catalog is a concurrency-safe holder for the current item snapshot.
type Catalog struct {
	items atomic.Pointer[[]types.ClothingItem]
}

// New returns a catalog seeded with items. Items are validated.
func New(items []types.ClothingItem) (*Catalog, error) {
	c := &Catalog{}
	if err := c.Replace(items); err != nil {
		return nil, err
	}
	return c, nil
}

// Items returns the current snapshot. Callers must not modify it.
func (c *Catalog) Items() []types.ClothingItem {
	p := c.items.Load()
	if p == nil {
		return nil
	}
	return *p
}

// Len returns the number of items in the current snapshot.
func (c *Catalog) Len() int {
	return len(c.Items())
}

// Replace validates items and swaps them in as the new snapshot.
// On validation failure the previous snapshot is kept.
func (c *Catalog) Replace(items []types.ClothingItem) error {
	if err := Validate(items); err != nil {
		return err
	}
	snapshot := make([]types.ClothingItem, len(items))
	copy(snapshot, items)
	c.items.Store(&snapshot)
	return nil
}

// Validate checks every item and rejects duplicate ids.
func Validate(items []types.ClothingItem) error {
	var errs []validation.ValidationError
	seen := make(map[string]int, len(items))
	for i, item := range items {
		errs = append(errs, validation.ValidateClothingItem(i, item)...)
		if item.ID == "" {
			continue
		}
		if first, dup := seen[item.ID]; dup {
			errs = append(errs, validation.ValidationError{
				Field:   fmt.Sprintf("items[%d].id", i),
				Message: fmt.Sprintf("duplicates items[%d].id", first),
			})
			continue
		}
		seen[item.ID] = i
	}
	if len(errs) > 0 {
		return &ValidationFailure{Errors: errs}
	}
	return nil
}

// dataset is the on-disk layout shared by YAML and JSON catalog files.
type dataset struct {
	Items []types.ClothingItem `json:"items" yaml:"items"`
}

// ReadFile parses a catalog dataset. The format is chosen by extension:
// .json is JSON, anything else is YAML.
func ReadFile(path string) ([]types.ClothingItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	return Parse(data, formatFor(path))
}

// Format identifies a dataset encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

func formatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Parse decodes a dataset in the given format.
func Parse(data []byte, format Format) ([]types.ClothingItem, error) {
	var ds dataset
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &ds); err != nil {
			return nil, fmt.Errorf("parsing catalog json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &ds); err != nil {
			return nil, fmt.Errorf("parsing catalog yaml: %w", err)
		}
	}
	return ds.Items, nil
}

// LoadFile reads and validates a dataset, returning a ready catalog.
func LoadFile(path string) (*Catalog, error) {
	items, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(items)
}

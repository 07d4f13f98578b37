package catalog

import (
	"context"
	"fmt"

	"github.com/hyperengineering/attire/internal/types"
)

// Loader reads a full catalog dataset from its source.
type Loader interface {
	Load(ctx context.Context) ([]types.ClothingItem, error)
	Describe() string
}

// FileLoader reads a YAML or JSON dataset file.
type FileLoader struct {
	Path string
}

func (l FileLoader) Load(ctx context.Context) ([]types.ClothingItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ReadFile(l.Path)
}

func (l FileLoader) Describe() string { return "file:" + l.Path }

// ItemLister is the subset of the SQLite store a StoreLoader needs.
type ItemLister interface {
	ListItems(ctx context.Context) ([]types.ClothingItem, error)
}

// StoreLoader reads the live items of a catalog store.
type StoreLoader struct {
	Store ItemLister
	Name  string
}

func (l StoreLoader) Load(ctx context.Context) ([]types.ClothingItem, error) {
	items, err := l.Store.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing catalog items: %w", err)
	}
	return items, nil
}

func (l StoreLoader) Describe() string { return "sqlite:" + l.Name }

// Load builds a catalog from a loader.
func Load(ctx context.Context, l Loader) (*Catalog, error) {
	items, err := l.Load(ctx)
	if err != nil {
		return nil, err
	}
	return New(items)
}

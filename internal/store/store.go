package store

import (
	"context"

	"github.com/hyperengineering/attire/internal/types"
)

// ImportResult reports how an import batch was applied.
type ImportResult struct {
	Inserted int      `json:"inserted"`
	Updated  int      `json:"updated"`
	IDs      []string `json:"ids"`
}

// Store defines the contract for the persistent catalog dataset.
// The engine never reads it directly; a snapshot is loaded into memory.
type Store interface {
	ImportItems(ctx context.Context, items []types.ClothingItem) (*ImportResult, error)
	ListItems(ctx context.Context) ([]types.ClothingItem, error)
	GetItem(ctx context.Context, id string) (*types.ClothingItem, error)
	DeleteItem(ctx context.Context, id string) error
	CountItems(ctx context.Context) (int, error)
	Close() error
}

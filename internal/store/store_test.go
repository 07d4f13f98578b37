package store

import (
	"context"

	"github.com/hyperengineering/attire/internal/types"
)

// mockStore is a compile-time check that the Store interface can be implemented.
type mockStore struct{}

var _ Store = (*mockStore)(nil)

func (m *mockStore) ImportItems(ctx context.Context, items []types.ClothingItem) (*ImportResult, error) {
	return nil, nil
}
func (m *mockStore) ListItems(ctx context.Context) ([]types.ClothingItem, error) {
	return nil, nil
}
func (m *mockStore) GetItem(ctx context.Context, id string) (*types.ClothingItem, error) {
	return nil, nil
}
func (m *mockStore) DeleteItem(ctx context.Context, id string) error {
	return nil
}
func (m *mockStore) CountItems(ctx context.Context) (int, error) {
	return 0, nil
}
func (m *mockStore) Close() error {
	return nil
}

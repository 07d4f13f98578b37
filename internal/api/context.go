package api

import (
	"context"
)

// seedContextKey is the context key for a caller-supplied random seed.
type seedContextKey struct{}

// WithSeed returns a new context carrying a random seed for the engine.
func WithSeed(ctx context.Context, seed uint64) context.Context {
	return context.WithValue(ctx, seedContextKey{}, seed)
}

// SeedFromContext extracts the seed. The bool is false when none was supplied.
func SeedFromContext(ctx context.Context) (uint64, bool) {
	seed, ok := ctx.Value(seedContextKey{}).(uint64)
	return seed, ok
}

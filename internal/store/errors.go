package store

import "errors"

var (
	ErrNotFound    = errors.New("catalog item not found")
	ErrInvalidItem = errors.New("invalid catalog item")
)

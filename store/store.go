package store

import (
	"context"
	"errors"

	"nearby-search-system/search"
)

// ErrNotFound is returned when a document id does not exist.
var ErrNotFound = errors.New("store: document not found")

// Store is a document backend: the write path plus the ordered range query
// the search orchestrator fans out over.
type Store interface {
	search.RangeQuerier

	Put(ctx context.Context, id string, fields map[string]interface{}) error
	Get(ctx context.Context, id string) (map[string]interface{}, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

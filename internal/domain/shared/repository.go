package shared

import (
	"context"
)

// RecordStore is a namespaced key-value store holding JSON documents.
// Keys are fully qualified by the caller.
type RecordStore interface {
	// Get returns ErrRecordNotFound when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	// Delete reports whether the key existed.
	Delete(ctx context.Context, key string) (bool, error)
	Ping(ctx context.Context) error
	Close() error
}

// EntityRepository is the generic typed persistence contract used by every
// resource. Implementations keep a per-type id index next to the records.
type EntityRepository[T any] interface {
	Name() string
	// New returns a record in the type's default state.
	New() *T
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	Exists(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, entity *T) error
	Mutate(ctx context.Context, id string, fn func(current *T) error) (*T, error)
	Delete(ctx context.Context, id string) (bool, error)
	DeleteMany(ctx context.Context, ids []string) (int, error)
	EnsureSeed(ctx context.Context) (int, error)
}

// Page is the list envelope returned by every collection endpoint.
// Next is always nil; listing is unpaginated.
type Page[T any] struct {
	Items []T     `json:"items"`
	Next  *string `json:"next"`
}

// NewPage wraps items in a Page with no continuation cursor
func NewPage[T any](items []T) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items}
}

// DeleteResult is returned by every delete endpoint
type DeleteResult struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

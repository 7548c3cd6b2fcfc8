package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/nexus/backend/internal/domain/shared"
)

// Definition describes one entity type: its key namespaces, the state new
// records start from and the rows inserted into an empty store.
type Definition[T any] struct {
	// Name prefixes record keys, e.g. "product" gives "product:<id>".
	Name string
	// IndexName prefixes the id index key, e.g. "products:index".
	IndexName string
	// Label is used in not-found messages, e.g. "Supplier order".
	Label   string
	Default func() T
	Seed    func(now time.Time) []T
}

// EntityStore is the generic indexed entity helper. Records are stored as
// JSON under "<name>:<id>" and enumerated through an ordered id index stored
// under "<indexName>:index".
//
// Index updates are serialised per store so concurrent creates and deletes
// within one process never drop index entries. Record writes themselves are
// not locked: Mutate is read-modify-write and the last write wins.
type EntityStore[T any, P shared.EntityPtr[T]] struct {
	store shared.RecordStore
	def   Definition[T]
	mu    sync.Mutex
}

// NewEntityStore creates an entity store for def over store
func NewEntityStore[T any, P shared.EntityPtr[T]](store shared.RecordStore, def Definition[T]) *EntityStore[T, P] {
	return &EntityStore[T, P]{store: store, def: def}
}

// Name returns the record namespace of the entity type
func (s *EntityStore[T, P]) Name() string {
	return s.def.Name
}

func (s *EntityStore[T, P]) recordKey(id string) string {
	return s.def.Name + ":" + id
}

func (s *EntityStore[T, P]) indexKey() string {
	return s.def.IndexName + ":index"
}

func (s *EntityStore[T, P]) notFound() error {
	label := s.def.Label
	if label == "" {
		label = s.def.Name
	}
	return shared.NotFoundError(label)
}

func (s *EntityStore[T, P]) readIndex(ctx context.Context) ([]string, error) {
	data, err := s.store.Get(ctx, s.indexKey())
	if errors.Is(err, shared.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("corrupt index %s: %w", s.indexKey(), err)
	}
	return ids, nil
}

func (s *EntityStore[T, P]) writeIndex(ctx context.Context, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return s.store.Put(ctx, s.indexKey(), data)
}

func (s *EntityStore[T, P]) read(ctx context.Context, id string) (*T, error) {
	data, err := s.store.Get(ctx, s.recordKey(id))
	if err != nil {
		return nil, err
	}

	entity := new(T)
	if err := json.Unmarshal(data, entity); err != nil {
		return nil, fmt.Errorf("corrupt record %s: %w", s.recordKey(id), err)
	}
	return entity, nil
}

func (s *EntityStore[T, P]) write(ctx context.Context, entity *T) error {
	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", s.def.Name, err)
	}
	return s.store.Put(ctx, s.recordKey(P(entity).GetID()), data)
}

// List returns every record in index order. Index entries whose record has
// disappeared are skipped.
func (s *EntityStore[T, P]) List(ctx context.Context) ([]T, error) {
	ids, err := s.readIndex(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]T, 0, len(ids))
	for _, id := range ids {
		entity, err := s.read(ctx, id)
		if errors.Is(err, shared.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		items = append(items, *entity)
	}
	return items, nil
}

// Get returns the record or a NOT_FOUND domain error
func (s *EntityStore[T, P]) Get(ctx context.Context, id string) (*T, error) {
	entity, err := s.read(ctx, id)
	if errors.Is(err, shared.ErrRecordNotFound) {
		return nil, s.notFound()
	}
	return entity, err
}

// Exists reports whether a record is stored under id
func (s *EntityStore[T, P]) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.store.Get(ctx, s.recordKey(id))
	if errors.Is(err, shared.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Create writes the record under its id, overwriting any previous value,
// and appends the id to the index if absent.
func (s *EntityStore[T, P]) Create(ctx context.Context, entity *T) error {
	if P(entity).GetID() == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, s.def.Name+" id is required")
	}
	if err := s.write(ctx, entity); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.readIndex(ctx)
	if err != nil {
		return err
	}
	if slices.Contains(ids, P(entity).GetID()) {
		return nil
	}
	return s.writeIndex(ctx, append(ids, P(entity).GetID()))
}

// Mutate reads the record, applies fn and writes the result back with id
// unchanged. There is no compare-and-swap between the read and the write.
func (s *EntityStore[T, P]) Mutate(ctx context.Context, id string, fn func(current *T) error) (*T, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(current); err != nil {
		return nil, err
	}
	P(current).SetID(id)
	if err := s.write(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

// Delete removes the record and its index entry. Deleting a missing id
// returns false without error.
func (s *EntityStore[T, P]) Delete(ctx context.Context, id string) (bool, error) {
	n, err := s.DeleteMany(ctx, []string{id})
	return n > 0, err
}

// DeleteMany removes every listed record and returns how many existed
func (s *EntityStore[T, P]) DeleteMany(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	removed := 0
	for _, id := range ids {
		existed, err := s.store.Delete(ctx, s.recordKey(id))
		if err != nil {
			return removed, err
		}
		if existed {
			removed++
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.readIndex(ctx)
	if err != nil {
		return removed, err
	}
	kept := slices.DeleteFunc(index, func(id string) bool {
		return slices.Contains(ids, id)
	})
	if len(kept) == len(index) && removed == 0 {
		return 0, nil
	}
	return removed, s.writeIndex(ctx, kept)
}

// EnsureSeed inserts the seed rows when the index is empty and returns the
// number of rows written. A non-empty index makes it a no-op.
func (s *EntityStore[T, P]) EnsureSeed(ctx context.Context) (int, error) {
	if s.def.Seed == nil {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.readIndex(ctx)
	if err != nil {
		return 0, err
	}
	if len(ids) > 0 {
		return 0, nil
	}

	rows := s.def.Seed(time.Now().UTC())
	ids = make([]string, 0, len(rows))
	for i := range rows {
		if err := s.write(ctx, &rows[i]); err != nil {
			return 0, err
		}
		ids = append(ids, P(&rows[i]).GetID())
	}
	if err := s.writeIndex(ctx, ids); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// New returns a fresh record in the type's default state
func (s *EntityStore[T, P]) New() *T {
	entity := new(T)
	if s.def.Default != nil {
		*entity = s.def.Default()
	}
	return entity
}

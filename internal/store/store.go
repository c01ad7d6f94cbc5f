// Package store implements the entity store: typed, insertion-ordered
// collections persisted through the key-value collaborator. All mutations go
// through a Batch so a compound operation either lands completely or not at
// all; see batch.go.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"ledgerbook/internal/core/apperror"
	"ledgerbook/internal/core/id"
	"ledgerbook/internal/kv"
)

// Canonical collection names, matching the persisted key layout.
const (
	ColBusinesses = "businesses"
	ColCustomers  = "customers"
	ColProducts   = "products"
	ColSuppliers  = "suppliers"
	ColCashbook   = "cashbook_entries"
	ColDues       = "dues"
	ColTransfers  = "transfers"
	ColSales      = "sales"
	ColPurchases  = "purchases"
	ColStock      = "stock"
	ColUsers      = "users"
)

// Entity is any record with a stable identifier.
type Entity interface {
	EntityID() id.ID
}

// Store holds the registered collections and their persistence substrate.
// Collections are loaded once at registration and written back in full after
// every committed batch.
type Store struct {
	mu   sync.RWMutex
	kv   kv.Store
	cols map[string]*column
}

// column is the type-erased state of one collection. The typed closures are
// captured when the collection is registered.
type column struct {
	name    string
	records any // []T
	encode  func(records any) ([]byte, error)
	apply   func(records any, ops []op) (any, error)
}

// Open creates a Store over the given key-value collaborator.
func Open(substrate kv.Store) *Store {
	return &Store{
		kv:   substrate,
		cols: make(map[string]*column),
	}
}

// Collection is a typed view over one named collection.
type Collection[T Entity] struct {
	store *Store
	name  string
}

// NewCollection registers and loads a typed collection. Each name may be
// registered once per store.
func NewCollection[T Entity](s *Store, name string) (*Collection[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.cols[name]; exists {
		return nil, fmt.Errorf("collection %s already registered", name)
	}

	var records []T
	data, ok, err := s.kv.Get(name)
	if err != nil {
		return nil, fmt.Errorf("load collection %s: %w", name, err)
	}
	if ok && len(data) > 0 {
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("decode collection %s: %w", name, err)
		}
	}

	s.cols[name] = &column{
		name:    name,
		records: records,
		encode:  encodeRecords[T],
		apply:   applyOps[T](name),
	}

	return &Collection[T]{store: s, name: name}, nil
}

func encodeRecords[T Entity](records any) ([]byte, error) {
	recs, _ := records.([]T)
	if recs == nil {
		recs = []T{}
	}
	return json.Marshal(recs)
}

// applyOps returns the staged-op interpreter for a concrete record type.
// It always works on a copy; the caller swaps state only after persistence.
func applyOps[T Entity](name string) func(records any, ops []op) (any, error) {
	return func(records any, ops []op) (any, error) {
		cur, _ := records.([]T)
		next := make([]T, len(cur), len(cur)+len(ops))
		copy(next, cur)

		indexOf := func(recID id.ID) int {
			for i := range next {
				if next[i].EntityID() == recID {
					return i
				}
			}
			return -1
		}

		for _, o := range ops {
			switch o.kind {
			case opCreate:
				rec, ok := o.rec.(T)
				if !ok {
					return nil, apperror.NewValidation("record type mismatch").
						WithDetail("collection", name)
				}
				if id.IsNil(rec.EntityID()) {
					return nil, apperror.NewValidation("record id is required").
						WithDetail("collection", name)
				}
				if indexOf(rec.EntityID()) >= 0 {
					return nil, apperror.NewValidation("duplicate record id").
						WithDetail("collection", name).
						WithDetail("id", rec.EntityID().String())
				}
				next = append(next, rec)

			case opUpdate:
				i := indexOf(o.id)
				if i < 0 {
					return nil, apperror.NewNotFound(name, o.id.String())
				}
				if err := o.mut(&next[i]); err != nil {
					return nil, err
				}

			case opRemove:
				i := indexOf(o.id)
				if i < 0 {
					return nil, apperror.NewNotFound(name, o.id.String())
				}
				next = append(next[:i], next[i+1:]...)
			}
		}

		return next, nil
	}
}

// Name returns the collection name.
func (c *Collection[T]) Name() string {
	return c.name
}

func (c *Collection[T]) snapshot() []T {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	recs, _ := c.store.cols[c.name].records.([]T)
	return recs
}

// Get returns the record with the given id, or NOT_FOUND.
func (c *Collection[T]) Get(recID id.ID) (T, error) {
	for _, rec := range c.snapshot() {
		if rec.EntityID() == recID {
			return rec, nil
		}
	}
	var zero T
	return zero, apperror.NewNotFound(c.name, recID.String())
}

// List returns records matching the predicate in insertion order.
// A nil predicate matches everything.
func (c *Collection[T]) List(pred func(T) bool) []T {
	recs := c.snapshot()
	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		if pred == nil || pred(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// All returns every record in insertion order.
func (c *Collection[T]) All() []T {
	return c.List(nil)
}

// Len returns the number of records.
func (c *Collection[T]) Len() int {
	return len(c.snapshot())
}

// Insert appends a single record and persists the collection.
func (c *Collection[T]) Insert(ctx context.Context, rec T) error {
	return c.store.RunInBatch(ctx, func(b *Batch) error {
		Create(b, c, rec)
		return nil
	})
}

// Modify applies a typed partial update to the record with the given id and
// persists the collection. Returns NOT_FOUND if no record matches.
func (c *Collection[T]) Modify(ctx context.Context, recID id.ID, fn func(*T) error) error {
	return c.store.RunInBatch(ctx, func(b *Batch) error {
		Update(b, c, recID, fn)
		return nil
	})
}

// Delete removes the record with the given id and persists the collection.
// Used only for business removal, never for append-only ledgers.
func (c *Collection[T]) Delete(ctx context.Context, recID id.ID) error {
	return c.store.RunInBatch(ctx, func(b *Batch) error {
		Remove(b, c, recID)
		return nil
	})
}

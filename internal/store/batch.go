package store

import (
	"context"

	"ledgerbook/internal/core/apperror"
	"ledgerbook/internal/core/id"
	"ledgerbook/pkg/logger"
)

type opKind int

const (
	opCreate opKind = iota
	opUpdate
	opRemove
)

type op struct {
	col  string
	kind opKind
	id   id.ID
	rec  any             // opCreate: the record value
	mut  func(any) error // opUpdate: wraps func(*T) error
}

// Batch stages writes across any number of collections and commits them as a
// unit. Until Commit succeeds nothing is visible to readers and nothing is
// persisted; a failed apply or a failed storage write leaves the store
// untouched.
type Batch struct {
	store *Store
	ops   []op
}

// Begin starts an empty batch.
func (s *Store) Begin() *Batch {
	return &Batch{store: s}
}

// Create stages an insert into the collection.
func Create[T Entity](b *Batch, c *Collection[T], rec T) {
	b.ops = append(b.ops, op{col: c.name, kind: opCreate, id: rec.EntityID(), rec: rec})
}

// Update stages a typed mutation of the record with the given id.
// Updates see the effect of earlier staged ops in the same batch.
func Update[T Entity](b *Batch, c *Collection[T], recID id.ID, fn func(*T) error) {
	b.ops = append(b.ops, op{col: c.name, kind: opUpdate, id: recID, mut: func(v any) error {
		return fn(v.(*T))
	}})
}

// Remove stages a deletion of the record with the given id.
func Remove[T Entity](b *Batch, c *Collection[T], recID id.ID) {
	b.ops = append(b.ops, op{col: c.name, kind: opRemove, id: recID})
}

// Commit applies the staged ops to copies of the touched collections, writes
// every touched collection to the persistence collaborator, and only then
// swaps the in-memory state. Readers never observe a half-applied batch.
func (b *Batch) Commit(ctx context.Context) error {
	if len(b.ops) == 0 {
		return nil
	}

	s := b.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var touched []string
	grouped := make(map[string][]op)
	for _, o := range b.ops {
		if _, seen := grouped[o.col]; !seen {
			touched = append(touched, o.col)
		}
		grouped[o.col] = append(grouped[o.col], o)
	}

	next := make(map[string]any, len(touched))
	blobs := make(map[string][]byte, len(touched))
	for _, name := range touched {
		col := s.cols[name]
		applied, err := col.apply(col.records, grouped[name])
		if err != nil {
			return err
		}
		data, err := col.encode(applied)
		if err != nil {
			return apperror.NewStorage(err)
		}
		next[name] = applied
		blobs[name] = data
	}

	for _, name := range touched {
		if err := s.kv.Set(name, blobs[name]); err != nil {
			return apperror.NewStorage(err).WithDetail("collection", name)
		}
	}

	for _, name := range touched {
		s.cols[name].records = next[name]
	}

	logger.Debug(ctx, "batch committed",
		"collections", touched,
		"ops", len(b.ops),
	)

	b.ops = nil
	return nil
}

// RunInBatch executes fn with a fresh batch and commits it when fn returns
// nil. If fn returns an error the batch is discarded and nothing is written.
func (s *Store) RunInBatch(ctx context.Context, fn func(b *Batch) error) error {
	b := s.Begin()
	if err := fn(b); err != nil {
		return err
	}
	return b.Commit(ctx)
}

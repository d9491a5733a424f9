// Package memstore provides an in memory store.Store.
package memstore

import (
	"context"
	"sync"

	"github.com/signadot/viewd/debug"
	"github.com/signadot/viewd/record"
	"github.com/signadot/viewd/store"
)

// Store keeps the flattened tree in a map.  It is safe for concurrent
// use.
type Store struct {
	mu     sync.RWMutex
	leaves store.Leaves
}

func New() *Store {
	return &Store{leaves: store.Leaves{}}
}

func (s *Store) Read(ctx context.Context, path string) ([]record.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	segs, err := store.Split(path)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs, err := store.ReadLeaves(segs, s.leaves)
	if debug.Store() {
		debug.Logf("memstore read %q: %d records, err %v\n", path, len(recs), err)
	}
	return recs, err
}

func (s *Store) Write(ctx context.Context, path string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	segs, err := store.Split(path)
	if err != nil {
		return err
	}
	leaves, err := store.Flatten(segs, v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replace(segs, leaves)
	if debug.Store() {
		debug.Logf("memstore write %q: %d leaves\n", path, len(leaves))
	}
	return nil
}

func (s *Store) replace(segs []string, leaves store.Leaves) {
	key := store.Join(segs...)
	for leaf := range s.leaves {
		if store.Within(leaf, key) {
			delete(s.leaves, leaf)
		}
	}
	for _, a := range store.Ancestors(segs) {
		delete(s.leaves, a)
	}
	for k, v := range leaves {
		s.leaves[k] = v
	}
}

// Get returns the value stored at path, as Read would see it before
// taking its children.
func (s *Store) Get(path string) (any, bool, error) {
	segs, err := store.Split(path)
	if err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := store.Build(segs, s.leaves)
	return v, ok, nil
}

// Import replaces the whole tree with dump.
func (s *Store) Import(dump any) error {
	return s.Write(context.Background(), "", dump)
}

// Dump returns the whole tree, or nil if it is empty.
func (s *Store) Dump() any {
	v, _, _ := s.Get("")
	return v
}

// Clear removes everything.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leaves = store.Leaves{}
}

// Len returns the number of leaves.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.leaves)
}

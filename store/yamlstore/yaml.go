// Package yamlstore is a store.Store held in memory and persisted to a
// single YAML document after every write.
package yamlstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-yaml"

	"github.com/signadot/viewd/encode"
	"github.com/signadot/viewd/record"
	"github.com/signadot/viewd/store/memstore"
)

type Store struct {
	mu   sync.Mutex
	path string
	mem  *memstore.Store
}

// Open loads the document at path.  A missing file is an empty store.
func Open(path string) (*Store, error) {
	s := &Store{path: path, mem: memstore.New()}
	d, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}
	var doc any
	if err := yaml.Unmarshal(d, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse store file %s: %w", path, err)
	}
	if err := s.mem.Import(doc); err != nil {
		return nil, fmt.Errorf("failed to load store file %s: %w", path, err)
	}
	return s, nil
}

func (s *Store) Read(ctx context.Context, path string) ([]record.Record, error) {
	return s.mem.Read(ctx, path)
}

func (s *Store) Write(ctx context.Context, path string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.mem.Dump()
	if err := s.mem.Write(ctx, path, v); err != nil {
		return err
	}
	if err := s.flush(); err != nil {
		s.restore(prev)
		return err
	}
	return nil
}

// restore puts back the tree as it was before a write whose flush
// failed, so memory matches the file.
func (s *Store) restore(prev any) {
	s.mem.Clear()
	if prev == nil {
		return
	}
	if err := s.mem.Import(prev); err != nil {
		panic(fmt.Sprintf("yamlstore: restoring a dumped tree: %v", err))
	}
}

func (s *Store) flush() error {
	doc := s.mem.Dump()
	if doc == nil {
		doc = map[string]any{}
	}
	buf := &bytes.Buffer{}
	if err := encode.Encode(doc, buf, encode.EncodeFormat(encode.YAMLFormat)); err != nil {
		return err
	}
	d := buf.Bytes()
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, d, 0644); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}
	return os.Rename(tmp, s.path)
}

// Path returns the file backing the store.
func (s *Store) Path() string {
	return s.path
}

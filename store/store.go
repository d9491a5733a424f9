package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/signadot/viewd/record"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrBadPath       = errors.New("bad path")
	ErrNotCollection = errors.New("not a collection")
)

// Store is a path addressed hierarchical key-value store.
type Store interface {
	// Read returns the ordered child records at path.  It returns
	// ErrNotFound if nothing is stored there and ErrNotCollection if a
	// scalar is.
	Read(ctx context.Context, path string) ([]record.Record, error)
	// Write replaces everything at path with v.
	Write(ctx context.Context, path string, v any) error
}

// Split parses a path into its segments.  Leading and trailing slashes
// are ignored; "" and "/" denote the root.
func Split(path string) ([]string, error) {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil, nil
	}
	segs := strings.Split(path, "/")
	for _, seg := range segs {
		if err := checkSegment(seg); err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrBadPath, path, err)
		}
	}
	return segs, nil
}

// Join joins segments into a path.
func Join(segs ...string) string {
	return strings.Join(segs, "/")
}

// Child returns the path of name under parent.
func Child(parent, name string) string {
	parent = strings.Trim(parent, "/")
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

func checkSegment(seg string) error {
	if seg == "" {
		return errors.New("empty segment")
	}
	if strings.ContainsAny(seg, "/\x00") {
		return fmt.Errorf("invalid segment %q", seg)
	}
	return nil
}

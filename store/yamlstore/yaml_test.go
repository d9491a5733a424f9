package yamlstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/viewd/record"
)

func TestPersist(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db.yaml")
	if err := os.WriteFile(path, []byte(`
heros:
- firstname: Rosa
  born: 1913
- firstname: Martin
  born: 1929
`), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	recs, err := s.Read(ctx, "heros")
	if err != nil {
		t.Fatal(err)
	}
	want := []record.Record{
		{"firstname": "Rosa", "born": 1913.0},
		{"firstname": "Martin", "born": 1929.0},
	}
	if diff := cmp.Diff(want, recs); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	if err := s.Write(ctx, "@views/v", []any{map[string]any{"a": "b"}}); err != nil {
		t.Fatal(err)
	}
	reopened, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	recs, err = reopened.Read(ctx, "@views/v")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]record.Record{{"a": "b"}}, recs); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestMissingFile(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Read(context.Background(), "x"); err == nil {
		t.Error("expected an error reading an empty store")
	}
}

func TestWriteFailureKeepsMemory(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db.yaml")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Write(ctx, "a", []any{map[string]any{"x": 1}}); err != nil {
		t.Fatal(err)
	}
	// a directory in place of the temp file makes the flush fail.
	if err := os.Mkdir(path+".tmp", 0755); err != nil {
		t.Fatal(err)
	}
	if err := s.Write(ctx, "b", []any{map[string]any{"y": 2}}); err == nil {
		t.Fatal("expected the flush to fail")
	}
	if _, err := s.Read(ctx, "b"); err == nil {
		t.Error("failed write is still visible")
	}
	if err := s.Write(ctx, "a", []any{}); err == nil {
		t.Fatal("expected the flush to fail")
	}
	got, err := s.Read(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(record.List(record.MustNormalize([]any{map[string]any{"x": 1}})), got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(s.mem.Dump(), reopened.mem.Dump()); diff != "" {
		t.Errorf("memory and file disagree (-mem +file):\n%s", diff)
	}
}

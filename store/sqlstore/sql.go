// Package sqlstore keeps a store.Store tree in an SQLite database, one
// row per leaf.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/signadot/viewd/debug"
	"github.com/signadot/viewd/record"
	"github.com/signadot/viewd/store"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS leaves (
	path TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

// Store is an SQLite backed store.Store.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open opens or creates the database at dbPath.  ":memory:" gives a
// private in memory database.
func Open(dbPath string) (*Store, error) {
	dsn := dbPath
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
		dsn = "file:" + dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// each connection would otherwise see its own database.
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Store{db: db, dbPath: dbPath}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) Read(ctx context.Context, path string) ([]record.Record, error) {
	segs, err := store.Split(path)
	if err != nil {
		return nil, err
	}
	leaves, err := s.leaves(ctx, store.Join(segs...))
	if err != nil {
		return nil, err
	}
	if debug.Store() {
		debug.Logf("sqlstore read %q: %d leaves\n", path, len(leaves))
	}
	return store.ReadLeaves(segs, leaves)
}

func (s *Store) leaves(ctx context.Context, key string) (store.Leaves, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if key == "" {
		rows, err = s.db.QueryContext(ctx, `SELECT path, value FROM leaves`)
	} else {
		// '0' is the byte following '/', so the range covers key/...
		rows, err = s.db.QueryContext(ctx,
			`SELECT path, value FROM leaves WHERE path = ? OR (path >= ? AND path < ?)`,
			key, key+"/", key+"0")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query leaves: %w", err)
	}
	defer rows.Close()
	res := store.Leaves{}
	for rows.Next() {
		var (
			p string
			d []byte
		)
		if err := rows.Scan(&p, &d); err != nil {
			return nil, err
		}
		var v any
		if err := json.Unmarshal(d, &v); err != nil {
			return nil, fmt.Errorf("corrupt leaf %q: %w", p, err)
		}
		res[p] = v
	}
	return res, rows.Err()
}

func (s *Store) Write(ctx context.Context, path string, v any) error {
	segs, err := store.Split(path)
	if err != nil {
		return err
	}
	leaves, err := store.Flatten(segs, v)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	key := store.Join(segs...)
	if key == "" {
		_, err = tx.ExecContext(ctx, `DELETE FROM leaves`)
	} else {
		_, err = tx.ExecContext(ctx,
			`DELETE FROM leaves WHERE path = ? OR (path >= ? AND path < ?)`,
			key, key+"/", key+"0")
	}
	if err != nil {
		return fmt.Errorf("failed to clear %q: %w", key, err)
	}
	if anc := store.Ancestors(segs); len(anc) > 0 {
		q := `DELETE FROM leaves WHERE path IN (?` + strings.Repeat(",?", len(anc)-1) + `)`
		args := make([]any, len(anc))
		for i, a := range anc {
			args[i] = a
		}
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("failed to clear ancestors of %q: %w", key, err)
		}
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO leaves (path, value) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for p, lv := range leaves {
		d, err := json.Marshal(lv)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, p, string(d)); err != nil {
			return fmt.Errorf("failed to insert leaf %q: %w", p, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	if debug.Store() {
		debug.Logf("sqlstore write %q: %d leaves\n", path, len(leaves))
	}
	return nil
}

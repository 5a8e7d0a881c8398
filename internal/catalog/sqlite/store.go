// Package sqlite provides a snapshotting SQLite-backed catalog store. It
// reuses the in-memory implementation for reads and writes and persists the
// full state to a single table as JSON blobs after every successful write.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"cosmocore/internal/catalog"
	"cosmocore/internal/catalog/memory"
)

var _ catalog.Store = (*Store)(nil)

// Store persists the in-memory catalog state to SQLite.
type Store struct {
	*memory.Store
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// NewStore constructs a snapshotting SQLite-backed catalog.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = "cosmocore-catalog.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create state table: %w", err)
	}
	s := &Store{Store: memory.NewStore(), db: db, path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

var sqliteBuckets = []string{"artifacts", "loads"}

func (s *Store) load() error {
	rows, err := s.db.Query(`SELECT bucket, payload FROM state`)
	if err != nil {
		return fmt.Errorf("select state: %w", err)
	}
	defer func() { _ = rows.Close() }()
	snapshot := memory.Snapshot{}
	found := false
	for rows.Next() {
		var bucket string
		var payload []byte
		if err := rows.Scan(&bucket, &payload); err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		switch bucket {
		case "artifacts":
			if err := json.Unmarshal(payload, &snapshot.Artifacts); err != nil {
				return fmt.Errorf("decode artifacts: %w", err)
			}
		case "loads":
			if err := json.Unmarshal(payload, &snapshot.Loads); err != nil {
				return fmt.Errorf("decode loads: %w", err)
			}
		}
		found = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate state: %w", err)
	}
	if found {
		s.ImportState(snapshot)
	}
	return nil
}

func (s *Store) persist() (retErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.ExportState()
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	for _, bucket := range sqliteBuckets {
		var data []byte
		switch bucket {
		case "artifacts":
			data, err = json.Marshal(snapshot.Artifacts)
		case "loads":
			data, err = json.Marshal(snapshot.Loads)
		}
		if err != nil {
			retErr = err
			return retErr
		}
		if _, err = tx.Exec(`INSERT INTO state(bucket,payload) VALUES(?,?) ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`, bucket, data); err != nil {
			retErr = fmt.Errorf("upsert %s: %w", bucket, err)
			return retErr
		}
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	return nil
}

// PutArtifact writes through the in-memory store, then snapshots to SQLite.
func (s *Store) PutArtifact(ctx context.Context, rec catalog.ArtifactRecord) error {
	if err := s.Store.PutArtifact(ctx, rec); err != nil {
		return err
	}
	return s.persist()
}

// RecordLoad writes through the in-memory store, then snapshots to SQLite.
func (s *Store) RecordLoad(ctx context.Context, rec catalog.LoadRecord) error {
	if err := s.Store.RecordLoad(ctx, rec); err != nil {
		return err
	}
	return s.persist()
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }

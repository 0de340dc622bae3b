// Package store persists the user snapshot in a local SQLite database.
// The whole state lives in a single key-value slot: one fixed key, value =
// the JSON-encoded snapshot. No versioning; a snapshot that fails to decode
// is reported as absent so the caller can fall back to defaults.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/cuentaescolar133-star/Cat.planner/internal/state"
)

const snapshotKey = "michi_state"

// Local is a SQLite-backed snapshot store.
type Local struct {
	db     *sql.DB
	mu     sync.Mutex
	dbPath string
	logger *zap.Logger
}

// NewLocal opens (creating if needed) the database at path.
func NewLocal(path string, logger *zap.Logger) (*Local, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logger.Debug("failed to set sqlite busy_timeout", zap.Error(err))
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logger.Debug("failed to set sqlite journal_mode=WAL", zap.Error(err))
	}

	l := &Local{db: db, dbPath: path, logger: logger}
	if err := l.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return l, nil
}

// initialize creates the snapshot table.
func (l *Local) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := l.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create snapshots table: %w", err)
	}
	return nil
}

// Load reads the stored snapshot. ok is false when no snapshot exists or
// the stored document does not decode; decode failures are logged and
// otherwise treated as absence.
func (l *Local) Load() (snap state.UserState, ok bool, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var value string
	row := l.db.QueryRow("SELECT value FROM snapshots WHERE key = ?", snapshotKey)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return state.UserState{}, false, nil
		}
		return state.UserState{}, false, fmt.Errorf("failed to load snapshot: %w", err)
	}

	if err := json.Unmarshal([]byte(value), &snap); err != nil {
		l.logger.Warn("stored snapshot is malformed; falling back to defaults", zap.Error(err))
		return state.UserState{}, false, nil
	}
	return snap, true, nil
}

// Save upserts the full snapshot under the fixed key.
func (l *Local) Save(snap state.UserState) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	_, err = l.db.Exec(`
		INSERT INTO snapshots (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		snapshotKey, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Reset deletes the stored snapshot.
func (l *Local) Reset() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.db.Exec("DELETE FROM snapshots WHERE key = ?", snapshotKey); err != nil {
		return fmt.Errorf("failed to reset snapshot: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (l *Local) Close() error {
	return l.db.Close()
}

package persist

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const snapshotSchema = `
CREATE TABLE IF NOT EXISTS snapshots (
	name       TEXT PRIMARY KEY,
	version    INTEGER NOT NULL,
	state      BLOB NOT NULL,
	updated_at TEXT NOT NULL
);
`

// SQLitePort persists snapshots in a single sqlite database. It shares
// the Port contract with FilePort; the backend is picked by config.
type SQLitePort struct {
	db *sql.DB
}

// NewSQLitePort creates a sqlite-backed port at the provided path.
func NewSQLitePort(dbPath string) (*SQLitePort, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("sqlite port: db path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite port: create db directory: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite port: open db: %w", err)
	}
	port := &SQLitePort{db: db}
	if err := port.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return port, nil
}

func (p *SQLitePort) init() error {
	if _, err := p.db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("sqlite port: set busy timeout: %w", err)
	}
	if _, err := p.db.Exec(snapshotSchema); err != nil {
		return fmt.Errorf("sqlite port: create schema: %w", err)
	}
	return nil
}

// Load reads the named snapshot, tolerating missing rows and version drift.
func (p *SQLitePort) Load(name string) ([]byte, error) {
	var version int
	var state []byte
	err := p.db.QueryRow("SELECT version, state FROM snapshots WHERE name = ?", name).
		Scan(&version, &state)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNoSnapshot, name)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNoSnapshot, name, err)
	}
	if version != SnapshotVersion || len(state) == 0 {
		return nil, fmt.Errorf("%w: snapshot version %d", ErrNoSnapshot, version)
	}
	return state, nil
}

// Save upserts the named snapshot.
func (p *SQLitePort) Save(name string, state []byte) error {
	_, err := p.db.Exec(`
		INSERT INTO snapshots (name, version, state, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			version = excluded.version,
			state = excluded.state,
			updated_at = excluded.updated_at`,
		name, SnapshotVersion, state, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("sqlite port: save %s: %w", name, err)
	}
	return nil
}

// Clear removes the named snapshot.
func (p *SQLitePort) Clear(name string) error {
	if _, err := p.db.Exec("DELETE FROM snapshots WHERE name = ?", name); err != nil {
		return fmt.Errorf("sqlite port: clear %s: %w", name, err)
	}
	return nil
}

// Close closes the underlying sqlite connection.
func (p *SQLitePort) Close() error {
	if p == nil || p.db == nil {
		return nil
	}
	return p.db.Close()
}

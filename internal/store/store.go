package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// DefaultMaxBackups is the number of backups kept per key.
const DefaultMaxBackups = 5

// DefaultKey is the state key the bank saves under.
const DefaultKey = "bank_state"

// ErrNotFound is returned when no state or backup exists.
var ErrNotFound = errors.New("not found")

// Backup is one saved copy of a state blob.
type Backup struct {
	ID        int64
	Data      []byte
	Type      string
	CreatedAt time.Time
}

// Info summarizes what is stored under a key.
type Info struct {
	HasData     bool
	DataSize    int
	BackupCount int
	LastBackup  time.Time
}

// Store is a SQLite-backed state store.
type Store struct {
	db         *sql.DB
	path       string
	maxBackups int
	now        func() time.Time
}

// Open opens or creates the database at path and initializes the schema.
// maxBackups <= 0 means DefaultMaxBackups.
func Open(path string, maxBackups int) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", path))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	if maxBackups <= 0 {
		maxBackups = DefaultMaxBackups
	}
	return &Store{
		db:         db,
		path:       path,
		maxBackups: maxBackups,
		now:        func() time.Time { return time.Now().UTC() },
	}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) transaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%v (rollback: %w)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Save replaces the state under key and records an automatic backup,
// dropping the oldest backups beyond the limit.
func (s *Store) Save(ctx context.Context, key string, data []byte) error {
	return s.save(ctx, key, data, "auto")
}

func (s *Store) save(ctx context.Context, key string, data []byte, backupType string) error {
	if key == "" {
		return errors.New("state key is required")
	}
	at := s.now().Format(time.RFC3339Nano)
	return s.transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO state (key, data, saved_at) VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET data = excluded.data, saved_at = excluded.saved_at`,
			key, string(data), at); err != nil {
			return fmt.Errorf("saving state %s: %w", key, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO backups (key, data, backup_type, created_at) VALUES (?, ?, ?, ?)`,
			key, string(data), backupType, at); err != nil {
			return fmt.Errorf("creating backup for %s: %w", key, err)
		}
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM backups WHERE key = ? AND id NOT IN (
				SELECT id FROM backups WHERE key = ? ORDER BY id DESC LIMIT ?
			)`, key, key, s.maxBackups); err != nil {
			return fmt.Errorf("pruning backups for %s: %w", key, err)
		}
		return nil
	})
}

// Load returns the state saved under key, or ErrNotFound.
func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM state WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("state %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading state %s: %w", key, err)
	}
	return []byte(data), nil
}

// Backups returns the backups for key, newest first.
func (s *Store) Backups(ctx context.Context, key string) ([]Backup, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, data, backup_type, created_at FROM backups WHERE key = ? ORDER BY id DESC`, key)
	if err != nil {
		return nil, fmt.Errorf("listing backups for %s: %w", key, err)
	}
	defer rows.Close()

	var backups []Backup
	for rows.Next() {
		var (
			b        Backup
			data, at string
		)
		if err := rows.Scan(&b.ID, &data, &b.Type, &at); err != nil {
			return nil, fmt.Errorf("scanning backup: %w", err)
		}
		b.Data = []byte(data)
		if b.CreatedAt, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, fmt.Errorf("backup %d: parsing created_at: %w", b.ID, err)
		}
		backups = append(backups, b)
	}
	return backups, rows.Err()
}

// RestoreBackup makes the backup at index (0 is newest) the current state.
// The restored state is itself recorded as a new backup.
func (s *Store) RestoreBackup(ctx context.Context, key string, index int) error {
	backups, err := s.Backups(ctx, key)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(backups) {
		return fmt.Errorf("backup %d of %s: %w", index, key, ErrNotFound)
	}
	return s.save(ctx, key, backups[index].Data, "restore")
}

// Clear removes the state and every backup for key.
func (s *Store) Clear(ctx context.Context, key string) error {
	return s.transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM state WHERE key = ?`, key); err != nil {
			return fmt.Errorf("clearing state %s: %w", key, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM backups WHERE key = ?`, key); err != nil {
			return fmt.Errorf("clearing backups for %s: %w", key, err)
		}
		return nil
	})
}

// Info reports what is stored under key.
func (s *Store) Info(ctx context.Context, key string) (Info, error) {
	var info Info
	data, err := s.Load(ctx, key)
	switch {
	case err == nil:
		info.HasData = true
		info.DataSize = len(data)
	case !errors.Is(err, ErrNotFound):
		return Info{}, err
	}
	backups, err := s.Backups(ctx, key)
	if err != nil {
		return Info{}, err
	}
	info.BackupCount = len(backups)
	if len(backups) > 0 {
		info.LastBackup = backups[0].CreatedAt
	}
	return info, nil
}

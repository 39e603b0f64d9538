package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	rmenuerrors "github.com/alexisbeaulieu97/rmenu/pkg/errors"
)

const sqliteFile = "cache.db"

// SQLiteStore keeps all records in a single SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) dir/cache.db.
func NewSQLiteStore(dir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, sqliteFile))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps the busy_timeout pragma in effect for every statement.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS records (
		name TEXT PRIMARY KEY,
		captured_at INTEGER NOT NULL,
		session TEXT NOT NULL DEFAULT '',
		entries TEXT NOT NULL,
		options TEXT NOT NULL DEFAULT '{}'
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Get loads the record for name; undecodable rows are a miss with a CacheError.
func (s *SQLiteStore) Get(name string) (Record, bool, error) {
	row := s.db.QueryRow(`SELECT captured_at, session, entries, options FROM records WHERE name = ?`, name)

	rec, err := scanRecord(name, row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}
	return rec, true, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(name string, row rowScanner) (Record, error) {
	var (
		capturedAt int64
		session    string
		entries    string
		options    string
	)
	if err := row.Scan(&capturedAt, &session, &entries, &options); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, err
		}
		return Record{}, rmenuerrors.NewCacheError(name, "read", err)
	}

	return decodeRow(name, capturedAt, session, entries, options)
}

func decodeRow(name string, capturedAt int64, session, entries, options string) (Record, error) {
	rec := Record{Plugin: name, CapturedAt: time.UnixMilli(capturedAt), Session: session}
	if err := json.Unmarshal([]byte(entries), &rec.Entries); err != nil {
		return Record{}, rmenuerrors.NewCacheError(name, "decode", err)
	}
	if err := json.Unmarshal([]byte(options), &rec.Options); err != nil {
		return Record{}, rmenuerrors.NewCacheError(name, "decode", err)
	}
	return rec, nil
}

// Put upserts the record inside a transaction.
func (s *SQLiteStore) Put(rec Record) error {
	entries, err := json.Marshal(rec.Entries)
	if err != nil {
		return rmenuerrors.NewCacheError(rec.Plugin, "encode", err)
	}
	options, err := json.Marshal(rec.Options)
	if err != nil {
		return rmenuerrors.NewCacheError(rec.Plugin, "encode", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return rmenuerrors.NewCacheError(rec.Plugin, "write", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`
		INSERT INTO records (name, captured_at, session, entries, options) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			captured_at = excluded.captured_at,
			session = excluded.session,
			entries = excluded.entries,
			options = excluded.options`,
		rec.Plugin, rec.CapturedAt.UnixMilli(), rec.Session, string(entries), string(options),
	)
	if err != nil {
		return rmenuerrors.NewCacheError(rec.Plugin, "write", err)
	}

	if err := tx.Commit(); err != nil {
		return rmenuerrors.NewCacheError(rec.Plugin, "write", err)
	}
	return nil
}

func (s *SQLiteStore) Invalidate(name string) error {
	if _, err := s.db.Exec(`DELETE FROM records WHERE name = ?`, name); err != nil {
		return rmenuerrors.NewCacheError(name, "invalidate", err)
	}
	return nil
}

func (s *SQLiteStore) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM records`); err != nil {
		return rmenuerrors.NewCacheError("", "clear", err)
	}
	return nil
}

// List returns every decodable record ordered by name.
func (s *SQLiteStore) List() ([]Record, error) {
	rows, err := s.db.Query(`SELECT name, captured_at, session, entries, options FROM records ORDER BY name`)
	if err != nil {
		return nil, rmenuerrors.NewCacheError("", "list", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var name string
		var capturedAt int64
		var session, entries, options string
		if err := rows.Scan(&name, &capturedAt, &session, &entries, &options); err != nil {
			return nil, rmenuerrors.NewCacheError("", "list", err)
		}

		rec, err := decodeRow(name, capturedAt, session, entries, options)
		if err != nil {
			continue
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, rmenuerrors.NewCacheError("", "list", err)
	}
	return records, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

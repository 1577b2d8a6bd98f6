package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/harrisonrobin/systasks/pkg/model"
	_ "modernc.org/sqlite"
)

const (
	sqliteFile   = "systasks.db"
	kindSnapshot = "snapshot"
	kindLedger   = "ledger"
)

// SQLiteStore keeps the same JSON payloads as FileStore in a single sqlite table.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

func NewSQLiteStore(dir string) (*SQLiteStore, error) {
	if dir == "" {
		return nil, errors.New("sqlite store: empty directory")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return OpenSQLite(filepath.Join(dir, sqliteFile))
}

// OpenSQLite opens (and creates if needed) the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect sqlite store: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS payloads (
		kind TEXT PRIMARY KEY,
		body TEXT NOT NULL,
		saved_at TEXT NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db, path: path}, nil
}

func (s *SQLiteStore) Location() string { return s.path }

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) LoadSnapshot() (*Snapshot, error) {
	var tasks []model.Task
	savedAt, err := s.get(kindSnapshot, &tasks)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return &Snapshot{Tasks: tasks, SavedAt: savedAt}, nil
}

func (s *SQLiteStore) SaveSnapshot(tasks []model.Task, at time.Time) error {
	if tasks == nil {
		tasks = []model.Task{}
	}
	if at.IsZero() {
		at = time.Now()
	}
	if err := s.put(kindSnapshot, tasks, at); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

func (s *SQLiteStore) LoadLedger() ([]model.LedgerEntry, error) {
	var entries []model.LedgerEntry
	_, err := s.get(kindLedger, &entries)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	return entries, nil
}

func (s *SQLiteStore) SaveLedger(entries []model.LedgerEntry) error {
	if entries == nil {
		entries = []model.LedgerEntry{}
	}
	if err := s.put(kindLedger, entries, time.Now()); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	return nil
}

func (s *SQLiteStore) get(kind string, v any) (time.Time, error) {
	var body, savedAt string
	err := s.db.QueryRow(`SELECT body, saved_at FROM payloads WHERE kind = ?`, kind).Scan(&body, &savedAt)
	if err != nil {
		return time.Time{}, err
	}
	if err := json.Unmarshal([]byte(body), v); err != nil {
		return time.Time{}, err
	}
	at, err := time.Parse(time.RFC3339Nano, savedAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse saved_at: %w", err)
	}
	return at, nil
}

func (s *SQLiteStore) put(kind string, v any, at time.Time) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO payloads (kind, body, saved_at) VALUES (?, ?, ?)
		ON CONFLICT(kind) DO UPDATE SET body = excluded.body, saved_at = excluded.saved_at
	`
	_, err = s.db.Exec(query, kind, string(body), at.Format(time.RFC3339Nano))
	return err
}

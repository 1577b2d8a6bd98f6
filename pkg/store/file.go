package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/harrisonrobin/systasks/pkg/model"
)

const (
	snapshotFile = "widget-data.json"
	ledgerFile   = "last-notified.json"
)

// FileStore keeps the snapshot and ledger as JSON arrays in a directory.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("file store: empty directory")
	}
	return &FileStore{Dir: dir}, nil
}

func (s *FileStore) SnapshotPath() string { return filepath.Join(s.Dir, snapshotFile) }
func (s *FileStore) LedgerPath() string   { return filepath.Join(s.Dir, ledgerFile) }
func (s *FileStore) Location() string     { return s.SnapshotPath() }
func (s *FileStore) Close() error         { return nil }

// LoadSnapshot reads the task array. The save time is the file's modification time.
func (s *FileStore) LoadSnapshot() (*Snapshot, error) {
	path := s.SnapshotPath()
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, err
	}

	var tasks []model.Task
	if err := readJSON(path, &tasks); err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return &Snapshot{Tasks: tasks, SavedAt: info.ModTime()}, nil
}

func (s *FileStore) SaveSnapshot(tasks []model.Task, at time.Time) error {
	if tasks == nil {
		tasks = []model.Task{}
	}
	path := s.SnapshotPath()
	if err := writeJSON(path, tasks); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if !at.IsZero() {
		if err := os.Chtimes(path, at, at); err != nil {
			return fmt.Errorf("stamp snapshot: %w", err)
		}
	}
	return nil
}

func (s *FileStore) LoadLedger() ([]model.LedgerEntry, error) {
	var entries []model.LedgerEntry
	err := readJSON(s.LedgerPath(), &entries)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	return entries, nil
}

func (s *FileStore) SaveLedger(entries []model.LedgerEntry) error {
	if entries == nil {
		entries = []model.LedgerEntry{}
	}
	if err := writeJSON(s.LedgerPath(), entries); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	return nil
}

func readJSON(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(v)
}

// writeJSON replaces path atomically through a temp file in the same directory.
func writeJSON(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	encoder := json.NewEncoder(tmp)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Package store persists the task snapshot used as an offline fallback and the
// notification ledger.
package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/harrisonrobin/systasks/pkg/model"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// ErrNoSnapshot is returned when no snapshot has been saved yet.
var ErrNoSnapshot = errors.New("no snapshot available")

// Snapshot is the last task list fetched successfully.
type Snapshot struct {
	Tasks   []model.Task
	SavedAt time.Time
}

// Store is implemented by the file and sqlite backends.
type Store interface {
	LoadSnapshot() (*Snapshot, error)
	SaveSnapshot(tasks []model.Task, at time.Time) error
	// LoadLedger returns nil without error when nothing was stored yet.
	LoadLedger() ([]model.LedgerEntry, error)
	SaveLedger(entries []model.LedgerEntry) error
	// Location is the file or database path, for logs and the watch command.
	Location() string
	Close() error
}

// Open returns the backend named by kind, rooted at dir.
func Open(kind, dir string) (Store, error) {
	switch kind {
	case "", BackendFile:
		return NewFileStore(dir)
	case BackendSQLite:
		return NewSQLiteStore(dir)
	default:
		return nil, fmt.Errorf("unknown store backend %q", kind)
	}
}

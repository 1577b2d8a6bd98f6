// Package index remembers which calendar event was created for which notice, so a
// retried notice updates its event instead of adding a second one.
package index

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DefaultRetention is how long mappings are kept before Prune drops them.
const DefaultRetention = 30 * 24 * time.Hour

type Mapping struct {
	EventID string    `json:"event_id"`
	Created time.Time `json:"created"`
}

type EventIndex struct {
	Mappings map[string]Mapping `json:"mappings"`
	Path     string             `json:"-"`
	mu       sync.RWMutex
	dirty    bool
}

// NewEventIndex loads the index stored at path, or starts an empty one.
func NewEventIndex(path string) (*EventIndex, error) {
	idx := &EventIndex{
		Mappings: make(map[string]Mapping),
		Path:     path,
	}
	if err := idx.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return idx, nil
}

func (idx *EventIndex) Load() error {
	f, err := os.Open(idx.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	idx.mu.Lock()
	defer idx.mu.Unlock()
	if err := json.NewDecoder(f).Decode(&idx.Mappings); err != nil {
		return err
	}
	if idx.Mappings == nil {
		idx.Mappings = make(map[string]Mapping)
	}
	return nil
}

func (idx *EventIndex) Save() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if !idx.dirty {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(idx.Path), 0700); err != nil {
		return err
	}
	f, err := os.Create(idx.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(idx.Mappings); err != nil {
		return err
	}
	idx.dirty = false
	return nil
}

func (idx *EventIndex) Get(key string) string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.Mappings[key].EventID
}

func (idx *EventIndex) Set(key, eventID string, now time.Time) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.Mappings[key].EventID != eventID {
		idx.Mappings[key] = Mapping{EventID: eventID, Created: now}
		idx.dirty = true
	}
}

func (idx *EventIndex) Remove(key string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if _, exists := idx.Mappings[key]; exists {
		delete(idx.Mappings, key)
		idx.dirty = true
	}
}

// Prune drops mappings created before now-retention and returns how many went.
func (idx *EventIndex) Prune(now time.Time, retention time.Duration) int {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	cutoff := now.Add(-retention)
	n := 0
	for key, m := range idx.Mappings {
		if m.Created.Before(cutoff) {
			delete(idx.Mappings, key)
			n++
		}
	}
	if n > 0 {
		idx.dirty = true
	}
	return n
}

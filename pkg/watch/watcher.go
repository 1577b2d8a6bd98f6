// Package watch reports changes to a single file, such as the task snapshot.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events an atomic rename produces.
const DefaultDebounce = 200 * time.Millisecond

// FileWatcher watches the parent directory of Path, so replacing the file through
// a rename is seen as well as writes in place.
type FileWatcher struct {
	Path     string
	Debounce time.Duration

	watcher *fsnotify.Watcher
	changes chan struct{}
	errors  chan error
	done    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

func NewFileWatcher(path string) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	return &FileWatcher{
		Path:     abs,
		Debounce: DefaultDebounce,
		watcher:  w,
		changes:  make(chan struct{}, 1),
		errors:   make(chan error, 10),
		done:     make(chan struct{}),
	}, nil
}

func (fw *FileWatcher) Start() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.running {
		return fmt.Errorf("watcher already running")
	}
	dir := filepath.Dir(fw.Path)
	if err := fw.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	fw.running = true
	fw.wg.Add(1)
	go fw.loop()
	return nil
}

// Stop blocks until the event goroutine has exited, then closes the channels.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	if !fw.running {
		fw.mu.Unlock()
		return fw.watcher.Close()
	}
	fw.running = false
	fw.mu.Unlock()

	close(fw.done)
	if err := fw.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	fw.wg.Wait()
	close(fw.changes)
	close(fw.errors)
	return nil
}

// Changes emits once per debounced burst of events on Path.
func (fw *FileWatcher) Changes() <-chan struct{} { return fw.changes }

func (fw *FileWatcher) Errors() <-chan error { return fw.errors }

func (fw *FileWatcher) loop() {
	defer fw.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-fw.done:
			return

		case ev, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if !fw.relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(fw.Debounce)
			} else {
				timer.Reset(fw.Debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			select {
			case fw.changes <- struct{}{}:
			default:
				// a change is already pending
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			select {
			case fw.errors <- err:
			case <-fw.done:
				return
			}
		}
	}
}

func (fw *FileWatcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != fw.Path {
		return false
	}
	return ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) || ev.Has(fsnotify.Rename)
}

// Run calls onChange once at start and after every change until ctx is done.
// Watcher errors go to onError when it is set.
func Run(ctx context.Context, path string, onChange func(), onError func(error)) error {
	fw, err := NewFileWatcher(path)
	if err != nil {
		return err
	}
	if err := fw.Start(); err != nil {
		_ = fw.Stop()
		return err
	}
	defer fw.Stop()

	onChange()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-fw.Changes():
			onChange()
		case err := <-fw.Errors():
			if onError != nil {
				onError(err)
			}
		}
	}
}

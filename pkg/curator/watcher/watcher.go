// Package watcher delivers vault change notifications for ledger
// reconciliation. It wraps fsnotify with recursive directory watches
// and pairs rename events with their follow-up creates so callers see
// logical (old, new) renames instead of raw inotify noise.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jamesainslie/curator/pkg/curator/logging"
	"github.com/jamesainslie/curator/pkg/curator/vault"
)

// logger is the package-level logger for watcher operations.
var logger = logging.Get("watcher")

// defaultRenameWindow is how long a rename event waits for its matching
// create before being demoted to a removal.
const defaultRenameWindow = 200 * time.Millisecond

// EventType classifies a logical vault change.
type EventType int

const (
	// EventCreated is a new trackable file (or directory) appearing.
	EventCreated EventType = iota

	// EventRenamed is a move observed as rename + create of the same kind.
	EventRenamed

	// EventRemoved is a witnessed deletion, including renames that never
	// produced a matching create (moved out of the vault).
	EventRemoved
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventRenamed:
		return "renamed"
	case EventRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Event is a logical vault change with vault-relative paths.
type Event struct {
	Type    EventType
	Path    string
	OldPath string // set for EventRenamed
	IsDir   bool
}

// Watcher watches the vault recursively and emits logical events.
type Watcher struct {
	vault        *vault.Vault
	watcher      *fsnotify.Watcher
	dirs         map[string]bool // absolute watched directories
	mu           sync.Mutex
	closed       bool
	renameWindow time.Duration
}

// New creates a Watcher over the given vault.
func New(v *vault.Vault) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		vault:        v,
		watcher:      fsw,
		dirs:         make(map[string]bool),
		renameWindow: defaultRenameWindow,
	}, nil
}

// Watch adds watches for the vault root and all subdirectories.
// Symlinks are not followed to avoid loops.
func (w *Watcher) Watch() error {
	return filepath.WalkDir(w.vault.Root(), func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil //nolint:nilerr // Skip entries with errors
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		if d.IsDir() {
			return w.addWatch(path)
		}
		return nil
	})
}

// addWatch adds a single directory to the watch list.
func (w *Watcher) addWatch(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed || w.dirs[path] {
		return nil
	}

	if err := w.watcher.Add(path); err != nil {
		logger.Warn("failed to add watch", "path", path, "error", err)
		return err
	}

	w.dirs[path] = true
	return nil
}

// isWatchedDir reports whether the absolute path is a watched directory.
func (w *Watcher) isWatchedDir(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dirs[path]
}

// dropWatches removes watches for a directory and everything under it.
func (w *Watcher) dropWatches(root string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for path := range w.dirs {
		if path == root || isSubPath(path, root) {
			_ = w.watcher.Remove(path)
			delete(w.dirs, path)
		}
	}
}

// pending is a rename event awaiting its matching create.
type pending struct {
	absPath string
	isDir   bool
}

// Run starts the event loop, invoking emit for each logical event.
// It blocks until the context is cancelled.
func (w *Watcher) Run(ctx context.Context, emit func(Event)) {
	var hold *pending
	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}

	flush := func() {
		if hold == nil {
			return
		}
		w.emitRemoved(hold.absPath, hold.isDir, emit)
		hold = nil
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return

		case <-timer.C:
			// No create followed the rename: the file left the vault.
			flush()

		case event, ok := <-w.watcher.Events:
			if !ok {
				flush()
				return
			}

			switch {
			case event.Op&fsnotify.Rename != 0:
				flush()
				hold = &pending{
					absPath: event.Name,
					isDir:   w.isWatchedDir(event.Name),
				}
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.renameWindow)

			case event.Op&fsnotify.Create != 0:
				if hold != nil {
					if !timer.Stop() {
						select {
						case <-timer.C:
						default:
						}
					}
					prev := hold
					hold = nil
					if w.handleRenamePair(prev, event.Name, emit) {
						continue
					}
					// Types did not match: the rename was a removal after all.
					w.emitRemoved(prev.absPath, prev.isDir, emit)
				}
				w.handleCreate(event.Name, emit)

			case event.Op&fsnotify.Remove != 0:
				flush()
				w.handleRemove(event.Name, emit)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				flush()
				return
			}
			logger.Error("watcher error", "error", err)
		}
	}
}

// handleRenamePair tries to pair a held rename with a create event.
// It reports whether the pair was emitted as a logical rename.
func (w *Watcher) handleRenamePair(prev *pending, newAbs string, emit func(Event)) bool {
	info, err := os.Lstat(newAbs)
	if err != nil {
		return false
	}

	if prev.isDir != info.IsDir() {
		return false
	}

	oldRel, err := w.vault.Rel(prev.absPath)
	if err != nil {
		return false
	}
	newRel, err := w.vault.Rel(newAbs)
	if err != nil {
		return false
	}

	if info.IsDir() {
		w.dropWatches(prev.absPath)
		w.watchTree(newAbs)
		emit(Event{Type: EventRenamed, Path: newRel, OldPath: oldRel, IsDir: true})
		return true
	}

	// Only trackable documents concern the ledger.
	if !w.vault.Trackable(oldRel) && !w.vault.Trackable(newRel) {
		return true // consumed, but nothing to report
	}

	emit(Event{Type: EventRenamed, Path: newRel, OldPath: oldRel})
	return true
}

// handleCreate processes a create with no pending rename.
func (w *Watcher) handleCreate(absPath string, emit func(Event)) {
	info, err := os.Lstat(absPath)
	if err != nil {
		return // already gone
	}
	if info.Mode()&fs.ModeSymlink != 0 {
		return
	}

	rel, err := w.vault.Rel(absPath)
	if err != nil {
		return
	}

	if info.IsDir() {
		w.watchTree(absPath)
		emit(Event{Type: EventCreated, Path: rel, IsDir: true})
		return
	}

	if !info.Mode().IsRegular() || !w.vault.Trackable(rel) {
		return
	}
	emit(Event{Type: EventCreated, Path: rel})
}

// handleRemove processes a witnessed removal.
func (w *Watcher) handleRemove(absPath string, emit func(Event)) {
	w.emitRemoved(absPath, w.isWatchedDir(absPath), emit)
}

// emitRemoved emits a removal and drops watches for removed directories.
func (w *Watcher) emitRemoved(absPath string, isDir bool, emit func(Event)) {
	rel, err := w.vault.Rel(absPath)
	if err != nil {
		return
	}

	if isDir {
		w.dropWatches(absPath)
		emit(Event{Type: EventRemoved, Path: rel, IsDir: true})
		return
	}

	if !w.vault.Trackable(rel) {
		return
	}
	emit(Event{Type: EventRemoved, Path: rel})
}

// watchTree adds watches for a directory and any subdirectories that
// were created with it.
func (w *Watcher) watchTree(root string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil //nolint:nilerr // Skip entries with errors
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		if d.IsDir() {
			_ = w.addWatch(path)
		}
		return nil
	})
}

// Close closes the watcher and releases resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}

	w.closed = true
	w.dirs = make(map[string]bool)
	return w.watcher.Close()
}

// isSubPath checks if path is under parent directory.
func isSubPath(path, parent string) bool {
	return len(path) > len(parent) && path[:len(parent)+1] == parent+string(filepath.Separator)
}

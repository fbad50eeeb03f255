// Package ledger implements the snapshot ledger: a mutable file-status
// record set that stays consistent as the vault changes underneath it
// and as the user reviews files.
//
// A ledger owns at most one snapshot. Files absent from the snapshot
// resolve to StatusNew; the ledger never stores that value. Every
// mutation is applied fully in memory before being written through the
// store, so a concurrent reader always observes the post-mutation state.
package ledger

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jamesainslie/curator/pkg/curator/logging"
	"github.com/jamesainslie/curator/pkg/curator/types"
)

// logger is the package-level logger for ledger operations.
var logger = logging.Get("ledger")

// Sentinel errors for user-facing informational conditions. These are
// rendered as notices by callers, never as failures.
var (
	// ErrNoSnapshot indicates that no review campaign is active.
	ErrNoSnapshot = errors.New("no snapshot exists")

	// ErrSnapshotExists indicates a snapshot is already active; it must
	// be deleted before a new one can be created.
	ErrSnapshotExists = errors.New("a snapshot already exists")

	// ErrNothingToReview indicates no record currently has to_review status.
	ErrNothingToReview = errors.New("nothing left to review")

	// ErrRenameConflict indicates a rename reconciliation was rejected
	// because a record already exists at the destination path.
	ErrRenameConflict = errors.New("rename destination is already tracked")
)

// Store is the persistence provider for the ledger.
type Store interface {
	// Load returns the persisted snapshot (nil when none) and settings.
	Load() (*types.Snapshot, types.Settings, error)

	// Save writes the ledger. A nil snapshot persists "no campaign".
	Save(snap *types.Snapshot, settings types.Settings) error
}

// Observer receives a notification after a record's status changes.
// Observers are invoked synchronously, outside the ledger lock.
type Observer func(path string, status types.Status)

// Ledger holds the optional active snapshot plus settings, and mediates
// every mutation. It is safe for concurrent use: a single mutex guards
// the snapshot, and reads hand out copies.
type Ledger struct {
	mu        sync.Mutex
	store     Store
	snapshot  *types.Snapshot
	settings  types.Settings
	index     map[string]int // path -> position in snapshot.Files
	observers []Observer

	// randIntN is swappable for deterministic selection tests.
	randIntN func(n int) int
}

// Open loads the persisted ledger through the given store.
func Open(store Store) (*Ledger, error) {
	snap, settings, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}

	l := &Ledger{
		store:    store,
		snapshot: snap,
		settings: settings,
		randIntN: rand.IntN,
	}
	l.rebuildIndex()
	return l, nil
}

// Notify registers an observer for status-change notifications.
// Registration happens at construction time; there is no unregister.
func (l *Ledger) Notify(obs Observer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.observers = append(l.observers, obs)
}

// HasSnapshot reports whether a review campaign is active.
func (l *Ledger) HasSnapshot() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot != nil
}

// Snapshot returns a copy of the active snapshot, or nil when absent.
func (l *Ledger) Snapshot() *types.Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.snapshot == nil {
		return nil
	}
	snap := &types.Snapshot{
		ID:        l.snapshot.ID,
		CreatedAt: l.snapshot.CreatedAt,
		Files:     make([]types.Record, len(l.snapshot.Files)),
	}
	copy(snap.Files, l.snapshot.Files)
	return snap
}

// Settings returns the current settings.
func (l *Ledger) Settings() types.Settings {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.settings
}

// SetShowStatusBar updates the status bar preference and persists.
func (l *Ledger) SetShowStatusBar(show bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.settings.ShowStatusBar = show
	return l.persistLocked()
}

// Resolve returns the effective review status of a path. A path with no
// record resolves to StatusNew. ErrNoSnapshot is returned when no
// campaign is active; callers must treat that as "not applicable".
func (l *Ledger) Resolve(path string) (types.Status, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.snapshot == nil {
		return "", ErrNoSnapshot
	}
	if i, ok := l.index[path]; ok {
		return l.snapshot.Files[i].Status, nil
	}
	return types.StatusNew, nil
}

// Review marks a path as reviewed, creating a record if none exists.
// The returned bool reports whether a record was implicitly created.
// Reviewing an already-reviewed path is a state-wise no-op.
func (l *Ledger) Review(path string) (bool, error) {
	return l.setStatus(path, types.StatusReviewed)
}

// Unreview marks a path as to_review, creating a record if none exists.
func (l *Ledger) Unreview(path string) (bool, error) {
	return l.setStatus(path, types.StatusToReview)
}

// setStatus sets a path's stored status, appending a new record when the
// path is untracked. The ledger deliberately does not check that the
// path exists on disk: review state is independent of file liveness.
func (l *Ledger) setStatus(path string, status types.Status) (bool, error) {
	l.mu.Lock()

	if l.snapshot == nil {
		l.mu.Unlock()
		return false, ErrNoSnapshot
	}

	created := false
	if i, ok := l.index[path]; ok {
		l.snapshot.Files[i].Status = status
	} else {
		l.snapshot.Files = append(l.snapshot.Files, types.Record{Path: path, Status: status})
		l.index[path] = len(l.snapshot.Files) - 1
		created = true
	}

	err := l.persistLocked()
	l.mu.Unlock()

	if err != nil {
		return created, err
	}

	l.notifyAll(path, status)
	return created, nil
}

// ReconcileRename rewrites a tracked record's path in response to an
// external rename notification, preserving its status. An untracked old
// path is a no-op: new files need no migration. A rename onto a path
// that is already tracked is rejected with ErrRenameConflict so that no
// two records ever share a path; both records are kept.
func (l *Ledger) ReconcileRename(oldPath, newPath string) error {
	l.mu.Lock()

	if l.snapshot == nil {
		l.mu.Unlock()
		return nil
	}

	i, ok := l.index[oldPath]
	if !ok {
		l.mu.Unlock()
		return nil
	}

	if _, taken := l.index[newPath]; taken {
		l.mu.Unlock()
		logger.Warn("rename reconciliation conflict, keeping both records",
			"old", oldPath, "new", newPath)
		return fmt.Errorf("%w: %s -> %s", ErrRenameConflict, oldPath, newPath)
	}

	l.snapshot.Files[i].Path = newPath
	delete(l.index, oldPath)
	l.index[newPath] = i
	status := l.snapshot.Files[i].Status

	err := l.persistLocked()
	l.mu.Unlock()

	if err != nil {
		return err
	}

	l.notifyAll(newPath, status)
	return nil
}

// ReconcileDelete marks a tracked record as deleted in response to an
// external delete notification. The record is kept, not purged: the
// deletion was witnessed and is worth remembering. Untracked paths and
// absent snapshots are no-ops.
func (l *Ledger) ReconcileDelete(path string) error {
	l.mu.Lock()

	if l.snapshot == nil {
		l.mu.Unlock()
		return nil
	}

	i, ok := l.index[path]
	if !ok {
		l.mu.Unlock()
		return nil
	}

	l.snapshot.Files[i].Status = types.StatusDeleted

	err := l.persistLocked()
	l.mu.Unlock()

	if err != nil {
		return err
	}

	l.notifyAll(path, types.StatusDeleted)
	return nil
}

// PickRandom chooses uniformly among records with to_review status.
// Successive calls are independent; no selection state is carried.
// ErrNothingToReview is returned when the eligible subset is empty.
func (l *Ledger) PickRandom() (types.Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.snapshot == nil {
		return types.Record{}, ErrNoSnapshot
	}

	var eligible []types.Record
	for _, rec := range l.snapshot.Files {
		if rec.Status == types.StatusToReview {
			eligible = append(eligible, rec)
		}
	}

	if len(eligible) == 0 {
		return types.Record{}, ErrNothingToReview
	}

	return eligible[l.randIntN(len(eligible))], nil
}

// Evict removes a record outright. This is for stale references: the
// ledger points at a file that vanished through an unobserved external
// deletion, unlike ReconcileDelete which records a witnessed one.
// The returned bool reports whether a record was actually removed.
func (l *Ledger) Evict(path string) (bool, error) {
	l.mu.Lock()

	if l.snapshot == nil {
		l.mu.Unlock()
		return false, nil
	}

	i, ok := l.index[path]
	if !ok {
		l.mu.Unlock()
		return false, nil
	}

	l.snapshot.Files = append(l.snapshot.Files[:i], l.snapshot.Files[i+1:]...)
	l.rebuildIndex()

	err := l.persistLocked()
	l.mu.Unlock()

	if err != nil {
		return true, err
	}

	logger.Info("evicted stale record", "path", path)
	return true, nil
}

// CreateSnapshot starts a review campaign, seeding one to_review record
// per trackable file. It fails with ErrSnapshotExists when a campaign is
// already active; the caller must delete it first.
func (l *Ledger) CreateSnapshot(paths []string) (*types.Snapshot, error) {
	l.mu.Lock()

	if l.snapshot != nil {
		l.mu.Unlock()
		return nil, ErrSnapshotExists
	}

	snap := &types.Snapshot{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Files:     make([]types.Record, 0, len(paths)),
	}
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true
		snap.Files = append(snap.Files, types.Record{Path: p, Status: types.StatusToReview})
	}

	l.snapshot = snap
	l.rebuildIndex()

	err := l.persistLocked()
	copied := l.snapshotCopyLocked()
	l.mu.Unlock()

	if err != nil {
		return nil, err
	}

	logger.Info("snapshot created", "id", snap.ID, "files", len(snap.Files))
	return copied, nil
}

// AddNewFiles appends a to_review record for every path not yet tracked.
// Existing records of any status are left untouched, making the
// operation strictly additive and idempotent.
func (l *Ledger) AddNewFiles(paths []string) (int, error) {
	l.mu.Lock()

	if l.snapshot == nil {
		l.mu.Unlock()
		return 0, ErrNoSnapshot
	}

	added := 0
	for _, p := range paths {
		if _, ok := l.index[p]; ok {
			continue
		}
		l.snapshot.Files = append(l.snapshot.Files, types.Record{Path: p, Status: types.StatusToReview})
		l.index[p] = len(l.snapshot.Files) - 1
		added++
	}

	var err error
	if added > 0 {
		err = l.persistLocked()
	}
	l.mu.Unlock()

	if err != nil {
		return added, err
	}

	if added > 0 {
		logger.Info("added new files to snapshot", "count", added)
	}
	return added, nil
}

// DeleteSnapshot clears the active snapshot immediately. Use
// RequestDeleteSnapshot for the confirmation-gated flow.
func (l *Ledger) DeleteSnapshot() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.snapshot == nil {
		return ErrNoSnapshot
	}

	id := l.snapshot.ID
	l.snapshot = nil
	l.index = nil

	if err := l.persistLocked(); err != nil {
		return err
	}

	logger.Info("snapshot deleted", "id", id)
	return nil
}

// persistLocked writes the current state through the store.
// Must be called with l.mu held. Save errors propagate to the caller of
// the mutating operation; the in-memory state is already updated.
func (l *Ledger) persistLocked() error {
	if err := l.store.Save(l.snapshot, l.settings); err != nil {
		return fmt.Errorf("persisting ledger: %w", err)
	}
	return nil
}

// rebuildIndex recomputes the path index. Must be called with l.mu held.
func (l *Ledger) rebuildIndex() {
	if l.snapshot == nil {
		l.index = nil
		return
	}
	l.index = make(map[string]int, len(l.snapshot.Files))
	for i := range l.snapshot.Files {
		l.index[l.snapshot.Files[i].Path] = i
	}
}

// snapshotCopyLocked returns a copy of the snapshot. Must hold l.mu.
func (l *Ledger) snapshotCopyLocked() *types.Snapshot {
	if l.snapshot == nil {
		return nil
	}
	snap := &types.Snapshot{
		ID:        l.snapshot.ID,
		CreatedAt: l.snapshot.CreatedAt,
		Files:     make([]types.Record, len(l.snapshot.Files)),
	}
	copy(snap.Files, l.snapshot.Files)
	return snap
}

// notifyAll invokes observers outside the lock.
func (l *Ledger) notifyAll(path string, status types.Status) {
	l.mu.Lock()
	observers := make([]Observer, len(l.observers))
	copy(observers, l.observers)
	l.mu.Unlock()

	for _, obs := range observers {
		obs(path, status)
	}
}

// Package types provides core data types for the curator review tracker.
// It defines the review status enum, the per-file record, the snapshot
// that groups records into a review campaign, and the persisted settings.
package types

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Status is the review status of a file in the vault.
//
// Three values are storable in a snapshot; StatusNew is derived only:
// a file that exists in the vault but has no record resolves to new,
// and new is never written to disk.
type Status string

const (
	// StatusToReview marks a file that is tracked and awaiting review.
	StatusToReview Status = "to_review"

	// StatusReviewed marks a file the user has reviewed.
	StatusReviewed Status = "reviewed"

	// StatusDeleted marks a tracked file that was deleted from the vault
	// while the snapshot was active. The record is kept, not purged.
	StatusDeleted Status = "deleted"

	// StatusNew is the derived status of a vault file with no record.
	// It is never stored.
	StatusNew Status = "new"
)

// ErrInvalidStatus indicates that a status string could not be parsed.
var ErrInvalidStatus = errors.New("invalid status")

// ParseStatus parses a string into a storable Status.
// StatusNew is intentionally rejected: it only exists as a derived value.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusToReview:
		return StatusToReview, nil
	case StatusReviewed:
		return StatusReviewed, nil
	case StatusDeleted:
		return StatusDeleted, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

// Storable reports whether the status may be written to a snapshot.
func (s Status) Storable() bool {
	return s == StatusToReview || s == StatusReviewed || s == StatusDeleted
}

// String returns the status string.
func (s Status) String() string {
	return string(s)
}

// Record tracks the review status of a single vault file.
// Records are uniquely keyed by Path within a snapshot.
type Record struct {
	// Path is the vault-relative path to the file.
	Path string `json:"path"`

	// Status is the stored review status (never StatusNew).
	Status Status `json:"status"`
}

// Snapshot is the tracked set of vault files at a point in time,
// with per-file review status. A ledger owns at most one snapshot.
type Snapshot struct {
	// ID uniquely identifies the snapshot (for logging and reports).
	ID string `json:"id"`

	// CreatedAt is when the snapshot was taken. Immutable once set.
	CreatedAt time.Time `json:"createdAt"`

	// Files is the ordered list of tracked records.
	Files []Record `json:"files"`
}

// Age returns a human-readable age of the snapshot, e.g. "3 days ago".
func (s *Snapshot) Age() string {
	if s.CreatedAt.IsZero() {
		return "unknown"
	}
	return humanize.Time(s.CreatedAt)
}

// Count returns the number of records with the given status.
func (s *Snapshot) Count(status Status) int {
	n := 0
	for i := range s.Files {
		if s.Files[i].Status == status {
			n++
		}
	}
	return n
}

// Settings holds user-facing preferences persisted with the ledger.
type Settings struct {
	// ShowStatusBar toggles the summary footer in status output.
	ShowStatusBar bool `json:"showStatusBar"`
}

// DefaultSettings returns the settings used for a fresh ledger.
func DefaultSettings() Settings {
	return Settings{ShowStatusBar: true}
}

// Package store provides JSON persistence for the review ledger.
// The whole ledger is a single document written atomically via a temp
// file and rename, mirroring how the vault itself treats documents.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jamesainslie/curator/pkg/curator/logging"
	"github.com/jamesainslie/curator/pkg/curator/types"
)

// logger is the package-level logger for store operations.
var logger = logging.Get("store")

// Timestamp is a time.Time that serializes as an RFC 3339 string but
// also accepts an epoch-milliseconds number on load. Older ledgers
// written by other tooling stored the creation time as a raw number.
type Timestamp struct {
	time.Time
}

// MarshalJSON writes the timestamp as an RFC 3339 string.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

// UnmarshalJSON accepts either an RFC 3339 string or epoch milliseconds.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, perr := time.Parse(time.RFC3339Nano, s)
		if perr != nil {
			// Fall back to the second-resolution form
			parsed, perr = time.Parse(time.RFC3339, s)
		}
		if perr != nil {
			return fmt.Errorf("parsing timestamp %q: %w", s, perr)
		}
		t.Time = parsed
		return nil
	}

	ms, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("timestamp is neither RFC 3339 nor epoch millis: %s", data)
	}
	t.Time = time.UnixMilli(ms)
	return nil
}

// snapshotDoc is the serialized form of a snapshot.
type snapshotDoc struct {
	ID        string         `json:"id,omitempty"`
	CreatedAt Timestamp      `json:"createdAt"`
	Files     []types.Record `json:"files"`
}

// document is the serialized form of the whole ledger.
type document struct {
	Snapshot *snapshotDoc   `json:"snapshot,omitempty"`
	Settings types.Settings `json:"settings"`
}

// FileStore persists the ledger as a single JSON document on disk.
type FileStore struct {
	path string
}

// New creates a FileStore writing to the given path.
func New(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("store path cannot be empty")
	}
	return &FileStore{path: path}, nil
}

// Path returns the ledger file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the ledger document. A missing file is not an error: it
// returns a nil snapshot and default settings.
//
// Records that would violate the ledger invariants are dropped with a
// warning rather than failing the load: duplicate paths keep the first
// occurrence, and records with a non-storable status are skipped.
func (s *FileStore) Load() (*types.Snapshot, types.Settings, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, types.DefaultSettings(), nil
		}
		return nil, types.Settings{}, fmt.Errorf("reading ledger: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, types.Settings{}, fmt.Errorf("parsing ledger: %w", err)
	}

	if doc.Snapshot == nil {
		return nil, doc.Settings, nil
	}

	snap := &types.Snapshot{
		ID:        doc.Snapshot.ID,
		CreatedAt: doc.Snapshot.CreatedAt.Time,
	}

	seen := make(map[string]bool, len(doc.Snapshot.Files))
	for _, rec := range doc.Snapshot.Files {
		if seen[rec.Path] {
			logger.Warn("dropping duplicate record on load", "path", rec.Path)
			continue
		}
		if !rec.Status.Storable() {
			logger.Warn("dropping record with invalid status on load",
				"path", rec.Path, "status", rec.Status)
			continue
		}
		seen[rec.Path] = true
		snap.Files = append(snap.Files, rec)
	}

	return snap, doc.Settings, nil
}

// Save writes the ledger document atomically. A nil snapshot persists
// the "no campaign active" state.
func (s *FileStore) Save(snap *types.Snapshot, settings types.Settings) error {
	doc := document{Settings: settings}
	if snap != nil {
		doc.Snapshot = &snapshotDoc{
			ID:        snap.ID,
			CreatedAt: Timestamp{snap.CreatedAt},
			Files:     snap.Files,
		}
		if doc.Snapshot.Files == nil {
			doc.Snapshot.Files = []types.Record{}
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling ledger: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating ledger directory: %w", err)
	}

	// Write atomically using a temp file and rename
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("writing temp ledger: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("renaming temp ledger: %w", err)
	}

	return nil
}

package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jamesainslie/curator/pkg/curator/types"
)

func setupTestStore(t *testing.T) *FileStore {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "ledger.json"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("creates store with valid path", func(t *testing.T) {
		t.Parallel()

		s, err := New(filepath.Join(t.TempDir(), "ledger.json"))
		if err != nil {
			t.Fatalf("New() error = %v, want nil", err)
		}
		if s == nil {
			t.Fatal("New() returned nil")
		}
	})

	t.Run("returns error for empty path", func(t *testing.T) {
		t.Parallel()

		_, err := New("")
		if err == nil {
			t.Fatal("New() error = nil, want error for empty path")
		}
	})
}

func TestFileStore_Load(t *testing.T) {
	t.Parallel()

	t.Run("missing file yields nil snapshot and defaults", func(t *testing.T) {
		t.Parallel()
		s := setupTestStore(t)

		snap, settings, err := s.Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if snap != nil {
			t.Errorf("snapshot = %v, want nil", snap)
		}
		if !settings.ShowStatusBar {
			t.Error("settings.ShowStatusBar = false, want default true")
		}
	})

	t.Run("round-trips snapshot and settings", func(t *testing.T) {
		t.Parallel()
		s := setupTestStore(t)

		created := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
		snap := &types.Snapshot{
			ID:        "snap-1",
			CreatedAt: created,
			Files: []types.Record{
				{Path: "notes/a.md", Status: types.StatusToReview},
				{Path: "notes/b.md", Status: types.StatusReviewed},
			},
		}

		if err := s.Save(snap, types.Settings{ShowStatusBar: false}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		loaded, settings, err := s.Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if loaded == nil {
			t.Fatal("Load() snapshot = nil")
		}
		if !loaded.CreatedAt.Equal(created) {
			t.Errorf("CreatedAt = %v, want %v", loaded.CreatedAt, created)
		}
		if loaded.ID != "snap-1" {
			t.Errorf("ID = %q, want %q", loaded.ID, "snap-1")
		}
		if len(loaded.Files) != 2 {
			t.Fatalf("len(Files) = %d, want 2", len(loaded.Files))
		}
		if loaded.Files[1].Status != types.StatusReviewed {
			t.Errorf("Files[1].Status = %v, want reviewed", loaded.Files[1].Status)
		}
		if settings.ShowStatusBar {
			t.Error("settings.ShowStatusBar = true, want false")
		}
	})

	t.Run("accepts epoch millis createdAt", func(t *testing.T) {
		t.Parallel()
		s := setupTestStore(t)

		raw := `{
  "snapshot": {
    "createdAt": 1700000000000,
    "files": [{"path": "a.md", "status": "to_review"}]
  },
  "settings": {"showStatusBar": true}
}`
		if err := os.WriteFile(s.Path(), []byte(raw), 0o644); err != nil {
			t.Fatalf("writing fixture: %v", err)
		}

		snap, _, err := s.Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		want := time.UnixMilli(1700000000000)
		if !snap.CreatedAt.Equal(want) {
			t.Errorf("CreatedAt = %v, want %v", snap.CreatedAt, want)
		}
	})

	t.Run("drops duplicate and invalid records", func(t *testing.T) {
		t.Parallel()
		s := setupTestStore(t)

		raw := `{
  "snapshot": {
    "createdAt": "2026-03-14T09:26:53Z",
    "files": [
      {"path": "a.md", "status": "to_review"},
      {"path": "a.md", "status": "reviewed"},
      {"path": "b.md", "status": "new"},
      {"path": "c.md", "status": "deleted"}
    ]
  },
  "settings": {}
}`
		if err := os.WriteFile(s.Path(), []byte(raw), 0o644); err != nil {
			t.Fatalf("writing fixture: %v", err)
		}

		snap, _, err := s.Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if len(snap.Files) != 2 {
			t.Fatalf("len(Files) = %d, want 2", len(snap.Files))
		}
		if snap.Files[0].Path != "a.md" || snap.Files[0].Status != types.StatusToReview {
			t.Errorf("Files[0] = %+v, want first a.md record kept", snap.Files[0])
		}
		if snap.Files[1].Path != "c.md" {
			t.Errorf("Files[1].Path = %q, want c.md", snap.Files[1].Path)
		}
	})

	t.Run("rejects malformed document", func(t *testing.T) {
		t.Parallel()
		s := setupTestStore(t)

		if err := os.WriteFile(s.Path(), []byte("{not json"), 0o644); err != nil {
			t.Fatalf("writing fixture: %v", err)
		}

		if _, _, err := s.Load(); err == nil {
			t.Fatal("Load() error = nil, want parse error")
		}
	})
}

func TestFileStore_Save(t *testing.T) {
	t.Parallel()

	t.Run("nil snapshot persists no-campaign state", func(t *testing.T) {
		t.Parallel()
		s := setupTestStore(t)

		if err := s.Save(nil, types.DefaultSettings()); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		snap, settings, err := s.Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if snap != nil {
			t.Errorf("snapshot = %v, want nil", snap)
		}
		if !settings.ShowStatusBar {
			t.Error("settings not round-tripped")
		}
	})

	t.Run("leaves no temp file behind", func(t *testing.T) {
		t.Parallel()
		s := setupTestStore(t)

		if err := s.Save(&types.Snapshot{CreatedAt: time.Now()}, types.Settings{}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		if _, err := os.Stat(s.Path() + ".tmp"); !os.IsNotExist(err) {
			t.Errorf("temp file still present: %v", err)
		}
	})

	t.Run("creates parent directories", func(t *testing.T) {
		t.Parallel()

		s, err := New(filepath.Join(t.TempDir(), "nested", "dir", "ledger.json"))
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}

		if err := s.Save(nil, types.Settings{}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	})
}

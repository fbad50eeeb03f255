package output

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/curator/pkg/curator/types"
)

// sampleReport builds a report with one file of each status.
func sampleReport() *Report {
	return &Report{
		HasSnapshot: true,
		SnapshotID:  "3f2a9c1e-0000-0000-0000-000000000000",
		CreatedAt:   time.Now().Add(-48 * time.Hour),
		Age:         "2 days ago",
		Vault:       "/home/user/vault",
		Files: []FileEntry{
			{Path: "notes/alpha.md", Status: types.StatusToReview},
			{Path: "notes/beta.md", Status: types.StatusReviewed},
			{Path: "notes/gone.md", Status: types.StatusDeleted},
		},
		Counts:        Counts{ToReview: 1, Reviewed: 1, Deleted: 1, Untracked: 2},
		ShowStatusBar: true,
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()

	reg.Register("test", func() Formatter {
		return &PlainFormatter{}
	})

	f, err := reg.Get("test")
	require.NoError(t, err)
	assert.NotNil(t, f)

	_, err = reg.Get("missing")
	assert.Error(t, err)

	assert.Equal(t, []string{"test"}, reg.Available())
}

func TestDefaultRegistry_HasAllFormatters(t *testing.T) {
	for _, name := range []string{"pretty", "plain", "json", "jsonl", "yaml", "tsv", "csv", "markdown"} {
		f, err := Get(name)
		require.NoError(t, err, "formatter %q not registered", name)
		assert.NotNil(t, f)
	}
}

func TestReport_Tracked(t *testing.T) {
	r := sampleReport()
	assert.Equal(t, 3, r.Tracked())
}

func TestBuildReport(t *testing.T) {
	t.Run("nil snapshot", func(t *testing.T) {
		r := BuildReport(nil, "/vault", 0, types.DefaultSettings())
		assert.False(t, r.HasSnapshot)
		assert.Equal(t, "/vault", r.Vault)
		assert.Empty(t, r.Files)
	})

	t.Run("counts and sorts files", func(t *testing.T) {
		snap := &types.Snapshot{
			ID:        "snap-1",
			CreatedAt: time.Now().Add(-time.Hour),
			Files: []types.Record{
				{Path: "z.md", Status: types.StatusToReview},
				{Path: "a.md", Status: types.StatusReviewed},
				{Path: "m.md", Status: types.StatusToReview},
				{Path: "x.md", Status: types.StatusDeleted},
			},
		}

		r := BuildReport(snap, "/vault", 5, types.DefaultSettings())
		require.True(t, r.HasSnapshot)
		assert.Equal(t, "snap-1", r.SnapshotID)
		assert.NotEmpty(t, r.Age)
		assert.True(t, r.ShowStatusBar)

		assert.Equal(t, 2, r.Counts.ToReview)
		assert.Equal(t, 1, r.Counts.Reviewed)
		assert.Equal(t, 1, r.Counts.Deleted)
		assert.Equal(t, 5, r.Counts.Untracked)

		paths := make([]string, len(r.Files))
		for i, f := range r.Files {
			paths[i] = f.Path
		}
		assert.Equal(t, []string{"a.md", "m.md", "x.md", "z.md"}, paths)
	})

	t.Run("carries the status bar setting", func(t *testing.T) {
		r := BuildReport(nil, "/vault", 0, types.Settings{ShowStatusBar: false})
		assert.False(t, r.ShowStatusBar)
	})
}

func TestAllFormatters_EmptyReport(t *testing.T) {
	// Every formatter must cope with a report that has no snapshot.
	empty := &Report{Vault: "/vault"}

	for _, name := range Available() {
		t.Run(name, func(t *testing.T) {
			f, err := Get(name)
			require.NoError(t, err)

			var buf bytes.Buffer
			assert.NoError(t, f.Format(&buf, empty))
		})
	}
}

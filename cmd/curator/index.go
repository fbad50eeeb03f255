package main

import (
	"context"
	"os"

	"github.com/jamesainslie/curator/pkg/curator/index"
)

// refreshIndexFromVault rebuilds the index from a full vault walk.
func refreshIndexFromVault(ctx context.Context, a *app, ix *index.Index) error {
	paths, err := a.vault.ListTrackableFiles(ctx)
	if err != nil {
		return err
	}

	entries := make([]*index.Entry, 0, len(paths))
	for _, rel := range paths {
		entry := &index.Entry{Path: rel}
		if info, err := os.Lstat(a.vault.Abs(rel)); err == nil {
			entry.Size = info.Size()
			entry.ModTime = info.ModTime().Unix()
		}
		entries = append(entries, entry)
	}

	return ix.Refresh(entries)
}

// vaultFileSet returns the current trackable file set, preferring the
// index cache and falling back to a fresh vault walk (which also
// repopulates the index).
func vaultFileSet(ctx context.Context, a *app, ix *index.Index) ([]string, error) {
	if ix != nil {
		refreshed, err := ix.RefreshedAt()
		if err == nil && !refreshed.IsZero() {
			return ix.List()
		}
	}

	paths, err := a.vault.ListTrackableFiles(ctx)
	if err != nil {
		return nil, err
	}

	if ix != nil {
		if err := refreshIndexFromVault(ctx, a, ix); err != nil {
			printVerbose("vault index refresh failed: %v", err)
		}
	}
	return paths, nil
}

// countUntracked reports how many vault files are absent from the
// given set of tracked paths.
func countUntracked(vaultFiles []string, tracked map[string]bool) int {
	n := 0
	for _, p := range vaultFiles {
		if !tracked[p] {
			n++
		}
	}
	return n
}

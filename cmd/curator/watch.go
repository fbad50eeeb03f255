package main

import (
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/curator/pkg/curator/index"
	"github.com/jamesainslie/curator/pkg/curator/ledger"
	"github.com/jamesainslie/curator/pkg/curator/types"
	"github.com/jamesainslie/curator/pkg/curator/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Track vault changes live",
	Long: `Watch the vault and reconcile the snapshot as files change.

Renamed files keep their review status under the new path. Deleted
files are marked deleted but stay in the snapshot. New files are noted
in the vault index; track them with 'curator snapshot add'.

Runs until interrupted with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// runWatch wires filesystem events into ledger reconciliation.
func runWatch(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if !a.ledger.HasSnapshot() {
		printError("No snapshot. Run 'curator snapshot create' first.")
		return ledger.ErrNoSnapshot
	}

	ix, err := a.openIndex()
	if err != nil {
		printVerbose("vault index unavailable: %v", err)
		ix = nil
	} else {
		defer ix.Close()
	}

	w, err := watcher.New(a.vault)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Watch(); err != nil {
		return err
	}

	// Start from a fresh view of the vault.
	if ix != nil {
		if err := refreshIndexFromVault(cmd.Context(), a, ix); err != nil {
			printVerbose("vault index refresh failed: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Reconciliation results surface through the ledger's notification
	// channel rather than ad-hoc prints in the event handler.
	a.ledger.Notify(func(path string, status types.Status) {
		printInfo("%s", formatStatusChange(path, status))
	})

	printInfo("Watching %s (Ctrl-C to stop)", a.vault.Root())

	w.Run(ctx, func(event watcher.Event) {
		handleWatchEvent(a, ix, event)
	})

	printInfo("Stopped")
	return nil
}

// handleWatchEvent applies one filesystem event to the ledger and index.
func handleWatchEvent(a *app, ix *index.Index, event watcher.Event) {
	printVerbose("%s %s", event.Type, event.Path)

	switch event.Type {
	case watcher.EventCreated:
		if event.IsDir {
			return
		}
		if ix != nil {
			_ = ix.Put(&index.Entry{Path: event.Path})
		}

	case watcher.EventRenamed:
		if event.IsDir {
			renameTrackedDir(a, ix, event.OldPath, event.Path)
			return
		}
		if err := a.ledger.ReconcileRename(event.OldPath, event.Path); err != nil {
			reportReconcileError(err, event.OldPath, event.Path)
		}
		if ix != nil {
			_ = ix.Delete(event.OldPath)
			_ = ix.Put(&index.Entry{Path: event.Path})
		}

	case watcher.EventRemoved:
		if event.IsDir {
			removeTrackedDir(a, ix, event.Path)
			return
		}
		if err := a.ledger.ReconcileDelete(event.Path); err != nil {
			printError("reconciling delete of %s: %v", event.Path, err)
		}
		if ix != nil {
			_ = ix.Delete(event.Path)
		}
	}
}

// renameTrackedDir moves every tracked record under the old directory
// to the new one.
func renameTrackedDir(a *app, ix *index.Index, oldDir, newDir string) {
	snap := a.ledger.Snapshot()
	if snap == nil {
		return
	}

	prefix := oldDir + "/"
	for _, rec := range snap.Files {
		if !strings.HasPrefix(rec.Path, prefix) {
			continue
		}
		newPath := newDir + "/" + strings.TrimPrefix(rec.Path, prefix)
		if err := a.ledger.ReconcileRename(rec.Path, newPath); err != nil {
			reportReconcileError(err, rec.Path, newPath)
		}
	}

	if ix != nil {
		_ = ix.DeletePrefix(oldDir)
		// Re-listing the moved tree is cheaper than tracking each entry.
		for _, rec := range a.ledger.Snapshot().Files {
			if strings.HasPrefix(rec.Path, newDir+"/") {
				_ = ix.Put(&index.Entry{Path: rec.Path})
			}
		}
	}
}

// removeTrackedDir marks every tracked record under the directory deleted.
func removeTrackedDir(a *app, ix *index.Index, dir string) {
	snap := a.ledger.Snapshot()
	if snap == nil {
		return
	}

	prefix := dir + "/"
	for _, rec := range snap.Files {
		if !strings.HasPrefix(rec.Path, prefix) {
			continue
		}
		if err := a.ledger.ReconcileDelete(rec.Path); err != nil {
			printError("reconciling delete of %s: %v", rec.Path, err)
		}
	}

	if ix != nil {
		_ = ix.DeletePrefix(dir)
	}
}

// formatStatusChange renders one ledger status change for watch output.
func formatStatusChange(path string, status types.Status) string {
	switch status {
	case types.StatusDeleted:
		return fmt.Sprintf("deleted   %s", path)
	case types.StatusReviewed:
		return fmt.Sprintf("reviewed  %s", path)
	default:
		return fmt.Sprintf("to review %s", path)
	}
}

// reportReconcileError surfaces rename conflicts without stopping the
// watch loop.
func reportReconcileError(err error, oldPath, newPath string) {
	if errors.Is(err, ledger.ErrRenameConflict) {
		printError("rename %s -> %s conflicts with an existing record; both kept", oldPath, newPath)
		return
	}
	printError("reconciling rename %s -> %s: %v", oldPath, newPath, err)
}

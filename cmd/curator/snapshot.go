package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/curator/pkg/curator/ledger"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage the vault snapshot",
	Long: `Manage the snapshot of vault files tracked for review.

A snapshot records every trackable file in the vault as awaiting
review. Files created after the snapshot are not tracked until you
run 'curator snapshot add'.`,
}

var snapshotCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Snapshot the vault",
	Long: `Record every trackable vault file as awaiting review.

Fails if a snapshot already exists; delete it first with
'curator snapshot delete'.`,
	Args: cobra.NoArgs,
	RunE: runSnapshotCreate,
}

var snapshotAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add new vault files to the snapshot",
	Long: `Scan the vault and add files that appeared after the snapshot
was taken. Existing records keep their review status.`,
	Args: cobra.NoArgs,
	RunE: runSnapshotAdd,
}

var snapshotDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the snapshot",
	Long: `Delete the snapshot and all tracked review state.

Asks for confirmation unless --yes is given.`,
	Args: cobra.NoArgs,
	RunE: runSnapshotDelete,
}

func init() {
	snapshotDeleteCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")

	snapshotCmd.AddCommand(snapshotCreateCmd)
	snapshotCmd.AddCommand(snapshotAddCmd)
	snapshotCmd.AddCommand(snapshotDeleteCmd)
	rootCmd.AddCommand(snapshotCmd)
}

// runSnapshotCreate records the current vault contents as a snapshot.
func runSnapshotCreate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	paths, err := a.vault.ListTrackableFiles(cmd.Context())
	if err != nil {
		return fmt.Errorf("scanning vault: %w", err)
	}

	snap, err := a.ledger.CreateSnapshot(paths)
	if err != nil {
		if errors.Is(err, ledger.ErrSnapshotExists) {
			printError("A snapshot already exists. Delete it first with 'curator snapshot delete'.")
			return err
		}
		return err
	}

	refreshIndex(cmd.Context(), a)

	printInfo("Snapshot created: %d files to review", len(snap.Files))
	return nil
}

// runSnapshotAdd augments the snapshot with files created since it was taken.
func runSnapshotAdd(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if !a.ledger.HasSnapshot() {
		printError("No snapshot. Run 'curator snapshot create' first.")
		return ledger.ErrNoSnapshot
	}

	paths, err := a.vault.ListTrackableFiles(cmd.Context())
	if err != nil {
		return fmt.Errorf("scanning vault: %w", err)
	}

	added, err := a.ledger.AddNewFiles(paths)
	if err != nil {
		return err
	}

	refreshIndex(cmd.Context(), a)

	if added == 0 {
		printInfo("No new files found")
	} else {
		printInfo("Added %d new files to review", added)
	}
	return nil
}

// runSnapshotDelete removes the snapshot after confirmation.
func runSnapshotDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	pending, err := a.ledger.RequestDeleteSnapshot()
	if err != nil {
		if errors.Is(err, ledger.ErrNoSnapshot) {
			printInfo("No snapshot to delete")
			return nil
		}
		return err
	}

	approve, _ := cmd.Flags().GetBool("yes")
	if !approve {
		approve = confirmPrompt("Delete the snapshot and all review state?")
	}

	outcome, err := pending.Resolve(approve)
	if err != nil {
		return err
	}

	switch outcome {
	case ledger.OutcomeDeleted:
		printInfo("Snapshot deleted")
	case ledger.OutcomeCancelled:
		printInfo("Cancelled")
	}
	return nil
}

// confirmPrompt asks a yes/no question on stdin.
func confirmPrompt(question string) bool {
	fmt.Printf("%s [y/N]: ", question)

	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// refreshIndex rebuilds the vault index cache after a snapshot change.
// Index failures are logged, never fatal: the cache is advisory.
func refreshIndex(ctx context.Context, a *app) {
	ix, err := a.openIndex()
	if err != nil {
		printVerbose("vault index unavailable: %v", err)
		return
	}
	defer ix.Close()

	if err := refreshIndexFromVault(ctx, a, ix); err != nil {
		printVerbose("vault index refresh failed: %v", err)
	}
}

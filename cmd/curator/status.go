package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/curator/pkg/curator/output"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show snapshot and review status",
	Long: `Display the snapshot, per-status file counts, and the review
state of every tracked file.

Use -o to select the output format:
  curator status -o json
  curator status -o plain | grep to_review`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// runStatus builds and prints the status report.
func runStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	report := buildStatusReport(cmd, a)

	formatter, err := output.Get(viper.GetString("output"))
	if err != nil {
		return fmt.Errorf("%w (available: %v)", err, output.Available())
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, report); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	fmt.Print(buf.String())
	return nil
}

// buildStatusReport assembles the report, counting untracked vault
// files via the index when it is available.
func buildStatusReport(cmd *cobra.Command, a *app) *output.Report {
	snap := a.ledger.Snapshot()

	untracked := 0
	var warnings []string

	if snap != nil {
		ix, err := a.openIndex()
		if err != nil {
			warnings = append(warnings, "vault index unavailable")
			printVerbose("vault index unavailable: %v", err)
		} else {
			defer ix.Close()
		}

		vaultFiles, err := vaultFileSet(cmd.Context(), a, ix)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("vault scan failed: %v", err))
		} else {
			tracked := make(map[string]bool, len(snap.Files))
			for _, rec := range snap.Files {
				tracked[rec.Path] = true
			}
			untracked = countUntracked(vaultFiles, tracked)
		}
	}

	report := output.BuildReport(snap, a.vault.Root(), untracked, a.ledger.Settings())
	report.Warnings = warnings
	return report
}

package main

import (
	"github.com/spf13/cobra"
)

var reviewCmd = &cobra.Command{
	Use:   "review PATH...",
	Short: "Mark files as reviewed",
	Long: `Mark one or more vault files as reviewed.

Paths are relative to the vault root. Files not yet tracked by the
snapshot are added as they are marked.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReview,
}

var unreviewCmd = &cobra.Command{
	Use:   "unreview PATH...",
	Short: "Mark files as awaiting review",
	Long: `Return one or more vault files to the to-review state.

Paths are relative to the vault root.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUnreview,
}

func init() {
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(unreviewCmd)
}

// runReview marks the given paths reviewed.
func runReview(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	for _, path := range args {
		created, err := a.ledger.Review(path)
		if err != nil {
			return err
		}
		if created {
			printVerbose("tracked new file %s", path)
		}
		printInfo("reviewed  %s", path)
	}
	return nil
}

// runUnreview returns the given paths to the to-review state.
func runUnreview(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	for _, path := range args {
		created, err := a.ledger.Unreview(path)
		if err != nil {
			return err
		}
		if created {
			printVerbose("tracked new file %s", path)
		}
		printInfo("to review %s", path)
	}
	return nil
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/jamesainslie/curator/cmd/curator/tui"
)

// runReviewSession launches the interactive TUI review session.
func runReviewSession(cmd *cobra.Command) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	return tui.Run(tui.Options{
		Ledger:    a.ledger,
		VaultPath: a.vault.Root(),
	})
}

package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/curator/pkg/curator/ledger"
)

var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Pick a random file awaiting review",
	Long: `Select a file awaiting review, uniformly at random, and print its
vault-relative path.

Records whose file has vanished from the vault are evicted from the
snapshot during selection, so the result always names a file that
exists.

With --open, the file is opened in $VISUAL or $EDITOR.`,
	Args: cobra.NoArgs,
	RunE: runRandom,
}

func init() {
	randomCmd.Flags().Bool("open", false, "open the picked file in your editor")
	rootCmd.AddCommand(randomCmd)
}

// runRandom picks an unreviewed file, evicting stale records until the
// selection resolves to a real file.
func runRandom(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if !a.ledger.HasSnapshot() {
		printError("No snapshot. Run 'curator snapshot create' first.")
		return ledger.ErrNoSnapshot
	}

	for {
		rec, err := a.ledger.PickRandom()
		if err != nil {
			if errors.Is(err, ledger.ErrNothingToReview) {
				printInfo("Nothing left to review")
				return nil
			}
			return err
		}

		if a.vault.Resolve(rec.Path) {
			fmt.Println(rec.Path)
			if open, _ := cmd.Flags().GetBool("open"); open {
				return openInEditor(a.vault.Abs(rec.Path))
			}
			return nil
		}

		// The file is gone; drop the record and draw again.
		printInfo("%s", evictionNotice(rec.Path))
		if _, err := a.ledger.Evict(rec.Path); err != nil {
			return err
		}
	}
}

// evictionNotice explains why a stale record was dropped during selection.
func evictionNotice(path string) string {
	return fmt.Sprintf("Skipping %s: missing from the vault, removed from the snapshot", path)
}

// openInEditor opens a file in the user's preferred editor.
func openInEditor(path string) error {
	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}

	editorCmd := exec.Command(editor, path)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("editor command failed: %w", err)
	}
	return nil
}

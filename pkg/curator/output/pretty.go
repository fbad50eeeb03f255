package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jamesainslie/curator/pkg/curator/types"
)

// PrettyFormatter formats output with colors and styling using lipgloss.
// It produces a visually appealing output suitable for terminal display.
type PrettyFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, r *Report) error {
	header := f.formatHeader(r)
	w.WriteString(header)
	w.WriteString("\n")

	if r.HasSnapshot {
		table := f.formatTable(r)
		w.WriteString(table)

		// The summary footer is the "status bar" of the settings.
		if r.ShowStatusBar {
			footer := f.formatFooter(r)
			w.WriteString(footer)
		}
	}

	if len(r.Warnings) > 0 {
		warnings := f.formatWarnings(r.Warnings)
		w.WriteString("\n")
		w.WriteString(warnings)
	}

	return nil
}

// formatHeader builds the header box with snapshot metadata.
func (f *PrettyFormatter) formatHeader(r *Report) string {
	var lines []string

	vaultLabel := LabelStyle.Render("Vault:")
	vaultValue := ValueStyle.Render(r.Vault)
	lines = append(lines, fmt.Sprintf("%s %s", vaultLabel, vaultValue))

	if !r.HasSnapshot {
		lines = append(lines, MutedStyle.Render("No snapshot. Run 'curator snapshot create' to start."))
		return HeaderBox.Render(strings.Join(lines, "\n"))
	}

	snapLabel := LabelStyle.Render("Snapshot:")
	snapValue := ValueStyle.Render(shortID(r.SnapshotID))
	ageValue := MutedStyle.Render("taken " + r.Age)
	lines = append(lines, fmt.Sprintf("%s %s  %s", snapLabel, snapValue, ageValue))

	return HeaderBox.Render(strings.Join(lines, "\n"))
}

// formatTable builds the file table with STATUS and PATH columns.
func (f *PrettyFormatter) formatTable(r *Report) string {
	if len(r.Files) == 0 {
		return MutedStyle.Render("  No files tracked\n")
	}

	var sb strings.Builder

	statusHeader := TableHeaderStyle.Render("STATUS")
	pathHeader := TableHeaderStyle.Render("PATH")
	sb.WriteString(fmt.Sprintf("  %s  %s\n", statusHeader, pathHeader))

	for _, file := range r.Files {
		statusStr := statusStyle(file.Status).Render(padRight(string(file.Status), statusWidth))
		pathStr := PathStyle.Render(file.Path)
		sb.WriteString(fmt.Sprintf("  %s  %s\n", statusStr, pathStr))
	}

	return sb.String()
}

// statusWidth fits the longest status name, "to_review".
const statusWidth = 9

// statusStyle picks the display style for a review status.
func statusStyle(s types.Status) lipgloss.Style {
	switch s {
	case types.StatusReviewed:
		return SuccessStyle
	case types.StatusToReview:
		return WarningStyle
	case types.StatusDeleted:
		return ErrorStyle
	default:
		return MutedStyle
	}
}

// formatFooter builds the footer box with per-status counts.
func (f *PrettyFormatter) formatFooter(r *Report) string {
	var parts []string

	toReviewLabel := LabelStyle.Render("To review:")
	toReviewValue := WarningStyle.Render(fmt.Sprintf("%d", r.Counts.ToReview))
	parts = append(parts, fmt.Sprintf("%s %s", toReviewLabel, toReviewValue))

	reviewedLabel := LabelStyle.Render("Reviewed:")
	reviewedValue := SuccessStyle.Render(fmt.Sprintf("%d", r.Counts.Reviewed))
	parts = append(parts, fmt.Sprintf("%s %s", reviewedLabel, reviewedValue))

	if r.Counts.Deleted > 0 {
		deletedLabel := LabelStyle.Render("Deleted:")
		deletedValue := ErrorStyle.Render(fmt.Sprintf("%d", r.Counts.Deleted))
		parts = append(parts, fmt.Sprintf("%s %s", deletedLabel, deletedValue))
	}

	if r.Counts.Untracked > 0 {
		untrackedLabel := LabelStyle.Render("Untracked:")
		untrackedValue := ValueStyle.Render(fmt.Sprintf("%d", r.Counts.Untracked))
		parts = append(parts, fmt.Sprintf("%s %s", untrackedLabel, untrackedValue))
	}

	content := strings.Join(parts, "  ")
	return FooterBox.Render(content)
}

// formatWarnings builds a warning block.
func (f *PrettyFormatter) formatWarnings(warnings []string) string {
	var sb strings.Builder

	titleStyle := WarningStyle.Bold(true)
	sb.WriteString(titleStyle.Render("Warnings:"))
	sb.WriteString("\n")

	for _, warning := range warnings {
		sb.WriteString(WarningStyle.Render("  " + warning))
		sb.WriteString("\n")
	}

	return sb.String()
}

// shortID truncates a snapshot UUID for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// padRight pads a string with spaces on the right to achieve the desired width.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{}
	})
}

// Ensure PrettyFormatter implements Formatter.
var _ Formatter = (*PrettyFormatter)(nil)

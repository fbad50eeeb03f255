package output

import (
	"sort"

	"github.com/dustin/go-humanize"

	"github.com/jamesainslie/curator/pkg/curator/types"
)

// BuildReport assembles a Report from a snapshot. The untracked count
// comes from the vault index and is zero when the index is unavailable.
// A nil snapshot yields a report with HasSnapshot false.
func BuildReport(snap *types.Snapshot, vaultPath string, untracked int, settings types.Settings) *Report {
	report := &Report{
		Vault:         vaultPath,
		ShowStatusBar: settings.ShowStatusBar,
	}

	if snap == nil {
		return report
	}

	report.HasSnapshot = true
	report.SnapshotID = snap.ID
	report.CreatedAt = snap.CreatedAt
	report.Age = humanize.Time(snap.CreatedAt)
	report.Counts.Untracked = untracked

	report.Files = make([]FileEntry, 0, len(snap.Files))
	for _, rec := range snap.Files {
		report.Files = append(report.Files, FileEntry{Path: rec.Path, Status: rec.Status})

		switch rec.Status {
		case types.StatusToReview:
			report.Counts.ToReview++
		case types.StatusReviewed:
			report.Counts.Reviewed++
		case types.StatusDeleted:
			report.Counts.Deleted++
		default:
			logger.Warn("unexpected status in snapshot", "path", rec.Path, "status", rec.Status)
		}
	}

	sort.Slice(report.Files, func(i, j int) bool {
		return report.Files[i].Path < report.Files[j].Path
	})

	return report
}

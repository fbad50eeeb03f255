package output

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/jamesainslie/curator/pkg/curator/types"
)

// jsonOutput represents the full JSON output structure.
type jsonOutput struct {
	Files []jsonFile `json:"files"`
	Meta  jsonMeta   `json:"meta"`
}

// jsonFile represents a tracked file in JSON output.
type jsonFile struct {
	Path   string       `json:"path"`
	Status types.Status `json:"status"`
}

// jsonMeta represents snapshot metadata in JSON output.
type jsonMeta struct {
	HasSnapshot bool      `json:"has_snapshot"`
	SnapshotID  string    `json:"snapshot_id,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	Age         string    `json:"age,omitempty"`
	Vault       string    `json:"vault"`
	ToReview    int       `json:"to_review"`
	Reviewed    int       `json:"reviewed"`
	Deleted     int       `json:"deleted"`
	Untracked   int       `json:"untracked"`
	Warnings    []string  `json:"warnings,omitempty"`
}

// JSONFormatter formats output as a single indented JSON object.
// It produces a complete JSON document with files and meta sections.
type JSONFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONFormatter) Format(w *bytes.Buffer, r *Report) error {
	output := f.buildOutput(r)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// buildOutput converts Report to the JSON output structure.
func (f *JSONFormatter) buildOutput(r *Report) jsonOutput {
	files := make([]jsonFile, len(r.Files))
	for i, file := range r.Files {
		files[i] = jsonFile{
			Path:   file.Path,
			Status: file.Status,
		}
	}

	meta := jsonMeta{
		HasSnapshot: r.HasSnapshot,
		SnapshotID:  r.SnapshotID,
		CreatedAt:   r.CreatedAt,
		Age:         r.Age,
		Vault:       r.Vault,
		ToReview:    r.Counts.ToReview,
		Reviewed:    r.Counts.Reviewed,
		Deleted:     r.Counts.Deleted,
		Untracked:   r.Counts.Untracked,
		Warnings:    r.Warnings,
	}

	return jsonOutput{
		Files: files,
		Meta:  meta,
	}
}

func init() {
	Register("json", func() Formatter {
		return &JSONFormatter{}
	})
}

// Ensure JSONFormatter implements Formatter.
var _ Formatter = (*JSONFormatter)(nil)

// JSONLFormatter formats output as newline-delimited JSON (one object per line).
// Each file is written as a compact JSON object on its own line.
// This format is suitable for streaming processing with tools like jq.
type JSONLFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONLFormatter) Format(w *bytes.Buffer, r *Report) error {
	for _, file := range r.Files {
		jf := jsonFile{
			Path:   file.Path,
			Status: file.Status,
		}

		data, err := json.Marshal(jf)
		if err != nil {
			return err
		}
		w.Write(data)
		w.WriteByte('\n')
	}
	return nil
}

func init() {
	Register("jsonl", func() Formatter {
		return &JSONLFormatter{}
	})
}

// Ensure JSONLFormatter implements Formatter.
var _ Formatter = (*JSONLFormatter)(nil)

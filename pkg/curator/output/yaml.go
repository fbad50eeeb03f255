package output

import (
	"bytes"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jamesainslie/curator/pkg/curator/types"
)

// yamlOutput represents the full YAML output structure.
type yamlOutput struct {
	Files []yamlFile `yaml:"files"`
	Meta  yamlMeta   `yaml:"meta"`
}

// yamlFile represents a tracked file in YAML output.
type yamlFile struct {
	Path   string       `yaml:"path"`
	Status types.Status `yaml:"status"`
}

// yamlMeta represents snapshot metadata in YAML output.
type yamlMeta struct {
	HasSnapshot bool      `yaml:"has_snapshot"`
	SnapshotID  string    `yaml:"snapshot_id,omitempty"`
	CreatedAt   time.Time `yaml:"created_at,omitempty"`
	Age         string    `yaml:"age,omitempty"`
	Vault       string    `yaml:"vault"`
	ToReview    int       `yaml:"to_review"`
	Reviewed    int       `yaml:"reviewed"`
	Deleted     int       `yaml:"deleted"`
	Untracked   int       `yaml:"untracked"`
	Warnings    []string  `yaml:"warnings,omitempty"`
}

// YAMLFormatter formats output as YAML.
// It produces the same structure as JSONFormatter but in YAML format.
type YAMLFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *YAMLFormatter) Format(w *bytes.Buffer, r *Report) error {
	output := f.buildOutput(r)

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(output); err != nil {
		return err
	}
	return encoder.Close()
}

// buildOutput converts Report to the YAML output structure.
func (f *YAMLFormatter) buildOutput(r *Report) yamlOutput {
	files := make([]yamlFile, len(r.Files))
	for i, file := range r.Files {
		files[i] = yamlFile{
			Path:   file.Path,
			Status: file.Status,
		}
	}

	meta := yamlMeta{
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

	return yamlOutput{
		Files: files,
		Meta:  meta,
	}
}

func init() {
	Register("yaml", func() Formatter {
		return &YAMLFormatter{}
	})
}

// Ensure YAMLFormatter implements Formatter.
var _ Formatter = (*YAMLFormatter)(nil)

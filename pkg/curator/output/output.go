// Package output provides formatters for displaying ledger status
// in various output formats (pretty, plain, json, yaml, etc.).
//
// The package uses a registry pattern to allow registration of multiple
// formatter implementations that can be selected at runtime.
//
// Basic usage:
//
//	formatter, err := output.Get("pretty")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	var buf bytes.Buffer
//	if err := formatter.Format(&buf, report); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(buf.String())
package output

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jamesainslie/curator/pkg/curator/logging"
	"github.com/jamesainslie/curator/pkg/curator/types"
)

// logger is the package-level logger for output operations.
var logger = logging.Get("output")

// FileEntry is one tracked file prepared for display.
type FileEntry struct {
	// Path is the vault-relative file path.
	Path string `json:"path" yaml:"path"`

	// Status is the review status of the file.
	Status types.Status `json:"status" yaml:"status"`
}

// Counts aggregates files by review status.
type Counts struct {
	// ToReview is the number of files awaiting review.
	ToReview int `json:"to_review" yaml:"to_review"`

	// Reviewed is the number of files marked reviewed.
	Reviewed int `json:"reviewed" yaml:"reviewed"`

	// Deleted is the number of tracked files no longer present.
	Deleted int `json:"deleted" yaml:"deleted"`

	// Untracked is the number of vault files not in the snapshot.
	Untracked int `json:"untracked" yaml:"untracked"`
}

// Report contains the complete output data for formatting.
type Report struct {
	// HasSnapshot indicates whether a snapshot exists.
	HasSnapshot bool `json:"has_snapshot" yaml:"has_snapshot"`

	// SnapshotID is the snapshot identifier.
	SnapshotID string `json:"snapshot_id,omitempty" yaml:"snapshot_id,omitempty"`

	// CreatedAt is when the snapshot was taken.
	CreatedAt time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`

	// Age is the human-readable snapshot age (e.g., "3 days ago").
	Age string `json:"age,omitempty" yaml:"age,omitempty"`

	// Vault is the vault root path.
	Vault string `json:"vault" yaml:"vault"`

	// Files contains tracked files, sorted by path.
	Files []FileEntry `json:"files" yaml:"files"`

	// Counts aggregates files by status.
	Counts Counts `json:"counts" yaml:"counts"`

	// Warnings contains any warning messages generated while building
	// the report.
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	// ShowStatusBar gates the summary footer, from the persisted
	// ledger settings.
	ShowStatusBar bool `json:"show_status_bar" yaml:"show_status_bar"`
}

// Tracked returns the total number of tracked files in the report.
func (r *Report) Tracked() int {
	return len(r.Files)
}

// Formatter is the interface that all output formatters must implement.
type Formatter interface {
	// Format writes the formatted output to the buffer.
	// It returns an error if formatting fails.
	Format(w *bytes.Buffer, r *Report) error
}

// FormatterFactory is a function that creates a new Formatter instance.
type FormatterFactory func() Formatter

// Registry manages formatter registration and lookup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FormatterFactory
}

// NewRegistry creates a new formatter registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]FormatterFactory),
	}
}

// Register adds a formatter factory to the registry.
// It will replace any existing formatter with the same name.
func (r *Registry) Register(name string, factory FormatterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get returns a new formatter instance by name.
// It returns an error if the formatter is not found.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown formatter: %s", name)
	}
	return factory(), nil
}

// Available returns a sorted list of all registered formatter names.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global formatter registry.
var DefaultRegistry = NewRegistry()

// Register adds a formatter factory to the default registry.
func Register(name string, factory FormatterFactory) {
	DefaultRegistry.Register(name, factory)
}

// Get returns a new formatter instance from the default registry.
func Get(name string) (Formatter, error) {
	return DefaultRegistry.Get(name)
}

// Available returns all formatter names from the default registry.
func Available() []string {
	return DefaultRegistry.Available()
}

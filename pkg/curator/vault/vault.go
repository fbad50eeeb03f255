// Package vault provides access to the document vault: enumerating
// trackable files and checking their liveness. The ledger treats this
// package as its file collection provider.
package vault

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"

	"github.com/jamesainslie/curator/pkg/curator/logging"
)

// logger is the package-level logger for vault operations.
var logger = logging.Get("vault")

// DefaultExtensions are the document extensions tracked by default.
var DefaultExtensions = []string{".md", ".markdown"}

// Options configures a Vault.
type Options struct {
	// Extensions lists trackable file extensions (with leading dot).
	// Empty uses DefaultExtensions.
	Extensions []string

	// Exclude contains glob patterns matched against vault-relative
	// paths and base names; matching entries are skipped.
	Exclude []string
}

// Vault is a directory tree of documents. All paths handed out and
// accepted are vault-relative with forward slashes, which keeps ledger
// records portable across machines.
type Vault struct {
	root    string
	exts    map[string]bool
	exclude []string
}

// New opens the vault rooted at the given directory.
func New(root string, opts Options) (*Vault, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving vault root: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("opening vault: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("vault root is not a directory: %s", abs)
	}

	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	extSet := make(map[string]bool, len(exts))
	for _, e := range exts {
		extSet[strings.ToLower(e)] = true
	}

	return &Vault{
		root:    abs,
		exts:    extSet,
		exclude: opts.Exclude,
	}, nil
}

// Root returns the absolute vault root.
func (v *Vault) Root() string {
	return v.root
}

// Abs converts a vault-relative path to an absolute one.
func (v *Vault) Abs(rel string) string {
	return filepath.Join(v.root, filepath.FromSlash(rel))
}

// Rel converts an absolute path inside the vault to the relative form
// used by the ledger.
func (v *Vault) Rel(abs string) (string, error) {
	rel, err := filepath.Rel(v.root, abs)
	if err != nil {
		return "", fmt.Errorf("path outside vault: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path outside vault: %s", abs)
	}
	return filepath.ToSlash(rel), nil
}

// Trackable reports whether a vault-relative path is a document the
// vault considers eligible for tracking, based on extension and
// exclusion patterns alone. It does not touch the filesystem.
func (v *Vault) Trackable(rel string) bool {
	if !v.exts[strings.ToLower(filepath.Ext(rel))] {
		return false
	}
	return !v.excluded(rel)
}

// Resolve checks whether a vault-relative path exists as a regular file
// in the live vault.
func (v *Vault) Resolve(rel string) bool {
	info, err := os.Lstat(v.Abs(rel))
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// ListTrackableFiles walks the vault and returns all trackable files as
// a sorted list of vault-relative paths. Symlinks are not followed.
func (v *Vault) ListTrackableFiles(ctx context.Context) ([]string, error) {
	conf := fastwalk.Config{
		Follow: false, // Don't follow symlinks.
	}

	var (
		mu    sync.Mutex
		paths []string
	)

	err := fastwalk.Walk(&conf, v.root, func(path string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			logger.Warn("skipping unreadable entry", "path", path, "error", err)
			return nil
		}

		rel, relErr := v.Rel(path)
		if relErr != nil || rel == "." {
			return nil
		}

		if d.IsDir() {
			if v.excluded(rel) {
				return fastwalk.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() || !v.Trackable(rel) {
			return nil
		}

		mu.Lock()
		paths = append(paths, rel)
		mu.Unlock()
		return nil
	})

	if err != nil && !errors.Is(err, context.Canceled) {
		return nil, fmt.Errorf("walking vault: %w", err)
	}
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, nil
}

// excluded matches a vault-relative path against the exclusion globs.
// Patterns are tried against the full relative path and the base name.
func (v *Vault) excluded(rel string) bool {
	base := filepath.Base(rel)
	for _, pattern := range v.exclude {
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

// Package index provides a Badger-backed cache of the live vault file
// set. Watch mode keeps it current from filesystem events so status
// queries can report untracked-file counts without re-walking the vault.
package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Key prefixes for different data types
const (
	prefixFile = "f:" // Trackable file entries
	prefixMeta = "m:" // Metadata (refresh time, etc.)
)

const keyRefreshedAt = prefixMeta + "refreshed_at"

// Entry represents one trackable file in the index.
type Entry struct {
	Path    string `json:"path"` // vault-relative
	Size    int64  `json:"size"`
	ModTime int64  `json:"mod_time"` // unix seconds
}

// Index is the vault file cache backed by Badger.
type Index struct {
	db *badger.DB
}

// Open opens or creates an index at the given directory.
func Open(path string) (*Index, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Badger's own logging is too chatty

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}

	return &Index{db: db}, nil
}

// Close closes the index.
func (ix *Index) Close() error {
	return ix.db.Close()
}

// Put stores or updates a file entry.
func (ix *Index) Put(entry *Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	return ix.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(prefixFile+entry.Path), data)
	})
}

// Get retrieves a file entry, or nil when the path is not indexed.
func (ix *Index) Get(path string) (*Entry, error) {
	var entry Entry

	err := ix.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(prefixFile + path))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Delete removes a file entry. Deleting a missing path is a no-op.
func (ix *Index) Delete(path string) error {
	return ix.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(prefixFile + path))
	})
}

// DeletePrefix removes all entries under a path prefix (a directory
// that was removed or renamed away).
func (ix *Index) DeletePrefix(prefix string) error {
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	keys := make([][]byte, 0)
	err := ix.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		p := []byte(prefixFile + prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return err
	}

	wb := ix.db.NewWriteBatch()
	defer wb.Cancel()
	for _, k := range keys {
		if err := wb.Delete(k); err != nil {
			return err
		}
	}
	return wb.Flush()
}

// List returns all indexed file paths.
func (ix *Index) List() ([]string, error) {
	var paths []string

	err := ix.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		p := []byte(prefixFile)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			key := it.Item().Key()
			paths = append(paths, string(key[len(prefixFile):]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// Count returns the number of indexed files.
func (ix *Index) Count() (int, error) {
	n := 0
	err := ix.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		p := []byte(prefixFile)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

// Refresh replaces the whole file set with the given entries and stamps
// the refresh time. Used after a full vault walk.
func (ix *Index) Refresh(entries []*Entry) error {
	// Collect existing keys first so stale entries are dropped.
	existing, err := ix.List()
	if err != nil {
		return err
	}

	wb := ix.db.NewWriteBatch()
	defer wb.Cancel()

	keep := make(map[string]bool, len(entries))
	for _, entry := range entries {
		keep[entry.Path] = true
		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		if err := wb.Set([]byte(prefixFile+entry.Path), data); err != nil {
			return err
		}
	}

	for _, path := range existing {
		if !keep[path] {
			if err := wb.Delete([]byte(prefixFile + path)); err != nil {
				return err
			}
		}
	}

	stamp := fmt.Sprintf("%d", time.Now().Unix())
	if err := wb.Set([]byte(keyRefreshedAt), []byte(stamp)); err != nil {
		return err
	}

	return wb.Flush()
}

// RefreshedAt returns when the index was last fully refreshed, or the
// zero time if it never was.
func (ix *Index) RefreshedAt() (time.Time, error) {
	var stamp int64

	err := ix.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyRefreshedAt))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			_, serr := fmt.Sscanf(string(val), "%d", &stamp)
			return serr
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(stamp, 0), nil
}

// Package config provides configuration management for the curator CLI.
package config

// Default configuration values for curator.
const (
	// DefaultVaultPath is the vault root used when none is configured.
	DefaultVaultPath = "."

	// DefaultConfigDir is the default configuration directory path.
	DefaultConfigDir = "~/.config/curator"

	// DefaultLedgerName is the ledger file name inside the data directory.
	DefaultLedgerName = "ledger.json"

	// DefaultIndexDirName is the vault index directory name inside the
	// cache directory.
	DefaultIndexDirName = "index"
)

// DefaultExtensions are the file extensions tracked by default.
var DefaultExtensions = []string{".md", ".markdown"}

// DefaultExclusions contains vault paths excluded from tracking by default.
var DefaultExclusions = []string{
	".git",
	".obsidian",
	".trash",
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSize    string `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Rotation   RotationConfig    `mapstructure:"rotation"`
	Components map[string]string `mapstructure:"components"`
}

// VaultConfig configures the document vault being tracked.
type VaultConfig struct {
	Path       string   `mapstructure:"path"`
	Extensions []string `mapstructure:"extensions"`
	Exclude    []string `mapstructure:"exclude"`
}

// Config represents the application configuration.
type Config struct {
	Vault      VaultConfig   `mapstructure:"vault"`
	LedgerPath string        `mapstructure:"ledger_path"`
	IndexPath  string        `mapstructure:"index_path"`
	Logging    LoggingConfig `mapstructure:"logging"`
}

// Load loads configuration from file and environment variables.
// Config file locations (in order of precedence):
//   - $XDG_CONFIG_HOME/curator/config.yaml
//   - $HOME/.config/curator/config.yaml
//
// Environment variables are prefixed with CURATOR_ (e.g., CURATOR_VAULT_PATH).
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		v.AddConfigPath(filepath.Join(xdgConfigHome, "curator"))
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	v.AddConfigPath(filepath.Join(homeDir, ".config", "curator"))

	v.SetEnvPrefix("CURATOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults
	v.SetDefault("vault.path", DefaultVaultPath)
	v.SetDefault("vault.extensions", DefaultExtensions)
	v.SetDefault("vault.exclude", DefaultExclusions)
	v.SetDefault("ledger_path", "") // Empty means use DefaultLedgerPath
	v.SetDefault("index_path", "")  // Empty means use DefaultIndexPath

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "") // Empty means use DefaultLogPath
	v.SetDefault("logging.rotation.max_size", "5MB")
	v.SetDefault("logging.rotation.max_age", 30)
	v.SetDefault("logging.rotation.max_backups", 3)
	v.SetDefault("logging.components", map[string]string{
		"ledger":  "info",
		"watcher": "warn",
		"vault":   "info",
		"tui":     "info",
	})

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is acceptable; we use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Expand ~ in paths that accept it
	if cfg.Vault.Path, err = ExpandPath(cfg.Vault.Path); err != nil {
		return nil, err
	}
	if cfg.LedgerPath, err = ExpandPath(cfg.LedgerPath); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, "curator"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "curator"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return nil
}

// WriteDefault writes a default config file if none exists.
// Returns nil if a config file already exists.
func WriteDefault() error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}

	configDir, err := ConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.yaml")

	if _, err := os.Stat(configPath); err == nil {
		// Config file exists, do nothing
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check config file: %w", err)
	}

	defaultConfig := fmt.Sprintf(`# Curator Configuration

# Document vault settings
vault:
  # Vault root directory
  path: %s
  # File extensions tracked for review
  extensions:
    - .md
    - .markdown
  # Vault paths excluded from tracking (glob patterns match directory
  # and file names)
  exclude:
    - .git
    - .obsidian
    - .trash

# Ledger file path (empty means use default: $XDG_DATA_HOME/curator/ledger.json)
ledger_path: ""

# Vault index path (empty means use default: $XDG_CACHE_HOME/curator/index)
index_path: ""

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: info
  # Log file path (empty means use default: $XDG_STATE_HOME/curator/curator.log)
  path: ""
  # Log rotation settings
  rotation:
    max_size: 5MB
    max_age: 30       # days
    max_backups: 3
  # Per-component log levels
  components:
    ledger: info
    watcher: warn
    vault: info
    tui: info
`, DefaultVaultPath)

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write default config: %w", err)
	}

	return nil
}

// ExpandPath expands ~ in a path to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, path[1:]), nil
}

// DataDir returns $XDG_DATA_HOME/curator/ for the ledger file.
func DataDir() string {
	return filepath.Join(xdg.DataHome, "curator")
}

// StateDir returns $XDG_STATE_HOME/curator/ for log files.
func StateDir() string {
	return filepath.Join(xdg.StateHome, "curator")
}

// CacheDir returns $XDG_CACHE_HOME/curator/ for the vault index.
func CacheDir() string {
	return filepath.Join(xdg.CacheHome, "curator")
}

// DefaultLedgerPath returns the default ledger file path.
func DefaultLedgerPath() string {
	return filepath.Join(DataDir(), DefaultLedgerName)
}

// DefaultIndexPath returns the default vault index directory.
func DefaultIndexPath() string {
	return filepath.Join(CacheDir(), DefaultIndexDirName)
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(StateDir(), "curator.log")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	if err := os.MkdirAll(DataDir(), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	return nil
}

// EnsureStateDir creates the state directory if it doesn't exist.
func EnsureStateDir() error {
	if err := os.MkdirAll(StateDir(), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	return nil
}

// EnsureCacheDir creates the cache directory if it doesn't exist.
func EnsureCacheDir() error {
	if err := os.MkdirAll(CacheDir(), 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	return nil
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	// Use a temp directory that doesn't have a config file
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Vault.Path != DefaultVaultPath {
		t.Errorf("Vault.Path = %q, want %q", cfg.Vault.Path, DefaultVaultPath)
	}

	if len(cfg.Vault.Extensions) != len(DefaultExtensions) {
		t.Errorf("len(Vault.Extensions) = %d, want %d", len(cfg.Vault.Extensions), len(DefaultExtensions))
	}

	if len(cfg.Vault.Exclude) != len(DefaultExclusions) {
		t.Errorf("len(Vault.Exclude) = %d, want %d", len(cfg.Vault.Exclude), len(DefaultExclusions))
	}

	if cfg.LedgerPath != "" {
		t.Errorf("LedgerPath = %q, want empty string", cfg.LedgerPath)
	}

	if cfg.IndexPath != "" {
		t.Errorf("IndexPath = %q, want empty string", cfg.IndexPath)
	}
}

func TestLoad_FromFile(t *testing.T) {
	tempDir := t.TempDir()
	configDir := filepath.Join(tempDir, ".config", "curator")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}

	configContent := `
vault:
  path: /home/user/vault
  extensions:
    - .md
    - .txt
  exclude:
    - drafts
ledger_path: /custom/ledger.json
`
	configPath := filepath.Join(configDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Vault.Path != "/home/user/vault" {
		t.Errorf("Vault.Path = %q, want %q", cfg.Vault.Path, "/home/user/vault")
	}

	if len(cfg.Vault.Extensions) != 2 {
		t.Errorf("len(Vault.Extensions) = %d, want %d", len(cfg.Vault.Extensions), 2)
	}

	if len(cfg.Vault.Exclude) != 1 || cfg.Vault.Exclude[0] != "drafts" {
		t.Errorf("Vault.Exclude = %v, want [drafts]", cfg.Vault.Exclude)
	}

	if cfg.LedgerPath != "/custom/ledger.json" {
		t.Errorf("LedgerPath = %q, want %q", cfg.LedgerPath, "/custom/ledger.json")
	}
}

func TestLoad_XDGConfigHome(t *testing.T) {
	tempDir := t.TempDir()
	xdgConfigDir := filepath.Join(tempDir, "xdg-config", "curator")
	if err := os.MkdirAll(xdgConfigDir, 0o755); err != nil {
		t.Fatalf("failed to create XDG config dir: %v", err)
	}

	configContent := `
vault:
  path: /srv/vault
`
	configPath := filepath.Join(xdgConfigDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tempDir, "xdg-config"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Vault.Path != "/srv/vault" {
		t.Errorf("Vault.Path = %q, want %q", cfg.Vault.Path, "/srv/vault")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("CURATOR_VAULT_PATH", "/env/vault")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Vault.Path != "/env/vault" {
		t.Errorf("Vault.Path = %q, want %q", cfg.Vault.Path, "/env/vault")
	}
}

func TestLoad_ExpandsTilde(t *testing.T) {
	tempDir := t.TempDir()
	configDir := filepath.Join(tempDir, ".config", "curator")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}

	configContent := `
vault:
  path: ~/vault
ledger_path: ~/ledger.json
`
	configPath := filepath.Join(configDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Vault.Path != filepath.Join(tempDir, "vault") {
		t.Errorf("Vault.Path = %q, want %q", cfg.Vault.Path, filepath.Join(tempDir, "vault"))
	}

	if cfg.LedgerPath != filepath.Join(tempDir, "ledger.json") {
		t.Errorf("LedgerPath = %q, want %q", cfg.LedgerPath, filepath.Join(tempDir, "ledger.json"))
	}
}

func TestLoad_LoggingDefaults(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}

	if cfg.Logging.Path != "" {
		t.Errorf("Logging.Path = %q, want empty string", cfg.Logging.Path)
	}

	if cfg.Logging.Rotation.MaxSize != "5MB" {
		t.Errorf("Logging.Rotation.MaxSize = %q, want %q", cfg.Logging.Rotation.MaxSize, "5MB")
	}

	if cfg.Logging.Rotation.MaxAge != 30 {
		t.Errorf("Logging.Rotation.MaxAge = %d, want %d", cfg.Logging.Rotation.MaxAge, 30)
	}

	if cfg.Logging.Rotation.MaxBackups != 3 {
		t.Errorf("Logging.Rotation.MaxBackups = %d, want %d", cfg.Logging.Rotation.MaxBackups, 3)
	}

	expectedComponents := map[string]string{
		"ledger":  "info",
		"watcher": "warn",
		"vault":   "info",
		"tui":     "info",
	}
	for component, level := range expectedComponents {
		if cfg.Logging.Components[component] != level {
			t.Errorf("Logging.Components[%q] = %q, want %q", component, cfg.Logging.Components[component], level)
		}
	}
}

func TestLoad_LoggingFromFile(t *testing.T) {
	tempDir := t.TempDir()
	configDir := filepath.Join(tempDir, ".config", "curator")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}

	configContent := `
logging:
  level: debug
  path: /var/log/curator.log
  rotation:
    max_size: 50MB
    max_age: 7
    max_backups: 2
  components:
    ledger: debug
    watcher: info
`
	configPath := filepath.Join(configDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}

	if cfg.Logging.Path != "/var/log/curator.log" {
		t.Errorf("Logging.Path = %q, want %q", cfg.Logging.Path, "/var/log/curator.log")
	}

	if cfg.Logging.Rotation.MaxSize != "50MB" {
		t.Errorf("Logging.Rotation.MaxSize = %q, want %q", cfg.Logging.Rotation.MaxSize, "50MB")
	}

	if cfg.Logging.Components["ledger"] != "debug" {
		t.Errorf("Logging.Components[ledger] = %q, want %q", cfg.Logging.Components["ledger"], "debug")
	}
}

func TestConfigDir(t *testing.T) {
	t.Run("uses XDG_CONFIG_HOME when set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")

		dir, err := ConfigDir()
		if err != nil {
			t.Fatalf("ConfigDir() error = %v", err)
		}

		expected := "/custom/config/curator"
		if dir != expected {
			t.Errorf("ConfigDir() = %q, want %q", dir, expected)
		}
	})

	t.Run("uses HOME/.config when XDG_CONFIG_HOME not set", func(t *testing.T) {
		tempDir := t.TempDir()
		t.Setenv("HOME", tempDir)
		t.Setenv("XDG_CONFIG_HOME", "")

		dir, err := ConfigDir()
		if err != nil {
			t.Fatalf("ConfigDir() error = %v", err)
		}

		expected := filepath.Join(tempDir, ".config", "curator")
		if dir != expected {
			t.Errorf("ConfigDir() = %q, want %q", dir, expected)
		}
	})
}

func TestEnsureConfigDir(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")

	if err := EnsureConfigDir(); err != nil {
		t.Fatalf("EnsureConfigDir() error = %v", err)
	}

	expectedDir := filepath.Join(tempDir, ".config", "curator")
	info, err := os.Stat(expectedDir)
	if err != nil {
		t.Fatalf("os.Stat(%q) error = %v", expectedDir, err)
	}

	if !info.IsDir() {
		t.Errorf("%q is not a directory", expectedDir)
	}
}

func TestWriteDefault(t *testing.T) {
	t.Run("creates default config file", func(t *testing.T) {
		tempDir := t.TempDir()
		t.Setenv("HOME", tempDir)
		t.Setenv("XDG_CONFIG_HOME", "")

		if err := WriteDefault(); err != nil {
			t.Fatalf("WriteDefault() error = %v", err)
		}

		configPath := filepath.Join(tempDir, ".config", "curator", "config.yaml")
		content, err := os.ReadFile(configPath)
		if err != nil {
			t.Fatalf("failed to read config file: %v", err)
		}

		if len(content) == 0 {
			t.Error("config file is empty")
		}
	})

	t.Run("does not overwrite existing config", func(t *testing.T) {
		tempDir := t.TempDir()
		t.Setenv("HOME", tempDir)
		t.Setenv("XDG_CONFIG_HOME", "")

		configDir := filepath.Join(tempDir, ".config", "curator")
		if err := os.MkdirAll(configDir, 0o755); err != nil {
			t.Fatalf("failed to create config dir: %v", err)
		}

		configPath := filepath.Join(configDir, "config.yaml")
		existingContent := "# existing config\nvault:\n  path: /keep"
		if err := os.WriteFile(configPath, []byte(existingContent), 0o644); err != nil {
			t.Fatalf("failed to write existing config: %v", err)
		}

		if err := WriteDefault(); err != nil {
			t.Fatalf("WriteDefault() error = %v", err)
		}

		content, err := os.ReadFile(configPath)
		if err != nil {
			t.Fatalf("failed to read config file: %v", err)
		}

		if string(content) != existingContent {
			t.Errorf("config file was overwritten: got %q, want %q", string(content), existingContent)
		}
	})
}

func TestExpandPath(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("failed to get home dir: %v", err)
	}

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "expands tilde",
			input: "~/vaults/notes",
			want:  filepath.Join(homeDir, "vaults/notes"),
		},
		{
			name:  "leaves absolute path unchanged",
			input: "/srv/vault",
			want:  "/srv/vault",
		},
		{
			name:  "leaves relative path unchanged",
			input: "vaults/notes",
			want:  "vaults/notes",
		},
		{
			name:  "handles tilde only",
			input: "~",
			want:  homeDir,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ExpandPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestXDGPaths(t *testing.T) {
	// adrg/xdg caches values at init time, so test the structure only.
	for name, dir := range map[string]string{
		"DataDir":  DataDir(),
		"StateDir": StateDir(),
		"CacheDir": CacheDir(),
	} {
		if !filepath.IsAbs(dir) {
			t.Errorf("%s = %q, want absolute path", name, dir)
		}
		if filepath.Base(dir) != "curator" {
			t.Errorf("%s = %q, want path ending in 'curator'", name, dir)
		}
	}
}

func TestDefaultPaths(t *testing.T) {
	if filepath.Dir(DefaultLedgerPath()) != DataDir() {
		t.Errorf("DefaultLedgerPath() dir = %q, want %q", filepath.Dir(DefaultLedgerPath()), DataDir())
	}
	if filepath.Base(DefaultLedgerPath()) != DefaultLedgerName {
		t.Errorf("DefaultLedgerPath() = %q, want file named %q", DefaultLedgerPath(), DefaultLedgerName)
	}

	if filepath.Dir(DefaultIndexPath()) != CacheDir() {
		t.Errorf("DefaultIndexPath() dir = %q, want %q", filepath.Dir(DefaultIndexPath()), CacheDir())
	}

	if filepath.Dir(DefaultLogPath()) != StateDir() {
		t.Errorf("DefaultLogPath() dir = %q, want %q", filepath.Dir(DefaultLogPath()), StateDir())
	}
	if filepath.Base(DefaultLogPath()) != "curator.log" {
		t.Errorf("DefaultLogPath() = %q, want path ending in 'curator.log'", DefaultLogPath())
	}
}

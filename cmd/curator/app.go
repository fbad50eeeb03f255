package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"

	"github.com/jamesainslie/curator/pkg/curator/config"
	"github.com/jamesainslie/curator/pkg/curator/index"
	"github.com/jamesainslie/curator/pkg/curator/ledger"
	"github.com/jamesainslie/curator/pkg/curator/logging"
	"github.com/jamesainslie/curator/pkg/curator/store"
	"github.com/jamesainslie/curator/pkg/curator/vault"
)

// app bundles the wired-up components most commands need: the vault,
// the ledger, and the resolved paths behind them.
type app struct {
	vault      *vault.Vault
	ledger     *ledger.Ledger
	store      *store.FileStore
	ledgerPath string
	indexPath  string
}

// newApp initializes logging and opens the vault and ledger from the
// merged flag/env/file configuration.
func newApp() (*app, error) {
	if err := setupLogging(); err != nil {
		return nil, err
	}

	vaultPath, err := config.ExpandPath(viper.GetString("vault.path"))
	if err != nil {
		return nil, err
	}

	v, err := vault.New(vaultPath, vault.Options{
		Extensions: viper.GetStringSlice("vault.extensions"),
		Exclude:    viper.GetStringSlice("vault.exclude"),
	})
	if err != nil {
		return nil, fmt.Errorf("opening vault: %w", err)
	}

	ledgerPath, err := config.ExpandPath(viper.GetString("ledger_path"))
	if err != nil {
		return nil, err
	}
	if ledgerPath == "" {
		if err := config.EnsureDataDir(); err != nil {
			return nil, err
		}
		ledgerPath = config.DefaultLedgerPath()
	}

	st, err := store.New(ledgerPath)
	if err != nil {
		return nil, fmt.Errorf("opening ledger store: %w", err)
	}

	led, err := ledger.Open(st)
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}

	indexPath := viper.GetString("index_path")
	if indexPath == "" {
		indexPath = config.DefaultIndexPath()
	}

	printVerbose("vault: %s, ledger: %s", vaultPath, ledgerPath)

	return &app{
		vault:      v,
		ledger:     led,
		store:      st,
		ledgerPath: ledgerPath,
		indexPath:  indexPath,
	}, nil
}

// openIndex opens the vault index cache. Callers own the returned
// handle and must Close it.
func (a *app) openIndex() (*index.Index, error) {
	if err := config.EnsureCacheDir(); err != nil {
		return nil, err
	}
	return index.Open(a.indexPath)
}

// setupLogging initializes the logging system from configuration.
func setupLogging() error {
	if err := config.EnsureStateDir(); err != nil {
		return err
	}

	var maxSize int64
	if s := viper.GetString("logging.rotation.max_size"); s != "" {
		parsed, err := humanize.ParseBytes(s)
		if err != nil {
			return fmt.Errorf("parsing logging.rotation.max_size: %w", err)
		}
		maxSize = int64(parsed)
	}

	cfg := logging.Config{
		Level:      viper.GetString("logging.level"),
		Path:       viper.GetString("logging.path"),
		Components: viper.GetStringMapString("logging.components"),
		Rotation: logging.RotationConfig{
			MaxSize:    maxSize,
			MaxAge:     viper.GetInt("logging.rotation.max_age"),
			MaxBackups: viper.GetInt("logging.rotation.max_backups"),
		},
	}
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if getVerbose() {
		cfg.Level = "debug"
		cfg.ConsoleLevel = "debug"
	}

	return logging.Init(cfg)
}

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/curator/pkg/curator/config"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "curator",
		Short: "Track review status of files in a document vault",
		Long: `Curator keeps a snapshot of your document vault and tracks which
files you have reviewed. Files added after the snapshot surface as new,
renamed files keep their review status, and deleted files stay visible
until you prune them.

By default, curator launches an interactive review session.
Use --no-interactive or -o for non-interactive output.

Examples:
  curator                        # Interactive review session
  curator snapshot create        # Snapshot the vault
  curator review notes/plan.md   # Mark a file reviewed
  curator random                 # Pick a random unreviewed file
  curator status -o json         # Machine-readable status
  curator watch                  # Track renames and deletions live`,
		Args: cobra.NoArgs,
		RunE: runRoot,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/curator/config.yaml)")
	rootCmd.PersistentFlags().StringP("vault", "V", "", "vault root directory")
	rootCmd.PersistentFlags().StringSliceP("exclude", "e", nil, "exclude patterns (can be specified multiple times)")
	rootCmd.PersistentFlags().BoolP("no-interactive", "n", false, "disable TUI, use text output")
	rootCmd.PersistentFlags().StringP("output", "o", "pretty", "output format (pretty, plain, json, jsonl, yaml, tsv, csv, markdown)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output")

	// Bind flags to viper
	_ = viper.BindPFlag("vault.path", rootCmd.PersistentFlags().Lookup("vault"))
	_ = viper.BindPFlag("vault.exclude", rootCmd.PersistentFlags().Lookup("exclude"))
	_ = viper.BindPFlag("no_interactive", rootCmd.PersistentFlags().Lookup("no-interactive"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and environment variables.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")

		// Add config paths in order of precedence
		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			viper.AddConfigPath(filepath.Join(xdgConfigHome, "curator"))
		}

		homeDir, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(homeDir, ".config", "curator"))
		}
	}

	// Set environment variable prefix and enable auto env binding
	viper.SetEnvPrefix("CURATOR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// Set defaults from config package
	viper.SetDefault("vault.path", config.DefaultVaultPath)
	viper.SetDefault("vault.extensions", config.DefaultExtensions)
	viper.SetDefault("vault.exclude", config.DefaultExclusions)
	viper.SetDefault("logging.level", "info")

	// Read config file (ignore if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// runRoot launches the interactive review session, or falls back to
// status output when interaction is disabled.
func runRoot(cmd *cobra.Command, args []string) error {
	if viper.GetBool("no_interactive") {
		return runStatus(cmd, args)
	}
	return runReviewSession(cmd)
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if getVerbose() && !getQuiet() {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// printInfo prints a message if quiet mode is not enabled.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Printf(format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

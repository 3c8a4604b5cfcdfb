// Package main provides the winnow command line tool: document fingerprinting,
// pairwise comparison and the HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gcbaptista/go-winnow/config"
)

var rootCmd = &cobra.Command{
	Use:   "winnow",
	Short: "Winnowing document fingerprinting and match detection",
	Long: "winnow fingerprints source files with the winnowing algorithm and reports " +
		"which line ranges of two documents match each other.",
	SilenceUsage: true,
}

var (
	configPath     string
	flagK          int
	flagWindow     int
	flagHash       string
	flagIgnoreCase bool
	flagSplitIDs   bool
	flagMaxWorkers int
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON configuration file")
	rootCmd.PersistentFlags().IntVar(&flagK, "k", 0, "Tokens per k-gram (default 15)")
	rootCmd.PersistentFlags().IntVar(&flagWindow, "window", 0, "K-grams per winnowing window (default 10)")
	rootCmd.PersistentFlags().StringVar(&flagHash, "hash", "", "K-gram hash: xxhash or blake3 (default xxhash)")
	rootCmd.PersistentFlags().BoolVar(&flagIgnoreCase, "ignore-case", false, "Lower-case tokens before hashing")
	rootCmd.PersistentFlags().BoolVar(&flagSplitIDs, "split-identifiers", false, "Break camelCase identifiers into words before hashing")
	rootCmd.PersistentFlags().IntVar(&flagMaxWorkers, "workers", 0, "Concurrent comparisons (default: number of CPUs)")
}

// loadConfig merges, in increasing priority: defaults, the --config file,
// environment variables and command line flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	defaults := config.Default()
	cfg := defaults

	if configPath != "" {
		fileCfg, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = fileCfg.MergeWithDefaults(defaults)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("k") {
		cfg.Fingerprint.KValue = flagK
	}
	if flags.Changed("window") {
		cfg.Fingerprint.WindowSizeValue = flagWindow
	}
	if flags.Changed("hash") {
		cfg.Fingerprint.HashAlgorithm = flagHash
	}
	if flags.Changed("ignore-case") {
		cfg.Fingerprint.IgnoreCase = flagIgnoreCase
	}
	if flags.Changed("split-identifiers") {
		cfg.Fingerprint.SplitIdentifiers = flagSplitIDs
	}
	if flags.Changed("workers") {
		cfg.MaxWorkers = flagMaxWorkers
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/go-winnow/internal/indexing"
	"github.com/gcbaptista/go-winnow/model"
)

var fingerprintCmd = &cobra.Command{
	Use:   "fingerprint <file>",
	Short: "Print the fingerprints of a file",
	Long:  "Tokenizes a file with the lexer for its extension and prints the winnowed fingerprints as JSON.",
	Args:  cobra.ExactArgs(1),
	RunE:  runFingerprint,
}

var fingerprintOutput string

func init() {
	fingerprintCmd.Flags().StringVarP(&fingerprintOutput, "out", "o", "", "Path to output JSON file (default stdout)")
	rootCmd.AddCommand(fingerprintCmd)
}

type fingerprintReport struct {
	Path         string              `json:"path"`
	Signature    string              `json:"signature"`
	Fingerprints []model.Fingerprint `json:"fingerprints"`
}

func runFingerprint(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	path := args[0]
	content, err := os.ReadFile(path) // #nosec G304 -- path is supplied by the operator
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	fingerprints, err := indexing.Fingerprint(string(content), filepath.Ext(path), cfg.Fingerprint)
	if err != nil {
		return fmt.Errorf("failed to fingerprint %s: %w", path, err)
	}

	data, err := marshalJSON(fingerprintReport{
		Path:         path,
		Signature:    cfg.Fingerprint.Signature(),
		Fingerprints: fingerprints,
	})
	if err != nil {
		return err
	}
	return writeOutput(fingerprintOutput, data)
}

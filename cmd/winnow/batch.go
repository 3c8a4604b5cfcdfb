package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/go-winnow/internal/render"
	"github.com/gcbaptista/go-winnow/model"
)

var batchCmd = &cobra.Command{
	Use:   "batch <pairs.json>",
	Short: "Compare many pairs of files",
	Long: "Reads a JSON file of the form {\"pairs\": [{\"source\": \"a.go\", \"target\": \"b.go\"}]} " +
		"and compares every pair concurrently. Relative paths are resolved against the pairs file. " +
		"A pair that fails is reported in its own outcome.",
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

var (
	batchFormat string
	batchOutput string
)

func init() {
	batchCmd.Flags().StringVarP(&batchFormat, "format", "f", formatJSON, "Output format: json or text")
	batchCmd.Flags().StringVarP(&batchOutput, "out", "o", "", "Path to output file (default stdout)")
	rootCmd.AddCommand(batchCmd)
}

type pairsFile struct {
	Pairs []struct {
		Source string `json:"source"`
		Target string `json:"target"`
	} `json:"pairs"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	if batchFormat != formatJSON && batchFormat != formatText {
		return fmt.Errorf("unknown format %q (expected json or text)", batchFormat)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(args[0]) // #nosec G304 -- path is supplied by the operator
	if err != nil {
		return fmt.Errorf("failed to read pairs file %s: %w", args[0], err)
	}
	var file pairsFile
	if err := json.Unmarshal(content, &file); err != nil {
		return fmt.Errorf("failed to parse pairs file %s: %w", args[0], err)
	}
	if len(file.Pairs) == 0 {
		return fmt.Errorf("pairs file %s lists no pairs", args[0])
	}

	eng, err := newLocalEngine(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = eng.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Each file is registered once; unreadable files surface in the outcomes
	// of the pairs that name them.
	baseDir := filepath.Dir(args[0])
	resolve := func(p string) string {
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(baseDir, p)
	}
	registered := make(map[string]bool)
	pairs := make([]model.ComparisonPair, len(file.Pairs))
	for i, pair := range file.Pairs {
		for _, p := range []string{pair.Source, pair.Target} {
			if registered[p] {
				continue
			}
			registered[p] = true
			doc, err := readDocument(p, resolve(p))
			if err != nil {
				log.Printf("Warning: %v", err)
				continue
			}
			if err := eng.AddDocument(ctx, doc); err != nil {
				log.Printf("Warning: failed to add %s: %v", p, err)
			}
		}
		pairs[i] = model.ComparisonPair{SourceID: pair.Source, TargetID: pair.Target}
	}

	outcomes, err := eng.CompareBatch(ctx, pairs, func(done, total int) {
		fmt.Fprintf(os.Stderr, "\rCompared %d/%d pairs", done, total)
		if done == total {
			fmt.Fprintln(os.Stderr)
		}
	})
	if err != nil {
		log.Printf("Warning: batch interrupted: %v", err)
	}

	var out []byte
	if batchFormat == formatText {
		var buf bytes.Buffer
		render.NewPrinter(&buf).PrintOutcomes(outcomes)
		out = buf.Bytes()
	} else {
		out, err = marshalJSON(outcomes)
		if err != nil {
			return err
		}
	}
	return writeOutput(batchOutput, out)
}

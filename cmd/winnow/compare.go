package main

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/go-winnow/config"
	"github.com/gcbaptista/go-winnow/internal/engine"
	"github.com/gcbaptista/go-winnow/internal/render"
	"github.com/gcbaptista/go-winnow/internal/schemas"
	"github.com/gcbaptista/go-winnow/model"
)

var compareCmd = &cobra.Command{
	Use:   "compare <source> <target>",
	Short: "Compare two files",
	Long:  "Fingerprints two files and reports the matched line ranges of each, identified so corresponding ranges share a match ID.",
	Args:  cobra.ExactArgs(2),
	RunE:  runCompare,
}

var (
	compareFormat      string
	compareCheckSchema bool
	compareOutput      string
)

const (
	formatJSON     = "json"
	formatText     = "text"
	formatMarkdown = "markdown"
)

func init() {
	compareCmd.Flags().StringVarP(&compareFormat, "format", "f", formatJSON, "Output format: json, text or markdown")
	compareCmd.Flags().BoolVar(&compareCheckSchema, "check-schema", false, "Validate the result against the published JSON Schema")
	compareCmd.Flags().StringVarP(&compareOutput, "out", "o", "", "Path to output file (default stdout)")
	rootCmd.AddCommand(compareCmd)
}

// newLocalEngine creates an in-memory engine for one command invocation.
func newLocalEngine(cfg config.Config) (*engine.Engine, error) {
	return engine.NewEngine(engine.Options{
		Settings:   cfg.Fingerprint,
		MaxWorkers: cfg.MaxWorkers,
		MaxJobs:    1,
	})
}

// readDocument loads a file as a document identified by id.
func readDocument(id, path string) (model.Document, error) {
	content, err := os.ReadFile(path) // #nosec G304 -- path is supplied by the operator
	if err != nil {
		return model.Document{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return model.Document{
		Meta: model.DocumentMeta{ID: id, Path: path},
		Text: string(content),
	}, nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	switch compareFormat {
	case formatJSON, formatText, formatMarkdown:
	default:
		return fmt.Errorf("unknown format %q (expected json, text or markdown)", compareFormat)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	eng, err := newLocalEngine(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = eng.Close() }()

	sourceID, targetID := args[0], args[1]
	if sourceID == targetID {
		targetID += "#2"
	}
	source, err := readDocument(sourceID, args[0])
	if err != nil {
		return err
	}
	target, err := readDocument(targetID, args[1])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := eng.AddDocuments(ctx, []model.Document{source, target}); err != nil {
		return err
	}

	result, err := eng.Compare(ctx, sourceID, targetID)
	if err != nil {
		return err
	}

	if compareCheckSchema {
		if err := schemas.ValidateComparisonResult(result); err != nil {
			return fmt.Errorf("comparison result does not match its schema: %w", err)
		}
	}

	var out []byte
	switch compareFormat {
	case formatText:
		var buf bytes.Buffer
		render.NewPrinter(&buf).PrintComparison(result)
		out = buf.Bytes()
	case formatMarkdown:
		rendered, err := render.RenderMarkdown(render.Markdown(result), "", 100)
		if err != nil {
			return err
		}
		out = []byte(rendered)
	default:
		out, err = marshalJSON(result)
		if err != nil {
			return err
		}
	}
	return writeOutput(compareOutput, out)
}

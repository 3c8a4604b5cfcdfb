package render

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-winnow/model"
)

func sampleResult() *model.ComparisonResult {
	matchID := uuid.MustParse("0f8fad5b-d9cb-469f-a165-70867728950e")
	return &model.ComparisonResult{
		ID: uuid.MustParse("7c9e6679-7425-40de-944b-e07fc1f90ae7"),
		SourceFile: model.MatchResult{
			DocumentID: "a", Path: "pkg/a.go", MatchPercentage: 0.25, TotalLinesMatched: 2,
			LinesMatched: []model.LineMatch{{MatchID: matchID, StartLine: 3, EndLine: 4}},
		},
		TargetFile: model.MatchResult{
			DocumentID: "b", Name: "b|c.go", MatchPercentage: 1, TotalLinesMatched: 2,
			LinesMatched: []model.LineMatch{},
		},
	}
}

func TestPrinter_PrintComparison(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintComparison(sampleResult())

	out := buf.String()
	assert.Contains(t, out, "7c9e6679-7425-40de-944b-e07fc1f90ae7")
	assert.Contains(t, out, "pkg/a.go")
	assert.Contains(t, out, "25.0%")
	assert.Contains(t, out, "0f8fad5b")
}

func TestPrinter_PrintOutcomes(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintOutcomes([]model.PairOutcome{
		{SourceID: "a", TargetID: "b", Result: sampleResult()},
		{SourceID: "a", TargetID: "zz", Error: "document not found"},
	})

	out := buf.String()
	assert.Contains(t, out, "a -> b")
	assert.Contains(t, out, "document not found")
	assert.Contains(t, out, "Compared")
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleResult())

	assert.Contains(t, md, "# Comparison 7c9e6679")
	assert.Contains(t, md, "| a | pkg/a.go | 2 | 25.0% |")
	assert.Contains(t, md, "- lines 3-4 `0f8fad5b`")
	assert.Contains(t, md, "## b|c.go")
	assert.Contains(t, md, "No matched lines.")
}

func TestRenderMarkdown(t *testing.T) {
	out, err := RenderMarkdown(Markdown(sampleResult()), "notty", 80)
	require.NoError(t, err)
	assert.Contains(t, out, "pkg/a.go")
}

package model

import "github.com/google/uuid"

// MatchIdentifier ties together corresponding merged ranges across the two
// documents of a comparison.
type MatchIdentifier = uuid.UUID

// LineMatch is one identified matched region of a document.
type LineMatch struct {
	MatchID   MatchIdentifier `json:"match_id"`
	StartLine uint32          `json:"start_line"`
	EndLine   uint32          `json:"end_line"`
}

// MatchResult describes how much of one document matched the other document.
// MatchPercentage is a fraction in [0, 1].
type MatchResult struct {
	DocumentID        string      `json:"document_id"`
	Path              string      `json:"path"`
	Name              string      `json:"name"`
	Extension         string      `json:"extension"`
	MatchPercentage   float64     `json:"match_percentage"`
	TotalLinesMatched uint32      `json:"total_lines_matched"`
	LinesMatched      []LineMatch `json:"lines_matched"`
}

// ComparisonResult is the outcome of one pairwise comparison.
type ComparisonResult struct {
	ID         uuid.UUID   `json:"id"`
	SourceFile MatchResult `json:"source_file"`
	TargetFile MatchResult `json:"target_file"`
}

// ComparisonPair names two registered documents to compare.
type ComparisonPair struct {
	SourceID string `json:"source_id" binding:"required"`
	TargetID string `json:"target_id" binding:"required"`
}

// PairOutcome is the per-pair entry of a batch comparison.
// Exactly one of Result and Error is set.
type PairOutcome struct {
	SourceID string            `json:"source_id"`
	TargetID string            `json:"target_id"`
	Result   *ComparisonResult `json:"result,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// Package compare runs a full pairwise comparison of two fingerprinted
// documents: exact matching, range merging, identifier assignment and
// per-document scoring.
package compare

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/gcbaptista/go-winnow/internal/merge"
	"github.com/gcbaptista/go-winnow/internal/search"
	"github.com/gcbaptista/go-winnow/model"
)

// Input is one side of a comparison.
type Input struct {
	Fingerprints []model.Fingerprint
	Text         string
	Meta         model.DocumentMeta
}

// Comparer compares documents. The zero value mints random identifiers.
type Comparer struct {
	// NewID mints the comparison id and every match identifier.
	NewID merge.IDGenerator
}

// Compare compares source against target with random identifiers.
func Compare(source, target Input) (*model.ComparisonResult, error) {
	return Comparer{}.Compare(source, target)
}

// Compare reports the matched regions of both documents. It has no side
// effects and is safe for concurrent use as long as NewID is.
func (c Comparer) Compare(source, target Input) (*model.ComparisonResult, error) {
	newID := c.NewID
	if newID == nil {
		newID = uuid.New
	}

	hitsSource, hitsTarget, collisions := search.Search(source.Fingerprints, target.Fingerprints)

	rangesSource, err := merge.Ranges(hitsSource)
	if err != nil {
		return nil, fmt.Errorf("source document %q: %w", source.Meta.ID, err)
	}
	rangesTarget, err := merge.Ranges(hitsTarget)
	if err != nil {
		return nil, fmt.Errorf("target document %q: %w", target.Meta.ID, err)
	}

	id := newID()
	matchesSource, matchesTarget, err := merge.Identify(collisions, rangesSource, rangesTarget, newID)
	if err != nil {
		return nil, err
	}

	sourceFile, err := BuildResult(source.Meta, source.Text, rangesSource, matchesSource)
	if err != nil {
		return nil, fmt.Errorf("source document %q: %w", source.Meta.ID, err)
	}
	targetFile, err := BuildResult(target.Meta, target.Text, rangesTarget, matchesTarget)
	if err != nil {
		return nil, fmt.Errorf("target document %q: %w", target.Meta.ID, err)
	}

	return &model.ComparisonResult{
		ID:         id,
		SourceFile: sourceFile,
		TargetFile: targetFile,
	}, nil
}

package compare

import (
	"fmt"
	"strings"

	"github.com/gcbaptista/go-winnow/internal/errors"
	"github.com/gcbaptista/go-winnow/internal/merge"
	"github.com/gcbaptista/go-winnow/model"
)

// FileLines counts '\n' separated lines, so an empty text is one empty line
// and a trailing newline contributes a final empty line.
func FileLines(text string) int {
	return strings.Count(text, "\n") + 1
}

// BuildResult summarizes one side of a comparison. ranges are the merged
// ranges of the document and matches their identified counterparts.
func BuildResult(meta model.DocumentMeta, text string, ranges []model.MergedRange, matches []model.LineMatch) (model.MatchResult, error) {
	if len(ranges) != len(matches) {
		return model.MatchResult{}, errors.NewValidationError("matches",
			fmt.Sprintf("expected %d identified ranges, got %d", len(ranges), len(matches)))
	}

	total := merge.TotalLines(ranges)
	percentage, err := matchPercentage(meta.ID, total, FileLines(text))
	if err != nil {
		return model.MatchResult{}, err
	}

	linesMatched := matches
	if linesMatched == nil {
		linesMatched = []model.LineMatch{}
	}

	return model.MatchResult{
		DocumentID:        meta.ID,
		Path:              meta.Path,
		Name:              meta.Name,
		Extension:         meta.Extension,
		MatchPercentage:   percentage,
		TotalLinesMatched: total,
		LinesMatched:      linesMatched,
	}, nil
}

func matchPercentage(documentID string, total uint32, fileLines int) (float64, error) {
	if fileLines <= 0 {
		return 0, errors.NewEmptyDocumentError(documentID)
	}
	if int(total) > fileLines {
		return 0, errors.NewValidationError("lines_matched",
			fmt.Sprintf("%d matched lines exceed the %d lines of the document", total, fileLines))
	}
	return float64(total) / float64(fileLines), nil
}

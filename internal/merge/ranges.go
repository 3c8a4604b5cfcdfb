// Package merge folds raw collision hits into maximal line ranges and ties
// corresponding ranges of two documents together with shared identifiers.
package merge

import (
	"fmt"
	"sort"

	"github.com/gcbaptista/go-winnow/internal/errors"
	"github.com/gcbaptista/go-winnow/model"
)

// Ranges merges hits into the minimal set of maximal, pairwise disjoint and
// non-adjacent ranges covering exactly the same lines. Ranges that overlap or
// touch (next start <= current end + 1) are joined. The result is sorted by
// start line and is empty, not nil, for empty input.
func Ranges(hits []model.RawHit) ([]model.MergedRange, error) {
	for i, hit := range hits {
		if hit.StartLine > hit.EndLine {
			return nil, errors.NewValidationError(
				fmt.Sprintf("hits[%d]", i),
				fmt.Sprintf("start line %d is after end line %d", hit.StartLine, hit.EndLine),
			)
		}
	}
	if len(hits) == 0 {
		return []model.MergedRange{}, nil
	}

	sorted := make([]model.RawHit, len(hits))
	copy(sorted, hits)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].StartLine != sorted[j].StartLine {
			return sorted[i].StartLine < sorted[j].StartLine
		}
		return sorted[i].EndLine < sorted[j].EndLine
	})

	merged := make([]model.MergedRange, 0, len(sorted))
	cur := model.MergedRange{StartLine: sorted[0].StartLine, EndLine: sorted[0].EndLine}
	for _, hit := range sorted[1:] {
		if hit == (model.RawHit{StartLine: cur.StartLine, EndLine: cur.EndLine}) {
			continue
		}
		if uint64(hit.StartLine) <= uint64(cur.EndLine)+1 {
			if hit.EndLine > cur.EndLine {
				cur.EndLine = hit.EndLine
			}
			continue
		}
		merged = append(merged, cur)
		cur = model.MergedRange{StartLine: hit.StartLine, EndLine: hit.EndLine}
	}
	return append(merged, cur), nil
}

// TotalLines sums the lines covered by disjoint ranges.
func TotalLines(ranges []model.MergedRange) uint32 {
	var total uint32
	for _, r := range ranges {
		total += r.Lines()
	}
	return total
}

// containing returns the index of the range holding hit, or -1. ranges must
// be sorted and disjoint.
func containing(ranges []model.MergedRange, hit model.RawHit) int {
	i := sort.Search(len(ranges), func(i int) bool {
		return ranges[i].EndLine >= hit.StartLine
	})
	if i < len(ranges) && ranges[i].Contains(hit) {
		return i
	}
	return -1
}

func checkSorted(field string, ranges []model.MergedRange) error {
	for i, r := range ranges {
		if r.StartLine > r.EndLine {
			return errors.NewValidationError(
				fmt.Sprintf("%s[%d]", field, i),
				fmt.Sprintf("start line %d is after end line %d", r.StartLine, r.EndLine),
			)
		}
		if i > 0 && r.StartLine <= ranges[i-1].EndLine {
			return errors.NewValidationError(
				fmt.Sprintf("%s[%d]", field, i),
				"ranges must be sorted and disjoint",
			)
		}
	}
	return nil
}

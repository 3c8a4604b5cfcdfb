// Package winnow selects robust fingerprints from a token stream.
//
// Every overlapping k-gram of tokens is hashed, then a window of w consecutive
// k-gram hashes slides across the sequence. In each window the minimum hash is
// selected (the rightmost one on ties) and a fingerprint is emitted whenever
// the selected k-gram differs from the previous window's selection. Any run of
// at least w+k-1 tokens shared by two documents therefore yields at least one
// shared fingerprint.
package winnow

import (
	"fmt"

	"github.com/gcbaptista/go-winnow/config"
	"github.com/gcbaptista/go-winnow/internal/errors"
	"github.com/gcbaptista/go-winnow/model"
)

// Index turns a token stream into its winnowed fingerprints, in source order.
// Streams shorter than k tokens produce an empty, non-nil slice.
func Index(tokens []model.Token, settings config.FingerprintSettings) ([]model.Fingerprint, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if err := checkLineOrder(tokens); err != nil {
		return nil, err
	}

	k := settings.KValue
	if len(tokens) < k {
		return []model.Fingerprint{}, nil
	}

	hasher, err := NewHasher(settings.HashAlgorithm, settings.IgnoreCase)
	if err != nil {
		return nil, err
	}

	hashes := HashKGrams(tokens, k, hasher)
	positions := Select(hashes, settings.WindowSizeValue)

	fingerprints := make([]model.Fingerprint, len(positions))
	for i, pos := range positions {
		fingerprints[i] = model.Fingerprint{
			Hash:      hashes[pos],
			StartLine: tokens[pos].Line,
			EndLine:   tokens[pos+k-1].LastLine(),
		}
	}
	return fingerprints, nil
}

// Select returns the positions of the k-gram hashes chosen by winnowing with
// window size w, in ascending order. A sequence shorter than w is treated as
// a single window.
func Select(hashes []uint64, w int) []int {
	m := len(hashes)
	if m == 0 || w < 1 {
		return []int{}
	}
	if w > m {
		w = m
	}

	selected := make([]int, 0, 2*m/(w+1)+1)
	minPos, prev := -1, -1
	for start := 0; start+w <= m; start++ {
		end := start + w - 1
		if minPos < start {
			// The previous minimum slid out of the window; rescan it.
			minPos = start
			for i := start + 1; i <= end; i++ {
				if hashes[i] <= hashes[minPos] {
					minPos = i
				}
			}
		} else if hashes[end] <= hashes[minPos] {
			minPos = end
		}

		if minPos != prev {
			selected = append(selected, minPos)
			prev = minPos
		}
	}
	return selected
}

func checkLineOrder(tokens []model.Token) error {
	for i := 1; i < len(tokens); i++ {
		if tokens[i].Line < tokens[i-1].Line {
			return errors.NewValidationError(
				fmt.Sprintf("tokens[%d]", i),
				fmt.Sprintf("line %d precedes line %d of the previous token", tokens[i].Line, tokens[i-1].Line),
			)
		}
	}
	return nil
}

package winnow

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-winnow/config"
	winnowerrors "github.com/gcbaptista/go-winnow/internal/errors"
	"github.com/gcbaptista/go-winnow/model"
)

// tokensOnLines places perLine tokens on each line, starting at line 1.
func tokensOnLines(words []string, perLine int) []model.Token {
	tokens := make([]model.Token, len(words))
	for i, w := range words {
		tokens[i] = model.Token{Text: w, Line: uint32(i/perLine) + 1}
	}
	return tokens
}

func randomWords(r *rand.Rand, n int) []string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", r.Intn(50))
	}
	return words
}

func settings(k, w int) config.FingerprintSettings {
	return config.FingerprintSettings{KValue: k, WindowSizeValue: w, HashAlgorithm: config.HashXXHash}
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name   string
		hashes []uint64
		w      int
		want   []int
	}{
		{
			name:   "minimum per window without repeats",
			hashes: []uint64{5, 1, 4, 2},
			w:      2,
			want:   []int{1, 3},
		},
		{
			name:   "ties pick the rightmost occurrence",
			hashes: []uint64{3, 3, 3, 3},
			w:      2,
			want:   []int{1, 2, 3},
		},
		{
			name:   "minimum kept while it stays in the window",
			hashes: []uint64{2, 1, 1, 5},
			w:      3,
			want:   []int{2},
		},
		{
			name:   "fewer hashes than the window form one window",
			hashes: []uint64{9, 4, 7},
			w:      5,
			want:   []int{1},
		},
		{
			name:   "window of one selects everything",
			hashes: []uint64{8, 8, 3},
			w:      1,
			want:   []int{0, 1, 2},
		},
		{
			name:   "empty input",
			hashes: nil,
			w:      4,
			want:   []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Select(tt.hashes, tt.w))
		})
	}
}

func TestSelect_WindowCoverage(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for trial := 0; trial < 50; trial++ {
		m := 1 + r.Intn(200)
		w := 1 + r.Intn(12)
		hashes := make([]uint64, m)
		for i := range hashes {
			hashes[i] = uint64(r.Intn(30))
		}

		selected := Select(hashes, w)
		effectiveW := w
		if effectiveW > m {
			effectiveW = m
		}

		// At most one new selection per window advance
		assert.LessOrEqual(t, len(selected), m-effectiveW+1)

		// Strictly increasing positions, so no consecutive repeats
		for i := 1; i < len(selected); i++ {
			assert.Greater(t, selected[i], selected[i-1])
		}

		// Every window contains its selected minimum
		isSelected := make(map[int]bool, len(selected))
		for _, pos := range selected {
			isSelected[pos] = true
		}
		for start := 0; start+effectiveW <= m; start++ {
			minPos := start
			for i := start; i < start+effectiveW; i++ {
				if hashes[i] <= hashes[minPos] {
					minPos = i
				}
			}
			assert.True(t, isSelected[minPos], "window at %d lost its minimum %d", start, minPos)
		}
	}
}

func TestIndex_FewerTokensThanK(t *testing.T) {
	tokens := tokensOnLines([]string{"a", "b", "c"}, 1)

	fingerprints, err := Index(tokens, settings(4, 2))
	require.NoError(t, err)
	assert.NotNil(t, fingerprints)
	assert.Empty(t, fingerprints)

	fingerprints, err = Index(nil, settings(1, 1))
	require.NoError(t, err)
	assert.Empty(t, fingerprints)
}

func TestIndex_InvalidConfiguration(t *testing.T) {
	tokens := tokensOnLines([]string{"a", "b", "c"}, 1)

	for _, s := range []config.FingerprintSettings{settings(0, 2), settings(2, 0), settings(-1, 3)} {
		_, err := Index(tokens, s)
		require.Error(t, err)
		assert.True(t, errors.Is(err, winnowerrors.ErrConfiguration), "got %v", err)
	}
}

func TestIndex_LineSpans(t *testing.T) {
	// Two tokens per line: lines 1,1,2,2,3,3
	tokens := tokensOnLines([]string{"a", "b", "c", "d", "e", "f"}, 2)

	fingerprints, err := Index(tokens, settings(3, 1))
	require.NoError(t, err)
	require.Len(t, fingerprints, 4)

	wantSpans := [][2]uint32{{1, 2}, {1, 2}, {2, 3}, {2, 3}}
	for i, fp := range fingerprints {
		assert.Equal(t, wantSpans[i][0], fp.StartLine, "fingerprint %d start", i)
		assert.Equal(t, wantSpans[i][1], fp.EndLine, "fingerprint %d end", i)
		assert.LessOrEqual(t, fp.StartLine, fp.EndLine)
	}
}

func TestIndex_MultiLineLastToken(t *testing.T) {
	tokens := []model.Token{
		{Text: "var", Line: 1},
		{Text: "usage", Line: 1},
		{Text: "=", Line: 1},
		{Text: "`a\nb\nc`", Line: 1, EndLine: 3},
	}

	fps, err := Index(tokens, settings(4, 1))
	require.NoError(t, err)
	require.Len(t, fps, 1)
	assert.Equal(t, uint32(1), fps[0].StartLine)
	assert.Equal(t, uint32(3), fps[0].EndLine)
}

func TestIndex_Deterministic(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	tokens := tokensOnLines(randomWords(r, 300), 4)

	for _, algorithm := range []string{config.HashXXHash, config.HashBlake3} {
		s := config.FingerprintSettings{KValue: 5, WindowSizeValue: 4, HashAlgorithm: algorithm}
		first, err := Index(tokens, s)
		require.NoError(t, err)
		second, err := Index(tokens, s)
		require.NoError(t, err)
		assert.Equal(t, first, second, "algorithm %s", algorithm)
		assert.NotEmpty(t, first)
	}
}

func TestIndex_SharedRunProducesSharedFingerprint(t *testing.T) {
	r := rand.New(rand.NewSource(1234))
	k, w := 5, 4
	guarantee := w + k - 1

	for _, algorithm := range []string{config.HashXXHash, config.HashBlake3} {
		s := config.FingerprintSettings{KValue: k, WindowSizeValue: w, HashAlgorithm: algorithm}
		for trial := 0; trial < 25; trial++ {
			shared := randomWords(r, guarantee+r.Intn(10))
			a := append(append(randomWords(r, r.Intn(40)), shared...), randomWords(r, r.Intn(40))...)
			b := append(append(randomWords(r, r.Intn(40)), shared...), randomWords(r, r.Intn(40))...)

			fpA, err := Index(tokensOnLines(a, 3), s)
			require.NoError(t, err)
			fpB, err := Index(tokensOnLines(b, 3), s)
			require.NoError(t, err)

			hashesA := make(map[uint64]bool, len(fpA))
			for _, fp := range fpA {
				hashesA[fp.Hash] = true
			}
			found := false
			for _, fp := range fpB {
				if hashesA[fp.Hash] {
					found = true
					break
				}
			}
			assert.True(t, found, "%s trial %d: shared run of %d tokens produced no shared fingerprint", algorithm, trial, len(shared))
		}
	}
}

func TestIndex_IgnoreCase(t *testing.T) {
	upper := tokensOnLines([]string{"Foo", "BAR", "baz", "Qux"}, 1)
	lower := tokensOnLines([]string{"foo", "bar", "baz", "qux"}, 1)

	s := settings(2, 2)
	s.IgnoreCase = true
	fpUpper, err := Index(upper, s)
	require.NoError(t, err)
	fpLower, err := Index(lower, s)
	require.NoError(t, err)
	assert.Equal(t, fpLower, fpUpper)

	s.IgnoreCase = false
	fpUpper, err = Index(upper, s)
	require.NoError(t, err)
	assert.NotEqual(t, fpLower, fpUpper)
}

func TestIndex_RejectsUnorderedTokens(t *testing.T) {
	tokens := []model.Token{{Text: "a", Line: 3}, {Text: "b", Line: 2}}

	_, err := Index(tokens, settings(1, 1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, winnowerrors.ErrInvalidInput))
}

func TestHashKGrams_SeparatorMatters(t *testing.T) {
	hasher, err := NewHasher(config.HashXXHash, false)
	require.NoError(t, err)

	ab := hasher.Sum64([]model.Token{{Text: "ab"}, {Text: "c"}})
	abc := hasher.Sum64([]model.Token{{Text: "a"}, {Text: "bc"}})
	assert.NotEqual(t, ab, abc)

	_, err = NewHasher("crc32", false)
	assert.True(t, errors.Is(err, winnowerrors.ErrConfiguration))
}

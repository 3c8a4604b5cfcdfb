package winnow

import (
	"encoding/binary"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/blake3"

	"github.com/gcbaptista/go-winnow/config"
	"github.com/gcbaptista/go-winnow/internal/errors"
	"github.com/gcbaptista/go-winnow/model"
)

// separator terminates every token inside a k-gram so that ("ab", "c") and
// ("a", "bc") hash differently.
var separator = []byte{0}

// KGramHasher hashes the texts of one k-gram to 64 bits. Implementations reuse
// internal state and are not safe for concurrent use.
type KGramHasher interface {
	Sum64(gram []model.Token) uint64
}

// NewHasher returns the hasher registered for the algorithm name.
func NewHasher(algorithm string, ignoreCase bool) (KGramHasher, error) {
	switch algorithm {
	case config.HashXXHash:
		return &xxhashHasher{digest: xxhash.New(), ignoreCase: ignoreCase}, nil
	case config.HashBlake3:
		return &blake3Hasher{hasher: blake3.New(), ignoreCase: ignoreCase}, nil
	default:
		return nil, errors.NewConfigurationError("hash_algorithm", "unknown hash algorithm '"+algorithm+"'")
	}
}

type xxhashHasher struct {
	digest     *xxhash.Digest
	ignoreCase bool
}

func (h *xxhashHasher) Sum64(gram []model.Token) uint64 {
	h.digest.Reset()
	for _, token := range gram {
		_, _ = h.digest.WriteString(tokenText(token, h.ignoreCase))
		_, _ = h.digest.Write(separator)
	}
	return h.digest.Sum64()
}

// blake3Hasher keeps the first 8 bytes of the digest, little-endian.
type blake3Hasher struct {
	hasher     *blake3.Hasher
	ignoreCase bool
}

func (h *blake3Hasher) Sum64(gram []model.Token) uint64 {
	h.hasher.Reset()
	for _, token := range gram {
		_, _ = h.hasher.Write([]byte(tokenText(token, h.ignoreCase)))
		_, _ = h.hasher.Write(separator)
	}
	sum := h.hasher.Sum(nil)
	return binary.LittleEndian.Uint64(sum[:8])
}

func tokenText(token model.Token, ignoreCase bool) string {
	if ignoreCase {
		return strings.ToLower(token.Text)
	}
	return token.Text
}

// HashKGrams hashes every overlapping k-gram of tokens, in source order.
// It returns nil when there are fewer than k tokens.
func HashKGrams(tokens []model.Token, k int, hasher KGramHasher) []uint64 {
	if k < 1 || len(tokens) < k {
		return nil
	}
	hashes := make([]uint64, len(tokens)-k+1)
	for i := range hashes {
		hashes[i] = hasher.Sum64(tokens[i : i+k])
	}
	return hashes
}

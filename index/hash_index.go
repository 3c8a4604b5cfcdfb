package index

import (
	"bytes"
	"encoding/gob"
	"sync"

	"github.com/gcbaptista/go-winnow/model"
)

// HashIndex maps a fingerprint hash to the ordinals of every fingerprint
// carrying that hash, in insertion order.
type HashIndex struct {
	Mu    sync.RWMutex
	Index map[uint64]PostingList
}

// gobHashIndexData is a helper struct for Gob encoding/decoding HashIndex data.
// It excludes the mutex.
type gobHashIndexData struct {
	Index map[uint64]PostingList
}

// NewHashIndex creates an empty index.
func NewHashIndex() *HashIndex {
	return &HashIndex{Index: make(map[uint64]PostingList)}
}

// Build indexes a fingerprint sequence by position.
func Build(fingerprints []model.Fingerprint) *HashIndex {
	idx := &HashIndex{Index: make(map[uint64]PostingList, len(fingerprints))}
	for i, fp := range fingerprints {
		idx.Index[fp.Hash] = append(idx.Index[fp.Hash], PostingEntry{
			Ordinal:   i,
			StartLine: fp.StartLine,
			EndLine:   fp.EndLine,
		})
	}
	return idx
}

// Add appends a posting for hash.
func (hi *HashIndex) Add(hash uint64, entry PostingEntry) {
	hi.Mu.Lock()
	defer hi.Mu.Unlock()

	hi.Index[hash] = append(hi.Index[hash], entry)
}

// Lookup returns the postings for hash in insertion order. The returned
// slice must not be modified.
func (hi *HashIndex) Lookup(hash uint64) PostingList {
	hi.Mu.RLock()
	defer hi.Mu.RUnlock()

	return hi.Index[hash]
}

// Len returns the number of distinct hashes.
func (hi *HashIndex) Len() int {
	hi.Mu.RLock()
	defer hi.Mu.RUnlock()

	return len(hi.Index)
}

// GobEncode implements the gob.GobEncoder interface for HashIndex.
func (hi *HashIndex) GobEncode() ([]byte, error) {
	hi.Mu.RLock() // Ensure consistent data during encoding
	defer hi.Mu.RUnlock()

	var buf bytes.Buffer
	encoder := gob.NewEncoder(&buf)
	if err := encoder.Encode(gobHashIndexData{Index: hi.Index}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface for HashIndex.
func (hi *HashIndex) GobDecode(data []byte) error {
	decodedData := gobHashIndexData{}

	decoder := gob.NewDecoder(bytes.NewBuffer(data))
	if err := decoder.Decode(&decodedData); err != nil {
		return err
	}

	hi.Mu.Lock()
	defer hi.Mu.Unlock()

	hi.Index = decodedData.Index
	// An index encoded while empty decodes to a nil map
	if hi.Index == nil {
		hi.Index = make(map[uint64]PostingList)
	}
	return nil
}

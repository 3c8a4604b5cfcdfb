package model

// Token is a normalized lexical unit tagged with the 1-based line it came from.
// EndLine is set only for tokens spanning several lines, such as raw strings.
type Token struct {
	Text    string `json:"text"`
	Line    uint32 `json:"line"`
	EndLine uint32 `json:"end_line,omitempty"`
}

// LastLine returns the line the token ends on.
func (t Token) LastLine() uint32 {
	if t.EndLine > t.Line {
		return t.EndLine
	}
	return t.Line
}

// Fingerprint is a selected, hashed k-gram with the line span it covers.
// StartLine is the line of the first token of the k-gram, EndLine the line of the last.
type Fingerprint struct {
	Hash      uint64 `json:"hash"`
	StartLine uint32 `json:"start_line"`
	EndLine   uint32 `json:"end_line"`
}

// RawHit is one line range in a single document implicated by a fingerprint collision.
type RawHit struct {
	StartLine uint32 `json:"start_line"`
	EndLine   uint32 `json:"end_line"`
}

// Collision pairs the two raw hits produced by one matching fingerprint pair.
type Collision struct {
	Source RawHit `json:"source"`
	Target RawHit `json:"target"`
}

// MergedRange is the maximal union of overlapping or adjacent raw hits in one document.
type MergedRange struct {
	StartLine uint32 `json:"start_line"`
	EndLine   uint32 `json:"end_line"`
}

// Lines returns the number of lines covered by the range, both ends inclusive.
func (r MergedRange) Lines() uint32 {
	return r.EndLine - r.StartLine + 1
}

// Contains reports whether the hit lies entirely within the range.
func (r MergedRange) Contains(hit RawHit) bool {
	return r.StartLine <= hit.StartLine && r.EndLine >= hit.EndLine
}

// FingerprintKey addresses the cached fingerprints of one document under one
// settings signature, so differently configured fingerprints never alias.
// ContentHash identifies the registered text: a document deleted and added
// again with other text never shares a key with its predecessor.
type FingerprintKey struct {
	DocumentID  string `json:"document_id"`
	Signature   string `json:"signature"`
	ContentHash string `json:"content_hash"`
}

func (k FingerprintKey) String() string {
	return k.DocumentID + "@" + k.Signature + "#" + k.ContentHash
}

package index

// PostingEntry records one fingerprint occurrence: its position in the
// indexed sequence and the line span of its k-gram.
type PostingEntry struct {
	Ordinal   int
	StartLine uint32
	EndLine   uint32
}

// PostingList is kept in ascending Ordinal order, which is the order
// fingerprints were indexed in.
type PostingList []PostingEntry

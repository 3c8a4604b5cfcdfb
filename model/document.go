package model

import "strings"

// DocumentMeta identifies a document in comparison output.
// The fingerprinting core never interprets these fields, it copies them verbatim
// into each MatchResult.
type DocumentMeta struct {
	ID        string `json:"id"`
	Path      string `json:"path"`
	Name      string `json:"name"`
	Extension string `json:"extension"`
}

// Document is a registered document: its metadata plus the raw text.
// The raw text is kept because the match percentage is computed against the
// line count of the source text, not of the normalized token stream.
type Document struct {
	Meta DocumentMeta `json:"meta"`
	Text string       `json:"text"`
}

// GetDocumentID returns the document ID if it is set and not blank.
func (d Document) GetDocumentID() (string, bool) {
	if strings.TrimSpace(d.Meta.ID) == "" {
		return "", false
	}
	return d.Meta.ID, true
}

// LineCount returns the number of '\n' separated lines in the raw text.
// An empty text counts as one (empty) line, and a trailing newline adds an
// extra empty line.
func (d Document) LineCount() int {
	return strings.Count(d.Text, "\n") + 1
}

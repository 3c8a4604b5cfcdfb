// Package tokenizer turns source text into line-tagged tokens for
// fingerprinting. Comments and whitespace never produce tokens.
package tokenizer

import (
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/gcbaptista/go-winnow/model"
)

// Lexer splits text into tokens in source order. Token lines are 1-based and
// never decrease.
type Lexer interface {
	Lex(text string) ([]model.Token, error)
}

// tokenRegex matches identifiers, numbers (with an optional fraction) and
// single punctuation characters.
var tokenRegex = regexp.MustCompile(`[\p{L}_][\p{L}\p{N}_]*|\p{N}+(?:\.\p{N}+)?|[^\s\p{L}\p{N}_]`)

// acronymRegex handles cases like "HTTPRequest" -> "HTTP Request"
var acronymRegex = regexp.MustCompile(`([A-Z]+)([A-Z][a-z])`)

// camelCaseRegex handles cases like "theOffice" -> "the Office" or "myAPI" -> "my API"
var camelCaseRegex = regexp.MustCompile(`([a-z0-9])([A-Z])`)

// GenericLexer is the language-agnostic lexer used for every extension
// without a dedicated grammar.
type GenericLexer struct {
	// CommentPrefix drops lines whose first non-blank text starts with it.
	CommentPrefix string
	// StripBlockComments blanks /* ... */ comments, keeping their newlines.
	StripBlockComments bool
}

// NewGenericLexer configures a GenericLexer from the comment syntax of ext.
func NewGenericLexer(ext string) *GenericLexer {
	prefix := commentPrefixes[normalizeExtension(ext)]
	return &GenericLexer{
		CommentPrefix:      prefix,
		StripBlockComments: prefix == "//",
	}
}

func (l *GenericLexer) Lex(text string) ([]model.Token, error) {
	if l.StripBlockComments {
		text = stripBlockComments(text)
	}

	tokens := make([]model.Token, 0)
	for i, line := range strings.Split(text, "\n") {
		if isCommentOnly(line, l.CommentPrefix) {
			continue
		}
		lineNumber := uint32(i + 1)
		for _, match := range tokenRegex.FindAllString(line, -1) {
			tokens = append(tokens, model.Token{Text: match, Line: lineNumber})
		}
	}
	return tokens, nil
}

var identifierRegex = regexp.MustCompile(`^[\p{L}_][\p{L}\p{N}_]*$`)

// SplitIdentifiers breaks camelCase and PascalCase identifiers into their
// words, each keeping the line span of the identifier. Other tokens, string
// literals included, pass through unchanged.
func SplitIdentifiers(tokens []model.Token) []model.Token {
	out := make([]model.Token, 0, len(tokens))
	for _, tok := range tokens {
		if !identifierRegex.MatchString(tok.Text) {
			out = append(out, tok)
			continue
		}
		for _, part := range splitIdentifier(tok.Text) {
			split := tok
			split.Text = part
			out = append(out, split)
		}
	}
	return out
}

func splitIdentifier(word string) []string {
	split := acronymRegex.ReplaceAllString(word, "$1 $2")
	split = camelCaseRegex.ReplaceAllString(split, "$1 $2")
	return strings.Fields(split)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Lexer)
)

// Register installs a lexer for a file extension, replacing any previous one.
func Register(ext string, lexer Lexer) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[normalizeExtension(ext)] = lexer
}

// ForExtension returns the lexer registered for ext, or a GenericLexer using
// the extension's comment syntax.
func ForExtension(ext string) Lexer {
	ext = normalizeExtension(ext)

	registryMu.RLock()
	lexer, ok := registry[ext]
	registryMu.RUnlock()
	if ok {
		return lexer
	}
	return NewGenericLexer(ext)
}

// ForPath picks the lexer for a file path by its extension.
func ForPath(path string) Lexer {
	return ForExtension(filepath.Ext(path))
}

func normalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

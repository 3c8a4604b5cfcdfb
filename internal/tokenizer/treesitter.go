package tokenizer

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"

	"github.com/gcbaptista/go-winnow/model"
)

func init() {
	Register(".go", NewTreeSitterLexer("go", sitter.NewLanguage(tree_sitter_go.Language()),
		[]string{"comment"},
		[]string{"interpreted_string_literal", "raw_string_literal", "rune_literal"},
	))
	Register(".java", NewTreeSitterLexer("java", sitter.NewLanguage(tree_sitter_java.Language()),
		[]string{"line_comment", "block_comment"},
		[]string{"string_literal", "character_literal"},
	))
}

// TreeSitterLexer emits the leaves of a tree-sitter syntax tree as tokens.
// Literal nodes are emitted whole even when the grammar splits them further.
type TreeSitterLexer struct {
	name     string
	language *sitter.Language
	comments map[string]bool
	atomic   map[string]bool
}

// NewTreeSitterLexer builds a lexer for a grammar. commentKinds are skipped
// with their subtrees and atomicKinds become a single token.
func NewTreeSitterLexer(name string, language *sitter.Language, commentKinds, atomicKinds []string) *TreeSitterLexer {
	l := &TreeSitterLexer{
		name:     name,
		language: language,
		comments: make(map[string]bool, len(commentKinds)),
		atomic:   make(map[string]bool, len(atomicKinds)),
	}
	for _, kind := range commentKinds {
		l.comments[kind] = true
	}
	for _, kind := range atomicKinds {
		l.atomic[kind] = true
	}
	return l
}

// Lex parses text with a fresh parser, since parsers cannot be shared
// between goroutines.
func (l *TreeSitterLexer) Lex(text string) ([]model.Token, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(l.language); err != nil {
		return nil, fmt.Errorf("failed to load %s grammar: %w", l.name, err)
	}

	source := []byte(text)
	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("tree-sitter failed to parse %s source", l.name)
	}
	defer tree.Close()

	tokens := make([]model.Token, 0)
	l.collect(tree.RootNode(), source, &tokens)
	return tokens, nil
}

func (l *TreeSitterLexer) collect(node *sitter.Node, source []byte, tokens *[]model.Token) {
	if node == nil || node.IsMissing() {
		return
	}
	kind := node.Kind()
	if l.comments[kind] {
		return
	}
	if node.ChildCount() == 0 || l.atomic[kind] {
		if text := node.Utf8Text(source); text != "" && !isBlank(text) {
			tok := model.Token{Text: text, Line: uint32(node.StartPosition().Row) + 1}
			if end := uint32(node.EndPosition().Row) + 1; end > tok.Line {
				tok.EndLine = end
			}
			*tokens = append(*tokens, tok)
		}
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		l.collect(node.Child(i), source, tokens)
	}
}

func isBlank(text string) bool {
	for _, r := range text {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}

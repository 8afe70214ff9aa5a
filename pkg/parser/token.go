// Package parser turns Python source text into a pyast tree plus the list
// of comments found along the way. The tokenizer is indentation-aware and
// the parser is a recursive-descent pass over the token stream.
package parser

import "github.com/nkxxll/ruff/pkg/pyast"

// TokenKind classifies the type of a token in the Python source.
type TokenKind uint8

const (
	TokName TokenKind = iota
	TokNumber
	TokString
	TokOp
	TokComment
	TokNewline
	TokIndent
	TokDedent
	TokEOF
)

// Token represents a classified span of bytes in the source.
type Token struct {
	// Kind classifies what this token represents.
	Kind TokenKind

	// Span is the byte range of the token. Indent, dedent, and EOF tokens
	// have zero-length spans.
	Span pyast.Span
}

// Text returns the source text of this token.
func (t Token) Text(source []byte) string {
	return string(t.Span.Text(source))
}

// Is reports whether the token is an operator or name with the given
// spelling.
func (t Token) Is(source []byte, spelling string) bool {
	if t.Kind != TokOp && t.Kind != TokName {
		return false
	}
	return t.Text(source) == spelling
}

// Comment is a comment found during tokenization. OwnLine is true when only
// whitespace precedes the comment on its line.
type Comment struct {
	Span    pyast.Span
	OwnLine bool
}

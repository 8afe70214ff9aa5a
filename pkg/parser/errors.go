package parser

import "fmt"

// ErrorKind distinguishes tokenizer failures from grammar failures.
type ErrorKind uint8

const (
	// ErrLexical marks errors raised while tokenizing (bad characters,
	// unterminated strings, inconsistent indentation).
	ErrLexical ErrorKind = iota

	// ErrSyntax marks errors raised while parsing the token stream.
	ErrSyntax
)

func (k ErrorKind) String() string {
	if k == ErrLexical {
		return "lexical"
	}
	return "syntax"
}

// ParseError describes a lexical or syntax error at a byte offset.
type ParseError struct {
	Kind   ErrorKind
	Offset int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s error at offset %d: %s", e.Kind, e.Offset, e.Msg)
}

func lexicalError(offset int, format string, args ...any) *ParseError {
	return &ParseError{Kind: ErrLexical, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

func syntaxError(offset int, format string, args ...any) *ParseError {
	return &ParseError{Kind: ErrSyntax, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

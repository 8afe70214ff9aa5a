package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nkxxll/ruff/pkg/pyast"
)

// operators holds every operator spelling, longest first so the tokenizer
// can match greedily.
var operators = []string{
	"**=", "//=", ">>=", "<<=", "...", "!=", ">=", "<=", "==", "->", ":=",
	"+=", "-=", "*=", "/=", "%=", "@=", "&=", "|=", "^=", "**", "//", ">>",
	"<<", "+", "-", "*", "/", "%", "@", "&", "|", "^", "~", "<", ">", "(",
	")", "[", "]", "{", "}", ",", ":", ".", ";", "=",
}

type tokenizer struct {
	source []byte
	pos    int

	// bracket nesting depth; newlines inside brackets are not logical.
	depth int

	// indentation stack; the bottom entry is always "".
	indents []string

	tokens   []Token
	comments []Comment
}

// Tokenize splits source into tokens and comments. Indent and dedent tokens
// reflect the literal indentation strings: a deeper block must extend its
// parent's indentation, but no particular style is required at this stage.
func Tokenize(source []byte) ([]Token, []Comment, error) {
	t := &tokenizer{source: source, indents: []string{""}}
	if err := t.run(); err != nil {
		return nil, nil, err
	}
	return t.tokens, t.comments, nil
}

func (t *tokenizer) run() error {
	for t.pos < len(t.source) {
		if err := t.line(); err != nil {
			return err
		}
	}

	// Close any open line and unwind remaining indentation.
	t.flushNewline()
	for len(t.indents) > 1 {
		t.indents = t.indents[:len(t.indents)-1]
		t.emit(TokDedent, t.pos, t.pos)
	}
	t.emit(TokEOF, t.pos, t.pos)
	return nil
}

// line tokenizes one physical line starting at a line head, including any
// continuation lines joined by brackets or backslashes.
func (t *tokenizer) line() error {
	indentStart := t.pos
	for t.pos < len(t.source) && (t.source[t.pos] == ' ' || t.source[t.pos] == '\t') {
		t.pos++
	}
	indent := string(t.source[indentStart:t.pos])

	// Blank and comment-only lines carry no indentation structure.
	if t.pos >= len(t.source) || t.source[t.pos] == '\n' || t.source[t.pos] == '\r' {
		t.skipNewline()
		return nil
	}
	if t.source[t.pos] == '#' {
		t.comment(true)
		t.skipNewline()
		return nil
	}

	if err := t.applyIndent(indent, indentStart); err != nil {
		return err
	}

	return t.logicalLine()
}

func (t *tokenizer) applyIndent(indent string, offset int) error {
	top := t.indents[len(t.indents)-1]
	switch {
	case indent == top:
		return nil
	case strings.HasPrefix(indent, top):
		t.indents = append(t.indents, indent)
		t.emit(TokIndent, offset, offset+len(indent))
		return nil
	default:
		for len(t.indents) > 1 {
			t.indents = t.indents[:len(t.indents)-1]
			t.emit(TokDedent, offset, offset)
			if t.indents[len(t.indents)-1] == indent {
				return nil
			}
			if strings.HasPrefix(indent, t.indents[len(t.indents)-1]) {
				// Dedents to a level between two stack entries.
				t.indents = append(t.indents, indent)
				t.emit(TokIndent, offset, offset+len(indent))
				return nil
			}
		}
		if indent == "" {
			return nil
		}
		return lexicalError(offset, "unindent does not match any outer indentation level")
	}
}

// logicalLine tokenizes until the terminating newline at bracket depth zero.
func (t *tokenizer) logicalLine() error {
	for t.pos < len(t.source) {
		c := t.source[t.pos]
		switch {
		case c == ' ' || c == '\t':
			t.pos++
		case c == '\\' && t.peekNewline(t.pos+1):
			t.pos++
			t.skipNewline()
		case c == '\n' || c == '\r':
			if t.depth > 0 {
				t.skipNewline()
				continue
			}
			t.flushNewline()
			t.skipNewline()
			return nil
		case c == '#':
			t.comment(false)
		case isStringStart(t.source, t.pos):
			if err := t.string(); err != nil {
				return err
			}
		case isDigit(c) || (c == '.' && t.pos+1 < len(t.source) && isDigit(t.source[t.pos+1])):
			t.number()
		case isNameStart(t.source, t.pos):
			t.name()
		default:
			if !t.operator() {
				return lexicalError(t.pos, "unexpected character %q", c)
			}
		}
	}
	t.flushNewline()
	return nil
}

func (t *tokenizer) comment(ownLine bool) {
	start := t.pos
	for t.pos < len(t.source) && t.source[t.pos] != '\n' && t.source[t.pos] != '\r' {
		t.pos++
	}
	span := pyast.Span{Start: start, End: t.pos}
	t.comments = append(t.comments, Comment{Span: span, OwnLine: ownLine})
	t.emit(TokComment, start, t.pos)
}

func (t *tokenizer) string() error {
	start := t.pos

	// Optional prefix letters (r, b, f, u in any legal combination).
	for t.pos < len(t.source) && isStringPrefixByte(t.source[t.pos]) {
		t.pos++
	}

	quote := t.source[t.pos]
	triple := t.pos+2 < len(t.source) &&
		t.source[t.pos+1] == quote && t.source[t.pos+2] == quote
	if triple {
		t.pos += 3
	} else {
		t.pos++
	}

	for t.pos < len(t.source) {
		c := t.source[t.pos]
		if c == '\\' && t.pos+1 < len(t.source) {
			t.pos += 2
			continue
		}
		if c == quote {
			if !triple {
				t.pos++
				t.emit(TokString, start, t.pos)
				return nil
			}
			if t.pos+2 < len(t.source) &&
				t.source[t.pos+1] == quote && t.source[t.pos+2] == quote {
				t.pos += 3
				t.emit(TokString, start, t.pos)
				return nil
			}
			t.pos++
			continue
		}
		if (c == '\n' || c == '\r') && !triple {
			return lexicalError(start, "unterminated string literal")
		}
		t.pos++
	}
	return lexicalError(start, "unterminated string literal")
}

func (t *tokenizer) number() {
	start := t.pos
	for t.pos < len(t.source) {
		c := t.source[t.pos]
		if isDigit(c) || isHexByte(c) || c == '_' || c == '.' ||
			c == 'x' || c == 'X' || c == 'o' || c == 'O' ||
			c == 'j' || c == 'J' {
			t.pos++
			continue
		}
		// Exponent sign.
		if (c == '+' || c == '-') && t.pos > start &&
			(t.source[t.pos-1] == 'e' || t.source[t.pos-1] == 'E') {
			t.pos++
			continue
		}
		break
	}
	t.emit(TokNumber, start, t.pos)
}

func (t *tokenizer) name() {
	start := t.pos
	for t.pos < len(t.source) {
		r, size := utf8.DecodeRune(t.source[t.pos:])
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		t.pos += size
	}
	t.emit(TokName, start, t.pos)
}

func (t *tokenizer) operator() bool {
	rest := t.source[t.pos:]
	for _, op := range operators {
		if len(rest) >= len(op) && string(rest[:len(op)]) == op {
			switch op {
			case "(", "[", "{":
				t.depth++
			case ")", "]", "}":
				if t.depth > 0 {
					t.depth--
				}
			}
			t.emit(TokOp, t.pos, t.pos+len(op))
			t.pos += len(op)
			return true
		}
	}
	return false
}

// flushNewline emits a logical newline token if the current line produced
// any non-trivia tokens since the last newline.
func (t *tokenizer) flushNewline() {
	for i := len(t.tokens) - 1; i >= 0; i-- {
		switch t.tokens[i].Kind {
		case TokNewline, TokIndent, TokDedent:
			return
		case TokComment:
			continue
		default:
			t.emit(TokNewline, t.pos, t.pos)
			return
		}
	}
}

func (t *tokenizer) skipNewline() {
	if t.pos < len(t.source) && t.source[t.pos] == '\r' {
		t.pos++
	}
	if t.pos < len(t.source) && t.source[t.pos] == '\n' {
		t.pos++
	}
}

func (t *tokenizer) peekNewline(pos int) bool {
	return pos < len(t.source) && (t.source[pos] == '\n' || t.source[pos] == '\r')
}

func (t *tokenizer) emit(kind TokenKind, start, end int) {
	t.tokens = append(t.tokens, Token{Kind: kind, Span: pyast.Span{Start: start, End: end}})
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexByte(c byte) bool {
	return (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') || c == 'b' || c == 'B'
}

func isNameStart(source []byte, pos int) bool {
	r, _ := utf8.DecodeRune(source[pos:])
	return r == '_' || unicode.IsLetter(r)
}

func isStringPrefixByte(c byte) bool {
	switch c {
	case 'r', 'R', 'b', 'B', 'f', 'F', 'u', 'U':
		return true
	}
	return false
}

// isStringStart reports whether a string literal (with optional prefix)
// begins at pos.
func isStringStart(source []byte, pos int) bool {
	i := pos
	for i < len(source) && i-pos < 3 && isStringPrefixByte(source[i]) {
		i++
	}
	return i < len(source) && (source[i] == '"' || source[i] == '\'')
}

package format

import (
	"strings"

	"github.com/nkxxll/ruff/pkg/parser"
)

// spacingKeywords are the hard keywords relevant to token spacing. A "("
// after one of these opens a grouped expression, not a call, so it gets a
// space. Value-like keywords (None, True, False) and the soft keywords
// match/case are deliberately absent: they behave like operands.
var spacingKeywords = map[string]bool{
	"and": true, "as": true, "assert": true, "async": true, "await": true,
	"break": true, "class": true, "continue": true, "def": true, "del": true,
	"elif": true, "else": true, "except": true, "finally": true, "for": true,
	"from": true, "global": true, "if": true, "import": true, "in": true,
	"is": true, "lambda": true, "nonlocal": true, "not": true, "or": true,
	"pass": true, "raise": true, "return": true, "try": true, "while": true,
	"with": true, "yield": true,
}

// tokenEmitter joins code tokens into a single normalized line, applying
// canonical inter-token spacing. It tracks just enough context (bracket
// nesting, keyword-argument position, unary operators) to make the spacing
// decisions local.
type tokenEmitter struct {
	source []byte
	sb     strings.Builder

	prev     string
	prevKind parser.TokenKind

	// prevUnary is set after a prefix operator ("-", "~", "*", "**", a
	// decorator "@"): the operand follows without a space.
	prevUnary bool

	// prevTight is set after a keyword-argument "=", which binds its value
	// without spaces.
	prevTight bool

	stack []groupFrame
}

// groupFrame is one open bracket. sawColon records an annotation colon seen
// since the bracket or the last comma; an annotated parameter default is
// spaced while a plain keyword argument is tight.
type groupFrame struct {
	open     byte
	sawColon bool
}

func (e *tokenEmitter) top() byte {
	if len(e.stack) == 0 {
		return 0
	}
	return e.stack[len(e.stack)-1].open
}

// prevIsValue reports whether the previous token can end an expression: a
// name that is not a keyword, a literal, a closing bracket, or an ellipsis.
func (e *tokenEmitter) prevIsValue() bool {
	switch e.prev {
	case ")", "]", "}", "...":
		return true
	}
	switch e.prevKind {
	case parser.TokNumber, parser.TokString:
		return true
	case parser.TokName:
		return !spacingKeywords[e.prev]
	}
	return false
}

// prefixPosition reports whether the next operator would be prefix (unary)
// rather than binary: at the start of the segment, or after an operator,
// opening bracket, comma, or keyword.
func (e *tokenEmitter) prefixPosition() bool {
	if e.prev == "" {
		return true
	}
	if e.prevKind == parser.TokOp {
		switch e.prev {
		case ")", "]", "}", "...":
			return false
		}
		return true
	}
	return e.prevKind == parser.TokName && spacingKeywords[e.prev]
}

func (e *tokenEmitter) needSpace(cur string) bool {
	if e.prev == "" || e.prevUnary {
		return false
	}
	switch cur {
	case ")", "]", "}", ",", ";", ".", ":":
		return false
	}
	switch e.prev {
	case "(", "[", "{", ".":
		return false
	}
	if e.prev == ":" {
		// Tight in subscripts (slices), spaced everywhere else.
		return e.top() != '['
	}
	if e.prev == "," || e.prev == ";" {
		return true
	}
	if e.prevTight {
		return false
	}
	if cur == "=" && e.tightEquals() {
		return false
	}
	if cur == "(" || cur == "[" {
		// Calls and subscripts bind tightly to the value before them.
		return !e.prevIsValue()
	}
	if cur == "**" || e.prev == "**" {
		return false
	}
	return true
}

// tightEquals reports whether an "=" at the current position is a keyword
// argument or an unannotated parameter default.
func (e *tokenEmitter) tightEquals() bool {
	return e.top() == '(' && !e.stack[len(e.stack)-1].sawColon
}

func (e *tokenEmitter) emit(tok parser.Token) {
	text := tok.Text(e.source)
	if e.needSpace(text) {
		e.sb.WriteByte(' ')
	}

	prefix := e.prefixPosition()
	tight := tok.Kind == parser.TokOp && text == "=" && e.tightEquals()

	e.sb.WriteString(text)

	if tok.Kind == parser.TokOp {
		switch text {
		case "(", "[", "{":
			e.stack = append(e.stack, groupFrame{open: text[0]})
		case ")", "]", "}":
			if len(e.stack) > 0 {
				e.stack = e.stack[:len(e.stack)-1]
			}
		case ":":
			if len(e.stack) > 0 {
				e.stack[len(e.stack)-1].sawColon = true
			}
		case ",":
			if len(e.stack) > 0 {
				e.stack[len(e.stack)-1].sawColon = false
			}
		}
	}

	e.prevUnary = false
	if tok.Kind == parser.TokOp && prefix {
		switch text {
		case "+", "-", "~", "*", "**":
			e.prevUnary = true
		case "@":
			// Only the decorator "@" at the start of a segment is prefix.
			e.prevUnary = e.prev == ""
		}
	}
	e.prevTight = tight
	e.prev = text
	e.prevKind = tok.Kind
}

func (e *tokenEmitter) String() string {
	return e.sb.String()
}

// flattenTokens renders a token run as one normalized line. Trailing
// commas inside groups that stay on the line are dropped.
func flattenTokens(source []byte, toks []parser.Token) string {
	drops := flatCommaDrops(source, toks)
	e := &tokenEmitter{source: source}
	for i, tok := range toks {
		if drops[i] {
			continue
		}
		e.emit(tok)
	}
	return e.String()
}

// valueToken reports whether tok can end an expression, which makes a
// bracket directly after it a call or subscript.
func valueToken(source []byte, tok parser.Token) bool {
	switch tok.Kind {
	case parser.TokNumber, parser.TokString:
		return true
	case parser.TokName:
		return !spacingKeywords[tok.Text(source)]
	case parser.TokOp:
		switch tok.Text(source) {
		case ")", "]", "}", "...":
			return true
		}
	}
	return false
}

// flatCommaDrops finds the comma tokens to drop when their group is
// rendered on one line: any comma directly before its closing bracket.
// A load-bearing comma stays: one-element tuple displays and tuple
// subscripts mean a different value without it.
func flatCommaDrops(source []byte, toks []parser.Token) map[int]bool {
	type frame struct {
		open   byte
		commas int
		// bound marks a bracket attached to the value before it, a
		// call or subscript rather than a display.
		bound bool
	}
	var drops map[int]bool
	var stack []frame

	for i, tok := range toks {
		if tok.Kind != parser.TokOp {
			continue
		}
		switch text := tok.Text(source); text {
		case "(", "[", "{":
			stack = append(stack, frame{
				open:  text[0],
				bound: i > 0 && valueToken(source, toks[i-1]),
			})
		case ",":
			if len(stack) > 0 {
				stack[len(stack)-1].commas++
			}
		case ")", "]", "}":
			if len(stack) == 0 {
				continue
			}
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if i == 0 || !toks[i-1].Is(source, ",") {
				continue
			}
			tuple := (f.open == '(' && !f.bound) || (f.open == '[' && f.bound)
			if tuple && f.commas == 1 {
				continue
			}
			if drops == nil {
				drops = make(map[int]bool)
			}
			drops[i-1] = true
		}
	}
	return drops
}

// renderTokenLine renders a statement or clause-header token run at the
// given indent level. When the flat form exceeds the configured line length,
// or the outermost bracketed group carries a magic trailing comma, the group
// is expanded one element per line with a trailing comma.
func renderTokenLine(source []byte, toks []parser.Token, opts Options, level int) string {
	flat := flattenTokens(source, toks)

	open, closeIdx := outermostGroup(source, toks)
	if open < 0 || closeIdx <= open+1 {
		return flat
	}

	force := opts.MagicTrailingComma && toks[closeIdx-1].Is(source, ",")
	indent := opts.Indent(level)
	if !force && displayWidth(indent)+displayWidth(flat) <= opts.LineLength {
		return flat
	}

	elems := splitElements(source, toks[open+1:closeIdx])
	if len(elems) == 0 {
		return flat
	}

	inner := opts.Indent(level + 1)
	var sb strings.Builder
	sb.WriteString(flattenTokens(source, toks[:open+1]))
	for _, el := range elems {
		sb.WriteString("\n")
		sb.WriteString(inner)
		sb.WriteString(flattenTokens(source, el))
		sb.WriteString(",")
	}
	sb.WriteString("\n")
	sb.WriteString(indent)
	sb.WriteString(flattenTokens(source, toks[closeIdx:]))
	return sb.String()
}

// outermostGroup finds the first top-level bracket pair in the token run.
func outermostGroup(source []byte, toks []parser.Token) (open, closeIdx int) {
	depth := 0
	open = -1
	for i, tok := range toks {
		if tok.Kind != parser.TokOp {
			continue
		}
		switch tok.Text(source) {
		case "(", "[", "{":
			if depth == 0 && open < 0 {
				open = i
			}
			depth++
		case ")", "]", "}":
			depth--
			if depth == 0 && open >= 0 {
				return open, i
			}
		}
	}
	return -1, -1
}

// splitElements splits the tokens between a bracket pair at its top-level
// commas. A trailing comma yields no empty element.
func splitElements(source []byte, toks []parser.Token) [][]parser.Token {
	var elems [][]parser.Token
	depth := 0
	start := 0
	for i, tok := range toks {
		if tok.Kind != parser.TokOp {
			continue
		}
		switch tok.Text(source) {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
		case ",":
			if depth == 0 {
				if i > start {
					elems = append(elems, toks[start:i])
				}
				start = i + 1
			}
		}
	}
	if start < len(toks) {
		elems = append(elems, toks[start:])
	}
	return elems
}

package parser

import (
	"github.com/nkxxll/ruff/pkg/pyast"
)

// augOps are the augmented-assignment operator spellings.
var augOps = map[string]bool{
	"+=": true, "-=": true, "*=": true, "/=": true, "//=": true,
	"**=": true, "%=": true, "@=": true, "&=": true, "|=": true,
	"^=": true, ">>=": true, "<<=": true,
}

// simpleKeywords maps leading keywords to simple-statement kinds.
var simpleKeywords = map[string]pyast.Kind{
	"return":   pyast.KindReturn,
	"pass":     pyast.KindPass,
	"break":    pyast.KindBreak,
	"continue": pyast.KindContinue,
	"import":   pyast.KindImport,
	"from":     pyast.KindImportFrom,
	"raise":    pyast.KindRaise,
	"assert":   pyast.KindAssert,
	"global":   pyast.KindGlobal,
	"nonlocal": pyast.KindNonlocal,
	"del":      pyast.KindDelete,
}

type parseState struct {
	source []byte
	tokens []Token
	pos    int
}

// Result is the output of one parse: the module tree, every comment in
// source order, and the full token list (the renderer re-emits statement
// tokens from it).
type Result struct {
	Module   *pyast.Node
	Comments []Comment
	Tokens   []Token
}

// Parse tokenizes and parses source into a module tree plus the ordered
// comment list. The returned error is a *ParseError distinguishing lexical
// from syntax failures.
func Parse(source []byte) (*Result, error) {
	tokens, comments, err := Tokenize(source)
	if err != nil {
		return nil, err
	}

	// The grammar pass never looks at comments.
	filtered := make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Kind != TokComment {
			filtered = append(filtered, tok)
		}
	}

	p := &parseState{source: source, tokens: filtered}
	stmts, err := p.parseStatements()
	if err != nil {
		return nil, err
	}
	if p.cur().Kind != TokEOF {
		return nil, syntaxError(p.cur().Span.Start, "unexpected token")
	}

	module := &pyast.Node{
		Kind: pyast.KindModule,
		Span: pyast.Span{Start: 0, End: len(source)},
	}
	module.AddSuite(stmts, 0, false)
	normalizeDocstrings(module)

	return &Result{Module: module, Comments: comments, Tokens: tokens}, nil
}

func (p *parseState) cur() Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return Token{Kind: TokEOF, Span: pyast.Span{Start: len(p.source), End: len(p.source)}}
}

func (p *parseState) peek(n int) Token {
	if p.pos+n < len(p.tokens) {
		return p.tokens[p.pos+n]
	}
	return Token{Kind: TokEOF, Span: pyast.Span{Start: len(p.source), End: len(p.source)}}
}

func (p *parseState) advance() Token {
	tok := p.cur()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *parseState) at(spelling string) bool {
	return p.cur().Is(p.source, spelling)
}

func (p *parseState) expect(spelling string) (Token, error) {
	if !p.at(spelling) {
		return Token{}, syntaxError(p.cur().Span.Start, "expected %q", spelling)
	}
	return p.advance(), nil
}

func (p *parseState) expectKind(kind TokenKind, what string) (Token, error) {
	if p.cur().Kind != kind {
		return Token{}, syntaxError(p.cur().Span.Start, "expected %s", what)
	}
	return p.advance(), nil
}

// parseStatements parses statements until a dedent or EOF.
func (p *parseState) parseStatements() ([]*pyast.Node, error) {
	var stmts []*pyast.Node
	for {
		switch p.cur().Kind {
		case TokEOF, TokDedent:
			return stmts, nil
		case TokIndent:
			return nil, syntaxError(p.cur().Span.Start, "unexpected indent")
		case TokNewline:
			p.advance()
			continue
		}
		parsed, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, parsed...)
	}
}

// parseStatement parses one statement. Simple-statement lines joined with
// semicolons yield multiple statements.
func (p *parseState) parseStatement() ([]*pyast.Node, error) {
	tok := p.cur()

	if tok.Is(p.source, "@") {
		stmt, err := p.parseDecorated()
		if err != nil {
			return nil, err
		}
		return []*pyast.Node{stmt}, nil
	}

	if tok.Kind == TokName {
		var stmt *pyast.Node
		var err error
		switch tok.Text(p.source) {
		case "if":
			stmt, err = p.parseIf()
		case "while":
			stmt, err = p.parseHeaderSuite(pyast.KindWhile)
		case "for":
			stmt, err = p.parseHeaderSuite(pyast.KindFor)
		case "with":
			stmt, err = p.parseHeaderSuite(pyast.KindWith)
		case "async":
			stmt, err = p.parseAsync(nil)
		case "def":
			stmt, err = p.parseDefinition(pyast.KindFunctionDef, "def", nil)
		case "class":
			stmt, err = p.parseDefinition(pyast.KindClassDef, "class", nil)
		case "try":
			stmt, err = p.parseTry()
		case "match":
			if p.headerEndsWithColon() {
				stmt, err = p.parseMatch()
			}
		}
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			return []*pyast.Node{stmt}, nil
		}
	}

	return p.parseSimpleLine()
}

// headerEndsWithColon looks ahead to decide whether a soft-keyword line is a
// compound-statement header (its logical line ends with a colon).
func (p *parseState) headerEndsWithColon() bool {
	depth := 0
	last := ""
	for i := p.pos; i < len(p.tokens); i++ {
		tok := p.tokens[i]
		if tok.Kind == TokNewline || tok.Kind == TokEOF {
			break
		}
		text := tok.Text(p.source)
		switch text {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
		}
		if depth == 0 {
			last = text
		}
	}
	return last == ":"
}

// collectHeader consumes tokens up to the next top-level occurrence of one
// of the stop spellings and returns the covered expression span. The stop
// token is not consumed.
func (p *parseState) collectHeader(stops ...string) (pyast.Span, error) {
	start := -1
	end := -1
	depth := 0
	for {
		tok := p.cur()
		if tok.Kind == TokNewline || tok.Kind == TokEOF ||
			tok.Kind == TokIndent || tok.Kind == TokDedent {
			return pyast.Span{}, syntaxError(tok.Span.Start, "unexpected end of clause header")
		}
		text := tok.Text(p.source)
		if depth == 0 {
			for _, stop := range stops {
				if text == stop {
					if start < 0 {
						start, end = tok.Span.Start, tok.Span.Start
					}
					return pyast.Span{Start: start, End: end}, nil
				}
			}
		}
		switch text {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
		}
		if start < 0 {
			start = tok.Span.Start
		}
		end = tok.Span.End
		p.advance()
	}
}

// parseSuite parses the suite after a clause colon: either an indented
// block or simple statements on the header's line.
func (p *parseState) parseSuite() (stmts []*pyast.Node, inline bool, err error) {
	if p.cur().Kind == TokNewline {
		p.advance()
		if _, err = p.expectKind(TokIndent, "indented block"); err != nil {
			return nil, false, err
		}
		stmts, err = p.parseStatements()
		if err != nil {
			return nil, false, err
		}
		if len(stmts) == 0 {
			return nil, false, syntaxError(p.cur().Span.Start, "expected statement in block")
		}
		if _, err = p.expectKind(TokDedent, "dedent"); err != nil {
			return nil, false, err
		}
		return stmts, false, nil
	}

	stmts, err = p.parseSimpleLine()
	if err != nil {
		return nil, false, err
	}
	return stmts, true, nil
}

func (p *parseState) parseIf() (*pyast.Node, error) {
	start := p.advance().Span.Start // "if"
	node := &pyast.Node{Kind: pyast.KindIf}

	test, err := p.collectHeader(":")
	if err != nil {
		return nil, err
	}
	node.AddChild(&pyast.Node{Kind: pyast.KindExpr, Span: test})

	end, err := p.attachSuite(node)
	if err != nil {
		return nil, err
	}

	for p.at("elif") || p.at("else") {
		clause, clauseErr := p.parseElifElse()
		if clauseErr != nil {
			return nil, clauseErr
		}
		node.AddChild(clause)
		end = clause.Span.End
	}

	node.Span = pyast.Span{Start: start, End: end}
	return node, nil
}

func (p *parseState) parseElifElse() (*pyast.Node, error) {
	tok := p.advance() // "elif" or "else"
	node := &pyast.Node{Kind: pyast.KindElifElseClause}

	if tok.Text(p.source) == "elif" {
		test, err := p.collectHeader(":")
		if err != nil {
			return nil, err
		}
		node.AddChild(&pyast.Node{Kind: pyast.KindExpr, Span: test})
	}

	end, err := p.attachSuite(node)
	if err != nil {
		return nil, err
	}
	node.Span = pyast.Span{Start: tok.Span.Start, End: end}
	return node, nil
}

// parseHeaderSuite parses while/for/with statements: a header expression up
// to the colon, a suite, and for loops an optional else suite.
func (p *parseState) parseHeaderSuite(kind pyast.Kind) (*pyast.Node, error) {
	start := p.advance().Span.Start // keyword
	node := &pyast.Node{Kind: kind}

	header, err := p.collectHeader(":")
	if err != nil {
		return nil, err
	}
	node.AddChild(&pyast.Node{Kind: pyast.KindExpr, Span: header})

	end, err := p.attachSuite(node)
	if err != nil {
		return nil, err
	}

	if (kind == pyast.KindWhile || kind == pyast.KindFor) && p.at("else") {
		p.advance()
		end, err = p.attachSuite(node)
		if err != nil {
			return nil, err
		}
	}

	node.Span = pyast.Span{Start: start, End: end}
	return node, nil
}

// attachSuite expects the clause colon, parses the suite, appends it to
// node, and returns the suite's end offset.
func (p *parseState) attachSuite(node *pyast.Node) (int, error) {
	colon, err := p.expect(":")
	if err != nil {
		return 0, err
	}
	stmts, inline, err := p.parseSuite()
	if err != nil {
		return 0, err
	}
	node.AddSuite(stmts, colon.Span.End, inline)
	return stmts[len(stmts)-1].Span.End, nil
}

func (p *parseState) parseAsync(decorators []*pyast.Node) (*pyast.Node, error) {
	asyncTok := p.cur()
	switch p.peek(1).Text(p.source) {
	case "def":
		p.advance()
		stmt, err := p.parseDefinition(pyast.KindFunctionDef, "def", decorators)
		if err != nil {
			return nil, err
		}
		if len(decorators) == 0 {
			stmt.Span.Start = asyncTok.Span.Start
		}
		return stmt, nil
	case "for", "with":
		p.advance()
		kind := pyast.KindFor
		if p.at("with") {
			kind = pyast.KindWith
		}
		stmt, err := p.parseHeaderSuite(kind)
		if err != nil {
			return nil, err
		}
		stmt.Span.Start = asyncTok.Span.Start
		return stmt, nil
	default:
		return nil, nil // "async" as a plain name
	}
}

func (p *parseState) parseDecorated() (*pyast.Node, error) {
	var decorators []*pyast.Node
	for p.at("@") {
		start := p.cur().Span.Start
		end := start
		for p.cur().Kind != TokNewline && p.cur().Kind != TokEOF {
			end = p.cur().Span.End
			p.advance()
		}
		if p.cur().Kind == TokNewline {
			p.advance()
		}
		decorators = append(decorators, &pyast.Node{
			Kind: pyast.KindDecorator,
			Span: pyast.Span{Start: start, End: end},
		})
	}

	switch {
	case p.at("def"):
		return p.parseDefinition(pyast.KindFunctionDef, "def", decorators)
	case p.at("class"):
		return p.parseDefinition(pyast.KindClassDef, "class", decorators)
	case p.at("async"):
		stmt, err := p.parseAsync(decorators)
		if err != nil {
			return nil, err
		}
		if stmt == nil {
			return nil, syntaxError(p.cur().Span.Start, "expected def or class after decorators")
		}
		return stmt, nil
	default:
		return nil, syntaxError(p.cur().Span.Start, "expected def or class after decorators")
	}
}

// parseDefinition parses def/class statements including any decorators
// already consumed by the caller.
func (p *parseState) parseDefinition(kind pyast.Kind, keyword string, decorators []*pyast.Node) (*pyast.Node, error) {
	keywordTok, err := p.expect(keyword)
	if err != nil {
		return nil, err
	}

	node := &pyast.Node{Kind: kind}
	start := keywordTok.Span.Start
	if len(decorators) > 0 {
		start = decorators[0].Span.Start
	}
	for _, dec := range decorators {
		node.AddChild(dec)
	}

	header, err := p.collectHeader(":")
	if err != nil {
		return nil, err
	}
	node.AddChild(&pyast.Node{Kind: pyast.KindExpr, Span: header})

	end, err := p.attachSuite(node)
	if err != nil {
		return nil, err
	}

	node.Span = pyast.Span{Start: start, End: end}
	return node, nil
}

func (p *parseState) parseTry() (*pyast.Node, error) {
	start := p.advance().Span.Start // "try"
	node := &pyast.Node{Kind: pyast.KindTry}

	end, err := p.attachSuite(node)
	if err != nil {
		return nil, err
	}

	var handlers []*pyast.Node
	for p.at("except") {
		handler, handlerErr := p.parseExceptHandler()
		if handlerErr != nil {
			return nil, handlerErr
		}
		handlers = append(handlers, handler)
		end = handler.Span.End
	}
	if len(handlers) > 0 {
		node.AddSequence(pyast.RoleHandlers, handlers, 0)
	}

	if p.at("else") {
		p.advance()
		end, err = p.attachSuite(node)
		if err != nil {
			return nil, err
		}
	}
	if p.at("finally") {
		p.advance()
		end, err = p.attachSuite(node)
		if err != nil {
			return nil, err
		}
	}

	if len(handlers) == 0 && len(node.Suites()) < 2 {
		return nil, syntaxError(start, "try statement must have except or finally")
	}

	node.Span = pyast.Span{Start: start, End: end}
	return node, nil
}

func (p *parseState) parseExceptHandler() (*pyast.Node, error) {
	start := p.advance().Span.Start // "except"
	node := &pyast.Node{Kind: pyast.KindExceptHandler}

	if p.at("*") {
		p.advance()
	}
	if !p.at(":") {
		exc, err := p.collectHeader(":")
		if err != nil {
			return nil, err
		}
		node.AddChild(&pyast.Node{Kind: pyast.KindExpr, Span: exc})
	}

	end, err := p.attachSuite(node)
	if err != nil {
		return nil, err
	}
	node.Span = pyast.Span{Start: start, End: end}
	return node, nil
}

func (p *parseState) parseMatch() (*pyast.Node, error) {
	start := p.advance().Span.Start // "match"
	node := &pyast.Node{Kind: pyast.KindMatch}

	subject, err := p.collectHeader(":")
	if err != nil {
		return nil, err
	}
	node.AddChild(&pyast.Node{Kind: pyast.KindExpr, Span: subject})

	colon, err := p.expect(":")
	if err != nil {
		return nil, err
	}
	if _, err = p.expectKind(TokNewline, "newline after match header"); err != nil {
		return nil, err
	}
	if _, err = p.expectKind(TokIndent, "indented case block"); err != nil {
		return nil, err
	}

	var cases []*pyast.Node
	for p.at("case") {
		arm, armErr := p.parseMatchCase()
		if armErr != nil {
			return nil, armErr
		}
		cases = append(cases, arm)
	}
	if len(cases) == 0 {
		return nil, syntaxError(p.cur().Span.Start, "match statement must have at least one case")
	}
	if _, err = p.expectKind(TokDedent, "dedent after case block"); err != nil {
		return nil, err
	}

	node.AddSequence(pyast.RoleCases, cases, colon.Span.End)
	node.Span = pyast.Span{Start: start, End: cases[len(cases)-1].Span.End}
	return node, nil
}

func (p *parseState) parseMatchCase() (*pyast.Node, error) {
	start := p.advance().Span.Start // "case"
	node := &pyast.Node{Kind: pyast.KindMatchCase}

	pattern, err := p.collectHeader(":")
	if err != nil {
		return nil, err
	}
	node.AddChild(&pyast.Node{Kind: pyast.KindExpr, Span: pattern})

	end, err := p.attachSuite(node)
	if err != nil {
		return nil, err
	}
	node.Span = pyast.Span{Start: start, End: end}
	return node, nil
}

// parseSimpleLine parses one logical line of simple statements, splitting
// at top-level semicolons.
func (p *parseState) parseSimpleLine() ([]*pyast.Node, error) {
	var stmts []*pyast.Node
	for {
		stmt, err := p.parseSimpleStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)

		if p.at(";") {
			p.advance()
			if p.cur().Kind == TokNewline {
				break
			}
			continue
		}
		break
	}
	if p.cur().Kind == TokNewline {
		p.advance()
	}
	return stmts, nil
}

// parseSimpleStatement consumes tokens until a top-level semicolon or the
// end of the logical line and classifies the statement.
func (p *parseState) parseSimpleStatement() (*pyast.Node, error) {
	lineStart := p.pos
	depth := 0
	for {
		tok := p.cur()
		if tok.Kind == TokNewline || tok.Kind == TokEOF {
			break
		}
		if tok.Kind == TokIndent || tok.Kind == TokDedent {
			return nil, syntaxError(tok.Span.Start, "unexpected indentation")
		}
		text := tok.Text(p.source)
		if depth == 0 && text == ";" {
			break
		}
		switch text {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
		}
		p.advance()
	}

	run := p.tokens[lineStart:p.pos]
	if len(run) == 0 {
		return nil, syntaxError(p.cur().Span.Start, "expected statement")
	}

	return p.classifySimple(run)
}

// classifySimple builds the statement node for a flat token run.
func (p *parseState) classifySimple(run []Token) (*pyast.Node, error) {
	span := pyast.Span{Start: run[0].Span.Start, End: run[len(run)-1].Span.End}

	if run[0].Kind == TokName {
		if kind, ok := simpleKeywords[run[0].Text(p.source)]; ok {
			node := &pyast.Node{Kind: kind, Span: span}
			if len(run) > 1 {
				node.AddChild(&pyast.Node{
					Kind: pyast.KindExpr,
					Span: pyast.Span{Start: run[1].Span.Start, End: span.End},
				})
			}
			return node, nil
		}
	}

	// Annotated assignment: NAME ':' annotation ['=' value].
	if len(run) >= 2 && run[0].Kind == TokName && run[1].Is(p.source, ":") {
		node := &pyast.Node{Kind: pyast.KindAnnAssign, Span: span}
		node.AddChild(&pyast.Node{Kind: pyast.KindExpr, Span: run[0].Span})
		rest := run[2:]
		if valueIdx := topLevelIndex(p.source, rest, "="); valueIdx >= 0 {
			if valueIdx > 0 {
				node.AddChild(&pyast.Node{Kind: pyast.KindExpr, Span: pyast.Span{
					Start: rest[0].Span.Start, End: rest[valueIdx-1].Span.End,
				}})
			}
			if valueIdx+1 < len(rest) {
				node.AddChild(&pyast.Node{Kind: pyast.KindExpr, Span: pyast.Span{
					Start: rest[valueIdx+1].Span.Start, End: span.End,
				}})
			}
		} else if len(rest) > 0 {
			node.AddChild(&pyast.Node{Kind: pyast.KindExpr, Span: pyast.Span{
				Start: rest[0].Span.Start, End: span.End,
			}})
		}
		return node, nil
	}

	// Plain assignment, possibly chained: a = b = value.
	if idx := topLevelIndex(p.source, run, "="); idx >= 0 {
		node := &pyast.Node{Kind: pyast.KindAssign, Span: span}
		segStart := 0
		rest := run
		for {
			cut := topLevelIndex(p.source, rest[segStart:], "=")
			if cut < 0 {
				break
			}
			cut += segStart
			node.AddChild(&pyast.Node{Kind: pyast.KindExpr, Span: pyast.Span{
				Start: rest[segStart].Span.Start, End: rest[cut-1].Span.End,
			}})
			segStart = cut + 1
		}
		if segStart < len(rest) {
			node.AddChild(&pyast.Node{Kind: pyast.KindExpr, Span: pyast.Span{
				Start: rest[segStart].Span.Start, End: span.End,
			}})
		}
		return node, nil
	}

	// Augmented assignment.
	if idx := topLevelIndexFunc(p.source, run, func(text string) bool {
		return augOps[text]
	}); idx > 0 {
		node := &pyast.Node{Kind: pyast.KindAugAssign, Span: span}
		node.AddChild(&pyast.Node{Kind: pyast.KindExpr, Span: pyast.Span{
			Start: run[0].Span.Start, End: run[idx-1].Span.End,
		}})
		if idx+1 < len(run) {
			node.AddChild(&pyast.Node{Kind: pyast.KindExpr, Span: pyast.Span{
				Start: run[idx+1].Span.Start, End: span.End,
			}})
		}
		return node, nil
	}

	node := &pyast.Node{Kind: pyast.KindExprStmt, Span: span}
	node.AddChild(&pyast.Node{Kind: pyast.KindExpr, Span: span})
	// Tentatively flag lone string literals; normalizeDocstrings keeps the
	// flag only on the first statement of module/class/function suites.
	if len(run) == 1 && run[0].Kind == TokString {
		node.Docstring = true
	}
	return node, nil
}

// topLevelIndex returns the index of the first token with the given
// spelling at bracket depth zero, or -1.
func topLevelIndex(source []byte, run []Token, spelling string) int {
	return topLevelIndexFunc(source, run, func(text string) bool {
		return text == spelling
	})
}

func topLevelIndexFunc(source []byte, run []Token, match func(string) bool) int {
	depth := 0
	inLambda := false
	for i, tok := range run {
		text := tok.Text(source)
		switch text {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
		case "lambda":
			if depth == 0 {
				inLambda = true
			}
		case ":":
			if inLambda && depth == 0 {
				inLambda = false
			}
		}
		if depth == 0 && !inLambda && match(text) {
			return i
		}
	}
	return -1
}

// normalizeDocstrings keeps the docstring flag only on statements that sit
// first in a module, class, or function suite. Lone string literals in any
// other position are plain expression statements.
func normalizeDocstrings(n *pyast.Node) {
	docSuite := n.Kind == pyast.KindModule ||
		n.Kind == pyast.KindFunctionDef ||
		n.Kind == pyast.KindClassDef

	sawSuite := false
	for _, part := range n.Parts {
		switch {
		case part.Node != nil:
			normalizeDocstrings(part.Node)
		case part.IsSuite():
			first := docSuite && !sawSuite
			sawSuite = true
			for i, stmt := range part.Nodes {
				if stmt.Docstring && !(first && i == 0) {
					stmt.Docstring = false
				}
				normalizeDocstrings(stmt)
			}
		default:
			for _, member := range part.Nodes {
				normalizeDocstrings(member)
			}
		}
	}
}

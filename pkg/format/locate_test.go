package format

import (
	"strings"
	"testing"

	"github.com/nkxxll/ruff/pkg/comments"
	"github.com/nkxxll/ruff/pkg/parser"
	"github.com/nkxxll/ruff/pkg/pyast"
)

// parseFixture parses source and builds the collaborator inputs the locator
// and narrower consume.
func parseFixture(t *testing.T, source string) (*pyast.Node, *pyast.Lines, *comments.Map) {
	t.Helper()
	res, err := parser.Parse([]byte(source))
	if err != nil {
		t.Fatalf("Parse(%q): %v", source, err)
	}
	lines := pyast.BuildLines([]byte(source))
	cm := comments.Attach(res.Module, res.Comments, lines, []byte(source))
	return res.Module, lines, cm
}

// spanOf returns the span of the first occurrence of substr in source.
func spanOf(t *testing.T, source, substr string) pyast.Span {
	t.Helper()
	idx := strings.Index(source, substr)
	if idx < 0 {
		t.Fatalf("fixture does not contain %q", substr)
	}
	return pyast.Span{Start: idx, End: idx + len(substr)}
}

func TestLocateDeepestStatement(t *testing.T) {
	t.Parallel()

	source := "def f():\n    x = 1\n    y = 2\n"
	root, lines, cm := parseFixture(t, source)

	request := spanOf(t, source, "y = 2")
	res := locate(request, root, []byte(source), lines, cm, DefaultOptions())

	if res.Suppressed {
		t.Fatal("locate() reported suppressed")
	}
	if res.Node.Kind != pyast.KindAssign {
		t.Fatalf("enclosing kind = %v, want Assign", res.Node.Kind)
	}
	if res.Node.Span != request {
		t.Errorf("enclosing span = %v, want %v", res.Node.Span, request)
	}
	if res.IndentLevel != 1 {
		t.Errorf("indent level = %d, want 1", res.IndentLevel)
	}
}

func TestLocateModuleRootDefault(t *testing.T) {
	t.Parallel()

	// A request straddling two top-level statements fits no single
	// statement, leaving the module root as the enclosing node.
	source := "x = 1\ny = 2\n"
	root, lines, cm := parseFixture(t, source)

	res := locate(pyast.Span{Start: 2, End: 8}, root, []byte(source), lines, cm, DefaultOptions())

	if res.Suppressed {
		t.Fatal("locate() reported suppressed")
	}
	if !res.Node.IsModule() {
		t.Fatalf("enclosing kind = %v, want Module", res.Node.Kind)
	}
	if res.IndentLevel != 0 {
		t.Errorf("indent level = %d, want 0", res.IndentLevel)
	}
}

func TestLocateSuppression(t *testing.T) {
	t.Parallel()

	source := "# fmt: off\na = 1\nb = 2\n# fmt: on\nc = 3\n"
	root, lines, cm := parseFixture(t, source)
	opts := DefaultOptions()

	tests := []struct {
		name       string
		request    pyast.Span
		suppressed bool
	}{
		{name: "first suppressed statement", request: spanOf(t, source, "a = 1"), suppressed: true},
		{name: "second suppressed statement", request: spanOf(t, source, "b = 2"), suppressed: true},
		{name: "after fmt on", request: spanOf(t, source, "c = 3"), suppressed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := locate(tt.request, root, []byte(source), lines, cm, opts)
			if res.Suppressed != tt.suppressed {
				t.Fatalf("suppressed = %v, want %v", res.Suppressed, tt.suppressed)
			}
			if !tt.suppressed && res.Node.Span != tt.request {
				t.Errorf("enclosing span = %v, want %v", res.Node.Span, tt.request)
			}
		})
	}
}

func TestLocateSuppressionEndsWithinSuite(t *testing.T) {
	t.Parallel()

	source := "if c:\n    # fmt: off\n    x = 1\n    # fmt: on\n    y = 2\n"
	root, lines, cm := parseFixture(t, source)

	res := locate(spanOf(t, source, "y = 2"), root, []byte(source), lines, cm, DefaultOptions())

	if res.Suppressed {
		t.Fatal("suppression leaked past # fmt: on")
	}
	if res.Node.Kind != pyast.KindAssign {
		t.Fatalf("enclosing kind = %v, want Assign", res.Node.Kind)
	}
}

func TestLocateSuppressionScopedToSuite(t *testing.T) {
	t.Parallel()

	// An unterminated # fmt: off inside the if body must not suppress the
	// sibling statement after the if.
	source := "if c:\n    # fmt: off\n    x = 1\ny = 2\n"
	root, lines, cm := parseFixture(t, source)

	res := locate(spanOf(t, source, "y = 2"), root, []byte(source), lines, cm, DefaultOptions())

	if res.Suppressed {
		t.Fatal("suppression leaked out of the if body")
	}
	if res.Node.Span != spanOf(t, source, "y = 2") {
		t.Errorf("enclosing span = %v, want the y assignment", res.Node.Span)
	}
}

func TestLocateDocstringExcluded(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		source   string
		request  string
		wantKind pyast.Kind
	}{
		{
			name:     "function docstring selects the def",
			source:   "def f():\n    \"\"\"doc text\"\"\"\n    x = 1\n",
			request:  "doc text",
			wantKind: pyast.KindFunctionDef,
		},
		{
			name:     "class docstring selects the class",
			source:   "class C:\n    \"\"\"doc text\"\"\"\n    x = 1\n",
			request:  "doc text",
			wantKind: pyast.KindClassDef,
		},
		{
			name:     "module docstring selects the module",
			source:   "\"\"\"doc text\"\"\"\nx = 1\n",
			request:  "doc text",
			wantKind: pyast.KindModule,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, lines, cm := parseFixture(t, tt.source)
			res := locate(spanOf(t, tt.source, tt.request), root, []byte(tt.source), lines, cm, DefaultOptions())
			if res.Suppressed {
				t.Fatal("locate() reported suppressed")
			}
			if res.Node.Kind != tt.wantKind {
				t.Errorf("enclosing kind = %v, want %v", res.Node.Kind, tt.wantKind)
			}
		})
	}
}

func TestLocateNonDocstringStringSelected(t *testing.T) {
	t.Parallel()

	// A string expression that is not in docstring position is an ordinary
	// statement and can be selected directly.
	source := "x = 1\n\"not a docstring\"\n"
	root, lines, cm := parseFixture(t, source)

	res := locate(spanOf(t, source, "not a"), root, []byte(source), lines, cm, DefaultOptions())

	if res.Suppressed || res.Node.Kind != pyast.KindExprStmt {
		t.Fatalf("enclosing = %+v, want the string expression statement", res)
	}
}

func TestLocateNonConformingIndentKeepsAncestor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		opts   Options
	}{
		{
			name:   "two spaces under four-space style",
			source: "def f():\n  x = 1\n",
			opts:   DefaultOptions(),
		},
		{
			name:   "tab under space style",
			source: "def f():\n\tx = 1\n",
			opts:   DefaultOptions(),
		},
		{
			name:   "spaces under tab style",
			source: "def f():\n    x = 1\n",
			opts:   Options{IndentStyle: IndentTabs, LineLength: 88},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, lines, cm := parseFixture(t, tt.source)
			res := locate(spanOf(t, tt.source, "x = 1"), root, []byte(tt.source), lines, cm, tt.opts)
			if res.Suppressed {
				t.Fatal("locate() reported suppressed")
			}
			if res.Node.Kind != pyast.KindFunctionDef {
				t.Errorf("enclosing kind = %v, want FunctionDef", res.Node.Kind)
			}
			if res.IndentLevel != 0 {
				t.Errorf("indent level = %d, want 0", res.IndentLevel)
			}
		})
	}
}

func TestLocateInlineBodyKeepsHeader(t *testing.T) {
	t.Parallel()

	// The body shares the header's line, so it has no indentation run of
	// its own and the whole clause is the closest selectable node.
	source := "if c: x = 1\n"
	root, lines, cm := parseFixture(t, source)

	res := locate(spanOf(t, source, "x = 1"), root, []byte(source), lines, cm, DefaultOptions())

	if res.Suppressed || res.Node.Kind != pyast.KindIf {
		t.Fatalf("enclosing = %+v, want the if statement", res)
	}
}

func TestLocateExceptHandlerBody(t *testing.T) {
	t.Parallel()

	source := "try:\n    x = 1\nexcept ValueError:\n    y = 2\n"
	root, lines, cm := parseFixture(t, source)

	res := locate(spanOf(t, source, "y = 2"), root, []byte(source), lines, cm, DefaultOptions())

	if res.Suppressed {
		t.Fatal("locate() reported suppressed")
	}
	if res.Node.Kind != pyast.KindAssign {
		t.Fatalf("enclosing kind = %v, want Assign", res.Node.Kind)
	}
	if res.IndentLevel != 1 {
		t.Errorf("indent level = %d, want 1", res.IndentLevel)
	}
}

func TestLocateMatchCaseBody(t *testing.T) {
	t.Parallel()

	source := "match p:\n    case 1:\n        x = 1\n    case _:\n        y = 2\n"
	root, lines, cm := parseFixture(t, source)
	opts := DefaultOptions()

	res := locate(spanOf(t, source, "y = 2"), root, []byte(source), lines, cm, opts)
	if res.Suppressed || res.Node.Kind != pyast.KindAssign {
		t.Fatalf("enclosing = %+v, want the assignment", res)
	}
	if res.IndentLevel != 2 {
		t.Errorf("indent level = %d, want 2", res.IndentLevel)
	}

	// A request covering a whole arm selects the case node at level 1.
	arm := spanOf(t, source, "case _:\n        y = 2")
	res = locate(arm, root, []byte(source), lines, cm, opts)
	if res.Suppressed || res.Node.Kind != pyast.KindMatchCase {
		t.Fatalf("enclosing = %+v, want the case arm", res)
	}
	if res.IndentLevel != 1 {
		t.Errorf("indent level = %d, want 1", res.IndentLevel)
	}
}

func TestLocateDecorator(t *testing.T) {
	t.Parallel()

	source := "@wraps(inner)\ndef f():\n    pass\n"
	root, lines, cm := parseFixture(t, source)

	res := locate(spanOf(t, source, "@wraps"), root, []byte(source), lines, cm, DefaultOptions())

	if res.Suppressed || res.Node.Kind != pyast.KindDecorator {
		t.Fatalf("enclosing = %+v, want the decorator", res)
	}
}

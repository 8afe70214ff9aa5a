package format_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkxxll/ruff/pkg/format"
)

// formatDoc formats source with the default options.
func formatDoc(t *testing.T, source string) string {
	t.Helper()
	out, err := format.FormatDocument([]byte(source), format.DefaultOptions())
	require.NoError(t, err)
	return string(out)
}

func TestFormatDocumentEmpty(t *testing.T) {
	t.Parallel()

	out, err := format.FormatDocument(nil, format.DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestFormatDocumentStatements(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "normalizes spacing",
			source: "x=1\n",
			want:   "x = 1\n",
		},
		{
			name:   "adds final newline",
			source: "x = 1",
			want:   "x = 1\n",
		},
		{
			name:   "collapses interior spaces",
			source: "y   =   compute( a , b )\n",
			want:   "y = compute(a, b)\n",
		},
		{
			name:   "splits semicolon lines",
			source: "x = 1; y = 2\n",
			want:   "x = 1\ny = 2\n",
		},
		{
			name:   "reindents a suite",
			source: "if x:\n  pass\n",
			want:   "if x:\n    pass\n",
		},
		{
			name:   "normalizes deep indentation",
			source: "if a:\n        if b:\n                pass\n",
			want:   "if a:\n    if b:\n        pass\n",
		},
		{
			name:   "elif and else clauses",
			source: "if a:\n  x = 1\nelif b:\n  x = 2\nelse:\n  x = 3\n",
			want:   "if a:\n    x = 1\nelif b:\n    x = 2\nelse:\n    x = 3\n",
		},
		{
			name:   "function definition",
			source: "def add( a,b ):\n  return a+b\n",
			want:   "def add(a, b):\n    return a + b\n",
		},
		{
			name:   "decorated function",
			source: "@cached\ndef f():\n  pass\n",
			want:   "@cached\ndef f():\n    pass\n",
		},
		{
			name:   "try except finally",
			source: "try:\n  risky()\nexcept ValueError:\n  handle()\nfinally:\n  done()\n",
			want:   "try:\n    risky()\nexcept ValueError:\n    handle()\nfinally:\n    done()\n",
		},
		{
			name:   "match statement",
			source: "match cmd:\n  case 'go':\n    move()\n  case _:\n    wait()\n",
			want:   "match cmd:\n    case 'go':\n        move()\n    case _:\n        wait()\n",
		},
		{
			name:   "joins bracket continuation",
			source: "x = f(\n    a,\n    b\n)\n",
			want:   "x = f(a, b)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatDoc(t, tt.source))
		})
	}
}

func TestFormatDocumentBlankLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "keeps up to two at module level",
			source: "x = 1\n\n\ny = 2\n",
			want:   "x = 1\n\n\ny = 2\n",
		},
		{
			name:   "caps module level at two",
			source: "x = 1\n\n\n\n\ny = 2\n",
			want:   "x = 1\n\n\ny = 2\n",
		},
		{
			name:   "caps nested suites at one",
			source: "def f():\n    a = 1\n\n\n    b = 2\n",
			want:   "def f():\n    a = 1\n\n    b = 2\n",
		},
		{
			name:   "no blank between adjacent statements",
			source: "x = 1\ny = 2\n",
			want:   "x = 1\ny = 2\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatDoc(t, tt.source))
		})
	}
}

func TestFormatDocumentComments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "leading comment",
			source: "# about x\nx=1\n",
			want:   "# about x\nx = 1\n",
		},
		{
			name:   "end of line comment gets two spaces",
			source: "x=1 # note\n",
			want:   "x = 1  # note\n",
		},
		{
			name:   "end of line comment keeps two spaces",
			source: "x = 1  # note\n",
			want:   "x = 1  # note\n",
		},
		{
			name:   "comment trailing whitespace stripped",
			source: "x = 1  # note   \n",
			want:   "x = 1  # note\n",
		},
		{
			name:   "header line comment stays on its line",
			source: "if x: # why\n  pass\n",
			want:   "if x:  # why\n    pass\n",
		},
		{
			name:   "interior suite comment",
			source: "def f():\n  a = 1\n  # between\n  b = 2\n",
			want:   "def f():\n    a = 1\n    # between\n    b = 2\n",
		},
		{
			name:   "trailing comment at document end",
			source: "x = 1\n# done\n",
			want:   "x = 1\n# done\n",
		},
		{
			name:   "comment only document",
			source: "# a\n# b\n",
			want:   "# a\n# b\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatDoc(t, tt.source))
		})
	}
}

func TestFormatDocumentSuppression(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "off region kept verbatim",
			source: "# fmt: off\nx    =    1\n# fmt: on\ny=2\n",
			want:   "# fmt: off\nx    =    1\n# fmt: on\ny = 2\n",
		},
		{
			name:   "off without on runs to suite end",
			source: "# fmt: off\nx  =  1\ny  =  2\n",
			want:   "# fmt: off\nx  =  1\ny  =  2\n",
		},
		{
			name:   "suppressed compound statement kept whole",
			source: "# fmt: off\nif x:\n    y   =   1\n",
			want:   "# fmt: off\nif x:\n    y   =   1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatDoc(t, tt.source))
		})
	}
}

func TestFormatDocumentDocstrings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "module docstring untouched",
			source: "\"\"\"Module doc.\"\"\"\nx = 1\n",
			want:   "\"\"\"Module doc.\"\"\"\nx = 1\n",
		},
		{
			name:   "trailing whitespace stripped per line",
			source: "def f():\n    \"\"\"Doc.   \n    More.\t\n    \"\"\"\n    pass\n",
			want:   "def f():\n    \"\"\"Doc.\n    More.\n    \"\"\"\n    pass\n",
		},
		{
			name:   "plain string statement is normalized",
			source: "x = 1\n'a'  +  'b'\n",
			want:   "x = 1\n'a' + 'b'\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatDoc(t, tt.source))
		})
	}
}

func TestFormatDocumentMagicTrailingComma(t *testing.T) {
	t.Parallel()

	source := "x = [1, 2,]\n"
	assert.Equal(t, "x = [\n    1,\n    2,\n]\n", formatDoc(t, source))

	opts := format.DefaultOptions()
	opts.MagicTrailingComma = false
	out, err := format.FormatDocument([]byte(source), opts)
	require.NoError(t, err)
	assert.Equal(t, "x = [1, 2]\n", string(out))
}

func TestFormatDocumentLineLength(t *testing.T) {
	t.Parallel()

	opts := format.DefaultOptions()
	opts.LineLength = 20
	out, err := format.FormatDocument([]byte("totals = compute(alpha, beta)\n"), opts)
	require.NoError(t, err)
	assert.Equal(t, "totals = compute(\n    alpha,\n    beta,\n)\n", string(out))
}

func TestFormatDocumentTabs(t *testing.T) {
	t.Parallel()

	opts := format.DefaultOptions()
	opts.IndentStyle = format.IndentTabs
	out, err := format.FormatDocument([]byte("if x:\n  pass\n"), opts)
	require.NoError(t, err)
	assert.Equal(t, "if x:\n\tpass\n", string(out))
}

func TestFormatDocumentIndentWidth(t *testing.T) {
	t.Parallel()

	opts := format.DefaultOptions()
	opts.IndentWidth = 2
	out, err := format.FormatDocument([]byte("if x:\n      pass\n"), opts)
	require.NoError(t, err)
	assert.Equal(t, "if x:\n  pass\n", string(out))
}

func TestFormatDocumentParseError(t *testing.T) {
	t.Parallel()

	_, err := format.FormatDocument([]byte("def f(:\n"), format.DefaultOptions())
	require.Error(t, err)
}

func TestFormatDocumentIdempotent(t *testing.T) {
	t.Parallel()

	sources := []string{
		"x=1\ny   =   2\n",
		"def f( a,b ):\n  return a+b\n",
		"if a:\n  x = 1\nelse:\n  x = 2\n",
		"x = [1, 2,]\n",
		"# fmt: off\nweird   =   1\n# fmt: on\nz=3\n",
	}

	for _, source := range sources {
		once := formatDoc(t, source)
		twice := formatDoc(t, once)
		assert.Equal(t, once, twice, "formatting must be idempotent for %q", source)
	}
}

package format

import (
	"fmt"

	"github.com/nkxxll/ruff/pkg/comments"
	"github.com/nkxxll/ruff/pkg/parser"
	"github.com/nkxxll/ruff/pkg/pyast"
)

// FormatDocument formats a whole Python document and returns the canonical
// output. The output always ends with exactly one newline unless it is
// empty.
func FormatDocument(source []byte, opts Options) ([]byte, error) {
	if len(source) == 0 {
		return nil, nil
	}

	res, err := parser.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}

	lines := pyast.BuildLines(source)
	cm := comments.Attach(res.Module, res.Comments, lines, source)

	r := newRenderer(source, res.Tokens, lines, cm, opts, false)
	r.renderRoot(res.Module, 0)
	return r.out.Bytes(), nil
}

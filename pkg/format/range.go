package format

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/nkxxll/ruff/pkg/comments"
	"github.com/nkxxll/ruff/pkg/parser"
	"github.com/nkxxll/ruff/pkg/pyast"
)

// ErrRangeOutOfBounds reports a formatting request that does not fit inside
// the document.
var ErrRangeOutOfBounds = errors.New("format range out of bounds")

// FormattedSlice is the result of FormatRange: replacement text for the Span
// of the original source. Splicing Text over Span yields a document whose
// formatted region is byte-identical to the corresponding region of
// whole-document output.
type FormattedSlice struct {
	// Text is the formatted replacement.
	Text string

	// Span is the source range Text replaces. It always contains the
	// requested range.
	Span pyast.Span
}

// FormatRange re-formats the part of source covering the requested byte
// range.
//
// The returned span may be wider than the request: it grows to the smallest
// region that can be re-formatted independently without producing output
// different from formatting the whole document. A request inside a
// suppressed region returns an empty slice. Both request offsets must fall
// on character boundaries; offsets splitting a UTF-8 sequence are a caller
// bug and panic.
func FormatRange(source []byte, request pyast.Span, opts Options) (FormattedSlice, error) {
	if request.Start < 0 || request.End < request.Start || request.End > len(source) {
		return FormattedSlice{}, fmt.Errorf("%w: %d..%d in a document of %d bytes",
			ErrRangeOutOfBounds, request.Start, request.End, len(source))
	}
	assertCharBoundary(source, request.Start)
	assertCharBoundary(source, request.End)

	if request.IsEmpty() {
		return FormattedSlice{Span: request}, nil
	}

	if request.Start == 0 && request.End == len(source) {
		out, err := FormatDocument(source, opts)
		if err != nil {
			return FormattedSlice{}, err
		}
		return FormattedSlice{Text: string(out), Span: request}, nil
	}

	res, err := parser.Parse(source)
	if err != nil {
		return FormattedSlice{}, fmt.Errorf("parsing document: %w", err)
	}

	lines := pyast.BuildLines(source)
	cm := comments.Attach(res.Module, res.Comments, lines, source)

	enclosing := locate(request, res.Module, source, lines, cm, opts)
	if enclosing.Suppressed {
		return FormattedSlice{Span: pyast.Span{Start: request.Start, End: request.Start}}, nil
	}

	narrowed := narrow(request, enclosing.Node, source, lines, cm, opts)

	r := newRenderer(source, res.Tokens, lines, cm, opts, true)
	r.renderRoot(enclosing.Node, enclosing.IndentLevel)

	outStart, outEnd, ok := r.sm.OutputSpan(narrowed.Start, narrowed.End)
	if !ok {
		// A narrowed boundary without a rendered counterpart means the
		// narrower and the renderer disagree about anchors. The enclosing
		// node's own span bounds are always recorded, so fall back to
		// replacing the whole node. The raw output is not usable directly:
		// it starts with indentation and leading comments outside the span
		// and ends with a newline.
		narrowed = enclosing.Node.Span
		outStart, outEnd, ok = r.sm.OutputSpan(narrowed.Start, narrowed.End)
		if !ok {
			return FormattedSlice{}, fmt.Errorf(
				"formatting %d..%d: no rendered counterpart for %d..%d",
				request.Start, request.End, narrowed.Start, narrowed.End)
		}
	}

	return FormattedSlice{
		Text: r.out.String()[outStart:outEnd],
		Span: narrowed,
	}, nil
}

// assertCharBoundary panics when offset splits a UTF-8 sequence. Ranges come
// from editors in character coordinates; a mid-character offset means the
// caller converted them wrong.
func assertCharBoundary(source []byte, offset int) {
	if offset < len(source) && !utf8.RuneStart(source[offset]) {
		panic(fmt.Sprintf("format: range offset %d is not a character boundary", offset))
	}
}

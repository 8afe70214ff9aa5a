package format

import (
	"testing"

	"github.com/nkxxll/ruff/pkg/comments"
	"github.com/nkxxll/ruff/pkg/parser"
	"github.com/nkxxll/ruff/pkg/pyast"
)

func TestSourceMapOutput(t *testing.T) {
	t.Parallel()

	m := &SourceMap{}
	m.Add(0, 0)
	m.Add(5, 8)
	m.Add(12, 20)

	tests := []struct {
		source int
		want   int
		wantOK bool
	}{
		{source: 0, want: 0, wantOK: true},
		{source: 5, want: 8, wantOK: true},
		{source: 12, want: 20, wantOK: true},
		{source: 3, wantOK: false},
		{source: 100, wantOK: false},
	}

	for _, tt := range tests {
		got, ok := m.Output(tt.source)
		if ok != tt.wantOK {
			t.Errorf("Output(%d) ok = %v, want %v", tt.source, ok, tt.wantOK)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("Output(%d) = %d, want %d", tt.source, got, tt.want)
		}
	}
}

func TestSourceMapDuplicateSourceFirstWins(t *testing.T) {
	t.Parallel()

	// A statement end and the next statement start can share a source
	// offset; the earliest output position marks the boundary before any
	// filler.
	m := &SourceMap{}
	m.Add(7, 10)
	m.Add(7, 12)

	got, ok := m.Output(7)
	if !ok || got != 10 {
		t.Errorf("Output(7) = (%d, %v), want (10, true)", got, ok)
	}
}

func TestSourceMapOutputSpan(t *testing.T) {
	t.Parallel()

	m := &SourceMap{}
	m.Add(0, 0)
	m.Add(10, 15)

	start, end, ok := m.OutputSpan(0, 10)
	if !ok || start != 0 || end != 15 {
		t.Errorf("OutputSpan = (%d, %d, %v), want (0, 15, true)", start, end, ok)
	}

	if _, _, ok := m.OutputSpan(0, 4); ok {
		t.Error("OutputSpan with unmapped end must report not ok")
	}
	if _, _, ok := m.OutputSpan(4, 10); ok {
		t.Error("OutputSpan with unmapped start must report not ok")
	}
}

func TestSourceMapVerbatim(t *testing.T) {
	t.Parallel()

	m := &SourceMap{}
	m.AddVerbatim(20, 30, 5)

	// Interior offsets map linearly.
	for _, tt := range []struct{ source, want int }{
		{source: 20, want: 5},
		{source: 25, want: 10},
		{source: 30, want: 15},
	} {
		got, ok := m.Output(tt.source)
		if !ok || got != tt.want {
			t.Errorf("Output(%d) = (%d, %v), want (%d, true)", tt.source, got, ok, tt.want)
		}
	}

	if _, ok := m.Output(31); ok {
		t.Error("offset past the verbatim range must not map")
	}
}

func TestSourceMapNil(t *testing.T) {
	t.Parallel()

	var m *SourceMap
	m.Add(1, 2)
	m.AddVerbatim(1, 2, 3)
	if _, ok := m.Output(1); ok {
		t.Error("nil map must report no entries")
	}
}

func TestSourceMapCoversNodeSpanBounds(t *testing.T) {
	t.Parallel()

	// The whole-node replacement used when a narrowed anchor has no map
	// entry maps the node's own span bounds. That slice must exclude the
	// rendered indentation, leading comments, and trailing newline, or
	// splicing it over the span would duplicate them.
	source := "def f():\n    # setup\n    value  =  1\n"
	res, err := parser.Parse([]byte(source))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	lines := pyast.BuildLines([]byte(source))
	cm := comments.Attach(res.Module, res.Comments, lines, []byte(source))

	stmt := findKind(t, res.Module, pyast.KindAssign)
	r := newRenderer([]byte(source), res.Tokens, lines, cm, DefaultOptions(), true)
	r.renderRoot(stmt, 1)

	outStart, outEnd, ok := r.sm.OutputSpan(stmt.Span.Start, stmt.Span.End)
	if !ok {
		t.Fatal("node span bounds have no map entries")
	}
	if got := r.out.String()[outStart:outEnd]; got != "value = 1" {
		t.Errorf("mapped node text = %q, want %q", got, "value = 1")
	}
}

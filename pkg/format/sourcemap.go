package format

import "sort"

// mapEntry records that the source byte offset Source corresponds to the
// output byte offset Output in the rendered text.
type mapEntry struct {
	Source int
	Output int
}

// SourceMap maps source offsets to offsets in the rendered output. The
// renderer records an entry at every offset the range narrower may pick as
// a boundary: statement starts (after indentation) and ends (before any
// trailing comment), comment starts and ends, and clause-header colon ends.
//
// Entries are non-decreasing in both coordinates.
type SourceMap struct {
	entries  []mapEntry
	verbatim []verbatimRange
}

// verbatimRange records a region copied byte-for-byte from the source, where
// every interior offset maps linearly into the output.
type verbatimRange struct {
	srcStart int
	srcEnd   int
	outStart int
}

// Add records one source/output offset pair. Offsets must be appended in
// output order.
func (m *SourceMap) Add(source, output int) {
	if m == nil {
		return
	}
	m.entries = append(m.entries, mapEntry{Source: source, Output: output})
}

// AddVerbatim records a byte-for-byte region starting at the given source
// and output offsets.
func (m *SourceMap) AddVerbatim(srcStart, srcEnd, outStart int) {
	if m == nil {
		return
	}
	m.verbatim = append(m.verbatim, verbatimRange{
		srcStart: srcStart,
		srcEnd:   srcEnd,
		outStart: outStart,
	})
}

// Output returns the output offset recorded for the given source offset.
// When several entries share a source offset the first one wins; it marks
// the boundary before any rendered filler (newlines, indentation) that
// follows the same source position.
func (m *SourceMap) Output(source int) (int, bool) {
	if m == nil {
		return 0, false
	}
	idx := sort.Search(len(m.entries), func(i int) bool {
		return m.entries[i].Source >= source
	})
	if idx < len(m.entries) && m.entries[idx].Source == source {
		return m.entries[idx].Output, true
	}
	for _, v := range m.verbatim {
		if source >= v.srcStart && source <= v.srcEnd {
			return v.outStart + (source - v.srcStart), true
		}
	}
	return 0, false
}

// OutputSpan maps a source span to the corresponding rendered span. ok is
// false when either bound has no entry, meaning the narrower and the
// renderer disagree about anchor offsets.
func (m *SourceMap) OutputSpan(start, end int) (outStart, outEnd int, ok bool) {
	outStart, ok = m.Output(start)
	if !ok {
		return 0, 0, false
	}
	outEnd, ok = m.Output(end)
	if !ok {
		return 0, 0, false
	}
	return outStart, outEnd, true
}

// Package search finds occurrences of a query across a document's pages,
// turns them into highlight rectangles and snippets, and drives a stateful
// navigation cursor over them. Matching is exact, case-sensitive substring
// search; all geometry stays in unrotated page space.
package search

import "github.com/abiiranathan/pdfview/geom"

// Hit aggregates every occurrence of the current query on one page. Rects
// and Snippets are parallel; ActiveRect is a valid index into Rects whenever
// Rects is non-empty. A Hit is treated as an immutable value: cursor moves
// replace the whole Hit rather than mutating it.
type Hit struct {
	PageIndex  int
	Rects      []geom.Rect
	Snippets   []string
	ActiveRect int
}

func (h Hit) withActive(rect int) Hit {
	return Hit{
		PageIndex:  h.PageIndex,
		Rects:      h.Rects,
		Snippets:   h.Snippets,
		ActiveRect: rect,
	}
}

// Result is the flattened, read-only projection of one highlight rectangle,
// used for presenting a results list.
type Result struct {
	PageIndex int    `json:"page_index"`
	RectIndex int    `json:"rect_index"`
	Snippet   string `json:"snippet"`
}

// Granularity selects how occurrences become highlight rectangles.
type Granularity int

const (
	// GranularityOccurrence emits one padded union rectangle per occurrence.
	GranularityOccurrence Granularity = iota

	// GranularityLine emits one band per text line touched by an occurrence,
	// so a match that wraps lines produces multiple rectangles. This changes
	// the totals reported by Session.Status.
	GranularityLine
)

func (g Granularity) String() string {
	if g == GranularityLine {
		return "line"
	}
	return "occurrence"
}

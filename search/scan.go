package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/abiiranathan/pdfview/geom"
	"github.com/abiiranathan/pdfview/index"
)

// Highlight padding as fractions of the median character height.
const (
	padFractionX = 0.15
	padFractionY = 0.25
)

// Snippet context characters kept on each side of an occurrence.
const snippetContext = 20

// Scanner finds query occurrences page by page and builds Hits.
type Scanner struct {
	Granularity Granularity
}

// Scan walks every page of the cache in order and returns one non-empty Hit
// per page with at least one usable occurrence. Pages without matches are
// omitted entirely. The context is checked between pages; a canceled scan
// returns the hits gathered so far and the context error.
func (sc Scanner) Scan(ctx context.Context, cache *index.Cache, query string) ([]Hit, error) {
	if query == "" {
		return nil, nil
	}

	q := []rune(query)
	var hits []Hit

	for page := 0; page < cache.PageCount(); page++ {
		select {
		case <-ctx.Done():
			return hits, ctx.Err()
		default:
		}

		if hit, ok := sc.scanPage(cache.Page(page), page, q); ok {
			hits = append(hits, hit)
		}
	}
	return hits, nil
}

// scanPage builds the Hit for one page, or false if no occurrence produced a
// usable rectangle.
func (sc Scanner) scanPage(pg *index.PageIndex, pageIndex int, query []rune) (Hit, bool) {
	hit := Hit{PageIndex: pageIndex}

	for _, occ := range occurrences(pg.Text, query) {
		boxes := charBoxes(pg, occ[0], occ[1])
		if len(boxes) == 0 {
			// No drawable geometry for this occurrence; drop it silently.
			continue
		}

		med := medianHeight(boxes)
		var rects []geom.Rect
		if sc.Granularity == GranularityLine {
			rects = lineBands(boxes, med)
		} else {
			rects = []geom.Rect{unionPad(boxes, med)}
		}

		snip := snippet(pg.Text, occ[0], occ[1], pageIndex)
		for _, r := range rects {
			hit.Rects = append(hit.Rects, r)
			hit.Snippets = append(hit.Snippets, snip)
		}
	}

	if len(hit.Rects) == 0 {
		return Hit{}, false
	}
	return hit, true
}

// occurrences returns every [start, end) occurrence of query in text using
// find-from-cursor semantics: after a match at i, scanning resumes at
// i + max(1, len(query)), which guarantees forward progress.
func occurrences(text, query []rune) [][2]int {
	var spans [][2]int

	step := len(query)
	if step < 1 {
		step = 1
	}

	pos := 0
	for {
		i := runeIndex(text, query, pos)
		if i < 0 {
			break
		}
		end := i + len(query)
		if end > len(text) {
			end = len(text)
		}
		spans = append(spans, [2]int{i, end})
		pos = i + step
	}
	return spans
}

// runeIndex is strings.Index over rune slices, starting at from.
func runeIndex(text, query []rune, from int) int {
	if from < 0 {
		from = 0
	}
	if len(query) == 0 {
		if from <= len(text) {
			return from
		}
		return -1
	}

	for i := from; i+len(query) <= len(text); i++ {
		if text[i] != query[0] {
			continue
		}
		match := true
		for j := 1; j < len(query); j++ {
			if text[i+j] != query[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// charBoxes gathers the present character boxes for offsets in [s, e).
func charBoxes(pg *index.PageIndex, s, e int) []geom.Rect {
	boxes := make([]geom.Rect, 0, e-s)
	for ci := s; ci < e; ci++ {
		if box, ok := pg.CharBox(ci); ok {
			boxes = append(boxes, box)
		}
	}
	return boxes
}

// medianHeight returns the median character height across boxes, a robust
// scale reference against outlier glyphs. Falls back to 1.0 when no height
// is computable.
func medianHeight(boxes []geom.Rect) float64 {
	heights := make([]float64, 0, len(boxes))
	for _, b := range boxes {
		if h := b.Top - b.Bottom; h > 0 {
			heights = append(heights, h)
		}
	}
	if len(heights) == 0 {
		return 1.0
	}
	sort.Float64s(heights)
	return heights[len(heights)/2]
}

// unionPad returns the bounding union of boxes expanded by the standard
// padding fractions of the median character height.
func unionPad(boxes []geom.Rect, med float64) geom.Rect {
	u := boxes[0]
	for _, b := range boxes[1:] {
		u = geom.Union(u, b)
	}

	padX := med * padFractionX
	padY := med * padFractionY
	return geom.Rect{
		Left:   u.Left - padX,
		Top:    u.Top + padY,
		Right:  u.Right + padX,
		Bottom: u.Bottom - padY,
	}
}

// snippet builds the human-readable context for an occurrence spanning
// [s, e): up to snippetContext characters on each side, whitespace runs
// collapsed to single spaces, ellipses marking truncation, labeled with the
// 1-based page number.
func snippet(text []rune, s, e, pageIndex int) string {
	lo := s - snippetContext
	if lo < 0 {
		lo = 0
	}
	hi := e + snippetContext
	if hi > len(text) {
		hi = len(text)
	}

	body := strings.Join(strings.Fields(string(text[lo:hi])), " ")

	var b strings.Builder
	fmt.Fprintf(&b, "p%d: ", pageIndex+1)
	if lo > 0 {
		b.WriteString("...")
	}
	b.WriteString(body)
	if hi < len(text) {
		b.WriteString("...")
	}
	return b.String()
}

package search

import (
	"context"

	"github.com/abiiranathan/pdfview/geom"
	"github.com/abiiranathan/pdfview/index"
)

// State is the lifecycle phase of a Session.
type State int

const (
	// StateIdle means no query has been run (or the last query was blank).
	StateIdle State = iota
	// StateHasHits means the last query matched at least one page.
	StateHasHits
	// StateNoHits means the last query ran and matched nothing.
	StateNoHits
)

// Session owns the ordered hit list for the current query and the navigation
// cursor over it. It is the only component in the core with mutable
// cross-call state and expects a single logical caller; no locking is done.
//
// The cursor is -1 until the first navigation call after a (re)scan. Both
// Next and Prev stop at the boundary rather than wrapping, so rapid repeated
// invocation cannot silently re-visit results; SetWrap switches to cyclic
// behavior for callers that prefer it.
type Session struct {
	cache   *index.Cache
	scanner Scanner

	query  string
	ran    bool
	hits   []Hit
	cursor int
	wrap   bool
}

func NewSession(cache *index.Cache) *Session {
	return &Session{cache: cache, cursor: -1}
}

// SetGranularity selects the highlight construction policy for subsequent
// scans. Changing it forces the next Search to rescan.
func (s *Session) SetGranularity(g Granularity) {
	if s.scanner.Granularity != g {
		s.scanner.Granularity = g
		s.ran = false
	}
}

func (s *Session) Granularity() Granularity {
	return s.scanner.Granularity
}

// SetWrap toggles cyclic navigation at the hit-list boundaries.
func (s *Session) SetWrap(wrap bool) {
	s.wrap = wrap
}

func (s *Session) State() State {
	switch {
	case !s.ran:
		return StateIdle
	case len(s.hits) > 0:
		return StateHasHits
	default:
		return StateNoHits
	}
}

// Query returns the last searched query, empty in the Idle state.
func (s *Session) Query() string {
	if !s.ran {
		return ""
	}
	return s.query
}

// Search runs the query against the document. Repeating the previous query
// is a no-op; a different query rebuilds the hit list and resets the cursor
// to -1. A blank query clears the session back to Idle.
func (s *Session) Search(query string) {
	if s.cache == nil {
		return
	}

	if query == "" {
		s.Reset()
		return
	}

	if s.ran && query == s.query {
		return
	}

	s.query = query
	s.hits, _ = s.scanner.Scan(context.Background(), s.cache, query)
	s.cursor = -1
	s.ran = true
}

// Reset clears all search state back to Idle. Called on blank queries and on
// document close/replace.
func (s *Session) Reset() {
	s.query = ""
	s.hits = nil
	s.cursor = -1
	s.ran = false
}

// Invalidate forces the next Search to rescan even for an identical query,
// used after a document reload.
func (s *Session) Invalidate() {
	s.ran = false
	s.hits = nil
	s.cursor = -1
}

// Next advances to the following rectangle: first within the current page's
// hit, then onto the next page. The first call lands on the first rectangle
// of the first hit. Returns whether a hit is active, which is false only
// when there are no hits at all.
func (s *Session) Next() bool {
	if len(s.hits) == 0 {
		return false
	}

	if s.cursor == -1 {
		s.cursor = 0
		s.hits[0] = s.hits[0].withActive(0)
		return true
	}

	hit := s.hits[s.cursor]
	switch {
	case hit.ActiveRect < len(hit.Rects)-1:
		s.hits[s.cursor] = hit.withActive(hit.ActiveRect + 1)
	case s.cursor < len(s.hits)-1:
		s.cursor++
		s.hits[s.cursor] = s.hits[s.cursor].withActive(0)
	case s.wrap:
		s.cursor = 0
		s.hits[0] = s.hits[0].withActive(0)
	default:
		// At the last rectangle of the last page: stay put.
	}
	return true
}

// Prev is the mirror of Next. The first call lands on the last rectangle of
// the last hit.
func (s *Session) Prev() bool {
	if len(s.hits) == 0 {
		return false
	}

	if s.cursor == -1 {
		s.cursor = len(s.hits) - 1
		last := s.hits[s.cursor]
		s.hits[s.cursor] = last.withActive(max(0, len(last.Rects)-1))
		return true
	}

	hit := s.hits[s.cursor]
	switch {
	case hit.ActiveRect > 0:
		s.hits[s.cursor] = hit.withActive(hit.ActiveRect - 1)
	case s.cursor > 0:
		s.cursor--
		prev := s.hits[s.cursor]
		s.hits[s.cursor] = prev.withActive(max(0, len(prev.Rects)-1))
	case s.wrap:
		s.cursor = len(s.hits) - 1
		last := s.hits[s.cursor]
		s.hits[s.cursor] = last.withActive(max(0, len(last.Rects)-1))
	default:
		// At the first rectangle of the first page: stay put.
	}
	return true
}

// Goto jumps the cursor to the hit for pageIndex, clamping rectIndex into
// the valid range. Fails when no hit exists for that page.
func (s *Session) Goto(pageIndex, rectIndex int) bool {
	for i, hit := range s.hits {
		if hit.PageIndex != pageIndex {
			continue
		}
		if len(hit.Rects) == 0 {
			return false
		}

		if rectIndex < 0 {
			rectIndex = 0
		}
		if rectIndex > len(hit.Rects)-1 {
			rectIndex = len(hit.Rects) - 1
		}

		s.cursor = i
		s.hits[i] = hit.withActive(rectIndex)
		return true
	}
	return false
}

// Status reports the active rectangle's 1-based rank across all pages, the
// total rectangle count, and the active page's 1-based number.
type Status struct {
	Current int `json:"current"`
	Total   int `json:"total"`
	Page    int `json:"page"`
}

// Status returns the navigation position, or false before any navigation has
// occurred for the current hits.
func (s *Session) Status() (Status, bool) {
	if s.cursor < 0 || s.cursor >= len(s.hits) {
		return Status{}, false
	}

	total := 0
	for _, hit := range s.hits {
		total += len(hit.Rects)
	}
	if total == 0 {
		return Status{}, false
	}

	hit := s.hits[s.cursor]
	active := hit.ActiveRect
	if last := len(hit.Rects) - 1; active > last {
		active = max(0, last)
	}

	before := 0
	for _, h := range s.hits[:s.cursor] {
		before += len(h.Rects)
	}

	return Status{
		Current: before + active + 1,
		Total:   total,
		Page:    hit.PageIndex + 1,
	}, true
}

// ActiveHit returns the hit under the cursor.
func (s *Session) ActiveHit() (Hit, bool) {
	if s.cursor < 0 || s.cursor >= len(s.hits) {
		return Hit{}, false
	}
	return s.hits[s.cursor], true
}

// Hits returns the full ordered hit list for the current query.
func (s *Session) Hits() []Hit {
	return s.hits
}

// Results flattens the hit list into the read-only projection used by
// results-list presentation, in (page, rect) order.
func (s *Session) Results() []Result {
	var results []Result
	for _, hit := range s.hits {
		for i := range hit.Rects {
			results = append(results, Result{
				PageIndex: hit.PageIndex,
				RectIndex: i,
				Snippet:   hit.Snippets[i],
			})
		}
	}
	return results
}

// HighlightRects returns the page-space highlight rectangles for a page, or
// nil when that page is not the active hit.
func (s *Session) HighlightRects(pageIndex int) []geom.Rect {
	hit, ok := s.ActiveHit()
	if !ok || hit.PageIndex != pageIndex {
		return nil
	}
	return hit.Rects
}

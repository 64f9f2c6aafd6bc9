package search

import "testing"

// newSession builds a session over a three-page document where "foo" appears
// twice on page 0 and once on page 2, giving three rectangles total.
func newSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession(newCache("foo bar foo", "nothing here", "foo"))
	s.Search("foo")
	if s.State() != StateHasHits {
		t.Fatalf("state = %v, want StateHasHits", s.State())
	}
	return s
}

func mustStatus(t *testing.T, s *Session) Status {
	t.Helper()
	st, ok := s.Status()
	if !ok {
		t.Fatal("status absent")
	}
	return st
}

func TestResultsInPageOrder(t *testing.T) {
	s := newSession(t)

	results := s.Results()
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}

	want := []struct{ page, rect int }{{0, 0}, {0, 1}, {2, 0}}
	for i, w := range want {
		if results[i].PageIndex != w.page || results[i].RectIndex != w.rect {
			t.Errorf("result %d = (%d, %d), want (%d, %d)",
				i, results[i].PageIndex, results[i].RectIndex, w.page, w.rect)
		}
	}
}

func TestNextWalksRectsThenPages(t *testing.T) {
	s := newSession(t)

	if _, ok := s.Status(); ok {
		t.Fatal("status present before any navigation")
	}

	if !s.Next() {
		t.Fatal("first Next returned false")
	}
	if st := mustStatus(t, s); st != (Status{Current: 1, Total: 3, Page: 1}) {
		t.Errorf("after one Next: %+v", st)
	}

	s.Next()
	if st := mustStatus(t, s); st != (Status{Current: 2, Total: 3, Page: 1}) {
		t.Errorf("after two Next: %+v", st)
	}

	s.Next()
	if st := mustStatus(t, s); st != (Status{Current: 3, Total: 3, Page: 3}) {
		t.Errorf("after three Next: %+v", st)
	}
}

func TestNextStopsAtLastRect(t *testing.T) {
	s := newSession(t)
	for i := 0; i < 3; i++ {
		s.Next()
	}

	// Extra calls keep reporting a hit but never move the cursor.
	for i := 0; i < 4; i++ {
		if !s.Next() {
			t.Fatal("Next at boundary returned false")
		}
	}
	if st := mustStatus(t, s); st.Current != 3 {
		t.Errorf("cursor moved past the end: %+v", st)
	}
}

func TestPrevFromFreshLandsOnLast(t *testing.T) {
	s := newSession(t)

	if !s.Prev() {
		t.Fatal("Prev returned false")
	}
	if st := mustStatus(t, s); st != (Status{Current: 3, Total: 3, Page: 3}) {
		t.Errorf("status = %+v", st)
	}

	s.Prev()
	if st := mustStatus(t, s); st != (Status{Current: 2, Total: 3, Page: 1}) {
		t.Errorf("status = %+v", st)
	}

	s.Prev()
	s.Prev() // at the first rect: stay put
	if st := mustStatus(t, s); st.Current != 1 {
		t.Errorf("cursor moved before the start: %+v", st)
	}
}

func TestEveryRectVisitedExactlyOnce(t *testing.T) {
	s := newSession(t)

	seen := map[Status]bool{}
	for s.Next() {
		st := mustStatus(t, s)
		if seen[st] {
			break
		}
		seen[st] = true
	}
	if len(seen) != 3 {
		t.Errorf("visited %d distinct positions, want 3", len(seen))
	}
}

func TestWrapCycles(t *testing.T) {
	s := newSession(t)
	s.SetWrap(true)

	for i := 0; i < 3; i++ {
		s.Next()
	}
	s.Next()
	if st := mustStatus(t, s); st != (Status{Current: 1, Total: 3, Page: 1}) {
		t.Errorf("wrap forward landed at %+v", st)
	}

	s.Prev()
	if st := mustStatus(t, s); st != (Status{Current: 3, Total: 3, Page: 3}) {
		t.Errorf("wrap backward landed at %+v", st)
	}
}

func TestGotoClampsRectIndex(t *testing.T) {
	s := newSession(t)

	// Page 0 has two rects; index 5 clamps to 1.
	if !s.Goto(0, 5) {
		t.Fatal("Goto failed")
	}
	if st := mustStatus(t, s); st != (Status{Current: 2, Total: 3, Page: 1}) {
		t.Errorf("status = %+v", st)
	}

	if !s.Goto(2, -3) {
		t.Fatal("Goto with negative index failed")
	}
	if st := mustStatus(t, s); st != (Status{Current: 3, Total: 3, Page: 3}) {
		t.Errorf("status = %+v", st)
	}

	// Page 1 has no hit.
	if s.Goto(1, 0) {
		t.Error("Goto succeeded for a page without a hit")
	}
}

func TestBlankQueryGoesIdle(t *testing.T) {
	s := newSession(t)
	s.Next()

	s.Search("")
	if s.State() != StateIdle {
		t.Errorf("state = %v, want StateIdle", s.State())
	}
	if s.Next() {
		t.Error("Next reported a hit in the Idle state")
	}
	if _, ok := s.Status(); ok {
		t.Error("status present in the Idle state")
	}
	if s.Query() != "" {
		t.Errorf("query = %q, want empty", s.Query())
	}
}

func TestRepeatedQueryKeepsCursor(t *testing.T) {
	s := newSession(t)
	s.Next()
	s.Next()

	s.Search("foo")
	if st := mustStatus(t, s); st.Current != 2 {
		t.Errorf("identical query moved the cursor: %+v", st)
	}
}

func TestNewQueryResetsCursor(t *testing.T) {
	s := newSession(t)
	s.Next()
	s.Next()

	s.Search("bar")
	if _, ok := s.Status(); ok {
		t.Error("status survived a query change")
	}
	if s.State() != StateHasHits {
		t.Errorf("state = %v, want StateHasHits", s.State())
	}
}

func TestNoHitsState(t *testing.T) {
	s := NewSession(newCache("alpha", "beta"))
	s.Search("gamma")

	if s.State() != StateNoHits {
		t.Errorf("state = %v, want StateNoHits", s.State())
	}
	if s.Next() || s.Prev() {
		t.Error("navigation reported a hit with none present")
	}
	if len(s.Results()) != 0 {
		t.Errorf("results = %d, want 0", len(s.Results()))
	}
}

func TestInvalidateForcesRescan(t *testing.T) {
	s := newSession(t)
	s.Next()

	s.Invalidate()
	if _, ok := s.Status(); ok {
		t.Error("status survived invalidation")
	}

	s.Search("foo")
	if s.State() != StateHasHits {
		t.Errorf("state = %v, want StateHasHits after rescan", s.State())
	}
	if len(s.Results()) != 3 {
		t.Errorf("results = %d, want 3", len(s.Results()))
	}
}

func TestSetGranularityForcesRescan(t *testing.T) {
	s := NewSession(newCache("ab\ncd"))
	s.Search("b\nc")
	if len(s.Results()) != 1 {
		t.Fatalf("occurrence results = %d, want 1", len(s.Results()))
	}

	s.SetGranularity(GranularityLine)
	s.Search("b\nc")
	if len(s.Results()) != 2 {
		t.Errorf("line results = %d, want 2", len(s.Results()))
	}
}

func TestHighlightRectsOnlyForActivePage(t *testing.T) {
	s := newSession(t)

	if s.HighlightRects(0) != nil {
		t.Error("highlights present before navigation")
	}

	s.Next()
	if rects := s.HighlightRects(0); len(rects) != 2 {
		t.Errorf("page 0 highlights = %d, want 2", len(rects))
	}
	if s.HighlightRects(2) != nil {
		t.Error("inactive page returned highlights")
	}
}

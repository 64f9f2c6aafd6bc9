package index

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/abiiranathan/pdfview/geom"
)

// fakeSource lays every page out on a fixed character grid: 8pt wide boxes
// with a 12pt height, lines 20pt apart from the top of a 612x792 page.
// Newlines get no geometry, like control characters in a real text layer.
type fakeSource struct {
	pages    []string
	extracts atomic.Int32
}

func (f *fakeSource) PageCount() int { return len(f.pages) }

func (f *fakeSource) PageSize(page int) (w, h float64) { return 612, 792 }

func (f *fakeSource) PageText(page int) string {
	f.extracts.Add(1)
	if page < 0 || page >= len(f.pages) {
		return ""
	}
	return f.pages[page]
}

func (f *fakeSource) PageLayout(page int) []geom.Rect {
	if page < 0 || page >= len(f.pages) {
		return nil
	}

	var boxes []geom.Rect
	line, col := 0, 0
	for _, r := range f.pages[page] {
		if r == '\n' {
			boxes = append(boxes, geom.Rect{})
			line++
			col = 0
			continue
		}

		top := 720 - float64(line)*20
		left := 40 + float64(col)*10
		boxes = append(boxes, geom.Rect{
			Left:   left,
			Top:    top,
			Right:  left + 8,
			Bottom: top - 12,
		})
		col++
	}
	return boxes
}

func TestPageExtractedOnce(t *testing.T) {
	src := &fakeSource{pages: []string{"hello", "world"}}
	cache := NewCache(src)

	for i := 0; i < 5; i++ {
		cache.Page(0)
	}
	cache.Page(1)

	if got := src.extracts.Load(); got != 2 {
		t.Errorf("extraction calls = %d, want 2", got)
	}
}

func TestCharBoxGaps(t *testing.T) {
	src := &fakeSource{pages: []string{"ab\ncd"}}
	pg := NewCache(src).Page(0)

	if pg.Len() != 5 {
		t.Fatalf("Len = %d, want 5", pg.Len())
	}

	tests := []struct {
		offset int
		ok     bool
	}{
		{0, true},
		{1, true},
		{2, false}, // newline has no geometry
		{3, true},
		{4, true},
		{-1, false},
		{5, false},
	}
	for _, tt := range tests {
		if _, ok := pg.CharBox(tt.offset); ok != tt.ok {
			t.Errorf("CharBox(%d) ok = %v, want %v", tt.offset, ok, tt.ok)
		}
	}
}

func TestSecondLineBoxesSitLower(t *testing.T) {
	src := &fakeSource{pages: []string{"ab\ncd"}}
	pg := NewCache(src).Page(0)

	first, _ := pg.CharBox(0)
	second, _ := pg.CharBox(3)
	if second.Top >= first.Top {
		t.Errorf("second line top %v not below first line top %v", second.Top, first.Top)
	}
}

func TestEmptyPage(t *testing.T) {
	src := &fakeSource{pages: []string{""}}
	pg := NewCache(src).Page(0)

	if pg.Len() != 0 {
		t.Errorf("empty page Len = %d, want 0", pg.Len())
	}
	if _, ok := pg.CharBox(0); ok {
		t.Error("empty page returned a char box")
	}
}

// A short layout must not expose out-of-range offsets; missing tail boxes
// read as absent.
func TestShortLayoutPadded(t *testing.T) {
	src := &shortLayoutSource{}
	pg := NewCache(src).Page(0)

	if pg.Len() != 3 {
		t.Fatalf("Len = %d, want 3", pg.Len())
	}
	if _, ok := pg.CharBox(0); !ok {
		t.Error("offset 0 should have a box")
	}
	if _, ok := pg.CharBox(2); ok {
		t.Error("offset 2 has no layout entry and should be absent")
	}
}

type shortLayoutSource struct{}

func (shortLayoutSource) PageCount() int                   { return 1 }
func (shortLayoutSource) PageSize(int) (float64, float64)  { return 612, 792 }
func (shortLayoutSource) PageText(int) string              { return "abc" }
func (shortLayoutSource) PageLayout(int) []geom.Rect {
	return []geom.Rect{{Left: 0, Top: 12, Right: 8, Bottom: 0}}
}

func TestWarmExtractsEveryPage(t *testing.T) {
	src := &fakeSource{pages: []string{"a", "b", "c", "d"}}
	cache := NewCache(src)

	if err := cache.Warm(context.Background(), 2); err != nil {
		t.Fatal(err)
	}
	if got := src.extracts.Load(); got != 4 {
		t.Errorf("extraction calls = %d, want 4", got)
	}

	// Warm again: everything already cached.
	if err := cache.Warm(context.Background(), 2); err != nil {
		t.Fatal(err)
	}
	if got := src.extracts.Load(); got != 4 {
		t.Errorf("extraction calls after rewarm = %d, want 4", got)
	}
}

func TestInvalidate(t *testing.T) {
	src := &fakeSource{pages: []string{"abc"}}
	cache := NewCache(src)

	cache.Page(0)
	cache.Invalidate()
	cache.Page(0)

	if got := src.extracts.Load(); got != 2 {
		t.Errorf("extraction calls = %d, want 2", got)
	}
}

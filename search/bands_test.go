package search

import (
	"context"
	"testing"

	"github.com/abiiranathan/pdfview/geom"
)

func TestLineBandsClustering(t *testing.T) {
	box := func(left, top float64) geom.Rect {
		return geom.Rect{Left: left, Top: top, Right: left + 8, Bottom: top - 12}
	}

	tests := []struct {
		name  string
		boxes []geom.Rect
		want  int
	}{
		{
			name:  "single box",
			boxes: []geom.Rect{box(40, 720)},
			want:  1,
		},
		{
			name:  "one line",
			boxes: []geom.Rect{box(40, 720), box(50, 720), box(60, 720)},
			want:  1,
		},
		{
			name: "baseline jitter stays in one band",
			boxes: []geom.Rect{
				box(40, 720), box(50, 721.5), box(60, 719),
			},
			want: 1,
		},
		{
			name: "two lines",
			boxes: []geom.Rect{
				box(40, 720), box(50, 720),
				box(40, 700), box(50, 700),
			},
			want: 2,
		},
		{
			name: "three lines out of order",
			boxes: []geom.Rect{
				box(40, 680), box(40, 720), box(40, 700),
			},
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bands := lineBands(tt.boxes, 12)
			if len(bands) != tt.want {
				t.Errorf("bands = %d, want %d", len(bands), tt.want)
			}
		})
	}
}

func TestLineBandsOrderedTopToBottom(t *testing.T) {
	boxes := []geom.Rect{
		{Left: 40, Top: 700, Right: 48, Bottom: 688},
		{Left: 40, Top: 720, Right: 48, Bottom: 708},
	}

	bands := lineBands(boxes, 12)
	if len(bands) != 2 {
		t.Fatalf("bands = %d, want 2", len(bands))
	}
	if bands[0].Top <= bands[1].Top {
		t.Errorf("bands not ordered top to bottom: %v then %v", bands[0].Top, bands[1].Top)
	}
}

// A multi-line occurrence produces one rect per line in Line granularity but
// a single bounding rect in the default Occurrence granularity.
func TestGranularityRectCounts(t *testing.T) {
	cache := newCache("ab\ncd")

	occ, err := Scanner{Granularity: GranularityOccurrence}.Scan(context.Background(), cache, "b\nc")
	if err != nil {
		t.Fatal(err)
	}
	if len(occ) != 1 || len(occ[0].Rects) != 1 {
		t.Fatalf("occurrence granularity: %+v, want 1 hit with 1 rect", occ)
	}

	line, err := Scanner{Granularity: GranularityLine}.Scan(context.Background(), cache, "b\nc")
	if err != nil {
		t.Fatal(err)
	}
	if len(line) != 1 || len(line[0].Rects) != 2 {
		t.Fatalf("line granularity: %+v, want 1 hit with 2 rects", line)
	}

	// Every band carries the occurrence's snippet so the results list stays
	// aligned with the rect list.
	if line[0].Snippets[0] != line[0].Snippets[1] {
		t.Errorf("band snippets differ: %q vs %q", line[0].Snippets[0], line[0].Snippets[1])
	}
}

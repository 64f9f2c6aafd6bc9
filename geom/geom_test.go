package geom

import (
	"math"
	"testing"
)

func TestNormalizeBox(t *testing.T) {
	tests := []struct {
		name                     string
		left, bottom, right, top float64
		want                     Rect
		valid                    bool
	}{
		{
			name: "already normalized",
			left: 1, bottom: 2, right: 3, top: 4,
			want:  Rect{Left: 1, Top: 4, Right: 3, Bottom: 2},
			valid: true,
		},
		{
			name: "flipped on both axes",
			left: 3, bottom: 4, right: 1, top: 2,
			want:  Rect{Left: 1, Top: 4, Right: 3, Bottom: 2},
			valid: true,
		},
		{
			name: "zero width",
			left: 5, bottom: 1, right: 5, top: 2,
			valid: false,
		},
		{
			name: "zero height",
			left: 1, bottom: 7, right: 2, top: 7,
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeBox(tt.left, tt.bottom, tt.right, tt.top)
			if ok != tt.valid {
				t.Fatalf("valid = %v, want %v", ok, tt.valid)
			}
			if ok && got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestUnion(t *testing.T) {
	a := Rect{Left: 10, Top: 50, Right: 20, Bottom: 40}
	b := Rect{Left: 15, Top: 60, Right: 30, Bottom: 45}

	got := Union(a, b)
	want := Rect{Left: 10, Top: 60, Right: 30, Bottom: 40}
	if got != want {
		t.Errorf("Union = %+v, want %+v", got, want)
	}
}

func TestPageToPixelRect(t *testing.T) {
	// At a 1:1 scale the x axis passes through and y flips around the page
	// height.
	r := Rect{Left: 72, Top: 720, Right: 144, Bottom: 708}
	got := PageToPixelRect(r, 612, 792, 612, 792)

	// The y flip goes through a (1 - y/pageH) product, so the result carries
	// float rounding; compare within an epsilon.
	want := Rect{Left: 72, Top: 72, Right: 144, Bottom: 84}
	const eps = 1e-9
	if math.Abs(got.Left-want.Left) > eps || math.Abs(got.Top-want.Top) > eps ||
		math.Abs(got.Right-want.Right) > eps || math.Abs(got.Bottom-want.Bottom) > eps {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestPageToPixelRectMinimumExtent(t *testing.T) {
	// A sliver of a glyph still produces a visible highlight.
	r := Rect{Left: 100, Top: 500.2, Right: 100.1, Bottom: 500}
	got := PageToPixelRect(r, 612, 792, 612, 792)

	if got.Width() < 1 || got.Bottom-got.Top < 1 {
		t.Errorf("extent below floor: %+v", got)
	}
}

// A page-space point mapped to pixel space and then through the identity
// rotation must equal the point mapped without any rotation step.
func TestPageToPixelRotationZeroRoundTrip(t *testing.T) {
	p := Point{X: 306, Y: 396}
	px := PageToPixelPoint(p, 612, 792, 1224, 1584)

	rotated := RotatePoint(px, 1224, 1584, Rotate0)
	if math.Abs(rotated.X-px.X) > 1e-12 || math.Abs(rotated.Y-px.Y) > 1e-12 {
		t.Errorf("identity rotation moved point: %v -> %v", px, rotated)
	}

	if px.X != 612 || px.Y != 792 {
		t.Errorf("center mapped to %v, want (612, 792)", px)
	}
}

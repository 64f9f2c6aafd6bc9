// Package geom holds the canonical geometry types for the viewer core and the
// coordinate transforms between page space and the displayed raster.
//
// Two conventions are in play:
//
//   - Page space: PDF points, origin bottom-left, y increasing upward.
//     A valid page-space Rect has Top > Bottom.
//   - Pixel space: raster pixels, origin top-left, y increasing downward.
//     A valid pixel-space Rect has Top < Bottom.
//
// All stored geometry (char boxes, highlight rects) lives in page space.
// Conversion to pixel space happens on demand and never mutates the source.
package geom

// Point is a 2D coordinate in either space.
type Point struct {
	X float64
	Y float64
}

// Rect is an axis-aligned rectangle {left, top, right, bottom}.
type Rect struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

func (r Rect) Width() float64 {
	return r.Right - r.Left
}

// Height is the absolute vertical extent, valid in both conventions.
func (r Rect) Height() float64 {
	if r.Top >= r.Bottom {
		return r.Top - r.Bottom
	}
	return r.Bottom - r.Top
}

// IsZero reports whether r is the zero rectangle, used to mark an absent box.
func (r Rect) IsZero() bool {
	return r.Left == 0 && r.Top == 0 && r.Right == 0 && r.Bottom == 0
}

// NormalizeBox builds a page-space Rect from possibly flipped raw coordinates,
// as delivered by the text layer. Returns false for a degenerate box that
// cannot be drawn (zero or negative extent after normalization).
func NormalizeBox(left, bottom, right, top float64) (Rect, bool) {
	l, r := left, right
	if l > r {
		l, r = r, l
	}
	b, t := bottom, top
	if b > t {
		b, t = t, b
	}
	if r <= l || t <= b {
		return Rect{}, false
	}
	return Rect{Left: l, Top: t, Right: r, Bottom: b}, true
}

// Union returns the page-space bounding union of a and b.
func Union(a, b Rect) Rect {
	return Rect{
		Left:   min(a.Left, b.Left),
		Top:    max(a.Top, b.Top),
		Right:  max(a.Right, b.Right),
		Bottom: min(a.Bottom, b.Bottom),
	}
}

// PageToPixelPoint maps a page-space point onto an unrotated raster of
// imgW x imgH pixels: normalize x by the page width, flip y to a top-left
// origin, then scale. This step is rotation independent and must run before
// any rotation mapping.
func PageToPixelPoint(p Point, pageW, pageH, imgW, imgH float64) Point {
	return Point{
		X: p.X / pageW * imgW,
		Y: (1 - p.Y/pageH) * imgH,
	}
}

// PageToPixelRect maps a page-space rect onto an unrotated raster. The result
// keeps a minimum extent of one pixel so hairline matches stay visible.
func PageToPixelRect(r Rect, pageW, pageH, imgW, imgH float64) Rect {
	x0 := r.Left / pageW * imgW
	x1 := r.Right / pageW * imgW

	// y flips: the page-space top edge becomes the smaller pixel y.
	y0 := (1 - r.Top/pageH) * imgH
	y1 := (1 - r.Bottom/pageH) * imgH

	return Rect{
		Left:   x0,
		Top:    y0,
		Right:  x0 + max(1, x1-x0),
		Bottom: y0 + max(1, y1-y0),
	}
}

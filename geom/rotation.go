package geom

// Rotation is a quarter-turn rotation state, clockwise positive. The zero
// value is the unrotated state. Only 0, 90, 180 and 270 are canonical;
// NormalizeRotation reduces anything else.
type Rotation int

const (
	Rotate0   Rotation = 0
	Rotate90  Rotation = 90
	Rotate180 Rotation = 180
	Rotate270 Rotation = 270
)

// NormalizeRotation reduces an arbitrary degree count to one of the four
// canonical values, rounding down to the nearest quarter turn.
func NormalizeRotation(deg int) Rotation {
	d := ((deg % 360) + 360) % 360
	return Rotation((d / 90) * 90)
}

// CW returns the state one quarter turn clockwise.
func (r Rotation) CW() Rotation {
	return NormalizeRotation(int(r) + 90)
}

// CCW returns the state one quarter turn counter-clockwise.
func (r Rotation) CCW() Rotation {
	return NormalizeRotation(int(r) - 90)
}

// Inverse returns the rotation that undoes r.
func (r Rotation) Inverse() Rotation {
	return NormalizeRotation(-int(r))
}

func (r Rotation) Degrees() int {
	return int(NormalizeRotation(int(r)))
}

// RotatedSize returns the canvas dimensions after rotating a w x h raster.
func RotatedSize(w, h float64, rot Rotation) (float64, float64) {
	switch NormalizeRotation(int(rot)) {
	case Rotate90, Rotate270:
		return h, w
	default:
		return w, h
	}
}

// RotatePoint maps a point from the unrotated pixel space of a w x h raster
// into the pixel space of the rotated raster. The same mapping must be used
// for overlays and for the rotated image itself so alignment holds by
// construction.
func RotatePoint(p Point, w, h float64, rot Rotation) Point {
	switch NormalizeRotation(int(rot)) {
	case Rotate90:
		return Point{X: h - p.Y, Y: p.X}
	case Rotate180:
		return Point{X: w - p.X, Y: h - p.Y}
	case Rotate270:
		return Point{X: p.Y, Y: w - p.X}
	default:
		return p
	}
}

// RotateRect maps a pixel-space rect through RotatePoint corner by corner and
// returns the axis-aligned bounding box of the result, with a minimum extent
// of one pixel in each direction.
func RotateRect(r Rect, w, h float64, rot Rotation) Rect {
	corners := [4]Point{
		{X: r.Left, Y: r.Top},
		{X: r.Right, Y: r.Top},
		{X: r.Right, Y: r.Bottom},
		{X: r.Left, Y: r.Bottom},
	}

	p0 := RotatePoint(corners[0], w, h, rot)
	x0, x1 := p0.X, p0.X
	y0, y1 := p0.Y, p0.Y
	for _, c := range corners[1:] {
		p := RotatePoint(c, w, h, rot)
		x0 = min(x0, p.X)
		x1 = max(x1, p.X)
		y0 = min(y0, p.Y)
		y1 = max(y1, p.Y)
	}

	return Rect{
		Left:   x0,
		Top:    y0,
		Right:  x0 + max(1, x1-x0),
		Bottom: y0 + max(1, y1-y0),
	}
}

// Package viewer is the facade the presentation layer talks to. It owns one
// open document together with its search session, rotation state and zoom,
// and maps highlight geometry into the coordinates of the displayed raster.
// Search semantics live in the search package; rendering lives in pdf.
package viewer

import (
	"github.com/abiiranathan/pdfview/geom"
	"github.com/abiiranathan/pdfview/index"
	"github.com/abiiranathan/pdfview/search"
)

const (
	ZoomMin = 0.2
	ZoomMax = 5.0

	// RasterScale is pixels per point at zoom 1.0: the app-defined 100%,
	// roughly 144dpi.
	RasterScale = 2.0
)

// Viewer holds the per-document view state. All operations are safe to call
// with no document loaded; they fail with false/empty results.
type Viewer struct {
	src     index.Source
	path    string
	cache   *index.Cache
	session *search.Session

	rot  geom.Rotation
	zoom float64
}

// New returns a viewer with no document loaded.
func New() *Viewer {
	return &Viewer{zoom: 1.0}
}

// LoadSource attaches a document collaborator, replacing any current one.
// Search state is rebuilt from scratch; rotation and zoom reset.
func (v *Viewer) LoadSource(src index.Source, path string) {
	v.src = src
	v.path = path
	v.cache = index.NewCache(src)
	v.session = search.NewSession(v.cache)
	v.rot = geom.Rotate0
	v.zoom = 1.0
}

// CloseDocument detaches the current document and discards search state.
func (v *Viewer) CloseDocument() {
	v.src = nil
	v.path = ""
	v.cache = nil
	v.session = nil
}

func (v *Viewer) HasDocument() bool {
	return v.src != nil
}

func (v *Viewer) Path() string {
	return v.path
}

func (v *Viewer) PageCount() int {
	if v.src == nil {
		return 0
	}
	return v.src.PageCount()
}

// Cache exposes the page-text cache, e.g. for warming or serialization.
func (v *Viewer) Cache() *index.Cache {
	return v.cache
}

// Session exposes the underlying search session for policy knobs
// (granularity, wrap).
func (v *Viewer) Session() *search.Session {
	return v.session
}

// ---- Search surface ----

// Search runs a query; idempotent for a repeated identical query.
func (v *Viewer) Search(query string) {
	if v.session == nil {
		return
	}
	v.session.Search(query)
}

// FindNext reports whether a hit is active after advancing, not whether a
// new one was found.
func (v *Viewer) FindNext() bool {
	if v.session == nil {
		return false
	}
	return v.session.Next()
}

func (v *Viewer) FindPrev() bool {
	if v.session == nil {
		return false
	}
	return v.session.Prev()
}

func (v *Viewer) GotoResult(pageIndex, rectIndex int) bool {
	if v.session == nil {
		return false
	}
	return v.session.Goto(pageIndex, rectIndex)
}

func (v *Viewer) Status() (search.Status, bool) {
	if v.session == nil {
		return search.Status{}, false
	}
	return v.session.Status()
}

func (v *Viewer) ListResults() []search.Result {
	if v.session == nil {
		return nil
	}
	return v.session.Results()
}

// HighlightRectsForPage returns page-space highlight rects, empty unless the
// page is the active hit.
func (v *Viewer) HighlightRectsForPage(pageIndex int) []geom.Rect {
	if v.session == nil {
		return nil
	}
	return v.session.HighlightRects(pageIndex)
}

// ---- Rotation and zoom ----

func (v *Viewer) RotateCW() {
	v.rot = v.rot.CW()
}

func (v *Viewer) RotateCCW() {
	v.rot = v.rot.CCW()
}

func (v *Viewer) Rotation() geom.Rotation {
	return v.rot
}

func (v *Viewer) RotationDegrees() int {
	return v.rot.Degrees()
}

func (v *Viewer) Zoom() float64 {
	return v.zoom
}

func (v *Viewer) ZoomPercent() int {
	return int(v.zoom*100 + 0.5)
}

// ZoomBy multiplies the zoom by factor, clamped to [ZoomMin, ZoomMax].
func (v *Viewer) ZoomBy(factor float64) {
	v.zoom = clampZoom(v.zoom * factor)
}

// Zoom100 restores the app-defined actual size.
func (v *Viewer) Zoom100() {
	v.zoom = 1.0
}

// ZoomFitPage picks the zoom at which the displayed (rotated) raster of the
// active page fits entirely inside a viewW x viewH viewport.
func (v *Viewer) ZoomFitPage(viewW, viewH float64) {
	if v.src == nil || viewW <= 0 || viewH <= 0 {
		return
	}

	page := v.activePage()
	pageW, pageH := v.src.PageSize(page)
	if pageW <= 0 || pageH <= 0 {
		return
	}

	dispW, dispH := geom.RotatedSize(pageW*RasterScale, pageH*RasterScale, v.rot)
	v.zoom = clampZoom(min(viewW/dispW, viewH/dispH))
}

// Scale is the raster scale in pixels per point at the current zoom.
func (v *Viewer) Scale() float64 {
	return v.zoom * RasterScale
}

// RasterSize returns the unrotated raster dimensions of a page at the
// current zoom.
func (v *Viewer) RasterSize(page int) (w, h float64) {
	if v.src == nil {
		return 0, 0
	}
	pageW, pageH := v.src.PageSize(page)
	return pageW * v.Scale(), pageH * v.Scale()
}

// DisplaySize returns the raster dimensions actually shown, after rotation.
func (v *Viewer) DisplaySize(page int) (w, h float64) {
	rw, rh := v.RasterSize(page)
	return geom.RotatedSize(rw, rh, v.rot)
}

// DisplayHighlights maps the active page-space highlights into the rotated
// pixel space of the displayed raster. The same transform places the raster
// itself, so overlay alignment is exact by construction.
func (v *Viewer) DisplayHighlights(page int) []geom.Rect {
	rects := v.HighlightRectsForPage(page)
	if len(rects) == 0 {
		return nil
	}

	pageW, pageH := v.src.PageSize(page)
	imgW, imgH := v.RasterSize(page)

	out := make([]geom.Rect, len(rects))
	for i, r := range rects {
		px := geom.PageToPixelRect(r, pageW, pageH, imgW, imgH)
		out[i] = geom.RotateRect(px, imgW, imgH, v.rot)
	}
	return out
}

// ScrollTarget returns the active page and the vertical offset, in rotated
// pixel space, that centers the active rectangle in a viewport of the given
// height. False when no hit is active.
func (v *Viewer) ScrollTarget(viewportH float64) (page int, offset float64, ok bool) {
	if v.session == nil {
		return 0, 0, false
	}
	hit, active := v.session.ActiveHit()
	if !active || len(hit.Rects) == 0 {
		return 0, 0, false
	}

	idx := hit.ActiveRect
	if idx > len(hit.Rects)-1 {
		idx = len(hit.Rects) - 1
	}
	r := hit.Rects[idx]

	pageW, pageH := v.src.PageSize(hit.PageIndex)
	imgW, imgH := v.RasterSize(hit.PageIndex)

	center := geom.Point{
		X: (r.Left + r.Right) * 0.5,
		Y: (r.Top + r.Bottom) * 0.5,
	}
	px := geom.PageToPixelPoint(center, pageW, pageH, imgW, imgH)
	rp := geom.RotatePoint(px, imgW, imgH, v.rot)

	offset = rp.Y - viewportH*0.5
	if offset < 0 {
		offset = 0
	}
	return hit.PageIndex, offset, true
}

func (v *Viewer) activePage() int {
	if v.session != nil {
		if hit, ok := v.session.ActiveHit(); ok {
			return hit.PageIndex
		}
	}
	return 0
}

func clampZoom(z float64) float64 {
	if z < ZoomMin {
		return ZoomMin
	}
	if z > ZoomMax {
		return ZoomMax
	}
	return z
}

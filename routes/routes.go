// Package routes holds the HTTP handlers of the viewer server. The handlers
// are a thin presentation shell: every search and geometry decision is
// delegated to the viewer facade.
package routes

import (
	"encoding/json"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/abiiranathan/pdfview/geom"
	"github.com/abiiranathan/pdfview/pdf"
	"github.com/abiiranathan/pdfview/search"
	"github.com/abiiranathan/pdfview/viewer"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, msg string, code int) {
	w.WriteHeader(code)
	writeJSON(w, map[string]string{"message": msg})
}

// statusPayload is the navigation state shared by several handlers.
type statusPayload struct {
	Active bool          `json:"active"`
	Status search.Status `json:"status"`
}

func currentStatus(v *viewer.Viewer) statusPayload {
	st, ok := v.Status()
	return statusPayload{Active: ok, Status: st}
}

func Home(tmpl *template.Template, v *viewer.Viewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := map[string]any{
			"Name":      pdf.CleanName(v.Path()),
			"PageCount": v.PageCount(),
			"Rotation":  v.RotationDegrees(),
			"Zoom":      v.ZoomPercent(),
		}
		if err := tmpl.ExecuteTemplate(w, "index.html", data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// Search runs a query and returns the flattened results list plus the
// session status. An empty query clears the session.
func Search(v *viewer.Viewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("query")
		v.Search(query)

		writeJSON(w, map[string]any{
			"query":   query,
			"results": v.ListResults(),
			"status":  currentStatus(v),
		})
	}
}

// Navigate advances the hit cursor. dir is "next" or "prev"; anything else
// is rejected.
func Navigate(v *viewer.Viewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var ok bool
		switch r.URL.Query().Get("dir") {
		case "next":
			ok = v.FindNext()
		case "prev":
			ok = v.FindPrev()
		default:
			writeError(w, "dir must be next or prev", http.StatusBadRequest)
			return
		}

		resp := map[string]any{
			"found":  ok,
			"status": currentStatus(v),
		}
		if page, offset, active := v.ScrollTarget(viewportHeight(r)); active {
			resp["scroll"] = map[string]any{"page": page, "offset": offset}
		}
		writeJSON(w, resp)
	}
}

func viewportHeight(r *http.Request) float64 {
	if h, err := strconv.ParseFloat(r.URL.Query().Get("viewport"), 64); err == nil && h > 0 {
		return h
	}
	return 800
}

// GotoResult jumps to a (page, rect) pair from the results list. The rect
// index is clamped by the session; an unknown page fails.
func GotoResult(v *viewer.Viewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err1 := strconv.Atoi(r.URL.Query().Get("page"))
		rect, err2 := strconv.Atoi(r.URL.Query().Get("rect"))
		if err1 != nil || err2 != nil {
			writeError(w, "page and rect must be integers", http.StatusBadRequest)
			return
		}

		ok := v.GotoResult(page, rect)
		writeJSON(w, map[string]any{
			"found":  ok,
			"status": currentStatus(v),
		})
	}
}

// Rotate steps the view a quarter turn. dir is "cw" or "ccw".
func Rotate(v *viewer.Viewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("dir") {
		case "cw":
			v.RotateCW()
		case "ccw":
			v.RotateCCW()
		default:
			writeError(w, "dir must be cw or ccw", http.StatusBadRequest)
			return
		}
		writeJSON(w, map[string]any{"degrees": v.RotationDegrees()})
	}
}

// Zoom adjusts the zoom: action is in, out, fit or 100.
func Zoom(v *viewer.Viewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch q.Get("action") {
		case "in":
			v.ZoomBy(1.1)
		case "out":
			v.ZoomBy(1 / 1.1)
		case "fit":
			viewW, _ := strconv.ParseFloat(q.Get("width"), 64)
			viewH, _ := strconv.ParseFloat(q.Get("height"), 64)
			v.ZoomFitPage(viewW, viewH)
		case "100":
			v.Zoom100()
		default:
			writeError(w, "action must be in, out, fit or 100", http.StatusBadRequest)
			return
		}
		writeJSON(w, map[string]any{"zoom": v.ZoomPercent()})
	}
}

// Highlights returns the active highlight rectangles for a page, already
// mapped into the displayed (zoomed, rotated) raster space, together with
// the display dimensions so the client can size its overlay.
func Highlights(v *viewer.Viewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := strconv.Atoi(r.PathValue("page_num"))
		if err != nil {
			writeError(w, "invalid page number", http.StatusBadRequest)
			return
		}

		dispW, dispH := v.DisplaySize(page)
		rects := v.DisplayHighlights(page)
		if rects == nil {
			rects = []geom.Rect{}
		}

		writeJSON(w, map[string]any{
			"page":     page,
			"width":    dispW,
			"height":   dispH,
			"rotation": v.RotationDegrees(),
			"rects":    rects,
		})
	}
}

// PageImage rasters one page at the current zoom and serves it as PNG. The
// raster is unrotated; the client applies the same quarter-turn the
// highlight rects were mapped with, so the two cannot drift apart.
func PageImage(v *viewer.Viewer, doc *pdf.Document, pagesDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pageNum, err := strconv.Atoi(r.PathValue("page_num"))
		if err != nil {
			writeError(w, "invalid page number", http.StatusBadRequest)
			return
		}

		page := doc.GetPage(pageNum)
		if page == nil {
			writeError(w, "page number out of range", http.StatusNotFound)
			return
		}
		defer page.Close()

		tempfile, err := os.CreateTemp(pagesDir, "page-*.png")
		if err != nil {
			http.Error(w, "Unable to create temp file", http.StatusInternalServerError)
			return
		}
		tempfile.Close()

		if !page.RenderPNG(tempfile.Name(), v.Scale()) {
			http.Error(w, "Unable to render page", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		http.ServeFile(w, r, filepath.Clean(tempfile.Name()))
	}
}

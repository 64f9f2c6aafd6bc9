package routes

import (
	"context"
	"embed"
	"html/template"
	"net/http"

	"github.com/abiiranathan/pdfview/database"
	"github.com/abiiranathan/pdfview/pdf"
	"github.com/abiiranathan/pdfview/viewer"
)

func SetupRoutes(mux *http.ServeMux, staticFs embed.FS, pagesDir string,
	tmpl *template.Template, v *viewer.Viewer, doc *pdf.Document) {
	// Home path
	mux.HandleFunc("GET /{$}", Home(tmpl, v))

	// Search and navigation
	mux.HandleFunc("GET /search", Search(v))
	mux.HandleFunc("GET /nav", Navigate(v))
	mux.HandleFunc("GET /goto", GotoResult(v))

	// View state
	mux.HandleFunc("GET /rotate", Rotate(v))
	mux.HandleFunc("GET /zoom", Zoom(v))

	// Page raster and its highlight overlay
	mux.HandleFunc("GET /pages/{page_num}", PageImage(v, doc, pagesDir))
	mux.HandleFunc("GET /highlights/{page_num}", Highlights(v))

	// Recently opened documents
	mux.HandleFunc("GET /recent", func(w http.ResponseWriter, r *http.Request) {
		recents, err := database.ListRecent(context.Background())
		if err != nil {
			writeError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, recents)
	})

	// Serve css and JS
	mux.Handle("/static/", http.FileServerFS(staticFs))
}

// Package pdf is the document collaborator: a thin poppler-glib binding that
// exposes page count, page sizes, the per-page text layer with character
// geometry, and page rasterization. It owns no search semantics.
package pdf

/*
#cgo pkg-config: glib-2.0 gio-2.0 cairo poppler-glib
#cgo LDFLAGS: -pthread

#include <cairo/cairo.h>
#include <locale.h>
#include <poppler/glib/poppler.h>
#include <stdio.h>
#include <stdbool.h>

static pthread_mutex_t cairo_mutex = PTHREAD_MUTEX_INITIALIZER;

PopplerDocument *open_document(const char *filename, int *num_pages){
	GFile* file = g_file_new_for_path(filename);
	if(file == NULL){
		return NULL;
	}

	GError* error = NULL;
	GBytes* bytes = g_file_load_bytes(file, NULL, NULL, &error);
	g_object_unref(file);

	if (error != NULL) {
		g_print("Error loading PDF file: %s\n", error->message);
		g_clear_error(&error);
		return NULL;
	}

	PopplerDocument *doc = poppler_document_new_from_bytes(bytes, NULL, &error);
	if (error) {
		g_print("Error creating PDF document: %s\n", error->message);
		g_clear_error(&error);
		g_bytes_unref(bytes);
		return NULL;
	}

	*num_pages = poppler_document_get_n_pages(doc);
	g_bytes_unref(bytes);
	return doc;
}

// Fetch the per-character layout rectangles for a page. The returned array is
// parallel to the characters of poppler_page_get_text and must be freed with
// g_free by the caller.
bool page_text_layout(PopplerPage *page, PopplerRectangle **rects, guint *n_rects){
	return poppler_page_get_text_layout(page, rects, n_rects);
}

// Render a page into a PNG at the given pixel dimensions.
bool render_page_to_png(PopplerPage *page, double page_w, double page_h,
	int pixel_width, int pixel_height, const char* output_file) {

	// Cairo surfaces are not thread safe across contexts.
	pthread_mutex_lock(&cairo_mutex);

	cairo_surface_t* surface =
		cairo_image_surface_create(CAIRO_FORMAT_ARGB32, pixel_width, pixel_height);
	if (surface == NULL) {
		pthread_mutex_unlock(&cairo_mutex);
		puts("Unable to create cairo surface");
		return false;
	}

	cairo_t* cr = cairo_create(surface);
	if (cr == NULL) {
		cairo_surface_destroy(surface);
		pthread_mutex_unlock(&cairo_mutex);
		puts("Error: could not create cairo context");
		return false;
	}

	cairo_set_source_rgb(cr, 1.0, 1.0, 1.0);
	cairo_paint(cr);

	cairo_scale(cr, pixel_width / page_w, pixel_height / page_h);
	poppler_page_render(page, cr);

	pthread_mutex_unlock(&cairo_mutex);

	cairo_status_t status = cairo_surface_write_to_png(surface, output_file);

	cairo_destroy(cr);
	cairo_surface_destroy(surface);
	return status == CAIRO_STATUS_SUCCESS;
}
*/
import "C"
import (
	"fmt"
	"hash/fnv"
	"strings"
	"unsafe"

	"github.com/abiiranathan/pdfview/geom"
)

type Document struct {
	doc      *C.PopplerDocument
	Path     string
	NumPages int
}

func SetLocale() {
	// Set locale to UTF-8
	C.setlocale(C.LC_ALL, C.CString(""))
}

func Open(path string) (*Document, error) {
	var c_path *C.char = C.CString(path)
	defer C.free(unsafe.Pointer(c_path))

	var num_pages C.int
	doc := C.open_document(c_path, &num_pages)
	if doc == nil {
		return nil, fmt.Errorf("unable to open document: %s", path)
	}

	return &Document{
		doc:      doc,
		NumPages: int(num_pages),
		Path:     path,
	}, nil
}

func (pdf *Document) Close() {
	if pdf.doc != nil {
		C.g_object_unref(C.gpointer(pdf.doc))
		pdf.doc = nil
	}
}

// PageCount satisfies the index.Source contract.
func (pdf *Document) PageCount() int {
	return pdf.NumPages
}

// PageSize returns the page dimensions in PDF points, or zeros out of range.
func (pdf *Document) PageSize(page int) (w, h float64) {
	p := pdf.GetPage(page)
	if p == nil {
		return 0, 0
	}
	defer p.Close()
	return p.Width, p.Height
}

// PageText returns the full text layer of a page, one rune per layout
// character. Empty out of range or for pages with no text layer.
func (pdf *Document) PageText(page int) string {
	p := pdf.GetPage(page)
	if p == nil {
		return ""
	}
	defer p.Close()
	return p.Text()
}

// PageLayout returns per-character bounding boxes parallel to PageText.
// Absent boxes are the zero Rect; callers tolerate gaps.
func (pdf *Document) PageLayout(page int) []geom.Rect {
	p := pdf.GetPage(page)
	if p == nil {
		return nil
	}
	defer p.Close()
	return p.TextLayout()
}

type Page struct {
	page *C.PopplerPage

	doc     *Document
	PageNum int

	Width  float64
	Height float64
}

func (pdf *Document) GetPage(page int) *Page {
	if pdf.doc == nil || page < 0 || page >= pdf.NumPages {
		return nil
	}

	p_page := &Page{
		doc:     pdf,
		page:    C.poppler_document_get_page(pdf.doc, C.int(page)),
		PageNum: page,
	}

	var width, height C.double
	C.poppler_page_get_size(p_page.page, &width, &height)
	p_page.Width = float64(width)
	p_page.Height = float64(height)

	return p_page
}

func (page *Page) Close() {
	if page.page != nil {
		C.g_object_unref(C.gpointer(page.page))
		page.page = nil
	}
}

// Get the text content of the page.
func (page *Page) Text() string {
	g_text := C.poppler_page_get_text(page.page)
	if g_text == nil {
		return ""
	}
	defer C.g_free(C.gpointer(g_text))

	return C.GoString((*C.char)(g_text))
}

// TextLayout returns one bounding box per character of Text, converted from
// poppler's top-left-origin page coordinates to the bottom-left-origin page
// space the core stores. Characters without drawable geometry (some control
// characters) come back as the zero Rect.
func (page *Page) TextLayout() []geom.Rect {
	var c_rects *C.PopplerRectangle
	var n C.guint

	ok := C.page_text_layout(page.page, &c_rects, &n)
	if !bool(ok) || n == 0 {
		return nil
	}
	defer C.g_free(C.gpointer(c_rects))

	rects := unsafe.Slice(c_rects, int(n))
	boxes := make([]geom.Rect, int(n))
	for i, r := range rects {
		// y1 is the upper edge in poppler's convention; flip to y-up.
		box, valid := geom.NormalizeBox(
			float64(r.x1),
			page.Height-float64(r.y2),
			float64(r.x2),
			page.Height-float64(r.y1),
		)
		if valid {
			boxes[i] = box
		}
	}
	return boxes
}

// RenderPNG rasters the page into a PNG file at scale raster pixels per point.
func (page *Page) RenderPNG(output string, scale float64) bool {
	c_output := C.CString(output)
	defer C.free(unsafe.Pointer(c_output))

	pixelW := int(page.Width * scale)
	pixelH := int(page.Height * scale)
	if pixelW < 1 || pixelH < 1 {
		return false
	}

	cbool := C.render_page_to_png(page.page,
		C.double(page.Width), C.double(page.Height),
		C.int(pixelW), C.int(pixelH), c_output)
	return bool(cbool)
}

// PathHash generates a stable FNV-1 hash for a document path, used as the
// document key in the page-text cache store.
func PathHash(path string) uint32 {
	h := fnv.New32()
	h.Write([]byte(path))
	return h.Sum32()
}

// CleanName strips directory and extension from a document path for display.
func CleanName(path string) string {
	base := path
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	return base
}

// Package index extracts and caches the per-page text layer of a document:
// the full text as rune offsets plus one bounding box per character offset.
// Extraction is idempotent and zoom/rotation independent, so a page is
// extracted at most once per cache lifetime.
package index

import (
	"context"
	"sync"

	"github.com/abiiranathan/pdfview/geom"
	"golang.org/x/sync/errgroup"
)

// Source is the document collaborator the index extracts from. pdf.Document
// satisfies it; tests use in-memory fakes.
type Source interface {
	PageCount() int
	PageSize(page int) (w, h float64)
	PageText(page int) string
	PageLayout(page int) []geom.Rect
}

// PageIndex is the extracted text layer of one page. Immutable once built.
type PageIndex struct {
	Text  []rune
	boxes []geom.Rect
}

// Len returns the number of character offsets on the page.
func (p *PageIndex) Len() int {
	return len(p.Text)
}

// CharBox returns the bounding box for a character offset in page space.
// The second return is false when the text layer has no drawable geometry
// for that offset; callers must tolerate such gaps.
func (p *PageIndex) CharBox(offset int) (geom.Rect, bool) {
	if offset < 0 || offset >= len(p.boxes) {
		return geom.Rect{}, false
	}
	box := p.boxes[offset]
	if box.IsZero() {
		return geom.Rect{}, false
	}
	return box, true
}

// Cache memoizes page extraction for the lifetime of a search session.
type Cache struct {
	src Source

	mu    sync.Mutex
	pages map[int]*PageIndex
}

func NewCache(src Source) *Cache {
	return &Cache{
		src:   src,
		pages: make(map[int]*PageIndex),
	}
}

// Source returns the underlying document collaborator.
func (c *Cache) Source() Source {
	return c.src
}

// PageCount proxies the collaborator's page count.
func (c *Cache) PageCount() int {
	return c.src.PageCount()
}

// Page returns the extracted index for a page, extracting on first use.
// An empty page yields an index with zero text and zero boxes, not an error.
func (c *Cache) Page(page int) *PageIndex {
	c.mu.Lock()
	if pg, ok := c.pages[page]; ok {
		c.mu.Unlock()
		return pg
	}
	c.mu.Unlock()

	pg := extract(c.src, page)

	c.mu.Lock()
	c.pages[page] = pg
	c.mu.Unlock()
	return pg
}

// Put seeds the cache with a pre-extracted page, e.g. from a serialized
// cache file. Extraction output only; it never carries search state.
func (c *Cache) Put(page int, text string, boxes []geom.Rect) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages[page] = &PageIndex{Text: []rune(text), boxes: boxes}
}

// Snapshot copies out the cached pages for serialization.
func (c *Cache) Snapshot() map[int]SerializedPage {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[int]SerializedPage, len(c.pages))
	for num, pg := range c.pages {
		out[num] = SerializedPage{Text: string(pg.Text), Boxes: pg.boxes}
	}
	return out
}

// Invalidate drops all cached pages, e.g. after a document reload.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages = make(map[int]*PageIndex)
}

// Warm extracts every page of the document in parallel, bounded by
// maxConcurrency workers. Useful before a first search on large documents.
func (c *Cache) Warm(ctx context.Context, maxConcurrency int) error {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}

	semaphore := make(chan struct{}, maxConcurrency)
	defer close(semaphore)

	g, ctx := errgroup.WithContext(ctx)
	for page := 0; page < c.src.PageCount(); page++ {
		page := page

		// Acquire a slot from the semaphore
		semaphore <- struct{}{}

		g.Go(func() error {
			defer func() {
				<-semaphore
			}()

			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			c.Page(page)
			return nil
		})
	}
	return g.Wait()
}

func extract(src Source, page int) *PageIndex {
	text := []rune(src.PageText(page))
	boxes := src.PageLayout(page)

	// The layout is expected to be parallel to the text; pad or clip so the
	// index never exposes offsets past the shorter of the two.
	if len(boxes) < len(text) {
		padded := make([]geom.Rect, len(text))
		copy(padded, boxes)
		boxes = padded
	} else if len(boxes) > len(text) {
		boxes = boxes[:len(text)]
	}

	return &PageIndex{Text: text, boxes: boxes}
}

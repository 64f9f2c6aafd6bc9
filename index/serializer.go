package index

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/abiiranathan/pdfview/geom"
)

// SerializedPage is the on-disk form of one extracted page.
type SerializedPage struct {
	Text  string
	Boxes []geom.Rect
}

// DocumentCache is the on-disk form of a fully extracted document. Only
// extraction output is stored; search state is never persisted.
type DocumentCache struct {
	Path     string
	PathHash uint32
	NumPages int
	Pages    map[int]SerializedPage
}

// Serialize writes the cache contents for a document to the given file.
// Uses gob encoding.
func Serialize(out string, c *Cache, path string, pathHash uint32) error {
	dc := DocumentCache{
		Path:     path,
		PathHash: pathHash,
		NumPages: c.PageCount(),
		Pages:    c.Snapshot(),
	}

	w, err := os.Create(out)
	if err != nil {
		return err
	}
	defer w.Close()

	enc := gob.NewEncoder(w)
	if err := enc.Encode(dc); err != nil {
		return fmt.Errorf("error encoding cache: %v", err)
	}
	return nil
}

// Deserialize reads a cache file and seeds the cache with its pages, provided
// it belongs to the same document. Returns the number of pages loaded.
func Deserialize(in string, c *Cache, pathHash uint32) (int, error) {
	r, err := os.Open(in)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	dec := gob.NewDecoder(r)
	var dc DocumentCache
	if err := dec.Decode(&dc); err != nil {
		return 0, fmt.Errorf("error decoding cache: %v", err)
	}

	if dc.PathHash != pathHash {
		return 0, fmt.Errorf("cache file %s belongs to a different document", in)
	}

	for num, pg := range dc.Pages {
		c.Put(num, pg.Text, pg.Boxes)
	}
	return len(dc.Pages), nil
}

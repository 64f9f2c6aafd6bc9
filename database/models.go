package database

// A document whose extracted page text has been cached.
type Document struct {
	ID       int    // FNV-1 hash of the absolute path.
	Name     string // Display name.
	Path     string // Absolute path on disk.
	NumPages int
}

// A page of cached text. Related to a Document by DocID.
type Page struct {
	DocID   int
	PageNum int    // 0-indexed page number.
	Text    string // Full text of the page.
}

// PageMatch is one FTS result row: a page containing the pattern, with a
// highlighted snippet.
type PageMatch struct {
	DocID   int
	PageNum int
	Snippet string
}

// RecentFile is one entry in the recently-opened list, most recent first.
type RecentFile struct {
	Path     string
	OpenedAt string
}

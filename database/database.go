// Package database persists extraction output and the recent-files list in
// sqlite3. Cached page text lets a large document reopen without a full
// poppler extraction pass, and the FTS5 table gives the CLI a fast
// page-level lookup. Search session state is never stored here.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/mattn/go-sqlite3"
)

var db *sql.DB

// RecentLimit caps the recently-opened list.
const RecentLimit = 10

// Connect to sqlite3 database.
func Connect(dbname string) *sql.DB {
	var err error
	db, err = sql.Open("sqlite3", dbname)
	if err != nil {
		log.Fatalf("unable to connect to database: %v\n", err)
	}

	// ping the database to ensure we are connected.
	err = db.Ping()
	if err != nil {
		log.Fatalf("unable to ping database: %v\n", err)
	}

	// Enable foreign key constraints and WAL mode.
	_, err = db.Exec(`PRAGMA foreign_keys = ON ; PRAGMA journal_mode = WAL`)
	if err != nil {
		log.Fatalf("unable to set pragma: %v\n", err)
	}

	return db
}

func CreateTables() error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS documents(
		id INTEGER NOT NULL PRIMARY KEY,
		name TEXT NOT NULL,
		path TEXT NOT NULL UNIQUE,
		num_pages INTEGER NOT NULL DEFAULT 0
	)
	`)
	if err != nil {
		return err
	}

	// Virtual table with the sqlite3 FTS5 extension for page-level lookup.
	// Virtual tables do not support primary keys.
	// tokenize='porter unicode61 remove_diacritics 2' uses the porter
	// stemmer, unicode61 tokenization, and strips diacritics.
	_, err = db.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS pages USING fts5(
			doc_id UNINDEXED,
			page_num UNINDEXED,
			text,
			tokenize='porter unicode61 remove_diacritics 2'
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
	CREATE TABLE IF NOT EXISTS recent_files(
		path TEXT NOT NULL PRIMARY KEY,
		opened_at TEXT NOT NULL DEFAULT (datetime('now'))
	)
	`)
	return err
}

// InsertDocument registers a document, replacing a prior row for the same path.
func InsertDocument(ctx context.Context, doc Document) error {
	query := `INSERT INTO documents (id, name, path, num_pages) VALUES ($1, $2, $3, $4)
			  ON CONFLICT(path) DO UPDATE SET num_pages = excluded.num_pages`
	_, err := db.ExecContext(ctx, query, doc.ID, doc.Name, doc.Path, doc.NumPages)
	if err != nil {
		if sqliteErr, ok := err.(sqlite3.Error); ok {
			if sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
				log.Printf("document %s already exists in the database\n", doc.Path)
				return nil
			}
		}
		return fmt.Errorf("error inserting document %s: %w", doc.Path, err)
	}
	return nil
}

func GetDocument(ctx context.Context, docID int) (doc Document, err error) {
	query := `SELECT id, name, path, num_pages FROM documents WHERE id=$1 LIMIT 1`

	row := db.QueryRowContext(ctx, query, docID)
	err = row.Scan(&doc.ID, &doc.Name, &doc.Path, &doc.NumPages)
	return
}

// InsertPages stores cached page text in batches. Prior pages for the same
// document are dropped first so the cache never holds stale text.
func InsertPages(ctx context.Context, docID int, pages []Page) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM pages WHERE doc_id = $1`, docID); err != nil {
		return err
	}

	numPages := len(pages)
	if numPages == 0 {
		return tx.Commit()
	}

	// Split pages into batches to stay under the
	// SQLITE_MAX_VARIABLE_NUMBER limit of 999.
	batchSize := 300
	for i := 0; i < numPages; i += batchSize {
		end := i + batchSize
		if end > numPages {
			end = numPages
		}

		batch := pages[i:end]
		placeholders, args := pageValueTuple(batch)
		query := fmt.Sprintf("INSERT INTO pages (doc_id, page_num, text) VALUES %s", placeholders)
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return err
		}
		defer stmt.Close()

		_, err = stmt.ExecContext(ctx, args...)
		if err != nil {
			return err
		}
	}

	err = tx.Commit()
	if err != nil {
		return err
	}

	log.Printf("Cached %d pages in the database\n", numPages)
	return nil
}

// GetPages loads the cached text for a document, ordered by page number.
func GetPages(ctx context.Context, docID int) ([]Page, error) {
	query := `SELECT doc_id, page_num, text FROM pages WHERE doc_id=$1 ORDER BY page_num`

	pages := []Page{}
	rows, err := db.QueryContext(ctx, query, docID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var page Page
		if err := rows.Scan(&page.DocID, &page.PageNum, &page.Text); err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, rows.Err()
}

// SearchPages is the FTS lookup: pages of a document matching the pattern,
// best rank first.
func SearchPages(ctx context.Context, docID int, pattern string) ([]PageMatch, error) {
	query := `SELECT doc_id, page_num, snippet(pages, 2, '<b>', '</b>', '...', 16) snip
		FROM pages WHERE pages MATCH $1 AND doc_id = $2 ORDER BY rank LIMIT 200`

	matches := []PageMatch{}
	rows, err := db.QueryContext(ctx, query, pattern, docID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var m PageMatch
		if err := rows.Scan(&m.DocID, &m.PageNum, &m.Snippet); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// PushRecent records a newly-opened path at the head of the recent list,
// de-duplicating and trimming to RecentLimit.
func PushRecent(ctx context.Context, path string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO recent_files (path, opened_at) VALUES ($1, datetime('now'))
		ON CONFLICT(path) DO UPDATE SET opened_at = datetime('now')`, path)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM recent_files WHERE path NOT IN (
		SELECT path FROM recent_files ORDER BY opened_at DESC LIMIT $1)`, RecentLimit)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// ListRecent returns recently opened paths, most recent first.
func ListRecent(ctx context.Context) ([]RecentFile, error) {
	query := `SELECT path, opened_at FROM recent_files ORDER BY opened_at DESC LIMIT $1`

	recents := []RecentFile{}
	rows, err := db.QueryContext(ctx, query, RecentLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var r RecentFile
		if err := rows.Scan(&r.Path, &r.OpenedAt); err != nil {
			return nil, err
		}
		recents = append(recents, r)
	}
	return recents, rows.Err()
}

// LastRecent returns the most recently opened path, or false if none.
func LastRecent(ctx context.Context) (string, bool) {
	row := db.QueryRowContext(ctx,
		`SELECT path FROM recent_files ORDER BY opened_at DESC LIMIT 1`)

	var path string
	if err := row.Scan(&path); err != nil {
		return "", false
	}
	return path, true
}

func pageValueTuple(pages []Page) (string, []interface{}) {
	query := ""
	var args []interface{}
	for _, page := range pages {
		// Use placeholders for values
		query += "(?, ?, ?),"
		args = append(args, page.DocID, page.PageNum, page.Text)
	}
	// Remove trailing comma
	query = strings.TrimSuffix(query, ",")
	return query, args
}

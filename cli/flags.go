package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/abiiranathan/goflag"
	"github.com/abiiranathan/pdfview/database"
	"github.com/abiiranathan/pdfview/index"
	"github.com/abiiranathan/pdfview/pdf"
	"github.com/abiiranathan/pdfview/search"
	"github.com/abiiranathan/pdfview/viewer"
)

// SetupDatabase connects to the sqlite store, creating it under the user's
// home directory when no path is configured.
func SetupDatabase(config *Config) {
	if config.Database == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("os.UserHomeDir() failed: %v\n", err)
		}

		dir := filepath.Join(home, ".pdfview")
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			log.Fatalln(err)
		}
		config.Database = filepath.Join(dir, "pdfview.db")
	}

	database.Connect(config.Database)
	if err := database.CreateTables(); err != nil {
		log.Fatalf("unable to create tables: %v\n", err)
	}
}

// documentPath resolves the configured document to an absolute path, falling
// back to the most recently opened one when none was given.
func documentPath(config *Config) (string, error) {
	if config.Document == "" {
		last, ok := database.LastRecent(context.Background())
		if !ok {
			return "", fmt.Errorf("no document given and no recent files")
		}
		log.Printf("reopening last document %s\n", last)
		config.Document = last
	}
	return filepath.Abs(config.Document)
}

func granularity(config *Config) search.Granularity {
	if config.Granularity == "line" {
		return search.GranularityLine
	}
	return search.GranularityOccurrence
}

// OpenViewer opens the configured document and wires a viewer around it,
// seeding the page cache from a cache file when one is supplied, and
// recording the path in the recent-files list. With no document configured
// it falls back to the most recently opened one.
func OpenViewer(config *Config) (*viewer.Viewer, *pdf.Document, error) {
	path, err := documentPath(config)
	if err != nil {
		return nil, nil, err
	}

	doc, err := pdf.Open(path)
	if err != nil {
		return nil, nil, err
	}

	v := viewer.New()
	v.LoadSource(doc, path)
	v.Session().SetGranularity(granularity(config))
	v.Session().SetWrap(config.Wrap)

	if config.CacheFile != "" {
		n, err := index.Deserialize(config.CacheFile, v.Cache(), pdf.PathHash(path))
		if err != nil {
			log.Printf("ignoring cache %s: %v\n", config.CacheFile, err)
		} else {
			log.Printf("loaded %d cached pages from %s\n", n, config.CacheFile)
		}
	}

	if err := database.PushRecent(context.Background(), path); err != nil {
		log.Printf("unable to record recent file: %v\n", err)
	}
	return v, doc, nil
}

func printResults(v *viewer.Viewer) {
	for _, r := range v.ListResults() {
		fmt.Println(r.Snippet)
	}

	if st, ok := v.Status(); ok {
		fmt.Printf("%d/%d (page %d)\n", st.Current, st.Total, st.Page)
	}
}

func DefineFlags(config *Config, runserver func()) *goflag.Context {
	fileFlag := goflag.Flag{
		FlagType:  goflag.FlagFilePath,
		Name:      "file",
		ShortName: "f",
		Value:     &config.Document,
		Usage:     "The PDF document (defaults to the last opened one)",
		Required:  false,
		Validator: nil,
	}

	patternFlag := goflag.Flag{
		FlagType:  goflag.FlagString,
		Name:      "pattern",
		ShortName: "p",
		Value:     &config.Pattern,
		Usage:     "The exact text to search for",
		Required:  true,
		Validator: nil,
	}

	cacheFlag := goflag.Flag{
		FlagType:  goflag.FlagString,
		Name:      "cache",
		ShortName: "i",
		Value:     &config.CacheFile,
		Usage:     "Path to a binary page cache",
		Required:  false,
		Validator: nil,
	}

	granularityFlag := goflag.Flag{
		FlagType:  goflag.FlagString,
		Name:      "granularity",
		ShortName: "g",
		Value:     &config.Granularity,
		Usage:     "Highlight granularity: occurrence or line",
		Required:  false,
		Validator: nil,
	}

	// Create flag context.
	ctx := goflag.NewContext()

	// global flags
	ctx.AddFlag(goflag.FlagInt, "concurrency", "c",
		&config.MaxConcurrency,
		"No of pages to extract concurrently when warming the cache",
		false, goflag.Min(1), goflag.Max(100))

	ctx.AddFlag(goflag.FlagString, "database", "D",
		&config.Database, "Path to the sqlite database", false)

	ctx.AddFlag(goflag.FlagBool, "wrap", "w", &config.Wrap,
		"Wrap navigation around the ends of the hit list", false)

	// register subcommands
	ctx.AddSubCommand("view", "Serve a document for viewing and searching", runserver).
		AddFlagPtr(&fileFlag).
		AddFlagPtr(&cacheFlag).
		AddFlagPtr(&granularityFlag).
		AddFlag(goflag.FlagInt, "port", "P", &config.Port, "The port to run the server on", false)

	ctx.AddSubCommand("search", "Search a document and print matching snippets", func() {
		v, doc, err := OpenViewer(config)
		if err != nil {
			log.Fatalln(err)
		}
		defer doc.Close()

		v.Search(config.Pattern)
		if !v.FindNext() {
			fmt.Println("No matches")
			return
		}
		printResults(v)
	}).AddFlagPtr(&fileFlag).
		AddFlagPtr(&patternFlag).
		AddFlagPtr(&cacheFlag).
		AddFlagPtr(&granularityFlag)

	ctx.AddSubCommand("build_cache", "Extract and cache all page text for a document", func() {
		v, doc, err := OpenViewer(config)
		if err != nil {
			log.Fatalln(err)
		}
		defer doc.Close()

		err = v.Cache().Warm(context.Background(), config.MaxConcurrency)
		if err != nil {
			log.Fatalf("unable to extract pages: %v\n", err)
		}

		docID := int(pdf.PathHash(v.Path()))
		pages := make([]database.Page, 0, doc.NumPages)
		for num, pg := range v.Cache().Snapshot() {
			pages = append(pages, database.Page{DocID: docID, PageNum: num, Text: pg.Text})
		}

		err = database.InsertDocument(context.Background(), database.Document{
			ID:       docID,
			Name:     filepath.Base(v.Path()),
			Path:     v.Path(),
			NumPages: doc.NumPages,
		})
		if err != nil {
			log.Fatalln(err)
		}
		if err := database.InsertPages(context.Background(), docID, pages); err != nil {
			log.Fatalln(err)
		}

		if config.CacheFile != "" {
			err := index.Serialize(config.CacheFile, v.Cache(), v.Path(), pdf.PathHash(v.Path()))
			if err != nil {
				log.Fatalln(err)
			}
			log.Printf("Wrote page cache to %s\n", config.CacheFile)
		}
	}).AddFlagPtr(&fileFlag).AddFlagPtr(&cacheFlag)

	ctx.AddSubCommand("lookup", "Find pages of a cached document via the full-text index", func() {
		path, err := documentPath(config)
		if err != nil {
			log.Fatalln(err)
		}

		docID := int(pdf.PathHash(path))
		doc, err := database.GetDocument(context.Background(), docID)
		if err != nil {
			log.Fatalf("%s is not cached. Run the `build_cache` command first\n", path)
		}

		matches, err := database.SearchPages(context.Background(), docID, config.Pattern)
		if err != nil {
			log.Fatalln(err)
		}
		for _, m := range matches {
			fmt.Printf("%s p%d: %s\n", doc.Name, m.PageNum+1, m.Snippet)
		}
	}).AddFlagPtr(&fileFlag).AddFlagPtr(&patternFlag)

	ctx.AddSubCommand("dump", "Print the cached text of a document", func() {
		path, err := documentPath(config)
		if err != nil {
			log.Fatalln(err)
		}

		pages, err := database.GetPages(context.Background(), int(pdf.PathHash(path)))
		if err != nil {
			log.Fatalln(err)
		}
		for _, pg := range pages {
			fmt.Printf("--- page %d ---\n%s\n", pg.PageNum+1, pg.Text)
		}
	}).AddFlagPtr(&fileFlag)

	ctx.AddSubCommand("recent", "List recently opened documents", func() {
		recents, err := database.ListRecent(context.Background())
		if err != nil {
			log.Fatalln(err)
		}
		for _, r := range recents {
			fmt.Printf("%s\t%s\n", r.OpenedAt, r.Path)
		}
	})

	return ctx
}

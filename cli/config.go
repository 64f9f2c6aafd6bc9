package cli

// Config holds the configuration for the CLI.
type Config struct {
	// Max pages extracted at a time when warming the cache.
	// Large values will increase CPU and memory usage.
	// Default is 10.
	MaxConcurrency int

	// The PDF document to view or search.
	Document string

	// The search query (exact, case-sensitive substring).
	Pattern string

	// Optional binary page cache written by build_cache.
	CacheFile string

	// Path to the sqlite database for cached text and recent files.
	Database string

	// Highlight granularity: "occurrence" or "line".
	Granularity string

	// Wrap navigation around the hit list edges instead of stopping.
	Wrap bool

	// server port. default is 8080
	Port int
}

var DefaultConfig = Config{
	MaxConcurrency: 10,
	Granularity:    "occurrence",
	Port:           8080,
}

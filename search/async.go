package search

import (
	"context"
	"sync"

	"github.com/abiiranathan/pdfview/index"
)

// AsyncScanner runs document scans in the background, keyed by a
// monotonically increasing generation token. A completed scan is delivered
// only while its token is still the latest, so a stale scan for a superseded
// query is ignored rather than interrupted mid-page. The synchronous
// Session.Search path remains the primary API; this exists for callers that
// cannot afford to block on a full-document rescan.
type AsyncScanner struct {
	cache   *index.Cache
	scanner Scanner

	mu     sync.Mutex
	cancel context.CancelFunc
	token  int
}

func NewAsyncScanner(cache *index.Cache, scanner Scanner) *AsyncScanner {
	return &AsyncScanner{cache: cache, scanner: scanner}
}

// Scan starts a background scan for query, canceling any scan in flight.
// apply runs on the scanning goroutine with the completed hit list, only if
// no newer Scan has been requested meanwhile.
func (a *AsyncScanner) Scan(query string, apply func(query string, hits []Hit)) {
	a.cancelOngoing()

	ctx, cancel := context.WithCancel(context.Background())
	token := a.setCancel(cancel)

	go func() {
		defer a.clearCancel(token)
		defer cancel()

		hits, err := a.scanner.Scan(ctx, a.cache, query)
		if err != nil {
			return
		}

		if !a.isTokenCurrent(token) {
			return
		}

		select {
		case <-ctx.Done():
			return
		default:
		}

		apply(query, hits)
	}()
}

// Cancel aborts any scan in flight without starting a new one.
func (a *AsyncScanner) Cancel() {
	a.cancelOngoing()
}

func (a *AsyncScanner) cancelOngoing() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
		a.token++
	}
}

func (a *AsyncScanner) setCancel(cancel context.CancelFunc) int {
	a.mu.Lock()
	a.token++
	token := a.token
	a.cancel = cancel
	a.mu.Unlock()
	return token
}

func (a *AsyncScanner) clearCancel(token int) {
	a.mu.Lock()
	if a.token == token {
		a.cancel = nil
	}
	a.mu.Unlock()
}

func (a *AsyncScanner) isTokenCurrent(token int) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.token == token
}

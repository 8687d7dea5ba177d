package index

import (
	"context"
	"fmt"

	"github.com/qtinst/qtinst/internal/models"
)

// TextFetcher fetches a remote resource as text. Satisfied by fetch.Client.
type TextFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// Loader fetches and parses catalogs, memoizing them by URL for the duration
// of one resolution run. Not safe for concurrent use; resolution is
// single-threaded.
type Loader struct {
	fetcher TextFetcher
	cache   map[string]*loadResult
}

type loadResult struct {
	idx *models.Index
	err error
}

// NewLoader creates a catalog loader on top of the given fetcher.
func NewLoader(fetcher TextFetcher) *Loader {
	return &Loader{
		fetcher: fetcher,
		cache:   make(map[string]*loadResult),
	}
}

// Load fetches and parses the catalog at url+"/Updates.xml", returning the
// memoized result when the same location was already requested this run.
func (l *Loader) Load(ctx context.Context, url string) (*models.Index, error) {
	if r, ok := l.cache[url]; ok {
		return r.idx, r.err
	}

	idx, err := l.load(ctx, url)
	l.cache[url] = &loadResult{idx: idx, err: err}
	return idx, err
}

func (l *Loader) load(ctx context.Context, url string) (*models.Index, error) {
	body, err := l.fetcher.FetchText(ctx, url+"/Updates.xml")
	if err != nil {
		return nil, fmt.Errorf("fetching catalog %s: %w", url, err)
	}
	return Parse([]byte(body))
}

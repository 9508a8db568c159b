package browse

import (
	"context"
	"sync"

	"github.com/carmarket/listing-service/internal/listing/domain"
	"github.com/carmarket/listing-service/internal/platform/logger"
	"go.uber.org/zap"
)

// PageSize is the fixed batch size of the listing source.
const PageSize = 20

// Source is the paged read interface the feed accumulates from. Batches
// are approved listings ordered by creation time descending; the second
// return value is the server-side total count.
type Source interface {
	FetchPage(ctx context.Context, offset, limit int) ([]*domain.Listing, int64, error)
}

// SourceFunc adapts a plain function to the Source interface.
type SourceFunc func(ctx context.Context, offset, limit int) ([]*domain.Listing, int64, error)

func (f SourceFunc) FetchPage(ctx context.Context, offset, limit int) ([]*domain.Listing, int64, error) {
	return f(ctx, offset, limit)
}

// Feed accumulates batches of recent listings for infinite scrolling.
//
// Batches are append-only: batch N's records always precede batch N+1's.
// A refresh discards the accumulated state and starts over from page 0.
// Concurrent LoadMore calls collapse into one in-flight fetch; a fetch
// that resolves after a superseding refresh is discarded by comparing a
// monotonic generation counter.
type Feed struct {
	source Source
	logger *logger.Logger

	mu         sync.Mutex
	cond       *sync.Cond
	items      []*domain.Listing
	total      int64
	nextPage   int
	hasMore    bool
	loading    bool
	loaded     bool
	lastErr    error
	generation uint64
}

// NewFeed creates an empty feed over the given source.
func NewFeed(source Source, log *logger.Logger) *Feed {
	f := &Feed{
		source:  source,
		logger:  log.Named("Feed"),
		hasMore: true,
	}
	f.cond = sync.NewCond(&f.mu)
	return f
}

// LoadMore fetches the next batch and appends it to the accumulated
// collection. It is a no-op while a fetch is in flight or when the source
// is exhausted. A fetch error is recorded and the accumulated data is left
// untouched; the caller may retry by calling LoadMore again.
func (f *Feed) LoadMore(ctx context.Context) error {
	f.mu.Lock()
	if f.loading || (f.loaded && !f.hasMore) {
		f.mu.Unlock()
		return nil
	}
	page := f.nextPage
	gen := f.generation
	f.loading = true
	f.mu.Unlock()

	return f.fetch(ctx, page, gen)
}

// Refresh discards the accumulated state and refetches page 0. It
// supersedes any in-flight fetch: the stale result is disregarded once it
// resolves, it is not aborted.
func (f *Feed) Refresh(ctx context.Context) error {
	f.mu.Lock()
	f.generation++
	gen := f.generation
	f.items = nil
	f.total = 0
	f.nextPage = 0
	f.hasMore = true
	f.loaded = false
	f.lastErr = nil
	f.loading = true
	f.mu.Unlock()

	f.logger.Debug("refreshing feed", zap.Uint64("generation", gen))
	return f.fetch(ctx, 0, gen)
}

func (f *Feed) fetch(ctx context.Context, page int, gen uint64) error {
	batch, total, err := f.source.FetchPage(ctx, page*PageSize, PageSize)

	f.mu.Lock()
	defer f.mu.Unlock()

	if gen != f.generation {
		// A refresh superseded this fetch while it was in flight.
		f.logger.Debug("discarding stale batch",
			zap.Int("page", page),
			zap.Uint64("fetch_generation", gen),
			zap.Uint64("current_generation", f.generation))
		return nil
	}
	f.loading = false
	f.cond.Broadcast()

	if err != nil {
		f.lastErr = err
		f.logger.Warn("batch fetch failed", zap.Int("page", page), zap.Error(err))
		return err
	}

	f.lastErr = nil
	f.loaded = true
	f.items = append(f.items, batch...)
	f.total = total
	f.nextPage = page + 1
	f.hasMore = len(batch) == PageSize && int64((page+1)*PageSize) < total

	f.logger.Debug("batch appended",
		zap.Int("page", page),
		zap.Int("batch_size", len(batch)),
		zap.Int("accumulated", len(f.items)),
		zap.Int64("total", total),
		zap.Bool("has_more", f.hasMore))
	return nil
}

// EnsureLoaded keeps fetching batches until at least n listings are
// accumulated or the source is exhausted.
func (f *Feed) EnsureLoaded(ctx context.Context, n int) error {
	for {
		f.mu.Lock()
		for f.loading {
			f.cond.Wait()
		}
		enough := len(f.items) >= n || (f.loaded && !f.hasMore)
		f.mu.Unlock()
		if enough {
			return nil
		}
		if err := f.LoadMore(ctx); err != nil {
			return err
		}
	}
}

// Snapshot returns a copy of the accumulated listings and the
// server-reported total count.
func (f *Feed) Snapshot() ([]*domain.Listing, int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := make([]*domain.Listing, len(f.items))
	copy(items, f.items)
	return items, f.total
}

// Visible returns the accumulated listings that match the criteria,
// ordered by the sort mode.
func (f *Feed) Visible(criteria domain.Criteria, mode domain.SortMode) []*domain.Listing {
	items, _ := f.Snapshot()
	visible := make([]*domain.Listing, 0, len(items))
	for _, l := range items {
		if criteria.Matches(l) {
			visible = append(visible, l)
		}
	}
	domain.SortListings(visible, mode)
	return visible
}

// HasMore reports whether another batch can be fetched.
func (f *Feed) HasMore() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hasMore
}

// Loading reports whether a fetch is in flight.
func (f *Feed) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}

// Page returns the zero-based index of the last loaded page, or -1 before
// the first successful fetch.
func (f *Feed) Page() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.nextPage - 1
}

// Err returns the error recorded by the last failed fetch, if any. It is
// cleared by the next successful fetch and by Refresh.
func (f *Feed) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

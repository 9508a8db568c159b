package browse

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/carmarket/listing-service/internal/listing/domain"
	"github.com/carmarket/listing-service/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSource serves a fixed corpus page by page and counts calls. Calls
// listed in failOn return an error instead.
type stubSource struct {
	mu     sync.Mutex
	corpus []*domain.Listing
	calls  int
	failOn map[int]bool
}

func newStubSource(n int) *stubSource {
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	corpus := make([]*domain.Listing, n)
	for i := 0; i < n; i++ {
		corpus[i] = &domain.Listing{
			ID:        fmt.Sprintf("l%03d", i),
			Brand:     "Renault",
			Model:     "Clio",
			Year:      2020,
			Price:     float64(10000 + i*100),
			FuelType:  domain.FuelPetrol,
			Status:    domain.StatusApproved,
			CreatedAt: base.Add(-time.Duration(i) * time.Hour),
		}
	}
	return &stubSource{corpus: corpus, failOn: map[int]bool{}}
}

func (s *stubSource) FetchPage(ctx context.Context, offset, limit int) ([]*domain.Listing, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.failOn[s.calls] {
		return nil, 0, errors.New("source unavailable")
	}

	if offset >= len(s.corpus) {
		return nil, int64(len(s.corpus)), nil
	}
	end := offset + limit
	if end > len(s.corpus) {
		end = len(s.corpus)
	}
	batch := make([]*domain.Listing, end-offset)
	copy(batch, s.corpus[offset:end])
	return batch, int64(len(s.corpus)), nil
}

func (s *stubSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestFeedPaginationWalk(t *testing.T) {
	source := newStubSource(45)
	feed := NewFeed(source, logger.NewLogger())
	ctx := context.Background()

	require.NoError(t, feed.LoadMore(ctx))
	items, total := feed.Snapshot()
	assert.Len(t, items, 20)
	assert.EqualValues(t, 45, total)
	assert.True(t, feed.HasMore())
	assert.Equal(t, 0, feed.Page())

	require.NoError(t, feed.LoadMore(ctx))
	items, _ = feed.Snapshot()
	assert.Len(t, items, 40)
	assert.True(t, feed.HasMore())

	require.NoError(t, feed.LoadMore(ctx))
	items, _ = feed.Snapshot()
	assert.Len(t, items, 45)
	assert.False(t, feed.HasMore(), "short batch exhausts the source")

	// Further loads are no-ops once exhausted.
	calls := source.callCount()
	require.NoError(t, feed.LoadMore(ctx))
	assert.Equal(t, calls, source.callCount())
}

func TestFeedBatchOrderPreserved(t *testing.T) {
	source := newStubSource(45)
	feed := NewFeed(source, logger.NewLogger())
	ctx := context.Background()

	require.NoError(t, feed.LoadMore(ctx))
	require.NoError(t, feed.LoadMore(ctx))

	items, _ := feed.Snapshot()
	require.Len(t, items, 40)
	for i, l := range items {
		assert.Equal(t, fmt.Sprintf("l%03d", i), l.ID, "batch N records precede batch N+1 records")
	}
}

func TestFeedExactMultipleOfPageSize(t *testing.T) {
	source := newStubSource(40)
	feed := NewFeed(source, logger.NewLogger())
	ctx := context.Background()

	require.NoError(t, feed.LoadMore(ctx))
	assert.True(t, feed.HasMore())

	require.NoError(t, feed.LoadMore(ctx))
	items, _ := feed.Snapshot()
	assert.Len(t, items, 40)
	assert.False(t, feed.HasMore(), "a full batch reaching the total leaves nothing to load")
}

func TestFeedErrorKeepsAccumulatedData(t *testing.T) {
	source := newStubSource(45)
	source.failOn[2] = true
	feed := NewFeed(source, logger.NewLogger())
	ctx := context.Background()

	require.NoError(t, feed.LoadMore(ctx))
	err := feed.LoadMore(ctx)
	require.Error(t, err)
	assert.Error(t, feed.Err())

	items, _ := feed.Snapshot()
	assert.Len(t, items, 20, "a failed batch leaves prior data untouched")

	// The next attempt retries the same page.
	require.NoError(t, feed.LoadMore(ctx))
	items, _ = feed.Snapshot()
	assert.Len(t, items, 40)
	assert.NoError(t, feed.Err())
}

func TestFeedRefreshStartsOver(t *testing.T) {
	source := newStubSource(45)
	feed := NewFeed(source, logger.NewLogger())
	ctx := context.Background()

	require.NoError(t, feed.LoadMore(ctx))
	require.NoError(t, feed.LoadMore(ctx))

	require.NoError(t, feed.Refresh(ctx))
	items, total := feed.Snapshot()
	assert.Len(t, items, 20, "refresh discards accumulated pages and refetches page 0")
	assert.EqualValues(t, 45, total)
	assert.True(t, feed.HasMore())
	assert.Equal(t, 0, feed.Page())
}

func TestEnsureLoaded(t *testing.T) {
	source := newStubSource(45)
	feed := NewFeed(source, logger.NewLogger())
	ctx := context.Background()

	require.NoError(t, feed.EnsureLoaded(ctx, 35))
	items, _ := feed.Snapshot()
	assert.GreaterOrEqual(t, len(items), 35)

	// Asking beyond the corpus stops at exhaustion instead of spinning.
	require.NoError(t, feed.EnsureLoaded(ctx, 1000))
	items, _ = feed.Snapshot()
	assert.Len(t, items, 45)
}

// gatedSource blocks each fetch until released, to interleave an
// in-flight fetch with a refresh.
type gatedSource struct {
	inner   Source
	started chan struct{}
	release chan struct{}
}

func (s *gatedSource) FetchPage(ctx context.Context, offset, limit int) ([]*domain.Listing, int64, error) {
	s.started <- struct{}{}
	<-s.release
	return s.inner.FetchPage(ctx, offset, limit)
}

func TestRefreshSupersedesInFlightFetch(t *testing.T) {
	gated := &gatedSource{
		inner:   newStubSource(45),
		started: make(chan struct{}, 2),
		release: make(chan struct{}, 2),
	}
	feed := NewFeed(gated, logger.NewLogger())
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = feed.LoadMore(ctx)
	}()
	<-gated.started

	// The refresh bumps the generation before its own fetch starts, so
	// the first fetch's batch is stale no matter which resolves first.
	go func() {
		defer wg.Done()
		_ = feed.Refresh(ctx)
	}()
	<-gated.started

	gated.release <- struct{}{}
	gated.release <- struct{}{}
	wg.Wait()

	items, _ := feed.Snapshot()
	assert.Len(t, items, 20, "the superseded batch must not be appended twice")
	assert.Equal(t, 0, feed.Page())
}

func TestVisibleFiltersAndSorts(t *testing.T) {
	source := newStubSource(45)
	// Make a few listings diesel so a fuel filter has something to find.
	for i := 0; i < 5; i++ {
		source.corpus[i*7].FuelType = domain.FuelDiesel
	}
	feed := NewFeed(source, logger.NewLogger())
	ctx := context.Background()

	require.NoError(t, feed.EnsureLoaded(ctx, 45))

	criteria := domain.DefaultCriteria()
	criteria.FuelTypes = []string{"diesel"}
	visible := feed.Visible(criteria, domain.SortPriceDesc)

	require.Len(t, visible, 5)
	for i := 1; i < len(visible); i++ {
		assert.GreaterOrEqual(t, visible[i-1].Price, visible[i].Price)
	}
	for _, l := range visible {
		assert.Equal(t, domain.FuelDiesel, l.FuelType)
	}
}

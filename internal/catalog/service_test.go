package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"drama-catalog-service/internal/domain"
)

type fakeSource struct {
	name domain.Source

	listCalls   int
	searchCalls int

	dramas  []domain.Drama
	results []domain.SearchResult
	detail  *domain.Detail
	stream  string
	popular []string
	random  *domain.Drama
	err     error
}

func (f *fakeSource) Name() domain.Source { return f.name }

func (f *fakeSource) List(context.Context, domain.Category) ([]domain.Drama, error) {
	f.listCalls++
	return f.dramas, f.err
}

func (f *fakeSource) Search(context.Context, string) ([]domain.SearchResult, error) {
	f.searchCalls++
	return f.results, f.err
}

func (f *fakeSource) Detail(context.Context, string) (*domain.Detail, error) {
	return f.detail, f.err
}

func (f *fakeSource) ResolveStream(context.Context, string, int) (string, error) {
	return f.stream, f.err
}

func (f *fakeSource) HealthCheck(context.Context) error { return f.err }

func (f *fakeSource) PopularSearches(context.Context) ([]string, error) {
	return f.popular, f.err
}

func (f *fakeSource) Random(context.Context) (*domain.Drama, error) {
	return f.random, f.err
}

// fakeCache is an in-memory domain.Cache ignoring TTLs.
type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[key], nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *fakeCache) Clear(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = map[string][]byte{}
	return nil
}

func drama(src domain.Source, id string) domain.Drama {
	return domain.Drama{ID: id, Title: "Title " + id, Source: src}
}

func newTestService(sources ...domain.SourceClient) (*Service, *fakeCache) {
	cache := newFakeCache()
	svc := NewService(sources, cache, 5*time.Minute, 2*time.Minute, zap.NewNop())
	return svc, cache
}

func TestListAll_CombinesInRegistrationOrder(t *testing.T) {
	a := &fakeSource{name: domain.SourceDramabox, dramas: []domain.Drama{drama(domain.SourceDramabox, "a1"), drama(domain.SourceDramabox, "a2")}}
	b := &fakeSource{name: domain.SourceNetshort, dramas: []domain.Drama{drama(domain.SourceNetshort, "b1")}}
	svc, _ := newTestService(a, b)

	out := svc.ListAll(context.Background(), domain.CategoryLatest)

	require.False(t, out.Errored)
	require.Len(t, out.Combined, 3)
	assert.Equal(t, "a1", out.Combined[0].ID)
	assert.Equal(t, "a2", out.Combined[1].ID)
	assert.Equal(t, "b1", out.Combined[2].ID, "dramabox items precede netshort items")

	require.Len(t, out.Results, 2)
	assert.Equal(t, domain.SourceDramabox, out.Results[0].Source)
	assert.Equal(t, domain.SourceNetshort, out.Results[1].Source)
}

func TestListAll_PartialFailureStillServes(t *testing.T) {
	a := &fakeSource{name: domain.SourceDramabox, err: errors.New("upstream down")}
	b := &fakeSource{name: domain.SourceNetshort, dramas: []domain.Drama{drama(domain.SourceNetshort, "b1")}}
	svc, _ := newTestService(a, b)

	out := svc.ListAll(context.Background(), domain.CategoryLatest)

	assert.False(t, out.Errored, "one healthy source keeps the view alive")
	require.Len(t, out.Combined, 1)
	assert.Equal(t, "b1", out.Combined[0].ID)
	assert.Error(t, out.Results[0].Err)
}

func TestListAll_ErroredOnlyWhenAllFail(t *testing.T) {
	a := &fakeSource{name: domain.SourceDramabox, err: errors.New("down")}
	b := &fakeSource{name: domain.SourceNetshort, err: errors.New("also down")}
	svc, _ := newTestService(a, b)

	out := svc.ListAll(context.Background(), domain.CategoryLatest)

	assert.True(t, out.Errored)
	assert.Empty(t, out.Combined)
}

func TestListByCategory_CachesPerSource(t *testing.T) {
	a := &fakeSource{name: domain.SourceDramabox, dramas: []domain.Drama{drama(domain.SourceDramabox, "a1")}}
	svc, _ := newTestService(a)
	ctx := context.Background()

	first, err := svc.ListByCategory(ctx, domain.SourceDramabox, domain.CategoryTrending)
	require.NoError(t, err)

	second, err := svc.ListByCategory(ctx, domain.SourceDramabox, domain.CategoryTrending)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, a.listCalls, "second read must come from cache")
}

func TestListByCategory_UnknownSource(t *testing.T) {
	svc, _ := newTestService(&fakeSource{name: domain.SourceDramabox})

	_, err := svc.ListByCategory(context.Background(), "megadrama", domain.CategoryLatest)
	assert.ErrorIs(t, err, domain.ErrUnknownSource)
}

func TestSearch_BlankQuerySkipsUpstreams(t *testing.T) {
	a := &fakeSource{name: domain.SourceDramabox}
	svc, _ := newTestService(a)

	for _, q := range []string{"", "   ", "\t\n"} {
		out := svc.Search(context.Background(), q)

		assert.False(t, out.Errored)
		assert.Empty(t, out.Combined)
		assert.NotNil(t, out.Combined)
	}

	assert.Zero(t, a.searchCalls, "blank queries never reach an upstream")
}

func TestSearch_CombinesAndCaches(t *testing.T) {
	a := &fakeSource{name: domain.SourceDramabox, results: []domain.SearchResult{{ID: "a1", Title: "x", Source: domain.SourceDramabox}}}
	b := &fakeSource{name: domain.SourceNetshort, results: []domain.SearchResult{{ID: "b1", Title: "y", Source: domain.SourceNetshort}}}
	svc, _ := newTestService(a, b)
	ctx := context.Background()

	out := svc.Search(ctx, "  revenge ")
	require.False(t, out.Errored)
	require.Len(t, out.Combined, 2)
	assert.Equal(t, "a1", out.Combined[0].ID)
	assert.Equal(t, "b1", out.Combined[1].ID)

	svc.Search(ctx, "revenge")
	assert.Equal(t, 1, a.searchCalls, "trimmed query hits the cache the second time")
	assert.Equal(t, 1, b.searchCalls)
}

func TestSearch_CaseSensitiveQueriesCacheSeparately(t *testing.T) {
	a := &fakeSource{name: domain.SourceDramabox, results: []domain.SearchResult{{ID: "a1", Source: domain.SourceDramabox}}}
	svc, _ := newTestService(a)
	ctx := context.Background()

	svc.Search(ctx, "Revenge")
	svc.Search(ctx, "revenge")

	assert.Equal(t, 2, a.searchCalls, "differently-cased queries must not share a cache entry")
}

func TestSearchBySource_OnlyHitsTheNamedSource(t *testing.T) {
	a := &fakeSource{name: domain.SourceDramabox, results: []domain.SearchResult{{ID: "a1", Source: domain.SourceDramabox}}}
	b := &fakeSource{name: domain.SourceNetshort, results: []domain.SearchResult{{ID: "b1", Source: domain.SourceNetshort}}}
	svc, _ := newTestService(a, b)
	ctx := context.Background()

	got, err := svc.SearchBySource(ctx, domain.SourceNetshort, "revenge")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b1", got[0].ID)
	assert.Zero(t, a.searchCalls, "the other source stays untouched")

	got, err = svc.SearchBySource(ctx, domain.SourceNetshort, " revenge ")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, b.searchCalls, "trimmed query served from cache")
}

func TestSearchBySource_BlankQueryAndUnknownSource(t *testing.T) {
	a := &fakeSource{name: domain.SourceDramabox}
	svc, _ := newTestService(a)
	ctx := context.Background()

	got, err := svc.SearchBySource(ctx, domain.SourceDramabox, "   ")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
	assert.Zero(t, a.searchCalls)

	_, err = svc.SearchBySource(ctx, "megadrama", "revenge")
	assert.ErrorIs(t, err, domain.ErrUnknownSource)
}

func TestSearch_ErroredOnlyWhenAllFail(t *testing.T) {
	a := &fakeSource{name: domain.SourceDramabox, err: errors.New("down")}
	b := &fakeSource{name: domain.SourceNetshort, results: []domain.SearchResult{{ID: "b1"}}}
	svc, _ := newTestService(a, b)

	out := svc.Search(context.Background(), "q")
	assert.False(t, out.Errored)

	b.err = errors.New("down too")
	b.results = nil
	out = svc.Search(context.Background(), "q2")
	assert.True(t, out.Errored)
}

func TestDetailAndResolveStream_Delegate(t *testing.T) {
	a := &fakeSource{
		name:   domain.SourceDramabox,
		detail: &domain.Detail{Drama: drama(domain.SourceDramabox, "a1")},
		stream: "https://cdn/a1-3.mp4",
	}
	svc, _ := newTestService(a)
	ctx := context.Background()

	detail, err := svc.Detail(ctx, domain.SourceDramabox, "a1")
	require.NoError(t, err)
	assert.Equal(t, "a1", detail.ID)

	url, err := svc.ResolveStream(ctx, domain.SourceDramabox, "a1", 3)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/a1-3.mp4", url)

	_, err = svc.Detail(ctx, "nope", "a1")
	assert.ErrorIs(t, err, domain.ErrUnknownSource)
}

func TestPopularSearches_MergedAndDeduplicated(t *testing.T) {
	a := &fakeSource{name: domain.SourceDramabox, popular: []string{"revenge", "ceo"}}
	b := &fakeSource{name: domain.SourceNetshort, popular: []string{"ceo", "bride"}}
	svc, _ := newTestService(a, b)

	terms := svc.PopularSearches(context.Background())
	assert.Equal(t, []string{"revenge", "ceo", "bride"}, terms)
}

func TestRandom_FirstSourceThatDelivers(t *testing.T) {
	a := &fakeSource{name: domain.SourceDramabox, err: errors.New("down")}
	pick := drama(domain.SourceNetshort, "b7")
	b := &fakeSource{name: domain.SourceNetshort, random: &pick}
	svc, _ := newTestService(a, b)

	d, err := svc.Random(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "b7", d.ID)
}

func TestWarm_BypassesCachedValue(t *testing.T) {
	a := &fakeSource{name: domain.SourceDramabox, dramas: []domain.Drama{drama(domain.SourceDramabox, "old")}}
	svc, _ := newTestService(a)
	ctx := context.Background()

	_, err := svc.ListByCategory(ctx, domain.SourceDramabox, domain.CategoryLatest)
	require.NoError(t, err)

	a.dramas = []domain.Drama{drama(domain.SourceDramabox, "new")}
	require.NoError(t, svc.Warm(ctx, domain.CategoryLatest))

	got, err := svc.ListByCategory(ctx, domain.SourceDramabox, domain.CategoryLatest)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].ID)
	assert.Equal(t, 2, a.listCalls)
}

func TestHealthBySource(t *testing.T) {
	a := &fakeSource{name: domain.SourceDramabox}
	b := &fakeSource{name: domain.SourceNetshort, err: errors.New("unreachable")}
	svc, _ := newTestService(a, b)

	health := svc.HealthBySource(context.Background())
	assert.NoError(t, health[domain.SourceDramabox])
	assert.Error(t, health[domain.SourceNetshort])
}

// Package catalog provides the unified catalog client: one façade over all
// registered source adapters, with per-source freshness caching and
// concurrent fan-out for the combined views.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"drama-catalog-service/internal/domain"
)

// Service aggregates the registered sources. Sources keep their registration
// order everywhere: fan-out result slices and combined lists are ordered by
// it, so clients see a stable source ordering across calls.
type Service struct {
	sources []domain.SourceClient
	cache   domain.Cache // nil when caching is disabled
	logger  *zap.Logger

	listTTL   time.Duration
	searchTTL time.Duration
}

// NewService creates the catalog service over the given sources.
func NewService(sources []domain.SourceClient, cache domain.Cache, listTTL, searchTTL time.Duration, logger *zap.Logger) *Service {
	return &Service{
		sources:   sources,
		cache:     cache,
		logger:    logger,
		listTTL:   listTTL,
		searchTTL: searchTTL,
	}
}

// SourceList is one source's contribution to a combined catalog view.
type SourceList struct {
	Source   domain.Source
	Dramas   []domain.Drama
	Duration time.Duration
	Err      error
}

// ListResult is the combined outcome of a catalog fan-out.
type ListResult struct {
	Results  []SourceList
	Combined []domain.Drama

	// Errored is set only when every source failed. A partial failure
	// still serves whatever the healthy sources returned.
	Errored bool
}

// SourceSearch is one source's contribution to a combined search.
type SourceSearch struct {
	Source   domain.Source
	Results  []domain.SearchResult
	Duration time.Duration
	Err      error
}

// SearchResult is the combined outcome of a search fan-out.
type SearchResult struct {
	Results  []SourceSearch
	Combined []domain.SearchResult
	Errored  bool
}

// Sources returns the registered source names in registration order.
func (s *Service) Sources() []domain.Source {
	return lo.Map(s.sources, func(c domain.SourceClient, _ int) domain.Source {
		return c.Name()
	})
}

// ListByCategory fetches one source's catalog rail, served from cache when
// fresh.
func (s *Service) ListByCategory(ctx context.Context, src domain.Source, category domain.Category) ([]domain.Drama, error) {
	client, err := s.source(src)
	if err != nil {
		return nil, err
	}

	key := listKey(src, category)
	if cached, ok := cacheGet[[]domain.Drama](ctx, s.cache, key); ok {
		return cached, nil
	}

	dramas, err := client.List(ctx, category)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, key, dramas, s.listTTL)

	return dramas, nil
}

// ListAll fans the category out to every source concurrently and combines
// the results in registration order.
func (s *Service) ListAll(ctx context.Context, category domain.Category) *ListResult {
	out := &ListResult{Results: make([]SourceList, len(s.sources))}

	var wg sync.WaitGroup
	for i, client := range s.sources {
		wg.Add(1)
		go func(idx int, c domain.SourceClient) {
			defer wg.Done()

			start := time.Now()
			dramas, err := s.ListByCategory(ctx, c.Name(), category)
			out.Results[idx] = SourceList{
				Source:   c.Name(),
				Dramas:   dramas,
				Duration: time.Since(start),
				Err:      err,
			}
		}(i, client)
	}
	wg.Wait()

	failed := 0
	for _, r := range out.Results {
		if r.Err != nil {
			failed++
			s.logger.Warn("source list failed",
				zap.String("source", string(r.Source)),
				zap.String("category", string(category)),
				zap.Error(r.Err),
			)
			continue
		}
		out.Combined = append(out.Combined, r.Dramas...)
	}
	if out.Combined == nil {
		out.Combined = []domain.Drama{}
	}
	out.Errored = len(s.sources) > 0 && failed == len(s.sources)

	return out
}

// SearchBySource runs a free-text query against one source, served from
// cache when fresh. A blank query returns an empty result without touching
// the upstream.
func (s *Service) SearchBySource(ctx context.Context, src domain.Source, query string) ([]domain.SearchResult, error) {
	client, err := s.source(src)
	if err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.SearchResult{}, nil
	}

	return s.searchSource(ctx, client, query)
}

// Search fans a free-text query out to every source. A blank query returns
// an empty result without touching any upstream.
func (s *Service) Search(ctx context.Context, query string) *SearchResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return &SearchResult{
			Results:  []SourceSearch{},
			Combined: []domain.SearchResult{},
		}
	}

	out := &SearchResult{Results: make([]SourceSearch, len(s.sources))}

	var wg sync.WaitGroup
	for i, client := range s.sources {
		wg.Add(1)
		go func(idx int, c domain.SourceClient) {
			defer wg.Done()

			start := time.Now()
			results, err := s.searchSource(ctx, c, query)
			out.Results[idx] = SourceSearch{
				Source:   c.Name(),
				Results:  results,
				Duration: time.Since(start),
				Err:      err,
			}
		}(i, client)
	}
	wg.Wait()

	failed := 0
	for _, r := range out.Results {
		if r.Err != nil {
			failed++
			s.logger.Warn("source search failed",
				zap.String("source", string(r.Source)),
				zap.Error(r.Err),
			)
			continue
		}
		out.Combined = append(out.Combined, r.Results...)
	}
	if out.Combined == nil {
		out.Combined = []domain.SearchResult{}
	}
	out.Errored = len(s.sources) > 0 && failed == len(s.sources)

	return out
}

func (s *Service) searchSource(ctx context.Context, client domain.SourceClient, query string) ([]domain.SearchResult, error) {
	key := searchKey(client.Name(), query)
	if cached, ok := cacheGet[[]domain.SearchResult](ctx, s.cache, key); ok {
		return cached, nil
	}

	results, err := client.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, key, results, s.searchTTL)

	return results, nil
}

// Detail fetches one title with its episode list. Details are not cached;
// episode lock state changes too often to serve stale.
func (s *Service) Detail(ctx context.Context, src domain.Source, id string) (*domain.Detail, error) {
	client, err := s.source(src)
	if err != nil {
		return nil, err
	}

	return client.Detail(ctx, id)
}

// ResolveStream resolves the playable URL for one episode of one title.
func (s *Service) ResolveStream(ctx context.Context, src domain.Source, id string, episode int) (string, error) {
	client, err := s.source(src)
	if err != nil {
		return "", err
	}

	return client.ResolveStream(ctx, id, episode)
}

// PopularSearches merges the trending queries of every source that exposes
// them, deduplicated, in source order. Sources without the feed or with a
// failing feed contribute nothing.
func (s *Service) PopularSearches(ctx context.Context) []string {
	var terms []string
	for _, client := range s.sources {
		p, ok := client.(domain.PopularSearcher)
		if !ok {
			continue
		}

		got, err := p.PopularSearches(ctx)
		if err != nil {
			s.logger.Warn("popular searches failed",
				zap.String("source", string(client.Name())),
				zap.Error(err),
			)
			continue
		}
		terms = append(terms, got...)
	}

	return lo.Uniq(terms)
}

// Random returns a random title from the first source that can produce one.
func (s *Service) Random(ctx context.Context) (*domain.Drama, error) {
	var lastErr error
	for _, client := range s.sources {
		p, ok := client.(domain.RandomPicker)
		if !ok {
			continue
		}

		d, err := p.Random(ctx)
		if err != nil {
			lastErr = err
			continue
		}
		if d != nil {
			return d, nil
		}
	}

	return nil, lastErr
}

// HealthBySource pings every source and reports per-source reachability.
func (s *Service) HealthBySource(ctx context.Context) map[domain.Source]error {
	out := make(map[domain.Source]error, len(s.sources))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, client := range s.sources {
		wg.Add(1)
		go func(c domain.SourceClient) {
			defer wg.Done()

			err := c.HealthCheck(ctx)

			mu.Lock()
			out[c.Name()] = err
			mu.Unlock()
		}(client)
	}
	wg.Wait()

	return out
}

// Warm refreshes one category's cache for every source, bypassing cached
// values. Used by the background refresh job.
func (s *Service) Warm(ctx context.Context, category domain.Category) error {
	var wg sync.WaitGroup
	errs := make([]error, len(s.sources))

	for i, client := range s.sources {
		wg.Add(1)
		go func(idx int, c domain.SourceClient) {
			defer wg.Done()

			dramas, err := c.List(ctx, category)
			if err != nil {
				errs[idx] = err
				return
			}
			s.cacheSet(ctx, listKey(c.Name(), category), dramas, s.listTTL)
		}(i, client)
	}
	wg.Wait()

	failed := lo.Filter(errs, func(err error, _ int) bool { return err != nil })
	if len(failed) == len(s.sources) && len(s.sources) > 0 {
		return fmt.Errorf("warming %s: all sources failed: %w", category, failed[0])
	}

	return nil
}

// InvalidateAll drops every cached catalog value.
func (s *Service) InvalidateAll(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}

	return s.cache.Clear(ctx)
}

func (s *Service) source(src domain.Source) (domain.SourceClient, error) {
	for _, client := range s.sources {
		if client.Name() == src {
			return client, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownSource, src)
}

func (s *Service) cacheSet(ctx context.Context, key string, value any, ttl time.Duration) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		return
	}

	// Cache failures degrade to uncached serving; the upstream answer is
	// already in hand.
	if err := s.cache.Set(ctx, key, data, ttl); err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// cacheGet reads and decodes a cached value. Any miss, error, or decode
// failure reads as a miss.
func cacheGet[T any](ctx context.Context, cache domain.Cache, key string) (T, bool) {
	var zero T
	if cache == nil {
		return zero, false
	}

	data, err := cache.Get(ctx, key)
	if err != nil || data == nil {
		return zero, false
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return zero, false
	}

	return v, true
}

func listKey(src domain.Source, category domain.Category) string {
	return fmt.Sprintf("catalog:list:%s:%s", src, category)
}

// searchKey keys on the trimmed query exactly as issued. Upstreams may be
// case-sensitive, so differently-cased queries get their own entries.
func searchKey(src domain.Source, query string) string {
	return fmt.Sprintf("catalog:search:%s:%s", src, query)
}

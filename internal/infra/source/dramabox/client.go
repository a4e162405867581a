// Package dramabox implements the Source A (dramabox) adapter.
package dramabox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"drama-catalog-service/internal/domain"
	"drama-catalog-service/internal/infra/source"
)

// categoryPaths maps catalog rails onto dramabox endpoints. The original-
// language rail has no dedicated endpoint upstream and reuses the latest feed.
var categoryPaths = map[domain.Category]string{
	domain.CategoryLatest:   "/latest",
	domain.CategoryTrending: "/trending",
	domain.CategoryForYou:   "/foryou",
	domain.CategoryVip:      "/vip",
	domain.CategoryDubbed:   "/dubindo",
	domain.CategoryOriginal: "/latest",
}

// Client implements domain.SourceClient for dramabox.
type Client struct {
	client *resty.Client
	cb     *gobreaker.CircuitBreaker[*resty.Response]
	logger *zap.Logger
}

// New creates a new dramabox client.
func New(cfg source.ClientConfig, logger *zap.Logger) *Client {
	return &Client{
		client: source.NewRestyClient(cfg),
		cb:     source.NewCircuitBreaker[*resty.Response](string(domain.SourceDramabox), cfg.CB),
		logger: logger,
	}
}

// Name returns the source identifier.
func (c *Client) Name() domain.Source {
	return domain.SourceDramabox
}

// List fetches and normalizes one catalog rail.
func (c *Client) List(ctx context.Context, category domain.Category) ([]domain.Drama, error) {
	path, ok := categoryPaths[category]
	if !ok {
		return nil, fmt.Errorf("dramabox: unknown category %q", category)
	}

	body, err := c.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	return c.normalizeList(path, body), nil
}

// Search queries dramabox with a free-text query. The query is sent
// percent-encoded as a query parameter.
func (c *Client) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	body, err := c.get(ctx, "/search", map[string]string{"query": query})
	if err != nil {
		return nil, err
	}

	results := make([]domain.SearchResult, 0)
	for _, raw := range source.ExtractItems(body, "") {
		var it Item
		if json.Unmarshal(raw, &it) != nil {
			continue
		}
		if r, ok := it.ToSearchResult(); ok {
			results = append(results, r)
		}
	}

	return results, nil
}

// Detail fetches one title and merges in its episode list. The detail
// payload arrives either bare or wrapped in a {"data": ...} envelope.
func (c *Client) Detail(ctx context.Context, id string) (*domain.Detail, error) {
	body, err := c.get(ctx, "/detail", map[string]string{"bookId": id})
	if err != nil {
		return nil, err
	}

	var it Item
	if err := json.Unmarshal(source.UnwrapEnvelope(body), &it); err != nil {
		c.logger.Warn("dramabox detail payload unreadable",
			zap.String("book_id", id),
			zap.Error(err),
		)

		return nil, nil
	}

	drama, ok := it.ToDomain()
	if !ok {
		return nil, nil
	}

	episodes, err := c.episodes(ctx, id)
	if err != nil {
		return nil, err
	}

	return &domain.Detail{Drama: drama, Episodes: episodes}, nil
}

func (c *Client) episodes(ctx context.Context, id string) ([]domain.Episode, error) {
	body, err := c.get(ctx, "/allepisode", map[string]string{"bookId": id})
	if err != nil {
		return nil, err
	}

	items := make([]EpisodeItem, 0)
	for _, raw := range source.ExtractItems(body, "") {
		var e EpisodeItem
		if json.Unmarshal(raw, &e) != nil {
			continue
		}
		items = append(items, e)
	}

	return normalizeEpisodes(items), nil
}

// ResolveStream resolves the playable URL for one episode (1-based).
func (c *Client) ResolveStream(ctx context.Context, id string, episode int) (string, error) {
	body, err := c.get(ctx, "/stream", map[string]string{
		"bookId":  id,
		"episode": strconv.Itoa(episode),
	})
	if err != nil {
		return "", err
	}

	var p streamPayload
	if json.Unmarshal(source.UnwrapEnvelope(body), &p) != nil {
		return "", nil
	}

	return p.url(), nil
}

// PopularSearches returns the upstream's trending query strings.
func (c *Client) PopularSearches(ctx context.Context) ([]string, error) {
	body, err := c.get(ctx, "/populersearch", nil)
	if err != nil {
		return nil, err
	}

	terms := make([]string, 0)
	for _, raw := range source.ExtractItems(body, "") {
		var s string
		if json.Unmarshal(raw, &s) == nil && s != "" {
			terms = append(terms, s)
		}
	}

	return terms, nil
}

// Random returns one random title, or nil when the payload is unusable.
func (c *Client) Random(ctx context.Context) (*domain.Drama, error) {
	body, err := c.get(ctx, "/randomdrama", nil)
	if err != nil {
		return nil, err
	}

	var it Item
	if json.Unmarshal(source.UnwrapEnvelope(body), &it) != nil {
		return nil, nil
	}

	if d, ok := it.ToDomain(); ok {
		return &d, nil
	}

	return nil, nil
}

// HealthCheck verifies the upstream is accessible.
func (c *Client) HealthCheck(ctx context.Context) error {
	resp, err := c.client.R().SetContext(ctx).Get("/latest")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("health check returned status %d", resp.StatusCode())
	}

	return nil
}

// get performs one upstream request through the circuit breaker and returns
// the response body. Non-2xx statuses and network failures surface as typed
// fetch errors; payload shape is the caller's problem.
func (c *Client) get(ctx context.Context, endpoint string, query map[string]string) ([]byte, error) {
	resp, err := c.cb.Execute(func() (*resty.Response, error) {
		req := c.client.R().SetContext(ctx)
		if len(query) > 0 {
			req.SetQueryParams(query)
		}
		r, err := req.Get(endpoint)
		if err != nil {
			return nil, source.TransportError(domain.SourceDramabox, endpoint, err)
		}
		if r.IsError() {
			return nil, source.ResponseError(domain.SourceDramabox, endpoint, r)
		}

		return r, nil
	})
	if err != nil {
		c.logger.Warn("dramabox fetch failed",
			zap.String("endpoint", endpoint),
			zap.String("state", c.cb.State().String()),
			zap.Error(err),
		)

		var fe *domain.FetchError
		if errors.As(err, &fe) {
			return nil, err
		}

		// Circuit breaker rejections arrive untyped.
		return nil, source.TransportError(domain.SourceDramabox, endpoint, err)
	}

	return resp.Body(), nil
}

func (c *Client) normalizeList(endpoint string, body []byte) []domain.Drama {
	raws := source.ExtractItems(body, "")
	dramas := make([]domain.Drama, 0, len(raws))
	dropped := 0

	for _, raw := range raws {
		var it Item
		if json.Unmarshal(raw, &it) != nil {
			dropped++
			continue
		}
		d, ok := it.ToDomain()
		if !ok {
			dropped++
			continue
		}
		dramas = append(dramas, d)
	}

	if dropped > 0 {
		c.logger.Debug("dramabox items dropped during normalization",
			zap.String("endpoint", endpoint),
			zap.Int("dropped", dropped),
		)
	}

	return dramas
}

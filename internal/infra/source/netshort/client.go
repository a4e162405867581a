// Package netshort implements the Source B (netshort) adapter.
package netshort

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"drama-catalog-service/internal/domain"
	"drama-catalog-service/internal/infra/source"
)

// categoryPaths maps catalog rails onto netshort endpoints. Netshort has no
// dub or original-language rails of its own; both map onto the theaters feed.
var categoryPaths = map[domain.Category]string{
	domain.CategoryLatest:   "/latest",
	domain.CategoryTrending: "/trending",
	domain.CategoryForYou:   "/foryou",
	domain.CategoryVip:      "/vip",
	domain.CategoryDubbed:   "/theaters",
	domain.CategoryOriginal: "/theaters",
}

// Client implements domain.SourceClient for netshort.
type Client struct {
	client *resty.Client
	cb     *gobreaker.CircuitBreaker[*resty.Response]
	logger *zap.Logger
}

// New creates a new netshort client.
func New(cfg source.ClientConfig, logger *zap.Logger) *Client {
	return &Client{
		client: source.NewRestyClient(cfg),
		cb:     source.NewCircuitBreaker[*resty.Response](string(domain.SourceNetshort), cfg.CB),
		logger: logger,
	}
}

// Name returns the source identifier.
func (c *Client) Name() domain.Source {
	return domain.SourceNetshort
}

// List fetches one catalog rail. Netshort list payloads are grouped: an
// outer array of theater groups each holding a contentInfos array, flattened
// here into one title list.
func (c *Client) List(ctx context.Context, category domain.Category) ([]domain.Drama, error) {
	path, ok := categoryPaths[category]
	if !ok {
		return nil, fmt.Errorf("netshort: unknown category %q", category)
	}

	body, err := c.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	raws := source.ExtractItems(body, groupField)
	dramas := make([]domain.Drama, 0, len(raws))
	for _, raw := range raws {
		var it Item
		if json.Unmarshal(raw, &it) != nil {
			continue
		}
		if d, ok := it.ToDomain(); ok {
			dramas = append(dramas, d)
		}
	}

	return dramas, nil
}

// Search queries netshort with a free-text query.
func (c *Client) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	body, err := c.get(ctx, "/search", map[string]string{"query": query})
	if err != nil {
		return nil, err
	}

	results := make([]domain.SearchResult, 0)
	for _, raw := range source.ExtractItems(body, groupField) {
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

// Detail fetches the play payload for one title and splits it into the
// title and its episode list. The payload may be enveloped one level.
func (c *Client) Detail(ctx context.Context, id string) (*domain.Detail, error) {
	body, err := c.get(ctx, "/play/"+id, nil)
	if err != nil {
		return nil, err
	}

	p, ok := c.decodePlay(id, body)
	if !ok {
		return nil, nil
	}

	drama, ok := p.ToDomain()
	if !ok {
		return nil, nil
	}

	return &domain.Detail{Drama: drama, Episodes: p.episodes()}, nil
}

// ResolveStream returns the playable URL for one episode (1-based). When the
// play payload carries no parseable episode list the upstream is serving the
// stream directly under the play path, so that URL is returned as-is.
func (c *Client) ResolveStream(ctx context.Context, id string, episode int) (string, error) {
	body, err := c.get(ctx, "/play/"+id, nil)
	if err != nil {
		return "", err
	}

	directURL := c.client.BaseURL + "/play/" + id

	p, ok := c.decodePlay(id, body)
	if !ok {
		return directURL, nil
	}

	episodes := p.episodes()
	if len(episodes) == 0 {
		return directURL, nil
	}
	if episode < 1 || episode > len(episodes) {
		return "", nil
	}

	return episodes[episode-1].StreamURL, nil
}

// HealthCheck verifies the upstream is accessible.
func (c *Client) HealthCheck(ctx context.Context) error {
	resp, err := c.client.R().SetContext(ctx).Get("/theaters")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("health check returned status %d", resp.StatusCode())
	}

	return nil
}

func (c *Client) decodePlay(id string, body []byte) (*playPayload, bool) {
	var p playPayload
	if err := json.Unmarshal(source.UnwrapEnvelope(body), &p); err != nil {
		c.logger.Warn("netshort play payload unreadable",
			zap.String("short_play_id", id),
			zap.Error(err),
		)

		return nil, false
	}

	return &p, true
}

func (c *Client) get(ctx context.Context, endpoint string, query map[string]string) ([]byte, error) {
	resp, err := c.cb.Execute(func() (*resty.Response, error) {
		req := c.client.R().SetContext(ctx)
		if len(query) > 0 {
			req.SetQueryParams(query)
		}
		r, err := req.Get(endpoint)
		if err != nil {
			return nil, source.TransportError(domain.SourceNetshort, endpoint, err)
		}
		if r.IsError() {
			return nil, source.ResponseError(domain.SourceNetshort, endpoint, r)
		}

		return r, nil
	})
	if err != nil {
		c.logger.Warn("netshort fetch failed",
			zap.String("endpoint", endpoint),
			zap.String("state", c.cb.State().String()),
			zap.Error(err),
		)

		var fe *domain.FetchError
		if errors.As(err, &fe) {
			return nil, err
		}

		return nil, source.TransportError(domain.SourceNetshort, endpoint, err)
	}

	return resp.Body(), nil
}

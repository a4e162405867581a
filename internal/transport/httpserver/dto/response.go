package dto

import (
	"drama-catalog-service/internal/catalog"
	"drama-catalog-service/internal/domain"
)

// DramaResponse represents a single catalog title in responses.
type DramaResponse struct {
	ID           string   `json:"id"`
	QualifiedID  string   `json:"qualified_id"`
	Title        string   `json:"title"`
	Source       string   `json:"source"`
	Cover        string   `json:"cover,omitempty"`
	Labels       []string `json:"labels,omitempty"`
	EpisodeCount int      `json:"episode_count,omitempty"`
	Introduction string   `json:"introduction,omitempty"`
	HeatScore    float64  `json:"heat_score,omitempty"`
	PublishTime  int64    `json:"publish_time,omitempty"`
}

// FromDrama converts a domain.Drama to DramaResponse.
func FromDrama(d domain.Drama) DramaResponse {
	return DramaResponse{
		ID:           d.ID,
		QualifiedID:  d.QualifiedID(),
		Title:        d.Title,
		Source:       string(d.Source),
		Cover:        d.Cover,
		Labels:       d.Labels,
		EpisodeCount: d.EpisodeCount,
		Introduction: d.Introduction,
		HeatScore:    d.HeatScore,
		PublishTime:  d.PublishTime,
	}
}

// SourceMeta describes one source's contribution to a combined view.
type SourceMeta struct {
	Source   string `json:"source"`
	Count    int    `json:"count"`
	Duration string `json:"duration"`
	Error    string `json:"error,omitempty"`
}

// CatalogResponse represents the combined catalog view.
type CatalogResponse struct {
	Category string          `json:"category"`
	Dramas   []DramaResponse `json:"dramas"`
	Sources  []SourceMeta    `json:"sources"`

	// Partial is set when at least one source failed but others served.
	Partial bool `json:"partial,omitempty"`
}

// FromListResult converts a catalog fan-out into the combined response.
func FromListResult(category domain.Category, result *catalog.ListResult) CatalogResponse {
	resp := CatalogResponse{
		Category: string(category),
		Dramas:   make([]DramaResponse, 0, len(result.Combined)),
		Sources:  make([]SourceMeta, len(result.Results)),
	}

	for _, d := range result.Combined {
		resp.Dramas = append(resp.Dramas, FromDrama(d))
	}

	for i, r := range result.Results {
		meta := SourceMeta{
			Source:   string(r.Source),
			Count:    len(r.Dramas),
			Duration: r.Duration.String(),
		}
		if r.Err != nil {
			meta.Error = r.Err.Error()
			resp.Partial = true
		}
		resp.Sources[i] = meta
	}

	return resp
}

// SearchItemResponse represents one search hit.
type SearchItemResponse struct {
	ID          string   `json:"id"`
	QualifiedID string   `json:"qualified_id"`
	Title       string   `json:"title"`
	Source      string   `json:"source"`
	Cover       string   `json:"cover,omitempty"`
	Labels      []string `json:"labels,omitempty"`
	HeatScore   float64  `json:"heat_score,omitempty"`
}

// SearchResponse represents the combined search response.
type SearchResponse struct {
	Query   string               `json:"query"`
	Results []SearchItemResponse `json:"results"`
	Sources []SourceMeta         `json:"sources"`
	Partial bool                 `json:"partial,omitempty"`
}

// FromSearchItem converts one search hit.
func FromSearchItem(r domain.SearchResult) SearchItemResponse {
	return SearchItemResponse{
		ID:          r.ID,
		QualifiedID: string(r.Source) + ":" + r.ID,
		Title:       r.Title,
		Source:      string(r.Source),
		Cover:       r.Cover,
		Labels:      r.Labels,
		HeatScore:   r.HeatScore,
	}
}

// FromSearchResult converts a search fan-out into the combined response.
func FromSearchResult(query string, result *catalog.SearchResult) SearchResponse {
	resp := SearchResponse{
		Query:   query,
		Results: make([]SearchItemResponse, 0, len(result.Combined)),
		Sources: make([]SourceMeta, len(result.Results)),
	}

	for _, r := range result.Combined {
		resp.Results = append(resp.Results, FromSearchItem(r))
	}

	for i, r := range result.Results {
		meta := SourceMeta{
			Source:   string(r.Source),
			Count:    len(r.Results),
			Duration: r.Duration.String(),
		}
		if r.Err != nil {
			meta.Error = r.Err.Error()
			resp.Partial = true
		}
		resp.Sources[i] = meta
	}

	return resp
}

// EpisodeResponse represents one episode of a title.
type EpisodeResponse struct {
	EpisodeID       string `json:"episode_id"`
	Index           int    `json:"index"`
	Name            string `json:"name,omitempty"`
	Locked          bool   `json:"locked"`
	StreamURL       string `json:"stream_url,omitempty"`
	DurationSeconds int    `json:"duration_seconds,omitempty"`
}

// DetailResponse represents a title with its episode list.
type DetailResponse struct {
	DramaResponse
	Episodes []EpisodeResponse `json:"episodes"`
}

// FromDetail converts a domain.Detail to DetailResponse.
func FromDetail(d *domain.Detail) DetailResponse {
	resp := DetailResponse{
		DramaResponse: FromDrama(d.Drama),
		Episodes:      make([]EpisodeResponse, 0, len(d.Episodes)),
	}

	for _, e := range d.Episodes {
		resp.Episodes = append(resp.Episodes, EpisodeResponse{
			EpisodeID:       e.EpisodeID,
			Index:           e.Index,
			Name:            e.Name,
			Locked:          e.Locked,
			StreamURL:       e.StreamURL,
			DurationSeconds: e.DurationSeconds,
		})
	}

	return resp
}

// StreamResponse carries a resolved stream URL.
type StreamResponse struct {
	Source  string `json:"source"`
	ID      string `json:"id"`
	Episode int    `json:"episode"`
	URL     string `json:"url"`
}

// HistoryResponse wraps the watch-history log. Entries keep their storage
// JSON shape; it is the API contract clients already persist locally.
type HistoryResponse struct {
	Entries []domain.WatchHistoryEntry `json:"entries"`
	Count   int                        `json:"count"`
}

// PopularSearchesResponse carries the merged trending queries.
type PopularSearchesResponse struct {
	Terms []string `json:"terms"`
}

// SourcesResponse describes the registered sources and their health.
type SourcesResponse struct {
	Sources []SourceHealth `json:"sources"`
}

// SourceHealth is one source's reachability status.
type SourceHealth struct {
	Source  string `json:"source"`
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

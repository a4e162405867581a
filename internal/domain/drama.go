// Package domain contains the core business entities and ports.
// This package has no external dependencies (only stdlib).
package domain

// Source identifies one of the upstream content providers.
type Source string

const (
	SourceDramabox Source = "dramabox"
	SourceNetshort Source = "netshort"
)

// Valid reports whether s is a configured upstream identifier.
func (s Source) Valid() bool {
	return s == SourceDramabox || s == SourceNetshort
}

// Category is one of the fixed catalog rails.
type Category string

const (
	CategoryLatest   Category = "latest"
	CategoryTrending Category = "trending"
	CategoryForYou   Category = "foryou"
	CategoryVip      Category = "vip"
	CategoryDubbed   Category = "dubbed"
	CategoryOriginal Category = "original"
)

// Categories lists every catalog rail in display order.
func Categories() []Category {
	return []Category{
		CategoryLatest,
		CategoryTrending,
		CategoryForYou,
		CategoryVip,
		CategoryDubbed,
		CategoryOriginal,
	}
}

// Valid reports whether c is a known catalog rail.
func (c Category) Valid() bool {
	switch c {
	case CategoryLatest, CategoryTrending, CategoryForYou,
		CategoryVip, CategoryDubbed, CategoryOriginal:
		return true
	}
	return false
}

// Drama represents one show normalized from any upstream source.
// Instances are constructed fresh on every normalization call and never
// mutated afterwards; the catalog does not persist them.
type Drama struct {
	// ID is the upstream identifier, unique within one source only.
	ID     string `json:"id"`
	Title  string `json:"title"`
	Source Source `json:"source"`

	// Cover may be empty; renderers substitute a placeholder.
	Cover        string   `json:"cover,omitempty"`
	Labels       []string `json:"labels,omitempty"`
	EpisodeCount int      `json:"episode_count,omitempty"`
	Introduction string   `json:"introduction,omitempty"`

	// Ranking hints, zero when the upstream omits them.
	HeatScore   float64 `json:"heat_score,omitempty"`
	PublishTime int64   `json:"publish_time,omitempty"` // ms since epoch
}

// QualifiedID returns the source-qualified identifier. The same numeric id
// can exist in both sources, so bare IDs must never be used as keys across
// sources.
func (d *Drama) QualifiedID() string {
	return string(d.Source) + ":" + d.ID
}

// Episode is one playable unit within a Drama. Index is 1-based and
// contiguous within a title's episode list.
type Episode struct {
	EpisodeID string `json:"episode_id"`
	Index     int    `json:"index"`
	Name      string `json:"name,omitempty"`

	// Locked episodes require elevated access and must not auto-play.
	Locked bool `json:"locked"`

	// StreamURL is resolved lazily; empty until resolution succeeds.
	StreamURL       string `json:"stream_url,omitempty"`
	DurationSeconds int    `json:"duration_seconds,omitempty"`
}

// Detail is a Drama merged with its episode list.
type Detail struct {
	Drama
	Episodes []Episode `json:"episodes"`
}

// SearchResult is the reduced shape returned by search endpoints.
type SearchResult struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Source    Source   `json:"source"`
	Cover     string   `json:"cover,omitempty"`
	Labels    []string `json:"labels,omitempty"`
	HeatScore float64  `json:"heat_score,omitempty"`
}

// Package dto provides Data Transfer Objects for HTTP requests and responses.
package dto

// CatalogRequest represents the query parameters for catalog listings.
// An empty source requests the combined view across every source.
type CatalogRequest struct {
	Category string `query:"category" json:"category" validate:"omitempty,drama_category"`
	Source   string `query:"source" json:"source" validate:"omitempty,drama_source"`
}

// SearchRequest represents the query parameters for catalog search.
// An empty source searches every source.
type SearchRequest struct {
	Query  string `query:"q" json:"q" validate:"max=200"`
	Source string `query:"source" json:"source" validate:"omitempty,drama_source"`
}

// StreamRequest represents the query parameters for stream resolution.
type StreamRequest struct {
	Episode int `query:"episode" json:"episode" validate:"required,min=1"`
}

// HistoryAddRequest is the body for recording a watch event.
type HistoryAddRequest struct {
	TitleID         string  `json:"id" validate:"required,max=128"`
	TitleName       string  `json:"title" validate:"required,max=512"`
	PosterURL       string  `json:"poster" validate:"omitempty,max=2048"`
	CurrentEpisode  int     `json:"episode" validate:"omitempty,min=1"`
	TotalEpisodes   int     `json:"totalEpisodes" validate:"omitempty,min=0"`
	ProgressPercent float64 `json:"progress" validate:"omitempty,min=0,max=100"`
	Source          string  `json:"platform" validate:"required,drama_source"`
}

// HistoryProgressRequest is the body for updating watch progress.
type HistoryProgressRequest struct {
	Episode  int     `json:"episode" validate:"required,min=1"`
	Progress float64 `json:"progress" validate:"min=0,max=100"`
}

package domain

// WatchHistoryEntry is a persisted record of viewing progress for one title.
// The stored JSON must stay readable across releases: decoding tolerates
// unknown extra fields, and every field keeps its tag forever.
type WatchHistoryEntry struct {
	TitleID         string  `json:"id"`
	TitleName       string  `json:"title"`
	PosterURL       string  `json:"poster,omitempty"`
	CurrentEpisode  int     `json:"episode"`
	TotalEpisodes   int     `json:"totalEpisodes"`
	ProgressPercent float64 `json:"progress"`
	LastWatchedAt   int64   `json:"lastWatched"` // ms since epoch
	Source          Source  `json:"platform"`
}

package dramabox

import (
	"sort"

	"drama-catalog-service/internal/domain"
	"drama-catalog-service/internal/infra/source"
)

// Item is the dramabox wire shape for one title. The upstream has shipped
// several incompatible field sets over time; every observed alias is declared
// here and ToDomain picks the first present value per target field, in
// priority order.
type Item struct {
	// id aliases
	ID      source.FlexString `json:"id"`
	DramaID source.FlexString `json:"dramaId"`
	BookID  source.FlexString `json:"bookId"`

	// title aliases
	Title    string `json:"title"`
	Name     string `json:"name"`
	BookName string `json:"bookName"`

	// cover aliases
	Cover     string `json:"cover"`
	CoverWap  string `json:"coverWap"`
	Thumbnail string `json:"thumbnail"`
	Image     string `json:"image"`

	// label aliases
	Tags   []string `json:"tags"`
	Genres []string `json:"genres"`
	Labels []string `json:"labels"`

	// ranking aliases
	HeatScore  float64 `json:"heatScore"`
	Views      float64 `json:"views"`
	Popularity float64 `json:"popularity"`

	// publish-time aliases (ms epoch)
	PublishTime int64 `json:"publishTime"`
	CreatedAt   int64 `json:"createdAt"`

	// episode-count aliases
	ChapterCount source.FlexInt `json:"chapterCount"`
	EpisodeCount source.FlexInt `json:"episodeCount"`

	// introduction aliases
	Introduction string `json:"introduction"`
	Description  string `json:"description"`
}

// ToDomain normalizes the item. ok is false when no alias yields an id or a
// title; such items are dropped rather than surfaced half-formed.
func (it *Item) ToDomain() (domain.Drama, bool) {
	d := domain.Drama{
		ID:           source.Coalesce(it.ID, it.DramaID, it.BookID).String(),
		Title:        source.Coalesce(it.Title, it.Name, it.BookName),
		Source:       domain.SourceDramabox,
		Cover:        source.Coalesce(it.Cover, it.CoverWap, it.Thumbnail, it.Image),
		Labels:       source.CoalesceSlice(it.Tags, it.Genres, it.Labels),
		EpisodeCount: source.Coalesce(it.ChapterCount, it.EpisodeCount).Int(),
		Introduction: source.Coalesce(it.Introduction, it.Description),
		HeatScore:    source.Coalesce(it.HeatScore, it.Views, it.Popularity),
		PublishTime:  source.Coalesce(it.PublishTime, it.CreatedAt),
	}

	return d, d.ID != "" && d.Title != ""
}

// ToSearchResult normalizes the item into the reduced search shape.
func (it *Item) ToSearchResult() (domain.SearchResult, bool) {
	d, ok := it.ToDomain()

	return domain.SearchResult{
		ID:        d.ID,
		Title:     d.Title,
		Source:    d.Source,
		Cover:     d.Cover,
		Labels:    d.Labels,
		HeatScore: d.HeatScore,
	}, ok
}

// EpisodeItem is the dramabox wire shape for one episode.
type EpisodeItem struct {
	ChapterID source.FlexString `json:"chapterId"`
	ID        source.FlexString `json:"id"`

	ChapterIndex source.FlexInt `json:"chapterIndex"`
	Index        source.FlexInt `json:"index"`

	ChapterName string `json:"chapterName"`
	Name        string `json:"name"`

	// stream aliases; resolved lazily, often absent in list responses
	VideoURL string `json:"videoUrl"`
	Mp4      string `json:"mp4"`
	M3u8URL  string `json:"m3u8Url"`

	// lock aliases
	IsVip         source.FlexBool `json:"isVip"`
	IsCharge      source.FlexBool `json:"isCharge"`
	ChargeChapter source.FlexBool `json:"chargeChapter"`
	Unlock        *bool           `json:"unlock"`

	Duration source.FlexInt `json:"duration"`
}

func (e *EpisodeItem) locked() bool {
	if e.Unlock != nil {
		return !*e.Unlock
	}

	return e.IsVip.Bool() || e.IsCharge.Bool() || e.ChargeChapter.Bool()
}

// normalizeEpisodes orders raw episodes by their upstream index and assigns
// contiguous 1-based positions. The upstream index only drives the sort:
// historical responses disagree on whether it is 0- or 1-based, so the list
// position is authoritative.
func normalizeEpisodes(items []EpisodeItem) []domain.Episode {
	sort.SliceStable(items, func(i, j int) bool {
		return upstreamIndex(&items[i]) < upstreamIndex(&items[j])
	})

	episodes := make([]domain.Episode, 0, len(items))
	for i := range items {
		it := &items[i]
		episodes = append(episodes, domain.Episode{
			EpisodeID:       source.Coalesce(it.ChapterID, it.ID).String(),
			Index:           len(episodes) + 1,
			Name:            source.Coalesce(it.ChapterName, it.Name),
			Locked:          it.locked(),
			StreamURL:       source.Coalesce(it.VideoURL, it.Mp4, it.M3u8URL),
			DurationSeconds: it.Duration.Int(),
		})
	}

	return episodes
}

func upstreamIndex(e *EpisodeItem) int {
	return source.Coalesce(e.ChapterIndex, e.Index).Int()
}

// streamPayload covers the shapes the stream endpoint has returned: a flat
// object with url aliases, or a nested chapter/video object.
type streamPayload struct {
	VideoURL string `json:"videoUrl"`
	Mp4      string `json:"mp4"`
	M3u8URL  string `json:"m3u8Url"`
	URL      string `json:"url"`

	Chapter struct {
		Video struct {
			Mp4  string `json:"mp4"`
			M3u8 string `json:"m3u8"`
		} `json:"video"`
	} `json:"chapter"`
}

func (p *streamPayload) url() string {
	return source.Coalesce(p.VideoURL, p.Mp4, p.M3u8URL, p.URL, p.Chapter.Video.Mp4, p.Chapter.Video.M3u8)
}

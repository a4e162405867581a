package netshort

import (
	"sort"

	"drama-catalog-service/internal/domain"
	"drama-catalog-service/internal/infra/source"
)

// groupField is the nested item array inside netshort group payloads.
const groupField = "contentInfos"

// Item is the netshort wire shape for one short play. Field aliases cover
// the grouped theater feed and the flat search feed, which disagree on
// several names.
type Item struct {
	// id aliases
	ShortPlayID source.FlexString `json:"shortPlayId"`
	ID          source.FlexString `json:"id"`

	// title aliases
	ShortPlayName string `json:"shortPlayName"`
	Title         string `json:"title"`

	// cover aliases; grouped feeds carry a group-level cover fallback
	ShortPlayCover      string `json:"shortPlayCover"`
	GroupShortPlayCover string `json:"groupShortPlayCover"`
	Cover               string `json:"cover"`

	LabelArray []string `json:"labelArray"`
	Labels     []string `json:"labels"`

	HeatScore   float64 `json:"heatScore"`
	PublishTime int64   `json:"publishTime"`

	// episode-count aliases
	TotalEpisode source.FlexInt `json:"totalEpisode"`
	ChapterCount source.FlexInt `json:"chapterCount"`

	ScriptName   string `json:"scriptName"`
	Introduction string `json:"introduction"`
}

// ToDomain normalizes the item; ok is false when no alias yields an id or a
// title.
func (it *Item) ToDomain() (domain.Drama, bool) {
	d := domain.Drama{
		ID:           source.Coalesce(it.ShortPlayID, it.ID).String(),
		Title:        source.Coalesce(it.ShortPlayName, it.Title),
		Source:       domain.SourceNetshort,
		Cover:        source.Coalesce(it.ShortPlayCover, it.GroupShortPlayCover, it.Cover),
		Labels:       source.CoalesceSlice(it.LabelArray, it.Labels),
		EpisodeCount: source.Coalesce(it.TotalEpisode, it.ChapterCount).Int(),
		Introduction: source.Coalesce(it.Introduction, it.ScriptName),
		HeatScore:    it.HeatScore,
		PublishTime:  it.PublishTime,
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

// EpisodeItem is the netshort wire shape for one episode inside the play
// payload.
type EpisodeItem struct {
	ShortPlayInfoID source.FlexString `json:"shortPlayInfoId"`
	ChapterID       source.FlexString `json:"chapterId"`
	ID              source.FlexString `json:"id"`

	EpisodeIndex source.FlexInt `json:"episodeIndex"`
	Index        source.FlexInt `json:"index"`

	// stream aliases
	PlayURL  string `json:"playUrl"`
	VideoURL string `json:"videoUrl"`
	URL      string `json:"url"`

	// lock aliases
	IsLock   source.FlexBool `json:"isLock"`
	IsCharge source.FlexBool `json:"isCharge"`

	Duration source.FlexInt `json:"duration"`
}

// playPayload is the /play/{id} response: the short play merged with its
// episode list, under either of the list aliases, possibly enveloped.
type playPayload struct {
	Item

	ShortPlayInfos []EpisodeItem `json:"shortPlayInfos"`
	ChapterList    []EpisodeItem `json:"chapterList"`
	Episodes       []EpisodeItem `json:"episodes"`
}

func (p *playPayload) episodes() []domain.Episode {
	items := source.CoalesceSlice(p.ShortPlayInfos, p.ChapterList, p.Episodes)

	sort.SliceStable(items, func(i, j int) bool {
		return upstreamIndex(&items[i]) < upstreamIndex(&items[j])
	})

	episodes := make([]domain.Episode, 0, len(items))
	for i := range items {
		it := &items[i]
		episodes = append(episodes, domain.Episode{
			EpisodeID:       source.Coalesce(it.ShortPlayInfoID, it.ChapterID, it.ID).String(),
			Index:           len(episodes) + 1,
			Locked:          it.IsLock.Bool() || it.IsCharge.Bool(),
			StreamURL:       source.Coalesce(it.PlayURL, it.VideoURL, it.URL),
			DurationSeconds: it.Duration.Int(),
		})
	}

	return episodes
}

func upstreamIndex(e *EpisodeItem) int {
	return source.Coalesce(e.EpisodeIndex, e.Index).Int()
}

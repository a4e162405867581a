package netshort

import (
	"context"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"drama-catalog-service/internal/domain"
	"drama-catalog-service/internal/infra/source"
)

const testBaseURL = "https://netshort.example.com"

func newTestClient() *Client {
	cfg := source.ClientConfig{
		BaseURL: testBaseURL,
		Timeout: 5 * time.Second,
		Retry: source.RetryConfig{
			MaxAttempts: 2,
			WaitTime:    10 * time.Millisecond,
			MaxWaitTime: 50 * time.Millisecond,
		},
		CB: source.CBConfig{
			MaxRequests:  5,
			Interval:     60 * time.Second,
			Timeout:      15 * time.Second,
			FailureRatio: 0.9,
		},
	}
	client := New(cfg, zap.NewNop())

	httpmock.ActivateNonDefault(client.client.GetClient())

	return client
}

func TestNetshort_List_GroupedPayloadFlattened(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testBaseURL+"/theaters",
		httpmock.NewStringResponder(200, `[
			{"theaterName":"New Releases","contentInfos":[
				{"shortPlayId":301,"shortPlayName":"Billionaire's Return","groupShortPlayCover":"https://cdn/g1.jpg","labelArray":["Revenge"],"heatScore":9.1,"totalEpisode":70},
				{"shortPlayId":302,"shortPlayName":"Silent Bride","shortPlayCover":"https://cdn/302.jpg"}
			]},
			{"theaterName":"Hot","contentInfos":[
				{"shortPlayId":303,"shortPlayName":"Night Mayor"}
			]}
		]`))

	client := newTestClient()
	dramas, err := client.List(context.Background(), domain.CategoryDubbed)

	require.NoError(t, err)
	require.Len(t, dramas, 3)

	// Flattening preserves group order then item order.
	assert.Equal(t, "301", dramas[0].ID)
	assert.Equal(t, "Billionaire's Return", dramas[0].Title)
	assert.Equal(t, "https://cdn/g1.jpg", dramas[0].Cover)
	assert.Equal(t, []string{"Revenge"}, dramas[0].Labels)
	assert.Equal(t, 9.1, dramas[0].HeatScore)
	assert.Equal(t, 70, dramas[0].EpisodeCount)
	assert.Equal(t, domain.SourceNetshort, dramas[0].Source)

	assert.Equal(t, "https://cdn/302.jpg", dramas[1].Cover, "item cover wins over group cover")
	assert.Equal(t, "303", dramas[2].ID)
}

func TestNetshort_List_BareArray(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testBaseURL+"/latest",
		httpmock.NewStringResponder(200, `[{"shortPlayId":"9","shortPlayName":"Flat Feed"}]`))

	client := newTestClient()
	dramas, err := client.List(context.Background(), domain.CategoryLatest)

	require.NoError(t, err)
	require.Len(t, dramas, 1)
	assert.Equal(t, "9", dramas[0].ID)
}

func TestNetshort_List_EnvelopedGroups(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testBaseURL+"/trending",
		httpmock.NewStringResponder(200, `{"data":[
			{"contentInfos":[{"shortPlayId":1,"shortPlayName":"a"}]},
			{"contentInfos":[{"shortPlayId":2,"shortPlayName":"b"}]}
		]}`))

	client := newTestClient()
	dramas, err := client.List(context.Background(), domain.CategoryTrending)

	require.NoError(t, err)
	assert.Len(t, dramas, 2)
}

func TestNetshort_List_UnknownShape(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testBaseURL+"/foryou",
		httpmock.NewStringResponder(200, `{"status":"maintenance"}`))

	client := newTestClient()
	dramas, err := client.List(context.Background(), domain.CategoryForYou)

	require.NoError(t, err)
	assert.Empty(t, dramas)
}

func TestNetshort_Search(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponderWithQuery("GET", testBaseURL+"/search",
		map[string]string{"query": "bride"},
		httpmock.NewStringResponder(200, `{"data":[
			{"shortPlayId":302,"shortPlayName":"Silent Bride","cover":"https://cdn/302.jpg","heatScore":7.5},
			{"shortPlayName":"No ID, dropped"}
		]}`))

	client := newTestClient()
	results, err := client.Search(context.Background(), "bride")

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "302", results[0].ID)
	assert.Equal(t, "https://cdn/302.jpg", results[0].Cover)
	assert.Equal(t, 7.5, results[0].HeatScore)
	assert.Equal(t, domain.SourceNetshort, results[0].Source)
}

func TestNetshort_Detail_PlayPayload(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testBaseURL+"/play/301",
		httpmock.NewStringResponder(200, `{"data":{
			"shortPlayId":301,"shortPlayName":"Billionaire's Return","totalEpisode":3,
			"shortPlayInfos":[
				{"shortPlayInfoId":7002,"episodeIndex":2,"playUrl":"https://cdn/301-2.m3u8","isLock":true},
				{"shortPlayInfoId":7001,"episodeIndex":1,"playUrl":"https://cdn/301-1.m3u8","duration":88},
				{"shortPlayInfoId":7003,"episodeIndex":3,"playUrl":"https://cdn/301-3.m3u8","isCharge":"1"}
			]
		}}`))

	client := newTestClient()
	detail, err := client.Detail(context.Background(), "301")

	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, "Billionaire's Return", detail.Title)
	require.Len(t, detail.Episodes, 3)
	assert.Equal(t, "7001", detail.Episodes[0].EpisodeID)
	assert.Equal(t, 1, detail.Episodes[0].Index)
	assert.False(t, detail.Episodes[0].Locked)
	assert.Equal(t, 88, detail.Episodes[0].DurationSeconds)
	assert.True(t, detail.Episodes[1].Locked)
	assert.True(t, detail.Episodes[2].Locked, "string isCharge locks the episode")
}

func TestNetshort_Detail_UnusablePayload(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testBaseURL+"/play/404x",
		httpmock.NewStringResponder(200, `{"data":{"note":"nothing here"}}`))

	client := newTestClient()
	detail, err := client.Detail(context.Background(), "404x")

	require.NoError(t, err)
	assert.Nil(t, detail)
}

func TestNetshort_ResolveStream(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	playBody := `{"shortPlayId":301,"shortPlayName":"x","shortPlayInfos":[
		{"episodeIndex":1,"playUrl":"https://cdn/1.m3u8"},
		{"episodeIndex":2,"playUrl":"https://cdn/2.m3u8"}
	]}`

	httpmock.RegisterResponder("GET", testBaseURL+"/play/301",
		httpmock.NewStringResponder(200, playBody))

	client := newTestClient()

	url, err := client.ResolveStream(context.Background(), "301", 2)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/2.m3u8", url)

	url, err = client.ResolveStream(context.Background(), "301", 5)
	require.NoError(t, err)
	assert.Empty(t, url, "out-of-range episode resolves to nothing")
}

func TestNetshort_ResolveStream_DirectURLFallback(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	// The play path serves the video itself rather than a JSON payload.
	httpmock.RegisterResponder("GET", testBaseURL+"/play/888",
		httpmock.NewStringResponder(200, "\x00\x00binary"))

	client := newTestClient()
	url, err := client.ResolveStream(context.Background(), "888", 1)

	require.NoError(t, err)
	assert.Equal(t, testBaseURL+"/play/888", url)
}

func TestNetshort_UpstreamError(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testBaseURL+"/theaters",
		httpmock.NewStringResponder(429, "too many requests"))

	client := newTestClient()
	_, err := client.List(context.Background(), domain.CategoryOriginal)

	require.Error(t, err)
	assert.True(t, domain.IsRateLimited(err))

	var fe *domain.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, domain.SourceNetshort, fe.Source)
	assert.Equal(t, 429, fe.StatusCode)
}

func TestNetshort_Name(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	assert.Equal(t, domain.SourceNetshort, newTestClient().Name())
}

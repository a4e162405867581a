package dto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drama-catalog-service/internal/validator"
)

func newTestValidator() *validator.Validator {
	return validator.New()
}

func TestCatalogRequest_Validation(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name    string
		req     CatalogRequest
		wantErr bool
	}{
		{name: "empty request", req: CatalogRequest{}},
		{name: "category only", req: CatalogRequest{Category: "trending"}},
		{name: "source only", req: CatalogRequest{Source: "netshort"}},
		{name: "both", req: CatalogRequest{Category: "dubbed", Source: "dramabox"}},
		{name: "unknown category", req: CatalogRequest{Category: "horror"}, wantErr: true},
		{name: "unknown source", req: CatalogRequest{Source: "megadrama"}, wantErr: true},
		{name: "uppercase source rejected", req: CatalogRequest{Source: "DRAMABOX"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCatalogRequest_Validation_AllCategories(t *testing.T) {
	v := newTestValidator()

	for _, category := range []string{"latest", "trending", "foryou", "vip", "dubbed", "original"} {
		t.Run(category, func(t *testing.T) {
			req := CatalogRequest{Category: category}
			assert.NoError(t, v.Validate(&req))
		})
	}
}

func TestSearchRequest_Validation(t *testing.T) {
	v := newTestValidator()

	assert.NoError(t, v.Validate(&SearchRequest{}))
	assert.NoError(t, v.Validate(&SearchRequest{Query: "love after dark"}))
	assert.NoError(t, v.Validate(&SearchRequest{Query: "ceo", Source: "netshort"}))
	assert.Error(t, v.Validate(&SearchRequest{Query: "ceo", Source: "megadrama"}))
	assert.NoError(t, v.Validate(&SearchRequest{Query: strings.Repeat("a", 200)}))

	err := v.Validate(&SearchRequest{Query: strings.Repeat("a", 201)})
	require.Error(t, err)

	verrs, ok := err.(validator.ValidationErrors)
	require.True(t, ok)
	require.NotEmpty(t, verrs)
	assert.Equal(t, "max", verrs[0].Tag)
	assert.Contains(t, verrs[0].Message, "must be at most 200")
}

func TestStreamRequest_Validation(t *testing.T) {
	v := newTestValidator()

	assert.NoError(t, v.Validate(&StreamRequest{Episode: 1}))
	assert.Error(t, v.Validate(&StreamRequest{}), "episode is required")
	assert.Error(t, v.Validate(&StreamRequest{Episode: -3}))
}

func TestHistoryAddRequest_Validation(t *testing.T) {
	v := newTestValidator()

	valid := HistoryAddRequest{
		TitleID:         "41000123",
		TitleName:       "Love After Dark",
		PosterURL:       "https://cdn/a.jpg",
		CurrentEpisode:  3,
		TotalEpisodes:   82,
		ProgressPercent: 55.5,
		Source:          "dramabox",
	}
	assert.NoError(t, v.Validate(&valid))

	tests := []struct {
		name        string
		mutate      func(*HistoryAddRequest)
		expectField string
	}{
		{"missing id", func(r *HistoryAddRequest) { r.TitleID = "" }, "id"},
		{"missing title", func(r *HistoryAddRequest) { r.TitleName = "" }, "title"},
		{"missing platform", func(r *HistoryAddRequest) { r.Source = "" }, "platform"},
		{"unknown platform", func(r *HistoryAddRequest) { r.Source = "vhs" }, "platform"},
		{"progress above 100", func(r *HistoryAddRequest) { r.ProgressPercent = 101 }, "progress"},
		{"negative episode", func(r *HistoryAddRequest) { r.CurrentEpisode = -1 }, "episode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			err := v.Validate(&req)
			require.Error(t, err)

			verrs, ok := err.(validator.ValidationErrors)
			require.True(t, ok)

			fields := make([]string, 0, len(verrs))
			for _, ve := range verrs {
				fields = append(fields, ve.Field)
			}
			assert.Contains(t, fields, tt.expectField, "field names come from json tags")
		})
	}
}

func TestHistoryProgressRequest_Validation(t *testing.T) {
	v := newTestValidator()

	assert.NoError(t, v.Validate(&HistoryProgressRequest{Episode: 2, Progress: 0}))
	assert.NoError(t, v.Validate(&HistoryProgressRequest{Episode: 2, Progress: 100}))
	assert.Error(t, v.Validate(&HistoryProgressRequest{Progress: 50}), "episode is required")
	assert.Error(t, v.Validate(&HistoryProgressRequest{Episode: 1, Progress: -1}))
	assert.Error(t, v.Validate(&HistoryProgressRequest{Episode: 1, Progress: 100.5}))
}

func TestValidationErrors_Error(t *testing.T) {
	assert.Empty(t, validator.ValidationErrors{}.Error())

	errs := validator.ValidationErrors{
		{Field: "q", Message: "q must be at most 200"},
		{Field: "episode", Message: "episode is required"},
	}
	assert.Equal(t, "q must be at most 200; episode is required", errs.Error())
}

// Package handler provides HTTP handlers for the API.
package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"drama-catalog-service/internal/catalog"
	"drama-catalog-service/internal/domain"
	"drama-catalog-service/internal/transport/httpserver/dto"
	"drama-catalog-service/internal/validator"
)

// CatalogHandler handles catalog browsing, search, and stream resolution.
type CatalogHandler struct {
	service   *catalog.Service
	validator *validator.Validator
	logger    *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(svc *catalog.Service, v *validator.Validator, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		service:   svc,
		validator: v,
		logger:    logger,
	}
}

// List handles GET /api/v1/catalog
// Without a source it serves the combined view across every source; partial
// upstream failures still serve, only a total failure errors out.
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	var req dto.CatalogRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid query parameters",
			Code:  "INVALID_PARAMS",
		})
	}

	if err := h.validator.Validate(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Code:    "VALIDATION_ERROR",
			Details: err,
		})
	}

	category := domain.Category(req.Category)
	if req.Category == "" {
		category = domain.CategoryLatest
	}

	if req.Source != "" {
		dramas, err := h.service.ListByCategory(c.Context(), domain.Source(req.Source), category)
		if err != nil {
			return h.upstreamError(c, err)
		}

		return c.JSON(fiber.Map{
			"category": string(category),
			"source":   req.Source,
			"dramas": lo.Map(dramas, func(d domain.Drama, _ int) dto.DramaResponse {
				return dto.FromDrama(d)
			}),
		})
	}

	result := h.service.ListAll(c.Context(), category)
	if result.Errored {
		return h.allSourcesFailed(c, result.Results)
	}

	return c.JSON(dto.FromListResult(category, result))
}

// Categories handles GET /api/v1/catalog/categories
func (h *CatalogHandler) Categories(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"categories": domain.Categories(),
	})
}

// Random handles GET /api/v1/catalog/random
func (h *CatalogHandler) Random(c *fiber.Ctx) error {
	d, err := h.service.Random(c.Context())
	if err != nil {
		return h.upstreamError(c, err)
	}
	if d == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: "no title available",
			Code:  "NOT_FOUND",
		})
	}

	return c.JSON(dto.FromDrama(*d))
}

// Search handles GET /api/v1/search
// Without a source it fans out to every source; a blank query returns an
// empty result set without contacting upstreams.
func (h *CatalogHandler) Search(c *fiber.Ctx) error {
	var req dto.SearchRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid query parameters",
			Code:  "INVALID_PARAMS",
		})
	}

	if err := h.validator.Validate(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Code:    "VALIDATION_ERROR",
			Details: err,
		})
	}

	if req.Source != "" {
		results, err := h.service.SearchBySource(c.Context(), domain.Source(req.Source), req.Query)
		if err != nil {
			return h.upstreamError(c, err)
		}

		return c.JSON(fiber.Map{
			"query":  req.Query,
			"source": req.Source,
			"results": lo.Map(results, func(r domain.SearchResult, _ int) dto.SearchItemResponse {
				return dto.FromSearchItem(r)
			}),
		})
	}

	result := h.service.Search(c.Context(), req.Query)
	if result.Errored {
		for _, r := range result.Results {
			if domain.IsRateLimited(r.Err) {
				return h.rateLimited(c)
			}
		}

		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
			Error: "search failed on every source",
			Code:  "UPSTREAM_ERROR",
		})
	}

	return c.JSON(dto.FromSearchResult(req.Query, result))
}

// PopularSearches handles GET /api/v1/search/popular
func (h *CatalogHandler) PopularSearches(c *fiber.Ctx) error {
	terms := h.service.PopularSearches(c.Context())
	if terms == nil {
		terms = []string{}
	}

	return c.JSON(dto.PopularSearchesResponse{Terms: terms})
}

// Detail handles GET /api/v1/titles/:source/:id
func (h *CatalogHandler) Detail(c *fiber.Ctx) error {
	src, id := c.Params("source"), c.Params("id")

	detail, err := h.service.Detail(c.Context(), domain.Source(src), id)
	if err != nil {
		return h.upstreamError(c, err)
	}
	if detail == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: "title not found",
			Code:  "NOT_FOUND",
		})
	}

	return c.JSON(dto.FromDetail(detail))
}

// Stream handles GET /api/v1/titles/:source/:id/stream
func (h *CatalogHandler) Stream(c *fiber.Ctx) error {
	src, id := c.Params("source"), c.Params("id")

	var req dto.StreamRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid query parameters",
			Code:  "INVALID_PARAMS",
		})
	}

	if err := h.validator.Validate(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Code:    "VALIDATION_ERROR",
			Details: err,
		})
	}

	url, err := h.service.ResolveStream(c.Context(), domain.Source(src), id, req.Episode)
	if err != nil {
		return h.upstreamError(c, err)
	}
	if url == "" {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: "no stream for this episode",
			Code:  "NOT_FOUND",
		})
	}

	return c.JSON(dto.StreamResponse{
		Source:  src,
		ID:      id,
		Episode: req.Episode,
		URL:     url,
	})
}

func (h *CatalogHandler) upstreamError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrUnknownSource):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: err.Error(),
			Code:  "UNKNOWN_SOURCE",
		})
	case domain.IsRateLimited(err):
		return h.rateLimited(c)
	default:
		h.logger.Error("upstream request failed", zap.Error(err))

		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
			Error: "upstream request failed",
			Code:  "UPSTREAM_ERROR",
		})
	}
}

func (h *CatalogHandler) allSourcesFailed(c *fiber.Ctx, results []catalog.SourceList) error {
	for _, r := range results {
		if domain.IsRateLimited(r.Err) {
			return h.rateLimited(c)
		}
	}

	return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
		Error: "every source failed",
		Code:  "UPSTREAM_ERROR",
	})
}

func (h *CatalogHandler) rateLimited(c *fiber.Ctx) error {
	return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
		Error: "upstream rate limit hit, retry shortly",
		Code:  "RATE_LIMITED",
	})
}

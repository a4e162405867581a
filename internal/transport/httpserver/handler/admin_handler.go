package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"drama-catalog-service/internal/catalog"
	"drama-catalog-service/internal/domain"
	"drama-catalog-service/internal/transport/httpserver/dto"
)

// AdminHandler handles operational endpoints.
type AdminHandler struct {
	service *catalog.Service
	logger  *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(svc *catalog.Service, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		service: svc,
		logger:  logger,
	}
}

// Sources handles GET /api/v1/admin/sources
// Reports every registered source with a live reachability probe.
func (h *AdminHandler) Sources(c *fiber.Ctx) error {
	health := h.service.HealthBySource(c.Context())

	resp := dto.SourcesResponse{Sources: make([]dto.SourceHealth, 0, len(health))}
	for _, src := range h.service.Sources() {
		s := dto.SourceHealth{
			Source:  string(src),
			Healthy: health[src] == nil,
		}
		if err := health[src]; err != nil {
			s.Error = err.Error()
		}
		resp.Sources = append(resp.Sources, s)
	}

	return c.JSON(resp)
}

// Refresh handles POST /api/v1/admin/refresh
// Re-warms every category cache from the upstreams.
func (h *AdminHandler) Refresh(c *fiber.Ctx) error {
	h.logger.Info("manual cache refresh triggered")

	failed := []string{}
	for _, category := range domain.Categories() {
		if err := h.service.Warm(c.Context(), category); err != nil {
			h.logger.Warn("category refresh failed",
				zap.String("category", string(category)),
				zap.Error(err),
			)
			failed = append(failed, string(category))
		}
	}

	return c.JSON(fiber.Map{
		"refreshed": len(domain.Categories()) - len(failed),
		"failed":    failed,
	})
}

// ClearCache handles POST /api/v1/admin/cache/clear
func (h *AdminHandler) ClearCache(c *fiber.Ctx) error {
	h.logger.Info("manual cache clear triggered")

	if err := h.service.InvalidateAll(c.Context()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "cache clear failed",
			Code:  "INTERNAL_ERROR",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"drama-catalog-service/internal/domain"
	"drama-catalog-service/internal/history"
	"drama-catalog-service/internal/transport/httpserver/dto"
	"drama-catalog-service/internal/validator"
)

// HistoryHandler handles the watch-history endpoints. Mutations always
// answer success; the store absorbs its own failures.
type HistoryHandler struct {
	store     *history.Store
	validator *validator.Validator
	logger    *zap.Logger
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(store *history.Store, v *validator.Validator, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{
		store:     store,
		validator: v,
		logger:    logger,
	}
}

// List handles GET /api/v1/history
func (h *HistoryHandler) List(c *fiber.Ctx) error {
	entries := h.store.List(c.Context())

	return c.JSON(dto.HistoryResponse{
		Entries: entries,
		Count:   len(entries),
	})
}

// Get handles GET /api/v1/history/:id
func (h *HistoryHandler) Get(c *fiber.Ctx) error {
	entry := h.store.GetByTitleID(c.Context(), c.Params("id"))
	if entry == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: "no history for this title",
			Code:  "NOT_FOUND",
		})
	}

	return c.JSON(entry)
}

// Add handles POST /api/v1/history
func (h *HistoryHandler) Add(c *fiber.Ctx) error {
	var req dto.HistoryAddRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_BODY",
		})
	}

	if err := h.validator.Validate(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Code:    "VALIDATION_ERROR",
			Details: err,
		})
	}

	// An omitted episode means the viewer just started; positions are 1-based.
	if req.CurrentEpisode < 1 {
		req.CurrentEpisode = 1
	}

	h.store.Add(c.Context(), domain.WatchHistoryEntry{
		TitleID:         req.TitleID,
		TitleName:       req.TitleName,
		PosterURL:       req.PosterURL,
		CurrentEpisode:  req.CurrentEpisode,
		TotalEpisodes:   req.TotalEpisodes,
		ProgressPercent: req.ProgressPercent,
		Source:          domain.Source(req.Source),
	})

	return c.SendStatus(fiber.StatusNoContent)
}

// UpdateProgress handles PUT /api/v1/history/:id/progress
func (h *HistoryHandler) UpdateProgress(c *fiber.Ctx) error {
	var req dto.HistoryProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_BODY",
		})
	}

	if err := h.validator.Validate(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Code:    "VALIDATION_ERROR",
			Details: err,
		})
	}

	h.store.UpdateProgress(c.Context(), c.Params("id"), req.Episode, req.Progress)

	return c.SendStatus(fiber.StatusNoContent)
}

// Remove handles DELETE /api/v1/history/:id
func (h *HistoryHandler) Remove(c *fiber.Ctx) error {
	h.store.Remove(c.Context(), c.Params("id"))

	return c.SendStatus(fiber.StatusNoContent)
}

// Clear handles DELETE /api/v1/history
func (h *HistoryHandler) Clear(c *fiber.Ctx) error {
	h.store.Clear(c.Context())

	return c.SendStatus(fiber.StatusNoContent)
}

// Package httpserver provides HTTP server and routing.
package httpserver

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"drama-catalog-service/internal/catalog"
	"drama-catalog-service/internal/history"
	"drama-catalog-service/internal/transport/httpserver/handler"
	"drama-catalog-service/internal/transport/httpserver/middleware"
	"drama-catalog-service/internal/validator"
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	AppName   string
	Port      int
	BodyLimit int
}

// Server wraps Fiber app with handlers.
type Server struct {
	App    *fiber.App
	Logger *zap.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	cfg ServerConfig,
	catalogSvc *catalog.Service,
	historyStore *history.Store,
	redisClient *redis.Client,
	v *validator.Validator,
	logger *zap.Logger,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: errorHandler(logger),
	})

	// Health check middleware MUST be registered BEFORE other middleware
	// for Kubernetes probes to work even during high load
	app.Use(middleware.NewHealthCheck(redisClient))

	// Global middleware
	app.Use(requestid.New())
	app.Use(middleware.Recover(logger))
	app.Use(middleware.Logger(logger))
	app.Use(middleware.CORS())
	app.Use(compress.New())

	catalogHandler := handler.NewCatalogHandler(catalogSvc, v, logger)
	historyHandler := handler.NewHistoryHandler(historyStore, v, logger)
	adminHandler := handler.NewAdminHandler(catalogSvc, logger)

	registerRoutes(app, catalogHandler, historyHandler, adminHandler)

	return &Server{
		App:    app,
		Logger: logger,
	}
}

// registerRoutes sets up all API routes.
func registerRoutes(
	app *fiber.App,
	catalogHandler *handler.CatalogHandler,
	historyHandler *handler.HistoryHandler,
	adminHandler *handler.AdminHandler,
) {
	// Health checks are handled by middleware (/livez, /readyz)

	v1 := app.Group("/api/v1")

	// Catalog
	cat := v1.Group("/catalog")
	cat.Get("/", catalogHandler.List)
	cat.Get("/categories", catalogHandler.Categories)
	cat.Get("/random", catalogHandler.Random)

	// Search
	v1.Get("/search", catalogHandler.Search)
	v1.Get("/search/popular", catalogHandler.PopularSearches)

	// Titles
	titles := v1.Group("/titles")
	titles.Get("/:source/:id", catalogHandler.Detail)
	titles.Get("/:source/:id/stream", catalogHandler.Stream)

	// Watch history
	hist := v1.Group("/history")
	hist.Get("/", historyHandler.List)
	hist.Post("/", historyHandler.Add)
	hist.Delete("/", historyHandler.Clear)
	hist.Get("/:id", historyHandler.Get)
	hist.Put("/:id/progress", historyHandler.UpdateProgress)
	hist.Delete("/:id", historyHandler.Remove)

	// Admin routes
	admin := v1.Group("/admin")
	admin.Get("/sources", adminHandler.Sources)
	admin.Post("/refresh", adminHandler.Refresh)
	admin.Post("/cache/clear", adminHandler.ClearCache)
}

// errorHandler returns a custom error handler that logs based on HTTP status code.
// 404s are logged at DEBUG level (expected client behavior), 4xx at WARN, 5xx at ERROR.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		switch {
		case code == fiber.StatusNotFound:
			logger.Debug("resource not found",
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
			)
		case code >= 500:
			logger.Error("server error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		case code >= 400:
			logger.Warn("client error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		default:
			logger.Error("unhandled error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		}

		return c.Status(code).JSON(fiber.Map{
			"error": err.Error(),
			"code":  "UNHANDLED_ERROR",
		})
	}
}

// Start starts the HTTP server.
func (s *Server) Start(port int) error {
	s.Logger.Info("starting HTTP server", zap.Int("port", port))

	return s.App.Listen(fmt.Sprintf(":%d", port))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	s.Logger.Info("shutting down HTTP server")

	return s.App.Shutdown()
}

package main

import (
	"time"

	"note-board/cmd/server/handlers"
	"note-board/cmd/server/handlers/httperr"
	notesHandlers "note-board/cmd/server/handlers/notes"
	"note-board/cmd/server/middlewares"
	"note-board/internal/config"
	"note-board/internal/logger"
	notesServices "note-board/internal/services/notes"

	_ "note-board/docs" // Load swagger docs

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
)

const (
	RateLimitExpiration = 1 * time.Minute
)

// routerDeps are the long-lived objects main builds before the router
type routerDeps struct {
	Store *notesServices.Store
	Hub   *notesServices.Hub
	DB    handlers.Pinger
}

// setupRouter configures and returns a Fiber app with all routes
func setupRouter(cfg config.Config, deps routerDeps) *fiber.App {
	v := validator.New()
	if err := notesServices.RegisterColorValidator(v); err != nil {
		logger.L().Error(notesServices.ErrRegisterColorRule.Error(), "error", err)
		panic(err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          httperr.Handler,
		Immutable:             true, // make Fiber copy all request-derived strings
		BodyLimit:             cfg.BodyLimitMB * 1024 * 1024,
		DisableStartupMessage: true,
	})

	// Global middlewares
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Content-Type, Authorization, If-None-Match",
		ExposeHeaders: "ETag",
	}))

	middlewares.AttachMetrics(app, cfg.RouteMetricsEnabled,
		notesServices.Collectors(deps.Store, deps.Hub)...)

	// Health check endpoint, outside versioned API to appease scanners and to avoid logging
	app.Get("/healthz", handlers.Healthz(deps.DB, deps.Store))

	app.Get("/docs/*", swagger.HandlerDefault)

	v1Handlers := []fiber.Handler{
		middlewares.BuildRateLimiter(cfg.RateLimitPerMin, RateLimitExpiration),
	}
	if cfg.RequestLoggingEnabled {
		v1Handlers = append(v1Handlers, fiberlogger.New())
		logger.L().Info("request logging enabled")
	} else {
		logger.L().Info("request logging disabled")
	}
	v1Handlers = append(v1Handlers, middlewares.JWT(cfg))
	if !cfg.AuthEnabled() {
		logger.L().Warn("JWT_SECRET not set, the API is open to anyone who can reach the port")
	}

	v1 := app.Group("/api/v1", v1Handlers...)

	notesH := notesHandlers.NewHandlers(deps.Store, v, nil)

	v1.Get("/palette", notesH.Palette)

	notesGrp := v1.Group("/notes")
	notesGrp.Get("/", notesH.List)
	notesGrp.Post("/", notesH.Create)
	notesGrp.Post("/reorder", notesH.Reorder)
	notesGrp.Post("/hover", notesH.Hover)
	notesGrp.Patch("/:id", notesH.Update)
	notesGrp.Delete("/:id", notesH.Delete)
	notesGrp.Post("/:id/duplicate", notesH.Duplicate)
	notesGrp.Put("/:id/color", notesH.SetColor)

	trashGrp := v1.Group("/trash")
	trashGrp.Get("/", notesH.ListTrash)
	trashGrp.Delete("/", notesH.EmptyTrash)
	trashGrp.Post("/:id/restore", notesH.Restore)
	trashGrp.Delete("/:id", notesH.Purge)

	editorGrp := v1.Group("/editor")
	editorGrp.Get("/", notesH.GetEditor)
	editorGrp.Put("/:id", notesH.OpenEditor)
	editorGrp.Delete("/", notesH.CloseEditor)

	// WebSocket routes
	wsHandlers := notesHandlers.NewWebSocketHandlers(deps.Hub, cfg.JWTSecret, cfg.WSMaxSessionSec)
	app.Use("/ws", notesHandlers.LogWSConnections(cfg.JWTSecret))
	app.Get("/ws/notes/stream", wsHandlers.WSUpgrade, websocket.New(wsHandlers.WSNotesStream))

	return app
}

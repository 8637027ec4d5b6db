// Package http содержит компоненты для HTTP сервера.
package http

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"

	"mindmapr/internal/journal/adapters/http/entries"
	"mindmapr/internal/journal/adapters/http/middleware"
	"mindmapr/internal/journal/metrics"
	"mindmapr/internal/journal/ports/services"
)

// MsgWelcome - ответ корневого маршрута.
const MsgWelcome = "Welcome to the MindMapr API"

// Pinger проверяет доступность хранилища.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies - зависимости HTTP сервера.
type Dependencies struct {
	Entries  services.EntryService
	Queries  services.QueryService
	Tokens   services.TokenService
	Metrics  *metrics.Metrics
	Store    Pinger
	MaxLimit int
}

// SetupRouter настраивает маршрутизацию для HTTP сервера.
func SetupRouter(app *fiber.App, deps Dependencies) {
	entriesHandler := entries.NewHandler(deps.Entries, deps.Queries, deps.MaxLimit)

	// Middleware для всех запросов.
	app.Use(middleware.NewRequestIDMiddleware())
	app.Use(middleware.NewLoggerMiddleware(deps.Metrics))
	app.Use(middleware.NewRecoveryMiddleware())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString(MsgWelcome)
	})
	app.Get("/health", healthHandler(deps.Store))
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	// Маршруты записей (требуют авторизации).
	entryRoutes := app.Group("/api/entries")
	entryRoutes.Use(middleware.NewAuthMiddleware(deps.Tokens))
	entryRoutes.Get("/", entriesHandler.List)
	entryRoutes.Get("/all", entriesHandler.ListAll)
	entryRoutes.Post("/", entriesHandler.Create)
	entryRoutes.Get("/:id", entriesHandler.Get)
	entryRoutes.Put("/:id", entriesHandler.Update)
	entryRoutes.Delete("/:id", entriesHandler.Delete)

	// Обработчик для несуществующих маршрутов.
	app.Use(func(c fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(entries.MessageResponse{
			Message: "Route not found",
		})
	})
}

func healthHandler(store Pinger) fiber.Handler {
	return func(c fiber.Ctx) error {
		if store != nil {
			if err := store.Ping(middleware.RequestContext(c)); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}

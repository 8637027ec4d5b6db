// Package entries содержит HTTP обработчики записей дневника.
package entries

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"mindmapr/internal/journal/adapters/http/middleware"
	"mindmapr/internal/journal/app"
	"mindmapr/internal/journal/domain/entities"
	"mindmapr/internal/journal/ports/services"
	"mindmapr/pkg/logger"
)

// Сообщения ответов.
const (
	MsgInvalidRequestBody = "Invalid request body"
	MsgContentRequired    = "Content is required"
	MsgEntryNotFound      = "Entry not found"
	MsgEntryRemoved       = "Entry removed"
	MsgUnauthorized       = "User is not authenticated"
)

// Handler обрабатывает HTTP запросы к записям.
type Handler struct {
	entries  services.EntryService
	queries  services.QueryService
	validate *validator.Validate
	maxLimit int
}

// NewHandler создает обработчик записей.
func NewHandler(entries services.EntryService, queries services.QueryService, maxLimit int) *Handler {
	return &Handler{
		entries:  entries,
		queries:  queries,
		validate: newValidator(),
		maxLimit: maxLimit,
	}
}

// Create обрабатывает POST /entries.
func (h *Handler) Create(ctx fiber.Ctx) error {
	userCtx, userID, ok := authenticated(ctx)
	if !ok {
		return sendMessage(ctx, fiber.StatusUnauthorized, MsgUnauthorized)
	}

	var req EntryRequest
	if err := ctx.Bind().Body(&req); err != nil {
		logger.Log(userCtx).Debug(userCtx, "failed to parse request body", zap.Error(err))
		return sendMessage(ctx, fiber.StatusBadRequest, MsgInvalidRequestBody)
	}
	if err := h.validate.Struct(req); err != nil || strings.TrimSpace(req.Content) == "" {
		return sendMessage(ctx, fiber.StatusBadRequest, MsgContentRequired)
	}

	entry, err := h.entries.CreateEntry(userCtx, userID, req.Content)
	if err != nil {
		return handleError(ctx, userCtx, "Handler.Create", err)
	}

	if err := ctx.Status(fiber.StatusCreated).JSON(entry); err != nil {
		return fmt.Errorf("failed to send create entry response: %w", err)
	}
	return nil
}

// List обрабатывает GET /entries.
func (h *Handler) List(ctx fiber.Ctx) error {
	userCtx, userID, ok := authenticated(ctx)
	if !ok {
		return sendMessage(ctx, fiber.StatusUnauthorized, MsgUnauthorized)
	}

	// order принимается, но не влияет на выборку.
	params := entities.ParseListParams(
		ctx.Query("page"),
		ctx.Query("limit"),
		ctx.Query("sortBy"),
		ctx.Query("search"),
		ctx.Query("mood"),
		h.maxLimit,
	)

	page, err := h.queries.ListEntries(userCtx, userID, params)
	if err != nil {
		return handleError(ctx, userCtx, "Handler.List", err)
	}

	if err := ctx.JSON(page); err != nil {
		return fmt.Errorf("failed to send list entries response: %w", err)
	}
	return nil
}

// ListAll обрабатывает GET /entries/all.
func (h *Handler) ListAll(ctx fiber.Ctx) error {
	userCtx, userID, ok := authenticated(ctx)
	if !ok {
		return sendMessage(ctx, fiber.StatusUnauthorized, MsgUnauthorized)
	}

	all, err := h.queries.ListAllEntries(userCtx, userID)
	if err != nil {
		return handleError(ctx, userCtx, "Handler.ListAll", err)
	}
	if all == nil {
		all = []*entities.Entry{}
	}

	if err := ctx.JSON(all); err != nil {
		return fmt.Errorf("failed to send all entries response: %w", err)
	}
	return nil
}

// Get обрабатывает GET /entries/:id.
func (h *Handler) Get(ctx fiber.Ctx) error {
	userCtx, userID, ok := authenticated(ctx)
	if !ok {
		return sendMessage(ctx, fiber.StatusUnauthorized, MsgUnauthorized)
	}

	entry, err := h.entries.GetEntry(userCtx, userID, ctx.Params("id"))
	if err != nil {
		return handleError(ctx, userCtx, "Handler.Get", err)
	}

	if err := ctx.JSON(entry); err != nil {
		return fmt.Errorf("failed to send entry response: %w", err)
	}
	return nil
}

// Update обрабатывает PUT /entries/:id.
func (h *Handler) Update(ctx fiber.Ctx) error {
	userCtx, userID, ok := authenticated(ctx)
	if !ok {
		return sendMessage(ctx, fiber.StatusUnauthorized, MsgUnauthorized)
	}

	var req UpdateEntryRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.Bind().Body(&req); err != nil {
			logger.Log(userCtx).Debug(userCtx, "failed to parse request body", zap.Error(err))
			return sendMessage(ctx, fiber.StatusBadRequest, MsgInvalidRequestBody)
		}
	}

	entry, err := h.entries.UpdateEntry(userCtx, userID, ctx.Params("id"), req.Content)
	if err != nil {
		return handleError(ctx, userCtx, "Handler.Update", err)
	}

	if err := ctx.JSON(entry); err != nil {
		return fmt.Errorf("failed to send update entry response: %w", err)
	}
	return nil
}

// Delete обрабатывает DELETE /entries/:id.
func (h *Handler) Delete(ctx fiber.Ctx) error {
	userCtx, userID, ok := authenticated(ctx)
	if !ok {
		return sendMessage(ctx, fiber.StatusUnauthorized, MsgUnauthorized)
	}

	if err := h.entries.DeleteEntry(userCtx, userID, ctx.Params("id")); err != nil {
		return handleError(ctx, userCtx, "Handler.Delete", err)
	}

	return sendMessage(ctx, fiber.StatusOK, MsgEntryRemoved)
}

func authenticated(ctx fiber.Ctx) (context.Context, string, bool) {
	userCtx := middleware.RequestContext(ctx)
	userID, ok := middleware.UserID(userCtx)
	return userCtx, userID, ok
}

func handleError(ctx fiber.Ctx, userCtx context.Context, handler string, err error) error {
	log := logger.Log(userCtx).With(zap.String("handler", handler))

	switch {
	case errors.Is(err, app.ErrValidation):
		log.Debug(userCtx, "validation failed", zap.Error(err))
		return sendMessage(ctx, fiber.StatusBadRequest, MsgContentRequired)
	case errors.Is(err, app.ErrNotFound):
		return sendMessage(ctx, fiber.StatusNotFound, MsgEntryNotFound)
	default:
		log.Error(userCtx, "request failed", zap.Error(err))
		return sendMessage(ctx, fiber.StatusInternalServerError, middleware.MsgInternalError)
	}
}

func sendMessage(ctx fiber.Ctx, status int, message string) error {
	if err := ctx.Status(status).JSON(MessageResponse{Message: message}); err != nil {
		return fmt.Errorf("failed to send message response: %w", err)
	}
	return nil
}

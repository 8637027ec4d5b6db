// Package middleware содержит промежуточное ПО для HTTP обработчиков.
package middleware

import (
	"context"

	"github.com/gofiber/fiber/v3"
)

// UserContextKey - ключ Locals с контекстом запроса.
const UserContextKey = "userContext"

type userIDKey struct{}

// RequestContext возвращает контекст, подготовленный middleware, либо контекст fiber.
func RequestContext(ctx fiber.Ctx) context.Context {
	if userCtx, ok := ctx.Locals(UserContextKey).(context.Context); ok {
		return userCtx
	}
	return ctx.Context()
}

func setRequestContext(ctx fiber.Ctx, requestCtx context.Context) {
	ctx.Locals(UserContextKey, requestCtx)
}

// WithUserID сохраняет идентификатор аутентифицированного пользователя.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserID возвращает идентификатор аутентифицированного пользователя.
func UserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey{}).(string)
	return userID, ok && userID != ""
}

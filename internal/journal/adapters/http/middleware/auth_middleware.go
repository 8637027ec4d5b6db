package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"mindmapr/internal/journal/ports/services"
	"mindmapr/pkg/logger"
)

// Константы для логирования.
const (
	ErrorNoAuthHeader       = "No authorization header provided"
	ErrorInvalidTokenFormat = "Invalid token format"
	ErrorInvalidToken       = "Invalid or expired token"
)

const bearerPrefix = "Bearer "

// NewAuthMiddleware проверяет Bearer-токен и кладет идентификатор пользователя в контекст запроса.
// Идентификатор из тела или строки запроса никогда не используется.
func NewAuthMiddleware(tokens services.TokenService) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := RequestContext(ctx)
		log := logger.Log(requestCtx).With(zap.String("middleware", "auth"))

		authHeader := ctx.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			log.Debug(requestCtx, ErrorNoAuthHeader)
			return unauthorized(ctx, ErrorNoAuthHeader)
		}

		if !strings.HasPrefix(authHeader, bearerPrefix) {
			log.Debug(requestCtx, ErrorInvalidTokenFormat)
			return unauthorized(ctx, ErrorInvalidTokenFormat)
		}

		userID, err := tokens.ValidateAccessToken(requestCtx, strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix)))
		if err != nil {
			if !errors.Is(err, services.ErrInvalidJWTToken) && !errors.Is(err, services.ErrExpiredJWTToken) {
				log.Error(requestCtx, "token validation failed", zap.Error(err))
			}
			return unauthorized(ctx, ErrorInvalidToken)
		}

		setRequestContext(ctx, WithUserID(requestCtx, userID))

		return ctx.Next()
	}
}

func unauthorized(ctx fiber.Ctx, message string) error {
	return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": message})
}

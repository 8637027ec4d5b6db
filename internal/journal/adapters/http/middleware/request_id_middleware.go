package middleware

import (
	"github.com/gofiber/fiber/v3"

	"mindmapr/pkg/logger"
)

// HeaderRequestID - заголовок с идентификатором запроса.
const HeaderRequestID = "X-Request-ID"

// NewRequestIDMiddleware берет X-Request-ID из запроса (недопустимое значение
// заменяется сгенерированным) и возвращает его в ответе.
func NewRequestIDMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := logger.NewRequestIDContext(RequestContext(ctx), ctx.Get(HeaderRequestID))
		requestID, _ := logger.GetRequestID(requestCtx)

		ctx.Set(HeaderRequestID, requestID)
		setRequestContext(ctx, requestCtx)

		return ctx.Next()
	}
}

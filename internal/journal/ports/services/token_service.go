package services

import (
	"context"
	"errors"
)

// TokenService проверяет access токен и возвращает идентификатор пользователя.
type TokenService interface {
	ValidateAccessToken(ctx context.Context, token string) (string, error)
}

// Ошибки JWT токенов.
var (
	ErrInvalidJWTToken = errors.New("invalid JWT token")
	ErrExpiredJWTToken = errors.New("JWT token has expired")
)

// Package classifier определяет настроение записи через внешнюю модель.
// Любая неудача превращается в резервный результат (neutral, 0.0).
package classifier

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"mindmapr/internal/journal/config"
	"mindmapr/internal/journal/domain/entities"
	"mindmapr/internal/journal/metrics"
	"mindmapr/internal/journal/ports/services"
	"mindmapr/internal/journal/resilience"
	"mindmapr/pkg/logger"
)

// ErrClassificationUnavailable не покидает адаптер: он только логируется.
var ErrClassificationUnavailable = errors.New("classification unavailable")

// Константы для логирования.
const (
	LogClassificationFallback = "mood classification unavailable, using fallback"
	LogClassified             = "mood classified"
	LogCacheFailure           = "classification cache unavailable"
)

// Причины перехода на резервный результат.
const (
	ReasonNotConfigured = "not_configured"
	ReasonEmptyInput    = "empty_input"
	ReasonTimeout       = "timeout"
	ReasonCircuitOpen   = "circuit_open"
	ReasonProvider      = "provider_error"
	ReasonNoPayload     = "no_payload"
	ReasonInvalid       = "invalid_payload"
)

// Options задает параметры адаптера.
type Options struct {
	Model    string
	Timeout  time.Duration
	Breaker  resilience.CircuitBreakerConfig
	Retry    resilience.RetryConfig
	Cache    services.ResultCache
	CacheTTL time.Duration
	Metrics  *metrics.Metrics
}

// Adapter реализует services.MoodClassifier.
type Adapter struct {
	provider Provider
	policy   *resilience.Policy
	opts     Options
}

var _ services.MoodClassifier = (*Adapter)(nil)

// New создает адаптер поверх Gemini. Без ключа доступа адаптер всегда
// возвращает резервный результат.
func New(cfg *config.ClassifierConfig, cache services.ResultCache, cacheTTL time.Duration, m *metrics.Metrics) *Adapter {
	var provider Provider
	if cfg.Configured() {
		provider = NewGeminiProvider(cfg)
	}

	retry := resilience.DefaultRetryConfig()
	retry.MaxAttempts = cfg.MaxAttempts
	retry.InitialBackoff = cfg.RetryDelay
	retry.ShouldRetry = shouldRetry

	return NewAdapter(provider, Options{
		Model:   cfg.Model,
		Timeout: cfg.GetTimeout(),
		Breaker: resilience.CircuitBreakerConfig{
			ErrorThreshold:   cfg.BreakerThreshold,
			Cooldown:         cfg.BreakerCooldown,
			SuccessThreshold: 1,
		},
		Retry:    retry,
		Cache:    cache,
		CacheTTL: cacheTTL,
		Metrics:  m,
	})
}

// NewAdapter создает адаптер с произвольным провайдером.
func NewAdapter(provider Provider, opts Options) *Adapter {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Retry.ShouldRetry == nil {
		opts.Retry.ShouldRetry = shouldRetry
	}
	return &Adapter{
		provider: provider,
		policy:   resilience.NewPolicy("mood-classifier", opts.Breaker, opts.Retry),
		opts:     opts,
	}
}

// Classify возвращает настроение текста или резервный результат. Не блокирует
// вызывающего дольше Timeout.
func (a *Adapter) Classify(ctx context.Context, text string) entities.MoodResult {
	log := logger.Log(ctx).With(zap.String("method", "Adapter.Classify"), zap.String("model", a.opts.Model))
	start := time.Now()

	fallback := func(reason string, err error) entities.MoodResult {
		log.Warn(ctx, LogClassificationFallback,
			zap.String("reason", reason),
			zap.Error(errors.Join(ErrClassificationUnavailable, err)))
		a.opts.Metrics.ObserveClassification(metrics.OutcomeFallback, reason, time.Since(start))
		return entities.FallbackMood()
	}

	if strings.TrimSpace(text) == "" {
		return fallback(ReasonEmptyInput, nil)
	}
	if a.provider == nil {
		return fallback(ReasonNotConfigured, nil)
	}

	key := a.cacheKey(text)
	if result, ok := a.cached(ctx, log, key); ok {
		a.opts.Metrics.ObserveClassification(metrics.OutcomeCached, "", time.Since(start))
		return result
	}

	callCtx, cancel := context.WithTimeout(ctx, a.opts.Timeout)
	defer cancel()

	prompt := BuildPrompt(text)
	raw, err := resilience.Do(callCtx, a.policy, func(ctx context.Context) (string, error) {
		return a.provider.Generate(ctx, prompt)
	})
	if err != nil {
		return fallback(failureReason(err), err)
	}

	result, err := ParseResponse(raw)
	if err != nil {
		if errors.Is(err, ErrNoPayload) {
			return fallback(ReasonNoPayload, err)
		}
		return fallback(ReasonInvalid, err)
	}

	a.store(ctx, log, key, result)

	log.Debug(ctx, LogClassified,
		zap.String("mood", string(result.Label)),
		zap.Float64("confidence", result.Confidence))
	a.opts.Metrics.ObserveClassification(metrics.OutcomeClassified, "", time.Since(start))

	return result
}

func (a *Adapter) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(a.opts.Model + "\x00" + text))
	return hex.EncodeToString(sum[:])
}

// cached читает только результаты, повторно прошедшие проверку.
func (a *Adapter) cached(ctx context.Context, log *logger.Logger, key string) (entities.MoodResult, bool) {
	if a.opts.Cache == nil {
		return entities.MoodResult{}, false
	}

	value, err := a.opts.Cache.Get(ctx, key)
	if err != nil {
		log.Warn(ctx, LogCacheFailure, zap.Error(err))
		return entities.MoodResult{}, false
	}
	if value == "" {
		return entities.MoodResult{}, false
	}

	result, err := ParsePayload(value)
	if err != nil {
		return entities.MoodResult{}, false
	}
	return result, true
}

func (a *Adapter) store(ctx context.Context, log *logger.Logger, key string, result entities.MoodResult) {
	if a.opts.Cache == nil {
		return
	}

	value, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := a.opts.Cache.Set(ctx, key, string(value), a.opts.CacheTTL); err != nil {
		log.Warn(ctx, LogCacheFailure, zap.Error(err))
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, resilience.ErrCircuitOpen):
		return ReasonCircuitOpen
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	default:
		return ReasonProvider
	}
}

// shouldRetry повторяет сетевые сбои, 429 и 5xx. Ответы 4xx и блокировки не повторяются.
func shouldRetry(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrBlocked) || errors.Is(err, ErrEmptyCompletion) {
		return false
	}
	var status *StatusError
	if errors.As(err, &status) {
		return status.Retryable()
	}
	return true
}

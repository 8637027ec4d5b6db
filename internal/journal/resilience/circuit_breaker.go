// Package resilience содержит механизмы обеспечения отказоустойчивости внешних вызовов.
package resilience

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"mindmapr/pkg/logger"
)

// CircuitState представляет состояние Circuit Breaker.
type CircuitState int

// Состояния Circuit Breaker.
const (
	// StateClosed - нормальное состояние, запросы проходят.
	StateClosed CircuitState = iota
	// StateOpen - состояние отказа, запросы блокируются.
	StateOpen
	// StateHalfOpen - пробные запросы после паузы.
	StateHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Константы для логирования.
const (
	LogCircuitTrip   = "circuit breaker tripped"
	LogCircuitReset  = "circuit breaker reset"
	LogCircuitProbe  = "circuit breaker allowing probe"
	LogCircuitReject = "circuit breaker rejected request"
)

// ErrCircuitOpen возвращается, когда Circuit Breaker находится в открытом состоянии.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreakerConfig содержит настройки Circuit Breaker.
type CircuitBreakerConfig struct {
	// ErrorThreshold - число подряд идущих ошибок до размыкания.
	ErrorThreshold int
	// Cooldown - пауза, после которой разрешается пробный запрос.
	Cooldown time.Duration
	// SuccessThreshold - число успешных проб для замыкания.
	SuccessThreshold int
}

// DefaultCircuitBreakerConfig возвращает конфигурацию Circuit Breaker по умолчанию.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		ErrorThreshold:   5,
		Cooldown:         30 * time.Second,
		SuccessThreshold: 1,
	}
}

// CircuitBreaker размыкается после серии ошибок и пропускает пробы после Cooldown.
type CircuitBreaker struct {
	name   string
	config CircuitBreakerConfig

	mu        sync.Mutex
	state     CircuitState
	failures  int
	successes int
	changedAt time.Time
}

// NewCircuitBreaker создает новый экземпляр Circuit Breaker.
func NewCircuitBreaker(name string, config CircuitBreakerConfig) *CircuitBreaker {
	if config.ErrorThreshold <= 0 {
		config.ErrorThreshold = DefaultCircuitBreakerConfig().ErrorThreshold
	}
	if config.SuccessThreshold <= 0 {
		config.SuccessThreshold = 1
	}
	return &CircuitBreaker{
		name:      name,
		config:    config,
		state:     StateClosed,
		changedAt: time.Now(),
	}
}

// Execute выполняет функцию с защитой Circuit Breaker.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	if !cb.Allow(ctx) {
		return ErrCircuitOpen
	}

	err := fn(ctx)
	cb.Record(ctx, err)
	return err
}

// Allow сообщает, можно ли выполнить запрос сейчас.
func (cb *CircuitBreaker) Allow(ctx context.Context) bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateOpen:
		if time.Since(cb.changedAt) < cb.config.Cooldown {
			cb.logger(ctx).Debug(ctx, LogCircuitReject)
			return false
		}
		cb.setState(StateHalfOpen)
		cb.logger(ctx).Info(ctx, LogCircuitProbe)
		return true
	default:
		return true
	}
}

// Record учитывает результат выполнения запроса.
// Отмена контекста вызывающей стороной не считается отказом зависимости.
func (cb *CircuitBreaker) Record(ctx context.Context, err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil && errors.Is(err, context.Canceled) {
		return
	}

	if err != nil {
		cb.failures++
		if cb.state == StateHalfOpen || cb.failures >= cb.config.ErrorThreshold {
			if cb.state != StateOpen {
				cb.logger(ctx).Warn(ctx, LogCircuitTrip, zap.Int("failures", cb.failures), zap.Error(err))
			}
			cb.setState(StateOpen)
		}
		return
	}

	switch cb.state {
	case StateHalfOpen:
		cb.successes++
		if cb.successes >= cb.config.SuccessThreshold {
			cb.setState(StateClosed)
			cb.logger(ctx).Info(ctx, LogCircuitReset)
		}
	default:
		cb.failures = 0
	}
}

// State возвращает текущее состояние Circuit Breaker.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *CircuitBreaker) setState(state CircuitState) {
	cb.state = state
	cb.changedAt = time.Now()
	cb.successes = 0
	if state != StateHalfOpen {
		cb.failures = 0
	}
}

func (cb *CircuitBreaker) logger(ctx context.Context) *logger.Logger {
	return logger.Log(ctx).With(
		zap.String("circuit_breaker", cb.name),
		zap.Stringer("circuit_state", cb.state))
}

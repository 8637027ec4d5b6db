package resilience

import (
	"context"
)

// Policy объединяет Circuit Breaker и retry: все попытки одного вызова
// учитываются breaker'ом как один результат.
type Policy struct {
	breaker *CircuitBreaker
	retry   *Retry
}

// NewPolicy создает политику отказоустойчивости для внешней зависимости.
func NewPolicy(name string, breaker CircuitBreakerConfig, retry RetryConfig) *Policy {
	return &Policy{
		breaker: NewCircuitBreaker(name, breaker),
		retry:   NewRetry(name, retry),
	}
}

// Execute выполняет операцию под защитой политики.
func (p *Policy) Execute(ctx context.Context, operation func(context.Context) error) error {
	return p.breaker.Execute(ctx, func(ctx context.Context) error {
		return p.retry.Execute(ctx, operation)
	})
}

// State возвращает состояние breaker'а.
func (p *Policy) State() CircuitState {
	return p.breaker.State()
}

// Do выполняет операцию с результатом под защитой политики.
func Do[T any](ctx context.Context, p *Policy, operation func(context.Context) (T, error)) (T, error) {
	var result T
	err := p.Execute(ctx, func(ctx context.Context) error {
		value, err := operation(ctx)
		if err != nil {
			return err
		}
		result = value
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

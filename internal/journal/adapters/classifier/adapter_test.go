package classifier_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindmapr/internal/journal/adapters/classifier"
	"mindmapr/internal/journal/config"
	"mindmapr/internal/journal/domain/entities"
	"mindmapr/internal/journal/metrics"
	"mindmapr/internal/journal/resilience"
)

var errProviderDown = errors.New("provider down")

type providerFunc func(ctx context.Context, prompt string) (string, error)

func (f providerFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

type memoryCache struct {
	mu     sync.Mutex
	values map[string]string
	err    error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string]string{}}
}

func (c *memoryCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return "", c.err
	}
	return c.values[key], nil
}

func (c *memoryCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.values[key] = value
	return nil
}

func testOptions() classifier.Options {
	return classifier.Options{
		Model:   "gemini-2.5-flash",
		Timeout: time.Second,
		Breaker: resilience.CircuitBreakerConfig{ErrorThreshold: 100, Cooldown: time.Hour},
		Retry:   resilience.RetryConfig{MaxAttempts: 1},
		Metrics: metrics.New(),
	}
}

func TestAdapter_Classify(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		provider classifier.Provider
		expected entities.MoodResult
	}{
		{
			name: "valid response",
			provider: providerFunc(func(context.Context, string) (string, error) {
				return `{"mood":"happy","confidence":0.9}`, nil
			}),
			expected: entities.MoodResult{Label: entities.MoodHappy, Confidence: 0.9},
		},
		{
			name: "payload wrapped in prose",
			provider: providerFunc(func(context.Context, string) (string, error) {
				return "Result:\n```json\n{\"mood\":\"Sad\",\"confidence\":0.35}\n```", nil
			}),
			expected: entities.MoodResult{Label: entities.MoodSad, Confidence: 0.35},
		},
		{
			name: "provider failure falls back",
			provider: providerFunc(func(context.Context, string) (string, error) {
				return "", errProviderDown
			}),
			expected: entities.FallbackMood(),
		},
		{
			name: "unparsable output falls back",
			provider: providerFunc(func(context.Context, string) (string, error) {
				return "I think it's happy", nil
			}),
			expected: entities.FallbackMood(),
		},
		{
			name: "label outside closed set falls back",
			provider: providerFunc(func(context.Context, string) (string, error) {
				return `{"mood":"ecstatic","confidence":0.99}`, nil
			}),
			expected: entities.FallbackMood(),
		},
		{
			name: "non numeric confidence falls back",
			provider: providerFunc(func(context.Context, string) (string, error) {
				return `{"mood":"happy","confidence":"high"}`, nil
			}),
			expected: entities.FallbackMood(),
		},
		{
			name:     "missing provider falls back",
			provider: nil,
			expected: entities.FallbackMood(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := classifier.NewAdapter(tt.provider, testOptions())

			result := adapter.Classify(ctx, "I feel great today")

			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestAdapter_ClassifyTimeout(t *testing.T) {
	opts := testOptions()
	opts.Timeout = 30 * time.Millisecond

	adapter := classifier.NewAdapter(providerFunc(func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}), opts)

	start := time.Now()
	result := adapter.Classify(context.Background(), "slow day")

	assert.Equal(t, entities.FallbackMood(), result)
	assert.Less(t, time.Since(start), time.Second)
}

func TestAdapter_CircuitBreaker(t *testing.T) {
	opts := testOptions()
	opts.Breaker = resilience.CircuitBreakerConfig{ErrorThreshold: 2, Cooldown: time.Hour}

	var calls atomic.Int32
	adapter := classifier.NewAdapter(providerFunc(func(context.Context, string) (string, error) {
		calls.Add(1)
		return "", errProviderDown
	}), opts)

	for range 5 {
		assert.Equal(t, entities.FallbackMood(), adapter.Classify(context.Background(), "text"))
	}

	assert.Equal(t, int32(2), calls.Load(), "open breaker short-circuits the provider")
}

func TestAdapter_Retry(t *testing.T) {
	opts := testOptions()
	opts.Retry = resilience.RetryConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond}

	var calls atomic.Int32
	adapter := classifier.NewAdapter(providerFunc(func(context.Context, string) (string, error) {
		if calls.Add(1) == 1 {
			return "", &classifier.StatusError{StatusCode: http.StatusServiceUnavailable}
		}
		return `{"mood":"calm","confidence":0.6}`, nil
	}), opts)

	result := adapter.Classify(context.Background(), "text")

	assert.Equal(t, entities.MoodCalm, result.Label)
	assert.Equal(t, int32(2), calls.Load())
}

func TestAdapter_NoRetryOnClientError(t *testing.T) {
	opts := testOptions()
	opts.Retry = resilience.RetryConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond}

	var calls atomic.Int32
	adapter := classifier.NewAdapter(providerFunc(func(context.Context, string) (string, error) {
		calls.Add(1)
		return "", &classifier.StatusError{StatusCode: http.StatusBadRequest}
	}), opts)

	assert.Equal(t, entities.FallbackMood(), adapter.Classify(context.Background(), "text"))
	assert.Equal(t, int32(1), calls.Load())
}

func TestAdapter_Cache(t *testing.T) {
	ctx := context.Background()

	t.Run("validated results are cached", func(t *testing.T) {
		cache := newMemoryCache()
		opts := testOptions()
		opts.Cache = cache

		var calls atomic.Int32
		adapter := classifier.NewAdapter(providerFunc(func(context.Context, string) (string, error) {
			calls.Add(1)
			return `{"mood":"happy","confidence":0.8}`, nil
		}), opts)

		first := adapter.Classify(ctx, "same text")
		second := adapter.Classify(ctx, "same text")

		assert.Equal(t, first, second)
		assert.Equal(t, int32(1), calls.Load())
		assert.Len(t, cache.values, 1)
	})

	t.Run("fallback results are not cached", func(t *testing.T) {
		cache := newMemoryCache()
		opts := testOptions()
		opts.Cache = cache

		adapter := classifier.NewAdapter(providerFunc(func(context.Context, string) (string, error) {
			return "garbage", nil
		}), opts)

		adapter.Classify(ctx, "text")

		assert.Empty(t, cache.values)
	})

	t.Run("corrupted cache entry is ignored", func(t *testing.T) {
		cache := newMemoryCache()
		opts := testOptions()
		opts.Cache = cache

		adapter := classifier.NewAdapter(providerFunc(func(context.Context, string) (string, error) {
			return `{"mood":"angry","confidence":0.7}`, nil
		}), opts)

		adapter.Classify(ctx, "text")
		for k := range cache.values {
			cache.values[k] = `{"mood":"furious","confidence":2}`
		}

		assert.Equal(t, entities.MoodAngry, adapter.Classify(ctx, "text").Label)
	})

	t.Run("cache failure does not affect classification", func(t *testing.T) {
		cache := newMemoryCache()
		cache.err = errors.New("redis down")
		opts := testOptions()
		opts.Cache = cache

		adapter := classifier.NewAdapter(providerFunc(func(context.Context, string) (string, error) {
			return `{"mood":"sad","confidence":0.5}`, nil
		}), opts)

		assert.Equal(t, entities.MoodSad, adapter.Classify(ctx, "text").Label)
	})
}

func TestNew_WithoutAPIKeyFallsBack(t *testing.T) {
	cfg := &config.ClassifierConfig{Model: "gemini-2.5-flash", Timeout: time.Second, MaxAttempts: 1}

	adapter := classifier.New(cfg, nil, time.Hour, nil)

	assert.Equal(t, entities.FallbackMood(), adapter.Classify(context.Background(), "text"))
}

func TestNew_CallsGemini(t *testing.T) {
	srv, prompts := geminiServer(t, http.StatusOK,
		`{"candidates":[{"content":{"parts":[{"text":"{\"mood\":\"stressed\",\"confidence\":0.66}"}]}}]}`)

	cfg := &config.ClassifierConfig{
		APIKey:           "test-key",
		Model:            "gemini-2.5-flash",
		BaseURL:          srv.URL,
		Timeout:          time.Second,
		MaxAttempts:      1,
		BreakerThreshold: 5,
		BreakerCooldown:  time.Minute,
	}

	result := classifier.New(cfg, nil, time.Hour, metrics.New()).Classify(context.Background(), "deadline tomorrow")

	require.Len(t, *prompts, 1)
	assert.Contains(t, (*prompts)[0], `"deadline tomorrow"`)
	assert.Equal(t, entities.MoodResult{Label: entities.MoodStressed, Confidence: 0.66}, result)
}

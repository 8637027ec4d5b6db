package classifier_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"mindmapr/internal/journal/adapters/classifier"
	"mindmapr/internal/journal/config"
)

func geminiServer(t *testing.T, status int, body string) (*httptest.Server, *[]string) {
	t.Helper()

	var prompts []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/gemini-2.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		prompts = append(prompts, gjson.GetBytes(raw, "contents.0.parts.0.text").String())

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	return srv, &prompts
}

func providerFor(url string) *classifier.GeminiProvider {
	return classifier.NewGeminiProvider(&config.ClassifierConfig{
		APIKey:  "test-key",
		Model:   "gemini-2.5-flash",
		BaseURL: url + "/",
	})
}

func TestGeminiProvider_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("joins text parts of the first candidate", func(t *testing.T) {
		srv, prompts := geminiServer(t, http.StatusOK, `{
			"candidates": [{"content": {"parts": [{"text": "{\"mood\":"}, {"text": "\"happy\",\"confidence\":0.9}"}]}}]
		}`)

		text, err := providerFor(srv.URL).Generate(ctx, "prompt text")

		require.NoError(t, err)
		assert.Equal(t, `{"mood":"happy","confidence":0.9}`, text)
		assert.Equal(t, []string{"prompt text"}, *prompts)
	})

	t.Run("server error is retryable status error", func(t *testing.T) {
		srv, _ := geminiServer(t, http.StatusServiceUnavailable, `{"error":{"message":"overloaded"}}`)

		_, err := providerFor(srv.URL).Generate(ctx, "p")

		var statusErr *classifier.StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
		assert.True(t, statusErr.Retryable())
	})

	t.Run("client error is not retryable", func(t *testing.T) {
		srv, _ := geminiServer(t, http.StatusBadRequest, `{"error":{"message":"bad key"}}`)

		_, err := providerFor(srv.URL).Generate(ctx, "p")

		var statusErr *classifier.StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.False(t, statusErr.Retryable())
	})

	t.Run("blocked prompt", func(t *testing.T) {
		srv, _ := geminiServer(t, http.StatusOK, `{"promptFeedback":{"blockReason":"SAFETY"}}`)

		_, err := providerFor(srv.URL).Generate(ctx, "p")

		require.ErrorIs(t, err, classifier.ErrBlocked)
	})

	t.Run("no candidates", func(t *testing.T) {
		srv, _ := geminiServer(t, http.StatusOK, `{"candidates":[]}`)

		_, err := providerFor(srv.URL).Generate(ctx, "p")

		require.ErrorIs(t, err, classifier.ErrEmptyCompletion)
	})
}

package classifier

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"mindmapr/internal/journal/config"
)

const (
	generatePath = "/v1beta/models/{model}:generateContent"
	apiKeyHeader = "x-goog-api-key"
)

// Ошибки провайдера.
var (
	ErrEmptyCompletion = errors.New("provider returned no text")
	ErrBlocked         = errors.New("provider blocked the prompt")
)

// Provider возвращает текстовый ответ модели на инструкцию.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// StatusError - неуспешный HTTP-ответ провайдера.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider status %d: %s", e.StatusCode, e.Body)
}

// Retryable сообщает, имеет ли смысл повторить запрос.
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// GeminiProvider вызывает generateContent Gemini API.
type GeminiProvider struct {
	client *resty.Client
	model  string
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

// NewGeminiProvider создает клиента провайдера. Таймаут задает контекст вызова.
func NewGeminiProvider(cfg *config.ClassifierConfig) *GeminiProvider {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader(apiKeyHeader, cfg.APIKey)

	return &GeminiProvider{client: client, model: cfg.Model}
}

// Generate отправляет инструкцию и склеивает текстовые части первого кандидата.
func (p *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	body := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:      0,
			ResponseMimeType: "application/json",
		},
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetPathParam("model", p.model).
		SetBody(&body).
		Post(generatePath)
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	if resp.IsError() {
		return "", &StatusError{StatusCode: resp.StatusCode(), Body: truncate(resp.String(), 256)}
	}

	raw := resp.Body()
	if reason := gjson.GetBytes(raw, "promptFeedback.blockReason"); reason.Exists() {
		return "", fmt.Errorf("%w: %s", ErrBlocked, reason.String())
	}

	var text strings.Builder
	for _, t := range gjson.GetBytes(raw, "candidates.0.content.parts.#.text").Array() {
		text.WriteString(t.String())
	}
	if text.Len() == 0 {
		return "", ErrEmptyCompletion
	}

	return text.String(), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

package classifier

import (
	"errors"
	"fmt"
	"math"

	"github.com/tidwall/gjson"

	"mindmapr/internal/journal/domain/entities"
)

// Ошибки разбора ответа провайдера.
var (
	ErrNoPayload         = errors.New("no structured payload in provider response")
	ErrInvalidLabel      = errors.New("mood label is not in the closed set")
	ErrInvalidConfidence = errors.New("mood confidence is not a number in [0,1]")
)

// ExtractPayload находит первый корректный JSON-объект в произвольном тексте.
// Фигурные скобки внутри строк не учитываются.
func ExtractPayload(text string) (string, bool) {
	for start := 0; start < len(text); start++ {
		if text[start] != '{' {
			continue
		}
		end := matchBrace(text, start)
		if end < 0 {
			continue
		}
		candidate := text[start : end+1]
		if gjson.Valid(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// matchBrace возвращает индекс закрывающей скобки для text[start] == '{' или -1.
func matchBrace(text string, start int) int {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// ParsePayload проверяет объект {"mood": ..., "confidence": ...}.
// Метка приводится к нижнему регистру, confidence должен быть числом JSON.
func ParsePayload(payload string) (entities.MoodResult, error) {
	if !gjson.Valid(payload) {
		return entities.MoodResult{}, ErrNoPayload
	}

	mood := gjson.Get(payload, "mood")
	if mood.Type != gjson.String {
		return entities.MoodResult{}, fmt.Errorf("%w: %s", ErrInvalidLabel, mood.Raw)
	}
	label, ok := entities.ParseMood(mood.Str)
	if !ok {
		return entities.MoodResult{}, fmt.Errorf("%w: %q", ErrInvalidLabel, mood.Str)
	}

	confidence := gjson.Get(payload, "confidence")
	if confidence.Type != gjson.Number {
		return entities.MoodResult{}, fmt.Errorf("%w: %s", ErrInvalidConfidence, confidence.Raw)
	}
	value := confidence.Float()
	if math.IsNaN(value) || value < 0 || value > 1 {
		return entities.MoodResult{}, fmt.Errorf("%w: %v", ErrInvalidConfidence, value)
	}

	return entities.MoodResult{Label: label, Confidence: value}, nil
}

// ParseResponse извлекает и проверяет результат из текста модели.
func ParseResponse(text string) (entities.MoodResult, error) {
	payload, ok := ExtractPayload(text)
	if !ok {
		return entities.MoodResult{}, ErrNoPayload
	}
	return ParsePayload(payload)
}

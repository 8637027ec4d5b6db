package entries

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// EntryRequest - тело POST и PUT запросов.
type EntryRequest struct {
	Content string `json:"content" validate:"required"`
}

// UpdateEntryRequest допускает пустое содержимое: запись тогда не меняется.
type UpdateEntryRequest struct {
	Content string `json:"content"`
}

// MessageResponse - тело ответа с сообщением.
type MessageResponse struct {
	Message string `json:"message"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

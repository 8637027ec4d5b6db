// Package app implements application business logic for the journal service.
package app

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"mindmapr/internal/journal/domain/entities"
	"mindmapr/internal/journal/ports/repositories"
)

// Ошибки уровня бизнес-логики.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("entry not found")
)

// Константы сообщений.
const (
	msgContentRequired = "content is required"
	msgOwnerRequired   = "owner is required"
)

func validationError(msg string) error {
	return errors.Join(ErrValidation, errors.New(msg))
}

// scope - единственное место, где строится фильтр выборки.
// Владелец присутствует в каждом фильтре и не может быть переопределен клиентом.
func scope(userID string, params entities.ListParams) (repositories.EntryFilter, error) {
	if strings.TrimSpace(userID) == "" {
		return repositories.EntryFilter{}, validationError(msgOwnerRequired)
	}

	filter := repositories.EntryFilter{UserID: userID}

	if params.Search != "" {
		filter.Search = params.Search
	}
	if params.Mood != "" && !strings.EqualFold(params.Mood, entities.MoodAll) {
		filter.Mood = entities.Mood(params.Mood)
	}

	return filter, nil
}

// validEntryID отсекает идентификаторы, которые не могут существовать в хранилище.
func validEntryID(entryID string) bool {
	_, err := uuid.Parse(entryID)
	return err == nil
}

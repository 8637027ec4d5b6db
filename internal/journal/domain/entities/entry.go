// Package entities defines the domain entities for the journal service.
package entities

import (
	"errors"
	"strings"
	"time"
)

// Доменные ошибки.
var (
	ErrInvalidEntry  = errors.New("invalid entry")
	ErrEntryNotFound = errors.New("entry not found")
)

// Entry представляет собой запись дневника пользователя.
type Entry struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user"`
	Content        string    `json:"content"`
	MoodLabel      Mood      `json:"mood_label"`
	MoodConfidence float64   `json:"mood_confidence"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewEntry создает запись для пользователя с результатом классификации настроения.
// Идентификатор и временные метки назначает хранилище.
func NewEntry(userID, content string, mood MoodResult) *Entry {
	return &Entry{
		UserID:         userID,
		Content:        content,
		MoodLabel:      mood.Label,
		MoodConfidence: mood.Confidence,
	}
}

// Validate проверяет инварианты записи перед сохранением.
func (e *Entry) Validate() error {
	switch {
	case strings.TrimSpace(e.UserID) == "":
		return errors.Join(ErrInvalidEntry, errors.New("owner is required"))
	case strings.TrimSpace(e.Content) == "":
		return errors.Join(ErrInvalidEntry, errors.New("content is required"))
	case !e.MoodLabel.Valid():
		return errors.Join(ErrInvalidEntry, errors.New("mood label is not in the closed set"))
	case e.MoodConfidence < 0 || e.MoodConfidence > 1:
		return errors.Join(ErrInvalidEntry, errors.New("mood confidence is outside [0,1]"))
	}
	return nil
}

// OwnedBy сообщает, принадлежит ли запись пользователю.
func (e *Entry) OwnedBy(userID string) bool {
	return e != nil && userID != "" && e.UserID == userID
}

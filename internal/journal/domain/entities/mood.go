package entities

import "strings"

// Mood - метка настроения из закрытого набора.
type Mood string

// Допустимые значения Mood.
const (
	MoodHappy    Mood = "happy"
	MoodSad      Mood = "sad"
	MoodStressed Mood = "stressed"
	MoodCalm     Mood = "calm"
	MoodAngry    Mood = "angry"
	MoodNeutral  Mood = "neutral"
)

// Moods перечисляет закрытый набор в стабильном порядке.
var Moods = []Mood{MoodHappy, MoodSad, MoodStressed, MoodCalm, MoodAngry, MoodNeutral}

// Valid сообщает, входит ли метка в закрытый набор.
func (m Mood) Valid() bool {
	switch m {
	case MoodHappy, MoodSad, MoodStressed, MoodCalm, MoodAngry, MoodNeutral:
		return true
	}
	return false
}

// ParseMood нормализует строку (trim + lower) и проверяет ее по набору.
func ParseMood(s string) (Mood, bool) {
	m := Mood(strings.ToLower(strings.TrimSpace(s)))
	return m, m.Valid()
}

// MoodResult - результат классификации: метка и уверенность в [0,1].
type MoodResult struct {
	Label      Mood    `json:"mood"`
	Confidence float64 `json:"confidence"`
}

// FallbackMood возвращается, когда классификация недоступна.
func FallbackMood() MoodResult {
	return MoodResult{Label: MoodNeutral, Confidence: 0}
}

// IsFallback сообщает, совпадает ли результат с резервным.
func (r MoodResult) IsFallback() bool {
	return r == FallbackMood()
}

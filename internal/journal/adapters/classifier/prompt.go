package classifier

import (
	"encoding/json"
	"strings"

	"mindmapr/internal/journal/domain/entities"
)

// BuildPrompt формирует инструкцию для модели. Текст записи передается
// JSON-строкой, поэтому кавычки внутри записи не ломают инструкцию.
func BuildPrompt(content string) string {
	quoted, err := json.Marshal(content)
	if err != nil {
		quoted = []byte(`""`)
	}

	labels := make([]string, 0, len(entities.Moods))
	for _, m := range entities.Moods {
		labels = append(labels, string(m))
	}

	var b strings.Builder
	b.WriteString("Analyze the mood of this journal entry: ")
	b.Write(quoted)
	b.WriteString(".\nReturn ONLY a JSON object: {\"mood\": \"")
	b.WriteString(strings.Join(labels, "|"))
	b.WriteString("\", \"confidence\": 0.0-1.0}")
	return b.String()
}

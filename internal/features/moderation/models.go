// Package moderation реализует пословные фильтры по группам.
// models.go описывает структуру документа filters.json.
package moderation

// Document — содержимое filters.json.
// Ключи Groups — ID группового чата в виде строки; значения — списки
// слов в нижнем регистре, порядок списка — порядок добавления.
type Document struct {
	Groups map[string][]string `json:"groups"`
}

// NewDocument возвращает пустой документ фильтров.
func NewDocument() Document {
	return Document{Groups: make(map[string][]string)}
}

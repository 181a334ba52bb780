// Package moderation — repository.go выполняет операции с filters.json.
package moderation

import (
	"context"

	"serotonyl.ru/karma-bot/internal/db/jsonstore"
)

// Repository предоставляет методы для работы с документом фильтров.
type Repository struct {
	store *jsonstore.Store[Document]
}

// NewRepository создаёт репозиторий фильтров.
func NewRepository(store *jsonstore.Store[Document]) *Repository {
	return &Repository{store: store}
}

// Load читает документ фильтров целиком.
func (r *Repository) Load(ctx context.Context) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	return r.store.Load()
}

// Update выполняет мутацию документа фильтров под его замком.
func (r *Repository) Update(ctx context.Context, fn func(doc *Document) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.Update(fn)
}

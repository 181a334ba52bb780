// Package games — repository.go выполняет операции с shipping.json.
package games

import (
	"context"

	"serotonyl.ru/karma-bot/internal/db/jsonstore"
)

// Repository предоставляет методы для работы с документом шиппинга.
type Repository struct {
	store *jsonstore.Store[Document]
}

// NewRepository создаёт репозиторий шиппинга.
func NewRepository(store *jsonstore.Store[Document]) *Repository {
	return &Repository{store: store}
}

// Load читает документ шиппинга целиком.
func (r *Repository) Load(ctx context.Context) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	return r.store.Load()
}

// Update выполняет мутацию документа шиппинга под его замком.
func (r *Repository) Update(ctx context.Context, fn func(doc *Document) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.Update(fn)
}

// Package ledger — repository.go выполняет все операции с документами
// karma.json и cooldowns.json через jsonstore.
// Каждая мутация — один цикл чтение-изменение-запись под замком документа.
package ledger

import (
	"context"
	"sort"
	"strconv"

	"serotonyl.ru/karma-bot/internal/db/jsonstore"
)

// Repository предоставляет методы для работы с документами кармы и кулдаунов.
type Repository struct {
	data      *jsonstore.Store[Document]
	cooldowns *jsonstore.Store[Cooldowns]
}

// NewRepository создаёт репозиторий кармы поверх двух документов.
func NewRepository(data *jsonstore.Store[Document], cooldowns *jsonstore.Store[Cooldowns]) *Repository {
	return &Repository{data: data, cooldowns: cooldowns}
}

// LoadData читает документ кармы целиком.
func (r *Repository) LoadData(ctx context.Context) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	return r.data.Load()
}

// UpdateData выполняет мутацию документа кармы под его замком.
// Ошибка из fn отменяет запись.
func (r *Repository) UpdateData(ctx context.Context, fn func(doc *Document) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.data.Update(fn)
}

// UpdateCooldowns выполняет мутацию документа кулдаунов под его замком.
// Проверка и установка метки обязаны жить в одном fn: между двумя
// вызовами Update другая горутина успевает пройти ту же проверку.
func (r *Repository) UpdateCooldowns(ctx context.Context, fn func(cds *Cooldowns) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.cooldowns.Update(fn)
}

// UserKey переводит Telegram user ID в ключ документа.
func UserKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

// ensureAccount возвращает аккаунт пользователя, создавая его при первом
// касании (семантика «первое касание создаёт запись»).
// Обновляет username, если пользователь его сменил.
func ensureAccount(doc *Document, userKey, username string) *Account {
	if doc.Users == nil {
		doc.Users = make(map[string]*Account)
	}
	acc, ok := doc.Users[userKey]
	if !ok {
		acc = &Account{Karma: 0, Username: username}
		doc.Users[userKey] = acc
		return acc
	}
	if username != "" && acc.Username != username {
		acc.Username = username
	}
	return acc
}

// sortedUserKeys возвращает ключи мапы m по возрастанию числового ID.
// Хэндлы не уникальны, а порядок обхода мапы в Go случайный, поэтому
// любой скан аккаунтов идёт в этом детерминированном порядке.
func sortedUserKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.ParseInt(keys[i], 10, 64)
		b, errB := strconv.ParseInt(keys[j], 10, 64)
		if errA != nil || errB != nil {
			return keys[i] < keys[j]
		}
		return a < b
	})
	return keys
}

// findByUsername ищет аккаунт по точному хэндлу.
// Первое совпадение в порядке возрастания ID выигрывает.
func findByUsername(doc *Document, handle string) (string, *Account) {
	for _, key := range sortedUserKeys(doc.Users) {
		if doc.Users[key].Username == handle {
			return key, doc.Users[key]
		}
	}
	return "", nil
}

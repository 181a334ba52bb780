// Package moderation — service.go содержит бизнес-логику фильтров.
// Авторизацией сервис не занимается: решение «этот пользователь — админ»
// принимает вызывающий слой по данным Telegram, сервис ему доверяет.
package moderation

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/karma-bot/internal/common"
)

// Service управляет пословными фильтрами групп.
type Service struct {
	repo *Repository
}

// NewService создаёт сервис фильтров.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// AddFilter добавляет слово в фильтр группы (регистр не важен, храним
// в нижнем). Дубликат — не ошибка обработки, а отдельный исход
// ErrWordAlreadyFiltered: документ не меняется.
func (s *Service) AddFilter(ctx context.Context, groupID, word string) error {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return common.ErrWordNotFiltered
	}

	err := s.repo.Update(ctx, func(doc *Document) error {
		if doc.Groups == nil {
			doc.Groups = make(map[string][]string)
		}
		for _, w := range doc.Groups[groupID] {
			if w == word {
				return common.ErrWordAlreadyFiltered
			}
		}
		doc.Groups[groupID] = append(doc.Groups[groupID], word)
		return nil
	})
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"group": groupID,
		"word":  word,
	}).Info("Слово добавлено в фильтр")
	return nil
}

// RemoveFilter убирает слово из фильтра группы.
// Отсутствующее слово — отдельный исход ErrWordNotFiltered.
func (s *Service) RemoveFilter(ctx context.Context, groupID, word string) error {
	word = strings.ToLower(strings.TrimSpace(word))

	err := s.repo.Update(ctx, func(doc *Document) error {
		words := doc.Groups[groupID]
		for i, w := range words {
			if w == word {
				doc.Groups[groupID] = append(words[:i], words[i+1:]...)
				return nil
			}
		}
		return common.ErrWordNotFiltered
	})
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"group": groupID,
		"word":  word,
	}).Info("Слово убрано из фильтра")
	return nil
}

// ListFilters возвращает слова фильтра группы в порядке добавления.
func (s *Service) ListFilters(ctx context.Context, groupID string) ([]string, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	words := make([]string, len(doc.Groups[groupID]))
	copy(words, doc.Groups[groupID])
	return words, nil
}

// ScanMessage ищет в тексте фильтрованное слово группы.
// Совпадение — вхождение подстроки без учёта регистра; выигрывает
// первое слово в порядке списка. Удаление сообщения и предупреждение —
// забота вызывающего.
func (s *Service) ScanMessage(ctx context.Context, groupID, text string) (string, bool, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return "", false, err
	}

	lower := strings.ToLower(text)
	for _, word := range doc.Groups[groupID] {
		if strings.Contains(lower, word) {
			return word, true, nil
		}
	}
	return "", false, nil
}

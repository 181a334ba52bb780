// Package jsonstore реализует слой хранения бота: каждый документ — это
// один JSON-файл на диске с человекочитаемыми отступами.
//
// Апдейты обрабатываются на горутинах, поэтому у каждого документа строгая
// дисциплина одного писателя: мьютекс на документ, все мутации идут через
// Update (чтение → изменение → запись под замком). Атомарной замены файла
// нет — крэш посреди записи может испортить документ, и тогда он молча
// переинициализируется дефолтом при следующем чтении.
package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Store управляет одним JSON-документом типа T.
type Store[T any] struct {
	mu       sync.Mutex
	path     string
	defaults func() T
}

// New создаёт хранилище документа по пути path.
// defaults вызывается, когда файла нет или он повреждён.
func New[T any](path string, defaults func() T) *Store[T] {
	return &Store[T]{path: path, defaults: defaults}
}

// Path возвращает путь к файлу документа.
func (s *Store[T]) Path() string {
	return s.path
}

// Load читает документ целиком.
// Отсутствующий или битый файл — не ошибка: документ переинициализируется
// дефолтом и сразу записывается обратно.
func (s *Store[T]) Load() (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

// Save перезаписывает документ целиком.
func (s *Store[T]) Save(doc T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(doc)
}

// Update выполняет цикл чтение-изменение-запись под замком документа.
// Если fn возвращает ошибку, документ не записывается и ошибка
// отдаётся вызывающему как есть.
func (s *Store[T]) Update(fn func(doc *T) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadLocked()
	if err != nil {
		return err
	}
	if err := fn(&doc); err != nil {
		return err
	}
	return s.saveLocked(doc)
}

func (s *Store[T]) loadLocked() (T, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s.reinitLocked("файл отсутствует")
		}
		var zero T
		return zero, fmt.Errorf("чтение %s: %w", s.path, err)
	}

	var doc T
	if err := json.Unmarshal(raw, &doc); err != nil {
		return s.reinitLocked("документ повреждён")
	}
	return doc, nil
}

// reinitLocked молча переинициализирует документ дефолтом.
func (s *Store[T]) reinitLocked(reason string) (T, error) {
	log.WithFields(log.Fields{
		"path":   s.path,
		"reason": reason,
	}).Debug("Документ переинициализирован дефолтом")

	doc := s.defaults()
	if err := s.saveLocked(doc); err != nil {
		var zero T
		return zero, err
	}
	return doc, nil
}

func (s *Store[T]) saveLocked(doc T) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("сериализация %s: %w", s.path, err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("создание каталога данных: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("запись %s: %w", s.path, err)
	}
	return nil
}

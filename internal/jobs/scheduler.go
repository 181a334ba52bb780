// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание: ночной снапшот JSON-документов.
// Атомарной записи у хранилища нет, так что снапшоты ограничивают
// окно потери данных при крэше посреди записи.
package jobs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron    *cron.Cron
	dataDir string
	keep    int // Сколько снапшотов каждого документа храним
}

// NewScheduler создаёт планировщик задач.
func NewScheduler(dataDir string, keep int) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		dataDir: dataDir,
		keep:    keep,
	}
}

// Start запускает все фоновые задачи.
func (s *Scheduler) Start() {
	// Ночной снапшот в 04:00 локального времени
	s.cron.AddFunc("0 4 * * *", func() {
		log.Info("[CRON] Снапшот документов данных")
		if err := s.Snapshot(); err != nil {
			log.WithError(err).Error("[CRON] Ошибка снапшота")
		}
	})

	s.cron.Start()
	log.Info("Планировщик задач запущен")
}

// Stop останавливает планировщик.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}

// Snapshot копирует все JSON-документы каталога данных в data/backups
// с датой в имени и подчищает старые копии.
func (s *Scheduler) Snapshot() error {
	backupDir := filepath.Join(s.dataDir, "backups")
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return fmt.Errorf("создание каталога бэкапов: %w", err)
	}

	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		return fmt.Errorf("чтение каталога данных: %w", err)
	}

	stamp := time.Now().Format("2006-01-02")
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		src := filepath.Join(s.dataDir, entry.Name())
		base := strings.TrimSuffix(entry.Name(), ".json")
		dst := filepath.Join(backupDir, fmt.Sprintf("%s.%s.json", base, stamp))

		if err := copyFile(src, dst); err != nil {
			log.WithError(err).WithField("file", entry.Name()).Error("Не удалось сохранить снапшот")
			continue
		}
		if err := s.pruneOld(backupDir, base); err != nil {
			log.WithError(err).WithField("doc", base).Warn("Не удалось подчистить старые снапшоты")
		}

		log.WithField("file", dst).Debug("Снапшот сохранён")
	}
	return nil
}

// pruneOld оставляет keep самых свежих снапшотов документа base.
func (s *Scheduler) pruneOld(backupDir, base string) error {
	matches, err := filepath.Glob(filepath.Join(backupDir, base+".*.json"))
	if err != nil {
		return err
	}
	if len(matches) <= s.keep {
		return nil
	}

	// Имена содержат дату в формате ГГГГ-ММ-ДД: лексикографический
	// порядок совпадает с хронологическим
	sort.Strings(matches)
	for _, stale := range matches[:len(matches)-s.keep] {
		if err := os.Remove(stale); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	raw, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, raw, 0o644)
}

// Package games — service.go содержит логику мини-игр.
// Truth-or-dare и never-have-I-ever полностью stateless; шиппинг держит
// кулдаун и историю по группе в shipping.json.
package games

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/karma-bot/internal/common"
	"serotonyl.ru/karma-bot/internal/config"
)

// Service управляет мини-играми.
type Service struct {
	repo *Repository
	cfg  *config.Config

	// Инжектируемые зависимости, как в ledger: сидируемая случайность
	// и фейковое время для тестов кулдауна.
	randMu sync.Mutex
	rng    *rand.Rand
	now    func() time.Time
}

// NewService создаёт сервис мини-игр.
func NewService(repo *Repository, cfg *config.Config, rng *rand.Rand) *Service {
	return &Service{
		repo: repo,
		cfg:  cfg,
		rng:  rng,
		now:  time.Now,
	}
}

func (s *Service) randIntn(n int) int {
	s.randMu.Lock()
	defer s.randMu.Unlock()
	return s.rng.Intn(n)
}

// TruthOrDare возвращает случайный вопрос или задание.
// Неверный режим — пользовательская ошибка ErrInvalidMode, не краш.
func (s *Service) TruthOrDare(mode string) (string, error) {
	switch strings.ToLower(mode) {
	case "truth":
		return truthQuestions[s.randIntn(len(truthQuestions))], nil
	case "dare":
		return dareChallenges[s.randIntn(len(dareChallenges))], nil
	default:
		return "", common.ErrInvalidMode
	}
}

// NeverHaveIEver возвращает случайную реплику NHIE.
func (s *Service) NeverHaveIEver() string {
	return nhiePrompts[s.randIntn(len(nhiePrompts))]
}

// Ship выбирает пару из кандидатов группы.
//
// Один шип на группу в 24 часа. Боты отсеиваются; нужно минимум два
// кандидата. Пара выбирается равновероятно без возвращения (при ровно
// двух кандидатах пара детерминирована, случаен только процент).
// Каждый успешный шип дописывается в историю группы; история не чистится.
func (s *Service) Ship(ctx context.Context, groupID string, candidates []Candidate) (*ShipResult, error) {
	eligible := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if !c.IsBot {
			eligible = append(eligible, c)
		}
	}
	if len(eligible) < 2 {
		return nil, common.ErrNotEnoughMembers
	}

	now := s.now()

	var result ShipResult
	err := s.repo.Update(ctx, func(doc *Document) error {
		if last, ok := doc.LastShip[groupID]; ok {
			if next := last.Add(s.cfg.ShipCooldown); now.Before(next) {
				return &common.CooldownActiveError{Remaining: next.Sub(now)}
			}
		}

		// Два различных индекса без возвращения
		i := s.randIntn(len(eligible))
		j := s.randIntn(len(eligible) - 1)
		if j >= i {
			j++
		}

		result = ShipResult{
			PartnerA:   eligible[i].Handle(),
			PartnerB:   eligible[j].Handle(),
			Percentage: s.randIntn(101),
		}

		if doc.LastShip == nil {
			doc.LastShip = make(map[string]time.Time)
		}
		if doc.Couples == nil {
			doc.Couples = make(map[string][]Couple)
		}
		doc.LastShip[groupID] = now
		doc.Couples[groupID] = append(doc.Couples[groupID], Couple{
			Couple:     [2]string{result.PartnerA, result.PartnerB},
			Percentage: result.Percentage,
			Date:       now,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"group":   groupID,
		"pair":    result.PartnerA + "+" + result.PartnerB,
		"percent": result.Percentage,
	}).Info("Шиппинг выполнен")

	return &result, nil
}

// History возвращает историю шиппинга группы в порядке добавления.
func (s *Service) History(ctx context.Context, groupID string) ([]Couple, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	couples := make([]Couple, len(doc.Couples[groupID]))
	copy(couples, doc.Couples[groupID])
	return couples, nil
}

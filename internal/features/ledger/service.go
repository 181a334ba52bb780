// Package ledger — service.go содержит бизнес-логику кармы.
// Правила клейма, переводов и покупок; привилегия владельца —
// единый предикат конфига, к которому обращается каждая операция.
package ledger

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/karma-bot/internal/common"
	"serotonyl.ru/karma-bot/internal/config"
)

// Service управляет системой кармы.
type Service struct {
	repo    *Repository
	catalog *Catalog
	cfg     *config.Config

	// Источник случайности инжектируется, чтобы тесты могли сидировать
	// его и проверять точные значения. *rand.Rand не потокобезопасен,
	// а обработчики работают на горутинах — поэтому мьютекс.
	randMu sync.Mutex
	rng    *rand.Rand

	// Часы тоже инжектируются: кулдауны проверяются фейковым временем.
	now func() time.Time
}

// NewService создаёт сервис кармы.
func NewService(repo *Repository, catalog *Catalog, cfg *config.Config, rng *rand.Rand) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
		cfg:     cfg,
		rng:     rng,
		now:     time.Now,
	}
}

// Catalog возвращает каталог статусов.
func (s *Service) Catalog() *Catalog {
	return s.catalog
}

func (s *Service) randInt63n(n int64) int64 {
	s.randMu.Lock()
	defer s.randMu.Unlock()
	return s.rng.Int63n(n)
}

// ClaimDaily выполняет ежедневный клейм кармы.
//
// Владелец: баланс каждый раз фиксируется заново сентинелом, кулдаун
// не проверяется и не ставится. Остальные: если с прошлого клейма не
// прошло 24 часа — CooldownActiveError с остатком; иначе кулдаун
// ставится на текущий момент и начисляется равномерно случайное число
// в [ClaimMin, ClaimMax].
func (s *Service) ClaimDaily(ctx context.Context, userID int64, username string) (*ClaimResult, error) {
	key := UserKey(userID)

	if s.cfg.IsOwner(userID) {
		err := s.repo.UpdateData(ctx, func(doc *Document) error {
			acc := ensureAccount(doc, key, username)
			acc.Karma = s.cfg.OwnerKarma
			return nil
		})
		if err != nil {
			return nil, err
		}
		log.WithField("user_id", userID).Info("Клейм владельца: баланс зафиксирован")
		return &ClaimResult{Granted: 0, NewBalance: s.cfg.OwnerKarma, Owner: true}, nil
	}

	// Проверка и установка метки — одна критическая секция под замком
	// документа кулдаунов: параллельные /rewards не проходят проверку
	// вдвоём. Метка ставится до начисления.
	now := s.now()
	err := s.repo.UpdateCooldowns(ctx, func(cds *Cooldowns) error {
		if last, ok := (*cds)[key]; ok {
			if next := last.Add(s.cfg.ClaimCooldown); now.Before(next) {
				return &common.CooldownActiveError{Remaining: next.Sub(now)}
			}
		}
		(*cds)[key] = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	granted := s.cfg.ClaimMin + s.randInt63n(s.cfg.ClaimMax-s.cfg.ClaimMin+1)

	var newBalance int64
	err = s.repo.UpdateData(ctx, func(doc *Document) error {
		acc := ensureAccount(doc, key, username)
		acc.Karma += granted
		newBalance = acc.Karma
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"granted": granted,
		"balance": newBalance,
	}).Info("Карма начислена")

	return &ClaimResult{Granted: granted, NewBalance: newBalance}, nil
}

// Transfer переводит карму от отправителя пользователю с хэндлом targetHandle.
//
// Сумма строго положительная; отправитель должен существовать; получатель
// ищется точным сканом хэндлов в порядке возрастания ID (первое совпадение
// выигрывает). Владелец не проходит проверку баланса и не списывается.
func (s *Service) Transfer(ctx context.Context, fromUserID int64, targetHandle string, amount int64) (*TransferResult, error) {
	if amount <= 0 {
		return nil, common.ErrInvalidAmount
	}

	owner := s.cfg.IsOwner(fromUserID)
	senderKey := UserKey(fromUserID)

	var result TransferResult
	err := s.repo.UpdateData(ctx, func(doc *Document) error {
		sender, ok := doc.Users[senderKey]
		if !ok {
			return common.ErrNoAccount
		}

		_, target := findByUsername(doc, targetHandle)
		if target == nil {
			return common.ErrUserNotFound
		}

		if !owner && sender.Karma < amount {
			return common.ErrInsufficientKarma
		}

		if !owner {
			sender.Karma -= amount
		}
		target.Karma += amount

		result = TransferResult{
			Amount:        amount,
			TargetHandle:  targetHandle,
			SenderBalance: sender.Karma,
			Owner:         owner,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"from":   fromUserID,
		"to":     targetHandle,
		"amount": amount,
	}).Info("Перевод выполнен")

	return &result, nil
}

// Purchase покупает статус pid для пользователя.
//
// Порядок проверок: неизвестный товар → уже куплен → не хватает кармы.
// Повторная покупка отклоняется до проверки баланса, чтобы ответ был
// стабильным независимо от текущего счёта. Владелец не списывается.
func (s *Service) Purchase(ctx context.Context, userID int64, username, pid string) (*PurchaseResult, error) {
	product, ok := s.catalog.Get(pid)
	if !ok {
		return nil, common.ErrUnknownProduct
	}

	owner := s.cfg.IsOwner(userID)
	key := UserKey(userID)

	var result PurchaseResult
	err := s.repo.UpdateData(ctx, func(doc *Document) error {
		acc := ensureAccount(doc, key, username)

		if _, owned := doc.Purchases[key][product.ID]; owned {
			return common.ErrAlreadyOwned
		}
		if !owner && acc.Karma < product.Price {
			return common.ErrInsufficientKarma
		}

		if !owner {
			acc.Karma -= product.Price
		}
		if doc.Purchases == nil {
			doc.Purchases = make(map[string]map[string]time.Time)
		}
		if doc.Purchases[key] == nil {
			doc.Purchases[key] = make(map[string]time.Time)
		}
		doc.Purchases[key][product.ID] = s.now()

		result = PurchaseResult{Product: product, NewBalance: acc.Karma, Owner: owner}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"pid":     product.ID,
		"price":   product.Price,
	}).Info("Статус куплен")

	return &result, nil
}

// BalanceOf возвращает баланс пользователя.
// Первое касание создаёт нулевой аккаунт — как у клейма и проверки.
func (s *Service) BalanceOf(ctx context.Context, userID int64, username string) (int64, error) {
	var balance int64
	err := s.repo.UpdateData(ctx, func(doc *Document) error {
		balance = ensureAccount(doc, UserKey(userID), username).Karma
		return nil
	})
	return balance, err
}

// ProfileOf возвращает карму и статусы пользователя,
// создавая аккаунт при первом касании.
func (s *Service) ProfileOf(ctx context.Context, userID int64, username string) (*Profile, error) {
	key := UserKey(userID)
	profile := &Profile{UserID: key}
	err := s.repo.UpdateData(ctx, func(doc *Document) error {
		acc := ensureAccount(doc, key, username)
		profile.Username = acc.Username
		profile.Karma = acc.Karma
		profile.Badges = s.badgeNames(doc.Purchases[key])
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// ProfileByHandle ищет профиль по хэндлу (для /karma @handle).
// Чистое чтение: отсутствующий хэндл — ErrUserNotFound, аккаунт не создаётся.
func (s *Service) ProfileByHandle(ctx context.Context, handle string) (*Profile, error) {
	doc, err := s.repo.LoadData(ctx)
	if err != nil {
		return nil, err
	}
	key, acc := findByUsername(&doc, handle)
	if acc == nil {
		return nil, common.ErrUserNotFound
	}
	return &Profile{
		UserID:   key,
		Username: acc.Username,
		Karma:    acc.Karma,
		Badges:   s.badgeNames(doc.Purchases[key]),
	}, nil
}

// Leaderboard строит рейтинг по убыванию суммы рангов купленных статусов.
// Участвуют только пользователи хотя бы с одной покупкой. Порядок обхода —
// возрастание ID, стабильная сортировка: равные суммы сохраняют его.
func (s *Service) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	doc, err := s.repo.LoadData(ctx)
	if err != nil {
		return nil, err
	}

	var entries []LeaderboardEntry
	for _, key := range sortedUserKeys(doc.Purchases) {
		owned := doc.Purchases[key]
		if len(owned) == 0 {
			continue
		}

		sum := 0
		for pid := range owned {
			if p, ok := s.catalog.Get(pid); ok {
				sum += p.Rank
			}
		}

		handle := key
		if acc, ok := doc.Users[key]; ok && acc.Username != "" {
			handle = acc.Username
		}

		entries = append(entries, LeaderboardEntry{
			Handle:  handle,
			RankSum: sum,
			Badges:  s.badgeNames(owned),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].RankSum > entries[j].RankSum
	})
	return entries, nil
}

// badgeNames возвращает имена купленных статусов в порядке PID.
func (s *Service) badgeNames(owned map[string]time.Time) []string {
	if len(owned) == 0 {
		return nil
	}
	pids := make([]string, 0, len(owned))
	for pid := range owned {
		pids = append(pids, pid)
	}
	sort.Strings(pids)

	names := make([]string, 0, len(pids))
	for _, pid := range pids {
		if p, ok := s.catalog.Get(pid); ok {
			names = append(names, p.Name)
		}
	}
	return names
}

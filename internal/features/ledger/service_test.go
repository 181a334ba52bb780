package ledger

import (
	"context"
	"math/rand"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/karma-bot/internal/common"
	"serotonyl.ru/karma-bot/internal/config"
	"serotonyl.ru/karma-bot/internal/db/jsonstore"
)

func testConfig() *config.Config {
	return &config.Config{
		ClaimMin:      1,
		ClaimMax:      300,
		ClaimCooldown: 24 * time.Hour,
		OwnerKarma:    999999,
	}
}

func newTestService(t *testing.T, cfg *config.Config) *Service {
	t.Helper()

	dir := t.TempDir()
	data := jsonstore.New(filepath.Join(dir, "karma.json"), NewDocument)
	cooldowns := jsonstore.New(filepath.Join(dir, "cooldowns.json"), NewCooldowns)
	repo := NewRepository(data, cooldowns)

	catalog, err := LoadCatalog()
	require.NoError(t, err)

	return NewService(repo, catalog, cfg, rand.New(rand.NewSource(1)))
}

// seedAccount создаёт аккаунт с заданным балансом напрямую в документе.
func seedAccount(t *testing.T, svc *Service, userID int64, username string, karma int64) {
	t.Helper()
	err := svc.repo.UpdateData(context.Background(), func(doc *Document) error {
		doc.Users[UserKey(userID)] = &Account{Karma: karma, Username: username}
		return nil
	})
	require.NoError(t, err)
}

func balance(t *testing.T, svc *Service, userID int64) int64 {
	t.Helper()
	doc, err := svc.repo.LoadData(context.Background())
	require.NoError(t, err)
	acc, ok := doc.Users[UserKey(userID)]
	require.True(t, ok, "аккаунт %d должен существовать", userID)
	return acc.Karma
}

func TestClaimDailyGrantsWithinRange(t *testing.T) {
	svc := newTestService(t, testConfig())

	res, err := svc.ClaimDaily(context.Background(), 100, "alice")
	require.NoError(t, err)

	assert.GreaterOrEqual(t, res.Granted, int64(1))
	assert.LessOrEqual(t, res.Granted, int64(300))
	assert.Equal(t, res.Granted, res.NewBalance)
	assert.False(t, res.Owner)
}

func TestClaimDailyCooldown(t *testing.T) {
	svc := newTestService(t, testConfig())
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	first, err := svc.ClaimDaily(context.Background(), 100, "alice")
	require.NoError(t, err)

	// Повторный клейм через час — отказ с остатком 23h, баланс не растёт
	svc.now = func() time.Time { return base.Add(time.Hour) }
	_, err = svc.ClaimDaily(context.Background(), 100, "alice")

	var cdErr *common.CooldownActiveError
	require.ErrorAs(t, err, &cdErr)
	h, m := cdErr.HoursMinutes()
	assert.Equal(t, 23, h)
	assert.Equal(t, 0, m)
	assert.Equal(t, first.NewBalance, balance(t, svc, 100))

	// Ровно через 24 часа клейм снова возможен
	svc.now = func() time.Time { return base.Add(24 * time.Hour) }
	res, err := svc.ClaimDaily(context.Background(), 100, "alice")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.Granted, int64(1))
}

func TestClaimDailyConcurrentGrantsOnce(t *testing.T) {
	svc := newTestService(t, testConfig())
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	// Параллельные клеймы одного пользователя: проходит ровно один,
	// остальные упираются в кулдаун
	const workers = 8
	start := make(chan struct{})
	errs := make(chan error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := svc.ClaimDaily(context.Background(), 100, "alice")
			errs <- err
		}()
	}
	close(start)
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var cdErr *common.CooldownActiveError
		require.ErrorAs(t, err, &cdErr)
	}
	assert.Equal(t, 1, succeeded)
	assert.LessOrEqual(t, balance(t, svc, 100), int64(300))
}

func TestClaimDailyOwnerPinsSentinel(t *testing.T) {
	cfg := testConfig()
	cfg.OwnerID = 42
	svc := newTestService(t, cfg)

	// Баланс владельца каждый клейм фиксируется заново, кулдауна нет
	seedAccount(t, svc, 42, "boss", 123)

	for i := 0; i < 3; i++ {
		res, err := svc.ClaimDaily(context.Background(), 42, "boss")
		require.NoError(t, err)
		assert.True(t, res.Owner)
		assert.Equal(t, int64(999999), res.NewBalance)
	}
	assert.Equal(t, int64(999999), balance(t, svc, 42))
}

func TestTransfer(t *testing.T) {
	svc := newTestService(t, testConfig())
	seedAccount(t, svc, 1, "alice", 100)
	seedAccount(t, svc, 2, "bob", 10)

	res, err := svc.Transfer(context.Background(), 1, "bob", 40)
	require.NoError(t, err)
	assert.Equal(t, int64(60), res.SenderBalance)
	assert.Equal(t, int64(60), balance(t, svc, 1))
	assert.Equal(t, int64(50), balance(t, svc, 2))
}

func TestTransferInsufficientLeavesBalancesUnchanged(t *testing.T) {
	svc := newTestService(t, testConfig())
	seedAccount(t, svc, 1, "alice", 30)
	seedAccount(t, svc, 2, "bob", 10)

	_, err := svc.Transfer(context.Background(), 1, "bob", 31)
	assert.ErrorIs(t, err, common.ErrInsufficientKarma)

	assert.Equal(t, int64(30), balance(t, svc, 1))
	assert.Equal(t, int64(10), balance(t, svc, 2))
}

func TestTransferErrors(t *testing.T) {
	svc := newTestService(t, testConfig())
	seedAccount(t, svc, 1, "alice", 100)

	_, err := svc.Transfer(context.Background(), 1, "bob", 0)
	assert.ErrorIs(t, err, common.ErrInvalidAmount)

	_, err = svc.Transfer(context.Background(), 1, "bob", -5)
	assert.ErrorIs(t, err, common.ErrInvalidAmount)

	// Отправитель без аккаунта
	_, err = svc.Transfer(context.Background(), 99, "alice", 10)
	assert.ErrorIs(t, err, common.ErrNoAccount)

	// Получатель с таким хэндлом не существует
	_, err = svc.Transfer(context.Background(), 1, "ghost", 10)
	assert.ErrorIs(t, err, common.ErrUserNotFound)
}

func TestTransferOwnerSkipsDebit(t *testing.T) {
	cfg := testConfig()
	cfg.OwnerID = 1
	svc := newTestService(t, cfg)
	seedAccount(t, svc, 1, "boss", 5)
	seedAccount(t, svc, 2, "bob", 0)

	// Сумма больше баланса владельца: проверка баланса и списание пропускаются
	res, err := svc.Transfer(context.Background(), 1, "bob", 1000)
	require.NoError(t, err)
	assert.True(t, res.Owner)
	assert.Equal(t, int64(5), balance(t, svc, 1))
	assert.Equal(t, int64(1000), balance(t, svc, 2))
}

func TestTransferResolvesHandleByAscendingID(t *testing.T) {
	svc := newTestService(t, testConfig())
	seedAccount(t, svc, 1, "alice", 100)
	// Два аккаунта с одинаковым хэндлом: выигрывает меньший ID
	seedAccount(t, svc, 50, "dup", 0)
	seedAccount(t, svc, 7, "dup", 0)

	_, err := svc.Transfer(context.Background(), 1, "dup", 10)
	require.NoError(t, err)

	assert.Equal(t, int64(10), balance(t, svc, 7))
	assert.Equal(t, int64(0), balance(t, svc, 50))
}

func TestPurchaseDebitsExactPrice(t *testing.T) {
	svc := newTestService(t, testConfig())
	seedAccount(t, svc, 1, "alice", 300)

	res, err := svc.Purchase(context.Background(), 1, "alice", "p020")
	require.NoError(t, err)
	assert.Equal(t, "P020", res.Product.ID)
	assert.Equal(t, int64(50), res.NewBalance)
	assert.Equal(t, int64(50), balance(t, svc, 1))

	doc, err := svc.repo.LoadData(context.Background())
	require.NoError(t, err)
	_, owned := doc.Purchases[UserKey(1)]["P020"]
	assert.True(t, owned)
}

func TestPurchaseAlreadyOwnedBeforeBalanceCheck(t *testing.T) {
	svc := newTestService(t, testConfig())
	seedAccount(t, svc, 1, "alice", 250)

	_, err := svc.Purchase(context.Background(), 1, "alice", "P020")
	require.NoError(t, err)

	// Баланса уже не хватает, но ответ всё равно «уже куплен»
	_, err = svc.Purchase(context.Background(), 1, "alice", "P020")
	assert.ErrorIs(t, err, common.ErrAlreadyOwned)
}

func TestPurchaseErrors(t *testing.T) {
	svc := newTestService(t, testConfig())
	seedAccount(t, svc, 1, "alice", 100)

	_, err := svc.Purchase(context.Background(), 1, "alice", "P999")
	assert.ErrorIs(t, err, common.ErrUnknownProduct)

	_, err = svc.Purchase(context.Background(), 1, "alice", "P001")
	assert.ErrorIs(t, err, common.ErrInsufficientKarma)
	assert.Equal(t, int64(100), balance(t, svc, 1))
}

func TestPurchaseOwnerSkipsDebit(t *testing.T) {
	cfg := testConfig()
	cfg.OwnerID = 1
	svc := newTestService(t, cfg)
	seedAccount(t, svc, 1, "boss", 0)

	res, err := svc.Purchase(context.Background(), 1, "boss", "P001")
	require.NoError(t, err)
	assert.True(t, res.Owner)
	assert.Equal(t, int64(0), balance(t, svc, 1))
}

func TestBalanceOfCreatesAccountOnFirstTouch(t *testing.T) {
	svc := newTestService(t, testConfig())

	b, err := svc.BalanceOf(context.Background(), 500, "newbie")
	require.NoError(t, err)
	assert.Equal(t, int64(0), b)

	doc, err := svc.repo.LoadData(context.Background())
	require.NoError(t, err)
	acc, ok := doc.Users[UserKey(500)]
	require.True(t, ok)
	assert.Equal(t, "newbie", acc.Username)
}

func TestProfileByHandleDoesNotCreateAccount(t *testing.T) {
	svc := newTestService(t, testConfig())

	_, err := svc.ProfileByHandle(context.Background(), "ghost")
	assert.ErrorIs(t, err, common.ErrUserNotFound)

	doc, err := svc.repo.LoadData(context.Background())
	require.NoError(t, err)
	assert.Empty(t, doc.Users)
}

func TestLeaderboardOrdersByRankSumStable(t *testing.T) {
	svc := newTestService(t, testConfig())
	ctx := context.Background()

	seedAccount(t, svc, 10, "alice", 0)
	seedAccount(t, svc, 20, "bob", 0)
	seedAccount(t, svc, 30, "carol", 0)

	// alice: 20+10=30, bob: 19+11=30, carol: 10
	err := svc.repo.UpdateData(ctx, func(doc *Document) error {
		now := time.Now()
		doc.Purchases = map[string]map[string]time.Time{
			UserKey(10): {"P001": now, "P011": now},
			UserKey(20): {"P002": now, "P010": now},
			UserKey(30): {"P011": now},
		}
		return nil
	})
	require.NoError(t, err)

	entries, err := svc.Leaderboard(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Равные суммы сохраняют порядок обхода по возрастанию ID
	assert.Equal(t, "alice", entries[0].Handle)
	assert.Equal(t, 30, entries[0].RankSum)
	assert.Equal(t, "bob", entries[1].Handle)
	assert.Equal(t, 30, entries[1].RankSum)
	assert.Equal(t, "carol", entries[2].Handle)
	assert.Equal(t, 10, entries[2].RankSum)
}

func TestLeaderboardSkipsUsersWithoutPurchases(t *testing.T) {
	svc := newTestService(t, testConfig())
	seedAccount(t, svc, 1, "alice", 1000)

	entries, err := svc.Leaderboard(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

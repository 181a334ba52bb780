package moderation

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/karma-bot/internal/common"
	"serotonyl.ru/karma-bot/internal/db/jsonstore"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	store := jsonstore.New(filepath.Join(t.TempDir(), "filters.json"), NewDocument)
	return NewService(NewRepository(store))
}

func TestAddFilterStoresLowercase(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddFilter(ctx, "-100", "SPAM"))

	words, err := svc.ListFilters(ctx, "-100")
	require.NoError(t, err)
	assert.Equal(t, []string{"spam"}, words)
}

func TestAddFilterDuplicate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddFilter(ctx, "-100", "spam"))

	// Дубликат в другом регистре — отдельный исход, список не растёт
	err := svc.AddFilter(ctx, "-100", "Spam")
	assert.ErrorIs(t, err, common.ErrWordAlreadyFiltered)

	words, err := svc.ListFilters(ctx, "-100")
	require.NoError(t, err)
	assert.Len(t, words, 1)
}

func TestRemoveFilter(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddFilter(ctx, "-100", "spam"))
	require.NoError(t, svc.AddFilter(ctx, "-100", "scam"))

	require.NoError(t, svc.RemoveFilter(ctx, "-100", "SPAM"))

	words, err := svc.ListFilters(ctx, "-100")
	require.NoError(t, err)
	assert.Equal(t, []string{"scam"}, words)

	err = svc.RemoveFilter(ctx, "-100", "spam")
	assert.ErrorIs(t, err, common.ErrWordNotFiltered)
}

func TestFiltersAreScopedPerGroup(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddFilter(ctx, "-100", "spam"))

	words, err := svc.ListFilters(ctx, "-200")
	require.NoError(t, err)
	assert.Empty(t, words)

	err = svc.RemoveFilter(ctx, "-200", "spam")
	assert.ErrorIs(t, err, common.ErrWordNotFiltered)
}

func TestScanMessageCaseInsensitiveSubstring(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddFilter(ctx, "-100", "spam"))

	word, found, err := svc.ScanMessage(ctx, "-100", "This is SPAM now")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "spam", word)

	// Вхождение подстроки внутри слова тоже считается
	_, found, err = svc.ScanMessage(ctx, "-100", "antispammer")
	require.NoError(t, err)
	assert.True(t, found)

	_, found, err = svc.ScanMessage(ctx, "-100", "perfectly clean")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestScanMessageFirstMatchInListOrder(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddFilter(ctx, "-100", "scam"))
	require.NoError(t, svc.AddFilter(ctx, "-100", "spam"))

	// Оба слова в тексте: выигрывает то, что добавили раньше
	word, found, err := svc.ScanMessage(ctx, "-100", "spam and scam")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "scam", word)
}

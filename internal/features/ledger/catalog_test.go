package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalogInvariants(t *testing.T) {
	catalog, err := LoadCatalog()
	require.NoError(t, err)
	require.Equal(t, 20, catalog.Len())

	seenRanks := make(map[int]bool)
	for _, p := range catalog.All() {
		assert.Positive(t, p.Price, "товар %s", p.ID)
		assert.False(t, seenRanks[p.Rank], "дублирующийся ранг %d", p.Rank)
		seenRanks[p.Rank] = true
	}
	for rank := 1; rank <= 20; rank++ {
		assert.True(t, seenRanks[rank], "ранг %d отсутствует", rank)
	}
}

func TestCatalogGetCaseInsensitive(t *testing.T) {
	catalog, err := LoadCatalog()
	require.NoError(t, err)

	upper, ok := catalog.Get("P001")
	require.True(t, ok)
	lower, ok := catalog.Get("p001")
	require.True(t, ok)
	assert.Equal(t, upper, lower)

	assert.Equal(t, int64(50000), upper.Price)
	assert.Equal(t, 20, upper.Rank)

	_, ok = catalog.Get("P021")
	assert.False(t, ok)
}

func TestCatalogAllSortedByRankDescending(t *testing.T) {
	catalog, err := LoadCatalog()
	require.NoError(t, err)

	all := catalog.All()
	for i := 1; i < len(all); i++ {
		assert.Greater(t, all[i-1].Rank, all[i].Rank)
	}
}

func TestCatalogTiersCoverEverything(t *testing.T) {
	catalog, err := LoadCatalog()
	require.NoError(t, err)

	total := 0
	for _, tier := range catalog.Tiers() {
		total += len(tier.Products)
		for _, p := range tier.Products {
			assert.GreaterOrEqual(t, p.Rank, tier.MinRank)
			assert.LessOrEqual(t, p.Rank, tier.MaxRank)
		}
	}
	assert.Equal(t, catalog.Len(), total)
}

// Package ledger — catalog.go загружает каталог статусов.
// Каталог статический: 20 позиций, встроены в бинарь как YAML.
package ledger

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed products.yaml
var productsYAML []byte

// Product — одна позиция каталога статусов.
type Product struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Price int64  `yaml:"price"`
	Rank  int    `yaml:"rank"`
}

// Catalog — неизменяемый каталог статусов.
type Catalog struct {
	products []Product          // По убыванию ранга (порядок витрины)
	byID     map[string]Product // Поиск по PID
}

// LoadCatalog разбирает встроенный YAML и валидирует инварианты:
// уникальные PID, уникальные ранги 1..N, положительные цены.
func LoadCatalog() (*Catalog, error) {
	var products []Product
	if err := yaml.Unmarshal(productsYAML, &products); err != nil {
		return nil, fmt.Errorf("разбор каталога: %w", err)
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("каталог пуст")
	}

	byID := make(map[string]Product, len(products))
	ranks := make(map[int]string, len(products))
	for _, p := range products {
		if p.ID == "" || p.Name == "" {
			return nil, fmt.Errorf("позиция каталога без id или name")
		}
		if p.Price <= 0 {
			return nil, fmt.Errorf("товар %s: цена должна быть положительной", p.ID)
		}
		if p.Rank < 1 || p.Rank > len(products) {
			return nil, fmt.Errorf("товар %s: ранг %d вне диапазона 1..%d", p.ID, p.Rank, len(products))
		}
		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("дублирующийся PID %s", p.ID)
		}
		if owner, dup := ranks[p.Rank]; dup {
			return nil, fmt.Errorf("ранг %d у %s и %s", p.Rank, owner, p.ID)
		}
		byID[p.ID] = p
		ranks[p.Rank] = p.ID
	}

	sorted := make([]Product, len(products))
	copy(sorted, products)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Rank > sorted[j].Rank })

	return &Catalog{products: sorted, byID: byID}, nil
}

// Get возвращает товар по PID (регистр не важен).
func (c *Catalog) Get(pid string) (Product, bool) {
	p, ok := c.byID[strings.ToUpper(pid)]
	return p, ok
}

// All возвращает товары по убыванию ранга.
func (c *Catalog) All() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Len возвращает размер каталога.
func (c *Catalog) Len() int {
	return len(c.products)
}

// Tier — ценовой уровень витрины. Чисто отображение, на поведение не влияет.
type Tier struct {
	Title    string
	MinRank  int
	MaxRank  int
	Products []Product
}

// Tiers группирует каталог по уровням витрины, как в /store.
func (c *Catalog) Tiers() []Tier {
	tiers := []Tier{
		{Title: "🔥 LEGENDARY TIER", MinRank: 17, MaxRank: 20},
		{Title: "💫 EPIC TIER", MinRank: 13, MaxRank: 16},
		{Title: "✨ RARE TIER", MinRank: 9, MaxRank: 12},
		{Title: "🌟 UNCOMMON TIER", MinRank: 5, MaxRank: 8},
		{Title: "🌱 STARTER TIER", MinRank: 1, MaxRank: 4},
	}
	for i := range tiers {
		for _, p := range c.products {
			if p.Rank >= tiers[i].MinRank && p.Rank <= tiers[i].MaxRank {
				tiers[i].Products = append(tiers[i].Products, p)
			}
		}
	}
	return tiers
}

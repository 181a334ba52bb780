// Package games — models.go описывает структуру документа shipping.json.
package games

import (
	"strconv"
	"time"
)

// Couple — одна запись истории шиппинга.
type Couple struct {
	Couple     [2]string `json:"couple"`     // Хэндлы (или ID) пары
	Percentage int       `json:"percentage"` // Совместимость 0..100
	Date       time.Time `json:"date"`
}

// Document — содержимое shipping.json.
// LastShip — кулдаун по группе; Couples — история, только добавляется.
type Document struct {
	LastShip map[string]time.Time `json:"last_ship"`
	Couples  map[string][]Couple  `json:"couples"`
}

// NewDocument возвращает пустой документ шиппинга.
func NewDocument() Document {
	return Document{
		LastShip: make(map[string]time.Time),
		Couples:  make(map[string][]Couple),
	}
}

// Candidate — кандидат на шиппинг. Боты не участвуют.
type Candidate struct {
	UserID   int64
	Username string
	IsBot    bool
}

// Handle возвращает хэндл кандидата, либо ID строкой, если хэндла нет.
func (c Candidate) Handle() string {
	if c.Username != "" {
		return c.Username
	}
	return strconv.FormatInt(c.UserID, 10)
}

// ShipResult — итог успешного шиппинга.
type ShipResult struct {
	PartnerA   string
	PartnerB   string
	Percentage int
}

// Heart подбирает эмодзи сердца под процент совместимости.
func (r *ShipResult) Heart() string {
	switch {
	case r.Percentage >= 80:
		return "❤️"
	case r.Percentage >= 60:
		return "💖"
	case r.Percentage >= 40:
		return "💝"
	case r.Percentage >= 20:
		return "💓"
	default:
		return "💔"
	}
}

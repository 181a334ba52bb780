// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: форматирование чисел и остатков кулдауна.
package common

import (
	"fmt"
	"strconv"
	"time"
)

// GroupKey переводит ID группового чата в ключ JSON-документа.
// Документы фильтров и шиппинга ключуются строками.
func GroupKey(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

// FormatNumber форматирует число с разделителями тысяч (запятыми).
// Пример: FormatNumber(50000) → "50,000"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	// Рекурсивно добавляем разделители
	rest := n / 1000
	last := n % 1000

	if rest > 0 {
		return fmt.Sprintf("%s,%03d", FormatNumber(rest), last)
	}
	return fmt.Sprintf("%d", last)
}

// PluralizePoints возвращает "point" или "points" для числа n.
// Бот отвечает на английском, так что правило простое.
func PluralizePoints(n int64) string {
	if n == 1 || n == -1 {
		return "point"
	}
	return "points"
}

// FormatRemaining форматирует остаток кулдауна в виде "23h 59m".
// Часы и минуты округляются вниз.
func FormatRemaining(d time.Duration) string {
	secs := int(d.Seconds())
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%dh %dm", secs/3600, (secs%3600)/60)
}

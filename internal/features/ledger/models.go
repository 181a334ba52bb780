// Package ledger реализует систему кармы: аккаунты, ежедневный клейм,
// переводы, покупки статусов и лидерборд.
// models.go описывает структуру документа karma.json и документа кулдаунов.
package ledger

import "time"

// Account — аккаунт пользователя в документе karma.json.
// Создаётся лениво при первом взаимодействии; не удаляется никогда.
type Account struct {
	Karma    int64  `json:"karma"`    // Текущий баланс, никогда не отрицательный
	Username string `json:"username"` // Хэндл без @ (не гарантированно уникален)
}

// Document — содержимое karma.json.
// Ключи обеих мап — Telegram user ID в виде строки.
type Document struct {
	Users map[string]*Account `json:"users"`
	// Purchases[userID][productID] — время покупки.
	// Пара (userID, productID) встречается не больше одного раза:
	// покупки постоянные и неповторяемые.
	Purchases map[string]map[string]time.Time `json:"purchases"`
}

// NewDocument возвращает пустой документ кармы.
func NewDocument() Document {
	return Document{
		Users:     make(map[string]*Account),
		Purchases: make(map[string]map[string]time.Time),
	}
}

// Cooldowns — содержимое cooldowns.json: время последнего клейма
// по пользователю. Перезаписывается при каждом успешном клейме.
type Cooldowns map[string]time.Time

// NewCooldowns возвращает пустой документ кулдаунов.
func NewCooldowns() Cooldowns {
	return make(Cooldowns)
}

// ClaimResult — итог успешного ежедневного клейма.
type ClaimResult struct {
	Granted    int64 // Сколько начислено (0 для владельца)
	NewBalance int64
	Owner      bool // Клейм владельца: баланс зафиксирован сентинелом
}

// TransferResult — итог успешного перевода.
type TransferResult struct {
	Amount        int64
	TargetHandle  string
	SenderBalance int64
	Owner         bool // Отправитель привилегирован, списания не было
}

// PurchaseResult — итог успешной покупки.
type PurchaseResult struct {
	Product    Product
	NewBalance int64
	Owner      bool
}

// Profile — карма и статусы одного пользователя для /karma и /info.
type Profile struct {
	UserID   string
	Username string
	Karma    int64
	Badges   []string // Имена купленных статусов
}

// LeaderboardEntry — строка лидерборда.
type LeaderboardEntry struct {
	Handle  string
	RankSum int      // Сумма рангов купленных статусов
	Badges  []string // Имена статусов
}

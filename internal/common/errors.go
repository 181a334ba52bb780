// Package common — errors.go определяет пользовательские ошибки,
// которые используются во всех модулях бота.
// Обработчики различают их через errors.Is/As и отвечают пользователю
// понятным сообщением в чате; в лог как error они не попадают.
package common

import (
	"errors"
	"fmt"
	"time"
)

// Ошибки кармы (начисления, переводы, покупки)
var (
	// ErrInsufficientKarma — недостаточно кармы на счёте
	ErrInsufficientKarma = errors.New("недостаточно кармы на счёте")
	// ErrInvalidAmount — некорректная сумма (ноль или отрицательная)
	ErrInvalidAmount = errors.New("сумма должна быть положительной")
	// ErrUserNotFound — получатель не найден среди аккаунтов
	ErrUserNotFound = errors.New("пользователь не найден")
	// ErrNoAccount — у отправителя ещё нет аккаунта кармы
	ErrNoAccount = errors.New("у пользователя нет аккаунта кармы")
	// ErrUnknownProduct — нет такого PID в каталоге
	ErrUnknownProduct = errors.New("неизвестный товар")
	// ErrAlreadyOwned — статус уже куплен этим пользователем
	ErrAlreadyOwned = errors.New("статус уже куплен")
)

// Ошибки фильтров слов
var (
	// ErrWordAlreadyFiltered — слово уже есть в списке группы
	ErrWordAlreadyFiltered = errors.New("слово уже в фильтре")
	// ErrWordNotFiltered — слова нет в списке группы
	ErrWordNotFiltered = errors.New("слова нет в фильтре")
)

// Ошибки мини-игр
var (
	// ErrInvalidMode — режим не truth и не dare
	ErrInvalidMode = errors.New("режим должен быть truth или dare")
	// ErrNotEnoughMembers — меньше двух кандидатов для шиппинга
	ErrNotEnoughMembers = errors.New("недостаточно участников")
)

// ErrNoDefinition — Urban Dictionary ничего не нашёл по запросу
var ErrNoDefinition = errors.New("определение не найдено")

// CooldownActiveError возвращается, когда действие ещё на кулдауне.
// Несёт остаток времени до следующей попытки.
type CooldownActiveError struct {
	Remaining time.Duration
}

func (e *CooldownActiveError) Error() string {
	return fmt.Sprintf("кулдаун активен ещё %s", e.Remaining)
}

// HoursMinutes возвращает остаток, округлённый вниз до часов и минут.
// В ответах чата остаток показывается как "23h 59m".
func (e *CooldownActiveError) HoursMinutes() (int, int) {
	secs := int(e.Remaining.Seconds())
	if secs < 0 {
		secs = 0
	}
	return secs / 3600, (secs % 3600) / 60
}

// Package moderation — handlers.go обрабатывает команду /filters
// и проверку обычных сообщений на фильтрованные слова.
package moderation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/karma-bot/internal/common"
)

// Handler обрабатывает команды модерации.
type Handler struct {
	service *Service
	bot     *tgbotapi.BotAPI
}

// NewHandler создаёт обработчик модерации.
func NewHandler(service *Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleFilters обрабатывает /filters [add|remove word].
// Вызывающий уже проверил права администратора — здесь им доверяем.
func (h *Handler) HandleFilters(ctx context.Context, chatID int64, args []string) {
	groupID := common.GroupKey(chatID)

	if len(args) == 0 {
		words, err := h.service.ListFilters(ctx, groupID)
		if err != nil {
			log.WithError(err).Error("Ошибка чтения фильтров")
			h.sendMessage(chatID, "❌ Error reading filters")
			return
		}
		if len(words) == 0 {
			h.sendMessage(chatID, "No filtered words set.\nUse: /filters add <word>")
			return
		}

		var sb strings.Builder
		sb.WriteString("*Filtered Words:*\n")
		for _, w := range words {
			sb.WriteString(fmt.Sprintf("• %s\n", w))
		}
		sb.WriteString("\nCommands:\n/filters add <word>\n/filters remove <word>")
		h.sendMarkdown(chatID, sb.String())
		return
	}

	if len(args) < 2 {
		h.sendMessage(chatID, "❌ Please specify a word!")
		return
	}

	action := strings.ToLower(args[0])
	word := strings.ToLower(args[1])

	switch action {
	case "add":
		err := h.service.AddFilter(ctx, groupID, word)
		if errors.Is(err, common.ErrWordAlreadyFiltered) {
			h.sendMessage(chatID, "This word is already filtered!")
			return
		}
		if err != nil {
			log.WithError(err).Error("Ошибка добавления фильтра")
			h.sendMessage(chatID, "❌ Error updating filters")
			return
		}
		h.sendMessage(chatID, fmt.Sprintf("✅ Added '%s' to filtered words", word))

	case "remove":
		err := h.service.RemoveFilter(ctx, groupID, word)
		if errors.Is(err, common.ErrWordNotFiltered) {
			h.sendMessage(chatID, "This word is not in the filter list!")
			return
		}
		if err != nil {
			log.WithError(err).Error("Ошибка удаления фильтра")
			h.sendMessage(chatID, "❌ Error updating filters")
			return
		}
		h.sendMessage(chatID, fmt.Sprintf("✅ Removed '%s' from filtered words", word))

	default:
		h.sendMessage(chatID, "❌ Usage: /filters add|remove <word>")
	}
}

// CheckMessage проверяет обычное сообщение группы на фильтрованные слова.
// При совпадении удаляет сообщение и постит предупреждение.
// Возвращает true, если сообщение было перехвачено.
func (h *Handler) CheckMessage(ctx context.Context, message *tgbotapi.Message) bool {
	word, matched, err := h.service.ScanMessage(ctx, common.GroupKey(message.Chat.ID), message.Text)
	if err != nil {
		log.WithError(err).Error("Ошибка сканирования сообщения")
		return false
	}
	if !matched {
		return false
	}

	del := tgbotapi.NewDeleteMessage(message.Chat.ID, message.MessageID)
	if _, err := h.bot.Request(del); err != nil {
		// Нет прав на удаление — предупреждение всё равно отправляем
		log.WithError(err).WithField("chat_id", message.Chat.ID).Warn("Не удалось удалить сообщение")
	}

	who := message.From.UserName
	if who == "" {
		who = message.From.FirstName
	}
	h.sendMessage(message.Chat.ID, fmt.Sprintf("⚠️ @%s used a filtered word!", who))

	log.WithFields(log.Fields{
		"chat_id": message.Chat.ID,
		"user_id": message.From.ID,
		"word":    word,
	}).Info("Сообщение с фильтрованным словом перехвачено")
	return true
}

// sendMessage — вспомогательный метод для отправки текстовых сообщений.
func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}

// sendMarkdown отправляет сообщение с Markdown, при ошибке — без разметки.
func (h *Handler) sendMarkdown(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := h.bot.Send(msg); err != nil {
		h.sendMessage(chatID, text)
	}
}

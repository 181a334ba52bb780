// Package urban — handlers.go обрабатывает команду /urban.
package urban

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/karma-bot/internal/common"
)

// Handler обрабатывает команду словаря.
type Handler struct {
	client *Client
	bot    *tgbotapi.BotAPI
}

// NewHandler создаёт обработчик /urban.
func NewHandler(client *Client, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{client: client, bot: bot}
}

// HandleUrban обрабатывает /urban word...
// Ошибки внешнего сервиса сводятся к общему ответу — краша нет.
func (h *Handler) HandleUrban(ctx context.Context, chatID int64, args []string) {
	if len(args) == 0 {
		h.sendMessage(chatID, "Usage: /urban <word>")
		return
	}

	term := strings.Join(args, " ")
	def, err := h.client.Define(ctx, term)
	if err != nil {
		if errors.Is(err, common.ErrNoDefinition) {
			h.sendMessage(chatID, fmt.Sprintf("No definition found for '%s'", term))
			return
		}
		log.WithError(err).WithField("term", term).Warn("Urban Dictionary недоступен")
		h.sendMessage(chatID, "Error accessing Urban Dictionary")
		return
	}

	text := fmt.Sprintf(
		"📚 *%s*\n\n*Definition:*\n%s\n\n*Example:*\n%s\n\n👍 %d | 👎 %d",
		term,
		truncate(def.Definition, 1000),
		truncate(def.Example, 500),
		def.ThumbsUp, def.ThumbsDown,
	)

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := h.bot.Send(msg); err != nil {
		h.sendMessage(chatID, text)
	}
}

// truncate обрезает строку до max рун с многоточием.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// sendMessage — вспомогательный метод для отправки текстовых сообщений.
func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}

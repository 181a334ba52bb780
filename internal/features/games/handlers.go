// Package games — handlers.go обрабатывает команды /tod, /nhie и /shipping.
package games

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/karma-bot/internal/common"
)

// Handler обрабатывает команды мини-игр.
type Handler struct {
	service *Service
	bot     *tgbotapi.BotAPI
}

// NewHandler создаёт обработчик мини-игр.
func NewHandler(service *Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleTod обрабатывает /tod truth|dare.
func (h *Handler) HandleTod(ctx context.Context, chatID int64, args []string) {
	if len(args) == 0 {
		h.sendMessage(chatID, "Usage: /tod <truth/dare>\nExample: /tod truth")
		return
	}

	mode := strings.ToLower(args[0])
	text, err := h.service.TruthOrDare(mode)
	if err != nil {
		h.sendMessage(chatID, "Please choose either 'truth' or 'dare'")
		return
	}

	if mode == "dare" {
		h.sendMarkdown(chatID, fmt.Sprintf("😈 *Dare Challenge:*\n\n%s", text))
		return
	}
	h.sendMarkdown(chatID, fmt.Sprintf("🤔 *Truth Question:*\n\n%s", text))
}

// HandleNhie обрабатывает /nhie.
func (h *Handler) HandleNhie(ctx context.Context, chatID int64) {
	prompt := h.service.NeverHaveIEver()
	h.sendMarkdown(chatID, fmt.Sprintf(
		"🎮 *Never Have I Ever...*\n\n%s\n\n"+
			"Reply with 🙋‍♂️ if you have\n"+
			"Reply with 🙅‍♂️ if you haven't",
		prompt,
	))
}

// HandleShipping обрабатывает /shipping.
// Кандидаты — администраторы группы: это единственный список участников,
// который отдаёт Bot API без прав на просмотр всех членов чата.
func (h *Handler) HandleShipping(ctx context.Context, chatID int64) {
	admins, err := h.bot.GetChatAdministrators(tgbotapi.ChatAdministratorsConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: chatID},
	})
	if err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("GetChatAdministrators failed")
		h.sendMessage(chatID, "❌ Error in shipping")
		return
	}

	candidates := make([]Candidate, 0, len(admins))
	for _, a := range admins {
		if a.User == nil {
			continue
		}
		candidates = append(candidates, Candidate{
			UserID:   a.User.ID,
			Username: a.User.UserName,
			IsBot:    a.User.IsBot,
		})
	}

	res, err := h.service.Ship(ctx, common.GroupKey(chatID), candidates)
	if err != nil {
		var cooldown *common.CooldownActiveError
		switch {
		case errors.As(err, &cooldown):
			hours, minutes := cooldown.HoursMinutes()
			h.sendMessage(chatID, fmt.Sprintf("⏳ Next shipping in %dh %dm", hours, minutes))
		case errors.Is(err, common.ErrNotEnoughMembers):
			h.sendMessage(chatID, "Not enough members for shipping! 💔")
		default:
			log.WithError(err).Error("Ошибка шиппинга")
			h.sendMessage(chatID, "❌ Error in shipping")
		}
		return
	}

	verdict := "Interesting couple! 🤔"
	if res.Percentage >= 80 {
		verdict = "Perfect Match! 🎉"
	}

	h.sendMarkdown(chatID, fmt.Sprintf(
		"🎯 *Today's Love Match* 🎯\n\n"+
			"@%s + @%s = %s\n\n"+
			"Love Percentage: %d%%\n\n%s",
		res.PartnerA, res.PartnerB, res.Heart(), res.Percentage, verdict,
	))
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

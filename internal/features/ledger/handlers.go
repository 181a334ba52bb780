// Package ledger — handlers.go обрабатывает команды:
// /rewards (клейм), /karma (баланс), /give (перевод), /store (витрина),
// /buy (покупка), /leaderboard (рейтинг), /info (профиль).
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/karma-bot/internal/common"
)

// Handler обрабатывает команды кармы.
type Handler struct {
	service *Service
	bot     *tgbotapi.BotAPI
}

// NewHandler создаёт обработчик команд кармы.
func NewHandler(service *Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleRewards обрабатывает /rewards — ежедневный клейм.
func (h *Handler) HandleRewards(ctx context.Context, chatID, userID int64, username string) {
	res, err := h.service.ClaimDaily(ctx, userID, username)
	if err != nil {
		var cooldown *common.CooldownActiveError
		if errors.As(err, &cooldown) {
			hours, minutes := cooldown.HoursMinutes()
			h.sendMessage(chatID, fmt.Sprintf("⏳ You can claim rewards again in %dh %dm", hours, minutes))
			return
		}
		log.WithError(err).Error("Ошибка клейма")
		h.sendMessage(chatID, "❌ Error claiming rewards")
		return
	}

	if res.Owner {
		h.sendMarkdown(chatID, "👑 *Owner Karma Refreshed*\nYou now have unlimited karma points!")
		return
	}

	h.sendMessage(chatID, fmt.Sprintf(
		"🎉 You received %d karma points!\nCurrent balance: %d points",
		res.Granted, res.NewBalance,
	))
}

// HandleKarma обрабатывает /karma [@handle] — показывает карму и статусы.
func (h *Handler) HandleKarma(ctx context.Context, chatID, userID int64, username string, args []string) {
	if len(args) > 0 {
		handle := strings.TrimPrefix(args[0], "@")
		profile, err := h.service.ProfileByHandle(ctx, handle)
		if err != nil {
			if errors.Is(err, common.ErrUserNotFound) {
				h.sendMessage(chatID, "❌ User not found")
				return
			}
			log.WithError(err).Error("Ошибка чтения профиля")
			h.sendMessage(chatID, "❌ Error fetching karma")
			return
		}

		text := fmt.Sprintf("👤 *User:* @%s\n💰 *Karma Points:* %s\n",
			handle, common.FormatNumber(profile.Karma))
		if len(profile.Badges) > 0 {
			text += fmt.Sprintf("🏆 *Owned Statuses:*\n%s", strings.Join(profile.Badges, " "))
		}
		h.sendMarkdown(chatID, text)
		return
	}

	profile, err := h.service.ProfileOf(ctx, userID, username)
	if err != nil {
		log.WithError(err).Error("Ошибка чтения профиля")
		h.sendMessage(chatID, "❌ Error fetching karma")
		return
	}

	text := fmt.Sprintf("👤 *Your Karma Stats*\n💰 *Current Balance:* %s %s\n",
		common.FormatNumber(profile.Karma), common.PluralizePoints(profile.Karma))
	if len(profile.Badges) > 0 {
		text += fmt.Sprintf("🏆 *Your Statuses:*\n%s", strings.Join(profile.Badges, " "))
	} else {
		text += "\n💫 *Tip:* Use `/store` to see available statuses!"
	}
	h.sendMarkdown(chatID, text)
}

// HandleGive обрабатывает /give @handle amount — перевод кармы.
func (h *Handler) HandleGive(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) != 2 {
		h.sendMessage(chatID, "❌ Usage: /give @username amount")
		return
	}

	handle := strings.TrimPrefix(args[0], "@")
	if handle == "" {
		h.sendMessage(chatID, "❌ Usage: /give @username amount")
		return
	}

	amount, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || amount <= 0 {
		h.sendMessage(chatID, "❌ Please specify a valid amount")
		return
	}

	res, err := h.service.Transfer(ctx, userID, handle, amount)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNoAccount):
			h.sendMessage(chatID, "❌ You don't have any karma points")
		case errors.Is(err, common.ErrUserNotFound):
			h.sendMessage(chatID, "❌ User not found")
		case errors.Is(err, common.ErrInsufficientKarma):
			h.sendMessage(chatID, "❌ Insufficient karma points")
		case errors.Is(err, common.ErrInvalidAmount):
			h.sendMessage(chatID, "❌ Please specify a valid amount")
		default:
			log.WithError(err).Error("Ошибка перевода")
			h.sendMessage(chatID, "❌ Error processing transfer")
		}
		return
	}

	text := fmt.Sprintf("✅ Successfully sent %d karma to @%s", res.Amount, res.TargetHandle)
	if !res.Owner {
		text += fmt.Sprintf("\nYour new balance: %d", res.SenderBalance)
	}
	h.sendMessage(chatID, text)
}

// HandleStore обрабатывает /store — показывает витрину статусов по уровням.
func (h *Handler) HandleStore(ctx context.Context, chatID int64) {
	var sb strings.Builder
	sb.WriteString("*🏪 ═══ Karma Store ═══*\n")

	for _, tier := range h.service.Catalog().Tiers() {
		sb.WriteString(fmt.Sprintf("\n*%s*\n", tier.Title))
		sb.WriteString("┄┄┄┄┄┄┄┄┄┄┄┄┄┄┄┄\n")
		for _, p := range tier.Products {
			sb.WriteString(fmt.Sprintf("• %s\n", p.Name))
			sb.WriteString(fmt.Sprintf("  💰 Price: %s karma\n", common.FormatNumber(p.Price)))
			sb.WriteString(fmt.Sprintf("  🔑 PID: `%s`\n\n", p.ID))
		}
	}

	sb.WriteString("\n*How to purchase:*\nUse command: `/buy PID`")
	h.sendMarkdown(chatID, sb.String())
}

// HandleBuy обрабатывает /buy PID — покупку статуса.
func (h *Handler) HandleBuy(ctx context.Context, chatID, userID int64, username string, args []string) {
	if len(args) == 0 {
		h.sendMessage(chatID, "❌ Please specify a Product ID (PID)")
		return
	}

	pid := strings.ToUpper(args[0])
	res, err := h.service.Purchase(ctx, userID, username, pid)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrUnknownProduct):
			h.sendMessage(chatID, "❌ Invalid Product ID")
		case errors.Is(err, common.ErrAlreadyOwned):
			h.sendMessage(chatID, "❌ You already own this status")
		case errors.Is(err, common.ErrInsufficientKarma):
			h.replyInsufficient(ctx, chatID, userID, username, pid)
		default:
			log.WithError(err).Error("Ошибка покупки")
			h.sendMessage(chatID, "❌ Error processing purchase")
		}
		return
	}

	text := fmt.Sprintf("✅ Successfully purchased %s", res.Product.Name)
	if !res.Owner {
		text += fmt.Sprintf("\nRemaining karma: %s", common.FormatNumber(res.NewBalance))
	}
	h.sendMessage(chatID, text)
}

// replyInsufficient считает, сколько кармы не хватило до цены.
func (h *Handler) replyInsufficient(ctx context.Context, chatID, userID int64, username, pid string) {
	text := "❌ Insufficient karma points"
	if product, ok := h.service.Catalog().Get(pid); ok {
		if balance, err := h.service.BalanceOf(ctx, userID, username); err == nil && balance < product.Price {
			text += fmt.Sprintf("\nYou need %s more points", common.FormatNumber(product.Price-balance))
		}
	}
	h.sendMessage(chatID, text)
}

// HandleLeaderboard обрабатывает /leaderboard — топ-10 по статусам.
func (h *Handler) HandleLeaderboard(ctx context.Context, chatID int64) {
	entries, err := h.service.Leaderboard(ctx)
	if err != nil {
		log.WithError(err).Error("Ошибка построения лидерборда")
		h.sendMessage(chatID, "❌ Error building leaderboard")
		return
	}

	if len(entries) == 0 {
		h.sendMessage(chatID, "No purchases yet!")
		return
	}

	var sb strings.Builder
	sb.WriteString("*🏆 Status Leaderboard*\n\n")
	medals := []string{"🥇", "🥈", "🥉"}
	for i, e := range entries {
		if i >= 10 {
			break
		}
		// Топ-3 отличаются только медалью — на поведение это не влияет
		position := fmt.Sprintf("%d.", i+1)
		if i < len(medals) {
			position = medals[i]
		}
		sb.WriteString(fmt.Sprintf("%s @%s\n", position, e.Handle))
		sb.WriteString(fmt.Sprintf("Statuses: %s\n\n", strings.Join(e.Badges, " ")))
	}
	h.sendMarkdown(chatID, sb.String())
}

// HandleInfo обрабатывает /info — подробный профиль пользователя.
// Цель — либо автор реплая, либо отправитель команды. Статус в чате
// запрашивается у Telegram.
func (h *Handler) HandleInfo(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	target := message.From
	if message.ReplyToMessage != nil && message.ReplyToMessage.From != nil {
		target = message.ReplyToMessage.From
	}

	statusLine := "👤 Member"
	member, err := h.bot.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID: chatID,
			UserID: target.ID,
		},
	})
	if err != nil {
		log.WithError(err).WithField("user_id", target.ID).Warn("GetChatMember failed")
	} else {
		statuses := map[string]string{
			"creator":       "👑 Creator",
			"administrator": "⚜️ Admin",
			"member":        "👤 Member",
			"restricted":    "⚠️ Restricted",
			"left":          "🚶 Left",
			"kicked":        "🚫 Banned",
		}
		if s, ok := statuses[member.Status]; ok {
			statusLine = s
		} else {
			statusLine = member.Status
		}
	}

	profile, err := h.service.ProfileOf(ctx, target.ID, target.UserName)
	if err != nil {
		log.WithError(err).Error("Ошибка чтения профиля")
		h.sendMessage(chatID, "❌ Error fetching user info")
		return
	}

	usernameLine := "├ *Username:* None"
	if target.UserName != "" {
		usernameLine = fmt.Sprintf("├ *Username:* @%s", target.UserName)
	}

	lines := []string{
		"*👤 User Information*",
		fmt.Sprintf("┌ *Name:* %s", target.FirstName),
		usernameLine,
		fmt.Sprintf("├ *User ID:* `%d`", target.ID),
		fmt.Sprintf("└ *Status:* %s", statusLine),
		"",
		"*💰 Karma Information*",
		fmt.Sprintf("├ *Balance:* %s %s", common.FormatNumber(profile.Karma), common.PluralizePoints(profile.Karma)),
		fmt.Sprintf("└ *Owned Statuses:* %d", len(profile.Badges)),
	}
	if len(profile.Badges) > 0 {
		lines = append(lines, "", "*🏆 Active Statuses:*")
		for _, badge := range profile.Badges {
			lines = append(lines, fmt.Sprintf("  • %s", badge))
		}
	}

	h.sendMarkdown(chatID, strings.Join(lines, "\n"))
}

// sendMessage — вспомогательный метод для отправки текстовых сообщений.
func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}

// sendMarkdown отправляет сообщение с разметкой Markdown.
// Если Telegram отверг разметку — повторяем без неё.
func (h *Handler) sendMarkdown(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := h.bot.Send(msg); err != nil {
		h.sendMessage(chatID, text)
	}
}

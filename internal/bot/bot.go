// Package bot содержит главный модуль бота — запуск polling,
// разбор команд и маршрутизацию к обработчикам фич.
package bot

import (
	"context"
	"math/rand"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/karma-bot/internal/bot/middleware"
	"serotonyl.ru/karma-bot/internal/config"
	"serotonyl.ru/karma-bot/internal/features/games"
	"serotonyl.ru/karma-bot/internal/features/ledger"
	"serotonyl.ru/karma-bot/internal/features/moderation"
	"serotonyl.ru/karma-bot/internal/features/urban"
)

// Bot — главная структура бота, объединяющая все компоненты.
type Bot struct {
	api *tgbotapi.BotAPI
	cfg *config.Config

	rateLimiter *middleware.RateLimiter

	ledgerHandler     *ledger.Handler
	moderationHandler *moderation.Handler
	gamesHandler      *games.Handler
	urbanHandler      *urban.Handler

	parser *CommandParser

	// Случайность приветствий; под мьютексом, т.к. апдейты на горутинах
	randMu sync.Mutex
	rng    *rand.Rand

	// ограничитель параллелизма обработки апдейтов
	inflight chan struct{}
}

// New создаёт новый экземпляр бота со всеми зависимостями.
func New(
	api *tgbotapi.BotAPI,
	cfg *config.Config,
	ledgerHandler *ledger.Handler,
	moderationHandler *moderation.Handler,
	gamesHandler *games.Handler,
	urbanHandler *urban.Handler,
	rng *rand.Rand,
) *Bot {
	maxInFlight := cfg.BotMaxInflight
	if maxInFlight <= 0 {
		maxInFlight = 64
	}

	return &Bot{
		api:               api,
		cfg:               cfg,
		rateLimiter:       middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
		ledgerHandler:     ledgerHandler,
		moderationHandler: moderationHandler,
		gamesHandler:      gamesHandler,
		urbanHandler:      urbanHandler,
		parser:            NewCommandParser(),
		rng:               rng,
		inflight:          make(chan struct{}, maxInFlight),
	}
}

// Start запускает polling обновлений от Telegram.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.BotUpdateTimeoutSeconds

	updates := b.api.GetUpdatesChan(u)
	// Закрываем на любом пути выхода, включая закрытие канала updates
	defer b.rateLimiter.Close()

	log.WithFields(log.Fields{
		"max_inflight": b.cfg.BotMaxInflight,
		"timeout_sec":  b.cfg.BotUpdateTimeoutSeconds,
	}).Info("Бот запущен и ожидает сообщения...")

	for {
		select {
		case <-ctx.Done():
			log.Info("Бот останавливается (ctx done)...")
			b.api.StopReceivingUpdates()
			return

		case update, ok := <-updates:
			if !ok {
				log.Info("Канал updates закрыт, бот остановлен")
				return
			}

			// лимит параллелизма
			b.inflight <- struct{}{}
			go func(upd tgbotapi.Update) {
				defer func() { <-b.inflight }()
				b.handleUpdate(ctx, upd)
			}(update)
		}
	}
}

// handleUpdate обрабатывает одно обновление от Telegram.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer middleware.RecoverFromPanic()

	// Событие вступления новых участников
	if update.Message != nil && update.Message.NewChatMembers != nil {
		b.handleNewMembers(update.Message.Chat.ID, update.Message.NewChatMembers)
		return
	}

	if update.Message == nil || update.Message.Text == "" || update.Message.From == nil {
		return
	}

	message := update.Message
	middleware.LogMessage(message)

	if !b.rateLimiter.Allow(message.From.ID) {
		log.WithField("user_id", message.From.ID).Debug("rate limited")
		return
	}

	cmd, args, isCommand := b.parser.ParseCommand(message.Text)
	if isCommand {
		b.routeCommand(ctx, message, cmd, args)
		return
	}

	// Не команда: в группах проверяем фильтрованные слова
	if b.cfg.FeatureFiltersEnabled && !message.Chat.IsPrivate() {
		b.moderationHandler.CheckMessage(ctx, message)
	}
}

// routeCommand маршрутизирует команду к нужному обработчику.
func (b *Bot) routeCommand(ctx context.Context, message *tgbotapi.Message, cmd string, args []string) {
	log.WithFields(log.Fields{
		"cmd":  cmd,
		"args": args,
	}).Debug("routing command")

	chatID := message.Chat.ID
	userID := message.From.ID
	username := message.From.UserName

	switch cmd {
	case "start", "help":
		b.sendMessage(chatID, helpText)

	case "dev":
		b.sendMessage(chatID, devText)

	case "rewards":
		b.ledgerHandler.HandleRewards(ctx, chatID, userID, username)

	case "karma":
		b.ledgerHandler.HandleKarma(ctx, chatID, userID, username, args)

	case "give":
		b.ledgerHandler.HandleGive(ctx, chatID, userID, args)

	case "store":
		b.ledgerHandler.HandleStore(ctx, chatID)

	case "buy":
		b.ledgerHandler.HandleBuy(ctx, chatID, userID, username, args)

	case "leaderboard":
		b.ledgerHandler.HandleLeaderboard(ctx, chatID)

	case "info":
		b.ledgerHandler.HandleInfo(ctx, message)

	case "filters":
		if !b.cfg.FeatureFiltersEnabled {
			return
		}
		// Мутации фильтров — только по решению платформы о роли
		if !b.IsChatAdmin(chatID, userID) {
			b.sendMessage(chatID, "❌ Only admins can manage filters!")
			return
		}
		b.moderationHandler.HandleFilters(ctx, chatID, args)

	case "shipping":
		if b.cfg.FeatureGamesEnabled {
			b.gamesHandler.HandleShipping(ctx, chatID)
		}

	case "tod":
		if b.cfg.FeatureGamesEnabled {
			b.gamesHandler.HandleTod(ctx, chatID, args)
		}

	case "nhie":
		if b.cfg.FeatureGamesEnabled {
			b.gamesHandler.HandleNhie(ctx, chatID)
		}

	case "urban":
		if b.cfg.FeatureUrbanEnabled {
			b.urbanHandler.HandleUrban(ctx, chatID, args)
		}
	}
}

// sendMessage — утилита для отправки сообщений.
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}

// CommandParser парсит команды с префиксами / и !
type CommandParser struct {
	validPrefixes []string
}

// NewCommandParser создаёт парсер команд.
func NewCommandParser() *CommandParser {
	return &CommandParser{
		validPrefixes: []string{"/", "!"},
	}
}

// ParseCommand разбирает текст на команду и аргументы.
// Суффикс "@botname" после команды отбрасывается.
func (p *CommandParser) ParseCommand(text string) (string, []string, bool) {
	text = strings.TrimSpace(text)

	hasPrefix := false
	for _, prefix := range p.validPrefixes {
		if strings.HasPrefix(text, prefix) {
			text = strings.TrimPrefix(text, prefix)
			hasPrefix = true
			break
		}
	}

	if !hasPrefix {
		return "", nil, false
	}

	parts := strings.Fields(strings.TrimSpace(text))
	if len(parts) == 0 {
		return "", nil, false
	}

	command := strings.ToLower(parts[0])
	if at := strings.Index(command, "@"); at >= 0 {
		command = command[:at]
	}

	var args []string
	if len(parts) > 1 {
		args = parts[1:]
	}

	return command, args, true
}

// Package app собирает приложение из компонентов: хранилища,
// репозитории, сервисы, обработчики и сам бот.
package app

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/karma-bot/internal/bot"
	"serotonyl.ru/karma-bot/internal/config"
	"serotonyl.ru/karma-bot/internal/db/jsonstore"
	"serotonyl.ru/karma-bot/internal/features/games"
	"serotonyl.ru/karma-bot/internal/features/ledger"
	"serotonyl.ru/karma-bot/internal/features/moderation"
	"serotonyl.ru/karma-bot/internal/features/urban"
	"serotonyl.ru/karma-bot/internal/jobs"
)

// App — собранное приложение.
type App struct {
	Bot       *bot.Bot
	Scheduler *jobs.Scheduler
}

// New создаёт приложение: подключается к Telegram, поднимает
// хранилища и связывает все слои между собой.
func New(cfg *config.Config) (*App, error) {
	// 1. Подключение к Telegram API
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("подключение к Telegram API: %w", err)
	}
	log.WithField("username", api.Self.UserName).Info("Авторизация в Telegram успешна")

	// 2. JSON-хранилища, по одному на документ
	karmaStore := jsonstore.New(filepath.Join(cfg.DataDir, "karma.json"), ledger.NewDocument)
	cooldownStore := jsonstore.New(filepath.Join(cfg.DataDir, "cooldowns.json"), ledger.NewCooldowns)
	filterStore := jsonstore.New(filepath.Join(cfg.DataDir, "filters.json"), moderation.NewDocument)
	shippingStore := jsonstore.New(filepath.Join(cfg.DataDir, "shipping.json"), games.NewDocument)

	// 3. Репозитории
	ledgerRepo := ledger.NewRepository(karmaStore, cooldownStore)
	moderationRepo := moderation.NewRepository(filterStore)
	gamesRepo := games.NewRepository(shippingStore)

	// 4. Каталог товаров магазина
	catalog, err := ledger.LoadCatalog()
	if err != nil {
		return nil, fmt.Errorf("загрузка каталога магазина: %w", err)
	}
	log.WithField("products", catalog.Len()).Info("Каталог магазина загружен")

	// 5. Сервисы; каждому свой генератор случайности
	ledgerService := ledger.NewService(ledgerRepo, catalog, cfg, rand.New(rand.NewSource(time.Now().UnixNano())))
	moderationService := moderation.NewService(moderationRepo)
	gamesService := games.NewService(gamesRepo, cfg, rand.New(rand.NewSource(time.Now().UnixNano())))
	urbanClient := urban.NewClient(cfg.UrbanTimeout)

	// 6. Обработчики команд
	ledgerHandler := ledger.NewHandler(ledgerService, api)
	moderationHandler := moderation.NewHandler(moderationService, api)
	gamesHandler := games.NewHandler(gamesService, api)
	urbanHandler := urban.NewHandler(urbanClient, api)

	// 7. Бот и планировщик
	tgBot := bot.New(
		api,
		cfg,
		ledgerHandler,
		moderationHandler,
		gamesHandler,
		urbanHandler,
		rand.New(rand.NewSource(time.Now().UnixNano())),
	)
	scheduler := jobs.NewScheduler(cfg.DataDir, cfg.BackupKeep)

	return &App{
		Bot:       tgBot,
		Scheduler: scheduler,
	}, nil
}

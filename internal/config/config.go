// Package config загружает конфигурацию бота из переменных окружения.
// Используется envconfig для маппинга переменных окружения на поля структуры.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config содержит ВСЕ настройки приложения.
type Config struct {
	// --- Telegram ---
	BotToken string `envconfig:"BOT_TOKEN" required:"true"`
	// ID привилегированного владельца бота. 0 = владельца нет,
	// предикат привилегии всегда false.
	OwnerID int64 `envconfig:"BOT_OWNER_ID" default:"0"`

	// --- Storage ---
	// Каталог с JSON-документами (karma.json, cooldowns.json,
	// filters.json, shipping.json) и их резервными копиями.
	DataDir string `envconfig:"DATA_DIR" default:"data"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`

	// --- Bot runtime ---
	// Сколько апдейтов обрабатываем параллельно. Иначе "go на каждый апдейт" = утечка памяти при флуде.
	BotMaxInflight int `envconfig:"BOT_MAX_INFLIGHT" default:"64"`
	// Таймаут long polling (секунды)
	BotUpdateTimeoutSeconds int `envconfig:"BOT_UPDATE_TIMEOUT_SECONDS" default:"60"`

	// --- Karma ---
	ClaimMin      int64         `envconfig:"KARMA_CLAIM_MIN" default:"1"`
	ClaimMax      int64         `envconfig:"KARMA_CLAIM_MAX" default:"300"`
	ClaimCooldown time.Duration `envconfig:"KARMA_CLAIM_COOLDOWN" default:"24h"`
	// Баланс-сентинел владельца: на каждом /rewards он фиксируется заново.
	OwnerKarma int64 `envconfig:"KARMA_OWNER_BALANCE" default:"999999"`

	// --- Shipping ---
	ShipCooldown time.Duration `envconfig:"SHIP_COOLDOWN" default:"24h"`

	// --- Urban Dictionary ---
	UrbanTimeout time.Duration `envconfig:"URBAN_TIMEOUT" default:"10s"`

	// --- Backups ---
	// Сколько ночных снапшотов каждого документа храним.
	BackupKeep int `envconfig:"BACKUP_KEEP" default:"7"`

	// --- Rate Limiting ---
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"10"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`

	// --- Feature Flags ---
	FeatureGamesEnabled   bool `envconfig:"FEATURE_GAMES_ENABLED" default:"true"`
	FeatureFiltersEnabled bool `envconfig:"FEATURE_FILTERS_ENABLED" default:"true"`
	FeatureUrbanEnabled   bool `envconfig:"FEATURE_URBAN_ENABLED" default:"true"`
}

// IsOwner — предикат привилегированного аккаунта.
// Единственная точка, где проверяется капабилити владельца;
// все операции кармы консультируются именно здесь.
func (c *Config) IsOwner(userID int64) bool {
	return c.OwnerID != 0 && userID == c.OwnerID
}

func (c *Config) Validate() error {
	if c.BotMaxInflight <= 0 {
		return fmt.Errorf("BOT_MAX_INFLIGHT должен быть > 0")
	}
	if c.BotUpdateTimeoutSeconds <= 0 {
		return fmt.Errorf("BOT_UPDATE_TIMEOUT_SECONDS должен быть > 0")
	}
	if c.ClaimMin < 1 || c.ClaimMax < c.ClaimMin {
		return fmt.Errorf("некорректные KARMA_CLAIM_MIN/KARMA_CLAIM_MAX")
	}
	if c.ClaimCooldown <= 0 || c.ShipCooldown <= 0 {
		return fmt.Errorf("кулдауны должны быть > 0")
	}
	if c.BackupKeep < 1 {
		return fmt.Errorf("BACKUP_KEEP должен быть >= 1")
	}
	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR не задан")
	}
	return nil
}

// Load читает переменные окружения и заполняет структуру Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

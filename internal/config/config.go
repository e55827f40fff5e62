package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Notify   NotifyConfig
}

// ServerConfig holds the server configuration
type ServerConfig struct {
	Port    int    `env:"SERVER_PORT" envDefault:"8080"`
	GinMode string `env:"GIN_MODE" envDefault:"release"`
}

// LogConfig controls the logrus logger
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

// StorageConfig selects the repository implementation ("postgres" or "memory")
type StorageConfig struct {
	Driver string `env:"STORAGE_DRIVER" envDefault:"postgres"`
}

// DatabaseConfig holds the database configuration
type DatabaseConfig struct {
	Host       string `env:"DB_HOST" envDefault:"localhost"`
	Port       int    `env:"DB_PORT" envDefault:"5432"`
	Username   string `env:"DB_USERNAME" envDefault:"postgres"`
	Password   string `env:"DB_PASSWORD" envDefault:"password"`
	DBName     string `env:"DB_NAME" envDefault:"pokerclub"`
	SSLMode    string `env:"DB_SSLMODE" envDefault:"disable"`
	TestDBName string `env:"TEST_DB_NAME" envDefault:"pokerclub_test"` // Separate database for testing
}

// AuthConfig holds the admin authentication configuration
type AuthConfig struct {
	JWTSecret     string        `env:"JWT_SECRET" envDefault:"your-secret-key-here"`
	TokenTTL      time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	AdminUsername string        `env:"ADMIN_USERNAME"`
	AdminPassword string        `env:"ADMIN_PASSWORD"`
}

// NotifyConfig holds the optional ledger event sinks. Empty values disable a sink.
type NotifyConfig struct {
	NATSURL          string `env:"NATS_URL"`
	NATSToken        string `env:"NATS_TOKEN"`
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatIDs  string `env:"TELEGRAM_CHAT_IDS"`
}

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.Username, c.Password, c.DBName, c.SSLMode,
	)
}

// ChatIDs parses the comma separated TELEGRAM_CHAT_IDS list
func (c *NotifyConfig) ChatIDs() ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(c.TelegramChatIDs, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid telegram chat id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// LoadConfig loads an optional .env file and then parses the environment
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	switch cfg.Storage.Driver {
	case "postgres", "memory":
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.Storage.Driver)
	}

	return cfg, nil
}

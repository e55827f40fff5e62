package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=password dbname=pokerclub sslmode=disable",
		cfg.Database.GetDSN())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("TELEGRAM_CHAT_IDS", "101, 202,,303")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)

	ids, err := cfg.Notify.ChatIDs()
	require.NoError(t, err)
	assert.Equal(t, []int64{101, 202, 303}, ids)
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mongo")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestChatIDsRejectsGarbage(t *testing.T) {
	cfg := NotifyConfig{TelegramChatIDs: "12,abc"}

	_, err := cfg.ChatIDs()
	assert.Error(t, err)
}

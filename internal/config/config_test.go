package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	// Устанавливаем переменные окружения для теста
	os.Setenv("TELEGRAM_BOT_TOKEN", "test_token")
	os.Setenv("REQUIRED_CHANNEL", "@test_channel")
	os.Setenv("ADMIN_IDS", "111,222")
	os.Setenv("DB_HOST", "localhost")
	os.Setenv("DB_USER", "test_user")
	os.Setenv("DB_PASSWORD", "test_password")
	os.Setenv("DB_NAME", "test_db")

	// Загружаем конфигурацию
	cfg, err := Load()

	// Проверяем, что конфигурация загружена без ошибок
	assert.NoError(t, err)
	assert.NotNil(t, cfg)

	// Проверяем значения
	assert.Equal(t, "test_token", cfg.Telegram.BotToken)
	assert.Equal(t, "@test_channel", cfg.Telegram.RequiredChannel)
	assert.Equal(t, []int64{111, 222}, cfg.Telegram.AdminIDs)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "test_user", cfg.Database.User)
	assert.Equal(t, "test_password", cfg.Database.Password)
	assert.Equal(t, "test_db", cfg.Database.Name)

	// Проверяем значения по умолчанию
	assert.Equal(t, 5, cfg.Invite.RequiredInvites)
	assert.Equal(t, 50, cfg.Invite.BroadcastInterval)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, 8080, cfg.App.Port)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		unset string
	}{
		{name: "без токена", unset: "TELEGRAM_BOT_TOKEN"},
		{name: "без канала", unset: "REQUIRED_CHANNEL"},
		{name: "без администраторов", unset: "ADMIN_IDS"},
		{name: "канал без @", env: map[string]string{"REQUIRED_CHANNEL": "test_channel"}},
		{name: "нулевой порог приглашений", env: map[string]string{"REQUIRED_INVITES": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv("TELEGRAM_BOT_TOKEN", "test_token")
			os.Setenv("REQUIRED_CHANNEL", "@test_channel")
			os.Setenv("ADMIN_IDS", "111")
			os.Setenv("DB_HOST", "localhost")
			os.Setenv("DB_USER", "test_user")
			os.Setenv("DB_PASSWORD", "test_password")
			os.Setenv("DB_NAME", "test_db")
			os.Unsetenv("REQUIRED_INVITES")

			for k, v := range tt.env {
				os.Setenv(k, v)
			}
			if tt.unset != "" {
				os.Unsetenv(tt.unset)
			}

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestDatabaseDSN(t *testing.T) {
	cfg := &DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "test_user",
		Password: "test_password",
		Name:     "test_db",
		SSLMode:  "disable",
	}

	dsn := cfg.GetDSN()
	expected := "host=localhost port=5432 user=test_user password=test_password dbname=test_db sslmode=disable"
	assert.Equal(t, expected, dsn)
}

func TestIsAdmin(t *testing.T) {
	cfg := &TelegramConfig{AdminIDs: []int64{111, 222}}

	assert.True(t, cfg.IsAdmin(111))
	assert.True(t, cfg.IsAdmin(222))
	assert.False(t, cfg.IsAdmin(333))
}

func TestOperatorID(t *testing.T) {
	cfg := &TelegramConfig{AdminIDs: []int64{111, 222}}
	assert.Equal(t, int64(111), cfg.OperatorID())

	empty := &TelegramConfig{}
	assert.Equal(t, int64(0), empty.OperatorID())
}

func TestBroadcastPause(t *testing.T) {
	cfg := InviteConfig{BroadcastInterval: 50}
	assert.Equal(t, 50*time.Millisecond, cfg.BroadcastPause())
}

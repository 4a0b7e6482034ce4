package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_PATH", t.TempDir()+"/automeet.db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Automeet", cfg.AppName)
	assert.Equal(t, "sqlite", cfg.DBEngine)
	assert.Equal(t, "8000", cfg.HTTPPort)
	assert.False(t, cfg.RedisEnabled())
	assert.False(t, cfg.MailEnabled())
	assert.False(t, cfg.MeiliEnabled())
	assert.Empty(t, cfg.NotifyURLs)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_PATH", t.TempDir()+"/automeet.db")
	t.Setenv("HTTP_PORT", "9001")
	t.Setenv("REDIS_HOST", "cache.internal")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("NOTIFICATION_URLS", "discord://token@channel, slack://hook ,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9001", cfg.HTTPPort)
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, "cache.internal:6380", cfg.RedisAddr())
	assert.Equal(t, []string{"discord://token@channel", "slack://hook"}, cfg.NotifyURLs)
}

func TestMySQLDSN(t *testing.T) {
	cfg := Config{
		DBUser:     "automeet",
		DBPassword: "secret",
		DBHost:     "db.internal",
		DBPort:     3306,
		DBName:     "automeet_db",
	}
	assert.Equal(t,
		"automeet:secret@tcp(db.internal:3306)/automeet_db?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.MySQLDSN())
}

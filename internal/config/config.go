package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures runtime configuration sourced from environment variables.
// Optional blocks (redis, mail, search-index mirror) are disabled when
// their keys are absent.
type Config struct {
	AppName     string
	Environment string
	HTTPPort    string
	FrontendURL string

	// Database. Engine "sqlite" uses DatabasePath; "mysql" uses the
	// host/port/user/password/name block.
	DBEngine     string
	DatabasePath string
	DBHost       string
	DBPort       int
	DBUser       string
	DBPassword   string
	DBName       string

	// Auth tokens.
	JWTSecret       string
	RefreshSecret   string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// Optional redis cache (verification-code resend throttle).
	RedisHost     string
	RedisPort     int
	RedisUsername string
	RedisPassword string

	// Optional outbound mail.
	MailHost     string
	MailPort     int
	MailUsername string
	MailPassword string
	MailFrom     string
	MailFromName string

	// Optional search-index log mirror.
	MeiliURL    string
	MeiliAPIKey string
	MeiliIndex  string

	// Optional external notification targets (shoutrrr URLs).
	NotifyURLs []string
}

// Load reads .env (when present) and env vars, falling back to defaults
// so the server can boot with zero configuration on sqlite.
func Load() (Config, error) {
	// Missing .env is fine; env vars may be set by the runtime.
	_ = godotenv.Load()

	cfg := Config{
		AppName:     getEnv("APP_NAME", "Automeet"),
		Environment: getEnv("AUTOMEET_ENV", "development"),
		HTTPPort:    getEnv("HTTP_PORT", "8000"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		DBEngine:     getEnv("DB_ENGINE", "sqlite"),
		DatabasePath: getEnv("DB_PATH", filepath.Join("data", "automeet.db")),
		DBHost:       getEnv("DB_HOST", "localhost"),
		DBPort:       getEnvInt("DB_PORT", 3306),
		DBUser:       getEnv("DB_USER", "automeet"),
		DBPassword:   getEnv("DB_PASSWORD", ""),
		DBName:       getEnv("DB_NAME", "automeet_db"),

		JWTSecret:       getEnv("JWT_SECRET_KEY", ""),
		RefreshSecret:   getEnv("JWT_REFRESH_SECRET_KEY", ""),
		AccessTokenTTL:  time.Duration(getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 60*24)) * time.Minute,
		RefreshTokenTTL: time.Duration(getEnvInt("REFRESH_TOKEN_EXPIRE_MINUTES", 60*24*7)) * time.Minute,

		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     getEnvInt("REDIS_PORT", 6379),
		RedisUsername: getEnv("REDIS_USERNAME", "default"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		MailHost:     getEnv("MAIL_SERVER", ""),
		MailPort:     getEnvInt("MAIL_PORT", 587),
		MailUsername: getEnv("MAIL_USERNAME", ""),
		MailPassword: getEnv("MAIL_PASSWORD", ""),
		MailFrom:     getEnv("MAIL_FROM", ""),
		MailFromName: getEnv("MAIL_FROM_NAME", "Automeet"),

		MeiliURL:    getEnv("MEILI_SEARCH_URL", ""),
		MeiliAPIKey: getEnv("MEILI_SEARCH_API_KEY", ""),
		MeiliIndex:  getEnv("MEILI_SEARCH_INDEX", ""),

		NotifyURLs: splitList(getEnv("NOTIFICATION_URLS", "")),
	}

	if cfg.DBEngine == "sqlite" {
		if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
			return Config{}, fmt.Errorf("ensure data directory: %w", err)
		}
	}

	return cfg, nil
}

// RedisEnabled reports whether the optional redis cache is configured.
func (c Config) RedisEnabled() bool { return c.RedisHost != "" }

// MailEnabled reports whether outbound mail is configured.
func (c Config) MailEnabled() bool { return c.MailHost != "" && c.MailFrom != "" }

// MeiliEnabled reports whether the search-index log mirror is configured.
func (c Config) MeiliEnabled() bool { return c.MeiliURL != "" && c.MeiliIndex != "" }

// RedisAddr returns the host:port address of the redis server.
func (c Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// MySQLDSN builds the DSN for the mysql engine.
func (c Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

func splitList(val string) []string {
	if val == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}

	return fallback
}

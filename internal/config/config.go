package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// insecureDefaultSecret matches the upstream fallback. Deployments must
// override JWT_SECRET; Load logs a warning when they do not.
const insecureDefaultSecret = "secret_key_change_me"

// Config holds every runtime setting, built once at process start and passed
// into the components that need it. Business logic never reads the
// environment directly.
type Config struct {
	AppPort string
	AppEnv  string

	DatabaseDriver string // "sqlite" or "postgres"
	DatabaseDSN    string

	JWTSecret      string
	TokenTTL       time.Duration
	AdminUsernames []string

	RabbitMQURL string // empty disables event publishing
}

// Load reads configuration from the environment (and a .env file when one is
// present) into a Config.
func Load() *Config {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Printf("Failed to load .env file: %v", err)
		}
	}

	v := viper.New()
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "sweetshop.db")
	v.SetDefault("JWT_SECRET", insecureDefaultSecret)
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("ADMIN_USERNAMES", "admin,testadmin")
	v.SetDefault("RABBITMQ_URL", "")
	v.AutomaticEnv()

	cfg := &Config{
		AppPort:        v.GetString("APP_PORT"),
		AppEnv:         v.GetString("APP_ENV"),
		DatabaseDriver: v.GetString("DATABASE_DRIVER"),
		DatabaseDSN:    v.GetString("DATABASE_DSN"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		TokenTTL:       v.GetDuration("TOKEN_TTL"),
		AdminUsernames: splitList(v.GetString("ADMIN_USERNAMES")),
		RabbitMQURL:    v.GetString("RABBITMQ_URL"),
	}

	if cfg.JWTSecret == insecureDefaultSecret {
		log.Println("WARNING: JWT_SECRET is not set; using the insecure default")
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}

	return cfg
}

// IsAdminUsername reports whether a username is listed for the admin role
// bootstrap. Matching is case-insensitive.
func (c *Config) IsAdminUsername(username string) bool {
	for _, name := range c.AdminUsernames {
		if strings.EqualFold(name, username) {
			return true
		}
	}
	return false
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all runtime configuration loaded from the environment.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Security SecurityConfig
	Admin    AdminConfig
	SMTP     SMTPConfig
	Redis    RedisConfig
	Logging  LoggingConfig
	CORS     CORSConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Driver   string // "postgres" or "sqlite"
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	DSN      string // sqlite file path (":memory:" allowed)
}

type SecurityConfig struct {
	JWTSecret          string
	TokenLifetimeHours int
}

type AdminConfig struct {
	Email    string
	Password string
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type RedisConfig struct {
	URL string
}

type LoggingConfig struct {
	Level    string
	Format   string // "json" or "text"
	Output   string // "stdout" or "file"
	FilePath string
}

type CORSConfig struct {
	FrontendOrigin string
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "urbix"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "urbix"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
			DSN:      getEnv("DB_DSN", "urbix.db"),
		},
		Security: SecurityConfig{
			JWTSecret:          getEnv("JWT_SECRET", "jwt-secret-change-me"),
			TokenLifetimeHours: getEnvInt("JWT_LIFETIME_HOURS", 24*7),
		},
		Admin: AdminConfig{
			Email:    getEnv("ADMIN_EMAIL", "admin@urbix.com"),
			Password: getEnv("ADMIN_PASSWORD", "Admin123!"),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnv("SMTP_PORT", "587"),
			Username: getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASS", ""),
			From:     getEnv("SMTP_FROM", getEnv("SMTP_USER", "")),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		Logging: LoggingConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Format:   getEnv("LOG_FORMAT", "text"),
			Output:   getEnv("LOG_OUTPUT", "stdout"),
			FilePath: getEnv("LOG_FILE", "logs/urbix.log"),
		},
		CORS: CORSConfig{
			FrontendOrigin: getEnv("FRONTEND_ORIGIN", "http://localhost:5173"),
		},
	}
}

// PostgresDSN builds the DSN for the postgres driver.
func (d DatabaseConfig) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

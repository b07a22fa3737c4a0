package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Env string

	// Часовой пояс бизнеса (IANA). Все "сегодня/завтра" считаются в нём.
	BusinessTimeZone string

	GRPCAddr string
	HTTPAddr string

	JWTSecret    string
	TokenTTL     time.Duration
	CookieDomain string
	CookieSecure bool

	SMTP SMTPConfig

	// Почтовый ящик, куда уходят копии уведомлений о бронированиях.
	OpsEmail string

	Admin AdminSeed
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Enabled: без хоста уведомления только пишутся в лог.
func (c SMTPConfig) Enabled() bool { return c.Host != "" }

// AdminSeed — администратор, создаваемый при старте, если его ещё нет.
type AdminSeed struct {
	Name     string
	Email    string
	Password string
}

func (a AdminSeed) Enabled() bool { return a.Email != "" && a.Password != "" }

// LoadEnvFile подгружает .env, если он есть. Уже заданные переменные не перезаписываются.
func LoadEnvFile(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

func LoadAppConfig() (*AppConfig, error) {
	cfg := &AppConfig{
		Env:              getEnv("APP_ENV", "development"),
		BusinessTimeZone: getEnv("BUSINESS_TIMEZONE", "America/Argentina/Buenos_Aires"),
		GRPCAddr:         getEnv("GRPC_ADDR", ":50051"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		TokenTTL:         getEnvDuration("TOKEN_TTL", 24*time.Hour),
		CookieDomain:     getEnv("COOKIE_DOMAIN", ""),
		CookieSecure:     getEnvBool("COOKIE_SECURE", false),
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvInt("SMTP_PORT", 587),
			User:     getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", ""),
		},
		OpsEmail: getEnv("OPS_EMAIL", ""),
		Admin: AdminSeed{
			Name:     getEnv("ADMIN_NAME", "Administrador"),
			Email:    getEnv("ADMIN_EMAIL", ""),
			Password: getEnv("ADMIN_PASSWORD", ""),
		},
	}

	if cfg.JWTSecret == "" {
		if cfg.Env == "production" {
			return nil, fmt.Errorf("invalid app config: JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = "dev-secret"
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("invalid app config: TOKEN_TTL must be positive")
	}
	if _, err := time.LoadLocation(cfg.BusinessTimeZone); err != nil {
		return nil, fmt.Errorf("invalid app config: BUSINESS_TIMEZONE: %w", err)
	}
	if cfg.SMTP.Enabled() && cfg.SMTP.From == "" {
		cfg.SMTP.From = cfg.SMTP.User
	}
	return cfg, nil
}

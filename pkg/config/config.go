package config

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development"`
		Port      int    `env:"APP_PORT" env-default:"8080"`
		SentryUrl string `env:"SENTRY_URL"`
	}
	Facebook struct {
		GroupURL    string `env:"FACEBOOK_GROUP_URL"`
		GroupID     string `env:"FACEBOOK_GROUP_ID"`
		GroupName   string `env:"FACEBOOK_GROUP_NAME"`
		SessionPath string `env:"FACEBOOK_SESSION_PATH" env-default:"./fb-session.json"`
	}
	Scraper struct {
		Since              string  `env:"SCRAPER_SINCE"`
		Until              string  `env:"SCRAPER_UNTIL"`
		MinReactions       int     `env:"SCRAPER_MIN_REACTIONS" env-default:"0"`
		TopNComments       int     `env:"SCRAPER_TOP_N_COMMENTS" env-default:"0"`
		SkipComments       bool    `env:"SCRAPER_SKIP_COMMENTS" env-default:"false"`
		DelaySeconds       float64 `env:"SCRAPER_DELAY_SECONDS" env-default:"2"`
		MaxRetries         uint64  `env:"SCRAPER_MAX_RETRIES" env-default:"3"`
		BackoffBaseSeconds float64 `env:"SCRAPER_BACKOFF_BASE_SECONDS" env-default:"0.5"`
		MaxPages           int     `env:"SCRAPER_MAX_PAGES" env-default:"0"`
		Cron               string  `env:"SCRAPER_CRON"`
	}
	Export struct {
		Formats string `env:"EXPORT_FORMATS" env-default:"json"`
		Dir     string `env:"EXPORT_DIR" env-default:"./out"`
	}
	Postgres struct {
		Port    int    `env:"POSTGRES_PORT"`
		Host    string `env:"POSTGRES_HOST"`
		User    string `env:"POSTGRES_USER"`
		Pass    string `env:"POSTGRES_PASS"`
		Name    string `env:"POSTGRES_NAME"`
		SslMode string `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	}
	Telegram struct {
		User     int64  `env:"TELEGRAM_USER"`
		BotToken string `env:"TELEGRAM_TOKEN"`
		Channel  string `env:"TELEGRAM_CHANNEL"`
	}
}

// GetDSN builds the keyword/value connection string for database/sql.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("dbname=%s user=%s password=%s host=%s port=%d sslmode=%s",
		c.Postgres.Name, c.Postgres.User, c.Postgres.Pass, c.Postgres.Host, c.Postgres.Port, c.Postgres.SslMode)
}

// Delay returns the minimum pause between page fetches.
func (c *Config) Delay() time.Duration {
	return time.Duration(c.Scraper.DelaySeconds * float64(time.Second))
}

// BackoffBase returns the initial retry backoff interval.
func (c *Config) BackoffBase() time.Duration {
	return time.Duration(c.Scraper.BackoffBaseSeconds * float64(time.Second))
}

var (
	once sync.Once
	cfg  *Config
)

func New() (*Config, error) {
	once.Do(func() {
		cfg = &Config{}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			help, _ := cleanenv.GetDescription(cfg, nil)
			log.Fatalf("Failed to read configuration: %v\n%v", err, help)
		}
	})
	return cfg, nil
}

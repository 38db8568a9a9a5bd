package configs

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"acenumerik.fr/configs/configslog"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Environment names the deployment the process runs in.
type Environment string

const (
	EnvLocal      Environment = "local"
	EnvDev        Environment = "dev"
	EnvProduction Environment = "production"
)

// Config groups every setting read from the environment.
type Config struct {
	App struct {
		Env      Environment `env:"APP_ENV" envDefault:"local"`
		Name     string      `env:"APP_NAME" envDefault:"ace numérik"`
		Host     string      `env:"APP_HOST" envDefault:"0.0.0.0"`
		Port     string      `env:"APP_PORT" envDefault:"3000"`
		BaseURL  string      `env:"APP_BASE_URL" envDefault:"http://localhost:3000"`
		Timezone string      `env:"APP_TIMEZONE" envDefault:"Europe/Paris"`
		Views    string      `env:"APP_VIEWS_DIR" envDefault:"./views"`
	}

	DB struct {
		Host     string `env:"DB_HOST" envDefault:"localhost"`
		Port     string `env:"DB_PORT" envDefault:"5432"`
		User     string `env:"DB_USERNAME" envDefault:"postgres"`
		Password string `env:"DB_PASSWORD"`
		Name     string `env:"DB_DATABASE" envDefault:"acenumerik"`
		SSLMode  string `env:"DB_SSL_MODE" envDefault:"disable"`
	}

	Redis struct {
		Enabled  bool   `env:"REDIS_ENABLED"`
		Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
		Password string `env:"REDIS_PASSWORD"`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	Kafka struct {
		Brokers string `env:"KAFKA_BROKERS"`
		Topic   string `env:"KAFKA_TOPIC" envDefault:"acenumerik.events"`
	}

	Auth struct {
		JWTSecret     string        `env:"JWT_SECRET" envDefault:"change-me"`
		TokenTTL      time.Duration `env:"JWT_TTL" envDefault:"12h"`
		AdminEmail    string        `env:"ADMIN_EMAIL" envDefault:"admin@acenumerik.fr"`
		AdminPassword string        `env:"ADMIN_PASSWORD"`
		AdminName     string        `env:"ADMIN_NAME" envDefault:"Administrateur"`
	}

	Booking struct {
		OpeningTime   string        `env:"BOOKING_OPENING_TIME" envDefault:"09:00"`
		ClosingTime   string        `env:"BOOKING_CLOSING_TIME" envDefault:"17:00"`
		SlotStep      time.Duration `env:"BOOKING_SLOT_STEP" envDefault:"30m"`
		SlotCacheTTL  time.Duration `env:"SLOT_CACHE_TTL" envDefault:"5s"`
		SlotCacheSize int           `env:"SLOT_CACHE_SIZE" envDefault:"512"`
		RatePerMinute int           `env:"PUBLIC_RATE_PER_MINUTE" envDefault:"20"`
		RateBurst     int           `env:"PUBLIC_RATE_BURST" envDefault:"5"`
	}

	Cron struct {
		Enabled      bool   `env:"CRON_ENABLED" envDefault:"true"`
		ReminderSpec string `env:"CRON_REMINDER_SPEC" envDefault:"0 18 * * *"`
	}
}

var (
	cfg     *Config
	cfgOnce sync.Once
	cfgErr  error
)

// Load reads .env (if present) and parses the environment once.
func Load() (*Config, error) {
	cfgOnce.Do(func() {
		if err := godotenv.Load(); err != nil {
			configslog.SLog.Debug(".env file not found, using process environment")
		}
		c := &Config{}
		if err := env.Parse(c); err != nil {
			cfgErr = fmt.Errorf("config parse: %w", err)
			return
		}
		if _, err := time.LoadLocation(c.App.Timezone); err != nil {
			cfgErr = fmt.Errorf("config: invalid APP_TIMEZONE %q: %w", c.App.Timezone, err)
			return
		}
		cfg = c
	})
	return cfg, cfgErr
}

// Get returns the loaded configuration. It panics if Load failed or was never called.
func Get() *Config {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// Location returns the business timezone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// KafkaBrokers splits the comma separated broker list, dropping blanks.
func (c *Config) KafkaBrokers() []string {
	var out []string
	for _, b := range strings.Split(c.Kafka.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// IsProduction reports whether the app runs in production.
func (c *Config) IsProduction() bool {
	return c.App.Env == EnvProduction
}

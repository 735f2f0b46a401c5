// Package config reads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

type Config struct {
	Env        string
	ListenAddr string
	LogLevel   string

	StoreDriver     string
	DatabaseURL     string
	MongoURI        string
	MongoDatabase   string
	StoreTimeout    time.Duration
	DefaultPageSize int
	// MaxPageSize caps the list limit parameter. 0 removes the cap.
	MaxPageSize int

	RedisURL          string
	AnalyticsCacheTTL time.Duration

	AMQPURL string

	SMTPHost    string
	SMTPPort    int
	SMTPUser    string
	SMTPPass    string
	MailFrom    string
	NotifyEmail string

	KommoAPIToken string
	KommoBaseURL  string

	SentryDSN      string
	CORSOrigins    []string
	GaugeInterval  time.Duration
	WriteRateLimit int
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
			return d
		}
	}
	return def
}

func getenvList(key, def string) []string {
	var out []string
	for _, part := range strings.Split(getenv(key, def), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Load reads the environment and validates the result.
func Load() (Config, error) {
	cfg := Config{
		Env:        getenv("APP_ENV", "development"),
		ListenAddr: getenv("LISTEN_ADDR", ":8080"),
		LogLevel:   getenv("LOG_LEVEL", "info"),

		StoreDriver:     strings.ToLower(getenv("STORE_DRIVER", DriverMemory)),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		MongoURI:        os.Getenv("MONGODB_URI"),
		MongoDatabase:   getenv("MONGODB_DATABASE", "crm"),
		StoreTimeout:    getenvDuration("STORE_TIMEOUT", 5*time.Second),
		DefaultPageSize: getenvInt("DEFAULT_PAGE_SIZE", 10),
		MaxPageSize:     getenvInt("MAX_PAGE_SIZE", 100),

		RedisURL:          os.Getenv("REDIS_URL"),
		AnalyticsCacheTTL: getenvDuration("ANALYTICS_CACHE_TTL", 30*time.Second),

		AMQPURL: os.Getenv("AMQP_URL"),

		SMTPHost:    os.Getenv("SMTP_HOST"),
		SMTPPort:    getenvInt("SMTP_PORT", 587),
		SMTPUser:    os.Getenv("SMTP_USER"),
		SMTPPass:    os.Getenv("SMTP_PASS"),
		MailFrom:    getenv("MAIL_FROM", "no-reply@localhost"),
		NotifyEmail: os.Getenv("NOTIFY_EMAIL"),

		KommoAPIToken: os.Getenv("KOMMO_API_TOKEN"),
		KommoBaseURL:  os.Getenv("KOMMO_BASE_URL"),

		SentryDSN:      os.Getenv("SENTRY_DSN"),
		CORSOrigins:    getenvList("CORS_ORIGINS", "http://localhost:3000"),
		GaugeInterval:  getenvDuration("GAUGE_INTERVAL", time.Minute),
		WriteRateLimit: getenvInt("WRITE_RATE_LIMIT", 30),
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	switch c.StoreDriver {
	case DriverMemory:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres store"))
		}
	case DriverMongo:
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGODB_URI is required for the mongo store"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER %q is not one of memory, postgres, mongo", c.StoreDriver))
	}
	if c.DefaultPageSize <= 0 {
		errs = append(errs, errors.New("DEFAULT_PAGE_SIZE must be positive"))
	}
	if c.MaxPageSize < 0 || (c.MaxPageSize > 0 && c.MaxPageSize < c.DefaultPageSize) {
		errs = append(errs, errors.New("MAX_PAGE_SIZE must be 0 (no cap) or at least DEFAULT_PAGE_SIZE"))
	}
	if c.StoreTimeout <= 0 {
		errs = append(errs, errors.New("STORE_TIMEOUT must be positive"))
	}
	if c.GaugeInterval <= 0 {
		errs = append(errs, errors.New("GAUGE_INTERVAL must be positive"))
	}
	return errors.Join(errs...)
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// NotificationsEnabled reports whether won-deal emails can be sent.
func (c Config) NotificationsEnabled() bool {
	return c.SMTPHost != "" && c.NotifyEmail != ""
}

// NewLogger builds the process logger: JSON in production, text elsewhere.
func (c Config) NewLogger() *logrus.Logger {
	log := logrus.New()
	if c.IsProduction() {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

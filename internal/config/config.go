// Package config loads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Seascape-Charters/service-booking/internal/platform/database"
	"github.com/Seascape-Charters/service-booking/internal/platform/middleware"
)

const (
	LedgerPostgres = "postgres"
	LedgerMemory   = "memory"

	defaultJWTSecret = "dev-secret-change-me"
)

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// KafkaConfig holds broker settings. An empty broker list disables messaging.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

// Enabled reports whether any broker is configured.
func (k KafkaConfig) Enabled() bool { return len(k.Brokers) > 0 }

// RedisConfig holds the rate limiter's Redis connection.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// KioskConfig configures the check-in desk binary.
type KioskConfig struct {
	StaffID string
	Prompt  string
}

// ServiceConfig holds all configuration for the booking service.
type ServiceConfig struct {
	Port          string
	AppEnv        string
	LedgerDriver  string
	MigrationsDir string
	Timezone      string
	QRTemplate    string
	DBConfig      database.PostgresConfig
	JWTConfig     JWTConfig
	KafkaConfig   KafkaConfig
	RedisConfig   RedisConfig
	RateLimit     middleware.RateLimitConfig
	Kiosk         KioskConfig
}

// Location resolves Timezone, the zone in which "today" is computed.
func (c *ServiceConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Load reads configuration from BOOKING_* environment variables and an
// optional config file (config.yaml in the working directory).
func Load() (*ServiceConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("BOOKING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &ServiceConfig{
		Port:          normalizePort(v.GetString("service.port")),
		AppEnv:        v.GetString("app.env"),
		LedgerDriver:  strings.ToLower(v.GetString("ledger.driver")),
		MigrationsDir: v.GetString("migrations.dir"),
		Timezone:      v.GetString("timezone"),
		QRTemplate:    v.GetString("qr.template"),
		DBConfig: database.PostgresConfig{
			Host:     v.GetString("db.host"),
			Port:     v.GetString("db.port"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			DBName:   v.GetString("db.name"),
			SSLMode:  v.GetString("db.sslmode"),
		},
		JWTConfig: JWTConfig{
			Secret:     v.GetString("jwt.secret"),
			AccessTTL:  v.GetDuration("jwt.access_ttl"),
			RefreshTTL: v.GetDuration("jwt.refresh_ttl"),
		},
		KafkaConfig: KafkaConfig{
			Brokers:     splitList(v.GetString("kafka.brokers")),
			GroupPrefix: v.GetString("kafka.group_prefix"),
		},
		RedisConfig: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		RateLimit: loadRateLimit(v),
		Kiosk: KioskConfig{
			StaffID: v.GetString("kiosk.staff_id"),
			Prompt:  v.GetString("kiosk.prompt"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service.port", "8080")
	v.SetDefault("app.env", "development")
	v.SetDefault("ledger.driver", LedgerPostgres)
	v.SetDefault("migrations.dir", "migrations")
	v.SetDefault("timezone", "Africa/Cairo")
	v.SetDefault("qr.template", "")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "postgres")
	v.SetDefault("db.name", "seascape_booking")
	v.SetDefault("db.sslmode", "disable")

	v.SetDefault("jwt.secret", defaultJWTSecret)
	v.SetDefault("jwt.access_ttl", 15*time.Minute)
	v.SetDefault("jwt.refresh_ttl", 7*24*time.Hour)

	v.SetDefault("kafka.brokers", "localhost:9092")
	v.SetDefault("kafka.group_prefix", "seascape-")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.capacity", 30)
	v.SetDefault("rate_limit.refill_tokens", 1)
	v.SetDefault("rate_limit.refill_interval", 2*time.Second)
	v.SetDefault("rate_limit.ttl", 10*time.Minute)
	v.SetDefault("rate_limit.prefix", "rl:checkin")

	v.SetDefault("kiosk.staff_id", "")
	v.SetDefault("kiosk.prompt", "scan> ")
}

func loadRateLimit(v *viper.Viper) middleware.RateLimitConfig {
	rl := middleware.RateLimitConfig{
		Enabled:        v.GetBool("rate_limit.enabled"),
		Capacity:       v.GetInt("rate_limit.capacity"),
		RefillTokens:   v.GetInt("rate_limit.refill_tokens"),
		RefillInterval: v.GetDuration("rate_limit.refill_interval"),
		TTL:            v.GetDuration("rate_limit.ttl"),
		Prefix:         v.GetString("rate_limit.prefix"),
	}
	if rl.Capacity < 1 {
		rl.Capacity = 1
	}
	if rl.RefillTokens < 1 {
		rl.RefillTokens = 1
	}
	if rl.RefillInterval <= 0 {
		rl.RefillInterval = time.Second
	}
	if minTTL := 5 * rl.RefillInterval; rl.TTL < minTTL {
		rl.TTL = minTTL
	}
	return rl
}

func (c *ServiceConfig) validate() error {
	switch c.LedgerDriver {
	case LedgerPostgres, LedgerMemory:
	default:
		return fmt.Errorf("unknown ledger driver %q (want %s or %s)", c.LedgerDriver, LedgerPostgres, LedgerMemory)
	}
	if c.AppEnv == "production" && c.JWTConfig.Secret == defaultJWTSecret {
		return errors.New("BOOKING_JWT_SECRET must be set in production")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

func normalizePort(port string) string {
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

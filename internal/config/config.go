package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-HouseBooking/internal/domain"
)

var (
	// ErrLoad возвращается при ошибке чтения файла конфигурации
	ErrLoad = errors.New("config: failed to load")

	// ErrInvalid возвращается, когда значения конфигурации вне допустимых границ
	ErrInvalid = errors.New("config: invalid value")
)

// Config конфигурация сервиса
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Redis     RedisConfig     `toml:"redis"`
	Booking   BookingConfig   `toml:"booking"`
	Parties   PartiesConfig   `toml:"parties"`
	Scheduler SchedulerConfig `toml:"scheduler"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
	Migrate         bool   `toml:"migrate"`
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"` // пустая строка - stdout
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// RedisConfig настройки очереди уведомлений
type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Queue    string `toml:"queue"`
}

// BookingConfig бизнес-параметры, неизменные на время жизни процесса
type BookingConfig struct {
	MaxPartySize           int    `toml:"max_party_size"`
	FutureHorizonMonths    int    `toml:"future_horizon_months"`
	LongStayThresholdDays  int    `toml:"long_stay_threshold_days"`
	DigestAgeThresholdDays int    `toml:"digest_age_threshold_days"`
	ArchiveRetentionDays   int    `toml:"archive_retention_days"`
	Timezone               string `toml:"timezone"`
	MaxTxRetries           int    `toml:"max_tx_retries"`
	LockTimeoutMs          int    `toml:"lock_timeout_ms"`
}

// PartiesConfig email-адреса трех фиксированных сторон
type PartiesConfig struct {
	Ingeborg string `toml:"ingeborg"`
	Cornelia string `toml:"cornelia"`
	Angelika string `toml:"angelika"`
}

// SchedulerConfig интервалы периодических задач (в минутах, 0 - задача выключена)
type SchedulerConfig struct {
	AutoCancelIntervalMinutes int `toml:"auto_cancel_interval_minutes"`
	PurgeIntervalMinutes      int `toml:"purge_interval_minutes"`
	DigestIntervalMinutes     int `toml:"digest_interval_minutes"`
}

// Load читает TOML, затем .env (если есть) и переменные окружения
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: Load - decode %s: %v", ErrLoad, path, err)
	}

	// .env не обязателен, отсутствие файла не ошибка
	_ = godotenv.Load()
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default значения по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    20,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "house-booking",
		},
		Redis: RedisConfig{
			Addr:  "localhost:6379",
			Queue: "house_booking:notifications",
		},
		Booking: BookingConfig{
			MaxPartySize:           domain.DefaultMaxPartySize,
			FutureHorizonMonths:    domain.DefaultFutureHorizonMonths,
			LongStayThresholdDays:  domain.DefaultLongStayThresholdDays,
			DigestAgeThresholdDays: domain.DefaultDigestAgeThresholdDays,
			ArchiveRetentionDays:   domain.DefaultArchiveRetentionDays,
			Timezone:               domain.DefaultTimezone,
			MaxTxRetries:           3,
			LockTimeoutMs:          5000,
		},
		Scheduler: SchedulerConfig{
			AutoCancelIntervalMinutes: 60,
			PurgeIntervalMinutes:      24 * 60,
			DigestIntervalMinutes:     24 * 60,
		},
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		cfg.Database.DBName = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logs.Level = v
	}
}

// Validate проверяет границы значений
func (c *Config) Validate() error {
	b := c.Booking
	switch {
	case b.MaxPartySize < 1:
		return fmt.Errorf("%w: booking.max_party_size must be >= 1", ErrInvalid)
	case b.FutureHorizonMonths < 1:
		return fmt.Errorf("%w: booking.future_horizon_months must be >= 1", ErrInvalid)
	case b.LongStayThresholdDays < 1:
		return fmt.Errorf("%w: booking.long_stay_threshold_days must be >= 1", ErrInvalid)
	case b.DigestAgeThresholdDays < 0:
		return fmt.Errorf("%w: booking.digest_age_threshold_days must be >= 0", ErrInvalid)
	case b.ArchiveRetentionDays < 1:
		return fmt.Errorf("%w: booking.archive_retention_days must be >= 1", ErrInvalid)
	case b.MaxTxRetries < 0:
		return fmt.Errorf("%w: booking.max_tx_retries must be >= 0", ErrInvalid)
	case b.LockTimeoutMs < 1:
		return fmt.Errorf("%w: booking.lock_timeout_ms must be >= 1", ErrInvalid)
	}

	if _, err := time.LoadLocation(b.Timezone); err != nil {
		return fmt.Errorf("%w: booking.timezone %q: %v", ErrInvalid, b.Timezone, err)
	}

	emails := c.Parties.Emails()
	seen := make(map[string]domain.Party, domain.PartyCount)
	for _, p := range domain.AllParties {
		email := domain.NormalizeEmail(emails[p])
		if err := domain.ValidateEmail(email); err != nil {
			return fmt.Errorf("%w: parties.%s: %v", ErrInvalid, p, err)
		}
		if other, ok := seen[email]; ok {
			return fmt.Errorf("%w: parties.%s duplicates parties.%s", ErrInvalid, p, other)
		}
		seen[email] = p
	}

	if c.Redis.Enabled && c.Redis.Queue == "" {
		return fmt.Errorf("%w: redis.queue is required when redis is enabled", ErrInvalid)
	}
	return nil
}

// Emails возвращает адреса в порядке domain.AllParties
func (p PartiesConfig) Emails() [domain.PartyCount]string {
	var out [domain.PartyCount]string
	out[domain.PartyIngeborg] = p.Ingeborg
	out[domain.PartyCornelia] = p.Cornelia
	out[domain.PartyAngelika] = p.Angelika
	return out
}

// Rules собирает неизменяемые бизнес-правила для domain
func (c *Config) Rules() domain.Rules {
	rules := domain.DefaultRules(c.Parties.Emails())
	rules.MaxPartySize = c.Booking.MaxPartySize
	rules.FutureHorizonMonths = c.Booking.FutureHorizonMonths
	rules.LongStayThresholdDays = c.Booking.LongStayThresholdDays
	rules.DigestAgeThresholdDays = c.Booking.DigestAgeThresholdDays
	rules.ArchiveRetention = time.Duration(c.Booking.ArchiveRetentionDays) * 24 * time.Hour
	return rules
}

// LockTimeout ограничение ожидания блокировки строки
func (b BookingConfig) LockTimeout() time.Duration {
	return time.Duration(b.LockTimeoutMs) * time.Millisecond
}

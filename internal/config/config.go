package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Env     string
	AppPort string

	Database    DatabaseConfig
	Redis       RedisConfig
	Idempotency IdempotencyConfig
	Log         LogConfig
	Pagination  PaginationConfig
}

type DatabaseConfig struct {
	Driver       string
	Host         string
	Port         string
	Name         string
	User         string
	Password     string
	SSLMode      string
	Path         string // sqlite only
	MaxOpenConns int
	MaxIdleConns int
	AutoMigrate  bool
	Seed         bool
	LogLevel     string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled reports whether an idempotency store is configured.
func (r RedisConfig) Enabled() bool { return r.Addr != "" }

type IdempotencyConfig struct {
	TTL time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type PaginationConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Env:     v.GetString("ENV"),
		AppPort: v.GetString("APP_PORT"),
		Database: DatabaseConfig{
			Driver:       strings.ToLower(v.GetString("DB_DRIVER")),
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetString("DB_PORT"),
			Name:         v.GetString("DB_NAME"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			SSLMode:      v.GetString("DB_SSL_MODE"),
			Path:         v.GetString("DB_PATH"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
			AutoMigrate:  v.GetBool("DB_AUTO_MIGRATE"),
			Seed:         v.GetBool("DB_SEED"),
			LogLevel:     v.GetString("DB_LOG_LEVEL"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Idempotency: IdempotencyConfig{
			TTL: parseDuration(v.GetString("IDEMPOTENCY_TTL"), 5*time.Minute),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Pagination: PaginationConfig{
			DefaultPageSize: v.GetInt("DEFAULT_PAGE_SIZE"),
			MaxPageSize:     v.GetInt("MAX_PAGE_SIZE"),
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("APP_PORT", "8080")

	v.SetDefault("DB_DRIVER", DriverMySQL)
	v.SetDefault("DB_HOST", "mysql")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_NAME", "donatello")
	v.SetDefault("DB_USER", "donatello")
	v.SetDefault("DB_PASSWORD", "donatello")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_PATH", "donatello.db")
	v.SetDefault("DB_MAX_OPEN_CONNS", 30)
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("DB_SEED", false)
	v.SetDefault("DB_LOG_LEVEL", "warn")

	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("IDEMPOTENCY_TTL", "5m")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("DEFAULT_PAGE_SIZE", 20)
	v.SetDefault("MAX_PAGE_SIZE", 100)
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	db := c.Database
	switch db.Driver {
	case DriverMySQL, DriverPostgres:
		if db.Host == "" || db.Port == "" || db.Name == "" || db.User == "" {
			return fmt.Errorf("missing %s config (DB_HOST/PORT/NAME/USER)", db.Driver)
		}
		if _, err := net.LookupPort("tcp", db.Port); err != nil {
			return fmt.Errorf("invalid DB_PORT %q: %w", db.Port, err)
		}
	case DriverSQLite:
		if db.Path == "" {
			return errors.New("missing DB_PATH for sqlite")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", db.Driver)
	}
	if c.Pagination.DefaultPageSize <= 0 || c.Pagination.MaxPageSize < c.Pagination.DefaultPageSize {
		return errors.New("invalid pagination config (DEFAULT_PAGE_SIZE/MAX_PAGE_SIZE)")
	}
	return nil
}

func (d DatabaseConfig) addr() string { return net.JoinHostPort(d.Host, d.Port) }

// DSN renders the connection string for the configured driver.
func (d DatabaseConfig) DSN() string {
	switch d.Driver {
	case DriverPostgres:
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
	case DriverSQLite:
		return d.Path
	default:
		// parseTime needed for DATETIME; clientFoundRows makes RowsAffected count matched rows
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&clientFoundRows=true&charset=utf8mb4",
			d.User, d.Password, d.addr(), d.Name)
	}
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	// bare integers are seconds
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return fallback
}

package db

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"donatello-backend/internal/config"
	"donatello-backend/pkg/logger"
)

// Dialector picks the GORM driver for cfg.Driver.
func Dialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverMySQL:
		return mysql.Open(cfg.DSN()), nil
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN()), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.DSN()), nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
}

func OpenGorm(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	dial, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}
	db, err := OpenGormWithDialector(dial, NewGormLogger(log, cfg.LogLevel))
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.Driver == config.DriverSQLite {
		// one writer; also keeps :memory: databases on a single connection
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(orDefault(cfg.MaxOpenConns, 30))
		sqlDB.SetMaxIdleConns(orDefault(cfg.MaxIdleConns, 10))
	}
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	logger.OrNop(log).Info("gorm: connected", zap.String("driver", cfg.Driver))
	return db, nil
}

// OpenGormWithDialector opens and pings; a nil logger silences SQL logging.
func OpenGormWithDialector(dial gorm.Dialector, l ...gormlogger.Interface) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger:               gormlogger.Discard,
		NowFunc:              func() time.Time { return time.Now().UTC() },
		DisableAutomaticPing: true,
	}
	if len(l) > 0 && l[0] != nil {
		cfg.Logger = l[0]
	}
	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// NewGormLogger routes GORM's SQL log through zap.
func NewGormLogger(log *zap.Logger, level string) gormlogger.Interface {
	return gormlogger.New(
		zap.NewStdLog(logger.OrNop(log).Named("gorm")),
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  parseLogLevel(level),
			IgnoreRecordNotFoundError: true,
		},
	)
}

func parseLogLevel(s string) gormlogger.LogLevel {
	switch strings.ToLower(s) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

func orDefault(v, d int) int {
	if v > 0 {
		return v
	}
	return d
}

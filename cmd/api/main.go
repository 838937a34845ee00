package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	httpadp "donatello-backend/internal/adapter/http"
	appmw "donatello-backend/internal/adapter/middleware"
	"donatello-backend/internal/adapter/repository/gormrepo"
	"donatello-backend/internal/config"
	"donatello-backend/internal/infrastructure/cache"
	infradb "donatello-backend/internal/infrastructure/db"
	"donatello-backend/internal/infrastructure/metrics"
	"donatello-backend/internal/usecase/course"
	"donatello-backend/internal/usecase/enrollment"
	"donatello-backend/internal/usecase/payment"
	"donatello-backend/internal/usecase/student"
	"donatello-backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zl, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	if err := run(cfg, zl); err != nil {
		zl.Error("server stopped", zap.Error(err))
		_ = zl.Sync()
		os.Exit(1)
	}
	_ = zl.Sync()
}

func run(cfg *config.Config, zl *zap.Logger) error {
	db, err := infradb.OpenGorm(cfg.Database, zl)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	if cfg.Database.AutoMigrate {
		if err := infradb.Migrate(db); err != nil {
			return err
		}
		zl.Info("schema migrated", zap.String("driver", cfg.Database.Driver))
	}
	if cfg.Database.Seed {
		if err := infradb.SeedCourses(db); err != nil {
			return err
		}
	}

	m := metrics.New()
	uows := gormrepo.NewFactory(db, zl)
	pager := httpadp.Pager{DefaultSize: cfg.Pagination.DefaultPageSize, MaxSize: cfg.Pagination.MaxPageSize}

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Recover(), middleware.RequestID(), logger.EchoMiddleware(zl), appmw.Metrics(m))

	var writes []echo.MiddlewareFunc
	rdb, err := cache.OpenRedis(cfg.Redis)
	switch {
	case err == nil:
		defer rdb.Close()
		writes = append(writes, appmw.Idempotency(rdb, appmw.IdempotencyConfig{TTL: cfg.Idempotency.TTL, Logger: zl}))
		zl.Info("idempotency enabled", zap.String("redis", cfg.Redis.Addr))
	case errors.Is(err, cache.ErrDisabled):
		zl.Warn("idempotency disabled: REDIS_ADDR not set")
	default:
		return err
	}

	httpadp.Register(e, httpadp.Routes{
		Health:      httpadp.NewHandler(db),
		Students:    httpadp.NewStudentHandler(student.NewUsecase(uows, zl, m), pager),
		Courses:     httpadp.NewCourseHandler(course.NewUsecase(uows, zl, m), pager),
		Enrollments: httpadp.NewEnrollmentHandler(enrollment.NewUsecase(uows, zl, m), pager),
		Payments:    httpadp.NewPaymentHandler(payment.NewUsecase(uows, zl, m, m), pager),
		Metrics:     m.Handler(),
	}, writes...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.AppPort
	errCh := make(chan error, 1)
	go func() {
		zl.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

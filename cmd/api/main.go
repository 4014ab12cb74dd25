package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/cmlabs-hris/payroll-engine/internal/config"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	appHTTP "github.com/cmlabs-hris/payroll-engine/internal/handler/http"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/cron"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/sse"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/storage"
	"github.com/cmlabs-hris/payroll-engine/internal/repository/memory"
	"github.com/cmlabs-hris/payroll-engine/internal/repository/postgresql"
	redisRepo "github.com/cmlabs-hris/payroll-engine/internal/repository/redis"
	payrollService "github.com/cmlabs-hris/payroll-engine/internal/service/payroll"
	reportService "github.com/cmlabs-hris/payroll-engine/internal/service/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env == "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "payroll-engine"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	payrollSvc := payrollService.NewPayrollService(store, logger)
	if err := payrollSvc.Init(ctx); err != nil {
		return fmt.Errorf("failed to load payroll state: %w", err)
	}
	reportSvc := reportService.NewReportService(payrollSvc, logger)

	hub := sse.NewHub()
	payrollSvc.SetNotifier(hub)

	scheduler := cron.NewScheduler(logger)
	if cfg.Backup.Interval > 0 {
		fs, err := storage.NewLocalStorage(cfg.Backup.Dir)
		if err != nil {
			return err
		}
		cron.NewBackupJobs(payrollSvc, fs, cfg.Backup.Retain, logger).RegisterJobs(scheduler, cfg.Backup.Interval)
	}
	scheduler.Start()
	defer scheduler.Stop()

	var tokenAuth *jwtauth.JWTAuth
	if cfg.JWT.Secret != "" {
		tokenAuth = jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiration).JWTAuth()
	} else {
		logger.Warn("JWT_SECRET_KEY not set, API is open to anyone who can reach it")
	}

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			Logger:         logger,
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			JWTAuth:        tokenAuth,
		},
		appHTTP.NewPayrollHandler(payrollSvc, reportSvc),
		appHTTP.NewBackupHandler(payrollSvc),
		appHTTP.NewEventsHandler(hub),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server running", slog.String("addr", server.Addr), slog.String("store", cfg.Store.Driver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// openStore builds the configured payroll.Store and a func releasing its
// connections.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (payroll.Store, func(), error) {
	switch cfg.Store.Driver {
	case config.StorePostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("error connecting to database: %w", err)
		}
		if err := postgresql.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("using postgres store", slog.String("host", cfg.Database.Host), slog.String("database", cfg.Database.Name))
		return postgresql.NewKVStore(db), db.Close, nil

	case config.StoreRedis:
		client, err := database.NewRedisClient(ctx, database.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Username: cfg.Redis.User,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("error connecting to redis: %w", err)
		}
		logger.Info("using redis store", slog.String("addr", cfg.Redis.Addr))
		return redisRepo.NewKVStore(client), func() { client.Close() }, nil

	default:
		logger.Warn("using in-memory store, records are lost on restart")
		return memory.NewStore(), func() {}, nil
	}
}

package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/installment-service/internal/config"
	"github.com/Dan9191/installment-service/internal/handler"
	"github.com/Dan9191/installment-service/internal/integrations/tcmb"
	"github.com/Dan9191/installment-service/internal/middleware"
	"github.com/Dan9191/installment-service/internal/repository"
	"github.com/Dan9191/installment-service/internal/scheduler"
	"github.com/Dan9191/installment-service/internal/service"
	"github.com/Dan9191/installment-service/internal/utils/email"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// memoryDSN selects the in-process store instead of PostgreSQL
const memoryDSN = "memory"

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	// Initialize storage
	var store service.Store
	if cfg.DBConn == memoryDSN {
		logger.Warn("Using in-memory store, data will not survive a restart")
		store = repository.NewMemoryStore()
	} else {
		db, err := sql.Open("postgres", cfg.DBConn)
		if err != nil {
			logger.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		repo := repository.NewRepository(db)
		if err := repo.Ping(ctx); err != nil {
			logger.Fatalf("Failed to ping database: %v", err)
		}
		if err := repo.Migrate(ctx); err != nil {
			logger.Fatalf("Failed to migrate database: %v", err)
		}
		store = repo
	}

	// Exchange rate cache
	var cache repository.CacheRepository = repository.NewMemoryCache()
	if cfg.RedisAddr != "" {
		redisCache := repository.NewRedisCache(cfg.RedisAddr)
		if err := redisCache.Ping(ctx); err != nil {
			logger.Warnf("Redis unavailable at %s, caching rates in memory: %v", cfg.RedisAddr, err)
		} else {
			defer redisCache.Close()
			cache = redisCache
		}
	}

	// Initialize layers
	tcmbClient := tcmb.NewTCMBClient(cfg, cache, logger)
	svc := service.NewService(store, tcmbClient, logger, cfg)
	h := handler.NewHandler(svc, logger)
	router := handler.NewRouter(h, middleware.AuthMiddleware(svc), middleware.RequestLogger(logger))

	// Monthly statements
	var jobs *scheduler.Scheduler
	if cfg.MailEnabled() {
		jobs, err = scheduler.New(cfg.StatementCron, svc, email.NewSender(cfg, logger), logger)
		if err != nil {
			logger.Fatalf("Failed to schedule statements: %v", err)
		}
		jobs.Start()
	} else {
		logger.Info("SMTP is not configured, statement e-mails are disabled")
	}

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Errorf("Server failed: %v", err)
	case <-quit:
		logger.Info("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if jobs != nil {
		select {
		case <-jobs.Stop().Done():
		case <-shutdownCtx.Done():
			logger.Warn("Statement job still running at shutdown")
		}
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}

	logger.Info("Server exited")
}

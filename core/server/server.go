package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"slotswapper/core/cache"
	"slotswapper/core/config"
	"slotswapper/core/database"
	"slotswapper/core/logger"
	"slotswapper/core/tasks"
	"slotswapper/modules/auth"
	"slotswapper/modules/event"
	"slotswapper/modules/marketplace"
	"slotswapper/modules/notification"
	"slotswapper/modules/swap"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Run boots the whole service: config, logging, storage, cache, the HTTP
// server and the notification worker. It blocks until SIGINT/SIGTERM and
// shuts everything down gracefully.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Init(cfg.Server.LogLevel)

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = db.EnsureSchema(ctx)
	cancel()
	if err != nil {
		return err
	}

	redisCache, err := cache.NewRedisCache(cfg.Redis)
	if err != nil {
		return err
	}
	defer redisCache.Close()

	taskClient := tasks.NewClient(cfg.Redis)
	defer taskClient.Close()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.CORS())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	mux := asynq.NewServeMux()

	// Module wiring. Auth comes first: it owns the middleware the rest
	// mount on their routes.
	mw := auth.Init(e, db, redisCache)
	event.Init(e, db, mw)
	marketplace.Init(e, db, mw)
	swap.Init(e, db, mw, taskClient)
	notification.Init(e, db, mw, mux)

	worker := asynq.NewServer(tasks.RedisOpt(cfg.Redis), asynq.Config{
		Concurrency: 10,
	})
	go func() {
		if err := worker.Run(mux); err != nil {
			logger.Error("Server:Worker", "error", err)
		}
	}()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("Server:Start", "error", err)
		}
	}()
	logger.Info("Server started", "addr", addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down...")

	worker.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"practicelog/internal/config"
	"practicelog/internal/database"
	"practicelog/internal/feed"
	"practicelog/internal/handlers"
	"practicelog/internal/logging"
	"practicelog/internal/middleware"
	"practicelog/internal/repository"
	"practicelog/internal/router"
	"practicelog/internal/services"
	"practicelog/internal/websocket"
	"practicelog/internal/worker"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "practicelog server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()
	logger.Info("starting practicelog server", zap.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ──── Step 2: Initialize Redis Clients (optional) ────
	redisClients, err := database.NewRedisClients(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer redisClients.Close()
	if redisClients != nil {
		logger.Info("redis connected")
	} else {
		logger.Info("redis not configured; page cache and reload queue disabled")
	}

	// ──── Step 3: History source and initial load ────
	source, err := feed.NewSource(cfg.HistorySource, cfg.FetchTimeout)
	if err != nil {
		return err
	}
	historyRepo := repository.NewHistoryRepo(source, cfg.HistoryFile, logger)
	// A failed first load is logged by the repo and served as empty.
	historyRepo.Load(ctx)

	pageCache := repository.NewPageCache(redisClients.QueueClient(), cfg.QuestionTTL)
	pageService := services.NewQuestionPageService(source, pageCache, logger)

	// ──── Step 4: Hub and reload triggers ────
	wsHub := websocket.NewHub(redisClients.PubSubClient(), logger)
	reloader := worker.NewReloader(historyRepo, pageCache, wsHub, logger)

	queueConsumer := worker.NewQueueConsumer(redisClients.QueueClient(), reloader, logger)
	queueConsumer.Start(ctx)
	defer queueConsumer.Stop()

	if dirSource, ok := source.(*feed.DirSource); ok && cfg.WatchHistory {
		watcher, err := worker.NewHistoryWatcher(dirSource.Path(cfg.HistoryFile), reloader, logger)
		if err != nil {
			logger.Warn("history watcher unavailable", zap.Error(err))
		} else if err := watcher.Start(ctx); err != nil {
			logger.Warn("history watcher not started", zap.Error(err))
			watcher.Stop()
		} else {
			defer watcher.Stop()
		}
	}

	// ──── Step 5: HTTP Server ────
	adminAuth := middleware.NewAdminAuth(cfg.AdminJWTSecret)
	if !adminAuth.Enabled() {
		logger.Warn("ADMIN_JWT_SECRET not set; admin routes are open")
	}

	r := router.New(ctx,
		handlers.NewHistoryHandler(historyRepo, pageService, cfg.PageSizeOptions, cfg.DefaultPageSize),
		handlers.NewAdminHandler(reloader),
		adminAuth,
		wsHub,
		router.Options{FrontendURL: cfg.FrontendURL, Logger: logger},
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		wsHub.Run(gctx)
		return nil
	})

	g.Go(func() error {
		return worker.NewRefresher(reloader, cfg.RefreshEvery).Run(gctx)
	})

	g.Go(func() error {
		logger.Info("practicelog ready",
			zap.String("api", fmt.Sprintf("http://localhost:%s/api/v1", cfg.Port)),
			zap.String("ws", fmt.Sprintf("ws://localhost:%s/api/v1/ws", cfg.Port)),
		)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

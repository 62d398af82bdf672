package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Freeeeeet/boss_timer_bot/internal/app"
	"github.com/Freeeeeet/boss_timer_bot/internal/config"
	"github.com/Freeeeeet/boss_timer_bot/internal/controller"
	"github.com/Freeeeeet/boss_timer_bot/internal/controller/handlers"
	"github.com/Freeeeeet/boss_timer_bot/internal/repository"
	"github.com/Freeeeeet/boss_timer_bot/internal/schedule"
	"github.com/Freeeeeet/boss_timer_bot/internal/server"
	"github.com/Freeeeeet/boss_timer_bot/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := app.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	defer logger.Sync()

	logger.Sugar().Infow("Starting boss timer bot",
		"environment", cfg.Environment,
		"token_length", len(cfg.TelegramToken),
		"scan_interval", cfg.ScanInterval,
		"lead_low", cfg.LeadLow,
		"lead_high", cfg.LeadHigh)

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Bot stopped with error", zap.Error(err))
	}

	logger.Info("Bot stopped")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	if cfg.TelegramToken == "" {
		return errors.New("TELEGRAM_TOKEN is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// База данных
	pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
	if err != nil {
		return fmt.Errorf("create pool: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	migrator, err := app.NewMigrator(pool, logger)
	if err != nil {
		return err
	}
	if err := migrator.Run(ctx); err != nil {
		migrator.Close()
		return fmt.Errorf("migrate: %w", err)
	}
	migrator.Close()

	// Расписание фиксированных боссов
	slots, err := config.LoadSlots(cfg.SlotsFile)
	if err != nil {
		return fmt.Errorf("load fixed slots: %w", err)
	}
	resolver := schedule.NewResolver(slots, cfg.AnchorOffset)
	logger.Info("Fixed schedule loaded",
		zap.Int("slots", len(slots)),
		zap.Duration("anchor_offset", cfg.AnchorOffset))

	// Репозитории и сервисы
	bossRepo := repository.NewBossRepository(pool, logger)
	settingsRepo := repository.NewSettingsRepository(pool, logger)

	bossService := service.NewBossService(bossRepo, resolver, logger)
	settingsService := service.NewSettingsService(settingsRepo, cfg.NotifyChatID, logger)

	// Telegram
	botInstance, err := bot.New(cfg.TelegramToken,
		bot.WithMiddlewares(handlers.RecoverMiddleware(logger), handlers.LoggingMiddleware(logger)),
		bot.WithDefaultHandler(handlers.DefaultHandler(logger)),
	)
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}

	botController := controller.NewBotController(botInstance, bossService, settingsService, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Warn("Continuing without command menu", zap.Error(err))
	}

	notifier := controller.NewTelegramNotifier(botInstance, cfg.NotifyRatePerSec, logger)
	notificationService := service.NewNotificationService(
		bossRepo,
		bossService,
		settingsService,
		notifier,
		service.Window{Low: cfg.LeadLow, High: cfg.LeadHigh},
		logger,
	)

	// Сканер уведомлений
	scheduler := app.NewScheduler(notificationService, cfg.ScanInterval, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	// HTTP
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.New(bossService, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", zap.Error(err))
			stop()
		}
	}()

	// Блокируется до сигнала остановки
	botController.Start(ctx)

	logger.Info("Shutting down...")
	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown failed", zap.Error(err))
	}

	return nil
}

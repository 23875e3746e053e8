package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/samber/do/v2"
	slogmulti "github.com/samber/slog-multi"

	"telegram-job-parser/internal/config"
	"telegram-job-parser/internal/di"
	"telegram-job-parser/internal/gatherer"
)

func main() {
	// Setup structured logging with multiple handlers using slog-multi
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	jsonHandler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	})

	// Use Fanout to send logs to both handlers
	multiHandler := slogmulti.Fanout(textHandler, jsonHandler)
	logger := slog.New(multiHandler)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Setup dependency injection
	injector, err := di.SetupGatherer(ctx)
	if err != nil {
		slog.Error("Failed to setup dependency injection", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := di.ShutdownGatherer(injector); err != nil {
			slog.Error("Error during shutdown", "error", err)
		}
	}()

	// Get services from DI container
	cfg := do.MustInvoke[*config.Gatherer](injector)
	poller := do.MustInvoke[*gatherer.Poller](injector)

	if err := poller.Start(ctx); err != nil {
		slog.Error("Failed to start poller", "error", err)
		os.Exit(1)
	}

	// Real-time Telegram listening needs a bot token; without one only the
	// periodic sources run.
	if cfg.TelegramBotToken == "" {
		slog.Warn("TELEGRAM_BOT_TOKEN not set, real-time channel listening disabled")
	} else {
		b := do.MustInvoke[*bot.Bot](injector)
		go b.Start(ctx)
		slog.Info("Real-time channel listening started")
	}

	slog.Info("Gatherer started", "bot_api", cfg.BotAPI, "interval_minutes", cfg.CheckInterval)
	slog.Info("Press Ctrl+C to stop")

	// Graceful shutdown
	<-ctx.Done()
	slog.Info("Shutting down...")
}

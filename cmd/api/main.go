package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"reminder-assistant/config"
	_ "reminder-assistant/docs" // Swagger docs
	"reminder-assistant/internal/app"
	"reminder-assistant/internal/httpserver"
	"reminder-assistant/pkg/log"
)

// @title       Reminder Assistant API
// @description Telegram reminder assistant: natural-language reminders, scheduled digests and an LLM chat.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Reminder Assistant...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. Domain wiring
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "Failed to initialize application: ", err)
		return
	}
	defer a.Close()

	telegramHandler := a.TelegramHandler()
	if a.Bot != nil {
		registerWebhook(ctx, a, logger)
	}

	// 4. In-process scheduler (optional; cmd/scheduler runs it standalone)
	var status httpserver.StatusSource
	if cfg.Scheduler.Enabled && a.Bot != nil {
		sched, err := a.NewScheduler(a.Bot)
		if err != nil {
			logger.Error(ctx, "Failed to initialize scheduler: ", err)
			return
		}
		status = sched
		go sched.Run(ctx)
		logger.Info(ctx, "✅ Reminder scheduler started in-process")
	} else {
		logger.Info(ctx, "Scheduler not started in this process")
	}

	// 5. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:          logger,
		Port:            cfg.HTTPServer.Port,
		Mode:            cfg.HTTPServer.Mode,
		Environment:     cfg.Environment.Name,
		Gatherer:        a.Registry,
		Status:          status,
		TelegramHandler: telegramHandler,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 6. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}

// registerWebhook points Telegram at this server: the configured URL, else an
// auto-detected ngrok tunnel.
func registerWebhook(ctx context.Context, a *app.App, logger log.Logger) {
	webhookURL := a.Config.Telegram.WebhookURL
	if webhookURL == "" {
		ngrokURL, ngrokErr := detectNgrokURL(ctx, "http://ngrok:4040")
		if ngrokErr != nil {
			logger.Warnf(ctx, "Could not detect ngrok URL: %v", ngrokErr)
			return
		}
		webhookURL = ngrokURL + "/webhook/telegram"
		logger.Infof(ctx, "Auto-detected ngrok URL: %s", webhookURL)
	}

	if err := a.Bot.SetWebhook(ctx, webhookURL, a.Config.Telegram.WebhookSecret); err != nil {
		logger.Warnf(ctx, "Failed to set Telegram webhook: %v", err)
		return
	}
	logger.Infof(ctx, "✅ Telegram webhook registered at %s", webhookURL)
}

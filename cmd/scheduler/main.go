package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"reminder-assistant/config"
	"reminder-assistant/internal/app"
	"reminder-assistant/pkg/log"
)

// main runs the reminder scheduler on its own. Use it when the API runs
// several replicas with scheduler.enabled=false; exactly one scheduler may run.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting reminder scheduler...")

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "Failed to initialize application: ", err)
		return
	}
	defer a.Close()

	if a.Bot == nil {
		logger.Error(ctx, "Scheduler needs telegram.bot_token to deliver reminders")
		return
	}

	sched, err := a.NewScheduler(a.Bot)
	if err != nil {
		logger.Error(ctx, "Failed to initialize scheduler: ", err)
		return
	}

	if err := sched.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error(ctx, "Scheduler stopped: ", err)
		return
	}
	logger.Info(ctx, "Scheduler stopped gracefully")
}

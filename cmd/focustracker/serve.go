package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"focus-tracker/internal/api"
	"focus-tracker/internal/bot"
	"focus-tracker/internal/service"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the scheduler and, with a token, the Telegram bot",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.tracker.InitializeDays(ctx, time.Now()); err != nil {
		return fmt.Errorf("initialize tracker: %w", err)
	}

	scheduler := service.NewSchedulerService(time.Local)
	if _, err := scheduler.ScheduleDaily("refresh-days", a.cfg.Tracker.RefreshTime, a.tracker.RefreshAll); err != nil {
		return fmt.Errorf("schedule refresh: %w", err)
	}

	var telegramBot *bot.Bot
	if a.cfg.Telegram.Token != "" {
		telegramBot, err = bot.New(a.cfg.Telegram.Token, bot.Services{
			Subscribers: a.subscribers,
			Tasks:       a.tasks,
			Tracker:     a.tracker,
			Focus:       a.focus,
			Reminders:   a.reminders,
		}, a.cfg.Tracker.SessionMinutes)
		if err != nil {
			return fmt.Errorf("bot: %w", err)
		}
		if interval := a.cfg.ReportInterval(); interval > 0 {
			if _, err := scheduler.ScheduleInterval("reports", interval, telegramBot.SendDailyReports); err != nil {
				return fmt.Errorf("schedule reports: %w", err)
			}
		}
	} else {
		log.Println("[info] TELEGRAM_TOKEN not set, bot disabled")
	}

	scheduler.Start()
	defer scheduler.Stop()

	server := api.NewServer(api.Services{
		Tasks:   a.tasks,
		Tracker: a.tracker,
		Focus:   a.focus,
	}, a.cfg.Tracker.SessionMinutes)

	errCh := make(chan error, 2)
	go func() { errCh <- server.Run(ctx, a.cfg.HTTP.Addr) }()
	if telegramBot != nil {
		go func() { errCh <- telegramBot.Start(ctx) }()
	}

	log.Println("Focus tracker started.")
	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("stopped with error: %w", err)
		}
	case <-ctx.Done():
	}
	log.Println("Shutdown complete.")
	return nil
}

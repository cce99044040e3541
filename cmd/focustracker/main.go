package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"focus-tracker/internal/config"
	"focus-tracker/internal/repository"
	"focus-tracker/internal/service"
)

var Version = "dev"

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:           "focustracker",
		Short:         "Task tree, 60-day tracker and focus streaks",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (env vars still override it)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(daysCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app holds the opened store and the services built on it.
type app struct {
	cfg         config.Config
	db          *gorm.DB
	subscribers *repository.SubscriberRepository
	tasks       *service.TaskService
	tracker     *service.TrackerService
	focus       *service.FocusService
	reminders   *service.ReminderService
}

func openApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	db, err := repository.NewDB(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}

	store := service.NewStore(db)
	return &app{
		cfg:         cfg,
		db:          db,
		subscribers: repository.NewSubscriberRepository(db),
		tasks:       service.NewTaskService(store),
		tracker:     service.NewTrackerService(store),
		focus:       service.NewFocusService(store, cfg.Streak.CalendarDays),
		reminders:   service.NewReminderService(store),
	}, nil
}

func (a *app) Close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

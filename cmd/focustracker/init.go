package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the 60 tracker days starting today (no-op once created)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			if err := a.tracker.InitializeDays(ctx, time.Now()); err != nil {
				return err
			}
			days, err := a.tracker.ListDays(ctx)
			if err != nil {
				return err
			}
			if len(days) == 0 {
				return fmt.Errorf("tracker is empty after init")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Tracker ready: %d days, %s to %s\n", len(days), days[0].Date, days[len(days)-1].Date)
			return nil
		},
	}
}

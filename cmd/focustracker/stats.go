package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show streaks and focus totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			stats, err := a.focus.Stats(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Focus stats")
			fmt.Fprintln(out, strings.Repeat("=", 30))
			fmt.Fprintf(out, "  Current streak: %d\n", stats.CurrentStreak)
			fmt.Fprintf(out, "  Longest streak: %d\n", stats.LongestStreak)
			fmt.Fprintf(out, "  Sessions:       %d\n", stats.TotalTasksCompleted)
			fmt.Fprintf(out, "  Minutes:        %d\n", stats.TotalStudyMinutes)
			last := "never"
			if stats.LastStudyDate != nil {
				last = *stats.LastStudyDate
			}
			fmt.Fprintf(out, "  Last session:   %s\n", last)
			return nil
		},
	}
}

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"focus-tracker/internal/model"
)

const boardColumns = 10

var (
	cellStyle = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#F9FAFB"))

	colorStyles = map[model.Color]lipgloss.Style{
		model.ColorRed:        cellStyle.Background(lipgloss.Color("#B91C1C")),
		model.ColorYellow:     cellStyle.Background(lipgloss.Color("#CA8A04")),
		model.ColorLightGreen: cellStyle.Background(lipgloss.Color("#65A30D")),
		model.ColorDeepGreen:  cellStyle.Background(lipgloss.Color("#166534")),
	}

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
)

// plainMarks stand in for colors when stdout is not a terminal.
var plainMarks = map[model.Color]string{
	model.ColorRed:        "r",
	model.ColorYellow:     "y",
	model.ColorLightGreen: "g",
	model.ColorDeepGreen:  "G",
}

func daysCmd() *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "days",
		Short: "Show the 60-day board",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			days, err := a.tracker.ListDays(cmd.Context())
			if err != nil {
				return err
			}
			if len(days) == 0 {
				return fmt.Errorf("tracker is not initialized, run init first")
			}

			styled := !plain && term.IsTerminal(int(os.Stdout.Fd()))
			fmt.Fprintln(cmd.OutOrStdout(), renderBoard(days, styled))
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "no colors, one letter per day")
	return cmd
}

// renderBoard lays the days out in rows of ten followed by a per-color tally.
func renderBoard(days []model.DayRecord, styled bool) string {
	counts := make(map[model.Color]int)
	var rows []string
	for start := 0; start < len(days); start += boardColumns {
		end := start + boardColumns
		if end > len(days) {
			end = len(days)
		}
		cells := make([]string, 0, end-start)
		for _, day := range days[start:end] {
			counts[day.CompletionStatus]++
			cells = append(cells, renderCell(day, styled))
		}
		if styled {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		} else {
			rows = append(rows, strings.Join(cells, " "))
		}
	}

	tally := fmt.Sprintf("deep_green %d · light_green %d · yellow %d · red %d",
		counts[model.ColorDeepGreen], counts[model.ColorLightGreen], counts[model.ColorYellow], counts[model.ColorRed])
	header := fmt.Sprintf("60-day tracker · %s to %s", days[0].Date, days[len(days)-1].Date)

	if !styled {
		return header + "\n" + strings.Join(rows, "\n") + "\n" + tally
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(header),
		lipgloss.JoinVertical(lipgloss.Left, rows...),
		dimStyle.Render(tally),
	)
}

func renderCell(day model.DayRecord, styled bool) string {
	if !styled {
		mark, ok := plainMarks[day.CompletionStatus]
		if !ok {
			mark = "?"
		}
		return fmt.Sprintf("%02d%s", day.DayNumber, mark)
	}
	style, ok := colorStyles[day.CompletionStatus]
	if !ok {
		style = cellStyle
	}
	return style.Render(fmt.Sprintf("%02d", day.DayNumber))
}

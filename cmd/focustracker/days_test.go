package main

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focus-tracker/internal/model"
)

func sampleDays() []model.DayRecord {
	start := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	days := make([]model.DayRecord, 0, model.TrackerDays)
	for d := 1; d <= model.TrackerDays; d++ {
		days = append(days, model.DayRecord{
			DayNumber:        d,
			Date:             start.AddDate(0, 0, d-1).Format("2006-01-02"),
			CompletionStatus: model.ColorRed,
		})
	}
	days[0].CompletionStatus = model.ColorDeepGreen
	days[1].CompletionStatus = model.ColorLightGreen
	days[2].CompletionStatus = model.ColorYellow
	return days
}

func TestRenderBoardPlain(t *testing.T) {
	out := renderBoard(sampleDays(), false)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 8)

	assert.Equal(t, "60-day tracker · 2024-03-10 to 2024-05-08", lines[0])
	assert.Equal(t, "01G 02g 03y 04r 05r 06r 07r 08r 09r 10r", lines[1])
	assert.True(t, strings.HasPrefix(lines[6], "51r "))
	assert.Equal(t, "deep_green 1 · light_green 1 · yellow 1 · red 57", lines[7])
}

func TestRenderBoardStyled(t *testing.T) {
	out := renderBoard(sampleDays(), true)
	assert.Equal(t, 8, lipgloss.Height(out))
	assert.Contains(t, out, "deep_green 1")
	assert.Contains(t, out, "60")
}

func TestRenderCellUnknownColor(t *testing.T) {
	assert.Equal(t, "07?", renderCell(model.DayRecord{DayNumber: 7, CompletionStatus: "blue"}, false))
}

package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"gorm.io/gorm"

	"focus-tracker/internal/model"
	"focus-tracker/internal/progress"
)

// ReminderService builds human-readable summaries for scheduled notifications.
type ReminderService struct {
	store *Store
}

func NewReminderService(store *Store) *ReminderService {
	return &ReminderService{store: store}
}

// DailySummary describes today's tracker day, its tasks and the focus stats,
// formatted as Telegram HTML.
func (s *ReminderService) DailySummary(ctx context.Context, now time.Time) (string, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	stats, err := s.store.stats.Get(ctx)
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	builder.WriteString("📋 <b>Daily report</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n\n", now.Format("02.01.2006")))

	day, err := s.store.days.FindByDate(ctx, progress.FormatDate(now))
	switch {
	case err == nil:
		tasks, err := s.store.tasks.ListByDay(ctx, day.DayNumber)
		if err != nil {
			return "", err
		}
		builder.WriteString(formatDayHeader(*day))
		if len(tasks) == 0 {
			builder.WriteString("— nothing assigned for today\n")
		}
		for _, task := range tasks {
			builder.WriteString(formatTaskLine(task, now))
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		builder.WriteString("— today is outside the 60-day tracker\n")
	default:
		return "", err
	}

	builder.WriteString("\n⏱ <b>Focus</b>\n")
	builder.WriteString(formatStats(*stats))

	return strings.TrimSpace(builder.String()), nil
}

func formatDayHeader(day model.DayRecord) string {
	return fmt.Sprintf("%s <b>Day %d of %d</b> · %d/%d done\n",
		day.CompletionStatus.Emoji(), day.DayNumber, model.TrackerDays, day.TasksCompleted, day.TasksTotal)
}

func formatTaskLine(task model.Task, now time.Time) string {
	var sb strings.Builder

	icon := "⬜"
	if task.IsCompleted {
		icon = "✔️"
	} else if task.DueDate != nil && *task.DueDate < progress.FormatDate(now) {
		icon = "⚠️"
	}
	sb.WriteString(fmt.Sprintf("%s %s <code>#%d</code>", icon, html.EscapeString(strings.TrimSpace(task.Title)), task.ID))
	if task.DueDate != nil {
		sb.WriteString(fmt.Sprintf(" · due %s", *task.DueDate))
	}
	if task.IsRecurring {
		sb.WriteString(" ♻️")
	}

	sb.WriteByte('\n')
	return sb.String()
}

func formatStats(stats model.Stats) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🔥 streak %d (best %d)\n", stats.CurrentStreak, stats.LongestStreak))
	sb.WriteString(fmt.Sprintf("🍅 %d sessions · %s focused\n", stats.TotalTasksCompleted, formatMinutes(stats.TotalStudyMinutes)))
	if stats.LastStudyDate != nil {
		sb.WriteString(fmt.Sprintf("📅 last session %s\n", *stats.LastStudyDate))
	}
	return sb.String()
}

func formatMinutes(total int) string {
	if total < 60 {
		return fmt.Sprintf("%dm", total)
	}
	return fmt.Sprintf("%dh%02dm", total/60, total%60)
}

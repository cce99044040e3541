package bot

import (
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"focus-tracker/internal/model"
	"focus-tracker/internal/progress"
)

const (
	cbTogglePrefix = "toggle:"

	btnSkip   = "⏭️ Skip"
	btnYes    = "Yes"
	btnNo     = "No"
	btnCancel = "⏪ Cancel input"

	iconOpen      = "⬜"
	iconDone      = "✔️"
	iconOverdue   = "⚠️"
	iconRecurring = "♻️"

	maxToggleButtons = 20
)

func escape(s string) string {
	return html.EscapeString(s)
}

func parseTaskID(data, prefix string) (uint, error) {
	raw := strings.TrimPrefix(data, prefix)
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	if value == 0 {
		return 0, errors.New("id must be positive")
	}
	return uint(value), nil
}

func parseDate(value string) (time.Time, error) {
	return time.Parse(progress.DateLayout, value)
}

// parseAssignArgs reads "<task> <day>".
func parseAssignArgs(args string) (uint, int, error) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return 0, 0, errors.New("want task and day")
	}
	taskID, err := parseTaskID(fields[0], "")
	if err != nil {
		return 0, 0, err
	}
	day, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, err
	}
	return taskID, day, nil
}

// parseFocusArgs reads "[minutes] [task]"; missing minutes fall back to def.
func parseFocusArgs(args string, def int) (int, *uint, error) {
	fields := strings.Fields(args)
	minutes := def
	var taskID *uint
	if len(fields) > 2 {
		return 0, nil, errors.New("too many arguments")
	}
	if len(fields) >= 1 {
		n, err := strconv.Atoi(fields[0])
		if err != nil || n <= 0 {
			return 0, nil, errors.New("minutes must be positive")
		}
		minutes = n
	}
	if len(fields) == 2 {
		id, err := parseTaskID(fields[1], "")
		if err != nil {
			return 0, nil, err
		}
		taskID = &id
	}
	return minutes, taskID, nil
}

func isSkipInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == "-" || value == strings.ToLower(btnSkip) || value == "skip"
}

func isCancelInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnCancel) || value == "cancel"
}

func shortTitle(title string, maxLen int) string {
	clean := strings.TrimSpace(strings.ReplaceAll(title, "\n", " "))
	runes := []rune(clean)
	if len(runes) <= maxLen {
		return clean
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}

func toggledText(taskID uint, completed bool) string {
	if completed {
		return fmt.Sprintf("✅ Task #%d and its subtasks are done.", taskID)
	}
	return fmt.Sprintf("↩️ Task #%d reopened.", taskID)
}

func formatCreated(task model.Task) string {
	var b strings.Builder
	b.WriteString("✅ <b>Task saved</b>\n")
	b.WriteString(fmt.Sprintf("• <b>ID:</b> %d\n", task.ID))
	b.WriteString(fmt.Sprintf("• <b>Title:</b> %s\n", escape(task.Title)))
	if task.ParentID != nil {
		b.WriteString(fmt.Sprintf("• <b>Parent:</b> #%d\n", *task.ParentID))
	}
	if task.Description != nil && *task.Description != "" {
		b.WriteString(fmt.Sprintf("• <b>Description:</b> %s\n", escape(*task.Description)))
	}
	if task.DueDate != nil {
		b.WriteString(fmt.Sprintf("• <b>Due:</b> %s\n", *task.DueDate))
	}
	if task.IsRecurring && task.RecurrencePattern != nil {
		b.WriteString(fmt.Sprintf("• <b>Repeats:</b> %s\n", escape(*task.RecurrencePattern)))
	}
	return strings.TrimSpace(b.String())
}

// formatTaskTree renders a forest with two spaces of indent per level.
func formatTaskTree(tree []model.Task, now time.Time) string {
	var b strings.Builder
	b.WriteString("📋 <b>Tasks</b>\n\n")

	type frame struct {
		task  model.Task
		depth int
	}
	stack := make([]frame, 0, len(tree))
	for i := len(tree) - 1; i >= 0; i-- {
		stack = append(stack, frame{task: tree[i]})
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		b.WriteString(strings.Repeat("  ", f.depth))
		b.WriteString(formatTaskLine(f.task, now))
		b.WriteByte('\n')

		for i := len(f.task.Subtasks) - 1; i >= 0; i-- {
			stack = append(stack, frame{task: f.task.Subtasks[i], depth: f.depth + 1})
		}
	}
	return strings.TrimSpace(b.String())
}

func formatTaskLine(task model.Task, now time.Time) string {
	icon := iconOpen
	switch {
	case task.IsCompleted:
		icon = iconDone
	case task.DueDate != nil && *task.DueDate < progress.FormatDate(now):
		icon = iconOverdue
	}
	line := fmt.Sprintf("%s <b>#%d</b> %s", icon, task.ID, escape(task.Title))
	if task.DueDate != nil {
		line += fmt.Sprintf(" · due %s", *task.DueDate)
	}
	if task.IsRecurring {
		line += " " + iconRecurring
	}
	return line
}

// toggleKeyboard builds one button per task, walking subtasks depth first.
func toggleKeyboard(tasks []model.Task) (tgbotapi.InlineKeyboardMarkup, bool) {
	var rows [][]tgbotapi.InlineKeyboardButton
	var walk func([]model.Task)
	walk = func(list []model.Task) {
		for _, task := range list {
			if len(rows) >= maxToggleButtons {
				return
			}
			icon := iconOpen
			if task.IsCompleted {
				icon = iconDone
			}
			label := fmt.Sprintf("%s #%d · %s", icon, task.ID, shortTitle(task.Title, 24))
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("%s%d", cbTogglePrefix, task.ID)),
			))
			walk(task.Subtasks)
		}
	}
	walk(tasks)
	if len(rows) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...), true
}

func countSubtasks(task model.Task) int {
	n := 0
	stack := append([]model.Task(nil), task.Subtasks...)
	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n++
		stack = append(stack, t.Subtasks...)
	}
	return n
}

func formatDayLine(day model.DayRecord) string {
	return fmt.Sprintf("%s Day %d · %s · %d/%d done", day.CompletionStatus.Emoji(), day.DayNumber, day.Date, day.TasksCompleted, day.TasksTotal)
}

func formatDay(day model.DayRecord, tasks []model.Task, now time.Time) string {
	var b strings.Builder
	b.WriteString(formatDayLine(day))
	b.WriteString("\n\n")
	if len(tasks) == 0 {
		b.WriteString("Nothing assigned. Use /assign &lt;task&gt; " + strconv.Itoa(day.DayNumber) + ".")
		return b.String()
	}
	for _, task := range tasks {
		b.WriteString(formatTaskLine(task, now))
		b.WriteByte('\n')
	}
	return strings.TrimSpace(b.String())
}

// formatBoard draws the tracker as rows of ten colored cells.
func formatBoard(days []model.DayRecord, today string) string {
	var b strings.Builder
	b.WriteString("🗓 <b>60-day board</b>\n")
	counts := make(map[model.Color]int)
	for i, day := range days {
		if i%10 == 0 {
			b.WriteString(fmt.Sprintf("\n<code>%02d</code> ", day.DayNumber))
		}
		cell := day.CompletionStatus.Emoji()
		if day.Date == today {
			cell = "📍"
		}
		b.WriteString(cell)
		counts[day.CompletionStatus]++
	}
	b.WriteString(fmt.Sprintf("\n\n%s %d  %s %d  %s %d  %s %d",
		model.ColorDeepGreen.Emoji(), counts[model.ColorDeepGreen],
		model.ColorLightGreen.Emoji(), counts[model.ColorLightGreen],
		model.ColorYellow.Emoji(), counts[model.ColorYellow],
		model.ColorRed.Emoji(), counts[model.ColorRed]))
	return b.String()
}

func formatStats(stats model.Stats) string {
	var b strings.Builder
	b.WriteString("📊 <b>Focus stats</b>\n")
	b.WriteString(fmt.Sprintf("🔥 Current streak: %d\n", stats.CurrentStreak))
	b.WriteString(fmt.Sprintf("🏆 Longest streak: %d\n", stats.LongestStreak))
	b.WriteString(fmt.Sprintf("🍅 Sessions: %d\n", stats.TotalTasksCompleted))
	b.WriteString(fmt.Sprintf("⏱ Focused: %s", formatMinutes(stats.TotalStudyMinutes)))
	if stats.LastStudyDate != nil {
		b.WriteString(fmt.Sprintf("\n📅 Last session: %s", *stats.LastStudyDate))
	}
	return b.String()
}

func formatHistory(sessions []model.Session, days int) string {
	if len(sessions) == 0 {
		return fmt.Sprintf("No sessions in the last %d days.", days)
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🕘 <b>Sessions, last %d days</b>\n", days))
	for _, s := range sessions {
		icon := "⏳"
		if s.Completed {
			icon = "✅"
		}
		b.WriteString(fmt.Sprintf("\n%s #%d · %s %s · %d min", icon, s.ID, s.Date, s.StartTime.Format("15:04"), s.DurationMinutes))
		if s.TaskID != nil {
			b.WriteString(fmt.Sprintf(" · task #%d", *s.TaskID))
		}
	}
	return b.String()
}

func formatMinutes(total int) string {
	if total < 60 {
		return fmt.Sprintf("%dm", total)
	}
	if total%60 == 0 {
		return fmt.Sprintf("%dh", total/60)
	}
	return fmt.Sprintf("%dh%02dm", total/60, total%60)
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func skipKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnSkip),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func yesNoKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnYes),
			tgbotapi.NewKeyboardButton(btnNo),
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func patternKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("daily"),
			tgbotapi.NewKeyboardButton("weekly"),
			tgbotapi.NewKeyboardButton("monthly"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

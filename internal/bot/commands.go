package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"focus-tracker/internal/progress"
	"focus-tracker/internal/service"
)

const helpText = "ℹ️ <b>Commands</b>\n" +
	"• /tasks — task tree, tap a button to toggle\n" +
	"• /newtask — add a task step by step\n" +
	"• /subtask &lt;id&gt; — add a subtask under a task\n" +
	"• /toggle &lt;id&gt; — complete or reopen a task\n" +
	"• /delete &lt;id&gt; — delete a task and its subtasks\n" +
	"• /assign &lt;task&gt; &lt;day&gt; — put a task on a tracker day\n" +
	"• /day [n] — one tracker day, today by default\n" +
	"• /days — the 60-day board\n" +
	"• /focus [minutes] [task] — start a focus session\n" +
	"• /done [session] — finish the running session\n" +
	"• /stats — streaks and totals\n" +
	"• /history [days] — recent sessions\n" +
	"• /report — summary right now\n" +
	"• /stop — stop scheduled summaries\n" +
	"• /cancel — cancel current input"

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.ensureSubscriber(ctx, msg.From); err != nil {
		return err
	}

	name := strings.TrimSpace(msg.From.FirstName)
	if name == "" {
		name = "there"
	}
	text := fmt.Sprintf("👋 Hi, %s!\n<b>I track your tasks across a 60-day board and keep your focus streak.</b>\nYou will get periodic summaries; /stop turns them off.\n\n%s",
		escape(name), helpText)
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleStop(ctx context.Context, msg *tgbotapi.Message) error {
	if err := b.svc.Subscribers.Remove(ctx, msg.From.ID); err != nil {
		return err
	}
	return b.sendText(msg.Chat.ID, "🔕 Summaries stopped. /start turns them back on.")
}

func (b *Bot) handleSubtask(ctx context.Context, msg *tgbotapi.Message) error {
	parentID, err := parseTaskID(strings.TrimSpace(msg.CommandArguments()), "")
	if err != nil {
		return b.sendText(msg.Chat.ID, "Give the parent task id: /subtask 12")
	}
	parent, err := b.svc.Tasks.GetTask(ctx, parentID)
	if err != nil {
		return b.sendText(msg.Chat.ID, describeError(err))
	}
	return b.startTaskConversation(msg, &parent.ID)
}

func (b *Bot) startTaskConversation(msg *tgbotapi.Message, parentID *uint) error {
	log.Printf("[info] start task conversation user=%d parent=%v", msg.From.ID, parentID)
	b.setConversation(msg.From.ID, &conversationState{
		stage: stageTitle,
		input: service.TaskInput{ParentID: parentID},
	})
	prompt := "🆕 New task.\n<b>Step 1:</b> what is it called?"
	if parentID != nil {
		prompt = fmt.Sprintf("🆕 New subtask of <b>#%d</b>.\n<b>Step 1:</b> what is it called?", *parentID)
	}
	return b.sendWithReplyMarkup(msg.Chat.ID, prompt, cancelKeyboard())
}

func (b *Bot) handleConversation(ctx context.Context, msg *tgbotapi.Message) error {
	state := b.getConversation(msg.From.ID)
	if state == nil {
		return nil
	}

	text := strings.TrimSpace(msg.Text)
	switch state.stage {
	case stageTitle:
		if text == "" {
			return b.sendText(msg.Chat.ID, "The title cannot be empty.")
		}
		state.input.Title = text
		state.stage = stageDescription
		return b.sendWithReplyMarkup(msg.Chat.ID, "✏️ A short description (or Skip).", skipKeyboard())
	case stageDescription:
		if !isSkipInput(text) {
			state.input.Description = &text
		}
		state.stage = stageDueDate
		return b.sendWithReplyMarkup(msg.Chat.ID, "⏰ Due date as <code>2025-11-30</code> (or Skip).", skipKeyboard())
	case stageDueDate:
		if !isSkipInput(text) {
			if _, err := parseDate(text); err != nil {
				return b.sendWithReplyMarkup(msg.Chat.ID, "Cannot read that date. Use <code>2025-11-30</code> or Skip.", skipKeyboard())
			}
			state.input.DueDate = &text
		}
		state.stage = stageRecurring
		return b.sendWithReplyMarkup(msg.Chat.ID, "🔁 Does it repeat?", yesNoKeyboard())
	case stageRecurring:
		switch strings.ToLower(text) {
		case "yes", "y":
			state.input.IsRecurring = true
			state.stage = stagePattern
			return b.sendWithReplyMarkup(msg.Chat.ID, "📆 How often? (daily, weekly, monthly or your own words)", patternKeyboard())
		case "no", "n", "-":
			return b.finishTaskCreation(ctx, msg, state.input)
		default:
			return b.sendWithReplyMarkup(msg.Chat.ID, "Answer Yes or No.", yesNoKeyboard())
		}
	case stagePattern:
		if text == "" {
			return b.sendWithReplyMarkup(msg.Chat.ID, "📆 How often?", patternKeyboard())
		}
		pattern := strings.ToLower(text)
		state.input.RecurrencePattern = &pattern
		return b.finishTaskCreation(ctx, msg, state.input)
	default:
		b.clearConversation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "Input reset. Start again with /newtask.")
	}
}

func (b *Bot) finishTaskCreation(ctx context.Context, msg *tgbotapi.Message, input service.TaskInput) error {
	b.clearConversation(msg.From.ID)

	task, err := b.svc.Tasks.CreateTask(ctx, input)
	if err != nil {
		return b.sendWithReplyMarkup(msg.Chat.ID, describeError(err), tgbotapi.NewRemoveKeyboard(true))
	}
	log.Printf("[info] task created id=%d parent=%v recurring=%t", task.ID, task.ParentID, task.IsRecurring)

	if err := b.sendWithReplyMarkup(msg.Chat.ID, formatCreated(*task), tgbotapi.NewRemoveKeyboard(true)); err != nil {
		return err
	}
	return b.sendTaskList(ctx, msg.Chat.ID)
}

func (b *Bot) sendTaskList(ctx context.Context, chatID int64) error {
	tree, err := b.svc.Tasks.ListTree(ctx)
	if err != nil {
		return b.sendText(chatID, describeError(err))
	}
	if len(tree) == 0 {
		return b.sendText(chatID, "No tasks yet. Add one with /newtask.")
	}

	msg := tgbotapi.NewMessage(chatID, formatTaskTree(tree, b.now()))
	msg.ParseMode = tgbotapi.ModeHTML
	if kb, ok := toggleKeyboard(tree); ok {
		msg.ReplyMarkup = kb
	}
	_, err = b.api.Send(msg)
	return err
}

func (b *Bot) handleToggle(ctx context.Context, msg *tgbotapi.Message) error {
	taskID, err := parseTaskID(strings.TrimSpace(msg.CommandArguments()), "")
	if err != nil {
		return b.sendText(msg.Chat.ID, "Give the task id: /toggle 12")
	}
	completed, err := b.svc.Tasks.ToggleCompletion(ctx, taskID)
	if err != nil {
		return b.sendText(msg.Chat.ID, describeError(err))
	}
	return b.sendText(msg.Chat.ID, toggledText(taskID, completed))
}

func (b *Bot) handleDelete(ctx context.Context, msg *tgbotapi.Message) error {
	taskID, err := parseTaskID(strings.TrimSpace(msg.CommandArguments()), "")
	if err != nil {
		return b.sendText(msg.Chat.ID, "Give the task id: /delete 12")
	}
	task, err := b.svc.Tasks.GetTask(ctx, taskID)
	if err != nil {
		return b.sendText(msg.Chat.ID, describeError(err))
	}
	if err := b.svc.Tasks.DeleteTask(ctx, taskID); err != nil {
		return b.sendText(msg.Chat.ID, describeError(err))
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("🗑 \"%s\" deleted with %d subtask(s).", escape(task.Title), countSubtasks(*task)))
}

func (b *Bot) handleAssign(ctx context.Context, msg *tgbotapi.Message) error {
	taskID, day, err := parseAssignArgs(msg.CommandArguments())
	if err != nil {
		return b.sendText(msg.Chat.ID, "Usage: /assign &lt;task&gt; &lt;day&gt;, for example /assign 12 3")
	}
	record, err := b.svc.Tracker.AssignTask(ctx, taskID, day, service.AssignedManually)
	if err != nil {
		return b.sendText(msg.Chat.ID, describeError(err))
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("📌 Task #%d is on day %d.\n%s", taskID, day, formatDayLine(*record)))
}

func (b *Bot) handleDay(ctx context.Context, msg *tgbotapi.Message) error {
	args := strings.TrimSpace(msg.CommandArguments())
	dayNumber := 0
	if args == "" {
		today, err := b.svc.Tracker.DayOn(ctx, b.now())
		if err != nil {
			return b.sendText(msg.Chat.ID, describeError(err))
		}
		dayNumber = today.DayNumber
	} else {
		n, err := strconv.Atoi(args)
		if err != nil {
			return b.sendText(msg.Chat.ID, "Day must be a number: /day 5")
		}
		dayNumber = n
	}

	day, err := b.svc.Tracker.Day(ctx, dayNumber)
	if err != nil {
		return b.sendText(msg.Chat.ID, describeError(err))
	}
	tasks, err := b.svc.Tracker.TasksForDay(ctx, dayNumber)
	if err != nil {
		return b.sendText(msg.Chat.ID, describeError(err))
	}

	out := tgbotapi.NewMessage(msg.Chat.ID, formatDay(*day, tasks, b.now()))
	out.ParseMode = tgbotapi.ModeHTML
	if kb, ok := toggleKeyboard(tasks); ok {
		out.ReplyMarkup = kb
	}
	_, err = b.api.Send(out)
	return err
}

func (b *Bot) handleDays(ctx context.Context, msg *tgbotapi.Message) error {
	days, err := b.svc.Tracker.ListDays(ctx)
	if err != nil {
		return b.sendText(msg.Chat.ID, describeError(err))
	}
	if len(days) == 0 {
		return b.sendText(msg.Chat.ID, "The tracker is not initialized yet.")
	}
	return b.sendText(msg.Chat.ID, formatBoard(days, progress.FormatDate(b.now())))
}

func (b *Bot) handleFocus(ctx context.Context, msg *tgbotapi.Message) error {
	minutes, taskID, err := parseFocusArgs(msg.CommandArguments(), b.sessionMinutes)
	if err != nil {
		return b.sendText(msg.Chat.ID, "Usage: /focus [minutes] [task], for example /focus 25 12")
	}
	if running, ok := b.activeSession(msg.From.ID); ok {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("⏳ Session #%d is still running. Finish it with /done.", running))
	}

	session, err := b.svc.Focus.StartSession(ctx, taskID, minutes, b.now())
	if err != nil {
		return b.sendText(msg.Chat.ID, describeError(err))
	}
	b.setActiveSession(msg.From.ID, session.ID)

	text := fmt.Sprintf("🍅 Session #%d started: %d min.", session.ID, minutes)
	if taskID != nil {
		text += fmt.Sprintf(" Task #%d.", *taskID)
	}
	return b.sendText(msg.Chat.ID, text+" Send /done when finished.")
}

func (b *Bot) handleDone(ctx context.Context, msg *tgbotapi.Message) error {
	var sessionID uint
	if args := strings.TrimSpace(msg.CommandArguments()); args != "" {
		id, err := parseTaskID(args, "")
		if err != nil {
			return b.sendText(msg.Chat.ID, "Session id must be a number: /done 7")
		}
		sessionID = id
	} else {
		id, ok := b.takeActiveSession(msg.From.ID)
		if !ok {
			return b.sendText(msg.Chat.ID, "No running session. Start one with /focus.")
		}
		sessionID = id
	}

	stats, err := b.svc.Focus.CompleteSession(ctx, sessionID, b.now())
	if err != nil {
		return b.sendText(msg.Chat.ID, describeError(err))
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("✅ Session #%d done.\n%s", sessionID, formatStats(*stats)))
}

func (b *Bot) handleStats(ctx context.Context, msg *tgbotapi.Message) error {
	stats, err := b.svc.Focus.Stats(ctx)
	if err != nil {
		return b.sendText(msg.Chat.ID, describeError(err))
	}
	return b.sendText(msg.Chat.ID, formatStats(*stats))
}

func (b *Bot) handleHistory(ctx context.Context, msg *tgbotapi.Message) error {
	days := service.DefaultHistoryDays
	if args := strings.TrimSpace(msg.CommandArguments()); args != "" {
		n, err := strconv.Atoi(args)
		if err != nil || n <= 0 {
			return b.sendText(msg.Chat.ID, "Days must be a positive number: /history 14")
		}
		days = n
	}
	sessions, err := b.svc.Focus.History(ctx, days, b.now())
	if err != nil {
		return b.sendText(msg.Chat.ID, describeError(err))
	}
	return b.sendText(msg.Chat.ID, formatHistory(sessions, days))
}

func (b *Bot) handleReport(ctx context.Context, msg *tgbotapi.Message) error {
	text, err := b.svc.Reminders.DailySummary(ctx, b.now())
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not build the summary: %s", escape(err.Error())))
	}
	return b.sendText(msg.Chat.ID, text)
}

// describeError turns a service error into a chat reply.
func describeError(err error) string {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return "🔍 " + escape(err.Error())
	case errors.Is(err, service.ErrInvalidInput):
		return "⚠️ " + escape(strings.TrimPrefix(err.Error(), service.ErrInvalidInput.Error()+": "))
	default:
		log.Printf("bot: %v", err)
		return "Something went wrong. Try again later."
	}
}

package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"focus-tracker/internal/model"
	"focus-tracker/internal/repository"
	"focus-tracker/internal/service"
)

type conversationStage int

const (
	stageNone conversationStage = iota
	stageTitle
	stageDescription
	stageDueDate
	stageRecurring
	stagePattern
)

type conversationState struct {
	stage conversationStage
	input service.TaskInput
}

// Services are the dependencies the bot dispatches commands to.
type Services struct {
	Subscribers *repository.SubscriberRepository
	Tasks       *service.TaskService
	Tracker     *service.TrackerService
	Focus       *service.FocusService
	Reminders   *service.ReminderService
}

// Bot aggregates Telegram API with services.
type Bot struct {
	api            *tgbotapi.BotAPI
	svc            Services
	sessionMinutes int
	now            func() time.Time

	mu             sync.Mutex
	conversations  map[int64]*conversationState
	activeSessions map[int64]uint
}

func New(token string, svc Services, sessionMinutes int) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("[info] bot authorized on account %s", api.Self.UserName)

	return &Bot{
		api:            api,
		svc:            svc,
		sessionMinutes: sessionMinutes,
		now:            time.Now,
		conversations:  make(map[int64]*conversationState),
		activeSessions: make(map[int64]uint),
	}, nil
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	log.Println("[info] start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
				log.Printf("handle callback: %v", err)
			}
		case update.Message != nil:
			if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
				continue
			}
			if err := b.handleMessage(ctx, update.Message); err != nil {
				log.Printf("handle message: %v", err)
			}
		}
	}

	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}

	if !msg.IsCommand() && isCancelInput(msg.Text) {
		b.clearConversation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "⏪ Input cancelled.")
	}

	if msg.IsCommand() {
		log.Printf("[info] command from %d: /%s %s", msg.From.ID, msg.Command(), msg.CommandArguments())
		return b.handleCommand(ctx, msg)
	}

	if b.hasConversation(msg.From.ID) {
		return b.handleConversation(ctx, msg)
	}

	return b.sendText(msg.Chat.ID, "I did not get that. Use /newtask to add a task or /help for the command list.")
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start":
		return b.handleStart(ctx, msg)
	case "help":
		return b.sendText(msg.Chat.ID, helpText)
	case "stop":
		return b.handleStop(ctx, msg)
	case "tasks":
		return b.sendTaskList(ctx, msg.Chat.ID)
	case "newtask":
		return b.startTaskConversation(msg, nil)
	case "subtask":
		return b.handleSubtask(ctx, msg)
	case "toggle":
		return b.handleToggle(ctx, msg)
	case "delete":
		return b.handleDelete(ctx, msg)
	case "assign":
		return b.handleAssign(ctx, msg)
	case "day":
		return b.handleDay(ctx, msg)
	case "days":
		return b.handleDays(ctx, msg)
	case "focus":
		return b.handleFocus(ctx, msg)
	case "done":
		return b.handleDone(ctx, msg)
	case "stats":
		return b.handleStats(ctx, msg)
	case "history":
		return b.handleHistory(ctx, msg)
	case "report":
		return b.handleReport(ctx, msg)
	case "cancel":
		b.clearConversation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "⏪ Input cancelled.")
	default:
		return b.sendText(msg.Chat.ID, "Unknown command. See /help.")
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.From == nil || cb.Message == nil {
		return nil
	}
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		log.Printf("callback ack: %v", err)
	}

	if !strings.HasPrefix(cb.Data, cbTogglePrefix) {
		return nil
	}
	taskID, err := parseTaskID(cb.Data, cbTogglePrefix)
	if err != nil {
		return nil
	}

	log.Printf("[info] callback toggle user=%d task=%d", cb.From.ID, taskID)
	completed, err := b.svc.Tasks.ToggleCompletion(ctx, taskID)
	if err != nil {
		return b.sendText(cb.Message.Chat.ID, describeError(err))
	}
	if err := b.sendText(cb.Message.Chat.ID, toggledText(taskID, completed)); err != nil {
		return err
	}
	return b.sendTaskList(ctx, cb.Message.Chat.ID)
}

// SendDailyReports sends a summary to every subscriber.
func (b *Bot) SendDailyReports(ctx context.Context) error {
	subs, err := b.svc.Subscribers.ListAll(ctx)
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		return nil
	}

	text, err := b.svc.Reminders.DailySummary(ctx, b.now())
	if err != nil {
		return err
	}
	for _, sub := range subs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := b.sendText(sub.TelegramID, text); err != nil {
			log.Printf("send summary to %d: %v", sub.TelegramID, err)
		}
	}
	log.Printf("[info] summary sent to %d subscribers", len(subs))
	return nil
}

func (b *Bot) ensureSubscriber(ctx context.Context, from *tgbotapi.User) (*model.Subscriber, error) {
	return b.svc.Subscribers.UpsertFromTelegram(ctx, from.ID, from.FirstName, from.LastName, from.UserName)
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendWithReplyMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) setConversation(userID int64, state *conversationState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conversations[userID] = state
}

func (b *Bot) getConversation(userID int64) *conversationState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conversations[userID]
}

func (b *Bot) hasConversation(userID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.conversations[userID]
	return ok
}

func (b *Bot) clearConversation(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.conversations, userID)
}

func (b *Bot) setActiveSession(userID int64, sessionID uint) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.activeSessions[userID] = sessionID
}

func (b *Bot) activeSession(userID int64) (uint, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id, ok := b.activeSessions[userID]
	return id, ok
}

// takeActiveSession returns and forgets the user's running session.
func (b *Bot) takeActiveSession(userID int64) (uint, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id, ok := b.activeSessions[userID]
	delete(b.activeSessions, userID)
	return id, ok
}

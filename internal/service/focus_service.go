package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"focus-tracker/internal/model"
	"focus-tracker/internal/progress"
)

// DefaultHistoryDays is the session history window used when none is given.
const DefaultHistoryDays = 7

// FocusService records focus sessions and keeps the stats cache current.
type FocusService struct {
	store    *Store
	adjacent progress.AdjacencyFunc
}

// NewFocusService builds the service. With calendarStreaks set, streaks only
// continue across dates exactly one day apart; otherwise any two distinct
// activity dates continue a streak.
func NewFocusService(store *Store, calendarStreaks bool) *FocusService {
	adjacent := progress.IsConsecutiveDay
	if calendarStreaks {
		adjacent = progress.IsCalendarConsecutive
	}
	return &FocusService{store: store, adjacent: adjacent}
}

// StartSession opens a focus session dated on now.
func (s *FocusService) StartSession(ctx context.Context, taskID *uint, minutes int, now time.Time) (*model.Session, error) {
	if minutes <= 0 {
		return nil, invalidf("duration must be positive, got %d", minutes)
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if taskID != nil {
		if _, err := s.store.tasks.FindByID(ctx, *taskID); err != nil {
			return nil, notFound(err, fmt.Sprintf("task %d", *taskID))
		}
	}

	session := model.Session{
		TaskID:          taskID,
		StartTime:       now,
		DurationMinutes: minutes,
		Date:            progress.FormatDate(now),
	}
	if err := s.store.sessions.Create(ctx, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// CompleteSession closes a session and recomputes the stats cache from all
// completed sessions. A session completes once; later calls return the
// current stats without writing.
func (s *FocusService) CompleteSession(ctx context.Context, sessionID uint, now time.Time) (*model.Stats, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	session, err := s.store.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("session %d", sessionID))
	}
	if session.Completed {
		return s.store.stats.Get(ctx)
	}

	if err := s.store.sessions.MarkCompleted(ctx, session, now); err != nil {
		return nil, err
	}

	stats, err := s.recomputeStats(ctx, now)
	if err != nil {
		return nil, err
	}

	log.Printf("[info] session %d completed minutes=%d streak=%d", session.ID, session.DurationMinutes, stats.CurrentStreak)
	return stats, nil
}

func (s *FocusService) Stats(ctx context.Context) (*model.Stats, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	return s.store.stats.Get(ctx)
}

// History returns sessions dated within the last days days, most recent first.
func (s *FocusService) History(ctx context.Context, days int, now time.Time) ([]model.Session, error) {
	if days <= 0 {
		days = DefaultHistoryDays
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	return s.store.sessions.ListSince(ctx, progress.FormatDate(now.AddDate(0, 0, -days)))
}

// recomputeStats rebuilds every stats field. Caller holds the store lock.
func (s *FocusService) recomputeStats(ctx context.Context, now time.Time) (*model.Stats, error) {
	count, minutes, err := s.store.sessions.CompletedTotals(ctx)
	if err != nil {
		return nil, err
	}
	dates, err := s.store.sessions.CompletedDates(ctx)
	if err != nil {
		return nil, err
	}
	current, longest := progress.ComputeStreaks(dates, s.adjacent)

	today := progress.FormatDate(now)
	stats := &model.Stats{
		ID:                  model.StatsID,
		CurrentStreak:       current,
		LongestStreak:       longest,
		TotalTasksCompleted: count,
		TotalStudyMinutes:   minutes,
		LastStudyDate:       &today,
	}
	if err := s.store.stats.Save(ctx, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

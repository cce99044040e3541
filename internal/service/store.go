package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"focus-tracker/internal/model"
	"focus-tracker/internal/progress"
	"focus-tracker/internal/repository"
)

var (
	// ErrNotFound is returned when a referenced task, day or session does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned for requests rejected before touching the store.
	ErrInvalidInput = errors.New("invalid input")
)

// Store bundles the repositories behind a single writer lock. Every exported
// service method holds the lock for its whole read-then-write sequence.
type Store struct {
	mu sync.Mutex

	tasks       *repository.TaskRepository
	days        *repository.DayRepository
	assignments *repository.AssignmentRepository
	sessions    *repository.SessionRepository
	stats       *repository.StatsRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		tasks:       repository.NewTaskRepository(db),
		days:        repository.NewDayRepository(db),
		assignments: repository.NewAssignmentRepository(db),
		sessions:    repository.NewSessionRepository(db),
		stats:       repository.NewStatsRepository(db),
	}
}

// refreshDay recounts a day's assignments and stores the new color. Caller holds mu.
func (s *Store) refreshDay(ctx context.Context, dayNumber int) (*model.DayRecord, error) {
	day, err := s.days.FindByNumber(ctx, dayNumber)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("day %d", dayNumber))
	}

	total, err := s.assignments.CountByDay(ctx, dayNumber)
	if err != nil {
		return nil, err
	}
	completed, err := s.assignments.CountCompletedByDay(ctx, dayNumber)
	if err != nil {
		return nil, err
	}
	color := progress.Classify(completed, total)

	if err := s.days.UpdateStatus(ctx, dayNumber, completed, total, color); err != nil {
		return nil, err
	}

	day.TasksCompleted = completed
	day.TasksTotal = total
	day.CompletionStatus = color
	return day, nil
}

// refreshDaysOf recomputes every day that holds one of the tasks. Caller holds mu.
func (s *Store) refreshDaysOf(ctx context.Context, taskIDs []uint) error {
	days, err := s.assignments.DaysForTasks(ctx, taskIDs)
	if err != nil {
		return err
	}
	for _, d := range days {
		if _, err := s.refreshDay(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

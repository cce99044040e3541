package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"focus-tracker/internal/model"
	"focus-tracker/internal/progress"
)

// Assignment sources.
const (
	AssignedManually = "manual"
	AssignedByAI     = "ai"
)

// TrackerService keeps the sixty day records in sync with task assignments.
type TrackerService struct {
	store *Store
}

func NewTrackerService(store *Store) *TrackerService {
	return &TrackerService{store: store}
}

// InitializeDays creates the sixty day records starting at now's date.
// It does nothing once any day exists.
func (s *TrackerService) InitializeDays(ctx context.Context, now time.Time) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	n, err := s.store.days.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	days := make([]model.DayRecord, 0, model.TrackerDays)
	for d := 1; d <= model.TrackerDays; d++ {
		days = append(days, model.DayRecord{
			DayNumber:        d,
			Date:             progress.FormatDate(now.AddDate(0, 0, d-1)),
			CompletionStatus: model.ColorRed,
		})
	}
	if err := s.store.days.CreateBatch(ctx, days); err != nil {
		return err
	}

	log.Printf("[info] tracker initialized from %s", days[0].Date)
	return nil
}

func (s *TrackerService) ListDays(ctx context.Context) ([]model.DayRecord, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	return s.store.days.List(ctx)
}

func (s *TrackerService) Day(ctx context.Context, dayNumber int) (*model.DayRecord, error) {
	if err := validateDay(dayNumber); err != nil {
		return nil, err
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	day, err := s.store.days.FindByNumber(ctx, dayNumber)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("day %d", dayNumber))
	}
	return day, nil
}

// DayOn returns the tracker day whose date matches now's date.
func (s *TrackerService) DayOn(ctx context.Context, now time.Time) (*model.DayRecord, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	date := progress.FormatDate(now)
	day, err := s.store.days.FindByDate(ctx, date)
	if err != nil {
		return nil, notFound(err, "day on "+date)
	}
	return day, nil
}

// AssignTask links a task to a day and recomputes the day. Assigning the same
// pair twice changes nothing and returns the stored day.
func (s *TrackerService) AssignTask(ctx context.Context, taskID uint, dayNumber int, assignedBy string) (*model.DayRecord, error) {
	if err := validateDay(dayNumber); err != nil {
		return nil, err
	}
	switch assignedBy {
	case "":
		assignedBy = AssignedManually
	case AssignedManually, AssignedByAI:
	default:
		return nil, invalidf("assigned_by must be %q or %q", AssignedManually, AssignedByAI)
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	day, err := s.store.days.FindByNumber(ctx, dayNumber)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("day %d", dayNumber))
	}
	if _, err := s.store.tasks.FindByID(ctx, taskID); err != nil {
		return nil, notFound(err, fmt.Sprintf("task %d", taskID))
	}

	exists, err := s.store.assignments.Exists(ctx, taskID, dayNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return day, nil
	}

	if err := s.store.assignments.Create(ctx, &model.Assignment{
		TaskID:     taskID,
		DayNumber:  dayNumber,
		AssignedBy: assignedBy,
	}); err != nil {
		return nil, err
	}

	log.Printf("[info] task %d assigned to day %d by %s", taskID, dayNumber, assignedBy)
	return s.store.refreshDay(ctx, dayNumber)
}

// RefreshDay recomputes one day's counters and color.
func (s *TrackerService) RefreshDay(ctx context.Context, dayNumber int) (*model.DayRecord, error) {
	if err := validateDay(dayNumber); err != nil {
		return nil, err
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	return s.store.refreshDay(ctx, dayNumber)
}

// RefreshAll recomputes every stored day.
func (s *TrackerService) RefreshAll(ctx context.Context) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	days, err := s.store.days.List(ctx)
	if err != nil {
		return err
	}
	for _, d := range days {
		if _, err := s.store.refreshDay(ctx, d.DayNumber); err != nil {
			return err
		}
	}
	return nil
}

// TasksForDay lists the tasks assigned to a day, oldest first.
func (s *TrackerService) TasksForDay(ctx context.Context, dayNumber int) ([]model.Task, error) {
	if err := validateDay(dayNumber); err != nil {
		return nil, err
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	return s.store.tasks.ListByDay(ctx, dayNumber)
}

func validateDay(dayNumber int) error {
	if dayNumber < 1 || dayNumber > model.TrackerDays {
		return invalidf("day must be between 1 and %d, got %d", model.TrackerDays, dayNumber)
	}
	return nil
}

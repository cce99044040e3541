package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"focus-tracker/internal/model"
	"focus-tracker/internal/progress"
)

// TaskInput represents data required to create a task.
type TaskInput struct {
	Title             string  `json:"title"`
	Description       *string `json:"description"`
	DueDate           *string `json:"due_date"`
	IsRecurring       bool    `json:"is_recurring"`
	RecurrencePattern *string `json:"recurrence_pattern"`
	ParentID          *uint   `json:"parent_id"`
}

// TaskPatch lists the task fields a caller may change. Nil fields are left alone.
type TaskPatch struct {
	Title             *string `json:"title"`
	Description       *string `json:"description"`
	DueDate           *string `json:"due_date"`
	IsRecurring       *bool   `json:"is_recurring"`
	RecurrencePattern *string `json:"recurrence_pattern"`
}

// Empty reports whether the patch changes nothing.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.DueDate == nil &&
		p.IsRecurring == nil && p.RecurrencePattern == nil
}

// columns maps the present fields to their column names.
func (p TaskPatch) columns() (map[string]interface{}, error) {
	cols := make(map[string]interface{})
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return nil, invalidf("title must not be empty")
		}
		cols["title"] = title
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.DueDate != nil {
		if err := validateDate(*p.DueDate); err != nil {
			return nil, err
		}
		cols["due_date"] = *p.DueDate
	}
	if p.IsRecurring != nil {
		cols["is_recurring"] = *p.IsRecurring
	}
	if p.RecurrencePattern != nil {
		cols["recurrence_pattern"] = *p.RecurrencePattern
	}
	return cols, nil
}

// TaskService wraps task-related business logic, including the completion cascade.
type TaskService struct {
	store *Store
}

func NewTaskService(store *Store) *TaskService {
	return &TaskService{store: store}
}

func (s *TaskService) CreateTask(ctx context.Context, input TaskInput) (*model.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, invalidf("title is required")
	}
	if input.DueDate != nil {
		if err := validateDate(*input.DueDate); err != nil {
			return nil, err
		}
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if input.ParentID != nil {
		if _, err := s.store.tasks.FindByID(ctx, *input.ParentID); err != nil {
			return nil, notFound(err, fmt.Sprintf("parent task %d", *input.ParentID))
		}
	}

	task := model.Task{
		Title:             title,
		Description:       input.Description,
		DueDate:           input.DueDate,
		IsRecurring:       input.IsRecurring,
		RecurrencePattern: input.RecurrencePattern,
		ParentID:          input.ParentID,
	}
	if !task.IsRecurring {
		task.RecurrencePattern = nil
	}

	if err := s.store.tasks.Create(ctx, &task); err != nil {
		return nil, err
	}
	task.Subtasks = []model.Task{}
	return &task, nil
}

// ListTree returns root tasks, newest first, with their subtasks nested.
func (s *TaskService) ListTree(ctx context.Context) ([]model.Task, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	tasks, err := s.store.tasks.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return progress.BuildForest(tasks), nil
}

// GetTask returns one task with its subtree.
func (s *TaskService) GetTask(ctx context.Context, taskID uint) (*model.Task, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if _, err := s.store.tasks.FindByID(ctx, taskID); err != nil {
		return nil, notFound(err, fmt.Sprintf("task %d", taskID))
	}

	all, err := s.store.tasks.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	edges := make([]progress.Edge, 0, len(all))
	for _, t := range all {
		edges = append(edges, progress.Edge{ID: t.ID, ParentID: t.ParentID})
	}
	keep := map[uint]bool{taskID: true}
	for _, id := range progress.NewChildIndex(edges).Descendants(taskID) {
		keep[id] = true
	}

	subset := make([]model.Task, 0, len(keep))
	for _, t := range all {
		if keep[t.ID] {
			subset = append(subset, t)
		}
	}
	for _, root := range progress.BuildForest(subset) {
		if root.ID == taskID {
			return &root, nil
		}
	}
	return nil, fmt.Errorf("task %d: %w", taskID, ErrNotFound)
}

// ListChildren returns the direct subtasks of a task, oldest first.
func (s *TaskService) ListChildren(ctx context.Context, parentID uint) ([]model.Task, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	return s.store.tasks.ListChildren(ctx, parentID)
}

// UpdateTask applies a patch. An empty patch is a no-op.
func (s *TaskService) UpdateTask(ctx context.Context, taskID uint, patch TaskPatch) error {
	if patch.Empty() {
		return nil
	}
	cols, err := patch.columns()
	if err != nil {
		return err
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if _, err := s.store.tasks.FindByID(ctx, taskID); err != nil {
		return notFound(err, fmt.Sprintf("task %d", taskID))
	}
	return s.store.tasks.Update(ctx, taskID, cols)
}

// DeleteTask removes a task, its whole subtree and their day assignments.
// Deleting a missing task is a no-op.
func (s *TaskService) DeleteTask(ctx context.Context, taskID uint) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	ids, err := s.subtree(ctx, taskID)
	if err != nil || len(ids) == 0 {
		return err
	}

	days, err := s.store.assignments.DaysForTasks(ctx, ids)
	if err != nil {
		return err
	}
	if err := s.store.tasks.DeleteMany(ctx, ids); err != nil {
		return err
	}
	for _, d := range days {
		if _, err := s.store.refreshDay(ctx, d); err != nil {
			return err
		}
	}

	log.Printf("[info] task deleted id=%d removed=%d", taskID, len(ids))
	return nil
}

// ToggleCompletion flips a task's completion flag and returns the new state.
// Completing a task completes every descendant; uncompleting touches only the task itself.
func (s *TaskService) ToggleCompletion(ctx context.Context, taskID uint) (bool, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	task, err := s.store.tasks.FindByID(ctx, taskID)
	if err != nil {
		return false, notFound(err, fmt.Sprintf("task %d", taskID))
	}

	completed := !task.IsCompleted
	changed := []uint{taskID}
	if completed {
		if changed, err = s.subtree(ctx, taskID); err != nil {
			return false, err
		}
	}

	if err := s.store.tasks.SetCompleted(ctx, changed, completed); err != nil {
		return false, err
	}
	if err := s.store.refreshDaysOf(ctx, changed); err != nil {
		return false, err
	}

	log.Printf("[info] task toggled id=%d completed=%t affected=%d", taskID, completed, len(changed))
	return completed, nil
}

// CompleteSubtree marks a task and all of its descendants completed.
// An unknown task id is a no-op.
func (s *TaskService) CompleteSubtree(ctx context.Context, taskID uint) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	ids, err := s.subtree(ctx, taskID)
	if err != nil || len(ids) == 0 {
		return err
	}
	if err := s.store.tasks.SetCompleted(ctx, ids, true); err != nil {
		return err
	}
	return s.store.refreshDaysOf(ctx, ids)
}

// subtree returns taskID followed by its descendants, or nothing when the
// task does not exist. Caller holds the store lock.
func (s *TaskService) subtree(ctx context.Context, taskID uint) ([]uint, error) {
	edges, err := s.store.tasks.ListEdges(ctx)
	if err != nil {
		return nil, err
	}

	found := false
	for _, e := range edges {
		if e.ID == taskID {
			found = true
			break
		}
	}
	if !found {
		return nil, nil
	}

	return append([]uint{taskID}, progress.NewChildIndex(edges).Descendants(taskID)...), nil
}

func validateDate(value string) error {
	if _, err := time.Parse(progress.DateLayout, value); err != nil {
		return invalidf("date %q must look like 2025-11-30", value)
	}
	return nil
}

package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"focus-tracker/internal/model"
	"focus-tracker/internal/progress"
)

// TaskRepository handles CRUD for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, taskID uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).First(&task, taskID).Error; err != nil {
		return nil, fmt.Errorf("find task %d: %w", taskID, err)
	}
	return &task, nil
}

// ListAll returns every task ordered by creation.
func (r *TaskRepository) ListAll(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// ListChildren returns the direct children of parentID ordered by creation.
func (r *TaskRepository) ListChildren(ctx context.Context, parentID uint) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("parent_id = ?", parentID).
		Order("created_at ASC, id ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list children of %d: %w", parentID, err)
	}
	return tasks, nil
}

// ListEdges loads the id/parent pairs of all tasks in one query.
func (r *TaskRepository) ListEdges(ctx context.Context) ([]progress.Edge, error) {
	var edges []progress.Edge
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Select("id", "parent_id").
		Find(&edges).Error; err != nil {
		return nil, fmt.Errorf("list task edges: %w", err)
	}
	return edges, nil
}

// ListByDay returns the tasks assigned to a tracker day ordered by creation.
func (r *TaskRepository) ListByDay(ctx context.Context, dayNumber int) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Joins("JOIN task_assignments ON task_assignments.task_id = tasks.id").
		Where("task_assignments.day_number = ?", dayNumber).
		Order("tasks.created_at ASC, tasks.id ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks for day %d: %w", dayNumber, err)
	}
	return tasks, nil
}

// SetCompleted writes the completion flag of every task in ids.
func (r *TaskRepository) SetCompleted(ctx context.Context, ids []uint, completed bool) error {
	if len(ids) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id IN ?", ids).
		Update("is_completed", completed).Error; err != nil {
		return fmt.Errorf("set tasks completed=%t: %w", completed, err)
	}
	return nil
}

// Update writes the given columns of one task. Column names must be vetted by the caller.
func (r *TaskRepository) Update(ctx context.Context, taskID uint, columns map[string]interface{}) error {
	if len(columns) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ?", taskID).
		Updates(columns).Error; err != nil {
		return fmt.Errorf("update task %d: %w", taskID, err)
	}
	return nil
}

// DeleteMany removes tasks with their assignments and detaches their sessions.
func (r *TaskRepository) DeleteMany(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id IN ?", ids).Delete(&model.Assignment{}).Error; err != nil {
			return fmt.Errorf("delete assignments: %w", err)
		}
		if err := tx.Model(&model.Session{}).Where("task_id IN ?", ids).
			Update("task_id", nil).Error; err != nil {
			return fmt.Errorf("detach sessions: %w", err)
		}
		if err := tx.Where("id IN ?", ids).Delete(&model.Task{}).Error; err != nil {
			return fmt.Errorf("delete tasks: %w", err)
		}
		return nil
	})
}

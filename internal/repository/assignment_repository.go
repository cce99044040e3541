package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"focus-tracker/internal/model"
)

// AssignmentRepository links tasks to tracker days.
type AssignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) Exists(ctx context.Context, taskID uint, dayNumber int) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Assignment{}).
		Where("task_id = ? AND day_number = ?", taskID, dayNumber).
		Count(&n).Error; err != nil {
		return false, fmt.Errorf("check assignment: %w", err)
	}
	return n > 0, nil
}

func (r *AssignmentRepository) Create(ctx context.Context, a *model.Assignment) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

func (r *AssignmentRepository) CountByDay(ctx context.Context, dayNumber int) (int, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Assignment{}).
		Where("day_number = ?", dayNumber).
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count assignments for day %d: %w", dayNumber, err)
	}
	return int(n), nil
}

// CountCompletedByDay counts the assignments of a day whose task is completed.
func (r *AssignmentRepository) CountCompletedByDay(ctx context.Context, dayNumber int) (int, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Assignment{}).
		Joins("JOIN tasks ON tasks.id = task_assignments.task_id").
		Where("task_assignments.day_number = ? AND tasks.is_completed = ?", dayNumber, true).
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count completed for day %d: %w", dayNumber, err)
	}
	return int(n), nil
}

// DaysForTasks returns the distinct day numbers any of the tasks is assigned to.
func (r *AssignmentRepository) DaysForTasks(ctx context.Context, taskIDs []uint) ([]int, error) {
	if len(taskIDs) == 0 {
		return nil, nil
	}
	var days []int
	if err := r.db.WithContext(ctx).Model(&model.Assignment{}).
		Where("task_id IN ?", taskIDs).
		Distinct("day_number").
		Order("day_number ASC").
		Pluck("day_number", &days).Error; err != nil {
		return nil, fmt.Errorf("list days for tasks: %w", err)
	}
	return days, nil
}

package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"focus-tracker/internal/model"
)

// DayRepository manages the sixty tracker days.
type DayRepository struct {
	db *gorm.DB
}

func NewDayRepository(db *gorm.DB) *DayRepository {
	return &DayRepository{db: db}
}

func (r *DayRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.DayRecord{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count days: %w", err)
	}
	return n, nil
}

func (r *DayRepository) CreateBatch(ctx context.Context, days []model.DayRecord) error {
	if err := r.db.WithContext(ctx).Create(&days).Error; err != nil {
		return fmt.Errorf("create days: %w", err)
	}
	return nil
}

func (r *DayRepository) List(ctx context.Context) ([]model.DayRecord, error) {
	var days []model.DayRecord
	if err := r.db.WithContext(ctx).Order("day_number ASC").Find(&days).Error; err != nil {
		return nil, fmt.Errorf("list days: %w", err)
	}
	return days, nil
}

func (r *DayRepository) FindByNumber(ctx context.Context, dayNumber int) (*model.DayRecord, error) {
	var day model.DayRecord
	if err := r.db.WithContext(ctx).Where("day_number = ?", dayNumber).First(&day).Error; err != nil {
		return nil, fmt.Errorf("find day %d: %w", dayNumber, err)
	}
	return &day, nil
}

func (r *DayRepository) FindByDate(ctx context.Context, date string) (*model.DayRecord, error) {
	var day model.DayRecord
	if err := r.db.WithContext(ctx).Where("date = ?", date).First(&day).Error; err != nil {
		return nil, fmt.Errorf("find day on %s: %w", date, err)
	}
	return &day, nil
}

// UpdateStatus stores the recomputed counters and color of a day.
func (r *DayRepository) UpdateStatus(ctx context.Context, dayNumber, completed, total int, color model.Color) error {
	updates := map[string]interface{}{
		"tasks_completed":   completed,
		"tasks_total":       total,
		"completion_status": color,
	}
	if err := r.db.WithContext(ctx).Model(&model.DayRecord{}).
		Where("day_number = ?", dayNumber).
		Updates(updates).Error; err != nil {
		return fmt.Errorf("update day %d: %w", dayNumber, err)
	}
	return nil
}

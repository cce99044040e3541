package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"focus-tracker/internal/model"
)

// StatsRepository reads and writes the singleton stats row.
type StatsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) Get(ctx context.Context) (*model.Stats, error) {
	var stats model.Stats
	if err := r.db.WithContext(ctx).First(&stats, model.StatsID).Error; err != nil {
		return nil, fmt.Errorf("load stats: %w", err)
	}
	return &stats, nil
}

// Save overwrites every stats column, zero values included.
func (r *StatsRepository) Save(ctx context.Context, stats *model.Stats) error {
	stats.ID = model.StatsID
	if err := r.db.WithContext(ctx).Save(stats).Error; err != nil {
		return fmt.Errorf("save stats: %w", err)
	}
	return nil
}

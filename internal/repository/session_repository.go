package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"focus-tracker/internal/model"
)

// SessionRepository stores focus sessions.
type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session *model.Session) error {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (r *SessionRepository) FindByID(ctx context.Context, sessionID uint) (*model.Session, error) {
	var session model.Session
	if err := r.db.WithContext(ctx).First(&session, sessionID).Error; err != nil {
		return nil, fmt.Errorf("find session %d: %w", sessionID, err)
	}
	return &session, nil
}

// MarkCompleted closes a session. Already completed sessions are left untouched.
func (r *SessionRepository) MarkCompleted(ctx context.Context, session *model.Session, endedAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.Session{}).
		Where("id = ? AND completed = ?", session.ID, false).
		Updates(map[string]interface{}{"completed": true, "end_time": endedAt})
	if res.Error != nil {
		return fmt.Errorf("complete session %d: %w", session.ID, res.Error)
	}
	if res.RowsAffected > 0 {
		session.Completed = true
		session.EndTime = &endedAt
	}
	return nil
}

// ListSince returns sessions dated on or after since, most recent start first.
func (r *SessionRepository) ListSince(ctx context.Context, since string) ([]model.Session, error) {
	var sessions []model.Session
	if err := r.db.WithContext(ctx).Where("date >= ?", since).
		Order("start_time DESC, id DESC").
		Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// CompletedTotals returns the number of completed sessions and their summed minutes.
func (r *SessionRepository) CompletedTotals(ctx context.Context) (count, minutes int, err error) {
	var row struct {
		Count   int64
		Minutes int64
	}
	if err := r.db.WithContext(ctx).Model(&model.Session{}).
		Select("COUNT(*) AS count, COALESCE(SUM(duration_minutes), 0) AS minutes").
		Where("completed = ?", true).
		Scan(&row).Error; err != nil {
		return 0, 0, fmt.Errorf("sum completed sessions: %w", err)
	}
	return int(row.Count), int(row.Minutes), nil
}

// CompletedDates returns the distinct dates with a completed session, newest first.
func (r *SessionRepository) CompletedDates(ctx context.Context) ([]string, error) {
	var dates []string
	if err := r.db.WithContext(ctx).Model(&model.Session{}).
		Where("completed = ?", true).
		Distinct("date").
		Order("date DESC").
		Pluck("date", &dates).Error; err != nil {
		return nil, fmt.Errorf("list completed dates: %w", err)
	}
	return dates, nil
}

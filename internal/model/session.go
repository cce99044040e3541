package model

import "time"

// Session records one focus interval, optionally linked to a task.
type Session struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	TaskID          *uint      `gorm:"index" json:"task_id,omitempty"`
	StartTime       time.Time  `gorm:"not null" json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	DurationMinutes int        `gorm:"not null" json:"duration_minutes"`
	Completed       bool       `gorm:"default:false;index" json:"completed"`
	Date            string     `gorm:"not null;index" json:"date"`
}

func (Session) TableName() string {
	return "pomodoro_sessions"
}

// StatsID is the primary key of the single stats row.
const StatsID = 1

// Stats caches counters derived from completed sessions.
type Stats struct {
	ID                  uint    `gorm:"primaryKey" json:"id"`
	CurrentStreak       int     `gorm:"not null;default:0" json:"current_streak"`
	LongestStreak       int     `gorm:"not null;default:0" json:"longest_streak"`
	TotalTasksCompleted int     `gorm:"not null;default:0" json:"total_tasks_completed"`
	TotalStudyMinutes   int     `gorm:"not null;default:0" json:"total_study_minutes"`
	LastStudyDate       *string `json:"last_study_date,omitempty"`
}

func (Stats) TableName() string {
	return "user_stats"
}

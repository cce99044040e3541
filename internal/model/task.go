package model

import "time"

// Task represents a single item in the tracker. Tasks form a forest through ParentID.
type Task struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Title             string    `gorm:"not null" json:"title"`
	Description       *string   `json:"description,omitempty"`
	IsCompleted       bool      `gorm:"default:false" json:"is_completed"`
	ParentID          *uint     `gorm:"index" json:"parent_id,omitempty"`
	DueDate           *string   `json:"due_date,omitempty"` // YYYY-MM-DD
	IsRecurring       bool      `gorm:"default:false" json:"is_recurring"`
	RecurrencePattern *string   `json:"recurrence_pattern,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	Subtasks          []Task    `gorm:"-" json:"subtasks"`
}

func (Task) TableName() string {
	return "tasks"
}

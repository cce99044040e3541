package model

import "time"

// Subscriber stores a Telegram chat that receives scheduled summaries.
type Subscriber struct {
	ID         uint  `gorm:"primaryKey"`
	TelegramID int64 `gorm:"uniqueIndex"`
	FirstName  string
	LastName   string
	Username   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

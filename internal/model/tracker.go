package model

// Color is the completion status of a tracker day.
type Color string

const (
	ColorRed        Color = "red"
	ColorYellow     Color = "yellow"
	ColorLightGreen Color = "light_green"
	ColorDeepGreen  Color = "deep_green"
)

// TrackerDays is the fixed horizon of the day tracker.
const TrackerDays = 60

// Valid reports whether c is one of the four known colors.
func (c Color) Valid() bool {
	switch c {
	case ColorRed, ColorYellow, ColorLightGreen, ColorDeepGreen:
		return true
	}
	return false
}

// Emoji is used by chat and terminal surfaces.
func (c Color) Emoji() string {
	switch c {
	case ColorYellow:
		return "🟨"
	case ColorLightGreen:
		return "🟩"
	case ColorDeepGreen:
		return "✅"
	default:
		return "🟥"
	}
}

// DayRecord is one of the sixty calendar slots of the tracker.
type DayRecord struct {
	ID               uint   `gorm:"primaryKey" json:"id"`
	DayNumber        int    `gorm:"uniqueIndex;not null" json:"day_number"`
	Date             string `gorm:"not null" json:"date"`
	CompletionStatus Color  `gorm:"type:varchar(16);not null;default:red" json:"completion_status"`
	TasksCompleted   int    `gorm:"not null;default:0" json:"tasks_completed"`
	TasksTotal       int    `gorm:"not null;default:0" json:"tasks_total"`
}

func (DayRecord) TableName() string {
	return "day_tracker"
}

// Assignment links a task to a tracker day.
type Assignment struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	TaskID     uint   `gorm:"not null;index:idx_task_day,unique" json:"task_id"`
	DayNumber  int    `gorm:"not null;index:idx_task_day,unique" json:"day_number"`
	AssignedBy string `gorm:"not null;default:manual" json:"assigned_by"`
}

func (Assignment) TableName() string {
	return "task_assignments"
}

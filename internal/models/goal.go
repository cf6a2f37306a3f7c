package models

import (
	"time"

	"gorm.io/datatypes"
)

// SleepGoal is a per-user bedtime/wake target. Several goals may coexist for
// the same user, including overlapping weekday sets; the API returns all
// active goals and leaves the resolution policy to the client.
type SleepGoal struct {
	ID                  uint                     `gorm:"primaryKey" json:"id"`
	UserID              uint                     `gorm:"not null;index" json:"user_id"`
	TargetBedtime       string                   `gorm:"not null" json:"target_bedtime"`
	TargetWakeTime      string                   `gorm:"not null" json:"target_wake_time"`
	TargetDurationHours float64                  `gorm:"not null;default:8" json:"target_duration_hours"`
	DaysOfWeek          datatypes.JSONSlice[int] `json:"days_of_week"`
	IsActive            bool                     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt           time.Time                `json:"created_at"`
	UpdatedAt           time.Time                `json:"updated_at"`
}

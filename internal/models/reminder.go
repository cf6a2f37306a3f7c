package models

import "time"

const (
	ReminderKindBedtime = "bedtime"
	ReminderKindWake    = "wake"
	ReminderKindLog     = "log"
)

func IsValidReminderKind(kind string) bool {
	switch kind {
	case ReminderKindBedtime, ReminderKindWake, ReminderKindLog:
		return true
	default:
		return false
	}
}

type SleepReminder struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"not null;index" json:"user_id"`
	Kind   string `gorm:"not null" json:"kind"`

	// Wall-clock trigger in "15:04" form, matched at minute resolution.
	ReminderTime string `gorm:"not null" json:"reminder_time"`

	IsActive bool   `gorm:"not null;default:true" json:"is_active"`
	Message  string `json:"message"`

	// Written only by the reminder scheduler after a confirmed dispatch.
	LastSent *time.Time `json:"last_sent,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

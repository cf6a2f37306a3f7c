package models

import "time"

const (
	DefaultTargetSleepHours = 8.0
	DefaultTimezone         = "UTC"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}

// UserProfile holds per-user sleep preferences and the calendar credential.
// Exactly one row per user; created lazily on first profile access.
type UserProfile struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	UserID              uint       `gorm:"not null;uniqueIndex" json:"user_id"`
	TargetSleepHours    float64    `gorm:"not null;default:8" json:"target_sleep_hours"`
	Timezone            string     `gorm:"not null;default:UTC" json:"timezone"`
	NotificationEnabled bool       `gorm:"not null;default:true" json:"notification_enabled"`
	NotificationTime    *string    `json:"notification_time,omitempty"`
	CalendarEnabled     bool       `gorm:"not null;default:false" json:"calendar_enabled"`

	// Structured calendar credential. Tokens never leave the server.
	CalendarAccessToken  string     `json:"-"`
	CalendarRefreshToken string     `json:"-"`
	CalendarTokenExpiry  *time.Time `json:"-"`
	CalendarScope        string     `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (profile *UserProfile) HasCalendarCredential() bool {
	return profile.CalendarRefreshToken != ""
}

package models

import (
	"math"
	"time"

	"gorm.io/gorm"
)

type SleepSession struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        uint       `gorm:"not null;index:idx_session_user_sleep" json:"user_id"`
	SleepTime     time.Time  `gorm:"not null;index:idx_session_user_sleep" json:"sleep_time"`
	WakeTime      time.Time  `gorm:"not null" json:"wake_time"`
	QualityRating *int       `json:"quality_rating,omitempty"`
	Notes         string     `json:"notes"`

	// Derived from the timestamp pair on every save, never set independently.
	DurationHours float64 `gorm:"not null;default:0" json:"duration_hours"`

	SyncedToCalendar bool    `gorm:"not null;default:false" json:"synced_to_calendar"`
	CalendarEventID  *string `json:"calendar_event_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (session *SleepSession) BeforeSave(tx *gorm.DB) error {
	if !session.SleepTime.IsZero() && !session.WakeTime.IsZero() {
		session.DurationHours = DurationHoursBetween(session.SleepTime, session.WakeTime)
	}
	return nil
}

// DurationHoursBetween returns the elapsed hours between two instants,
// rounded to two decimal places. The result is negative when wake precedes
// sleep; callers that cannot accept that must validate ordering first.
func DurationHoursBetween(sleep time.Time, wake time.Time) float64 {
	hours := wake.Sub(sleep).Seconds() / 3600
	return math.Round(hours*100) / 100
}

func QualityLabel(rating int) string {
	switch rating {
	case 1:
		return "Very Poor"
	case 2:
		return "Poor"
	case 3:
		return "Fair"
	case 4:
		return "Good"
	case 5:
		return "Excellent"
	default:
		return "Not rated"
	}
}

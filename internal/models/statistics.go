package models

import "time"

const (
	PeriodDaily  = "daily"
	PeriodWeekly = "weekly"

	// Accepted in stored rows and read filters; the aggregator never
	// produces monthly summaries.
	PeriodMonthly = "monthly"
)

func IsValidPeriodKind(kind string) bool {
	switch kind {
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
		return true
	default:
		return false
	}
}

// SleepStatistics is a derived summary row. At most one row exists per
// (user, date, period kind); the triple is a unique index in the schema and
// the aggregator only ever upserts against it.
type SleepStatistics struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:uidx_stats_owner_period" json:"user_id"`
	Date       time.Time `gorm:"type:date;not null;uniqueIndex:uidx_stats_owner_period" json:"date"`
	PeriodKind string    `gorm:"not null;uniqueIndex:uidx_stats_owner_period" json:"period_kind"`

	TotalSleepHours   float64  `gorm:"not null;default:0" json:"total_sleep_hours"`
	AverageSleepHours float64  `gorm:"not null;default:0" json:"average_sleep_hours"`
	AverageQuality    *float64 `json:"average_quality,omitempty"`
	SessionsCount     int      `gorm:"not null;default:0" json:"sessions_count"`

	GoalAchievementRate *float64 `json:"goal_achievement_rate,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

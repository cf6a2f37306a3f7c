package api

import "time"

type registerInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"max=120"`
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type profileInput struct {
	TargetSleepHours    *float64 `json:"target_sleep_hours" validate:"omitempty,gte=1,lte=24"`
	Timezone            *string  `json:"timezone"`
	NotificationEnabled *bool    `json:"notification_enabled"`
	NotificationTime    *string  `json:"notification_time" validate:"omitempty,datetime=15:04"`
	CalendarEnabled     *bool    `json:"calendar_enabled"`
}

type connectCalendarInput struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
	ExpiresIn    int    `json:"expires_in" validate:"omitempty,gte=0"`
	Scope        string `json:"scope"`
}

type sessionInput struct {
	SleepTime     time.Time `json:"sleep_time" validate:"required"`
	WakeTime      time.Time `json:"wake_time" validate:"required"`
	QualityRating *int      `json:"quality_rating" validate:"omitempty,gte=1,lte=5"`
	Notes         string    `json:"notes"`
}

type goalInput struct {
	TargetBedtime       string  `json:"target_bedtime" validate:"required,datetime=15:04"`
	TargetWakeTime      string  `json:"target_wake_time" validate:"required,datetime=15:04"`
	TargetDurationHours float64 `json:"target_duration_hours" validate:"required,gte=1,lte=24"`
	DaysOfWeek          []int   `json:"days_of_week" validate:"dive,gte=0,lte=6"`
	IsActive            *bool   `json:"is_active"`
}

type reminderInput struct {
	Kind         string `json:"kind" validate:"required,oneof=bedtime wake log"`
	ReminderTime string `json:"reminder_time" validate:"required,datetime=15:04"`
	IsActive     *bool  `json:"is_active"`
	Message      string `json:"message" validate:"max=500"`
}

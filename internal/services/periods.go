package services

import (
	"math"
	"time"
)

func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

// DayWindow returns the half-open [start, end) range covering the calendar
// day that contains value.
func DayWindow(value time.Time, location *time.Location) (time.Time, time.Time) {
	start := DateAtLocation(value, location)
	return start, start.AddDate(0, 0, 1)
}

func Yesterday(now time.Time, location *time.Location) time.Time {
	return DateAtLocation(now, location).AddDate(0, 0, -1)
}

// mondayOffset maps time.Weekday onto a Monday-zero index.
func mondayOffset(day time.Weekday) int {
	return (int(day) + 6) % 7
}

// WeekStart returns the Monday of the ISO week containing now.
func WeekStart(now time.Time, location *time.Location) time.Time {
	today := DateAtLocation(now, location)
	return today.AddDate(0, 0, -mondayOffset(today.Weekday()))
}

// WeekWindow returns the half-open [Monday, next Monday) range for the ISO
// week containing now.
func WeekWindow(now time.Time, location *time.Location) (time.Time, time.Time) {
	start := WeekStart(now, location)
	return start, start.AddDate(0, 0, 7)
}

// PreviousWeekStart returns the Monday of the previous calendar week,
// today minus (weekday + 7) days with Monday counted as zero.
func PreviousWeekStart(now time.Time, location *time.Location) time.Time {
	today := DateAtLocation(now, location)
	return today.AddDate(0, 0, -(mondayOffset(today.Weekday()) + 7))
}

// ClockMinute renders the wall-clock minute used to match reminder triggers.
func ClockMinute(now time.Time, location *time.Location) string {
	if location == nil {
		location = time.UTC
	}
	return now.In(location).Format("15:04")
}

func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}

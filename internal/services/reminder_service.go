package services

import (
	"context"
	"fmt"
	"time"

	"ambidream/internal/models"
	"go.uber.org/zap"
)

type ReminderSource interface {
	ListActiveByKindAndTime(kind string, clock string) ([]models.SleepReminder, error)
	MarkSent(reminderID uint, sentAt time.Time) error
}

type ProfileSource interface {
	FindByUserID(userID uint) (models.UserProfile, bool, error)
}

type RecipientSource interface {
	FindByID(userID uint) (models.User, error)
}

type SessionExistenceSource interface {
	ExistsForUserBetween(userID uint, windowStart time.Time, windowEnd time.Time) (bool, error)
}

// NotificationSender is the outbound messaging contract. Implementations
// return the number of messages delivered, zero on failure.
type NotificationSender interface {
	SendBedtimeReminder(ctx context.Context, recipient models.User, clock string, message string) (int, error)
	SendWakeReminder(ctx context.Context, recipient models.User, clock string, message string) (int, error)
	SendLogReminder(ctx context.Context, recipient models.User, message string) (int, error)
	SendWeeklyReport(ctx context.Context, recipient models.User, report WeeklyReport) (int, error)
}

// ReminderService dispatches the reminders due at the current wall-clock
// minute. A reminder's last_sent moves only after a confirmed delivery;
// a failed dispatch leaves it untouched so the next qualifying tick picks
// the reminder up again. There is no in-process retry loop.
type ReminderService struct {
	reminders ReminderSource
	profiles  ProfileSource
	users     RecipientSource
	sessions  SessionExistenceSource
	sender    NotificationSender
	location  *time.Location
	logger    *zap.SugaredLogger
}

func NewReminderService(
	reminders ReminderSource,
	profiles ProfileSource,
	users RecipientSource,
	sessions SessionExistenceSource,
	sender NotificationSender,
	location *time.Location,
	logger *zap.SugaredLogger,
) *ReminderService {
	if location == nil {
		location = time.UTC
	}
	return &ReminderService{
		reminders: reminders,
		profiles:  profiles,
		users:     users,
		sessions:  sessions,
		sender:    sender,
		location:  location,
		logger:    logger,
	}
}

func (service *ReminderService) SendBedtimeReminders(ctx context.Context, now time.Time) TaskResult {
	return service.dispatchDue(ctx, models.ReminderKindBedtime, now)
}

func (service *ReminderService) SendWakeReminders(ctx context.Context, now time.Time) TaskResult {
	return service.dispatchDue(ctx, models.ReminderKindWake, now)
}

func (service *ReminderService) SendLogReminders(ctx context.Context, now time.Time) TaskResult {
	return service.dispatchDue(ctx, models.ReminderKindLog, now)
}

func (service *ReminderService) dispatchDue(ctx context.Context, kind string, now time.Time) TaskResult {
	clock := ClockMinute(now, service.location)
	due, err := service.reminders.ListActiveByKindAndTime(kind, clock)
	if err != nil {
		service.logger.Errorw("reminders: list due failed", "kind", kind, "error", err)
		return taskFailed(fmt.Sprintf("failed to list due %s reminders", kind), err)
	}

	sent := 0
	for _, reminder := range due {
		dispatched, err := service.dispatchOne(ctx, reminder, kind, clock, now)
		if err != nil {
			service.logger.Warnw("reminders: dispatch failed", "kind", kind, "reminder", reminder.ID, "error", err)
			continue
		}
		if dispatched {
			sent++
		}
	}

	return taskOK(fmt.Sprintf("sent %d %s reminders", sent, kind), sent)
}

// dispatchOne returns true only when the message was delivered and last_sent
// recorded. Each reminder is independent; one failure never blocks the rest
// of the tick.
func (service *ReminderService) dispatchOne(ctx context.Context, reminder models.SleepReminder, kind string, clock string, now time.Time) (bool, error) {
	profile, found, err := service.profiles.FindByUserID(reminder.UserID)
	if err != nil {
		return false, err
	}
	if !found || !profile.NotificationEnabled {
		return false, nil
	}

	if kind == models.ReminderKindLog {
		due, err := service.logReminderStillDue(reminder.UserID, now)
		if err != nil {
			return false, err
		}
		if !due {
			return false, nil
		}
	}

	recipient, err := service.users.FindByID(reminder.UserID)
	if err != nil {
		return false, err
	}

	var delivered int
	switch kind {
	case models.ReminderKindBedtime:
		delivered, err = service.sender.SendBedtimeReminder(ctx, recipient, clock, reminder.Message)
	case models.ReminderKindWake:
		delivered, err = service.sender.SendWakeReminder(ctx, recipient, clock, reminder.Message)
	case models.ReminderKindLog:
		delivered, err = service.sender.SendLogReminder(ctx, recipient, reminder.Message)
	default:
		return false, fmt.Errorf("unknown reminder kind %q", kind)
	}
	if err != nil {
		return false, err
	}
	if delivered == 0 {
		return false, nil
	}

	if err := service.reminders.MarkSent(reminder.ID, now); err != nil {
		// Delivery happened; the stale last_sent only means the reminder
		// stays a re-send candidate, which is the safe direction.
		service.logger.Warnw("reminders: mark sent failed", "reminder", reminder.ID, "error", err)
	}
	return true, nil
}

// logReminderStillDue suppresses the log-your-sleep nudge when the user has
// already logged a session for the previous calendar date.
func (service *ReminderService) logReminderStillDue(userID uint, now time.Time) (bool, error) {
	windowStart, windowEnd := DayWindow(Yesterday(now, service.location), service.location)
	alreadyLogged, err := service.sessions.ExistsForUserBetween(userID, windowStart, windowEnd)
	if err != nil {
		return false, err
	}
	return !alreadyLogged, nil
}

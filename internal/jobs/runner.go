package jobs

import (
	"context"
	"time"

	"ambidream/internal/services"
	"go.uber.org/zap"
)

const syncTimeout = 30 * time.Second

type Options struct {
	Location         *time.Location
	DailyStatsHour   int
	WeeklyReportHour int
	SyncQueueSize    int
}

// Runner is the periodic trigger for the background tasks: a minute ticker
// drives the reminder scheduler and, at the configured hours, the statistics
// aggregation and weekly reports. A separate worker drains the calendar sync
// queue so API requests never wait on remote calls. Every task is idempotent,
// so a missed or repeated tick is harmless.
type Runner struct {
	reminders *services.ReminderService
	stats     *services.StatsService
	reports   *services.ReportService
	sync      *services.CalendarSyncService
	location  *time.Location
	logger    *zap.SugaredLogger

	dailyStatsHour   int
	weeklyReportHour int
	syncQueue        chan syncJob
}

// syncJob is either a session sync (sessionID set) or the removal of an
// orphaned remote event (userID + eventID set).
type syncJob struct {
	sessionID uint
	userID    uint
	eventID   string
}

func NewRunner(
	reminders *services.ReminderService,
	stats *services.StatsService,
	reports *services.ReportService,
	sync *services.CalendarSyncService,
	logger *zap.SugaredLogger,
	options Options,
) *Runner {
	location := options.Location
	if location == nil {
		location = time.UTC
	}
	queueSize := options.SyncQueueSize
	if queueSize <= 0 {
		queueSize = 64
	}

	return &Runner{
		reminders:        reminders,
		stats:            stats,
		reports:          reports,
		sync:             sync,
		location:         location,
		logger:           logger,
		dailyStatsHour:   options.DailyStatsHour,
		weeklyReportHour: options.WeeklyReportHour,
		syncQueue:        make(chan syncJob, queueSize),
	}
}

func (runner *Runner) Start(ctx context.Context) {
	go runner.tickLoop(ctx)
	go runner.syncLoop(ctx)
}

// EnqueueSync hands a session to the calendar sync worker. A full queue
// drops the request; the session stays unsynced and a later save or manual
// sync re-queues it.
func (runner *Runner) EnqueueSync(sessionID uint) {
	select {
	case runner.syncQueue <- syncJob{sessionID: sessionID}:
	default:
		runner.logger.Warnw("jobs: sync queue full, dropping", "session", sessionID)
	}
}

// EnqueueEventRemoval queues deletion of the remote event of an already
// deleted session. Dropping on a full queue leaves a stray event behind,
// which the owner can remove by hand.
func (runner *Runner) EnqueueEventRemoval(userID uint, eventID string) {
	select {
	case runner.syncQueue <- syncJob{userID: userID, eventID: eventID}:
	default:
		runner.logger.Warnw("jobs: sync queue full, dropping removal", "user", userID, "event", eventID)
	}
}

func (runner *Runner) tickLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case tick := <-ticker.C:
			runner.runTick(ctx, tick.In(runner.location))
		}
	}
}

func (runner *Runner) runTick(ctx context.Context, now time.Time) {
	runner.report("send_bedtime_reminders", runner.reminders.SendBedtimeReminders(ctx, now))
	runner.report("send_wake_reminders", runner.reminders.SendWakeReminders(ctx, now))
	runner.report("send_log_reminders", runner.reminders.SendLogReminders(ctx, now))

	if now.Minute() == 0 && now.Hour() == runner.dailyStatsHour {
		runner.report("calculate_daily_statistics", runner.stats.CalculateDaily(now))
		runner.report("calculate_weekly_statistics", runner.stats.CalculateWeekly(now))
	}

	if now.Weekday() == time.Monday && now.Minute() == 0 && now.Hour() == runner.weeklyReportHour {
		runner.report("send_weekly_reports", runner.reports.SendWeeklyReports(ctx, now))
	}
}

func (runner *Runner) syncLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-runner.syncQueue:
			taskCtx, cancel := context.WithTimeout(ctx, syncTimeout)
			if job.eventID != "" {
				runner.report("remove_calendar_event", runner.sync.RemoveEvent(taskCtx, job.userID, job.eventID))
			} else {
				runner.report("sync_sleep_to_calendar", runner.sync.SyncSession(taskCtx, job.sessionID))
			}
			cancel()
		}
	}
}

// report writes the task outcome to the operational log; nothing surfaces
// to end users from the background layer.
func (runner *Runner) report(task string, result services.TaskResult) {
	if result.Err != nil {
		runner.logger.Warnw("task finished with failure", "task", task, "status", result.Status, "error", result.Err)
		return
	}
	if result.Processed > 0 {
		runner.logger.Infow("task finished", "task", task, "status", result.Status)
	}
}

package services

import (
	"fmt"
	"time"

	"ambidream/internal/models"
	"go.uber.org/zap"
)

type StatsSessionSource interface {
	OwnerIDsWithSessionsBetween(windowStart time.Time, windowEnd time.Time) ([]uint, error)
	ListByUserWindow(userID uint, windowStart time.Time, windowEnd time.Time) ([]models.SleepSession, error)
}

type StatisticsStore interface {
	Upsert(stat *models.SleepStatistics) error
}

// StatsService derives per-user summary rows from raw sessions. Runs are
// pure upserts from the source-of-truth session rows, so a failed run is
// recovered by the next scheduled tick rather than retried in process.
type StatsService struct {
	sessions   StatsSessionSource
	statistics StatisticsStore
	location   *time.Location
	logger     *zap.SugaredLogger
}

func NewStatsService(sessions StatsSessionSource, statistics StatisticsStore, location *time.Location, logger *zap.SugaredLogger) *StatsService {
	if location == nil {
		location = time.UTC
	}
	return &StatsService{
		sessions:   sessions,
		statistics: statistics,
		location:   location,
		logger:     logger,
	}
}

// CalculateDaily summarizes yesterday's sessions for every user who logged
// at least one.
func (service *StatsService) CalculateDaily(now time.Time) TaskResult {
	anchor := Yesterday(now, service.location)
	windowStart, windowEnd := DayWindow(anchor, service.location)
	return service.aggregateWindow(models.PeriodDaily, anchor, windowStart, windowEnd)
}

// CalculateWeekly summarizes the current ISO week, anchored on its Monday.
func (service *StatsService) CalculateWeekly(now time.Time) TaskResult {
	windowStart, windowEnd := WeekWindow(now, service.location)
	return service.aggregateWindow(models.PeriodWeekly, windowStart, windowStart, windowEnd)
}

func (service *StatsService) aggregateWindow(periodKind string, anchor time.Time, windowStart time.Time, windowEnd time.Time) TaskResult {
	ownerIDs, err := service.sessions.OwnerIDsWithSessionsBetween(windowStart, windowEnd)
	if err != nil {
		service.logger.Errorw("statistics: list owners failed", "period", periodKind, "error", err)
		return taskFailed(fmt.Sprintf("failed to list owners for %s statistics", periodKind), err)
	}

	updated := 0
	for _, ownerID := range ownerIDs {
		sessions, err := service.sessions.ListByUserWindow(ownerID, windowStart, windowEnd)
		if err != nil {
			service.logger.Errorw("statistics: fetch sessions failed", "user", ownerID, "period", periodKind, "error", err)
			continue
		}
		if len(sessions) == 0 {
			continue
		}

		summary := SummarizeSessions(sessions)
		stat := models.SleepStatistics{
			UserID:            ownerID,
			Date:              anchor,
			PeriodKind:        periodKind,
			TotalSleepHours:   summary.TotalHours,
			AverageSleepHours: summary.AverageHours,
			AverageQuality:    summary.AverageQuality,
			SessionsCount:     summary.SessionsCount,
		}
		if err := service.statistics.Upsert(&stat); err != nil {
			service.logger.Errorw("statistics: upsert failed", "user", ownerID, "period", periodKind, "error", err)
			continue
		}
		updated++
	}

	return taskOK(fmt.Sprintf("created/updated %d %s statistics", updated, periodKind), updated)
}

type SessionSummary struct {
	TotalHours     float64
	AverageHours   float64
	AverageQuality *float64
	SessionsCount  int
}

// SummarizeSessions folds a non-empty session selection into one summary.
// Sessions without a quality rating are excluded from the quality mean; when
// none carry a rating the mean stays absent.
func SummarizeSessions(sessions []models.SleepSession) SessionSummary {
	if len(sessions) == 0 {
		return SessionSummary{}
	}

	totalHours := 0.0
	qualitySum := 0
	qualityCount := 0
	for _, session := range sessions {
		totalHours += session.DurationHours
		if session.QualityRating != nil {
			qualitySum += *session.QualityRating
			qualityCount++
		}
	}

	summary := SessionSummary{
		TotalHours:    Round2(totalHours),
		AverageHours:  Round2(totalHours / float64(len(sessions))),
		SessionsCount: len(sessions),
	}
	if qualityCount > 0 {
		mean := Round2(float64(qualitySum) / float64(qualityCount))
		summary.AverageQuality = &mean
	}
	return summary
}

package services

import (
	"context"
	"fmt"
	"time"

	"ambidream/internal/models"
	"go.uber.org/zap"
)

type StatisticsAnchorSource interface {
	ListByAnchor(anchor time.Time, periodKind string) ([]models.SleepStatistics, error)
}

type RecipientBatchSource interface {
	FindByIDs(userIDs []uint) ([]models.User, error)
}

// WeeklyReport is the payload handed to the notification sender for the
// weekly digest.
type WeeklyReport struct {
	AverageHours    float64
	SessionsCount   int
	AverageQuality  float64
	GoalAchievement float64
}

// ReportService mails each user their summary row for the previous calendar
// week. It only reads rows the aggregator already upserted; running it before
// the weekly aggregation simply finds nothing to send.
type ReportService struct {
	statistics StatisticsAnchorSource
	profiles   ProfileSource
	users      RecipientBatchSource
	sender     NotificationSender
	location   *time.Location
	logger     *zap.SugaredLogger
}

func NewReportService(
	statistics StatisticsAnchorSource,
	profiles ProfileSource,
	users RecipientBatchSource,
	sender NotificationSender,
	location *time.Location,
	logger *zap.SugaredLogger,
) *ReportService {
	if location == nil {
		location = time.UTC
	}
	return &ReportService{
		statistics: statistics,
		profiles:   profiles,
		users:      users,
		sender:     sender,
		location:   location,
		logger:     logger,
	}
}

func (service *ReportService) SendWeeklyReports(ctx context.Context, now time.Time) TaskResult {
	anchor := PreviousWeekStart(now, service.location)
	rows, err := service.statistics.ListByAnchor(anchor, models.PeriodWeekly)
	if err != nil {
		service.logger.Errorw("reports: list weekly rows failed", "anchor", anchor, "error", err)
		return taskFailed("failed to list weekly statistics", err)
	}

	recipients, err := service.loadRecipients(rows)
	if err != nil {
		service.logger.Errorw("reports: load recipients failed", "anchor", anchor, "error", err)
		return taskFailed("failed to load report recipients", err)
	}

	sent := 0
	for _, row := range rows {
		recipient, ok := recipients[row.UserID]
		if !ok {
			continue
		}
		delivered, err := service.sendOne(ctx, recipient, row)
		if err != nil {
			service.logger.Warnw("reports: send failed", "user", row.UserID, "error", err)
			continue
		}
		if delivered {
			sent++
		}
	}

	return taskOK(fmt.Sprintf("sent %d weekly reports", sent), sent)
}

func (service *ReportService) loadRecipients(rows []models.SleepStatistics) (map[uint]models.User, error) {
	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.UserID)
	}
	users, err := service.users.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	recipients := make(map[uint]models.User, len(users))
	for _, user := range users {
		recipients[user.ID] = user
	}
	return recipients, nil
}

func (service *ReportService) sendOne(ctx context.Context, recipient models.User, row models.SleepStatistics) (bool, error) {
	profile, found, err := service.profiles.FindByUserID(row.UserID)
	if err != nil {
		return false, err
	}
	if !found || !profile.NotificationEnabled {
		return false, nil
	}

	report := WeeklyReport{
		AverageHours:  row.AverageSleepHours,
		SessionsCount: row.SessionsCount,
	}
	if row.AverageQuality != nil {
		report.AverageQuality = *row.AverageQuality
	}
	if row.GoalAchievementRate != nil {
		report.GoalAchievement = *row.GoalAchievementRate
	}

	delivered, err := service.sender.SendWeeklyReport(ctx, recipient, report)
	if err != nil {
		return false, err
	}
	return delivered > 0, nil
}

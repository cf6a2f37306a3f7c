package db

import (
	"time"

	"ambidream/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StatisticsRepository struct {
	database *gorm.DB
}

func NewStatisticsRepository(database *gorm.DB) *StatisticsRepository {
	return &StatisticsRepository{database: database}
}

// Upsert inserts the summary row or, when one already exists for the same
// (user, date, period kind), overwrites its metrics in place. Conflict
// resolution rides on uidx_stats_owner_period, so two concurrent runs can
// never produce a duplicate row.
func (repo *StatisticsRepository) Upsert(stat *models.SleepStatistics) error {
	return repo.database.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}, {Name: "period_kind"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_sleep_hours",
			"average_sleep_hours",
			"average_quality",
			"sessions_count",
			"updated_at",
		}),
	}).Create(stat).Error
}

func (repo *StatisticsRepository) ListByUser(userID uint, periodKind string) ([]models.SleepStatistics, error) {
	query := repo.database.Model(&models.SleepStatistics{}).Where("user_id = ?", userID)
	if periodKind != "" {
		query = query.Where("period_kind = ?", periodKind)
	}

	stats := make([]models.SleepStatistics, 0)
	if err := query.Order("date DESC, id DESC").Find(&stats).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

// ListByAnchor returns every user's summary row for one anchor date and
// period kind, e.g. all weekly rows for last week's Monday.
func (repo *StatisticsRepository) ListByAnchor(anchor time.Time, periodKind string) ([]models.SleepStatistics, error) {
	stats := make([]models.SleepStatistics, 0)
	if err := repo.database.
		Where("date = ? AND period_kind = ?", anchor, periodKind).
		Order("user_id ASC").
		Find(&stats).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

func (repo *StatisticsRepository) CountForKey(userID uint, anchor time.Time, periodKind string) (int64, error) {
	var count int64
	if err := repo.database.Model(&models.SleepStatistics{}).
		Where("user_id = ? AND date = ? AND period_kind = ?", userID, anchor, periodKind).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

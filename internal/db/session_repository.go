package db

import (
	"time"

	"ambidream/internal/models"
	"gorm.io/gorm"
)

type SessionRepository struct {
	database *gorm.DB
}

func NewSessionRepository(database *gorm.DB) *SessionRepository {
	return &SessionRepository{database: database}
}

func (repo *SessionRepository) FindByID(sessionID uint) (models.SleepSession, bool, error) {
	session := models.SleepSession{}
	result := repo.database.Limit(1).Find(&session, sessionID)
	if result.Error != nil {
		return models.SleepSession{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.SleepSession{}, false, nil
	}
	return session, true, nil
}

func (repo *SessionRepository) FindByIDForUser(sessionID uint, userID uint) (models.SleepSession, bool, error) {
	session := models.SleepSession{}
	result := repo.database.
		Where("id = ? AND user_id = ?", sessionID, userID).
		Limit(1).
		Find(&session)
	if result.Error != nil {
		return models.SleepSession{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.SleepSession{}, false, nil
	}
	return session, true, nil
}

func (repo *SessionRepository) ListByUserRange(userID uint, fromStart *time.Time, toEnd *time.Time) ([]models.SleepSession, error) {
	query := repo.database.Model(&models.SleepSession{}).Where("user_id = ?", userID)
	if fromStart != nil {
		query = query.Where("sleep_time >= ?", *fromStart)
	}
	if toEnd != nil {
		query = query.Where("sleep_time < ?", *toEnd)
	}

	sessions := make([]models.SleepSession, 0)
	if err := query.Order("sleep_time DESC, id DESC").Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListByUserWindow returns the sessions whose sleep start falls inside
// [windowStart, windowEnd).
func (repo *SessionRepository) ListByUserWindow(userID uint, windowStart time.Time, windowEnd time.Time) ([]models.SleepSession, error) {
	sessions := make([]models.SleepSession, 0)
	if err := repo.database.
		Where("user_id = ? AND sleep_time >= ? AND sleep_time < ?", userID, windowStart, windowEnd).
		Order("sleep_time ASC, id ASC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// OwnerIDsWithSessionsBetween returns the distinct users owning at least one
// session whose sleep start falls inside [windowStart, windowEnd).
func (repo *SessionRepository) OwnerIDsWithSessionsBetween(windowStart time.Time, windowEnd time.Time) ([]uint, error) {
	ownerIDs := make([]uint, 0)
	if err := repo.database.Model(&models.SleepSession{}).
		Where("sleep_time >= ? AND sleep_time < ?", windowStart, windowEnd).
		Distinct("user_id").
		Order("user_id ASC").
		Pluck("user_id", &ownerIDs).Error; err != nil {
		return nil, err
	}
	return ownerIDs, nil
}

func (repo *SessionRepository) ExistsForUserBetween(userID uint, windowStart time.Time, windowEnd time.Time) (bool, error) {
	var matched int64
	if err := repo.database.Model(&models.SleepSession{}).
		Where("user_id = ? AND sleep_time >= ? AND sleep_time < ?", userID, windowStart, windowEnd).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *SessionRepository) Create(session *models.SleepSession) error {
	return repo.database.Create(session).Error
}

func (repo *SessionRepository) Save(session *models.SleepSession) error {
	return repo.database.Save(session).Error
}

// SaveCalendarLink persists only the calendar mapping columns. BeforeSave
// still recomputes the duration, which is harmless since the timestamps are
// untouched.
func (repo *SessionRepository) SaveCalendarLink(session *models.SleepSession) error {
	return repo.database.Model(session).
		Select("synced_to_calendar", "calendar_event_id").
		Updates(session).Error
}

func (repo *SessionRepository) DeleteByIDForUser(sessionID uint, userID uint) error {
	return repo.database.Where("id = ? AND user_id = ?", sessionID, userID).Delete(&models.SleepSession{}).Error
}

package db

import (
	"time"

	"ambidream/internal/models"
	"gorm.io/gorm"
)

type ReminderRepository struct {
	database *gorm.DB
}

func NewReminderRepository(database *gorm.DB) *ReminderRepository {
	return &ReminderRepository{database: database}
}

func (repo *ReminderRepository) ListByUser(userID uint) ([]models.SleepReminder, error) {
	reminders := make([]models.SleepReminder, 0)
	if err := repo.database.Where("user_id = ?", userID).Order("id ASC").Find(&reminders).Error; err != nil {
		return nil, err
	}
	return reminders, nil
}

func (repo *ReminderRepository) ListActiveByUser(userID uint) ([]models.SleepReminder, error) {
	reminders := make([]models.SleepReminder, 0)
	if err := repo.database.
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("id ASC").
		Find(&reminders).Error; err != nil {
		return nil, err
	}
	return reminders, nil
}

// ListActiveByKindAndTime selects the reminders of one kind due at the given
// wall-clock minute ("15:04" form).
func (repo *ReminderRepository) ListActiveByKindAndTime(kind string, clock string) ([]models.SleepReminder, error) {
	reminders := make([]models.SleepReminder, 0)
	if err := repo.database.
		Where("kind = ? AND is_active = ? AND reminder_time = ?", kind, true, clock).
		Order("id ASC").
		Find(&reminders).Error; err != nil {
		return nil, err
	}
	return reminders, nil
}

func (repo *ReminderRepository) FindByIDForUser(reminderID uint, userID uint) (models.SleepReminder, bool, error) {
	reminder := models.SleepReminder{}
	result := repo.database.
		Where("id = ? AND user_id = ?", reminderID, userID).
		Limit(1).
		Find(&reminder)
	if result.Error != nil {
		return models.SleepReminder{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.SleepReminder{}, false, nil
	}
	return reminder, true, nil
}

func (repo *ReminderRepository) Create(reminder *models.SleepReminder) error {
	return repo.database.Create(reminder).Error
}

func (repo *ReminderRepository) Save(reminder *models.SleepReminder) error {
	return repo.database.Save(reminder).Error
}

// MarkSent records a confirmed dispatch. Only the scheduler calls this.
func (repo *ReminderRepository) MarkSent(reminderID uint, sentAt time.Time) error {
	return repo.database.Model(&models.SleepReminder{}).
		Where("id = ?", reminderID).
		Update("last_sent", sentAt).Error
}

func (repo *ReminderRepository) DeleteByIDForUser(reminderID uint, userID uint) error {
	return repo.database.Where("id = ? AND user_id = ?", reminderID, userID).Delete(&models.SleepReminder{}).Error
}

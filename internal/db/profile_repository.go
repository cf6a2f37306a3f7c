package db

import (
	"errors"

	"ambidream/internal/models"
	"gorm.io/gorm"
)

type ProfileRepository struct {
	database *gorm.DB
}

func NewProfileRepository(database *gorm.DB) *ProfileRepository {
	return &ProfileRepository{database: database}
}

// FindOrCreateByUserID returns the profile for a user, creating a default
// row on first access.
func (repo *ProfileRepository) FindOrCreateByUserID(userID uint) (models.UserProfile, error) {
	var profile models.UserProfile
	err := repo.database.Where("user_id = ?", userID).First(&profile).Error
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.UserProfile{}, err
	}

	profile = models.UserProfile{
		UserID:              userID,
		TargetSleepHours:    models.DefaultTargetSleepHours,
		Timezone:            models.DefaultTimezone,
		NotificationEnabled: true,
	}
	if err := repo.database.Create(&profile).Error; err != nil {
		return models.UserProfile{}, err
	}
	return profile, nil
}

func (repo *ProfileRepository) FindByUserID(userID uint) (models.UserProfile, bool, error) {
	var profile models.UserProfile
	err := repo.database.Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.UserProfile{}, false, nil
	}
	if err != nil {
		return models.UserProfile{}, false, err
	}
	return profile, true, nil
}

func (repo *ProfileRepository) Save(profile *models.UserProfile) error {
	return repo.database.Save(profile).Error
}

// SaveCredential persists only the calendar credential columns so a
// concurrent preference update cannot be clobbered by a token refresh.
func (repo *ProfileRepository) SaveCredential(profile *models.UserProfile) error {
	return repo.database.Model(profile).
		Select("calendar_access_token", "calendar_refresh_token", "calendar_token_expiry", "calendar_scope", "calendar_enabled").
		Updates(profile).Error
}

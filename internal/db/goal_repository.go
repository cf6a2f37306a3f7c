package db

import (
	"ambidream/internal/models"
	"gorm.io/gorm"
)

type GoalRepository struct {
	database *gorm.DB
}

func NewGoalRepository(database *gorm.DB) *GoalRepository {
	return &GoalRepository{database: database}
}

func (repo *GoalRepository) ListByUser(userID uint) ([]models.SleepGoal, error) {
	goals := make([]models.SleepGoal, 0)
	if err := repo.database.Where("user_id = ?", userID).Order("id ASC").Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

func (repo *GoalRepository) ListActiveByUser(userID uint) ([]models.SleepGoal, error) {
	goals := make([]models.SleepGoal, 0)
	if err := repo.database.
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("id ASC").
		Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

func (repo *GoalRepository) FindByIDForUser(goalID uint, userID uint) (models.SleepGoal, bool, error) {
	goal := models.SleepGoal{}
	result := repo.database.
		Where("id = ? AND user_id = ?", goalID, userID).
		Limit(1).
		Find(&goal)
	if result.Error != nil {
		return models.SleepGoal{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.SleepGoal{}, false, nil
	}
	return goal, true, nil
}

func (repo *GoalRepository) Create(goal *models.SleepGoal) error {
	return repo.database.Create(goal).Error
}

func (repo *GoalRepository) Save(goal *models.SleepGoal) error {
	return repo.database.Save(goal).Error
}

func (repo *GoalRepository) DeleteByIDForUser(goalID uint, userID uint) error {
	return repo.database.Where("id = ? AND user_id = ?", goalID, userID).Delete(&models.SleepGoal{}).Error
}

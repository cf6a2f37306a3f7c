package db

import "gorm.io/gorm"

type Repositories struct {
	Users      *UserRepository
	Profiles   *ProfileRepository
	Sessions   *SessionRepository
	Goals      *GoalRepository
	Reminders  *ReminderRepository
	Statistics *StatisticsRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:      NewUserRepository(database),
		Profiles:   NewProfileRepository(database),
		Sessions:   NewSessionRepository(database),
		Goals:      NewGoalRepository(database),
		Reminders:  NewReminderRepository(database),
		Statistics: NewStatisticsRepository(database),
	}
}

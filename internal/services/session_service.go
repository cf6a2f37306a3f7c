package services

import (
	"errors"
	"time"

	"ambidream/internal/models"
)

var (
	ErrWakeNotAfterSleep = errors.New("wake time must be after sleep time")
	ErrInvalidQuality    = errors.New("quality rating must be between 1 and 5")
	ErrSessionNotFound   = errors.New("sleep session not found")
	ErrCalendarDisabled  = errors.New("calendar sync not enabled")
)

type SessionStore interface {
	FindByIDForUser(sessionID uint, userID uint) (models.SleepSession, bool, error)
	ListByUserRange(userID uint, fromStart *time.Time, toEnd *time.Time) ([]models.SleepSession, error)
	Create(session *models.SleepSession) error
	Save(session *models.SleepSession) error
	DeleteByIDForUser(sessionID uint, userID uint) error
}

// SyncEnqueuer hands calendar work to the asynchronous sync worker so the
// caller's request never blocks on remote I/O.
type SyncEnqueuer interface {
	EnqueueSync(sessionID uint)
	EnqueueEventRemoval(userID uint, eventID string)
}

type SessionInput struct {
	SleepTime     time.Time
	WakeTime      time.Time
	QualityRating *int
	Notes         string
}

// Validate rejects reversed or zero-length timestamp pairs up front; the
// duration calculator itself stays a total function.
func (input SessionInput) Validate() error {
	if !input.WakeTime.After(input.SleepTime) {
		return ErrWakeNotAfterSleep
	}
	if input.QualityRating != nil && (*input.QualityRating < 1 || *input.QualityRating > 5) {
		return ErrInvalidQuality
	}
	return nil
}

type SessionService struct {
	sessions SessionStore
	profiles ProfileSource
	syncs    SyncEnqueuer
	location *time.Location
}

func NewSessionService(sessions SessionStore, profiles ProfileSource, syncs SyncEnqueuer, location *time.Location) *SessionService {
	if location == nil {
		location = time.UTC
	}
	return &SessionService{
		sessions: sessions,
		profiles: profiles,
		syncs:    syncs,
		location: location,
	}
}

func (service *SessionService) Create(userID uint, input SessionInput) (models.SleepSession, error) {
	if err := input.Validate(); err != nil {
		return models.SleepSession{}, err
	}

	session := models.SleepSession{
		UserID:        userID,
		SleepTime:     input.SleepTime,
		WakeTime:      input.WakeTime,
		QualityRating: input.QualityRating,
		Notes:         input.Notes,
	}
	if err := service.sessions.Create(&session); err != nil {
		return models.SleepSession{}, err
	}

	service.enqueueWhenCalendarEnabled(userID, session.ID)
	return session, nil
}

func (service *SessionService) Update(userID uint, sessionID uint, input SessionInput) (models.SleepSession, error) {
	if err := input.Validate(); err != nil {
		return models.SleepSession{}, err
	}

	session, found, err := service.sessions.FindByIDForUser(sessionID, userID)
	if err != nil {
		return models.SleepSession{}, err
	}
	if !found {
		return models.SleepSession{}, ErrSessionNotFound
	}

	session.SleepTime = input.SleepTime
	session.WakeTime = input.WakeTime
	session.QualityRating = input.QualityRating
	session.Notes = input.Notes
	if err := service.sessions.Save(&session); err != nil {
		return models.SleepSession{}, err
	}

	service.enqueueWhenCalendarEnabled(userID, session.ID)
	return session, nil
}

func (service *SessionService) FindForUser(userID uint, sessionID uint) (models.SleepSession, error) {
	session, found, err := service.sessions.FindByIDForUser(sessionID, userID)
	if err != nil {
		return models.SleepSession{}, err
	}
	if !found {
		return models.SleepSession{}, ErrSessionNotFound
	}
	return session, nil
}

func (service *SessionService) List(userID uint, from *time.Time, to *time.Time) ([]models.SleepSession, error) {
	var fromStart *time.Time
	var toEnd *time.Time
	if from != nil {
		start, _ := DayWindow(*from, service.location)
		fromStart = &start
	}
	if to != nil {
		_, end := DayWindow(*to, service.location)
		toEnd = &end
	}
	return service.sessions.ListByUserRange(userID, fromStart, toEnd)
}

// Recent returns the sessions of the trailing seven days.
func (service *SessionService) Recent(userID uint, now time.Time) ([]models.SleepSession, error) {
	cutoff := now.Add(-7 * 24 * time.Hour)
	return service.sessions.ListByUserRange(userID, &cutoff, nil)
}

func (service *SessionService) Today(userID uint, now time.Time) ([]models.SleepSession, error) {
	dayStart, dayEnd := DayWindow(now, service.location)
	return service.sessions.ListByUserRange(userID, &dayStart, &dayEnd)
}

// Delete removes the session and, when it was synced, queues removal of the
// linked calendar event so the remote copy does not outlive the record.
func (service *SessionService) Delete(userID uint, sessionID uint) error {
	session, found, err := service.sessions.FindByIDForUser(sessionID, userID)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	if err := service.sessions.DeleteByIDForUser(sessionID, userID); err != nil {
		return err
	}
	if service.syncs != nil && session.SyncedToCalendar && session.CalendarEventID != nil {
		service.syncs.EnqueueEventRemoval(userID, *session.CalendarEventID)
	}
	return nil
}

// RequestSync queues a manual calendar sync for one of the user's sessions.
func (service *SessionService) RequestSync(userID uint, sessionID uint) error {
	_, found, err := service.sessions.FindByIDForUser(sessionID, userID)
	if err != nil {
		return err
	}
	if !found {
		return ErrSessionNotFound
	}

	profile, ok, err := service.profiles.FindByUserID(userID)
	if err != nil {
		return err
	}
	if !ok || !profile.CalendarEnabled {
		return ErrCalendarDisabled
	}

	service.syncs.EnqueueSync(sessionID)
	return nil
}

func (service *SessionService) enqueueWhenCalendarEnabled(userID uint, sessionID uint) {
	if service.syncs == nil {
		return
	}
	profile, ok, err := service.profiles.FindByUserID(userID)
	if err != nil || !ok || !profile.CalendarEnabled {
		return
	}
	service.syncs.EnqueueSync(sessionID)
}

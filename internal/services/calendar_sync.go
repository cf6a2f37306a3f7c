package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ambidream/internal/calendar"
	"ambidream/internal/models"
	"go.uber.org/zap"
)

type SyncSessionStore interface {
	FindByID(sessionID uint) (models.SleepSession, bool, error)
	SaveCalendarLink(session *models.SleepSession) error
}

type ProfileCredentialStore interface {
	FindByUserID(userID uint) (models.UserProfile, bool, error)
	SaveCredential(profile *models.UserProfile) error
}

type CalendarClient interface {
	CreateEvent(ctx context.Context, credential calendar.Credential, event calendar.Event) (string, error)
	UpdateEvent(ctx context.Context, credential calendar.Credential, eventID string, event calendar.Event) (string, error)
	DeleteEvent(ctx context.Context, credential calendar.Credential, eventID string) error
	Refresh(ctx context.Context, credential calendar.Credential) (calendar.Credential, error)
}

// CalendarSyncService keeps a one-to-one mapping between a sleep session and
// a remote calendar event. The credential is resolved and, if stale,
// refreshed on every call; nothing authenticated is cached across runs.
// Any remote failure leaves the local session untouched, so re-invoking the
// sync later is always safe.
type CalendarSyncService struct {
	sessions SyncSessionStore
	profiles ProfileCredentialStore
	client   CalendarClient
	location *time.Location
	logger   *zap.SugaredLogger
}

func NewCalendarSyncService(
	sessions SyncSessionStore,
	profiles ProfileCredentialStore,
	client CalendarClient,
	location *time.Location,
	logger *zap.SugaredLogger,
) *CalendarSyncService {
	if location == nil {
		location = time.UTC
	}
	return &CalendarSyncService{
		sessions: sessions,
		profiles: profiles,
		client:   client,
		location: location,
		logger:   logger,
	}
}

func (service *CalendarSyncService) SyncSession(ctx context.Context, sessionID uint) TaskResult {
	session, found, err := service.sessions.FindByID(sessionID)
	if err != nil {
		service.logger.Errorw("calendar sync: load session failed", "session", sessionID, "error", err)
		return taskFailed(fmt.Sprintf("failed to load sleep session %d", sessionID), err)
	}
	if !found {
		return taskOK(fmt.Sprintf("sleep session %d not found", sessionID), 0)
	}

	profile, found, err := service.profiles.FindByUserID(session.UserID)
	if err != nil {
		service.logger.Errorw("calendar sync: load profile failed", "session", sessionID, "error", err)
		return taskFailed(fmt.Sprintf("failed to load profile for session %d", sessionID), err)
	}
	if !found || !profile.CalendarEnabled {
		return taskOK("calendar not enabled for this user", 0)
	}

	credential, err := service.resolveCredential(ctx, &profile)
	if err != nil {
		service.logger.Warnw("calendar sync: credential resolution failed", "session", sessionID, "error", err)
		return taskFailed("calendar authorization required", err)
	}

	event := EventForSession(session, profile.Timezone)

	if session.SyncedToCalendar && session.CalendarEventID != nil {
		eventID, err := service.client.UpdateEvent(ctx, credential, *session.CalendarEventID, event)
		if err != nil {
			service.logger.Warnw("calendar sync: update failed", "session", sessionID, "error", err)
			return taskFailed("failed to update calendar event", err)
		}
		return taskOK(fmt.Sprintf("updated calendar event: %s", eventID), 1)
	}

	eventID, err := service.client.CreateEvent(ctx, credential, event)
	if err != nil {
		service.logger.Warnw("calendar sync: create failed", "session", sessionID, "error", err)
		return taskFailed("failed to sync to calendar", err)
	}

	session.CalendarEventID = &eventID
	session.SyncedToCalendar = true
	if err := service.sessions.SaveCalendarLink(&session); err != nil {
		// The remote event exists but the mapping was lost; the next sync
		// will create a duplicate unless this is surfaced loudly.
		service.logger.Errorw("calendar sync: persist event link failed", "session", sessionID, "event", eventID, "error", err)
		return taskFailed("failed to record calendar event id", err)
	}
	return taskOK(fmt.Sprintf("created calendar event: %s", eventID), 1)
}

// RemoveEvent deletes the remote event left behind by a deleted session.
// The session row is already gone by the time this runs, so the event id
// travels with the request instead of being re-read.
func (service *CalendarSyncService) RemoveEvent(ctx context.Context, userID uint, eventID string) TaskResult {
	profile, found, err := service.profiles.FindByUserID(userID)
	if err != nil {
		service.logger.Errorw("calendar sync: load profile failed", "user", userID, "error", err)
		return taskFailed(fmt.Sprintf("failed to load profile for user %d", userID), err)
	}
	if !found || !profile.CalendarEnabled {
		return taskOK("calendar not enabled for this user", 0)
	}

	credential, err := service.resolveCredential(ctx, &profile)
	if err != nil {
		service.logger.Warnw("calendar sync: credential resolution failed", "user", userID, "error", err)
		return taskFailed("calendar authorization required", err)
	}

	if err := service.client.DeleteEvent(ctx, credential, eventID); err != nil {
		service.logger.Warnw("calendar sync: delete failed", "user", userID, "event", eventID, "error", err)
		return taskFailed("failed to delete calendar event", err)
	}
	return taskOK(fmt.Sprintf("deleted calendar event: %s", eventID), 1)
}

// resolveCredential returns a credential valid for the upcoming call,
// refreshing and persisting a new record when the stored one is stale.
func (service *CalendarSyncService) resolveCredential(ctx context.Context, profile *models.UserProfile) (calendar.Credential, error) {
	credential := CredentialFromProfile(profile)
	now := time.Now()
	if credential.Valid(now) {
		return credential, nil
	}
	if !credential.CanRefresh() {
		return calendar.Credential{}, fmt.Errorf("%w: re-authorization required", calendar.ErrUnauthenticated)
	}

	refreshed, err := service.client.Refresh(ctx, credential)
	if err != nil {
		if errors.Is(err, calendar.ErrUnauthenticated) {
			return calendar.Credential{}, err
		}
		return calendar.Credential{}, fmt.Errorf("refresh credential: %w", err)
	}

	ApplyCredentialToProfile(profile, refreshed)
	if err := service.profiles.SaveCredential(profile); err != nil {
		service.logger.Warnw("calendar sync: persist refreshed credential failed", "user", profile.UserID, "error", err)
	}
	return refreshed, nil
}

func CredentialFromProfile(profile *models.UserProfile) calendar.Credential {
	credential := calendar.Credential{
		AccessToken:  profile.CalendarAccessToken,
		RefreshToken: profile.CalendarRefreshToken,
		Scope:        profile.CalendarScope,
	}
	if profile.CalendarTokenExpiry != nil {
		credential.Expiry = *profile.CalendarTokenExpiry
	}
	return credential
}

func ApplyCredentialToProfile(profile *models.UserProfile, credential calendar.Credential) {
	profile.CalendarAccessToken = credential.AccessToken
	profile.CalendarRefreshToken = credential.RefreshToken
	profile.CalendarScope = credential.Scope
	if credential.Expiry.IsZero() {
		profile.CalendarTokenExpiry = nil
	} else {
		expiry := credential.Expiry
		profile.CalendarTokenExpiry = &expiry
	}
}

// EventForSession renders a session as its calendar event. The event is
// transparent so sleep never shows up as busy time.
func EventForSession(session models.SleepSession, timezone string) calendar.Event {
	if strings.TrimSpace(timezone) == "" {
		timezone = models.DefaultTimezone
	}

	quality := "Not rated"
	if session.QualityRating != nil {
		quality = models.QualityLabel(*session.QualityRating)
	}

	return calendar.Event{
		Summary:     fmt.Sprintf("Sleep (%.2fh)", session.DurationHours),
		Description: fmt.Sprintf("Sleep Quality: %s\nNotes: %s", quality, session.Notes),
		Start: calendar.EventTime{
			DateTime: session.SleepTime.Format(time.RFC3339),
			TimeZone: timezone,
		},
		End: calendar.EventTime{
			DateTime: session.WakeTime.Format(time.RFC3339),
			TimeZone: timezone,
		},
		ColorID:      "9",
		Transparency: "transparent",
	}
}

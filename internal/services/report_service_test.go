package services

import (
	"context"
	"testing"
	"time"

	"ambidream/internal/logging"
	"ambidream/internal/models"
)

type stubStatisticsAnchorSource struct {
	rows       []models.SleepStatistics
	lastAnchor time.Time
	lastKind   string
}

func (stub *stubStatisticsAnchorSource) ListByAnchor(anchor time.Time, periodKind string) ([]models.SleepStatistics, error) {
	stub.lastAnchor = anchor
	stub.lastKind = periodKind
	return stub.rows, nil
}

func TestSendWeeklyReportsUsesPreviousWeekAnchor(t *testing.T) {
	t.Parallel()

	quality := 4.2
	source := &stubStatisticsAnchorSource{
		rows: []models.SleepStatistics{
			{UserID: 1, AverageSleepHours: 7.8, SessionsCount: 6, AverageQuality: &quality},
		},
	}
	profiles := &stubProfileSource{profiles: map[uint]models.UserProfile{
		1: {UserID: 1, NotificationEnabled: true},
	}}
	users := &stubRecipientSource{users: map[uint]models.User{
		1: {ID: 1, Email: "weekly@example.com"},
	}}
	sender := &recordingSender{delivered: 1}
	service := NewReportService(source, profiles, users, sender, time.UTC, logging.NewNop())

	// Monday March 9 reports on the week of Monday March 2.
	now := time.Date(2026, time.March, 9, 9, 0, 0, 0, time.UTC)
	result := service.SendWeeklyReports(context.Background(), now)

	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	wantAnchor := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	if !source.lastAnchor.Equal(wantAnchor) {
		t.Fatalf("anchor = %v, want %v", source.lastAnchor, wantAnchor)
	}
	if source.lastKind != models.PeriodWeekly {
		t.Fatalf("kind = %q, want %q", source.lastKind, models.PeriodWeekly)
	}
	if sender.reports != 1 {
		t.Fatalf("reports sent = %d, want 1", sender.reports)
	}
	if result.Processed != 1 {
		t.Fatalf("processed = %d, want 1", result.Processed)
	}
}

func TestSendWeeklyReportsSkipsDisabledProfiles(t *testing.T) {
	t.Parallel()

	source := &stubStatisticsAnchorSource{
		rows: []models.SleepStatistics{
			{UserID: 1, AverageSleepHours: 7.8, SessionsCount: 6},
			{UserID: 2, AverageSleepHours: 6.2, SessionsCount: 4},
		},
	}
	profiles := &stubProfileSource{profiles: map[uint]models.UserProfile{
		1: {UserID: 1, NotificationEnabled: false},
		2: {UserID: 2, NotificationEnabled: true},
	}}
	users := &stubRecipientSource{users: map[uint]models.User{
		1: {ID: 1}, 2: {ID: 2},
	}}
	sender := &recordingSender{delivered: 1}
	service := NewReportService(source, profiles, users, sender, time.UTC, logging.NewNop())

	result := service.SendWeeklyReports(context.Background(), time.Date(2026, time.March, 9, 9, 0, 0, 0, time.UTC))

	if sender.reports != 1 {
		t.Fatalf("reports sent = %d, want 1", sender.reports)
	}
	if result.Processed != 1 {
		t.Fatalf("processed = %d, want 1", result.Processed)
	}
}

package services

import (
	"testing"
	"time"

	"ambidream/internal/logging"
	"ambidream/internal/models"
)

type stubSessionSource struct {
	owners          []uint
	sessionsByOwner map[uint][]models.SleepSession
	lastWindowStart time.Time
	lastWindowEnd   time.Time
}

func (stub *stubSessionSource) OwnerIDsWithSessionsBetween(windowStart time.Time, windowEnd time.Time) ([]uint, error) {
	stub.lastWindowStart = windowStart
	stub.lastWindowEnd = windowEnd
	return stub.owners, nil
}

func (stub *stubSessionSource) ListByUserWindow(userID uint, windowStart time.Time, windowEnd time.Time) ([]models.SleepSession, error) {
	return stub.sessionsByOwner[userID], nil
}

type stubStatisticsStore struct {
	upserts []models.SleepStatistics
}

func (stub *stubStatisticsStore) Upsert(stat *models.SleepStatistics) error {
	stub.upserts = append(stub.upserts, *stat)
	return nil
}

func ratingPtr(value int) *int {
	return &value
}

func TestCalculateDailyAnchorsOnYesterday(t *testing.T) {
	t.Parallel()

	source := &stubSessionSource{
		owners: []uint{7},
		sessionsByOwner: map[uint][]models.SleepSession{
			7: {
				{UserID: 7, DurationHours: 7.5, QualityRating: ratingPtr(4)},
				{UserID: 7, DurationHours: 1.25},
			},
		},
	}
	store := &stubStatisticsStore{}
	service := NewStatsService(source, store, time.UTC, logging.NewNop())

	now := time.Date(2026, time.March, 5, 6, 0, 0, 0, time.UTC)
	result := service.CalculateDaily(now)

	if result.Err != nil {
		t.Fatalf("CalculateDaily returned error: %v", result.Err)
	}
	if result.Processed != 1 {
		t.Fatalf("processed = %d, want 1", result.Processed)
	}

	wantStart := time.Date(2026, time.March, 4, 0, 0, 0, 0, time.UTC)
	if !source.lastWindowStart.Equal(wantStart) {
		t.Fatalf("window start = %v, want %v", source.lastWindowStart, wantStart)
	}
	if !source.lastWindowEnd.Equal(wantStart.AddDate(0, 0, 1)) {
		t.Fatalf("window end = %v", source.lastWindowEnd)
	}

	if len(store.upserts) != 1 {
		t.Fatalf("upserts = %d, want 1", len(store.upserts))
	}
	stat := store.upserts[0]
	if stat.PeriodKind != models.PeriodDaily {
		t.Fatalf("period kind = %q", stat.PeriodKind)
	}
	if !stat.Date.Equal(wantStart) {
		t.Fatalf("anchor = %v, want %v", stat.Date, wantStart)
	}
	if stat.TotalSleepHours != 8.75 {
		t.Fatalf("total hours = %v, want 8.75", stat.TotalSleepHours)
	}
	if stat.AverageSleepHours != 4.38 {
		t.Fatalf("average hours = %v, want 4.38", stat.AverageSleepHours)
	}
	if stat.AverageQuality == nil || *stat.AverageQuality != 4 {
		t.Fatalf("average quality = %v, want 4", stat.AverageQuality)
	}
	if stat.SessionsCount != 2 {
		t.Fatalf("sessions count = %d, want 2", stat.SessionsCount)
	}
}

func TestCalculateWeeklyAnchorsOnMonday(t *testing.T) {
	t.Parallel()

	source := &stubSessionSource{
		owners: []uint{3},
		sessionsByOwner: map[uint][]models.SleepSession{
			3: {{UserID: 3, DurationHours: 8}},
		},
	}
	store := &stubStatisticsStore{}
	service := NewStatsService(source, store, time.UTC, logging.NewNop())

	// Thursday inside the week of Monday March 2.
	now := time.Date(2026, time.March, 5, 6, 0, 0, 0, time.UTC)
	result := service.CalculateWeekly(now)

	if result.Err != nil {
		t.Fatalf("CalculateWeekly returned error: %v", result.Err)
	}

	monday := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	if !source.lastWindowStart.Equal(monday) {
		t.Fatalf("window start = %v, want %v", source.lastWindowStart, monday)
	}
	if !source.lastWindowEnd.Equal(monday.AddDate(0, 0, 7)) {
		t.Fatalf("window end = %v", source.lastWindowEnd)
	}
	if len(store.upserts) != 1 {
		t.Fatalf("upserts = %d, want 1", len(store.upserts))
	}
	if !store.upserts[0].Date.Equal(monday) {
		t.Fatalf("anchor = %v, want %v", store.upserts[0].Date, monday)
	}
	if store.upserts[0].PeriodKind != models.PeriodWeekly {
		t.Fatalf("period kind = %q", store.upserts[0].PeriodKind)
	}
}

func TestAggregateSkipsOwnersWithoutSessions(t *testing.T) {
	t.Parallel()

	source := &stubSessionSource{
		owners:          []uint{1, 2},
		sessionsByOwner: map[uint][]models.SleepSession{1: {{UserID: 1, DurationHours: 6}}},
	}
	store := &stubStatisticsStore{}
	service := NewStatsService(source, store, time.UTC, logging.NewNop())

	result := service.CalculateDaily(time.Date(2026, time.March, 5, 6, 0, 0, 0, time.UTC))
	if result.Processed != 1 {
		t.Fatalf("processed = %d, want 1", result.Processed)
	}
	if len(store.upserts) != 1 || store.upserts[0].UserID != 1 {
		t.Fatalf("expected a single upsert for user 1, got %+v", store.upserts)
	}
}

func TestSummarizeSessionsWithoutRatings(t *testing.T) {
	t.Parallel()

	summary := SummarizeSessions([]models.SleepSession{
		{DurationHours: 7},
		{DurationHours: 8},
	})
	if summary.AverageQuality != nil {
		t.Fatalf("expected absent quality mean, got %v", *summary.AverageQuality)
	}
	if summary.TotalHours != 15 || summary.AverageHours != 7.5 {
		t.Fatalf("summary = %+v", summary)
	}
	if summary.SessionsCount != 2 {
		t.Fatalf("sessions count = %d", summary.SessionsCount)
	}
}

package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

func TestCreateSessionComputesDuration(t *testing.T) {
	app, _, _ := newTestApp(t)
	token := registerTestUser(t, app, "sessions@example.com")

	sleep := time.Date(2026, time.March, 4, 23, 0, 0, 0, time.UTC)
	response, err := app.Test(authedRequest(http.MethodPost, "/api/sessions", token, map[string]any{
		"sleep_time":     sleep.Format(time.RFC3339),
		"wake_time":      sleep.Add(7*time.Hour + 37*time.Minute).Format(time.RFC3339),
		"quality_rating": 4,
	}))
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if response.StatusCode != fiber.StatusCreated {
		t.Fatalf("create status = %d", response.StatusCode)
	}

	var session struct {
		DurationHours float64 `json:"duration_hours"`
		QualityRating *int    `json:"quality_rating"`
	}
	decodeBody(t, response, &session)
	if session.DurationHours != 7.62 {
		t.Fatalf("duration = %v, want 7.62", session.DurationHours)
	}
	if session.QualityRating == nil || *session.QualityRating != 4 {
		t.Fatalf("quality = %v, want 4", session.QualityRating)
	}
}

func TestCreateSessionRejectsWakeBeforeSleep(t *testing.T) {
	app, _, _ := newTestApp(t)
	token := registerTestUser(t, app, "reversed@example.com")

	sleep := time.Date(2026, time.March, 4, 23, 0, 0, 0, time.UTC)
	response, err := app.Test(authedRequest(http.MethodPost, "/api/sessions", token, map[string]any{
		"sleep_time": sleep.Format(time.RFC3339),
		"wake_time":  sleep.Add(-time.Hour).Format(time.RFC3339),
	}))
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if response.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", response.StatusCode)
	}
}

func TestSessionsAreScopedToOwner(t *testing.T) {
	app, _, _ := newTestApp(t)
	ownerToken := registerTestUser(t, app, "owner@example.com")
	otherToken := registerTestUser(t, app, "other@example.com")

	sleep := time.Date(2026, time.March, 4, 23, 0, 0, 0, time.UTC)
	sessionID := createTestSession(t, app, ownerToken, sleep, sleep.Add(8*time.Hour))

	response, err := app.Test(authedRequest(http.MethodGet, "/api/sessions/1", otherToken, nil))
	if err != nil {
		t.Fatalf("cross-user get: %v", err)
	}
	if response.StatusCode != fiber.StatusNotFound {
		t.Fatalf("cross-user get status = %d, want 404", response.StatusCode)
	}

	response, err = app.Test(authedRequest(http.MethodGet, "/api/sessions", otherToken, nil))
	if err != nil {
		t.Fatalf("cross-user list: %v", err)
	}
	var sessions []struct {
		ID uint `json:"id"`
	}
	decodeBody(t, response, &sessions)
	if len(sessions) != 0 {
		t.Fatalf("other user sees %d sessions, want 0", len(sessions))
	}

	response, err = app.Test(authedRequest(http.MethodGet, "/api/sessions", ownerToken, nil))
	if err != nil {
		t.Fatalf("owner list: %v", err)
	}
	decodeBody(t, response, &sessions)
	if len(sessions) != 1 || sessions[0].ID != sessionID {
		t.Fatalf("owner sessions = %+v", sessions)
	}
}

func TestUpdateSessionRecomputesDuration(t *testing.T) {
	app, _, _ := newTestApp(t)
	token := registerTestUser(t, app, "update@example.com")

	sleep := time.Date(2026, time.March, 4, 23, 0, 0, 0, time.UTC)
	sessionID := createTestSession(t, app, token, sleep, sleep.Add(8*time.Hour))

	response, err := app.Test(authedRequest(http.MethodPut, "/api/sessions/1", token, map[string]any{
		"sleep_time": sleep.Format(time.RFC3339),
		"wake_time":  sleep.Add(6*time.Hour + 45*time.Minute).Format(time.RFC3339),
	}))
	if err != nil {
		t.Fatalf("update request: %v", err)
	}
	if response.StatusCode != fiber.StatusOK {
		t.Fatalf("update status = %d", response.StatusCode)
	}

	var session struct {
		ID            uint    `json:"id"`
		DurationHours float64 `json:"duration_hours"`
	}
	decodeBody(t, response, &session)
	if session.ID != sessionID {
		t.Fatalf("updated id = %d, want %d", session.ID, sessionID)
	}
	if session.DurationHours != 6.75 {
		t.Fatalf("duration = %v, want 6.75", session.DurationHours)
	}
}

func TestDeleteSessionRemovesIt(t *testing.T) {
	app, _, _ := newTestApp(t)
	token := registerTestUser(t, app, "delete@example.com")

	sleep := time.Date(2026, time.March, 4, 23, 0, 0, 0, time.UTC)
	createTestSession(t, app, token, sleep, sleep.Add(8*time.Hour))

	response, err := app.Test(authedRequest(http.MethodDelete, "/api/sessions/1", token, nil))
	if err != nil {
		t.Fatalf("delete request: %v", err)
	}
	if response.StatusCode != fiber.StatusNoContent {
		t.Fatalf("delete status = %d", response.StatusCode)
	}

	response, err = app.Test(authedRequest(http.MethodGet, "/api/sessions/1", token, nil))
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if response.StatusCode != fiber.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", response.StatusCode)
	}
}

func TestManualSyncRequiresCalendarEnabled(t *testing.T) {
	app, _, recorder := newTestApp(t)
	token := registerTestUser(t, app, "sync@example.com")

	sleep := time.Date(2026, time.March, 4, 23, 0, 0, 0, time.UTC)
	createTestSession(t, app, token, sleep, sleep.Add(8*time.Hour))

	response, err := app.Test(authedRequest(http.MethodPost, "/api/sessions/1/sync", token, nil))
	if err != nil {
		t.Fatalf("sync request: %v", err)
	}
	if response.StatusCode != fiber.StatusConflict {
		t.Fatalf("sync status = %d, want 409", response.StatusCode)
	}
	if len(recorder.queued) != 0 {
		t.Fatalf("queued = %v, want none", recorder.queued)
	}
}

func TestManualSyncQueuesWhenCalendarEnabled(t *testing.T) {
	app, _, recorder := newTestApp(t)
	token := registerTestUser(t, app, "sync-on@example.com")

	enable, err := app.Test(authedRequest(http.MethodPut, "/api/profile", token, map[string]any{
		"calendar_enabled": true,
	}))
	if err != nil {
		t.Fatalf("enable calendar: %v", err)
	}
	if enable.StatusCode != fiber.StatusOK {
		t.Fatalf("enable calendar status = %d", enable.StatusCode)
	}

	sleep := time.Date(2026, time.March, 4, 23, 0, 0, 0, time.UTC)
	sessionID := createTestSession(t, app, token, sleep, sleep.Add(8*time.Hour))
	queuedOnCreate := len(recorder.queued)

	response, err := app.Test(authedRequest(http.MethodPost, "/api/sessions/1/sync", token, nil))
	if err != nil {
		t.Fatalf("sync request: %v", err)
	}
	if response.StatusCode != fiber.StatusAccepted {
		t.Fatalf("sync status = %d, want 202", response.StatusCode)
	}
	if len(recorder.queued) != queuedOnCreate+1 {
		t.Fatalf("queued = %v, want one more than %d", recorder.queued, queuedOnCreate)
	}
	if recorder.queued[len(recorder.queued)-1] != sessionID {
		t.Fatalf("queued tail = %d, want %d", recorder.queued[len(recorder.queued)-1], sessionID)
	}
}

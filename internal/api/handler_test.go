package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"ambidream/internal/db"
	"ambidream/internal/logging"
	"ambidream/internal/models"
)

type queueRecorder struct {
	queued  []uint
	removed []string
}

func (recorder *queueRecorder) EnqueueSync(sessionID uint) {
	recorder.queued = append(recorder.queued, sessionID)
}

func (recorder *queueRecorder) EnqueueEventRemoval(userID uint, eventID string) {
	recorder.removed = append(recorder.removed, eventID)
}

func newTestApp(t *testing.T) (*fiber.App, *Handler, *queueRecorder) {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "ambidream-api.db")
	database, err := db.OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("unwrap sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	recorder := &queueRecorder{}
	handler := NewHandler(database, "test-secret", time.UTC, recorder, logging.NewNop())

	app := fiber.New()
	RegisterRoutes(app, handler)
	return app, handler, recorder
}

func jsonRequest(method string, target string, payload any) *http.Request {
	var body io.Reader
	if payload != nil {
		encoded, _ := json.Marshal(payload)
		body = bytes.NewReader(encoded)
	}
	request := httptest.NewRequest(method, target, body)
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	return request
}

func authedRequest(method string, target string, token string, payload any) *http.Request {
	request := jsonRequest(method, target, payload)
	request.Header.Set("Authorization", "Bearer "+token)
	return request
}

func decodeBody(t *testing.T, response *http.Response, out any) {
	t.Helper()

	defer response.Body.Close()
	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

// registerTestUser registers a fresh account and returns its bearer token.
func registerTestUser(t *testing.T, app *fiber.App, email string) string {
	t.Helper()

	response, err := app.Test(jsonRequest(http.MethodPost, "/api/auth/register", map[string]any{
		"email":    email,
		"password": "secret-password",
		"name":     "Test Sleeper",
	}))
	if err != nil {
		t.Fatalf("register request: %v", err)
	}
	if response.StatusCode != fiber.StatusCreated {
		body, _ := io.ReadAll(response.Body)
		t.Fatalf("register status = %d: %s", response.StatusCode, string(body))
	}

	var payload struct {
		Token string `json:"token"`
	}
	decodeBody(t, response, &payload)
	if payload.Token == "" {
		t.Fatal("register returned no token")
	}
	return payload.Token
}

func createTestSession(t *testing.T, app *fiber.App, token string, sleep time.Time, wake time.Time) uint {
	t.Helper()

	response, err := app.Test(authedRequest(http.MethodPost, "/api/sessions", token, map[string]any{
		"sleep_time": sleep.Format(time.RFC3339),
		"wake_time":  wake.Format(time.RFC3339),
	}))
	if err != nil {
		t.Fatalf("create session request: %v", err)
	}
	if response.StatusCode != fiber.StatusCreated {
		body, _ := io.ReadAll(response.Body)
		t.Fatalf("create session status = %d: %s", response.StatusCode, string(body))
	}

	var payload struct {
		ID uint `json:"id"`
	}
	decodeBody(t, response, &payload)
	if payload.ID == 0 {
		t.Fatal("created session has no id")
	}
	return payload.ID
}

func TestHealthEndpoint(t *testing.T) {
	app, _, _ := newTestApp(t)

	response, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if err != nil {
		t.Fatalf("health request: %v", err)
	}
	if response.StatusCode != fiber.StatusOK {
		t.Fatalf("health status = %d", response.StatusCode)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app, _, _ := newTestApp(t)

	for _, target := range []string{
		"/api/profile",
		"/api/sessions",
		"/api/goals",
		"/api/reminders",
		"/api/statistics",
	} {
		response, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
		if err != nil {
			t.Fatalf("request %s: %v", target, err)
		}
		if response.StatusCode != fiber.StatusUnauthorized {
			t.Fatalf("%s status = %d, want 401", target, response.StatusCode)
		}
	}
}

func TestTokenSignedWithOtherSecretIsRejected(t *testing.T) {
	app, _, _ := newTestApp(t)

	otherHandler := &Handler{secretKey: []byte("other-secret")}
	token, err := otherHandler.buildToken(&models.User{ID: 1}, time.Hour)
	if err != nil {
		t.Fatalf("build token: %v", err)
	}

	request := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	request.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	response, err := app.Test(request)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if response.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", response.StatusCode)
	}
}

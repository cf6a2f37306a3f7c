package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "DB_PATH", "SECRET_KEY", "TZ", "DEBUG",
		"EMAIL_HOST", "EMAIL_PORT", "EMAIL_HOST_USER", "EMAIL_USE_TLS",
		"CALENDAR_TIMEOUT_SECONDS", "DAILY_STATS_HOUR", "WEEKLY_REPORT_HOUR", "SYNC_QUEUE_SIZE",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.False(t, cfg.Debug)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTPHost)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.True(t, cfg.SMTPUseTLS)
	assert.Equal(t, 10*time.Second, cfg.CalendarTimeout)
	assert.Equal(t, 6, cfg.DailyStatsHour)
	assert.Equal(t, 9, cfg.WeeklyReportHour)
	assert.Equal(t, 64, cfg.SyncQueueSize)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DEBUG", "true")
	t.Setenv("EMAIL_PORT", "2525")
	t.Setenv("EMAIL_USE_TLS", "0")
	t.Setenv("EMAIL_HOST_USER", "mailer@ambidream.app")
	t.Setenv("DEFAULT_FROM_EMAIL", "")
	t.Setenv("CALENDAR_TIMEOUT_SECONDS", "25")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 2525, cfg.SMTPPort)
	assert.False(t, cfg.SMTPUseTLS)
	assert.Equal(t, 25*time.Second, cfg.CalendarTimeout)
	// The from address falls back to the SMTP account.
	assert.Equal(t, "mailer@ambidream.app", cfg.FromEmail)
}

func TestGetEnvIntIgnoresGarbage(t *testing.T) {
	t.Setenv("EMAIL_PORT", "not-a-number")

	cfg := Load()
	assert.Equal(t, 587, cfg.SMTPPort)
}

package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config collects every environment-driven setting in one place so main
// stays a wiring exercise.
type Config struct {
	Port            string
	DBPath          string
	SecretKey       string
	Timezone        string
	Debug           bool

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPUseTLS   bool
	FromEmail    string

	CalendarBaseURL      string
	CalendarTokenURL     string
	CalendarClientID     string
	CalendarClientSecret string
	CalendarTimeout      time.Duration

	DailyStatsHour   int
	WeeklyReportHour int
	SyncQueueSize    int
}

func Load() Config {
	return Config{
		Port:      getEnv("PORT", "8080"),
		DBPath:    getEnv("DB_PATH", filepath.Join("data", "ambidream.db")),
		SecretKey: getEnv("SECRET_KEY", "change_me_in_production"),
		Timezone:  getEnv("TZ", "UTC"),
		Debug:     getEnvBool("DEBUG", false),

		SMTPHost:     getEnv("EMAIL_HOST", "smtp.gmail.com"),
		SMTPPort:     getEnvInt("EMAIL_PORT", 587),
		SMTPUsername: getEnv("EMAIL_HOST_USER", ""),
		SMTPPassword: getEnv("EMAIL_HOST_PASSWORD", ""),
		SMTPUseTLS:   getEnvBool("EMAIL_USE_TLS", true),
		FromEmail:    getEnv("DEFAULT_FROM_EMAIL", getEnv("EMAIL_HOST_USER", "")),

		CalendarBaseURL:      getEnv("CALENDAR_API_BASE_URL", ""),
		CalendarTokenURL:     getEnv("CALENDAR_TOKEN_URL", ""),
		CalendarClientID:     getEnv("CALENDAR_CLIENT_ID", ""),
		CalendarClientSecret: getEnv("CALENDAR_CLIENT_SECRET", ""),
		CalendarTimeout:      time.Duration(getEnvInt("CALENDAR_TIMEOUT_SECONDS", 10)) * time.Second,

		DailyStatsHour:   getEnvInt("DAILY_STATS_HOUR", 6),
		WeeklyReportHour: getEnvInt("WEEKLY_REPORT_HOUR", 9),
		SyncQueueSize:    getEnvInt("SYNC_QUEUE_SIZE", 64),
	}
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	return raw == "1" || raw == "true" || raw == "TRUE" || raw == "True"
}

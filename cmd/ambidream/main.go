package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"ambidream/internal/api"
	"ambidream/internal/calendar"
	"ambidream/internal/cli"
	"ambidream/internal/config"
	"ambidream/internal/db"
	"ambidream/internal/jobs"
	"ambidream/internal/logging"
	"ambidream/internal/mail"
	"ambidream/internal/services"
)

func main() {
	cfg := config.Load()

	if len(os.Args) > 1 && os.Args[1] == "reset-password" {
		if len(os.Args) < 3 {
			log.Fatal("usage: ambidream reset-password <email>")
		}
		if err := cli.RunResetPasswordCommand(cfg.DBPath, os.Args[2]); err != nil {
			log.Fatalf("reset-password failed: %v", err)
		}
		return
	}

	zlog, err := logging.New(cfg.Debug)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer zlog.Sync()

	location := mustLoadLocation(cfg.Timezone, zlog)
	time.Local = location

	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		zlog.Fatalw("database init failed", "path", cfg.DBPath, "error", err)
	}
	repositories := db.NewRepositories(database)

	mailer := mail.NewMailer(mail.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.FromEmail,
		UseTLS:   cfg.SMTPUseTLS,
		Timeout:  15 * time.Second,
	})
	notifier := mail.NewNotifier(mailer)

	calendarClient := calendar.NewClient(calendar.Config{
		BaseURL:      cfg.CalendarBaseURL,
		TokenURL:     cfg.CalendarTokenURL,
		ClientID:     cfg.CalendarClientID,
		ClientSecret: cfg.CalendarClientSecret,
		Timeout:      cfg.CalendarTimeout,
	})

	reminderService := services.NewReminderService(
		repositories.Reminders,
		repositories.Profiles,
		repositories.Users,
		repositories.Sessions,
		notifier,
		location,
		zlog,
	)
	statsService := services.NewStatsService(repositories.Sessions, repositories.Statistics, location, zlog)
	reportService := services.NewReportService(
		repositories.Statistics,
		repositories.Profiles,
		repositories.Users,
		notifier,
		location,
		zlog,
	)
	syncService := services.NewCalendarSyncService(
		repositories.Sessions,
		repositories.Profiles,
		calendarClient,
		location,
		zlog,
	)

	runner := jobs.NewRunner(reminderService, statsService, reportService, syncService, zlog, jobs.Options{
		Location:         location,
		DailyStatsHour:   cfg.DailyStatsHour,
		WeeklyReportHour: cfg.WeeklyReportHour,
		SyncQueueSize:    cfg.SyncQueueSize,
	})

	handler := api.NewHandler(database, cfg.SecretKey, location, runner, zlog)

	app := fiber.New(fiber.Config{
		AppName:               "AmbiDream",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	api.RegisterRoutes(app, handler)

	lifecycleCtx, cancelLifecycle := context.WithCancel(context.Background())
	defer cancelLifecycle()
	runner.Start(lifecycleCtx)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		cancelLifecycle()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			zlog.Errorw("server shutdown failed", "error", err)
		}
	}()

	zlog.Infow("listening", "port", cfg.Port, "db", cfg.DBPath, "tz", location.String())
	if err := app.Listen(":" + cfg.Port); err != nil {
		zlog.Fatalw("server exited", "error", err)
	}
}

func mustLoadLocation(name string, zlog *zap.SugaredLogger) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		zlog.Warnw("invalid TZ, falling back to UTC", "tz", name)
		return time.UTC
	}
	return location
}

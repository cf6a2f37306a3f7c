package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Get("/me", handler.AuthRequired, handler.Me)

	profile := api.Group("/profile", handler.AuthRequired)
	profile.Get("", handler.GetProfile)
	profile.Put("", handler.UpdateProfile)
	profile.Post("/connect-calendar", handler.ConnectCalendar)

	sessions := api.Group("/sessions", handler.AuthRequired)
	sessions.Get("", handler.ListSessions)
	sessions.Post("", handler.CreateSession)
	sessions.Get("/recent", handler.RecentSessions)
	sessions.Get("/today", handler.TodaySessions)
	sessions.Get("/:id", handler.GetSession)
	sessions.Put("/:id", handler.UpdateSession)
	sessions.Delete("/:id", handler.DeleteSession)
	sessions.Post("/:id/sync", handler.SyncSession)

	goals := api.Group("/goals", handler.AuthRequired)
	goals.Get("", handler.ListGoals)
	goals.Post("", handler.CreateGoal)
	goals.Get("/active", handler.ListActiveGoals)
	goals.Put("/:id", handler.UpdateGoal)
	goals.Delete("/:id", handler.DeleteGoal)

	reminders := api.Group("/reminders", handler.AuthRequired)
	reminders.Get("", handler.ListReminders)
	reminders.Post("", handler.CreateReminder)
	reminders.Get("/active", handler.ListActiveReminders)
	reminders.Put("/:id", handler.UpdateReminder)
	reminders.Delete("/:id", handler.DeleteReminder)

	statistics := api.Group("/statistics", handler.AuthRequired)
	statistics.Get("", handler.ListStatistics)
	statistics.Get("/summary", handler.StatisticsSummary)
}

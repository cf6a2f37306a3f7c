package api

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"ambidream/internal/models"
	"ambidream/internal/services"
)

const summaryWindowDays = 30

func (handler *Handler) ListStatistics(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	periodKind := c.Query("period")
	if periodKind != "" && !models.IsValidPeriodKind(periodKind) {
		return apiError(c, fiber.StatusBadRequest, "unknown period kind")
	}

	statistics, err := handler.repositories.Statistics.ListByUser(user.ID, periodKind)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to list statistics")
	}
	return c.JSON(statistics)
}

// StatisticsSummary aggregates the trailing thirty days of sessions on the
// fly, independent of the precomputed period rows.
func (handler *Handler) StatisticsSummary(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	windowStart := time.Now().In(handler.location).AddDate(0, 0, -summaryWindowDays)
	sessions, err := handler.repositories.Sessions.ListByUserRange(user.ID, &windowStart, nil)
	if err != nil {
		handler.logger.Errorw("summary query failed", "user_id", user.ID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to build summary")
	}

	if len(sessions) == 0 {
		return c.JSON(fiber.Map{
			"message":        "No sleep data available",
			"sessions_count": 0,
		})
	}

	summary := services.SummarizeSessions(sessions)
	return c.JSON(fiber.Map{
		"period_days":         summaryWindowDays,
		"total_sleep_hours":   summary.TotalHours,
		"average_sleep_hours": summary.AverageHours,
		"average_quality":     summary.AverageQuality,
		"sessions_count":      summary.SessionsCount,
	})
}

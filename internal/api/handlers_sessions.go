package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"ambidream/internal/services"
)

func (handler *Handler) ListSessions(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	from, err := handler.parseDateQuery(c, "from")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid from date")
	}
	to, err := handler.parseDateQuery(c, "to")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid to date")
	}

	sessions, err := handler.sessions.List(user.ID, from, to)
	if err != nil {
		handler.logger.Errorw("session list failed", "user_id", user.ID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to list sessions")
	}
	return c.JSON(sessions)
}

func (handler *Handler) RecentSessions(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	sessions, err := handler.sessions.Recent(user.ID, time.Now())
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to list sessions")
	}
	return c.JSON(sessions)
}

func (handler *Handler) TodaySessions(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	sessions, err := handler.sessions.Today(user.ID, time.Now())
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to list sessions")
	}
	return c.JSON(sessions)
}

func (handler *Handler) GetSession(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	sessionID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid session id")
	}

	session, err := handler.sessions.FindForUser(user.ID, sessionID)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			return apiError(c, fiber.StatusNotFound, "session not found")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to load session")
	}
	return c.JSON(session)
}

func (handler *Handler) CreateSession(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var input sessionInput
	if err := handler.parseBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	session, err := handler.sessions.Create(user.ID, services.SessionInput{
		SleepTime:     input.SleepTime,
		WakeTime:      input.WakeTime,
		QualityRating: input.QualityRating,
		Notes:         input.Notes,
	})
	if err != nil {
		if errors.Is(err, services.ErrWakeNotAfterSleep) || errors.Is(err, services.ErrInvalidQuality) {
			return apiError(c, fiber.StatusBadRequest, err.Error())
		}
		handler.logger.Errorw("session create failed", "user_id", user.ID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to save session")
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

func (handler *Handler) UpdateSession(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	sessionID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid session id")
	}

	var input sessionInput
	if err := handler.parseBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	session, err := handler.sessions.Update(user.ID, sessionID, services.SessionInput{
		SleepTime:     input.SleepTime,
		WakeTime:      input.WakeTime,
		QualityRating: input.QualityRating,
		Notes:         input.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSessionNotFound):
			return apiError(c, fiber.StatusNotFound, "session not found")
		case errors.Is(err, services.ErrWakeNotAfterSleep), errors.Is(err, services.ErrInvalidQuality):
			return apiError(c, fiber.StatusBadRequest, err.Error())
		default:
			handler.logger.Errorw("session update failed", "user_id", user.ID, "error", err)
			return apiError(c, fiber.StatusInternalServerError, "failed to save session")
		}
	}
	return c.JSON(session)
}

func (handler *Handler) DeleteSession(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	sessionID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid session id")
	}

	if err := handler.sessions.Delete(user.ID, sessionID); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to delete session")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SyncSession queues the session for calendar sync; the actual remote call
// happens on the background worker.
func (handler *Handler) SyncSession(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	sessionID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid session id")
	}

	if err := handler.sessions.RequestSync(user.ID, sessionID); err != nil {
		switch {
		case errors.Is(err, services.ErrSessionNotFound):
			return apiError(c, fiber.StatusNotFound, "session not found")
		case errors.Is(err, services.ErrCalendarDisabled):
			return apiError(c, fiber.StatusConflict, "calendar sync not enabled")
		default:
			return apiError(c, fiber.StatusInternalServerError, "failed to queue sync")
		}
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"queued": true})
}

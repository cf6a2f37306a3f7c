package api

import (
	"github.com/gofiber/fiber/v2"

	"ambidream/internal/models"
)

func (handler *Handler) ListReminders(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	reminders, err := handler.repositories.Reminders.ListByUser(user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to list reminders")
	}
	return c.JSON(reminders)
}

func (handler *Handler) ListActiveReminders(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	reminders, err := handler.repositories.Reminders.ListActiveByUser(user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to list reminders")
	}
	return c.JSON(reminders)
}

func (handler *Handler) CreateReminder(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var input reminderInput
	if err := handler.parseBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	reminder := models.SleepReminder{
		UserID:       user.ID,
		Kind:         input.Kind,
		ReminderTime: input.ReminderTime,
		IsActive:     true,
		Message:      input.Message,
	}
	if input.IsActive != nil {
		reminder.IsActive = *input.IsActive
	}
	if err := handler.repositories.Reminders.Create(&reminder); err != nil {
		handler.logger.Errorw("reminder create failed", "user_id", user.ID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to save reminder")
	}
	return c.Status(fiber.StatusCreated).JSON(reminder)
}

func (handler *Handler) UpdateReminder(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	reminderID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid reminder id")
	}

	var input reminderInput
	if err := handler.parseBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	reminder, found, err := handler.repositories.Reminders.FindByIDForUser(reminderID, user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load reminder")
	}
	if !found {
		return apiError(c, fiber.StatusNotFound, "reminder not found")
	}

	reminder.Kind = input.Kind
	reminder.ReminderTime = input.ReminderTime
	reminder.Message = input.Message
	if input.IsActive != nil {
		reminder.IsActive = *input.IsActive
	}
	if err := handler.repositories.Reminders.Save(&reminder); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to save reminder")
	}
	return c.JSON(reminder)
}

func (handler *Handler) DeleteReminder(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	reminderID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid reminder id")
	}

	if err := handler.repositories.Reminders.DeleteByIDForUser(reminderID, user.ID); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to delete reminder")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

package api

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"

	"ambidream/internal/models"
)

func (handler *Handler) ListGoals(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	goals, err := handler.repositories.Goals.ListByUser(user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to list goals")
	}
	return c.JSON(goals)
}

func (handler *Handler) ListActiveGoals(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	goals, err := handler.repositories.Goals.ListActiveByUser(user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to list goals")
	}
	return c.JSON(goals)
}

func (handler *Handler) CreateGoal(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var input goalInput
	if err := handler.parseBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	goal := models.SleepGoal{
		UserID:              user.ID,
		TargetBedtime:       input.TargetBedtime,
		TargetWakeTime:      input.TargetWakeTime,
		TargetDurationHours: input.TargetDurationHours,
		DaysOfWeek:          datatypes.NewJSONSlice(input.DaysOfWeek),
		IsActive:            true,
	}
	if input.IsActive != nil {
		goal.IsActive = *input.IsActive
	}
	if err := handler.repositories.Goals.Create(&goal); err != nil {
		handler.logger.Errorw("goal create failed", "user_id", user.ID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to save goal")
	}
	return c.Status(fiber.StatusCreated).JSON(goal)
}

func (handler *Handler) UpdateGoal(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	goalID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid goal id")
	}

	var input goalInput
	if err := handler.parseBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	goal, found, err := handler.repositories.Goals.FindByIDForUser(goalID, user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load goal")
	}
	if !found {
		return apiError(c, fiber.StatusNotFound, "goal not found")
	}

	goal.TargetBedtime = input.TargetBedtime
	goal.TargetWakeTime = input.TargetWakeTime
	goal.TargetDurationHours = input.TargetDurationHours
	goal.DaysOfWeek = datatypes.NewJSONSlice(input.DaysOfWeek)
	if input.IsActive != nil {
		goal.IsActive = *input.IsActive
	}
	if err := handler.repositories.Goals.Save(&goal); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to save goal")
	}
	return c.JSON(goal)
}

func (handler *Handler) DeleteGoal(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	goalID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid goal id")
	}

	if err := handler.repositories.Goals.DeleteByIDForUser(goalID, user.ID); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to delete goal")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

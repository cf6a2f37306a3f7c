package api

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"ambidream/internal/calendar"
	"ambidream/internal/services"
)

func (handler *Handler) GetProfile(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	profile, err := handler.repositories.Profiles.FindOrCreateByUserID(user.ID)
	if err != nil {
		handler.logger.Errorw("profile load failed", "user_id", user.ID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to load profile")
	}
	return c.JSON(profile)
}

func (handler *Handler) UpdateProfile(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var input profileInput
	if err := handler.parseBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if input.Timezone != nil {
		if _, err := time.LoadLocation(*input.Timezone); err != nil {
			return apiError(c, fiber.StatusBadRequest, "unknown timezone")
		}
	}

	profile, err := handler.repositories.Profiles.FindOrCreateByUserID(user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load profile")
	}

	if input.TargetSleepHours != nil {
		profile.TargetSleepHours = *input.TargetSleepHours
	}
	if input.Timezone != nil {
		profile.Timezone = *input.Timezone
	}
	if input.NotificationEnabled != nil {
		profile.NotificationEnabled = *input.NotificationEnabled
	}
	if input.NotificationTime != nil {
		profile.NotificationTime = input.NotificationTime
	}
	if input.CalendarEnabled != nil {
		profile.CalendarEnabled = *input.CalendarEnabled
	}

	if err := handler.repositories.Profiles.Save(&profile); err != nil {
		handler.logger.Errorw("profile save failed", "user_id", user.ID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to save profile")
	}
	return c.JSON(profile)
}

// ConnectCalendar stores an OAuth token pair obtained out of band and flips
// calendar sync on for the account.
func (handler *Handler) ConnectCalendar(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var input connectCalendarInput
	if err := handler.parseBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	profile, err := handler.repositories.Profiles.FindOrCreateByUserID(user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load profile")
	}

	credential := calendar.Credential{
		AccessToken:  input.AccessToken,
		RefreshToken: input.RefreshToken,
		Scope:        input.Scope,
	}
	if input.ExpiresIn > 0 {
		credential.Expiry = time.Now().Add(time.Duration(input.ExpiresIn) * time.Second)
	}
	services.ApplyCredentialToProfile(&profile, credential)
	profile.CalendarEnabled = true

	if err := handler.repositories.Profiles.Save(&profile); err != nil {
		handler.logger.Errorw("calendar credential save failed", "user_id", user.ID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to save credential")
	}
	return c.JSON(fiber.Map{
		"calendar_enabled": true,
	})
}

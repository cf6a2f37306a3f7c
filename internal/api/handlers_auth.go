package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"ambidream/internal/models"
	"ambidream/internal/services"
)

func (handler *Handler) Register(c *fiber.Ctx) error {
	var input registerInput
	if err := handler.parseBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	user, err := handler.authService.Register(input.Email, input.Password, input.Name)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return apiError(c, fiber.StatusConflict, "email already registered")
		}
		handler.logger.Errorw("register failed", "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to create account")
	}

	// The profile row is created eagerly so the first GET /api/profile
	// already returns defaults.
	if _, err := handler.repositories.Profiles.FindOrCreateByUserID(user.ID); err != nil {
		handler.logger.Errorw("profile bootstrap failed", "user_id", user.ID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to create account")
	}

	token, err := handler.buildToken(&user, authTokenTTL)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create token")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	var input loginInput
	if err := handler.parseBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	user, err := handler.authService.Authenticate(input.Email, input.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
		}
		handler.logger.Errorw("login failed", "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to sign in")
	}

	token, err := handler.buildToken(&user, authTokenTTL)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create token")
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

func (handler *Handler) Me(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return c.JSON(userPayload(user))
}

func userPayload(user *models.User) fiber.Map {
	return fiber.Map{
		"id":         user.ID,
		"email":      user.Email,
		"name":       user.Name,
		"created_at": user.CreatedAt,
	}
}

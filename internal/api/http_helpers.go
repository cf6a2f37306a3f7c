package api

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func (handler *Handler) parseBody(c *fiber.Ctx, target interface{}) error {
	if err := c.BodyParser(target); err != nil {
		return err
	}
	return handler.validate.Struct(target)
}

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	raw, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(raw), nil
}

// parseDateQuery reads an optional YYYY-MM-DD query parameter in the
// handler's location.
func (handler *Handler) parseDateQuery(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.ParseInLocation("2006-01-02", raw, handler.location)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

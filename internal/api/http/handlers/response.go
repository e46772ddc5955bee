package handlers

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/shipment-service/pkg/util/errorutil"
)

func success(c *fiber.Ctx, status int, message string, body fiber.Map) error {
	resp := fiber.Map{"success": true}
	if message != "" {
		resp["message"] = message
	}
	for k, v := range body {
		resp[k] = v
	}
	return c.Status(status).JSON(resp)
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return nil
}

func optionalQuery(c *fiber.Ctx, key string) *string {
	if v := c.Query(key); v != "" {
		return &v
	}
	return nil
}

package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shipment-service/internal/policy"
	apperrors "github.com/spec-kit/shipment-service/pkg/util/errorutil"
)

// RequireAction rejects callers whose role does not hold action.
func RequireAction(action policy.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := MustActor(c)
		if err != nil {
			return err
		}
		if !policy.Can(actor.Role, action) {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

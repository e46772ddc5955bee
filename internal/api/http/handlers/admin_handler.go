package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shipment-service/internal/worker"
	apperrors "github.com/spec-kit/shipment-service/pkg/util/errorutil"
)

// AdminHandler exposes operational triggers.
type AdminHandler struct {
	updater StatusUpdaterRunner
}

// NewAdminHandler constructs handler.
func NewAdminHandler(updater StatusUpdaterRunner) *AdminHandler {
	return &AdminHandler{updater: updater}
}

// RunStatusUpdater POST /admin/status-updater/run.
func (h *AdminHandler) RunStatusUpdater(c *fiber.Ctx) error {
	report, err := h.updater.Run(c.UserContext())
	if err != nil {
		if errors.Is(err, worker.ErrUpdaterBusy) {
			return apperrors.NewConflict(err.Error(), nil)
		}
		return err
	}
	return success(c, fiber.StatusOK, "status update completed", fiber.Map{"data": report})
}

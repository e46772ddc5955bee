package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shipment-service/internal/api/dto"
	"github.com/spec-kit/shipment-service/internal/auth"
	"github.com/spec-kit/shipment-service/internal/domain"
	"github.com/spec-kit/shipment-service/internal/service"
	apperrors "github.com/spec-kit/shipment-service/pkg/util/errorutil"
)

// ShipmentsHandler serves shipment endpoints.
type ShipmentsHandler struct {
	service ShipmentService
}

// NewShipmentsHandler constructs handler.
func NewShipmentsHandler(shipmentService ShipmentService) *ShipmentsHandler {
	return &ShipmentsHandler{service: shipmentService}
}

// Create POST /shipments.
func (h *ShipmentsHandler) Create(c *fiber.Ctx) error {
	actor, err := auth.MustActor(c)
	if err != nil {
		return err
	}
	var req dto.CreateShipmentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if strings.TrimSpace(req.FromProvince) == "" || strings.TrimSpace(req.ToProvince) == "" {
		return apperrors.NewValidationError("from_province and to_province required", nil)
	}
	shipment, err := h.service.CreateShipment(c.UserContext(), actor, service.ShipmentCreateInput{
		FromProvince: req.FromProvince,
		ToProvince:   req.ToProvince,
		Description:  req.Description,
	})
	if err != nil {
		return err
	}
	return success(c, fiber.StatusCreated, "shipment created", fiber.Map{"shipment": dto.NewShipmentResponse(shipment)})
}

// List GET /shipments.
func (h *ShipmentsHandler) List(c *fiber.Ctx) error {
	actor, err := auth.MustActor(c)
	if err != nil {
		return err
	}
	filter := service.ShipmentListFilter{
		FromProvince: optionalQuery(c, "from_province"),
		ToProvince:   optionalQuery(c, "to_province"),
		Limit:        c.QueryInt("limit", 20),
		Offset:       c.QueryInt("offset", 0),
	}
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				filter.Statuses = append(filter.Statuses, domain.ShipmentStatus(s))
			}
		}
	}
	shipments, err := h.service.ListShipments(c.UserContext(), actor, filter)
	if err != nil {
		return err
	}
	items := make([]dto.ShipmentResponse, 0, len(shipments))
	for i := range shipments {
		items = append(items, dto.NewShipmentResponse(&shipments[i]))
	}
	return success(c, fiber.StatusOK, "", fiber.Map{"data": items})
}

// Get GET /shipments/:id.
func (h *ShipmentsHandler) Get(c *fiber.Ctx) error {
	actor, err := auth.MustActor(c)
	if err != nil {
		return err
	}
	shipment, err := h.service.GetShipment(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "", fiber.Map{"shipment": dto.NewShipmentResponse(shipment)})
}

// Track GET /shipments/track/:trackingNumber. No credentials required.
func (h *ShipmentsHandler) Track(c *fiber.Ctx) error {
	shipment, err := h.service.TrackShipment(c.UserContext(), c.Params("trackingNumber"))
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "", fiber.Map{"shipment": dto.NewTrackingResponse(shipment)})
}

// UpdateStatus PATCH /shipments/:id/status.
func (h *ShipmentsHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, err := auth.MustActor(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	var requested *domain.ShipmentStatus
	if req.Status != nil {
		status := domain.ShipmentStatus(strings.TrimSpace(*req.Status))
		requested = &status
	}
	shipment, err := h.service.UpdateStatus(c.UserContext(), actor, c.Params("id"), requested)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "shipment status updated", fiber.Map{"shipment": dto.NewShipmentResponse(shipment)})
}

// UpdateBasicStatus PATCH /shipments/:id/basic-status.
func (h *ShipmentsHandler) UpdateBasicStatus(c *fiber.Ctx) error {
	actor, err := auth.MustActor(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Status == nil || strings.TrimSpace(*req.Status) == "" {
		return apperrors.NewValidationError("status required", nil)
	}
	status := domain.ShipmentStatus(strings.TrimSpace(*req.Status))
	shipment, err := h.service.UpdateBasicStatus(c.UserContext(), actor, c.Params("id"), status)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "shipment status updated", fiber.Map{"shipment": dto.NewShipmentResponse(shipment)})
}

// History GET /shipments/:id/history.
func (h *ShipmentsHandler) History(c *fiber.Ctx) error {
	actor, err := auth.MustActor(c)
	if err != nil {
		return err
	}
	entries, err := h.service.ListHistory(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.ShipmentHistoryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, dto.NewShipmentHistoryResponse(&entries[i]))
	}
	return success(c, fiber.StatusOK, "", fiber.Map{"data": items})
}

package service

import (
	"errors"

	"github.com/spec-kit/shipment-service/internal/policy"
	"github.com/spec-kit/shipment-service/internal/statemachine"
	apperrors "github.com/spec-kit/shipment-service/pkg/util/errorutil"
)

// errStale aborts a scheduled transition whose row changed after it was listed.
var errStale = errors.New("shipment changed since listing")

// mapShipmentError translates store, policy and state machine failures into the
// error taxonomy exposed to callers.
func mapShipmentError(err error, shipmentID string) error {
	switch {
	case err == nil:
		return nil
	case apperrors.IsNotFound(err):
		return apperrors.NewNotFound("shipment", map[string]any{"shipment_id": shipmentID})
	case errors.Is(err, policy.ErrInsufficientPermissions), errors.Is(err, policy.ErrStatusRequired):
		return apperrors.NewForbidden(err.Error())
	case errors.Is(err, statemachine.ErrFinalized):
		return apperrors.NewConflict(err.Error(), map[string]any{"shipment_id": shipmentID})
	case errors.Is(err, statemachine.ErrInvalidTransition):
		return apperrors.NewConflict(err.Error(), map[string]any{"shipment_id": shipmentID})
	case errors.Is(err, statemachine.ErrUnrecognizedStatus):
		return apperrors.NewValidationError(err.Error(), nil)
	default:
		return apperrors.MapError(err)
	}
}

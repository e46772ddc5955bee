package policy

import (
	"errors"

	"github.com/spec-kit/shipment-service/internal/domain"
)

var (
	// ErrInsufficientPermissions is returned when no rule grants the request.
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	// ErrStatusRequired is returned to non-admins that omit the target status.
	ErrStatusRequired = errors.New("requested status is required")
)

// CanModify is the province/branch policy for the full status endpoint.
// A nil requested status is only acceptable for admins.
func CanModify(actor domain.Actor, shipment *domain.Shipment, requested *domain.ShipmentStatus) error {
	if actor.Role.IsAdmin() {
		return nil
	}
	if requested == nil {
		return ErrStatusRequired
	}

	fromUser := MatchesProvince(actor.Province, actor.Branch, shipment.FromProvince)
	toUser := MatchesProvince(actor.Province, actor.Branch, shipment.ToProvince)

	// origin rules are checked before destination rules
	if fromUser {
		switch *requested {
		case domain.ShipmentStatusPending,
			domain.ShipmentStatusInProgress,
			domain.ShipmentStatusOnRoute,
			domain.ShipmentStatusCanceled:
			return nil
		}
	}
	if toUser && shipment.Status == domain.ShipmentStatusOnRoute && *requested == domain.ShipmentStatusDelivered {
		return nil
	}
	return ErrInsufficientPermissions
}

// CanModifyBasic is the sender/receiver policy used by the three-state status endpoint.
func CanModifyBasic(actor domain.Actor, shipment *domain.Shipment, requested domain.ShipmentStatus) error {
	if actor.Role.IsAdmin() {
		return nil
	}
	switch requested {
	case domain.ShipmentStatusDelivered:
		if shipment.ReceiverID != nil && *shipment.ReceiverID == actor.ID {
			return nil
		}
	case domain.ShipmentStatusInProgress:
		if shipment.SenderID == actor.ID {
			return nil
		}
	}
	return ErrInsufficientPermissions
}

// CanView reports whether actor may read shipment. The repository's listing
// filter (viewerClause) expresses the same rule in SQL.
func CanView(actor domain.Actor, shipment *domain.Shipment) bool {
	if actor.Role.IsAdmin() {
		return true
	}
	if shipment.SenderID == actor.ID {
		return true
	}
	if shipment.ReceiverID != nil && *shipment.ReceiverID == actor.ID {
		return true
	}
	return MatchesProvince(actor.Province, actor.Branch, shipment.FromProvince) ||
		MatchesProvince(actor.Province, actor.Branch, shipment.ToProvince)
}

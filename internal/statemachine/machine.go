// Package statemachine validates shipment status transitions and derives their
// timestamps and notifications. Permission checks happen before Apply is called.
package statemachine

import (
	"errors"
	"fmt"
	"time"

	"github.com/spec-kit/shipment-service/internal/domain"
)

var (
	ErrUnrecognizedStatus = errors.New("unrecognized shipment status")
	ErrFinalized          = errors.New("shipment already finalized")
	ErrInvalidTransition  = errors.New("invalid status transition")
)

// Variant selects which status enum an endpoint recognizes.
type Variant int

const (
	// Full is pending, in_progress, on_route, delivered and canceled.
	Full Variant = iota
	// Basic is pending, in_progress and delivered.
	Basic
)

var recognized = map[Variant][]domain.ShipmentStatus{
	Full: {
		domain.ShipmentStatusPending,
		domain.ShipmentStatusInProgress,
		domain.ShipmentStatusOnRoute,
		domain.ShipmentStatusDelivered,
		domain.ShipmentStatusCanceled,
	},
	Basic: {
		domain.ShipmentStatusPending,
		domain.ShipmentStatusInProgress,
		domain.ShipmentStatusDelivered,
	},
}

// Recognizes reports whether status belongs to the variant's enum.
func (v Variant) Recognizes(status domain.ShipmentStatus) bool {
	for _, s := range recognized[v] {
		if s == status {
			return true
		}
	}
	return false
}

func (v Variant) String() string {
	if v == Basic {
		return "basic"
	}
	return "full"
}

// rank orders the forward path; canceled sits outside it.
var rank = map[domain.ShipmentStatus]int{
	domain.ShipmentStatusPending:    0,
	domain.ShipmentStatusInProgress: 1,
	domain.ShipmentStatusOnRoute:    2,
	domain.ShipmentStatusDelivered:  3,
}

// Notice is a notification the caller must emit once the transition is persisted.
type Notice struct {
	UserID     string
	ShipmentID string
	Title      string
	Message    string
	Type       domain.NotificationType
}

// Result is the outcome of a validated transition.
type Result struct {
	Shipment  domain.Shipment
	OldStatus domain.ShipmentStatus
	Notices   []Notice
}

// Changed reports whether the status moved.
func (r *Result) Changed() bool {
	return r.OldStatus != r.Shipment.Status
}

// Apply validates moving shipment to requested and returns the updated copy.
// The input shipment is never modified.
func Apply(shipment *domain.Shipment, requested domain.ShipmentStatus, variant Variant, now time.Time) (*Result, error) {
	if !variant.Recognizes(requested) {
		return nil, fmt.Errorf("%w: %q", ErrUnrecognizedStatus, requested)
	}
	if shipment.Status.IsTerminal() {
		return nil, ErrFinalized
	}
	if requested != domain.ShipmentStatusCanceled && rank[requested] < rank[shipment.Status] {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, shipment.Status, requested)
	}

	next := *shipment
	next.Status = requested
	result := &Result{OldStatus: shipment.Status}

	switch requested {
	case domain.ShipmentStatusInProgress, domain.ShipmentStatusOnRoute:
		if next.ShippedAt == nil {
			shippedAt := now
			next.ShippedAt = &shippedAt
		}
	case domain.ShipmentStatusDelivered:
		deliveredAt := now
		next.DeliveredAt = &deliveredAt
		result.Notices = append(result.Notices, deliveredNotice(&next))
	}

	result.Shipment = next
	return result, nil
}

func deliveredNotice(shipment *domain.Shipment) Notice {
	return Notice{
		UserID:     shipment.SenderID,
		ShipmentID: shipment.ID,
		Title:      "Shipment Delivered",
		Message:    fmt.Sprintf("Your shipment %s to %s has been delivered.", shipment.TrackingNumber, shipment.ToProvince),
		Type:       domain.NotificationShipmentDelivered,
	}
}

// CreatedNotice tells the auto-assigned receiver about a new shipment.
func CreatedNotice(shipment *domain.Shipment) (Notice, bool) {
	if shipment.ReceiverID == nil {
		return Notice{}, false
	}
	return Notice{
		UserID:     *shipment.ReceiverID,
		ShipmentID: shipment.ID,
		Title:      "New Shipment",
		Message: fmt.Sprintf("Shipment %s from %s to %s has been assigned to you.",
			shipment.TrackingNumber, shipment.FromProvince, shipment.ToProvince),
		Type: domain.NotificationShipmentCreated,
	}, true
}

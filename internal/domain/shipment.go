package domain

import "time"

// ShipmentStatus enumerates lifecycle states for shipments.
type ShipmentStatus string

const (
	ShipmentStatusPending    ShipmentStatus = "pending"
	ShipmentStatusInProgress ShipmentStatus = "in_progress"
	ShipmentStatusOnRoute    ShipmentStatus = "on_route"
	ShipmentStatusDelivered  ShipmentStatus = "delivered"
	ShipmentStatusCanceled   ShipmentStatus = "canceled"
)

// IsTerminal reports whether no further transition may leave s.
func (s ShipmentStatus) IsTerminal() bool {
	return s == ShipmentStatusDelivered || s == ShipmentStatusCanceled
}

// AcceptsNewProducts reports whether products may still be attached in status s.
func (s ShipmentStatus) AcceptsNewProducts() bool {
	return s == ShipmentStatusPending || s == ShipmentStatusInProgress
}

// Shipment is the aggregate moved between provinces.
type Shipment struct {
	ID             string
	TrackingNumber string
	FromProvince   string
	ToProvince     string
	Description    string
	Status         ShipmentStatus
	SenderID       string
	ReceiverID     *string
	ShippedAt      *time.Time
	DeliveredAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ShipmentHistory is an immutable audit entry written for every applied transition.
type ShipmentHistory struct {
	ID         string
	ShipmentID string
	ChangedBy  *string
	OldStatus  ShipmentStatus
	NewStatus  ShipmentStatus
	CreatedAt  time.Time
}

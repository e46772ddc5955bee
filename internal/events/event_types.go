package events

import (
	"time"

	"github.com/spec-kit/shipment-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventShipmentCreated       EventType = "shipment_created"
	EventShipmentStatusChanged EventType = "shipment_status_changed"
	EventNotificationCreated   EventType = "notification_created"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	ShipmentID string      `json:"shipment_id,omitempty"`
	ActorID    *string     `json:"actor_id,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// ShipmentCreatedPayload payload.
type ShipmentCreatedPayload struct {
	TrackingNumber string  `json:"tracking_number"`
	FromProvince   string  `json:"from_province"`
	ToProvince     string  `json:"to_province"`
	ReceiverID     *string `json:"receiver_id,omitempty"`
}

// ShipmentStatusChangedPayload payload.
type ShipmentStatusChangedPayload struct {
	TrackingNumber string                `json:"tracking_number"`
	OldStatus      domain.ShipmentStatus `json:"old_status"`
	NewStatus      domain.ShipmentStatus `json:"new_status"`
	Source         string                `json:"source"`
}

// NotificationCreatedPayload carries the stored notification.
type NotificationCreatedPayload struct {
	NotificationID string                  `json:"notification_id"`
	UserID         string                  `json:"user_id"`
	Title          string                  `json:"title"`
	Message        string                  `json:"message"`
	Type           domain.NotificationType `json:"type"`
	CreatedAt      time.Time               `json:"created_at"`
}

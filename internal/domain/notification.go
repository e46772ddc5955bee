package domain

import "time"

// NotificationType classifies why a notification was sent.
type NotificationType string

const (
	NotificationShipmentCreated   NotificationType = "shipment_created"
	NotificationShipmentDelivered NotificationType = "shipment_delivered"
)

// Notification is owned by its recipient and only mutated by marking it read.
type Notification struct {
	ID         string
	UserID     string
	ShipmentID *string
	Title      string
	Message    string
	Type       NotificationType
	IsRead     bool
	CreatedAt  time.Time
}

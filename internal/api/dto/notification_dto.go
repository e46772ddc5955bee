package dto

import (
	"time"

	"github.com/spec-kit/shipment-service/internal/domain"
)

// NotificationResponse is the notification view.
type NotificationResponse struct {
	ID         string    `json:"id"`
	ShipmentID *string   `json:"shipment_id"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Type       string    `json:"type"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewNotificationResponse maps a notification.
func NewNotificationResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:         n.ID,
		ShipmentID: n.ShipmentID,
		Title:      n.Title,
		Message:    n.Message,
		Type:       string(n.Type),
		IsRead:     n.IsRead,
		CreatedAt:  n.CreatedAt,
	}
}

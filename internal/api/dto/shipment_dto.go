package dto

import (
	"time"

	"github.com/spec-kit/shipment-service/internal/domain"
)

// CreateShipmentRequest payload for new shipments.
type CreateShipmentRequest struct {
	FromProvince string `json:"from_province"`
	ToProvince   string `json:"to_province"`
	Description  string `json:"description"`
}

// UpdateStatusRequest carries the requested status. A missing status decodes to nil.
type UpdateStatusRequest struct {
	Status *string `json:"status"`
}

// ShipmentResponse is the full shipment view.
type ShipmentResponse struct {
	ID             string     `json:"id"`
	TrackingNumber string     `json:"tracking_number"`
	FromProvince   string     `json:"from_province"`
	ToProvince     string     `json:"to_province"`
	Description    string     `json:"description,omitempty"`
	Status         string     `json:"status"`
	SenderID       string     `json:"sender_id"`
	ReceiverID     *string    `json:"receiver_id"`
	ShippedAt      *time.Time `json:"shipped_at"`
	DeliveredAt    *time.Time `json:"delivered_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TrackingResponse is the public view returned without authentication.
type TrackingResponse struct {
	TrackingNumber string     `json:"tracking_number"`
	FromProvince   string     `json:"from_province"`
	ToProvince     string     `json:"to_province"`
	Status         string     `json:"status"`
	ShippedAt      *time.Time `json:"shipped_at"`
	DeliveredAt    *time.Time `json:"delivered_at"`
}

// ShipmentHistoryResponse is one audit entry.
type ShipmentHistoryResponse struct {
	ID        string    `json:"id"`
	ChangedBy *string   `json:"changed_by"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	CreatedAt time.Time `json:"created_at"`
}

// NewShipmentResponse maps a shipment.
func NewShipmentResponse(s *domain.Shipment) ShipmentResponse {
	return ShipmentResponse{
		ID:             s.ID,
		TrackingNumber: s.TrackingNumber,
		FromProvince:   s.FromProvince,
		ToProvince:     s.ToProvince,
		Description:    s.Description,
		Status:         string(s.Status),
		SenderID:       s.SenderID,
		ReceiverID:     s.ReceiverID,
		ShippedAt:      s.ShippedAt,
		DeliveredAt:    s.DeliveredAt,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

// NewTrackingResponse maps the public subset of a shipment.
func NewTrackingResponse(s *domain.Shipment) TrackingResponse {
	return TrackingResponse{
		TrackingNumber: s.TrackingNumber,
		FromProvince:   s.FromProvince,
		ToProvince:     s.ToProvince,
		Status:         string(s.Status),
		ShippedAt:      s.ShippedAt,
		DeliveredAt:    s.DeliveredAt,
	}
}

// NewShipmentHistoryResponse maps an audit entry.
func NewShipmentHistoryResponse(h *domain.ShipmentHistory) ShipmentHistoryResponse {
	return ShipmentHistoryResponse{
		ID:        h.ID,
		ChangedBy: h.ChangedBy,
		OldStatus: string(h.OldStatus),
		NewStatus: string(h.NewStatus),
		CreatedAt: h.CreatedAt,
	}
}

package dto

import (
	"time"

	"github.com/spec-kit/shipment-service/internal/domain"
)

// CreateProductRequest payload for attaching a product.
type CreateProductRequest struct {
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Quantity        int     `json:"quantity"`
	Weight          float64 `json:"weight"`
	Price           float64 `json:"price"`
	SenderName      string  `json:"sender_name"`
	SenderPhone     string  `json:"sender_phone"`
	ReceiverName    string  `json:"receiver_name"`
	ReceiverPhone   string  `json:"receiver_phone"`
	ReceiverAddress string  `json:"receiver_address"`
}

// UpdateProductRequest carries optional product changes.
type UpdateProductRequest struct {
	Name            *string  `json:"name"`
	Description     *string  `json:"description"`
	Quantity        *int     `json:"quantity"`
	Weight          *float64 `json:"weight"`
	Price           *float64 `json:"price"`
	SenderName      *string  `json:"sender_name"`
	SenderPhone     *string  `json:"sender_phone"`
	ReceiverName    *string  `json:"receiver_name"`
	ReceiverPhone   *string  `json:"receiver_phone"`
	ReceiverAddress *string  `json:"receiver_address"`
}

// ProductResponse is the product view.
type ProductResponse struct {
	ID                     string    `json:"id"`
	ShipmentTrackingNumber string    `json:"shipment_tracking_number"`
	Name                   string    `json:"name"`
	Description            string    `json:"description,omitempty"`
	Quantity               int       `json:"quantity"`
	Weight                 float64   `json:"weight"`
	Price                  float64   `json:"price"`
	SenderName             string    `json:"sender_name,omitempty"`
	SenderPhone            string    `json:"sender_phone,omitempty"`
	ReceiverName           string    `json:"receiver_name"`
	ReceiverPhone          string    `json:"receiver_phone"`
	ReceiverAddress        string    `json:"receiver_address,omitempty"`
	CreatedBy              string    `json:"created_by"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// NewProductResponse maps a product.
func NewProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:                     p.ID,
		ShipmentTrackingNumber: p.ShipmentTrackingNumber,
		Name:                   p.Name,
		Description:            p.Description,
		Quantity:               p.Quantity,
		Weight:                 p.Weight,
		Price:                  p.Price,
		SenderName:             p.SenderName,
		SenderPhone:            p.SenderPhone,
		ReceiverName:           p.ReceiverName,
		ReceiverPhone:          p.ReceiverPhone,
		ReceiverAddress:        p.ReceiverAddress,
		CreatedBy:              p.CreatedBy,
		CreatedAt:              p.CreatedAt,
		UpdatedAt:              p.UpdatedAt,
	}
}

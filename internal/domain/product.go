package domain

import "time"

// Product is an item carried inside a shipment, tied to it by tracking number.
type Product struct {
	ID                     string
	ShipmentTrackingNumber string
	Name                   string
	Description            string
	Quantity               int
	Weight                 float64
	Price                  float64
	SenderName             string
	SenderPhone            string
	ReceiverName           string
	ReceiverPhone          string
	ReceiverAddress        string
	CreatedBy              string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/shipment-service/internal/domain"
)

func newProductFixture() (*ProductService, *memoryShipments, *memoryProducts) {
	shipments := newMemoryShipments()
	products := newMemoryProducts()
	return NewProductService(products, shipments), shipments, products
}

func validProduct() ProductInput {
	return ProductInput{
		Name:          "Carpet",
		Quantity:      2,
		Weight:        12.5,
		Price:         300,
		ReceiverName:  "Ahmad",
		ReceiverPhone: "0700000000",
	}
}

// TestAddProduct_OnlyWhilePreparing verifies products are rejected once a shipment left preparation.
func TestAddProduct_OnlyWhilePreparing(t *testing.T) {
	cases := []struct {
		status domain.ShipmentStatus
		code   string
	}{
		{domain.ShipmentStatusPending, ""},
		{domain.ShipmentStatusInProgress, ""},
		{domain.ShipmentStatusOnRoute, "CONFLICT"},
		{domain.ShipmentStatusDelivered, "CONFLICT"},
		{domain.ShipmentStatusCanceled, "CONFLICT"},
	}
	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			svc, shipments, _ := newProductFixture()
			s := shipments.put(domain.Shipment{TrackingNumber: "SSP1", FromProvince: "Kabul", ToProvince: "Herat", Status: tc.status, SenderID: senderActor.ID})

			product, err := svc.AddProduct(context.Background(), senderActor, "sSp1", validProduct())
			if tc.code != "" {
				requireCode(t, err, tc.code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, s.TrackingNumber, product.ShipmentTrackingNumber)
			assert.Equal(t, senderActor.ID, product.CreatedBy)
		})
	}
}

// TestAddProduct_Validation verifies field constraints.
func TestAddProduct_Validation(t *testing.T) {
	svc, shipments, _ := newProductFixture()
	shipments.put(domain.Shipment{TrackingNumber: "SSP2", FromProvince: "Kabul", ToProvince: "Herat", Status: domain.ShipmentStatusPending, SenderID: senderActor.ID})

	input := validProduct()
	input.Quantity = 0
	input.Weight = 0
	input.Price = -1
	input.ReceiverPhone = " "
	_, err := svc.AddProduct(context.Background(), senderActor, "SSP2", input)
	requireCode(t, err, "VALIDATION_FAILED")
}

// TestAddProduct_RequiresVisibility verifies unrelated users cannot attach products.
func TestAddProduct_RequiresVisibility(t *testing.T) {
	svc, shipments, _ := newProductFixture()
	shipments.put(domain.Shipment{TrackingNumber: "SSP3", FromProvince: "Kabul", ToProvince: "Herat", Status: domain.ShipmentStatusPending, SenderID: senderActor.ID})

	_, err := svc.AddProduct(context.Background(), clientActor, "SSP3", validProduct())
	requireCode(t, err, "FORBIDDEN")

	_, err = svc.AddProduct(context.Background(), senderActor, "SSNONE", validProduct())
	requireCode(t, err, "NOT_FOUND")
}

// TestUpdateAndDeleteProduct_Ownership verifies only creators and administrators change products.
func TestUpdateAndDeleteProduct_Ownership(t *testing.T) {
	svc, shipments, products := newProductFixture()
	shipments.put(domain.Shipment{TrackingNumber: "SSP4", FromProvince: "Kabul", ToProvince: "Herat", Status: domain.ShipmentStatusPending, SenderID: senderActor.ID})
	product, err := svc.AddProduct(context.Background(), senderActor, "SSP4", validProduct())
	require.NoError(t, err)

	// status changes do not lock edits
	s, _ := shipments.GetByTrackingNumber(context.Background(), "SSP4")
	s.Status = domain.ShipmentStatusDelivered
	shipments.put(*s)

	qty := 5
	updated, err := svc.UpdateProduct(context.Background(), senderActor, product.ID, ProductUpdateInput{Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Quantity)

	_, err = svc.UpdateProduct(context.Background(), heratActor, product.ID, ProductUpdateInput{Quantity: &qty})
	requireCode(t, err, "FORBIDDEN")

	zero := 0
	_, err = svc.UpdateProduct(context.Background(), senderActor, product.ID, ProductUpdateInput{Quantity: &zero})
	requireCode(t, err, "VALIDATION_FAILED")

	err = svc.DeleteProduct(context.Background(), heratActor, product.ID)
	requireCode(t, err, "FORBIDDEN")

	require.NoError(t, svc.DeleteProduct(context.Background(), adminActor, product.ID))
	assert.Empty(t, products.products)

	err = svc.DeleteProduct(context.Background(), adminActor, product.ID)
	requireCode(t, err, "NOT_FOUND")
}

// TestListProducts verifies listing by tracking number for viewers.
func TestListProducts(t *testing.T) {
	svc, shipments, _ := newProductFixture()
	shipments.put(domain.Shipment{TrackingNumber: "SSP5", FromProvince: "Kabul", ToProvince: "Herat", Status: domain.ShipmentStatusPending, SenderID: senderActor.ID})
	_, err := svc.AddProduct(context.Background(), senderActor, "SSP5", validProduct())
	require.NoError(t, err)

	items, err := svc.ListProducts(context.Background(), heratActor, "SSP5")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

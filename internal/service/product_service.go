package service

import (
	"context"
	"strings"

	"github.com/spec-kit/shipment-service/internal/domain"
	"github.com/spec-kit/shipment-service/internal/policy"
	"github.com/spec-kit/shipment-service/internal/repository"
	apperrors "github.com/spec-kit/shipment-service/pkg/util/errorutil"
)

// ProductService manages items attached to shipments.
type ProductService struct {
	products  repository.ProductRepository
	shipments repository.ShipmentRepository
}

// NewProductService builds the service.
func NewProductService(products repository.ProductRepository, shipments repository.ShipmentRepository) *ProductService {
	return &ProductService{products: products, shipments: shipments}
}

// ProductInput carries product fields.
type ProductInput struct {
	Name            string
	Description     string
	Quantity        int
	Weight          float64
	Price           float64
	SenderName      string
	SenderPhone     string
	ReceiverName    string
	ReceiverPhone   string
	ReceiverAddress string
}

// ProductUpdateInput carries optional product changes.
type ProductUpdateInput struct {
	Name            *string
	Description     *string
	Quantity        *int
	Weight          *float64
	Price           *float64
	SenderName      *string
	SenderPhone     *string
	ReceiverName    *string
	ReceiverPhone   *string
	ReceiverAddress *string
}

// AddProduct attaches a product to a shipment that is still being prepared.
func (s *ProductService) AddProduct(ctx context.Context, actor domain.Actor, trackingNumber string, input ProductInput) (*domain.Product, error) {
	if !policy.Can(actor.Role, policy.ActionManageProducts) {
		return nil, apperrors.NewForbidden("insufficient role")
	}
	shipment, err := s.visibleShipment(ctx, actor, trackingNumber)
	if err != nil {
		return nil, err
	}
	if !shipment.Status.AcceptsNewProducts() {
		return nil, apperrors.NewConflict("products can only be added to pending or in-progress shipments",
			map[string]any{"status": shipment.Status})
	}

	product := &domain.Product{
		ShipmentTrackingNumber: shipment.TrackingNumber,
		Name:                   strings.TrimSpace(input.Name),
		Description:            strings.TrimSpace(input.Description),
		Quantity:               input.Quantity,
		Weight:                 input.Weight,
		Price:                  input.Price,
		SenderName:             strings.TrimSpace(input.SenderName),
		SenderPhone:            strings.TrimSpace(input.SenderPhone),
		ReceiverName:           strings.TrimSpace(input.ReceiverName),
		ReceiverPhone:          strings.TrimSpace(input.ReceiverPhone),
		ReceiverAddress:        strings.TrimSpace(input.ReceiverAddress),
		CreatedBy:              actor.ID,
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, apperrors.MapError(err)
	}
	return product, nil
}

// ListProducts returns the products of a shipment the actor may view.
func (s *ProductService) ListProducts(ctx context.Context, actor domain.Actor, trackingNumber string) ([]domain.Product, error) {
	shipment, err := s.visibleShipment(ctx, actor, trackingNumber)
	if err != nil {
		return nil, err
	}
	items, err := s.products.ListByTrackingNumber(ctx, shipment.TrackingNumber)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

// UpdateProduct changes a product. Only its creator or a delete-product holder may edit it.
func (s *ProductService) UpdateProduct(ctx context.Context, actor domain.Actor, id string, input ProductUpdateInput) (*domain.Product, error) {
	product, err := s.ownedProduct(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	setString(&product.Name, input.Name)
	setString(&product.Description, input.Description)
	setString(&product.SenderName, input.SenderName)
	setString(&product.SenderPhone, input.SenderPhone)
	setString(&product.ReceiverName, input.ReceiverName)
	setString(&product.ReceiverPhone, input.ReceiverPhone)
	setString(&product.ReceiverAddress, input.ReceiverAddress)
	if input.Quantity != nil {
		product.Quantity = *input.Quantity
	}
	if input.Weight != nil {
		product.Weight = *input.Weight
	}
	if input.Price != nil {
		product.Price = *input.Price
	}

	if err := validateProduct(product); err != nil {
		return nil, err
	}
	if err := s.products.Update(ctx, product); err != nil {
		return nil, apperrors.MapError(err)
	}
	return product, nil
}

// DeleteProduct removes a product under the same ownership rule as UpdateProduct.
func (s *ProductService) DeleteProduct(ctx context.Context, actor domain.Actor, id string) error {
	if _, err := s.ownedProduct(ctx, actor, id); err != nil {
		return err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewNotFound("product", map[string]any{"product_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *ProductService) visibleShipment(ctx context.Context, actor domain.Actor, trackingNumber string) (*domain.Shipment, error) {
	trackingNumber = strings.ToUpper(strings.TrimSpace(trackingNumber))
	shipment, err := s.shipments.GetByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("shipment", map[string]any{"tracking_number": trackingNumber})
		}
		return nil, apperrors.MapError(err)
	}
	if !policy.CanView(actor, shipment) {
		return nil, apperrors.NewForbidden("access denied")
	}
	return shipment, nil
}

func (s *ProductService) ownedProduct(ctx context.Context, actor domain.Actor, id string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("product", map[string]any{"product_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if product.CreatedBy != actor.ID && !policy.Can(actor.Role, policy.ActionDeleteProduct) {
		return nil, apperrors.NewForbidden("only the creator or an administrator may change this product")
	}
	return product, nil
}

func validateProduct(p *domain.Product) error {
	details := map[string]any{}
	if p.Name == "" {
		details["name"] = "required"
	}
	if p.Quantity < 1 {
		details["quantity"] = "must be at least 1"
	}
	if p.Weight <= 0 {
		details["weight"] = "must be positive"
	}
	if p.Price < 0 {
		details["price"] = "must not be negative"
	}
	if p.ReceiverName == "" {
		details["receiver_name"] = "required"
	}
	if p.ReceiverPhone == "" {
		details["receiver_phone"] = "required"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid product", details)
	}
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

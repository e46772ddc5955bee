package handlers

import (
	"context"

	"github.com/spec-kit/shipment-service/internal/domain"
	"github.com/spec-kit/shipment-service/internal/service"
)

// AuthService is the signup and login surface used by AuthHandler.
type AuthService interface {
	Register(ctx context.Context, input service.RegisterInput) (*domain.User, domain.Token, error)
	Login(ctx context.Context, email, password string) (*domain.User, domain.Token, error)
	Me(ctx context.Context, actor domain.Actor) (*domain.User, error)
}

// UserService is the account administration surface.
type UserService interface {
	Create(ctx context.Context, actor domain.Actor, input service.UserCreateInput) (*domain.User, error)
	Get(ctx context.Context, actor domain.Actor, id string) (*domain.User, error)
	List(ctx context.Context, actor domain.Actor, filter service.UserListFilter) ([]domain.User, error)
	Update(ctx context.Context, actor domain.Actor, id string, input service.UserUpdateInput) (*domain.User, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
}

// ShipmentService is the shipment workflow surface.
type ShipmentService interface {
	CreateShipment(ctx context.Context, actor domain.Actor, input service.ShipmentCreateInput) (*domain.Shipment, error)
	GetShipment(ctx context.Context, actor domain.Actor, id string) (*domain.Shipment, error)
	TrackShipment(ctx context.Context, trackingNumber string) (*domain.Shipment, error)
	ListShipments(ctx context.Context, actor domain.Actor, filter service.ShipmentListFilter) ([]domain.Shipment, error)
	UpdateStatus(ctx context.Context, actor domain.Actor, id string, requested *domain.ShipmentStatus) (*domain.Shipment, error)
	UpdateBasicStatus(ctx context.Context, actor domain.Actor, id string, requested domain.ShipmentStatus) (*domain.Shipment, error)
	ListHistory(ctx context.Context, actor domain.Actor, id string) ([]domain.ShipmentHistory, error)
}

// ProductService is the product surface.
type ProductService interface {
	AddProduct(ctx context.Context, actor domain.Actor, trackingNumber string, input service.ProductInput) (*domain.Product, error)
	ListProducts(ctx context.Context, actor domain.Actor, trackingNumber string) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, actor domain.Actor, id string, input service.ProductUpdateInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, actor domain.Actor, id string) error
}

// NotificationService is the per-user inbox surface.
type NotificationService interface {
	List(ctx context.Context, actor domain.Actor, limit, offset int) ([]domain.Notification, error)
	UnreadCount(ctx context.Context, actor domain.Actor) (int, error)
	MarkRead(ctx context.Context, actor domain.Actor, id string) (*domain.Notification, error)
}

// StatusUpdaterRunner triggers one automatic status pass.
type StatusUpdaterRunner interface {
	Run(ctx context.Context) (service.AutoUpdateReport, error)
}

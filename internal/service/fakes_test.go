package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"github.com/spec-kit/shipment-service/internal/domain"
	"github.com/spec-kit/shipment-service/internal/policy"
	"github.com/spec-kit/shipment-service/internal/repository"
	"github.com/spec-kit/shipment-service/internal/statemachine"
)

// MockNotificationSink records emitted notices.
type MockNotificationSink struct {
	mock.Mock
}

func (m *MockNotificationSink) Emit(ctx context.Context, notice statemachine.Notice) {
	m.Called(ctx, notice)
}

type memoryUsers struct {
	mu    sync.Mutex
	users []domain.User
	// createErr and deleteErr stand in for constraint failures raised by the store.
	createErr error
	deleteErr error
}

func (r *memoryUsers) add(u domain.User) domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().Add(time.Duration(len(r.users)) * time.Second)
	}
	r.users = append(r.users, u)
	return u
}

func (r *memoryUsers) Create(_ context.Context, user *domain.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	stored := r.add(*user)
	*user = stored
	return nil
}

func (r *memoryUsers) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.users {
		if r.users[i].ID == user.ID {
			r.users[i] = *user
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *memoryUsers) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	for i := range r.users {
		if r.users[i].ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *memoryUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			u := u
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			u := u
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryUsers) List(_ context.Context, filter repository.UserFilter) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.User
	for _, u := range r.users {
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (r *memoryUsers) ListByProvince(_ context.Context, province string, exclude []domain.Role) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.User
	for _, u := range r.users {
		if !u.Active || u.Province == nil || !policy.MatchesProvince(*u.Province, "", province) {
			continue
		}
		skip := false
		for _, role := range exclude {
			if u.Role == role {
				skip = true
			}
		}
		if !skip {
			out = append(out, u)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type memoryShipments struct {
	mu        sync.Mutex
	shipments map[string]domain.Shipment
	history   []domain.ShipmentHistory
}

func newMemoryShipments() *memoryShipments {
	return &memoryShipments{shipments: map[string]domain.Shipment{}}
}

func (r *memoryShipments) put(s domain.Shipment) domain.Shipment {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	r.shipments[s.ID] = s
	return s
}

func (r *memoryShipments) Create(_ context.Context, shipment *domain.Shipment) error {
	stored := r.put(*shipment)
	*shipment = stored
	return nil
}

func (r *memoryShipments) GetByID(_ context.Context, id string) (*domain.Shipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.shipments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &s, nil
}

func (r *memoryShipments) GetByTrackingNumber(_ context.Context, trackingNumber string) (*domain.Shipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.shipments {
		if s.TrackingNumber == trackingNumber {
			s := s
			return &s, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryShipments) List(_ context.Context, filter repository.ShipmentFilter) ([]domain.Shipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Shipment
	for _, s := range r.shipments {
		s := s
		if filter.Viewer != nil && !policy.CanView(*filter.Viewer, &s) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryShipments) ListCreatedBefore(_ context.Context, status domain.ShipmentStatus, cutoff time.Time, _ int) ([]domain.Shipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Shipment
	for _, s := range r.shipments {
		if s.Status == status && s.CreatedAt.Before(cutoff) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryShipments) Transition(_ context.Context, id string, fn repository.TransitionFunc) (*domain.Shipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.shipments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	next, history, err := fn(current)
	if err != nil {
		return nil, err
	}
	next.UpdatedAt = time.Now()
	r.shipments[id] = *next
	if history != nil {
		history.ID = uuid.NewString()
		history.ShipmentID = id
		history.CreatedAt = time.Now()
		r.history = append(r.history, *history)
	}
	return next, nil
}

func (r *memoryShipments) ListByShipment(_ context.Context, shipmentID string) ([]domain.ShipmentHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.ShipmentHistory
	for _, h := range r.history {
		if h.ShipmentID == shipmentID {
			out = append(out, h)
		}
	}
	return out, nil
}

type memoryProducts struct {
	mu       sync.Mutex
	products map[string]domain.Product
}

func newMemoryProducts() *memoryProducts {
	return &memoryProducts{products: map[string]domain.Product{}}
}

func (r *memoryProducts) Create(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	product.ID = uuid.NewString()
	product.CreatedAt = time.Now()
	r.products[product.ID] = *product
	return nil
}

func (r *memoryProducts) Update(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[product.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.products[product.ID] = *product
	return nil
}

func (r *memoryProducts) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.products, id)
	return nil
}

func (r *memoryProducts) GetByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &p, nil
}

func (r *memoryProducts) ListByTrackingNumber(_ context.Context, trackingNumber string) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Product
	for _, p := range r.products {
		if p.ShipmentTrackingNumber == trackingNumber {
			out = append(out, p)
		}
	}
	return out, nil
}

type memoryNotifications struct {
	mu    sync.Mutex
	items []domain.Notification
	fail  error
}

func (r *memoryNotifications) Create(_ context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	n.ID = uuid.NewString()
	n.CreatedAt = time.Now()
	r.items = append(r.items, *n)
	return nil
}

func (r *memoryNotifications) ListByUser(_ context.Context, userID string, _, _ int) ([]domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Notification
	for _, n := range r.items {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *memoryNotifications) CountUnread(_ context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, n := range r.items {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *memoryNotifications) MarkRead(_ context.Context, id, userID string) (*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id && r.items[i].UserID == userID {
			r.items[i].IsRead = true
			n := r.items[i]
			return &n, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func strPtr(s string) *string { return &s }

func statusPtr(s domain.ShipmentStatus) *domain.ShipmentStatus { return &s }

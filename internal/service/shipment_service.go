package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/shipment-service/internal/domain"
	"github.com/spec-kit/shipment-service/internal/events"
	"github.com/spec-kit/shipment-service/internal/policy"
	"github.com/spec-kit/shipment-service/internal/repository"
	"github.com/spec-kit/shipment-service/internal/statemachine"
	apperrors "github.com/spec-kit/shipment-service/pkg/util/errorutil"
)

// ShipmentService coordinates shipment workflows.
type ShipmentService struct {
	shipments    repository.ShipmentRepository
	history      repository.ShipmentHistoryRepository
	users        repository.UserRepository
	notifier     NotificationSink
	dispatcher   events.Dispatcher
	logger       *zap.Logger
	now          func() time.Time
	pendingAfter time.Duration
	onRouteAfter time.Duration
}

// ShipmentDependencies bundles collaborators for the shipment service.
type ShipmentDependencies struct {
	ShipmentRepo repository.ShipmentRepository
	HistoryRepo  repository.ShipmentHistoryRepository
	UserRepo     repository.UserRepository
	Notifier     NotificationSink
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
	Now          func() time.Time
	// PendingAfter and OnRouteAfter are the automatic updater thresholds.
	PendingAfter time.Duration
	OnRouteAfter time.Duration
}

// ShipmentCreateInput describes shipment creation payload.
type ShipmentCreateInput struct {
	FromProvince string
	ToProvince   string
	Description  string
}

// ShipmentListFilter describes listing filters.
type ShipmentListFilter struct {
	Statuses     []domain.ShipmentStatus
	FromProvince *string
	ToProvince   *string
	Limit        int
	Offset       int
}

// AutoUpdateReport summarizes one run of the automatic updater.
type AutoUpdateReport struct {
	MovedOnRoute int `json:"moved_on_route"`
	Delivered    int `json:"delivered"`
	Skipped      int `json:"skipped"`
	Failed       int `json:"failed"`
}

// NewShipmentService constructs the service.
func NewShipmentService(deps ShipmentDependencies) *ShipmentService {
	s := &ShipmentService{
		shipments:    deps.ShipmentRepo,
		history:      deps.HistoryRepo,
		users:        deps.UserRepo,
		notifier:     deps.Notifier,
		dispatcher:   deps.Dispatcher,
		logger:       deps.Logger,
		now:          deps.Now,
		pendingAfter: deps.PendingAfter,
		onRouteAfter: deps.OnRouteAfter,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.pendingAfter <= 0 {
		s.pendingAfter = 24 * time.Hour
	}
	if s.onRouteAfter <= 0 {
		s.onRouteAfter = 72 * time.Hour
	}
	return s
}

// CreateShipment registers a shipment sent by actor and assigns a receiver when
// the destination province has a non-admin user.
func (s *ShipmentService) CreateShipment(ctx context.Context, actor domain.Actor, input ShipmentCreateInput) (*domain.Shipment, error) {
	if !policy.Can(actor.Role, policy.ActionCreateShipment) {
		return nil, apperrors.NewForbidden("insufficient role")
	}
	from := strings.TrimSpace(input.FromProvince)
	to := strings.TrimSpace(input.ToProvince)
	if err := validateRoute(from, to); err != nil {
		return nil, err
	}

	now := s.now()
	shipment := &domain.Shipment{
		TrackingNumber: generateTrackingNumber(now),
		FromProvince:   from,
		ToProvince:     to,
		Description:    strings.TrimSpace(input.Description),
		Status:         domain.ShipmentStatusPending,
		SenderID:       actor.ID,
	}

	candidates, err := s.users.ListByProvince(ctx, to, []domain.Role{domain.RoleSuperAdmin, domain.RoleAdmin})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if len(candidates) > 0 {
		receiverID := candidates[0].ID
		shipment.ReceiverID = &receiverID
	}

	if err := s.shipments.Create(ctx, shipment); err != nil {
		return nil, apperrors.MapError(err)
	}

	if notice, ok := statemachine.CreatedNotice(shipment); ok {
		s.emit(ctx, notice)
	}
	s.publishEvent(ctx, events.Event{
		Type:       events.EventShipmentCreated,
		ShipmentID: shipment.ID,
		ActorID:    &actor.ID,
		Payload: events.ShipmentCreatedPayload{
			TrackingNumber: shipment.TrackingNumber,
			FromProvince:   shipment.FromProvince,
			ToProvince:     shipment.ToProvince,
			ReceiverID:     shipment.ReceiverID,
		},
	})
	return shipment, nil
}

// GetShipment returns a shipment the actor may view.
func (s *ShipmentService) GetShipment(ctx context.Context, actor domain.Actor, id string) (*domain.Shipment, error) {
	if !policy.Can(actor.Role, policy.ActionViewShipments) {
		return nil, apperrors.NewForbidden("insufficient role")
	}
	shipment, err := s.shipments.GetByID(ctx, id)
	if err != nil {
		return nil, mapShipmentError(err, id)
	}
	if !policy.CanView(actor, shipment) {
		return nil, apperrors.NewForbidden("access denied")
	}
	return shipment, nil
}

// TrackShipment looks a shipment up by its public tracking number.
func (s *ShipmentService) TrackShipment(ctx context.Context, trackingNumber string) (*domain.Shipment, error) {
	trackingNumber = strings.ToUpper(strings.TrimSpace(trackingNumber))
	if trackingNumber == "" {
		return nil, apperrors.NewValidationError("tracking number required", nil)
	}
	shipment, err := s.shipments.GetByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("shipment", map[string]any{"tracking_number": trackingNumber})
		}
		return nil, apperrors.MapError(err)
	}
	return shipment, nil
}

// ListShipments returns shipments visible to actor.
func (s *ShipmentService) ListShipments(ctx context.Context, actor domain.Actor, filter ShipmentListFilter) ([]domain.Shipment, error) {
	if !policy.Can(actor.Role, policy.ActionViewShipments) {
		return nil, apperrors.NewForbidden("insufficient role")
	}
	viewer := actor
	items, err := s.shipments.List(ctx, repository.ShipmentFilter{
		Statuses:     filter.Statuses,
		FromProvince: filter.FromProvince,
		ToProvince:   filter.ToProvince,
		Viewer:       &viewer,
		Limit:        filter.Limit,
		Offset:       filter.Offset,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

// UpdateStatus applies the province/branch policy and the full state machine.
func (s *ShipmentService) UpdateStatus(ctx context.Context, actor domain.Actor, shipmentID string, requested *domain.ShipmentStatus) (*domain.Shipment, error) {
	if !policy.Can(actor.Role, policy.ActionUpdateShipmentStatus) {
		return nil, apperrors.NewForbidden("insufficient role")
	}
	if requested == nil {
		if actor.Role.IsAdmin() {
			return nil, apperrors.NewValidationError("status required", nil)
		}
		return nil, apperrors.NewForbidden(policy.ErrStatusRequired.Error())
	}
	if !statemachine.Full.Recognizes(*requested) {
		return nil, mapShipmentError(fmt.Errorf("%w: %q", statemachine.ErrUnrecognizedStatus, *requested), shipmentID)
	}

	check := func(current *domain.Shipment) error {
		return policy.CanModify(actor, current, requested)
	}
	return s.transition(ctx, &actor, shipmentID, *requested, statemachine.Full, check)
}

// UpdateBasicStatus applies the sender/receiver policy and the three-state machine.
func (s *ShipmentService) UpdateBasicStatus(ctx context.Context, actor domain.Actor, shipmentID string, requested domain.ShipmentStatus) (*domain.Shipment, error) {
	if !policy.Can(actor.Role, policy.ActionUpdateShipmentBasic) {
		return nil, apperrors.NewForbidden("insufficient role")
	}
	if !statemachine.Basic.Recognizes(requested) {
		return nil, mapShipmentError(fmt.Errorf("%w: %q", statemachine.ErrUnrecognizedStatus, requested), shipmentID)
	}

	check := func(current *domain.Shipment) error {
		return policy.CanModifyBasic(actor, current, requested)
	}
	return s.transition(ctx, &actor, shipmentID, requested, statemachine.Basic, check)
}

// ListHistory returns the transition audit trail of a shipment.
func (s *ShipmentService) ListHistory(ctx context.Context, actor domain.Actor, shipmentID string) ([]domain.ShipmentHistory, error) {
	if !policy.Can(actor.Role, policy.ActionViewAuditLog) {
		return nil, apperrors.NewForbidden("insufficient role")
	}
	if _, err := s.shipments.GetByID(ctx, shipmentID); err != nil {
		return nil, mapShipmentError(err, shipmentID)
	}
	entries, err := s.history.ListByShipment(ctx, shipmentID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

// AutoUpdateStatuses advances stale shipments: on_route ones older than the
// on-route threshold are delivered, then pending ones older than the pending
// threshold go on route. Per-shipment failures are logged and counted.
func (s *ShipmentService) AutoUpdateStatuses(ctx context.Context) (AutoUpdateReport, error) {
	var report AutoUpdateReport
	now := s.now()

	onRoute, err := s.shipments.ListCreatedBefore(ctx, domain.ShipmentStatusOnRoute, now.Add(-s.onRouteAfter), 0)
	if err != nil {
		return report, apperrors.MapError(err)
	}
	for _, shipment := range onRoute {
		s.autoAdvance(ctx, shipment, domain.ShipmentStatusOnRoute, domain.ShipmentStatusDelivered, &report.Delivered, &report)
	}

	pending, err := s.shipments.ListCreatedBefore(ctx, domain.ShipmentStatusPending, now.Add(-s.pendingAfter), 0)
	if err != nil {
		return report, apperrors.MapError(err)
	}
	for _, shipment := range pending {
		s.autoAdvance(ctx, shipment, domain.ShipmentStatusPending, domain.ShipmentStatusOnRoute, &report.MovedOnRoute, &report)
	}

	s.logger.Info("automatic status update finished",
		zap.Int("moved_on_route", report.MovedOnRoute),
		zap.Int("delivered", report.Delivered),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed))
	return report, nil
}

func (s *ShipmentService) autoAdvance(ctx context.Context, shipment domain.Shipment, from, to domain.ShipmentStatus, counter *int, report *AutoUpdateReport) {
	check := func(current *domain.Shipment) error {
		if current.Status != from {
			return errStale
		}
		return nil
	}
	_, err := s.transition(ctx, nil, shipment.ID, to, statemachine.Full, check)
	switch {
	case err == nil:
		*counter++
	case errors.Is(err, errStale):
		report.Skipped++
	default:
		report.Failed++
		s.logger.Error("automatic status update failed",
			zap.String("shipment_id", shipment.ID),
			zap.String("target_status", string(to)),
			zap.Error(err))
	}
}

// transition runs check and the state machine against the locked row, writes
// the result and history atomically, then emits notifications. A nil actor marks
// a scheduler-driven change.
func (s *ShipmentService) transition(ctx context.Context, actor *domain.Actor, shipmentID string, requested domain.ShipmentStatus, variant statemachine.Variant, check func(*domain.Shipment) error) (*domain.Shipment, error) {
	var result *statemachine.Result
	updated, err := s.shipments.Transition(ctx, shipmentID, func(current domain.Shipment) (*domain.Shipment, *domain.ShipmentHistory, error) {
		if err := check(&current); err != nil {
			return nil, nil, err
		}
		applied, err := statemachine.Apply(&current, requested, variant, s.now())
		if err != nil {
			return nil, nil, err
		}
		result = applied

		var history *domain.ShipmentHistory
		if applied.Changed() {
			history = &domain.ShipmentHistory{OldStatus: applied.OldStatus, NewStatus: applied.Shipment.Status}
			if actor != nil {
				history.ChangedBy = &actor.ID
			}
		}
		next := applied.Shipment
		return &next, history, nil
	})
	if err != nil {
		if errors.Is(err, errStale) {
			return nil, err
		}
		return nil, mapShipmentError(err, shipmentID)
	}

	for _, notice := range result.Notices {
		s.emit(ctx, notice)
	}
	if result.Changed() {
		source := "scheduler"
		var actorID *string
		if actor != nil {
			source = variant.String()
			actorID = &actor.ID
		}
		s.publishEvent(ctx, events.Event{
			Type:       events.EventShipmentStatusChanged,
			ShipmentID: updated.ID,
			ActorID:    actorID,
			Payload: events.ShipmentStatusChangedPayload{
				TrackingNumber: updated.TrackingNumber,
				OldStatus:      result.OldStatus,
				NewStatus:      updated.Status,
				Source:         source,
			},
		})
	}
	return updated, nil
}

func (s *ShipmentService) emit(ctx context.Context, notice statemachine.Notice) {
	if s.notifier == nil {
		return
	}
	s.notifier.Emit(ctx, notice)
}

func (s *ShipmentService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func validateRoute(from, to string) error {
	details := map[string]any{}
	if !domain.IsProvince(from) {
		details["from_province"] = "unknown province"
	}
	if !domain.IsProvince(to) {
		details["to_province"] = "unknown province"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid province", details)
	}
	if from == to {
		return apperrors.NewValidationError("origin and destination provinces must differ", nil)
	}
	return nil
}

// generateTrackingNumber builds "SS" + base36 epoch millis + 4 random base36
// characters, upper-cased. Uniqueness is best effort; the store rejects repeats.
func generateTrackingNumber(now time.Time) string {
	millis := strconv.FormatInt(now.UnixMilli(), 36)
	suffix := strconv.FormatInt(rand.Int63n(36*36*36*36), 36)
	suffix = strings.Repeat("0", 4-len(suffix)) + suffix
	return "SS" + strings.ToUpper(millis+suffix)
}

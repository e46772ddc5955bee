package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/shipment-service/internal/domain"
	"github.com/spec-kit/shipment-service/internal/events"
	"github.com/spec-kit/shipment-service/internal/repository"
	"github.com/spec-kit/shipment-service/internal/statemachine"
	apperrors "github.com/spec-kit/shipment-service/pkg/util/errorutil"
)

// NotificationSink receives notifications produced by shipment workflows.
// Emit never fails the caller.
type NotificationSink interface {
	Emit(ctx context.Context, notice statemachine.Notice)
}

// NotificationService stores notifications and serves them to their owners.
type NotificationService struct {
	repo       repository.NotificationRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// NewNotificationService creates the service.
func NewNotificationService(repo repository.NotificationRepository, dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{repo: repo, dispatcher: dispatcher, logger: logger, now: time.Now}
}

// Emit persists the notice and fans it out. Failures are logged and dropped.
func (n *NotificationService) Emit(ctx context.Context, notice statemachine.Notice) {
	notification := &domain.Notification{
		UserID:  notice.UserID,
		Title:   notice.Title,
		Message: notice.Message,
		Type:    notice.Type,
	}
	if notice.ShipmentID != "" {
		shipmentID := notice.ShipmentID
		notification.ShipmentID = &shipmentID
	}

	if err := n.repo.Create(ctx, notification); err != nil {
		n.logger.Warn("notification not stored",
			zap.String("user_id", notice.UserID),
			zap.String("type", string(notice.Type)),
			zap.Error(err))
		return
	}

	if n.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventNotificationCreated,
		Timestamp: n.now(),
		Payload: events.NotificationCreatedPayload{
			NotificationID: notification.ID,
			UserID:         notification.UserID,
			Title:          notification.Title,
			Message:        notification.Message,
			Type:           notification.Type,
			CreatedAt:      notification.CreatedAt,
		},
	}
	if notification.ShipmentID != nil {
		event.ShipmentID = *notification.ShipmentID
	}
	if err := n.dispatcher.Publish(ctx, event); err != nil {
		n.logger.Warn("notification fan-out failed",
			zap.String("notification_id", notification.ID),
			zap.Error(err))
	}
}

// List returns the actor's notifications, newest first.
func (n *NotificationService) List(ctx context.Context, actor domain.Actor, limit, offset int) ([]domain.Notification, error) {
	items, err := n.repo.ListByUser(ctx, actor.ID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

// UnreadCount counts the actor's unread notifications.
func (n *NotificationService) UnreadCount(ctx context.Context, actor domain.Actor) (int, error) {
	count, err := n.repo.CountUnread(ctx, actor.ID)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	return count, nil
}

// MarkRead flags one of the actor's notifications as read. Notifications owned
// by someone else are reported as missing.
func (n *NotificationService) MarkRead(ctx context.Context, actor domain.Actor, id string) (*domain.Notification, error) {
	notification, err := n.repo.MarkRead(ctx, id, actor.ID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("notification", map[string]any{"notification_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return notification, nil
}

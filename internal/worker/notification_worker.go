package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/shipment-service/internal/events"
)

// RealtimePublisher pushes stored notifications to per-user Redis channels.
type RealtimePublisher struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// NewRealtimePublisher creates a publisher writing to <prefix><user_id>.
func NewRealtimePublisher(client *redis.Client, prefix string, logger *zap.Logger) *RealtimePublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RealtimePublisher{client: client, prefix: prefix, logger: logger}
}

// Channel returns the channel a user's notifications are published on.
func (p *RealtimePublisher) Channel(userID string) string {
	return p.prefix + userID
}

// HandleNotificationCreated publishes the notification payload as JSON.
func (p *RealtimePublisher) HandleNotificationCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.NotificationCreatedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if err := p.client.Publish(ctx, p.Channel(payload.UserID), body).Err(); err != nil {
		return fmt.Errorf("publish notification %s: %w", payload.NotificationID, err)
	}
	return nil
}

// StartNotificationWorker registers notification fan-out and status change logging.
func StartNotificationWorker(dispatcher events.Dispatcher, publisher *RealtimePublisher, logger *zap.Logger) {
	if dispatcher == nil {
		return
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if publisher != nil {
		dispatcher.Subscribe(events.EventNotificationCreated, publisher.HandleNotificationCreated)
	}
	dispatcher.Subscribe(events.EventShipmentStatusChanged, func(_ context.Context, event events.Event) error {
		payload, ok := event.Payload.(events.ShipmentStatusChangedPayload)
		if !ok {
			return nil
		}
		fields := []zap.Field{
			zap.String("shipment_id", event.ShipmentID),
			zap.String("tracking_number", payload.TrackingNumber),
			zap.String("old_status", string(payload.OldStatus)),
			zap.String("new_status", string(payload.NewStatus)),
			zap.String("source", payload.Source),
		}
		if event.ActorID != nil {
			fields = append(fields, zap.String("actor_id", *event.ActorID))
		}
		logger.Info("shipment status changed", fields...)
		return nil
	})
}

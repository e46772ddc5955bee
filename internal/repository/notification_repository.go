package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/shipment-service/internal/domain"
)

// NotificationRepository persists per-user notifications.
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	// MarkRead flags the notification read when it belongs to userID, else pgx.ErrNoRows.
	MarkRead(ctx context.Context, id, userID string) (*domain.Notification, error)
}

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository constructs repository.
func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &notificationRepository{pool: pool}
}

const notificationColumns = `id, user_id, shipment_id, title, message, type, is_read, created_at`

func (r *notificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	const query = `
        INSERT INTO notifications (user_id, shipment_id, title, message, type)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, is_read, created_at`
	return r.pool.QueryRow(ctx, query,
		notification.UserID,
		notification.ShipmentID,
		notification.Title,
		notification.Message,
		notification.Type,
	).Scan(&notification.ID, &notification.IsRead, &notification.CreatedAt)
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Notification, error) {
	limit, offset = pagination(limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM notifications WHERE user_id=$1 ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		notificationColumns, limit, offset)
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := scanNotification(rows, &n); err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id=$1 AND NOT is_read`, userID).Scan(&count)
	return count, err
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, userID string) (*domain.Notification, error) {
	query := `UPDATE notifications SET is_read=TRUE WHERE id=$1 AND user_id=$2 RETURNING ` + notificationColumns
	var n domain.Notification
	if err := scanNotification(r.pool.QueryRow(ctx, query, id, userID), &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func scanNotification(row pgx.Row, n *domain.Notification) error {
	return row.Scan(
		&n.ID,
		&n.UserID,
		&n.ShipmentID,
		&n.Title,
		&n.Message,
		&n.Type,
		&n.IsRead,
		&n.CreatedAt,
	)
}

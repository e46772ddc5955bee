package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/shipment-service/internal/domain"
)

// ShipmentHistoryRepository reads the transition audit trail. Entries are written
// by ShipmentRepository.Transition inside the same transaction as the status change.
type ShipmentHistoryRepository interface {
	ListByShipment(ctx context.Context, shipmentID string) ([]domain.ShipmentHistory, error)
}

type shipmentHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewShipmentHistoryRepository builds repository.
func NewShipmentHistoryRepository(pool *pgxpool.Pool) ShipmentHistoryRepository {
	return &shipmentHistoryRepository{pool: pool}
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertHistory(ctx context.Context, q queryRower, history *domain.ShipmentHistory) error {
	const query = `
        INSERT INTO shipment_history (shipment_id, changed_by, old_status, new_status)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return q.QueryRow(ctx, query,
		history.ShipmentID,
		history.ChangedBy,
		history.OldStatus,
		history.NewStatus,
	).Scan(&history.ID, &history.CreatedAt)
}

func (r *shipmentHistoryRepository) ListByShipment(ctx context.Context, shipmentID string) ([]domain.ShipmentHistory, error) {
	const query = `
        SELECT id, shipment_id, changed_by, old_status, new_status, created_at
        FROM shipment_history WHERE shipment_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, shipmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ShipmentHistory
	for rows.Next() {
		var history domain.ShipmentHistory
		if err := rows.Scan(
			&history.ID,
			&history.ShipmentID,
			&history.ChangedBy,
			&history.OldStatus,
			&history.NewStatus,
			&history.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, history)
	}
	return result, rows.Err()
}

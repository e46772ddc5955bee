package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/shipment-service/internal/domain"
)

// ShipmentFilter captures listing parameters.
type ShipmentFilter struct {
	Statuses     []domain.ShipmentStatus
	FromProvince *string
	ToProvince   *string
	SenderID     *string
	// Viewer scopes results to shipments a non-admin actor may see.
	Viewer *domain.Actor
	Limit  int
	Offset int
}

// TransitionFunc receives the locked current row and returns the row to write
// plus an optional history entry. Returning an error aborts the transaction.
type TransitionFunc func(current domain.Shipment) (*domain.Shipment, *domain.ShipmentHistory, error)

// ShipmentRepository encapsulates shipment persistence.
type ShipmentRepository interface {
	Create(ctx context.Context, shipment *domain.Shipment) error
	GetByID(ctx context.Context, id string) (*domain.Shipment, error)
	GetByTrackingNumber(ctx context.Context, trackingNumber string) (*domain.Shipment, error)
	List(ctx context.Context, filter ShipmentFilter) ([]domain.Shipment, error)
	// ListCreatedBefore returns shipments in status created before cutoff, oldest first.
	ListCreatedBefore(ctx context.Context, status domain.ShipmentStatus, cutoff time.Time, limit int) ([]domain.Shipment, error)
	// Transition reads, validates and writes one shipment atomically under a row lock.
	Transition(ctx context.Context, id string, fn TransitionFunc) (*domain.Shipment, error)
}

type shipmentRepository struct {
	pool *pgxpool.Pool
}

// NewShipmentRepository instantiates repository.
func NewShipmentRepository(pool *pgxpool.Pool) ShipmentRepository {
	return &shipmentRepository{pool: pool}
}

const shipmentColumns = `id, tracking_number, from_province, to_province, description, status,
               sender_id, receiver_id, shipped_at, delivered_at, created_at, updated_at`

func (r *shipmentRepository) Create(ctx context.Context, shipment *domain.Shipment) error {
	const query = `
        INSERT INTO shipments (tracking_number, from_province, to_province, description, status, sender_id, receiver_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		shipment.TrackingNumber,
		shipment.FromProvince,
		shipment.ToProvince,
		shipment.Description,
		shipment.Status,
		shipment.SenderID,
		shipment.ReceiverID,
	).Scan(&shipment.ID, &shipment.CreatedAt, &shipment.UpdatedAt)
}

func (r *shipmentRepository) GetByID(ctx context.Context, id string) (*domain.Shipment, error) {
	return fetchShipment(r.pool.QueryRow(ctx, `SELECT `+shipmentColumns+` FROM shipments WHERE id=$1`, id))
}

func (r *shipmentRepository) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*domain.Shipment, error) {
	return fetchShipment(r.pool.QueryRow(ctx, `SELECT `+shipmentColumns+` FROM shipments WHERE tracking_number=$1`, trackingNumber))
}

func (r *shipmentRepository) List(ctx context.Context, filter ShipmentFilter) ([]domain.Shipment, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.FromProvince != nil {
		args = append(args, *filter.FromProvince)
		clauses = append(clauses, fmt.Sprintf("from_province=$%d", len(args)))
	}
	if filter.ToProvince != nil {
		args = append(args, *filter.ToProvince)
		clauses = append(clauses, fmt.Sprintf("to_province=$%d", len(args)))
	}
	if filter.SenderID != nil {
		args = append(args, *filter.SenderID)
		clauses = append(clauses, fmt.Sprintf("sender_id=$%d", len(args)))
	}
	if filter.Viewer != nil && !filter.Viewer.Role.IsAdmin() {
		clause, viewerArgs := viewerClause(*filter.Viewer, len(args)+1)
		clauses = append(clauses, clause)
		args = append(args, viewerArgs...)
	}

	limit, offset := pagination(filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM shipments WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		shipmentColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanShipments(rows)
}

// viewerClause is the SQL form of policy.CanView for a non-admin viewer, with
// placeholders numbered from first. Any change here must be mirrored there.
func viewerClause(viewer domain.Actor, first int) (string, []any) {
	args := []any{viewer.ID, strings.TrimSpace(viewer.Province), viewer.Branch}
	clause := fmt.Sprintf(`(sender_id=$%[1]d OR receiver_id=$%[1]d
            OR ($%[2]d <> '' AND (LOWER(TRIM(from_province))=LOWER($%[2]d) OR LOWER(TRIM(to_province))=LOWER($%[2]d)))
            OR ($%[3]d <> '' AND ((TRIM(from_province) <> '' AND POSITION(LOWER(TRIM(from_province)) IN LOWER($%[3]d)) > 0)
                                 OR (TRIM(to_province) <> '' AND POSITION(LOWER(TRIM(to_province)) IN LOWER($%[3]d)) > 0))))`,
		first, first+1, first+2)
	return clause, args
}

func (r *shipmentRepository) ListCreatedBefore(ctx context.Context, status domain.ShipmentStatus, cutoff time.Time, limit int) ([]domain.Shipment, error) {
	if limit <= 0 {
		limit = 500
	}
	query := fmt.Sprintf(`SELECT %s FROM shipments WHERE status=$1 AND created_at < $2 ORDER BY created_at ASC LIMIT %d`,
		shipmentColumns, limit)
	rows, err := r.pool.Query(ctx, query, status, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanShipments(rows)
}

func (r *shipmentRepository) Transition(ctx context.Context, id string, fn TransitionFunc) (*domain.Shipment, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	current, err := fetchShipment(tx.QueryRow(ctx, `SELECT `+shipmentColumns+` FROM shipments WHERE id=$1 FOR UPDATE`, id))
	if err != nil {
		return nil, err
	}

	next, history, err := fn(*current)
	if err != nil {
		return nil, err
	}
	if next == nil {
		return nil, errors.New("transition returned no shipment")
	}

	const update = `
        UPDATE shipments SET status=$1, receiver_id=$2, shipped_at=$3, delivered_at=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING updated_at`
	if err := tx.QueryRow(ctx, update,
		next.Status,
		next.ReceiverID,
		next.ShippedAt,
		next.DeliveredAt,
		id,
	).Scan(&next.UpdatedAt); err != nil {
		return nil, err
	}

	if history != nil {
		history.ShipmentID = id
		if err := insertHistory(ctx, tx, history); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return next, nil
}

func fetchShipment(row pgx.Row) (*domain.Shipment, error) {
	var shipment domain.Shipment
	if err := scanShipment(row, &shipment); err != nil {
		return nil, err
	}
	return &shipment, nil
}

func scanShipment(row pgx.Row, shipment *domain.Shipment) error {
	return row.Scan(
		&shipment.ID,
		&shipment.TrackingNumber,
		&shipment.FromProvince,
		&shipment.ToProvince,
		&shipment.Description,
		&shipment.Status,
		&shipment.SenderID,
		&shipment.ReceiverID,
		&shipment.ShippedAt,
		&shipment.DeliveredAt,
		&shipment.CreatedAt,
		&shipment.UpdatedAt,
	)
}

func scanShipments(rows pgx.Rows) ([]domain.Shipment, error) {
	var result []domain.Shipment
	for rows.Next() {
		var shipment domain.Shipment
		if err := scanShipment(rows, &shipment); err != nil {
			return nil, err
		}
		result = append(result, shipment)
	}
	return result, rows.Err()
}

package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/shipment-service/internal/domain"
)

// ProductRepository stores items attached to shipments.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	ListByTrackingNumber(ctx context.Context, trackingNumber string) ([]domain.Product, error)
}

type productRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository constructs repository.
func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &productRepository{pool: pool}
}

const productColumns = `id, shipment_tracking_number, name, description, quantity, weight, price,
               sender_name, sender_phone, receiver_name, receiver_phone, receiver_address,
               created_by, created_at, updated_at`

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	const query = `
        INSERT INTO products (shipment_tracking_number, name, description, quantity, weight, price,
            sender_name, sender_phone, receiver_name, receiver_phone, receiver_address, created_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		product.ShipmentTrackingNumber,
		product.Name,
		product.Description,
		product.Quantity,
		product.Weight,
		product.Price,
		product.SenderName,
		product.SenderPhone,
		product.ReceiverName,
		product.ReceiverPhone,
		product.ReceiverAddress,
		product.CreatedBy,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	const query = `
        UPDATE products SET name=$1, description=$2, quantity=$3, weight=$4, price=$5,
            sender_name=$6, sender_phone=$7, receiver_name=$8, receiver_phone=$9, receiver_address=$10,
            updated_at=NOW()
        WHERE id=$11
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		product.Name,
		product.Description,
		product.Quantity,
		product.Weight,
		product.Price,
		product.SenderName,
		product.SenderPhone,
		product.ReceiverName,
		product.ReceiverPhone,
		product.ReceiverAddress,
		product.ID,
	).Scan(&product.UpdatedAt)
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	if err := scanProduct(r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1`, id), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) ListByTrackingNumber(ctx context.Context, trackingNumber string) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE shipment_tracking_number=$1 ORDER BY created_at ASC`,
		trackingNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		var product domain.Product
		if err := scanProduct(rows, &product); err != nil {
			return nil, err
		}
		result = append(result, product)
	}
	return result, rows.Err()
}

func scanProduct(row pgx.Row, product *domain.Product) error {
	return row.Scan(
		&product.ID,
		&product.ShipmentTrackingNumber,
		&product.Name,
		&product.Description,
		&product.Quantity,
		&product.Weight,
		&product.Price,
		&product.SenderName,
		&product.SenderPhone,
		&product.ReceiverName,
		&product.ReceiverPhone,
		&product.ReceiverAddress,
		&product.CreatedBy,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
}

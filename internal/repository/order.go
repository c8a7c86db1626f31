package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/partnerlink/platform/internal/domain"
	"github.com/partnerlink/platform/internal/infra"
)

type orderRepo struct{}

// NewOrderRepository returns a pgx-backed OrderRepository.
func NewOrderRepository() OrderRepository {
	return &orderRepo{}
}

const orderColumns = `o.id, o.partner_id, o.package_id, p.name, o.amount, o.sales_units,
	o.status, o.payment_method, o.payment_reference, o.created_at, o.paid_at`

func (r *orderRepo) Insert(ctx context.Context, db DBTX, order *domain.Order) error {
	_, err := db.Exec(ctx, `
		INSERT INTO orders
		  (id, partner_id, package_id, amount, sales_units, status, payment_method,
		   payment_reference, created_at, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		order.ID,
		order.PartnerID,
		order.PackageID,
		infra.Int64ToNumeric(order.Amount),
		order.SalesUnits,
		string(order.Status),
		order.PaymentMethod,
		order.PaymentReference,
		order.CreatedAt,
		order.PaidAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *orderRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Order, error) {
	row := db.QueryRow(ctx, `
		SELECT `+orderColumns+`
		FROM orders o JOIN packages p ON p.id = o.package_id
		WHERE o.id = $1`, id)
	return scanOrder(row)
}

func (r *orderRepo) LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Order, error) {
	// FOR UPDATE OF o: only the order row needs locking, not the package.
	row := tx.QueryRow(ctx, `
		SELECT `+orderColumns+`
		FROM orders o JOIN packages p ON p.id = o.package_id
		WHERE o.id = $1 FOR UPDATE OF o`, id)
	return scanOrder(row)
}

func (r *orderRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.OrderStatus, paidAt *time.Time) error {
	_, err := tx.Exec(ctx, `
		UPDATE orders SET status = $1, paid_at = COALESCE($2, paid_at)
		WHERE id = $3`, string(status), paidAt, id)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

func (r *orderRepo) ListByPartner(ctx context.Context, db DBTX, partnerID uuid.UUID, limit, offset int) ([]domain.Order, error) {
	rows, err := db.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders o JOIN packages p ON p.id = o.package_id
		WHERE o.partner_id = $1
		ORDER BY o.created_at DESC
		LIMIT $2 OFFSET $3`, partnerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return collectOrders(rows)
}

func (r *orderRepo) List(ctx context.Context, db DBTX, status *domain.OrderStatus, limit, offset int) ([]domain.Order, error) {
	rows, err := db.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders o JOIN packages p ON p.id = o.package_id
		WHERE ($1::text IS NULL OR o.status = $1)
		ORDER BY o.created_at DESC
		LIMIT $2 OFFSET $3`, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return collectOrders(rows)
}

func collectOrders(rows pgx.Rows) ([]domain.Order, error) {
	defer rows.Close()
	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var amountNum pgtype.Numeric
	err := row.Scan(&o.ID, &o.PartnerID, &o.PackageID, &o.PackageName, &amountNum,
		&o.SalesUnits, &o.Status, &o.PaymentMethod, &o.PaymentReference,
		&o.CreatedAt, &o.PaidAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}

	o.Amount, err = infra.NumericToInt64(amountNum)
	if err != nil {
		return nil, fmt.Errorf("convert amount: %w", err)
	}
	return &o, nil
}

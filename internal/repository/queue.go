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

type commissionQueueRepo struct{}

// NewCommissionQueueRepository returns a pgx-backed CommissionQueueRepository.
func NewCommissionQueueRepository() CommissionQueueRepository {
	return &commissionQueueRepo{}
}

const queueColumns = `id, partner_id, source_order_id, level, sales_units, amount,
	window_start, window_end, status, created_at, processed_at`

func (r *commissionQueueRepo) Insert(ctx context.Context, db DBTX, c *domain.QueuedCommission) error {
	_, err := db.Exec(ctx, `
		INSERT INTO commission_queue
		  (id, partner_id, source_order_id, level, sales_units, amount,
		   window_start, window_end, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		c.ID,
		c.PartnerID,
		c.SourceOrderID,
		c.Level,
		c.SalesUnits,
		infra.Int64ToNumeric(c.Amount),
		c.WindowStart,
		c.WindowEnd,
		string(c.Status),
		c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert queued commission: %w", err)
	}
	return nil
}

// PendingGroups aggregates pending rows per partner. array_agg pins the row
// IDs read here so the settlement credit and MarkProcessed act on exactly the
// rows the totals were computed from.
func (r *commissionQueueRepo) PendingGroups(ctx context.Context, db DBTX) ([]domain.PendingCommissionGroup, error) {
	rows, err := db.Query(ctx, `
		SELECT partner_id, COALESCE(SUM(amount), 0), COALESCE(SUM(sales_units), 0),
		       COUNT(*), array_agg(id)
		FROM commission_queue
		WHERE status = 'pending'
		GROUP BY partner_id
		ORDER BY partner_id`)
	if err != nil {
		return nil, fmt.Errorf("aggregate pending commissions: %w", err)
	}
	defer rows.Close()

	var groups []domain.PendingCommissionGroup
	for rows.Next() {
		var g domain.PendingCommissionGroup
		var amountNum pgtype.Numeric
		if err := rows.Scan(&g.PartnerID, &amountNum, &g.TotalUnits, &g.RowCount, &g.RowIDs); err != nil {
			return nil, fmt.Errorf("scan pending group: %w", err)
		}
		g.TotalAmount, err = infra.NumericToInt64(amountNum)
		if err != nil {
			return nil, fmt.Errorf("convert group amount: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (r *commissionQueueRepo) MarkProcessed(ctx context.Context, tx pgx.Tx, ids []uuid.UUID, processedAt time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	tag, err := tx.Exec(ctx, `
		UPDATE commission_queue
		SET status = 'processed', processed_at = $1
		WHERE id = ANY($2) AND status = 'pending'`, processedAt, ids)
	if err != nil {
		return fmt.Errorf("mark commissions processed: %w", err)
	}
	if int(tag.RowsAffected()) != len(ids) {
		return domain.ErrConflict("commission rows changed underneath settlement")
	}
	return nil
}

func (r *commissionQueueRepo) SumPendingByPartner(ctx context.Context, db DBTX, partnerID uuid.UUID) (int64, error) {
	var sumNum pgtype.Numeric
	err := db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM commission_queue
		WHERE partner_id = $1 AND status = 'pending'`, partnerID).Scan(&sumNum)
	if err != nil {
		return 0, fmt.Errorf("sum pending commissions: %w", err)
	}
	return infra.NumericToInt64(sumNum)
}

func (r *commissionQueueRepo) ListByPartner(ctx context.Context, db DBTX, partnerID uuid.UUID, limit, offset int) ([]domain.QueuedCommission, error) {
	rows, err := db.Query(ctx, `
		SELECT `+queueColumns+` FROM commission_queue
		WHERE partner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, partnerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list queued commissions: %w", err)
	}
	defer rows.Close()

	var commissions []domain.QueuedCommission
	for rows.Next() {
		c, err := scanQueuedCommission(rows)
		if err != nil {
			return nil, err
		}
		commissions = append(commissions, *c)
	}
	return commissions, rows.Err()
}

func scanQueuedCommission(row pgx.Row) (*domain.QueuedCommission, error) {
	var c domain.QueuedCommission
	var amountNum pgtype.Numeric
	err := row.Scan(&c.ID, &c.PartnerID, &c.SourceOrderID, &c.Level, &c.SalesUnits,
		&amountNum, &c.WindowStart, &c.WindowEnd, &c.Status, &c.CreatedAt, &c.ProcessedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan queued commission: %w", err)
	}

	c.Amount, err = infra.NumericToInt64(amountNum)
	if err != nil {
		return nil, fmt.Errorf("convert amount: %w", err)
	}
	return &c, nil
}

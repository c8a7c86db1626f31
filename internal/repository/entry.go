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

type entryRepo struct{}

// NewEntryRepository returns a pgx-backed EntryRepository.
func NewEntryRepository() EntryRepository {
	return &entryRepo{}
}

const entryColumns = `id, partner_id, kind, amount, description, reference_id,
	status, created_at, processed_at`

func (r *entryRepo) Insert(ctx context.Context, db DBTX, entry *domain.LedgerEntry) error {
	_, err := db.Exec(ctx, `
		INSERT INTO ledger_entries
		  (id, partner_id, kind, amount, description, reference_id, status, created_at, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID,
		entry.PartnerID,
		string(entry.Kind),
		infra.Int64ToNumeric(entry.Amount),
		entry.Description,
		entry.ReferenceID,
		string(entry.Status),
		entry.CreatedAt,
		entry.ProcessedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

func (r *entryRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.LedgerEntry, error) {
	row := db.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM ledger_entries WHERE id = $1`, id)
	return scanEntry(row)
}

func (r *entryRepo) LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.LedgerEntry, error) {
	row := tx.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM ledger_entries WHERE id = $1 FOR UPDATE`, id)
	return scanEntry(row)
}

func (r *entryRepo) ResolveStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.EntryStatus, processedAt time.Time) error {
	_, err := tx.Exec(ctx, `
		UPDATE ledger_entries SET status = $1, processed_at = $2
		WHERE id = $3`, string(status), processedAt, id)
	if err != nil {
		return fmt.Errorf("resolve entry status: %w", err)
	}
	return nil
}

func (r *entryRepo) ListByPartner(ctx context.Context, db DBTX, partnerID uuid.UUID, limit, offset int) ([]domain.LedgerEntry, error) {
	rows, err := db.Query(ctx, `
		SELECT `+entryColumns+` FROM ledger_entries
		WHERE partner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, partnerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	return collectEntries(rows)
}

func (r *entryRepo) ListPendingPayouts(ctx context.Context, db DBTX, limit, offset int) ([]domain.LedgerEntry, error) {
	rows, err := db.Query(ctx, `
		SELECT `+entryColumns+` FROM ledger_entries
		WHERE kind = 'payout' AND status = 'pending'
		ORDER BY created_at ASC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list pending payouts: %w", err)
	}
	return collectEntries(rows)
}

func (r *entryRepo) SumByKind(ctx context.Context, db DBTX, partnerID uuid.UUID, kind domain.EntryKind) (int64, error) {
	var sumNum pgtype.Numeric
	err := db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM ledger_entries
		WHERE partner_id = $1 AND kind = $2 AND status = 'approved'`,
		partnerID, string(kind)).Scan(&sumNum)
	if err != nil {
		return 0, fmt.Errorf("sum entries by kind: %w", err)
	}
	return infra.NumericToInt64(sumNum)
}

func (r *entryRepo) SumPendingPayouts(ctx context.Context, db DBTX, partnerID uuid.UUID) (int64, error) {
	var sumNum pgtype.Numeric
	err := db.QueryRow(ctx, `
		SELECT COALESCE(SUM(-amount), 0) FROM ledger_entries
		WHERE partner_id = $1 AND kind = 'payout' AND status = 'pending'`,
		partnerID).Scan(&sumNum)
	if err != nil {
		return 0, fmt.Errorf("sum pending payouts: %w", err)
	}
	return infra.NumericToInt64(sumNum)
}

func collectEntries(rows pgx.Rows) ([]domain.LedgerEntry, error) {
	defer rows.Close()
	var entries []domain.LedgerEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

func scanEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	var e domain.LedgerEntry
	var amountNum pgtype.Numeric
	err := row.Scan(&e.ID, &e.PartnerID, &e.Kind, &amountNum, &e.Description,
		&e.ReferenceID, &e.Status, &e.CreatedAt, &e.ProcessedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan ledger entry: %w", err)
	}

	e.Amount, err = infra.NumericToInt64(amountNum)
	if err != nil {
		return nil, fmt.Errorf("convert amount: %w", err)
	}
	return &e, nil
}

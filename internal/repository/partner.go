package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/partnerlink/platform/internal/domain"
	"github.com/partnerlink/platform/internal/infra"
)

type partnerRepo struct{}

// NewPartnerRepository returns a pgx-backed PartnerRepository.
func NewPartnerRepository() PartnerRepository {
	return &partnerRepo{}
}

const partnerColumns = `id, full_name, email, password_hash, referral_code, referrer_id,
	role, rank, direct_sales_units, team_sales_units, total_earnings, wallet_balance,
	insurance_amount, direct_referrals, last_sale_at, created_at, updated_at`

func (r *partnerRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Partner, error) {
	row := db.QueryRow(ctx,
		`SELECT `+partnerColumns+` FROM partners WHERE id = $1`, id)
	return scanPartner(row)
}

func (r *partnerRepo) FindByEmail(ctx context.Context, db DBTX, email string) (*domain.Partner, error) {
	row := db.QueryRow(ctx,
		`SELECT `+partnerColumns+` FROM partners WHERE email = $1`, email)
	return scanPartner(row)
}

func (r *partnerRepo) FindByReferralCode(ctx context.Context, db DBTX, code string) (*domain.Partner, error) {
	row := db.QueryRow(ctx,
		`SELECT `+partnerColumns+` FROM partners WHERE referral_code = $1`, code)
	return scanPartner(row)
}

func (r *partnerRepo) LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Partner, error) {
	row := tx.QueryRow(ctx,
		`SELECT `+partnerColumns+` FROM partners WHERE id = $1 FOR UPDATE`, id)
	return scanPartner(row)
}

func (r *partnerRepo) Create(ctx context.Context, db DBTX, partner *domain.Partner) error {
	_, err := db.Exec(ctx, `
		INSERT INTO partners
		  (id, full_name, email, password_hash, referral_code, referrer_id, role, rank,
		   direct_sales_units, team_sales_units, total_earnings, wallet_balance,
		   insurance_amount, direct_referrals, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		partner.ID,
		partner.FullName,
		partner.Email,
		partner.PasswordHash,
		partner.ReferralCode,
		partner.ReferrerID,
		string(partner.Role),
		string(partner.Rank),
		partner.DirectSalesUnits,
		partner.TeamSalesUnits,
		infra.Int64ToNumeric(partner.TotalEarnings),
		infra.Int64ToNumeric(partner.WalletBalance),
		infra.Int64ToNumeric(partner.InsuranceAmount),
		partner.DirectReferrals,
		partner.CreatedAt,
		partner.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert partner: %w", err)
	}
	return nil
}

// ApplyWalletDelta uses server-side arithmetic with dynamic SET clauses so
// concurrent transactions never clobber each other's balances.
func (r *partnerRepo) ApplyWalletDelta(ctx context.Context, tx pgx.Tx, partnerID uuid.UUID, delta domain.WalletDelta) (*domain.Partner, error) {
	setClauses := []string{"updated_at = now()"}
	args := []interface{}{}
	argIdx := 1

	if delta.HasWalletDelta() {
		setClauses = append(setClauses, fmt.Sprintf("wallet_balance = wallet_balance + $%d", argIdx))
		args = append(args, infra.Int64ToNumeric(delta.Wallet))
		argIdx++
	}
	if delta.HasEarningsDelta() {
		setClauses = append(setClauses, fmt.Sprintf("total_earnings = total_earnings + $%d", argIdx))
		args = append(args, infra.Int64ToNumeric(delta.Earnings))
		argIdx++
	}

	args = append(args, partnerID)
	query := fmt.Sprintf(`
		UPDATE partners SET %s
		WHERE id = $%d
		RETURNING `+partnerColumns,
		strings.Join(setClauses, ", "), argIdx)

	row := tx.QueryRow(ctx, query, args...)
	return scanPartner(row)
}

func (r *partnerRepo) RecordDirectSale(ctx context.Context, tx pgx.Tx, partnerID uuid.UUID, units int64, at time.Time) error {
	_, err := tx.Exec(ctx, `
		UPDATE partners
		SET direct_sales_units = direct_sales_units + $1, last_sale_at = $2, updated_at = now()
		WHERE id = $3`, units, at, partnerID)
	if err != nil {
		return fmt.Errorf("record direct sale: %w", err)
	}
	return nil
}

func (r *partnerRepo) IncrementTeamSales(ctx context.Context, tx pgx.Tx, partnerID uuid.UUID, units int64) error {
	_, err := tx.Exec(ctx, `
		UPDATE partners
		SET team_sales_units = team_sales_units + $1, updated_at = now()
		WHERE id = $2`, units, partnerID)
	if err != nil {
		return fmt.Errorf("increment team sales: %w", err)
	}
	return nil
}

func (r *partnerRepo) IncrementDirectReferrals(ctx context.Context, db DBTX, partnerID uuid.UUID) error {
	_, err := db.Exec(ctx, `
		UPDATE partners
		SET direct_referrals = direct_referrals + 1, updated_at = now()
		WHERE id = $1`, partnerID)
	if err != nil {
		return fmt.Errorf("increment direct referrals: %w", err)
	}
	return nil
}

func (r *partnerRepo) SetRank(ctx context.Context, tx pgx.Tx, partnerID uuid.UUID, rank domain.Rank, insuranceAmount int64) error {
	_, err := tx.Exec(ctx, `
		UPDATE partners
		SET rank = $1, insurance_amount = $2, updated_at = now()
		WHERE id = $3`, string(rank), infra.Int64ToNumeric(insuranceAmount), partnerID)
	if err != nil {
		return fmt.Errorf("set rank: %w", err)
	}
	return nil
}

func (r *partnerRepo) List(ctx context.Context, db DBTX, limit, offset int) ([]domain.Partner, error) {
	rows, err := db.Query(ctx,
		`SELECT `+partnerColumns+` FROM partners ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}
	defer rows.Close()

	var partners []domain.Partner
	for rows.Next() {
		p, err := scanPartner(rows)
		if err != nil {
			return nil, err
		}
		partners = append(partners, *p)
	}
	return partners, rows.Err()
}

func scanPartner(row pgx.Row) (*domain.Partner, error) {
	var p domain.Partner
	var earningsNum, walletNum, insuranceNum pgtype.Numeric
	err := row.Scan(&p.ID, &p.FullName, &p.Email, &p.PasswordHash, &p.ReferralCode,
		&p.ReferrerID, &p.Role, &p.Rank, &p.DirectSalesUnits, &p.TeamSalesUnits,
		&earningsNum, &walletNum, &insuranceNum, &p.DirectReferrals,
		&p.LastSaleAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan partner: %w", err)
	}

	var convErr error
	p.TotalEarnings, convErr = infra.NumericToInt64(earningsNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert total_earnings: %w", convErr)
	}
	p.WalletBalance, convErr = infra.NumericToInt64(walletNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert wallet_balance: %w", convErr)
	}
	p.InsuranceAmount, convErr = infra.NumericToInt64(insuranceNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert insurance_amount: %w", convErr)
	}

	return &p, nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/partnerlink/platform/internal/domain"
	"github.com/partnerlink/platform/internal/infra"
)

type insuranceRepo struct{}

// NewInsuranceRepository returns a pgx-backed InsuranceRepository.
func NewInsuranceRepository() InsuranceRepository {
	return &insuranceRepo{}
}

func (r *insuranceRepo) Insert(ctx context.Context, db DBTX, a *domain.InsuranceAssignment) error {
	_, err := db.Exec(ctx, `
		INSERT INTO insurance_assignments (id, partner_id, rank, amount, status, assigned_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.PartnerID, string(a.Rank), infra.Int64ToNumeric(a.Amount), string(a.Status), a.AssignedAt)
	if err != nil {
		return fmt.Errorf("insert insurance assignment: %w", err)
	}
	return nil
}

func (r *insuranceRepo) ListByPartner(ctx context.Context, db DBTX, partnerID uuid.UUID) ([]domain.InsuranceAssignment, error) {
	rows, err := db.Query(ctx, `
		SELECT id, partner_id, rank, amount, status, assigned_at
		FROM insurance_assignments
		WHERE partner_id = $1
		ORDER BY assigned_at DESC`, partnerID)
	if err != nil {
		return nil, fmt.Errorf("list insurance assignments: %w", err)
	}
	defer rows.Close()

	var assignments []domain.InsuranceAssignment
	for rows.Next() {
		var a domain.InsuranceAssignment
		var amountNum pgtype.Numeric
		if err := rows.Scan(&a.ID, &a.PartnerID, &a.Rank, &amountNum, &a.Status, &a.AssignedAt); err != nil {
			return nil, fmt.Errorf("scan insurance assignment: %w", err)
		}
		a.Amount, err = infra.NumericToInt64(amountNum)
		if err != nil {
			return nil, fmt.Errorf("convert amount: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

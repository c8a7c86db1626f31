package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/partnerlink/platform/internal/domain"
	"github.com/partnerlink/platform/internal/infra"
)

type packageRepo struct{}

// NewPackageRepository returns a pgx-backed PackageRepository.
func NewPackageRepository() PackageRepository {
	return &packageRepo{}
}

func (r *packageRepo) Create(ctx context.Context, db DBTX, pkg *domain.Package) error {
	_, err := db.Exec(ctx, `
		INSERT INTO packages (id, name, price, active, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		pkg.ID, pkg.Name, infra.Int64ToNumeric(pkg.Price), pkg.Active, pkg.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert package: %w", err)
	}
	return nil
}

func (r *packageRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Package, error) {
	row := db.QueryRow(ctx, `
		SELECT id, name, price, active, created_at FROM packages WHERE id = $1`, id)
	return scanPackage(row)
}

func (r *packageRepo) ListActive(ctx context.Context, db DBTX) ([]domain.Package, error) {
	return r.list(ctx, db, `
		SELECT id, name, price, active, created_at
		FROM packages WHERE active = true ORDER BY price ASC`)
}

func (r *packageRepo) List(ctx context.Context, db DBTX) ([]domain.Package, error) {
	return r.list(ctx, db, `
		SELECT id, name, price, active, created_at
		FROM packages ORDER BY price ASC`)
}

func (r *packageRepo) SetActive(ctx context.Context, db DBTX, id uuid.UUID, active bool) error {
	tag, err := db.Exec(ctx, `UPDATE packages SET active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("set package active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound("package", id.String())
	}
	return nil
}

func (r *packageRepo) list(ctx context.Context, db DBTX, query string) ([]domain.Package, error) {
	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	defer rows.Close()

	var pkgs []domain.Package
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		pkgs = append(pkgs, *p)
	}
	return pkgs, rows.Err()
}

func scanPackage(row pgx.Row) (*domain.Package, error) {
	var p domain.Package
	var priceNum pgtype.Numeric
	err := row.Scan(&p.ID, &p.Name, &priceNum, &p.Active, &p.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan package: %w", err)
	}

	p.Price, err = infra.NumericToInt64(priceNum)
	if err != nil {
		return nil, fmt.Errorf("convert price: %w", err)
	}
	return &p, nil
}

package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/partnerlink/platform/internal/domain"
	"github.com/partnerlink/platform/internal/repository"
)

// PartnerService serves partner profile reads and the admin partner list.
type PartnerService struct {
	pool      *pgxpool.Pool
	partners  repository.PartnerRepository
	insurance repository.InsuranceRepository
	logger    *slog.Logger
}

// NewPartnerService creates a PartnerService.
func NewPartnerService(pool *pgxpool.Pool, partners repository.PartnerRepository, insurance repository.InsuranceRepository, logger *slog.Logger) *PartnerService {
	return &PartnerService{pool: pool, partners: partners, insurance: insurance, logger: logger}
}

// Get returns one partner.
func (s *PartnerService) Get(ctx context.Context, id uuid.UUID) (*domain.Partner, error) {
	partner, err := s.partners.FindByID(ctx, s.pool, id)
	if err != nil {
		return nil, domain.ErrInternal("lookup partner", err)
	}
	if partner == nil {
		return nil, domain.ErrNotFound("partner", id.String())
	}
	return partner, nil
}

// Insurances returns a partner's insurance assignment history, newest first.
func (s *PartnerService) Insurances(ctx context.Context, partnerID uuid.UUID) ([]domain.InsuranceAssignment, error) {
	assignments, err := s.insurance.ListByPartner(ctx, s.pool, partnerID)
	if err != nil {
		return nil, domain.ErrInternal("list insurance assignments", err)
	}
	return assignments, nil
}

// List returns partners for the admin surface.
func (s *PartnerService) List(ctx context.Context, limit, offset int) ([]domain.Partner, error) {
	partners, err := s.partners.List(ctx, s.pool, limit, offset)
	if err != nil {
		return nil, domain.ErrInternal("list partners", err)
	}
	return partners, nil
}

// PackageService manages the purchasable package catalogue.
type PackageService struct {
	pool     *pgxpool.Pool
	packages repository.PackageRepository
	logger   *slog.Logger
}

// NewPackageService creates a PackageService.
func NewPackageService(pool *pgxpool.Pool, packages repository.PackageRepository, logger *slog.Logger) *PackageService {
	return &PackageService{pool: pool, packages: packages, logger: logger}
}

// ListActive returns the storefront catalogue.
func (s *PackageService) ListActive(ctx context.Context) ([]domain.Package, error) {
	pkgs, err := s.packages.ListActive(ctx, s.pool)
	if err != nil {
		return nil, domain.ErrInternal("list packages", err)
	}
	return pkgs, nil
}

// ListAll returns every package for the admin surface.
func (s *PackageService) ListAll(ctx context.Context) ([]domain.Package, error) {
	pkgs, err := s.packages.List(ctx, s.pool)
	if err != nil {
		return nil, domain.ErrInternal("list packages", err)
	}
	return pkgs, nil
}

// CreatePackageInput holds admin package creation fields.
type CreatePackageInput struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// Create adds a package to the catalogue.
func (s *PackageService) Create(ctx context.Context, input CreatePackageInput) (*domain.Package, error) {
	if input.Name == "" {
		return nil, domain.ErrValidation("package name is required")
	}
	if err := domain.ValidatePositiveAmount(input.Price); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	pkg := &domain.Package{
		ID:        uuid.New(),
		Name:      input.Name,
		Price:     input.Price,
		Active:    true,
		CreatedAt: time.Now(),
	}
	if err := s.packages.Create(ctx, s.pool, pkg); err != nil {
		return nil, domain.ErrInternal("create package", err)
	}

	s.logger.Info("package created", "package_id", pkg.ID, "name", pkg.Name, "price", pkg.Price)
	return pkg, nil
}

// SetActive toggles whether a package is purchasable.
func (s *PackageService) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return s.packages.SetActive(ctx, s.pool, id, active)
}

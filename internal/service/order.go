package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/partnerlink/platform/internal/domain"
	"github.com/partnerlink/platform/internal/infra"
	"github.com/partnerlink/platform/internal/ledger"
	"github.com/partnerlink/platform/internal/network"
	"github.com/partnerlink/platform/internal/repository"
)

// OrderService runs the purchase ingest: order row, counters, upline
// commissions, instant referral bonus, and the rank check, all in one
// transaction.
type OrderService struct {
	pool     *pgxpool.Pool
	partners repository.PartnerRepository
	packages repository.PackageRepository
	orders   repository.OrderRepository
	queue    repository.CommissionQueueRepository
	outbox   repository.OutboxRepository
	engine   *ledger.Engine
	ranks    *RankService
	plan     domain.Plan
	logger   *slog.Logger
}

// NewOrderService creates an OrderService.
func NewOrderService(
	pool *pgxpool.Pool,
	partners repository.PartnerRepository,
	packages repository.PackageRepository,
	orders repository.OrderRepository,
	queue repository.CommissionQueueRepository,
	outbox repository.OutboxRepository,
	engine *ledger.Engine,
	ranks *RankService,
	plan domain.Plan,
	logger *slog.Logger,
) *OrderService {
	return &OrderService{
		pool:     pool,
		partners: partners,
		packages: packages,
		orders:   orders,
		queue:    queue,
		outbox:   outbox,
		engine:   engine,
		ranks:    ranks,
		plan:     plan,
		logger:   logger,
	}
}

// PlaceOrderInput holds purchase fields.
type PlaceOrderInput struct {
	BuyerID          uuid.UUID `json:"-"`
	PackageID        uuid.UUID `json:"package_id"`
	PaymentMethod    string    `json:"payment_method"`
	PaymentReference *string   `json:"payment_reference,omitempty"`
}

// txReferrerSource adapts the partner repository to the walker, resolving
// referrer links inside the ingest transaction.
type txReferrerSource struct {
	partners repository.PartnerRepository
	tx       pgx.Tx
}

func (s txReferrerSource) ReferrerOf(ctx context.Context, id uuid.UUID) (*uuid.UUID, error) {
	p, err := s.partners.FindByID(ctx, s.tx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	return p.ReferrerID, nil
}

// PlaceOrder executes the whole purchase chain atomically. An aborted
// transaction leaves no order, no ledger entry, no queue rows, and no
// counter updates.
func (s *OrderService) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*domain.Order, error) {
	pkg, err := s.packages.FindByID(ctx, s.pool, input.PackageID)
	if err != nil {
		return nil, domain.ErrInternal("lookup package", err)
	}
	if pkg == nil {
		return nil, domain.ErrNotFound("package", input.PackageID.String())
	}
	if !pkg.Active {
		return nil, domain.ErrValidation("package is not purchasable")
	}
	if input.PaymentMethod == "" {
		return nil, domain.ErrValidation("payment method is required")
	}

	units := s.plan.SalesUnits(pkg.Price)
	now := time.Now()
	windowStart, windowEnd := domain.WeekWindow(now)

	order := &domain.Order{
		ID:               uuid.New(),
		PartnerID:        input.BuyerID,
		PackageID:        pkg.ID,
		PackageName:      pkg.Name,
		Amount:           pkg.Price,
		SalesUnits:       units,
		Status:           domain.OrderPaid,
		PaymentMethod:    input.PaymentMethod,
		PaymentReference: input.PaymentReference,
		CreatedAt:        now,
		PaidAt:           &now,
	}

	var uplineLevels int
	err = pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		// Lock the buyer first; upline rows are locked child-to-root below.
		// Every ingest follows the same order along the referral tree, so
		// overlapping chains cannot deadlock.
		buyer, err := s.engine.LockPartnerForUpdate(ctx, tx, input.BuyerID)
		if err != nil {
			return err
		}

		if err := s.orders.Insert(ctx, tx, order); err != nil {
			return err
		}

		if err := s.partners.RecordDirectSale(ctx, tx, buyer.ID, units, now); err != nil {
			return err
		}

		chain, err := network.Upline(ctx, txReferrerSource{partners: s.partners, tx: tx}, buyer.ID, network.DefaultMaxDepth)
		if err != nil {
			return err
		}
		uplineLevels = len(chain)

		for i, uplineID := range chain {
			level := i + 1
			upline, err := s.engine.LockPartnerForUpdate(ctx, tx, uplineID)
			if err != nil {
				return err
			}

			// Rate is read before this sale is added to the upline's
			// counter, so the sale cannot uplift its own rate.
			amount := s.plan.CommissionAmount(units, upline.TeamSalesUnits)
			if amount > 0 {
				if err := s.queue.Insert(ctx, tx, &domain.QueuedCommission{
					ID:            uuid.New(),
					PartnerID:     upline.ID,
					SourceOrderID: order.ID,
					Level:         level,
					SalesUnits:    units,
					Amount:        amount,
					WindowStart:   windowStart,
					WindowEnd:     windowEnd,
					Status:        domain.CommissionPending,
					CreatedAt:     now,
				}); err != nil {
					return err
				}
			}

			if err := s.partners.IncrementTeamSales(ctx, tx, upline.ID, units); err != nil {
				return err
			}
		}

		if buyer.ReferrerID != nil {
			bonus := s.plan.ReferralBonus(order.Amount)
			refID := order.ID
			if _, err := s.engine.RecordCredit(ctx, tx, domain.CreditParams{
				PartnerID:   *buyer.ReferrerID,
				Kind:        domain.EntryDirectReferral,
				Amount:      bonus,
				Description: "Direct referral bonus for order " + order.ID.String(),
				ReferenceID: &refID,
			}); err != nil {
				return err
			}
		}

		if err := s.ranks.EvaluateAfterPurchase(ctx, tx, buyer.ID); err != nil {
			return err
		}

		return s.outbox.Insert(ctx, tx, domain.NewOrderPlacedEvent(order))
	})
	if err != nil {
		return nil, wrapTxErr("place order", err)
	}

	s.logger.Info("order placed",
		"order_id", order.ID,
		"buyer_id", input.BuyerID,
		"units", units,
		"amount", order.Amount,
		"upline_levels", uplineLevels)
	return order, nil
}

// GetOrder returns one order, restricted to its owner unless admin is set.
func (s *OrderService) GetOrder(ctx context.Context, orderID, requesterID uuid.UUID, admin bool) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, s.pool, orderID)
	if err != nil {
		return nil, domain.ErrInternal("lookup order", err)
	}
	if order == nil {
		return nil, domain.ErrNotFound("order", orderID.String())
	}
	if !admin && order.PartnerID != requesterID {
		return nil, domain.ErrForbidden("order belongs to another partner")
	}
	return order, nil
}

// UpdateOrderStatus transitions a pending order. Terminal orders are
// immutable; paid stamps paid_at.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID, requesterID uuid.UUID, admin bool, newStatus domain.OrderStatus) (*domain.Order, error) {
	var updated *domain.Order
	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		order, err := s.orders.LockForUpdate(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound("order", orderID.String())
		}
		if !admin && order.PartnerID != requesterID {
			return domain.ErrForbidden("order belongs to another partner")
		}
		if err := domain.ValidateOrderTransition(order.Status, newStatus); err != nil {
			return err
		}

		var paidAt *time.Time
		if newStatus == domain.OrderPaid {
			now := time.Now()
			paidAt = &now
		}
		if err := s.orders.UpdateStatus(ctx, tx, orderID, newStatus, paidAt); err != nil {
			return err
		}

		order.Status = newStatus
		if paidAt != nil {
			order.PaidAt = paidAt
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, wrapTxErr("update order status", err)
	}
	return updated, nil
}

// ListOrders returns a partner's purchase history, newest first.
func (s *OrderService) ListOrders(ctx context.Context, partnerID uuid.UUID, limit, offset int) ([]domain.Order, error) {
	orders, err := s.orders.ListByPartner(ctx, s.pool, partnerID, limit, offset)
	if err != nil {
		return nil, domain.ErrInternal("list orders", err)
	}
	return orders, nil
}

// ListAllOrders returns orders across partners for admin reports.
func (s *OrderService) ListAllOrders(ctx context.Context, status *domain.OrderStatus, limit, offset int) ([]domain.Order, error) {
	orders, err := s.orders.List(ctx, s.pool, status, limit, offset)
	if err != nil {
		return nil, domain.ErrInternal("list orders", err)
	}
	return orders, nil
}

// wrapTxErr passes AppErrors through and classifies store failures, so
// callers see Transient for retryable aborts instead of Internal.
func wrapTxErr(op string, err error) error {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if infra.IsTransient(err) {
		return domain.ErrTransient(err)
	}
	return domain.ErrInternal(op, err)
}

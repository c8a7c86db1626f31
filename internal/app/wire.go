package app

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/partnerlink/platform/internal/auth"
	"github.com/partnerlink/platform/internal/domain"
	"github.com/partnerlink/platform/internal/guard"
	"github.com/partnerlink/platform/internal/handler"
	"github.com/partnerlink/platform/internal/ledger"
	"github.com/partnerlink/platform/internal/policy"
	"github.com/partnerlink/platform/internal/repository"
	"github.com/partnerlink/platform/internal/service"
)

// RouterDeps holds all dependencies needed by NewRouter.
type RouterDeps struct {
	Pool               *pgxpool.Pool
	JWTMgr             *auth.JWTManager
	Logger             *slog.Logger
	Plan               domain.Plan
	Ladder             []domain.RankStep
	PayoutPolicy       policy.PayoutPolicy
	CORSAllowedOrigins []string
}

// Services bundles the service layer so the settler binary can reuse the
// same construction as the API.
type Services struct {
	Auth         *service.AuthService
	Partners     *service.PartnerService
	Packages     *service.PackageService
	Orders       *service.OrderService
	Payouts      *service.PayoutService
	Settler      *service.SettlerService
	Compensation *service.CompensationService
}

// NewServices wires repositories, the ledger engine, and the service layer.
// A nil ladder means the default rank ladder.
func NewServices(pool *pgxpool.Pool, jwtMgr *auth.JWTManager, plan domain.Plan, ladder []domain.RankStep, payoutPolicy policy.PayoutPolicy, logger *slog.Logger) *Services {
	partnerRepo := repository.NewPartnerRepository()
	packageRepo := repository.NewPackageRepository()
	orderRepo := repository.NewOrderRepository()
	entryRepo := repository.NewEntryRepository()
	queueRepo := repository.NewCommissionQueueRepository()
	insuranceRepo := repository.NewInsuranceRepository()
	outboxRepo := repository.NewOutboxRepository()

	engine := ledger.NewEngine(partnerRepo, entryRepo, outboxRepo)
	rankSvc := service.NewRankService(partnerRepo, insuranceRepo, outboxRepo, engine, ladder, logger)
	lockout := guard.NewLoginLockout(pool, guard.DefaultMaxLoginAttempts, guard.DefaultLockoutWindow)

	return &Services{
		Auth:         service.NewAuthService(pool, partnerRepo, outboxRepo, jwtMgr, lockout, logger),
		Partners:     service.NewPartnerService(pool, partnerRepo, insuranceRepo, logger),
		Packages:     service.NewPackageService(pool, packageRepo, logger),
		Orders:       service.NewOrderService(pool, partnerRepo, packageRepo, orderRepo, queueRepo, outboxRepo, engine, rankSvc, plan, logger),
		Payouts:      service.NewPayoutService(pool, entryRepo, engine, payoutPolicy, logger),
		Settler:      service.NewSettlerService(pool, queueRepo, outboxRepo, engine, logger),
		Compensation: service.NewCompensationService(pool, partnerRepo, queueRepo, engine, logger),
	}
}

// NewRouter assembles the chi.Router with all routes and middleware.
func NewRouter(deps RouterDeps) chi.Router {
	logger := deps.Logger
	svcs := NewServices(deps.Pool, deps.JWTMgr, deps.Plan, deps.Ladder, deps.PayoutPolicy, logger)

	orderLimiter := guard.NewRateLimiter(30, time.Minute)
	payoutLimiter := guard.NewRateLimiter(10, time.Minute)

	// Handlers
	healthHandler := handler.NewHealthHandler(deps.Pool)
	authHandler := handler.NewAuthHandler(svcs.Auth)
	partnerHandler := handler.NewPartnerHandler(svcs.Partners)
	packageHandler := handler.NewPackageHandler(svcs.Packages)
	orderHandler := handler.NewOrderHandler(svcs.Orders, orderLimiter)
	compHandler := handler.NewCompensationHandler(svcs.Compensation, svcs.Payouts, payoutLimiter)
	adminHandler := handler.NewAdminHandler(svcs.Payouts, svcs.Settler, svcs.Orders, svcs.Partners, svcs.Packages, svcs.Compensation)

	// Router
	r := chi.NewRouter()

	// Global middleware (order matters)
	r.Use(handler.Recovery(logger))
	r.Use(handler.RequestID)
	r.Use(handler.RequestLogger(logger))
	r.Use(handler.CORS(deps.CORSAllowedOrigins))
	r.Use(handler.JSONContentType)

	// Health (no auth)
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	// Auth routes (no auth)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	// Public catalogue
	r.Get("/packages", packageHandler.List)

	// Partner-authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(auth.AuthenticatePartner(deps.JWTMgr))

		r.Get("/partners/me", partnerHandler.GetMe)
		r.Get("/partners/me/insurance", partnerHandler.GetInsurance)

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", orderHandler.Place)
			r.Get("/", orderHandler.List)
			r.Get("/{id}", orderHandler.Get)
			r.Patch("/{id}/status", orderHandler.UpdateStatus)
		})

		r.Route("/compensation", func(r chi.Router) {
			r.Get("/summary", compHandler.Summary)
			r.Get("/transactions", compHandler.Transactions)
			r.Get("/commissions", compHandler.Commissions)
			r.Post("/payout", compHandler.RequestPayout)
		})
	})

	// Admin-authenticated routes
	r.Route("/admin", func(r chi.Router) {
		r.Use(auth.AuthenticateAdmin(deps.JWTMgr))
		r.Use(auth.RequireRole("admin"))

		r.Route("/payouts", func(r chi.Router) {
			r.Get("/", adminHandler.ListPayouts)
			r.Post("/{id}/approve", adminHandler.ApprovePayout)
			r.Post("/{id}/reject", adminHandler.RejectPayout)
		})

		r.Post("/settlements/run", adminHandler.RunSettlement)

		r.Route("/partners", func(r chi.Router) {
			r.Get("/", adminHandler.ListPartners)
			r.Get("/{id}/ledger", adminHandler.PartnerLedger)
		})

		r.Get("/orders", adminHandler.ListOrders)

		r.Route("/packages", func(r chi.Router) {
			r.Get("/", adminHandler.ListPackages)
			r.Post("/", adminHandler.CreatePackage)
			r.Patch("/{id}", adminHandler.SetPackageActive)
		})
	})

	return r
}

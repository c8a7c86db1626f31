package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/partnerlink/platform/internal/auth"
	"github.com/partnerlink/platform/internal/domain"
	"github.com/partnerlink/platform/internal/guard"
	"github.com/partnerlink/platform/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles partner registration and login.
type AuthService struct {
	pool     *pgxpool.Pool
	partners repository.PartnerRepository
	outbox   repository.OutboxRepository
	jwtMgr   *auth.JWTManager
	lockout  *guard.LoginLockout
	logger   *slog.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(pool *pgxpool.Pool, partners repository.PartnerRepository, outbox repository.OutboxRepository, jwtMgr *auth.JWTManager, lockout *guard.LoginLockout, logger *slog.Logger) *AuthService {
	return &AuthService{pool: pool, partners: partners, outbox: outbox, jwtMgr: jwtMgr, lockout: lockout, logger: logger}
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token   string          `json:"token"`
	Partner *domain.Partner `json:"partner"`
}

// RegisterInput holds partner registration fields.
type RegisterInput struct {
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	ReferralCode string `json:"referral_code,omitempty"`
}

// Register creates a new partner, optionally attached under a referrer.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, err
	}
	if len(input.Password) < 8 {
		return nil, domain.ErrValidation("password must be at least 8 characters")
	}
	if strings.TrimSpace(input.FullName) == "" {
		return nil, domain.ErrValidation("full name is required")
	}

	existing, err := s.partners.FindByEmail(ctx, s.pool, input.Email)
	if err != nil {
		return nil, domain.ErrInternal("lookup email", err)
	}
	if existing != nil {
		return nil, domain.ErrConflict("email is already registered")
	}

	var referrer *domain.Partner
	if input.ReferralCode != "" {
		code := strings.ToUpper(strings.TrimSpace(input.ReferralCode))
		if err := domain.ValidateReferralCode(code); err != nil {
			return nil, err
		}
		referrer, err = s.partners.FindByReferralCode(ctx, s.pool, code)
		if err != nil {
			return nil, domain.ErrInternal("lookup referral code", err)
		}
		if referrer == nil {
			return nil, domain.ErrValidation("unknown referral code")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.ErrInternal("hash password", err)
	}

	code, err := s.generateReferralCode(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	partner := &domain.Partner{
		ID:           uuid.New(),
		FullName:     strings.TrimSpace(input.FullName),
		Email:        input.Email,
		PasswordHash: string(hash),
		ReferralCode: code,
		Role:         domain.RolePartner,
		Rank:         domain.RankStarter,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if referrer != nil {
		id := referrer.ID
		partner.ReferrerID = &id
	}

	err = pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		if err := s.partners.Create(ctx, tx, partner); err != nil {
			return err
		}
		if referrer != nil {
			if err := s.partners.IncrementDirectReferrals(ctx, tx, referrer.ID); err != nil {
				return err
			}
		}
		return s.outbox.Insert(ctx, tx, domain.NewPartnerCreatedEvent(partner))
	})
	if err != nil {
		return nil, domain.ErrInternal("create partner", err)
	}

	token, err := s.jwtMgr.GenerateToken(auth.RealmPartner, partner.ID, partner.Email, string(partner.Role))
	if err != nil {
		return nil, domain.ErrInternal("generate token", err)
	}

	s.logger.Info("partner registered", "partner_id", partner.ID, "referred", referrer != nil)
	return &AuthResult{Token: token, Partner: partner}, nil
}

// LoginInput holds login fields.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	ClientIP string `json:"-"`
}

// Login authenticates a partner or admin account.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if err := s.lockout.Check(ctx, email, string(auth.RealmPartner)); err != nil {
		return nil, err
	}

	partner, err := s.partners.FindByEmail(ctx, s.pool, email)
	if err != nil {
		return nil, domain.ErrInternal("lookup email", err)
	}
	if partner == nil {
		s.lockout.Record(ctx, email, string(auth.RealmPartner), input.ClientIP, false)
		return nil, domain.ErrUnauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(partner.PasswordHash), []byte(input.Password)); err != nil {
		s.lockout.Record(ctx, email, string(auth.RealmPartner), input.ClientIP, false)
		return nil, domain.ErrUnauthorized("invalid credentials")
	}

	s.lockout.Record(ctx, email, string(auth.RealmPartner), input.ClientIP, true)

	realm := auth.RealmPartner
	if partner.Role == domain.RoleAdmin {
		realm = auth.RealmAdmin
	}
	token, err := s.jwtMgr.GenerateToken(realm, partner.ID, partner.Email, string(partner.Role))
	if err != nil {
		return nil, domain.ErrInternal("generate token", err)
	}

	return &AuthResult{Token: token, Partner: partner}, nil
}

// generateReferralCode draws short codes until one is unused. Collisions on
// 8 hex-ish chars are rare; the cap only guards a broken RNG or a full space.
func (s *AuthService) generateReferralCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 10; attempt++ {
		code := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
		owner, err := s.partners.FindByReferralCode(ctx, s.pool, code)
		if err != nil {
			return "", domain.ErrInternal("check referral code", err)
		}
		if owner == nil {
			return code, nil
		}
	}
	return "", domain.ErrInternal("referral code space exhausted", nil)
}

package infra

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/partnerlink/platform/internal/domain"
)

// Config holds all application configuration parsed from environment variables.
// Money values are minor currency units; rates are basis points.
type Config struct {
	// Database
	DatabaseURL string `env:"DATABASE_URL"`
	PGHost      string `env:"PGHOST" envDefault:"localhost"`
	PGPort      int    `env:"PGPORT" envDefault:"5432"`
	PGUser      string `env:"PGUSER" envDefault:"partnerlink"`
	PGPassword  string `env:"PGPASSWORD" envDefault:"partnerlink"`
	PGDatabase  string `env:"PGDATABASE" envDefault:"partnerlink"`

	// JWT
	JWTSecret        string `env:"JWT_SECRET" envDefault:"change-me-in-production"`
	JWTPartnerExpiry string `env:"JWT_PARTNER_EXPIRY" envDefault:"24h"`
	JWTAdminExpiry   string `env:"JWT_ADMIN_EXPIRY" envDefault:"8h"`

	// Server
	APIPort int `env:"API_PORT" envDefault:"3200"`

	// Kafka
	KafkaBrokers string `env:"KAFKA_BROKERS" envDefault:"localhost:9092"`
	KafkaEnabled bool   `env:"KAFKA_ENABLED" envDefault:"false"`

	// CORS
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`

	// Dev
	AllowInsecureDefaults bool `env:"ALLOW_INSECURE_DEFAULTS" envDefault:"false"`

	// Compensation plan
	UnitPrice       int64 `env:"UNIT_PRICE" envDefault:"500000"`
	ReferralBonusBP int64 `env:"REFERRAL_BONUS_BP" envDefault:"2000"`
	Tier1MaxUnits   int64 `env:"TIER1_MAX_UNITS" envDefault:"1000"`
	Tier2MaxUnits   int64 `env:"TIER2_MAX_UNITS" envDefault:"10000"`
	Tier1BP         int64 `env:"TIER1_BP" envDefault:"200"`
	Tier2BP         int64 `env:"TIER2_BP" envDefault:"100"`
	Tier3BP         int64 `env:"TIER3_BP" envDefault:"10"`

	// Rank ladder thresholds: cumulative sales units per rung, ascending,
	// one per awardable rank. Bonus and insurance amounts are fixed per rank.
	RankThresholds string `env:"RANK_THRESHOLDS" envDefault:"100,1000,10000,100000,1000000"`

	// Payouts. The weekly minimum is reserved for the queued-payout flow and
	// is not enforced on wallet withdrawals.
	MinWalletWithdrawal int64 `env:"MIN_WALLET_WITHDRAWAL" envDefault:"100000"`
	MinWeeklyPayout     int64 `env:"MIN_WEEKLY_PAYOUT" envDefault:"500000"`

	// Weekly settlement slot (local time).
	SettleWeekday int `env:"SETTLE_WEEKDAY" envDefault:"1"`
	SettleHour    int `env:"SETTLE_HOUR" envDefault:"16"`
}

// LoadConfig parses environment variables into a Config struct.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks for insecure or inconsistent configuration.
// Set ALLOW_INSECURE_DEFAULTS=true to bypass the secret checks (local dev only).
func (c *Config) Validate() error {
	if c.UnitPrice <= 0 {
		return fmt.Errorf("UNIT_PRICE must be positive, got %d", c.UnitPrice)
	}
	if c.Tier1MaxUnits >= c.Tier2MaxUnits {
		return fmt.Errorf("TIER1_MAX_UNITS (%d) must be below TIER2_MAX_UNITS (%d)", c.Tier1MaxUnits, c.Tier2MaxUnits)
	}
	if c.SettleWeekday < 0 || c.SettleWeekday > 6 {
		return fmt.Errorf("SETTLE_WEEKDAY must be 0-6, got %d", c.SettleWeekday)
	}
	if c.SettleHour < 0 || c.SettleHour > 23 {
		return fmt.Errorf("SETTLE_HOUR must be 0-23, got %d", c.SettleHour)
	}
	if c.AllowInsecureDefaults {
		return nil
	}
	if c.JWTSecret == "change-me-in-production" {
		return fmt.Errorf("JWT_SECRET is set to the insecure default; set a strong secret or set ALLOW_INSECURE_DEFAULTS=true for local dev")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET is too short (%d chars); minimum 32 characters required", len(c.JWTSecret))
	}
	return nil
}

// DSN returns the PostgreSQL connection string, preferring DATABASE_URL if set.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.PGUser, c.PGPassword, c.PGHost, c.PGPort, c.PGDatabase)
}

// Plan builds the compensation plan from the configured knobs.
func (c *Config) Plan() domain.Plan {
	return domain.Plan{
		UnitPrice:       c.UnitPrice,
		ReferralBonusBP: c.ReferralBonusBP,
		Tier1MaxUnits:   c.Tier1MaxUnits,
		Tier2MaxUnits:   c.Tier2MaxUnits,
		Tier1BP:         c.Tier1BP,
		Tier2BP:         c.Tier2BP,
		Tier3BP:         c.Tier3BP,
	}
}

// Ladder builds the rank ladder from the configured thresholds.
func (c *Config) Ladder() ([]domain.RankStep, error) {
	parts := strings.Split(c.RankThresholds, ",")
	thresholds := make([]int64, 0, len(parts))
	for _, p := range parts {
		units, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse RANK_THRESHOLDS entry %q: %w", p, err)
		}
		thresholds = append(thresholds, units)
	}
	ladder, err := domain.LadderWithThresholds(thresholds)
	if err != nil {
		return nil, fmt.Errorf("RANK_THRESHOLDS: %w", err)
	}
	return ladder, nil
}

// PartnerExpiry parses the partner token lifetime.
func (c *Config) PartnerExpiry() (time.Duration, error) {
	return time.ParseDuration(c.JWTPartnerExpiry)
}

// AdminExpiry parses the admin token lifetime.
func (c *Config) AdminExpiry() (time.Duration, error) {
	return time.ParseDuration(c.JWTAdminExpiry)
}

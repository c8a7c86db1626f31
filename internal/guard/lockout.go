package guard

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/partnerlink/platform/internal/domain"
)

const (
	DefaultMaxLoginAttempts = 5
	DefaultLockoutWindow    = 15 * time.Minute
)

// LoginLockout throttles credential guessing per account. Attempts live in
// the login_attempts table, so the window is shared across nodes and
// survives restarts.
type LoginLockout struct {
	pool        *pgxpool.Pool
	maxAttempts int
	window      time.Duration
}

// NewLoginLockout creates a LoginLockout. Non-positive knobs fall back to
// the defaults.
func NewLoginLockout(pool *pgxpool.Pool, maxAttempts int, window time.Duration) *LoginLockout {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxLoginAttempts
	}
	if window <= 0 {
		window = DefaultLockoutWindow
	}
	return &LoginLockout{pool: pool, maxAttempts: maxAttempts, window: window}
}

// Record inserts a login attempt row. Insert failures are swallowed;
// auditing must not break login.
func (l *LoginLockout) Record(ctx context.Context, email, realm, ip string, success bool) {
	_, _ = l.pool.Exec(ctx, `
		INSERT INTO login_attempts (email, realm, ip_address, success)
		VALUES ($1, $2, $3, $4)`,
		email, realm, ip, success)
}

// Check returns ErrAccountLocked once the account crosses the failure budget
// inside the window. DB errors fail open so a degraded store cannot lock
// every account out.
func (l *LoginLockout) Check(ctx context.Context, email, realm string) error {
	var count int
	err := l.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM login_attempts
		WHERE email = $1 AND realm = $2 AND success = false
		  AND created_at > $3`,
		email, realm, time.Now().Add(-l.window)).Scan(&count)
	if err != nil {
		return nil
	}
	if count >= l.maxAttempts {
		return domain.ErrAccountLocked("too many failed login attempts, try again later")
	}
	return nil
}

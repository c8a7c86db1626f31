//go:build integration

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/partnerlink/platform/internal/auth"
	"golang.org/x/crypto/bcrypt"
)

// RegisterPartner creates a new partner, optionally under a referrer's code,
// and returns the auth token and partner ID.
func (env *TestEnv) RegisterPartner(email, password, fullName, referralCode string) (token string, partnerID uuid.UUID) {
	env.t.Helper()
	body := map[string]string{
		"email":     email,
		"password":  password,
		"full_name": fullName,
	}
	if referralCode != "" {
		body["referral_code"] = referralCode
	}

	resp := env.POST("/auth/register", body, "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		env.t.Fatalf("RegisterPartner: expected 201, got %d", resp.StatusCode)
	}

	var result struct {
		Token   string `json:"token"`
		Partner struct {
			ID           uuid.UUID `json:"id"`
			ReferralCode string    `json:"referral_code"`
		} `json:"partner"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		env.t.Fatalf("RegisterPartner: decode: %v", err)
	}
	return result.Token, result.Partner.ID
}

// ReferralCodeOf reads a partner's referral code straight from the DB.
func (env *TestEnv) ReferralCodeOf(partnerID uuid.UUID) string {
	env.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var code string
	err := env.Pool.QueryRow(ctx,
		"SELECT referral_code FROM partners WHERE id = $1", partnerID).Scan(&code)
	if err != nil {
		env.t.Fatalf("ReferralCodeOf: %v", err)
	}
	return code
}

// LoginPartner authenticates an existing partner and returns the auth token.
func (env *TestEnv) LoginPartner(email, password string) string {
	env.t.Helper()
	resp := env.POST("/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		env.t.Fatalf("LoginPartner: expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		env.t.Fatalf("LoginPartner: decode: %v", err)
	}
	return result.Token
}

// SeedPackage inserts a package and returns its ID.
func (env *TestEnv) SeedPackage(name string, price int64) uuid.UUID {
	env.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pkgID := uuid.New()
	_, err := env.Pool.Exec(ctx, `
		INSERT INTO packages (id, name, price, active, created_at)
		VALUES ($1, $2, $3, true, now())`,
		pkgID, name, price)
	if err != nil {
		env.t.Fatalf("SeedPackage: %v", err)
	}
	return pkgID
}

// PlaceOrder purchases a package as the given partner and returns the order ID.
func (env *TestEnv) PlaceOrder(token string, packageID uuid.UUID) uuid.UUID {
	env.t.Helper()
	resp := env.POST("/orders", map[string]interface{}{
		"package_id":     packageID,
		"payment_method": "bank_transfer",
	}, token)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		env.t.Fatalf("PlaceOrder: expected 201, got %d", resp.StatusCode)
	}

	var result struct {
		ID uuid.UUID `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		env.t.Fatalf("PlaceOrder: decode: %v", err)
	}
	return result.ID
}

// PartnerRow is the subset of the partners table the tests assert on.
type PartnerRow struct {
	Rank             string
	DirectSalesUnits int64
	TeamSalesUnits   int64
	TotalEarnings    int64
	WalletBalance    int64
	InsuranceAmount  int64
	DirectReferrals  int64
}

// PartnerState reads a partner's counters directly from the DB.
func (env *TestEnv) PartnerState(partnerID uuid.UUID) PartnerRow {
	env.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var row PartnerRow
	err := env.Pool.QueryRow(ctx, `
		SELECT rank, direct_sales_units, team_sales_units, total_earnings,
		       wallet_balance, insurance_amount, direct_referrals
		FROM partners WHERE id = $1`, partnerID).
		Scan(&row.Rank, &row.DirectSalesUnits, &row.TeamSalesUnits, &row.TotalEarnings,
			&row.WalletBalance, &row.InsuranceAmount, &row.DirectReferrals)
	if err != nil {
		env.t.Fatalf("PartnerState: %v", err)
	}
	return row
}

// AdminToken inserts an admin account and returns a JWT for it.
func (env *TestEnv) AdminToken() string {
	env.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	adminID := uuid.New()
	hash, err := bcrypt.GenerateFromPassword([]byte("admin-password"), bcrypt.DefaultCost)
	if err != nil {
		env.t.Fatalf("AdminToken: hash: %v", err)
	}

	email := fmt.Sprintf("admin_%s@test.com", adminID.String()[:8])
	code := adminID.String()[:8]
	_, err = env.Pool.Exec(ctx, `
		INSERT INTO partners (id, full_name, email, password_hash, referral_code, role, rank)
		VALUES ($1, 'Test Admin', $2, $3, upper($4), 'admin', 'starter')`,
		adminID, email, string(hash), code)
	if err != nil {
		env.t.Fatalf("AdminToken: insert: %v", err)
	}

	token, err := env.JWTMgr.GenerateToken(auth.RealmAdmin, adminID, email, "admin")
	if err != nil {
		env.t.Fatalf("AdminToken: token: %v", err)
	}
	return token
}

// GET performs an unauthenticated GET request.
func (env *TestEnv) GET(path string) *http.Response {
	env.t.Helper()
	resp, err := http.Get(env.Server.URL + path)
	if err != nil {
		env.t.Fatalf("GET %s: %v", path, err)
	}
	return resp
}

// POST performs a POST request with optional auth token.
func (env *TestEnv) POST(path string, body interface{}, token string) *http.Response {
	env.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			env.t.Fatalf("POST %s: encode: %v", path, err)
		}
	}
	req, err := http.NewRequest("POST", env.Server.URL+path, &buf)
	if err != nil {
		env.t.Fatalf("POST %s: new request: %v", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		env.t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

// AuthGET performs an authenticated GET request.
func (env *TestEnv) AuthGET(path, token string) *http.Response {
	env.t.Helper()
	req, err := http.NewRequest("GET", env.Server.URL+path, nil)
	if err != nil {
		env.t.Fatalf("AuthGET %s: new request: %v", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		env.t.Fatalf("AuthGET %s: %v", path, err)
	}
	return resp
}

// AuthPATCH performs an authenticated PATCH request.
func (env *TestEnv) AuthPATCH(path string, body interface{}, token string) *http.Response {
	env.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			env.t.Fatalf("PATCH %s: encode: %v", path, err)
		}
	}
	req, err := http.NewRequest("PATCH", env.Server.URL+path, &buf)
	if err != nil {
		env.t.Fatalf("PATCH %s: new request: %v", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		env.t.Fatalf("PATCH %s: %v", path, err)
	}
	return resp
}

// DecodeBody decodes a JSON response body into dst and closes it.
func (env *TestEnv) DecodeBody(resp *http.Response, dst interface{}) {
	env.t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		env.t.Fatalf("decode body: %v", err)
	}
}

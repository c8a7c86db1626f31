//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/partnerlink/platform/test/integration/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_ReturnsTokenAndCode(t *testing.T) {
	env := testutil.NewTestEnv(t)

	resp := env.POST("/auth/register", map[string]string{
		"email":     "fresh@test.com",
		"password":  "securepass123",
		"full_name": "Fresh Partner",
	}, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Token   string `json:"token"`
		Partner struct {
			Email        string `json:"email"`
			ReferralCode string `json:"referral_code"`
			Rank         string `json:"rank"`
		} `json:"partner"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body.Token)
	assert.Equal(t, "fresh@test.com", body.Partner.Email)
	assert.Len(t, body.Partner.ReferralCode, 8)
	assert.Equal(t, "starter", body.Partner.Rank)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.RegisterPartner("dup@test.com", "securepass123", "First", "")

	resp := env.POST("/auth/register", map[string]string{
		"email":     "dup@test.com",
		"password":  "securepass123",
		"full_name": "Second",
	}, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRegister_UnknownReferralCode(t *testing.T) {
	env := testutil.NewTestEnv(t)

	resp := env.POST("/auth/register", map[string]string{
		"email":         "orphan@test.com",
		"password":      "securepass123",
		"full_name":     "Orphan",
		"referral_code": "ZZZZ9999",
	}, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegister_ShortPassword(t *testing.T) {
	env := testutil.NewTestEnv(t)

	resp := env.POST("/auth/register", map[string]string{
		"email":     "shortpw@test.com",
		"password":  "short",
		"full_name": "Short PW",
	}, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegister_IncrementsDirectReferrals(t *testing.T) {
	env := testutil.NewTestEnv(t)
	_, idA := env.RegisterPartner("sponsor@test.com", "securepass123", "Sponsor", "")

	env.RegisterPartner("signee1@test.com", "securepass123", "Signee One", env.ReferralCodeOf(idA))
	env.RegisterPartner("signee2@test.com", "securepass123", "Signee Two", env.ReferralCodeOf(idA))

	assert.Equal(t, int64(2), env.PartnerState(idA).DirectReferrals)
}

func TestPartnerRow_DefaultsToStarterRank(t *testing.T) {
	env := testutil.NewTestEnv(t)

	// Rows seeded outside the registration path still land on a ladder rank.
	id := uuid.New()
	_, err := env.Pool.Exec(context.Background(), `
		INSERT INTO partners (id, full_name, email, password_hash, referral_code)
		VALUES ($1, 'Seeded Partner', 'seeded@test.com', 'not-a-hash', 'SEEDC0DE')`, id)
	require.NoError(t, err)

	assert.Equal(t, "starter", env.PartnerState(id).Rank)
}

func TestLogin_Success(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.RegisterPartner("login@test.com", "securepass123", "Login Partner", "")

	token := env.LoginPartner("login@test.com", "securepass123")
	assert.NotEmpty(t, token)

	// The token works against a protected route.
	resp := env.AuthGET("/partners/me", token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLogin_WrongPassword(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.RegisterPartner("wrongpw@test.com", "securepass123", "Wrong PW", "")

	resp := env.POST("/auth/login", map[string]string{
		"email":    "wrongpw@test.com",
		"password": "not-the-password",
	}, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogin_LockoutAfterRepeatedFailures(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.RegisterPartner("lockme@test.com", "securepass123", "Lock Me", "")

	for i := 0; i < 5; i++ {
		resp := env.POST("/auth/login", map[string]string{
			"email":    "lockme@test.com",
			"password": "bad-password",
		}, "")
		resp.Body.Close()
	}

	// Even the correct password is refused inside the lockout window.
	resp := env.POST("/auth/login", map[string]string{
		"email":    "lockme@test.com",
		"password": "securepass123",
	}, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestAuth_ProtectedRouteRequiresToken(t *testing.T) {
	env := testutil.NewTestEnv(t)

	resp := env.GET("/partners/me")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuth_PartnerTokenRejectedOnAdmin(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, _ := env.RegisterPartner("plain@test.com", "securepass123", "Plain", "")

	resp := env.AuthGET("/admin/payouts", token)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHealth_Endpoints(t *testing.T) {
	env := testutil.NewTestEnv(t)

	live := env.GET("/health/live")
	defer live.Body.Close()
	assert.Equal(t, http.StatusOK, live.StatusCode)

	ready := env.GET("/health/ready")
	defer ready.Body.Close()
	assert.Equal(t, http.StatusOK, ready.StatusCode)
}

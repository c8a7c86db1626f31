//go:build integration

package integration

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/partnerlink/platform/test/integration/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fundPartner earns a partner 2000000 via a referral bonus and returns
// the funded partner's token.
func fundPartner(t *testing.T, env *testutil.TestEnv, prefix string) (token string, partnerID uuid.UUID) {
	t.Helper()
	_, idA := env.RegisterPartner(prefix+"_up@test.com", "securepass123", "Funded Upline", "")
	tokenB, _ := env.RegisterPartner(prefix+"_dl@test.com", "securepass123", "Funded Downline", env.ReferralCodeOf(idA))

	pkgID := env.SeedPackage(prefix+" pack", 10_000_000)
	env.PlaceOrder(tokenB, pkgID)

	return env.LoginPartner(prefix+"_up@test.com", "securepass123"), idA
}

type entryBody struct {
	ID     uuid.UUID `json:"id"`
	Kind   string    `json:"kind"`
	Amount int64     `json:"amount"`
	Status string    `json:"status"`
}

func requestPayout(t *testing.T, env *testutil.TestEnv, token string, amount int64) entryBody {
	t.Helper()
	resp := env.POST("/compensation/payout", map[string]int64{"amount": amount}, token)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var entry entryBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&entry))
	return entry
}

func TestPayout_RequestReservesWallet(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, id := fundPartner(t, env, "req")

	entry := requestPayout(t, env, token, 500_000)

	assert.Equal(t, "payout", entry.Kind)
	assert.Equal(t, "pending", entry.Status)
	assert.Equal(t, int64(-500_000), entry.Amount) // stored negated

	// Wallet drops at request time; lifetime earnings do not.
	state := env.PartnerState(id)
	assert.Equal(t, int64(1_500_000), state.WalletBalance)
	assert.Equal(t, int64(2_000_000), state.TotalEarnings)

	sum := getSummary(t, env, token)
	assert.Equal(t, int64(500_000), sum.PendingPayouts)
}

func TestPayout_ApproveKeepsBalance(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, id := fundPartner(t, env, "appr")
	entry := requestPayout(t, env, token, 500_000)

	admin := env.AdminToken()
	resp := env.POST("/admin/payouts/"+entry.ID.String()+"/approve", nil, admin)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var approved entryBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&approved))
	assert.Equal(t, "approved", approved.Status)

	// The reservation happened at request time; approval moves nothing.
	state := env.PartnerState(id)
	assert.Equal(t, int64(1_500_000), state.WalletBalance)

	sum := getSummary(t, env, token)
	assert.Equal(t, int64(0), sum.PendingPayouts)
}

func TestPayout_RejectRefunds(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, id := fundPartner(t, env, "rej")
	entry := requestPayout(t, env, token, 500_000)

	admin := env.AdminToken()
	resp := env.POST("/admin/payouts/"+entry.ID.String()+"/reject", nil, admin)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rejected entryBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rejected))
	assert.Equal(t, "cancelled", rejected.Status)

	state := env.PartnerState(id)
	assert.Equal(t, int64(2_000_000), state.WalletBalance)
	assert.Equal(t, int64(2_000_000), state.TotalEarnings)
}

func TestPayout_ResolveTwiceConflicts(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, _ := fundPartner(t, env, "twice")
	entry := requestPayout(t, env, token, 500_000)

	admin := env.AdminToken()
	resp := env.POST("/admin/payouts/"+entry.ID.String()+"/approve", nil, admin)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.POST("/admin/payouts/"+entry.ID.String()+"/reject", nil, admin)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestPayout_BelowMinimum(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, _ := fundPartner(t, env, "min")

	resp := env.POST("/compensation/payout", map[string]int64{"amount": 50_000}, token)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "MIN_WITHDRAWAL", body["code"])
}

func TestPayout_InsufficientFunds(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, _ := fundPartner(t, env, "insuf")

	resp := env.POST("/compensation/payout", map[string]int64{"amount": 3_000_000}, token)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "INSUFFICIENT_FUNDS", body["code"])
}

func TestPayout_AdminQueueListsPending(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, _ := fundPartner(t, env, "queue")
	requestPayout(t, env, token, 500_000)

	admin := env.AdminToken()
	resp := env.AuthGET("/admin/payouts", admin)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Payouts []entryBody `json:"payouts"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Payouts, 1)
	assert.Equal(t, "pending", body.Payouts[0].Status)
}

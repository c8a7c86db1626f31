//go:build integration

package integration

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/partnerlink/platform/test/integration/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type settlementStats struct {
	Partners    int   `json:"partners"`
	RowsSettled int   `json:"rows_settled"`
	TotalAmount int64 `json:"total_amount"`
	Skipped     bool  `json:"skipped"`
}

func runSettlement(t *testing.T, env *testutil.TestEnv, admin string) settlementStats {
	t.Helper()
	resp := env.POST("/admin/settlements/run", nil, admin)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats settlementStats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	return stats
}

func TestSettlement_CreditsQueuedCommissions(t *testing.T) {
	env := testutil.NewTestEnv(t)

	// A <- B <- C; two purchases by C leave two pending rows per upline.
	_, idA := env.RegisterPartner("seta@test.com", "securepass123", "Settle A", "")
	_, idB := env.RegisterPartner("setb@test.com", "securepass123", "Settle B", env.ReferralCodeOf(idA))
	tokenC, _ := env.RegisterPartner("setc@test.com", "securepass123", "Settle C", env.ReferralCodeOf(idB))

	pkgID := env.SeedPackage("Settle Pack", 10_000_000) // 20 units, 200000 per upline row
	env.PlaceOrder(tokenC, pkgID)
	env.PlaceOrder(tokenC, pkgID)

	admin := env.AdminToken()
	stats := runSettlement(t, env, admin)

	assert.False(t, stats.Skipped)
	assert.Equal(t, 2, stats.Partners)
	assert.Equal(t, 4, stats.RowsSettled)
	assert.Equal(t, int64(800_000), stats.TotalAmount)

	// A had no referral bonus, so the wallet is exactly the settled total.
	stateA := env.PartnerState(idA)
	assert.Equal(t, int64(400_000), stateA.WalletBalance)
	assert.Equal(t, int64(400_000), stateA.TotalEarnings)

	// B keeps the two instant referral bonuses on top.
	stateB := env.PartnerState(idB)
	assert.Equal(t, int64(4_400_000), stateB.WalletBalance)
}

func TestSettlement_Idempotent(t *testing.T) {
	env := testutil.NewTestEnv(t)

	_, idA := env.RegisterPartner("idema@test.com", "securepass123", "Idem A", "")
	tokenB, _ := env.RegisterPartner("idemb@test.com", "securepass123", "Idem B", env.ReferralCodeOf(idA))

	pkgID := env.SeedPackage("Idem Pack", 10_000_000)
	env.PlaceOrder(tokenB, pkgID)

	admin := env.AdminToken()
	first := runSettlement(t, env, admin)
	assert.Equal(t, 1, first.Partners)

	walletAfter := env.PartnerState(idA).WalletBalance

	// Nothing pending remains; a re-run settles nothing and pays nothing.
	second := runSettlement(t, env, admin)
	assert.Equal(t, 0, second.Partners)
	assert.Equal(t, 0, second.RowsSettled)
	assert.Equal(t, int64(0), second.TotalAmount)

	assert.Equal(t, walletAfter, env.PartnerState(idA).WalletBalance)
}

func TestSettlement_EmptyQueue(t *testing.T) {
	env := testutil.NewTestEnv(t)

	admin := env.AdminToken()
	stats := runSettlement(t, env, admin)

	assert.False(t, stats.Skipped)
	assert.Equal(t, 0, stats.Partners)
	assert.Equal(t, int64(0), stats.TotalAmount)
}

func TestSettlement_MarksRowsProcessed(t *testing.T) {
	env := testutil.NewTestEnv(t)

	_, idA := env.RegisterPartner("marka@test.com", "securepass123", "Mark A", "")
	tokenB, _ := env.RegisterPartner("markb@test.com", "securepass123", "Mark B", env.ReferralCodeOf(idA))
	tokenA := env.LoginPartner("marka@test.com", "securepass123")

	pkgID := env.SeedPackage("Mark Pack", 10_000_000)
	env.PlaceOrder(tokenB, pkgID)

	admin := env.AdminToken()
	runSettlement(t, env, admin)

	resp := env.AuthGET("/compensation/commissions", tokenA)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Commissions []struct {
			Status string `json:"status"`
		} `json:"commissions"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Commissions, 1)
	assert.Equal(t, "processed", body.Commissions[0].Status)

	// The pending total reported in the summary drops to zero.
	sum := getSummary(t, env, tokenA)
	assert.Equal(t, int64(0), sum.PendingWeeklyCommissions)
	assert.Equal(t, int64(200_000), sum.TeamCommission)
}

func TestSettlement_RequiresAdmin(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, _ := env.RegisterPartner("notadmin@test.com", "securepass123", "Not Admin", "")

	resp := env.POST("/admin/settlements/run", nil, token)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

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

func TestOrders_PlaceAndGet(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, id := env.RegisterPartner("buyer@test.com", "securepass123", "Buyer", "")

	pkgID := env.SeedPackage("Basic Pack", 500_000)
	orderID := env.PlaceOrder(token, pkgID)

	resp := env.AuthGET("/orders/"+orderID.String(), token)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var order struct {
		ID          uuid.UUID `json:"id"`
		PartnerID   uuid.UUID `json:"partner_id"`
		PackageName string    `json:"package_name"`
		Amount      int64     `json:"amount"`
		SalesUnits  int64     `json:"sales_units"`
		Status      string    `json:"status"`
		PaidAt      *string   `json:"paid_at"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&order))
	assert.Equal(t, orderID, order.ID)
	assert.Equal(t, id, order.PartnerID)
	assert.Equal(t, "Basic Pack", order.PackageName)
	assert.Equal(t, int64(500_000), order.Amount)
	assert.Equal(t, int64(1), order.SalesUnits)
	assert.Equal(t, "paid", order.Status)
	assert.NotNil(t, order.PaidAt)
}

func TestOrders_ListNewestFirst(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, _ := env.RegisterPartner("lister@test.com", "securepass123", "Lister", "")

	pkgID := env.SeedPackage("List Pack", 500_000)
	env.PlaceOrder(token, pkgID)
	second := env.PlaceOrder(token, pkgID)

	resp := env.AuthGET("/orders", token)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Orders []struct {
			ID uuid.UUID `json:"id"`
		} `json:"orders"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Orders, 2)
	assert.Equal(t, second, body.Orders[0].ID)
}

func TestOrders_ForbiddenForOtherPartner(t *testing.T) {
	env := testutil.NewTestEnv(t)
	tokenA, _ := env.RegisterPartner("owner@test.com", "securepass123", "Owner", "")
	tokenB, _ := env.RegisterPartner("peeker@test.com", "securepass123", "Peeker", "")

	pkgID := env.SeedPackage("Private Pack", 500_000)
	orderID := env.PlaceOrder(tokenA, pkgID)

	resp := env.AuthGET("/orders/"+orderID.String(), tokenB)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestOrders_UnknownPackage(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, _ := env.RegisterPartner("nopack@test.com", "securepass123", "No Pack", "")

	resp := env.POST("/orders", map[string]interface{}{
		"package_id":     uuid.New(),
		"payment_method": "bank_transfer",
	}, token)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestOrders_TerminalStatusImmutable(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, _ := env.RegisterPartner("immut@test.com", "securepass123", "Immut", "")

	pkgID := env.SeedPackage("Immut Pack", 500_000)
	orderID := env.PlaceOrder(token, pkgID) // created paid, a terminal state

	resp := env.AuthPATCH("/orders/"+orderID.String()+"/status?new_status=refunded", nil, token)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestAdminOrders_FilterByStatus(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, _ := env.RegisterPartner("adfilter@test.com", "securepass123", "Ad Filter", "")

	pkgID := env.SeedPackage("Filter Pack", 500_000)
	env.PlaceOrder(token, pkgID)

	admin := env.AdminToken()

	resp := env.AuthGET("/admin/orders?status=paid", admin)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Orders []struct {
			Status string `json:"status"`
		} `json:"orders"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Orders, 1)
	assert.Equal(t, "paid", body.Orders[0].Status)

	resp2 := env.AuthGET("/admin/orders?status=refunded", admin)
	defer resp2.Body.Close()

	var empty struct {
		Orders []struct{} `json:"orders"`
	}
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&empty))
	assert.Len(t, empty.Orders, 0)
}

func TestPackages_PublicListOnlyActive(t *testing.T) {
	env := testutil.NewTestEnv(t)

	env.SeedPackage("Visible Pack", 500_000)
	admin := env.AdminToken()

	// Create a second package through the admin API, then deactivate it.
	resp := env.POST("/admin/packages", map[string]interface{}{
		"name":  "Hidden Pack",
		"price": 1_000_000,
	}, admin)
	var created struct {
		ID uuid.UUID `json:"id"`
	}
	env.DecodeBody(resp, &created)

	resp = env.AuthPATCH("/admin/packages/"+created.ID.String(), map[string]bool{"active": false}, admin)
	resp.Body.Close()

	list := env.GET("/packages")
	defer list.Body.Close()
	require.Equal(t, http.StatusOK, list.StatusCode)

	var body struct {
		Packages []struct {
			Name string `json:"name"`
		} `json:"packages"`
	}
	require.NoError(t, json.NewDecoder(list.Body).Decode(&body))
	require.Len(t, body.Packages, 1)
	assert.Equal(t, "Visible Pack", body.Packages[0].Name)
}

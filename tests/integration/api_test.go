package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpHandler "hydra-ledger/internal/adapter/http/handler"
	"hydra-ledger/internal/adapter/storage/memory"
	"hydra-ledger/internal/core/domain"
	"hydra-ledger/internal/service"
	"hydra-ledger/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp runs the full stack behind a real HTTP server: router,
// middleware, handlers, services and the in-memory store, seeded the
// same way the binary seeds itself.

type testApp struct {
	server *httptest.Server
	txRepo *memory.TransactionRepo
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	store := memory.NewStore()
	identityRepo := memory.NewIdentityRepo(store)
	walletRepo := memory.NewWalletRepo(store)
	txRepo := memory.NewTransactionRepo(store)
	treasuryRepo := memory.NewTreasuryRepo(store)
	transactor := memory.NewTransactor(store)

	log := logger.New("error", false)
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService("integration-test-secret-32bytes!!", 24*time.Hour, "hydra-ledger")
	currencies := service.NewCurrencies([]string{"USD"}, []string{"USDT"})
	rates := service.NewRateTable(map[string]float64{"usd/usdt": 0.998, "usdt/usd": 1.001})

	authSvc := service.NewAuthService(identityRepo, hashSvc, tokenSvc, log)
	ledgerSvc := service.NewLedgerService(
		walletRepo, txRepo, treasuryRepo, transactor,
		currencies, rates, service.NewSeededAddressSource(1), 24*time.Hour, log,
	)
	exchangeSvc := service.NewExchangeService(
		walletRepo, txRepo, transactor, currencies, rates,
		decimal.RequireFromString("0.005"), 30*time.Second, log,
	)
	treasurySvc := service.NewTreasuryService(treasuryRepo, txRepo, transactor, 24*time.Hour, log)

	seeder := service.NewSeeder(identityRepo, treasuryRepo, hashSvc, ledgerSvc, log)
	require.NoError(t, seeder.Run(context.Background(),
		[]service.SeedUser{
			{Email: "admin@hydra.io", Role: domain.RoleAdmin},
			{Email: "user@hydra.io", Role: domain.RoleUser},
		},
		"password123",
		[]service.SeedTreasury{
			{Currency: "USD", HotBalance: decimal.RequireFromString("150234.88"), ColdBalance: decimal.RequireFromString("1200000"), Address: "CashApp Hot Wallet"},
			{Currency: "USDT", HotBalance: decimal.RequireFromString("345890.12"), ColdBalance: decimal.RequireFromString("2500000"), Address: "TWdjuvPseXhN29KMYGdARD8Ep6kohotwallet"},
		},
		true,
	))

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:     authSvc,
		LedgerSvc:   ledgerSvc,
		ExchangeSvc: exchangeSvc,
		TreasurySvc: treasurySvc,
		TokenSvc:    tokenSvc,
		Gate:        service.NewLatencyGate(time.Millisecond),
		Logger:      log,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testApp{server: srv, txRepo: txRepo}
}

func (a *testApp) request(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, a.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &parsed), string(raw))
	return resp.StatusCode, parsed
}

func (a *testApp) login(t *testing.T, email string) string {
	t.Helper()
	code, resp := a.request(t, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, code)
	return resp["data"].(map[string]interface{})["token"].(string)
}

func TestFullUserFlow(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t, "user@hydra.io")

	// Seeded dashboard state.
	code, resp := app.request(t, http.MethodGet, "/api/v1/overview", token, nil)
	require.Equal(t, http.StatusOK, code)
	overview := resp["data"].(map[string]interface{})
	assert.Len(t, overview["wallets"], 2)

	// Deposit USD.
	code, resp = app.request(t, http.MethodPost, "/api/v1/deposits", token, map[string]interface{}{
		"amount":  249.25,
		"details": "Cash App Deposit",
	})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "Completed", resp["data"].(map[string]interface{})["status"])

	// Exchange part of the balance into USDT.
	code, resp = app.request(t, http.MethodPost, "/api/v1/exchange", token, map[string]interface{}{
		"from_currency": "USD",
		"to_currency":   "USDT",
		"amount":        500,
		"quoted_at":     time.Now().UTC().Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, code)

	// Withdraw and confirm it stays Pending until settled.
	code, resp = app.request(t, http.MethodPost, "/api/v1/withdrawals", token, map[string]interface{}{
		"currency": "USD",
		"amount":   1000,
		"details":  "to linked bank",
	})
	require.Equal(t, http.StatusCreated, code)
	withdrawal := resp["data"].(map[string]interface{})
	assert.Equal(t, "Pending", withdrawal["status"])
	txID := withdrawal["id"].(string)

	code, resp = app.request(t, http.MethodGet, "/api/v1/wallets", token, nil)
	require.Equal(t, http.StatusOK, code)
	// 1250.75 + 249.25 - 500 = 1000; the pending withdrawal has not
	// debited yet.
	usdBalance := walletBalance(t, resp, "USD")
	assert.True(t, usdBalance.Equal(decimal.NewFromInt(1000)), "got %s", usdBalance)

	// Admin settles the withdrawal.
	adminToken := app.login(t, "admin@hydra.io")
	code, _ = app.request(t, http.MethodPost, "/api/v1/admin/transactions/"+txID+"/settle", adminToken, map[string]interface{}{
		"outcome": "Completed",
	})
	require.Equal(t, http.StatusOK, code)

	code, resp = app.request(t, http.MethodGet, "/api/v1/wallets", token, nil)
	require.Equal(t, http.StatusOK, code)
	usdBalance = walletBalance(t, resp, "USD")
	assert.True(t, usdBalance.IsZero(), "got %s", usdBalance)
}

func TestAdminTreasuryFlow(t *testing.T) {
	app := newTestApp(t)
	adminToken := app.login(t, "admin@hydra.io")

	code, resp := app.request(t, http.MethodPost, "/api/v1/admin/withdrawals", adminToken, map[string]interface{}{
		"currency":            "USDT",
		"amount":              890.12,
		"destination_address": "TExternalColdStorage",
	})
	require.Equal(t, http.StatusCreated, code)
	payout := resp["data"].(map[string]interface{})
	txID := payout["id"].(string)
	assert.Equal(t, "to TExternalColdStorage", payout["details"])

	// The hot balance is reserved while the payout is Pending.
	code, resp = app.request(t, http.MethodGet, "/api/v1/admin/treasury", adminToken, nil)
	require.Equal(t, http.StatusOK, code)
	usdt := resp["data"].([]interface{})[1].(map[string]interface{})
	assert.Equal(t, "345000", usdt["hot_balance"])

	// A failed payout returns the reservation.
	code, _ = app.request(t, http.MethodPost, "/api/v1/admin/transactions/"+txID+"/settle", adminToken, map[string]interface{}{
		"outcome": "Failed",
	})
	require.Equal(t, http.StatusOK, code)

	code, resp = app.request(t, http.MethodGet, "/api/v1/admin/treasury", adminToken, nil)
	require.Equal(t, http.StatusOK, code)
	usdt = resp["data"].([]interface{})[1].(map[string]interface{})
	assert.Equal(t, "345890.12", usdt["hot_balance"])
}

func TestUserCannotReachAdminSurface(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t, "user@hydra.io")

	code, resp := app.request(t, http.MethodGet, "/api/v1/admin/treasury", token, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "AUTH_003", resp["error_code"])
}

// conservationHolds asserts balance == sum of Completed signed amounts
// for every wallet the user holds.
func conservationHolds(t *testing.T, app *testApp, token string, userID uuid.UUID) {
	t.Helper()
	code, resp := app.request(t, http.MethodGet, "/api/v1/wallets", token, nil)
	require.Equal(t, http.StatusOK, code)

	for _, raw := range resp["data"].([]interface{}) {
		w := raw.(map[string]interface{})
		balance, err := decimal.NewFromString(w["balance"].(string))
		require.NoError(t, err)

		sum, err := app.txRepo.Sum(context.Background(), userID, w["currency"].(string), domain.TransactionStatusCompleted)
		require.NoError(t, err)
		assert.True(t, balance.Equal(sum), "%s: balance %s vs completed sum %s", w["currency"], balance, sum)
	}
}

func walletBalance(t *testing.T, resp map[string]interface{}, currency string) decimal.Decimal {
	t.Helper()
	for _, raw := range resp["data"].([]interface{}) {
		w := raw.(map[string]interface{})
		if w["currency"] == currency {
			b, err := decimal.NewFromString(w["balance"].(string))
			require.NoError(t, err)
			return b
		}
	}
	t.Fatalf("no %s wallet in response", currency)
	return decimal.Zero
}

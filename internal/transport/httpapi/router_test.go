package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abenezerg/pluszone/internal/equb"
	"github.com/abenezerg/pluszone/internal/goal"
	"github.com/abenezerg/pluszone/internal/ledger"
	"github.com/abenezerg/pluszone/internal/loan"
	"github.com/abenezerg/pluszone/internal/planned"
	"github.com/abenezerg/pluszone/internal/platform/storage"
	"github.com/abenezerg/pluszone/internal/roadmap"
	"github.com/abenezerg/pluszone/internal/transport/httpapi/handler"
	"github.com/abenezerg/pluszone/pkg/logger"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()
	store := storage.NewMemory()
	log := logger.New("test", io.Discard)

	ledgerSvc, err := ledger.NewService(ctx, store, log)
	require.NoError(t, err)
	loanSvc, err := loan.NewService(ctx, store, ledgerSvc, log)
	require.NoError(t, err)
	equbSvc, err := equb.NewService(ctx, store, log)
	require.NoError(t, err)
	goalSvc, err := goal.NewService(ctx, store, log)
	require.NoError(t, err)
	plannedSvc, err := planned.NewService(ctx, store, log)
	require.NoError(t, err)
	tracker, err := roadmap.NewTracker(ctx, store, loanSvc, log)
	require.NoError(t, err)

	r := NewRouter(Config{
		Logger:             log,
		AllowedOrigins:     []string{"*"},
		TransactionHandler: handler.NewTransactionHandler(ledgerSvc),
		WalletHandler:      handler.NewWalletHandler(ledgerSvc),
		LoanHandler:        handler.NewLoanHandler(loanSvc),
		EqubHandler:        handler.NewEqubHandler(equbSvc),
		GoalHandler:        handler.NewGoalHandler(goalSvc),
		PlannedHandler:     handler.NewPlannedHandler(plannedSvc),
		RoadmapHandler:     handler.NewRoadmapHandler(loanSvc, equbSvc, plannedSvc, tracker),
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, data
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestTransactionFlow(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/transactions", map[string]any{
		"amount": "250",
		"type":   "EXPENSE",
		"method": "CASH",
		"note":   "lunch",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var tx struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &tx))
	require.NotEmpty(t, tx.ID)

	// Seed balance is 15000 for CASH; the expense debits it.
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/v1/balances", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var balances map[string]string
	require.NoError(t, json.Unmarshal(body, &balances))
	assert.Equal(t, "14750", balances["CASH"])

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/v1/balances/reconcile", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rec struct {
		Consistent bool `json:"consistent"`
	}
	require.NoError(t, json.Unmarshal(body, &rec))
	assert.True(t, rec.Consistent)

	// Editing a missing id is a no-op.
	resp, _ = doJSON(t, http.MethodPut, srv.URL+"/api/v1/transactions/missing", map[string]any{
		"amount": "10",
		"type":   "EXPENSE",
		"method": "CASH",
	})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/api/v1/transactions/"+tx.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestTransferValidation(t *testing.T) {
	srv := newTestServer(t)

	// EBIRR seeds at 5500; moving more than that is rejected.
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/balances/transfer", map[string]any{
		"amount": "6000",
		"from":   "EBIRR",
		"to":     "CASH",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, string(body))

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/v1/balances/transfer", map[string]any{
		"amount": "500",
		"from":   "EBIRR",
		"to":     "CASH",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestLoanLifecycleAndRoadmapSettle(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/loans", map[string]any{
		"loanName":       "Motorbike",
		"lenderName":     "Awash Bank",
		"totalAmount":    "12000",
		"interestRate":   "14",
		"durationMonths": 12,
		"startDate":      time.Now().UTC().Format(time.RFC3339),
		"paymentMethod":  "CBE",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var created struct {
		ID                string `json:"id"`
		MonthlyRepayment  string `json:"monthlyRepayment"`
		PaymentsMadeCount int    `json:"paymentsMadeCount"`
	}
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, "1140", created.MonthlyRepayment)

	// The loan shows up on the roadmap.
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/v1/roadmap?category=LOAN", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var items []struct {
		SourceID   string `json:"sourceId"`
		Occurrence int    `json:"occurrence"`
		Settled    bool   `json:"settled"`
	}
	require.NoError(t, json.Unmarshal(body, &items))
	require.Len(t, items, 12)
	assert.Equal(t, created.ID, items[0].SourceID)
	assert.False(t, items[0].Settled)

	// Settling the first occurrence pays the installment.
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/v1/roadmap/settle", map[string]any{
		"sourceType": "LOAN",
		"sourceId":   created.ID,
		"occurrence": 0,
	})
	require.Equal(t, http.StatusNoContent, resp.StatusCode, string(body))

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/v1/loans/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var after struct {
		PaymentsMadeCount int `json:"paymentsMadeCount"`
	}
	require.NoError(t, json.Unmarshal(body, &after))
	assert.Equal(t, 1, after.PaymentsMadeCount)
}

func TestGoalStatusExposed(t *testing.T) {
	srv := newTestServer(t)

	now := time.Now().UTC()
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/goals", map[string]any{
		"title":                 "Merkato Shop Inventory",
		"type":                  "SAVINGS",
		"targetAmount":          "10000",
		"currentAmount":         "2000",
		"startDate":             now.Format(time.RFC3339),
		"deadline":              now.AddDate(0, 4, 0).Format(time.RFC3339),
		"fundingSource":         "TELEBIRR",
		"contributionFrequency": "MONTHLY",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var g struct {
		Status             string `json:"status"`
		ContributionAmount string `json:"contributionAmount"`
	}
	require.NoError(t, json.Unmarshal(body, &g))
	assert.Equal(t, "ON_TRACK", g.Status)
	assert.Equal(t, "2000", g.ContributionAmount)
}

func TestEqubSettleRound(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/equbs", map[string]any{
		"name":               "Office Equb",
		"membersCount":       3,
		"contributionAmount": "500",
		"frequency":          "WEEKLY",
		"startDate":          time.Now().UTC().Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var g struct {
		ID           string `json:"id"`
		CurrentRound int    `json:"currentRound"`
		PotAmount    string `json:"potAmount"`
	}
	require.NoError(t, json.Unmarshal(body, &g))
	assert.Equal(t, 1, g.CurrentRound)
	assert.Equal(t, "1500", g.PotAmount)

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/v1/equbs/"+g.ID+"/settle-round", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var after struct {
		CurrentRound int    `json:"currentRound"`
		Status       string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(body, &after))
	assert.Equal(t, 2, after.CurrentRound)
	assert.Equal(t, "ACTIVE", after.Status)
}

func TestUnknownRouteIs404(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/v1/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

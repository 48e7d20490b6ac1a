package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"shopledger/internal/ledger"
	"shopledger/internal/middleware"
	"shopledger/internal/model"
	"shopledger/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func clock() time.Time { return time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC) }

type envelope struct {
	Status     string          `json:"status"`
	StatusCode int             `json:"status_code"`
	Data       json.RawMessage `json:"data"`
	Error      string          `json:"error"`
}

func newTestRouter(t *testing.T, authEnabled bool) (*gin.Engine, *ledger.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := ledger.NewStore(model.NewState(model.DefaultShop()), 0)
	renderer := service.NewDocumentRenderer()
	auth := middleware.NewAuth(testSecret, authEnabled)

	r := gin.New()
	api := r.Group("")
	NewInvoiceHandler(service.NewInvoiceService(store, renderer, clock)).RegisterRoutes(api, auth)
	NewQuotationHandler(service.NewQuotationService(store, renderer, clock)).RegisterRoutes(api, auth)
	NewInventoryHandler(service.NewInventoryService(store, clock)).RegisterRoutes(api, auth)
	NewDealerHandler(service.NewDealerService(store, clock)).RegisterRoutes(api, auth)
	NewTransactionHandler(service.NewTransactionService(store, renderer, clock), clock).RegisterRoutes(api, auth)
	NewCustomerHandler(service.NewCustomerService(store, clock)).RegisterRoutes(api, auth)
	NewAlertHandler(service.NewAlertService(store, clock)).RegisterRoutes(api, auth)
	NewLedgerHandler(service.NewLedgerService(store, clock)).RegisterRoutes(api, auth)
	return r, store
}

func request(t *testing.T, r http.Handler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func bearer(t *testing.T, role string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1", "role": role}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + s
}

func TestInvoiceEndpoints(t *testing.T) {
	r, store := newTestRouter(t, false)

	rr := request(t, r, http.MethodPost, "/api/stock", map[string]any{
		"item_name": "Bolt", "quantity": 10, "rate": "2", "min_limit": 5, "dealer": "Acme",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = request(t, r, http.MethodPost, "/api/invoices", map[string]any{
		"customer_name": "Ravi",
		"due_date":      "2026-04-01",
		"items":         []map[string]any{{"item_name": "Bolt", "quantity": 6, "rate": 3.5}},
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var inv model.Invoice
	env := decode(t, rr, &inv)
	require.Equal(t, "success", env.Status)
	require.Equal(t, "INV-001", inv.InvoiceNumber)
	require.Equal(t, "21", inv.Total.String())
	require.Equal(t, 4, store.GetState().Stock[0].Quantity)

	rr = request(t, r, http.MethodGet, "/api/invoices?page=1&limit=5", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var page struct {
		Items []model.Invoice `json:"items"`
		Total int64           `json:"total"`
		Limit int             `json:"limit"`
	}
	decode(t, rr, &page)
	require.Equal(t, int64(1), page.Total)
	require.Equal(t, 5, page.Limit)

	rr = request(t, r, http.MethodGet, "/api/invoices/INV-001/pdf", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	require.True(t, strings.HasPrefix(rr.Body.String(), "%PDF"))

	rr = request(t, r, http.MethodGet, "/api/invoices/INV-404", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
	env = decode(t, rr, nil)
	require.Equal(t, "error", env.Status)

	rr = request(t, r, http.MethodPost, "/api/invoices", map[string]any{"customer_name": "Ravi"})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, decode(t, rr, nil).Error, "items")

	rr = request(t, r, http.MethodGet, "/api/stock/reorder", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var groups []model.ReorderGroup
	decode(t, rr, &groups)
	require.Len(t, groups, 1)
}

func TestMalformedPayload(t *testing.T) {
	r, _ := newTestRouter(t, false)

	req := httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader("{"))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, rr.Body.String(), "Invalid request payload")
}

func TestDealerEndpointsEnforceRoles(t *testing.T) {
	r, store := newTestRouter(t, true)
	staff, owner := bearer(t, middleware.RoleStaff), bearer(t, middleware.RoleOwner)

	rr := request(t, r, http.MethodGet, "/api/dealers", nil)
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = request(t, r, http.MethodPost, "/api/dealers/payments", map[string]any{"dealer": "Acme", "amount": 50}, "Authorization", staff)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = request(t, r, http.MethodPost, "/api/dealers/Acme/reset", nil, "Authorization", staff)
	require.Equal(t, http.StatusForbidden, rr.Code)

	rr = request(t, r, http.MethodPost, "/api/dealers/Acme/reset", nil, "Authorization", owner)
	require.Equal(t, http.StatusOK, rr.Code)
	require.True(t, store.GetState().Dealers[0].Paid.IsZero())

	rr = request(t, r, http.MethodPost, "/api/dealers/Nobody/reset", nil, "Authorization", owner)
	require.Equal(t, http.StatusNotFound, rr.Code)

	rr = request(t, r, http.MethodPost, "/api/dealers/history/cleanup", nil, "Authorization", staff)
	require.Equal(t, http.StatusOK, rr.Code)
	var cleaned struct {
		Removed int `json:"removed"`
	}
	decode(t, rr, &cleaned)
	require.Zero(t, cleaned.Removed)
}

func TestTransactionExportAndAlerts(t *testing.T) {
	r, _ := newTestRouter(t, false)

	rr := request(t, r, http.MethodPost, "/api/transactions", map[string]any{"type": "cash", "amount": 120, "details": "counter"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = request(t, r, http.MethodGet, "/api/transactions/export", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Header().Get("Content-Disposition"), "transactions_2026-03-10.csv")
	require.True(t, strings.HasPrefix(rr.Body.String(), "Type,Amount,Details,Date\ncash,120,counter,"))

	rr = request(t, r, http.MethodGet, "/api/transactions?type=card", nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = request(t, r, http.MethodPost, "/api/reminders", map[string]any{"title": "Order paint", "severity": "high"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = request(t, r, http.MethodGet, "/api/alerts", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var alerts []model.Alert
	decode(t, rr, &alerts)
	require.Len(t, alerts, 1)
	require.Equal(t, "Order paint", alerts[0].Title)

	rr = request(t, r, http.MethodDelete, "/api/reminders", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = request(t, r, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var dash service.DashboardResponse
	decode(t, rr, &dash)
	require.Zero(t, dash.AlertCount)
	require.Equal(t, "120", dash.Transactions.CashTotal.String())
}

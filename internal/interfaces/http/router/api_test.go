package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nexus/backend/internal/application/crud"
	"github.com/nexus/backend/internal/application/identity"
	"github.com/nexus/backend/internal/infrastructure/auth"
	"github.com/nexus/backend/internal/infrastructure/config"
	"github.com/nexus/backend/internal/infrastructure/persistence"
	"github.com/nexus/backend/internal/infrastructure/storage"
	"github.com/nexus/backend/internal/interfaces/http/handler"
	"github.com/nexus/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type testAPI struct {
	engine   *gin.Engine
	registry *persistence.Registry
	tokens   *auth.JWTService
}

func newTestAPI(t *testing.T, opts ...crud.Option) *testAPI {
	t.Helper()
	log := zaptest.NewLogger(t)
	middleware.SetupValidator()

	store := storage.NewMemoryStore()
	reg := persistence.NewRegistry(store)
	require.NoError(t, reg.Seed(context.Background(), log))

	tokens := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret",
		Issuer:                "nexus-test",
		AccessTokenExpiration: time.Hour,
	})
	authService, err := identity.NewAuthService(reg.Users, tokens, "password", "user-1", log)
	require.NoError(t, err)

	metrics, err := middleware.NewHTTPMetrics("nexus")
	require.NoError(t, err)

	engine, err := NewEngine(EngineConfig{
		Logger:  log,
		HTTP:    config.HTTPConfig{MaxBodySize: 1 << 20},
		Metrics: metrics,
		Actor:   middleware.ActorConfig{Tokens: tokens, DefaultUserID: "user-1", Logger: log},
		System:  handler.NewSystemHandler(store, config.DriverMemory, "test"),
	}, NewAPI(reg, authService, log, opts...))
	require.NoError(t, err)

	return &testAPI{engine: engine, registry: reg, tokens: tokens}
}

func (a *testAPI) do(t *testing.T, method, path, body string, headers ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

type page struct {
	Items []map[string]any `json:"items"`
	Next  *string          `json:"next"`
}

func TestAPI_ListEveryResource(t *testing.T) {
	api := newTestAPI(t)

	resources := []string{
		"products", "categories", "product-movements", "clients", "suppliers",
		"transactions", "transaction-categories", "users", "roles", "permissions",
		"sales", "supplier-orders",
	}
	for _, r := range resources {
		t.Run(r, func(t *testing.T) {
			w, env := api.do(t, http.MethodGet, "/api/"+r, "")
			require.Equal(t, http.StatusOK, w.Code)
			assert.True(t, env.Success)

			p := decode[page](t, env.Data)
			assert.NotEmpty(t, p.Items)
			assert.Nil(t, p.Next)
			assert.Contains(t, string(env.Data), `"next":null`)
		})
	}
}

func TestAPI_ProductLifecycle(t *testing.T) {
	api := newTestAPI(t)

	w, env := api.do(t, http.MethodPost, "/api/products",
		`{"id":"chosen-by-client","name":"Desk lamp","reference":"LAMP-01","categoryId":"cat-3","priceSale":39.9}`,
		middleware.UserIDHeader, "user-2")
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[map[string]any](t, env.Data)
	id := created["id"].(string)
	assert.NotEqual(t, "chosen-by-client", id)
	assert.Equal(t, "user-2", created["createdBy"])
	assert.Equal(t, "user-2", created["updatedBy"])
	assert.Equal(t, "piece", created["unit"])
	assert.Equal(t, "inactive", created["status"])

	w, env = api.do(t, http.MethodPut, "/api/products/"+id, `{"status":"active","id":"other"}`)
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[map[string]any](t, env.Data)
	assert.Equal(t, id, updated["id"])
	assert.Equal(t, "active", updated["status"])
	assert.Equal(t, "Desk lamp", updated["name"])
	assert.Equal(t, "user-2", updated["createdBy"])
	assert.Equal(t, "user-1", updated["updatedBy"])

	w, env = api.do(t, http.MethodGet, "/api/products/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "active", decode[map[string]any](t, env.Data)["status"])

	w, env = api.do(t, http.MethodDelete, "/api/products/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"`+id+`","deleted":true}`, string(env.Data))

	w, env = api.do(t, http.MethodDelete, "/api/products/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"`+id+`","deleted":false}`, string(env.Data))

	w, env = api.do(t, http.MethodGet, "/api/products/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Product not found", env.Error)
}

func TestAPI_UpdateMissingRecord(t *testing.T) {
	api := newTestAPI(t)

	w, env := api.do(t, http.MethodPut, "/api/suppliers/sup-404", `{"companyName":"Ghost"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Supplier not found", env.Error)

	_, env = api.do(t, http.MethodGet, "/api/suppliers", "")
	assert.Len(t, decode[page](t, env.Data).Items, 2)
}

func TestAPI_InvalidJSON(t *testing.T) {
	api := newTestAPI(t)

	w, env := api.do(t, http.MethodPost, "/api/categories", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "Invalid request body")
}

func TestAPI_ClientRegistrationDate(t *testing.T) {
	api := newTestAPI(t)

	w, env := api.do(t, http.MethodPost, "/api/clients",
		`{"firstName":"Ada","lastName":"Byron","email":"ada@example.com","registrationDate":"1999-01-01T00:00:00Z"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var client struct {
		RegistrationDate time.Time `json:"registrationDate"`
		CreatedAt        time.Time `json:"createdAt"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &client))
	assert.True(t, client.RegistrationDate.Equal(client.CreatedAt))
}

func TestAPI_BlankTimestampAccepted(t *testing.T) {
	api := newTestAPI(t)

	w, env := api.do(t, http.MethodPut, "/api/clients/client-1", `{"registrationDate":""}`)
	require.Equal(t, http.StatusOK, w.Code, env.Error)
	client := decode[map[string]any](t, env.Data)
	assert.Equal(t, "", client["registrationDate"])
	assert.Equal(t, "client-1", client["id"])

	w, env = api.do(t, http.MethodPost, "/api/clients",
		`{"firstName":"Ada","lastName":"Byron","email":"ada@example.com","registrationDate":""}`)
	require.Equal(t, http.StatusCreated, w.Code, env.Error)
	assert.NotEmpty(t, decode[map[string]any](t, env.Data)["registrationDate"])
}

func TestAPI_NumericFieldRejectsString(t *testing.T) {
	api := newTestAPI(t)

	w, env := api.do(t, http.MethodPost, "/api/products", `{"name":"Desk lamp","stockQuantity":"5"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "Invalid request body")

	w, _ = api.do(t, http.MethodPut, "/api/products/prod-1", `{"stockQuantity":"5"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPI_SaleLifecycle(t *testing.T) {
	api := newTestAPI(t)

	w, env := api.do(t, http.MethodPost, "/api/sales", `{
		"saleData": {"clientId":"client-2","totalAmount":100,"paymentMethod":"Cash","status":"completed"},
		"itemsData": [
			{"productId":"prod-1","quantity":1,"unitPrice":60,"totalPrice":60},
			{"productId":"prod-2","quantity":2,"unitPrice":20,"totalPrice":40}
		]
	}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Sale  map[string]any   `json:"sale"`
		Items []map[string]any `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	saleID := created.Sale["id"].(string)
	assert.Equal(t, "user-1", created.Sale["userId"])
	require.Len(t, created.Items, 2)
	for _, item := range created.Items {
		assert.Equal(t, saleID, item["saleId"])
	}

	w, env = api.do(t, http.MethodGet, "/api/sales/"+saleID+"/items", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[page](t, env.Data).Items, 2)

	w, env = api.do(t, http.MethodPut, "/api/sales/"+saleID, `{
		"saleData": {"notes":"one line only"},
		"itemsData": [{"productId":"prod-2","quantity":5,"unitPrice":20,"totalPrice":100}]
	}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "one line only", created.Sale["notes"])
	assert.Equal(t, "client-2", created.Sale["clientId"])
	require.Len(t, created.Items, 1)

	_, env = api.do(t, http.MethodGet, "/api/sales/"+saleID+"/items", "")
	items := decode[page](t, env.Data).Items
	require.Len(t, items, 1)
	assert.Equal(t, float64(5), items[0]["quantity"])

	// The seeded sale keeps its own items
	_, env = api.do(t, http.MethodGet, "/api/sales/sale-1/items", "")
	assert.Len(t, decode[page](t, env.Data).Items, 2)

	w, env = api.do(t, http.MethodDelete, "/api/sales/"+saleID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"`+saleID+`","deleted":true}`, string(env.Data))

	_, env = api.do(t, http.MethodGet, "/api/sales/"+saleID+"/items", "")
	assert.Empty(t, decode[page](t, env.Data).Items)

	w, _ = api.do(t, http.MethodGet, "/api/sales/"+saleID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_SaleRejectsNonObjectData(t *testing.T) {
	api := newTestAPI(t)

	w, env := api.do(t, http.MethodPost, "/api/sales", `{"saleData":[1,2],"itemsData":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Error, "Invalid request body")

	_, env = api.do(t, http.MethodGet, "/api/sales", "")
	assert.Len(t, decode[page](t, env.Data).Items, 1)
}

func TestAPI_SupplierOrderKeys(t *testing.T) {
	api := newTestAPI(t)

	w, env := api.do(t, http.MethodPost, "/api/supplier-orders", `{
		"orderData": {"supplierId":"sup-2","totalAmount":300},
		"itemsData": [{"productId":"prod-2","quantity":30,"unitPrice":10,"totalPrice":300}]
	}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Order map[string]any   `json:"order"`
		Items []map[string]any `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NotNil(t, created.Order)
	require.Len(t, created.Items, 1)
	assert.Equal(t, created.Order["id"], created.Items[0]["supplierOrderId"])
}

func TestAPI_StrictValidation(t *testing.T) {
	api := newTestAPI(t, crud.WithValidator(middleware.NewEntityValidator()))

	w, env := api.do(t, http.MethodPost, "/api/products", `{"name":"x","categoryId":"cat-1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Error, "name: Must be at least 2 characters")

	w, env = api.do(t, http.MethodPost, "/api/sales", `{"saleData":{"clientId":"client-1","paymentMethod":"Cash"},"itemsData":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "at least one item is required", env.Error)
}

func TestAPI_LoginSetsActor(t *testing.T) {
	api := newTestAPI(t)

	w, env := api.do(t, http.MethodPost, "/api/auth/login", `{"email":"seller@nexus.com","password":"password"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var login identity.LoginResult
	require.NoError(t, json.Unmarshal(env.Data, &login))
	assert.Equal(t, "user-2", login.User.ID)
	assert.NotContains(t, string(env.Data), "passwordHash")
	require.NotEmpty(t, login.AccessToken)

	w, env = api.do(t, http.MethodPost, "/api/products", `{"name":"Stylo","reference":"PEN-1","categoryId":"cat-3"}`,
		middleware.AuthHeaderKey, middleware.BearerPrefix+login.AccessToken)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "user-2", decode[map[string]any](t, env.Data)["createdBy"])
}

func TestAPI_LoginFailures(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{"wrong password", `{"password":"nope"}`, http.StatusUnauthorized, "Invalid credentials"},
		{"unknown email", `{"email":"ghost@nexus.com","password":"password"}`, http.StatusUnauthorized, "Invalid credentials"},
		{"missing password", `{"email":"admin@nexus.com"}`, http.StatusBadRequest, "password: This field is required"},
		{"bad email", `{"email":"admin","password":"password"}`, http.StatusBadRequest, "email: Invalid email format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := api.do(t, http.MethodPost, "/api/auth/login", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantError, env.Error)
		})
	}
}

func TestAPI_Dashboard(t *testing.T) {
	api := newTestAPI(t)

	w, env := api.do(t, http.MethodGet, "/api/reports/dashboard", "")
	require.Equal(t, http.StatusOK, w.Code)

	var dashboard struct {
		SalesCount     int    `json:"salesCount"`
		ClientCount    int    `json:"clientCount"`
		ActiveProducts int    `json:"activeProducts"`
		TotalRevenue   string `json:"totalRevenue"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &dashboard))
	assert.Equal(t, 1, dashboard.SalesCount)
	assert.Equal(t, 2, dashboard.ClientCount)
	assert.Equal(t, 2, dashboard.ActiveProducts)
	assert.Equal(t, "829.98", dashboard.TotalRevenue)
}

func TestAPI_SystemRoutes(t *testing.T) {
	api := newTestAPI(t)

	w, env := api.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[map[string]any](t, env.Data)["status"])

	w, env = api.do(t, http.MethodGet, "/api/unknown", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Route not found", env.Error)

	w, _ = api.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `route="unknown",status="404"`)
}

package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestRouter_MountsUnderAPIPrefix(t *testing.T) {
	engine := gin.New()
	group := NewDomainGroup("reports", "/reports").GET("/dashboard", func(c *gin.Context) {
		c.String(http.StatusOK, "dashboard")
	})
	NewRouter(engine).Register(group).Setup()

	w := serve(engine, http.MethodGet, "/api/reports/dashboard")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "dashboard", w.Body.String())

	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/reports/dashboard").Code)
}

func TestDomainGroup_Methods(t *testing.T) {
	engine := gin.New()
	reply := func(body string) gin.HandlerFunc {
		return func(c *gin.Context) { c.String(http.StatusOK, body) }
	}
	group := NewDomainGroup("products", "/products").
		GET("", reply("list")).
		GET("/:id", reply("get")).
		POST("", reply("create")).
		PUT("/:id", reply("update")).
		DELETE("/:id", reply("delete"))
	NewRouter(engine).Register(group).Setup()

	tests := []struct {
		method string
		path   string
		want   string
	}{
		{http.MethodGet, "/api/products", "list"},
		{http.MethodGet, "/api/products/p-1", "get"},
		{http.MethodPost, "/api/products", "create"},
		{http.MethodPut, "/api/products/p-1", "update"},
		{http.MethodDelete, "/api/products/p-1", "delete"},
	}
	for _, tt := range tests {
		w := serve(engine, tt.method, tt.path)
		assert.Equal(t, http.StatusOK, w.Code, "%s %s", tt.method, tt.path)
		assert.Equal(t, tt.want, w.Body.String(), "%s %s", tt.method, tt.path)
	}
}

func TestDomainGroup_HandlerChain(t *testing.T) {
	engine := gin.New()
	var order []string
	step := func(name string) gin.HandlerFunc {
		return func(c *gin.Context) { order = append(order, name) }
	}
	group := NewDomainGroup("sales", "/sales").GET("/:id/items", step("first"), step("second"))
	NewRouter(engine).Register(group).Setup()

	serve(engine, http.MethodGet, "/api/sales/s-1/items")
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestDomainGroup_Routes(t *testing.T) {
	group := NewDomainGroup("auth", "/auth").POST("/login")
	assert.Equal(t, "auth", group.Name())

	routes := group.Routes()
	require.Len(t, routes, 1)
	assert.Equal(t, http.MethodPost, routes[0].Method)
	assert.Equal(t, "/auth/login", routes[0].Path)

	// callers get a copy
	routes[0].Path = "/changed"
	assert.Equal(t, "/auth/login", group.Routes()[0].Path)
}

func TestAPI_RouteTable(t *testing.T) {
	// handlers are bound but never invoked
	api := &API{}
	table := map[string][]string{}
	for _, g := range api.groups() {
		for _, r := range g.Routes() {
			table[g.Name()] = append(table[g.Name()], r.Method+" "+r.Path)
		}
	}

	assert.Len(t, table, 14)
	assert.Equal(t, []string{
		"GET /products",
		"GET /products/:id",
		"POST /products",
		"PUT /products/:id",
		"DELETE /products/:id",
	}, table["products"])
	assert.Equal(t, []string{
		"GET /supplier-orders",
		"GET /supplier-orders/:id",
		"GET /supplier-orders/:id/items",
		"POST /supplier-orders",
		"PUT /supplier-orders/:id",
		"DELETE /supplier-orders/:id",
	}, table["supplier-orders"])
	assert.Equal(t, []string{"POST /auth/login"}, table["auth"])
	assert.Equal(t, []string{"GET /reports/dashboard"}, table["reports"])
}

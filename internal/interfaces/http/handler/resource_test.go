package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nexus/backend/internal/application/crud"
	"github.com/nexus/backend/internal/application/trade"
	"github.com/nexus/backend/internal/domain/catalog"
	"github.com/nexus/backend/internal/infrastructure/persistence"
	"github.com/nexus/backend/internal/infrastructure/storage"
	"github.com/nexus/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// unreachableStore fails every call like a store whose connection dropped
type unreachableStore struct{}

var errUnreachable = errors.New("connection reset")

func (unreachableStore) Get(context.Context, string) ([]byte, error) { return nil, errUnreachable }
func (unreachableStore) Put(context.Context, string, []byte) error { return errUnreachable }
func (unreachableStore) Delete(context.Context, string) (bool, error) { return false, errUnreachable }
func (unreachableStore) Ping(context.Context) error { return errUnreachable }
func (unreachableStore) Close() error { return nil }

func newCategoryRouter(reg *persistence.Registry) *gin.Engine {
	h := NewResourceHandler(crud.NewService[catalog.Category](reg.Categories))
	router := gin.New()
	router.Use(middleware.Actor(middleware.ActorConfig{DefaultUserID: "user-1"}))
	router.GET("/categories", h.List)
	router.GET("/categories/:id", h.Get)
	router.POST("/categories", h.Create)
	router.PUT("/categories/:id", h.Update)
	router.DELETE("/categories/:id", h.Delete)
	return router
}

func TestResourceHandler_CRUD(t *testing.T) {
	router := newCategoryRouter(persistence.NewRegistry(storage.NewMemoryStore()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/categories", strings.NewReader(`{"name":"Jardin"}`)))
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeResponse(t, w).Data.(map[string]any)
	id := created["id"].(string)
	assert.NotEmpty(t, id)
	assert.Equal(t, "Jardin", created["name"])

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/categories/"+id, strings.NewReader(`{"parentId":"cat-3"}`)))
	require.Equal(t, http.StatusOK, w.Code)
	updated := decodeResponse(t, w).Data.(map[string]any)
	assert.Equal(t, "Jardin", updated["name"])
	assert.Equal(t, "cat-3", updated["parentId"])

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/categories", nil))
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeResponse(t, w).Data.(map[string]any)
	assert.Len(t, list["items"], 1)
	assert.Nil(t, list["next"])

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/categories/"+id, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"id":"`+id+`","deleted":true}}`, w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/categories/"+id, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Category not found", decodeResponse(t, w).Error)
}

func TestResourceHandler_EmptyBodyCreatesDefaults(t *testing.T) {
	router := newCategoryRouter(persistence.NewRegistry(storage.NewMemoryStore()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/categories", nil))

	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeResponse(t, w).Data.(map[string]any)
	assert.NotEmpty(t, created["id"])
	assert.Equal(t, "", created["name"])
}

func TestResourceHandler_StoreFailure(t *testing.T) {
	router := newCategoryRouter(persistence.NewRegistry(unreachableStore{}))

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/categories", nil),
		httptest.NewRequest(http.MethodGet, "/categories/cat-1", nil),
		httptest.NewRequest(http.MethodPost, "/categories", strings.NewReader(`{"name":"x"}`)),
		httptest.NewRequest(http.MethodDelete, "/categories/cat-1", nil),
	} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code, req.Method+" "+req.URL.Path)
		resp := decodeResponse(t, w)
		assert.False(t, resp.Success)
		assert.Equal(t, "Internal server error", resp.Error)
	}
}

func TestSaleHandler_PartialFailure(t *testing.T) {
	store := &itemFailingStore{MemoryStore: storage.NewMemoryStore()}
	reg := persistence.NewRegistry(store)
	h := NewSaleHandler(trade.NewSaleService(reg.Sales, reg.SaleItems, zaptest.NewLogger(t)))

	router := gin.New()
	router.POST("/sales", h.Create)
	router.GET("/sales", h.List)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(
		`{"saleData":{"clientId":"client-1"},"itemsData":[{"productId":"prod-1","quantity":1}]}`,
	)))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	// The header stays written
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sales", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeResponse(t, w).Data.(map[string]any)["items"], 1)
}

func TestSaleHandler_EmptyBody(t *testing.T) {
	reg := persistence.NewRegistry(storage.NewMemoryStore())
	h := NewSaleHandler(trade.NewSaleService(reg.Sales, reg.SaleItems, nil))

	router := gin.New()
	router.POST("/sales", h.Create)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sales", nil))

	require.Equal(t, http.StatusCreated, w.Code)
	data := decodeResponse(t, w).Data.(map[string]any)
	assert.Equal(t, "pending", data["sale"].(map[string]any)["status"])
	assert.Equal(t, []any{}, data["items"])
}

// itemFailingStore rejects every sale item write
type itemFailingStore struct {
	*storage.MemoryStore
}

func (s *itemFailingStore) Put(ctx context.Context, key string, value []byte) error {
	if strings.HasPrefix(key, "saleItem:") {
		return errUnreachable
	}
	return s.MemoryStore.Put(ctx, key, value)
}

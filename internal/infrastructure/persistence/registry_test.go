package persistence

import (
	"context"
	"testing"

	"github.com/nexus/backend/internal/domain/catalog"
	"github.com/nexus/backend/internal/domain/trade"
	"github.com/nexus/backend/internal/infrastructure/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRegistry_SeedPopulatesEveryType(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zapcore.InfoLevel)
	reg := NewRegistry(storage.NewMemoryStore())

	require.NoError(t, reg.Seed(ctx, zap.New(core)))

	counts := map[string]int{}
	count := func(name string, n int, err error) {
		require.NoError(t, err)
		counts[name] = n
	}
	products, err := reg.Products.List(ctx)
	count("products", len(products), err)
	categories, err := reg.Categories.List(ctx)
	count("categories", len(categories), err)
	movements, err := reg.ProductMovements.List(ctx)
	count("movements", len(movements), err)
	clients, err := reg.Clients.List(ctx)
	count("clients", len(clients), err)
	suppliers, err := reg.Suppliers.List(ctx)
	count("suppliers", len(suppliers), err)
	sales, err := reg.Sales.List(ctx)
	count("sales", len(sales), err)
	saleItems, err := reg.SaleItems.List(ctx)
	count("saleItems", len(saleItems), err)
	orders, err := reg.SupplierOrders.List(ctx)
	count("orders", len(orders), err)
	orderItems, err := reg.SupplierOrderItems.List(ctx)
	count("orderItems", len(orderItems), err)
	transactions, err := reg.Transactions.List(ctx)
	count("transactions", len(transactions), err)
	tcats, err := reg.TransactionCategories.List(ctx)
	count("tcats", len(tcats), err)
	users, err := reg.Users.List(ctx)
	count("users", len(users), err)
	roles, err := reg.Roles.List(ctx)
	count("roles", len(roles), err)
	perms, err := reg.Permissions.List(ctx)
	count("perms", len(perms), err)

	assert.Equal(t, map[string]int{
		"products": 2, "categories": 4, "movements": 2, "clients": 2,
		"suppliers": 2, "sales": 1, "saleItems": 2, "orders": 1, "orderItems": 1,
		"transactions": 2, "tcats": 3, "users": 2, "roles": 2, "perms": 4,
	}, counts)

	entries := logs.FilterMessage("Seed complete").All()
	require.Len(t, entries, 1)
	assert.EqualValues(t, 30, entries[0].ContextMap()["rows"])
}

func TestRegistry_SeedIsNoOpSecondTime(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(storage.NewMemoryStore())
	require.NoError(t, reg.Seed(ctx, zap.NewNop()))

	core, logs := observer.New(zapcore.InfoLevel)
	require.NoError(t, reg.Seed(ctx, zap.New(core)))

	entries := logs.FilterMessage("Seed complete").All()
	require.Len(t, entries, 1)
	assert.EqualValues(t, 0, entries[0].ContextMap()["rows"])

	products, err := reg.Products.List(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestRegistry_SeedValuesSurviveRoundTrip(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(storage.NewMemoryStore())
	require.NoError(t, reg.Seed(ctx, zap.NewNop()))

	sale, err := reg.Sales.Get(ctx, "sale-1")
	require.NoError(t, err)
	assert.Equal(t, "829.98", sale.TotalAmount.String())
	assert.Equal(t, trade.SaleStatusCompleted, sale.Status)

	product, err := reg.Products.Get(ctx, "prod-1")
	require.NoError(t, err)
	assert.Equal(t, "799.99", product.PriceSale.String())
	assert.Equal(t, catalog.ProductStatusActive, product.Status)
	assert.Equal(t, SeedActor, product.CreatedBy)

	category, err := reg.Categories.Get(ctx, "cat-4")
	require.NoError(t, err)
	assert.Equal(t, "cat-1", category.ParentID)
}

func TestRegistry_NotFoundLabels(t *testing.T) {
	reg := NewRegistry(storage.NewMemoryStore())

	_, err := reg.SupplierOrders.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, "Supplier order not found", err.Error())
}

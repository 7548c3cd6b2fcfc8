package persistence

import (
	"context"
	"fmt"

	"github.com/nexus/backend/internal/domain/catalog"
	"github.com/nexus/backend/internal/domain/finance"
	"github.com/nexus/backend/internal/domain/identity"
	"github.com/nexus/backend/internal/domain/partner"
	"github.com/nexus/backend/internal/domain/shared"
	"github.com/nexus/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// Entity definitions. Name and IndexName are the storage namespaces and must
// not change once data has been written.
var (
	ProductDefinition = Definition[catalog.Product]{
		Name: "product", IndexName: "products", Label: "Product",
		Default: catalog.NewProduct, Seed: seedProducts,
	}
	CategoryDefinition = Definition[catalog.Category]{
		Name: "category", IndexName: "categories", Label: "Category",
		Default: catalog.NewCategory, Seed: seedCategories,
	}
	ProductMovementDefinition = Definition[catalog.ProductMovement]{
		Name: "productMovement", IndexName: "productMovements", Label: "Product movement",
		Default: catalog.NewProductMovement, Seed: seedProductMovements,
	}
	ClientDefinition = Definition[partner.Client]{
		Name: "client", IndexName: "clients", Label: "Client",
		Default: partner.NewClient, Seed: seedClients,
	}
	SupplierDefinition = Definition[partner.Supplier]{
		Name: "supplier", IndexName: "suppliers", Label: "Supplier",
		Default: partner.NewSupplier, Seed: seedSuppliers,
	}
	SaleDefinition = Definition[trade.Sale]{
		Name: "sale", IndexName: "sales", Label: "Sale",
		Default: trade.NewSale, Seed: seedSales,
	}
	SaleItemDefinition = Definition[trade.SaleItem]{
		Name: "saleItem", IndexName: "saleItems", Label: "Sale item",
		Default: trade.NewSaleItem, Seed: seedSaleItems,
	}
	SupplierOrderDefinition = Definition[trade.SupplierOrder]{
		Name: "supplierOrder", IndexName: "supplierOrders", Label: "Supplier order",
		Default: trade.NewSupplierOrder, Seed: seedSupplierOrders,
	}
	SupplierOrderItemDefinition = Definition[trade.SupplierOrderItem]{
		Name: "supplierOrderItem", IndexName: "supplierOrderItems", Label: "Supplier order item",
		Default: trade.NewSupplierOrderItem, Seed: seedSupplierOrderItems,
	}
	TransactionDefinition = Definition[finance.Transaction]{
		Name: "transaction", IndexName: "transactions", Label: "Transaction",
		Default: finance.NewTransaction, Seed: seedTransactions,
	}
	TransactionCategoryDefinition = Definition[finance.TransactionCategory]{
		Name: "transactionCategory", IndexName: "transactionCategories", Label: "Transaction category",
		Default: finance.NewTransactionCategory, Seed: seedTransactionCategories,
	}
	UserDefinition = Definition[identity.User]{
		Name: "user", IndexName: "users", Label: "User",
		Default: identity.NewUser, Seed: seedUsers,
	}
	RoleDefinition = Definition[identity.Role]{
		Name: "role", IndexName: "roles", Label: "Role",
		Default: identity.NewRole, Seed: seedRoles,
	}
	PermissionDefinition = Definition[identity.Permission]{
		Name: "permission", IndexName: "permissions", Label: "Permission",
		Default: identity.NewPermission, Seed: seedPermissions,
	}
)

type seeder interface {
	Name() string
	EnsureSeed(ctx context.Context) (int, error)
}

// Registry holds one EntityStore per entity type over a shared record store
type Registry struct {
	Products              *EntityStore[catalog.Product, *catalog.Product]
	Categories            *EntityStore[catalog.Category, *catalog.Category]
	ProductMovements      *EntityStore[catalog.ProductMovement, *catalog.ProductMovement]
	Clients               *EntityStore[partner.Client, *partner.Client]
	Suppliers             *EntityStore[partner.Supplier, *partner.Supplier]
	Sales                 *EntityStore[trade.Sale, *trade.Sale]
	SaleItems             *EntityStore[trade.SaleItem, *trade.SaleItem]
	SupplierOrders        *EntityStore[trade.SupplierOrder, *trade.SupplierOrder]
	SupplierOrderItems    *EntityStore[trade.SupplierOrderItem, *trade.SupplierOrderItem]
	Transactions          *EntityStore[finance.Transaction, *finance.Transaction]
	TransactionCategories *EntityStore[finance.TransactionCategory, *finance.TransactionCategory]
	Users                 *EntityStore[identity.User, *identity.User]
	Roles                 *EntityStore[identity.Role, *identity.Role]
	Permissions           *EntityStore[identity.Permission, *identity.Permission]

	seeders []seeder
}

// NewRegistry builds the entity stores for every type
func NewRegistry(store shared.RecordStore) *Registry {
	r := &Registry{
		Products:              NewEntityStore[catalog.Product](store, ProductDefinition),
		Categories:            NewEntityStore[catalog.Category](store, CategoryDefinition),
		ProductMovements:      NewEntityStore[catalog.ProductMovement](store, ProductMovementDefinition),
		Clients:               NewEntityStore[partner.Client](store, ClientDefinition),
		Suppliers:             NewEntityStore[partner.Supplier](store, SupplierDefinition),
		Sales:                 NewEntityStore[trade.Sale](store, SaleDefinition),
		SaleItems:             NewEntityStore[trade.SaleItem](store, SaleItemDefinition),
		SupplierOrders:        NewEntityStore[trade.SupplierOrder](store, SupplierOrderDefinition),
		SupplierOrderItems:    NewEntityStore[trade.SupplierOrderItem](store, SupplierOrderItemDefinition),
		Transactions:          NewEntityStore[finance.Transaction](store, TransactionDefinition),
		TransactionCategories: NewEntityStore[finance.TransactionCategory](store, TransactionCategoryDefinition),
		Users:                 NewEntityStore[identity.User](store, UserDefinition),
		Roles:                 NewEntityStore[identity.Role](store, RoleDefinition),
		Permissions:           NewEntityStore[identity.Permission](store, PermissionDefinition),
	}
	r.seeders = []seeder{
		r.Roles, r.Users, r.Permissions,
		r.Categories, r.Products, r.ProductMovements,
		r.Clients, r.Sales, r.SaleItems,
		r.Suppliers, r.SupplierOrders, r.SupplierOrderItems,
		r.TransactionCategories, r.Transactions,
	}
	return r
}

// Seed fills every empty entity type with its demo rows. It is meant to run
// once at startup, before the server accepts requests.
func (r *Registry) Seed(ctx context.Context, logger *zap.Logger) error {
	total := 0
	for _, s := range r.seeders {
		n, err := s.EnsureSeed(ctx)
		if err != nil {
			return fmt.Errorf("failed to seed %s: %w", s.Name(), err)
		}
		if n > 0 {
			logger.Debug("Seeded entity type", zap.String("entity", s.Name()), zap.Int("rows", n))
		}
		total += n
	}
	logger.Info("Seed complete", zap.Int("rows", total))
	return nil
}

var _ shared.EntityRepository[catalog.Product] = (*EntityStore[catalog.Product, *catalog.Product])(nil)

package persistence

import (
	"time"

	"github.com/nexus/backend/internal/domain/catalog"
	"github.com/nexus/backend/internal/domain/finance"
	"github.com/nexus/backend/internal/domain/identity"
	"github.com/nexus/backend/internal/domain/partner"
	"github.com/nexus/backend/internal/domain/shared"
	"github.com/nexus/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// isoLayout renders dates the way browsers serialise them
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

// SeedActor is the user the demo dataset is attributed to
const SeedActor = "user-1"

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedRoles(now time.Time) []identity.Role {
	return []identity.Role{
		{BaseEntity: shared.NewBaseEntity("role-1", now), Name: "Administrateur", Description: "Accès complet à toutes les fonctionnalités"},
		{BaseEntity: shared.NewBaseEntity("role-2", now), Name: "Gestionnaire de Ventes", Description: "Gère les produits, les ventes et les clients"},
	}
}

func seedUsers(now time.Time) []identity.User {
	return []identity.User{
		{
			BaseEntity:   shared.NewBaseEntity("user-1", now),
			FirstName:    "Admin",
			LastName:     "User",
			Email:        "admin@nexus.com",
			PasswordHash: "hashed_password",
			RoleID:       "role-1",
			Status:       identity.UserStatusActive,
		},
		{
			BaseEntity:   shared.NewBaseEntity("user-2", now),
			FirstName:    "Vendeur",
			LastName:     "Test",
			Email:        "seller@nexus.com",
			PasswordHash: "hashed_password",
			RoleID:       "role-2",
			Status:       identity.UserStatusActive,
		},
	}
}

func seedPermissions(now time.Time) []identity.Permission {
	perm := func(id, roleID, module string, create, read, update, del bool) identity.Permission {
		return identity.Permission{
			BaseEntity: shared.NewBaseEntity(id, now),
			RoleID:     roleID,
			Module:     module,
			CanCreate:  create,
			CanRead:    read,
			CanUpdate:  update,
			CanDelete:  del,
		}
	}
	return []identity.Permission{
		perm("perm-1", "role-1", "products", true, true, true, true),
		perm("perm-2", "role-1", "sales", true, true, true, true),
		perm("perm-3", "role-2", "products", true, true, true, false),
		perm("perm-4", "role-2", "sales", true, true, false, false),
	}
}

func seedCategories(now time.Time) []catalog.Category {
	return []catalog.Category{
		{BaseEntity: shared.NewBaseEntity("cat-1", now), Name: "Électronique"},
		{BaseEntity: shared.NewBaseEntity("cat-2", now), Name: "Vêtements"},
		{BaseEntity: shared.NewBaseEntity("cat-3", now), Name: "Maison & Jardin"},
		{BaseEntity: shared.NewBaseEntity("cat-4", now), Name: "Smartphones", ParentID: "cat-1"},
	}
}

func seedProducts(now time.Time) []catalog.Product {
	return []catalog.Product{
		{
			BaseEntity:    shared.NewBaseEntity("prod-1", now),
			UserTracked:   shared.NewUserTracked(SeedActor),
			Name:          "Smartphone X-1000",
			Reference:     "NEX-X1000",
			CategoryID:    "cat-4",
			StockQuantity: 150,
			Unit:          catalog.DefaultUnit,
			PriceSale:     money("799.99"),
			PricePurchase: money("450.00"),
			Status:        catalog.ProductStatusActive,
		},
		{
			BaseEntity:    shared.NewBaseEntity("prod-2", now),
			UserTracked:   shared.NewUserTracked(SeedActor),
			Name:          "T-Shirt Classique",
			Reference:     "NEX-TSHIRT-BLK",
			CategoryID:    "cat-2",
			StockQuantity: 500,
			Unit:          catalog.DefaultUnit,
			PriceSale:     money("29.99"),
			PricePurchase: money("12.50"),
			Status:        catalog.ProductStatusActive,
		},
	}
}

func seedProductMovements(now time.Time) []catalog.ProductMovement {
	date := now.Format(isoLayout)
	return []catalog.ProductMovement{
		{BaseEntity: shared.NewBaseEntity("move-1", now), ProductID: "prod-1", Type: catalog.MovementTypeIn, Quantity: 200, Reason: "Stock initial", Date: date, UserID: SeedActor},
		{BaseEntity: shared.NewBaseEntity("move-2", now), ProductID: "prod-1", Type: catalog.MovementTypeOut, Quantity: 50, Reason: "Vente #VTE-2024-001", Date: date, UserID: SeedActor},
	}
}

func seedClients(now time.Time) []partner.Client {
	return []partner.Client{
		{
			BaseEntity:       shared.NewBaseEntity("client-1", now),
			UserTracked:      shared.NewUserTracked(SeedActor),
			FirstName:        "Jean",
			LastName:         "Dupont",
			Email:            "jean.dupont@email.com",
			ClientType:       partner.ClientTypeIndividual,
			RegistrationDate: shared.NewTimestamp(now),
		},
		{
			BaseEntity:       shared.NewBaseEntity("client-2", now),
			UserTracked:      shared.NewUserTracked(SeedActor),
			FirstName:        "Marie",
			LastName:         "Curie",
			Email:            "marie.curie@science.com",
			ClientType:       partner.ClientTypeIndividual,
			RegistrationDate: shared.NewTimestamp(now),
		},
	}
}

func seedSales(now time.Time) []trade.Sale {
	return []trade.Sale{
		{
			BaseEntity:    shared.NewBaseEntity("sale-1", now),
			SaleNumber:    "VTE-2024-001",
			ClientID:      "client-1",
			UserID:        SeedActor,
			Date:          now.Format(isoLayout),
			TotalAmount:   money("829.98"),
			Status:        trade.SaleStatusCompleted,
			PaymentMethod: "Credit Card",
		},
	}
}

func seedSaleItems(now time.Time) []trade.SaleItem {
	return []trade.SaleItem{
		{BaseEntity: shared.NewBaseEntity("sitem-1", now), SaleID: "sale-1", ProductID: "prod-1", Quantity: 1, UnitPrice: money("799.99"), TotalPrice: money("799.99")},
		{BaseEntity: shared.NewBaseEntity("sitem-2", now), SaleID: "sale-1", ProductID: "prod-2", Quantity: 1, UnitPrice: money("29.99"), TotalPrice: money("29.99")},
	}
}

func seedSuppliers(now time.Time) []partner.Supplier {
	return []partner.Supplier{
		{
			BaseEntity:  shared.NewBaseEntity("sup-1", now),
			UserTracked: shared.NewUserTracked(SeedActor),
			CompanyName: "ElectroFournisseur Inc.",
			Email:       "contact@electrofournisseur.com",
			Status:      partner.SupplierStatusActive,
		},
		{
			BaseEntity:  shared.NewBaseEntity("sup-2", now),
			UserTracked: shared.NewUserTracked(SeedActor),
			CompanyName: "Textile World",
			Email:       "sales@textileworld.com",
			Status:      partner.SupplierStatusActive,
		},
	}
}

func seedSupplierOrders(now time.Time) []trade.SupplierOrder {
	return []trade.SupplierOrder{
		{
			BaseEntity:  shared.NewBaseEntity("supord-1", now),
			SupplierID:  "sup-1",
			OrderNumber: "CMD-F-2024-001",
			OrderDate:   now.Format(isoLayout),
			TotalAmount: money("45000"),
			Status:      trade.SupplierOrderStatusOrdered,
			CreatedBy:   SeedActor,
		},
	}
}

func seedSupplierOrderItems(now time.Time) []trade.SupplierOrderItem {
	return []trade.SupplierOrderItem{
		{
			BaseEntity:      shared.NewBaseEntity("suporditem-1", now),
			SupplierOrderID: "supord-1",
			ProductID:       "prod-1",
			Quantity:        100,
			UnitPrice:       money("450"),
			TotalPrice:      money("45000"),
		},
	}
}

func seedTransactionCategories(now time.Time) []finance.TransactionCategory {
	return []finance.TransactionCategory{
		{BaseEntity: shared.NewBaseEntity("tcat-1", now), Name: "Ventes de produits", Type: finance.TransactionTypeRevenue},
		{BaseEntity: shared.NewBaseEntity("tcat-2", now), Name: "Achat de marchandises", Type: finance.TransactionTypeExpense},
		{BaseEntity: shared.NewBaseEntity("tcat-3", now), Name: "Marketing", Type: finance.TransactionTypeExpense},
	}
}

func seedTransactions(now time.Time) []finance.Transaction {
	date := now.Format(isoLayout)
	return []finance.Transaction{
		{
			BaseEntity:    shared.NewBaseEntity("trans-1", now),
			Reference:     "VTE-2024-001",
			Type:          finance.TransactionTypeRevenue,
			SourceType:    finance.SourceTypeSale,
			SourceID:      "sale-1",
			CategoryID:    "tcat-1",
			Description:   "Vente de Smartphone et T-Shirt",
			Amount:        money("829.98"),
			PaymentMethod: "Credit Card",
			Date:          date,
			Status:        finance.TransactionStatusCompleted,
			CreatedBy:     SeedActor,
		},
		{
			BaseEntity:    shared.NewBaseEntity("trans-2", now),
			Reference:     "CMD-F-2024-001",
			Type:          finance.TransactionTypeExpense,
			SourceType:    finance.SourceTypeSupplierOrder,
			SourceID:      "supord-1",
			CategoryID:    "tcat-2",
			Description:   "Achat de 100 Smartphones X-1000",
			Amount:        money("45000"),
			PaymentMethod: "Bank Transfer",
			Date:          date,
			Status:        finance.TransactionStatusCompleted,
			CreatedBy:     SeedActor,
		},
	}
}

package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nexus/backend/internal/application/crud"
	"github.com/nexus/backend/internal/application/identity"
	"github.com/nexus/backend/internal/application/report"
	"github.com/nexus/backend/internal/application/trade"
	"github.com/nexus/backend/internal/domain/catalog"
	"github.com/nexus/backend/internal/domain/finance"
	domainidentity "github.com/nexus/backend/internal/domain/identity"
	"github.com/nexus/backend/internal/domain/partner"
	"github.com/nexus/backend/internal/domain/shared"
	"github.com/nexus/backend/internal/infrastructure/persistence"
	"github.com/nexus/backend/internal/interfaces/http/handler"
	"go.uber.org/zap"
)

// API holds every handler mounted under the API prefix
type API struct {
	Products              *handler.ResourceHandler[catalog.Product, *catalog.Product]
	Categories            *handler.ResourceHandler[catalog.Category, *catalog.Category]
	ProductMovements      *handler.ResourceHandler[catalog.ProductMovement, *catalog.ProductMovement]
	Clients               *handler.ResourceHandler[partner.Client, *partner.Client]
	Suppliers             *handler.ResourceHandler[partner.Supplier, *partner.Supplier]
	Transactions          *handler.ResourceHandler[finance.Transaction, *finance.Transaction]
	TransactionCategories *handler.ResourceHandler[finance.TransactionCategory, *finance.TransactionCategory]
	Users                 *handler.ResourceHandler[domainidentity.User, *domainidentity.User]
	Roles                 *handler.ResourceHandler[domainidentity.Role, *domainidentity.Role]
	Permissions           *handler.ResourceHandler[domainidentity.Permission, *domainidentity.Permission]
	Sales                 *handler.SaleHandler
	SupplierOrders        *handler.SupplierOrderHandler
	Auth                  *handler.AuthHandler
	Reports               *handler.ReportHandler

	logger *zap.Logger
}

// NewAPI builds the services and handlers over reg. opts apply to every
// entity and aggregate service.
func NewAPI(reg *persistence.Registry, auth *identity.AuthService, logger *zap.Logger, opts ...crud.Option) *API {
	clients := crud.NewService[partner.Client](reg.Clients, opts...).
		OnCreate(func(c *partner.Client, now time.Time) { c.Register(now) })

	dashboard := report.NewDashboardService(report.Sources{
		Products:       reg.Products,
		Clients:        reg.Clients,
		Sales:          reg.Sales,
		SupplierOrders: reg.SupplierOrders,
		Transactions:   reg.Transactions,
	}, logger)

	return &API{
		Products:              resource[catalog.Product](reg.Products, opts),
		Categories:            resource[catalog.Category](reg.Categories, opts),
		ProductMovements:      resource[catalog.ProductMovement](reg.ProductMovements, opts),
		Clients:               handler.NewResourceHandler(clients),
		Suppliers:             resource[partner.Supplier](reg.Suppliers, opts),
		Transactions:          resource[finance.Transaction](reg.Transactions, opts),
		TransactionCategories: resource[finance.TransactionCategory](reg.TransactionCategories, opts),
		Users:                 resource[domainidentity.User](reg.Users, opts),
		Roles:                 resource[domainidentity.Role](reg.Roles, opts),
		Permissions:           resource[domainidentity.Permission](reg.Permissions, opts),
		Sales:                 handler.NewSaleHandler(trade.NewSaleService(reg.Sales, reg.SaleItems, logger, opts...)),
		SupplierOrders:        handler.NewSupplierOrderHandler(trade.NewSupplierOrderService(reg.SupplierOrders, reg.SupplierOrderItems, logger, opts...)),
		Auth:                  handler.NewAuthHandler(auth),
		Reports:               handler.NewReportHandler(dashboard),
		logger:                logger,
	}
}

func resource[T any, P shared.EntityPtr[T]](repo shared.EntityRepository[T], opts []crud.Option) *handler.ResourceHandler[T, P] {
	return handler.NewResourceHandler(crud.NewService[T, P](repo, opts...))
}

// RegisterRoutes implements RouteRegistrar
func (a *API) RegisterRoutes(rg *gin.RouterGroup) {
	for _, group := range a.groups() {
		group.RegisterRoutes(rg)
		if a.logger != nil {
			a.logger.Debug("Registered route group",
				zap.String("group", group.Name()),
				zap.Int("routes", len(group.Routes())),
			)
		}
	}
}

func (a *API) groups() []*DomainGroup {
	return []*DomainGroup{
		resourceGroup("products", "/products", a.Products),
		resourceGroup("categories", "/categories", a.Categories),
		resourceGroup("product-movements", "/product-movements", a.ProductMovements),
		resourceGroup("clients", "/clients", a.Clients),
		resourceGroup("suppliers", "/suppliers", a.Suppliers),
		resourceGroup("transactions", "/transactions", a.Transactions),
		resourceGroup("transaction-categories", "/transaction-categories", a.TransactionCategories),
		resourceGroup("users", "/users", a.Users),
		resourceGroup("roles", "/roles", a.Roles),
		resourceGroup("permissions", "/permissions", a.Permissions),
		compositeGroup("sales", "/sales", a.Sales),
		compositeGroup("supplier-orders", "/supplier-orders", a.SupplierOrders),
		NewDomainGroup("auth", "/auth").POST("/login", a.Auth.Login),
		NewDomainGroup("reports", "/reports").GET("/dashboard", a.Reports.Dashboard),
	}
}

func resourceGroup[T any, P shared.EntityPtr[T]](name, prefix string, h *handler.ResourceHandler[T, P]) *DomainGroup {
	return NewDomainGroup(name, prefix).
		GET("", h.List).
		GET("/:id", h.Get).
		POST("", h.Create).
		PUT("/:id", h.Update).
		DELETE("/:id", h.Delete)
}

func compositeGroup[H any, HP shared.EntityPtr[H], C any, CP shared.ChildPtr[C]](name, prefix string, h *handler.CompositeHandler[H, HP, C, CP]) *DomainGroup {
	return NewDomainGroup(name, prefix).
		GET("", h.List).
		GET("/:id", h.Get).
		GET("/:id/items", h.Items).
		POST("", h.Create).
		PUT("/:id", h.Update).
		DELETE("/:id", h.Delete)
}

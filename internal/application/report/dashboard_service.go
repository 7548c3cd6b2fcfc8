// Package report computes the dashboard figures from the entity stores.
package report

import (
	"context"
	"sort"
	"time"

	"github.com/nexus/backend/internal/domain/catalog"
	"github.com/nexus/backend/internal/domain/finance"
	"github.com/nexus/backend/internal/domain/partner"
	"github.com/nexus/backend/internal/domain/shared"
	"github.com/nexus/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// newClientWindow is how far back a registration counts as new
const newClientWindow = 30 * 24 * time.Hour

const monthLayout = "2006-01"

// MonthlyFigure is one month of the sales and revenue charts
type MonthlyFigure struct {
	Month   string          `json:"month"`
	Sales   decimal.Decimal `json:"sales"`
	Revenue decimal.Decimal `json:"revenue"`
	Expense decimal.Decimal `json:"expense"`
}

// Dashboard holds the dashboard cards and charts
type Dashboard struct {
	TotalRevenue       decimal.Decimal `json:"totalRevenue"`
	TotalExpenses      decimal.Decimal `json:"totalExpenses"`
	NetIncome          decimal.Decimal `json:"netIncome"`
	ClientCount        int             `json:"clientCount"`
	NewClients         int             `json:"newClients"`
	SalesCount         int             `json:"salesCount"`
	CompletedSales     int             `json:"completedSales"`
	SalesAmount        decimal.Decimal `json:"salesAmount"`
	ActiveProducts     int             `json:"activeProducts"`
	OpenSupplierOrders int             `json:"openSupplierOrders"`
	Monthly            []MonthlyFigure `json:"monthly"`
	GeneratedAt        time.Time       `json:"generatedAt"`
}

// Sources are the repositories the dashboard reads
type Sources struct {
	Products       shared.EntityRepository[catalog.Product]
	Clients        shared.EntityRepository[partner.Client]
	Sales          shared.EntityRepository[trade.Sale]
	SupplierOrders shared.EntityRepository[trade.SupplierOrder]
	Transactions   shared.EntityRepository[finance.Transaction]
}

// DashboardService aggregates store contents into a Dashboard
type DashboardService struct {
	src    Sources
	now    func() time.Time
	logger *zap.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(src Sources, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		src:    src,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger,
	}
}

// GetDashboard computes the dashboard. Revenue and expenses count completed
// transactions only; sales amounts exclude cancelled and refunded sales.
func (s *DashboardService) GetDashboard(ctx context.Context) (*Dashboard, error) {
	products, err := s.src.Products.List(ctx)
	if err != nil {
		return nil, err
	}
	clients, err := s.src.Clients.List(ctx)
	if err != nil {
		return nil, err
	}
	sales, err := s.src.Sales.List(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.src.SupplierOrders.List(ctx)
	if err != nil {
		return nil, err
	}
	transactions, err := s.src.Transactions.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	d := &Dashboard{
		TotalRevenue:  decimal.Zero,
		TotalExpenses: decimal.Zero,
		SalesAmount:   decimal.Zero,
		ClientCount:   len(clients),
		SalesCount:    len(sales),
		GeneratedAt:   now,
	}
	months := make(map[string]*MonthlyFigure)
	bucket := func(date string, fallback time.Time) *MonthlyFigure {
		key := monthOf(date, fallback)
		m, ok := months[key]
		if !ok {
			m = &MonthlyFigure{Month: key, Sales: decimal.Zero, Revenue: decimal.Zero, Expense: decimal.Zero}
			months[key] = m
		}
		return m
	}

	for i := range products {
		if products[i].IsActive() {
			d.ActiveProducts++
		}
	}
	for i := range clients {
		if !clients[i].RegistrationDate.IsZero() && now.Sub(clients[i].RegistrationDate.Time) <= newClientWindow {
			d.NewClients++
		}
	}
	amounts := make([]decimal.Decimal, 0, len(sales))
	for i := range sales {
		sale := &sales[i]
		if sale.IsCompleted() {
			d.CompletedSales++
		}
		if sale.Status == trade.SaleStatusCancelled || sale.Status == trade.SaleStatusRefunded {
			continue
		}
		amounts = append(amounts, sale.TotalAmount)
		m := bucket(sale.Date, sale.CreatedAt.Time)
		m.Sales = m.Sales.Add(sale.TotalAmount)
	}
	d.SalesAmount = shared.SumMoney(amounts...)
	for i := range orders {
		if orders[i].IsOpen() {
			d.OpenSupplierOrders++
		}
	}
	for i := range transactions {
		tx := &transactions[i]
		if !tx.IsSettled() {
			continue
		}
		m := bucket(tx.Date, tx.CreatedAt.Time)
		switch tx.Type {
		case finance.TransactionTypeRevenue:
			d.TotalRevenue = d.TotalRevenue.Add(tx.Amount)
			m.Revenue = m.Revenue.Add(tx.Amount)
		case finance.TransactionTypeExpense:
			d.TotalExpenses = d.TotalExpenses.Add(tx.Amount)
			m.Expense = m.Expense.Add(tx.Amount)
		}
	}
	d.NetIncome = d.TotalRevenue.Sub(d.TotalExpenses)

	d.Monthly = make([]MonthlyFigure, 0, len(months))
	for _, m := range months {
		d.Monthly = append(d.Monthly, *m)
	}
	sort.Slice(d.Monthly, func(i, j int) bool { return d.Monthly[i].Month < d.Monthly[j].Month })

	s.logger.Debug("Dashboard computed",
		zap.Int("sales", d.SalesCount),
		zap.Int("transactions", len(transactions)),
		zap.Int("months", len(d.Monthly)),
	)
	return d, nil
}

// monthOf returns the YYYY-MM month of an ISO date string, or of fallback
// when date does not start with one.
func monthOf(date string, fallback time.Time) string {
	if len(date) >= len(monthLayout) {
		if t, err := time.Parse(monthLayout, date[:len(monthLayout)]); err == nil {
			return t.Format(monthLayout)
		}
	}
	return fallback.UTC().Format(monthLayout)
}

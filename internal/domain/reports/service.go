package reports

import (
	"context"
	"sort"

	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/security"
	"ledgerbook/internal/core/types"
	"ledgerbook/internal/domain/ledger"
)

// Service answers aggregation queries over the shared collections.
type Service struct {
	cols *ledger.Collections

	// lowStockThreshold is the inclusive upper bound of the low-stock band.
	lowStockThreshold int
}

// NewService creates the reports service with the given low-stock threshold.
func NewService(cols *ledger.Collections, lowStockThreshold int) *Service {
	return &Service{cols: cols, lowStockThreshold: lowStockThreshold}
}

// CashPosition sums cashbook amounts by direction under the filter.
func (s *Service) CashPosition(ctx context.Context, f CashFilter) (Position, error) {
	scope := security.FromContext(ctx)
	if !id.IsNil(f.BusinessID) {
		if err := scope.RequireBusiness(f.BusinessID); err != nil {
			return Position{}, err
		}
	}

	pos := Position{Inflow: types.Zero(), Outflow: types.Zero()}
	for _, e := range s.cols.Cashbook.All() {
		if !scope.CanAccessBusiness(e.BusinessID) {
			continue
		}
		if !matches(e, f) {
			continue
		}
		switch e.Direction {
		case ledger.Inflow:
			pos.Inflow = pos.Inflow.Add(e.Amount)
		case ledger.Outflow:
			pos.Outflow = pos.Outflow.Add(e.Amount)
		}
	}
	pos.Net = pos.Inflow.Sub(pos.Outflow)
	return pos, nil
}

func matches(e ledger.CashbookEntry, f CashFilter) bool {
	if !id.IsNil(f.BusinessID) && e.BusinessID != f.BusinessID {
		return false
	}
	if f.Direction != "" && e.Direction != f.Direction {
		return false
	}
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	if f.Mode != "" && e.Mode != f.Mode {
		return false
	}
	if !f.From.IsZero() && e.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && e.Date.After(f.To) {
		return false
	}
	return true
}

// OutstandingDues lists the open due entries, optionally scoped to one
// business (zero id means every visible business). Totals and the collection
// rate cover all entries in scope, settled ones included.
func (s *Service) OutstandingDues(ctx context.Context, businessID id.ID) (DuesSummary, error) {
	scope := security.FromContext(ctx)
	if !id.IsNil(businessID) {
		if err := scope.RequireBusiness(businessID); err != nil {
			return DuesSummary{}, err
		}
	}

	summary := DuesSummary{
		TotalDue:       types.Zero(),
		TotalPaid:      types.Zero(),
		CollectionRate: types.Zero(),
	}
	for _, d := range s.cols.Dues.All() {
		if !scope.CanAccessBusiness(d.BusinessID) {
			continue
		}
		if !id.IsNil(businessID) && d.BusinessID != businessID {
			continue
		}
		summary.TotalDue = summary.TotalDue.Add(d.DueAmount)
		summary.TotalPaid = summary.TotalPaid.Add(d.PaidAmount)
		if d.DueAmount.IsPositive() {
			summary.Open = append(summary.Open, d)
		}
	}

	owed := summary.TotalPaid.Add(summary.TotalDue)
	if owed.IsPositive() {
		summary.CollectionRate = summary.TotalPaid.Div(owed)
	}
	return summary, nil
}

// StockLevel derives the current level of one product as the signed sum of
// its movements.
func (s *Service) StockLevel(ctx context.Context, productID id.ID) (StockLevel, error) {
	prod, err := s.cols.Products.Get(productID)
	if err != nil {
		return StockLevel{}, err
	}
	scope := security.FromContext(ctx)
	if err := scope.RequireBusiness(prod.BusinessID); err != nil {
		return StockLevel{}, err
	}
	return s.levelOf(productID), nil
}

func (s *Service) levelOf(productID id.ID) StockLevel {
	qty := 0
	for _, m := range s.cols.Stock.All() {
		if m.ProductID == productID {
			qty += m.SignedQuantity()
		}
	}
	return StockLevel{ProductID: productID, Quantity: qty, Status: s.classify(qty)}
}

func (s *Service) classify(qty int) StockStatus {
	switch {
	case qty <= 0:
		return StatusOutOfStock
	case qty <= s.lowStockThreshold:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// CustomerDues returns every due entry referencing the customer.
func (s *Service) CustomerDues(ctx context.Context, customerID id.ID) ([]ledger.DueEntry, error) {
	cust, err := s.cols.Customers.Get(customerID)
	if err != nil {
		return nil, err
	}
	scope := security.FromContext(ctx)
	if err := scope.RequireBusiness(cust.BusinessID); err != nil {
		return nil, err
	}
	return s.cols.Dues.List(func(d ledger.DueEntry) bool {
		return d.CustomerID == customerID
	}), nil
}

// SalesSummary sums a business's sales by payment channel: cash against
// bank-or-finance credit.
func (s *Service) SalesSummary(ctx context.Context, businessID id.ID) (SalesSummary, error) {
	scope := security.FromContext(ctx)
	if err := scope.RequireBusiness(businessID); err != nil {
		return SalesSummary{}, err
	}

	summary := SalesSummary{
		Total:  types.Zero(),
		Cash:   types.Zero(),
		Credit: types.Zero(),
	}
	for _, sale := range s.cols.Sales.All() {
		if sale.BusinessID != businessID {
			continue
		}
		summary.Count++
		summary.Total = summary.Total.Add(sale.TotalAmount)
		summary.Cash = summary.Cash.Add(sale.CashAmount)
		summary.Credit = summary.Credit.Add(sale.BankAmount).Add(sale.FinanceAmount)
	}
	return summary, nil
}

// StockOverview reports per-product levels and status counts for one
// business. Inactive products are included; their history still occupies
// stock.
func (s *Service) StockOverview(ctx context.Context, businessID id.ID) (StockOverview, error) {
	scope := security.FromContext(ctx)
	if err := scope.RequireBusiness(businessID); err != nil {
		return StockOverview{}, err
	}

	var overview StockOverview
	for _, prod := range s.cols.Products.All() {
		if prod.BusinessID != businessID {
			continue
		}
		level := s.levelOf(prod.ID)
		overview.Products = append(overview.Products, ProductStock{Product: prod, Level: level})
		switch level.Status {
		case StatusOutOfStock:
			overview.OutOfStock++
		case StatusLowStock:
			overview.LowStock++
		default:
			overview.InStock++
		}
	}
	return overview, nil
}

// RecentEntries returns the latest cashbook activity of a business, newest
// first.
func (s *Service) RecentEntries(ctx context.Context, businessID id.ID, limit int) ([]ledger.CashbookEntry, error) {
	scope := security.FromContext(ctx)
	if err := scope.RequireBusiness(businessID); err != nil {
		return nil, err
	}

	entries := s.cols.Cashbook.List(func(e ledger.CashbookEntry) bool {
		return e.BusinessID == businessID
	})
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"ledgerbook/internal/core/apperror"
	appctx "ledgerbook/internal/core/context"
	"ledgerbook/internal/core/entity"
	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/numerator"
	"ledgerbook/internal/core/security"
	"ledgerbook/internal/core/types"
	"ledgerbook/internal/domain/catalogs/customer"
	"ledgerbook/internal/domain/catalogs/product"
	"ledgerbook/internal/store"
	"ledgerbook/pkg/logger"
)

// Engine executes the compound transactions of the bookkeeping core. Every
// public operation validates its preconditions before any write, stages all
// derived records in one batch and commits them atomically: the store either
// reflects the whole operation or none of it.
type Engine struct {
	store   *store.Store
	cols    *Collections
	numbers numerator.Generator
}

// NewEngine creates the ledger engine over an opened collection set.
func NewEngine(st *store.Store, cols *Collections, numbers numerator.Generator) *Engine {
	return &Engine{store: st, cols: cols, numbers: numbers}
}

// SaleInput describes one line item sold to a customer with its per-channel
// payment split.
type SaleInput struct {
	BusinessID id.ID
	CustomerID id.ID
	ProductID  id.ID

	Quantity  int
	UnitPrice types.Money

	CashAmount    types.Money
	BankAmount    types.Money
	FinanceAmount types.Money

	SaleDate time.Time
}

// RecordSale records a sale and fans it out: the sale record, one cashbook
// inflow per non-zero payment channel, a due entry seeded with the payments
// already collected when the sale was only partially paid, the customer's
// running aggregates, and a stock issue.
func (e *Engine) RecordSale(ctx context.Context, in SaleInput) (*Sale, error) {
	scope := security.FromContext(ctx)
	if err := scope.RequireOperation(security.OpSaleRecord); err != nil {
		return nil, err
	}
	if err := scope.RequireBusiness(in.BusinessID); err != nil {
		return nil, err
	}

	cust, _, err := e.resolveSaleRefs(in.BusinessID, in.CustomerID, in.ProductID)
	if err != nil {
		return nil, err
	}

	sale, err := e.buildSale(in, appctx.GetUserID(ctx))
	if err != nil {
		return nil, err
	}

	err = e.store.RunInBatch(ctx, func(b *store.Batch) error {
		return e.stageSale(b, sale, cust.Name)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "sale recorded",
		"sale_id", sale.ID,
		"business_id", sale.BusinessID,
		"total", sale.TotalAmount,
		"due", sale.DueAmount)
	return &sale, nil
}

// CheckoutLine is one product position in a multi-item checkout.
type CheckoutLine struct {
	ProductID id.ID
	Quantity  int
	UnitPrice types.Money
}

// CheckoutInput groups several line items into one checkout with a single
// payment, apportioned across the lines.
type CheckoutInput struct {
	BusinessID id.ID
	CustomerID id.ID

	Lines []CheckoutLine

	CashAmount    types.Money
	BankAmount    types.Money
	FinanceAmount types.Money

	SaleDate time.Time
}

// RecordCheckout records a multi-item checkout as independent sales, one per
// line, committed in a single batch. Each payment channel is apportioned
// pro-rata by the line's share of the subtotal; rounding remainders go to the
// last line and are then rebalanced so every line honors its own invariants.
func (e *Engine) RecordCheckout(ctx context.Context, in CheckoutInput) ([]Sale, error) {
	scope := security.FromContext(ctx)
	if err := scope.RequireOperation(security.OpSaleRecord); err != nil {
		return nil, err
	}
	if err := scope.RequireBusiness(in.BusinessID); err != nil {
		return nil, err
	}
	if len(in.Lines) == 0 {
		return nil, apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	totals := make([]types.Money, len(in.Lines))
	for i, line := range in.Lines {
		if line.Quantity <= 0 {
			return nil, apperror.NewInvalidAmount("quantity must be positive").
				WithDetail("line", i+1)
		}
		if line.UnitPrice.IsNegative() {
			return nil, apperror.NewInvalidAmount("unit price must not be negative").
				WithDetail("line", i+1)
		}
		totals[i] = line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
	}

	subtotal := types.Sum(totals...)
	paid := types.Sum(in.CashAmount, in.BankAmount, in.FinanceAmount)
	if in.CashAmount.IsNegative() || in.BankAmount.IsNegative() || in.FinanceAmount.IsNegative() {
		return nil, apperror.NewInvalidAmount("payment amounts must not be negative")
	}
	if paid.GreaterThan(subtotal) {
		return nil, apperror.NewInvalidAmount("paid amount exceeds checkout subtotal").
			WithDetail("paid", paid.String()).
			WithDetail("subtotal", subtotal.String())
	}

	cash := apportion(in.CashAmount, totals)
	bank := apportion(in.BankAmount, totals)
	finance := apportion(in.FinanceAmount, totals)
	rebalance(totals, cash, bank, finance)

	cust, err := e.cols.Customers.Get(in.CustomerID)
	if err != nil {
		return nil, err
	}

	actor := appctx.GetUserID(ctx)
	sales := make([]Sale, 0, len(in.Lines))
	for i, line := range in.Lines {
		if _, _, err := e.resolveSaleRefs(in.BusinessID, in.CustomerID, line.ProductID); err != nil {
			return nil, err
		}
		sale, err := e.buildSale(SaleInput{
			BusinessID:    in.BusinessID,
			CustomerID:    in.CustomerID,
			ProductID:     line.ProductID,
			Quantity:      line.Quantity,
			UnitPrice:     line.UnitPrice,
			CashAmount:    cash[i],
			BankAmount:    bank[i],
			FinanceAmount: finance[i],
			SaleDate:      in.SaleDate,
		}, actor)
		if err != nil {
			return nil, err
		}
		sales = append(sales, sale)
	}

	err = e.store.RunInBatch(ctx, func(b *store.Batch) error {
		for _, sale := range sales {
			if err := e.stageSale(b, sale, cust.Name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "checkout recorded",
		"business_id", in.BusinessID,
		"lines", len(sales),
		"subtotal", subtotal)
	return sales, nil
}

// resolveSaleRefs checks that the customer and product exist, belong to the
// business, and that the product is sellable.
func (e *Engine) resolveSaleRefs(businessID, customerID, productID id.ID) (customer.Customer, product.Product, error) {
	var (
		cust customer.Customer
		prod product.Product
	)

	if _, err := e.cols.Businesses.Get(businessID); err != nil {
		return cust, prod, err
	}

	cust, err := e.cols.Customers.Get(customerID)
	if err != nil {
		return cust, prod, err
	}
	if cust.BusinessID != businessID {
		return cust, prod, apperror.NewValidation("customer belongs to another business").
			WithDetail("customer_id", customerID.String())
	}

	prod, err = e.cols.Products.Get(productID)
	if err != nil {
		return cust, prod, err
	}
	if prod.BusinessID != businessID {
		return cust, prod, apperror.NewValidation("product belongs to another business").
			WithDetail("product_id", productID.String())
	}
	if !prod.Active {
		return cust, prod, apperror.NewInvalidState("product is inactive").
			WithDetail("product_id", productID.String())
	}

	return cust, prod, nil
}

// buildSale computes the derived amounts and validates the monetary
// preconditions. Paid amounts above the total are rejected so that
// paid + due == total holds exactly on every sale.
func (e *Engine) buildSale(in SaleInput, actor string) (Sale, error) {
	var sale Sale

	if in.Quantity <= 0 {
		return sale, apperror.NewInvalidAmount("quantity must be positive")
	}
	if in.UnitPrice.IsNegative() {
		return sale, apperror.NewInvalidAmount("unit price must not be negative")
	}
	if in.CashAmount.IsNegative() || in.BankAmount.IsNegative() || in.FinanceAmount.IsNegative() {
		return sale, apperror.NewInvalidAmount("payment amounts must not be negative")
	}

	total := in.UnitPrice.Mul(decimal.NewFromInt(int64(in.Quantity)))
	paid := types.Sum(in.CashAmount, in.BankAmount, in.FinanceAmount)
	if paid.GreaterThan(total) {
		return sale, apperror.NewInvalidAmount("paid amount exceeds sale total").
			WithDetail("paid", paid.String()).
			WithDetail("total", total.String())
	}

	saleDate := in.SaleDate
	if saleDate.IsZero() {
		saleDate = time.Now().UTC()
	}

	return Sale{
		Base:          entity.NewBase(actor),
		BusinessID:    in.BusinessID,
		CustomerID:    in.CustomerID,
		ProductID:     in.ProductID,
		Quantity:      in.Quantity,
		UnitPrice:     in.UnitPrice,
		TotalAmount:   total,
		PaidAmount:    paid,
		DueAmount:     total.Sub(paid),
		CashAmount:    in.CashAmount,
		BankAmount:    in.BankAmount,
		FinanceAmount: in.FinanceAmount,
		SaleDate:      saleDate,
	}, nil
}

// stageSale stages the full fan-out of one sale into the batch.
func (e *Engine) stageSale(b *store.Batch, sale Sale, customerName string) error {
	store.Create(b, e.cols.Sales, sale)

	channels := []struct {
		mode   PaymentMode
		amount types.Money
		label  string
	}{
		{ModeCash, sale.CashAmount, "Cash"},
		{ModeBank, sale.BankAmount, "Bank"},
		{ModeFinance, sale.FinanceAmount, "Finance"},
	}

	for _, ch := range channels {
		if !ch.amount.IsPositive() {
			continue
		}
		store.Create(b, e.cols.Cashbook, CashbookEntry{
			MovementBase: entity.NewMovementBase(sale.BusinessID, sale.SaleDate, sale.CreatedBy),
			Direction:    Inflow,
			Category:     CategorySale,
			Mode:         ch.mode,
			Amount:       ch.amount,
			Description:  fmt.Sprintf("%s sale payment from %s", ch.label, customerName),
			CustomerID:   sale.CustomerID,
			ProductID:    sale.ProductID,
		})
	}

	if sale.DueAmount.IsPositive() {
		due := DueEntry{
			Base:        entity.NewBase(sale.CreatedBy),
			BusinessID:  sale.BusinessID,
			CustomerID:  sale.CustomerID,
			ProductID:   sale.ProductID,
			TotalAmount: sale.TotalAmount,
			PaidAmount:  sale.PaidAmount,
			DueAmount:   sale.DueAmount,
			SaleDate:    sale.SaleDate,
			Payments:    []DuePayment{},
		}
		// Seed the payment history with what was already collected at sale
		// time so later statements reflect it without double-counting.
		for _, ch := range channels {
			if !ch.amount.IsPositive() {
				continue
			}
			due.Payments = append(due.Payments, DuePayment{
				ID:          id.New(),
				Amount:      ch.amount,
				Mode:        ch.mode,
				Date:        sale.SaleDate,
				Description: fmt.Sprintf("Initial %s payment", ch.mode),
			})
		}
		store.Create(b, e.cols.Dues, due)
	}

	store.Update(b, e.cols.Customers, sale.CustomerID, func(c *customer.Customer) error {
		c.TotalPurchases = c.TotalPurchases.Add(sale.TotalAmount)
		c.TotalDue = c.TotalDue.Add(sale.DueAmount)
		return nil
	})

	store.Create(b, e.cols.Stock, StockMovement{
		MovementBase: entity.NewMovementBase(sale.BusinessID, sale.SaleDate, sale.CreatedBy),
		ProductID:    sale.ProductID,
		Quantity:     sale.Quantity,
		Direction:    StockOut,
		Reason:       "Sale",
	})

	return nil
}

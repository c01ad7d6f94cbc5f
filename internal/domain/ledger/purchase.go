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
	"ledgerbook/internal/core/security"
	"ledgerbook/internal/core/types"
	"ledgerbook/internal/store"
	"ledgerbook/pkg/logger"
)

// PurchaseInput describes goods bought into a business. SupplierID is
// optional; InvoiceNumber is generated when left empty.
type PurchaseInput struct {
	BusinessID id.ID
	ProductID  id.ID
	SupplierID id.ID

	Quantity int
	UnitCost types.Money

	PaidAmount types.Money
	Mode       PaymentMode

	InvoiceNumber string
	PurchaseDate  time.Time
}

// RecordPurchase records a purchase and fans it out: the purchase record, a
// cashbook expense outflow for the amount actually paid, and a stock receipt.
// The unpaid remainder stays on the purchase record only.
func (e *Engine) RecordPurchase(ctx context.Context, in PurchaseInput) (*Purchase, error) {
	scope := security.FromContext(ctx)
	if err := scope.RequireOperation(security.OpPurchaseRecord); err != nil {
		return nil, err
	}
	if err := scope.RequireBusiness(in.BusinessID); err != nil {
		return nil, err
	}

	if _, err := e.cols.Businesses.Get(in.BusinessID); err != nil {
		return nil, err
	}

	prod, err := e.cols.Products.Get(in.ProductID)
	if err != nil {
		return nil, err
	}
	if prod.BusinessID != in.BusinessID {
		return nil, apperror.NewValidation("product belongs to another business").
			WithDetail("product_id", in.ProductID.String())
	}

	if !id.IsNil(in.SupplierID) {
		sup, err := e.cols.Suppliers.Get(in.SupplierID)
		if err != nil {
			return nil, err
		}
		if sup.BusinessID != in.BusinessID {
			return nil, apperror.NewValidation("supplier belongs to another business").
				WithDetail("supplier_id", in.SupplierID.String())
		}
	}

	if in.Quantity <= 0 {
		return nil, apperror.NewInvalidAmount("quantity must be positive")
	}
	if in.UnitCost.IsNegative() {
		return nil, apperror.NewInvalidAmount("unit cost must not be negative")
	}
	if in.PaidAmount.IsNegative() {
		return nil, apperror.NewInvalidAmount("paid amount must not be negative")
	}
	if in.PaidAmount.IsPositive() && !in.Mode.Valid() {
		return nil, apperror.NewValidation("unknown payment mode").
			WithDetail("mode", string(in.Mode))
	}

	total := in.UnitCost.Mul(decimal.NewFromInt(int64(in.Quantity)))
	if in.PaidAmount.GreaterThan(total) {
		return nil, apperror.NewInvalidAmount("paid amount exceeds purchase total").
			WithDetail("paid", in.PaidAmount.String()).
			WithDetail("total", total.String())
	}

	date := in.PurchaseDate
	if date.IsZero() {
		date = time.Now().UTC()
	}

	invoice := in.InvoiceNumber
	if invoice == "" {
		invoice, err = e.numbers.NextNumber(ctx, "PUR", date)
		if err != nil {
			return nil, err
		}
	}

	p := Purchase{
		Base:          entity.NewBase(appctx.GetUserID(ctx)),
		BusinessID:    in.BusinessID,
		ProductID:     in.ProductID,
		SupplierID:    in.SupplierID,
		Quantity:      in.Quantity,
		UnitCost:      in.UnitCost,
		TotalAmount:   total,
		PaidAmount:    in.PaidAmount,
		DueAmount:     total.Sub(in.PaidAmount),
		Mode:          in.Mode,
		InvoiceNumber: invoice,
		PurchaseDate:  date,
	}

	err = e.store.RunInBatch(ctx, func(b *store.Batch) error {
		store.Create(b, e.cols.Purchases, p)

		if p.PaidAmount.IsPositive() {
			store.Create(b, e.cols.Cashbook, CashbookEntry{
				MovementBase: entity.NewMovementBase(p.BusinessID, p.PurchaseDate, p.CreatedBy),
				Direction:    Outflow,
				Category:     CategoryExpense,
				Mode:         p.Mode,
				Amount:       p.PaidAmount,
				Description:  fmt.Sprintf("Purchase payment for %s", prod.Name),
				ProductID:    p.ProductID,
			})
		}

		store.Create(b, e.cols.Stock, StockMovement{
			MovementBase: entity.NewMovementBase(p.BusinessID, p.PurchaseDate, p.CreatedBy),
			ProductID:    p.ProductID,
			Quantity:     p.Quantity,
			Direction:    StockIn,
			Reason:       "Purchase",
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "purchase recorded",
		"purchase_id", p.ID,
		"business_id", p.BusinessID,
		"invoice", p.InvoiceNumber,
		"total", p.TotalAmount)
	return &p, nil
}

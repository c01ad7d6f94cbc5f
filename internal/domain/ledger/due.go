package ledger

import (
	"context"
	"fmt"
	"time"

	"ledgerbook/internal/core/apperror"
	appctx "ledgerbook/internal/core/context"
	"ledgerbook/internal/core/entity"
	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/security"
	"ledgerbook/internal/core/types"
	"ledgerbook/internal/domain/catalogs/customer"
	"ledgerbook/internal/store"
	"ledgerbook/pkg/logger"
)

// DuePaymentInput is one collection against an open due entry.
type DuePaymentInput struct {
	DueID id.ID

	Amount types.Money
	Mode   PaymentMode

	Date        time.Time
	Description string
}

// RecordDuePayment collects money against an open due entry and fans it out:
// the payment is appended to the entry, a cashbook inflow is written, and the
// customer's outstanding total is reduced by the same amount.
func (e *Engine) RecordDuePayment(ctx context.Context, in DuePaymentInput) (*DueEntry, error) {
	due, err := e.cols.Dues.Get(in.DueID)
	if err != nil {
		return nil, err
	}

	scope := security.FromContext(ctx)
	if err := scope.RequireOperation(security.OpDueCollect); err != nil {
		return nil, err
	}
	if err := scope.RequireBusiness(due.BusinessID); err != nil {
		return nil, err
	}

	if !in.Amount.IsPositive() {
		return nil, apperror.NewInvalidAmount("payment amount must be positive")
	}
	if in.Amount.GreaterThan(due.DueAmount) {
		return nil, apperror.NewInvalidAmount("payment exceeds outstanding due").
			WithDetail("amount", in.Amount.String()).
			WithDetail("outstanding", due.DueAmount.String())
	}
	if !in.Mode.Valid() {
		return nil, apperror.NewValidation("unknown payment mode").
			WithDetail("mode", string(in.Mode))
	}

	cust, err := e.cols.Customers.Get(due.CustomerID)
	if err != nil {
		return nil, err
	}

	date := in.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	payment := DuePayment{
		ID:          id.New(),
		Amount:      in.Amount,
		Mode:        in.Mode,
		Date:        date,
		Description: in.Description,
	}

	var updated DueEntry
	err = e.store.RunInBatch(ctx, func(b *store.Batch) error {
		store.Update(b, e.cols.Dues, due.ID, func(d *DueEntry) error {
			d.applyPayment(payment)
			updated = *d
			return nil
		})

		store.Create(b, e.cols.Cashbook, CashbookEntry{
			MovementBase: entity.NewMovementBase(due.BusinessID, date, appctx.GetUserID(ctx)),
			Direction:    Inflow,
			Category:     CategoryDueCollection,
			Mode:         in.Mode,
			Amount:       in.Amount,
			Description:  fmt.Sprintf("Due collection from %s", cust.Name),
			CustomerID:   due.CustomerID,
			ProductID:    due.ProductID,
		})

		store.Update(b, e.cols.Customers, due.CustomerID, func(c *customer.Customer) error {
			c.TotalDue = c.TotalDue.Sub(in.Amount)
			return nil
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "due payment recorded",
		"due_id", due.ID,
		"customer_id", due.CustomerID,
		"amount", in.Amount,
		"remaining", updated.DueAmount)
	return &updated, nil
}

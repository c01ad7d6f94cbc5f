package ledger

import (
	"context"
	"time"

	"ledgerbook/internal/core/apperror"
	appctx "ledgerbook/internal/core/context"
	"ledgerbook/internal/core/entity"
	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/security"
	"ledgerbook/internal/core/types"
	"ledgerbook/pkg/logger"
)

// EntryInput is a manually recorded cash movement, an expense or a
// miscellaneous entry. Sale, due and transfer entries can only be produced by
// their own operations so their categories are rejected here.
type EntryInput struct {
	BusinessID id.ID

	Direction Direction
	Category  Category
	Mode      PaymentMode

	Amount      types.Money
	Description string
	Date        time.Time
}

// RecordEntry appends a manual entry to the cashbook.
func (e *Engine) RecordEntry(ctx context.Context, in EntryInput) (*CashbookEntry, error) {
	scope := security.FromContext(ctx)
	if err := scope.RequireOperation(security.OpCashbookAppend); err != nil {
		return nil, err
	}
	if err := scope.RequireBusiness(in.BusinessID); err != nil {
		return nil, err
	}
	if _, err := e.cols.Businesses.Get(in.BusinessID); err != nil {
		return nil, err
	}

	if in.Direction != Inflow && in.Direction != Outflow {
		return nil, apperror.NewValidation("unknown entry direction").
			WithDetail("type", string(in.Direction))
	}
	switch in.Category {
	case CategoryExpense, CategoryOther:
	default:
		return nil, apperror.NewValidation("category is reserved for engine operations").
			WithDetail("category", string(in.Category))
	}
	if !in.Mode.Valid() {
		return nil, apperror.NewValidation("unknown payment mode").
			WithDetail("mode", string(in.Mode))
	}
	if !in.Amount.IsPositive() {
		return nil, apperror.NewInvalidAmount("entry amount must be positive")
	}

	date := in.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	entry := CashbookEntry{
		MovementBase: entity.NewMovementBase(in.BusinessID, date, appctx.GetUserID(ctx)),
		Direction:    in.Direction,
		Category:     in.Category,
		Mode:         in.Mode,
		Amount:       in.Amount,
		Description:  in.Description,
	}

	if err := e.cols.Cashbook.Insert(ctx, entry); err != nil {
		return nil, err
	}

	logger.Info(ctx, "cashbook entry recorded",
		"entry_id", entry.ID,
		"business_id", entry.BusinessID,
		"type", entry.Direction,
		"amount", entry.Amount)
	return &entry, nil
}

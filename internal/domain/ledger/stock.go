package ledger

import (
	"context"
	"time"

	"ledgerbook/internal/core/apperror"
	appctx "ledgerbook/internal/core/context"
	"ledgerbook/internal/core/entity"
	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/security"
	"ledgerbook/pkg/logger"
)

// StockInput is a manually recorded inventory change, a correction, a
// write-off or an opening balance. Sales and purchases move stock through
// their own operations; this one carries a free-text reason instead of a
// money trail.
type StockInput struct {
	BusinessID id.ID
	ProductID  id.ID

	Quantity  int
	Direction StockDirection
	Reason    string
	Date      time.Time
}

// RecordStockMovement appends a manual movement to the stock ledger.
func (e *Engine) RecordStockMovement(ctx context.Context, in StockInput) (*StockMovement, error) {
	scope := security.FromContext(ctx)
	if err := scope.RequireOperation(security.OpStockAdjust); err != nil {
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

	if in.Direction != StockIn && in.Direction != StockOut {
		return nil, apperror.NewValidation("unknown stock direction").
			WithDetail("type", string(in.Direction))
	}
	if in.Quantity <= 0 {
		return nil, apperror.NewInvalidAmount("quantity must be positive")
	}

	date := in.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	movement := StockMovement{
		MovementBase: entity.NewMovementBase(in.BusinessID, date, appctx.GetUserID(ctx)),
		ProductID:    in.ProductID,
		Quantity:     in.Quantity,
		Direction:    in.Direction,
		Reason:       in.Reason,
	}

	if err := e.cols.Stock.Insert(ctx, movement); err != nil {
		return nil, err
	}

	logger.Info(ctx, "stock movement recorded",
		"movement_id", movement.ID,
		"business_id", movement.BusinessID,
		"product_id", movement.ProductID,
		"type", movement.Direction,
		"quantity", movement.Quantity)
	return &movement, nil
}

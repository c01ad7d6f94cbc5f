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
	"ledgerbook/internal/store"
	"ledgerbook/pkg/logger"
)

// TransferInput is a proposed money movement between two businesses.
type TransferInput struct {
	FromBusinessID id.ID
	ToBusinessID   id.ID

	Amount      types.Money
	Mode        PaymentMode
	Description string
}

// TransferDecision is the receiving side's verdict on a pending transfer.
type TransferDecision string

const (
	DecisionAccept TransferDecision = "accept"
	DecisionReject TransferDecision = "reject"
)

// InitiateTransfer creates a pending transfer. No money moves and no cashbook
// entries are written until the receiving side accepts.
func (e *Engine) InitiateTransfer(ctx context.Context, in TransferInput) (*Transfer, error) {
	scope := security.FromContext(ctx)
	if err := scope.RequireOperation(security.OpTransferInitiate); err != nil {
		return nil, err
	}
	if err := scope.RequireBusiness(in.FromBusinessID); err != nil {
		return nil, err
	}

	if in.FromBusinessID == in.ToBusinessID {
		return nil, apperror.NewValidation("transfer source and destination must differ").
			WithDetail("business_id", in.FromBusinessID.String())
	}
	if !in.Amount.IsPositive() {
		return nil, apperror.NewInvalidAmount("transfer amount must be positive")
	}
	if !in.Mode.Valid() {
		return nil, apperror.NewValidation("unknown payment mode").
			WithDetail("mode", string(in.Mode))
	}
	if _, err := e.cols.Businesses.Get(in.FromBusinessID); err != nil {
		return nil, err
	}
	if _, err := e.cols.Businesses.Get(in.ToBusinessID); err != nil {
		return nil, err
	}

	number, err := e.numbers.NextNumber(ctx, "TRF", time.Now().UTC())
	if err != nil {
		return nil, err
	}

	t := Transfer{
		Base:           entity.NewBase(appctx.GetUserID(ctx)),
		Number:         number,
		FromBusinessID: in.FromBusinessID,
		ToBusinessID:   in.ToBusinessID,
		Amount:         in.Amount,
		Mode:           in.Mode,
		Description:    in.Description,
		Status:         TransferPending,
	}

	if err := e.cols.Transfers.Insert(ctx, t); err != nil {
		return nil, err
	}

	logger.Info(ctx, "transfer initiated",
		"transfer_id", t.ID,
		"number", t.Number,
		"from", t.FromBusinessID,
		"to", t.ToBusinessID,
		"amount", t.Amount)
	return &t, nil
}

// ProcessTransfer settles a pending transfer. Acceptance writes the paired
// cashbook entries, an outflow on the source and an inflow on the destination,
// both dated at processing time and tagged with the transfer id. Rejection
// only closes the transfer; either way a transfer is decided exactly once.
func (e *Engine) ProcessTransfer(ctx context.Context, transferID id.ID, decision TransferDecision) (*Transfer, error) {
	t, err := e.cols.Transfers.Get(transferID)
	if err != nil {
		return nil, err
	}

	scope := security.FromContext(ctx)
	if !scope.CanProcessTransfer(t.ToBusinessID) {
		return nil, apperror.NewForbidden("only the receiving business may process the transfer").
			WithDetail("transfer_id", transferID.String())
	}
	if t.Status != TransferPending {
		return nil, apperror.NewInvalidState(
			fmt.Sprintf("transfer is already %s", t.Status),
		).WithDetail("transfer_id", transferID.String())
	}

	var status TransferStatus
	switch decision {
	case DecisionAccept:
		status = TransferAccepted
	case DecisionReject:
		status = TransferRejected
	default:
		return nil, apperror.NewValidation("unknown transfer decision").
			WithDetail("decision", string(decision))
	}

	actor := appctx.GetUserID(ctx)
	now := time.Now().UTC()

	var updated Transfer
	err = e.store.RunInBatch(ctx, func(b *store.Batch) error {
		store.Update(b, e.cols.Transfers, t.ID, func(tr *Transfer) error {
			tr.Status = status
			tr.ProcessedBy = actor
			tr.ProcessedAt = &now
			updated = *tr
			return nil
		})

		if status != TransferAccepted {
			return nil
		}

		store.Create(b, e.cols.Cashbook, CashbookEntry{
			MovementBase: entity.NewMovementBase(t.FromBusinessID, now, actor),
			Direction:    Outflow,
			Category:     CategoryTransferOut,
			Mode:         t.Mode,
			Amount:       t.Amount,
			Description:  e.transferNote("Transfer to", t.ToBusinessID, t.Description),
			TransferID:   t.ID,
		})
		store.Create(b, e.cols.Cashbook, CashbookEntry{
			MovementBase: entity.NewMovementBase(t.ToBusinessID, now, actor),
			Direction:    Inflow,
			Category:     CategoryTransferIn,
			Mode:         t.Mode,
			Amount:       t.Amount,
			Description:  e.transferNote("Transfer from", t.FromBusinessID, t.Description),
			TransferID:   t.ID,
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "transfer processed",
		"transfer_id", t.ID,
		"number", t.Number,
		"status", status)
	return &updated, nil
}

// transferNote labels a transfer entry with the counterparty business name,
// falling back to the raw id when the business cannot be read.
func (e *Engine) transferNote(prefix string, businessID id.ID, desc string) string {
	name := businessID.String()
	if biz, err := e.cols.Businesses.Get(businessID); err == nil {
		name = biz.Name
	}
	if desc == "" {
		return fmt.Sprintf("%s %s", prefix, name)
	}
	return fmt.Sprintf("%s %s: %s", prefix, name, desc)
}

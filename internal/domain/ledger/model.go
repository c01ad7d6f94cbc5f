// Package ledger provides the transaction records and the engine that fans a
// single business event out into its derived, mutually consistent records.
package ledger

import (
	"time"

	"ledgerbook/internal/core/entity"
	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/types"
)

// Direction of a cash movement.
type Direction string

const (
	Inflow  Direction = "inflow"
	Outflow Direction = "outflow"
)

// Category classifies a cashbook entry.
type Category string

const (
	CategorySale          Category = "sale"
	CategoryExpense       Category = "expense"
	CategoryDueCollection Category = "due_collection"
	CategoryTransferIn    Category = "transfer_in"
	CategoryTransferOut   Category = "transfer_out"
	CategoryOther         Category = "other"
)

// PaymentMode is the payment channel of a movement: cash counter, bank
// account, or third-party installment financing.
type PaymentMode string

const (
	ModeCash    PaymentMode = "cash"
	ModeBank    PaymentMode = "bank"
	ModeFinance PaymentMode = "finance"
)

// Valid reports whether the mode is one of the known channels.
func (m PaymentMode) Valid() bool {
	switch m {
	case ModeCash, ModeBank, ModeFinance:
		return true
	}
	return false
}

// CashbookEntry is the immutable financial record of truth: one cash movement
// for a business. Entries are append-only and never mutated or deleted.
type CashbookEntry struct {
	entity.MovementBase

	Direction   Direction   `json:"type"`
	Category    Category    `json:"category"`
	Mode        PaymentMode `json:"mode"`
	Amount      types.Money `json:"amount"`
	Description string      `json:"description,omitempty"`

	// Back-references; nil UUID means unset
	CustomerID id.ID `json:"customerId,omitzero"`
	ProductID  id.ID `json:"productId,omitzero"`
	TransferID id.ID `json:"transferId,omitzero"`
}

// DuePayment is one collection against a due entry.
type DuePayment struct {
	ID          id.ID       `json:"id"`
	Amount      types.Money `json:"amount"`
	Mode        PaymentMode `json:"mode"`
	Date        time.Time   `json:"date"`
	Description string      `json:"description,omitempty"`
}

// DueEntry tracks the unpaid remainder of a partially paid sale.
// Invariant: PaidAmount + DueAmount == TotalAmount at all times, and
// PaidAmount equals the sum of Payments.
type DueEntry struct {
	entity.Base

	BusinessID id.ID `json:"businessId"`
	CustomerID id.ID `json:"customerId"`
	ProductID  id.ID `json:"productId"`

	TotalAmount types.Money `json:"totalAmount"`
	PaidAmount  types.Money `json:"paidAmount"`
	DueAmount   types.Money `json:"dueAmount"`

	SaleDate time.Time    `json:"saleDate"`
	Payments []DuePayment `json:"payments"`
}

// applyPayment appends a collection and shifts the paid/due split by its
// amount. Bounds are checked by the engine before staging.
func (d *DueEntry) applyPayment(p DuePayment) {
	d.Payments = append(d.Payments, p)
	d.PaidAmount = d.PaidAmount.Add(p.Amount)
	d.DueAmount = d.DueAmount.Sub(p.Amount)
}

// TransferStatus is the state of an inter-business transfer.
// pending transitions to exactly one of accepted or rejected, exactly once.
type TransferStatus string

const (
	TransferPending  TransferStatus = "pending"
	TransferAccepted TransferStatus = "accepted"
	TransferRejected TransferStatus = "rejected"
)

// Transfer is a proposed movement of money between two businesses, subject to
// accept/reject by the receiving side. Money moves only on acceptance.
type Transfer struct {
	entity.Base

	Number string `json:"number,omitempty"`

	FromBusinessID id.ID `json:"fromBusinessId"`
	ToBusinessID   id.ID `json:"toBusinessId"`

	Amount      types.Money `json:"amount"`
	Mode        PaymentMode `json:"mode"`
	Description string      `json:"description,omitempty"`

	Status      TransferStatus `json:"status"`
	ProcessedBy string         `json:"processedBy,omitempty"`
	ProcessedAt *time.Time     `json:"processedAt,omitempty"`
}

// Sale records one line item sold to a customer.
// Invariants: CashAmount + BankAmount + FinanceAmount == PaidAmount and
// PaidAmount + DueAmount == TotalAmount.
type Sale struct {
	entity.Base

	BusinessID id.ID `json:"businessId"`
	CustomerID id.ID `json:"customerId"`
	ProductID  id.ID `json:"productId"`

	Quantity  int         `json:"quantity"`
	UnitPrice types.Money `json:"unitPrice"`

	TotalAmount types.Money `json:"totalAmount"`
	PaidAmount  types.Money `json:"paidAmount"`
	DueAmount   types.Money `json:"dueAmount"`

	CashAmount    types.Money `json:"cashAmount"`
	BankAmount    types.Money `json:"bankAmount"`
	FinanceAmount types.Money `json:"financeAmount"`

	SaleDate time.Time `json:"saleDate"`
}

// Purchase records goods bought into a business. The unpaid remainder is kept
// on the record but no payable ledger is opened against the supplier; that
// asymmetry is inherited from the reference system.
type Purchase struct {
	entity.Base

	BusinessID id.ID `json:"businessId"`
	ProductID  id.ID `json:"productId"`
	SupplierID id.ID `json:"supplierId,omitzero"`

	Quantity int         `json:"quantity"`
	UnitCost types.Money `json:"unitCost"`

	TotalAmount types.Money `json:"totalAmount"`
	PaidAmount  types.Money `json:"paidAmount"`
	DueAmount   types.Money `json:"dueAmount"`

	Mode          PaymentMode `json:"mode"`
	InvoiceNumber string      `json:"invoiceNumber,omitempty"`
	PurchaseDate  time.Time   `json:"purchaseDate"`
}

// StockDirection of an inventory change.
type StockDirection string

const (
	StockIn  StockDirection = "in"
	StockOut StockDirection = "out"
)

// StockMovement is one inventory change event. The ledger is append-only; the
// current level of a product is always the signed sum over its movements and
// is never stored, so there is no second source of truth to drift.
type StockMovement struct {
	entity.MovementBase

	ProductID id.ID          `json:"productId"`
	Quantity  int            `json:"quantity"`
	Direction StockDirection `json:"type"`
	Reason    string         `json:"reason,omitempty"`
}

/// SignedQuantity returns the movement's contribution to the stock level:
// positive for in, negative for out.
func (m StockMovement) SignedQuantity() int {
	if m.Direction == StockOut {
		return -m.Quantity
	}
	return m.Quantity
}

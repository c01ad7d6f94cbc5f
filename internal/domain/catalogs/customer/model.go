// Package customer provides the Customer catalog.
package customer

import (
	"ledgerbook/internal/core/apperror"
	"ledgerbook/internal/core/entity"
	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/types"
)

// Customer belongs to one business. TotalPurchases and TotalDue are
// denormalized running aggregates maintained exclusively by the ledger engine;
// catalog updates never touch them.
type Customer struct {
	entity.Base

	BusinessID id.ID  `json:"businessId"`
	Name       string `json:"name"`
	Mobile     string `json:"mobile"`
	Email      string `json:"email,omitempty"`

	TotalPurchases types.Money `json:"totalPurchases"`
	TotalDue       types.Money `json:"totalDue"`
}

// Input carries the editable fields of a customer.
type Input struct {
	BusinessID id.ID
	Name       string
	Mobile     string
	Email      string
}

// Validate checks the input invariants.
func (in Input) Validate() error {
	if id.IsNil(in.BusinessID) {
		return apperror.NewValidation("business is required").
			WithDetail("field", "businessId")
	}
	if in.Name == "" {
		return apperror.NewValidation("customer name is required").
			WithDetail("field", "name")
	}
	if in.Mobile == "" {
		return apperror.NewValidation("mobile number is required").
			WithDetail("field", "mobile")
	}
	return nil
}

// New creates a customer with zeroed aggregates.
func New(in Input, actor string) Customer {
	return Customer{
		Base:           entity.NewBase(actor),
		BusinessID:     in.BusinessID,
		Name:           in.Name,
		Mobile:         in.Mobile,
		Email:          in.Email,
		TotalPurchases: types.Zero(),
		TotalDue:       types.Zero(),
	}
}

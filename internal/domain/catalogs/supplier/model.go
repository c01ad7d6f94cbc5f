// Package supplier provides the Supplier catalog. Suppliers are optional
// references on purchases; no payable ledger is kept against them.
package supplier

import (
	"ledgerbook/internal/core/apperror"
	"ledgerbook/internal/core/entity"
	"ledgerbook/internal/core/id"
)

// Supplier belongs to one business.
type Supplier struct {
	entity.Base

	BusinessID id.ID  `json:"businessId"`
	Name       string `json:"name"`
	Mobile     string `json:"mobile"`
	Email      string `json:"email,omitempty"`
	Address    string `json:"address,omitempty"`
}

// Input carries the editable fields of a supplier.
type Input struct {
	BusinessID id.ID
	Name       string
	Mobile     string
	Email      string
	Address    string
}

// Validate checks the input invariants.
func (in Input) Validate() error {
	if id.IsNil(in.BusinessID) {
		return apperror.NewValidation("business is required").
			WithDetail("field", "businessId")
	}
	if in.Name == "" {
		return apperror.NewValidation("supplier name is required").
			WithDetail("field", "name")
	}
	return nil
}

// New creates a supplier from input.
func New(in Input, actor string) Supplier {
	return Supplier{
		Base:       entity.NewBase(actor),
		BusinessID: in.BusinessID,
		Name:       in.Name,
		Mobile:     in.Mobile,
		Email:      in.Email,
		Address:    in.Address,
	}
}

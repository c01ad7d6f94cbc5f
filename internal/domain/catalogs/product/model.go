// Package product provides the Product catalog.
package product

import (
	"ledgerbook/internal/core/apperror"
	"ledgerbook/internal/core/entity"
	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/types"
)

// Product belongs to one business. Products are soft-deleted via the Active
// flag because sales, purchases and stock movements hold non-owning
// references to them.
type Product struct {
	entity.Base

	BusinessID  id.ID  `json:"businessId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`

	SellingPrice types.Money `json:"price"`
	CostPrice    types.Money `json:"cost"`

	Active bool `json:"isActive"`
}

// Input carries the editable fields of a product.
type Input struct {
	BusinessID   id.ID
	Name         string
	Description  string
	Category     string
	SellingPrice types.Money
	CostPrice    types.Money
}

// Validate checks the input invariants.
func (in Input) Validate() error {
	if id.IsNil(in.BusinessID) {
		return apperror.NewValidation("business is required").
			WithDetail("field", "businessId")
	}
	if in.Name == "" {
		return apperror.NewValidation("product name is required").
			WithDetail("field", "name")
	}
	if in.SellingPrice.IsNegative() || in.CostPrice.IsNegative() {
		return apperror.NewInvalidAmount("prices must not be negative")
	}
	return nil
}

// New creates an active product from input.
func New(in Input, actor string) Product {
	return Product{
		Base:         entity.NewBase(actor),
		BusinessID:   in.BusinessID,
		Name:         in.Name,
		Description:  in.Description,
		Category:     in.Category,
		SellingPrice: in.SellingPrice,
		CostPrice:    in.CostPrice,
		Active:       true,
	}
}

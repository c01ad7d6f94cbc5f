// Package business provides the Business catalog: the top-level owning entity
// for all bookkeeping records.
package business

import (
	"regexp"

	"ledgerbook/internal/core/apperror"
	"ledgerbook/internal/core/entity"
)

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Business is a bookkeeping unit. Customers, products and every transaction
// record reference their owning business by id.
type Business struct {
	entity.Base

	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Address     string `json:"address,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`

	// Active marks whether the business is operating. Inactive businesses
	// keep their records.
	Active bool `json:"isActive"`
}

// Input carries the editable fields of a business.
type Input struct {
	Name        string
	Description string
	Address     string
	Phone       string
	Email       string
}

// Validate checks the input invariants.
func (in Input) Validate() error {
	if in.Name == "" {
		return apperror.NewValidation("business name is required").
			WithDetail("field", "name")
	}
	if in.Email != "" && !emailRE.MatchString(in.Email) {
		return apperror.NewValidation("invalid email address").
			WithDetail("field", "email")
	}
	return nil
}

// New creates an active business from input.
func New(in Input, actor string) Business {
	return Business{
		Base:        entity.NewBase(actor),
		Name:        in.Name,
		Description: in.Description,
		Address:     in.Address,
		Phone:       in.Phone,
		Email:       in.Email,
		Active:      true,
	}
}
